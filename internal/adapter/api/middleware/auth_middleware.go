package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"mateswap/internal/domain/entity"
	"mateswap/pkg/errors"
	"mateswap/pkg/response"
)

const identityKey = "identity"

// IdentityVerifier turns a Firebase ID token into the caller's identity.
type IdentityVerifier interface {
	VerifyIdentity(ctx context.Context, idToken string) (*entity.Identity, error)
}

type AuthMiddleware struct {
	verifier IdentityVerifier
}

func NewAuthMiddleware(verifier IdentityVerifier) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
	}
}

func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return response.Error(c, errors.Unauthorized("Authorization header is required, please log in", nil))
		}

		idToken, ok := bearerToken(authHeader)
		if !ok {
			return response.Error(c, errors.Unauthorized("Invalid authorization format", nil))
		}

		identity, err := m.verifier.VerifyIdentity(c.Request().Context(), idToken)
		if err != nil {
			return response.Error(c, errors.Unauthorized("Invalid or expired token, please log in again", err))
		}

		SetIdentity(c, identity)
		return next(c)
	}
}

// OptionalAuth resolves the caller when a valid token is present and lets
// anonymous requests through unchanged.
func (m *AuthMiddleware) OptionalAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		idToken, ok := bearerToken(c.Request().Header.Get("Authorization"))
		if !ok {
			return next(c)
		}

		identity, err := m.verifier.VerifyIdentity(c.Request().Context(), idToken)
		if err != nil {
			return next(c)
		}

		SetIdentity(c, identity)
		return next(c)
	}
}

// IdentityFromToken verifies a raw token, for transports that cannot send
// headers.
func (m *AuthMiddleware) IdentityFromToken(ctx context.Context, token string) (*entity.Identity, error) {
	if token == "" {
		return nil, errors.Unauthorized("Token is required", nil)
	}
	identity, err := m.verifier.VerifyIdentity(ctx, token)
	if err != nil {
		return nil, errors.Unauthorized("Invalid or expired token", err)
	}
	return identity, nil
}

func SetIdentity(c echo.Context, identity *entity.Identity) {
	c.Set(identityKey, identity)
	c.Set("uid", identity.UID)
}

// IdentityFrom returns the authenticated caller, or nil.
func IdentityFrom(c echo.Context) *entity.Identity {
	identity, _ := c.Get(identityKey).(*entity.Identity)
	return identity
}

func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
