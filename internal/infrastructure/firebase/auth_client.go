package firebase

import (
	"context"

	"firebase.google.com/go/v4/auth"

	"mateswap/internal/domain/entity"
)

type FirebaseAuthClient struct {
	client *auth.Client
}

func NewFirebaseAuthClient(client *auth.Client) *FirebaseAuthClient {
	return &FirebaseAuthClient{
		client: client,
	}
}

// VerifyIdentity checks an ID token and returns the caller it belongs to.
func (f *FirebaseAuthClient) VerifyIdentity(ctx context.Context, idToken string) (*entity.Identity, error) {
	token, err := f.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}

	return IdentityFromToken(token), nil
}

// IdentityFromToken maps standard Firebase claims onto an Identity. The
// admin flag comes from the "admin" custom claim.
func IdentityFromToken(token *auth.Token) *entity.Identity {
	identity := &entity.Identity{UID: token.UID}
	if v, ok := token.Claims["name"].(string); ok {
		identity.Name = v
	}
	if v, ok := token.Claims["email"].(string); ok {
		identity.Email = v
	}
	if v, ok := token.Claims["picture"].(string); ok {
		identity.PhotoURL = v
	}
	if v, ok := token.Claims["admin"].(bool); ok {
		identity.IsAdmin = v
	}
	return identity
}
