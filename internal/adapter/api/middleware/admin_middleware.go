package middleware

import (
	"github.com/labstack/echo/v4"

	"mateswap/internal/domain/entity"
	"mateswap/internal/domain/repository"
	"mateswap/pkg/errors"
	"mateswap/pkg/response"
)

type AdminMiddleware struct {
	userRepo repository.UserRepository
}

func NewAdminMiddleware(userRepo repository.UserRepository) *AdminMiddleware {
	return &AdminMiddleware{
		userRepo: userRepo,
	}
}

// AdminOnly accepts callers whose users/{uid} document has role "admin" or
// whose token carries the admin claim.
func (m *AdminMiddleware) AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		identity := IdentityFrom(c)
		if identity == nil {
			return response.Error(c, errors.Unauthorized("Authentication required", nil))
		}

		if !identity.IsAdmin {
			user, err := m.userRepo.GetByID(c.Request().Context(), identity.UID)
			if err != nil {
				if errors.IsNotFound(err) {
					return response.Error(c, errors.Forbidden("Admin privileges required", nil))
				}
				return response.Error(c, errors.Internal("Failed to verify admin privileges", err))
			}
			if user.Role != entity.RoleAdmin {
				return response.Error(c, errors.Forbidden("Admin privileges required", nil))
			}
			identity.IsAdmin = true
		}

		return next(c)
	}
}
