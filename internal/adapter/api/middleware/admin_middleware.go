package middleware

import (
	"github.com/labstack/echo/v4"

	"ecosprout/internal/domain/repository"
	"ecosprout/pkg/errors"
	"ecosprout/pkg/response"
)

type AdminMiddleware struct {
	userRepo repository.UserRepository
}

func NewAdminMiddleware(userRepo repository.UserRepository) *AdminMiddleware {
	return &AdminMiddleware{
		userRepo: userRepo,
	}
}

// AdminOnly re-reads the user so a revoked admin flag takes effect before the token expires.
func (m *AdminMiddleware) AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		uid, ok := c.Get(ContextUserID).(string)
		if !ok || uid == "" {
			return response.Error(c, errors.Unauthorized("Authentication required", nil))
		}

		user, err := m.userRepo.GetByID(c.Request().Context(), uid)
		if err != nil {
			if errors.IsNotFound(err) {
				return response.Error(c, errors.Unauthorized("Authentication required", nil))
			}
			return response.Error(c, err)
		}

		if !user.IsAdmin {
			return response.Error(c, errors.Forbidden("Admin privileges required", nil))
		}

		return next(c)
	}
}

// RequireRole admits callers whose token role is one of roles. Admins always pass.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid, _ := c.Get(ContextUserID).(string)
			if uid == "" {
				return response.Error(c, errors.Unauthorized("Authentication required", nil))
			}
			if admin, _ := c.Get(ContextAdmin).(bool); admin {
				return next(c)
			}
			role, _ := c.Get(ContextRole).(string)
			for _, r := range roles {
				if role == r {
					return next(c)
				}
			}
			return response.Error(c, errors.Forbidden("User role is not authorized to access this route", nil))
		}
	}
}
