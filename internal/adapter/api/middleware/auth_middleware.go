package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"ecosprout/internal/infrastructure/auth"
	"ecosprout/pkg/errors"
	"ecosprout/pkg/response"
)

// Context keys set for authenticated requests.
const (
	ContextUserID = "uid"
	ContextRole   = "role"
	ContextAdmin  = "admin"
)

type TokenVerifier interface {
	Verify(raw string) (*auth.Claims, error)
}

type AuthMiddleware struct {
	tokens TokenVerifier
}

func NewAuthMiddleware(tokens TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{
		tokens: tokens,
	}
}

func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return response.Error(c, errors.Unauthorized("Authorization header is required", nil))
		}

		raw, ok := bearerToken(authHeader)
		if !ok {
			return response.Error(c, errors.Unauthorized("Invalid authorization format", nil))
		}

		claims, err := m.tokens.Verify(raw)
		if err != nil {
			return response.Error(c, errors.Unauthorized("Invalid or expired token", err))
		}

		setClaims(c, claims)
		return next(c)
	}
}

// OptionalAuth attaches the caller when a valid token is present and otherwise
// lets the request through anonymously.
func (m *AuthMiddleware) OptionalAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization)); ok {
			if claims, err := m.tokens.Verify(raw); err == nil {
				setClaims(c, claims)
			}
		}
		return next(c)
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func setClaims(c echo.Context, claims *auth.Claims) {
	c.Set(ContextUserID, claims.Subject)
	c.Set(ContextRole, claims.Role)
	c.Set(ContextAdmin, claims.Admin)
}
