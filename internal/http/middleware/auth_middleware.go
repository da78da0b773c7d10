package middleware

import (
	"net/http"

	"notebloc/internal/domain/entity"
	"notebloc/internal/utils/apierror"
	"notebloc/internal/utils/token"

	"github.com/labstack/echo/v4"
)

type UserRepository interface {
	FindByID(id string) (*entity.User, error)
}

type AuthMiddlewareConfig struct {
	UserRepo UserRepository
	Tokens   *token.Issuer
}

// NewAuthMiddleware creates the handler with dependencies injected.
// It resolves the bearer token to a user row on every request, so a
// deleted account stops authenticating immediately even with a live token.
func NewAuthMiddleware(cfg *AuthMiddlewareConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenData, err := cfg.Tokens.ParseTokenDataCtx(c)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
			}

			user, err := cfg.UserRepo.FindByID(tokenData.Sub)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, apierror.InternalServerError)
			}

			if user == nil {
				// User deleted in DB but still has a valid token???
				return c.JSON(http.StatusUnauthorized, apierror.UnauthorizedError)
			}

			c.Set("user", user)
			return next(c)
		}
	}
}
