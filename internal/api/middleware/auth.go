package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/identitylab/auth-service/internal/core/domain"
	"github.com/identitylab/auth-service/internal/core/ports"
)

const tokenCookie = "token"

// Auth verifies the session cookie and injects the user ID into context.
// No server-side state is consulted: a token is valid iff its signature
// checks out and it has not expired.
func Auth(issuer ports.TokenIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(tokenCookie)
			if err != nil || cookie.Value == "" {
				return domain.ErrNoSession
			}

			userID, err := issuer.Verify(cookie.Value)
			if err != nil {
				return err
			}

			c.Set("user_id", userID)
			return next(c)
		}
	}
}
