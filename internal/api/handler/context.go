package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/identitylab/auth-service/internal/core/domain"
)

// ctxUserID extracts the user ID injected by the Auth middleware.
// Absence means the middleware did not run or the token carried no
// identity; either way the request is unauthenticated.
func ctxUserID(c echo.Context) (string, error) {
	id, _ := c.Get("user_id").(string)
	if id == "" {
		return "", domain.ErrSessionInvalid
	}
	return id, nil
}
