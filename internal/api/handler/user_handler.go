package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/identitylab/auth-service/internal/core/ports"
)

type UserHandler struct {
	authService ports.AuthService
}

func NewUserHandler(authService ports.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

// GetUserData returns the profile of the logged-in user.
//
// @Summary      Get user profile
// @Tags         user
// @Produce      json
// @Success      200  {object}  response
// @Failure      401  {object}  response
// @Failure      404  {object}  response
// @Router       /get-user-data [get]
func (h *UserHandler) GetUserData(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	user, err := h.authService.GetUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, response{
		Success: true,
		Message: "User data retrieved successfully",
		Data: userData{
			ID:         user.ID,
			Name:       user.Name,
			Email:      user.Email,
			IsVerified: user.Verified,
			CreatedAt:  user.CreatedAt,
			UpdatedAt:  user.UpdatedAt,
		},
	})
}
