package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/identitylab/auth-service/internal/core/domain"
	"github.com/identitylab/auth-service/internal/core/ports"
)

const (
	// tokenCookie is the single session transport: an HttpOnly cookie
	// holding the signed token. SameSite=None keeps it usable from a
	// separate frontend origin; Secure is enforced in production.
	tokenCookie  = "token"
	cookieMaxAge = 7 * 24 * time.Hour
)

type AuthHandler struct {
	authService ports.AuthService
	secure      bool
}

// NewAuthHandler creates an AuthHandler. secure controls the cookie's
// Secure flag and should be true in production.
func NewAuthHandler(authService ports.AuthService, secure bool) *AuthHandler {
	return &AuthHandler{authService: authService, secure: secure}
}

func (h *AuthHandler) setSessionCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     tokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteNoneMode,
	})
}

func (h *AuthHandler) clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     tokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteNoneMode,
	})
}

// Register creates a new account and opens a session.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  response
// @Failure      400   {object}  response
// @Router       /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, token, err := h.authService.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}

	h.setSessionCookie(c, token)
	return c.JSON(http.StatusCreated, response{
		Success: true,
		Message: "Registration successful",
		Data:    registerData{Email: user.Email},
	})
}

// Login authenticates a user and opens a session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  response
// @Failure      401   {object}  response
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, token, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	h.setSessionCookie(c, token)
	return c.JSON(http.StatusOK, response{
		Success: true,
		Message: "Login successful",
		Data:    loginData{Email: user.Email, Name: user.Name, IsVerified: user.Verified},
	})
}

// Logout clears the session cookie. Sessions are stateless, so there is
// nothing to revoke server-side.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response
// @Failure      401  {object}  response
// @Router       /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if _, err := c.Cookie(tokenCookie); err != nil {
		return domain.ErrNoSession
	}

	h.clearSessionCookie(c)
	return c.JSON(http.StatusOK, response{Success: true, Message: "Logout successful"})
}

// SendVerificationOTP issues a verification code for the logged-in user
// and mails it.
//
// @Summary      Send account verification OTP
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response
// @Failure      400  {object}  response
// @Failure      401  {object}  response
// @Failure      404  {object}  response
// @Router       /send-verification-otp [post]
func (h *AuthHandler) SendVerificationOTP(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := h.authService.SendVerificationOTP(c.Request().Context(), userID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, response{Success: true, Message: "Verification OTP sent successfully"})
}

// VerifyOTP consumes the verification code and marks the account verified.
//
// @Summary      Verify account with OTP
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      verifyOTPRequest  true  "One-time code"
// @Success      200   {object}  response
// @Failure      400   {object}  response
// @Failure      401   {object}  response
// @Router       /verify-otp [post]
func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req verifyOTPRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.VerifyAccount(c.Request().Context(), userID, req.OTP); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, response{Success: true, Message: "Account verified successfully"})
}

// IsAuthenticated reports that the session cookie verified. Reaching the
// handler is the entire contract; the auth middleware did the work.
//
// @Summary      Check session validity
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response
// @Failure      401  {object}  response
// @Router       /is-authenticated [post]
func (h *AuthHandler) IsAuthenticated(c echo.Context) error {
	if _, err := ctxUserID(c); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, response{Success: true, Message: "User is authenticated"})
}

// SendResetPasswordOTP issues a password-reset code for a verified
// account. Public route: identification is by email.
//
// @Summary      Send password reset OTP
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      sendResetOTPRequest  true  "Account email"
// @Success      200   {object}  response
// @Failure      400   {object}  response
// @Failure      404   {object}  response
// @Router       /send-reset-password-otp [post]
func (h *AuthHandler) SendResetPasswordOTP(c echo.Context) error {
	var req sendResetOTPRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.SendResetPasswordOTP(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, response{Success: true, Message: "Password reset OTP sent successfully"})
}

// ResetPassword consumes the reset code and replaces the password.
//
// @Summary      Reset password with OTP
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      resetPasswordRequest  true  "Email, code and new password"
// @Success      200   {object}  response
// @Failure      400   {object}  response
// @Failure      404   {object}  response
// @Router       /reset-password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ResetPassword(c.Request().Context(), req.Email, req.OTP, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, response{Success: true, Message: "Password reset successful"})
}
