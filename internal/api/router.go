package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/identitylab/auth-service/internal/api/handler"
	"github.com/identitylab/auth-service/internal/api/middleware"
	"github.com/identitylab/auth-service/internal/core/ports"
	"github.com/identitylab/auth-service/internal/core/service"
	"github.com/identitylab/auth-service/internal/infrastructure/config"
	mongodb "github.com/identitylab/auth-service/internal/infrastructure/db/mongo"
	redisdb "github.com/identitylab/auth-service/internal/infrastructure/db/redis"
)

const sessionTTL = 7 * 24 * time.Hour

// Per-IP fixed-window limits. OTP sends are the tightest: each one
// costs an outbound mail.
const (
	loginLimit    = 10
	registerLimit = 5
	otpSendLimit  = 3
	resetLimit    = 10
	limitWindow   = time.Minute
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, notifier ports.Notifier, mailq ports.MailQueue, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("auth"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	issuer := service.NewTokenIssuer(cfg.JWTSecret, sessionTTL)
	authService := service.NewAuthService(userRepo, issuer, notifier, mailq, log)

	authHandler := handler.NewAuthHandler(authService, cfg.Production())
	userHandler := handler.NewUserHandler(authService)

	authMW := middleware.Auth(issuer)
	limiter := redisdb.NewLimiter(rdb)
	loginRL := middleware.RateLimit(limiter, "login", loginLimit, limitWindow, log)
	registerRL := middleware.RateLimit(limiter, "register", registerLimit, limitWindow, log)
	otpRL := middleware.RateLimit(limiter, "otp", otpSendLimit, limitWindow, log)
	resetRL := middleware.RateLimit(limiter, "reset", resetLimit, limitWindow, log)

	// --- Public routes ---
	e.POST("/register", authHandler.Register, registerRL)
	e.POST("/login", authHandler.Login, loginRL)
	e.POST("/logout", authHandler.Logout)
	e.POST("/send-reset-password-otp", authHandler.SendResetPasswordOTP, otpRL)
	e.POST("/reset-password", authHandler.ResetPassword, resetRL)

	// --- Session-protected routes ---
	e.POST("/send-verification-otp", authHandler.SendVerificationOTP, authMW, otpRL)
	e.POST("/verify-otp", authHandler.VerifyOTP, authMW)
	e.POST("/is-authenticated", authHandler.IsAuthenticated, authMW)
	e.GET("/get-user-data", userHandler.GetUserData, authMW)

	// --- Operational endpoints ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
