package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/identitylab/auth-service/internal/core/domain"
	"github.com/identitylab/auth-service/internal/core/ports"
	"github.com/identitylab/auth-service/internal/metrics"
)

const passwordMinLength = 6

// AuthService implements the authentication flows: registration, login,
// account verification and password reset. It owns no state of its own;
// every durable mutation goes through the repository, and notifications
// are sent only after the corresponding write has committed.
type AuthService struct {
	repo     ports.UserRepository
	issuer   ports.TokenIssuer
	notifier ports.Notifier
	mailq    ports.MailQueue
	logger   zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, issuer ports.TokenIssuer, notifier ports.Notifier, mailq ports.MailQueue, logger zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, issuer: issuer, notifier: notifier, mailq: mailq, logger: logger}
}

// normalizeEmail makes lookups case-insensitive: every email entering
// the service is trimmed and lowercased before it touches the store.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.User, string, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, "", domain.ErrInvalidInput
	}
	if len(password) < passwordMinLength {
		return nil, "", domain.ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			metrics.RegistrationsTotal.WithLabelValues("conflict").Inc()
		}
		return nil, "", err
	}
	metrics.RegistrationsTotal.WithLabelValues("created").Inc()

	token, err := s.issuer.Mint(created)
	if err != nil {
		return nil, "", fmt.Errorf("mint token: %w", err)
	}

	// The user record is the durable side effect; the welcome mail is
	// best-effort and must not fail the registration.
	s.mailq.Enqueue(ports.Message{
		To:      created.Email,
		Subject: "Registration Successful",
		Body:    fmt.Sprintf("Welcome, %s! Your registration was successful.", created.Name),
	})
	metrics.MailsEnqueuedTotal.Inc()

	s.logger.Info().Str("user_id", created.ID).Msg("user registered")
	return created, token, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", domain.ErrInvalidInput
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Same failure as a wrong password: callers must not be able
			// to probe which emails are registered.
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.issuer.Mint(user)
	if err != nil {
		return nil, "", fmt.Errorf("mint token: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.logger.Info().Str("user_id", user.ID).Msg("user logged in")
	return user, token, nil
}

func (s *AuthService) SendVerificationOTP(ctx context.Context, userID string) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.Verified {
		return domain.ErrAlreadyVerified
	}

	rec, err := issueOTP(time.Now().UTC())
	if err != nil {
		return err
	}
	// Conditional on the code observed above: a concurrent issue for the
	// same user cannot be silently overwritten mid-flight.
	if err := s.repo.SwapVerifyOTP(ctx, user.ID, user.VerifyOTP.Code, rec); err != nil {
		return err
	}
	metrics.OTPIssuedTotal.WithLabelValues("verify").Inc()

	if err := s.notifier.Send(ctx, ports.Message{
		To:      user.Email,
		Subject: "Account Verification OTP",
		Body:    fmt.Sprintf("Your verification OTP is %s. This OTP will expire in %d minutes.", rec.Code, int(otpTTL.Minutes())),
	}); err != nil {
		// The OTP is already committed and stays valid; only delivery failed.
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("verification otp delivery failed")
		return fmt.Errorf("send verification otp: %w", err)
	}

	return nil
}

func (s *AuthService) VerifyAccount(ctx context.Context, userID, code string) error {
	if code == "" {
		return domain.ErrInvalidInput
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := validateOTP(user.VerifyOTP, code, time.Now().UTC()); err != nil {
		metrics.OTPValidationsTotal.WithLabelValues("verify", otpResult(err)).Inc()
		return err
	}

	// One write consumes the code and flips the flag; a concurrently
	// reissued code makes this a no-op conflict instead of a lost update.
	if err := s.repo.MarkVerified(ctx, user.ID, user.VerifyOTP.Code); err != nil {
		return err
	}
	metrics.OTPValidationsTotal.WithLabelValues("verify", "success").Inc()

	s.logger.Info().Str("user_id", user.ID).Msg("account verified")
	return nil
}

func (s *AuthService) SendResetPasswordOTP(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return domain.ErrInvalidInput
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if !user.Verified {
		return domain.ErrNotVerified
	}

	rec, err := issueOTP(time.Now().UTC())
	if err != nil {
		return err
	}
	if err := s.repo.SwapResetOTP(ctx, user.ID, user.ResetOTP.Code, rec); err != nil {
		return err
	}
	metrics.OTPIssuedTotal.WithLabelValues("reset").Inc()

	if err := s.notifier.Send(ctx, ports.Message{
		To:      user.Email,
		Subject: "Password Reset OTP",
		Body:    fmt.Sprintf("Your password reset OTP is %s. This OTP will expire in %d minutes.", rec.Code, int(otpTTL.Minutes())),
	}); err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("reset otp delivery failed")
		return fmt.Errorf("send reset otp: %w", err)
	}

	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	email = normalizeEmail(email)
	if email == "" || code == "" || newPassword == "" {
		return domain.ErrInvalidInput
	}
	if len(newPassword) < passwordMinLength {
		return domain.ErrWeakPassword
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	if err := validateOTP(user.ResetOTP, code, time.Now().UTC()); err != nil {
		metrics.OTPValidationsTotal.WithLabelValues("reset", otpResult(err)).Inc()
		return err
	}

	// Compared through the stored hash, never as plaintext equality.
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(newPassword)) == nil {
		return domain.ErrSamePassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.repo.UpdatePassword(ctx, user.ID, user.ResetOTP.Code, string(hash)); err != nil {
		return err
	}
	metrics.OTPValidationsTotal.WithLabelValues("reset", "success").Inc()

	s.logger.Info().Str("user_id", user.ID).Msg("password reset")
	return nil
}

func (s *AuthService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.FindByID(ctx, userID)
}

func otpResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrOTPMissing):
		return "missing"
	case errors.Is(err, domain.ErrOTPExpired):
		return "expired"
	default:
		return "mismatch"
	}
}
