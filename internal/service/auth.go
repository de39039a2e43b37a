package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image/png"
	"strings"
	"time"

	"github.com/atinyakov/GophStore/internal/metrics"
	"github.com/atinyakov/GophStore/internal/models"
	"github.com/atinyakov/GophStore/internal/repository"
	"github.com/atinyakov/GophStore/internal/validator"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository defines the persistence operations
// required by the authentication service.
type UserRepository interface {
	// FindByEmail returns repository.ErrNotFound for unknown emails.
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, u *models.User) error
	SetTwoFactorSecret(ctx context.Context, id, secret string) error
	RecordFailedAttempt(ctx context.Context, id string, attempts int, lockedUntil *time.Time) error
	ResetFailedAttempts(ctx context.Context, id string, at time.Time) error
}

// AuthConfig tunes the login flow.
type AuthConfig struct {
	// Issuer labels the TOTP entry in authenticator apps.
	Issuer string
	// MaxFailedAttempts consecutive failures lock the account.
	MaxFailedAttempts int
	// LockoutDuration is how long a locked account stays locked.
	LockoutDuration time.Duration
	// FailureDelay slows down every rejected password.
	FailureDelay time.Duration
}

const qrSize = 200

var totpOpts = totp.ValidateOpts{Period: 30, Skew: 1, Digits: otp.DigitsSix, Algorithm: otp.AlgorithmSHA1}

// AuthService implements the two-step back-office login.
type AuthService struct {
	users UserRepository
	cfg   AuthConfig
	log   *zap.Logger
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration)
}

// NewAuthService constructs an AuthService.
func NewAuthService(users UserRepository, cfg AuthConfig, log *zap.Logger) *AuthService {
	if cfg.MaxFailedAttempts <= 0 {
		cfg.MaxFailedAttempts = 5
	}
	if cfg.LockoutDuration <= 0 {
		cfg.LockoutDuration = 30 * time.Minute
	}
	if cfg.Issuer == "" {
		cfg.Issuer = "GophStore"
	}
	return &AuthService{users: users, cfg: cfg, log: log, now: time.Now, sleep: sleepCtx}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// Challenge is the outcome of a correct password: the caller must now
// ask for a second-factor code.
type Challenge struct {
	UserID string
	Email  string
	// Enroll is set when the user had no TOTP secret yet; Secret and
	// QRCode (base64 PNG) must be shown once.
	Enroll bool
	Secret string
	QRCode string
}

// CheckPassword runs the first login step. A locked user is rejected
// before the password is compared.
func (s *AuthService) CheckPassword(ctx context.Context, email, password string) (*Challenge, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	u, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		metrics.LoginFailures.WithLabelValues("password").Inc()
		s.sleep(ctx, s.cfg.FailureDelay)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	now := s.now()
	if u.IsLocked(now) {
		metrics.LoginFailures.WithLabelValues("locked").Inc()
		return nil, ErrAccountLocked
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		if err := s.recordFailure(ctx, u, now); err != nil {
			return nil, err
		}
		metrics.LoginFailures.WithLabelValues("password").Inc()
		s.sleep(ctx, s.cfg.FailureDelay)
		return nil, ErrInvalidCredentials
	}

	ch := &Challenge{UserID: u.ID, Email: u.Email}
	if u.TwoFactorSecret != "" {
		return ch, nil
	}

	key, err := totp.Generate(totp.GenerateOpts{Issuer: s.cfg.Issuer, AccountName: u.Email})
	if err != nil {
		return nil, fmt.Errorf("generate totp secret: %w", err)
	}
	if err := s.users.SetTwoFactorSecret(ctx, u.ID, key.Secret()); err != nil {
		return nil, err
	}
	qr, err := qrCode(key)
	if err != nil {
		return nil, err
	}
	ch.Enroll, ch.Secret, ch.QRCode = true, key.Secret(), qr
	s.log.Info("2FA enrollment started", zap.String("user", u.ID))
	return ch, nil
}

func (s *AuthService) recordFailure(ctx context.Context, u *models.User, now time.Time) error {
	attempts := u.FailedAttempts + 1
	lockedUntil := u.LockedUntil
	if attempts >= s.cfg.MaxFailedAttempts {
		until := now.Add(s.cfg.LockoutDuration)
		lockedUntil = &until
		s.log.Warn("user locked out", zap.String("user", u.ID), zap.Int("attempts", attempts))
	}
	if err := s.users.RecordFailedAttempt(ctx, u.ID, attempts, lockedUntil); err != nil {
		return err
	}
	return nil
}

func qrCode(key *otp.Key) (string, error) {
	img, err := key.Image(qrSize, qrSize)
	if err != nil {
		return "", fmt.Errorf("render qr code: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode qr code: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// VerifyCode runs the second login step for the user that passed
// CheckPassword. A wrong code counts as a failed attempt.
func (s *AuthService) VerifyCode(ctx context.Context, userID, code string) (*models.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	now := s.now()
	if u.IsLocked(now) {
		metrics.LoginFailures.WithLabelValues("locked").Inc()
		return nil, ErrAccountLocked
	}

	ok, err := totp.ValidateCustom(strings.TrimSpace(code), u.TwoFactorSecret, now, totpOpts)
	if err != nil || !ok || u.TwoFactorSecret == "" {
		if err := s.recordFailure(ctx, u, now); err != nil {
			return nil, err
		}
		metrics.LoginFailures.WithLabelValues("code").Inc()
		return nil, ErrInvalidCode
	}

	if err := s.users.ResetFailedAttempts(ctx, u.ID, now.UTC()); err != nil {
		return nil, err
	}
	s.log.Info("user logged in", zap.String("user", u.ID))
	return u, nil
}

// CreateUser stores a user with a bcrypt hash of password.
func (s *AuthService) CreateUser(ctx context.Context, email, password string, admin bool) (*models.User, error) {
	email = strings.TrimSpace(email)
	if err := validator.ValidateEmail(email); err != nil {
		return nil, invalid(err)
	}
	if len(password) < 8 {
		return nil, invalid(errors.New("password must have at least 8 characters"))
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &models.User{Email: email, PasswordHash: string(hash), IsAdmin: admin}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}
