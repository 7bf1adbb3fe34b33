package service

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/harborlabs/account-api/internal/domain"
	"github.com/harborlabs/account-api/internal/repository/ports"
	"github.com/harborlabs/account-api/internal/util"
)

var (
	ErrValidation         = errors.New("missing required details")
	ErrEmailTaken         = errors.New("account already exists")
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidOTP         = errors.New("invalid otp")
	ErrOTPExpired         = errors.New("otp expired")
	ErrAlreadyVerified    = errors.New("account already verified")
)

// Mailer is the outbound email collaborator. Implementations deliver plain
// text; the service never sees transport configuration.
type Mailer interface {
	SendWelcome(ctx context.Context, email, name string) error
	SendVerifyOTP(ctx context.Context, email, otp string) error
	SendPasswordResetOTP(ctx context.Context, email, otp string) error
}

type AccountServiceConfig struct {
	VerifyOTPTTL time.Duration
	ResetOTPTTL  time.Duration
}

const (
	defaultVerifyOTPTTL = 24 * time.Hour
	defaultResetOTPTTL  = 10 * time.Minute
	otpDigits           = 6
)

type AccountService struct {
	accounts ports.AccountRepository
	mailer   Mailer
	tokens   *util.JWTManager

	verifyOTPTTL time.Duration
	resetOTPTTL  time.Duration
	now          func() time.Time
}

func NewAccountService(accounts ports.AccountRepository, mailer Mailer, tokens *util.JWTManager, cfg AccountServiceConfig) *AccountService {
	verifyTTL := cfg.VerifyOTPTTL
	if verifyTTL <= 0 {
		verifyTTL = defaultVerifyOTPTTL
	}
	resetTTL := cfg.ResetOTPTTL
	if resetTTL <= 0 {
		resetTTL = defaultResetOTPTTL
	}
	return &AccountService{
		accounts:     accounts,
		mailer:       mailer,
		tokens:       tokens,
		verifyOTPTTL: verifyTTL,
		resetOTPTTL:  resetTTL,
		now:          time.Now,
	}
}

type SessionToken struct {
	Value     string
	ExpiresAt time.Time
}

// Register creates the account, then issues the session token for the
// persisted id. The welcome email is best effort: a delivery failure is
// logged and never rolls back the created account.
func (s *AccountService) Register(ctx context.Context, name, email, password string) (*domain.Account, *SessionToken, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, nil, ErrValidation
	}

	if _, err := s.accounts.FindByEmail(ctx, email); err == nil {
		return nil, nil, ErrEmailTaken
	} else if !isNotFound(err) {
		return nil, nil, err
	}

	hash, salt, err := util.DeriveSecret(password)
	if err != nil {
		return nil, nil, err
	}

	account, err := s.accounts.Create(ctx, name, email, hash, salt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, nil, ErrEmailTaken
		}
		return nil, nil, err
	}

	token, err := s.issueToken(account.ID)
	if err != nil {
		return nil, nil, err
	}

	if err := s.mailer.SendWelcome(ctx, account.Email, account.Name); err != nil {
		log.Printf("welcome email to %s failed: %v", account.Email, err)
	}

	return account, token, nil
}

// Login answers the same error for an unknown email and a wrong password.
func (s *AccountService) Login(ctx context.Context, email, password string) (*SessionToken, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrValidation
	}

	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !util.VerifySecret(password, account.PasswordSalt, account.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.issueToken(account.ID)
}

// SendVerifyOTP stores a fresh verification code in clear text and mails it.
// Returns the destination address for the confirmation message.
func (s *AccountService) SendVerifyOTP(ctx context.Context, accountID uuid.UUID) (string, error) {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		if isNotFound(err) {
			return "", ErrAccountNotFound
		}
		return "", err
	}
	if account.IsVerified {
		return "", ErrAlreadyVerified
	}

	otp, err := util.GenerateNumericOTP(otpDigits)
	if err != nil {
		return "", err
	}

	expiresAt := s.now().Add(s.verifyOTPTTL)
	if err := s.accounts.SetVerifyOTP(ctx, account.ID, otp, expiresAt); err != nil {
		return "", err
	}

	if err := s.mailer.SendVerifyOTP(ctx, account.Email, otp); err != nil {
		return "", err
	}
	return account.Email, nil
}

// VerifyEmail consumes the verification code: the verified flag flips at most
// once and the code is cleared so it cannot be replayed.
func (s *AccountService) VerifyEmail(ctx context.Context, accountID uuid.UUID, otp string) (string, error) {
	if otp == "" {
		return "", ErrValidation
	}

	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		if isNotFound(err) {
			return "", ErrAccountNotFound
		}
		return "", err
	}

	if account.VerifyOTP == "" || account.VerifyOTP != otp {
		return "", ErrInvalidOTP
	}
	if account.VerifyOTPExpiresAt == nil || !s.now().Before(*account.VerifyOTPExpiresAt) {
		return "", ErrOTPExpired
	}

	if err := s.accounts.MarkVerified(ctx, account.ID); err != nil {
		return "", err
	}
	return account.Email, nil
}

// SendPasswordResetOTP is keyed by email, not session. The code is hashed at
// rest; only the email carries the plaintext.
func (s *AccountService) SendPasswordResetOTP(ctx context.Context, email string) (string, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return "", ErrValidation
	}

	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return "", ErrAccountNotFound
		}
		return "", err
	}

	otp, err := util.GenerateNumericOTP(otpDigits)
	if err != nil {
		return "", err
	}
	hash, salt, err := util.DeriveSecret(otp)
	if err != nil {
		return "", err
	}

	expiresAt := s.now().Add(s.resetOTPTTL)
	if err := s.accounts.SetResetOTP(ctx, account.ID, hash, salt, expiresAt); err != nil {
		return "", err
	}

	if err := s.mailer.SendPasswordResetOTP(ctx, account.Email, otp); err != nil {
		return "", err
	}
	return account.Email, nil
}

// ResetPassword checks expiry before the code itself, mirroring the
// verification flow's opposite ordering. An account with no pending reset
// reads as expired.
func (s *AccountService) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	email = NormalizeEmail(email)
	if email == "" || otp == "" || newPassword == "" {
		return ErrValidation
	}

	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return ErrAccountNotFound
		}
		return err
	}

	if account.ResetOTPExpiresAt == nil || !s.now().Before(*account.ResetOTPExpiresAt) {
		return ErrOTPExpired
	}
	if !util.VerifySecret(otp, account.ResetOTPSalt, account.ResetOTPHash) {
		return ErrInvalidOTP
	}

	hash, salt, err := util.DeriveSecret(newPassword)
	if err != nil {
		return err
	}
	return s.accounts.ResetPassword(ctx, account.ID, hash, salt)
}

func (s *AccountService) GetAccount(ctx context.Context, accountID uuid.UUID) (*domain.Account, error) {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

func (s *AccountService) issueToken(accountID uuid.UUID) (*SessionToken, error) {
	value, expiresAt, err := s.tokens.Generate(accountID)
	if err != nil {
		return nil, err
	}
	return &SessionToken{Value: value, ExpiresAt: expiresAt}, nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
