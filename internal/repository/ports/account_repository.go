package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/harborlabs/account-api/internal/domain"
)

// AccountRepository is the only writer of account rows. Callers hold no locks;
// concurrent mutation of the same account is last write wins.
type AccountRepository interface {
	Create(ctx context.Context, name, email string, passwordHash, passwordSalt []byte) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	SetVerifyOTP(ctx context.Context, id uuid.UUID, otp string, expiresAt time.Time) error
	MarkVerified(ctx context.Context, id uuid.UUID) error
	SetResetOTP(ctx context.Context, id uuid.UUID, otpHash, otpSalt []byte, expiresAt time.Time) error
	ResetPassword(ctx context.Context, id uuid.UUID, passwordHash, passwordSalt []byte) error
}
