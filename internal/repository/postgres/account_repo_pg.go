package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/harborlabs/account-api/internal/domain"
)

const accountColumns = `id, name, email, password_hash, password_salt, is_verified, verify_otp, verify_otp_expires_at, reset_otp_hash, reset_otp_salt, reset_otp_expires_at, created_at, updated_at`

type AccountRepository struct {
	db *sqlx.DB
}

func NewAccountRepo(db *sqlx.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, name, email string, passwordHash, passwordSalt []byte) (*domain.Account, error) {
	const query = `
        INSERT INTO account (name, email, password_hash, password_salt)
        VALUES ($1, $2, $3, $4)
        RETURNING ` + accountColumns + `
    `
	row := r.db.QueryRowxContext(ctx, query, name, email, passwordHash, passwordSalt)
	var account domain.Account
	if err := row.StructScan(&account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	const query = `
        SELECT ` + accountColumns + `
        FROM account
        WHERE email = $1
    `
	var account domain.Account
	if err := r.db.GetContext(ctx, &account, query, email); err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	const query = `
        SELECT ` + accountColumns + `
        FROM account
        WHERE id = $1
    `
	var account domain.Account
	if err := r.db.GetContext(ctx, &account, query, id); err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *AccountRepository) SetVerifyOTP(ctx context.Context, id uuid.UUID, otp string, expiresAt time.Time) error {
	const query = `
        UPDATE account
        SET verify_otp = $2,
            verify_otp_expires_at = $3,
            updated_at = NOW()
        WHERE id = $1
    `
	_, err := r.db.ExecContext(ctx, query, id, otp, expiresAt)
	return err
}

func (r *AccountRepository) MarkVerified(ctx context.Context, id uuid.UUID) error {
	const query = `
        UPDATE account
        SET is_verified = TRUE,
            verify_otp = '',
            verify_otp_expires_at = NULL,
            updated_at = NOW()
        WHERE id = $1
    `
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *AccountRepository) SetResetOTP(ctx context.Context, id uuid.UUID, otpHash, otpSalt []byte, expiresAt time.Time) error {
	const query = `
        UPDATE account
        SET reset_otp_hash = $2,
            reset_otp_salt = $3,
            reset_otp_expires_at = $4,
            updated_at = NOW()
        WHERE id = $1
    `
	_, err := r.db.ExecContext(ctx, query, id, otpHash, otpSalt, expiresAt)
	return err
}

func (r *AccountRepository) ResetPassword(ctx context.Context, id uuid.UUID, passwordHash, passwordSalt []byte) error {
	const query = `
        UPDATE account
        SET password_hash = $2,
            password_salt = $3,
            reset_otp_hash = NULL,
            reset_otp_salt = NULL,
            reset_otp_expires_at = NULL,
            updated_at = NOW()
        WHERE id = $1
    `
	_, err := r.db.ExecContext(ctx, query, id, passwordHash, passwordSalt)
	return err
}
