package domain

import (
	"time"

	"github.com/google/uuid"
)

// Account is the single persisted identity. The verification OTP is kept in
// clear text while the reset OTP is stored as a salted hash; both expiry
// columns are NULL when no code is pending.
type Account struct {
	ID                 uuid.UUID  `db:"id" json:"id"`
	Name               string     `db:"name" json:"name"`
	Email              string     `db:"email" json:"email"`
	PasswordHash       []byte     `db:"password_hash" json:"-"`
	PasswordSalt       []byte     `db:"password_salt" json:"-"`
	IsVerified         bool       `db:"is_verified" json:"is_verified"`
	VerifyOTP          string     `db:"verify_otp" json:"-"`
	VerifyOTPExpiresAt *time.Time `db:"verify_otp_expires_at" json:"-"`
	ResetOTPHash       []byte     `db:"reset_otp_hash" json:"-"`
	ResetOTPSalt       []byte     `db:"reset_otp_salt" json:"-"`
	ResetOTPExpiresAt  *time.Time `db:"reset_otp_expires_at" json:"-"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`
}
