package http

import (
	"github.com/harborlabs/account-api/internal/util"
)

// RegisterRequest carries the three required registration fields.
type RegisterRequest struct {
	Name     string `json:"name" example:"Ada Lovelace"`
	Email    string `json:"email" example:"user@example.com"`
	Password string `json:"password" example:"StrongPass!23"`
}

// LoginRequest carries email login fields.
type LoginRequest struct {
	Email    string `json:"email" example:"user@example.com"`
	Password string `json:"password" example:"StrongPass!23"`
}

// VerifyEmailRequest carries the emailed verification code.
type VerifyEmailRequest struct {
	OTP string `json:"otp" example:"004213"`
}

// PasswordResetRequest asks for a reset code by email.
type PasswordResetRequest struct {
	Email string `json:"email" example:"user@example.com"`
}

// ResetPasswordRequest confirms a reset with the emailed code.
type ResetPasswordRequest struct {
	Email       string `json:"email" example:"user@example.com"`
	OTP         string `json:"otp" example:"004213"`
	NewPassword string `json:"newPassword" example:"NewPass!45"`
}

// RegisteredUser is the sanitized account representation returned on
// registration; the hash never leaves the service.
type RegisteredUser struct {
	ID    string `json:"id" example:"9fd13fd2-63c5-4f29-a210-4a1a8e285f74"`
	Name  string `json:"name" example:"Ada Lovelace"`
	Email string `json:"email" example:"user@example.com"`
}

// RegisterResponse is the 201 body for a successful registration.
type RegisterResponse struct {
	util.Response
	User RegisteredUser `json:"user"`
}

// UserData is the read-only account view for authenticated callers.
type UserData struct {
	Name              string `json:"name" example:"Ada Lovelace"`
	IsAccountVerified bool   `json:"isAccountVerified" example:"false"`
}

// UserDataResponse wraps UserData.
type UserDataResponse struct {
	Success  bool     `json:"success" example:"true"`
	UserData UserData `json:"userData"`
}
