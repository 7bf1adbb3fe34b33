package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/harborlabs/account-api/internal/domain"
	"github.com/harborlabs/account-api/internal/service"
	"github.com/harborlabs/account-api/internal/util"
)

// AccountOperations is the slice of the account service the handlers consume.
type AccountOperations interface {
	Register(ctx context.Context, name, email, password string) (*domain.Account, *service.SessionToken, error)
	Login(ctx context.Context, email, password string) (*service.SessionToken, error)
	SendVerifyOTP(ctx context.Context, accountID uuid.UUID) (string, error)
	VerifyEmail(ctx context.Context, accountID uuid.UUID, otp string) (string, error)
	SendPasswordResetOTP(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, email, otp, newPassword string) error
	GetAccount(ctx context.Context, accountID uuid.UUID) (*domain.Account, error)
}

type AuthHandler struct {
	accounts   AccountOperations
	tokens     *util.JWTManager
	production bool
}

func RegisterAuth(e *echo.Echo, accounts AccountOperations, tokens *util.JWTManager, production bool) {
	handler := &AuthHandler{
		accounts:   accounts,
		tokens:     tokens,
		production: production,
	}

	group := e.Group("/api/auth")
	group.POST("/register", handler.register)
	group.POST("/login", handler.login)
	group.POST("/logout", handler.logout)
	group.POST("/send-pass-reset-otp", handler.sendPasswordResetOTP)
	group.POST("/reset-password", handler.resetPassword)

	protected := e.Group("/api/auth", RequireSession(tokens))
	protected.POST("/send-verify-otp", handler.sendVerifyOTP)
	protected.POST("/verify-email", handler.verifyEmail)
	protected.GET("/is-auth", handler.isAuthenticated)
	protected.GET("/get-user-data", handler.getUserData)
}

func (h *AuthHandler) register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Fail("Missing user details"))
	}

	account, token, err := h.accounts.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return c.JSON(http.StatusBadRequest, util.Fail("Missing user details"))
		case errors.Is(err, service.ErrEmailTaken):
			return c.JSON(http.StatusBadRequest, util.Fail("User already exists"))
		default:
			return internalError(c, err)
		}
	}

	setSessionCookie(c, token.Value, token.ExpiresAt, h.production)
	return c.JSON(http.StatusCreated, RegisterResponse{
		Response: util.OK("User registered successfully"),
		User: RegisteredUser{
			ID:    account.ID.String(),
			Name:  account.Name,
			Email: account.Email,
		},
	})
}

func (h *AuthHandler) login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Fail("Email and Password required"))
	}

	token, err := h.accounts.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return c.JSON(http.StatusBadRequest, util.Fail("Email and Password required"))
		case errors.Is(err, service.ErrInvalidCredentials):
			return c.JSON(http.StatusBadRequest, util.Fail("Invalid email or password"))
		default:
			return internalError(c, err)
		}
	}

	setSessionCookie(c, token.Value, token.ExpiresAt, h.production)
	return c.JSON(http.StatusOK, util.OK("User logged in successfully"))
}

func (h *AuthHandler) logout(c echo.Context) error {
	clearSessionCookie(c, h.production)
	return c.JSON(http.StatusOK, util.OK("User logged out successfully"))
}

func (h *AuthHandler) sendVerifyOTP(c echo.Context) error {
	accountID, ok := CurrentAccountID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Fail("Not authorized, login again"))
	}

	email, err := h.accounts.SendVerifyOTP(c.Request().Context(), accountID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAccountNotFound):
			return c.JSON(http.StatusNotFound, util.Fail("User not found"))
		case errors.Is(err, service.ErrAlreadyVerified):
			return c.JSON(http.StatusBadRequest, util.Fail("Account already verified"))
		default:
			return internalError(c, err)
		}
	}

	return c.JSON(http.StatusOK, util.OK(fmt.Sprintf("Verification OTP sent to email %s successfully", email)))
}

func (h *AuthHandler) verifyEmail(c echo.Context) error {
	accountID, ok := CurrentAccountID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, util.Fail("Missing details: account id and OTP are required"))
	}

	var req VerifyEmailRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Fail("Missing details: account id and OTP are required"))
	}

	email, err := h.accounts.VerifyEmail(c.Request().Context(), accountID, req.OTP)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return c.JSON(http.StatusBadRequest, util.Fail("Missing details: account id and OTP are required"))
		case errors.Is(err, service.ErrAccountNotFound):
			return c.JSON(http.StatusNotFound, util.Fail("User not found"))
		case errors.Is(err, service.ErrInvalidOTP):
			return c.JSON(http.StatusBadRequest, util.Fail("Invalid OTP"))
		case errors.Is(err, service.ErrOTPExpired):
			return c.JSON(http.StatusBadRequest, util.Fail("OTP expired"))
		default:
			return internalError(c, err)
		}
	}

	return c.JSON(http.StatusOK, util.OK(fmt.Sprintf("Email %s verified successfully", email)))
}

func (h *AuthHandler) isAuthenticated(c echo.Context) error {
	return c.JSON(http.StatusOK, util.OK("User is authenticated"))
}

func (h *AuthHandler) sendPasswordResetOTP(c echo.Context) error {
	var req PasswordResetRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Fail("Email is required"))
	}

	email, err := h.accounts.SendPasswordResetOTP(c.Request().Context(), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return c.JSON(http.StatusBadRequest, util.Fail("Email is required"))
		case errors.Is(err, service.ErrAccountNotFound):
			return c.JSON(http.StatusNotFound, util.Fail("User not found"))
		default:
			return internalError(c, err)
		}
	}

	return c.JSON(http.StatusOK, util.OK(fmt.Sprintf("Password reset OTP sent to email %s successfully", email)))
}

func (h *AuthHandler) resetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Fail("Email, OTP, and new password are required"))
	}

	err := h.accounts.ResetPassword(c.Request().Context(), req.Email, req.OTP, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return c.JSON(http.StatusBadRequest, util.Fail("Email, OTP, and new password are required"))
		case errors.Is(err, service.ErrAccountNotFound):
			return c.JSON(http.StatusNotFound, util.Fail("User not found"))
		case errors.Is(err, service.ErrOTPExpired):
			return c.JSON(http.StatusBadRequest, util.Fail("OTP has expired"))
		case errors.Is(err, service.ErrInvalidOTP):
			return c.JSON(http.StatusBadRequest, util.Fail("Invalid OTP"))
		default:
			return internalError(c, err)
		}
	}

	return c.JSON(http.StatusOK, util.OK("Password changed successfully"))
}

func (h *AuthHandler) getUserData(c echo.Context) error {
	accountID, ok := CurrentAccountID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Fail("Not authorized, login again"))
	}

	account, err := h.accounts.GetAccount(c.Request().Context(), accountID)
	if err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			return c.JSON(http.StatusNotFound, util.Fail("User not found"))
		}
		return internalError(c, err)
	}

	return c.JSON(http.StatusOK, UserDataResponse{
		Success: true,
		UserData: UserData{
			Name:              account.Name,
			IsAccountVerified: account.IsVerified,
		},
	})
}

// internalError logs the cause and answers with a generic message; stack
// traces and driver errors never reach the client.
func internalError(c echo.Context, err error) error {
	c.Logger().Errorf("internal error: %v", err)
	return c.JSON(http.StatusInternalServerError, util.Fail("Something went wrong, please try again"))
}
