package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/harborlabs/account-api/internal/util"
)

const (
	sessionCookieName   = "token"
	contextAccountIDKey = "account_id"
)

// RequireSession resolves the session cookie to an account id. The token is
// stateless: signature and expiry are the whole check, no lookup happens here.
func RequireSession(tokens *util.JWTManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(sessionCookieName)
			if err != nil || cookie.Value == "" {
				return c.JSON(http.StatusUnauthorized, util.Fail("Not authorized, login again"))
			}
			claims, err := tokens.Parse(cookie.Value)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, util.Fail("Not authorized, login again"))
			}
			c.Set(contextAccountIDKey, claims.AccountID)
			return next(c)
		}
	}
}

func CurrentAccountID(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(contextAccountIDKey).(uuid.UUID)
	return id, ok
}

// setSessionCookie and clearSessionCookie must agree on attributes, otherwise
// browsers keep the stale cookie. Cross-site deployments need Secure with
// SameSite=None; local development uses Strict without Secure.
func setSessionCookie(c echo.Context, value string, expiresAt time.Time, production bool) {
	c.SetCookie(sessionCookie(value, expiresAt, production))
}

func clearSessionCookie(c echo.Context, production bool) {
	cookie := sessionCookie("", time.Unix(0, 0), production)
	cookie.MaxAge = -1
	c.SetCookie(cookie)
}

func sessionCookie(value string, expiresAt time.Time, production bool) *http.Cookie {
	sameSite := http.SameSiteStrictMode
	if production {
		sameSite = http.SameSiteNoneMode
	}
	return &http.Cookie{
		Name:     sessionCookieName,
		Value:    value,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   production,
		SameSite: sameSite,
	}
}
