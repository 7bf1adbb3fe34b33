package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/harborlabs/account-api/internal/domain"
	"github.com/harborlabs/account-api/internal/service"
	"github.com/harborlabs/account-api/internal/util"
)

type fakeAccounts struct {
	registerAccount *domain.Account
	registerToken   *service.SessionToken
	registerErr     error

	loginToken *service.SessionToken
	loginErr   error

	sendVerifyEmail string
	sendVerifyErr   error

	verifyEmail    string
	verifyEmailErr error
	verifyGotOTP   string

	sendResetEmail string
	sendResetErr   error

	resetErr error

	account    *domain.Account
	accountErr error
}

func (f *fakeAccounts) Register(ctx context.Context, name, email, password string) (*domain.Account, *service.SessionToken, error) {
	return f.registerAccount, f.registerToken, f.registerErr
}

func (f *fakeAccounts) Login(ctx context.Context, email, password string) (*service.SessionToken, error) {
	return f.loginToken, f.loginErr
}

func (f *fakeAccounts) SendVerifyOTP(ctx context.Context, accountID uuid.UUID) (string, error) {
	return f.sendVerifyEmail, f.sendVerifyErr
}

func (f *fakeAccounts) VerifyEmail(ctx context.Context, accountID uuid.UUID, otp string) (string, error) {
	f.verifyGotOTP = otp
	return f.verifyEmail, f.verifyEmailErr
}

func (f *fakeAccounts) SendPasswordResetOTP(ctx context.Context, email string) (string, error) {
	return f.sendResetEmail, f.sendResetErr
}

func (f *fakeAccounts) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	return f.resetErr
}

func (f *fakeAccounts) GetAccount(ctx context.Context, accountID uuid.UUID) (*domain.Account, error) {
	return f.account, f.accountErr
}

var testTokens = util.NewJWTManager("handler-test-secret", time.Hour)

func newTestServer(accounts AccountOperations) *httptest.Server {
	e := NewRouter([]string{"http://localhost:5173"})
	RegisterAuth(e, accounts, testTokens, false)
	return httptest.NewServer(e)
}

func postJSON(t *testing.T, url, body string, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func decodeEnvelope(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	var payload map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	return payload
}

func sessionCookieFor(t *testing.T, accountID uuid.UUID) *http.Cookie {
	t.Helper()
	token, _, err := testTokens.Generate(accountID)
	if err != nil {
		t.Fatalf("generating token: %v", err)
	}
	return &http.Cookie{Name: sessionCookieName, Value: token}
}

func TestRegisterHandlerSuccess(t *testing.T) {
	accountID := uuid.New()
	fake := &fakeAccounts{
		registerAccount: &domain.Account{ID: accountID, Name: "Ada", Email: "ada@example.com"},
		registerToken:   &service.SessionToken{Value: "signed-token", ExpiresAt: time.Now().Add(time.Hour)},
	}
	srv := newTestServer(fake)
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/api/auth/register", `{"name":"Ada","email":"ada@example.com","password":"pw"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var gotCookie *http.Cookie
	for _, cookie := range resp.Cookies() {
		if cookie.Name == sessionCookieName {
			gotCookie = cookie
		}
	}
	if gotCookie == nil || gotCookie.Value != "signed-token" {
		t.Fatalf("expected session cookie to be set")
	}
	if !gotCookie.HttpOnly {
		t.Fatalf("session cookie must be HTTP-only")
	}

	payload := decodeEnvelope(t, resp)
	if payload["success"] != true {
		t.Fatalf("expected success envelope, got %v", payload)
	}
	user, ok := payload["user"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected user object, got %v", payload)
	}
	if user["id"] != accountID.String() || user["name"] != "Ada" || user["email"] != "ada@example.com" {
		t.Fatalf("unexpected user payload %v", user)
	}
	if _, leaked := user["password"]; leaked {
		t.Fatalf("user payload must not carry credentials")
	}
}

func TestRegisterHandlerConflict(t *testing.T) {
	srv := newTestServer(&fakeAccounts{registerErr: service.ErrEmailTaken})
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/api/auth/register", `{"name":"Ada","email":"ada@example.com","password":"pw"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	payload := decodeEnvelope(t, resp)
	if payload["success"] != false || payload["message"] != "User already exists" {
		t.Fatalf("unexpected envelope %v", payload)
	}
}

func TestLoginHandlerInvalidCredentials(t *testing.T) {
	srv := newTestServer(&fakeAccounts{loginErr: service.ErrInvalidCredentials})
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/api/auth/login", `{"email":"ada@example.com","password":"bad"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	payload := decodeEnvelope(t, resp)
	if payload["message"] != "Invalid email or password" {
		t.Fatalf("unexpected message %v", payload["message"])
	}
}

func TestLoginThenSessionCheck(t *testing.T) {
	accountID := uuid.New()
	token, expiresAt, err := testTokens.Generate(accountID)
	if err != nil {
		t.Fatalf("generating token: %v", err)
	}
	fake := &fakeAccounts{loginToken: &service.SessionToken{Value: token, ExpiresAt: expiresAt}}
	srv := newTestServer(fake)
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/api/auth/login", `{"email":"ada@example.com","password":"pw"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	cookies := resp.Cookies()
	resp.Body.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/auth/is-auth", nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	authResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("is-auth request failed: %v", err)
	}
	if authResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from is-auth with issued cookie, got %d", authResp.StatusCode)
	}
	payload := decodeEnvelope(t, authResp)
	if payload["success"] != true {
		t.Fatalf("expected success from is-auth, got %v", payload)
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	srv := newTestServer(&fakeAccounts{})
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/api/auth/logout", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var cleared *http.Cookie
	for _, cookie := range resp.Cookies() {
		if cookie.Name == sessionCookieName {
			cleared = cookie
		}
	}
	if cleared == nil {
		t.Fatalf("expected a clearing cookie")
	}
	if cleared.Value != "" || cleared.MaxAge >= 0 {
		t.Fatalf("expected empty expired cookie, got value=%q maxage=%d", cleared.Value, cleared.MaxAge)
	}
	resp.Body.Close()
}

func TestProtectedRoutesRejectMissingSession(t *testing.T) {
	srv := newTestServer(&fakeAccounts{})
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/api/auth/send-verify-otp", "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without cookie, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/api/auth/send-verify-otp", "", &http.Cookie{Name: sessionCookieName, Value: "garbage"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a bad token, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestVerifyEmailHandlerErrorMapping(t *testing.T) {
	cases := []struct {
		err     error
		status  int
		message string
	}{
		{service.ErrInvalidOTP, http.StatusBadRequest, "Invalid OTP"},
		{service.ErrOTPExpired, http.StatusBadRequest, "OTP expired"},
		{service.ErrAccountNotFound, http.StatusNotFound, "User not found"},
		{errors.New("db exploded"), http.StatusInternalServerError, "Something went wrong, please try again"},
	}

	for _, tc := range cases {
		fake := &fakeAccounts{verifyEmailErr: tc.err}
		srv := newTestServer(fake)
		cookie := sessionCookieFor(t, uuid.New())

		resp := postJSON(t, srv.URL+"/api/auth/verify-email", `{"otp":"004213"}`, cookie)
		if resp.StatusCode != tc.status {
			t.Fatalf("err %v: expected %d, got %d", tc.err, tc.status, resp.StatusCode)
		}
		payload := decodeEnvelope(t, resp)
		if payload["message"] != tc.message {
			t.Fatalf("err %v: expected message %q, got %v", tc.err, tc.message, payload["message"])
		}
		if fake.verifyGotOTP != "004213" {
			t.Fatalf("expected leading-zero OTP passed through intact, got %q", fake.verifyGotOTP)
		}
		srv.Close()
	}
}

func TestSendPasswordResetOTPHandlerNotFound(t *testing.T) {
	srv := newTestServer(&fakeAccounts{sendResetErr: service.ErrAccountNotFound})
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/api/auth/send-pass-reset-otp", `{"email":"ghost@example.com"}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestGetUserDataHandler(t *testing.T) {
	fake := &fakeAccounts{account: &domain.Account{Name: "Ada", IsVerified: false}}
	srv := newTestServer(fake)
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/auth/get-user-data", nil)
	req.AddCookie(sessionCookieFor(t, uuid.New()))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	payload := decodeEnvelope(t, resp)
	userData, ok := payload["userData"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected userData object, got %v", payload)
	}
	if userData["name"] != "Ada" || userData["isAccountVerified"] != false {
		t.Fatalf("unexpected userData %v", userData)
	}
}
