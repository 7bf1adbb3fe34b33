package mail

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"
)

// Mailer delivers the service's three plain-text messages over a single SMTP
// relay. Credentials are optional; PLAIN auth is used when they are set.
type Mailer struct {
	host     string
	port     string
	username string
	password string
	from     string

	resetTTL time.Duration
}

func NewMailer(host, port, username, password, from string, resetTTL time.Duration) *Mailer {
	return &Mailer{
		host:     strings.TrimSpace(host),
		port:     strings.TrimSpace(port),
		username: username,
		password: password,
		from:     strings.TrimSpace(from),
		resetTTL: resetTTL,
	}
}

func (m *Mailer) SendWelcome(ctx context.Context, email, name string) error {
	body := fmt.Sprintf("Welcome %s, your account has been created with email id: %s", name, email)
	return m.send(ctx, email, "Welcome to us", body)
}

func (m *Mailer) SendVerifyOTP(ctx context.Context, email, otp string) error {
	body := fmt.Sprintf("Your verification OTP is: %s", otp)
	return m.send(ctx, email, "Account Verification OTP", body)
}

func (m *Mailer) SendPasswordResetOTP(ctx context.Context, email, otp string) error {
	body := fmt.Sprintf("Password Reset OTP is: %s. It will expire in %d minutes", otp, int(m.resetTTL.Minutes()))
	return m.send(ctx, email, "Password Reset OTP", body)
}

func (m *Mailer) send(ctx context.Context, to, subject, body string) error {
	if m == nil {
		return errors.New("mailer not configured")
	}
	if m.host == "" || m.port == "" || m.from == "" {
		return errors.New("mailer missing configuration")
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	message := strings.Builder{}
	message.WriteString(fmt.Sprintf("From: %s\r\n", m.from))
	message.WriteString(fmt.Sprintf("To: %s\r\n", to))
	message.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	message.WriteString("MIME-Version: 1.0\r\n")
	message.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	message.WriteString("Content-Transfer-Encoding: 7bit\r\n\r\n")
	message.WriteString(body)
	message.WriteString("\r\n")

	addr := net.JoinHostPort(m.host, m.port)
	var auth smtp.Auth
	if m.username != "" || m.password != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	return smtp.SendMail(addr, auth, m.from, []string{to}, []byte(message.String()))
}
