// Package mail renders and delivers the account lifecycle emails. Delivery
// is always fire-and-forget from the caller's point of view: a failed send
// is logged and never surfaces into a request's outcome.
package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/url"

	"gopkg.in/gomail.v2"

	"github.com/halcyonlabs/accounts/internal/accounts/domain"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Mailer delivers account lifecycle emails. Services depend on this
// interface so tests can swap in a no-op or a recorder.
type Mailer interface {
	SendAccountVerification(user domain.User, token string) error
	SendActivationConfirmation(user domain.User) error
	SendPasswordReset(user domain.User, token string) error
}

// Config carries SMTP and rendering settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string

	AppName     string
	FrontendURL string
}

// SMTPMailer is the production Mailer backed by gomail.
type SMTPMailer struct {
	cfg  Config
	tmpl *template.Template
}

// NewSMTPMailer parses the embedded templates once up front so a broken
// template fails at startup, not mid-send.
func NewSMTPMailer(cfg Config) (*SMTPMailer, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("mail: parse templates: %w", err)
	}
	return &SMTPMailer{cfg: cfg, tmpl: tmpl}, nil
}

type templateData struct {
	AppName   string
	Name      string
	ActionURL string
}

func (m *SMTPMailer) verificationURL(user domain.User, token string) string {
	return fmt.Sprintf("%s/auth/account-verify?token=%s&email=%s",
		m.cfg.FrontendURL, url.QueryEscape(token), url.QueryEscape(user.Email))
}

func (m *SMTPMailer) resetURL(user domain.User, token string) string {
	return fmt.Sprintf("%s/reset-password?token=%s&email=%s",
		m.cfg.FrontendURL, url.QueryEscape(token), url.QueryEscape(user.Email))
}

func (m *SMTPMailer) SendAccountVerification(user domain.User, token string) error {
	return m.send(user.Email,
		fmt.Sprintf("Account Verification - %s", m.cfg.AppName),
		"account_verification.html",
		templateData{AppName: m.cfg.AppName, Name: user.LastName, ActionURL: m.verificationURL(user, token)},
	)
}

func (m *SMTPMailer) SendActivationConfirmation(user domain.User) error {
	return m.send(user.Email,
		fmt.Sprintf("Welcome - %s", m.cfg.AppName),
		"activation_confirmation.html",
		templateData{AppName: m.cfg.AppName, Name: user.LastName, ActionURL: m.cfg.FrontendURL},
	)
}

func (m *SMTPMailer) SendPasswordReset(user domain.User, token string) error {
	return m.send(user.Email,
		fmt.Sprintf("Reset Password - %s", m.cfg.AppName),
		"password_reset.html",
		templateData{AppName: m.cfg.AppName, Name: user.LastName, ActionURL: m.resetURL(user, token)},
	)
}

func (m *SMTPMailer) send(to, subject, templateName string, data templateData) error {
	var body bytes.Buffer
	if err := m.tmpl.ExecuteTemplate(&body, templateName, data); err != nil {
		return fmt.Errorf("mail: render %s: %w", templateName, err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body.String())

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	return d.DialAndSend(msg)
}

// NopMailer discards every message. Used in tests and when SMTP is not
// configured.
type NopMailer struct{}

func (NopMailer) SendAccountVerification(domain.User, string) error { return nil }
func (NopMailer) SendActivationConfirmation(domain.User) error      { return nil }
func (NopMailer) SendPasswordReset(domain.User, string) error       { return nil }
