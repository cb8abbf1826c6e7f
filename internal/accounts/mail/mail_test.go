package mail

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/halcyonlabs/accounts/internal/accounts/domain"
)

func testMailer(t *testing.T) *SMTPMailer {
	t.Helper()

	m, err := NewSMTPMailer(Config{
		From:        "noreply@halcyonlabs.dev",
		AppName:     "Halcyon Accounts",
		FrontendURL: "https://accounts.halcyonlabs.dev",
	})
	require.NoError(t, err)
	return m
}

func TestTemplatesParse(t *testing.T) {
	m := testMailer(t)

	for _, name := range []string{
		"account_verification.html",
		"activation_confirmation.html",
		"password_reset.html",
	} {
		t.Run(name, func(t *testing.T) {
			var body bytes.Buffer
			err := m.tmpl.ExecuteTemplate(&body, name, templateData{
				AppName:   "Halcyon Accounts",
				Name:      "Smith",
				ActionURL: "https://accounts.halcyonlabs.dev/somewhere",
			})
			require.NoError(t, err)
			require.Contains(t, body.String(), "Halcyon Accounts")
			require.Contains(t, body.String(), "Smith")
		})
	}
}

func TestActionURLEscaping(t *testing.T) {
	m := testMailer(t)
	user := domain.User{Email: "plus+tag@example.com", LastName: "Smith"}

	t.Run("verification link", func(t *testing.T) {
		got := m.verificationURL(user, "tok/with+chars")
		require.Equal(t,
			"https://accounts.halcyonlabs.dev/auth/account-verify?token=tok%2Fwith%2Bchars&email=plus%2Btag%40example.com",
			got)
	})

	t.Run("reset link", func(t *testing.T) {
		got := m.resetURL(user, "tok/with+chars")
		require.Equal(t,
			"https://accounts.halcyonlabs.dev/reset-password?token=tok%2Fwith%2Bchars&email=plus%2Btag%40example.com",
			got)
	})
}
