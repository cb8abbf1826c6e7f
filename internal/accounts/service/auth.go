package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/halcyonlabs/accounts/internal/accounts/domain"
	"github.com/halcyonlabs/accounts/internal/accounts/mail"
	"github.com/halcyonlabs/accounts/internal/accounts/store"
	"github.com/halcyonlabs/accounts/pkg/cryptox"
	"github.com/halcyonlabs/accounts/pkg/idx"
	"github.com/halcyonlabs/accounts/pkg/slogx"
)

// AuthService owns the credential flows: registration, verification, login,
// refresh and password recovery. Mail is dispatched off the request path, so
// a slow or broken SMTP server never blocks a response.
type AuthService struct {
	Store    store.Store
	Sessions *SessionService
	Mailer   mail.Mailer
}

func NewAuthService(st store.Store, sessions *SessionService, mailer mail.Mailer) *AuthService {
	return &AuthService{Store: st, Sessions: sessions, Mailer: mailer}
}

// Register creates an unverified account, issues its first session pair and
// sends the verification link. The email must not already be registered.
func (s *AuthService) Register(ctx context.Context, email, password, firstName, lastName string) (domain.User, domain.TokenPair, error) {
	if _, err := s.Store.Users().GetUserByEmail(ctx, email); err == nil {
		return domain.User{}, domain.TokenPair{}, ErrEmailExists
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.User{}, domain.TokenPair{}, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, domain.TokenPair{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var pair domain.TokenPair
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, user); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrEmailExists
			}
			return fmt.Errorf("create user: %w", err)
		}
		pair, err = s.Sessions.issue(ctx, tx, user)
		return err
	})
	if err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}

	s.dispatchMail(ctx, "account verification", user.Email, func() error {
		token, err := cryptox.HashPassword(user.ActionContext(domain.PurposeVerifyAccount))
		if err != nil {
			return err
		}
		return s.Mailer.SendAccountVerification(user, token)
	})
	return user, pair, nil
}

// Verify activates an account from an emailed verification token. The token
// is single-window: any update to the account since it was minted, including
// a prior verification, invalidates it.
func (s *AuthService) Verify(ctx context.Context, email, token string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrLinkNotValid
		}
		return domain.User{}, fmt.Errorf("lookup user: %w", err)
	}

	if err := cryptox.VerifyPassword(user.ActionContext(domain.PurposeVerifyAccount), token); err != nil {
		return domain.User{}, ErrLinkExpired
	}

	user.Verify(time.Now().UTC())
	if err := s.Store.Users().UpdateUser(ctx, user); err != nil {
		return domain.User{}, fmt.Errorf("update user: %w", err)
	}

	s.dispatchMail(ctx, "activation confirmation", user.Email, func() error {
		return s.Mailer.SendActivationConfirmation(user)
	})
	return user, nil
}

// Login checks credentials and account state, then replaces any live
// sessions for the user with a single fresh one.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, domain.TokenPair, error) {
	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, domain.TokenPair{}, ErrEmailNotRegistered
		}
		return domain.User{}, domain.TokenPair{}, fmt.Errorf("lookup user: %w", err)
	}

	if user.PasswordHash == "" {
		return domain.User{}, domain.TokenPair{}, ErrBadCredentials
	}
	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		return domain.User{}, domain.TokenPair{}, ErrBadCredentials
	}
	if user.VerifiedAt == nil {
		return domain.User{}, domain.TokenPair{}, ErrNotVerified
	}
	if !user.IsActive {
		return domain.User{}, domain.TokenPair{}, ErrDeactivated
	}

	var pair domain.TokenPair
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		now := time.Now().UTC()
		if err := tx.Sessions().ExpireLiveByUser(ctx, user.ID, now); err != nil {
			return fmt.Errorf("expire prior sessions: %w", err)
		}
		pair, err = s.Sessions.issue(ctx, tx, user)
		return err
	})
	if err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}
	return user, pair, nil
}

// Refresh rotates a refresh token into a new pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	return s.Sessions.Rotate(ctx, refreshToken)
}

// ForgotPassword emails a reset link. An unknown email is silently accepted
// so the endpoint cannot be used to probe which addresses are registered.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	if user.VerifiedAt == nil {
		return ErrNotVerified
	}
	if !user.IsActive {
		return ErrDeactivated
	}

	s.dispatchMail(ctx, "password reset", user.Email, func() error {
		token, err := cryptox.HashPassword(user.ActionContext(domain.PurposeForgotPassword))
		if err != nil {
			return err
		}
		return s.Mailer.SendPasswordReset(user, token)
	})
	return nil
}

// ResetPassword sets a new password from an emailed reset token. Updating
// the hash bumps UpdatedAt, which retires every reset token minted before it.
func (s *AuthService) ResetPassword(ctx context.Context, email, token, newPassword string) error {
	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrResetNotAllowed
		}
		return fmt.Errorf("lookup user: %w", err)
	}
	if user.VerifiedAt == nil || !user.IsActive {
		return ErrResetNotAllowed
	}

	if err := cryptox.VerifyPassword(user.ActionContext(domain.PurposeForgotPassword), token); err != nil {
		return ErrInvalidWindow
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.Store.Users().UpdatePasswordHash(ctx, user.ID, hash, time.Now().UTC()); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// dispatchMail runs send in its own goroutine and logs failures. The request
// context may be cancelled before the send finishes, so only its logger is
// carried over.
func (s *AuthService) dispatchMail(ctx context.Context, kind, email string, send func() error) {
	log := slogx.FromContext(ctx)
	go func() {
		if err := send(); err != nil {
			log.Error("mail dispatch failed",
				slog.String("kind", kind),
				slog.String("email", email),
				slog.Any("error", err))
		}
	}()
}
