package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/halcyonlabs/accounts/internal/accounts/domain"
	"github.com/halcyonlabs/accounts/internal/accounts/store"
	"github.com/halcyonlabs/accounts/pkg/idx"
)

// OAuthService signs users in from an external identity provider. A profile
// either attaches to the existing account with the same email or creates a
// fresh passwordless one, and the provider tokens are kept on the link row.
type OAuthService struct {
	Store    store.Store
	Sessions *SessionService
}

func NewOAuthService(st store.Store, sessions *SessionService) *OAuthService {
	return &OAuthService{Store: st, Sessions: sessions}
}

// SignIn upserts the user and provider link for a verified profile and
// issues a session pair for the resulting account. Profiles whose email the
// provider has not verified are rejected outright: an unproven address must
// neither create a pre-verified account nor attach to an existing one.
func (s *OAuthService) SignIn(ctx context.Context, profile domain.OAuthProfile, accessToken, refreshToken string) (domain.User, domain.TokenPair, error) {
	if !profile.EmailVerified {
		return domain.User{}, domain.TokenPair{}, ErrProviderUnverified
	}

	var (
		user domain.User
		pair domain.TokenPair
	)
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		now := time.Now().UTC()

		var err error
		user, err = tx.Users().GetUserByEmail(ctx, profile.Email)
		switch {
		case err == nil:
			// Existing account: refresh or create its provider link.
		case errors.Is(err, store.ErrNotFound):
			user = domain.User{
				ID:         idx.New().String(),
				Email:      profile.Email,
				FirstName:  profile.FirstName,
				LastName:   profile.LastName,
				IsActive:   true,
				IsVerified: true,
				VerifiedAt: &now,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			if err := tx.Users().CreateUser(ctx, user); err != nil {
				return fmt.Errorf("create user: %w", err)
			}
		default:
			return fmt.Errorf("lookup user: %w", err)
		}

		link, err := tx.OAuthLinks().GetLinkByUserID(ctx, user.ID)
		switch {
		case err == nil:
			if err := tx.OAuthLinks().UpdateLinkTokens(ctx, link.ID, accessToken, refreshToken, now); err != nil {
				return fmt.Errorf("update link: %w", err)
			}
		case errors.Is(err, store.ErrNotFound):
			link = domain.OAuthLink{
				ID:           idx.New().String(),
				UserID:       user.ID,
				Provider:     profile.Provider,
				Subject:      profile.Subject,
				AccessToken:  accessToken,
				RefreshToken: refreshToken,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := tx.OAuthLinks().CreateLink(ctx, link); err != nil {
				return fmt.Errorf("create link: %w", err)
			}
		default:
			return fmt.Errorf("lookup link: %w", err)
		}

		pair, err = s.Sessions.issue(ctx, tx, user)
		return err
	})
	if err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}
	return user, pair, nil
}
