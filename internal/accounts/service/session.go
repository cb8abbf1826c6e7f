package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/halcyonlabs/accounts/internal/accounts/domain"
	"github.com/halcyonlabs/accounts/internal/accounts/store"
	"github.com/halcyonlabs/accounts/pkg/cryptox"
	"github.com/halcyonlabs/accounts/pkg/idx"
	"github.com/halcyonlabs/accounts/pkg/jwtx"
)

// SessionService issues and resolves the token pairs backing authenticated
// requests. Every pair is anchored to a session row; a token whose row is no
// longer live is dead regardless of its JWT expiry.
type SessionService struct {
	Store      store.Store
	Codec      *jwtx.Codec
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func NewSessionService(st store.Store, codec *jwtx.Codec) *SessionService {
	return &SessionService{
		Store:      st,
		Codec:      codec,
		AccessTTL:  jwtx.DefaultAccessTokenTTL,
		RefreshTTL: jwtx.DefaultRefreshTokenTTL,
	}
}

// Issue creates a session row for the user and signs a token pair bound to
// it. The row outlives the access token and expires with the refresh token.
func (s *SessionService) Issue(ctx context.Context, user domain.User) (domain.TokenPair, error) {
	return s.issue(ctx, s.Store, user)
}

// issue runs against any Store so callers can compose it into a transaction.
func (s *SessionService) issue(ctx context.Context, st store.Store, user domain.User) (domain.TokenPair, error) {
	accessKey, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("generate access key: %w", err)
	}
	refreshKey, err := cryptox.GenerateToken(cryptox.TokenSize512)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("generate refresh key: %w", err)
	}

	now := time.Now().UTC()
	sess := domain.Session{
		ID:         idx.New().String(),
		UserID:     user.ID,
		AccessKey:  accessKey,
		RefreshKey: refreshKey,
		ExpiresAt:  now.Add(s.RefreshTTL),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := st.Sessions().CreateSession(ctx, sess); err != nil {
		return domain.TokenPair{}, fmt.Errorf("create session: %w", err)
	}

	sub := jwtx.Obfuscate(user.ID)
	access, err := s.Codec.SignAccess(jwtx.NewAccessClaims(
		sub, accessKey, jwtx.Obfuscate(sess.ID), jwtx.Obfuscate(user.LastName),
		s.Codec.Issuer(), s.AccessTTL, now,
	))
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := s.Codec.SignRefresh(jwtx.NewRefreshClaims(
		sub, refreshKey, accessKey, s.Codec.Issuer(), s.RefreshTTL, now,
	))
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}

	return domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int(s.AccessTTL.Seconds()),
	}, nil
}

// ResolveAccess validates an access token and returns the user and session it
// belongs to. The token must carry a live session row matching both keys; any
// failure along the way is ErrSessionNotFound.
func (s *SessionService) ResolveAccess(ctx context.Context, token string) (domain.User, domain.Session, error) {
	claims, err := s.Codec.VerifyAccess(token)
	if err != nil {
		return domain.User{}, domain.Session{}, ErrSessionNotFound
	}
	userID, err := jwtx.Deobfuscate(claims.Subject)
	if err != nil {
		return domain.User{}, domain.Session{}, ErrSessionNotFound
	}
	sessionID, err := jwtx.Deobfuscate(claims.SessionRef)
	if err != nil {
		return domain.User{}, domain.Session{}, ErrSessionNotFound
	}

	now := time.Now().UTC()
	sess, err := s.Store.Sessions().GetLiveByAccess(ctx, sessionID, claims.AccessKey, userID, now)
	if err != nil {
		return domain.User{}, domain.Session{}, ErrSessionNotFound
	}
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return domain.User{}, domain.Session{}, ErrSessionNotFound
	}
	return user, sess, nil
}

// Rotate exchanges a refresh token for a fresh pair. The old session row is
// expired in the same transaction that records the new one, so a refresh
// token spends exactly once.
func (s *SessionService) Rotate(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	claims, err := s.Codec.VerifyRefresh(refreshToken)
	if err != nil {
		return domain.TokenPair{}, ErrInvalidRefresh
	}
	userID, err := jwtx.Deobfuscate(claims.Subject)
	if err != nil {
		return domain.TokenPair{}, ErrInvalidRefresh
	}

	var pair domain.TokenPair
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		now := time.Now().UTC()
		sess, err := tx.Sessions().GetLiveByRefresh(ctx, claims.RefreshKey, claims.AccessKey, userID, now)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidRefresh
			}
			return fmt.Errorf("lookup session: %w", err)
		}
		user, err := tx.Users().GetUserByID(ctx, userID)
		if err != nil {
			return ErrInvalidRefresh
		}
		if err := tx.Sessions().ExpireSession(ctx, sess.ID, now); err != nil {
			return fmt.Errorf("expire session: %w", err)
		}
		pair, err = s.issue(ctx, tx, user)
		return err
	})
	if err != nil {
		return domain.TokenPair{}, err
	}
	return pair, nil
}
