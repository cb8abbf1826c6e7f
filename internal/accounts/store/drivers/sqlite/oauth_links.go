package sqlite

import (
	"context"
	"time"

	"github.com/halcyonlabs/accounts/internal/accounts/domain"
)

type oauthLinksRepo struct {
	db DBTX
}

func (r *oauthLinksRepo) GetLinkByUserID(ctx context.Context, userID string) (domain.OAuthLink, error) {
	var l domain.OAuthLink
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, provider, sub, access_token, refresh_token, created_at, updated_at
		FROM oauth_links WHERE user_id = ?`, userID).
		Scan(&l.ID, &l.UserID, &l.Provider, &l.Subject,
			&l.AccessToken, &l.RefreshToken, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return domain.OAuthLink{}, mapNotFound(err)
	}
	return l, nil
}

func (r *oauthLinksRepo) CreateLink(ctx context.Context, l domain.OAuthLink) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO oauth_links (id, user_id, provider, sub, access_token, refresh_token, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.UserID, l.Provider, l.Subject, l.AccessToken, l.RefreshToken, l.CreatedAt, l.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *oauthLinksRepo) UpdateLinkTokens(ctx context.Context, linkID, accessToken, refreshToken string, updatedAt time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE oauth_links SET access_token = ?, refresh_token = ?, updated_at = ? WHERE id = ?`,
		accessToken, refreshToken, updatedAt, linkID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
