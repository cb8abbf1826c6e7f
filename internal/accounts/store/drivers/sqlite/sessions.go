package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/halcyonlabs/accounts/internal/accounts/domain"
)

type sessionsRepo struct {
	db DBTX
}

const sessionColumns = `id, user_id, access_key, refresh_key, expires_at, created_at, updated_at`

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, access_key, refresh_key, expires_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.UserID, s.AccessKey, s.RefreshKey, s.ExpiresAt, s.CreatedAt, s.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *sessionsRepo) GetLiveByAccess(ctx context.Context, sessionID, accessKey, userID string, now time.Time) (domain.Session, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+sessionColumns+` FROM sessions
		WHERE id = ? AND access_key = ? AND user_id = ? AND expires_at > ?`,
		sessionID, accessKey, userID, now)
	return scanSession(row)
}

func (r *sessionsRepo) GetLiveByRefresh(ctx context.Context, refreshKey, accessKey, userID string, now time.Time) (domain.Session, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+sessionColumns+` FROM sessions
		WHERE refresh_key = ? AND access_key = ? AND user_id = ? AND expires_at > ?`,
		refreshKey, accessKey, userID, now)
	return scanSession(row)
}

func (r *sessionsRepo) ExpireSession(ctx context.Context, sessionID string, now time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET expires_at = ?, updated_at = ? WHERE id = ?`,
		now, now, sessionID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *sessionsRepo) ExpireLiveByUser(ctx context.Context, userID string, now time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET expires_at = ?, updated_at = ? WHERE user_id = ? AND expires_at > ?`,
		now, now, userID, now)
	return err
}

func (r *sessionsRepo) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanSession(row *sql.Row) (domain.Session, error) {
	var s domain.Session
	err := row.Scan(
		&s.ID, &s.UserID, &s.AccessKey, &s.RefreshKey,
		&s.ExpiresAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	return s, nil
}
