package store

import (
	"context"
	"errors"
	"time"

	"github.com/halcyonlabs/accounts/internal/accounts/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite,
// postgres) implement this. It exposes sub-repositories to keep concerns
// tidy and testable.
type Store interface {
	Users() Users
	Sessions() Sessions
	OAuthLinks() OAuthLinks

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// Use it for multi-step operations that must be atomic (e.g., login
	// supersession followed by issue). The caller MUST call Commit() or
	// Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources (optional for sqlite).
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail resolves the login identifier.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	// A duplicate email surfaces as ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateUser persists every mutable column of an existing row.
	// A duplicate email surfaces as ErrAlreadyExists.
	UpdateUser(ctx context.Context, u domain.User) error

	// UpdatePasswordHash sets the password_hash and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID, newHash string, updatedAt time.Time) error

	// ListUsers returns a page of users matching the filter, newest first.
	ListUsers(ctx context.Context, filter domain.UserFilter, limit, offset int) ([]domain.User, error)
}

type Sessions interface {
	// CreateSession stores a freshly issued session row.
	CreateSession(ctx context.Context, s domain.Session) error

	// GetLiveByAccess returns the unexpired session matching all three
	// access-token bindings, or ErrNotFound.
	GetLiveByAccess(ctx context.Context, sessionID, accessKey, userID string, now time.Time) (domain.Session, error)

	// GetLiveByRefresh returns the unexpired session matching the refresh
	// bindings, or ErrNotFound.
	GetLiveByRefresh(ctx context.Context, refreshKey, accessKey, userID string, now time.Time) (domain.Session, error)

	// ExpireSession sets expires_at to the given instant, killing the row
	// without deleting it.
	ExpireSession(ctx context.Context, sessionID string, now time.Time) error

	// ExpireLiveByUser expires every currently-live session for a user.
	ExpireLiveByUser(ctx context.Context, userID string, now time.Time) error

	// DeleteExpiredBefore removes rows whose expiry predates the cutoff.
	// Housekeeping only; live semantics never depend on deletion.
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type OAuthLinks interface {
	// GetLinkByUserID returns the provider link for a user, or ErrNotFound.
	GetLinkByUserID(ctx context.Context, userID string) (domain.OAuthLink, error)

	// CreateLink attaches a provider identity to a user.
	CreateLink(ctx context.Context, l domain.OAuthLink) error

	// UpdateLinkTokens refreshes the stored provider tokens.
	UpdateLinkTokens(ctx context.Context, linkID, accessToken, refreshToken string, updatedAt time.Time) error
}
