package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/halcyonlabs/accounts/internal/accounts/domain"
	"github.com/halcyonlabs/accounts/internal/accounts/store"
)

type usersRepo struct {
	db DBTX
}

const userColumns = `id, email, password_hash, first_name, last_name,
	is_active, is_verified, is_superadmin, is_deleted,
	created_at, updated_at, verified_at, deleted_at`

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, first_name, last_name,
			is_active, is_verified, is_superadmin, is_deleted,
			created_at, updated_at, verified_at, deleted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, mapStringNull(u.PasswordHash), u.FirstName, u.LastName,
		u.IsActive, u.IsVerified, u.IsSuperadmin, u.IsDeleted,
		u.CreatedAt, u.UpdatedAt, mapOptionalTime(u.VerifiedAt), mapOptionalTime(u.DeletedAt),
	)
	return mapConstraint(err)
}

func (r *usersRepo) UpdateUser(ctx context.Context, u domain.User) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET email = ?, password_hash = ?, first_name = ?, last_name = ?,
			is_active = ?, is_verified = ?, is_superadmin = ?, is_deleted = ?,
			updated_at = ?, verified_at = ?, deleted_at = ?
		WHERE id = ?`,
		u.Email, mapStringNull(u.PasswordHash), u.FirstName, u.LastName,
		u.IsActive, u.IsVerified, u.IsSuperadmin, u.IsDeleted,
		u.UpdatedAt, mapOptionalTime(u.VerifiedAt), mapOptionalTime(u.DeletedAt),
		u.ID,
	)
	if err != nil {
		return mapConstraint(err)
	}
	return requireAffected(res)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID, newHash string, updatedAt time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		newHash, updatedAt, userID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *usersRepo) ListUsers(ctx context.Context, filter domain.UserFilter, limit, offset int) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	var conds []string
	var args []any

	addFlag := func(column string, value *bool) {
		if value != nil {
			conds = append(conds, column+" = ?")
			args = append(args, *value)
		}
	}
	addFlag("is_active", filter.IsActive)
	addFlag("is_verified", filter.IsVerified)
	addFlag("is_deleted", filter.IsDeleted)
	addFlag("is_superadmin", filter.IsSuperadmin)

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUserRow(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row *sql.Row) (domain.User, error) {
	u, err := scanUserRow(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func scanUserRow(row rowScanner) (domain.User, error) {
	var u domain.User
	var passwordHash sql.NullString
	var verifiedAt, deletedAt sql.NullTime

	err := row.Scan(
		&u.ID, &u.Email, &passwordHash, &u.FirstName, &u.LastName,
		&u.IsActive, &u.IsVerified, &u.IsSuperadmin, &u.IsDeleted,
		&u.CreatedAt, &u.UpdatedAt, &verifiedAt, &deletedAt,
	)
	if err != nil {
		return domain.User{}, err
	}

	u.PasswordHash = mapNullString(passwordHash)
	u.VerifiedAt = mapNullTimePtr(verifiedAt)
	u.DeletedAt = mapNullTimePtr(deletedAt)
	return u, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
