// Package domain holds the account entities and the account state machine.
// Persistence and transport concerns live elsewhere; everything here is
// plain data plus the transition rules.
package domain

import (
	"errors"
	"time"
)

// Action token purposes. The purpose is folded into the token context so a
// verification token can never be replayed as a reset token.
const (
	PurposeVerifyAccount  = "ACCOUNT_VERIFY"
	PurposeForgotPassword = "FORGOT_PASSWORD"
)

// State transition errors, translated to outward messages at the HTTP
// boundary.
var (
	ErrAlreadyDeleted    = errors.New("user is already deleted")
	ErrUpdateDeleted     = errors.New("user is deleted and cannot be updated")
	ErrUpdateNotVerified = errors.New("user is not verified and cannot be updated")
	ErrUpdateInactive    = errors.New("user is inactive and cannot be updated")
)

// User is an account row. PasswordHash is empty for accounts created through
// an identity provider that have never set a local password.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	IsActive     bool
	IsVerified   bool
	IsSuperadmin bool
	IsDeleted    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	VerifiedAt   *time.Time
	DeletedAt    *time.Time
}

// ActionContext derives the single-use token context for a purpose. It folds
// in the tail of the current password hash and the update timestamp, so any
// password or profile change invalidates every outstanding token without
// server-side token state.
func (u *User) ActionContext(purpose string) string {
	tail := u.PasswordHash
	if len(tail) > 6 {
		tail = tail[len(tail)-6:]
	}
	return purpose + tail + u.UpdatedAt.UTC().Format("01022006150405")
}

// Verify applies the unverified→active transition. Verified accounts stay
// verified; there is no reverse transition.
func (u *User) Verify(now time.Time) {
	u.IsVerified = true
	u.IsActive = true
	u.VerifiedAt = &now
	u.UpdatedAt = now
}

// SoftDelete applies the →deleted transition. Deleting an already-deleted
// account is a conflict and leaves the row untouched.
func (u *User) SoftDelete(now time.Time) error {
	if u.IsDeleted {
		return ErrAlreadyDeleted
	}
	u.IsDeleted = true
	u.IsActive = false
	u.DeletedAt = &now
	u.UpdatedAt = now
	return nil
}

// CanUpdate reports whether profile updates are allowed in the current
// state. Precedence is fixed: deleted, then unverified, then inactive.
func (u *User) CanUpdate() error {
	switch {
	case u.IsDeleted:
		return ErrUpdateDeleted
	case !u.IsVerified:
		return ErrUpdateNotVerified
	case !u.IsActive:
		return ErrUpdateInactive
	default:
		return nil
	}
}

// UserUpdate is the explicit allow-list of mutable profile fields. Nil means
// "leave unchanged".
type UserUpdate struct {
	Email     *string
	FirstName *string
	LastName  *string
}

// ApplyUpdate merges an update into the user and bumps UpdatedAt, which also
// invalidates outstanding action tokens.
func (u *User) ApplyUpdate(upd UserUpdate, now time.Time) {
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.FirstName != nil {
		u.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		u.LastName = *upd.LastName
	}
	u.UpdatedAt = now
}

// Projection is the public view of a user returned to clients. The password
// hash and the soft-delete bookkeeping never leave the service.
type Projection struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsActive     bool      `json:"is_active"`
	IsSuperadmin bool      `json:"is_superadmin"`
	CreatedAt    time.Time `json:"created_at"`
}

// Project returns the public projection of the user.
func (u *User) Project() Projection {
	return Projection{
		ID:           u.ID,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsActive:     u.IsActive,
		IsSuperadmin: u.IsSuperadmin,
		CreatedAt:    u.CreatedAt,
	}
}

// UserFilter narrows directory listings. Nil fields are not applied.
type UserFilter struct {
	IsActive     *bool
	IsVerified   *bool
	IsDeleted    *bool
	IsSuperadmin *bool
}
