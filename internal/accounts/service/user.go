package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/halcyonlabs/accounts/internal/accounts/domain"
	"github.com/halcyonlabs/accounts/internal/accounts/store"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 10
)

// UserService covers profile reads and the administrative user operations.
type UserService struct {
	Store store.Store
}

func NewUserService(st store.Store) *UserService {
	return &UserService{Store: st}
}

// Fetch loads a single user by id.
func (s *UserService) Fetch(ctx context.Context, id string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("lookup user: %w", err)
	}
	return user, nil
}

// Update applies a partial profile update. Deleted, unverified and inactive
// accounts are frozen; a changed email must not belong to another account.
func (s *UserService) Update(ctx context.Context, id string, upd domain.UserUpdate) (domain.User, error) {
	user, err := s.Fetch(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	if err := user.CanUpdate(); err != nil {
		return domain.User{}, err
	}

	if upd.Email != nil && *upd.Email != user.Email {
		if _, err := s.Store.Users().GetUserByEmail(ctx, *upd.Email); err == nil {
			return domain.User{}, ErrEmailTaken
		} else if !errors.Is(err, store.ErrNotFound) {
			return domain.User{}, fmt.Errorf("lookup email: %w", err)
		}
	}

	user.ApplyUpdate(upd, time.Now().UTC())
	if err := s.Store.Users().UpdateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// Delete soft-deletes a user and expires their live sessions so tokens stop
// resolving immediately. The row itself is kept.
func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		user, err := tx.Users().GetUserByID(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("lookup user: %w", err)
		}

		now := time.Now().UTC()
		if err := user.SoftDelete(now); err != nil {
			return err
		}
		if err := tx.Users().UpdateUser(ctx, user); err != nil {
			return fmt.Errorf("update user: %w", err)
		}
		if err := tx.Sessions().ExpireLiveByUser(ctx, id, now); err != nil {
			return fmt.Errorf("expire sessions: %w", err)
		}
		return nil
	})
}

// List returns a page of user projections. The reported total counts the
// rows in the returned page, not all matches.
func (s *UserService) List(ctx context.Context, page, perPage int, filter domain.UserFilter) ([]domain.Projection, int, error) {
	if page < 1 {
		page = DefaultPage
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}

	users, err := s.Store.Users().ListUsers(ctx, filter, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	out := make([]domain.Projection, 0, len(users))
	for _, u := range users {
		out = append(out, u.Project())
	}
	return out, len(out), nil
}
