package users

import (
	"context"
	"errors"
)

var (
	// ErrNotFound indicates no user matches the lookup key.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail indicates the email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrDuplicateName indicates the account name is already taken.
	ErrDuplicateName = errors.New("name already taken")
)

// Repository defines persistence operations for user accounts.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByName(ctx context.Context, name string) (*User, error)
	FindByID(ctx context.Context, id int64) (*User, error)

	// InsertLocal creates a password-backed account. Uniqueness of email
	// and name is enforced by the storage constraints, not the caller.
	InsertLocal(ctx context.Context, email, name, hash string, first, last *string) (*User, error)

	// UpsertFederated creates an account without a password, or merges
	// non-empty profile fields into the existing account with the same
	// email. Name and email of an existing account are never changed.
	UpsertFederated(ctx context.Context, email, name string, first, last *string) (*User, error)
}
