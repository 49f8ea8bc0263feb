// Package users declares the storage contract for user accounts and its
// PostgreSQL implementation.
package users

import (
	"context"

	"github.com/dunkey/dunkey-server/internal/server/models"
)

// Repository defines persistence operations for user accounts.
type Repository interface {
	// Create inserts a new user and returns it with the assigned ID.
	// ErrDuplicate is returned when the username or email is already taken.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByUsername returns the user with the given login name, or
	// common.ErrorNotFound.
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// GetByEmail returns the user with the given email, or
	// common.ErrorNotFound.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID returns the user with the given ID, or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.User, error)

	// UpdatePasswordHash replaces the one-way login hash.
	UpdatePasswordHash(ctx context.Context, id string, hash []byte) error

	// UpdateMasterPassword replaces the reversible master-password blob.
	UpdateMasterPassword(ctx context.Context, id string, blob []byte) error

	// Delete removes the user. Vault entries and refresh tokens cascade at
	// the schema level.
	Delete(ctx context.Context, id string) error

	// DeleteAll removes every user (and, by cascade, every entry). Returns
	// the number of deleted users. Used by the admin purge tool only.
	DeleteAll(ctx context.Context) (int64, error)
}
