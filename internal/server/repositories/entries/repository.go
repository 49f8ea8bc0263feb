// Package entries declares the storage contract for vault entries and its
// PostgreSQL implementation. Every operation is scoped to an owner; an
// entry belonging to another user is indistinguishable from a missing one.
package entries

import (
	"context"

	"github.com/dunkey/dunkey-server/internal/server/models"
)

// Repository defines owner-scoped persistence for encrypted vault entries.
type Repository interface {
	// Create inserts a new entry.
	Create(ctx context.Context, entry *models.Entry) error

	// GetByOwner returns all entries for ownerID in insertion order.
	GetByOwner(ctx context.Context, ownerID string) ([]*models.Entry, error)

	// GetByOwnerAndID returns one entry, or common.ErrorNotFound when the
	// entry does not exist or is owned by someone else.
	GetByOwnerAndID(ctx context.Context, ownerID, entryID string) (*models.Entry, error)

	// Update replaces the three ciphertext fields of an owned entry.
	// Returns common.ErrorNotFound under the same ownership condition.
	Update(ctx context.Context, entry *models.Entry) error

	// Delete permanently removes an owned entry. Returns
	// common.ErrorNotFound under the same ownership condition, so a second
	// delete of the same ID fails.
	Delete(ctx context.Context, ownerID, entryID string) error
}
