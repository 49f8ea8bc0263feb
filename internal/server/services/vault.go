// Package services contains the server-side business logic: the vault
// service that orchestrates encrypted credential entries, and the user
// service that handles accounts and tokens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dunkey/dunkey-server/internal/common"
	"github.com/dunkey/dunkey-server/internal/cryptox"
	"github.com/dunkey/dunkey-server/internal/dbx"
	"github.com/dunkey/dunkey-server/internal/logging"
	"github.com/dunkey/dunkey-server/internal/server/models"
	"github.com/dunkey/dunkey-server/internal/server/repositories/repomanager"
	"github.com/dunkey/dunkey-server/internal/strength"
)

// StrengthFilter narrows search results by the computed password strength.
type StrengthFilter string

const (
	FilterAll    StrengthFilter = "all"
	FilterStrong StrengthFilter = "strong"
	FilterWeak   StrengthFilter = "weak"
)

// ParseStrengthFilter validates a caller-supplied filter value. The empty
// string means no filtering.
func ParseStrengthFilter(s string) (StrengthFilter, error) {
	switch StrengthFilter(strings.ToLower(s)) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterStrong:
		return FilterStrong, nil
	case FilterWeak:
		return FilterWeak, nil
	default:
		v := common.NewValidationError()
		v.Add("strength", "Strength filter must be one of: all, strong, weak.")
		return "", v
	}
}

// UpdateEntryRequest carries the fields of an update call. Nil fields keep
// their previous decrypted value; present fields must pass the same
// non-empty validation as create.
type UpdateEntryRequest struct {
	Website  *string
	Username *string
	Password *string
}

// VaultService orchestrates create/read/update/delete/search over encrypted
// vault entries. Every operation is scoped to the caller-supplied owner
// identity; there are no global operations. The service holds no in-memory
// locks: per-record atomicity comes from the storage layer, and concurrent
// updates to the same entry are last-writer-wins.
type VaultService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cipher      *cryptox.FieldCipher
	audit       *Audit
	logger      logging.Logger
}

// NewVaultService constructs a VaultService.
func NewVaultService(db *sql.DB, m repomanager.RepositoryManager, cipher *cryptox.FieldCipher, audit *Audit, logger logging.Logger) *VaultService {
	return &VaultService{
		db:          db,
		repomanager: m,
		cipher:      cipher,
		audit:       audit,
		logger:      logger.With("module", "vault"),
	}
}

// Create validates, encrypts and persists a new entry, returning the
// decrypted view. Either the full record is written or nothing is.
func (s *VaultService) Create(ctx context.Context, ownerID, website, username, password string) (*models.DecryptedEntry, error) {
	website = strings.TrimSpace(website)
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	if err := validateEntryFields(website, username, password); err != nil {
		return nil, err
	}

	entry := &models.Entry{ID: uuid.New().String(), OwnerID: ownerID}
	var err error
	if entry.Website, err = s.cipher.EncryptField(website); err != nil {
		return nil, fmt.Errorf("encrypting website: %w", err)
	}
	if entry.Username, err = s.cipher.EncryptField(username); err != nil {
		return nil, fmt.Errorf("encrypting username: %w", err)
	}
	if entry.Password, err = s.cipher.EncryptField(password); err != nil {
		return nil, fmt.Errorf("encrypting password: %w", err)
	}

	repo := s.repomanager.Entries(s.db)
	if err := repo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("creating entry: %w", err)
	}

	s.audit.EntryCreated(ctx, ownerID, website)

	return &models.DecryptedEntry{
		ID:       entry.ID,
		OwnerID:  ownerID,
		Website:  website,
		Username: username,
		Password: password,
	}, nil
}

// List returns all of the owner's entries, decrypted, in insertion order.
func (s *VaultService) List(ctx context.Context, ownerID string) ([]*models.DecryptedEntry, error) {
	repo := s.repomanager.Entries(s.db)
	entries, err := repo.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}

	result := make([]*models.DecryptedEntry, 0, len(entries))
	for _, e := range entries {
		d, err := s.decryptEntry(ctx, e)
		if err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, nil
}

// Update re-encrypts an owned entry. Omitted (nil) fields keep their prior
// plaintext; all three ciphertexts are rewritten with fresh nonces either
// way. The read and the write run in one transaction so no partial record
// is ever persisted.
func (s *VaultService) Update(ctx context.Context, ownerID, entryID string, req UpdateEntryRequest) (*models.DecryptedEntry, error) {
	var updated *models.DecryptedEntry

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Entries(tx)

		entry, err := repo.GetByOwnerAndID(ctx, ownerID, entryID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorNotFound
			}
			return fmt.Errorf("loading entry: %w", err)
		}

		current, err := s.decryptEntry(ctx, entry)
		if err != nil {
			return err
		}

		website := applyField(req.Website, current.Website)
		username := applyField(req.Username, current.Username)
		password := applyField(req.Password, current.Password)
		if err := validateEntryFields(website, username, password); err != nil {
			return err
		}

		if entry.Website, err = s.cipher.EncryptField(website); err != nil {
			return fmt.Errorf("encrypting website: %w", err)
		}
		if entry.Username, err = s.cipher.EncryptField(username); err != nil {
			return fmt.Errorf("encrypting username: %w", err)
		}
		if entry.Password, err = s.cipher.EncryptField(password); err != nil {
			return fmt.Errorf("encrypting password: %w", err)
		}

		if err := repo.Update(ctx, entry); err != nil {
			return err
		}

		updated = &models.DecryptedEntry{
			ID:       entry.ID,
			OwnerID:  ownerID,
			Website:  website,
			Username: username,
			Password: password,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.EntryEdited(ctx, ownerID, entryID)
	return updated, nil
}

// Delete permanently removes an owned entry. A second delete of the same ID
// yields common.ErrorNotFound.
func (s *VaultService) Delete(ctx context.Context, ownerID, entryID string) error {
	repo := s.repomanager.Entries(s.db)
	if err := repo.Delete(ctx, ownerID, entryID); err != nil {
		return err
	}
	s.audit.EntryDeleted(ctx, ownerID, entryID)
	return nil
}

// Search decrypts every owned entry and retains those whose website or
// username contains query case-insensitively, further narrowed by the
// strength filter. Each result carries its computed strength label.
// This is a full decrypt-and-scan per call; no index is maintained.
func (s *VaultService) Search(ctx context.Context, ownerID, query string, filter StrengthFilter) ([]*models.EntryWithStrength, error) {
	if filter == "" {
		filter = FilterAll
	}

	entries, err := s.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(query)

	result := make([]*models.EntryWithStrength, 0, len(entries))
	for _, e := range entries {
		if !strings.Contains(strings.ToLower(e.Website), query) &&
			!strings.Contains(strings.ToLower(e.Username), query) {
			continue
		}

		label := FilterWeak
		if strength.IsStrong(e.Password) {
			label = FilterStrong
		}
		if filter != FilterAll && filter != label {
			continue
		}

		result = append(result, &models.EntryWithStrength{
			DecryptedEntry: *e,
			Strength:       string(label),
		})
	}
	return result, nil
}

// WeakReport flags entries that are weak by strength, share a password with
// another entry, or share a username with another entry, over the owner's
// full decrypted vault.
func (s *VaultService) WeakReport(ctx context.Context, ownerID string) ([]strength.Flagged, error) {
	entries, err := s.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	creds := make([]strength.Credential, 0, len(entries))
	for _, e := range entries {
		creds = append(creds, strength.Credential{Username: e.Username, Password: e.Password})
	}
	return strength.FlagWeak(creds), nil
}

// decryptEntry produces the plaintext view of one entry. Integrity failures
// are logged with identifiers only and abort the operation.
func (s *VaultService) decryptEntry(ctx context.Context, e *models.Entry) (*models.DecryptedEntry, error) {
	d := &models.DecryptedEntry{ID: e.ID, OwnerID: e.OwnerID}

	fields := []struct {
		name string
		blob []byte
		dst  *string
	}{
		{"website", e.Website, &d.Website},
		{"username", e.Username, &d.Username},
		{"password", e.Password, &d.Password},
	}
	for _, f := range fields {
		plaintext, err := s.cipher.DecryptField(f.blob)
		if err != nil {
			s.logger.Error(ctx, "entry field failed to decrypt",
				"entry_id", e.ID, "owner_id", e.OwnerID, "field", f.name)
			return nil, fmt.Errorf("entry %s: field %s: %w", e.ID, f.name, err)
		}
		*f.dst = plaintext
	}
	return d, nil
}

func applyField(override *string, current string) string {
	if override == nil {
		return current
	}
	return strings.TrimSpace(*override)
}

func validateEntryFields(website, username, password string) error {
	v := common.NewValidationError()
	if website == "" {
		v.Add("website", "Entry website is required.")
	}
	if username == "" {
		v.Add("username", "Entry username is required.")
	}
	if password == "" {
		v.Add("password", "Entry password is required.")
	}
	return v.ErrOrNil()
}
