package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"strconv"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/dunkey/dunkey-server/internal/common"
	"github.com/dunkey/dunkey-server/internal/cryptox"
	"github.com/dunkey/dunkey-server/internal/dbx"
	"github.com/dunkey/dunkey-server/internal/logging"
	"github.com/dunkey/dunkey-server/internal/server/models"
	"github.com/dunkey/dunkey-server/internal/server/repositories/entries"
	"github.com/dunkey/dunkey-server/internal/server/repositories/refreshtokens"
	"github.com/dunkey/dunkey-server/internal/server/repositories/users"
)

// In-memory repository fakes. They ignore the DBTX handle, so transactional
// code paths are exercised against sqlmock Begin/Commit expectations while
// the data lives here.

type fakeEntriesRepo struct {
	entries   []*models.Entry
	createErr error
	updateErr error
}

func (r *fakeEntriesRepo) Create(_ context.Context, entry *models.Entry) error {
	if r.createErr != nil {
		return r.createErr
	}
	e := *entry
	r.entries = append(r.entries, &e)
	return nil
}

func (r *fakeEntriesRepo) GetByOwner(_ context.Context, ownerID string) ([]*models.Entry, error) {
	var res []*models.Entry
	for _, e := range r.entries {
		if e.OwnerID == ownerID {
			c := *e
			res = append(res, &c)
		}
	}
	return res, nil
}

func (r *fakeEntriesRepo) GetByOwnerAndID(_ context.Context, ownerID, entryID string) (*models.Entry, error) {
	for _, e := range r.entries {
		if e.OwnerID == ownerID && e.ID == entryID {
			c := *e
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeEntriesRepo) Update(_ context.Context, entry *models.Entry) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	for i, e := range r.entries {
		if e.OwnerID == entry.OwnerID && e.ID == entry.ID {
			c := *entry
			c.CreatedAt = e.CreatedAt
			r.entries[i] = &c
			return nil
		}
	}
	return common.ErrorNotFound
}

func (r *fakeEntriesRepo) Delete(_ context.Context, ownerID, entryID string) error {
	for i, e := range r.entries {
		if e.OwnerID == ownerID && e.ID == entryID {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

type fakeUsersRepo struct {
	users  []*models.User
	nextID int
}

func (r *fakeUsersRepo) Create(_ context.Context, user *models.User) (*models.User, error) {
	for _, u := range r.users {
		if u.UserName == user.UserName || u.Email == user.Email {
			return nil, users.ErrDuplicate
		}
	}
	c := *user
	r.nextID++
	c.ID = "user-" + strconv.Itoa(r.nextID)
	c.CreatedAt = time.Now()
	r.users = append(r.users, &c)
	res := c
	return &res, nil
}

func (r *fakeUsersRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range r.users {
		if u.UserName == username {
			c := *u
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeUsersRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeUsersRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			c := *u
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeUsersRepo) UpdatePasswordHash(_ context.Context, id string, hash []byte) error {
	for _, u := range r.users {
		if u.ID == id {
			u.PasswordHash = hash
			return nil
		}
	}
	return common.ErrorNotFound
}

func (r *fakeUsersRepo) UpdateMasterPassword(_ context.Context, id string, blob []byte) error {
	for _, u := range r.users {
		if u.ID == id {
			u.EncryptedMasterPassword = blob
			return nil
		}
	}
	return common.ErrorNotFound
}

func (r *fakeUsersRepo) Delete(_ context.Context, id string) error {
	for i, u := range r.users {
		if u.ID == id {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

func (r *fakeUsersRepo) DeleteAll(_ context.Context) (int64, error) {
	n := int64(len(r.users))
	r.users = nil
	return n, nil
}

type fakeTokensRepo struct {
	tokens map[string]*models.RefreshToken
}

func (r *fakeTokensRepo) Create(_ context.Context, userID string, token string, validity time.Duration) error {
	if r.tokens == nil {
		r.tokens = make(map[string]*models.RefreshToken)
	}
	r.tokens[token] = &models.RefreshToken{
		UserID:    userID,
		Token:     token,
		Expires:   time.Now().Add(validity),
		CreatedAt: time.Now(),
	}
	return nil
}

func (r *fakeTokensRepo) Find(_ context.Context, token string) (*models.RefreshToken, error) {
	t, ok := r.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *t
	return &c, nil
}

func (r *fakeTokensRepo) Delete(_ context.Context, token string) error {
	delete(r.tokens, token)
	return nil
}

type fakeRepoManager struct {
	entriesRepo *fakeEntriesRepo
	usersRepo   *fakeUsersRepo
	tokensRepo  *fakeTokensRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		entriesRepo: &fakeEntriesRepo{},
		usersRepo:   &fakeUsersRepo{},
		tokensRepo:  &fakeTokensRepo{},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository { return m.usersRepo }

func (m *fakeRepoManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository { return m.tokensRepo }

func (m *fakeRepoManager) Entries(dbx.DBTX) entries.Repository { return m.entriesRepo }

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testCipher(t *testing.T) *cryptox.FieldCipher {
	t.Helper()
	key := make(cryptox.Key, 32)
	for i := range key {
		key[i] = byte(i)
	}
	cipher, err := cryptox.NewFieldCipher(key)
	require.NoError(t, err)
	return cipher
}

func testDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}
