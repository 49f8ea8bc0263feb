package users

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dunkey/dunkey-server/internal/common"
	"github.com/dunkey/dunkey-server/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_ReturnsAssignedID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("alice", "alice@example.com", []byte("hash"), []byte(nil)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("u1"))

	u, err := repo.Create(context.Background(), &models.User{
		UserName:     "alice",
		Email:        "alice@example.com",
		PasswordHash: []byte("hash"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ID != "u1" {
		t.Fatalf("expected assigned id, got %q", u.ID)
	}
}

func TestCreate_DuplicateMapsToErrDuplicate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pgconn.PgError{Code: uniqueViolation})

	_, err := repo.Create(context.Background(), &models.User{UserName: "alice"})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("want ErrDuplicate, got %v", err)
	}
}

func TestGetByUsername_ScansMasterBlob(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "encrypted_master_password", "created_at"}).
		AddRow("u1", "alice", "alice@example.com", []byte("hash"), []byte("blob"), time.Now())

	mock.ExpectQuery(`SELECT .* FROM users\s+WHERE username = \$1`).
		WithArgs("alice").
		WillReturnRows(rows)

	u, err := repo.GetByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(u.EncryptedMasterPassword) != "blob" {
		t.Fatalf("expected master blob to be scanned, got %q", u.EncryptedMasterPassword)
	}
}

func TestGetByUsername_NullMasterBlob(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "encrypted_master_password", "created_at"}).
		AddRow("u1", "alice", "alice@example.com", []byte("hash"), nil, time.Now())

	mock.ExpectQuery(`SELECT .* FROM users\s+WHERE username = \$1`).
		WithArgs("alice").
		WillReturnRows(rows)

	u, err := repo.GetByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.EncryptedMasterPassword != nil {
		t.Fatalf("expected nil master blob, got %q", u.EncryptedMasterPassword)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM users\s+WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestUpdateMasterPassword_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE users SET encrypted_master_password`).
		WithArgs("missing", []byte("blob")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateMasterPassword(context.Background(), "missing", []byte("blob"))
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestDeleteAll_ReturnsCount(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM users`).
		WillReturnResult(sqlmock.NewResult(0, 7))

	n, err := repo.DeleteAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 7 {
		t.Fatalf("expected 7 deleted users, got %d", n)
	}
}
