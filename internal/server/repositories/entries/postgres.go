package entries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dunkey/dunkey-server/internal/common"
	"github.com/dunkey/dunkey-server/internal/dbx"
	"github.com/dunkey/dunkey-server/internal/server/models"
)

// PostgresRepository implements entry storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, entry *models.Entry) error {
	query := `
		INSERT INTO entries (id, user_id, website, username, password)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.OwnerID, entry.Website, entry.Username, entry.Password); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByOwner(ctx context.Context, ownerID string) ([]*models.Entry, error) {
	query := `
		SELECT id, user_id, website, username, password, created_at, updated_at
		FROM entries
		WHERE user_id = $1
		ORDER BY created_at, id
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Entry
	for rows.Next() {
		var item models.Entry
		if err := rows.Scan(&item.ID, &item.OwnerID, &item.Website, &item.Username,
			&item.Password, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) GetByOwnerAndID(ctx context.Context, ownerID, entryID string) (*models.Entry, error) {
	query := `
		SELECT id, user_id, website, username, password, created_at, updated_at
		FROM entries
		WHERE user_id = $1 AND id = $2
	`
	entry := &models.Entry{}
	err := r.db.QueryRowContext(ctx, query, ownerID, entryID).Scan(
		&entry.ID, &entry.OwnerID, &entry.Website, &entry.Username,
		&entry.Password, &entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return entry, nil
}

func (r *PostgresRepository) Update(ctx context.Context, entry *models.Entry) error {
	query := `
		UPDATE entries
		SET website = $3, username = $4, password = $5, updated_at = now()
		WHERE user_id = $1 AND id = $2
	`
	res, err := r.db.ExecContext(ctx, query,
		entry.OwnerID, entry.ID, entry.Website, entry.Username, entry.Password)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, ownerID, entryID string) error {
	query := `
		DELETE FROM entries
		WHERE user_id = $1 AND id = $2
	`
	res, err := r.db.ExecContext(ctx, query, ownerID, entryID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(res)
}

// requireOneRow maps "no rows touched" to ErrorNotFound, which covers both a
// missing entry and an ownership mismatch.
func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}
