package slots

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/usuarios/internal/dbx"
)

// SQLiteRepository stores slots in the `slots` table created by the client
// migrations.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, name string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM slots WHERE name = ?`, name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get slot[%s]: %w", name, err)
	}
	return value, nil
}

func (r *SQLiteRepository) Put(ctx context.Context, name string, value []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO slots (name, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, name, value)
	if err != nil {
		return fmt.Errorf("failed to put slot[%s]: %w", name, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, name string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM slots WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete slot[%s]: %w", name, err)
	}
	return nil
}
