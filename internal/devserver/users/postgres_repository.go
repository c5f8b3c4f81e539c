package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrijs2005/usuarios/internal/common"
	"github.com/dmitrijs2005/usuarios/internal/dbx"
)

// uniqueViolation is the PostgreSQL SQLSTATE for a unique-key conflict.
const uniqueViolation = "23505"

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *User) (*User, error) {
	query :=
		`INSERT INTO users (nombre_usuario, correo_electronico, password_hash, estatus)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`

	u := *user
	err := r.db.QueryRowContext(ctx, query,
		u.Username, u.Email, u.PasswordHash, u.Status).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return nil, mapWriteError(err, u.Email)
	}

	return &u, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	query :=
		`SELECT id, nombre_usuario, correo_electronico, password_hash, estatus, created_at FROM users
		 WHERE id = $1`

	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query :=
		`SELECT id, nombre_usuario, correo_electronico, password_hash, estatus, created_at FROM users
		 WHERE lower(correo_electronico) = lower($1)`

	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

// Update locks the row so that the stored hash it may carry over is the one
// being replaced.
func (r *PostgresRepository) Update(ctx context.Context, user *User) (*User, error) {
	u := *user

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var hash []byte
		err := tx.QueryRowContext(ctx,
			`SELECT password_hash FROM users WHERE id = $1 FOR UPDATE`, u.ID).Scan(&hash)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return common.ErrorNotFound
			}
			return fmt.Errorf("db error: %w", err)
		}
		if len(u.PasswordHash) == 0 {
			u.PasswordHash = hash
		}

		query :=
			`UPDATE users
			 SET nombre_usuario = $1, correo_electronico = $2, estatus = $3, password_hash = $4
			 WHERE id = $5
			 RETURNING created_at`

		err = tx.QueryRowContext(ctx, query,
			u.Username, u.Email, u.Status, u.PasswordHash, u.ID).Scan(&u.CreatedAt)
		if err != nil {
			return mapWriteError(err, u.Email)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &u, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func scanUser(row *sql.Row) (*User, error) {
	u := &User{}
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Status, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func mapWriteError(err error, email string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return &DuplicateEmailError{Email: email}
	}
	return fmt.Errorf("db error: %w", err)
}
