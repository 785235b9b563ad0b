package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go-calc-auth/internal/model"
)

const liteAccountColumns = `id, username, email, first_name, last_name, password_hash, is_active, created_at, updated_at`

// SQLiteAccountRepository stores timestamps as UTC unix milliseconds.
type SQLiteAccountRepository struct {
	db *sql.DB
}

func NewSQLiteAccountRepository(db *sql.DB) *SQLiteAccountRepository {
	return &SQLiteAccountRepository{db: db}
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

func (r *SQLiteAccountRepository) Create(ctx context.Context, a model.Account) (model.Account, error) {
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = a.CreatedAt
	}
	// Round-trip precision matches what a later read returns.
	a.CreatedAt = fromMillis(toMillis(a.CreatedAt))
	a.UpdatedAt = fromMillis(toMillis(a.UpdatedAt))

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (username, email, first_name, last_name, password_hash, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.Username, a.Email, a.FirstName, a.LastName, a.PasswordHash, a.IsActive,
		toMillis(a.CreatedAt), toMillis(a.UpdatedAt))
	if err != nil {
		if mapped, ok := uniqueViolation(err); ok {
			return model.Account{}, mapped
		}
		return model.Account{}, fmt.Errorf("create account: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return model.Account{}, fmt.Errorf("read account id: %w", err)
	}
	a.ID = id
	return a, nil
}

func (r *SQLiteAccountRepository) FindByID(ctx context.Context, id int64) (model.Account, error) {
	return r.findOne(ctx, "find account by id",
		`SELECT `+liteAccountColumns+` FROM accounts WHERE id = ?`, id)
}

func (r *SQLiteAccountRepository) FindByUsername(ctx context.Context, username string) (model.Account, error) {
	return r.findOne(ctx, "find account by username",
		`SELECT `+liteAccountColumns+` FROM accounts WHERE username = ?`, username)
}

func (r *SQLiteAccountRepository) FindByEmail(ctx context.Context, email string) (model.Account, error) {
	return r.findOne(ctx, "find account by email",
		`SELECT `+liteAccountColumns+` FROM accounts WHERE email = ?`, email)
}

func (r *SQLiteAccountRepository) FindByLogin(ctx context.Context, identifier string) (model.Account, error) {
	return r.findOne(ctx, "find account by login",
		`SELECT `+liteAccountColumns+` FROM accounts
		 WHERE username = ? OR email = ?
		 ORDER BY CASE WHEN username = ? THEN 0 ELSE 1 END, id
		 LIMIT 1`, identifier, identifier, identifier)
}

func (r *SQLiteAccountRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET password_hash = ?, updated_at = ? WHERE id = ?`,
		passwordHash, toMillis(time.Now()), id)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if affected == 0 {
		return model.ErrAccountNotFound
	}
	return nil
}

func (r *SQLiteAccountRepository) findOne(ctx context.Context, op string, query string, args ...any) (model.Account, error) {
	var (
		a         model.Account
		createdAt int64
		updatedAt int64
	)
	err := r.db.QueryRowContext(ctx, query, args...).
		Scan(&a.ID, &a.Username, &a.Email, &a.FirstName, &a.LastName, &a.PasswordHash,
			&a.IsActive, &createdAt, &updatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return model.Account{}, model.ErrAccountNotFound
	}
	if err != nil {
		return model.Account{}, fmt.Errorf("%s: %w", op, err)
	}

	a.CreatedAt = fromMillis(createdAt)
	a.UpdatedAt = fromMillis(updatedAt)
	return a, nil
}
