package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-calc-auth/internal/model"
)

const pgAccountColumns = `id, username, email, first_name, last_name, password_hash, is_active, created_at, updated_at`

type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

func (r *PostgresAccountRepository) Create(ctx context.Context, a model.Account) (model.Account, error) {
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = a.CreatedAt
	}

	err := r.pool.QueryRow(ctx,
		`INSERT INTO accounts (username, email, first_name, last_name, password_hash, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		a.Username, a.Email, a.FirstName, a.LastName, a.PasswordHash, a.IsActive, a.CreatedAt, a.UpdatedAt).
		Scan(&a.ID)
	if err != nil {
		if mapped, ok := uniqueViolation(err); ok {
			return model.Account{}, mapped
		}
		return model.Account{}, fmt.Errorf("create account: %w", err)
	}
	return a, nil
}

func (r *PostgresAccountRepository) FindByID(ctx context.Context, id int64) (model.Account, error) {
	return r.findOne(ctx, "find account by id",
		`SELECT `+pgAccountColumns+` FROM accounts WHERE id = $1`, id)
}

func (r *PostgresAccountRepository) FindByUsername(ctx context.Context, username string) (model.Account, error) {
	return r.findOne(ctx, "find account by username",
		`SELECT `+pgAccountColumns+` FROM accounts WHERE username = $1`, username)
}

func (r *PostgresAccountRepository) FindByEmail(ctx context.Context, email string) (model.Account, error) {
	return r.findOne(ctx, "find account by email",
		`SELECT `+pgAccountColumns+` FROM accounts WHERE email = $1`, email)
}

func (r *PostgresAccountRepository) FindByLogin(ctx context.Context, identifier string) (model.Account, error) {
	return r.findOne(ctx, "find account by login",
		`SELECT `+pgAccountColumns+` FROM accounts
		 WHERE username = $1 OR email = $1
		 ORDER BY CASE WHEN username = $1 THEN 0 ELSE 1 END, id
		 LIMIT 1`, identifier)
}

func (r *PostgresAccountRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE accounts SET password_hash = $2, updated_at = $3 WHERE id = $1`,
		id, passwordHash, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAccountNotFound
	}
	return nil
}

func (r *PostgresAccountRepository) findOne(ctx context.Context, op string, query string, arg any) (model.Account, error) {
	var a model.Account
	err := r.pool.QueryRow(ctx, query, arg).
		Scan(&a.ID, &a.Username, &a.Email, &a.FirstName, &a.LastName, &a.PasswordHash,
			&a.IsActive, &a.CreatedAt, &a.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Account{}, model.ErrAccountNotFound
	}
	if err != nil {
		return model.Account{}, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}
