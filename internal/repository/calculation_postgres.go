package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"go-calc-auth/internal/model"
)

type PostgresCalculationRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresCalculationRepository(pool *pgxpool.Pool) *PostgresCalculationRepository {
	return &PostgresCalculationRepository{pool: pool}
}

func (r *PostgresCalculationRepository) Create(ctx context.Context, c model.Calculation) (model.Calculation, error) {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	err := r.pool.QueryRow(ctx,
		`INSERT INTO calculations (account_id, type, a, b, result, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		c.AccountID, c.Type, c.A, c.B, c.Result, c.CreatedAt).
		Scan(&c.ID)
	if err != nil {
		return model.Calculation{}, fmt.Errorf("create calculation: %w", err)
	}
	return c, nil
}

func (r *PostgresCalculationRepository) ListByAccount(ctx context.Context, query model.CalculationQuery) ([]model.Calculation, model.Meta, error) {
	query = normalizePage(query)

	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM calculations WHERE account_id = $1`, query.AccountID).
		Scan(&total); err != nil {
		return nil, model.Meta{}, fmt.Errorf("count calculations: %w", err)
	}

	offset := pageOffset(query)
	rows, err := r.pool.Query(ctx,
		`SELECT id, account_id, type, a, b, result, created_at
		 FROM calculations
		 WHERE account_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2 OFFSET $3`, query.AccountID, query.Limit, offset)
	if err != nil {
		return nil, model.Meta{}, fmt.Errorf("query calculations: %w", err)
	}
	defer rows.Close()

	calcs := make([]model.Calculation, 0)
	for rows.Next() {
		var c model.Calculation
		if err := rows.Scan(&c.ID, &c.AccountID, &c.Type, &c.A, &c.B, &c.Result, &c.CreatedAt); err != nil {
			return nil, model.Meta{}, fmt.Errorf("scan calculation: %w", err)
		}
		calcs = append(calcs, c)
	}

	return calcs, pageMeta(query, total), rows.Err()
}
