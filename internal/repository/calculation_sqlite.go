package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go-calc-auth/internal/model"
)

type SQLiteCalculationRepository struct {
	db *sql.DB
}

func NewSQLiteCalculationRepository(db *sql.DB) *SQLiteCalculationRepository {
	return &SQLiteCalculationRepository{db: db}
}

func (r *SQLiteCalculationRepository) Create(ctx context.Context, c model.Calculation) (model.Calculation, error) {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	c.CreatedAt = fromMillis(toMillis(c.CreatedAt))

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO calculations (account_id, type, a, b, result, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.AccountID, c.Type, c.A, c.B, c.Result, toMillis(c.CreatedAt))
	if err != nil {
		return model.Calculation{}, fmt.Errorf("create calculation: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return model.Calculation{}, fmt.Errorf("read calculation id: %w", err)
	}
	c.ID = id
	return c, nil
}

func (r *SQLiteCalculationRepository) ListByAccount(ctx context.Context, query model.CalculationQuery) ([]model.Calculation, model.Meta, error) {
	query = normalizePage(query)

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM calculations WHERE account_id = ?`, query.AccountID).
		Scan(&total); err != nil {
		return nil, model.Meta{}, fmt.Errorf("count calculations: %w", err)
	}

	offset := pageOffset(query)
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, account_id, type, a, b, result, created_at
		 FROM calculations
		 WHERE account_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ? OFFSET ?`, query.AccountID, query.Limit, offset)
	if err != nil {
		return nil, model.Meta{}, fmt.Errorf("query calculations: %w", err)
	}
	defer rows.Close()

	calcs := make([]model.Calculation, 0)
	for rows.Next() {
		var (
			c         model.Calculation
			createdAt int64
		)
		if err := rows.Scan(&c.ID, &c.AccountID, &c.Type, &c.A, &c.B, &c.Result, &createdAt); err != nil {
			return nil, model.Meta{}, fmt.Errorf("scan calculation: %w", err)
		}
		c.CreatedAt = fromMillis(createdAt)
		calcs = append(calcs, c)
	}

	return calcs, pageMeta(query, total), rows.Err()
}
