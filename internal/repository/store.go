package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"go-calc-auth/internal/database"
	"go-calc-auth/internal/model"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
	// maxPage keeps (page-1)*limit inside 32 bits for every accepted limit.
	maxPage = math.MaxInt32 / maxPageLimit

	constraintUsername = "uq_accounts_username"
	constraintEmail    = "uq_accounts_email"

	pgUniqueViolation = "23505"
)

type AccountStore interface {
	Create(ctx context.Context, account model.Account) (model.Account, error)
	FindByID(ctx context.Context, id int64) (model.Account, error)
	FindByUsername(ctx context.Context, username string) (model.Account, error)
	FindByEmail(ctx context.Context, email string) (model.Account, error)
	// FindByLogin matches the identifier against username or email. A
	// username match wins when both could apply.
	FindByLogin(ctx context.Context, identifier string) (model.Account, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

type CalculationStore interface {
	Create(ctx context.Context, calc model.Calculation) (model.Calculation, error)
	ListByAccount(ctx context.Context, query model.CalculationQuery) ([]model.Calculation, model.Meta, error)
}

// NewStores returns the account and calculation stores for the backend db
// was opened with.
func NewStores(db *database.DB) (AccountStore, CalculationStore, error) {
	if db == nil {
		return nil, nil, fmt.Errorf("database is not initialized")
	}

	switch db.Driver {
	case database.DriverPostgres:
		return NewPostgresAccountRepository(db.Pool), NewPostgresCalculationRepository(db.Pool), nil
	case database.DriverSQLite:
		return NewSQLiteAccountRepository(db.SQL), NewSQLiteCalculationRepository(db.SQL), nil
	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", db.Driver)
	}
}

func normalizePage(query model.CalculationQuery) model.CalculationQuery {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.Page > maxPage {
		query.Page = maxPage
	}
	if query.Limit <= 0 {
		query.Limit = defaultPageLimit
	}
	if query.Limit > maxPageLimit {
		query.Limit = maxPageLimit
	}
	return query
}

func pageOffset(query model.CalculationQuery) int {
	return (query.Page - 1) * query.Limit
}

func pageMeta(query model.CalculationQuery, total int) model.Meta {
	totalPages := 0
	if total > 0 {
		totalPages = (total + query.Limit - 1) / query.Limit
	}
	return model.Meta{Page: query.Page, Limit: query.Limit, Total: total, TotalPages: totalPages}
}

// uniqueViolation maps a backend unique-constraint error onto the model
// sentinel for the column that collided. ok is false for any other error.
func uniqueViolation(err error) (error, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		switch pgErr.ConstraintName {
		case constraintUsername:
			return model.ErrUsernameTaken, true
		case constraintEmail:
			return model.ErrEmailTaken, true
		default:
			return model.ErrAccountExists, true
		}
	}

	var liteErr *msqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		if code != sqlite3lib.SQLITE_CONSTRAINT_UNIQUE && code != sqlite3lib.SQLITE_CONSTRAINT {
			return nil, false
		}
		msg := liteErr.Error()
		switch {
		case strings.Contains(msg, "accounts.username"):
			return model.ErrUsernameTaken, true
		case strings.Contains(msg, "accounts.email"):
			return model.ErrEmailTaken, true
		case strings.Contains(msg, "UNIQUE"):
			return model.ErrAccountExists, true
		}
	}

	return nil, false
}
