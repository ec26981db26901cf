package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/edgeledger/loanintel/internal/core/domain"
)

// LoanRepository stores loan records as JSONB documents ordered by an
// explicit position column, most recent first. An empty table is
// seeded with the built-in example loans on first read, so a fresh
// deployment always has a populated directory.
type LoanRepository struct {
	db *sql.DB
}

func NewLoanRepository(db *sql.DB) *LoanRepository {
	return &LoanRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *LoanRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026040101)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS loans (
	id TEXT PRIMARY KEY,
	doc JSONB NOT NULL,
	position INT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_loans_position ON loans(position ASC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *LoanRepository) List(ctx context.Context) ([]domain.Loan, error) {
	loans, err := r.listDocs(ctx)
	if err != nil {
		return nil, err
	}
	if len(loans) > 0 {
		return loans, nil
	}

	seeds := domain.SeedLoans()
	if err := r.insertSeeds(ctx, seeds); err != nil {
		return nil, err
	}
	return seeds, nil
}

func (r *LoanRepository) listDocs(ctx context.Context) ([]domain.Loan, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT doc
FROM loans
ORDER BY position ASC
`)
	if err != nil {
		return nil, domain.WrapError(domain.ErrStorageUnavailable, "list loans", err)
	}
	defer rows.Close()

	var loans []domain.Loan
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan loan: %w", err)
		}
		var loan domain.Loan
		if err := json.Unmarshal(raw, &loan); err != nil {
			return nil, fmt.Errorf("unmarshal loan: %w", err)
		}
		loans = append(loans, loan)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.WrapError(domain.ErrStorageUnavailable, "list loans", err)
	}
	return loans, nil
}

func (r *LoanRepository) insertSeeds(ctx context.Context, seeds []domain.Loan) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for i, loan := range seeds {
		raw, err := json.Marshal(loan)
		if err != nil {
			return fmt.Errorf("marshal seed loan: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
INSERT INTO loans (id, doc, position, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO NOTHING
`, loan.ID, raw, i, loan.CreatedAt, loan.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert seed loan: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}
	return nil
}

func (r *LoanRepository) GetByID(ctx context.Context, id string) (*domain.Loan, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT doc
FROM loans
WHERE id = $1
`, id)

	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapErrorf(domain.ErrLoanNotFound, "get loan", "id %s", id)
		}
		return nil, domain.WrapError(domain.ErrStorageUnavailable, "get loan", err)
	}

	var loan domain.Loan
	if err := json.Unmarshal(raw, &loan); err != nil {
		return nil, fmt.Errorf("unmarshal loan: %w", err)
	}
	return &loan, nil
}

// Upsert replaces an existing record in place or prepends a new one
// ahead of everything stored so far.
func (r *LoanRepository) Upsert(ctx context.Context, loan *domain.Loan) error {
	raw, err := json.Marshal(loan)
	if err != nil {
		return fmt.Errorf("marshal loan: %w", err)
	}
	now := time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
UPDATE loans
SET doc = $2, updated_at = $3
WHERE id = $1
`, loan.ID, raw, now)
	if err != nil {
		return domain.WrapError(domain.ErrStorageUnavailable, "update loan", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected > 0 {
		return nil
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO loans (id, doc, position, created_at, updated_at)
VALUES ($1, $2, (SELECT COALESCE(MIN(position), 1) - 1 FROM loans), $3, $4)
`, loan.ID, raw, loan.CreatedAt, now)
	if err != nil {
		return domain.WrapError(domain.ErrStorageUnavailable, "insert loan", err)
	}
	return nil
}

func (r *LoanRepository) Remove(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM loans WHERE id = $1`, id)
	if err != nil {
		return domain.WrapError(domain.ErrStorageUnavailable, "remove loan", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.WrapErrorf(domain.ErrLoanNotFound, "remove loan", "id %s", id)
	}
	return nil
}

// Clear empties the collection; the next List re-seeds the examples.
func (r *LoanRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM loans`); err != nil {
		return domain.WrapError(domain.ErrStorageUnavailable, "clear loans", err)
	}
	return nil
}
