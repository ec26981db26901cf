package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/edgeledger/loanintel/internal/core/domain"
)

func newLoanRepoWithMock(t *testing.T) (*LoanRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &LoanRepository{db: db}, mock, func() { _ = db.Close() }
}

func TestLoanListSeedsEmptyTable(t *testing.T) {
	repo, mock, done := newLoanRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT doc").
		WillReturnRows(sqlmock.NewRows([]string{"doc"}))

	mock.ExpectBegin()
	for range domain.SeedLoans() {
		mock.ExpectExec("INSERT INTO loans").
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	loans, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(loans) != 3 {
		t.Fatalf("got %d loans, want 3 seeds", len(loans))
	}
	if loans[0].ID != "LN-2024-001" {
		t.Fatalf("first seed = %s", loans[0].ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestLoanListReturnsStoredOrder(t *testing.T) {
	repo, mock, done := newLoanRepoWithMock(t)
	defer done()

	seeds := domain.SeedLoans()
	rows := sqlmock.NewRows([]string{"doc"})
	for _, loan := range []domain.Loan{seeds[1], seeds[0]} {
		raw, _ := json.Marshal(loan)
		rows.AddRow(raw)
	}
	mock.ExpectQuery("SELECT doc").WillReturnRows(rows)

	loans, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(loans) != 2 || loans[0].ID != "LN-2024-002" {
		t.Fatalf("stored order not preserved: %v", loans[0].ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestLoanListWrapsStorageError(t *testing.T) {
	repo, mock, done := newLoanRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT doc").WillReturnError(sql.ErrConnDone)

	_, err := repo.List(context.Background())
	if !domain.IsKind(err, domain.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}

func TestLoanGetByIDNotFound(t *testing.T) {
	repo, mock, done := newLoanRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT doc").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if !domain.IsKind(err, domain.ErrLoanNotFound) {
		t.Fatalf("expected ErrLoanNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestLoanUpsertUpdatesExisting(t *testing.T) {
	repo, mock, done := newLoanRepoWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE loans").
		WillReturnResult(sqlmock.NewResult(0, 1))

	loan := domain.SeedLoans()[0]
	if err := repo.Upsert(context.Background(), &loan); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestLoanUpsertPrependsNew(t *testing.T) {
	repo, mock, done := newLoanRepoWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE loans").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO loans").
		WillReturnResult(sqlmock.NewResult(0, 1))

	loan := domain.SeedLoans()[0]
	loan.ID = "LN-2026-004"
	if err := repo.Upsert(context.Background(), &loan); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestLoanRemoveNotFound(t *testing.T) {
	repo, mock, done := newLoanRepoWithMock(t)
	defer done()

	mock.ExpectExec("DELETE FROM loans").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Remove(context.Background(), "missing")
	if !domain.IsKind(err, domain.ErrLoanNotFound) {
		t.Fatalf("expected ErrLoanNotFound, got %v", err)
	}
}

func TestLoanClear(t *testing.T) {
	repo, mock, done := newLoanRepoWithMock(t)
	defer done()

	mock.ExpectExec("DELETE FROM loans").
		WillReturnResult(sqlmock.NewResult(0, 3))

	if err := repo.Clear(context.Background()); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
