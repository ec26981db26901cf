package memstore

import (
	"context"
	"testing"

	"github.com/edgeledger/loanintel/internal/core/domain"
)

func TestListSeedsOnFirstRead(t *testing.T) {
	store := NewLoanStore()

	loans, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(loans) != 3 {
		t.Fatalf("got %d loans, want 3 seeds", len(loans))
	}

	again, _ := store.List(context.Background())
	if len(again) != 3 {
		t.Fatalf("second List() = %d loans, seed must not repeat", len(again))
	}
}

func TestUpsertPrependsNewLoan(t *testing.T) {
	store := NewLoanStore()
	if _, err := store.List(context.Background()); err != nil {
		t.Fatalf("List() error = %v", err)
	}

	loan := domain.SeedLoans()[0]
	loan.ID = "LN-2026-004"
	if err := store.Upsert(context.Background(), &loan); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	loans, _ := store.List(context.Background())
	if len(loans) != 4 || loans[0].ID != "LN-2026-004" {
		t.Fatalf("new loan must be first: %s of %d", loans[0].ID, len(loans))
	}
}

func TestUpsertReplacesInPlace(t *testing.T) {
	store := NewLoanStore()
	if _, err := store.List(context.Background()); err != nil {
		t.Fatalf("List() error = %v", err)
	}

	loan, err := store.GetByID(context.Background(), "LN-2024-002")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	loan.Borrower.Value = "Renamed Borrower"
	if err := store.Upsert(context.Background(), loan); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	loans, _ := store.List(context.Background())
	if len(loans) != 3 {
		t.Fatalf("replace must not grow collection: %d", len(loans))
	}
	if loans[1].ID != "LN-2024-002" || loans[1].Borrower.Value != "Renamed Borrower" {
		t.Fatalf("loan not replaced in place: %+v", loans[1].ID)
	}
}

func TestClearArmsReseed(t *testing.T) {
	store := NewLoanStore()
	if _, err := store.List(context.Background()); err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if err := store.Clear(context.Background()); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	loans, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(loans) != 3 {
		t.Fatalf("cleared store must re-seed on read, got %d", len(loans))
	}
}

func TestRemoveDropsLoan(t *testing.T) {
	store := NewLoanStore()
	if _, err := store.List(context.Background()); err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if err := store.Remove(context.Background(), "LN-2024-002"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	loans, _ := store.List(context.Background())
	if len(loans) != 2 {
		t.Fatalf("got %d loans after removal, want 2", len(loans))
	}
	if _, err := store.GetByID(context.Background(), "LN-2024-002"); !domain.IsKind(err, domain.ErrLoanNotFound) {
		t.Fatalf("expected ErrLoanNotFound, got %v", err)
	}
}

func TestGetByIDCopiesValue(t *testing.T) {
	store := NewLoanStore()
	if _, err := store.List(context.Background()); err != nil {
		t.Fatalf("List() error = %v", err)
	}

	loan, _ := store.GetByID(context.Background(), "LN-2024-001")
	loan.Borrower.Value = "mutated"

	fresh, _ := store.GetByID(context.Background(), "LN-2024-001")
	if fresh.Borrower.Value == "mutated" {
		t.Fatal("GetByID must return a copy")
	}
}

func TestDocumentDataRoundTrip(t *testing.T) {
	store := NewDocumentDataStore()
	ctx := context.Background()

	if err := store.Put(ctx, &domain.DocumentData{FileID: "f-1", RiskScore: 80}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	data, err := store.Get(ctx, "f-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if data == nil || data.RiskScore != 80 {
		t.Fatalf("unexpected data: %+v", data)
	}

	if err := store.AppendMessage(ctx, domain.ChatMessage{ID: "m1", FileID: "f-1", Role: domain.RoleUser, Content: "q"}); err != nil {
		t.Fatalf("AppendMessage() error = %v", err)
	}
	msgs, _ := store.Transcript(ctx, "f-1")
	if len(msgs) != 1 {
		t.Fatalf("transcript = %d messages, want 1", len(msgs))
	}

	if err := store.Clear(ctx, "f-1"); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	data, _ = store.Get(ctx, "f-1")
	if data != nil {
		t.Fatal("Clear must drop document data")
	}
	msgs, _ = store.Transcript(ctx, "f-1")
	if len(msgs) != 0 {
		t.Fatal("Clear must drop transcript")
	}
}
