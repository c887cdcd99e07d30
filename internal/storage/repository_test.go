package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"financas/internal/core"
)

func testRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func sampleRecord(day int) core.Record {
	return core.Record{
		Kind:        core.KindExpense,
		Amount:      core.Money{Cents: 1250},
		OccurredAt:  time.Date(2025, time.April, day, 15, 0, 0, 0, time.UTC),
		Category:    "Mercado",
		Description: "compras",
		Status:      core.StatusSettled,
	}
}

func TestRecordRoundTrip(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	id, err := repo.InsertRecord(ctx, sampleRecord(10))
	if err != nil {
		t.Fatal(err)
	}

	got, err := repo.GetRecord(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if got.Kind != core.KindExpense || got.Amount.Cents != 1250 || got.Category != "Mercado" {
		t.Fatalf("record mangled: %+v", got)
	}
	if !got.OccurredAt.Equal(sampleRecord(10).OccurredAt) {
		t.Fatalf("timestamp mangled: %v", got.OccurredAt)
	}

	got.Amount = core.Money{Cents: 999}
	if err := repo.UpdateRecord(ctx, got); err != nil {
		t.Fatal(err)
	}
	if err := repo.SoftDeleteRecord(ctx, id); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.GetRecord(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleted record still visible: %v", err)
	}
}

func TestListRecordsInRange(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	for _, day := range []int{1, 15, 30} {
		if _, err := repo.InsertRecord(ctx, sampleRecord(day)); err != nil {
			t.Fatal(err)
		}
	}

	rng := core.Range{
		Start: time.Date(2025, time.April, 10, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, time.April, 16, 0, 0, 0, 0, time.UTC),
	}
	recs, err := repo.ListRecordsInRange(ctx, rng)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].OccurredAt.Day() != 15 {
		t.Fatalf("expected only the April 15 record, got %v", recs)
	}
}

func TestBackupQueue(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	id, err := repo.InsertRecord(ctx, sampleRecord(5))
	if err != nil {
		t.Fatal(err)
	}

	pending, err := repo.ListPendingBackups(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 || pending[0] != id {
		t.Fatalf("expected new record pending backup, got %v", pending)
	}

	if err := repo.SetBackupState(ctx, id, BackupDone); err != nil {
		t.Fatal(err)
	}
	pending, err = repo.ListPendingBackups(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected empty backup queue, got %v", pending)
	}
}

func TestPayableLifecycle(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	id, err := repo.InsertPayable(ctx, Payable{
		Description: "Aluguel",
		Amount:      core.Money{Cents: 150000},
		DueDate:     core.NewDate(2025, 5, 5),
	})
	if err != nil {
		t.Fatal(err)
	}

	txID, err := repo.InsertRecord(ctx, sampleRecord(20))
	if err != nil {
		t.Fatal(err)
	}
	if err := repo.MarkPayablePaid(ctx, id, txID); err != nil {
		t.Fatal(err)
	}

	p, err := repo.GetPayable(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if p.Status != PayablePaid || !p.TransactionID.Valid || p.TransactionID.Int64 != txID {
		t.Fatalf("payable not linked: %+v", p)
	}

	// Paying twice must fail: the row is no longer pending.
	if err := repo.MarkPayablePaid(ctx, id, txID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on double pay, got %v", err)
	}
}

func TestUserLookup(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	if _, err := repo.GetUserByUsername(ctx, "david"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := repo.CreateUser(ctx, "david", "hash"); err != nil {
		t.Fatal(err)
	}
	u, err := repo.GetUserByUsername(ctx, "david")
	if err != nil {
		t.Fatal(err)
	}
	if u.Username != "david" || u.PasswordHash != "hash" {
		t.Fatalf("user mangled: %+v", u)
	}
}
