package worker

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"financas/internal/amqp"
	"financas/internal/backup/memory"
	"financas/internal/core"
	"financas/internal/storage"
)

func testStorage(t *testing.T) *storage.Repository {
	t.Helper()
	repo, err := storage.NewRepository(filepath.Join(t.TempDir(), "worker.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func insertRecord(t *testing.T, repo *storage.Repository) int64 {
	t.Helper()
	id, err := repo.InsertRecord(context.Background(), core.Record{
		Kind:        core.KindExpense,
		Amount:      core.Money{Cents: 4200},
		OccurredAt:  time.Date(2025, time.April, 10, 12, 0, 0, 0, time.UTC),
		Category:    "Mercado",
		Description: "compras",
		Status:      core.StatusSettled,
	})
	if err != nil {
		t.Fatalf("insert record: %v", err)
	}
	return id
}

func TestHandleBackupMessage(t *testing.T) {
	repo := testStorage(t)
	writer := memory.New()
	w := NewBackupWorker(repo, writer, 10)
	ctx := context.Background()

	id := insertRecord(t, repo)

	if err := w.HandleBackupMessage(ctx, &amqp.BackupMessage{ID: id}); err != nil {
		t.Fatalf("HandleBackupMessage: %v", err)
	}

	rows := writer.Rows()
	if len(rows) != 1 || rows[0].Amount.Cents != 4200 {
		t.Fatalf("backed up rows = %+v", rows)
	}

	pending, err := repo.ListPendingBackups(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 0 {
		t.Errorf("record still pending after backup: %v", pending)
	}
}

func TestHandleBackupMessageMissingRecord(t *testing.T) {
	repo := testStorage(t)
	w := NewBackupWorker(repo, memory.New(), 10)

	// A record deleted before the worker got to it is not an error.
	if err := w.HandleBackupMessage(context.Background(), &amqp.BackupMessage{ID: 999}); err != nil {
		t.Fatalf("HandleBackupMessage: %v", err)
	}
}

func TestProcessPendingBackupsRetriesAfterFailure(t *testing.T) {
	repo := testStorage(t)
	writer := memory.New()
	w := NewBackupWorker(repo, writer, 10)
	ctx := context.Background()

	id := insertRecord(t, repo)

	writer.FailNext = true
	if err := w.HandleBackupMessage(ctx, &amqp.BackupMessage{ID: id}); err == nil {
		t.Fatal("expected append failure")
	}

	// The failed row was marked error, so the pending sweep skips it
	// until something re-queues it.
	if err := repo.SetBackupState(ctx, id, storage.BackupPending); err != nil {
		t.Fatal(err)
	}

	if err := w.ProcessPendingBackups(ctx); err != nil {
		t.Fatalf("ProcessPendingBackups: %v", err)
	}
	if rows := writer.Rows(); len(rows) != 1 {
		t.Fatalf("rows after retry = %d, want 1", len(rows))
	}
}
