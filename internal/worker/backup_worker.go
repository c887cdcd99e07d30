package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"financas/internal/amqp"
	"financas/internal/backup"
	"financas/internal/storage"
)

// BackupWorker copies persisted transactions to an external backup target.
// It is driven by AMQP messages and by a periodic sweep over rows still
// marked pending, so a lost message never strands a record.
type BackupWorker struct {
	storage   *storage.Repository
	writer    backup.RecordWriter
	batchSize int
}

func NewBackupWorker(storage *storage.Repository, writer backup.RecordWriter, batchSize int) *BackupWorker {
	if batchSize < 1 {
		batchSize = 25
	}
	return &BackupWorker{
		storage:   storage,
		writer:    writer,
		batchSize: batchSize,
	}
}

// HandleBackupMessage processes a single backup message from AMQP.
func (w *BackupWorker) HandleBackupMessage(ctx context.Context, msg *amqp.BackupMessage) error {
	slog.InfoContext(ctx, "Processing backup message", "id", msg.ID)
	return w.backupRecord(ctx, msg.ID)
}

// ProcessPendingBackups sweeps rows still marked pending. It runs at worker
// startup and on a timer as a recovery path for missed AMQP messages.
func (w *BackupWorker) ProcessPendingBackups(ctx context.Context) error {
	ids, err := w.storage.ListPendingBackups(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list pending backups: %w", err)
	}

	if len(ids) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending backups", "count", len(ids))

	var failed int
	for _, id := range ids {
		if err := w.backupRecord(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to back up record", "id", id, "error", err)
			failed++
		}
	}

	slog.InfoContext(ctx, "Pending backup sweep completed",
		"total", len(ids),
		"succeeded", len(ids)-failed,
		"failed", failed)

	return nil
}

func (w *BackupWorker) backupRecord(ctx context.Context, id int64) error {
	rec, err := w.storage.GetRecord(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Deleted before the backup ran. Nothing to do.
			slog.WarnContext(ctx, "Record gone before backup, skipping", "id", id)
			return nil
		}
		return fmt.Errorf("get record from storage: %w", err)
	}

	ref, err := w.writer.Append(ctx, rec)
	if err != nil {
		if markErr := w.storage.SetBackupState(ctx, id, storage.BackupError); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark backup error", "id", id, "error", markErr)
		}
		return fmt.Errorf("append record to backup: %w", err)
	}

	if err := w.storage.SetBackupState(ctx, id, storage.BackupDone); err != nil {
		// The backup itself succeeded; the row stays pending and the
		// sweep will retry, which the target tolerates.
		slog.ErrorContext(ctx, "Failed to mark backup done", "id", id, "error", err)
	}

	slog.InfoContext(ctx, "Record backed up",
		"id", id,
		"backup_ref", ref,
		"amount_cents", rec.Amount.Cents)

	return nil
}
