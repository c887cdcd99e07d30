// Package services orchestrates storage, messaging and the aggregation
// engine behind the HTTP handlers.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"financas/internal/amqp"
	"financas/internal/core"
	"financas/internal/storage"
)

// TransactionService orchestrates transaction writes across SQLite and AMQP.
type TransactionService struct {
	storage    *storage.Repository
	amqpClient *amqp.Client
}

func NewTransactionService(storage *storage.Repository, amqpClient *amqp.Client) *TransactionService {
	return &TransactionService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// Create saves a transaction locally and publishes a backup message.
func (s *TransactionService) Create(ctx context.Context, rec core.Record) (int64, error) {
	if err := rec.Validate(); err != nil {
		return 0, fmt.Errorf("validate transaction: %w", err)
	}
	if rec.Status == "" {
		rec.Status = core.StatusSettled
	}

	id, err := s.storage.InsertRecord(ctx, rec)
	if err != nil {
		return 0, fmt.Errorf("save transaction: %w", err)
	}

	// The local write is the source of truth; a failed publish just means
	// the pending sweep backs the row up later.
	s.publishBackupMessage(ctx, id)

	return id, nil
}

// Update rewrites a stored transaction and re-queues it for backup.
func (s *TransactionService) Update(ctx context.Context, rec core.Record) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("validate transaction: %w", err)
	}
	if rec.Status == "" {
		rec.Status = core.StatusSettled
	}

	if err := s.storage.UpdateRecord(ctx, rec); err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}

	s.publishBackupMessage(ctx, rec.ID)

	return nil
}

// Delete soft deletes a transaction. The backup target keeps its row; only
// the local store forgets it.
func (s *TransactionService) Delete(ctx context.Context, id int64) error {
	if err := s.storage.SoftDeleteRecord(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}

// Get returns one stored transaction.
func (s *TransactionService) Get(ctx context.Context, id int64) (core.Record, error) {
	return s.storage.GetRecord(ctx, id)
}

// Recent returns the latest transactions for list views.
func (s *TransactionService) Recent(ctx context.Context, limit int) ([]core.Record, error) {
	return s.storage.ListRecentRecords(ctx, limit)
}

func (s *TransactionService) publishBackupMessage(ctx context.Context, id int64) {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping backup message", "id", id)
		return
	}
	if err := s.amqpClient.PublishBackup(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish backup message", "id", id, "error", err)
	}
}

// Close closes both storage and AMQP connections.
func (s *TransactionService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close transaction service: %v", errs)
	}
	return nil
}
