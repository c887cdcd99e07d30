// Package memory provides an in-memory backup target for tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"financas/internal/backup"
	"financas/internal/core"
)

type Writer struct {
	mu   sync.Mutex
	rows []core.Record

	// FailNext makes the next Append return an error, for testing
	// retry and error-state handling.
	FailNext bool
}

var _ backup.RecordWriter = (*Writer)(nil)

func New() *Writer {
	return &Writer{}
}

func (w *Writer) Append(_ context.Context, rec core.Record) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.FailNext {
		w.FailNext = false
		return "", fmt.Errorf("append record %d: simulated failure", rec.ID)
	}
	if err := rec.Validate(); err != nil {
		return "", fmt.Errorf("validate record: %w", err)
	}
	w.rows = append(w.rows, rec)
	return fmt.Sprintf("memory!row%d", len(w.rows)), nil
}

// Rows returns a copy of everything appended so far.
func (w *Writer) Rows() []core.Record {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]core.Record, len(w.rows))
	copy(out, w.rows)
	return out
}
