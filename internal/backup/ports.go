// Package backup defines the outbound port for copying transactions to an
// external backup target.
package backup

import (
	"context"

	"financas/internal/core"
)

// RecordWriter appends one transaction to the backup target and returns an
// opaque reference to the written row.
type RecordWriter interface {
	Append(ctx context.Context, rec core.Record) (rowRef string, err error)
}
