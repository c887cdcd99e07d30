package core

import (
	"errors"
	"iter"
	"strings"
	"time"
)

// Kind tells whether a record adds to or subtracts from the balance.
// Amounts are always non-negative; direction is carried here, never by sign.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// Status is the settlement state of a record. It is orthogonal to Kind and
// only ever used as an optional filter: totals count all statuses unless the
// caller explicitly restricts them.
type Status string

const (
	StatusSettled Status = "settled"
	StatusPending Status = "pending"
)

func (s Status) Valid() bool {
	return s == StatusSettled || s == StatusPending
}

// FallbackCategory labels records whose category is empty.
const FallbackCategory = "Outros"

var (
	ErrInvalidKind     = errors.New("invalid record kind")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidStatus   = errors.New("invalid record status")
	ErrZeroTimestamp   = errors.New("record timestamp cannot be zero")
	ErrLongDescription = errors.New("description too long (max 200 characters)")
)

// Record is one income or expense event. The engine treats records as
// immutable inputs; ID is assigned by the store and zero means not yet
// persisted.
type Record struct {
	ID          int64
	Kind        Kind
	Amount      Money
	OccurredAt  time.Time
	Category    string
	Description string
	Status      Status
}

func (r Record) Validate() error {
	if !r.Kind.Valid() {
		return ErrInvalidKind
	}
	if r.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if r.OccurredAt.IsZero() {
		return ErrZeroTimestamp
	}
	if len(r.Description) > 200 {
		return ErrLongDescription
	}
	if r.Status != "" && !r.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

// CategoryLabel returns the category with the fallback applied.
func (r Record) CategoryLabel() string {
	if c := strings.TrimSpace(r.Category); c != "" {
		return c
	}
	return FallbackCategory
}

// signedCents is the record's contribution to a net balance.
func (r Record) signedCents() int64 {
	if r.Kind == KindExpense {
		return -r.Amount.Cents
	}
	return r.Amount.Cents
}

// Records adapts a slice to the record sequence consumed by Filter and
// Summarize, so already-materialized store results plug in directly.
func Records(rs []Record) iter.Seq[Record] {
	return func(yield func(Record) bool) {
		for _, r := range rs {
			if !yield(r) {
				return
			}
		}
	}
}
