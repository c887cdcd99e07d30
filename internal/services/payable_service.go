package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"financas/internal/core"
	"financas/internal/storage"
)

// PayableCategory labels expense transactions created when a bill is paid.
const PayableCategory = "Contas"

var ErrPayableAlreadyPaid = errors.New("payable already paid")

// PayableView is a stored payable plus its derived overdue flag.
type PayableView struct {
	ID          int64
	Description string
	Amount      core.Money
	DueDate     core.Date
	Status      storage.PayableStatus
	Overdue     bool
}

// PayableService manages bills and turns paid bills into expense
// transactions.
type PayableService struct {
	storage      *storage.Repository
	transactions *TransactionService
	location     *time.Location
}

func NewPayableService(storage *storage.Repository, transactions *TransactionService, loc *time.Location) *PayableService {
	if loc == nil {
		loc = time.Local
	}
	return &PayableService{
		storage:      storage,
		transactions: transactions,
		location:     loc,
	}
}

// Create registers a new bill to pay.
func (s *PayableService) Create(ctx context.Context, description string, amount core.Money, due core.Date) (int64, error) {
	if description == "" {
		return 0, errors.New("payable description cannot be empty")
	}
	if amount.IsNegative() || amount.IsZero() {
		return 0, core.ErrInvalidAmount
	}
	id, err := s.storage.InsertPayable(ctx, storage.Payable{
		Description: description,
		Amount:      amount,
		DueDate:     due,
		Status:      storage.PayablePending,
	})
	if err != nil {
		return 0, fmt.Errorf("save payable: %w", err)
	}
	return id, nil
}

// List returns all payables with the overdue flag derived against the
// current date. Overdue is never stored: a pending bill whose due date has
// passed is overdue, becomes pending again if the clock says otherwise.
func (s *PayableService) List(ctx context.Context, now time.Time) ([]PayableView, error) {
	payables, err := s.storage.ListPayables(ctx)
	if err != nil {
		return nil, fmt.Errorf("list payables: %w", err)
	}

	today := core.DateOf(now, s.location)
	views := make([]PayableView, 0, len(payables))
	for _, p := range payables {
		views = append(views, PayableView{
			ID:          p.ID,
			Description: p.Description,
			Amount:      p.Amount,
			DueDate:     p.DueDate,
			Status:      p.Status,
			Overdue:     p.Status == storage.PayablePending && p.DueDate.Before(today.Time),
		})
	}
	return views, nil
}

// Pay settles a bill: it creates a matching expense transaction dated now
// and links the payable to it. Paying an already-paid bill fails.
func (s *PayableService) Pay(ctx context.Context, id int64, now time.Time) (int64, error) {
	p, err := s.storage.GetPayable(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("get payable: %w", err)
	}
	if p.Status == storage.PayablePaid {
		return 0, ErrPayableAlreadyPaid
	}

	txID, err := s.transactions.Create(ctx, core.Record{
		Kind:        core.KindExpense,
		Amount:      p.Amount,
		OccurredAt:  now,
		Category:    PayableCategory,
		Description: fmt.Sprintf("Pagamento: %s", p.Description),
		Status:      core.StatusSettled,
	})
	if err != nil {
		return 0, fmt.Errorf("create payment transaction: %w", err)
	}

	if err := s.storage.MarkPayablePaid(ctx, id, txID); err != nil {
		// Somebody paid it between our read and the update.
		if errors.Is(err, storage.ErrNotFound) {
			return 0, ErrPayableAlreadyPaid
		}
		return 0, fmt.Errorf("mark payable paid: %w", err)
	}

	return txID, nil
}
