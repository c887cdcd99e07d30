// Package storage is the local persistence collaborator: a SQLite-backed
// store of transactions, payables and users. The aggregation core never
// touches it directly; it receives already-fetched record slices.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"financas/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound reports a lookup for a row that does not exist or is deleted.
var ErrNotFound = errors.New("not found")

// BackupState mirrors the backup_status column.
type BackupState string

const (
	BackupPending BackupState = "pending"
	BackupDone    BackupState = "done"
	BackupError   BackupState = "error"
)

// PayableStatus mirrors the payables status column. Overdue is derived at
// read time (pending past its due date), never stored.
type PayableStatus string

const (
	PayablePending PayableStatus = "pending"
	PayablePaid    PayableStatus = "paid"
)

// Payable is a bill to pay: once settled it links to the expense
// transaction created for it.
type Payable struct {
	ID            int64
	Description   string
	Amount        core.Money
	DueDate       core.Date
	Status        PayableStatus
	TransactionID sql.NullInt64
}

// User is a stored account with its bcrypt password hash.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// --- transactions ---

const recordColumns = "id, kind, amount_cents, occurred_at, category, description, status"

// InsertRecord stores a new transaction and returns its assigned ID.
func (r *Repository) InsertRecord(ctx context.Context, rec core.Record) (int64, error) {
	if err := rec.Validate(); err != nil {
		return 0, fmt.Errorf("validate record: %w", err)
	}
	status := rec.Status
	if status == "" {
		status = core.StatusSettled
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (kind, amount_cents, occurred_at, occurred_unix, category, description, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(rec.Kind), rec.Amount.Cents,
		rec.OccurredAt.Format(time.RFC3339), rec.OccurredAt.Unix(),
		rec.Category, rec.Description, string(status))
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", id,
		"kind", rec.Kind,
		"amount_cents", rec.Amount.Cents,
		"category", rec.CategoryLabel())
	return id, nil
}

// UpdateRecord rewrites an existing transaction and re-queues it for backup.
func (r *Repository) UpdateRecord(ctx context.Context, rec core.Record) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("validate record: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions
		SET kind = ?, amount_cents = ?, occurred_at = ?, occurred_unix = ?,
		    category = ?, description = ?, status = ?,
		    backup_status = 'pending', updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND deleted_at IS NULL`,
		string(rec.Kind), rec.Amount.Cents,
		rec.OccurredAt.Format(time.RFC3339), rec.OccurredAt.Unix(),
		rec.Category, rec.Description, string(rec.Status), rec.ID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return ensureRowTouched(res)
}

// SoftDeleteRecord marks a transaction as deleted without losing history.
func (r *Repository) SoftDeleteRecord(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions SET deleted_at = CURRENT_TIMESTAMP
		WHERE id = ? AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("soft delete transaction: %w", err)
	}
	return ensureRowTouched(res)
}

// GetRecord loads a single live transaction by ID.
func (r *Repository) GetRecord(ctx context.Context, id int64) (core.Record, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+recordColumns+` FROM transactions
		WHERE id = ? AND deleted_at IS NULL`, id)
	rec, err := scanRecord(row)
	if err != nil {
		return core.Record{}, fmt.Errorf("get transaction %d: %w", id, err)
	}
	return rec, nil
}

// ListRecordsInRange returns live transactions with occurred_at inside the
// half-open window, ordered by occurrence. The result feeds the aggregation
// core as an already-fetched record set.
func (r *Repository) ListRecordsInRange(ctx context.Context, rng core.Range) ([]core.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+recordColumns+` FROM transactions
		WHERE deleted_at IS NULL AND occurred_unix >= ? AND occurred_unix < ?
		ORDER BY occurred_unix, id`,
		rng.Start.Unix(), rng.End.Unix())
	if err != nil {
		return nil, fmt.Errorf("list transactions in range: %w", err)
	}
	defer rows.Close()
	return collectRecords(rows)
}

// ListRecentRecords returns the latest live transactions, newest first.
func (r *Repository) ListRecentRecords(ctx context.Context, limit int) ([]core.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+recordColumns+` FROM transactions
		WHERE deleted_at IS NULL
		ORDER BY occurred_unix DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent transactions: %w", err)
	}
	defer rows.Close()
	return collectRecords(rows)
}

// --- backup queue ---

// ListPendingBackups returns IDs of live transactions not yet copied to the
// backup target, oldest first. A safety net for lost queue messages.
func (r *Repository) ListPendingBackups(ctx context.Context, limit int) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id FROM transactions
		WHERE deleted_at IS NULL AND backup_status = 'pending'
		ORDER BY id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending backups: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan pending backup id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SetBackupState records the backup outcome for one transaction.
func (r *Repository) SetBackupState(ctx context.Context, id int64, state BackupState) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions SET backup_status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`, string(state), id)
	if err != nil {
		return fmt.Errorf("set backup state: %w", err)
	}
	return ensureRowTouched(res)
}

// --- payables ---

func (r *Repository) InsertPayable(ctx context.Context, p Payable) (int64, error) {
	status := p.Status
	if status == "" {
		status = PayablePending
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO payables (description, amount_cents, due_date, status)
		VALUES (?, ?, ?, ?)`,
		p.Description, p.Amount.Cents, p.DueDate.Format(time.DateOnly), string(status))
	if err != nil {
		return 0, fmt.Errorf("insert payable: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

func (r *Repository) GetPayable(ctx context.Context, id int64) (Payable, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, description, amount_cents, due_date, status, transaction_id
		FROM payables WHERE id = ?`, id)
	p, err := scanPayable(row)
	if err != nil {
		return Payable{}, fmt.Errorf("get payable %d: %w", id, err)
	}
	return p, nil
}

// ListPayables returns all payables ordered by due date.
func (r *Repository) ListPayables(ctx context.Context) ([]Payable, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, description, amount_cents, due_date, status, transaction_id
		FROM payables ORDER BY due_date, id`)
	if err != nil {
		return nil, fmt.Errorf("list payables: %w", err)
	}
	defer rows.Close()

	var out []Payable
	for rows.Next() {
		p, err := scanPayable(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payable: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// MarkPayablePaid flips a pending payable to paid and links the expense
// transaction created for it.
func (r *Repository) MarkPayablePaid(ctx context.Context, id, transactionID int64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE payables
		SET status = 'paid', transaction_id = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = 'pending'`, transactionID, id)
	if err != nil {
		return fmt.Errorf("mark payable paid: %w", err)
	}
	return ensureRowTouched(res)
}

// --- users ---

func (r *Repository) CreateUser(ctx context.Context, username, passwordHash string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO users (username, password_hash) VALUES (?, ?)`,
		username, passwordHash)
	if err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

func (r *Repository) GetUserByUsername(ctx context.Context, username string) (User, error) {
	var u User
	var created string
	err := r.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, created_at FROM users WHERE username = ?`,
		username).Scan(&u.ID, &u.Username, &u.PasswordHash, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, fmt.Errorf("get user %q: %w", username, ErrNotFound)
	}
	if err != nil {
		return User{}, fmt.Errorf("get user %q: %w", username, err)
	}
	if t, err := time.Parse(time.DateTime, created); err == nil {
		u.CreatedAt = t
	}
	return u, nil
}

// --- scanning helpers ---

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (core.Record, error) {
	var rec core.Record
	var kind, status, occurred string
	err := row.Scan(&rec.ID, &kind, &rec.Amount.Cents, &occurred,
		&rec.Category, &rec.Description, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Record{}, ErrNotFound
	}
	if err != nil {
		return core.Record{}, err
	}
	rec.Kind = core.Kind(kind)
	rec.Status = core.Status(status)
	t, err := time.Parse(time.RFC3339, occurred)
	if err != nil {
		return core.Record{}, fmt.Errorf("parse occurred_at %q: %w", occurred, err)
	}
	rec.OccurredAt = t
	return rec, nil
}

func collectRecords(rows *sql.Rows) ([]core.Record, error) {
	var out []core.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanPayable(row rowScanner) (Payable, error) {
	var p Payable
	var due, status string
	err := row.Scan(&p.ID, &p.Description, &p.Amount.Cents, &due, &status, &p.TransactionID)
	if errors.Is(err, sql.ErrNoRows) {
		return Payable{}, ErrNotFound
	}
	if err != nil {
		return Payable{}, err
	}
	p.Status = PayableStatus(status)
	t, err := time.Parse(time.DateOnly, due)
	if err != nil {
		return Payable{}, fmt.Errorf("parse due_date %q: %w", due, err)
	}
	p.DueDate = core.NewDate(t.Year(), int(t.Month()), t.Day())
	return p, nil
}

func ensureRowTouched(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
