package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"finledger"
)

type LedgerSQLite struct {
	db *sql.DB
}

func NewLedgerSQLite(db *sql.DB) *LedgerSQLite { return &LedgerSQLite{db: db} }

var _ Ledger = (*LedgerSQLite)(nil)

const (
	insertEntrySQL = `
		INSERT INTO finances (user_id, date, description, category, type, recurring, paid, amount_cents)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	selectEntriesByOwnerSQL = `
		SELECT id, user_id, date, description, category, type, recurring, paid, amount_cents
		FROM finances WHERE user_id = ?
	`

	selectEntryByIDSQL = `
		SELECT id, user_id, date, description, category, type, recurring, paid, amount_cents
		FROM finances WHERE id = ? AND user_id = ?
	`

	updateEntrySQL = `
		UPDATE finances
		SET date = ?, description = ?, category = ?, type = ?, recurring = ?, paid = ?, amount_cents = ?
		WHERE id = ? AND user_id = ?
	`

	deleteEntrySQL = `DELETE FROM finances WHERE id = ? AND user_id = ?`

	togglePaidSQL = `UPDATE finances SET paid = 1 - paid WHERE id = ? AND user_id = ?`
)

// Insert stores a new entry for its owner and returns the row id.
func (r *LedgerSQLite) Insert(ctx context.Context, e finledger.Entry) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertEntrySQL,
		e.OwnerID, e.Date, e.Description, e.Category, string(e.Type),
		e.Recurring, e.Paid, int64(e.Amount),
	)
	if err != nil {
		return 0, fmt.Errorf("insert entry for user %d: %w", e.OwnerID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for entry: %w", err)
	}
	return id, nil
}

// ListByOwner returns the owner's entries, optionally restricted to an
// inclusive [from, to] date range. ISO dates compare lexicographically, so
// BETWEEN on the text column is a correct range filter. The filter applies
// only when both bounds are present; callers validate half-open input.
func (r *LedgerSQLite) ListByOwner(ctx context.Context, ownerID int, from, to string) ([]finledger.Entry, error) {
	q := selectEntriesByOwnerSQL
	args := []any{ownerID}
	if from != "" && to != "" {
		q += " AND date BETWEEN ? AND ?"
		args = append(args, from, to)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries for user %d: %w", ownerID, err)
	}
	defer rows.Close()

	out := make([]finledger.Entry, 0, 32)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries for user %d: %w", ownerID, err)
	}
	return out, nil
}

// GetByID fetches a single entry scoped by owner. Returns (nil, nil) when the
// row is absent or belongs to someone else; callers cannot tell which.
func (r *LedgerSQLite) GetByID(ctx context.Context, id int64, ownerID int) (*finledger.Entry, error) {
	row := r.db.QueryRowContext(ctx, selectEntryByIDSQL, id, ownerID)
	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

// Update overwrites the mutable fields of an owned entry. Returns false with
// no error when nothing matched.
func (r *LedgerSQLite) Update(ctx context.Context, e finledger.Entry) (bool, error) {
	res, err := r.db.ExecContext(ctx, updateEntrySQL,
		e.Date, e.Description, e.Category, string(e.Type),
		e.Recurring, e.Paid, int64(e.Amount),
		e.ID, e.OwnerID,
	)
	if err != nil {
		return false, fmt.Errorf("update entry %d for user %d: %w", e.ID, e.OwnerID, err)
	}
	return affectedRows(res)
}

// Delete removes an owned entry. Returns false with no error when nothing
// matched.
func (r *LedgerSQLite) Delete(ctx context.Context, id int64, ownerID int) (bool, error) {
	res, err := r.db.ExecContext(ctx, deleteEntrySQL, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("delete entry %d for user %d: %w", id, ownerID, err)
	}
	return affectedRows(res)
}

// TogglePaid flips the paid flag of an owned entry. A missing or foreign row
// is a no-op returning false.
func (r *LedgerSQLite) TogglePaid(ctx context.Context, id int64, ownerID int) (bool, error) {
	res, err := r.db.ExecContext(ctx, togglePaidSQL, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("toggle paid on entry %d for user %d: %w", id, ownerID, err)
	}
	return affectedRows(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (finledger.Entry, error) {
	var (
		e     finledger.Entry
		typ   string
		cents int64
	)
	if err := row.Scan(&e.ID, &e.OwnerID, &e.Date, &e.Description, &e.Category,
		&typ, &e.Recurring, &e.Paid, &cents); err != nil {
		return finledger.Entry{}, err
	}
	e.Type = finledger.EntryType(typ)
	e.Amount = finledger.Amount(cents)
	return e, nil
}

func affectedRows(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
