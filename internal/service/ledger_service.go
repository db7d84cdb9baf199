package service

import (
	"context"
	"errors"

	"finledger"
	"finledger/internal/repository"
)

var (
	// ErrInvalidRange rejects half-open ranges and From > To. The filter is
	// all-or-nothing: either both bounds or neither.
	ErrInvalidRange = errors.New("invalid date range")
)

// LedgerService validates input and delegates to the owner-scoped store.
type LedgerService struct {
	repo repository.Ledger
}

func NewLedgerService(repo repository.Ledger) *LedgerService {
	return &LedgerService{repo: repo}
}

// validateInput converts raw form values into a storable entry.
// OwnerID and ID are set by the caller.
func validateInput(in EntryInput) (finledger.Entry, error) {
	date, err := finledger.ParseDate(in.Date)
	if err != nil {
		return finledger.Entry{}, err
	}
	typ, err := finledger.ParseEntryType(in.Type)
	if err != nil {
		return finledger.Entry{}, err
	}
	amount, err := finledger.ParseAmount(in.Amount)
	if err != nil {
		return finledger.Entry{}, err
	}
	return finledger.Entry{
		Date:        date,
		Description: in.Description,
		Category:    in.Category,
		Type:        typ,
		Recurring:   in.Recurring,
		Paid:        in.Paid,
		Amount:      amount,
	}, nil
}

func validateRange(r DateRange) (DateRange, error) {
	if r.IsZero() {
		return r, nil
	}
	if r.From == "" || r.To == "" {
		return DateRange{}, ErrInvalidRange
	}
	from, err := finledger.ParseDate(r.From)
	if err != nil {
		return DateRange{}, ErrInvalidRange
	}
	to, err := finledger.ParseDate(r.To)
	if err != nil {
		return DateRange{}, ErrInvalidRange
	}
	if from > to {
		return DateRange{}, ErrInvalidRange
	}
	return DateRange{From: from, To: to}, nil
}

// Add validates and inserts a new entry for the owner.
func (s *LedgerService) Add(ctx context.Context, ownerID int, in EntryInput) (int64, error) {
	e, err := validateInput(in)
	if err != nil {
		return 0, err
	}
	e.OwnerID = ownerID
	return s.repo.Insert(ctx, e)
}

// List returns the owner's entries, optionally filtered by date range.
func (s *LedgerService) List(ctx context.Context, ownerID int, r DateRange) ([]finledger.Entry, error) {
	r, err := validateRange(r)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByOwner(ctx, ownerID, r.From, r.To)
}

// Get returns the owner's entry or (nil, nil) when absent or foreign.
func (s *LedgerService) Get(ctx context.Context, id int64, ownerID int) (*finledger.Entry, error) {
	return s.repo.GetByID(ctx, id, ownerID)
}

// Update validates and overwrites all mutable fields of an owned entry.
func (s *LedgerService) Update(ctx context.Context, id int64, ownerID int, in EntryInput) (bool, error) {
	e, err := validateInput(in)
	if err != nil {
		return false, err
	}
	e.ID = id
	e.OwnerID = ownerID
	return s.repo.Update(ctx, e)
}

// Delete removes an owned entry.
func (s *LedgerService) Delete(ctx context.Context, id int64, ownerID int) (bool, error) {
	return s.repo.Delete(ctx, id, ownerID)
}

// TogglePaid flips the paid flag; a miss is a no-op returning false.
func (s *LedgerService) TogglePaid(ctx context.Context, id int64, ownerID int) (bool, error) {
	return s.repo.TogglePaid(ctx, id, ownerID)
}
