package service

import (
	"context"
	"errors"
	"testing"

	"finledger"
)

// fakeLedgerRepo is an in-memory repository.Ledger with the same owner
// scoping behavior as the SQL implementation.
type fakeLedgerRepo struct {
	entries map[int64]finledger.Entry
	nextID  int64
	err     error
}

func newFakeLedgerRepo() *fakeLedgerRepo {
	return &fakeLedgerRepo{entries: make(map[int64]finledger.Entry)}
}

func (f *fakeLedgerRepo) Insert(_ context.Context, e finledger.Entry) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.nextID++
	e.ID = f.nextID
	f.entries[e.ID] = e
	return e.ID, nil
}

func (f *fakeLedgerRepo) ListByOwner(_ context.Context, ownerID int, from, to string) ([]finledger.Entry, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]finledger.Entry, 0)
	for id := int64(1); id <= f.nextID; id++ {
		e, ok := f.entries[id]
		if !ok || e.OwnerID != ownerID {
			continue
		}
		if from != "" && to != "" && (e.Date < from || e.Date > to) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeLedgerRepo) GetByID(_ context.Context, id int64, ownerID int) (*finledger.Entry, error) {
	if f.err != nil {
		return nil, f.err
	}
	e, ok := f.entries[id]
	if !ok || e.OwnerID != ownerID {
		return nil, nil
	}
	return &e, nil
}

func (f *fakeLedgerRepo) Update(_ context.Context, e finledger.Entry) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	old, ok := f.entries[e.ID]
	if !ok || old.OwnerID != e.OwnerID {
		return false, nil
	}
	f.entries[e.ID] = e
	return true, nil
}

func (f *fakeLedgerRepo) Delete(_ context.Context, id int64, ownerID int) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	e, ok := f.entries[id]
	if !ok || e.OwnerID != ownerID {
		return false, nil
	}
	delete(f.entries, id)
	return true, nil
}

func (f *fakeLedgerRepo) TogglePaid(_ context.Context, id int64, ownerID int) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	e, ok := f.entries[id]
	if !ok || e.OwnerID != ownerID {
		return false, nil
	}
	e.Paid = !e.Paid
	f.entries[id] = e
	return true, nil
}

func validInput() EntryInput {
	return EntryInput{
		Date:        "2024-01-01",
		Description: "salary",
		Category:    "work",
		Type:        "income",
		Amount:      "1000",
	}
}

func TestLedgerService_Add_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*EntryInput)
		wantErr error
	}{
		{name: "non-numeric amount", mutate: func(in *EntryInput) { in.Amount = "abc" }, wantErr: finledger.ErrInvalidAmount},
		{name: "negative amount", mutate: func(in *EntryInput) { in.Amount = "-3" }, wantErr: finledger.ErrInvalidAmount},
		{name: "empty amount", mutate: func(in *EntryInput) { in.Amount = "" }, wantErr: finledger.ErrInvalidAmount},
		{name: "bad date", mutate: func(in *EntryInput) { in.Date = "01/02/2024" }, wantErr: finledger.ErrInvalidDate},
		{name: "bad type", mutate: func(in *EntryInput) { in.Type = "transfer" }, wantErr: finledger.ErrInvalidType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeLedgerRepo()
			svc := NewLedgerService(repo)

			in := validInput()
			tt.mutate(&in)

			if _, err := svc.Add(context.Background(), 1, in); !errors.Is(err, tt.wantErr) {
				t.Fatalf("Add: want %v, got %v", tt.wantErr, err)
			}
			if len(repo.entries) != 0 {
				t.Fatalf("invalid input must not reach the store")
			}
		})
	}
}

func TestLedgerService_Add_StoresParsedEntry(t *testing.T) {
	repo := newFakeLedgerRepo()
	svc := NewLedgerService(repo)

	in := validInput()
	in.Amount = "12,345" // comma separator, third decimal rounds half-up
	in.Type = "Income"
	in.Recurring = true

	id, err := svc.Add(context.Background(), 7, in)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	stored := repo.entries[id]
	if stored.OwnerID != 7 {
		t.Fatalf("owner not set: %+v", stored)
	}
	if stored.Type != finledger.TypeIncome {
		t.Fatalf("type not normalized: %+v", stored)
	}
	if stored.Amount != 1235 {
		t.Fatalf("amount: want 1235 cents, got %d", stored.Amount)
	}
	if !stored.Recurring || stored.Paid {
		t.Fatalf("flags wrong: %+v", stored)
	}
}

func TestLedgerService_OwnerScoping(t *testing.T) {
	repo := newFakeLedgerRepo()
	svc := NewLedgerService(repo)
	ctx := context.Background()

	const owner, intruder = 1, 2

	id, err := svc.Add(ctx, owner, validInput())
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	// The owner's list contains the entry; anyone else's does not.
	mine, err := svc.List(ctx, owner, DateRange{})
	if err != nil || len(mine) != 1 {
		t.Fatalf("owner list: %v (%d entries)", err, len(mine))
	}
	theirs, err := svc.List(ctx, intruder, DateRange{})
	if err != nil || len(theirs) != 0 {
		t.Fatalf("intruder list: %v (%d entries)", err, len(theirs))
	}

	// Point operations under the wrong owner neither reveal nor change it.
	if e, err := svc.Get(ctx, id, intruder); err != nil || e != nil {
		t.Fatalf("Get as intruder: e=%+v err=%v", e, err)
	}
	if ok, err := svc.Update(ctx, id, intruder, validInput()); err != nil || ok {
		t.Fatalf("Update as intruder: ok=%v err=%v", ok, err)
	}
	if ok, err := svc.Delete(ctx, id, intruder); err != nil || ok {
		t.Fatalf("Delete as intruder: ok=%v err=%v", ok, err)
	}
	if ok, err := svc.TogglePaid(ctx, id, intruder); err != nil || ok {
		t.Fatalf("TogglePaid as intruder: ok=%v err=%v", ok, err)
	}
	if e, _ := svc.Get(ctx, id, owner); e == nil || e.Paid {
		t.Fatalf("entry was affected by intruder: %+v", e)
	}
}

func TestLedgerService_List_RangeValidation(t *testing.T) {
	svc := NewLedgerService(newFakeLedgerRepo())
	ctx := context.Background()

	// half-open, inverted and malformed ranges are all rejected
	bad := []DateRange{
		{From: "2024-01-01"},
		{To: "2024-01-31"},
		{From: "2024-02-01", To: "2024-01-01"},
		{From: "not-a-date", To: "2024-01-31"},
		{From: "2024-01-01", To: "2024-13-01"},
	}
	for _, r := range bad {
		if _, err := svc.List(ctx, 1, r); !errors.Is(err, ErrInvalidRange) {
			t.Fatalf("List(%+v): want ErrInvalidRange, got %v", r, err)
		}
	}

	if _, err := svc.List(ctx, 1, DateRange{}); err != nil {
		t.Fatalf("empty range must be fine: %v", err)
	}
	if _, err := svc.List(ctx, 1, DateRange{From: "2024-01-01", To: "2024-01-01"}); err != nil {
		t.Fatalf("single-day range must be fine: %v", err)
	}
}

func TestLedgerService_List_RangeFilter(t *testing.T) {
	repo := newFakeLedgerRepo()
	svc := NewLedgerService(repo)
	ctx := context.Background()

	in1 := validInput() // 2024-01-01 income 1000
	in2 := validInput()
	in2.Date = "2024-01-02"
	in2.Type = "expense"
	in2.Amount = "300"
	in2.Description = "groceries"

	if _, err := svc.Add(ctx, 1, in1); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := svc.Add(ctx, 1, in2); err != nil {
		t.Fatalf("Add: %v", err)
	}

	got, err := svc.List(ctx, 1, DateRange{From: "2024-01-02", To: "2024-01-02"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].Description != "groceries" {
		t.Fatalf("range should return only the expense entry, got %+v", got)
	}
}

func TestLedgerService_TogglePaid_MissingIsNoOp(t *testing.T) {
	svc := NewLedgerService(newFakeLedgerRepo())

	ok, err := svc.TogglePaid(context.Background(), 404, 1)
	if err != nil {
		t.Fatalf("TogglePaid on missing id must not error: %v", err)
	}
	if ok {
		t.Fatalf("TogglePaid on missing id must report false")
	}
}

func TestReportingService_Overview(t *testing.T) {
	repo := newFakeLedgerRepo()
	ledger := NewLedgerService(repo)
	reporting := NewReportingService(ledger)
	ctx := context.Background()

	in1 := validInput() // income 1000.00
	in2 := validInput()
	in2.Date = "2024-01-02"
	in2.Type = "expense"
	in2.Amount = "300"

	if _, err := ledger.Add(ctx, 1, in1); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := ledger.Add(ctx, 1, in2); err != nil {
		t.Fatalf("Add: %v", err)
	}

	ov, err := reporting.Overview(ctx, 1, DateRange{})
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	want := finledger.Summary{Income: 100000, Expense: 30000, Balance: 70000}
	if ov.Summary != want {
		t.Fatalf("summary: want %+v, got %+v", want, ov.Summary)
	}
	if len(ov.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(ov.Entries))
	}

	// Another owner sees an all-zero overview.
	empty, err := reporting.Overview(ctx, 2, DateRange{})
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if empty.Summary != (finledger.Summary{}) || len(empty.Entries) != 0 {
		t.Fatalf("foreign overview should be empty, got %+v", empty)
	}
}
