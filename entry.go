package finledger

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Validation errors shared by services and handlers.
var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date: want YYYY-MM-DD")
	ErrInvalidType   = errors.New("invalid type: must be income or expense")
)

// EntryType partitions ledger entries for aggregation.
type EntryType string

const (
	TypeIncome  EntryType = "income"
	TypeExpense EntryType = "expense"
)

// ParseEntryType normalizes and validates a user-supplied type string.
func ParseEntryType(s string) (EntryType, error) {
	switch EntryType(strings.ToLower(strings.TrimSpace(s))) {
	case TypeIncome:
		return TypeIncome, nil
	case TypeExpense:
		return TypeExpense, nil
	default:
		return "", ErrInvalidType
	}
}

// Amount is a monetary value in cents. Integer cents keep summation exact
// over arbitrarily many entries.
type Amount int64

// ParseAmount converts a decimal string to cents. Dot and comma decimal
// separators are both accepted; the third decimal digit is rounded half-up.
// Negative, signed, empty and non-numeric input is rejected.
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" || strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" && fracPart == "" {
		return 0, ErrInvalidAmount // bare "."
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if r < '0' || r > '9' {
			return 0, ErrInvalidAmount
		}
	}

	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	const maxCentsInt = (1<<63 - 1) / 100
	if iv > maxCentsInt {
		return 0, ErrInvalidAmount
	}

	var frac int64
	if len(fracPart) > 0 {
		frac = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			frac += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				frac++
			}
		}
	}
	return Amount(iv*100 + frac), nil
}

// String renders the amount as a plain decimal, e.g. "12.34". Balances can
// be negative even though stored amounts never are.
func (a Amount) String() string {
	v := int64(a)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// DateLayout is the calendar date format used throughout the ledger.
// ISO dates compare correctly as strings, which the range filter relies on.
const DateLayout = "2006-01-02"

// ParseDate validates a user-supplied calendar date string.
func ParseDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if _, err := time.Parse(DateLayout, s); err != nil {
		return "", ErrInvalidDate
	}
	return s, nil
}

// User is an account holder. PasswordDigest is a bcrypt hash, never exposed.
type User struct {
	ID             int    `json:"id"`
	Username       string `json:"username"`
	PasswordDigest string `json:"-"`
}

// Entry is one income/expense ledger record. OwnerID is set at creation and
// never changes; every store operation is scoped by it.
type Entry struct {
	ID          int64     `json:"id"`
	OwnerID     int       `json:"owner_id"`
	Date        string    `json:"date"` // YYYY-MM-DD
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Type        EntryType `json:"type"`
	Recurring   bool      `json:"recurring"`
	Paid        bool      `json:"paid"`
	Amount      Amount    `json:"amount"`
}

// Session binds an opaque identifier to an authenticated user.
type Session struct {
	ID        string    `json:"id"`
	UserID    int       `json:"user_id"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Summary holds the aggregate totals for a list of entries.
type Summary struct {
	Income  Amount `json:"income_total"`
	Expense Amount `json:"expense_total"`
	Balance Amount `json:"balance"`
}

// Summarize partitions entries by type and computes totals and balance.
// Pure; order of the input is irrelevant and empty input yields zeroes.
func Summarize(entries []Entry) Summary {
	var s Summary
	for _, e := range entries {
		switch e.Type {
		case TypeIncome:
			s.Income += e.Amount
		case TypeExpense:
			s.Expense += e.Amount
		}
	}
	s.Balance = s.Income - s.Expense
	return s
}
