package finledger

import (
	"errors"
	"math/rand"
	"testing"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    Amount
		wantErr bool
	}{
		{in: "12.34", want: 1234},
		{in: "12,34", want: 1234},
		{in: "0", want: 0},
		{in: "0.00", want: 0},
		{in: "1000", want: 100000},
		{in: " 7.5 ", want: 750},
		{in: "12.345", want: 1234}, // third decimal rounds down
		{in: "12.346", want: 1235}, // third decimal rounds up
		{in: ".50", want: 50},
		{in: "", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "-5", wantErr: true},
		{in: "+5", wantErr: true},
		{in: "1.2.3", wantErr: true},
		{in: "12x", wantErr: true},
		{in: "NaN", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAmount) {
					t.Fatalf("ParseAmount(%q): want ErrInvalidAmount, got %v", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q): unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("ParseAmount(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestAmountString(t *testing.T) {
	if got := Amount(1234).String(); got != "12.34" {
		t.Fatalf("Amount(1234).String() = %q, want %q", got, "12.34")
	}
	if got := Amount(5).String(); got != "0.05" {
		t.Fatalf("Amount(5).String() = %q, want %q", got, "0.05")
	}
	if got := Amount(-350).String(); got != "-3.50" {
		t.Fatalf("Amount(-350).String() = %q, want %q", got, "-3.50")
	}
}

func TestParseEntryType(t *testing.T) {
	if typ, err := ParseEntryType(" Income "); err != nil || typ != TypeIncome {
		t.Fatalf("ParseEntryType(income) = %v, %v", typ, err)
	}
	if typ, err := ParseEntryType("expense"); err != nil || typ != TypeExpense {
		t.Fatalf("ParseEntryType(expense) = %v, %v", typ, err)
	}
	for _, bad := range []string{"", "transfer", "INCOME_", "saida"} {
		if _, err := ParseEntryType(bad); !errors.Is(err, ErrInvalidType) {
			t.Fatalf("ParseEntryType(%q): want ErrInvalidType, got %v", bad, err)
		}
	}
}

func TestParseDate(t *testing.T) {
	if d, err := ParseDate("2024-01-31"); err != nil || d != "2024-01-31" {
		t.Fatalf("ParseDate: got %q, %v", d, err)
	}
	for _, bad := range []string{"", "31/01/2024", "2024-13-01", "2024-02-30", "yesterday"} {
		if _, err := ParseDate(bad); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("ParseDate(%q): want ErrInvalidDate, got %v", bad, err)
		}
	}
}

func TestSummarize_Empty(t *testing.T) {
	got := Summarize(nil)
	if got.Income != 0 || got.Expense != 0 || got.Balance != 0 {
		t.Fatalf("Summarize(nil) = %+v, want zeroes", got)
	}
}

func TestSummarize_Totals(t *testing.T) {
	entries := []Entry{
		{Date: "2024-01-01", Type: TypeIncome, Amount: 100000},
		{Date: "2024-01-02", Type: TypeExpense, Amount: 30000},
	}
	got := Summarize(entries)
	want := Summary{Income: 100000, Expense: 30000, Balance: 70000}
	if got != want {
		t.Fatalf("Summarize = %+v, want %+v", got, want)
	}
}

func TestSummarize_OrderIndependent(t *testing.T) {
	entries := []Entry{
		{Type: TypeIncome, Amount: 1050},
		{Type: TypeExpense, Amount: 999},
		{Type: TypeIncome, Amount: 1},
		{Type: TypeExpense, Amount: 42},
		{Type: TypeIncome, Amount: 777777},
	}
	want := Summarize(entries)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		shuffled := make([]Entry, len(entries))
		copy(shuffled, entries)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		if got := Summarize(shuffled); got != want {
			t.Fatalf("permutation %d: Summarize = %+v, want %+v", i, got, want)
		}
	}
	if want.Balance != want.Income-want.Expense {
		t.Fatalf("balance mismatch: %+v", want)
	}
}
