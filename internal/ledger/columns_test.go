package ledger

import (
	"errors"
	"testing"

	"dashgen/internal/core"
)

func TestResolveColumns(t *testing.T) {
	t.Run("full header", func(t *testing.T) {
		cols, err := ResolveColumns([]string{"Date", "Type", "Category", "Sub-Category", "Amount", "Shared"})
		if err != nil {
			t.Fatalf("ResolveColumns: %v", err)
		}
		if cols.Date != 0 || cols.Type != 1 || cols.Category != 2 || cols.SubCategory != 3 || cols.Amount != 4 || cols.Shared != 5 {
			t.Fatalf("unexpected indices: %+v", cols)
		}
	})

	t.Run("case and whitespace insensitive", func(t *testing.T) {
		cols, err := ResolveColumns([]string{" date ", "TYPE", "category", "amount"})
		if err != nil {
			t.Fatalf("ResolveColumns: %v", err)
		}
		if cols.Amount != 3 {
			t.Fatalf("Amount index = %d, want 3", cols.Amount)
		}
		if cols.SubCategory != -1 || cols.Shared != -1 {
			t.Fatalf("optional columns should be -1 when absent: %+v", cols)
		}
	})

	t.Run("missing required columns", func(t *testing.T) {
		_, err := ResolveColumns([]string{"Date", "Category"})
		var structErr *core.StructureError
		if !errors.As(err, &structErr) {
			t.Fatalf("expected StructureError, got %v", err)
		}
		if len(structErr.Missing) != 2 {
			t.Fatalf("Missing = %v, want Type and Amount", structErr.Missing)
		}
	})
}

func TestRecords(t *testing.T) {
	rows := [][]string{
		{"Date", "Type", "Category", "Sub-Category", "Amount", "Shared"},
		{"2024-01-10", "Essentials", "Food", "Groceries", "-50", "true"},
		{"2024-01-15", "Income", "Salary", "", "2000", ""},
		{"not-a-date", "Income", "Salary", "", "10", ""},
		{"2024-02-01", "Essentials", "Food", "", "oops", ""},
	}
	cols, err := ResolveColumns(rows[0])
	if err != nil {
		t.Fatalf("ResolveColumns: %v", err)
	}

	records := Records(rows, cols)
	if len(records) != 2 {
		t.Fatalf("Records = %d rows, want 2 (bad rows skipped)", len(records))
	}
	first := records[0]
	if first.Type != "Essentials" || first.Category != "Food" || first.SubCategory != "Groceries" {
		t.Fatalf("unexpected first record: %+v", first)
	}
	if first.Amount.Cents != -5000 {
		t.Fatalf("Amount = %d, want -5000", first.Amount.Cents)
	}
	if !first.Shared {
		t.Fatal("Shared flag should be set")
	}
	if records[1].Shared {
		t.Fatal("Shared flag should be unset for empty cell")
	}
}

func TestLetter(t *testing.T) {
	cases := []struct {
		idx  int
		want string
	}{
		{0, "A"}, {1, "B"}, {25, "Z"}, {26, "AA"}, {27, "AB"}, {-1, ""},
	}
	for _, tc := range cases {
		if got := Letter(tc.idx); got != tc.want {
			t.Fatalf("Letter(%d) = %q, want %q", tc.idx, got, tc.want)
		}
	}
}
