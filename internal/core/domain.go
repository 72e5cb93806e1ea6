package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Row kinds of the overview grid.
const (
	RowHeader   RowKind = "header"
	RowCategory RowKind = "category"
	RowSubtotal RowKind = "subtotal"
	RowNet      RowKind = "net"
	RowBlank    RowKind = "blank"
)

type (
	RowKind string

	Money struct {
		Cents int64
	}

	// LedgerRecord is one typed money movement, converted at the ledger
	// boundary from the raw positional row. Read-only to the engine.
	LedgerRecord struct {
		Date        time.Time
		Type        string
		Category    string
		SubCategory string
		Amount      Money
		Shared      bool
	}

	// CategoryCombination is a unique (type, category, subcategory) triple.
	// Identity is the triple; Shared is carried alongside and OR-ed during
	// deduplication, it never participates in equality.
	CategoryCombination struct {
		Type        string `json:"type"`
		Category    string `json:"category"`
		SubCategory string `json:"sub_category"`
		Shared      bool   `json:"shared,omitempty"`
	}

	// GroupedCombinations partitions combinations by type, preserving the
	// first-seen order of both types and combinations within a type.
	GroupedCombinations struct {
		Order  []string                         `json:"order"`
		ByType map[string][]CategoryCombination `json:"by_type"`
	}

	// LayoutRow is one assigned row of the overview grid. Number is 1-based
	// and final; Cells holds the 14 value columns (12 months, total, average)
	// as formulas or, for the header row, plain labels.
	LayoutRow struct {
		Number     int
		Kind       RowKind
		Label      string
		Cells      []string
		SharedFlag bool
	}
)

// Key returns the identity of the combination.
func (c CategoryCombination) Key() string {
	return c.Type + "\x00" + c.Category + "\x00" + c.SubCategory
}

// StructureError reports required ledger columns that could not be resolved
// from the header row. It is fatal to the current build.
type StructureError struct {
	Missing []string
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("ledger structure invalid: missing columns %s", strings.Join(e.Missing, ", "))
}

var (
	ErrNoRows      = errors.New("ledger has no rows")
	ErrEmptyLayout = errors.New("layout produced no rows")
)
