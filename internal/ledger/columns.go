package ledger

import (
	"strings"
	"time"

	"dashgen/internal/core"
)

// Header names looked up in the ledger's first row. Matching is
// case-insensitive and whitespace-trimmed.
const (
	HeaderDate        = "Date"
	HeaderType        = "Type"
	HeaderCategory    = "Category"
	HeaderSubCategory = "Sub-Category"
	HeaderAmount      = "Amount"
	HeaderShared      = "Shared"
)

// Columns holds the resolved zero-based index of each ledger column.
// Optional columns are -1 when absent. Resolution happens once per build;
// rows are never re-resolved.
type Columns struct {
	Date        int
	Type        int
	Category    int
	SubCategory int
	Amount      int
	Shared      int
}

// ResolveColumns locates the required and optional columns in the header
// row. A missing required column yields a *core.StructureError.
func ResolveColumns(header []string) (Columns, error) {
	index := func(name string) int {
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), name) {
				return i
			}
		}
		return -1
	}

	cols := Columns{
		Date:        index(HeaderDate),
		Type:        index(HeaderType),
		Category:    index(HeaderCategory),
		SubCategory: index(HeaderSubCategory),
		Amount:      index(HeaderAmount),
		Shared:      index(HeaderShared),
	}

	var missing []string
	for _, req := range []struct {
		name string
		idx  int
	}{
		{HeaderDate, cols.Date},
		{HeaderType, cols.Type},
		{HeaderCategory, cols.Category},
		{HeaderAmount, cols.Amount},
	} {
		if req.idx < 0 {
			missing = append(missing, req.name)
		}
	}
	if len(missing) > 0 {
		return Columns{}, &core.StructureError{Missing: missing}
	}

	return cols, nil
}

// Records converts raw ledger rows (header row first) into typed records.
// Conversion is best-effort like the rest of the read path: rows with an
// unparsable date or amount are skipped, not errored.
func Records(rows [][]string, cols Columns) []core.LedgerRecord {
	if len(rows) < 2 {
		return nil
	}
	out := make([]core.LedgerRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		date, ok := parseDate(cell(row, cols.Date))
		if !ok {
			continue
		}
		cents, ok := core.ParseSignedCents(cell(row, cols.Amount))
		if !ok {
			continue
		}
		out = append(out, core.LedgerRecord{
			Date:        date,
			Type:        strings.TrimSpace(cell(row, cols.Type)),
			Category:    strings.TrimSpace(cell(row, cols.Category)),
			SubCategory: strings.TrimSpace(cell(row, cols.SubCategory)),
			Amount:      core.Money{Cents: cents},
			Shared:      parseFlag(cell(row, cols.Shared)),
		})
	}
	return out
}

// Letter converts a zero-based column index to its A1 letter ("A", "Z", "AA").
func Letter(idx int) string {
	if idx < 0 {
		return ""
	}
	letters := ""
	for idx >= 0 {
		letters = string(rune('A'+idx%26)) + letters
		idx = idx/26 - 1
	}
	return letters
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

var dateLayouts = []string{"2006-01-02", "02/01/2006", "2006/01/02"}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "x":
		return true
	}
	return false
}
