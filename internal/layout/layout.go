// Package layout assigns overview grid rows in one linear pass: the column
// header, one section per transaction type (type aggregate row, category
// rows, a subtotal summing them, a blank separator), the Total Expenses row,
// and the net calculation rows.
//
// Row numbers are handed out monotonically as rows are appended; formulas
// only ever reference numbers already assigned. Cross-row lookups go through
// a label table populated during the same pass, never by re-reading output.
package layout

import (
	"fmt"
	"time"

	"dashgen/internal/config"
	"dashgen/internal/core"
	"dashgen/internal/formula"
	"dashgen/internal/ledger"
)

// Grid geometry: labels in column A, twelve month columns B through M, a
// total column and an average column.
const (
	firstMonthCol = "B"
	lastMonthCol  = "M"
	totalCol      = "N"
	averageCol    = "O"

	monthsPerYear = 12
	cellsPerRow   = 14 // 12 months + total + average
)

// Labels resolved by the net calculation rows.
const (
	LabelTotalExpenses = "Total Expenses"

	labelDisposableIncome = "Disposable Income"
	labelNetIncome        = "Net Income"
	labelSpendingSavings  = "Spending + Savings"
	labelUnallocated      = "Unallocated"
)

// Params carries everything one build pass needs. Ranges are derived from
// the resolved ledger columns; nothing is re-resolved per row.
type Params struct {
	Year              int
	Sections          []config.Section
	Groups            core.GroupedCombinations
	Columns           ledger.Columns
	LedgerSheet       string
	ShowSubCategories bool
	SharedFlagColumn  string
}

type builder struct {
	p      Params
	rows   []core.LayoutRow
	labels map[string]int

	sumRange    string
	typeRange   string
	dateRange   string
	catRange    string
	subRange    string
	hasSubCol   bool
	subtotalRow map[string]int // type -> trailing subtotal row number
}

// Build lays out the overview grid for the grouped combinations. Types
// without a configured section are never rendered; configured sections with
// no combinations are skipped. A grouping that renders nothing still yields
// the header row, not an error.
func Build(p Params) ([]core.LayoutRow, error) {
	b := &builder{
		p:           p,
		labels:      make(map[string]int),
		subtotalRow: make(map[string]int),
		sumRange:    ledgerRange(p.LedgerSheet, p.Columns.Amount),
		typeRange:   ledgerRange(p.LedgerSheet, p.Columns.Type),
		dateRange:   ledgerRange(p.LedgerSheet, p.Columns.Date),
		catRange:    ledgerRange(p.LedgerSheet, p.Columns.Category),
	}
	if p.Columns.SubCategory >= 0 {
		b.subRange = ledgerRange(p.LedgerSheet, p.Columns.SubCategory)
		b.hasSubCol = true
	}

	b.emitHeader()

	var expenseSubtotals []int
	for _, section := range p.Sections {
		combos := p.Groups.ByType[section.Type]
		if len(combos) == 0 {
			continue
		}
		subtotal := b.emitSection(section, combos)
		if section.Expense {
			expenseSubtotals = append(expenseSubtotals, subtotal)
		}
	}

	// At-least-one-section gate: the row exists iff an expense section was
	// rendered, regardless of its values.
	if len(expenseSubtotals) > 0 {
		b.emitTotalExpenses(expenseSubtotals)
	}

	b.emitNetRows()

	return b.rows, nil
}

func (b *builder) append(row core.LayoutRow) int {
	row.Number = len(b.rows) + 1
	b.rows = append(b.rows, row)
	if row.Label != "" && row.Kind != core.RowCategory {
		b.labels[row.Label] = row.Number
	}
	return row.Number
}

func (b *builder) emitHeader() {
	cells := make([]string, 0, cellsPerRow)
	for m := 1; m <= monthsPerYear; m++ {
		cells = append(cells, time.Month(m).String()[:3])
	}
	cells = append(cells, "Total", "Average")
	b.append(core.LayoutRow{
		Kind:  core.RowHeader,
		Label: "Category",
		Cells: cells,
	})
}

// emitSection writes the type aggregate row, one row per combination, the
// trailing subtotal summing the category rows, and a blank separator. It
// returns the subtotal's row number.
func (b *builder) emitSection(section config.Section, combos []core.CategoryCombination) int {
	// Type aggregate row: monthly cells are type-level sums with no
	// category filter.
	typeRow := len(b.rows) + 1
	b.append(core.LayoutRow{
		Kind:  core.RowSubtotal,
		Label: section.Type,
		Cells: b.formulaCells(typeRow, func(month time.Time) string {
			return formula.CategoryTotal(b.totalParams(section.Type, month, core.CategoryCombination{}, ""))
		}),
	})

	firstCategoryRow := len(b.rows) + 1
	for _, combo := range combos {
		row := len(b.rows) + 1
		divisor := ""
		if section.Expense && combo.Shared {
			divisor = formula.SharedDivisor(fmt.Sprintf("$%s%d", b.p.SharedFlagColumn, row))
		}
		b.append(core.LayoutRow{
			Kind:  core.RowCategory,
			Label: categoryLabel(combo),
			Cells: b.formulaCells(row, func(month time.Time) string {
				return formula.CategoryTotal(b.totalParams(section.Type, month, combo, divisor))
			}),
			SharedFlag: combo.Shared,
		})
	}
	lastCategoryRow := len(b.rows)

	// Trailing subtotal: sums the row range of the preceding category rows.
	subtotalRow := len(b.rows) + 1
	cells := make([]string, 0, cellsPerRow)
	for i := 0; i < monthsPerYear; i++ {
		col := monthCol(i + 1)
		cells = append(cells, fmt.Sprintf("%sSUM(%s%d:%s%d)", formula.Marker, col, firstCategoryRow, col, lastCategoryRow))
	}
	cells = append(cells,
		formula.RowTotal(firstMonthCol, lastMonthCol, subtotalRow),
		formula.RowAverage(firstMonthCol, lastMonthCol, subtotalRow))
	b.append(core.LayoutRow{
		Kind:  core.RowSubtotal,
		Label: "Total " + section.Type,
		Cells: cells,
	})
	b.subtotalRow[section.Type] = subtotalRow

	b.append(core.LayoutRow{Kind: core.RowBlank})

	return subtotalRow
}

func (b *builder) emitTotalExpenses(subtotalRows []int) {
	cells := make([]string, 0, cellsPerRow)
	for i := 0; i < cellsPerRow; i++ {
		col := cellCol(i)
		components := make([]formula.NetComponent, 0, len(subtotalRows))
		for _, row := range subtotalRows {
			components = append(components, formula.NetComponent{Cell: fmt.Sprintf("%s%d", col, row)})
		}
		cells = append(cells, formula.Net(components))
	}
	b.append(core.LayoutRow{
		Kind:  core.RowNet,
		Label: LabelTotalExpenses,
		Cells: cells,
	})
}

// emitNetRows resolves source rows through the label table and emits the
// derived surplus/deficit rows. Any calculation missing a source row is
// silently skipped; without an income row none are emitted.
func (b *builder) emitNetRows() {
	income, ok := b.incomeRow()
	if !ok {
		return
	}
	essentials, hasEssentials := b.labels["Essentials"]
	wants, hasWants := b.labels["Wants/Pleasure"]
	savings, hasSavings := b.labels["Savings"]
	totalExpenses, hasTotalExpenses := b.labels[LabelTotalExpenses]

	if hasEssentials && hasWants {
		b.emitNet(labelDisposableIncome, []signedRow{{income, false}, {essentials, true}, {wants, true}})
	}
	if hasTotalExpenses {
		b.emitNet(labelNetIncome, []signedRow{{income, false}, {totalExpenses, true}})
	}
	if hasSavings && hasTotalExpenses {
		b.emitNet(labelSpendingSavings, []signedRow{{totalExpenses, false}, {savings, false}})
		b.emitNet(labelUnallocated, []signedRow{{income, false}, {totalExpenses, true}, {savings, true}})
	}
}

type signedRow struct {
	row      int
	subtract bool
}

func (b *builder) emitNet(label string, sources []signedRow) {
	cells := make([]string, 0, cellsPerRow)
	for i := 0; i < cellsPerRow; i++ {
		col := cellCol(i)
		components := make([]formula.NetComponent, 0, len(sources))
		for _, src := range sources {
			components = append(components, formula.NetComponent{
				Cell:     fmt.Sprintf("%s%d", col, src.row),
				Subtract: src.subtract,
			})
		}
		cells = append(cells, formula.Net(components))
	}
	b.append(core.LayoutRow{
		Kind:  core.RowNet,
		Label: label,
		Cells: cells,
	})
}

// incomeRow prefers the income section's trailing subtotal. The label table
// also carries the bare type row, so either spelling resolves.
func (b *builder) incomeRow() (int, bool) {
	if row, ok := b.labels["Total Income"]; ok {
		return row, true
	}
	row, ok := b.labels["Income"]
	return row, ok
}

// formulaCells builds the 14 value cells of one row: 12 monthly formulas,
// the row total, the row average.
func (b *builder) formulaCells(row int, monthly func(month time.Time) string) []string {
	cells := make([]string, 0, cellsPerRow)
	for m := 1; m <= monthsPerYear; m++ {
		cells = append(cells, monthly(time.Date(b.p.Year, time.Month(m), 1, 0, 0, 0, 0, time.UTC)))
	}
	cells = append(cells,
		formula.RowTotal(firstMonthCol, lastMonthCol, row),
		formula.RowAverage(firstMonthCol, lastMonthCol, row))
	return cells
}

func (b *builder) totalParams(typeName string, month time.Time, combo core.CategoryCombination, divisor string) formula.CategoryTotalParams {
	return formula.CategoryTotalParams{
		SumRange:          b.sumRange,
		TypeRange:         b.typeRange,
		TypeValue:         typeName,
		DateRange:         b.dateRange,
		Month:             month,
		CategoryRange:     b.catRange,
		Category:          combo.Category,
		SubCategoryRange:  b.subRange,
		SubCategory:       combo.SubCategory,
		ShowSubCategories: b.p.ShowSubCategories && b.hasSubCol,
		SharedDivisor:     divisor,
	}
}

func categoryLabel(combo core.CategoryCombination) string {
	if combo.SubCategory == "" {
		return combo.Category
	}
	return combo.Category + " / " + combo.SubCategory
}

// monthCol returns the grid column letter for month 1..12 (B..M).
func monthCol(month int) string {
	return string(rune('A' + month))
}

// cellCol returns the grid column letter for value cell index 0..13.
func cellCol(i int) string {
	switch i {
	case monthsPerYear:
		return totalCol
	case monthsPerYear + 1:
		return averageCol
	default:
		return monthCol(i + 1)
	}
}

func ledgerRange(sheet string, colIdx int) string {
	col := ledger.Letter(colIdx)
	return fmt.Sprintf("%s!$%s:$%s", sheet, col, col)
}
