// Package formula compiles aggregation requests into formula expressions in
// the rendering target's language. Every function is pure and deterministic;
// full formulas always begin with the marker, while criterion fragments are
// the documented exception meant to be joined into a conditional sum.
package formula

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Marker prefixes every complete formula expression.
const Marker = "="

// Criterion kinds.
const (
	KindEquals  CriterionKind = "equals"
	KindDate    CriterionKind = "date"
	KindCompare CriterionKind = "compare"
)

type CriterionKind string

// Criterion describes one conditional-sum clause: a criteria range and the
// condition applied to it. It has no identity beyond value equality.
type Criterion struct {
	Range    string
	Operator string
	Value    string
	Kind     CriterionKind
}

// NewCriterion builds an equality clause.
func NewCriterion(criteriaRange, value string) Criterion {
	return Criterion{Range: criteriaRange, Value: value, Kind: KindEquals}
}

// NewDateCriterion builds a date comparison clause. The date renders as a
// DATE(y,m,d) call, which stays bare and is concatenated to the operator.
func NewDateCriterion(criteriaRange, operator string, date time.Time) Criterion {
	return Criterion{
		Range:    criteriaRange,
		Operator: operator,
		Value:    fmt.Sprintf("DATE(%d,%d,%d)", date.Year(), int(date.Month()), date.Day()),
		Kind:     KindDate,
	}
}

// NewOperatorCriterion builds a comparison clause with an explicit operator.
func NewOperatorCriterion(criteriaRange, operator, value string) Criterion {
	return Criterion{Range: criteriaRange, Operator: operator, Value: value, Kind: KindCompare}
}

// Fragment renders the clause as "range,condition". Values that look like
// numbers, cell addresses, or function calls stay bare; anything else is a
// string literal and gets quoted.
func (c Criterion) Fragment() string {
	switch c.Kind {
	case KindDate:
		return fmt.Sprintf("%s,%q&%s", c.Range, c.Operator, c.Value)
	case KindCompare:
		if isBare(c.Value) {
			return fmt.Sprintf("%s,%q&%s", c.Range, c.Operator, c.Value)
		}
		return fmt.Sprintf("%s,\"%s%s\"", c.Range, c.Operator, escapeQuotes(c.Value))
	default:
		if isBare(c.Value) {
			return fmt.Sprintf("%s,%s", c.Range, c.Value)
		}
		return fmt.Sprintf("%s,\"%s\"", c.Range, escapeQuotes(c.Value))
	}
}

// escapeQuotes doubles embedded double quotes, the escape the formula
// grammar expects inside string literals.
func escapeQuotes(v string) string {
	return strings.ReplaceAll(v, `"`, `""`)
}

var (
	cellRefPattern  = regexp.MustCompile(`^\$?[A-Za-z]{1,3}\$?[0-9]+(:\$?[A-Za-z]{1,3}\$?[0-9]*)?$`)
	funcCallPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*\(.*\)$`)
)

func isBare(value string) bool {
	if value == "" {
		return false
	}
	if _, err := strconv.ParseFloat(value, 64); err == nil {
		return true
	}
	switch strings.ToUpper(value) {
	case "TRUE", "FALSE":
		return true
	}
	return cellRefPattern.MatchString(value) || funcCallPattern.MatchString(value)
}

// SharedDivisor renders the co-owner split divisor for a shared-flag cell:
// 2 when the flag is set, 1 otherwise.
func SharedDivisor(flagCell string) string {
	return fmt.Sprintf("IF(%s=TRUE,2,1)", flagCell)
}

// MonthlySum joins the criteria into one conditional sum over sumRange.
// A non-empty sharedDivisor wraps the sum in a division by that expression.
func MonthlySum(sumRange string, criteria []Criterion, sharedDivisor string) string {
	parts := make([]string, 0, 1+len(criteria))
	parts = append(parts, sumRange)
	for _, c := range criteria {
		parts = append(parts, c.Fragment())
	}
	sum := "SUMIFS(" + strings.Join(parts, ",") + ")"
	if sharedDivisor != "" {
		return Marker + "(" + sum + ")/" + sharedDivisor
	}
	return Marker + sum
}

// CategoryTotalParams describes one (type, category, subcategory, month)
// cell of the overview grid.
type CategoryTotalParams struct {
	SumRange  string
	TypeRange string
	TypeValue string
	DateRange string
	// Month identifies the window; the criteria span its first through last
	// day, inclusive.
	Month             time.Time
	CategoryRange     string
	Category          string
	SubCategoryRange  string
	SubCategory       string
	ShowSubCategories bool
	SharedDivisor     string
}

// CategoryTotal compiles the composite monthly cell formula: a type match,
// an inclusive month window, and optional category/subcategory matches. The
// subcategory clause is included only when the toggle is on and a value is
// present.
func CategoryTotal(p CategoryTotalParams) string {
	first := time.Date(p.Month.Year(), p.Month.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	criteria := []Criterion{
		NewCriterion(p.TypeRange, p.TypeValue),
		NewDateCriterion(p.DateRange, ">=", first),
		NewDateCriterion(p.DateRange, "<=", last),
	}
	if p.Category != "" {
		criteria = append(criteria, NewCriterion(p.CategoryRange, p.Category))
	}
	if p.ShowSubCategories && p.SubCategory != "" {
		criteria = append(criteria, NewCriterion(p.SubCategoryRange, p.SubCategory))
	}

	return MonthlySum(p.SumRange, criteria, p.SharedDivisor)
}

// RowTotal sums the month span of one row.
func RowTotal(startCol, endCol string, row int) string {
	return fmt.Sprintf("%sSUM(%s%d:%s%d)", Marker, startCol, row, endCol, row)
}

// RowAverage averages the month span of one row.
func RowAverage(startCol, endCol string, row int) string {
	return fmt.Sprintf("%sAVERAGE(%s%d:%s%d)", Marker, startCol, row, endCol, row)
}

// NetComponent is one cell reference in a signed sum.
type NetComponent struct {
	Cell     string
	Subtract bool
}

// Net renders a signed sum of cell references. The first component is always
// added regardless of its declared operation.
func Net(components []NetComponent) string {
	if len(components) == 0 {
		return Marker + "0"
	}
	var b strings.Builder
	b.WriteString(Marker)
	b.WriteString(components[0].Cell)
	for _, comp := range components[1:] {
		if comp.Subtract {
			b.WriteString("-")
		} else {
			b.WriteString("+")
		}
		b.WriteString(comp.Cell)
	}
	return b.String()
}

// Percentage renders numerator/denominator guarded against division by zero,
// optionally taking the absolute value of the numerator.
func Percentage(numerator, denominator string, absolute bool) string {
	num := numerator
	if absolute {
		num = "ABS(" + numerator + ")"
	}
	return fmt.Sprintf("%sIF(%s=0,0,%s/%s)", Marker, denominator, num, denominator)
}
