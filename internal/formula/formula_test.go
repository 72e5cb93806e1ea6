package formula

import (
	"strings"
	"testing"
	"time"
)

func TestCriterionFragmentQuoting(t *testing.T) {
	cases := []struct {
		name string
		c    Criterion
		want string
	}{
		{
			name: "equals quotes string literal",
			c:    NewCriterion("C1:C10", "Essentials"),
			want: `C1:C10,"Essentials"`,
		},
		{
			name: "equals leaves cell reference bare",
			c:    NewCriterion("C1:C10", "$B$2"),
			want: `C1:C10,$B$2`,
		},
		{
			name: "equals leaves function call bare",
			c:    NewCriterion("D1:D10", "TODAY()"),
			want: `D1:D10,TODAY()`,
		},
		{
			name: "operator leaves number bare",
			c:    NewOperatorCriterion("A1:A10", ">", "100"),
			want: `A1:A10,">"&100`,
		},
		{
			name: "operator quotes string literal with operator",
			c:    NewOperatorCriterion("A1:A10", "<>", "Pending"),
			want: `A1:A10,"<>Pending"`,
		},
		{
			name: "equals doubles embedded quotes",
			c:    NewCriterion("C:C", `Caffè "Bar"`),
			want: `C:C,"Caffè ""Bar"""`,
		},
		{
			name: "operator doubles embedded quotes",
			c:    NewOperatorCriterion("C:C", "<>", `Caffè "Bar"`),
			want: `C:C,"<>Caffè ""Bar"""`,
		},
		{
			name: "date concatenates bare DATE call",
			c:    NewDateCriterion("D:D", ">=", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
			want: `D:D,">="&DATE(2024,1,1)`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.c.Fragment(); got != tc.want {
				t.Fatalf("Fragment() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestMonthlySum(t *testing.T) {
	criteria := []Criterion{
		NewCriterion("Transactions!$B:$B", "Essentials"),
		NewDateCriterion("Transactions!$A:$A", ">=", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
	}

	t.Run("without divisor", func(t *testing.T) {
		got := MonthlySum("Transactions!$E:$E", criteria, "")
		want := `=SUMIFS(Transactions!$E:$E,Transactions!$B:$B,"Essentials",Transactions!$A:$A,">="&DATE(2024,1,1))`
		if got != want {
			t.Fatalf("MonthlySum = %q, want %q", got, want)
		}
	})

	t.Run("with shared divisor", func(t *testing.T) {
		got := MonthlySum("Transactions!$E:$E", criteria, SharedDivisor("$P5"))
		if !strings.HasPrefix(got, "=(SUMIFS(") {
			t.Fatalf("shared sum should wrap SUMIFS in parentheses, got %q", got)
		}
		if !strings.HasSuffix(got, ")/IF($P5=TRUE,2,1)") {
			t.Fatalf("shared sum should divide by the flag divisor, got %q", got)
		}
	})
}

func TestCategoryTotal(t *testing.T) {
	base := CategoryTotalParams{
		SumRange:         "Transactions!$E:$E",
		TypeRange:        "Transactions!$B:$B",
		TypeValue:        "Essentials",
		DateRange:        "Transactions!$A:$A",
		Month:            time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		CategoryRange:    "Transactions!$C:$C",
		Category:         "Food",
		SubCategoryRange: "Transactions!$D:$D",
		SubCategory:      "Groceries",
	}

	t.Run("month window is first through last day", func(t *testing.T) {
		got := CategoryTotal(base)
		if !strings.Contains(got, `">="&DATE(2024,2,1)`) {
			t.Fatalf("missing month start criterion: %q", got)
		}
		if !strings.Contains(got, `"<="&DATE(2024,2,29)`) {
			t.Fatalf("missing inclusive month end criterion: %q", got)
		}
	})

	t.Run("subcategory excluded when toggle off", func(t *testing.T) {
		got := CategoryTotal(base)
		if strings.Contains(got, "Groceries") {
			t.Fatalf("subcategory clause should be absent: %q", got)
		}
	})

	t.Run("subcategory included when toggle on and value present", func(t *testing.T) {
		p := base
		p.ShowSubCategories = true
		got := CategoryTotal(p)
		if !strings.Contains(got, `Transactions!$D:$D,"Groceries"`) {
			t.Fatalf("subcategory clause should be present: %q", got)
		}
	})

	t.Run("subcategory omitted when toggle on but value empty", func(t *testing.T) {
		p := base
		p.ShowSubCategories = true
		p.SubCategory = ""
		got := CategoryTotal(p)
		if strings.Contains(got, "Transactions!$D:$D") {
			t.Fatalf("empty subcategory must not add a clause: %q", got)
		}
	})

	t.Run("type-level aggregate has no category clause", func(t *testing.T) {
		p := base
		p.Category = ""
		p.SubCategory = ""
		got := CategoryTotal(p)
		if strings.Contains(got, "Transactions!$C:$C") {
			t.Fatalf("type aggregate must not filter on category: %q", got)
		}
	})
}

func TestRowTotalAndAverage(t *testing.T) {
	if got := RowTotal("B", "M", 5); got != "=SUM(B5:M5)" {
		t.Fatalf("RowTotal = %q", got)
	}
	if got := RowAverage("B", "M", 5); got != "=AVERAGE(B5:M5)" {
		t.Fatalf("RowAverage = %q", got)
	}
}

func TestNet(t *testing.T) {
	cases := []struct {
		name       string
		components []NetComponent
		want       string
	}{
		{"empty", nil, "=0"},
		{"single", []NetComponent{{Cell: "B4"}}, "=B4"},
		{
			"signed sum",
			[]NetComponent{{Cell: "B4"}, {Cell: "B8", Subtract: true}, {Cell: "B12"}},
			"=B4-B8+B12",
		},
		{
			"first component is always positive",
			[]NetComponent{{Cell: "B4", Subtract: true}, {Cell: "B8", Subtract: true}},
			"=B4-B8",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Net(tc.components); got != tc.want {
				t.Fatalf("Net = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestPercentage(t *testing.T) {
	if got := Percentage("B5", "B10", false); got != "=IF(B10=0,0,B5/B10)" {
		t.Fatalf("Percentage = %q", got)
	}
	if got := Percentage("B5", "B10", true); got != "=IF(B10=0,0,ABS(B5)/B10)" {
		t.Fatalf("absolute Percentage = %q", got)
	}
}

func TestFormulasStartWithMarker(t *testing.T) {
	formulas := []string{
		MonthlySum("E:E", []Criterion{NewCriterion("B:B", "Income")}, ""),
		RowTotal("B", "M", 2),
		RowAverage("B", "M", 2),
		Net([]NetComponent{{Cell: "B2"}}),
		Percentage("B2", "B3", false),
	}
	for _, f := range formulas {
		if !strings.HasPrefix(f, Marker) {
			t.Fatalf("formula %q does not start with marker", f)
		}
	}
}

func TestDeterminism(t *testing.T) {
	p := CategoryTotalParams{
		SumRange:  "T!$E:$E",
		TypeRange: "T!$B:$B",
		TypeValue: "Income",
		DateRange: "T!$A:$A",
		Month:     time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	first := CategoryTotal(p)
	for i := 0; i < 10; i++ {
		if got := CategoryTotal(p); got != first {
			t.Fatalf("CategoryTotal not deterministic: %q vs %q", got, first)
		}
	}
}
