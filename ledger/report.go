/*
report.go - Generic date-range aggregation over any ledger

PURPOSE:
  One aggregator for all five ledgers. Given a log of dated, amounted records
  and a period, it filters to the window (inclusive boundaries), sums the
  amount field, and returns the filtered records with total, count, and a
  range label. Export consumers get the same result flattened into a plain
  table of strings.

WHY GENERIC:
  Stock movements, credit transactions, income, expenses, invoices, payments,
  and orders all report the same way. Special-casing each log would multiply
  the same fold seven times; instead each row type implements Record
  (OccurredAt + AmountValue) and this package does the rest.

SEE ALSO:
  - period.go: Window semantics
  - api/handlers.go: Report endpoints
*/
package ledger

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// REPORT - Filter + sum over a log
// =============================================================================

type Report[T Record] struct {
	Records    []T
	Total      decimal.Decimal
	Count      int
	RangeLabel string
}

// Summarize filters records to the period and sums their amounts.
// The input order is preserved; records outside the window are dropped.
func Summarize[T Record](records []T, kind RangeKind, p Period) Report[T] {
	out := Report[T]{
		Records:    make([]T, 0, len(records)),
		Total:      decimal.Zero,
		RangeLabel: Label(kind, p),
	}
	for _, r := range records {
		if !p.Contains(r.OccurredAt()) {
			continue
		}
		out.Records = append(out.Records, r)
		out.Total = out.Total.Add(r.AmountValue())
	}
	out.Count = len(out.Records)
	return out
}

// =============================================================================
// TABLE - Flat shape consumed by the export collaborator
// =============================================================================

// Table is the tabular report shape handed to spreadsheet/PDF exporters.
// The engine produces it; rendering a file is not its concern.
type Table struct {
	Headers       []string   `json:"headers"`
	Rows          [][]string `json:"rows"`
	SummaryLabels []string   `json:"summary_labels"`
	SummaryValues []string   `json:"summary_values"`
}

// Table flattens the report using row to render each record.
func (r Report[T]) Table(headers []string, row func(T) []string) Table {
	t := Table{
		Headers:       headers,
		Rows:          make([][]string, 0, len(r.Records)),
		SummaryLabels: []string{"Range", "Count", "Total"},
		SummaryValues: []string{r.RangeLabel, itoa(r.Count), r.Total.String()},
	}
	for _, rec := range r.Records {
		t.Rows = append(t.Rows, row(rec))
	}
	return t
}

func itoa(n int) string {
	return decimal.NewFromInt(int64(n)).String()
}
