/*
reports.go - Report endpoints over every ledger

PURPOSE:
  One endpoint shape for all seven reportable logs:

    GET /api/reports/{log}?range=daily|weekly|monthly|yearly|custom
                          &start=2006-01-02&end=2006-01-02

  where {log} is one of income, expenses, movements, credit, invoices,
  payments, orders. Named ranges are computed relative to today; custom
  requires start and end, both inclusive.

  The response is the flat table shape the export collaborator consumes:
  headers, string rows, and a summary block with range label, row count,
  and total.

SEE ALSO:
  - ledger/report.go: Summarize and Table
  - ledger/period.go: Window semantics
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aone/bakery-ledger/credit"
	"github.com/aone/bakery-ledger/finance"
	"github.com/aone/bakery-ledger/ledger"
	"github.com/aone/bakery-ledger/orders"
	"github.com/aone/bakery-ledger/stock"
	"github.com/aone/bakery-ledger/supplier"
)

// GetReport builds a report table for the requested log and date range.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	kind, period, ok := h.reportWindow(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	switch chi.URLParam(r, "log") {
	case "income":
		rows, err := h.Finance.Income(ctx)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		report := ledger.Summarize(rows, kind, period)
		writeJSON(w, http.StatusOK, report.Table(
			[]string{"Date", "Notes", "Coins", "Total", "Description"},
			func(in finance.Income) []string {
				return []string{
					in.CreatedAt.Format("2006-01-02"),
					in.Notes.String(), in.Coins.String(), in.Total.String(),
					in.Description,
				}
			}))

	case "expenses":
		rows, err := h.Finance.Expenses(ctx)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		report := ledger.Summarize(rows, kind, period)
		writeJSON(w, http.StatusOK, report.Table(
			[]string{"Date", "Amount", "Description"},
			func(ex finance.Expense) []string {
				return []string{
					ex.CreatedAt.Format("2006-01-02"),
					ex.Amount.String(), ex.Description,
				}
			}))

	case "movements":
		rows, err := h.Stock.Movements(ctx, stock.MovementFilter{OldestFirst: true})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		report := ledger.Summarize(rows, kind, period)
		writeJSON(w, http.StatusOK, report.Table(
			[]string{"Date", "Item", "Type", "Quantity", "Employee", "Supplier"},
			func(m stock.Movement) []string {
				return []string{
					m.CreatedAt.Format("2006-01-02"),
					m.ItemName, string(m.Type), m.Quantity.String(),
					m.EmployeeName, m.SupplierName,
				}
			}))

	case "credit":
		rows, err := h.Credit.Transactions(ctx, "")
		if err != nil {
			writeDomainError(w, err)
			return
		}
		report := ledger.Summarize(rows, kind, period)
		writeJSON(w, http.StatusOK, report.Table(
			[]string{"Date", "Employee", "Type", "Amount", "Reason"},
			func(tx credit.Transaction) []string {
				return []string{
					tx.CreatedAt.Format("2006-01-02"),
					tx.EmployeeName, string(tx.Type), tx.Amount.String(), tx.Reason,
				}
			}))

	case "invoices":
		rows, err := h.Suppliers.Invoices(ctx, "")
		if err != nil {
			writeDomainError(w, err)
			return
		}
		report := ledger.Summarize(rows, kind, period)
		writeJSON(w, http.StatusOK, report.Table(
			[]string{"Date", "Supplier", "Invoice #", "Amount"},
			func(inv supplier.Invoice) []string {
				return []string{
					inv.InvoiceDate.Format("2006-01-02"),
					inv.SupplierName, inv.InvoiceNumber, inv.Amount.String(),
				}
			}))

	case "payments":
		rows, err := h.Suppliers.Payments(ctx, "")
		if err != nil {
			writeDomainError(w, err)
			return
		}
		report := ledger.Summarize(rows, kind, period)
		writeJSON(w, http.StatusOK, report.Table(
			[]string{"Date", "Supplier", "Method", "Reference", "Amount"},
			func(p supplier.Payment) []string {
				return []string{
					p.PaymentDate.Format("2006-01-02"),
					p.SupplierName, p.PaymentMethod, p.Reference, p.Amount.String(),
				}
			}))

	case "orders":
		rows, err := h.Orders.Orders(ctx)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		report := ledger.Summarize(rows, kind, period)
		writeJSON(w, http.StatusOK, report.Table(
			[]string{"Date", "Driver", "Vehicle", "Total Quantity"},
			func(o orders.Order) []string {
				return []string{
					o.CreatedAt.Format("2006-01-02"),
					o.DriverID, o.VehicleID, o.TotalQuantity.String(),
				}
			}))

	default:
		writeError(w, http.StatusNotFound, "Unknown report log", nil)
	}
}

// reportWindow resolves the range query parameters into a period. It writes
// the error response itself and reports ok=false on bad input.
func (h *Handler) reportWindow(w http.ResponseWriter, r *http.Request) (ledger.RangeKind, ledger.Period, bool) {
	q := r.URL.Query()
	kind := ledger.RangeKind(q.Get("range"))
	if kind == "" {
		kind = ledger.RangeDaily
	}

	switch kind {
	case ledger.RangeDaily, ledger.RangeWeekly, ledger.RangeMonthly, ledger.RangeYearly:
		return kind, ledger.RangeFor(kind, ledger.Now()), true

	case ledger.RangeCustom:
		start, err := parseDate(q.Get("start"))
		if err != nil || start == nil {
			writeError(w, http.StatusBadRequest, "Custom range requires a valid start date", err)
			return kind, ledger.Period{}, false
		}
		end, err := parseDate(q.Get("end"))
		if err != nil || end == nil {
			writeError(w, http.StatusBadRequest, "Custom range requires a valid end date", err)
			return kind, ledger.Period{}, false
		}
		if end.Before(*start) {
			writeError(w, http.StatusBadRequest, "End date is before start date", nil)
			return kind, ledger.Period{}, false
		}
		return kind, ledger.Custom(*start, *end), true

	default:
		writeError(w, http.StatusBadRequest, "Unknown range kind", nil)
		return kind, ledger.Period{}, false
	}
}
