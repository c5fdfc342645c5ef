/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:
  Provides pre-built scenarios that populate the database with realistic
  data for testing and demos.

AVAILABLE SCENARIOS:
  bakery-day:        Stock items, a delivery received, trolleys allocated,
                     the day's takings and an expense
  credit-history:    Employees with borrow/repay histories
  supplier-accounts: Suppliers with invoices partially paid down
  fleet:             Vehicles across every disk and service status

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Create the entities the scenario needs
 3. Drive the normal ledger operations to produce realistic histories

USAGE VIA API:
  POST /api/scenarios/load
  {"scenario_id": "bakery-day"}

NOTE:
  Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Handler context
  - server.go: Scenario routes
*/
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aone/bakery-ledger/finance"
	"github.com/aone/bakery-ledger/orders"
	"github.com/aone/bakery-ledger/stock"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "bakery-day",
		Name:        "Bakery Day",
		Description: "A typical day: stock received, trolleys allocated, takings and an expense recorded",
	},
	{
		ID:          "credit-history",
		Name:        "Credit History",
		Description: "Employees with borrow and repayment histories",
	},
	{
		ID:          "supplier-accounts",
		Name:        "Supplier Accounts",
		Description: "Suppliers with invoices partially paid down",
	},
	{
		ID:          "fleet",
		Name:        "Fleet",
		Description: "Vehicles across every license disk and service status",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	if h.currentScenario == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	for _, s := range scenarios {
		if s.ID == h.currentScenario {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, nil)
}

// LoadScenario resets the database and loads the requested scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}

	var err error
	switch req.ScenarioID {
	case "bakery-day":
		err = h.loadBakeryDay(ctx)
	case "credit-history":
		err = h.loadCreditHistory(ctx)
	case "supplier-accounts":
		err = h.loadSupplierAccounts(ctx)
	case "fleet":
		err = h.loadFleet(ctx)
	default:
		writeError(w, http.StatusNotFound, "Unknown scenario", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}

	h.currentScenario = req.ScenarioID
	writeJSON(w, http.StatusOK, map[string]string{"loaded": req.ScenarioID})
}

// ResetDatabase clears all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func (h *Handler) loadBakeryDay(ctx context.Context) error {
	white, err := h.Stock.CreateItem(ctx, "White Bread", "loaves")
	if err != nil {
		return err
	}
	brown, err := h.Stock.CreateItem(ctx, "Brown Bread", "loaves")
	if err != nil {
		return err
	}
	biscuits, err := h.Stock.CreateItem(ctx, "Bucket Biscuits", "biscuits")
	if err != nil {
		return err
	}

	// Morning delivery
	if _, err := h.Stock.ReceiveMany(ctx, []stock.Line{
		{ItemID: white.ID, Quantity: dec("300")},
		{ItemID: brown.ID, Quantity: dec("240")},
		{ItemID: biscuits.ID, Quantity: dec("160")},
	}, "Golden Flour Mills", "morning delivery"); err != nil {
		return err
	}

	// Two sellers take their trolleys
	if _, err := h.Stock.AllocateMany(ctx, []stock.Line{
		{ItemID: white.ID, Quantity: dec("120")},
		{ItemID: brown.ID, Quantity: dec("60")},
	}, "Sipho", "route 1"); err != nil {
		return err
	}
	if _, err := h.Stock.AllocateMany(ctx, []stock.Line{
		{ItemID: white.ID, Quantity: dec("60")},
		{ItemID: biscuits.ID, Quantity: dec("40")},
	}, "Thandi", "route 2"); err != nil {
		return err
	}

	// The day's takings and one expense
	if _, err := h.Finance.RecordIncome(ctx, dec("1450"), dec("230"),
		&finance.CoinSplit{R5: dec("120"), R2: dec("60"), R1: dec("35"), C50: dec("15")},
		"day's takings"); err != nil {
		return err
	}
	if _, err := h.Finance.RecordExpense(ctx, dec("180"), nil, "diesel"); err != nil {
		return err
	}

	// A delivery order for tomorrow
	_, _, err = h.Orders.Create(ctx, "", h.mustVehicle(ctx), []orders.LineInput{
		{ItemType: orders.WhiteBread, TrolliesOrQty: dec("2")},
		{ItemType: orders.BucketBiscuits, TrolliesOrQty: dec("1")},
	})
	return err
}

// mustVehicle creates a demo vehicle and returns its ID.
func (h *Handler) mustVehicle(ctx context.Context) string {
	expiry := time.Now().AddDate(0, 8, 0)
	v, err := h.Fleet.Create(ctx, "Bakkie 1", "ND 123-456", &expiry, "D-7781", 84200, 80000, 10000)
	if err != nil {
		return ""
	}
	return v.ID
}

func (h *Handler) loadCreditHistory(ctx context.Context) error {
	sipho, err := h.Credit.CreateEmployee(ctx, "Sipho", "083 555 0101", nil, "")
	if err != nil {
		return err
	}
	thandi, err := h.Credit.CreateEmployee(ctx, "Thandi", "083 555 0102", nil, "")
	if err != nil {
		return err
	}

	// Sipho borrowed twice, repaid once; balance 250
	if _, err := h.Credit.Record(ctx, sipho.ID, "BORROW", dec("300"), "school fees"); err != nil {
		return err
	}
	if _, err := h.Credit.Record(ctx, sipho.ID, "BORROW", dec("150"), "transport"); err != nil {
		return err
	}
	if _, err := h.Credit.Record(ctx, sipho.ID, "REPAY", dec("200"), "week 1 deduction"); err != nil {
		return err
	}

	// Thandi is settled
	if _, err := h.Credit.Record(ctx, thandi.ID, "BORROW", dec("100"), "groceries"); err != nil {
		return err
	}
	_, err = h.Credit.Record(ctx, thandi.ID, "REPAY", dec("100"), "paid back")
	return err
}

func (h *Handler) loadSupplierAccounts(ctx context.Context) error {
	mills, err := h.Suppliers.CreateSupplier(ctx, "Golden Flour Mills", "P. Naidoo", "031 555 0199")
	if err != nil {
		return err
	}
	packaging, err := h.Suppliers.CreateSupplier(ctx, "Coastal Packaging", "", "")
	if err != nil {
		return err
	}

	// Mills: two invoices, one partial payment; outstanding 2600
	if _, err := h.Suppliers.RecordInvoice(ctx, mills.ID, "INV-1041", dec("3200"), time.Time{}, nil, "flour"); err != nil {
		return err
	}
	if _, err := h.Suppliers.RecordInvoice(ctx, mills.ID, "INV-1058", dec("1400"), time.Time{}, nil, "yeast and salt"); err != nil {
		return err
	}
	if _, err := h.Suppliers.RecordPayment(ctx, mills.ID, dec("2000"), "EFT", "EFT-2291", "", time.Time{}); err != nil {
		return err
	}

	// Packaging: one invoice, fully paid
	if _, err := h.Suppliers.RecordInvoice(ctx, packaging.ID, "CP-889", dec("650"), time.Time{}, nil, "bags"); err != nil {
		return err
	}
	_, err = h.Suppliers.RecordPayment(ctx, packaging.ID, dec("650"), "cash", "", "", time.Time{})
	return err
}

func (h *Handler) loadFleet(ctx context.Context) error {
	now := time.Now()

	valid := now.AddDate(0, 6, 0)
	if _, err := h.Fleet.Create(ctx, "Bakkie 1", "ND 123-456", &valid, "D-7781", 84200, 80000, 10000); err != nil {
		return err
	}

	critical := now.AddDate(0, 0, 20)
	if _, err := h.Fleet.Create(ctx, "Bakkie 2", "ND 234-567", &critical, "D-7782", 149300, 140000, 10000); err != nil {
		return err
	}

	expired := now.AddDate(0, 0, -15)
	if _, err := h.Fleet.Create(ctx, "Panel Van", "ND 345-678", &expired, "D-7783", 201500, 190000, 10000); err != nil {
		return err
	}

	// No disk recorded at all
	_, err := h.Fleet.Create(ctx, "Trailer", "ND 456-789", nil, "", 0, 0, 0)
	return err
}
