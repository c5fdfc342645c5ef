/*
handlers.go - HTTP API handlers for the stock and financial ledger engine

PURPOSE:
  Exposes the ledgers via REST API. Handles HTTP request/response, JSON
  serialization, and delegates to domain logic.

ENDPOINTS:
  Stock:
    GET    /api/stock                   List stock items
    POST   /api/stock                   Create stock item
    GET    /api/stock/{id}              Get stock item
    DELETE /api/stock/{id}              Delete item (movements retained)
    POST   /api/stock/receive           Receive a batch from a supplier
    POST   /api/stock/allocate          Allocate a batch to an employee
    GET    /api/stock/movements         Movement log with filters

  Employees & Credit:
    GET    /api/employees               List employees
    POST   /api/employees               Create employee
    GET    /api/employees/{id}          Get employee
    PUT    /api/employees/{id}          Update employee
    DELETE /api/employees/{id}          Delete employee (history retained)
    GET    /api/employees/{id}/balance  Credit balance (folded)
    GET    /api/employees/{id}/credit   Credit transactions
    POST   /api/employees/{id}/credit   Record borrow/repay
    PUT    /api/credit/{id}             Edit a credit transaction
    DELETE /api/credit/{id}             Delete a credit transaction

  Finance:
    GET    /api/finance/income          List income
    POST   /api/finance/income          Record income
    DELETE /api/finance/income/{id}     Delete income row
    GET    /api/finance/expenses        List expenses
    POST   /api/finance/expenses        Record expense
    DELETE /api/finance/expenses/{id}   Delete expense row
    GET    /api/finance/summary         Totals and money on hand
    GET    /api/finance/breakdown       Cash breakdown by denomination

  Suppliers:
    GET    /api/suppliers               List suppliers with balances
    POST   /api/suppliers               Create supplier
    GET    /api/suppliers/{id}          Get supplier with balance
    DELETE /api/suppliers/{id}          Delete supplier (history retained)
    GET    /api/suppliers/{id}/invoices List invoices
    POST   /api/suppliers/{id}/invoices Record invoice
    GET    /api/suppliers/{id}/payments List payments
    POST   /api/suppliers/{id}/payments Record payment
    GET    /api/suppliers/totals        Whole-ledger totals

  Orders:
    GET    /api/orders                  List orders
    POST   /api/orders                  Create order
    GET    /api/orders/{id}             Get order with items
    DELETE /api/orders/{id}             Delete order
    GET    /api/orders/item-types       Item types the rules know

  Fleet:
    GET    /api/vehicles                List vehicles with statuses
    POST   /api/vehicles                Create vehicle
    GET    /api/vehicles/{id}           Get vehicle
    DELETE /api/vehicles/{id}           Delete vehicle
    POST   /api/vehicles/{id}/odometer  Update odometer reading
    POST   /api/vehicles/{id}/service   Record a service
    GET    /api/vehicles/expiries       Expiry feed (disks and licenses)

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 409: Insufficient stock
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - reports.go: Report endpoints
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/aone/bakery-ledger/credit"
	"github.com/aone/bakery-ledger/finance"
	"github.com/aone/bakery-ledger/fleet"
	"github.com/aone/bakery-ledger/ledger"
	"github.com/aone/bakery-ledger/orders"
	"github.com/aone/bakery-ledger/stock"
	"github.com/aone/bakery-ledger/store/sqlite"
	"github.com/aone/bakery-ledger/supplier"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store     *sqlite.Store
	Stock     *stock.Ledger
	Credit    *credit.Ledger
	Finance   *finance.Ledger
	Suppliers *supplier.Ledger
	Orders    *orders.Service
	Fleet     *fleet.Registry

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler creates a new handler with every ledger wired to the store.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{
		Store:     store,
		Stock:     stock.NewLedger(store),
		Credit:    credit.NewLedger(store),
		Finance:   finance.NewLedger(store),
		Suppliers: supplier.NewLedger(store),
		Orders:    orders.NewService(store),
		Fleet:     fleet.NewRegistry(store),
	}
}

// =============================================================================
// STOCK HANDLERS
// =============================================================================

// ListStockItems returns all stock items.
func (h *Handler) ListStockItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.Stock.Items(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	dtos := make([]StockItemDTO, len(items))
	for i, item := range items {
		dtos[i] = toStockItemDTO(item)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateStockItem registers a new stock item with zero on hand.
func (h *Handler) CreateStockItem(w http.ResponseWriter, r *http.Request) {
	var req CreateStockItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	item, err := h.Stock.CreateItem(r.Context(), req.Name, req.Unit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toStockItemDTO(*item))
}

// GetStockItem returns a single stock item.
func (h *Handler) GetStockItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.Stock.Item(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toStockItemDTO(*item))
}

// DeleteStockItem removes an item; its movement log is retained.
func (h *Handler) DeleteStockItem(w http.ResponseWriter, r *http.Request) {
	if err := h.Stock.DeleteItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Receive applies a batch of RECEIVED movements from one supplier.
func (h *Handler) Receive(w http.ResponseWriter, r *http.Request) {
	var req ReceiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	lines, err := toLines(req.Lines)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid quantity", err)
		return
	}
	movements, err := h.Stock.ReceiveMany(r.Context(), lines, req.SupplierName, req.Notes)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toMovementDTOs(movements))
}

// Allocate applies a batch of ALLOCATED movements to one employee.
// The whole batch fails with 409 when any line exceeds stock on hand.
func (h *Handler) Allocate(w http.ResponseWriter, r *http.Request) {
	var req AllocateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	lines, err := toLines(req.Lines)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid quantity", err)
		return
	}
	movements, err := h.Stock.AllocateMany(r.Context(), lines, req.EmployeeName, req.Notes)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toMovementDTOs(movements))
}

// ListMovements returns the movement log, filtered by query parameters:
// item_id, type, from, to (inclusive dates), order=oldest.
func (h *Handler) ListMovements(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := stock.MovementFilter{
		ItemID:      q.Get("item_id"),
		OldestFirst: q.Get("order") == "oldest",
	}
	if t := q.Get("type"); t != "" {
		mt := stock.MovementType(t)
		filter.Type = &mt
	}
	if from, err := parseDate(q.Get("from")); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from date", err)
		return
	} else {
		filter.From = from
	}
	if to, err := parseDate(q.Get("to")); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid to date", err)
		return
	} else {
		filter.To = to
	}

	movements, err := h.Stock.Movements(r.Context(), filter)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMovementDTOs(movements))
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees with their license status.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Credit.Employees(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	now := ledger.Now()
	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e, now)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateEmployee creates an employee directory record.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	expiry, err := parseDate(req.LicenseExpiry)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid license expiry date", err)
		return
	}
	e, err := h.Credit.CreateEmployee(r.Context(), req.Name, req.Phone, expiry, req.PhotoPath)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(*e, ledger.Now()))
}

// GetEmployee returns a single employee.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	e, err := h.Credit.Employee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(*e, ledger.Now()))
}

// UpdateEmployee updates the directory record in place.
func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	expiry, err := parseDate(req.LicenseExpiry)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid license expiry date", err)
		return
	}
	e := credit.Employee{
		ID:            chi.URLParam(r, "id"),
		Name:          req.Name,
		Phone:         req.Phone,
		LicenseExpiry: expiry,
		PhotoPath:     req.PhotoPath,
	}
	if err := h.Credit.UpdateEmployee(r.Context(), e); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(e, ledger.Now()))
}

// DeleteEmployee removes the directory row; credit history is retained.
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	if err := h.Credit.DeleteEmployee(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// CREDIT HANDLERS
// =============================================================================

// GetCreditBalance folds the employee's transactions into a balance.
func (h *Handler) GetCreditBalance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	balance, err := h.Credit.Balance(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CreditBalanceDTO{EmployeeID: id, Balance: balance.String()})
}

// GetCreditTransactions returns the employee's ledger rows oldest-first.
func (h *Handler) GetCreditTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := h.Credit.Transactions(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCreditDTOs(txs))
}

// RecordCredit appends a borrow or repayment for the employee.
func (h *Handler) RecordCredit(w http.ResponseWriter, r *http.Request) {
	var req RecordCreditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	txType := credit.TransactionType(req.Type)
	if txType != credit.TxBorrow && txType != credit.TxRepay {
		writeError(w, http.StatusBadRequest, "Type must be BORROW or REPAY", nil)
		return
	}
	amount, err := parseDec(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}
	tx, err := h.Credit.Record(r.Context(), chi.URLParam(r, "id"), txType, amount, req.Reason)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCreditDTO(*tx))
}

// EditCredit updates an existing transaction; the balance reflects the
// change on the next read.
func (h *Handler) EditCredit(w http.ResponseWriter, r *http.Request) {
	var req EditCreditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	amount, err := parseDec(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}
	var at time.Time
	if req.Date != "" {
		d, err := parseDate(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date", err)
			return
		}
		at = *d
	}
	tx, err := h.Credit.Edit(r.Context(), chi.URLParam(r, "id"), amount, req.Reason, at)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCreditDTO(*tx))
}

// DeleteCredit removes a transaction row.
func (h *Handler) DeleteCredit(w http.ResponseWriter, r *http.Request) {
	if err := h.Credit.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// FINANCE HANDLERS
// =============================================================================

// ListIncome returns all income rows oldest-first.
func (h *Handler) ListIncome(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Finance.Income(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	dtos := make([]IncomeDTO, len(rows))
	for i, in := range rows {
		dtos[i] = toIncomeDTO(in)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// RecordIncome appends an income row (notes + coins, optional coin split).
func (h *Handler) RecordIncome(w http.ResponseWriter, r *http.Request) {
	var req RecordIncomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	notes, err := parseDec(req.Notes)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid notes amount", err)
		return
	}
	coins, err := parseDec(req.Coins)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid coins amount", err)
		return
	}
	split, err := parseSplit(req.Split)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid coin split", err)
		return
	}
	in, err := h.Finance.RecordIncome(r.Context(), notes, coins, split, req.Description)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toIncomeDTO(*in))
}

// DeleteIncome removes an income row.
func (h *Handler) DeleteIncome(w http.ResponseWriter, r *http.Request) {
	if err := h.Finance.DeleteIncome(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListExpenses returns all expense rows oldest-first.
func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Finance.Expenses(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	dtos := make([]ExpenseDTO, len(rows))
	for i, ex := range rows {
		dtos[i] = toExpenseDTO(ex)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// RecordExpense appends an expense row with an optional coin split.
func (h *Handler) RecordExpense(w http.ResponseWriter, r *http.Request) {
	var req RecordExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	amount, err := parseDec(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}
	split, err := parseSplit(req.Split)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid coin split", err)
		return
	}
	ex, err := h.Finance.RecordExpense(r.Context(), amount, split, req.Description)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toExpenseDTO(*ex))
}

// DeleteExpense removes an expense row.
func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := h.Finance.DeleteExpense(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetFinanceSummary returns total income, total expenses, and money on hand.
func (h *Handler) GetFinanceSummary(w http.ResponseWriter, r *http.Request) {
	income, err := h.Finance.TotalIncome(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	expenses, err := h.Finance.TotalExpenses(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, FinanceSummaryDTO{
		TotalIncome:   income.String(),
		TotalExpenses: expenses.String(),
		MoneyOnHand:   income.Sub(expenses).String(),
	})
}

// GetCashBreakdown returns cash on hand split into denomination buckets.
// The bucket total always equals money on hand.
func (h *Handler) GetCashBreakdown(w http.ResponseWriter, r *http.Request) {
	b, err := h.Finance.CashBreakdown(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, BreakdownDTO{
		Notes: b.Notes.String(),
		R5:    b.R5.String(),
		R2:    b.R2.String(),
		R1:    b.R1.String(),
		C50:   b.C50.String(),
		Total: b.Sum().String(),
	})
}

// =============================================================================
// SUPPLIER HANDLERS
// =============================================================================

// ListSuppliers returns all suppliers with their folded balances.
func (h *Handler) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.Suppliers.Suppliers(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	dtos := make([]SupplierDTO, len(suppliers))
	for i, s := range suppliers {
		balance, err := h.Suppliers.Balance(r.Context(), s.ID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		dtos[i] = toSupplierDTO(s)
		dtos[i].Balance = balance.String()
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateSupplier creates a supplier record.
func (h *Handler) CreateSupplier(w http.ResponseWriter, r *http.Request) {
	var req CreateSupplierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	s, err := h.Suppliers.CreateSupplier(r.Context(), req.Name, req.ContactPerson, req.Phone)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSupplierDTO(*s))
}

// GetSupplier returns a supplier with its balance.
func (h *Handler) GetSupplier(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s, err := h.Suppliers.Supplier(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	balance, err := h.Suppliers.Balance(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	dto := toSupplierDTO(*s)
	dto.Balance = balance.String()
	writeJSON(w, http.StatusOK, dto)
}

// DeleteSupplier removes the supplier row; its account history is retained.
func (h *Handler) DeleteSupplier(w http.ResponseWriter, r *http.Request) {
	if err := h.Suppliers.DeleteSupplier(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListInvoices returns the supplier's invoices oldest-first.
func (h *Handler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.Suppliers.Invoices(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	dtos := make([]InvoiceDTO, len(invoices))
	for i, inv := range invoices {
		dtos[i] = toInvoiceDTO(inv)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// RecordInvoice appends an invoice against the supplier's account.
func (h *Handler) RecordInvoice(w http.ResponseWriter, r *http.Request) {
	var req RecordInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	amount, err := parseDec(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}
	invoiceDate, err := parseDate(req.InvoiceDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid invoice date", err)
		return
	}
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid due date", err)
		return
	}
	var at time.Time
	if invoiceDate != nil {
		at = *invoiceDate
	}
	inv, err := h.Suppliers.RecordInvoice(r.Context(), chi.URLParam(r, "id"),
		req.InvoiceNumber, amount, at, dueDate, req.Notes)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toInvoiceDTO(*inv))
}

// ListPayments returns the supplier's payments oldest-first.
func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.Suppliers.Payments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	dtos := make([]PaymentDTO, len(payments))
	for i, p := range payments {
		dtos[i] = toPaymentDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// RecordPayment appends a payment against the supplier's account.
func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var req RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	amount, err := parseDec(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}
	paymentDate, err := parseDate(req.PaymentDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid payment date", err)
		return
	}
	var at time.Time
	if paymentDate != nil {
		at = *paymentDate
	}
	p, err := h.Suppliers.RecordPayment(r.Context(), chi.URLParam(r, "id"),
		amount, req.PaymentMethod, req.Reference, req.Notes, at)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPaymentDTO(*p))
}

// GetSupplierTotals folds the whole supplier ledger.
func (h *Handler) GetSupplierTotals(w http.ResponseWriter, r *http.Request) {
	t, err := h.Suppliers.Totals(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SupplierTotalsDTO{
		Invoiced:    t.Invoiced.String(),
		Paid:        t.Paid.String(),
		Outstanding: t.Outstanding.String(),
	})
}

// =============================================================================
// ORDER HANDLERS
// =============================================================================

// ListOrders returns all orders newest-first.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	all, err := h.Orders.Orders(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	dtos := make([]OrderDTO, len(all))
	for i, o := range all {
		dtos[i] = toOrderDTO(o, nil)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateOrder creates an order assigned to a driver or a vehicle, deriving
// each line quantity via the quantity rules.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	lines := make([]orders.LineInput, 0, len(req.Lines))
	for _, l := range req.Lines {
		qty, err := parseDec(l.TrolliesOrQty)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid quantity", err)
			return
		}
		lines = append(lines, orders.LineInput{
			ItemType:      orders.ItemType(l.ItemType),
			TrolliesOrQty: qty,
		})
	}
	o, items, err := h.Orders.Create(r.Context(), req.DriverID, req.VehicleID, lines)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderDTO(*o, items))
}

// GetOrder returns an order with its line items.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, items, err := h.Orders.Order(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderDTO(*o, items))
}

// DeleteOrder removes an order and its items.
func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.Orders.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListItemTypes returns the item types the quantity rules know.
func (h *Handler) ListItemTypes(w http.ResponseWriter, r *http.Request) {
	types := orders.ItemTypes()
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	writeJSON(w, http.StatusOK, out)
}

// =============================================================================
// FLEET HANDLERS
// =============================================================================

// ListVehicles returns all vehicles with disk and service statuses.
func (h *Handler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.Fleet.Vehicles(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	now := ledger.Now()
	dtos := make([]VehicleDTO, len(vehicles))
	for i, v := range vehicles {
		dtos[i] = toVehicleDTO(v, now)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateVehicle registers a vehicle.
func (h *Handler) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	var req CreateVehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	expiry, err := parseDate(req.LicenseDiskExpiry)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid disk expiry date", err)
		return
	}
	v, err := h.Fleet.Create(r.Context(), req.Name, req.Registration, expiry,
		req.DiskNumber, req.CurrentKm, req.LastServiceKm, req.ServiceIntervalKm)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toVehicleDTO(*v, ledger.Now()))
}

// GetVehicle returns a single vehicle with statuses.
func (h *Handler) GetVehicle(w http.ResponseWriter, r *http.Request) {
	v, err := h.Fleet.Vehicle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toVehicleDTO(*v, ledger.Now()))
}

// DeleteVehicle removes a vehicle.
func (h *Handler) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	if err := h.Fleet.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateOdometer records a new odometer reading. Readings never go backward.
func (h *Handler) UpdateOdometer(w http.ResponseWriter, r *http.Request) {
	var req UpdateOdometerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	v, err := h.Fleet.UpdateOdometer(r.Context(), chi.URLParam(r, "id"), req.CurrentKm)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toVehicleDTO(*v, ledger.Now()))
}

// RecordService moves the service anchor to the given odometer reading.
func (h *Handler) RecordService(w http.ResponseWriter, r *http.Request) {
	var req RecordServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	v, err := h.Fleet.RecordService(r.Context(), chi.URLParam(r, "id"), req.AtKm)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toVehicleDTO(*v, ledger.Now()))
}

// ListExpiries returns the expiry feed, vehicle license disks and employee
// driver's licenses, for the notification collaborator.
func (h *Handler) ListExpiries(w http.ResponseWriter, r *http.Request) {
	feed, err := h.Fleet.ExpiryFeed(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	type expiryDTO struct {
		EntityID   string `json:"entity_id"`
		EntityType string `json:"entity_type"`
		EntityName string `json:"entity_name"`
		ExpiryDate string `json:"expiry_date"`
		Status     string `json:"status"`
	}
	now := ledger.Now()
	dtos := make([]expiryDTO, len(feed))
	for i, rec := range feed {
		expiry := rec.ExpiryDate
		dtos[i] = expiryDTO{
			EntityID:   rec.EntityID,
			EntityType: rec.EntityType,
			EntityName: rec.EntityName,
			ExpiryDate: expiry.Format("2006-01-02"),
			Status:     string(fleet.ClassifyExpiry(&expiry, now)),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// DTO CONVERSION
// =============================================================================

func toStockItemDTO(item stock.Item) StockItemDTO {
	return StockItemDTO{
		ID:        item.ID,
		Name:      item.Name,
		Unit:      item.Unit,
		OnHand:    item.OnHand.String(),
		CreatedAt: item.CreatedAt.Format(time.RFC3339),
	}
}

func toMovementDTOs(movements []stock.Movement) []MovementDTO {
	dtos := make([]MovementDTO, len(movements))
	for i, m := range movements {
		dtos[i] = MovementDTO{
			ID:           m.ID,
			ItemID:       m.ItemID,
			ItemName:     m.ItemName,
			Type:         string(m.Type),
			Quantity:     m.Quantity.String(),
			EmployeeName: m.EmployeeName,
			SupplierName: m.SupplierName,
			Notes:        m.Notes,
			CreatedAt:    m.CreatedAt.Format(time.RFC3339),
		}
	}
	return dtos
}

func toEmployeeDTO(e credit.Employee, now time.Time) EmployeeDTO {
	dto := EmployeeDTO{
		ID:            e.ID,
		Name:          e.Name,
		Phone:         e.Phone,
		LicenseStatus: string(fleet.ClassifyExpiry(e.LicenseExpiry, now)),
		PhotoPath:     e.PhotoPath,
		CreatedAt:     e.CreatedAt.Format(time.RFC3339),
	}
	if e.LicenseExpiry != nil {
		dto.LicenseExpiry = e.LicenseExpiry.Format("2006-01-02")
	}
	return dto
}

func toCreditDTO(tx credit.Transaction) CreditTransactionDTO {
	return CreditTransactionDTO{
		ID:           tx.ID,
		EmployeeID:   tx.EmployeeID,
		EmployeeName: tx.EmployeeName,
		Type:         string(tx.Type),
		Amount:       tx.Amount.String(),
		Reason:       tx.Reason,
		CreatedAt:    tx.CreatedAt.Format(time.RFC3339),
	}
}

func toCreditDTOs(txs []credit.Transaction) []CreditTransactionDTO {
	dtos := make([]CreditTransactionDTO, len(txs))
	for i, tx := range txs {
		dtos[i] = toCreditDTO(tx)
	}
	return dtos
}

func toIncomeDTO(in finance.Income) IncomeDTO {
	return IncomeDTO{
		ID:          in.ID,
		Notes:       in.Notes.String(),
		Coins:       in.Coins.String(),
		Split:       toSplitDTO(in.Split),
		Total:       in.Total.String(),
		Description: in.Description,
		CreatedAt:   in.CreatedAt.Format(time.RFC3339),
	}
}

func toExpenseDTO(ex finance.Expense) ExpenseDTO {
	return ExpenseDTO{
		ID:          ex.ID,
		Amount:      ex.Amount.String(),
		Split:       toSplitDTO(ex.Split),
		Description: ex.Description,
		CreatedAt:   ex.CreatedAt.Format(time.RFC3339),
	}
}

// toSplitDTO returns nil for an all-zero split so it is omitted from JSON.
func toSplitDTO(s finance.CoinSplit) *CoinSplitDTO {
	if s.Sum().IsZero() {
		return nil
	}
	return &CoinSplitDTO{
		R5:  s.R5.String(),
		R2:  s.R2.String(),
		R1:  s.R1.String(),
		C50: s.C50.String(),
	}
}

func toSupplierDTO(s supplier.Supplier) SupplierDTO {
	return SupplierDTO{
		ID:            s.ID,
		Name:          s.Name,
		ContactPerson: s.ContactPerson,
		Phone:         s.Phone,
		CreatedAt:     s.CreatedAt.Format(time.RFC3339),
	}
}

func toInvoiceDTO(inv supplier.Invoice) InvoiceDTO {
	dto := InvoiceDTO{
		ID:            inv.ID,
		SupplierID:    inv.SupplierID,
		SupplierName:  inv.SupplierName,
		InvoiceNumber: inv.InvoiceNumber,
		Amount:        inv.Amount.String(),
		InvoiceDate:   inv.InvoiceDate.Format("2006-01-02"),
		Notes:         inv.Notes,
	}
	if inv.DueDate != nil {
		dto.DueDate = inv.DueDate.Format("2006-01-02")
	}
	return dto
}

func toPaymentDTO(p supplier.Payment) PaymentDTO {
	return PaymentDTO{
		ID:            p.ID,
		SupplierID:    p.SupplierID,
		SupplierName:  p.SupplierName,
		Amount:        p.Amount.String(),
		PaymentMethod: p.PaymentMethod,
		Reference:     p.Reference,
		Notes:         p.Notes,
		PaymentDate:   p.PaymentDate.Format("2006-01-02"),
	}
}

func toOrderDTO(o orders.Order, items []orders.OrderItem) OrderDTO {
	dto := OrderDTO{
		ID:            o.ID,
		DriverID:      o.DriverID,
		VehicleID:     o.VehicleID,
		TotalQuantity: o.TotalQuantity.String(),
		CreatedAt:     o.CreatedAt.Format(time.RFC3339),
	}
	for _, it := range items {
		dto.Items = append(dto.Items, OrderItemDTO{
			ItemType:      string(it.ItemType),
			TrolliesOrQty: it.TrolliesOrQty.String(),
			Quantity:      it.Quantity.String(),
		})
	}
	return dto
}

func toVehicleDTO(v fleet.Vehicle, now time.Time) VehicleDTO {
	dto := VehicleDTO{
		ID:                v.ID,
		Name:              v.Name,
		Registration:      v.Registration,
		DiskNumber:        v.DiskNumber,
		DiskStatus:        string(v.DiskStatus(now)),
		CurrentKm:         v.CurrentKm,
		LastServiceKm:     v.LastServiceKm,
		ServiceIntervalKm: v.ServiceIntervalKm,
		NextServiceKm:     v.NextServiceKm(),
		KmUntilService:    v.KmUntilService(),
		ServiceStatus:     string(v.ServiceStatus()),
		CreatedAt:         v.CreatedAt.Format(time.RFC3339),
	}
	if v.LicenseDiskExpiry != nil {
		dto.LicenseDiskExpiry = v.LicenseDiskExpiry.Format("2006-01-02")
	}
	return dto
}

// =============================================================================
// REQUEST PARSING AND ERROR WRITING
// =============================================================================

func toLines(reqs []MovementLineRequest) ([]stock.Line, error) {
	lines := make([]stock.Line, 0, len(reqs))
	for _, l := range reqs {
		qty, err := parseDec(l.Quantity)
		if err != nil {
			return nil, err
		}
		lines = append(lines, stock.Line{ItemID: l.ItemID, Quantity: qty})
	}
	return lines, nil
}

func parseDec(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func parseSplit(dto *CoinSplitDTO) (*finance.CoinSplit, error) {
	if dto == nil {
		return nil, nil
	}
	r5, err := parseDec(dto.R5)
	if err != nil {
		return nil, err
	}
	r2, err := parseDec(dto.R2)
	if err != nil {
		return nil, err
	}
	r1, err := parseDec(dto.R1)
	if err != nil {
		return nil, err
	}
	c50, err := parseDec(dto.C50)
	if err != nil {
		return nil, err
	}
	return &finance.CoinSplit{R5: r5, R2: r2, R1: r1, C50: c50}, nil
}

// parseDate parses "2006-01-02", returning nil for an empty string.
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// writeDomainError maps ledger errors onto HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case ledger.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Not found", err)
	case errors.Is(err, ledger.ErrInsufficientStock):
		writeError(w, http.StatusConflict, "Insufficient stock", err)
	case ledger.IsClientError(err):
		writeError(w, http.StatusBadRequest, "Invalid input", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
