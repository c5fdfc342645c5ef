/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

AMOUNTS:
  Money and quantities travel as decimal strings ("123.45"), matching how
  they are stored. Handlers parse them with shopspring/decimal; a string
  that does not parse is a 400.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

// =============================================================================
// COMMON
// =============================================================================

// ErrorResponse is the JSON body of every non-2xx reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// STOCK
// =============================================================================

type StockItemDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Unit      string `json:"unit,omitempty"`
	OnHand    string `json:"on_hand"`
	CreatedAt string `json:"created_at,omitempty"`
}

type CreateStockItemRequest struct {
	Name string `json:"name"`
	Unit string `json:"unit"`
}

type MovementDTO struct {
	ID           string `json:"id"`
	ItemID       string `json:"item_id"`
	ItemName     string `json:"item_name"`
	Type         string `json:"type"`
	Quantity     string `json:"quantity"`
	EmployeeName string `json:"employee_name,omitempty"`
	SupplierName string `json:"supplier_name,omitempty"`
	Notes        string `json:"notes,omitempty"`
	CreatedAt    string `json:"created_at"`
}

// MovementLineRequest is one line of a receive or allocate batch.
type MovementLineRequest struct {
	ItemID   string `json:"item_id"`
	Quantity string `json:"quantity"`
}

type ReceiveRequest struct {
	SupplierName string                `json:"supplier_name"`
	Notes        string                `json:"notes"`
	Lines        []MovementLineRequest `json:"lines"`
}

type AllocateRequest struct {
	EmployeeName string                `json:"employee_name"`
	Notes        string                `json:"notes"`
	Lines        []MovementLineRequest `json:"lines"`
}

// =============================================================================
// EMPLOYEES AND CREDIT
// =============================================================================

type EmployeeDTO struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Phone         string `json:"phone,omitempty"`
	LicenseExpiry string `json:"license_expiry,omitempty"`
	LicenseStatus string `json:"license_status"`
	PhotoPath     string `json:"photo_path,omitempty"`
	CreatedAt     string `json:"created_at,omitempty"`
}

type CreateEmployeeRequest struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	LicenseExpiry string `json:"license_expiry"` // "2006-01-02", optional
	PhotoPath     string `json:"photo_path"`
}

type CreditTransactionDTO struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	Type         string `json:"type"`
	Amount       string `json:"amount"`
	Reason       string `json:"reason"`
	CreatedAt    string `json:"created_at"`
}

type RecordCreditRequest struct {
	Type   string `json:"type"` // BORROW or REPAY
	Amount string `json:"amount"`
	Reason string `json:"reason"`
}

type EditCreditRequest struct {
	Amount string `json:"amount"`
	Reason string `json:"reason"`
	Date   string `json:"date"` // "2006-01-02", empty keeps the current date
}

type CreditBalanceDTO struct {
	EmployeeID string `json:"employee_id"`
	Balance    string `json:"balance"`
}

// =============================================================================
// FINANCE
// =============================================================================

// CoinSplitDTO carries rand values per denomination, not coin counts.
type CoinSplitDTO struct {
	R5  string `json:"r5"`
	R2  string `json:"r2"`
	R1  string `json:"r1"`
	C50 string `json:"c50"`
}

type IncomeDTO struct {
	ID          string        `json:"id"`
	Notes       string        `json:"notes"`
	Coins       string        `json:"coins"`
	Split       *CoinSplitDTO `json:"split,omitempty"`
	Total       string        `json:"total"`
	Description string        `json:"description,omitempty"`
	CreatedAt   string        `json:"created_at"`
}

type RecordIncomeRequest struct {
	Notes       string        `json:"notes"`
	Coins       string        `json:"coins"`
	Split       *CoinSplitDTO `json:"split,omitempty"`
	Description string        `json:"description"`
}

type ExpenseDTO struct {
	ID          string        `json:"id"`
	Amount      string        `json:"amount"`
	Split       *CoinSplitDTO `json:"split,omitempty"`
	Description string        `json:"description"`
	CreatedAt   string        `json:"created_at"`
}

type RecordExpenseRequest struct {
	Amount      string        `json:"amount"`
	Split       *CoinSplitDTO `json:"split,omitempty"`
	Description string        `json:"description"`
}

type FinanceSummaryDTO struct {
	TotalIncome   string `json:"total_income"`
	TotalExpenses string `json:"total_expenses"`
	MoneyOnHand   string `json:"money_on_hand"`
}

type BreakdownDTO struct {
	Notes string `json:"notes"`
	R5    string `json:"r5"`
	R2    string `json:"r2"`
	R1    string `json:"r1"`
	C50   string `json:"c50"`
	Total string `json:"total"`
}

// =============================================================================
// SUPPLIERS
// =============================================================================

type SupplierDTO struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ContactPerson string `json:"contact_person,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Balance       string `json:"balance,omitempty"`
	CreatedAt     string `json:"created_at,omitempty"`
}

type CreateSupplierRequest struct {
	Name          string `json:"name"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
}

type InvoiceDTO struct {
	ID            string `json:"id"`
	SupplierID    string `json:"supplier_id"`
	SupplierName  string `json:"supplier_name"`
	InvoiceNumber string `json:"invoice_number"`
	Amount        string `json:"amount"`
	InvoiceDate   string `json:"invoice_date"`
	DueDate       string `json:"due_date,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

type RecordInvoiceRequest struct {
	InvoiceNumber string `json:"invoice_number"`
	Amount        string `json:"amount"`
	InvoiceDate   string `json:"invoice_date"` // "2006-01-02", empty means today
	DueDate       string `json:"due_date"`
	Notes         string `json:"notes"`
}

type PaymentDTO struct {
	ID            string `json:"id"`
	SupplierID    string `json:"supplier_id"`
	SupplierName  string `json:"supplier_name"`
	Amount        string `json:"amount"`
	PaymentMethod string `json:"payment_method"`
	Reference     string `json:"reference,omitempty"`
	Notes         string `json:"notes,omitempty"`
	PaymentDate   string `json:"payment_date"`
}

type RecordPaymentRequest struct {
	Amount        string `json:"amount"`
	PaymentMethod string `json:"payment_method"`
	Reference     string `json:"reference"`
	Notes         string `json:"notes"`
	PaymentDate   string `json:"payment_date"` // "2006-01-02", empty means today
}

type SupplierTotalsDTO struct {
	Invoiced    string `json:"invoiced"`
	Paid        string `json:"paid"`
	Outstanding string `json:"outstanding"`
}

// =============================================================================
// ORDERS
// =============================================================================

type OrderDTO struct {
	ID            string         `json:"id"`
	DriverID      string         `json:"driver_id,omitempty"`
	VehicleID     string         `json:"vehicle_id,omitempty"`
	TotalQuantity string         `json:"total_quantity"`
	Items         []OrderItemDTO `json:"items,omitempty"`
	CreatedAt     string         `json:"created_at"`
}

type OrderItemDTO struct {
	ItemType      string `json:"item_type"`
	TrolliesOrQty string `json:"trollies_or_qty"`
	Quantity      string `json:"quantity"`
}

type OrderLineRequest struct {
	ItemType      string `json:"item_type"`
	TrolliesOrQty string `json:"trollies_or_qty"`
}

type CreateOrderRequest struct {
	DriverID  string             `json:"driver_id"`
	VehicleID string             `json:"vehicle_id"`
	Lines     []OrderLineRequest `json:"lines"`
}

// =============================================================================
// FLEET
// =============================================================================

type VehicleDTO struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Registration      string `json:"registration"`
	LicenseDiskExpiry string `json:"license_disk_expiry,omitempty"`
	DiskNumber        string `json:"disk_number,omitempty"`
	DiskStatus        string `json:"disk_status"`
	CurrentKm         int64  `json:"current_km"`
	LastServiceKm     int64  `json:"last_service_km"`
	ServiceIntervalKm int64  `json:"service_interval_km"`
	NextServiceKm     int64  `json:"next_service_km"`
	KmUntilService    int64  `json:"km_until_service"`
	ServiceStatus     string `json:"service_status"`
	CreatedAt         string `json:"created_at,omitempty"`
}

type CreateVehicleRequest struct {
	Name              string `json:"name"`
	Registration      string `json:"registration"`
	LicenseDiskExpiry string `json:"license_disk_expiry"` // "2006-01-02", optional
	DiskNumber        string `json:"disk_number"`
	CurrentKm         int64  `json:"current_km"`
	LastServiceKm     int64  `json:"last_service_km"`
	ServiceIntervalKm int64  `json:"service_interval_km"`
}

type UpdateOdometerRequest struct {
	CurrentKm int64 `json:"current_km"`
}

type RecordServiceRequest struct {
	AtKm int64 `json:"at_km"`
}

// =============================================================================
// SCENARIOS
// =============================================================================

type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}
