/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/stock/*          Stock ledger and movement log
  /api/employees/*      Employee directory and credit ledger
  /api/credit/*         Credit transaction edit/delete
  /api/finance/*        Income, expenses, cash breakdown
  /api/suppliers/*      Supplier account ledger
  /api/orders/*         Delivery orders
  /api/vehicles/*       Fleet registry
  /api/reports/*        Date-range reports over every log
  /api/scenarios/*      Demo scenarios
  /api/reset            Database reset (dev only)

SECURITY NOTE:
  No authentication middleware. Single-operator deployment on a trusted
  machine; all endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		// Stock routes
		r.Route("/stock", func(r chi.Router) {
			r.Get("/", h.ListStockItems)
			r.Post("/", h.CreateStockItem)
			r.Get("/movements", h.ListMovements)
			r.Post("/receive", h.Receive)
			r.Post("/allocate", h.Allocate)
			r.Get("/{id}", h.GetStockItem)
			r.Delete("/{id}", h.DeleteStockItem)
		})

		// Employee and credit routes
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)
			r.Get("/{id}", h.GetEmployee)
			r.Put("/{id}", h.UpdateEmployee)
			r.Delete("/{id}", h.DeleteEmployee)
			r.Get("/{id}/balance", h.GetCreditBalance)
			r.Get("/{id}/credit", h.GetCreditTransactions)
			r.Post("/{id}/credit", h.RecordCredit)
		})

		r.Route("/credit", func(r chi.Router) {
			r.Put("/{id}", h.EditCredit)
			r.Delete("/{id}", h.DeleteCredit)
		})

		// Finance routes
		r.Route("/finance", func(r chi.Router) {
			r.Get("/income", h.ListIncome)
			r.Post("/income", h.RecordIncome)
			r.Delete("/income/{id}", h.DeleteIncome)
			r.Get("/expenses", h.ListExpenses)
			r.Post("/expenses", h.RecordExpense)
			r.Delete("/expenses/{id}", h.DeleteExpense)
			r.Get("/summary", h.GetFinanceSummary)
			r.Get("/breakdown", h.GetCashBreakdown)
		})

		// Supplier routes
		r.Route("/suppliers", func(r chi.Router) {
			r.Get("/", h.ListSuppliers)
			r.Post("/", h.CreateSupplier)
			r.Get("/totals", h.GetSupplierTotals)
			r.Get("/{id}", h.GetSupplier)
			r.Delete("/{id}", h.DeleteSupplier)
			r.Get("/{id}/invoices", h.ListInvoices)
			r.Post("/{id}/invoices", h.RecordInvoice)
			r.Get("/{id}/payments", h.ListPayments)
			r.Post("/{id}/payments", h.RecordPayment)
		})

		// Order routes
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.ListOrders)
			r.Post("/", h.CreateOrder)
			r.Get("/item-types", h.ListItemTypes)
			r.Get("/{id}", h.GetOrder)
			r.Delete("/{id}", h.DeleteOrder)
		})

		// Fleet routes
		r.Route("/vehicles", func(r chi.Router) {
			r.Get("/", h.ListVehicles)
			r.Post("/", h.CreateVehicle)
			r.Get("/expiries", h.ListExpiries)
			r.Get("/{id}", h.GetVehicle)
			r.Delete("/{id}", h.DeleteVehicle)
			r.Post("/{id}/odometer", h.UpdateOdometer)
			r.Post("/{id}/service", h.RecordService)
		})

		// Report routes
		r.Get("/reports/{log}", h.GetReport)

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
			r.Post("/reset", h.ResetDatabase)
		})
	})

	return r
}

// NewServer wraps the router in an http.Server listening on addr.
func NewServer(addr string, h *Handler) *http.Server {
	return &http.Server{
		Addr:    addr,
		Handler: NewRouter(h),
	}
}
