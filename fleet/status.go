/*
Package fleet tracks vehicles: license disk expiry and service intervals.

PURPOSE:
  Vehicles carry a license disk with an expiry date and an odometer with a
  service schedule. Both statuses are stateless classifications computed from
  the record at read time; nothing here is a stored state machine.

EXPIRY SEVERITY:
  One unambiguous day-threshold table:
    expired   days < 0
    critical  0-30 days
    warning   31-60 days
    caution   61-90 days
    valid     > 90 days
    noData    no expiry date recorded

NOTIFICATIONS:
  The engine only exposes {entity, name, expiry date} tuples, covering both
  vehicle license disks and employee driver's licenses; scheduling and
  delivering reminders is the notification collaborator's job.
*/
package fleet

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aone/bakery-ledger/ledger"
)

// =============================================================================
// EXPIRY CLASSIFICATION
// =============================================================================

type DiskStatus string

const (
	StatusExpired  DiskStatus = "expired"
	StatusCritical DiskStatus = "critical"
	StatusWarning  DiskStatus = "warning"
	StatusCaution  DiskStatus = "caution"
	StatusValid    DiskStatus = "valid"
	StatusNoData   DiskStatus = "noData"
)

// DaysUntil counts whole days from now to expiry at day granularity.
// Negative means already expired.
func DaysUntil(expiry, now time.Time) int {
	eu, nu := expiry.UTC(), now.UTC()
	e := time.Date(eu.Year(), eu.Month(), eu.Day(), 0, 0, 0, 0, time.UTC)
	n := time.Date(nu.Year(), nu.Month(), nu.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(n).Hours() / 24)
}

// ClassifyExpiry applies the severity table to an optional expiry date.
func ClassifyExpiry(expiry *time.Time, now time.Time) DiskStatus {
	if expiry == nil {
		return StatusNoData
	}
	days := DaysUntil(*expiry, now)
	switch {
	case days < 0:
		return StatusExpired
	case days <= 30:
		return StatusCritical
	case days <= 60:
		return StatusWarning
	case days <= 90:
		return StatusCaution
	default:
		return StatusValid
	}
}

// =============================================================================
// SERVICE SCHEDULE
// =============================================================================

type ServiceStatus string

const (
	ServiceOK      ServiceStatus = "ok"
	ServiceDueSoon ServiceStatus = "dueSoon"
	ServiceOverdue ServiceStatus = "overdue"
)

// serviceSoonKm is how close to the next service "due soon" starts.
const serviceSoonKm = 1000

// ClassifyService compares the odometer against the next service point.
func ClassifyService(currentKm, lastServiceKm, intervalKm int64) ServiceStatus {
	next := lastServiceKm + intervalKm
	switch {
	case currentKm >= next:
		return ServiceOverdue
	case next-currentKm <= serviceSoonKm:
		return ServiceDueSoon
	default:
		return ServiceOK
	}
}

// =============================================================================
// VEHICLE
// =============================================================================

const DefaultServiceIntervalKm = 10000

type Vehicle struct {
	ID                string
	Name              string
	Registration      string
	LicenseDiskExpiry *time.Time
	DiskNumber        string
	CurrentKm         int64
	LastServiceKm     int64
	ServiceIntervalKm int64
	CreatedAt         time.Time
}

func (v Vehicle) DiskStatus(now time.Time) DiskStatus {
	return ClassifyExpiry(v.LicenseDiskExpiry, now)
}

func (v Vehicle) NextServiceKm() int64 { return v.LastServiceKm + v.ServiceIntervalKm }

func (v Vehicle) KmUntilService() int64 { return v.NextServiceKm() - v.CurrentKm }

func (v Vehicle) ServiceStatus() ServiceStatus {
	return ClassifyService(v.CurrentKm, v.LastServiceKm, v.ServiceIntervalKm)
}

// ExpiryRecord is the tuple the notification collaborator reads. Vehicles
// contribute their license disk expiry, employees their driver's license.
type ExpiryRecord struct {
	EntityID   string
	EntityType string
	EntityName string
	ExpiryDate time.Time
}

const (
	EntityVehicle  = "vehicle"
	EntityEmployee = "employee"
)

// LicenseHolder is an employee as the expiry feed sees them: identity plus a
// recorded driver's license expiry date.
type LicenseHolder struct {
	ID     string
	Name   string
	Expiry time.Time
}

// =============================================================================
// REGISTRY
// =============================================================================

type Store interface {
	CreateVehicle(ctx context.Context, v Vehicle) error
	GetVehicle(ctx context.Context, id string) (*Vehicle, error)
	ListVehicles(ctx context.Context) ([]Vehicle, error)
	UpdateVehicle(ctx context.Context, v Vehicle) error
	DeleteVehicle(ctx context.Context, id string) error

	// ListLicenseHolders returns employees with a recorded driver's license
	// expiry, for the expiry feed.
	ListLicenseHolders(ctx context.Context) ([]LicenseHolder, error)
}

type Registry struct {
	store Store
	now   func() time.Time
}

func NewRegistry(store Store) *Registry {
	return &Registry{store: store, now: ledger.Now}
}

func (r *Registry) Create(ctx context.Context, name, registration string, expiry *time.Time, diskNumber string, currentKm, lastServiceKm, intervalKm int64) (*Vehicle, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(registration) == "" {
		return nil, ledger.ErrMissingField
	}
	if intervalKm <= 0 {
		intervalKm = DefaultServiceIntervalKm
	}
	v := Vehicle{
		ID:                uuid.NewString(),
		Name:              strings.TrimSpace(name),
		Registration:      strings.TrimSpace(registration),
		LicenseDiskExpiry: expiry,
		DiskNumber:        diskNumber,
		CurrentKm:         currentKm,
		LastServiceKm:     lastServiceKm,
		ServiceIntervalKm: intervalKm,
		CreatedAt:         r.now(),
	}
	if err := r.store.CreateVehicle(ctx, v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *Registry) Vehicle(ctx context.Context, id string) (*Vehicle, error) {
	v, err := r.store.GetVehicle(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, ledger.ErrNotFound
	}
	return v, nil
}

func (r *Registry) Vehicles(ctx context.Context) ([]Vehicle, error) {
	return r.store.ListVehicles(ctx)
}

func (r *Registry) Update(ctx context.Context, v Vehicle) error {
	if strings.TrimSpace(v.Name) == "" || strings.TrimSpace(v.Registration) == "" {
		return ledger.ErrMissingField
	}
	if _, err := r.Vehicle(ctx, v.ID); err != nil {
		return err
	}
	return r.store.UpdateVehicle(ctx, v)
}

// RecordService moves the service anchor to the current odometer reading.
func (r *Registry) RecordService(ctx context.Context, id string, atKm int64) (*Vehicle, error) {
	v, err := r.Vehicle(ctx, id)
	if err != nil {
		return nil, err
	}
	if atKm < v.CurrentKm {
		return nil, ledger.ErrInvalidQuantity
	}
	v.CurrentKm = atKm
	v.LastServiceKm = atKm
	if err := r.store.UpdateVehicle(ctx, *v); err != nil {
		return nil, err
	}
	return v, nil
}

// UpdateOdometer records a new odometer reading. Readings never go backward.
func (r *Registry) UpdateOdometer(ctx context.Context, id string, km int64) (*Vehicle, error) {
	v, err := r.Vehicle(ctx, id)
	if err != nil {
		return nil, err
	}
	if km < v.CurrentKm {
		return nil, ledger.ErrInvalidQuantity
	}
	v.CurrentKm = km
	if err := r.store.UpdateVehicle(ctx, *v); err != nil {
		return nil, err
	}
	return v, nil
}

func (r *Registry) Delete(ctx context.Context, id string) error {
	if _, err := r.Vehicle(ctx, id); err != nil {
		return err
	}
	return r.store.DeleteVehicle(ctx, id)
}

// ExpiryFeed lists every entity with a recorded expiry date, vehicles and
// employee license holders alike, for the notification collaborator.
func (r *Registry) ExpiryFeed(ctx context.Context) ([]ExpiryRecord, error) {
	vehicles, err := r.store.ListVehicles(ctx)
	if err != nil {
		return nil, err
	}
	holders, err := r.store.ListLicenseHolders(ctx)
	if err != nil {
		return nil, err
	}

	var out []ExpiryRecord
	for _, v := range vehicles {
		if v.LicenseDiskExpiry == nil {
			continue
		}
		out = append(out, ExpiryRecord{
			EntityID:   v.ID,
			EntityType: EntityVehicle,
			EntityName: v.Name,
			ExpiryDate: *v.LicenseDiskExpiry,
		})
	}
	for _, h := range holders {
		out = append(out, ExpiryRecord{
			EntityID:   h.ID,
			EntityType: EntityEmployee,
			EntityName: h.Name,
			ExpiryDate: h.Expiry,
		})
	}
	return out, nil
}
