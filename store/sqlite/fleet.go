/*
fleet.go - Vehicle persistence

Odometer readings are whole kilometres, so the km columns are INTEGER rather
than decimal text. Disk status is never stored; the fleet package classifies
it at read time.
*/
package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aone/bakery-ledger/fleet"
	"github.com/aone/bakery-ledger/ledger"
)

// =============================================================================
// VEHICLES (fleet.Store interface)
// =============================================================================

func (s *Store) CreateVehicle(ctx context.Context, v fleet.Vehicle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO vehicles
		(id, name, registration, license_disk_expiry, disk_number,
		 current_km, last_service_km, service_interval_km, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.Name, v.Registration,
		nullTime(v.LicenseDiskExpiry), nullString(v.DiskNumber),
		v.CurrentKm, v.LastServiceKm, v.ServiceIntervalKm,
		v.CreatedAt.UTC().Format(time.RFC3339),
	)
	return ledger.Storage("create vehicle", err)
}

func (s *Store) GetVehicle(ctx context.Context, id string) (*fleet.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		v            fleet.Vehicle
		expiry, disk sql.NullString
		createdAt    string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, registration, license_disk_expiry, disk_number,
		       current_km, last_service_km, service_interval_km, created_at
		FROM vehicles WHERE id = ?`,
		id,
	).Scan(&v.ID, &v.Name, &v.Registration, &expiry, &disk,
		&v.CurrentKm, &v.LastServiceKm, &v.ServiceIntervalKm, &createdAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, ledger.Storage("get vehicle", err)
	}

	v.LicenseDiskExpiry = parseNullTime(expiry)
	v.DiskNumber = disk.String
	v.CreatedAt = parseTime(createdAt)
	return &v, nil
}

func (s *Store) ListVehicles(ctx context.Context) ([]fleet.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, registration, license_disk_expiry, disk_number,
		       current_km, last_service_km, service_interval_km, created_at
		FROM vehicles ORDER BY name`)
	if err != nil {
		return nil, ledger.Storage("list vehicles", err)
	}
	defer rows.Close()

	var vehicles []fleet.Vehicle
	for rows.Next() {
		var (
			v            fleet.Vehicle
			expiry, disk sql.NullString
			createdAt    string
		)
		if err := rows.Scan(&v.ID, &v.Name, &v.Registration, &expiry, &disk,
			&v.CurrentKm, &v.LastServiceKm, &v.ServiceIntervalKm, &createdAt); err != nil {
			return nil, ledger.Storage("scan vehicle", err)
		}
		v.LicenseDiskExpiry = parseNullTime(expiry)
		v.DiskNumber = disk.String
		v.CreatedAt = parseTime(createdAt)
		vehicles = append(vehicles, v)
	}
	return vehicles, ledger.Storage("list vehicles", rows.Err())
}

func (s *Store) UpdateVehicle(ctx context.Context, v fleet.Vehicle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE vehicles SET name = ?, registration = ?, license_disk_expiry = ?,
		       disk_number = ?, current_km = ?, last_service_km = ?, service_interval_km = ?
		WHERE id = ?`,
		v.Name, v.Registration, nullTime(v.LicenseDiskExpiry), nullString(v.DiskNumber),
		v.CurrentKm, v.LastServiceKm, v.ServiceIntervalKm, v.ID,
	)
	if err != nil {
		return ledger.Storage("update vehicle", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ledger.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteVehicle(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM vehicles WHERE id = ?", id)
	return ledger.Storage("delete vehicle", err)
}

// ListLicenseHolders returns employees whose driver's license expiry is
// recorded, for the expiry feed.
func (s *Store) ListLicenseHolders(ctx context.Context) ([]fleet.LicenseHolder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, license_expiry FROM employees WHERE license_expiry IS NOT NULL ORDER BY name")
	if err != nil {
		return nil, ledger.Storage("list license holders", err)
	}
	defer rows.Close()

	var holders []fleet.LicenseHolder
	for rows.Next() {
		var (
			h      fleet.LicenseHolder
			expiry string
		)
		if err := rows.Scan(&h.ID, &h.Name, &expiry); err != nil {
			return nil, ledger.Storage("scan license holder", err)
		}
		h.Expiry = parseTime(expiry)
		holders = append(holders, h)
	}
	return holders, ledger.Storage("list license holders", rows.Err())
}
