// README: Vehicle store backed by PostgreSQL.
package vehicle

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fleetops/internal/fleeterr"
	"fleetops/internal/types"
)

const vehicleColumns = `
	id, name, license_plate, vehicle_type, make, model, year,
	max_capacity_kg, odometer_km, status, acquisition_cost, acquired_at,
	region, notes, created_at, updated_at`

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, v *Vehicle) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO vehicles (
			id, name, license_plate, vehicle_type, make, model, year,
			max_capacity_kg, odometer_km, status, acquisition_cost,
			acquired_at, region, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		string(v.ID), v.Name, v.LicensePlate, string(v.VehicleType),
		v.Make, v.Model, v.Year,
		v.MaxCapacityKg, v.OdometerKm, string(v.Status),
		v.AcquisitionCost, v.AcquiredAt, v.Region, v.Notes,
	)
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Vehicle, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+vehicleColumns+` FROM vehicles WHERE id = $1`, string(id))
	return scanVehicle(row)
}

type ListFilter struct {
	Status *Status
	Region *string
	Offset int
	Limit  int
}

func (s *Store) List(ctx context.Context, f ListFilter) ([]*Vehicle, error) {
	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	var status, region *string
	if f.Status != nil {
		v := string(*f.Status)
		status = &v
	}
	region = f.Region
	rows, err := s.db.Query(ctx, `
		SELECT `+vehicleColumns+`
		FROM vehicles
		WHERE ($1::text IS NULL OR status = $1)
		  AND ($2::text IS NULL OR region = $2)
		ORDER BY created_at DESC
		OFFSET $3 LIMIT $4`,
		status, region, f.Offset, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanVehicles(rows)
}

func (s *Store) Available(ctx context.Context) ([]*Vehicle, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+vehicleColumns+` FROM vehicles WHERE status = $1 ORDER BY name`,
		string(StatusAvailable))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanVehicles(rows)
}

// Update applies a partial update. When the patch includes a status
// that differs from the stored one, a history row is appended in the
// same transaction. No transition legality check here: the management
// path accepts any status value.
func (s *Store) Update(ctx context.Context, id types.ID, cmd UpdateCommand) (*Vehicle, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var oldStatus string
	err = tx.QueryRow(ctx,
		`SELECT status FROM vehicles WHERE id = $1 FOR UPDATE`, string(id),
	).Scan(&oldStatus)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fleeterr.NotFound("vehicle")
	}
	if err != nil {
		return nil, err
	}

	var newStatus *string
	if cmd.Status != nil {
		v := string(*cmd.Status)
		newStatus = &v
	}
	row := tx.QueryRow(ctx, `
		UPDATE vehicles
		SET name            = COALESCE($2, name),
		    license_plate   = COALESCE($3, license_plate),
		    make            = COALESCE($4, make),
		    model           = COALESCE($5, model),
		    year            = COALESCE($6, year),
		    max_capacity_kg = COALESCE($7, max_capacity_kg),
		    odometer_km     = COALESCE($8, odometer_km),
		    status          = COALESCE($9, status),
		    region          = COALESCE($10, region),
		    notes           = COALESCE($11, notes),
		    updated_at      = now()
		WHERE id = $1
		RETURNING `+vehicleColumns,
		string(id),
		cmd.Name, cmd.LicensePlate, cmd.Make, cmd.Model, cmd.Year,
		cmd.MaxCapacityKg, cmd.OdometerKm, newStatus, cmd.Region, cmd.Notes,
	)
	v, err := scanVehicle(row)
	if err != nil {
		return nil, err
	}

	if cmd.Status != nil && string(*cmd.Status) != oldStatus {
		old := Status(oldStatus)
		if err := appendHistory(ctx, tx, &StatusHistoryEntry{
			ID:        types.NewID(),
			VehicleID: id,
			OldStatus: &old,
			NewStatus: *cmd.Status,
			Reason:    cmd.Reason,
			ChangedBy: cmd.ChangedBy,
			ChangedAt: time.Now(),
		}); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Store) History(ctx context.Context, vehicleID types.ID) ([]*StatusHistoryEntry, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, vehicle_id, old_status, new_status, reason, changed_by, changed_at
		FROM vehicle_status_history
		WHERE vehicle_id = $1
		ORDER BY changed_at DESC`, string(vehicleID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*StatusHistoryEntry
	for rows.Next() {
		var e StatusHistoryEntry
		var oldStatus, reason, changedBy *string
		if err := rows.Scan(&e.ID, &e.VehicleID, &oldStatus, &e.NewStatus,
			&reason, &changedBy, &e.ChangedAt); err != nil {
			return nil, err
		}
		if oldStatus != nil {
			v := Status(*oldStatus)
			e.OldStatus = &v
		}
		e.Reason = reason
		if changedBy != nil {
			v := types.ID(*changedBy)
			e.ChangedBy = &v
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

func appendHistory(ctx context.Context, tx pgx.Tx, e *StatusHistoryEntry) error {
	var oldStatus *string
	if e.OldStatus != nil {
		v := string(*e.OldStatus)
		oldStatus = &v
	}
	var changedBy *string
	if e.ChangedBy != nil {
		v := string(*e.ChangedBy)
		changedBy = &v
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO vehicle_status_history (
			id, vehicle_id, old_status, new_status, reason, changed_by, changed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		string(e.ID), string(e.VehicleID), oldStatus, string(e.NewStatus),
		e.Reason, changedBy, e.ChangedAt,
	)
	return err
}

func scanVehicle(row pgx.Row) (*Vehicle, error) {
	var v Vehicle
	err := row.Scan(
		&v.ID, &v.Name, &v.LicensePlate, &v.VehicleType, &v.Make, &v.Model,
		&v.Year, &v.MaxCapacityKg, &v.OdometerKm, &v.Status,
		&v.AcquisitionCost, &v.AcquiredAt, &v.Region, &v.Notes,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fleeterr.NotFound("vehicle")
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func scanVehicles(rows pgx.Rows) ([]*Vehicle, error) {
	var out []*Vehicle
	for rows.Next() {
		var v Vehicle
		if err := rows.Scan(
			&v.ID, &v.Name, &v.LicensePlate, &v.VehicleType, &v.Make, &v.Model,
			&v.Year, &v.MaxCapacityKg, &v.OdometerKm, &v.Status,
			&v.AcquisitionCost, &v.AcquiredAt, &v.Region, &v.Notes,
			&v.CreatedAt, &v.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	return out, rows.Err()
}
