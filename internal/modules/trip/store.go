// README: Trip store backed by PostgreSQL. Transition runs the whole
// reserve/release unit of work in one transaction with row locks.
package trip

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fleetops/internal/fleeterr"
	"fleetops/internal/modules/driver"
	"fleetops/internal/modules/vehicle"
	"fleetops/internal/types"
)

const tripColumns = `
	id, vehicle_id, driver_id, created_by, origin, destination,
	cargo_description, cargo_weight_kg, status, scheduled_at,
	dispatched_at, completed_at, cancelled_at, cancel_reason,
	odometer_start, odometer_end, distance_km, notes, created_at, updated_at`

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, t *Trip) error {
	var createdBy *string
	if t.CreatedBy != nil {
		v := string(*t.CreatedBy)
		createdBy = &v
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO trips (
			id, vehicle_id, driver_id, created_by, origin, destination,
			cargo_description, cargo_weight_kg, status, scheduled_at,
			odometer_start, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		string(t.ID), string(t.VehicleID), string(t.DriverID), createdBy,
		t.Origin, t.Destination, t.CargoDescription, t.CargoWeightKg,
		string(t.Status), t.ScheduledAt, t.OdometerStart, t.Notes,
	)
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Trip, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+tripColumns+` FROM trips WHERE id = $1`, string(id))
	t, err := scanTrip(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fleeterr.NotFound("trip")
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

type ListFilter struct {
	Status    *Status
	VehicleID *types.ID
	DriverID  *types.ID
	Offset    int
	Limit     int
}

func (s *Store) List(ctx context.Context, f ListFilter) ([]*Trip, error) {
	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	var status, vehicleID, driverID *string
	if f.Status != nil {
		v := string(*f.Status)
		status = &v
	}
	if f.VehicleID != nil {
		v := string(*f.VehicleID)
		vehicleID = &v
	}
	if f.DriverID != nil {
		v := string(*f.DriverID)
		driverID = &v
	}
	rows, err := s.db.Query(ctx, `
		SELECT `+tripColumns+`
		FROM trips
		WHERE ($1::text IS NULL OR status = $1)
		  AND ($2::uuid IS NULL OR vehicle_id = $2)
		  AND ($3::uuid IS NULL OR driver_id = $3)
		ORDER BY created_at DESC
		OFFSET $4 LIMIT $5`,
		status, vehicleID, driverID, f.Offset, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// TransitionCommand describes one requested status change and its
// transition-specific fields.
type TransitionCommand struct {
	TripID       types.ID
	Target       Status
	ActorID      *types.ID
	OdometerEnd  *float64
	CancelReason *string
	Notes        *string
}

// Transition applies one state-machine edge atomically: the trip row
// is locked first, the edge checked against the transition table, the
// vehicle/driver reservation flips applied with their own row locks
// and a status re-check, and exactly one trip history row appended.
// Everything commits or nothing does.
//
// Lock order is always trip, vehicle, driver so that two concurrent
// transitions cannot deadlock.
func (s *Store) Transition(ctx context.Context, cmd TransitionCommand) (*Trip, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx,
		`SELECT `+tripColumns+` FROM trips WHERE id = $1 FOR UPDATE`, string(cmd.TripID))
	t, err := scanTrip(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fleeterr.NotFound("trip")
	}
	if err != nil {
		return nil, err
	}

	from := t.Status
	if !CanTransition(from, cmd.Target) {
		return nil, fleeterr.InvalidTransition(string(from), string(cmd.Target))
	}

	now := time.Now()
	switch cmd.Target {
	case StatusDispatched:
		if err := reserveVehicle(ctx, tx, t.VehicleID); err != nil {
			return nil, err
		}
		if err := reserveDriver(ctx, tx, t.DriverID); err != nil {
			return nil, err
		}
		_, err = tx.Exec(ctx, `
			UPDATE trips SET status = $2, dispatched_at = $3, updated_at = now()
			WHERE id = $1`,
			string(t.ID), string(StatusDispatched), now)
	case StatusCompleted:
		if err := releaseVehicle(ctx, tx, t.VehicleID); err != nil {
			return nil, err
		}
		if err := releaseDriver(ctx, tx, t.DriverID, true); err != nil {
			return nil, err
		}
		_, err = tx.Exec(ctx, `
			UPDATE trips
			SET status = $2, completed_at = $3,
			    odometer_end = COALESCE($4, odometer_end),
			    updated_at = now()
			WHERE id = $1`,
			string(t.ID), string(StatusCompleted), now, cmd.OdometerEnd)
	case StatusCancelled:
		// Resources are reserved only while dispatched; a cancelled
		// draft never touched them.
		if from == StatusDispatched {
			if err := releaseVehicle(ctx, tx, t.VehicleID); err != nil {
				return nil, err
			}
			if err := releaseDriver(ctx, tx, t.DriverID, false); err != nil {
				return nil, err
			}
		}
		_, err = tx.Exec(ctx, `
			UPDATE trips SET status = $2, cancelled_at = $3, cancel_reason = $4, updated_at = now()
			WHERE id = $1`,
			string(t.ID), string(StatusCancelled), now, cmd.CancelReason)
	default:
		return nil, fleeterr.InvalidTransition(string(from), string(cmd.Target))
	}
	if err != nil {
		return nil, err
	}

	var changedBy *string
	if cmd.ActorID != nil {
		v := string(*cmd.ActorID)
		changedBy = &v
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO trip_status_history (
			id, trip_id, old_status, new_status, notes, changed_by, changed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		string(types.NewID()), string(t.ID), string(from), string(cmd.Target),
		cmd.Notes, changedBy, now,
	)
	if err != nil {
		return nil, err
	}

	row = tx.QueryRow(ctx,
		`SELECT `+tripColumns+` FROM trips WHERE id = $1`, string(t.ID))
	updated, err := scanTrip(row)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Store) History(ctx context.Context, tripID types.ID) ([]*StatusHistoryEntry, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, trip_id, old_status, new_status, notes, changed_by, changed_at
		FROM trip_status_history
		WHERE trip_id = $1
		ORDER BY changed_at DESC`, string(tripID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*StatusHistoryEntry
	for rows.Next() {
		var e StatusHistoryEntry
		var oldStatus, notes, changedBy *string
		if err := rows.Scan(&e.ID, &e.TripID, &oldStatus, &e.NewStatus,
			&notes, &changedBy, &e.ChangedAt); err != nil {
			return nil, err
		}
		if oldStatus != nil {
			v := Status(*oldStatus)
			e.OldStatus = &v
		}
		e.Notes = notes
		if changedBy != nil {
			v := types.ID(*changedBy)
			e.ChangedBy = &v
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

// reserveVehicle flips an available vehicle to on_trip. The row lock
// plus the status re-check is what prevents a double dispatch: two
// transactions can both read 'available' before either commits, but
// only the first to acquire the lock sees it here.
func reserveVehicle(ctx context.Context, tx pgx.Tx, id types.ID) error {
	var status string
	err := tx.QueryRow(ctx,
		`SELECT status FROM vehicles WHERE id = $1 FOR UPDATE`, string(id),
	).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return fleeterr.NotFound("vehicle")
	}
	if err != nil {
		return err
	}
	if status != string(vehicle.StatusAvailable) {
		return fleeterr.Conflict(fleeterr.ReasonVehicleNotAvailable,
			"vehicle is '%s', not available for dispatch", status)
	}
	_, err = tx.Exec(ctx,
		`UPDATE vehicles SET status = $2, updated_at = now() WHERE id = $1`,
		string(id), string(vehicle.StatusOnTrip))
	return err
}

func reserveDriver(ctx context.Context, tx pgx.Tx, id types.ID) error {
	var status string
	err := tx.QueryRow(ctx,
		`SELECT status FROM drivers WHERE id = $1 FOR UPDATE`, string(id),
	).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return fleeterr.NotFound("driver")
	}
	if err != nil {
		return err
	}
	if status != string(driver.StatusAvailable) {
		return fleeterr.Conflict(fleeterr.ReasonDriverNotAvailable,
			"driver is '%s', not available", status)
	}
	_, err = tx.Exec(ctx, `
		UPDATE drivers
		SET status = $2, trips_total = trips_total + 1, updated_at = now()
		WHERE id = $1`,
		string(id), string(driver.StatusOnTrip))
	return err
}

func releaseVehicle(ctx context.Context, tx pgx.Tx, id types.ID) error {
	_, err := tx.Exec(ctx,
		`UPDATE vehicles SET status = $2, updated_at = now() WHERE id = $1`,
		string(id), string(vehicle.StatusAvailable))
	return err
}

func releaseDriver(ctx context.Context, tx pgx.Tx, id types.ID, completed bool) error {
	completedInc := 0
	if completed {
		completedInc = 1
	}
	_, err := tx.Exec(ctx, `
		UPDATE drivers
		SET status = $2, trips_completed = trips_completed + $3, updated_at = now()
		WHERE id = $1`,
		string(id), string(driver.StatusAvailable), completedInc)
	return err
}

func scanTrip(row pgx.Row) (*Trip, error) {
	var t Trip
	var createdBy, cancelReason, cargoDescription, notes *string
	err := row.Scan(
		&t.ID, &t.VehicleID, &t.DriverID, &createdBy, &t.Origin, &t.Destination,
		&cargoDescription, &t.CargoWeightKg, &t.Status, &t.ScheduledAt,
		&t.DispatchedAt, &t.CompletedAt, &t.CancelledAt, &cancelReason,
		&t.OdometerStart, &t.OdometerEnd, &t.DistanceKm, &notes,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if createdBy != nil {
		v := types.ID(*createdBy)
		t.CreatedBy = &v
	}
	t.CargoDescription = cargoDescription
	t.CancelReason = cancelReason
	t.Notes = notes
	return &t, nil
}
