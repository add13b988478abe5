// README: Maintenance store backed by PostgreSQL. Opening and closing
// a log flips the vehicle between in_shop and available in the same
// transaction.
package maintenance

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fleetops/internal/fleeterr"
	"fleetops/internal/modules/vehicle"
	"fleetops/internal/types"
)

const logColumns = `
	id, vehicle_id, performed_by, service_type, description, cost,
	start_date, end_date, vendor_name, odometer_at_service, is_active,
	created_at, updated_at`

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Open inserts an active log and puts the vehicle in the shop.
func (s *Store) Open(ctx context.Context, l *Log) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var performedBy *string
	if l.PerformedBy != nil {
		v := string(*l.PerformedBy)
		performedBy = &v
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO maintenance_logs (
			id, vehicle_id, performed_by, service_type, description, cost,
			start_date, end_date, vendor_name, odometer_at_service, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		string(l.ID), string(l.VehicleID), performedBy, l.ServiceType,
		l.Description, l.Cost, l.StartDate, l.EndDate, l.VendorName,
		l.OdometerAtService, l.IsActive,
	)
	if err != nil {
		return err
	}

	if l.IsActive {
		if err := setVehicleStatus(ctx, tx, l.VehicleID, vehicle.StatusInShop,
			"maintenance opened", l.PerformedBy); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// Close deactivates a log, records the end date, and releases the
// vehicle back to available.
func (s *Store) Close(ctx context.Context, id types.ID, endDate time.Time, changedBy *types.ID) (*Log, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		UPDATE maintenance_logs
		SET is_active = false, end_date = $2, updated_at = now()
		WHERE id = $1 AND is_active
		RETURNING `+logColumns,
		string(id), endDate,
	)
	l, err := scanLog(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fleeterr.NotFound("maintenance log")
	}
	if err != nil {
		return nil, err
	}

	if err := setVehicleStatus(ctx, tx, l.VehicleID, vehicle.StatusAvailable,
		"maintenance closed", changedBy); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Log, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+logColumns+` FROM maintenance_logs WHERE id = $1`, string(id))
	l, err := scanLog(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fleeterr.NotFound("maintenance log")
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

type ListFilter struct {
	VehicleID *types.ID
	IsActive  *bool
	Offset    int
	Limit     int
}

func (s *Store) List(ctx context.Context, f ListFilter) ([]*Log, error) {
	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	var vehicleID *string
	if f.VehicleID != nil {
		v := string(*f.VehicleID)
		vehicleID = &v
	}
	rows, err := s.db.Query(ctx, `
		SELECT `+logColumns+`
		FROM maintenance_logs
		WHERE ($1::uuid IS NULL OR vehicle_id = $1)
		  AND ($2::boolean IS NULL OR is_active = $2)
		ORDER BY start_date DESC
		OFFSET $3 LIMIT $4`,
		vehicleID, f.IsActive, f.Offset, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Log
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func setVehicleStatus(ctx context.Context, tx pgx.Tx, id types.ID, to vehicle.Status, reason string, changedBy *types.ID) error {
	var oldStatus string
	err := tx.QueryRow(ctx,
		`SELECT status FROM vehicles WHERE id = $1 FOR UPDATE`, string(id),
	).Scan(&oldStatus)
	if errors.Is(err, pgx.ErrNoRows) {
		return fleeterr.NotFound("vehicle")
	}
	if err != nil {
		return err
	}
	if oldStatus == string(to) {
		return nil
	}
	_, err = tx.Exec(ctx,
		`UPDATE vehicles SET status = $2, updated_at = now() WHERE id = $1`,
		string(id), string(to))
	if err != nil {
		return err
	}
	var changedByStr *string
	if changedBy != nil {
		v := string(*changedBy)
		changedByStr = &v
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO vehicle_status_history (
			id, vehicle_id, old_status, new_status, reason, changed_by, changed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		string(types.NewID()), string(id), oldStatus, string(to),
		reason, changedByStr, time.Now(),
	)
	return err
}

func scanLog(row pgx.Row) (*Log, error) {
	var l Log
	var performedBy *string
	err := row.Scan(
		&l.ID, &l.VehicleID, &performedBy, &l.ServiceType, &l.Description,
		&l.Cost, &l.StartDate, &l.EndDate, &l.VendorName,
		&l.OdometerAtService, &l.IsActive, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if performedBy != nil {
		v := types.ID(*performedBy)
		l.PerformedBy = &v
	}
	return &l, nil
}
