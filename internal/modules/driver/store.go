// README: Driver store backed by PostgreSQL.
package driver

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fleetops/internal/fleeterr"
	"fleetops/internal/types"
)

const driverColumns = `
	id, full_name, employee_id, phone, email, license_number,
	license_category, license_expiry_date, safety_score, status,
	trips_completed, trips_total, notes, created_at, updated_at`

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, d *Driver) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO drivers (
			id, full_name, employee_id, phone, email, license_number,
			license_category, license_expiry_date, safety_score, status, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		string(d.ID), d.FullName, d.EmployeeID, d.Phone, d.Email,
		d.LicenseNumber, d.LicenseCategory, d.LicenseExpiryDate,
		d.SafetyScore, string(d.Status), d.Notes,
	)
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Driver, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+driverColumns+` FROM drivers WHERE id = $1`, string(id))
	return scanDriver(row)
}

type ListFilter struct {
	Status *Status
	Offset int
	Limit  int
}

func (s *Store) List(ctx context.Context, f ListFilter) ([]*Driver, error) {
	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	var status *string
	if f.Status != nil {
		v := string(*f.Status)
		status = &v
	}
	rows, err := s.db.Query(ctx, `
		SELECT `+driverColumns+`
		FROM drivers
		WHERE ($1::text IS NULL OR status = $1)
		ORDER BY created_at DESC
		OFFSET $2 LIMIT $3`,
		status, f.Offset, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDrivers(rows)
}

// Available returns drivers that are available and hold a valid
// license as of the given date.
func (s *Store) Available(ctx context.Context, asOf time.Time) ([]*Driver, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+driverColumns+`
		FROM drivers
		WHERE status = $1 AND license_expiry_date >= $2
		ORDER BY full_name`,
		string(StatusAvailable), types.DateOnly(asOf),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDrivers(rows)
}

// ExpiringLicenses returns drivers whose license expires on or before
// the cutoff, soonest first.
func (s *Store) ExpiringLicenses(ctx context.Context, cutoff time.Time) ([]*Driver, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+driverColumns+`
		FROM drivers
		WHERE license_expiry_date <= $1
		ORDER BY license_expiry_date ASC`,
		types.DateOnly(cutoff),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDrivers(rows)
}

// Update applies a partial update, appending a history row inside the
// same transaction when the status actually changes.
func (s *Store) Update(ctx context.Context, id types.ID, cmd UpdateCommand) (*Driver, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var oldStatus string
	err = tx.QueryRow(ctx,
		`SELECT status FROM drivers WHERE id = $1 FOR UPDATE`, string(id),
	).Scan(&oldStatus)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fleeterr.NotFound("driver")
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
		UPDATE drivers
		SET full_name           = COALESCE($2, full_name),
		    employee_id         = COALESCE($3, employee_id),
		    phone               = COALESCE($4, phone),
		    email               = COALESCE($5, email),
		    license_number      = COALESCE($6, license_number),
		    license_category    = COALESCE($7, license_category),
		    license_expiry_date = COALESCE($8, license_expiry_date),
		    safety_score        = COALESCE($9, safety_score),
		    status              = COALESCE($10, status),
		    notes               = COALESCE($11, notes),
		    updated_at          = now()
		WHERE id = $1
		RETURNING `+driverColumns,
		string(id),
		cmd.FullName, cmd.EmployeeID, cmd.Phone, cmd.Email,
		cmd.LicenseNumber, cmd.LicenseCategory, cmd.LicenseExpiryDate,
		cmd.SafetyScore, newStatus, cmd.Notes,
	)
	d, err := scanDriver(row)
	if err != nil {
		return nil, err
	}

	if cmd.Status != nil && string(*cmd.Status) != oldStatus {
		old := Status(oldStatus)
		if err := appendHistory(ctx, tx, &StatusHistoryEntry{
			ID:        types.NewID(),
			DriverID:  id,
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
	return d, nil
}

func (s *Store) History(ctx context.Context, driverID types.ID) ([]*StatusHistoryEntry, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, driver_id, old_status, new_status, reason, changed_by, changed_at
		FROM driver_status_history
		WHERE driver_id = $1
		ORDER BY changed_at DESC`, string(driverID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*StatusHistoryEntry
	for rows.Next() {
		var e StatusHistoryEntry
		var oldStatus, reason, changedBy *string
		if err := rows.Scan(&e.ID, &e.DriverID, &oldStatus, &e.NewStatus,
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
		INSERT INTO driver_status_history (
			id, driver_id, old_status, new_status, reason, changed_by, changed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		string(e.ID), string(e.DriverID), oldStatus, string(e.NewStatus),
		e.Reason, changedBy, e.ChangedAt,
	)
	return err
}

func scanDriver(row pgx.Row) (*Driver, error) {
	var d Driver
	err := row.Scan(
		&d.ID, &d.FullName, &d.EmployeeID, &d.Phone, &d.Email,
		&d.LicenseNumber, &d.LicenseCategory, &d.LicenseExpiryDate,
		&d.SafetyScore, &d.Status, &d.TripsCompleted, &d.TripsTotal,
		&d.Notes, &d.CreatedAt, &d.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fleeterr.NotFound("driver")
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func scanDrivers(rows pgx.Rows) ([]*Driver, error) {
	var out []*Driver
	for rows.Next() {
		var d Driver
		if err := rows.Scan(
			&d.ID, &d.FullName, &d.EmployeeID, &d.Phone, &d.Email,
			&d.LicenseNumber, &d.LicenseCategory, &d.LicenseExpiryDate,
			&d.SafetyScore, &d.Status, &d.TripsCompleted, &d.TripsTotal,
			&d.Notes, &d.CreatedAt, &d.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}
