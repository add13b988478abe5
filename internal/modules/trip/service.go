// README: Trip lifecycle service: creation validation and status
// transitions.
package trip

import (
	"context"
	"errors"
	"time"

	"fleetops/internal/fleeterr"
	"fleetops/internal/modules/driver"
	"fleetops/internal/modules/vehicle"
	"fleetops/internal/types"
)

var ErrBadRequest = errors.New("bad request")

type VehicleSource interface {
	Get(ctx context.Context, id types.ID) (*vehicle.Vehicle, error)
}

type DriverSource interface {
	Get(ctx context.Context, id types.ID) (*driver.Driver, error)
}

type Service struct {
	store    *Store
	vehicles VehicleSource
	drivers  DriverSource
}

func NewService(store *Store, vehicles VehicleSource, drivers DriverSource) *Service {
	return &Service{store: store, vehicles: vehicles, drivers: drivers}
}

type CreateCommand struct {
	VehicleID        types.ID
	DriverID         types.ID
	Origin           string
	Destination      string
	CargoDescription *string
	CargoWeightKg    float64
	ScheduledAt      *time.Time
	OdometerStart    *float64
	Notes            *string
	CreatedBy        *types.ID
}

// Create validates resource availability and persists a draft trip.
// Checks run in a fixed order and fail fast. A draft does not reserve
// the vehicle or driver; contention is resolved at dispatch time.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*Trip, error) {
	if cmd.VehicleID == "" || cmd.DriverID == "" ||
		cmd.Origin == "" || cmd.Destination == "" || cmd.CargoWeightKg <= 0 {
		return nil, ErrBadRequest
	}

	v, err := s.vehicles.Get(ctx, cmd.VehicleID)
	if err != nil {
		return nil, err
	}
	if !v.Assignable() {
		return nil, fleeterr.Conflict(fleeterr.ReasonVehicleNotAvailable,
			"vehicle is '%s', not available for dispatch", v.Status)
	}
	if !v.CapacityOK(cmd.CargoWeightKg) {
		return nil, fleeterr.Conflict(fleeterr.ReasonCapacityExceeded,
			"cargo %.2fkg exceeds vehicle capacity %.2fkg", cmd.CargoWeightKg, v.MaxCapacityKg)
	}

	d, err := s.drivers.Get(ctx, cmd.DriverID)
	if err != nil {
		return nil, err
	}
	// The status and license checks are reported separately: an
	// off-duty driver and an expired license are different failures
	// for the caller even though Assignable folds them together.
	if d.Status != driver.StatusAvailable {
		return nil, fleeterr.Conflict(fleeterr.ReasonDriverNotAvailable,
			"driver is '%s', not available", d.Status)
	}
	if !d.LicenseValid(time.Now()) {
		return nil, fleeterr.Conflict(fleeterr.ReasonLicenseExpired,
			"driver license expired on %s", d.LicenseExpiryDate.Format("2006-01-02"))
	}

	t := &Trip{
		ID:               types.NewID(),
		VehicleID:        cmd.VehicleID,
		DriverID:         cmd.DriverID,
		CreatedBy:        cmd.CreatedBy,
		Origin:           cmd.Origin,
		Destination:      cmd.Destination,
		CargoDescription: cmd.CargoDescription,
		CargoWeightKg:    cmd.CargoWeightKg,
		Status:           StatusDraft,
		ScheduledAt:      cmd.ScheduledAt,
		OdometerStart:    cmd.OdometerStart,
		Notes:            cmd.Notes,
	}
	if err := s.store.Create(ctx, t); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, t.ID)
}

// Transition moves a trip along one edge of the state machine. The
// store performs the legality check and every side effect in a single
// transaction.
func (s *Service) Transition(ctx context.Context, cmd TransitionCommand) (*Trip, error) {
	if !cmd.Target.Valid() {
		return nil, ErrBadRequest
	}
	return s.store.Transition(ctx, cmd)
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Trip, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]*Trip, error) {
	return s.store.List(ctx, f)
}

// History returns the trip's status ledger, newest first.
func (s *Service) History(ctx context.Context, id types.ID) ([]*StatusHistoryEntry, error) {
	if _, err := s.store.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.store.History(ctx, id)
}
