// README: Vehicle service: CRUD plus the direct status-update path.
package vehicle

import (
	"context"
	"errors"
	"time"

	"fleetops/internal/types"
)

var ErrBadRequest = errors.New("bad request")

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

type CreateCommand struct {
	Name            string
	LicensePlate    string
	VehicleType     Type
	Make            *string
	Model           *string
	Year            *int16
	MaxCapacityKg   float64
	OdometerKm      float64
	AcquisitionCost *float64
	AcquiredAt      *time.Time
	Region          *string
	Notes           *string
}

// UpdateCommand is a partial update; nil fields are left untouched.
// A non-nil Status that differs from the stored value gets a history
// row; the management path does not validate transitions.
type UpdateCommand struct {
	Name          *string
	LicensePlate  *string
	Make          *string
	Model         *string
	Year          *int16
	MaxCapacityKg *float64
	OdometerKm    *float64
	Status        *Status
	Region        *string
	Notes         *string
	Reason        *string
	ChangedBy     *types.ID
}

func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*Vehicle, error) {
	if cmd.Name == "" || cmd.LicensePlate == "" || !cmd.VehicleType.Valid() || cmd.MaxCapacityKg <= 0 {
		return nil, ErrBadRequest
	}
	v := &Vehicle{
		ID:              types.NewID(),
		Name:            cmd.Name,
		LicensePlate:    cmd.LicensePlate,
		VehicleType:     cmd.VehicleType,
		Make:            cmd.Make,
		Model:           cmd.Model,
		Year:            cmd.Year,
		MaxCapacityKg:   cmd.MaxCapacityKg,
		OdometerKm:      cmd.OdometerKm,
		Status:          StatusAvailable,
		AcquisitionCost: cmd.AcquisitionCost,
		AcquiredAt:      cmd.AcquiredAt,
		Region:          cmd.Region,
		Notes:           cmd.Notes,
	}
	if err := s.store.Create(ctx, v); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, v.ID)
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Vehicle, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]*Vehicle, error) {
	return s.store.List(ctx, f)
}

func (s *Service) Available(ctx context.Context) ([]*Vehicle, error) {
	return s.store.Available(ctx)
}

func (s *Service) Update(ctx context.Context, id types.ID, cmd UpdateCommand) (*Vehicle, error) {
	if cmd.Status != nil && !cmd.Status.Valid() {
		return nil, ErrBadRequest
	}
	return s.store.Update(ctx, id, cmd)
}

// Retire forces a vehicle into the terminal retired status.
func (s *Service) Retire(ctx context.Context, id types.ID, changedBy *types.ID) (*Vehicle, error) {
	status := StatusRetired
	reason := "Manually retired"
	return s.store.Update(ctx, id, UpdateCommand{
		Status:    &status,
		Reason:    &reason,
		ChangedBy: changedBy,
	})
}

func (s *Service) History(ctx context.Context, id types.ID) ([]*StatusHistoryEntry, error) {
	if _, err := s.store.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.store.History(ctx, id)
}
