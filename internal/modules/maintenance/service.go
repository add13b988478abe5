// README: Maintenance service.
package maintenance

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

type OpenCommand struct {
	VehicleID         types.ID
	ServiceType       string
	Description       *string
	Cost              float64
	StartDate         time.Time
	VendorName        *string
	OdometerAtService *float64
	PerformedBy       *types.ID
}

func (s *Service) Open(ctx context.Context, cmd OpenCommand) (*Log, error) {
	if cmd.VehicleID == "" || cmd.ServiceType == "" || cmd.Cost < 0 {
		return nil, ErrBadRequest
	}
	start := cmd.StartDate
	if start.IsZero() {
		start = time.Now()
	}
	l := &Log{
		ID:                types.NewID(),
		VehicleID:         cmd.VehicleID,
		PerformedBy:       cmd.PerformedBy,
		ServiceType:       cmd.ServiceType,
		Description:       cmd.Description,
		Cost:              cmd.Cost,
		StartDate:         types.DateOnly(start),
		VendorName:        cmd.VendorName,
		OdometerAtService: cmd.OdometerAtService,
		IsActive:          true,
	}
	if err := s.store.Open(ctx, l); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, l.ID)
}

// Close ends an active maintenance log and releases the vehicle.
func (s *Service) Close(ctx context.Context, id types.ID, endDate *time.Time, changedBy *types.ID) (*Log, error) {
	end := time.Now()
	if endDate != nil {
		end = *endDate
	}
	return s.store.Close(ctx, id, types.DateOnly(end), changedBy)
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Log, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]*Log, error) {
	return s.store.List(ctx, f)
}
