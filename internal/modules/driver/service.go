// README: Driver service: CRUD, direct status updates, license alerts.
package driver

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
	FullName          string
	EmployeeID        *string
	Phone             *string
	Email             *string
	LicenseNumber     string
	LicenseCategory   string
	LicenseExpiryDate time.Time
	Notes             *string
}

// UpdateCommand is a partial update; nil fields are left untouched.
type UpdateCommand struct {
	FullName          *string
	EmployeeID        *string
	Phone             *string
	Email             *string
	LicenseNumber     *string
	LicenseCategory   *string
	LicenseExpiryDate *time.Time
	SafetyScore       *float64
	Status            *Status
	Notes             *string
	Reason            *string
	ChangedBy         *types.ID
}

func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*Driver, error) {
	if cmd.FullName == "" || cmd.LicenseNumber == "" || cmd.LicenseCategory == "" ||
		cmd.LicenseExpiryDate.IsZero() {
		return nil, ErrBadRequest
	}
	d := &Driver{
		ID:                types.NewID(),
		FullName:          cmd.FullName,
		EmployeeID:        cmd.EmployeeID,
		Phone:             cmd.Phone,
		Email:             cmd.Email,
		LicenseNumber:     cmd.LicenseNumber,
		LicenseCategory:   cmd.LicenseCategory,
		LicenseExpiryDate: types.DateOnly(cmd.LicenseExpiryDate),
		SafetyScore:       100,
		Status:            StatusAvailable,
	}
	d.Notes = cmd.Notes
	if err := s.store.Create(ctx, d); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, d.ID)
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Driver, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]*Driver, error) {
	return s.store.List(ctx, f)
}

func (s *Service) Available(ctx context.Context) ([]*Driver, error) {
	return s.store.Available(ctx, time.Now())
}

func (s *Service) Update(ctx context.Context, id types.ID, cmd UpdateCommand) (*Driver, error) {
	if cmd.Status != nil && !cmd.Status.Valid() {
		return nil, ErrBadRequest
	}
	if cmd.LicenseExpiryDate != nil {
		d := types.DateOnly(*cmd.LicenseExpiryDate)
		cmd.LicenseExpiryDate = &d
	}
	return s.store.Update(ctx, id, cmd)
}

// ExpiringLicenses lists drivers whose license expires within the
// given number of days, soonest-expiring first.
func (s *Service) ExpiringLicenses(ctx context.Context, withinDays int) ([]*Driver, error) {
	if withinDays < 0 {
		return nil, ErrBadRequest
	}
	cutoff := time.Now().AddDate(0, 0, withinDays)
	return s.store.ExpiringLicenses(ctx, cutoff)
}

func (s *Service) History(ctx context.Context, id types.ID) ([]*StatusHistoryEntry, error) {
	if _, err := s.store.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.store.History(ctx, id)
}
