// README: Trip aggregate and status definitions.
package trip

import (
	"time"

	"fleetops/internal/types"
)

type Status string

const (
	StatusDraft      Status = "draft"
	StatusDispatched Status = "dispatched"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

var allowedStatuses = [...]Status{
	StatusDraft, StatusDispatched, StatusCompleted, StatusCancelled,
}

func (s Status) Valid() bool {
	for _, v := range allowedStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type Trip struct {
	ID               types.ID
	VehicleID        types.ID
	DriverID         types.ID
	CreatedBy        *types.ID
	Origin           string
	Destination      string
	CargoDescription *string
	CargoWeightKg    float64
	Status           Status
	ScheduledAt      *time.Time
	DispatchedAt     *time.Time
	CompletedAt      *time.Time
	CancelledAt      *time.Time
	CancelReason     *string
	OdometerStart    *float64
	OdometerEnd      *float64
	// DistanceKm is computed by the database (generated column); the
	// service only ever reads it back.
	DistanceKm *float64
	Notes      *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// StatusHistoryEntry is an append-only audit record of a trip status
// transition. Exactly one row is written per successful transition.
type StatusHistoryEntry struct {
	ID        types.ID
	TripID    types.ID
	OldStatus *Status
	NewStatus Status
	Notes     *string
	ChangedBy *types.ID
	ChangedAt time.Time
}
