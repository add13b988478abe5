// README: Vehicle aggregate, status definitions and availability checks.
package vehicle

import (
	"time"

	"fleetops/internal/types"
)

type Status string

const (
	StatusAvailable Status = "available"
	StatusOnTrip    Status = "on_trip"
	StatusInShop    Status = "in_shop"
	StatusRetired   Status = "retired"
)

var allowedStatuses = [...]Status{
	StatusAvailable, StatusOnTrip, StatusInShop, StatusRetired,
}

func (s Status) Valid() bool {
	for _, v := range allowedStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type Type string

const (
	TypeTruck Type = "truck"
	TypeVan   Type = "van"
	TypeBike  Type = "bike"
	TypeCar   Type = "car"
)

var allowedTypes = [...]Type{TypeTruck, TypeVan, TypeBike, TypeCar}

func (t Type) Valid() bool {
	for _, v := range allowedTypes {
		if t == v {
			return true
		}
	}
	return false
}

type Vehicle struct {
	ID              types.ID
	Name            string
	LicensePlate    string
	VehicleType     Type
	Make            *string
	Model           *string
	Year            *int16
	MaxCapacityKg   float64
	OdometerKm      float64
	Status          Status
	AcquisitionCost *float64
	AcquiredAt      *time.Time
	Region          *string
	Notes           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Assignable reports whether the vehicle can take a new trip.
func (v *Vehicle) Assignable() bool {
	return v.Status == StatusAvailable
}

// CapacityOK reports whether a cargo load fits the vehicle.
func (v *Vehicle) CapacityOK(cargoKg float64) bool {
	return cargoKg <= v.MaxCapacityKg
}

// StatusHistoryEntry is an append-only audit record of a vehicle
// status change. Rows are never updated or deleted; they go away only
// when the vehicle itself is deleted.
type StatusHistoryEntry struct {
	ID        types.ID
	VehicleID types.ID
	OldStatus *Status
	NewStatus Status
	Reason    *string
	ChangedBy *types.ID
	ChangedAt time.Time
}
