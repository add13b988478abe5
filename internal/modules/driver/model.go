// README: Driver aggregate, status definitions and availability checks.
package driver

import (
	"time"

	"fleetops/internal/types"
)

type Status string

const (
	StatusAvailable Status = "available"
	StatusOnTrip    Status = "on_trip"
	StatusOffDuty   Status = "off_duty"
	StatusSuspended Status = "suspended"
)

var allowedStatuses = [...]Status{
	StatusAvailable, StatusOnTrip, StatusOffDuty, StatusSuspended,
}

func (s Status) Valid() bool {
	for _, v := range allowedStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type Driver struct {
	ID                types.ID
	FullName          string
	EmployeeID        *string
	Phone             *string
	Email             *string
	LicenseNumber     string
	LicenseCategory   string
	LicenseExpiryDate time.Time
	SafetyScore       float64
	Status            Status
	TripsCompleted    int
	TripsTotal        int
	Notes             *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// LicenseValid reports whether the license has not expired as of the
// given instant (date precision).
func (d *Driver) LicenseValid(asOf time.Time) bool {
	return !types.DateOnly(d.LicenseExpiryDate).Before(types.DateOnly(asOf))
}

// Assignable reports whether the driver can take a new trip: available
// and holding a non-expired license.
func (d *Driver) Assignable(asOf time.Time) bool {
	return d.Status == StatusAvailable && d.LicenseValid(asOf)
}

// StatusHistoryEntry is an append-only audit record of a driver status
// change.
type StatusHistoryEntry struct {
	ID        types.ID
	DriverID  types.ID
	OldStatus *Status
	NewStatus Status
	Reason    *string
	ChangedBy *types.ID
	ChangedAt time.Time
}
