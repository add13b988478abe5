// README: Maintenance log aggregate.
package maintenance

import (
	"time"

	"fleetops/internal/types"
)

type Log struct {
	ID                types.ID
	VehicleID         types.ID
	PerformedBy       *types.ID
	ServiceType       string
	Description       *string
	Cost              float64
	StartDate         time.Time
	EndDate           *time.Time
	VendorName        *string
	OdometerAtService *float64
	// IsActive means the vehicle is currently in the shop for this
	// log; closing the log releases the vehicle.
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
