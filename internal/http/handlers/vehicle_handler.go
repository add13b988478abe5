// README: Vehicle handlers: CRUD, retire, status history.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fleetops/internal/modules/vehicle"
	"fleetops/internal/types"
)

type VehicleHandler struct {
	vehicles *vehicle.Service
}

func NewVehicleHandler(svc *vehicle.Service) *VehicleHandler {
	return &VehicleHandler{vehicles: svc}
}

type createVehicleReq struct {
	Name            string     `json:"name"`
	LicensePlate    string     `json:"license_plate"`
	VehicleType     string     `json:"vehicle_type"`
	Make            *string    `json:"make"`
	Model           *string    `json:"model"`
	Year            *int16     `json:"year"`
	MaxCapacityKg   float64    `json:"max_capacity_kg"`
	OdometerKm      float64    `json:"odometer_km"`
	AcquisitionCost *float64   `json:"acquisition_cost"`
	AcquiredAt      *time.Time `json:"acquired_at"`
	Region          *string    `json:"region"`
	Notes           *string    `json:"notes"`
}

type updateVehicleReq struct {
	Name          *string  `json:"name"`
	LicensePlate  *string  `json:"license_plate"`
	Make          *string  `json:"make"`
	Model         *string  `json:"model"`
	Year          *int16   `json:"year"`
	MaxCapacityKg *float64 `json:"max_capacity_kg"`
	OdometerKm    *float64 `json:"odometer_km"`
	Status        *string  `json:"status"`
	Region        *string  `json:"region"`
	Notes         *string  `json:"notes"`
	Reason        *string  `json:"reason"`
}

type vehicleResponse struct {
	ID            types.ID       `json:"id"`
	Name          string         `json:"name"`
	LicensePlate  string         `json:"license_plate"`
	VehicleType   vehicle.Type   `json:"vehicle_type"`
	Make          *string        `json:"make,omitempty"`
	Model         *string        `json:"model,omitempty"`
	Year          *int16         `json:"year,omitempty"`
	MaxCapacityKg float64        `json:"max_capacity_kg"`
	OdometerKm    float64        `json:"odometer_km"`
	Status        vehicle.Status `json:"status"`
	Region        *string        `json:"region,omitempty"`
	Notes         *string        `json:"notes,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func toVehicleResponse(v *vehicle.Vehicle) vehicleResponse {
	return vehicleResponse{
		ID:            v.ID,
		Name:          v.Name,
		LicensePlate:  v.LicensePlate,
		VehicleType:   v.VehicleType,
		Make:          v.Make,
		Model:         v.Model,
		Year:          v.Year,
		MaxCapacityKg: v.MaxCapacityKg,
		OdometerKm:    v.OdometerKm,
		Status:        v.Status,
		Region:        v.Region,
		Notes:         v.Notes,
		CreatedAt:     v.CreatedAt,
		UpdatedAt:     v.UpdatedAt,
	}
}

type vehicleHistoryResponse struct {
	ID        types.ID        `json:"id"`
	VehicleID types.ID        `json:"vehicle_id"`
	OldStatus *vehicle.Status `json:"old_status,omitempty"`
	NewStatus vehicle.Status  `json:"new_status"`
	Reason    *string         `json:"reason,omitempty"`
	ChangedBy *types.ID       `json:"changed_by,omitempty"`
	ChangedAt time.Time       `json:"changed_at"`
}

func (h *VehicleHandler) Create(c *gin.Context) {
	var req createVehicleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	v, err := h.vehicles.Create(c.Request.Context(), vehicle.CreateCommand{
		Name:            req.Name,
		LicensePlate:    req.LicensePlate,
		VehicleType:     vehicle.Type(req.VehicleType),
		Make:            req.Make,
		Model:           req.Model,
		Year:            req.Year,
		MaxCapacityKg:   req.MaxCapacityKg,
		OdometerKm:      req.OdometerKm,
		AcquisitionCost: req.AcquisitionCost,
		AcquiredAt:      req.AcquiredAt,
		Region:          req.Region,
		Notes:           req.Notes,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, toVehicleResponse(v))
}

func (h *VehicleHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	v, err := h.vehicles.Get(c.Request.Context(), id)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toVehicleResponse(v))
}

func (h *VehicleHandler) List(c *gin.Context) {
	var f vehicle.ListFilter
	if v := c.Query("status"); v != "" {
		status := vehicle.Status(v)
		if !status.Valid() {
			writeError(c, http.StatusBadRequest, "invalid status filter")
			return
		}
		f.Status = &status
	}
	if v := c.Query("region"); v != "" {
		f.Region = &v
	}
	f.Offset = intQuery(c, "skip", 0)
	f.Limit = intQuery(c, "limit", 100)

	list, err := h.vehicles.List(c.Request.Context(), f)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	out := make([]vehicleResponse, 0, len(list))
	for _, v := range list {
		out = append(out, toVehicleResponse(v))
	}
	writeJSON(c, http.StatusOK, out)
}

func (h *VehicleHandler) Available(c *gin.Context) {
	list, err := h.vehicles.Available(c.Request.Context())
	if err != nil {
		writeDomainError(c, err)
		return
	}
	out := make([]vehicleResponse, 0, len(list))
	for _, v := range list {
		out = append(out, toVehicleResponse(v))
	}
	writeJSON(c, http.StatusOK, out)
}

// Update is the management path. A status change here bypasses the
// trip state machine on purpose and is audited on the vehicle ledger.
func (h *VehicleHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updateVehicleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	cmd := vehicle.UpdateCommand{
		Name:          req.Name,
		LicensePlate:  req.LicensePlate,
		Make:          req.Make,
		Model:         req.Model,
		Year:          req.Year,
		MaxCapacityKg: req.MaxCapacityKg,
		OdometerKm:    req.OdometerKm,
		Region:        req.Region,
		Notes:         req.Notes,
		Reason:        req.Reason,
		ChangedBy:     currentUserID(c),
	}
	if req.Status != nil {
		status := vehicle.Status(*req.Status)
		cmd.Status = &status
	}
	v, err := h.vehicles.Update(c.Request.Context(), id, cmd)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toVehicleResponse(v))
}

func (h *VehicleHandler) Retire(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	v, err := h.vehicles.Retire(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toVehicleResponse(v))
}

func (h *VehicleHandler) History(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	entries, err := h.vehicles.History(c.Request.Context(), id)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	out := make([]vehicleHistoryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, vehicleHistoryResponse{
			ID:        e.ID,
			VehicleID: e.VehicleID,
			OldStatus: e.OldStatus,
			NewStatus: e.NewStatus,
			Reason:    e.Reason,
			ChangedBy: e.ChangedBy,
			ChangedAt: e.ChangedAt,
		})
	}
	writeJSON(c, http.StatusOK, out)
}
