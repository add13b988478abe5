// README: Trip handlers for create/list/get, lifecycle transitions and
// the status history ledger.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fleetops/internal/modules/trip"
	"fleetops/internal/types"
)

type TripHandler struct {
	trips *trip.Service
}

func NewTripHandler(svc *trip.Service) *TripHandler {
	return &TripHandler{trips: svc}
}

type createTripReq struct {
	VehicleID        string     `json:"vehicle_id"`
	DriverID         string     `json:"driver_id"`
	Origin           string     `json:"origin"`
	Destination      string     `json:"destination"`
	CargoDescription *string    `json:"cargo_description"`
	CargoWeightKg    float64    `json:"cargo_weight_kg"`
	ScheduledAt      *time.Time `json:"scheduled_at"`
	OdometerStart    *float64   `json:"odometer_start"`
	Notes            *string    `json:"notes"`
}

type tripResponse struct {
	ID               types.ID    `json:"id"`
	VehicleID        types.ID    `json:"vehicle_id"`
	DriverID         types.ID    `json:"driver_id"`
	CreatedBy        *types.ID   `json:"created_by,omitempty"`
	Origin           string      `json:"origin"`
	Destination      string      `json:"destination"`
	CargoDescription *string     `json:"cargo_description,omitempty"`
	CargoWeightKg    float64     `json:"cargo_weight_kg"`
	Status           trip.Status `json:"status"`
	ScheduledAt      *time.Time  `json:"scheduled_at,omitempty"`
	DispatchedAt     *time.Time  `json:"dispatched_at,omitempty"`
	CompletedAt      *time.Time  `json:"completed_at,omitempty"`
	CancelledAt      *time.Time  `json:"cancelled_at,omitempty"`
	CancelReason     *string     `json:"cancel_reason,omitempty"`
	OdometerStart    *float64    `json:"odometer_start,omitempty"`
	OdometerEnd      *float64    `json:"odometer_end,omitempty"`
	DistanceKm       *float64    `json:"distance_km,omitempty"`
	Notes            *string     `json:"notes,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

func toTripResponse(t *trip.Trip) tripResponse {
	return tripResponse{
		ID:               t.ID,
		VehicleID:        t.VehicleID,
		DriverID:         t.DriverID,
		CreatedBy:        t.CreatedBy,
		Origin:           t.Origin,
		Destination:      t.Destination,
		CargoDescription: t.CargoDescription,
		CargoWeightKg:    t.CargoWeightKg,
		Status:           t.Status,
		ScheduledAt:      t.ScheduledAt,
		DispatchedAt:     t.DispatchedAt,
		CompletedAt:      t.CompletedAt,
		CancelledAt:      t.CancelledAt,
		CancelReason:     t.CancelReason,
		OdometerStart:    t.OdometerStart,
		OdometerEnd:      t.OdometerEnd,
		DistanceKm:       t.DistanceKm,
		Notes:            t.Notes,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}

type tripHistoryResponse struct {
	ID        types.ID     `json:"id"`
	TripID    types.ID     `json:"trip_id"`
	OldStatus *trip.Status `json:"old_status,omitempty"`
	NewStatus trip.Status  `json:"new_status"`
	Notes     *string      `json:"notes,omitempty"`
	ChangedBy *types.ID    `json:"changed_by,omitempty"`
	ChangedAt time.Time    `json:"changed_at"`
}

func (h *TripHandler) Create(c *gin.Context) {
	var req createTripReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	t, err := h.trips.Create(c.Request.Context(), trip.CreateCommand{
		VehicleID:        types.ID(req.VehicleID),
		DriverID:         types.ID(req.DriverID),
		Origin:           req.Origin,
		Destination:      req.Destination,
		CargoDescription: req.CargoDescription,
		CargoWeightKg:    req.CargoWeightKg,
		ScheduledAt:      req.ScheduledAt,
		OdometerStart:    req.OdometerStart,
		Notes:            req.Notes,
		CreatedBy:        currentUserID(c),
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, toTripResponse(t))
}

func (h *TripHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	t, err := h.trips.Get(c.Request.Context(), id)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toTripResponse(t))
}

func (h *TripHandler) List(c *gin.Context) {
	var f trip.ListFilter
	if v := c.Query("status"); v != "" {
		status := trip.Status(v)
		if !status.Valid() {
			writeError(c, http.StatusBadRequest, "invalid status filter")
			return
		}
		f.Status = &status
	}
	if v := c.Query("vehicle_id"); v != "" {
		id := types.ID(v)
		f.VehicleID = &id
	}
	if v := c.Query("driver_id"); v != "" {
		id := types.ID(v)
		f.DriverID = &id
	}
	f.Offset = intQuery(c, "skip", 0)
	f.Limit = intQuery(c, "limit", 100)

	trips, err := h.trips.List(c.Request.Context(), f)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	out := make([]tripResponse, 0, len(trips))
	for _, t := range trips {
		out = append(out, toTripResponse(t))
	}
	writeJSON(c, http.StatusOK, out)
}

// Dispatch moves a draft trip to dispatched, reserving the vehicle and
// driver.
func (h *TripHandler) Dispatch(c *gin.Context) {
	h.transition(c, trip.StatusDispatched)
}

type completeTripReq struct {
	OdometerEnd *float64 `json:"odometer_end"`
	Notes       *string  `json:"notes"`
}

func (h *TripHandler) Complete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req completeTripReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, http.StatusBadRequest, "invalid json")
			return
		}
	}
	t, err := h.trips.Transition(c.Request.Context(), trip.TransitionCommand{
		TripID:      id,
		Target:      trip.StatusCompleted,
		ActorID:     currentUserID(c),
		OdometerEnd: req.OdometerEnd,
		Notes:       req.Notes,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toTripResponse(t))
}

type cancelTripReq struct {
	CancelReason *string `json:"cancel_reason"`
	Notes        *string `json:"notes"`
}

func (h *TripHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req cancelTripReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, http.StatusBadRequest, "invalid json")
			return
		}
	}
	t, err := h.trips.Transition(c.Request.Context(), trip.TransitionCommand{
		TripID:       id,
		Target:       trip.StatusCancelled,
		ActorID:      currentUserID(c),
		CancelReason: req.CancelReason,
		Notes:        req.Notes,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toTripResponse(t))
}

func (h *TripHandler) History(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	entries, err := h.trips.History(c.Request.Context(), id)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	out := make([]tripHistoryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, tripHistoryResponse{
			ID:        e.ID,
			TripID:    e.TripID,
			OldStatus: e.OldStatus,
			NewStatus: e.NewStatus,
			Notes:     e.Notes,
			ChangedBy: e.ChangedBy,
			ChangedAt: e.ChangedAt,
		})
	}
	writeJSON(c, http.StatusOK, out)
}

func (h *TripHandler) transition(c *gin.Context, target trip.Status) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	t, err := h.trips.Transition(c.Request.Context(), trip.TransitionCommand{
		TripID:  id,
		Target:  target,
		ActorID: currentUserID(c),
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toTripResponse(t))
}
