// README: Maintenance handlers: open/close logs and listings.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fleetops/internal/modules/maintenance"
	"fleetops/internal/types"
)

type MaintenanceHandler struct {
	maintenance *maintenance.Service
}

func NewMaintenanceHandler(svc *maintenance.Service) *MaintenanceHandler {
	return &MaintenanceHandler{maintenance: svc}
}

type openMaintenanceReq struct {
	VehicleID         string   `json:"vehicle_id"`
	ServiceType       string   `json:"service_type"`
	Description       *string  `json:"description"`
	Cost              float64  `json:"cost"`
	StartDate         *string  `json:"start_date"`
	VendorName        *string  `json:"vendor_name"`
	OdometerAtService *float64 `json:"odometer_at_service"`
}

type closeMaintenanceReq struct {
	EndDate *string `json:"end_date"`
}

type maintenanceResponse struct {
	ID                types.ID  `json:"id"`
	VehicleID         types.ID  `json:"vehicle_id"`
	PerformedBy       *types.ID `json:"performed_by,omitempty"`
	ServiceType       string    `json:"service_type"`
	Description       *string   `json:"description,omitempty"`
	Cost              float64   `json:"cost"`
	StartDate         string    `json:"start_date"`
	EndDate           *string   `json:"end_date,omitempty"`
	VendorName        *string   `json:"vendor_name,omitempty"`
	OdometerAtService *float64  `json:"odometer_at_service,omitempty"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func toMaintenanceResponse(l *maintenance.Log) maintenanceResponse {
	resp := maintenanceResponse{
		ID:                l.ID,
		VehicleID:         l.VehicleID,
		PerformedBy:       l.PerformedBy,
		ServiceType:       l.ServiceType,
		Description:       l.Description,
		Cost:              l.Cost,
		StartDate:         l.StartDate.Format("2006-01-02"),
		VendorName:        l.VendorName,
		OdometerAtService: l.OdometerAtService,
		IsActive:          l.IsActive,
		CreatedAt:         l.CreatedAt,
		UpdatedAt:         l.UpdatedAt,
	}
	if l.EndDate != nil {
		v := l.EndDate.Format("2006-01-02")
		resp.EndDate = &v
	}
	return resp
}

func (h *MaintenanceHandler) Open(c *gin.Context) {
	var req openMaintenanceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	cmd := maintenance.OpenCommand{
		VehicleID:         types.ID(req.VehicleID),
		ServiceType:       req.ServiceType,
		Description:       req.Description,
		Cost:              req.Cost,
		VendorName:        req.VendorName,
		OdometerAtService: req.OdometerAtService,
		PerformedBy:       currentUserID(c),
	}
	if req.StartDate != nil {
		start, err := time.Parse("2006-01-02", *req.StartDate)
		if err != nil {
			writeError(c, http.StatusBadRequest, "invalid start_date, want YYYY-MM-DD")
			return
		}
		cmd.StartDate = start
	}
	l, err := h.maintenance.Open(c.Request.Context(), cmd)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, toMaintenanceResponse(l))
}

func (h *MaintenanceHandler) Close(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req closeMaintenanceReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, http.StatusBadRequest, "invalid json")
			return
		}
	}
	var endDate *time.Time
	if req.EndDate != nil {
		end, err := time.Parse("2006-01-02", *req.EndDate)
		if err != nil {
			writeError(c, http.StatusBadRequest, "invalid end_date, want YYYY-MM-DD")
			return
		}
		endDate = &end
	}
	l, err := h.maintenance.Close(c.Request.Context(), id, endDate, currentUserID(c))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toMaintenanceResponse(l))
}

func (h *MaintenanceHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	l, err := h.maintenance.Get(c.Request.Context(), id)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toMaintenanceResponse(l))
}

func (h *MaintenanceHandler) List(c *gin.Context) {
	var f maintenance.ListFilter
	if v := c.Query("vehicle_id"); v != "" {
		id := types.ID(v)
		f.VehicleID = &id
	}
	if v := c.Query("is_active"); v != "" {
		active := v == "true"
		f.IsActive = &active
	}
	f.Offset = intQuery(c, "skip", 0)
	f.Limit = intQuery(c, "limit", 100)

	list, err := h.maintenance.List(c.Request.Context(), f)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	out := make([]maintenanceResponse, 0, len(list))
	for _, l := range list {
		out = append(out, toMaintenanceResponse(l))
	}
	writeJSON(c, http.StatusOK, out)
}
