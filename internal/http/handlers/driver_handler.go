// README: Driver handlers: CRUD, status history, license alerts.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fleetops/internal/alerts"
	"fleetops/internal/modules/driver"
	"fleetops/internal/types"
)

type DriverHandler struct {
	drivers *driver.Service
	alerts  *alerts.Service
}

func NewDriverHandler(svc *driver.Service, alertSvc *alerts.Service) *DriverHandler {
	return &DriverHandler{drivers: svc, alerts: alertSvc}
}

type createDriverReq struct {
	FullName          string  `json:"full_name"`
	EmployeeID        *string `json:"employee_id"`
	Phone             *string `json:"phone"`
	Email             *string `json:"email"`
	LicenseNumber     string  `json:"license_number"`
	LicenseCategory   string  `json:"license_category"`
	LicenseExpiryDate string  `json:"license_expiry_date"`
	Notes             *string `json:"notes"`
}

type updateDriverReq struct {
	FullName          *string  `json:"full_name"`
	EmployeeID        *string  `json:"employee_id"`
	Phone             *string  `json:"phone"`
	Email             *string  `json:"email"`
	LicenseNumber     *string  `json:"license_number"`
	LicenseCategory   *string  `json:"license_category"`
	LicenseExpiryDate *string  `json:"license_expiry_date"`
	SafetyScore       *float64 `json:"safety_score"`
	Status            *string  `json:"status"`
	Notes             *string  `json:"notes"`
	Reason            *string  `json:"reason"`
}

type driverResponse struct {
	ID                types.ID      `json:"id"`
	FullName          string        `json:"full_name"`
	EmployeeID        *string       `json:"employee_id,omitempty"`
	Phone             *string       `json:"phone,omitempty"`
	Email             *string       `json:"email,omitempty"`
	LicenseNumber     string        `json:"license_number"`
	LicenseCategory   string        `json:"license_category"`
	LicenseExpiryDate string        `json:"license_expiry_date"`
	SafetyScore       float64       `json:"safety_score"`
	Status            driver.Status `json:"status"`
	TripsCompleted    int           `json:"trips_completed"`
	TripsTotal        int           `json:"trips_total"`
	Notes             *string       `json:"notes,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

func toDriverResponse(d *driver.Driver) driverResponse {
	return driverResponse{
		ID:                d.ID,
		FullName:          d.FullName,
		EmployeeID:        d.EmployeeID,
		Phone:             d.Phone,
		Email:             d.Email,
		LicenseNumber:     d.LicenseNumber,
		LicenseCategory:   d.LicenseCategory,
		LicenseExpiryDate: d.LicenseExpiryDate.Format("2006-01-02"),
		SafetyScore:       d.SafetyScore,
		Status:            d.Status,
		TripsCompleted:    d.TripsCompleted,
		TripsTotal:        d.TripsTotal,
		Notes:             d.Notes,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}

type driverHistoryResponse struct {
	ID        types.ID       `json:"id"`
	DriverID  types.ID       `json:"driver_id"`
	OldStatus *driver.Status `json:"old_status,omitempty"`
	NewStatus driver.Status  `json:"new_status"`
	Reason    *string        `json:"reason,omitempty"`
	ChangedBy *types.ID      `json:"changed_by,omitempty"`
	ChangedAt time.Time      `json:"changed_at"`
}

func (h *DriverHandler) Create(c *gin.Context) {
	var req createDriverReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	expiry, err := time.Parse("2006-01-02", req.LicenseExpiryDate)
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid license_expiry_date, want YYYY-MM-DD")
		return
	}
	d, err := h.drivers.Create(c.Request.Context(), driver.CreateCommand{
		FullName:          req.FullName,
		EmployeeID:        req.EmployeeID,
		Phone:             req.Phone,
		Email:             req.Email,
		LicenseNumber:     req.LicenseNumber,
		LicenseCategory:   req.LicenseCategory,
		LicenseExpiryDate: expiry,
		Notes:             req.Notes,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	h.alerts.Invalidate(c.Request.Context())
	writeJSON(c, http.StatusCreated, toDriverResponse(d))
}

func (h *DriverHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	d, err := h.drivers.Get(c.Request.Context(), id)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toDriverResponse(d))
}

func (h *DriverHandler) List(c *gin.Context) {
	var f driver.ListFilter
	if v := c.Query("status"); v != "" {
		status := driver.Status(v)
		if !status.Valid() {
			writeError(c, http.StatusBadRequest, "invalid status filter")
			return
		}
		f.Status = &status
	}
	f.Offset = intQuery(c, "skip", 0)
	f.Limit = intQuery(c, "limit", 100)

	list, err := h.drivers.List(c.Request.Context(), f)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	out := make([]driverResponse, 0, len(list))
	for _, d := range list {
		out = append(out, toDriverResponse(d))
	}
	writeJSON(c, http.StatusOK, out)
}

func (h *DriverHandler) Available(c *gin.Context) {
	list, err := h.drivers.Available(c.Request.Context())
	if err != nil {
		writeDomainError(c, err)
		return
	}
	out := make([]driverResponse, 0, len(list))
	for _, d := range list {
		out = append(out, toDriverResponse(d))
	}
	writeJSON(c, http.StatusOK, out)
}

func (h *DriverHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updateDriverReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	cmd := driver.UpdateCommand{
		FullName:        req.FullName,
		EmployeeID:      req.EmployeeID,
		Phone:           req.Phone,
		Email:           req.Email,
		LicenseNumber:   req.LicenseNumber,
		LicenseCategory: req.LicenseCategory,
		SafetyScore:     req.SafetyScore,
		Notes:           req.Notes,
		Reason:          req.Reason,
		ChangedBy:       currentUserID(c),
	}
	if req.LicenseExpiryDate != nil {
		expiry, err := time.Parse("2006-01-02", *req.LicenseExpiryDate)
		if err != nil {
			writeError(c, http.StatusBadRequest, "invalid license_expiry_date, want YYYY-MM-DD")
			return
		}
		cmd.LicenseExpiryDate = &expiry
	}
	if req.Status != nil {
		status := driver.Status(*req.Status)
		cmd.Status = &status
	}
	d, err := h.drivers.Update(c.Request.Context(), id, cmd)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	h.alerts.Invalidate(c.Request.Context())
	writeJSON(c, http.StatusOK, toDriverResponse(d))
}

func (h *DriverHandler) History(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	entries, err := h.drivers.History(c.Request.Context(), id)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	out := make([]driverHistoryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, driverHistoryResponse{
			ID:        e.ID,
			DriverID:  e.DriverID,
			OldStatus: e.OldStatus,
			NewStatus: e.NewStatus,
			Reason:    e.Reason,
			ChangedBy: e.ChangedBy,
			ChangedAt: e.ChangedAt,
		})
	}
	writeJSON(c, http.StatusOK, out)
}

// ExpiringLicenses serves the safety alert view, soonest-expiring
// first, through the Redis-backed cache.
func (h *DriverHandler) ExpiringLicenses(c *gin.Context) {
	withinDays := intQuery(c, "within_days", 30)
	list, err := h.alerts.ExpiringLicenses(c.Request.Context(), withinDays)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	out := make([]driverResponse, 0, len(list))
	for _, d := range list {
		out = append(out, toDriverResponse(d))
	}
	writeJSON(c, http.StatusOK, out)
}
