// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fleetops/internal/fleeterr"
	"fleetops/internal/modules/driver"
	"fleetops/internal/modules/maintenance"
	"fleetops/internal/modules/trip"
	"fleetops/internal/modules/user"
	"fleetops/internal/modules/vehicle"
	"fleetops/internal/types"
)

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// writeDomainError maps service errors onto HTTP statuses: missing
// entities are 404, business-rule rejections and illegal transitions
// are 409, malformed input is 400.
func writeDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, trip.ErrBadRequest),
		errors.Is(err, vehicle.ErrBadRequest),
		errors.Is(err, driver.ErrBadRequest),
		errors.Is(err, maintenance.ErrBadRequest),
		errors.Is(err, user.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case fleeterr.IsNotFound(err):
		writeError(c, http.StatusNotFound, err.Error())
	case fleeterr.IsConflict(err):
		writeJSON(c, http.StatusConflict, errorResponse{
			Error:  err.Error(),
			Reason: fleeterr.ConflictReason(err),
		})
	case fleeterr.IsInvalidTransition(err):
		writeError(c, http.StatusConflict, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func pathID(c *gin.Context, name string) (types.ID, bool) {
	id := types.ID(c.Param(name))
	if !id.Valid() {
		writeError(c, http.StatusBadRequest, "invalid id")
		return "", false
	}
	return id, true
}

func intQuery(c *gin.Context, name string, def int) int {
	v := c.Query(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}

// currentUserID returns the authenticated user's id, or nil when the
// request carries no user (audit columns are nullable).
func currentUserID(c *gin.Context) *types.ID {
	v, ok := c.Get("user")
	if !ok {
		return nil
	}
	u, ok := v.(*user.User)
	if !ok {
		return nil
	}
	id := u.ID
	return &id
}
