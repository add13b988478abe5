// README: Error taxonomy shared by the lifecycle services and the HTTP layer.
package fleeterr

import (
	"errors"
	"fmt"
)

// Conflict reasons are machine-readable; the Message carries the
// human-readable detail surfaced to the caller.
const (
	ReasonVehicleNotAvailable = "vehicle_not_available"
	ReasonDriverNotAvailable  = "driver_not_available"
	ReasonCapacityExceeded    = "capacity_exceeded"
	ReasonLicenseExpired      = "license_expired"
)

type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return e.Entity + " not found"
}

func NotFound(entity string) error {
	return &NotFoundError{Entity: entity}
}

type ConflictError struct {
	Reason  string
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func Conflict(reason, format string, args ...any) error {
	return &ConflictError{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot transition trip from '%s' to '%s'", e.From, e.To)
}

func InvalidTransition(from, to string) error {
	return &TransitionError{From: from, To: to}
}

func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

func IsConflict(err error) bool {
	var e *ConflictError
	return errors.As(err, &e)
}

func IsInvalidTransition(err error) bool {
	var e *TransitionError
	return errors.As(err, &e)
}

// ConflictReason returns the machine-readable reason, or "" if err is
// not a conflict.
func ConflictReason(err error) string {
	var e *ConflictError
	if errors.As(err, &e) {
		return e.Reason
	}
	return ""
}
