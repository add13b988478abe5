// README: Common value types shared across modules.
package types

import (
	"time"

	"github.com/google/uuid"
)

// ID is a UUID string; stored as uuid in Postgres.
type ID string

func NewID() ID {
	return ID(uuid.NewString())
}

func (id ID) Valid() bool {
	_, err := uuid.Parse(string(id))
	return err == nil
}

// DateOnly truncates a timestamp to its calendar date (UTC).
// License expiry comparisons are date-precision, not instant-precision.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
