package ids

import "github.com/segmentio/ksuid"

// New returns a time-sortable identifier for append-only rows.
func New() string {
	return ksuid.New().String()
}
