package uuidx

import "github.com/google/uuid"

// New returns a fresh V7 UUID. V7 IDs sort by creation time, which keeps
// run and turn identifiers naturally ordered in logs.
func New() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}

// NewString returns a fresh V7 UUID in its string form.
func NewString() string {
	return New().String()
}
