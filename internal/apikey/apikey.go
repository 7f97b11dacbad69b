package apikey

import "github.com/google/uuid"

// New returns a time-ordered version 1 UUID. It falls back to a random
// version 4 UUID when the clock sequence cannot be read.
func New() string {
	id, err := uuid.NewUUID()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
