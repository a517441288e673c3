package redishelf

import (
	"github.com/google/uuid"
)

// NewID generates a UUIDv7 (time-ordered) identifier for users and books.
// Cart ids are allocated from the shared Redis counter instead, so they
// stay small and monotonic.
//
// UUIDv7 ids sort by creation time and need no coordination between
// service instances. They contain no reserved delimiter, so they always
// pass ValidateID.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fall back to UUIDv4 if NewV7 fails (extremely rare)
		id = uuid.New()
	}
	return id.String()
}

// ParseID parses a UUID string
func ParseID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

// IsValidID checks if a string is a valid UUID
func IsValidID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
