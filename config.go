package redishelf

import "golang.org/x/crypto/bcrypt"

// Configuration constants for bookstore persistence
const (
	// DefaultHashCost is the bcrypt cost factor applied to user passwords.
	DefaultHashCost = 11

	// DefaultPageSize is the result-window size used when a caller does
	// not pick one.
	DefaultPageSize = 10

	// MaxAuthorFields bounds how many author positions a book persists
	// and indexes (authors.[0] .. authors.[4]). Positions past the bound
	// are dropped at write time.
	MaxAuthorFields = 5
)

// ValidateHashCost checks a bcrypt cost factor before it is used.
func ValidateHashCost(cost int) error {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return WithContext(ErrInvalidData, map[string]interface{}{
			"field":  "hashCost",
			"value":  cost,
			"reason": "outside bcrypt cost range",
		})
	}
	return nil
}

// ValidatePage checks pagination parameters. Pages are zero-based.
func ValidatePage(page, pageSize int) error {
	if page < 0 {
		return WithContext(ErrInvalidData, map[string]interface{}{
			"field":  "page",
			"value":  page,
			"reason": "must be non-negative",
		})
	}
	if pageSize <= 0 {
		return WithContext(ErrInvalidData, map[string]interface{}{
			"field":  "pageSize",
			"value":  pageSize,
			"reason": "must be positive",
		})
	}
	return nil
}
