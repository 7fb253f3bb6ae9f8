package models

import (
	"errors"
	"fmt"
)

// ErrProductNotFound is returned when the referenced product does not exist
// or has been soft deleted.
var ErrProductNotFound = errors.New("product not found")

// ValidationError reports a violated aggregate invariant or a rejected
// upload. Handlers map it to a 400 response via errors.As.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on '%s': %s", e.Field, e.Message)
}
