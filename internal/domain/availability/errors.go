package availability

import (
	"errors"
	"fmt"
)

var (
	ErrSlotNotFound  = errors.New("availability slot not found")
	ErrInvalidCounts = errors.New("adult and dog counts must be non-negative")
)

// Capacity dimensions
const (
	DimensionAdults = "adults"
	DimensionDogs   = "dogs"
)

// CapacityError reports which dimension ran out of capacity and by how much.
// When both dimensions are exceeded, the one with the larger shortfall is
// reported (adults on a tie).
type CapacityError struct {
	Dimension string
	Requested int
	Available int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("capacity exceeded for %s: requested %d, available %d",
		e.Dimension, e.Requested, e.Available)
}

// Shortfall returns how many units over capacity the request was
func (e *CapacityError) Shortfall() int {
	return e.Requested - e.Available
}

// AsCapacityError unwraps err into a CapacityError if it is one
func AsCapacityError(err error) (*CapacityError, bool) {
	var capErr *CapacityError
	if errors.As(err, &capErr) {
		return capErr, true
	}
	return nil, false
}
