package vector

import (
	"errors"
	"fmt"
)

var (
	// ErrDimensionMismatch reports points that do not share a dimension.
	ErrDimensionMismatch = errors.New("vector: dimension mismatch")
	// ErrEmptyPoint reports a point without coordinates.
	ErrEmptyPoint = errors.New("vector: point has no coordinates")
	// ErrInvalidCoordinate reports a NaN or infinite coordinate.
	ErrInvalidCoordinate = errors.New("vector: coordinate is not finite")
	// ErrRecordNotFound reports a record id missing from its dataset.
	ErrRecordNotFound = errors.New("vector: record not found")
)

// DimensionError describes a dimension mismatch. Position is the index of
// the offending point in its batch, or -1 for a single query point.
type DimensionError struct {
	Want     int
	Got      int
	Position int
}

func (e *DimensionError) Error() string {
	if e.Position < 0 {
		return fmt.Sprintf("vector: dimension mismatch: got %d, want %d", e.Got, e.Want)
	}
	return fmt.Sprintf("vector: dimension mismatch at point %d: got %d, want %d", e.Position, e.Got, e.Want)
}

// Unwrap allows errors.Is(err, ErrDimensionMismatch).
func (e *DimensionError) Unwrap() error { return ErrDimensionMismatch }
