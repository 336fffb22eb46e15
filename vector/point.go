package vector

import (
	"strconv"
	"strings"
)

// Point is an immutable coordinate vector. The zero value is a point with
// no coordinates; use New to construct a usable one.
type Point struct {
	coords []float64
}

// New constructs a point from the provided coordinates. The slice is copied
// so later changes by the caller do not affect the point.
func New(coords ...float64) (Point, error) {
	if len(coords) == 0 {
		return Point{}, ErrEmptyPoint
	}
	return Point{coords: append([]float64(nil), coords...)}, nil
}

// MustNew is like New but panics on an empty coordinate list. It is intended
// for literals in tests and examples.
func MustNew(coords ...float64) Point {
	p, err := New(coords...)
	if err != nil {
		panic(err)
	}
	return p
}

// FromFloat32 converts a float32 embedding into a point.
func FromFloat32(embedding []float32) (Point, error) {
	if len(embedding) == 0 {
		return Point{}, ErrEmptyPoint
	}
	coords := make([]float64, len(embedding))
	for i, v := range embedding {
		coords[i] = float64(v)
	}
	return Point{coords: coords}, nil
}

// Dim returns the number of coordinates.
func (p Point) Dim() int { return len(p.coords) }

// At returns the coordinate at axis i.
func (p Point) At(i int) float64 { return p.coords[i] }

// Coordinates returns a copy of the coordinates.
func (p Point) Coordinates() []float64 {
	return append([]float64(nil), p.coords...)
}

// Equal reports whether both points have the same dimension and identical
// coordinates.
func (p Point) Equal(o Point) bool {
	if len(p.coords) != len(o.coords) {
		return false
	}
	for i := range p.coords {
		if p.coords[i] != o.coords[i] {
			return false
		}
	}
	return true
}

func (p Point) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, v := range p.coords {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	b.WriteByte(')')
	return b.String()
}

// values exposes the backing slice to package internals that only read it.
func (p Point) values() []float64 { return p.coords }
