package vector

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Similarity returns the cosine similarity of p and q in [-1, 1]. When either
// point has zero magnitude the similarity is 0. Both points must have the same
// dimension; use CheckedSimilarity when that is not already established.
//
// Coordinates are scaled by the norms before they are multiplied, so points
// whose dot product would overflow or underflow still score correctly.
func Similarity(p, q Point) float64 {
	a, b := p.values(), q.values()
	na := floats.Norm(a, 2)
	nb := floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += (a[i] / na) * (b[i] / nb)
	}
	return max(-1, min(1, dot))
}

// CheckedSimilarity is Similarity with a dimension check.
func CheckedSimilarity(p, q Point) (float64, error) {
	if p.Dim() != q.Dim() {
		return 0, &DimensionError{Want: p.Dim(), Got: q.Dim(), Position: -1}
	}
	return Similarity(p, q), nil
}

// Magnitude returns the Euclidean norm of p.
func Magnitude(p Point) float64 { return floats.Norm(p.values(), 2) }

// Finite reports whether every coordinate of p is a finite number.
func Finite(p Point) bool {
	for _, v := range p.values() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
