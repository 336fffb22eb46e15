package bruteforce

import (
	"fmt"

	"github.com/viant/kdcos/index"
	"github.com/viant/kdcos/vector"
)

// Index is a simple brute-force point index implementing cosine similarity.
type Index struct {
	ids    []string
	points []vector.Point
	dim    int
}

// Build loads ids and points after validating their dimensions.
func (i *Index) Build(ids []string, points []vector.Point) error {
	if len(ids) != len(points) {
		return fmt.Errorf("bruteforce: ids and points length mismatch: %d != %d", len(ids), len(points))
	}
	if len(ids) == 0 {
		i.ids, i.points, i.dim = nil, nil, 0
		return nil
	}
	dim := points[0].Dim()
	if dim == 0 {
		return fmt.Errorf("bruteforce: point 0: %w", vector.ErrEmptyPoint)
	}
	for j, p := range points {
		if p.Dim() != dim {
			return &vector.DimensionError{Want: dim, Got: p.Dim(), Position: j}
		}
	}
	i.ids = append([]string(nil), ids...)
	i.points = append([]vector.Point(nil), points...)
	i.dim = dim
	return nil
}

// Nearest scans every point and returns the most similar one. Ties resolve to
// the earliest point in build order.
func (i *Index) Nearest(query vector.Point) (index.Match, bool, error) {
	if len(i.points) == 0 {
		return index.Match{}, false, nil
	}
	if query.Dim() != i.dim {
		return index.Match{}, false, &vector.DimensionError{Want: i.dim, Got: query.Dim(), Position: -1}
	}
	best, bestScore := -1, 0.0
	for j, p := range i.points {
		if s := vector.Similarity(query, p); best < 0 || s > bestScore {
			best, bestScore = j, s
		}
	}
	return index.Match{ID: i.ids[best], Point: i.points[best], Score: bestScore}, true, nil
}

// Len returns the number of indexed points.
func (i *Index) Len() int { return len(i.points) }

var _ index.Index = (*Index)(nil)
