package kdtree

import (
	"fmt"
	"math"
	"strings"

	"github.com/viant/kdcos/vector"
)

// PruneStrategy selects when a query may skip the far subtree of a node.
type PruneStrategy int

const (
	// PruneCosineBound skips a subtree only when no point in its half-space
	// can be more similar than the current best.
	PruneCosineBound PruneStrategy = iota
	// PruneAxisGap searches the far subtree only when the coordinate gap on
	// the split axis exceeds the current best similarity.
	PruneAxisGap
	// PruneNone searches every subtree.
	PruneNone
)

// boundSlack absorbs rounding differences between the bound and computed
// similarities so that equal values never cause a skip.
const boundSlack = 1e-9

func (s PruneStrategy) String() string {
	switch s {
	case PruneCosineBound:
		return "cosine"
	case PruneAxisGap:
		return "axis-gap"
	case PruneNone:
		return "none"
	default:
		return fmt.Sprintf("PruneStrategy(%d)", int(s))
	}
}

// ParsePruneStrategy resolves a strategy from its name.
func ParsePruneStrategy(name string) (PruneStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "cosine", "cosine-bound", "bound":
		return PruneCosineBound, nil
	case "axis-gap", "axisgap", "gap", "reference":
		return PruneAxisGap, nil
	case "none", "off", "exhaustive":
		return PruneNone, nil
	}
	return 0, fmt.Errorf("kdtree: unknown pruning strategy %q", name)
}

// visitFar reports whether the far child of a node split at split on axis
// has to be searched. upper is true when the far child holds the points with
// coordinate >= split.
func (s PruneStrategy) visitFar(q vector.Point, qnorm float64, axis int, split float64, upper bool, best float64) bool {
	switch s {
	case PruneAxisGap:
		return math.Abs(q.At(axis)-split) > best
	case PruneNone:
		return true
	default:
		return cosineBound(q, qnorm, axis, split, upper)+boundSlack > best
	}
}

// cosineBound returns an upper bound on the cosine similarity between q and
// any point of the half-space x[axis] >= split (upper) or x[axis] <= split.
//
// A half-space that contains the origin in its interior reaches every
// direction, so the bound is 1. Otherwise it reaches exactly the directions
// whose axis component has the half-space's sign (or is zero). If q points
// that way it is itself reachable; if not, the closest reachable direction is
// q with its axis component dropped.
func cosineBound(q vector.Point, qnorm float64, axis int, split float64, upper bool) float64 {
	if qnorm == 0 {
		return 0
	}
	qa := q.At(axis)
	if upper {
		if split < 0 || qa >= 0 {
			return 1
		}
	} else if split > 0 || qa <= 0 {
		return 1
	}
	var rest float64
	for i := 0; i < q.Dim(); i++ {
		if i != axis {
			u := q.At(i) / qnorm
			rest += u * u
		}
	}
	return math.Sqrt(rest)
}
