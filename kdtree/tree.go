package kdtree

import (
	"fmt"
	"sort"

	"github.com/viant/kdcos/vector"
	"gonum.org/v1/gonum/floats"
)

// Tree is a KD-tree over points of a single dimension. The zero value is an
// empty tree.
type Tree struct {
	root    *node
	dim     int
	size    int
	height  int
	pruning PruneStrategy
}

// Build constructs a tree from points. An empty batch yields an empty tree.
// Every point must have the dimension of the first one and finite
// coordinates; otherwise Build fails before any tree work. The points slice
// is not modified.
func Build(points []vector.Point, opts ...Option) (*Tree, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	t := &Tree{pruning: o.pruning}
	if len(points) == 0 {
		return t, nil
	}

	dim := points[0].Dim()
	if dim == 0 {
		return nil, fmt.Errorf("kdtree: point 0: %w", vector.ErrEmptyPoint)
	}
	items := make([]node, len(points))
	for i, p := range points {
		if p.Dim() != dim {
			return nil, &vector.DimensionError{Want: dim, Got: p.Dim(), Position: i}
		}
		if !vector.Finite(p) {
			return nil, fmt.Errorf("kdtree: point %d: %w", i, vector.ErrInvalidCoordinate)
		}
		items[i] = node{point: p, index: i}
	}
	if o.sumOrder {
		sums := make([]float64, len(items))
		for i := range items {
			sums[i] = floats.Sum(items[i].point.Coordinates())
		}
		sort.SliceStable(items, func(a, b int) bool {
			return sums[items[a].index] < sums[items[b].index]
		})
	}

	t.dim = dim
	t.size = len(points)
	t.root = t.build(items, 0)
	return t, nil
}

func (t *Tree) build(items []node, depth int) *node {
	if len(items) == 0 {
		return nil
	}
	if depth+1 > t.height {
		t.height = depth + 1
	}
	axis := depth % t.dim
	sort.SliceStable(items, func(a, b int) bool {
		return items[a].point.At(axis) < items[b].point.At(axis)
	})
	m := len(items) / 2
	n := &node{point: items[m].point, index: items[m].index}
	n.left = t.build(items[:m], depth+1)
	n.right = t.build(items[m+1:], depth+1)
	return n
}

// Dim returns the dimension of the indexed points, or 0 for an empty tree.
func (t *Tree) Dim() int { return t.dim }

// Len returns the number of indexed points.
func (t *Tree) Len() int { return t.size }

// Depth returns the height of the tree; an empty tree has depth 0.
func (t *Tree) Depth() int { return t.height }

// Pruning returns the strategy used by queries.
func (t *Tree) Pruning() PruneStrategy { return t.pruning }

// Do calls fn for every node in pre-order (node, left subtree, right subtree)
// with the node's point, its position in the build batch and its depth.
// Traversal stops early when fn returns true.
func (t *Tree) Do(fn func(p vector.Point, index, depth int) (done bool)) bool {
	return do(t.root, 0, fn)
}

func do(n *node, depth int, fn func(p vector.Point, index, depth int) bool) bool {
	if n == nil {
		return false
	}
	if fn(n.point, n.index, depth) {
		return true
	}
	return do(n.left, depth+1, fn) || do(n.right, depth+1, fn)
}

// Nearest returns the indexed point most similar to query. The boolean is
// false only when the tree is empty.
func (t *Tree) Nearest(query vector.Point) (Neighbor, bool, error) {
	nb, ok, _, err := t.NearestWithStats(query)
	return nb, ok, err
}

// NearestWithStats is like Nearest and also reports how many nodes were
// compared and how many subtrees were pruned.
func (t *Tree) NearestWithStats(query vector.Point) (Neighbor, bool, Stats, error) {
	if t == nil || t.root == nil {
		return Neighbor{}, false, Stats{}, nil
	}
	if query.Dim() != t.dim {
		return Neighbor{}, false, Stats{}, &vector.DimensionError{Want: t.dim, Got: query.Dim(), Position: -1}
	}
	if !vector.Finite(query) {
		return Neighbor{}, false, Stats{}, fmt.Errorf("kdtree: query: %w", vector.ErrInvalidCoordinate)
	}
	s := &searcher{
		query:   query,
		qnorm:   vector.Magnitude(query),
		dim:     t.dim,
		pruning: t.pruning,
	}
	best, sim := s.nearest(t.root, 0)
	return Neighbor{Point: best.point, Index: best.index, Similarity: sim}, true, s.stats, nil
}

type searcher struct {
	query   vector.Point
	qnorm   float64
	dim     int
	pruning PruneStrategy
	stats   Stats
}

// nearest returns the best node of the subtree rooted at n and its
// similarity, or nil for an empty subtree.
func (s *searcher) nearest(n *node, depth int) (*node, float64) {
	if n == nil {
		return nil, 0
	}
	axis := depth % s.dim
	split := n.point.At(axis)
	near, far := n.right, n.left
	farUpper := false
	if s.query.At(axis) < split {
		near, far = n.left, n.right
		farUpper = true
	}

	best, bestSim := s.nearest(near, depth+1)
	s.stats.Visited++
	if sim := vector.Similarity(s.query, n.point); best == nil || sim > bestSim {
		best, bestSim = n, sim
	}

	if far == nil {
		return best, bestSim
	}
	if !s.pruning.visitFar(s.query, s.qnorm, axis, split, farUpper, bestSim) {
		s.stats.Pruned++
		return best, bestSim
	}
	if other, sim := s.nearest(far, depth+1); other != nil && sim > bestSim {
		best, bestSim = other, sim
	}
	return best, bestSim
}
