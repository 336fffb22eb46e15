package kdtree

import "github.com/viant/kdcos/vector"

type node struct {
	point vector.Point
	index int // position in the input batch
	left  *node
	right *node
}

// Neighbor is the result of a nearest-neighbor query.
type Neighbor struct {
	Point vector.Point
	// Index is the position of Point in the slice passed to Build.
	Index int
	// Similarity is the cosine similarity between Point and the query.
	Similarity float64
}

// Stats describes the work done by a single query.
type Stats struct {
	// Visited counts nodes whose point was compared with the query.
	Visited int
	// Pruned counts subtrees skipped by the pruning strategy.
	Pruned int
}
