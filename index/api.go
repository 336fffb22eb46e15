package index

import "github.com/viant/kdcos/vector"

// Match is the answer to a nearest-neighbor query.
type Match struct {
	ID    string
	Point vector.Point
	// Score is the cosine similarity to the query; higher is more similar.
	Score float64
}

// Index defines a build-once point index.
type Index interface {
	// Build constructs the index from the given ids and points.
	// ids and points must have the same length and every point the same
	// dimension.
	Build(ids []string, points []vector.Point) error

	// Nearest returns the point most similar to query. The boolean is false
	// when the index is empty.
	Nearest(query vector.Point) (Match, bool, error)
}
