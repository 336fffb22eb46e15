package kd

import (
	"fmt"

	"github.com/viant/kdcos/index"
	"github.com/viant/kdcos/kdtree"
	"github.com/viant/kdcos/vector"
)

// Index implements index.Index on top of a KD-tree.
type Index struct {
	opts []kdtree.Option
	ids  []string
	tree *kdtree.Tree
}

// New creates an index whose tree is built with opts.
func New(opts ...kdtree.Option) *Index {
	return &Index{opts: opts}
}

// Build constructs the tree. On error the previous tree is kept.
func (i *Index) Build(ids []string, points []vector.Point) error {
	if len(ids) != len(points) {
		return fmt.Errorf("kd: ids and points length mismatch: %d != %d", len(ids), len(points))
	}
	tree, err := kdtree.Build(points, i.opts...)
	if err != nil {
		return err
	}
	i.ids = append([]string(nil), ids...)
	i.tree = tree
	return nil
}

// Nearest returns the most similar point found by the tree search.
func (i *Index) Nearest(query vector.Point) (index.Match, bool, error) {
	m, ok, _, err := i.NearestWithStats(query)
	return m, ok, err
}

// NearestWithStats is like Nearest and also reports search statistics.
func (i *Index) NearestWithStats(query vector.Point) (index.Match, bool, kdtree.Stats, error) {
	if i.tree == nil {
		return index.Match{}, false, kdtree.Stats{}, nil
	}
	nb, ok, stats, err := i.tree.NearestWithStats(query)
	if err != nil || !ok {
		return index.Match{}, ok, stats, err
	}
	return index.Match{ID: i.ids[nb.Index], Point: nb.Point, Score: nb.Similarity}, true, stats, nil
}

// Tree returns the underlying tree, or nil before Build.
func (i *Index) Tree() *kdtree.Tree { return i.tree }

var _ index.Index = (*Index)(nil)
