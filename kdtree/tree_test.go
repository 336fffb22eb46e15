package kdtree

import (
	"errors"
	"math"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/kdcos/vector"
)

var strategies = []PruneStrategy{PruneCosineBound, PruneAxisGap, PruneNone}

func points(coords ...[]float64) []vector.Point {
	out := make([]vector.Point, len(coords))
	for i, c := range coords {
		out[i] = vector.MustNew(c...)
	}
	return out
}

func scenarioPoints() []vector.Point {
	return points(
		[]float64{4.5, 4.0}, []float64{7.5, 5.0}, []float64{12.0, 8.0}, []float64{3.5, 10.2},
		[]float64{11.0, 11.9}, []float64{14.8, 11.4}, []float64{19.0, 17.5}, []float64{8.8, 15.8},
		[]float64{15.0, 14.0}, []float64{19.0, 12.0}, []float64{21.5, 8.6}, []float64{17.5, 6.5},
		[]float64{13.2, 5.7}, []float64{5.0, 17.7},
	)
}

// bruteForce returns the highest similarity to q over pts.
func bruteForce(pts []vector.Point, q vector.Point) float64 {
	best := math.Inf(-1)
	for _, p := range pts {
		if s := vector.Similarity(p, q); s > best {
			best = s
		}
	}
	return best
}

func randomPoint(r *rand.Rand, dim int, scale float64) vector.Point {
	coords := make([]float64, dim)
	for i := range coords {
		coords[i] = (r.Float64()*2 - 1) * scale
	}
	return vector.MustNew(coords...)
}

func TestNearest_Scenario(t *testing.T) {
	query := vector.MustNew(9.0, 13.0)
	want := vector.MustNew(8.8, 15.8)

	for _, s := range strategies {
		for _, presort := range []bool{false, true} {
			opts := []Option{WithPruning(s)}
			if presort {
				opts = append(opts, WithSumPresort())
			}
			tree, err := Build(scenarioPoints(), opts...)
			require.NoError(t, err)

			got, ok, err := tree.Nearest(query)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Truef(t, got.Point.Equal(want), "%v presort=%v: Nearest = %v, want %v", s, presort, got.Point, want)
			assert.Equal(t, 7, got.Index)
			assert.InDelta(t, vector.Similarity(want, query), got.Similarity, 1e-15)
		}
	}
}

func TestBuild_ScenarioShape(t *testing.T) {
	tree, err := Build(scenarioPoints())
	require.NoError(t, err)
	assert.Equal(t, 14, tree.Len())
	assert.Equal(t, 2, tree.Dim())
	assert.Equal(t, 4, tree.Depth())

	var root vector.Point
	tree.Do(func(p vector.Point, _, depth int) bool {
		require.Equal(t, 0, depth)
		root = p
		return true
	})
	assert.True(t, root.Equal(vector.MustNew(13.2, 5.7)), "root = %v", root)
}

func TestNearest_EmptyTree(t *testing.T) {
	for _, input := range [][]vector.Point{nil, {}} {
		tree, err := Build(input)
		require.NoError(t, err)
		assert.Equal(t, 0, tree.Len())
		assert.Equal(t, 0, tree.Depth())

		for _, q := range []vector.Point{vector.MustNew(1, 2), vector.MustNew(0), vector.MustNew(1, 2, 3, 4), {}} {
			got, ok, err := tree.Nearest(q)
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Equal(t, Neighbor{}, got)
		}
	}

	var zero Tree
	_, ok, err := zero.Nearest(vector.MustNew(1))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBuild_DimensionMismatch(t *testing.T) {
	_, err := Build(points([]float64{1, 2}, []float64{3, 4}, []float64{5, 6, 7}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, vector.ErrDimensionMismatch))

	var dimErr *vector.DimensionError
	require.True(t, errors.As(err, &dimErr))
	assert.Equal(t, 2, dimErr.Want)
	assert.Equal(t, 3, dimErr.Got)
	assert.Equal(t, 2, dimErr.Position)
}

func TestBuild_InvalidPoints(t *testing.T) {
	_, err := Build([]vector.Point{{}})
	assert.True(t, errors.Is(err, vector.ErrEmptyPoint), "err = %v", err)

	_, err = Build(points([]float64{1, 2}, []float64{math.NaN(), 1}))
	assert.True(t, errors.Is(err, vector.ErrInvalidCoordinate), "err = %v", err)

	_, err = Build(points([]float64{math.Inf(1)}))
	assert.True(t, errors.Is(err, vector.ErrInvalidCoordinate), "err = %v", err)
}

func TestNearest_QueryValidation(t *testing.T) {
	tree, err := Build(scenarioPoints())
	require.NoError(t, err)

	_, _, err = tree.Nearest(vector.MustNew(1, 2, 3))
	assert.True(t, errors.Is(err, vector.ErrDimensionMismatch), "err = %v", err)

	_, _, err = tree.Nearest(vector.Point{})
	assert.True(t, errors.Is(err, vector.ErrDimensionMismatch), "err = %v", err)

	_, _, err = tree.Nearest(vector.MustNew(math.NaN(), 1))
	assert.True(t, errors.Is(err, vector.ErrInvalidCoordinate), "err = %v", err)
}

func TestBuild_DoesNotReorderInput(t *testing.T) {
	input := scenarioPoints()
	orig := scenarioPoints()
	_, err := Build(input, WithSumPresort())
	require.NoError(t, err)
	for i := range input {
		require.Truef(t, input[i].Equal(orig[i]), "input[%d] = %v, want %v", i, input[i], orig[i])
	}
}

type visit struct {
	point vector.Point
	index int
	depth int
}

func traversal(tree *Tree) []visit {
	var out []visit
	tree.Do(func(p vector.Point, index, depth int) bool {
		out = append(out, visit{point: p, index: index, depth: depth})
		return false
	})
	return out
}

func TestBuild_Deterministic(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	pts := make([]vector.Point, 40)
	for i := range pts {
		// a coarse grid forces ties on every axis
		pts[i] = vector.MustNew(float64(r.IntN(4)), float64(r.IntN(4)), float64(r.IntN(4)))
	}

	a, err := Build(pts)
	require.NoError(t, err)
	b, err := Build(pts)
	require.NoError(t, err)

	ta, tb := traversal(a), traversal(b)
	require.Len(t, ta, len(pts))
	require.Len(t, tb, len(pts))
	for i := range ta {
		assert.Truef(t, ta[i].point.Equal(tb[i].point), "node %d: %v != %v", i, ta[i].point, tb[i].point)
		assert.Equal(t, ta[i].index, tb[i].index)
		assert.Equal(t, ta[i].depth, tb[i].depth)
	}
}

// checkPartition verifies the split invariant at every node.
func checkPartition(t *testing.T, n *node, depth, dim int) {
	t.Helper()
	if n == nil {
		return
	}
	axis := depth % dim
	split := n.point.At(axis)
	forEach(n.left, func(m *node) {
		assert.LessOrEqualf(t, m.point.At(axis), split, "left of %v holds %v on axis %d", n.point, m.point, axis)
	})
	forEach(n.right, func(m *node) {
		assert.GreaterOrEqualf(t, m.point.At(axis), split, "right of %v holds %v on axis %d", n.point, m.point, axis)
	})
	checkPartition(t, n.left, depth+1, dim)
	checkPartition(t, n.right, depth+1, dim)
}

func forEach(n *node, fn func(*node)) {
	if n == nil {
		return
	}
	fn(n)
	forEach(n.left, fn)
	forEach(n.right, fn)
}

func TestBuild_PartitionInvariant(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 5))
	for trial := 0; trial < 50; trial++ {
		dim := 1 + r.IntN(5)
		pts := make([]vector.Point, 1+r.IntN(60))
		for i := range pts {
			pts[i] = randomPoint(r, dim, 10)
		}
		tree, err := Build(pts)
		require.NoError(t, err)
		checkPartition(t, tree.root, 0, dim)

		// median splitting keeps the tree balanced
		assert.LessOrEqual(t, tree.Depth(), int(math.Ceil(math.Log2(float64(len(pts)+1)))))
	}
}

func TestNearest_SelfQuery(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	pts := make([]vector.Point, 50)
	for i := range pts {
		pts[i] = randomPoint(r, 3, 100)
	}
	for _, s := range []PruneStrategy{PruneCosineBound, PruneNone} {
		tree, err := Build(pts, WithPruning(s))
		require.NoError(t, err)
		for i, p := range pts {
			got, ok, err := tree.Nearest(p)
			require.NoError(t, err)
			require.True(t, ok)
			assert.InDelta(t, 1.0, got.Similarity, 1e-12)
			assert.Truef(t, got.Point.Equal(p), "%v: Nearest(%v) = %v", s, p, got.Point)
			assert.Equal(t, i, got.Index)
		}
	}
}

func TestNearest_MatchesBruteForce(t *testing.T) {
	r := rand.New(rand.NewPCG(42, 1024))
	for _, s := range []PruneStrategy{PruneCosineBound, PruneNone} {
		for trial := 0; trial < 300; trial++ {
			dim := 2 + r.IntN(4)
			scale := []float64{0.01, 1, 100}[r.IntN(3)]
			pts := make([]vector.Point, 1+r.IntN(50))
			for i := range pts {
				pts[i] = randomPoint(r, dim, scale)
			}
			tree, err := Build(pts, WithPruning(s))
			require.NoError(t, err)

			for m := 0; m < 5; m++ {
				q := randomPoint(r, dim, scale)
				got, ok, err := tree.Nearest(q)
				require.NoError(t, err)
				require.True(t, ok)
				want := bruteForce(pts, q)
				require.InDeltaf(t, want, got.Similarity, 1e-12, "%v: trial %d query %v: got %v", s, trial, q, got.Point)
				require.Equal(t, got.Similarity, vector.Similarity(q, got.Point))
			}
		}
	}
}

// The axis-gap rule compares a coordinate distance with a similarity score.
// With coordinates below 1 it skips subtrees holding the true best match.
func TestNearest_AxisGapMissesTrueBest(t *testing.T) {
	pts := points([]float64{-0.8, -0.5}, []float64{0.7, 0.3}, []float64{-0.7, 0.2}, []float64{-0.2, -0.5})
	query := vector.MustNew(-0.2, 0.8)
	want := vector.MustNew(-0.7, 0.2)

	reference, err := Build(pts, WithPruning(PruneAxisGap))
	require.NoError(t, err)
	got, ok, err := reference.Nearest(query)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got.Point.Equal(vector.MustNew(0.7, 0.3)), "axis-gap Nearest = %v", got.Point)
	assert.Less(t, got.Similarity, vector.Similarity(want, query))

	bounded, err := Build(pts)
	require.NoError(t, err)
	got, ok, err = bounded.Nearest(query)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got.Point.Equal(want), "cosine Nearest = %v, want %v", got.Point, want)
}

func TestNearest_ZeroMagnitude(t *testing.T) {
	for _, s := range strategies {
		tree, err := Build(scenarioPoints(), WithPruning(s))
		require.NoError(t, err)
		got, ok, err := tree.Nearest(vector.MustNew(0, 0))
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, 0.0, got.Similarity)
		assert.False(t, math.IsNaN(got.Similarity))

		withZero, err := Build(points([]float64{0, 0}, []float64{1, 2}, []float64{-3, 1}), WithPruning(s))
		require.NoError(t, err)
		got, ok, err = withZero.Nearest(vector.MustNew(1, 2.1))
		require.NoError(t, err)
		require.True(t, ok)
		assert.True(t, got.Point.Equal(vector.MustNew(1, 2)), "%v: Nearest = %v", s, got.Point)
	}
}

func TestNearest_ExtremeMagnitudes(t *testing.T) {
	for _, scale := range []float64{1e200, 1e-200} {
		pts := points(
			[]float64{1 * scale, 0},
			[]float64{0, 1 * scale},
			[]float64{-1 * scale, 1 * scale},
			[]float64{-1 * scale, -2 * scale},
			[]float64{3 * scale, 1 * scale},
		)
		for _, s := range strategies {
			tree, err := Build(pts, WithPruning(s))
			require.NoError(t, err)
			got, ok, err := tree.Nearest(vector.MustNew(2*scale, 1*scale))
			require.NoError(t, err)
			require.True(t, ok)
			assert.False(t, math.IsNaN(got.Similarity), "%v scale %g", s, scale)
			assert.Equal(t, 4, got.Index, "%v scale %g: Nearest = %v", s, scale, got.Point)

			got, _, err = tree.Nearest(vector.MustNew(-1*scale, 1.1*scale))
			require.NoError(t, err)
			assert.Equal(t, 2, got.Index, "%v scale %g: Nearest = %v", s, scale, got.Point)
		}
	}
}

func TestNearestWithStats_Prunes(t *testing.T) {
	var pts []vector.Point
	for x := -3; x <= 3; x++ {
		for y := -3; y <= 3; y++ {
			if x == 0 && y == 0 {
				continue
			}
			pts = append(pts, vector.MustNew(float64(x), float64(y)))
		}
	}
	bounded, err := Build(pts)
	require.NoError(t, err)
	exhaustive, err := Build(pts, WithPruning(PruneNone))
	require.NoError(t, err)

	for _, q := range []vector.Point{vector.MustNew(1, 0.2), vector.MustNew(-2, -1), vector.MustNew(0.5, 3)} {
		b, _, bStats, err := bounded.NearestWithStats(q)
		require.NoError(t, err)
		e, _, eStats, err := exhaustive.NearestWithStats(q)
		require.NoError(t, err)

		assert.Equal(t, len(pts), eStats.Visited)
		assert.Zero(t, eStats.Pruned)
		assert.Less(t, bStats.Visited, eStats.Visited)
		assert.Positive(t, bStats.Pruned)
		assert.Equal(t, e.Similarity, b.Similarity)
	}
}

func TestNearest_ConcurrentQueries(t *testing.T) {
	r := rand.New(rand.NewPCG(9, 9))
	pts := make([]vector.Point, 200)
	for i := range pts {
		pts[i] = randomPoint(r, 4, 1)
	}
	queries := make([]vector.Point, 32)
	for i := range queries {
		queries[i] = randomPoint(r, 4, 1)
	}
	tree, err := Build(pts)
	require.NoError(t, err)

	want := make([]Neighbor, len(queries))
	for i, q := range queries {
		want[i], _, err = tree.Nearest(q)
		require.NoError(t, err)
	}

	got := make([]Neighbor, len(queries))
	var wg sync.WaitGroup
	for i := range queries {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i], _, _ = tree.Nearest(queries[i])
		}(i)
	}
	wg.Wait()
	for i := range queries {
		assert.Equal(t, want[i].Index, got[i].Index)
	}
}
