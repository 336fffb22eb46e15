// Package kdtree implements a build-once KD-tree that answers single
// nearest-neighbor queries under cosine similarity.
//
// Construction partitions the input by the median along an axis that cycles
// with depth (axis = depth mod D). Queries descend towards the query point,
// then backtrack and decide per node whether the sibling subtree has to be
// searched as well. That decision is governed by a PruneStrategy:
//
//   - PruneCosineBound (default) skips a subtree only when an upper bound on
//     the cosine similarity of any point in its half-space cannot beat the
//     current best, so the answer always matches an exhaustive scan.
//   - PruneAxisGap compares the raw coordinate gap on the split axis with the
//     current best similarity. It mixes two unrelated units and can miss the
//     most similar point, especially for coordinates smaller than 1.
//   - PruneNone visits every node.
//
// A Tree is immutable once Build returns and may be queried from multiple
// goroutines without locking. Median splitting keeps the height at
// ceil(log2(n+1)), which bounds the recursion depth of both build and query.
package kdtree
