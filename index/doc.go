// Package index defines a minimal abstraction for point indexes that are
// built once from id-keyed points and answer single nearest-neighbor queries
// by cosine similarity. Implementations in this module include a brute-force
// baseline and a KD-tree.
package index
