// Package bruteforce provides a point index that answers nearest-neighbor
// queries by scanning all points and scoring via cosine similarity. It is the
// reference that tree-based indexes are checked against.
package bruteforce
