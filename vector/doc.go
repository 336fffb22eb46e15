// Package vector defines the point model and the SQLite-backed utilities
// used by this project. It includes:
//   - Point, an immutable fixed-dimension float64 coordinate vector
//   - cosine similarity and L2 distance functions
//   - BLOB encodings for float64 points and float32 embeddings
//   - SQLiteStore: durable storage for datasets of points
package vector
