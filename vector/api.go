package vector

import "context"

// Record is a point stored under a caller-assigned id.
type Record struct {
	ID    string
	Point Point
}

// Store persists datasets of points. Points are the only durable state; any
// index over them is rebuilt from Points on load.
type Store interface {
	// AddPoints upserts records into the dataset and returns their ids in
	// input order. Every record must match the dimension of points already
	// stored in the dataset.
	AddPoints(ctx context.Context, dataset string, records []Record) ([]string, error)

	// Points returns every record of the dataset in insertion order.
	Points(ctx context.Context, dataset string) ([]Record, error)

	// Remove deletes the record with the given id from the dataset; a missing
	// id yields ErrRecordNotFound.
	Remove(ctx context.Context, dataset, id string) error
}
