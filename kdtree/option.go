package kdtree

type options struct {
	pruning  PruneStrategy
	sumOrder bool
}

// Option configures Build.
type Option func(*options)

// WithPruning selects the backtracking strategy used by queries.
func WithPruning(s PruneStrategy) Option {
	return func(o *options) { o.pruning = s }
}

// WithSumPresort stable-sorts the batch by coordinate sum before the first
// split. It only changes how ties are ordered, so trees built from inputs
// with repeated coordinates may differ in shape.
func WithSumPresort() Option {
	return func(o *options) { o.sumOrder = true }
}
