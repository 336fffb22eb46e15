package engine

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"sync"

	"github.com/viant/kdcos/vector"
	sqlite "modernc.org/sqlite"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterVectorFunctions registers kd_cosine with the driver so it is
// available on connections opened after this call. Existing open connections
// will not see new functions. Repeated calls are no-ops.
func RegisterVectorFunctions() error {
	registerOnce.Do(func() {
		err := sqlite.RegisterDeterministicScalarFunction("kd_cosine", 2, kdCosineImpl)
		if err != nil && !strings.Contains(err.Error(), "already") {
			registerErr = fmt.Errorf("engine: register kd_cosine: %w", err)
		}
	})
	return registerErr
}

// kdCosineImpl scores two point BLOBs with vector.Similarity, so SQL
// rankings match the ones computed in memory. NULL or empty arguments yield
// NULL.
func kdCosineImpl(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("kd_cosine: expected 2 arguments, got %d", len(args))
	}
	a, err := asPoint(args[0])
	if err != nil || a == nil {
		return nil, err
	}
	b, err := asPoint(args[1])
	if err != nil || b == nil {
		return nil, err
	}
	sim, err := vector.CheckedSimilarity(*a, *b)
	if err != nil {
		return nil, fmt.Errorf("kd_cosine: %w", err)
	}
	return sim, nil
}

func asPoint(arg driver.Value) (*vector.Point, error) {
	switch v := arg.(type) {
	case nil:
		return nil, nil
	case []byte:
		if len(v) == 0 {
			return nil, nil
		}
		p, err := vector.DecodePoint(v)
		if err != nil {
			return nil, fmt.Errorf("kd_cosine: %w", err)
		}
		return &p, nil
	default:
		return nil, fmt.Errorf("kd_cosine: unsupported argument type %T for point; want BLOB", arg)
	}
}
