package vector

import (
	"encoding/binary"
	"fmt"
	"math"
)

// EncodePoint encodes a point into a BLOB of little-endian IEEE 754 float64
// values without a length prefix; the dimension is derived from the BLOB size
// on decode.
func EncodePoint(p Point) []byte {
	b := make([]byte, p.Dim()*8)
	for i, v := range p.values() {
		binary.LittleEndian.PutUint64(b[i*8:], math.Float64bits(v))
	}
	return b
}

// DecodePoint decodes a BLOB produced by EncodePoint.
func DecodePoint(b []byte) (Point, error) {
	if len(b) == 0 {
		return Point{}, ErrEmptyPoint
	}
	if len(b)%8 != 0 {
		return Point{}, fmt.Errorf("vector: invalid point blob length %d (not multiple of 8)", len(b))
	}
	coords := make([]float64, len(b)/8)
	for i := range coords {
		coords[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[i*8:]))
	}
	return Point{coords: coords}, nil
}

// DecodeEmbedding decodes a BLOB of little-endian IEEE 754 float32 values,
// the layout embedding stores use for their vector columns.
func DecodeEmbedding(b []byte) ([]float32, error) {
	if len(b) == 0 {
		return nil, nil
	}
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("vector: invalid embedding blob length %d (not multiple of 4)", len(b))
	}
	vec := make([]float32, len(b)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return vec, nil
}
