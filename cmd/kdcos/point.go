package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/viant/kdcos/vector"
)

// parsePoint parses coordinates given as separate values, comma-separated
// values, or a mix of both.
func parsePoint(values []string) (vector.Point, error) {
	var coords []float64
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			f, err := strconv.ParseFloat(part, 64)
			if err != nil {
				return vector.Point{}, fmt.Errorf("invalid coordinate %q", part)
			}
			coords = append(coords, f)
		}
	}
	return vector.New(coords...)
}
