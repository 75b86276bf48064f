package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// maxKm bounds odometer readings to what the store's integer column can hold.
const maxKm = math.MaxInt32

// ParseKm converts a raw odometer reading into whole kilometres.
// The value is rounded to the nearest integer, not truncated: "9.999" → 10.
// Empty, non-numeric, NaN, infinite, negative, or out-of-range input returns
// ErrValidation.
func ParseKm(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("%w: km reading is required", ErrValidation)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: km reading %q is not a number", ErrValidation, raw)
	}
	if f < 0 {
		return 0, fmt.Errorf("%w: km reading must not be negative", ErrValidation)
	}
	rounded := math.Round(f)
	if rounded > maxKm {
		return 0, fmt.Errorf("%w: km reading %q is out of range", ErrValidation, raw)
	}
	return int(rounded), nil
}
