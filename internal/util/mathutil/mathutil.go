// Package mathutil holds checked integer conversions for payload sizing.
package mathutil

import (
	"errors"
	"fmt"
	"math"
)

// ErrOverflow is returned when a value does not fit the target type.
var ErrOverflow = errors.New("value exceeds target type capacity")

// Uint64ToInt converts a payload size to int, rejecting values that would
// wrap on 32-bit platforms.
func Uint64ToInt(v uint64) (int, error) {
	if v > math.MaxInt {
		return 0, fmt.Errorf("value %d overflows int: %w", v, ErrOverflow)
	}
	return int(v), nil
}
