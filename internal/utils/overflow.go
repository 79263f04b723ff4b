package utils

import (
	"fmt"
	"math"
)

// SafeMultiply multiplies two non-negative ints and reports overflow.
func SafeMultiply(a, b int) (int, error) {
	if a < 0 || b < 0 {
		return 0, fmt.Errorf("negative operand: %d * %d", a, b)
	}
	if a != 0 && b > math.MaxInt/a {
		return 0, fmt.Errorf("multiplication overflow: %d * %d exceeds int max", a, b)
	}
	return a * b, nil
}

// Product returns the product of extents. An empty list yields 1 and any
// negative extent is an error; zero extents give 0, which callers treat as
// an empty dataset.
func Product(extents []int) (int, error) {
	total := 1
	for i, e := range extents {
		if e < 0 {
			return 0, fmt.Errorf("negative extent %d in dimension %d", e, i)
		}
		var err error
		if total, err = SafeMultiply(total, e); err != nil {
			return 0, fmt.Errorf("element count overflow at dimension %d: %w", i, err)
		}
	}
	return total, nil
}
