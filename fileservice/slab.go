package fileservice

import "fmt"

// CheckSlab validates a start/count selection against dataset extents and
// returns the number of selected elements.
func CheckSlab(dims, start, count []int) (int, error) {
	if len(start) != len(dims) || len(count) != len(dims) {
		return 0, fmt.Errorf("%w: start has %d entries, count %d, dataset rank is %d",
			ErrInvalidSlab, len(start), len(count), len(dims))
	}

	total := 1
	for i := range dims {
		if start[i] < 0 || count[i] < 0 {
			return 0, fmt.Errorf("%w: negative start or count in dimension %d", ErrInvalidSlab, i)
		}
		if start[i]+count[i] > dims[i] {
			return 0, fmt.Errorf("%w: dimension %d: start=%d + count=%d > size=%d",
				ErrInvalidSlab, i, start[i], count[i], dims[i])
		}
		total *= count[i]
	}
	return total, nil
}

// ExtractSlab copies the start/count region of a row-major array with the
// given extents into a new slice. The selection must already be validated.
//
// The innermost dimension is copied as contiguous runs; outer dimensions are
// walked with an odometer over count.
func ExtractSlab[S any](src []S, dims, start, count []int) []S {
	rank := len(dims)
	if rank == 0 {
		return append([]S(nil), src...)
	}

	total := 1
	for _, c := range count {
		total *= c
	}
	out := make([]S, 0, total)
	if total == 0 {
		return out
	}

	// strides[i] is the flat distance between consecutive indices on axis i.
	strides := make([]int, rank)
	strides[rank-1] = 1
	for i := rank - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * dims[i+1]
	}

	run := count[rank-1]
	idx := make([]int, rank-1)
	for {
		offset := start[rank-1]
		for i := 0; i < rank-1; i++ {
			offset += (start[i] + idx[i]) * strides[i]
		}
		out = append(out, src[offset:offset+run]...)

		axis := rank - 2
		for axis >= 0 {
			idx[axis]++
			if idx[axis] < count[axis] {
				break
			}
			idx[axis] = 0
			axis--
		}
		if axis < 0 {
			return out
		}
	}
}
