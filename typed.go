package nexus

import (
	"bytes"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/scigolib/nexus/fileservice"
	"github.com/scigolib/nexus/internal/utils"
)

// TypedDataset is a dataset bound to the Go element type T, with a buffer
// that receives full or chunked loads.
//
// The buffer is reused between loads of the same element count, so a scan
// loop over equally sized chunks allocates once. The stored element type is
// converted to T on read.
//
// If a read fails after the buffer has been sized, its content is undefined
// until the next successful load.
//
// Example:
//
//	counts, err := nexus.OpenDataset[int32](data, "counts")
//	if err != nil {
//	    return err
//	}
//	for i := 0; i < counts.Dim0(); i++ {
//	    if err := counts.LoadChunk(1, i, -1); err != nil {
//	        return err
//	    }
//	    row, _ := counts.Data()
//	    process(row)
//	}
type TypedDataset[T fileservice.Element] struct {
	Dataset
	buf    []T
	size   int
	loaded []int
}

// NewTypedDataset returns the closed typed dataset name under parent.
func NewTypedDataset[T fileservice.Element](parent *Group, name string) *TypedDataset[T] {
	return &TypedDataset[T]{Dataset: *NewDataset(parent, name)}
}

// shape returns the extents, rejecting ranks the loaders do not address.
func (d *TypedDataset[T]) shape() ([]int, error) {
	if !d.open {
		return nil, ErrNotOpen
	}
	if r := d.info.Rank; r < 1 || r > fileservice.MaxRank {
		return nil, fmt.Errorf("%w: rank %d", ErrShape, r)
	}
	return d.info.Shape(), nil
}

// Load reads the whole dataset.
func (d *TypedDataset[T]) Load() error {
	shape, err := d.shape()
	if err != nil {
		return pathError("load", d.path, err)
	}
	n, err := utils.Product(shape)
	if err != nil {
		return pathError("load", d.path, fmt.Errorf("%w: %w", ErrShape, err))
	}
	if err := d.alloc(n); err != nil {
		return pathError("load", d.path, err)
	}
	if err := d.getData(d.buf); err != nil {
		return err
	}
	d.loaded = shape
	d.file.metrics.ElementsLoaded(n)
	return nil
}

// LoadChunk reads part of the dataset:
//
//   - i < 0 loads everything, like Load.
//   - j < 0, or any j for rank 1: outer slices [i, min(i+blocksize, dim0)),
//     trailing axes in full.
//   - j >= 0 (rank 2-4): outer slice i, second-axis indices
//     [j, min(j+blocksize, dim1)), remaining axes in full.
//
// Loading i = 0, b, 2b... with blocksize b and concatenating the chunks
// gives the same elements as Load.
//
// i must be below dim0 and j below dim1, otherwise ErrRange. A non-positive
// blocksize is ErrShape.
func (d *TypedDataset[T]) LoadChunk(blocksize, i, j int) error {
	if i < 0 {
		return d.Load()
	}
	start, count, err := d.selection(blocksize, i, j)
	if err != nil {
		return pathError("load chunk", d.path, err)
	}
	n, err := utils.Product(count)
	if err != nil {
		return pathError("load chunk", d.path, fmt.Errorf("%w: %w", ErrShape, err))
	}
	if err := d.alloc(n); err != nil {
		return pathError("load chunk", d.path, err)
	}
	if err := d.getSlab(d.buf, start, count); err != nil {
		return err
	}
	d.loaded = count
	d.file.metrics.ElementsLoaded(n)
	return nil
}

// selection computes the rank-length start and count vectors of a chunk.
// Only the first two axes are ever windowed.
func (d *TypedDataset[T]) selection(blocksize, i, j int) (start, count []int, err error) {
	shape, err := d.shape()
	if err != nil {
		return nil, nil, err
	}
	rank := len(shape)
	if i >= shape[0] {
		return nil, nil, fmt.Errorf("%w: i=%d, dim0=%d", ErrRange, i, shape[0])
	}
	if blocksize <= 0 {
		return nil, nil, fmt.Errorf("%w: blocksize %d", ErrShape, blocksize)
	}

	start = make([]int, rank)
	count = append([]int(nil), shape...)
	start[0] = i

	switch {
	case j < 0 || rank == 1:
		count[0] = min(blocksize, shape[0]-i)
	default:
		if j >= shape[1] {
			return nil, nil, fmt.Errorf("%w: j=%d, dim1=%d", ErrRange, j, shape[1])
		}
		count[0] = 1
		start[1], count[1] = j, min(blocksize, shape[1]-j)
	}
	return start, count, nil
}

// alloc sizes the buffer for n elements, keeping it when n is unchanged.
func (d *TypedDataset[T]) alloc(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: cannot allocate %d elements", ErrShape, n)
	}
	if n == d.size {
		return nil
	}
	d.buf = make([]T, n)
	d.size = n
	d.file.metrics.Allocation()
	d.file.log.WithFields(logrus.Fields{"path": d.path, "op": "alloc", "size": n}).Debug("allocated buffer")
	return nil
}

func (d *TypedDataset[T]) check(idx int) error {
	if d.size == 0 {
		return pathError("read", d.path, ErrUninitialized)
	}
	if idx < 0 || idx >= d.size {
		return pathError("read", d.path, fmt.Errorf("%w: index %d, size %d", ErrRange, idx, d.size))
	}
	return nil
}

// Data returns the loaded elements. The slice aliases the buffer and is
// overwritten by the next load.
func (d *TypedDataset[T]) Data() ([]T, error) {
	if d.size == 0 {
		return nil, pathError("read", d.path, ErrUninitialized)
	}
	return d.buf[:d.size], nil
}

// At returns element i of the buffer.
func (d *TypedDataset[T]) At(i int) (T, error) {
	if err := d.check(i); err != nil {
		var zero T
		return zero, err
	}
	return d.buf[i], nil
}

// At2 returns the element at offset i*Dim1()+j.
func (d *TypedDataset[T]) At2(i, j int) (T, error) {
	return d.At(i*d.Dim1() + j)
}

// At3 returns the element at offset (i*Dim1()+j)*Dim2()+k.
func (d *TypedDataset[T]) At3(i, j, k int) (T, error) {
	return d.At((i*d.Dim1()+j)*d.Dim2() + k)
}

// Size returns the number of loaded elements.
func (d *TypedDataset[T]) Size() int { return d.size }

// Cap returns the buffer capacity.
func (d *TypedDataset[T]) Cap() int { return cap(d.buf) }

// LoadedDims returns the extents of the last successful load.
func (d *TypedDataset[T]) LoadedDims() []int {
	return append([]int(nil), d.loaded...)
}

// CharDataset is a char dataset readable as text.
type CharDataset struct {
	*TypedDataset[byte]
}

// NewCharDataset returns the closed char dataset name under parent.
func NewCharDataset(parent *Group, name string) *CharDataset {
	return &CharDataset{TypedDataset: NewTypedDataset[byte](parent, name)}
}

// String returns the loaded bytes as text, cut at the first NUL.
// It is empty before a load.
func (c *CharDataset) String() string {
	b := c.buf[:c.size]
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
