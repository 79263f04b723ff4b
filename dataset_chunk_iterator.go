package nexus

import (
	"context"
	"errors"
	"fmt"

	"github.com/scigolib/nexus/fileservice"
)

// ChunkIterator walks a typed dataset along its first axis one chunk at a
// time, so datasets larger than memory can be processed in a loop.
//
// Usage:
//
//	iter, err := counts.ChunkIterator(ctx, 1024)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for iter.Next() {
//	    chunk, err := iter.Chunk()
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    process(iter.Offset(), chunk)
//	}
//	if err := iter.Err(); err != nil {
//	    log.Fatal(err)
//	}
//
// The iterator follows the Go scanner pattern (bufio.Scanner). Each chunk
// holds up to blocksize outer slices (elements, for rank 1) with the trailing
// axes in full; the last chunk is clipped to dim0. Chunks are read into the
// dataset's buffer, so a chunk is only valid until the next one is read.
type ChunkIterator[T fileservice.Element] struct {
	dataset    *TypedDataset[T]
	blocksize  int
	total      int
	current    int
	err        error
	ctx        context.Context
	onProgress func(current, total int)
}

// ChunkIterator returns an iterator over d. The context is checked before
// each Next, allowing graceful cancellation between reads.
func (d *TypedDataset[T]) ChunkIterator(ctx context.Context, blocksize int) (*ChunkIterator[T], error) {
	shape, err := d.shape()
	if err != nil {
		return nil, pathError("iterate", d.path, err)
	}
	if blocksize <= 0 {
		return nil, pathError("iterate", d.path, fmt.Errorf("%w: blocksize %d", ErrShape, blocksize))
	}

	return &ChunkIterator[T]{
		dataset:   d,
		blocksize: blocksize,
		total:     (shape[0] + blocksize - 1) / blocksize,
		ctx:       ctx,
	}, nil
}

// Next advances to the next chunk. Returns false when iteration is complete
// or an error occurred. Check Err() after iteration to distinguish.
func (it *ChunkIterator[T]) Next() bool {
	if it.err != nil {
		return false
	}

	if it.ctx != nil {
		if err := it.ctx.Err(); err != nil {
			it.err = err
			return false
		}
	}

	if it.current >= it.total {
		return false
	}
	it.current++

	if it.onProgress != nil {
		it.onProgress(it.current, it.total)
	}
	return true
}

// Chunk reads and returns the current chunk.
// Must be called after Next() returns true.
func (it *ChunkIterator[T]) Chunk() ([]T, error) {
	if it.current < 1 || it.current > it.total {
		return nil, errors.New("no current chunk: call Next() first")
	}
	if err := it.dataset.LoadChunk(it.blocksize, it.Offset(), -1); err != nil {
		it.err = err
		return nil, err
	}
	return it.dataset.Data()
}

// Offset returns the first-axis index where the current chunk starts.
func (it *ChunkIterator[T]) Offset() int {
	if it.current < 1 {
		return 0
	}
	return (it.current - 1) * it.blocksize
}

// Progress returns the current chunk index (1-based) and the chunk count.
func (it *ChunkIterator[T]) Progress() (current, total int) {
	return it.current, it.total
}

// Total returns the number of chunks.
func (it *ChunkIterator[T]) Total() int {
	return it.total
}

// Err returns any error that occurred during iteration.
func (it *ChunkIterator[T]) Err() error {
	return it.err
}

// OnProgress sets a callback called after each successful Next with the
// current chunk index (1-based) and the chunk count.
//
// Example:
//
//	iter.OnProgress(func(current, total int) {
//	    fmt.Printf("Processing chunk %d/%d\n", current, total)
//	})
func (it *ChunkIterator[T]) OnProgress(fn func(current, total int)) {
	it.onProgress = fn
}

// Reset rewinds the iterator, allowing re-iteration.
func (it *ChunkIterator[T]) Reset() {
	it.current = 0
	it.err = nil
}
