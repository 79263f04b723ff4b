package nexus

import "errors"

// Error kinds reported by the NeXus classes. Match them with errors.Is.
var (
	// ErrShape reports a rank outside 1..4, a non-positive allocation or a
	// non-positive blocksize on a chunked load.
	ErrShape = errors.New("nexus: unsupported shape")

	// ErrRange reports a chunk coordinate or accessor index past its extent.
	ErrRange = errors.New("nexus: index out of range")

	// ErrUninitialized reports a read accessor used before any load.
	ErrUninitialized = errors.New("nexus: dataset not loaded")

	// ErrParentNotOpen reports a fast open against a parent that is not open.
	ErrParentNotOpen = errors.New("nexus: parent group is not open")

	// ErrNotOpen reports an operation that needs an open object.
	ErrNotOpen = errors.New("nexus: object is not open")

	// ErrFileClosed reports use of a file whose last reference was released.
	ErrFileClosed = errors.New("nexus: file is closed")
)

// PathError records an error and the operation and object path that caused it.
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *PathError) Unwrap() error {
	return e.Err
}

func pathError(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &PathError{Op: op, Path: path, Err: err}
}
