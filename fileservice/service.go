// Package fileservice defines the contract between the NeXus classes and the
// byte-level container that stores them.
//
// A Service is a cursor over a hierarchical file: it is positioned on one
// group at a time (and optionally on one dataset inside that group), and all
// relative operations resolve against that position. OpenPath jumps to an
// absolute location; OpenGroup and OpenData descend one level from the current
// group. This mirrors the classic NeXus API, and it is the reason the nexus
// package serialises every call on a shared handle.
//
// Implementations live in sibling packages: memfile (in-memory trees) and
// h5file (HDF5 files).
package fileservice

import "errors"

// Sentinel errors reported by Service implementations.
var (
	ErrNotFound        = errors.New("object not found")
	ErrClassMismatch   = errors.New("group class mismatch")
	ErrNotGroup        = errors.New("object is not a group")
	ErrNotDataset      = errors.New("object is not a dataset")
	ErrNoOpenData      = errors.New("no dataset is open")
	ErrAtRoot          = errors.New("cursor is at the root group")
	ErrUnsupportedType = errors.New("unsupported element type")
	ErrLengthMismatch  = errors.New("buffer length does not match selection")
	ErrInvalidSlab     = errors.New("invalid slab selection")
	ErrClosed          = errors.New("service is closed")
)

// ClassSDS is the class reported by Entries for datasets ("scientific data set").
const ClassSDS = "SDS"

// Entry describes one child of the current group.
type Entry struct {
	Name  string
	Class string
}

// IsSDS reports whether the entry is a dataset rather than a group.
func (e Entry) IsSDS() bool {
	return e.Class == ClassSDS
}

// Attribute is a named metadata value rendered as a string.
type Attribute struct {
	Name  string
	Value string
}

// Service is the byte-level collaborator behind the NeXus classes.
//
// Services are not safe for concurrent use: they hold exactly one cursor.
// Callers that cache the cursor position should treat ErrNotFound from
// OpenData as a hint that the cursor moved, and re-seek once.
// Callers sharing a Service must serialise access.
type Service interface {
	// OpenPath moves the cursor to an absolute path. If the path names a
	// dataset, the cursor ends on its parent group with the dataset open.
	OpenPath(path string) error

	// OpenGroup descends into a child group of the current group. A non-empty
	// class must match the child's declared class, otherwise ErrClassMismatch.
	OpenGroup(name, class string) error

	// CloseGroup moves the cursor to the parent of the current group.
	CloseGroup() error

	// OpenData opens a dataset of the current group.
	OpenData(name string) error

	// CloseData closes the open dataset. Closing when nothing is open is a no-op.
	CloseData() error

	// Entries lists the children of the current group.
	Entries() ([]Entry, error)

	// Info describes the open dataset.
	Info() (DatasetInfo, error)

	// ReadData reads the whole open dataset into dst, a slice of an Element
	// type whose length equals the dataset's element count.
	ReadData(dst any) error

	// ReadSlab reads the rectangular region start/count (both rank-length)
	// of the open dataset into dst, in row-major order.
	ReadSlab(dst any, start, count []int) error

	// Attributes lists the attributes of the object at an absolute path.
	Attributes(path string) ([]Attribute, error)

	// Close releases the underlying container.
	Close() error
}
