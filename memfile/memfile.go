// Package memfile implements fileservice.Service over an in-memory tree.
//
// It is the reference implementation of the cursor semantics and the fixture
// used throughout the tests. Trees are built with AddGroup, AddDataset,
// AddString and SetAttribute, and may be mutated at any time, including while
// NeXus objects are open against them.
//
// Usage:
//
//	f := memfile.New()
//	_ = f.AddGroup("/entry", "NXentry")
//	_ = f.AddDataset("/entry/counts", []int{10}, counts)
//	root, err := nexus.OpenService(f)
package memfile

import (
	"fmt"
	"strings"

	"github.com/scigolib/nexus/fileservice"
)

type node struct {
	name     string
	class    string
	attrs    []fileservice.Attribute
	parent   *node
	children []*node

	// Dataset payload; unused for groups.
	typ  fileservice.NumericType
	dims []int
	data any
}

func (n *node) isDataset() bool {
	return n.class == fileservice.ClassSDS
}

func (n *node) child(name string) *node {
	for _, c := range n.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

// File is an in-memory hierarchical container with a single cursor.
// It is not safe for concurrent use.
type File struct {
	root   *node
	cur    *node
	open   *node
	closed bool
}

// New returns an empty file holding only the root group.
func New() *File {
	root := &node{name: "/", class: "NXroot"}
	return &File{root: root, cur: root}
}

func splitPath(path string) []string {
	var parts []string
	for _, p := range strings.Split(path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

func (f *File) lookup(path string) (*node, error) {
	n := f.root
	for _, part := range splitPath(path) {
		if n.isDataset() {
			return nil, fmt.Errorf("%w: %s", fileservice.ErrNotGroup, n.name)
		}
		next := n.child(part)
		if next == nil {
			return nil, fmt.Errorf("%w: %s", fileservice.ErrNotFound, path)
		}
		n = next
	}
	return n, nil
}

// parentFor resolves the parent group of path and returns it with the leaf name.
func (f *File) parentFor(path string) (*node, string, error) {
	parts := splitPath(path)
	if len(parts) == 0 {
		return nil, "", fmt.Errorf("%w: cannot add the root group", fileservice.ErrNotFound)
	}
	parent, err := f.lookup("/" + strings.Join(parts[:len(parts)-1], "/"))
	if err != nil {
		return nil, "", err
	}
	if parent.isDataset() {
		return nil, "", fmt.Errorf("%w: %s", fileservice.ErrNotGroup, parent.name)
	}
	leaf := parts[len(parts)-1]
	if parent.child(leaf) != nil {
		return nil, "", fmt.Errorf("object %s already exists", path)
	}
	return parent, leaf, nil
}

// AddGroup creates a group of the given NeXus class. The parent must exist.
// Like in a NeXus file, the class is also stored as the NX_class attribute.
func (f *File) AddGroup(path, class string) error {
	parent, name, err := f.parentFor(path)
	if err != nil {
		return err
	}
	n := &node{name: name, class: class, parent: parent}
	if class != "" {
		n.attrs = []fileservice.Attribute{{Name: "NX_class", Value: class}}
	}
	parent.children = append(parent.children, n)
	return nil
}

// AddDataset creates a dataset with the given extents. data must be a slice
// of a fileservice.Element type holding product(dims) elements in row-major
// order; it is copied.
func (f *File) AddDataset(path string, dims []int, data any) error {
	typ, stored, err := copyPayload(data)
	if err != nil {
		return err
	}
	return f.addDataset(path, typ, dims, stored)
}

// AddString creates a rank-1 char dataset holding s.
func (f *File) AddString(path, s string) error {
	return f.addDataset(path, fileservice.TypeChar, []int{len(s)}, []byte(s))
}

func (f *File) addDataset(path string, typ fileservice.NumericType, dims []int, data any) error {
	total := 1
	for _, d := range dims {
		total *= d
	}
	if n := fileservice.SliceLen(data); n != total {
		return fmt.Errorf("%w: dims %v describe %d elements, data holds %d",
			fileservice.ErrLengthMismatch, dims, total, n)
	}

	parent, name, err := f.parentFor(path)
	if err != nil {
		return err
	}
	parent.children = append(parent.children, &node{
		name:   name,
		class:  fileservice.ClassSDS,
		parent: parent,
		typ:    typ,
		dims:   append([]int(nil), dims...),
		data:   data,
	})
	return nil
}

// SetAttribute sets (or replaces) a string attribute on the object at path.
func (f *File) SetAttribute(path, name, value string) error {
	n, err := f.lookup(path)
	if err != nil {
		return err
	}
	for i := range n.attrs {
		if n.attrs[i].Name == name {
			n.attrs[i].Value = value
			return nil
		}
	}
	n.attrs = append(n.attrs, fileservice.Attribute{Name: name, Value: value})
	return nil
}

// Remove deletes the object at path and everything below it.
// Removing the object under the cursor moves the cursor to the root.
func (f *File) Remove(path string) error {
	n, err := f.lookup(path)
	if err != nil {
		return err
	}
	if n == f.root {
		return fmt.Errorf("cannot remove the root group")
	}
	p := n.parent
	for i, c := range p.children {
		if c == n {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	for c := f.cur; c != nil; c = c.parent {
		if c == n {
			f.cur, f.open = f.root, nil
			break
		}
	}
	if f.open == n {
		f.open = nil
	}
	return nil
}

func copyPayload(data any) (fileservice.NumericType, any, error) {
	switch d := data.(type) {
	case []int8:
		return fileservice.TypeInt8, append([]int8(nil), d...), nil
	case []uint8:
		return fileservice.TypeUint8, append([]uint8(nil), d...), nil
	case []int16:
		return fileservice.TypeInt16, append([]int16(nil), d...), nil
	case []uint16:
		return fileservice.TypeUint16, append([]uint16(nil), d...), nil
	case []int32:
		return fileservice.TypeInt32, append([]int32(nil), d...), nil
	case []uint32:
		return fileservice.TypeUint32, append([]uint32(nil), d...), nil
	case []int64:
		return fileservice.TypeInt64, append([]int64(nil), d...), nil
	case []uint64:
		return fileservice.TypeUint64, append([]uint64(nil), d...), nil
	case []float32:
		return fileservice.TypeFloat32, append([]float32(nil), d...), nil
	case []float64:
		return fileservice.TypeFloat64, append([]float64(nil), d...), nil
	case []uint:
		return fileservice.TypeSize, append([]uint(nil), d...), nil
	default:
		return fileservice.TypeUnknown, nil, fmt.Errorf("%w: %T", fileservice.ErrUnsupportedType, data)
	}
}

func extractSlab(data any, dims, start, count []int) (any, error) {
	switch d := data.(type) {
	case []int8:
		return fileservice.ExtractSlab(d, dims, start, count), nil
	case []uint8:
		return fileservice.ExtractSlab(d, dims, start, count), nil
	case []int16:
		return fileservice.ExtractSlab(d, dims, start, count), nil
	case []uint16:
		return fileservice.ExtractSlab(d, dims, start, count), nil
	case []int32:
		return fileservice.ExtractSlab(d, dims, start, count), nil
	case []uint32:
		return fileservice.ExtractSlab(d, dims, start, count), nil
	case []int64:
		return fileservice.ExtractSlab(d, dims, start, count), nil
	case []uint64:
		return fileservice.ExtractSlab(d, dims, start, count), nil
	case []float32:
		return fileservice.ExtractSlab(d, dims, start, count), nil
	case []float64:
		return fileservice.ExtractSlab(d, dims, start, count), nil
	case []uint:
		return fileservice.ExtractSlab(d, dims, start, count), nil
	default:
		return nil, fmt.Errorf("%w: %T", fileservice.ErrUnsupportedType, data)
	}
}
