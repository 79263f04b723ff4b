// Package h5file implements fileservice.Service over HDF5 files, read with
// the pure-Go github.com/scigolib/hdf5 reader.
//
// The object tree is read once by Open. Group classes come from the NX_class
// attribute. Dataset descriptions and string payloads are decoded on first
// use and cached.
//
// Limitations inherited from the reader:
//   - numeric payloads are decoded through float64, so 64-bit integers above
//     2^53 lose precision;
//   - integer signedness is not reported, integers are described as signed;
//   - string datasets are exposed as one char array, strings joined by '\n'.
package h5file

import (
	"fmt"
	"path"
	"reflect"
	"strings"

	"github.com/scigolib/hdf5"

	"github.com/scigolib/nexus/fileservice"
	"github.com/scigolib/nexus/internal/utils"
)

const attrNXClass = "NX_class"

type node struct {
	name     string
	class    string
	parent   *node
	children []*node

	group   *hdf5.Group
	dataset *hdf5.Dataset

	// Decoded on first use; datasets only.
	described bool
	typ       fileservice.NumericType
	storage   storageClass
	dims      []int
	text      []byte
}

func (n *node) isDataset() bool {
	return n.dataset != nil
}

// path returns the absolute path of n.
func (n *node) path() string {
	if n.parent == nil {
		return "/"
	}
	return path.Join(n.parent.path(), n.name)
}

func (n *node) child(name string) *node {
	for _, c := range n.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

// File is an HDF5 file seen through a single cursor.
// It is not safe for concurrent use.
type File struct {
	h5     *hdf5.File
	root   *node
	cur    *node
	open   *node
	closed bool
}

// Open opens an HDF5 file for reading and loads its object tree.
func Open(filename string) (*File, error) {
	h5, err := hdf5.Open(filename)
	if err != nil {
		return nil, utils.WrapPathError("hdf5 open failed", filename, err)
	}

	rootGroup := h5.Root()
	root := &node{name: "/", group: rootGroup}
	root.class = groupClass(rootGroup, "NXroot")
	buildTree(rootGroup, root)

	return &File{h5: h5, root: root, cur: root}, nil
}

func buildTree(g *hdf5.Group, n *node) {
	for _, obj := range g.Children() {
		switch c := obj.(type) {
		case *hdf5.Group:
			child := &node{name: c.Name(), parent: n, group: c}
			child.class = groupClass(c, "")
			n.children = append(n.children, child)
			buildTree(c, child)
		case *hdf5.Dataset:
			n.children = append(n.children, &node{
				name:    c.Name(),
				class:   fileservice.ClassSDS,
				parent:  n,
				dataset: c,
			})
		}
	}
}

// groupClass returns the NX_class attribute of g, or def when it has none.
func groupClass(g *hdf5.Group, def string) string {
	attrs, err := g.Attributes()
	if err != nil {
		return def
	}
	for _, a := range attrs {
		if a.Name != attrNXClass {
			continue
		}
		if v, err := a.ReadValue(); err == nil {
			if s := formatValue(v); s != "" {
				return s
			}
		}
	}
	return def
}

func (f *File) lookup(path string) (*node, error) {
	n := f.root
	for _, part := range strings.Split(path, "/") {
		if part == "" {
			continue
		}
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

// describe decodes the dataset description, and the text of string datasets.
func (n *node) describe() error {
	if n.described {
		return nil
	}
	s, err := n.dataset.Info()
	if err != nil {
		return utils.WrapPathError("dataset info failed", n.path(), err)
	}
	typ, storage, dims, err := parseInfo(s)
	if err != nil {
		return utils.WrapPathError("dataset info failed", n.path(), err)
	}
	if storage == classString {
		strs, err := n.dataset.ReadStrings()
		if err != nil {
			return utils.WrapPathError("string read failed", n.path(), err)
		}
		n.text = []byte(strings.Join(strs, "\n"))
		dims = []int{len(n.text)}
	}
	n.typ, n.storage, n.dims, n.described = typ, storage, dims, true
	return nil
}

// attributes reads the attributes of n. Values the reader cannot decode are
// skipped.
func (n *node) attributes() ([]fileservice.Attribute, error) {
	var out []fileservice.Attribute
	add := func(name string, v any, err error) {
		if err == nil {
			out = append(out, fileservice.Attribute{Name: name, Value: formatValue(v)})
		}
	}

	if n.isDataset() {
		list, err := n.dataset.Attributes()
		if err != nil {
			return nil, utils.WrapPathError("attribute read failed", n.path(), err)
		}
		for _, a := range list {
			v, err := a.ReadValue()
			add(a.Name, v, err)
		}
		return out, nil
	}

	list, err := n.group.Attributes()
	if err != nil {
		return nil, utils.WrapPathError("attribute read failed", n.path(), err)
	}
	for _, a := range list {
		v, err := a.ReadValue()
		add(a.Name, v, err)
	}
	return out, nil
}

// formatValue renders an attribute value as text. Arrays are joined with
// commas.
func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []string:
		return strings.Join(x, ",")
	case []byte:
		return strings.TrimRight(string(x), "\x00")
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice {
		parts := make([]string, rv.Len())
		for i := range parts {
			parts[i] = fmt.Sprint(rv.Index(i).Interface())
		}
		return strings.Join(parts, ",")
	}
	return fmt.Sprint(v)
}
