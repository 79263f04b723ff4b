package nexus

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/scigolib/nexus/fileservice"
)

// AttrNXClass is the attribute naming a group's NeXus class.
const AttrNXClass = "NX_class"

// Group is a container node of a NeXus file.
//
// A group is created closed, with NewGroup, and becomes usable through one
// of two opens:
//
//   - Open resolves the absolute path from the root of the file. It is always
//     correct, whatever state the parent is in.
//   - OpenLocal descends by name from an open parent. It is much cheaper in
//     deep trees but requires the parent to be open.
//
// Both read the child listings once (ReadAllInfo). The listings then stay as
// they were until Invalidate or the next open, even if the file changes.
type Group struct {
	object
	class string

	groups    []fileservice.Entry
	datasets  []fileservice.DatasetInfo
	populated bool
}

// NewGroup returns the closed group name under parent. The parent is only
// consulted for its path and file; the group keeps no reference to it.
func NewGroup(parent *Group, name string) *Group {
	return &Group{object: newObject(parent.file, parent.path, name)}
}

// Open opens the group by its absolute path.
func (g *Group) Open() error {
	return g.openWith("open", "", func(f *File) error {
		return f.openPath(g.path)
	})
}

// OpenLocal opens the group as a child of parent, which must be open.
// When expectedClass is not empty the child must declare that class.
//
// A missing child or a class mismatch is reported as false with a nil error.
// A closed parent is a caller error and returns ErrParentNotOpen.
func (g *Group) OpenLocal(parent *Group, expectedClass string) (bool, error) {
	err := g.openLocal(parent, expectedClass)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fileservice.ErrNotFound),
		errors.Is(err, fileservice.ErrClassMismatch),
		errors.Is(err, fileservice.ErrNotGroup):
		return false, nil
	default:
		return false, err
	}
}

func (g *Group) openLocal(parent *Group, class string) error {
	if err := checkParent(parent, g.file, g.path); err != nil {
		return pathError("open local", g.path, err)
	}
	_, name := splitPath(g.path)
	hint := class
	if hint == "" {
		if e, ok := parent.entry(name); ok {
			hint = e.Class
		}
	}
	return g.openWith("open local", hint, func(f *File) error {
		if err := f.reseat(parent.path); err != nil {
			return err
		}
		return f.openGroup(name, class)
	})
}

// checkParent verifies that parent is open and is the direct parent of p.
func checkParent(parent *Group, f *File, p string) error {
	if parent == nil || !parent.open {
		return ErrParentNotOpen
	}
	dir, _ := splitPath(p)
	if parent.path != dir || parent.file != f {
		return fmt.Errorf("%s is not the parent group", parent.path)
	}
	return nil
}

// openWith positions the cursor on the group with position, then reads the
// listings and attributes. classHint is used when the group carries no
// NX_class attribute.
func (g *Group) openWith(op, classHint string, position func(f *File) error) error {
	f := g.file
	if err := f.lock(); err != nil {
		return pathError(op, g.path, err)
	}
	err := position(f)
	if err == nil {
		g.Invalidate()
		err = g.populate()
	}
	f.mu.Unlock()
	if err != nil {
		return pathError(op, g.path, err)
	}

	g.open = true
	g.loadAttributes()
	g.class = g.attrs.Get(AttrNXClass)
	if g.class == "" {
		g.class = classHint
	}
	if g.class == "" && g.path == "/" {
		g.class = ClassRoot
	}
	f.log.WithFields(logrus.Fields{
		"path":     g.path,
		"op":       op,
		"groups":   len(g.groups),
		"datasets": len(g.datasets),
	}).Debug("opened group")
	return nil
}

// ReadAllInfo reads the child group and dataset listings. It is called by
// both opens; further calls are no-ops until Invalidate.
func (g *Group) ReadAllInfo() error {
	if g.populated {
		return nil
	}
	if !g.open {
		return pathError("read info", g.path, ErrNotOpen)
	}
	if err := g.file.lock(); err != nil {
		return pathError("read info", g.path, err)
	}
	defer g.file.mu.Unlock()
	return pathError("read info", g.path, g.populate())
}

// populate fills the listings. The caller holds the file lock.
func (g *Group) populate() error {
	if err := g.file.seek(g.path); err != nil {
		return err
	}
	groups, datasets, err := g.file.listGroup()
	if err != nil {
		return err
	}
	g.groups, g.datasets, g.populated = groups, datasets, true
	return nil
}

// Invalidate drops the cached listings; the next ReadAllInfo reads them again.
func (g *Group) Invalidate() {
	g.groups, g.datasets, g.populated = nil, nil, false
}

// Close marks the group closed. It is idempotent and leaves datasets loaded
// from the group untouched.
func (g *Group) Close() error {
	g.open = false
	return nil
}

// NXClass returns the group's NeXus class.
func (g *Group) NXClass() string { return g.class }

// Groups returns the cached child groups.
func (g *Group) Groups() []fileservice.Entry {
	return append([]fileservice.Entry(nil), g.groups...)
}

// Datasets returns the cached child dataset descriptions.
func (g *Group) Datasets() []fileservice.DatasetInfo {
	return append([]fileservice.DatasetInfo(nil), g.datasets...)
}

// GroupsOfClass returns the names of the child groups of class.
func (g *Group) GroupsOfClass(class string) []string {
	var names []string
	for _, e := range g.groups {
		if e.Class == class {
			names = append(names, e.Name)
		}
	}
	return names
}

func (g *Group) entry(name string) (fileservice.Entry, bool) {
	for _, e := range g.groups {
		if e.Name == name {
			return e, true
		}
	}
	return fileservice.Entry{}, false
}

// ContainsGroup reports whether the cached listing has a child group name.
func (g *Group) ContainsGroup(name string) bool {
	_, ok := g.entry(name)
	return ok
}

// ContainsDataSet reports whether the cached listing has a dataset name.
func (g *Group) ContainsDataSet(name string) bool {
	return g.DataSetInfo(name).OK()
}

// DataSetInfo returns the cached description of dataset name. When there is
// none the result has StatusError; check OK before using it.
func (g *Group) DataSetInfo(name string) fileservice.DatasetInfo {
	for _, info := range g.datasets {
		if info.Name == name {
			return info
		}
	}
	return fileservice.MissingInfo(name)
}

// OpenGroup opens the child group name of g and wraps it with ctor.
// The child is opened locally when g is open and by path otherwise; either
// way it is returned fully opened or not at all. A non-empty class must
// match the child's class.
//
// Example:
//
//	entry, err := nexus.OpenGroup(root.Group, "entry", nexus.ClassEntry,
//	    func(g *nexus.Group) *nexus.Entry { return &nexus.Entry{Group: g} })
func OpenGroup[C any](g *Group, name, class string, ctor func(*Group) C) (C, error) {
	var zero C
	child := NewGroup(g, name)
	if g.open {
		if err := child.openLocal(g, class); err != nil {
			return zero, err
		}
		return ctor(child), nil
	}

	if err := child.Open(); err != nil {
		return zero, err
	}
	if class != "" && child.class != "" && child.class != class {
		_ = child.Close()
		return zero, pathError("open", child.path,
			fmt.Errorf("%w: %s, want %s", fileservice.ErrClassMismatch, child.class, class))
	}
	return ctor(child), nil
}

// OpenSubgroup opens the child group name, of class if class is not empty.
func (g *Group) OpenSubgroup(name, class string) (*Group, error) {
	return OpenGroup(g, name, class, func(c *Group) *Group { return c })
}

// OpenDatasetAny opens the descriptor of dataset name without binding an
// element type.
func (g *Group) OpenDatasetAny(name string) (*Dataset, error) {
	d := NewDataset(g, name)
	if err := d.openFrom(g); err != nil {
		return nil, err
	}
	return d, nil
}

// OpenDataset opens dataset name of g for loading into a []T.
func OpenDataset[T fileservice.Element](g *Group, name string) (*TypedDataset[T], error) {
	d := NewTypedDataset[T](g, name)
	if err := d.openFrom(g); err != nil {
		return nil, err
	}
	return d, nil
}

// OpenChar opens the char dataset name of g.
func (g *Group) OpenChar(name string) (*CharDataset, error) {
	d := NewCharDataset(g, name)
	if err := d.openFrom(g); err != nil {
		return nil, err
	}
	return d, nil
}

// GetString loads the char dataset name and returns its text.
func (g *Group) GetString(name string) (string, error) {
	d, err := g.OpenChar(name)
	if err != nil {
		return "", err
	}
	if err := d.Load(); err != nil {
		return "", err
	}
	return d.String(), nil
}

// ReadScalar returns the value of a rank-0 dataset, or the first element of
// a rank 1-4 one.
func ReadScalar[T fileservice.Element](g *Group, name string) (T, error) {
	var zero T
	d, err := OpenDataset[T](g, name)
	if err != nil {
		return zero, err
	}
	if d.Rank() == 0 {
		v := make([]T, 1)
		if err := d.getData(v); err != nil {
			return zero, err
		}
		return v[0], nil
	}
	if err := d.Load(); err != nil {
		return zero, err
	}
	return d.At(0)
}
