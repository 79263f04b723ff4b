package memfile

import (
	"fmt"

	"github.com/scigolib/nexus/fileservice"
)

var _ fileservice.Service = (*File)(nil)

func (f *File) check() error {
	if f.closed {
		return fileservice.ErrClosed
	}
	return nil
}

// OpenPath implements fileservice.Service.
func (f *File) OpenPath(path string) error {
	if err := f.check(); err != nil {
		return err
	}
	n, err := f.lookup(path)
	if err != nil {
		return err
	}
	if n.isDataset() {
		f.cur, f.open = n.parent, n
		return nil
	}
	f.cur, f.open = n, nil
	return nil
}

// OpenGroup implements fileservice.Service.
func (f *File) OpenGroup(name, class string) error {
	if err := f.check(); err != nil {
		return err
	}
	n := f.cur.child(name)
	switch {
	case n == nil:
		return fmt.Errorf("%w: %s in %s", fileservice.ErrNotFound, name, f.cur.name)
	case n.isDataset():
		return fmt.Errorf("%w: %s", fileservice.ErrNotGroup, name)
	case class != "" && n.class != class:
		return fmt.Errorf("%w: %s is %s, want %s", fileservice.ErrClassMismatch, name, n.class, class)
	}
	f.cur, f.open = n, nil
	return nil
}

// CloseGroup implements fileservice.Service.
func (f *File) CloseGroup() error {
	if err := f.check(); err != nil {
		return err
	}
	if f.cur.parent == nil {
		return fileservice.ErrAtRoot
	}
	f.cur, f.open = f.cur.parent, nil
	return nil
}

// OpenData implements fileservice.Service.
func (f *File) OpenData(name string) error {
	if err := f.check(); err != nil {
		return err
	}
	n := f.cur.child(name)
	switch {
	case n == nil:
		return fmt.Errorf("%w: %s in %s", fileservice.ErrNotFound, name, f.cur.name)
	case !n.isDataset():
		return fmt.Errorf("%w: %s", fileservice.ErrNotDataset, name)
	}
	f.open = n
	return nil
}

// CloseData implements fileservice.Service.
func (f *File) CloseData() error {
	if err := f.check(); err != nil {
		return err
	}
	f.open = nil
	return nil
}

// Entries implements fileservice.Service.
func (f *File) Entries() ([]fileservice.Entry, error) {
	if err := f.check(); err != nil {
		return nil, err
	}
	entries := make([]fileservice.Entry, 0, len(f.cur.children))
	for _, c := range f.cur.children {
		entries = append(entries, fileservice.Entry{Name: c.name, Class: c.class})
	}
	return entries, nil
}

// Info implements fileservice.Service.
func (f *File) Info() (fileservice.DatasetInfo, error) {
	if err := f.check(); err != nil {
		return fileservice.DatasetInfo{}, err
	}
	if f.open == nil {
		return fileservice.DatasetInfo{}, fileservice.ErrNoOpenData
	}
	return fileservice.NewDatasetInfo(f.open.name, f.open.typ, f.open.dims), nil
}

// ReadData implements fileservice.Service.
func (f *File) ReadData(dst any) error {
	if err := f.check(); err != nil {
		return err
	}
	if f.open == nil {
		return fileservice.ErrNoOpenData
	}
	return fileservice.Convert(dst, f.open.data)
}

// ReadSlab implements fileservice.Service.
func (f *File) ReadSlab(dst any, start, count []int) error {
	if err := f.check(); err != nil {
		return err
	}
	if f.open == nil {
		return fileservice.ErrNoOpenData
	}
	n, err := fileservice.CheckSlab(f.open.dims, start, count)
	if err != nil {
		return err
	}
	if got := fileservice.SliceLen(dst); got != n {
		return fmt.Errorf("%w: selection has %d elements, buffer %d", fileservice.ErrLengthMismatch, n, got)
	}
	slab, err := extractSlab(f.open.data, f.open.dims, start, count)
	if err != nil {
		return err
	}
	return fileservice.Convert(dst, slab)
}

// Attributes implements fileservice.Service.
func (f *File) Attributes(path string) ([]fileservice.Attribute, error) {
	if err := f.check(); err != nil {
		return nil, err
	}
	n, err := f.lookup(path)
	if err != nil {
		return nil, err
	}
	return append([]fileservice.Attribute(nil), n.attrs...), nil
}

// Close implements fileservice.Service. It is safe to call Close multiple times.
func (f *File) Close() error {
	f.closed = true
	f.open = nil
	return nil
}
