package h5file

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
		return fmt.Errorf("%w: %s is %q, want %s", fileservice.ErrClassMismatch, name, n.class, class)
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

// opened returns the open dataset, described.
func (f *File) opened() (*node, error) {
	if err := f.check(); err != nil {
		return nil, err
	}
	if f.open == nil {
		return nil, fileservice.ErrNoOpenData
	}
	if err := f.open.describe(); err != nil {
		return nil, err
	}
	return f.open, nil
}

// Info implements fileservice.Service.
func (f *File) Info() (fileservice.DatasetInfo, error) {
	n, err := f.opened()
	if err != nil {
		return fileservice.DatasetInfo{}, err
	}
	return fileservice.NewDatasetInfo(n.name, n.typ, n.dims), nil
}

// ReadData implements fileservice.Service.
func (f *File) ReadData(dst any) error {
	n, err := f.opened()
	if err != nil {
		return err
	}
	if n.storage == classString {
		return fileservice.Convert(dst, n.text)
	}
	values, err := n.dataset.Read()
	if err != nil {
		return fmt.Errorf("reading %s: %w", n.name, err)
	}
	return fileservice.Convert(dst, values)
}

// ReadSlab implements fileservice.Service.
func (f *File) ReadSlab(dst any, start, count []int) error {
	n, err := f.opened()
	if err != nil {
		return err
	}
	total, err := fileservice.CheckSlab(n.dims, start, count)
	if err != nil {
		return err
	}
	if got := fileservice.SliceLen(dst); got != total {
		return fmt.Errorf("%w: selection has %d elements, buffer %d", fileservice.ErrLengthMismatch, total, got)
	}
	if n.storage == classString {
		return fileservice.Convert(dst, fileservice.ExtractSlab(n.text, n.dims, start, count))
	}

	values, err := n.dataset.ReadSlice(toUint64(start), toUint64(count))
	if err != nil {
		return fmt.Errorf("reading slab of %s: %w", n.name, err)
	}
	return fileservice.Convert(dst, values)
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
	return n.attributes()
}

// Close implements fileservice.Service. It is safe to call Close multiple times.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	f.open = nil
	return f.h5.Close()
}

func toUint64(v []int) []uint64 {
	out := make([]uint64, len(v))
	for i, x := range v {
		out[i] = uint64(x) //nolint:gosec // CheckSlab rejects negative values
	}
	return out
}
