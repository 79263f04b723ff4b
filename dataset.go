package nexus

import (
	"github.com/sirupsen/logrus"

	"github.com/scigolib/nexus/fileservice"
	"github.com/scigolib/nexus/internal/metrics"
)

// Dataset is the metadata-only handle of one dataset: its rank, extents and
// element type. Opening it never reads payload.
type Dataset struct {
	object
	info fileservice.DatasetInfo
}

// NewDataset returns the closed descriptor of dataset name under parent.
func NewDataset(parent *Group, name string) *Dataset {
	return &Dataset{
		object: newObject(parent.file, parent.path, name),
		info:   fileservice.MissingInfo(name),
	}
}

// Open resolves the dataset description by absolute path.
func (d *Dataset) Open() error {
	dir, _ := splitPath(d.path)
	return d.openWith("open", func(f *File) error {
		return f.openPath(dir)
	})
}

// OpenLocal resolves the dataset description relative to parent, which
// must be open.
func (d *Dataset) OpenLocal(parent *Group) error {
	if err := checkParent(parent, d.file, d.path); err != nil {
		return pathError("open local", d.path, err)
	}
	return d.openWith("open local", func(f *File) error {
		return f.reseat(parent.path)
	})
}

// openFrom uses the fast open when parent is open and the slow one otherwise.
func (d *Dataset) openFrom(parent *Group) error {
	if parent.open {
		return d.OpenLocal(parent)
	}
	return d.Open()
}

func (d *Dataset) openWith(op string, position func(f *File) error) error {
	_, name := splitPath(d.path)
	f := d.file
	if err := f.lock(); err != nil {
		return pathError(op, d.path, err)
	}
	var info fileservice.DatasetInfo
	err := position(f)
	if err == nil {
		err = f.withData(name, func() error {
			var ierr error
			info, ierr = f.info()
			return ierr
		})
	}
	f.mu.Unlock()
	if err != nil {
		return pathError(op, d.path, err)
	}

	info.Name = name
	d.info = info
	d.open = true
	d.loadAttributes()
	f.log.WithFields(logrus.Fields{
		"path": d.path,
		"op":   op,
		"rank": info.Rank,
		"type": info.Type.String(),
	}).Debug("opened dataset")
	return nil
}

// Close marks the descriptor closed. It is idempotent.
func (d *Dataset) Close() error {
	d.open = false
	return nil
}

// Info returns the dataset description.
func (d *Dataset) Info() fileservice.DatasetInfo { return d.info }

// Rank returns the number of dimensions.
func (d *Dataset) Rank() int { return d.info.Rank }

// Dims returns the extent of dimension i, or 0 when i is not below the rank
// or outside 0..3.
func (d *Dataset) Dims(i int) int { return d.info.Dim(i) }

// Dim0 returns the extent of the first dimension.
func (d *Dataset) Dim0() int { return d.info.Dim(0) }

// Dim1 returns the extent of the second dimension.
func (d *Dataset) Dim1() int { return d.info.Dim(1) }

// Dim2 returns the extent of the third dimension.
func (d *Dataset) Dim2() int { return d.info.Dim(2) }

// Dim3 returns the extent of the fourth dimension.
func (d *Dataset) Dim3() int { return d.info.Dim(3) }

// Type returns the stored element type.
func (d *Dataset) Type() fileservice.NumericType { return d.info.Type }

// getData reads the whole dataset into dst.
func (d *Dataset) getData(dst any) error {
	return d.read("read", func(svc fileservice.Service, m *metrics.Collector) error {
		m.ServiceCall(metrics.OpReadData)
		return svc.ReadData(dst)
	})
}

// getSlab reads the region start/count into dst.
func (d *Dataset) getSlab(dst any, start, count []int) error {
	return d.read("read slab", func(svc fileservice.Service, m *metrics.Collector) error {
		m.ServiceCall(metrics.OpReadSlab)
		return svc.ReadSlab(dst, start, count)
	})
}

// read opens the dataset, runs fn and closes the dataset, all under the
// file lock. These are the only places payload crosses into memory.
func (d *Dataset) read(op string, fn func(fileservice.Service, *metrics.Collector) error) error {
	if !d.open {
		return pathError(op, d.path, ErrNotOpen)
	}
	dir, name := splitPath(d.path)
	f := d.file
	if err := f.lock(); err != nil {
		return pathError(op, d.path, err)
	}
	defer f.mu.Unlock()

	if err := f.seek(dir); err != nil {
		return pathError(op, d.path, err)
	}
	return pathError(op, d.path, f.withData(name, func() error {
		return fn(f.svc, f.metrics)
	}))
}
