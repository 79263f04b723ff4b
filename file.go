// Package nexus provides typed, rank-aware access to NeXus files.
//
// A NeXus file is a tree of classed groups (NXentry, NXinstrument, NXdata...)
// holding typed datasets of rank 1 to 4 and string attributes. The package
// wraps a cursor-based fileservice.Service with:
//
//   - groups that cache their child listings once per open,
//   - two ways of opening an object: Open by absolute path, and the cheaper
//     OpenLocal relative to an already open parent,
//   - dataset descriptors that read metadata only,
//   - TypedDataset[T], which loads a whole dataset or one chunk of it into a
//     reusable buffer of T.
//
// Usage:
//
//	root, err := nexus.Open("run.nxs")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer root.Close()
//
//	entry, err := root.OpenEntry("entry")
//	data, err := entry.OpenData("data")
//	counts, err := nexus.OpenSignal[int32](data)
//	err = counts.Load()
//
// All objects opened from one root share a *File. Calls are serialised on
// the file's mutex, so objects may be used from several goroutines, but each
// object itself is not safe for concurrent use.
package nexus

import (
	"errors"
	"io"
	"path"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/scigolib/nexus/fileservice"
	"github.com/scigolib/nexus/h5file"
	"github.com/scigolib/nexus/internal/metrics"
	"github.com/scigolib/nexus/internal/utils"
)

// File is the shared handle every object of one container holds.
//
// It owns the service, serialises access to it and remembers which group
// the service cursor is on. The service is closed when the last reference
// is released.
type File struct {
	mu     sync.Mutex
	svc    fileservice.Service
	refs   int
	closed bool
	// cursor is the group the service is positioned on; "" when unknown.
	cursor string

	log     logrus.FieldLogger
	metrics *metrics.Collector
}

// Open opens an HDF5 NeXus file and returns its root.
func Open(filename string, opts ...Option) (*Root, error) {
	svc, err := h5file.Open(filename)
	if err != nil {
		return nil, utils.WrapError("file open failed", err)
	}
	return OpenService(svc, opts...)
}

// OpenService wraps an existing service and returns the root of its tree.
// Closing the returned root closes the service, and so does a failed open.
func OpenService(svc fileservice.Service, opts ...Option) (*Root, error) {
	f, err := newFile(svc, opts...)
	if err != nil {
		_ = svc.Close()
		return nil, err
	}
	root, err := NewRoot(f)
	// The root holds its own reference; on failure this closes the service.
	_ = f.Release()
	if err != nil {
		return nil, err
	}
	return root, nil
}

func newFile(svc fileservice.Service, opts ...Option) (*File, error) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	f := &File{
		svc:  svc,
		refs: 1,
		log:  log,
	}
	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, utils.WrapError("option failed", err)
		}
	}
	if f.metrics == nil {
		// Unregistered counters never fail to build.
		f.metrics, _ = metrics.New(nil)
	}
	return f, nil
}

// Retain adds a reference to f and returns it.
func (f *File) Retain() *File {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.refs++
	}
	return f
}

// Release drops a reference. Dropping the last one closes the service;
// releasing a closed file is a no-op.
func (f *File) Release() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	f.refs--
	if f.refs > 0 {
		return nil
	}
	f.closed = true
	f.cursor = ""
	f.log.Debug("closing file service")
	return f.svc.Close()
}

// Refs returns the number of live references.
func (f *File) Refs() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refs
}

// Closed reports whether the last reference has been released.
func (f *File) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// Logger returns the file's logger.
func (f *File) Logger() logrus.FieldLogger { return f.log }

// Metrics returns the file's counters.
func (f *File) Metrics() *metrics.Collector { return f.metrics }

// lock acquires the file mutex, failing if the file is closed.
// On success the caller must call f.mu.Unlock.
func (f *File) lock() error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return ErrFileClosed
	}
	return nil
}

// The methods below run with f.mu held.

func (f *File) openPath(p string) error {
	f.metrics.ServiceCall(metrics.OpOpenPath)
	if err := f.svc.OpenPath(p); err != nil {
		f.cursor = ""
		return err
	}
	f.cursor = p
	return nil
}

// seek positions the cursor on group p, reusing the current position.
// The cached position is trusted; withData recovers when the service was
// moved behind the File's back.
func (f *File) seek(p string) error {
	if f.cursor == p {
		return nil
	}
	return f.openPath(p)
}

// reseat is seek for fast opens. Each move is counted as a cursor reseat.
func (f *File) reseat(p string) error {
	if f.cursor == p {
		return nil
	}
	f.metrics.CursorReseat()
	f.log.WithFields(logrus.Fields{"path": p, "from": f.cursor}).Debug("reseating cursor")
	return f.openPath(p)
}

func (f *File) openGroup(name, class string) error {
	f.metrics.ServiceCall(metrics.OpOpenGroup)
	if err := f.svc.OpenGroup(name, class); err != nil {
		return err
	}
	f.cursor = joinPath(f.cursor, name)
	return nil
}

// withData opens dataset name of the current group, runs fn and closes the
// dataset again, so no dataset handle outlives the call.
func (f *File) withData(name string, fn func() error) error {
	f.metrics.ServiceCall(metrics.OpOpenData)
	err := f.svc.OpenData(name)
	if errors.Is(err, fileservice.ErrNotFound) && f.cursor != "" {
		// The cached cursor may be stale: go back to it once and retry.
		f.log.WithFields(logrus.Fields{"path": joinPath(f.cursor, name)}).Debug("dataset not found, re-seeking cursor")
		if serr := f.openPath(f.cursor); serr == nil {
			f.metrics.ServiceCall(metrics.OpOpenData)
			err = f.svc.OpenData(name)
		}
	}
	if err != nil {
		return err
	}
	err = fn()
	f.metrics.ServiceCall(metrics.OpCloseData)
	if cerr := f.svc.CloseData(); err == nil {
		err = cerr
	}
	return err
}

func (f *File) info() (fileservice.DatasetInfo, error) {
	f.metrics.ServiceCall(metrics.OpInfo)
	return f.svc.Info()
}

// listGroup reads the children of the current group: the group entries,
// and one DatasetInfo per dataset. A dataset whose info cannot be read is
// reported with StatusError instead of failing the listing.
func (f *File) listGroup() ([]fileservice.Entry, []fileservice.DatasetInfo, error) {
	f.metrics.ServiceCall(metrics.OpEntries)
	entries, err := f.svc.Entries()
	if err != nil {
		return nil, nil, err
	}

	var (
		groups   []fileservice.Entry
		datasets []fileservice.DatasetInfo
	)
	for _, e := range entries {
		if !e.IsSDS() {
			groups = append(groups, e)
			continue
		}
		var info fileservice.DatasetInfo
		err := f.withData(e.Name, func() error {
			var ierr error
			info, ierr = f.info()
			return ierr
		})
		if err != nil {
			f.log.WithFields(logrus.Fields{"path": joinPath(f.cursor, e.Name), "op": "info"}).
				WithError(err).Debug("dataset info unavailable")
			info = fileservice.MissingInfo(e.Name)
		}
		info.Name = e.Name
		datasets = append(datasets, info)
	}
	return groups, datasets, nil
}

// attributes reads the attributes of the object at p.
func (f *File) attributes(p string) ([]fileservice.Attribute, error) {
	if err := f.lock(); err != nil {
		return nil, err
	}
	defer f.mu.Unlock()
	f.metrics.ServiceCall(metrics.OpAttributes)
	return f.svc.Attributes(p)
}

func joinPath(parent, name string) string {
	if parent == "" || parent == "/" {
		return "/" + name
	}
	return parent + "/" + name
}

func splitPath(p string) (dir, name string) {
	p = path.Clean("/" + p)
	if p == "/" {
		return "/", ""
	}
	i := strings.LastIndex(p, "/")
	if i == 0 {
		return "/", p[1:]
	}
	return p[:i], p[i+1:]
}
