// Package testing provides fileservice.Service doubles for tests.
package testing

import (
	"sync"

	"github.com/scigolib/nexus/fileservice"
)

// Recorder wraps a Service and counts calls per operation. Failures can be
// injected per operation with FailOn.
type Recorder struct {
	fileservice.Service

	mu    sync.Mutex
	calls map[string]int
	fail  map[string]error
}

// NewRecorder wraps svc.
func NewRecorder(svc fileservice.Service) *Recorder {
	return &Recorder{
		Service: svc,
		calls:   make(map[string]int),
		fail:    make(map[string]error),
	}
}

// Calls returns how many times op was called.
func (r *Recorder) Calls(op string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[op]
}

// Reset clears the counters.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = make(map[string]int)
}

// FailOn makes every later call of op return err. A nil err removes the
// injected failure.
func (r *Recorder) FailOn(op string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err == nil {
		delete(r.fail, op)
		return
	}
	r.fail[op] = err
}

func (r *Recorder) record(op string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[op]++
	return r.fail[op]
}

// OpenPath implements fileservice.Service.
func (r *Recorder) OpenPath(path string) error {
	if err := r.record("OpenPath"); err != nil {
		return err
	}
	return r.Service.OpenPath(path)
}

// OpenGroup implements fileservice.Service.
func (r *Recorder) OpenGroup(name, class string) error {
	if err := r.record("OpenGroup"); err != nil {
		return err
	}
	return r.Service.OpenGroup(name, class)
}

// CloseGroup implements fileservice.Service.
func (r *Recorder) CloseGroup() error {
	if err := r.record("CloseGroup"); err != nil {
		return err
	}
	return r.Service.CloseGroup()
}

// OpenData implements fileservice.Service.
func (r *Recorder) OpenData(name string) error {
	if err := r.record("OpenData"); err != nil {
		return err
	}
	return r.Service.OpenData(name)
}

// CloseData implements fileservice.Service.
func (r *Recorder) CloseData() error {
	if err := r.record("CloseData"); err != nil {
		return err
	}
	return r.Service.CloseData()
}

// Entries implements fileservice.Service.
func (r *Recorder) Entries() ([]fileservice.Entry, error) {
	if err := r.record("Entries"); err != nil {
		return nil, err
	}
	return r.Service.Entries()
}

// Info implements fileservice.Service.
func (r *Recorder) Info() (fileservice.DatasetInfo, error) {
	if err := r.record("Info"); err != nil {
		return fileservice.DatasetInfo{}, err
	}
	return r.Service.Info()
}

// ReadData implements fileservice.Service.
func (r *Recorder) ReadData(dst any) error {
	if err := r.record("ReadData"); err != nil {
		return err
	}
	return r.Service.ReadData(dst)
}

// ReadSlab implements fileservice.Service.
func (r *Recorder) ReadSlab(dst any, start, count []int) error {
	if err := r.record("ReadSlab"); err != nil {
		return err
	}
	return r.Service.ReadSlab(dst, start, count)
}

// Attributes implements fileservice.Service.
func (r *Recorder) Attributes(path string) ([]fileservice.Attribute, error) {
	if err := r.record("Attributes"); err != nil {
		return nil, err
	}
	return r.Service.Attributes(path)
}

// Close implements fileservice.Service.
func (r *Recorder) Close() error {
	if err := r.record("Close"); err != nil {
		return err
	}
	return r.Service.Close()
}
