package nexus

import (
	"fmt"

	"github.com/scigolib/nexus/fileservice"
)

// NeXus base classes with dedicated wrappers.
const (
	ClassRoot       = "NXroot"
	ClassEntry      = "NXentry"
	ClassInstrument = "NXinstrument"
	ClassDetector   = "NXdetector"
	ClassData       = "NXdata"
	ClassSample     = "NXsample"
	ClassMonitor    = "NXmonitor"
	ClassLog        = "NXlog"
)

// Root is the top of a NeXus file. It holds one reference to the shared
// file, released by Close.
type Root struct {
	*Group
	released bool
}

// NewRoot opens the root group of f and takes a reference to f.
func NewRoot(f *File) (*Root, error) {
	if f.Closed() {
		return nil, ErrFileClosed
	}
	f.Retain()
	r := &Root{Group: &Group{object: object{file: f, path: "/", attrs: newAttributes(nil)}}}
	if err := r.Open(); err != nil {
		_ = f.Release()
		return nil, err
	}
	return r, nil
}

// Close closes the root and releases its file reference. Calling it again
// is a no-op.
func (r *Root) Close() error {
	_ = r.Group.Close()
	if r.released {
		return nil
	}
	r.released = true
	return r.file.Release()
}

// EntryNames lists the NXentry groups of the file.
func (r *Root) EntryNames() []string {
	return r.GroupsOfClass(ClassEntry)
}

// OpenEntry opens the NXentry name.
func (r *Root) OpenEntry(name string) (*Entry, error) {
	return OpenGroup(r.Group, name, ClassEntry, func(g *Group) *Entry { return &Entry{Group: g} })
}

// Entry is an NXentry: one measurement or simulation run.
type Entry struct {
	*Group
}

// OpenInstrument opens the NXinstrument name.
func (e *Entry) OpenInstrument(name string) (*Instrument, error) {
	return OpenGroup(e.Group, name, ClassInstrument, func(g *Group) *Instrument { return &Instrument{Group: g} })
}

// OpenData opens the NXdata name.
func (e *Entry) OpenData(name string) (*Data, error) {
	return OpenGroup(e.Group, name, ClassData, func(g *Group) *Data { return &Data{Group: g} })
}

// OpenSample opens the NXsample name.
func (e *Entry) OpenSample(name string) (*Sample, error) {
	return OpenGroup(e.Group, name, ClassSample, func(g *Group) *Sample { return &Sample{Group: g} })
}

// OpenMonitor opens the NXmonitor name.
func (e *Entry) OpenMonitor(name string) (*Monitor, error) {
	return OpenGroup(e.Group, name, ClassMonitor, func(g *Group) *Monitor { return &Monitor{Group: g} })
}

// OpenLog opens the NXlog name.
func (e *Entry) OpenLog(name string) (*Log, error) {
	return OpenGroup(e.Group, name, ClassLog, func(g *Group) *Log { return &Log{Group: g} })
}

// Title returns the text of the entry's title dataset.
func (e *Entry) Title() (string, error) {
	return e.GetString("title")
}

// Instrument is an NXinstrument.
type Instrument struct {
	*Group
}

// OpenDetector opens the NXdetector name.
func (in *Instrument) OpenDetector(name string) (*Detector, error) {
	return OpenGroup(in.Group, name, ClassDetector, func(g *Group) *Detector { return &Detector{Group: g} })
}

// Detector is an NXdetector.
type Detector struct {
	*Group
}

// OpenPolarAngle opens the polar_angle dataset.
func (d *Detector) OpenPolarAngle() (*TypedDataset[float32], error) {
	return OpenDataset[float32](d.Group, "polar_angle")
}

// OpenAzimuthalAngle opens the azimuthal_angle dataset.
func (d *Detector) OpenAzimuthalAngle() (*TypedDataset[float32], error) {
	return OpenDataset[float32](d.Group, "azimuthal_angle")
}

// OpenDistance opens the distance dataset.
func (d *Detector) OpenDistance() (*TypedDataset[float32], error) {
	return OpenDataset[float32](d.Group, "distance")
}

// OpenDetectorNumber opens the detector_number dataset.
func (d *Detector) OpenDetectorNumber() (*TypedDataset[int32], error) {
	return OpenDataset[int32](d.Group, "detector_number")
}

// Data is an NXdata: a plottable signal with its axes.
type Data struct {
	*Group
}

// SignalName returns the name of the dataset carrying signal=1, falling back
// to a dataset called "data".
func (d *Data) SignalName() (string, error) {
	for _, info := range d.datasets {
		attrs, err := d.file.attributes(joinPath(d.path, info.Name))
		if err != nil {
			continue
		}
		if newAttributes(attrs).Get("signal") == "1" {
			return info.Name, nil
		}
	}
	if d.ContainsDataSet("data") {
		return "data", nil
	}
	return "", pathError("find signal", d.path, fmt.Errorf("%w: no signal dataset", fileservice.ErrNotFound))
}

// OpenSignal opens the signal dataset of d for loading into a []T.
func OpenSignal[T fileservice.Element](d *Data) (*TypedDataset[T], error) {
	name, err := d.SignalName()
	if err != nil {
		return nil, err
	}
	return OpenDataset[T](d.Group, name)
}

// OpenFloatData opens the signal as float32.
func (d *Data) OpenFloatData() (*TypedDataset[float32], error) {
	return OpenSignal[float32](d)
}

// OpenIntData opens the signal as int32.
func (d *Data) OpenIntData() (*TypedDataset[int32], error) {
	return OpenSignal[int32](d)
}

// Sample is an NXsample.
type Sample struct {
	*Group
}

// SampleName returns the text of the sample's name dataset.
func (s *Sample) SampleName() (string, error) {
	return s.GetString("name")
}

// Monitor is an NXmonitor.
type Monitor struct {
	*Group
}

// OpenCounts opens the monitor's data dataset.
func (m *Monitor) OpenCounts() (*TypedDataset[int32], error) {
	return OpenDataset[int32](m.Group, "data")
}

// Mode returns the counting mode, "monitor" or "timer".
func (m *Monitor) Mode() (string, error) {
	return m.GetString("mode")
}

// Log is an NXlog: a value series sampled at the offsets in time.
type Log struct {
	*Group
}

// OpenTime opens the time offsets. The "start" attribute, when present,
// holds the absolute start time.
func (l *Log) OpenTime() (*TypedDataset[float64], error) {
	return OpenDataset[float64](l.Group, "time")
}

// OpenLogValues opens the value series of l for loading into a []T.
func OpenLogValues[T fileservice.Element](l *Log) (*TypedDataset[T], error) {
	return OpenDataset[T](l.Group, "value")
}
