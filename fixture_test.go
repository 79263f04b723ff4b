package nexus

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scigolib/nexus/memfile"
)

func seq[T int16 | int32 | float32 | float64](n int) []T {
	out := make([]T, n)
	for i := range out {
		out[i] = T(i)
	}
	return out
}

// buildTree returns an in-memory NeXus file:
//
//	/entry                      NXentry
//	  title                     "vanadium run"
//	  scalar                    2.5 (rank 0)
//	  instrument                NXinstrument
//	    bank1                   NXdetector (angles, distance, detector_number)
//	  data                      NXdata
//	    tof      float32[10]    0..9
//	    counts   int32[3 4]     0..11, signal=1
//	    cube     float64[2 3 4] 0..23
//	    hyper    int16[2 2 3 2] 0..23
//	  sample                    NXsample (name "V")
//	  monitor1                  NXmonitor (data int32[5], mode "monitor")
//	  temperature               NXlog (value, time with start)
//	/entry2                     NXentry
//	  data                      NXdata (data float64[3])
//	  empty                     NXdata
func buildTree(t *testing.T) *memfile.File {
	t.Helper()
	f := memfile.New()
	must := func(err error) {
		t.Helper()
		require.NoError(t, err)
	}

	must(f.AddGroup("/entry", ClassEntry))
	must(f.AddString("/entry/title", "vanadium run"))
	must(f.AddDataset("/entry/scalar", []int{}, []float64{2.5}))

	must(f.AddGroup("/entry/instrument", ClassInstrument))
	must(f.AddGroup("/entry/instrument/bank1", ClassDetector))
	must(f.AddDataset("/entry/instrument/bank1/polar_angle", []int{4}, []float64{10, 20, 30, 40}))
	must(f.AddDataset("/entry/instrument/bank1/azimuthal_angle", []int{4}, []float64{0, 90, 180, 270}))
	must(f.AddDataset("/entry/instrument/bank1/distance", []int{4}, []float32{1.5, 1.5, 1.5, 1.5}))
	must(f.AddDataset("/entry/instrument/bank1/detector_number", []int{4}, []int64{101, 102, 103, 104}))

	must(f.AddGroup("/entry/data", ClassData))
	must(f.AddDataset("/entry/data/tof", []int{10}, seq[float32](10)))
	must(f.AddDataset("/entry/data/counts", []int{3, 4}, seq[int32](12)))
	must(f.SetAttribute("/entry/data/counts", "signal", "1"))
	must(f.SetAttribute("/entry/data/counts", "units", "counts"))
	must(f.AddDataset("/entry/data/cube", []int{2, 3, 4}, seq[float64](24)))
	must(f.AddDataset("/entry/data/hyper", []int{2, 2, 3, 2}, seq[int16](24)))

	must(f.AddGroup("/entry/sample", ClassSample))
	must(f.AddString("/entry/sample/name", "V"))

	must(f.AddGroup("/entry/monitor1", ClassMonitor))
	must(f.AddDataset("/entry/monitor1/data", []int{5}, []int32{5, 4, 3, 2, 1}))
	must(f.AddString("/entry/monitor1/mode", "monitor"))

	must(f.AddGroup("/entry/temperature", ClassLog))
	must(f.AddDataset("/entry/temperature/value", []int{3}, []float64{290.5, 291, 291.5}))
	must(f.AddDataset("/entry/temperature/time", []int{3}, []float64{0, 60, 120}))
	must(f.SetAttribute("/entry/temperature/time", "start", "2024-03-01T12:00:00"))

	must(f.AddGroup("/entry2", ClassEntry))
	must(f.AddGroup("/entry2/data", ClassData))
	must(f.AddDataset("/entry2/data/data", []int{3}, []float64{7, 8, 9}))
	must(f.AddGroup("/entry2/empty", ClassData))
	return f
}

func openTree(t *testing.T, opts ...Option) (*Root, *memfile.File) {
	t.Helper()
	mf := buildTree(t)
	root, err := OpenService(mf, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = root.Close() })
	return root, mf
}

func openData(t *testing.T, root *Root) *Data {
	t.Helper()
	entry, err := root.OpenEntry("entry")
	require.NoError(t, err)
	data, err := entry.OpenData("data")
	require.NoError(t, err)
	return data
}
