package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/scigolib/hdf5"
	"github.com/stretchr/testify/require"

	"github.com/scigolib/nexus"
	"github.com/scigolib/nexus/fileservice"
	"github.com/scigolib/nexus/internal/config"
	"github.com/scigolib/nexus/memfile"
)

// buildTree returns a small in-memory NeXus file.
func buildTree(t *testing.T) *memfile.File {
	t.Helper()
	mf := memfile.New()
	must := func(err error) {
		t.Helper()
		require.NoError(t, err)
	}
	must(mf.AddGroup("/entry", "NXentry"))
	must(mf.AddString("/entry/title", "run 42"))
	must(mf.AddGroup("/entry/data", "NXdata"))
	must(mf.AddDataset("/entry/data/counts", []int{3, 4}, []int32{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}))
	must(mf.SetAttribute("/entry/data/counts", "signal", "1"))
	must(mf.SetAttribute("/entry/data/counts", "units", "counts"))
	must(mf.AddDataset("/entry/data/tof", []int{10}, []float32{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}))
	return mf
}

// useTree makes every command open a fresh in-memory file, resets the
// global flags and captures the output.
func useTree(t *testing.T) *bytes.Buffer {
	t.Helper()

	prevOpen, prevOut := openFile, out
	var buf bytes.Buffer
	openFile = func(_ string, opts ...nexus.Option) (*nexus.Root, error) {
		return nexus.OpenService(buildTree(t), opts...)
	}
	out = &buf
	t.Cleanup(func() { openFile, out = prevOpen, prevOut })

	resetFlags()
	return &buf
}

func resetFlags() {
	configPath, verbose, jsonOut, showStats = "", false, false, false
	treeDepth = -1
	loadBlock, loadI, loadJ, loadIterate = 0, -1, -1, false
	cfg = config.Default()
}

func TestTreeCommand(t *testing.T) {
	buf := useTree(t)
	require.NoError(t, runTree([]string{"run.nxs"}))

	want := strings.Join([]string{
		"/ [NXroot]",
		"  entry [NXentry]",
		"    data [NXdata]",
		"      counts int32[3 4]",
		"      tof float32[10]",
		"    title char[6]",
		"",
	}, "\n")
	require.Equal(t, want, buf.String())
}

func TestTreeDepth(t *testing.T) {
	buf := useTree(t)
	treeDepth = 1
	require.NoError(t, runTree([]string{"run.nxs"}))
	require.Contains(t, buf.String(), "entry [NXentry]")
	require.NotContains(t, buf.String(), "data")

	buf.Reset()
	treeDepth = -1
	cfg.Tree.MaxDepth = 2
	require.NoError(t, runTree([]string{"run.nxs"}))
	require.Contains(t, buf.String(), "data [NXdata]")
	require.NotContains(t, buf.String(), "counts")
}

func TestTreeJSON(t *testing.T) {
	buf := useTree(t)
	jsonOut = true
	require.NoError(t, runTree([]string{"run.nxs", "/entry/data"}))

	var node treeNode
	require.NoError(t, json.Unmarshal(buf.Bytes(), &node))
	require.Equal(t, "/entry/data", node.Path)
	require.Equal(t, "NXdata", node.Class)
	require.Len(t, node.Children, 2)
	require.Equal(t, "/entry/data/counts", node.Children[0].Path)
	require.Equal(t, []int{3, 4}, node.Children[0].Dims)

	err := runTree([]string{"run.nxs", "/entry/nope"})
	require.ErrorIs(t, err, fileservice.ErrNotFound)
}

func TestInfoCommand(t *testing.T) {
	buf := useTree(t)
	require.NoError(t, runInfo([]string{"run.nxs", "/entry/data/counts"}))
	text := buf.String()
	require.Contains(t, text, "Path: /entry/data/counts\n")
	require.Contains(t, text, "Type: int32\n")
	require.Contains(t, text, "Rank: 2\n")
	require.Contains(t, text, "Dims: [3 4]\n")
	require.Contains(t, text, "  @signal = 1\n")

	buf.Reset()
	jsonOut = true
	require.NoError(t, runInfo([]string{"run.nxs", "entry/data/tof"}))
	var report datasetReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	require.Equal(t, datasetReport{Path: "/entry/data/tof", Type: "float32", Rank: 1, Dims: []int{10}}, report)

	require.Error(t, runInfo([]string{"run.nxs", "/entry/data"}))
}

func TestAttrsCommand(t *testing.T) {
	buf := useTree(t)
	require.NoError(t, runAttrs([]string{"run.nxs", "/entry"}))
	require.Equal(t, "NX_class = NXentry\n", buf.String())

	buf.Reset()
	jsonOut = true
	require.NoError(t, runAttrs([]string{"run.nxs", "/entry/data/counts"}))
	var list []attribute
	require.NoError(t, json.Unmarshal(buf.Bytes(), &list))
	require.Equal(t, []attribute{{"signal", "1"}, {"units", "counts"}}, list)

	buf.Reset()
	require.NoError(t, runAttrs([]string{"run.nxs", "/"}))
	require.Equal(t, "[]\n", buf.String())

	err := runAttrs([]string{"run.nxs", "/entry/missing"})
	require.ErrorIs(t, err, fileservice.ErrNotFound)
}

func TestLoadCommand(t *testing.T) {
	buf := useTree(t)

	loadI, loadBlock = 1, 1
	require.NoError(t, runLoad(context.Background(), []string{"run.nxs", "/entry/data/counts"}))
	require.Equal(t, "/entry/data/counts @1 [1 4]: [4 5 6 7]\n", buf.String())

	buf.Reset()
	loadI, loadBlock = 1, 5
	require.NoError(t, runLoad(context.Background(), []string{"run.nxs", "/entry/data/counts"}))
	require.Equal(t, "/entry/data/counts @1 [2 4]: [4 5 6 7 8 9 10 11]\n", buf.String())

	buf.Reset()
	loadI, loadJ, loadBlock = 0, 2, 5
	require.NoError(t, runLoad(context.Background(), []string{"run.nxs", "/entry/data/counts"}))
	require.Equal(t, "/entry/data/counts @0 [1 2]: [2 3]\n", buf.String())

	buf.Reset()
	loadI, loadJ, loadBlock = -1, -1, 0
	jsonOut = true
	require.NoError(t, runLoad(context.Background(), []string{"run.nxs", "/entry/data/tof"}))
	var report loadReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	require.Equal(t, []int{10}, report.Dims)
	require.Len(t, report.Values, 10)

	loadI = 10
	loadBlock = 4
	err := runLoad(context.Background(), []string{"run.nxs", "/entry/data/tof"})
	require.ErrorIs(t, err, nexus.ErrRange)
}

func TestLoadIterate(t *testing.T) {
	buf := useTree(t)
	loadIterate = true
	loadBlock = 4

	require.NoError(t, runLoad(context.Background(), []string{"run.nxs", "/entry/data/tof"}))
	require.Equal(t, strings.Join([]string{
		"/entry/data/tof @0 [4]: [0 1 2 3]",
		"/entry/data/tof @4 [4]: [4 5 6 7]",
		"/entry/data/tof @8 [2]: [8 9]",
		"",
	}, "\n"), buf.String())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := runLoad(ctx, []string{"run.nxs", "/entry/data/tof"})
	require.ErrorIs(t, err, context.Canceled)
}

func TestSplitObjectPath(t *testing.T) {
	tests := []struct {
		in, dir, name string
	}{
		{"/entry/data/counts", "/entry/data", "counts"},
		{"entry/title", "/entry", "title"},
		{"/entry/", "/", "entry"},
		{"tof", "/", "tof"},
	}
	for _, tt := range tests {
		dir, name := splitObjectPath(tt.in)
		require.Equal(t, tt.dir, dir, tt.in)
		require.Equal(t, tt.name, name, tt.in)
	}
}

func TestExecuteOverHDF5(t *testing.T) {
	name := filepath.Join(t.TempDir(), "run.nxs")
	fw, err := hdf5.CreateForWrite(name, hdf5.CreateTruncate)
	require.NoError(t, err)
	require.NoError(t, fw.CreateGroup("/entry"))
	tof, err := fw.CreateDataset("/entry/tof", hdf5.Float64, []uint64{10})
	require.NoError(t, err)
	require.NoError(t, tof.Write([]float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}))
	require.NoError(t, fw.Close())

	resetFlags()
	prevOut := out
	var buf bytes.Buffer
	out = &buf
	t.Cleanup(func() {
		out = prevOut
		rootCmd.SetArgs(nil)
		resetFlags()
	})

	rootCmd.SetArgs([]string{"load", name, "/entry/tof", "--i", "8", "--block", "4", "--stats"})
	require.NoError(t, rootCmd.Execute())

	got := buf.String()
	require.Contains(t, got, "/entry/tof @8 [2]: [8 9]\n")
	require.Contains(t, got, "nexus_elements_loaded_total ")
	require.Contains(t, got, "nexus_service_calls_total{op=read_slab} ")
}
