package testing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scigolib/nexus/fileservice"
	"github.com/scigolib/nexus/memfile"
)

func TestRecorderCountsAndFails(t *testing.T) {
	f := memfile.New()
	require.NoError(t, f.AddGroup("/entry", "NXentry"))

	r := NewRecorder(f)
	var _ fileservice.Service = r

	require.NoError(t, r.OpenPath("/entry"))
	require.NoError(t, r.OpenPath("/"))
	_, err := r.Entries()
	require.NoError(t, err)
	require.Equal(t, 2, r.Calls("OpenPath"))
	require.Equal(t, 1, r.Calls("Entries"))

	boom := errors.New("boom")
	r.FailOn("OpenGroup", boom)
	require.ErrorIs(t, r.OpenGroup("entry", ""), boom)
	r.FailOn("OpenGroup", nil)
	require.NoError(t, r.OpenGroup("entry", "NXentry"))
	require.Equal(t, 2, r.Calls("OpenGroup"))

	r.Reset()
	require.Zero(t, r.Calls("OpenPath"))
}
