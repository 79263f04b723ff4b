package utils

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNXError_Error(t *testing.T) {
	tests := []struct {
		name     string
		context  string
		path     string
		cause    error
		expected string
	}{
		{
			name:     "simple error",
			context:  "opening /entry",
			cause:    errors.New("object not found"),
			expected: "opening /entry: object not found",
		},
		{
			name:     "empty context",
			context:  "",
			cause:    errors.New("some error"),
			expected: ": some error",
		},
		{
			name:     "with path",
			context:  "dataset info failed",
			path:     "/entry/data/counts",
			cause:    errors.New("bad header"),
			expected: "dataset info failed /entry/data/counts: bad header",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &NXError{Context: tt.context, Path: tt.path, Cause: tt.cause}
			require.Equal(t, tt.expected, err.Error())
		})
	}
}

func TestWrapError(t *testing.T) {
	require.Nil(t, WrapError("nothing happened", nil))

	base := errors.New("short read")
	level1 := WrapError("reading slab", base)
	level2 := WrapError("loading /entry/data/counts", level1)

	require.ErrorIs(t, level2, base)
	require.Equal(t, "loading /entry/data/counts: reading slab: short read", level2.Error())

	var nxErr *NXError
	require.ErrorAs(t, level2, &nxErr)
	require.Equal(t, "loading /entry/data/counts", nxErr.Context)
	require.Equal(t, level1, errors.Unwrap(level2))
	require.Empty(t, nxErr.Path)
}

func TestWrapPathError(t *testing.T) {
	require.Nil(t, WrapPathError("attribute read failed", "/entry", nil))

	base := errors.New("truncated message")
	err := WrapPathError("attribute read failed", "/entry/sample", base)
	require.ErrorIs(t, err, base)
	require.Equal(t, "attribute read failed /entry/sample: truncated message", err.Error())

	var nxErr *NXError
	require.ErrorAs(t, err, &nxErr)
	require.Equal(t, "/entry/sample", nxErr.Path)
	require.Equal(t, "attribute read failed", nxErr.Context)
}

func TestSafeMultiply(t *testing.T) {
	tests := []struct {
		name    string
		a, b    int
		want    int
		wantErr bool
	}{
		{name: "small", a: 10, b: 20, want: 200},
		{name: "zero", a: 0, b: math.MaxInt, want: 0},
		{name: "exact max", a: math.MaxInt, b: 1, want: math.MaxInt},
		{name: "overflow", a: math.MaxInt / 2, b: 3, wantErr: true},
		{name: "negative", a: -1, b: 3, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SafeMultiply(tt.a, tt.b)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestProduct(t *testing.T) {
	n, err := Product([]int{2, 3, 4})
	require.NoError(t, err)
	require.Equal(t, 24, n)

	n, err = Product(nil)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	n, err = Product([]int{5, 0})
	require.NoError(t, err)
	require.Equal(t, 0, n)

	_, err = Product([]int{2, -1})
	require.Error(t, err)

	_, err = Product([]int{math.MaxInt, 2})
	require.Error(t, err)
}
