package fileservice

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNumericTypeSize(t *testing.T) {
	tests := []struct {
		typ  NumericType
		size int
	}{
		{TypeChar, 1},
		{TypeInt8, 1},
		{TypeUint16, 2},
		{TypeInt32, 4},
		{TypeFloat32, 4},
		{TypeUint64, 8},
		{TypeFloat64, 8},
		{TypeUnknown, 0},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			require.Equal(t, tt.size, tt.typ.Size())
		})
	}
}

func TestParseNumericType(t *testing.T) {
	typ, err := ParseNumericType("float32")
	require.NoError(t, err)
	require.Equal(t, TypeFloat32, typ)

	_, err = ParseNumericType("complex128")
	require.ErrorIs(t, err, ErrUnsupportedType)

	_, err = ParseNumericType("unknown")
	require.ErrorIs(t, err, ErrUnsupportedType)
}

func TestTypeFor(t *testing.T) {
	require.Equal(t, TypeInt32, TypeFor[int32]())
	require.Equal(t, TypeUint8, TypeFor[byte]())
	require.Equal(t, TypeFloat64, TypeFor[float64]())
	require.Equal(t, TypeSize, TypeFor[uint]())
}

func TestDatasetInfoDims(t *testing.T) {
	info := NewDatasetInfo("counts", TypeInt32, []int{3, 4})

	require.True(t, info.OK())
	require.Equal(t, 2, info.Rank)
	require.Equal(t, 3, info.Dim(0))
	require.Equal(t, 4, info.Dim(1))
	require.Equal(t, 0, info.Dim(2), "dimension beyond rank")
	require.Equal(t, 0, info.Dim(5), "dimension beyond MaxRank")
	require.Equal(t, 0, info.Dim(-1))
	require.Equal(t, []int{3, 4}, info.Shape())
	require.Equal(t, "counts int32[3 4]", info.String())
}

func TestDatasetInfoRankAboveMax(t *testing.T) {
	info := NewDatasetInfo("big", TypeFloat64, []int{1, 2, 3, 4, 5})

	require.Equal(t, 5, info.Rank)
	require.Equal(t, [MaxRank]int{1, 2, 3, 4}, info.Dims)
	require.Len(t, info.Shape(), MaxRank)
}

func TestMissingInfo(t *testing.T) {
	info := MissingInfo("nothing")
	require.False(t, info.OK())
	require.Equal(t, StatusError, info.Status)
	require.Equal(t, "nothing <missing>", info.String())
}

func TestConvert(t *testing.T) {
	t.Run("int32 to float64", func(t *testing.T) {
		dst := make([]float64, 3)
		require.NoError(t, Convert(dst, []int32{1, -2, 3}))
		require.Equal(t, []float64{1, -2, 3}, dst)
	})

	t.Run("float64 to int64 truncates", func(t *testing.T) {
		dst := make([]int64, 2)
		require.NoError(t, Convert(dst, []float64{1.9, -2.5}))
		require.Equal(t, []int64{1, -2}, dst)
	})

	t.Run("same type", func(t *testing.T) {
		dst := make([]float32, 2)
		require.NoError(t, Convert(dst, []float32{0.5, 1.5}))
		require.Equal(t, []float32{0.5, 1.5}, dst)
	})

	t.Run("length mismatch", func(t *testing.T) {
		err := Convert(make([]float64, 2), []float64{1, 2, 3})
		require.ErrorIs(t, err, ErrLengthMismatch)
	})

	t.Run("unsupported destination", func(t *testing.T) {
		err := Convert(make([]string, 1), []float64{1})
		require.ErrorIs(t, err, ErrUnsupportedType)
	})

	t.Run("unsupported source", func(t *testing.T) {
		err := Convert(make([]float64, 1), []complex64{1})
		require.ErrorIs(t, err, ErrUnsupportedType)
	})
}

func TestMakeSlice(t *testing.T) {
	v, err := MakeSlice(TypeChar, 4)
	require.NoError(t, err)
	require.IsType(t, []uint8{}, v)
	require.Equal(t, 4, SliceLen(v))

	v, err = MakeSlice(TypeSize, 2)
	require.NoError(t, err)
	require.IsType(t, []uint{}, v)

	_, err = MakeSlice(TypeUnknown, 1)
	require.ErrorIs(t, err, ErrUnsupportedType)

	require.Equal(t, -1, SliceLen(42))
}

func TestCheckSlab(t *testing.T) {
	dims := []int{4, 5}

	n, err := CheckSlab(dims, []int{1, 2}, []int{2, 3})
	require.NoError(t, err)
	require.Equal(t, 6, n)

	_, err = CheckSlab(dims, []int{3, 0}, []int{2, 1})
	require.ErrorIs(t, err, ErrInvalidSlab)

	_, err = CheckSlab(dims, []int{0}, []int{1})
	require.ErrorIs(t, err, ErrInvalidSlab)

	_, err = CheckSlab(dims, []int{-1, 0}, []int{1, 1})
	require.ErrorIs(t, err, ErrInvalidSlab)
}

func TestExtractSlab(t *testing.T) {
	// 3x4 matrix holding its own flat index.
	src := make([]int, 12)
	for i := range src {
		src[i] = i
	}
	dims := []int{3, 4}

	tests := []struct {
		name  string
		start []int
		count []int
		want  []int
	}{
		{"single row", []int{1, 0}, []int{1, 4}, []int{4, 5, 6, 7}},
		{"column block", []int{0, 1}, []int{3, 2}, []int{1, 2, 5, 6, 9, 10}},
		{"single cell", []int{2, 3}, []int{1, 1}, []int{11}},
		{"everything", []int{0, 0}, []int{3, 4}, src},
		{"empty", []int{0, 0}, []int{0, 4}, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ExtractSlab(src, dims, tt.start, tt.count))
		})
	}
}

func TestExtractSlab3D(t *testing.T) {
	// 2x3x4 cube holding its own flat index.
	src := make([]int, 24)
	for i := range src {
		src[i] = i
	}

	got := ExtractSlab(src, []int{2, 3, 4}, []int{1, 1, 1}, []int{1, 2, 2})
	require.Equal(t, []int{17, 18, 21, 22}, got)
}

func TestEntryIsSDS(t *testing.T) {
	require.True(t, Entry{Name: "data", Class: ClassSDS}.IsSDS())
	require.False(t, Entry{Name: "entry", Class: "NXentry"}.IsSDS())
}
