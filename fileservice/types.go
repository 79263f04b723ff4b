package fileservice

import (
	"fmt"
	"reflect"
)

// MaxRank is the highest dataset rank the NeXus classes address.
const MaxRank = 4

// NumericType identifies the element type of a dataset.
type NumericType int

// Element types known to the NeXus classes.
const (
	TypeUnknown NumericType = iota
	TypeChar
	TypeInt8
	TypeUint8
	TypeInt16
	TypeUint16
	TypeInt32
	TypeUint32
	TypeInt64
	TypeUint64
	TypeFloat32
	TypeFloat64
	TypeSize
)

var typeNames = map[NumericType]string{
	TypeUnknown: "unknown",
	TypeChar:    "char",
	TypeInt8:    "int8",
	TypeUint8:   "uint8",
	TypeInt16:   "int16",
	TypeUint16:  "uint16",
	TypeInt32:   "int32",
	TypeUint32:  "uint32",
	TypeInt64:   "int64",
	TypeUint64:  "uint64",
	TypeFloat32: "float32",
	TypeFloat64: "float64",
	TypeSize:    "size",
}

// String returns the lower-case type name.
func (t NumericType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("type_%d", int(t))
}

// Size returns the element width in bytes, or 0 for TypeUnknown.
func (t NumericType) Size() int {
	switch t {
	case TypeChar, TypeInt8, TypeUint8:
		return 1
	case TypeInt16, TypeUint16:
		return 2
	case TypeInt32, TypeUint32, TypeFloat32:
		return 4
	case TypeInt64, TypeUint64, TypeFloat64:
		return 8
	case TypeSize:
		return int(reflect.TypeFor[uint]().Size())
	default:
		return 0
	}
}

// ParseNumericType maps a type name as printed by String back to its value.
func ParseNumericType(name string) (NumericType, error) {
	for t, n := range typeNames {
		if n == name && t != TypeUnknown {
			return t, nil
		}
	}
	return TypeUnknown, fmt.Errorf("%w: %q", ErrUnsupportedType, name)
}

// Status reports whether a metadata query succeeded.
type Status int

// Metadata query outcomes.
const (
	StatusOK Status = iota
	StatusError
)

// String returns "ok" or "error".
func (s Status) String() string {
	if s == StatusOK {
		return "ok"
	}
	return "error"
}

// DatasetInfo is the untyped description of a dataset.
// Dims[i] is only meaningful for i < Rank.
type DatasetInfo struct {
	Name   string
	Rank   int
	Dims   [MaxRank]int
	Type   NumericType
	Status Status
}

// NewDatasetInfo builds a successful DatasetInfo from a shape.
// Extents past MaxRank are dropped but Rank keeps the true dimensionality,
// so callers can still reject unsupported ranks.
func NewDatasetInfo(name string, typ NumericType, shape []int) DatasetInfo {
	info := DatasetInfo{
		Name: name,
		Rank: len(shape),
		Type: typ,
	}
	copy(info.Dims[:], shape)
	return info
}

// MissingInfo returns the sentinel describing an absent dataset.
func MissingInfo(name string) DatasetInfo {
	return DatasetInfo{Name: name, Status: StatusError}
}

// OK reports whether the query that produced the info succeeded.
func (i DatasetInfo) OK() bool {
	return i.Status == StatusOK
}

// Dim returns the extent of dimension n, or 0 when n is outside the rank.
func (i DatasetInfo) Dim(n int) int {
	if n < 0 || n >= MaxRank || n >= i.Rank {
		return 0
	}
	return i.Dims[n]
}

// Shape returns the extents as a rank-length slice.
func (i DatasetInfo) Shape() []int {
	rank := i.Rank
	if rank > MaxRank {
		rank = MaxRank
	}
	shape := make([]int, rank)
	copy(shape, i.Dims[:rank])
	return shape
}

// String renders the info as "name type[d0 x d1 ...]".
func (i DatasetInfo) String() string {
	if !i.OK() {
		return fmt.Sprintf("%s <missing>", i.Name)
	}
	return fmt.Sprintf("%s %s%v", i.Name, i.Type, i.Shape())
}
