package fileservice

import (
	"fmt"
	"reflect"
)

// Element is the set of Go types a dataset can be loaded into.
// byte doubles as the NeXus char type; uint is the platform size type.
type Element interface {
	int8 | uint8 | int16 | uint16 | int32 | uint32 | int64 | uint64 | float32 | float64 | uint
}

// TypeFor returns the NumericType that corresponds to T.
func TypeFor[T Element]() NumericType {
	switch reflect.TypeFor[T]().Kind() {
	case reflect.Int8:
		return TypeInt8
	case reflect.Uint8:
		return TypeUint8
	case reflect.Int16:
		return TypeInt16
	case reflect.Uint16:
		return TypeUint16
	case reflect.Int32:
		return TypeInt32
	case reflect.Uint32:
		return TypeUint32
	case reflect.Int64:
		return TypeInt64
	case reflect.Uint64:
		return TypeUint64
	case reflect.Float32:
		return TypeFloat32
	case reflect.Float64:
		return TypeFloat64
	case reflect.Uint:
		return TypeSize
	default:
		return TypeUnknown
	}
}

// MakeSlice allocates a zeroed slice of n elements of the Go type backing typ.
// TypeChar is backed by []byte.
func MakeSlice(typ NumericType, n int) (any, error) {
	switch typ {
	case TypeChar, TypeUint8:
		return make([]uint8, n), nil
	case TypeInt8:
		return make([]int8, n), nil
	case TypeInt16:
		return make([]int16, n), nil
	case TypeUint16:
		return make([]uint16, n), nil
	case TypeInt32:
		return make([]int32, n), nil
	case TypeUint32:
		return make([]uint32, n), nil
	case TypeInt64:
		return make([]int64, n), nil
	case TypeUint64:
		return make([]uint64, n), nil
	case TypeFloat32:
		return make([]float32, n), nil
	case TypeFloat64:
		return make([]float64, n), nil
	case TypeSize:
		return make([]uint, n), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, typ)
	}
}

// SliceLen returns the length of an Element slice, or -1 if v is not one.
func SliceLen(v any) int {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return -1
	}
	return rv.Len()
}

// Convert copies src into dst element by element, converting between element
// types with Go conversion rules. Both must be slices of Element types of the
// same length.
func Convert(dst, src any) error {
	switch d := dst.(type) {
	case []int8:
		return convertInto(d, src)
	case []uint8:
		return convertInto(d, src)
	case []int16:
		return convertInto(d, src)
	case []uint16:
		return convertInto(d, src)
	case []int32:
		return convertInto(d, src)
	case []uint32:
		return convertInto(d, src)
	case []int64:
		return convertInto(d, src)
	case []uint64:
		return convertInto(d, src)
	case []float32:
		return convertInto(d, src)
	case []float64:
		return convertInto(d, src)
	case []uint:
		return convertInto(d, src)
	default:
		return fmt.Errorf("%w: destination %T", ErrUnsupportedType, dst)
	}
}

func convertInto[D Element](dst []D, src any) error {
	switch s := src.(type) {
	case []int8:
		return convertSlice(dst, s)
	case []uint8:
		return convertSlice(dst, s)
	case []int16:
		return convertSlice(dst, s)
	case []uint16:
		return convertSlice(dst, s)
	case []int32:
		return convertSlice(dst, s)
	case []uint32:
		return convertSlice(dst, s)
	case []int64:
		return convertSlice(dst, s)
	case []uint64:
		return convertSlice(dst, s)
	case []float32:
		return convertSlice(dst, s)
	case []float64:
		return convertSlice(dst, s)
	case []uint:
		return convertSlice(dst, s)
	default:
		return fmt.Errorf("%w: source %T", ErrUnsupportedType, src)
	}
}

func convertSlice[D, S Element](dst []D, src []S) error {
	if len(dst) != len(src) {
		return fmt.Errorf("%w: destination holds %d elements, source %d",
			ErrLengthMismatch, len(dst), len(src))
	}
	for i, v := range src {
		dst[i] = D(v)
	}
	return nil
}
