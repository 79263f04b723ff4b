package h5file

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/scigolib/nexus/fileservice"
)

// storageClass is the HDF5 datatype class of a dataset, as far as the
// NeXus layer cares.
type storageClass int

const (
	classNumeric storageClass = iota
	classString
)

// parseInfo decodes the description returned by hdf5.Dataset.Info:
//
//	Dataset: integer (size=4 bytes), 2D array [3 x 4], contiguous (...)
func parseInfo(s string) (fileservice.NumericType, storageClass, []int, error) {
	s = strings.TrimPrefix(s, "Dataset: ")
	parts := strings.SplitN(s, ", ", 3)
	if len(parts) < 2 {
		return fileservice.TypeUnknown, 0, nil, fmt.Errorf("malformed dataset info %q", s)
	}
	typ, class, err := parseDatatype(parts[0])
	if err != nil {
		return fileservice.TypeUnknown, 0, nil, err
	}
	dims, err := parseDataspace(parts[1])
	if err != nil {
		return fileservice.TypeUnknown, 0, nil, err
	}
	return typ, class, dims, nil
}

// parseDatatype decodes "integer (size=4 bytes)". Integers are taken as
// signed: the description does not carry the sign.
func parseDatatype(s string) (fileservice.NumericType, storageClass, error) {
	name, rest, ok := strings.Cut(s, " (size=")
	if !ok {
		return fileservice.TypeUnknown, 0, fmt.Errorf("malformed datatype %q", s)
	}
	size, err := strconv.Atoi(strings.TrimSuffix(rest, " bytes)"))
	if err != nil {
		return fileservice.TypeUnknown, 0, fmt.Errorf("malformed datatype size %q: %w", s, err)
	}

	switch name {
	case "integer":
		switch size {
		case 1:
			return fileservice.TypeInt8, classNumeric, nil
		case 2:
			return fileservice.TypeInt16, classNumeric, nil
		case 4:
			return fileservice.TypeInt32, classNumeric, nil
		case 8:
			return fileservice.TypeInt64, classNumeric, nil
		}
	case "float":
		switch size {
		case 4:
			return fileservice.TypeFloat32, classNumeric, nil
		case 8:
			return fileservice.TypeFloat64, classNumeric, nil
		}
	case "string":
		return fileservice.TypeChar, classString, nil
	}
	return fileservice.TypeUnknown, 0, fmt.Errorf("%w: %s", fileservice.ErrUnsupportedType, s)
}

// parseDataspace decodes "scalar", "1D array [10]", "2D array [3 x 4]" and
// "3D array [2 3 4]". A scalar has no extents.
func parseDataspace(s string) ([]int, error) {
	switch s {
	case "scalar":
		return []int{}, nil
	case "null":
		return nil, errors.New("null dataspace")
	}

	open := strings.IndexByte(s, '[')
	end := strings.LastIndexByte(s, ']')
	if open < 0 || end < open {
		return nil, fmt.Errorf("malformed dataspace %q", s)
	}
	fields := strings.Fields(strings.ReplaceAll(s[open+1:end], " x ", " "))
	dims := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("malformed dataspace %q: %w", s, err)
		}
		dims[i] = n
	}
	return dims, nil
}
