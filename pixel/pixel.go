// Package pixel defines the sample types an image stream can carry and the
// mapping between their string tags and in-memory element widths.
package pixel

import "errors"

// Type is the string tag a codec session uses to name its native sample
// type. The tag and the in-memory element width always agree; a stream
// whose data does not match its tag is corrupt.
type Type string

const (
	UINT8  Type = "UINT8"
	INT16  Type = "INT16"
	INT32  Type = "INT32"
	FLOAT  Type = "FLOAT"
	DOUBLE Type = "DOUBLE"
)

// ErrUnsupportedWidth is returned when an element byte width maps to none
// of the known pixel types.
var ErrUnsupportedWidth = errors.New("unsupported element width")

// Valid reports whether t is one of the five known tags.
func (t Type) Valid() bool {
	switch t {
	case UINT8, INT16, INT32, FLOAT, DOUBLE:
		return true
	}
	return false
}

// Size returns the element width in bytes, or 0 for an unknown tag.
func (t Type) Size() int {
	switch t {
	case UINT8:
		return 1
	case INT16:
		return 2
	case INT32, FLOAT:
		return 4
	case DOUBLE:
		return 8
	}
	return 0
}

// IsIntegral reports whether t is an integer type.
func (t Type) IsIntegral() bool {
	switch t {
	case UINT8, INT16, INT32:
		return true
	}
	return false
}

// Sample is the closed set of element types a scanline buffer can hold.
// Every Type tag corresponds to exactly one Sample type.
type Sample interface {
	uint8 | int16 | int32 | float32 | float64
}

// TypeOf returns the tag matching the in-memory element type T.
func TypeOf[T Sample]() Type {
	var v T
	switch any(v).(type) {
	case uint8:
		return UINT8
	case int16:
		return INT16
	case int32:
		return INT32
	case float32:
		return FLOAT
	default:
		return DOUBLE
	}
}

// FromSize maps an element byte width and its integral/floating category
// to the tag a codec stores. Widths outside {1,2,4} for integers and
// {4,8} for floats are a caller defect and yield ErrUnsupportedWidth.
func FromSize(size int, integral bool) (Type, error) {
	if integral {
		switch size {
		case 1:
			return UINT8, nil
		case 2:
			return INT16, nil
		case 4:
			return INT32, nil
		}
	} else {
		switch size {
		case 4:
			return FLOAT, nil
		case 8:
			return DOUBLE, nil
		}
	}
	return "", ErrUnsupportedWidth
}
