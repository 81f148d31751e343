package distance

import (
	"fmt"
	"strings"
)

// ElementType is the component type of a vector.
type ElementType uint8

const (
	Int8 ElementType = iota
	Uint8
	Int16
	Float32
)

// Element is the set of Go types that back an ElementType.
type Element interface {
	int8 | uint8 | int16 | float32
}

func (t ElementType) String() string {
	switch t {
	case Int8:
		return "int8"
	case Uint8:
		return "uint8"
	case Int16:
		return "int16"
	case Float32:
		return "float32"
	default:
		return fmt.Sprintf("Unknown(%d)", t)
	}
}

// Valid reports whether t is one of the declared element types.
func (t ElementType) Valid() bool {
	return t <= Float32
}

// Size returns the number of bytes per component.
func (t ElementType) Size() int {
	switch t {
	case Int8, Uint8:
		return 1
	case Int16:
		return 2
	case Float32:
		return 4
	default:
		return 0
	}
}

// Base returns the largest representable magnitude of the type.
// Float vectors are expected to be unit-normalized, so their base is 1.
func (t ElementType) Base() int {
	switch t {
	case Int8:
		return 127
	case Uint8:
		return 255
	case Int16:
		return 32767
	default:
		return 1
	}
}

// CosineConstant returns Base², the offset of the cosine-derived metric.
func (t ElementType) CosineConstant() float32 {
	switch t {
	case Int8:
		return cosineInt8
	case Uint8:
		return cosineUint8
	case Int16:
		return cosineInt16
	default:
		return cosineFloat32
	}
}

const (
	cosineInt8    float32 = 127 * 127
	cosineUint8   float32 = 255 * 255
	cosineInt16   float32 = 32767 * 32767
	cosineFloat32 float32 = 1
)

// ParseElementType parses a type name such as "int8" or "float".
func ParseElementType(s string) (ElementType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "int8", "i8":
		return Int8, nil
	case "uint8", "u8", "byte":
		return Uint8, nil
	case "int16", "i16", "short":
		return Int16, nil
	case "float32", "f32", "float":
		return Float32, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownElementType, s)
	}
}

// TypeOf returns the ElementType that backs E.
func TypeOf[E Element]() ElementType {
	var zero E
	switch any(zero).(type) {
	case int8:
		return Int8
	case uint8:
		return Uint8
	case int16:
		return Int16
	default:
		return Float32
	}
}
