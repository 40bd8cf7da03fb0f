// Package tensor provides the raw tensor storage, shapes, data types and the
// Backend contract used by the autodiff engine.
package tensor

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// Float is the constraint for Go element types accepted by FromSlice.
type Float interface {
	constraints.Float
}

// DataType represents runtime type information for tensors.
type DataType int

// Supported data types for tensors.
//
// Kernels compute in float64 and round on store, so Float16 is a storage
// format rather than a compute precision.
const (
	Float32 DataType = iota
	Float64
	Float16
	Int32
	Int64
)

// Size returns the byte size of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Float16:
		return 2
	case Float32, Int32:
		return 4
	case Float64, Int64:
		return 8
	default:
		panic(fmt.Sprintf("unknown data type %d", int(dt)))
	}
}

// IsFloat reports whether gradients can be computed for this data type.
func (dt DataType) IsFloat() bool {
	return dt == Float16 || dt == Float32 || dt == Float64
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Float16:
		return "float16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	default:
		return "unknown"
	}
}

// ParseDataType converts a name produced by DataType.String back into a DataType.
func ParseDataType(name string) (DataType, error) {
	for _, dt := range []DataType{Float32, Float64, Float16, Int32, Int64} {
		if dt.String() == name {
			return dt, nil
		}
	}
	return 0, fmt.Errorf("unknown data type %q", name)
}

// inferDataType infers DataType from a generic float type T.
func inferDataType[T Float](dummy T) DataType {
	switch any(dummy).(type) {
	case float32:
		return Float32
	case float64:
		return Float64
	default:
		panic(fmt.Sprintf("unsupported element type %T", dummy))
	}
}
