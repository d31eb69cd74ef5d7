package dotthz

import (
	"reflect"

	"github.com/batchatco/go-thrower"

	"github.com/dotthz/go-dotthz/dotthz/api"
)

// Dataset is a shaped float32 array.  Data is row-major; its length must
// equal the product of Shape.
type Dataset = api.Dataset

// NewDataset builds a Dataset from nested float32 slices ([]float32,
// [][]float32, ...), taking the shape directly from the value.  Ragged
// slices are rejected with ErrDimensionality, empty slices with
// ErrEmptySlice, and element types other than float32 with ErrBadType.
func NewDataset(values any) (ds *Dataset, err error) {
	defer thrower.RecoverError(&err)
	v := reflect.ValueOf(values)
	shape := dimLengths(v)
	d := &Dataset{
		Shape: shape,
		Data:  make([]float32, 0, numElements(shape)),
	}
	d.Data = flattenFloats(v, shape, d.Data)
	return d, nil
}

func dimLengths(v reflect.Value) []int64 {
	shape := make([]int64, 0)
	for v.Kind() == reflect.Slice {
		if v.Len() == 0 {
			thrower.Throw(ErrEmptySlice)
		}
		shape = append(shape, int64(v.Len()))
		v = v.Index(0)
	}
	if v.Kind() != reflect.Float32 {
		thrower.Throw(ErrBadType)
	}
	if len(shape) == 0 {
		// scalars are stored as shape (1)
		shape = append(shape, 1)
	}
	return shape
}

func flattenFloats(v reflect.Value, shape []int64, out []float32) []float32 {
	if v.Kind() != reflect.Slice {
		return append(out, float32(v.Float()))
	}
	if int64(v.Len()) != shape[0] {
		thrower.Throw(ErrDimensionality)
	}
	if fv, ok := v.Interface().([]float32); ok {
		return append(out, fv...)
	}
	for i := 0; i < v.Len(); i++ {
		out = flattenFloats(v.Index(i), shape[1:], out)
	}
	return out
}

func numElements(shape []int64) int64 {
	n := int64(1)
	for _, s := range shape {
		n *= s
	}
	return n
}
