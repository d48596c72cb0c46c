package cpu

import (
	"fmt"
	"slices"

	"github.com/born-ml/npx/internal/device"
	"github.com/born-ml/npx/internal/dtype"
	"github.com/born-ml/npx/internal/ndarray"
)

// Reduction selects the combining operation of Reduce.
type Reduction int

// Supported reductions.
const (
	ReduceSum Reduction = iota
	ReduceAll
	ReduceAny
)

// String returns the reduction name.
func (r Reduction) String() string {
	switch r {
	case ReduceSum:
		return "sum"
	case ReduceAll:
		return "all"
	case ReduceAny:
		return "any"
	default:
		return fmt.Sprintf("Reduction(%d)", int(r))
	}
}

// SumType returns the accumulation type of a sum over elements of type dt.
// Booleans and narrow integers accumulate in the default integer types.
func SumType(dt dtype.DType, caps dtype.Capabilities) dtype.DType {
	switch dt.Kind() {
	case dtype.KindBool, dtype.KindInt:
		return dtype.DefaultInt(caps)
	case dtype.KindUint:
		return dtype.Uint64
	}
	return dt
}

// ReducedShape returns the shape left after reducing shape over axes.
// Axes must be normalized. With keepDims the reduced axes become length 1.
func ReducedShape(shape ndarray.Shape, axes []int, keepDims bool) ndarray.Shape {
	res := make(ndarray.Shape, 0, len(shape))
	for i, d := range shape {
		switch {
		case !slices.Contains(axes, i):
			res = append(res, d)
		case keepDims:
			res = append(res, 1)
		}
	}
	return res
}

// Reduce submits the reduction r of src over the normalized axes into dst.
// dst has the shape of src with the reduced axes removed.
func (cpu *CPUBackend) Reduce(r Reduction, src, dst *ndarray.Array, axes []int, q *device.Queue, deps []*device.Event) (device.EventPair, error) {
	want := ReducedShape(src.Shape(), axes, false)
	if !want.Equal(dst.Shape()) {
		return device.EventPair{}, fmt.Errorf("%s: output shape %v does not match reduced shape %v", r, dst.Shape(), want)
	}
	if r != ReduceSum && dst.DType() != dtype.Bool {
		return device.EventPair{}, fmt.Errorf("%s: output must be bool, got %s", r, dst.DType())
	}

	// Map every source position onto dst through zero strides on reduced axes.
	strides := make([]int, src.NDim())
	j := 0
	for i := range strides {
		if slices.Contains(axes, i) {
			continue
		}
		strides[i] = dst.Strides()[j]
		j++
	}
	target := ndarray.WithStrides(dst, src.Shape(), strides)

	return q.Submit(deps, func() error {
		init := reductionIdentity(r)
		di := ndarray.NewIndexer(dst)
		for i := range dst.Size() {
			dst.StoreOffset(di.Offset(i), init)
		}
		si, ti := ndarray.NewIndexer(src), ndarray.NewIndexer(target)
		acc := dst.DType()
		for i := range src.Size() {
			off := ti.Offset(i)
			dst.StoreOffset(off, combine(r, dst.LoadOffset(off), src.LoadOffset(si.Offset(i)), acc))
		}
		return nil
	}), nil
}

func reductionIdentity(r Reduction) ndarray.Scalar {
	switch r {
	case ReduceAll:
		return ndarray.BoolScalar(true)
	case ReduceAny:
		return ndarray.BoolScalar(false)
	default:
		return ndarray.IntScalar(0)
	}
}

func combine(r Reduction, acc, x ndarray.Scalar, dt dtype.DType) ndarray.Scalar {
	switch r {
	case ReduceAll:
		return ndarray.BoolScalar(acc.Bool() && x.Bool())
	case ReduceAny:
		return ndarray.BoolScalar(acc.Bool() || x.Bool())
	}
	switch dt.Kind() {
	case dtype.KindInt:
		return ndarray.IntScalar(acc.Int() + x.Int())
	case dtype.KindUint:
		return ndarray.UintScalar(acc.Uint() + x.Uint())
	case dtype.KindComplex:
		return ndarray.ComplexScalar(acc.Complex() + x.Complex())
	case dtype.KindBool:
		return ndarray.BoolScalar(acc.Bool() || x.Bool())
	default:
		return ndarray.FloatScalar(acc.Float() + x.Float())
	}
}
