package ndarray

import (
	"fmt"
	"unsafe"

	"github.com/x448/float16"

	"github.com/born-ml/npx/internal/dtype"
)

// Indexer maps row-major element numbers of an iteration shape to element
// offsets of one array.
type Indexer struct {
	shape   Shape
	strides []int
	offset  int
}

// NewIndexer returns an indexer iterating over a in its own shape.
func NewIndexer(a *Array) Indexer {
	return Indexer{shape: a.shape, strides: a.strides, offset: a.offset}
}

// BroadcastIndexer returns an indexer iterating over outShape, reading a
// with broadcasting: missing and length-one dimensions get a zero stride.
func BroadcastIndexer(a *Array, outShape Shape) Indexer {
	outDim := len(outShape)
	strides := make([]int, outDim)
	lead := outDim - len(a.shape)
	for i := 0; i < outDim; i++ {
		inIdx := i - lead
		switch {
		case inIdx < 0:
			strides[i] = 0
		case a.shape[inIdx] == 1 && outShape[i] != 1:
			strides[i] = 0
		default:
			strides[i] = a.strides[inIdx]
		}
	}
	return Indexer{shape: outShape, strides: strides, offset: a.offset}
}

// Offset returns the element offset of the i-th element in row-major order.
func (ix Indexer) Offset(i int) int {
	off := ix.offset
	for d := len(ix.shape) - 1; d >= 0; d-- {
		dim := ix.shape[d]
		if dim == 0 {
			return off
		}
		off += (i % dim) * ix.strides[d]
		i /= dim
	}
	return off
}

func (a *Array) ptr(off int) unsafe.Pointer {
	data := a.buf.bytes()
	//nolint:gosec // offsets are produced by indexers bounded by the array extent
	return unsafe.Pointer(&data[off*a.dtype.Size()])
}

// LoadOffset reads the element at an element offset of the allocation.
func (a *Array) LoadOffset(off int) Scalar {
	p := a.ptr(off)
	switch a.dtype {
	case dtype.Bool:
		return BoolScalar(*(*bool)(p))
	case dtype.Int8:
		return IntScalar(int64(*(*int8)(p)))
	case dtype.Uint8:
		return UintScalar(uint64(*(*uint8)(p)))
	case dtype.Int16:
		return IntScalar(int64(*(*int16)(p)))
	case dtype.Uint16:
		return UintScalar(uint64(*(*uint16)(p)))
	case dtype.Int32:
		return IntScalar(int64(*(*int32)(p)))
	case dtype.Uint32:
		return UintScalar(uint64(*(*uint32)(p)))
	case dtype.Int64:
		return IntScalar(*(*int64)(p))
	case dtype.Uint64:
		return UintScalar(*(*uint64)(p))
	case dtype.Float16:
		return FloatScalar(float64(float16.Frombits(*(*uint16)(p)).Float32()))
	case dtype.Float32:
		return FloatScalar(float64(*(*float32)(p)))
	case dtype.Float64:
		return FloatScalar(*(*float64)(p))
	case dtype.Complex64:
		return ComplexScalar(complex128(*(*complex64)(p)))
	case dtype.Complex128:
		return ComplexScalar(*(*complex128)(p))
	default:
		panic(fmt.Sprintf("load: unsupported dtype %s", a.dtype))
	}
}

// StoreOffset writes v, converted to the array's dtype, at an element offset.
func (a *Array) StoreOffset(off int, v Scalar) {
	p := a.ptr(off)
	switch a.dtype {
	case dtype.Bool:
		*(*bool)(p) = v.Bool()
	case dtype.Int8:
		*(*int8)(p) = int8(v.Int())
	case dtype.Uint8:
		*(*uint8)(p) = uint8(v.Uint())
	case dtype.Int16:
		*(*int16)(p) = int16(v.Int())
	case dtype.Uint16:
		*(*uint16)(p) = uint16(v.Uint())
	case dtype.Int32:
		*(*int32)(p) = int32(v.Int())
	case dtype.Uint32:
		*(*uint32)(p) = uint32(v.Uint())
	case dtype.Int64:
		*(*int64)(p) = v.Int()
	case dtype.Uint64:
		*(*uint64)(p) = v.Uint()
	case dtype.Float16:
		*(*uint16)(p) = float16.Fromfloat32(float32(v.Float())).Bits()
	case dtype.Float32:
		*(*float32)(p) = float32(v.Float())
	case dtype.Float64:
		*(*float64)(p) = v.Float()
	case dtype.Complex64:
		*(*complex64)(p) = complex64(v.Complex())
	case dtype.Complex128:
		*(*complex128)(p) = v.Complex()
	default:
		panic(fmt.Sprintf("store: unsupported dtype %s", a.dtype))
	}
}

func (a *Array) store(i int, v Scalar) {
	a.StoreOffset(NewIndexer(a).Offset(i), v)
}

// View returns the whole allocation of a reinterpreted as []T. Callers pair
// it with Offset and Strides; T must have the element size of the dtype.
func View[T any](a *Array) []T {
	var zero T
	size := int(unsafe.Sizeof(zero))
	if size != a.dtype.Size() {
		panic(fmt.Sprintf("view: element size %d does not match dtype %s", size, a.dtype))
	}
	if a.buf.size == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice over the aligned word store, bounded by the allocation size
	return unsafe.Slice((*T)(unsafe.Pointer(&a.buf.words[0])), a.buf.size/size)
}

// Contiguous returns the elements of a C- or F-contiguous array as []T in
// memory order. It panics if the array is not contiguous.
func Contiguous[T any](a *Array) []T {
	if !a.IsContiguous() {
		panic("contiguous: array is not contiguous")
	}
	if a.Size() == 0 {
		return nil
	}
	lo, _ := extent(a.shape, a.strides, a.offset)
	return View[T](a)[lo : lo+a.Size()]
}

// Wait blocks until every submission on the array's queue completed.
func (a *Array) Wait() error {
	return a.queue.Wait()
}

// Scalars waits for pending work on the array's queue and returns its
// elements in row-major order.
func (a *Array) Scalars() ([]Scalar, error) {
	if err := a.Wait(); err != nil {
		return nil, err
	}
	ix := NewIndexer(a)
	res := make([]Scalar, a.Size())
	for i := range res {
		res[i] = a.LoadOffset(ix.Offset(i))
	}
	return res, nil
}

// Float64s returns the elements as float64 in row-major order.
func (a *Array) Float64s() ([]float64, error) {
	vals, err := a.Scalars()
	if err != nil {
		return nil, err
	}
	res := make([]float64, len(vals))
	for i, v := range vals {
		res[i] = v.Float()
	}
	return res, nil
}

// Complex128s returns the elements as complex128 in row-major order.
func (a *Array) Complex128s() ([]complex128, error) {
	vals, err := a.Scalars()
	if err != nil {
		return nil, err
	}
	res := make([]complex128, len(vals))
	for i, v := range vals {
		res[i] = v.Complex()
	}
	return res, nil
}

// Int64s returns the elements as int64 in row-major order.
func (a *Array) Int64s() ([]int64, error) {
	vals, err := a.Scalars()
	if err != nil {
		return nil, err
	}
	res := make([]int64, len(vals))
	for i, v := range vals {
		res[i] = v.Int()
	}
	return res, nil
}

// Bools returns the elements as bool in row-major order.
func (a *Array) Bools() ([]bool, error) {
	vals, err := a.Scalars()
	if err != nil {
		return nil, err
	}
	res := make([]bool, len(vals))
	for i, v := range vals {
		res[i] = v.Bool()
	}
	return res, nil
}

// Item returns the single element of a one-element array.
func (a *Array) Item() (Scalar, error) {
	if a.Size() != 1 {
		return Scalar{}, fmt.Errorf("can only convert an array of size 1 to a scalar, got size %d", a.Size())
	}
	vals, err := a.Scalars()
	if err != nil {
		return Scalar{}, err
	}
	return vals[0], nil
}
