// Package ndarray provides the strided device array used by every npx
// operation, together with its views, copies and host transfers.
package ndarray

import (
	"fmt"
	"unsafe"

	"github.com/born-ml/npx/internal/device"
	"github.com/born-ml/npx/internal/dtype"
)

// buffer is a device allocation shared by an array and all its views.
// The backing store is made of uint64 words so that every element type is
// naturally aligned.
type buffer struct {
	words []uint64
	size  int // bytes
}

func newBuffer(size int) *buffer {
	return &buffer{
		words: make([]uint64, (size+7)/8),
		size:  size,
	}
}

func (b *buffer) bytes() []byte {
	if b.size == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice over the aligned word store, bounded by size
	return unsafe.Slice((*byte)(unsafe.Pointer(&b.words[0])), b.size)
}

// Array is a strided, typed view of a device allocation.
//
// Strides and offset are expressed in elements. Strides may be zero
// (broadcast views) or negative (reversed views).
type Array struct {
	buf     *buffer
	shape   Shape
	strides []int
	offset  int
	dtype   dtype.DType
	queue   *device.Queue
	usm     device.USMType
}

// Order is a memory layout request: 'C', 'F', 'A' or 'K'.
type Order byte

// Memory layouts.
const (
	OrderC Order = 'C'
	OrderF Order = 'F'
	OrderA Order = 'A'
	OrderK Order = 'K'
)

// ParseOrder normalizes a layout request. The empty string means 'K'.
func ParseOrder(s string) (Order, error) {
	switch s {
	case "":
		return OrderK, nil
	case "c", "C":
		return OrderC, nil
	case "f", "F":
		return OrderF, nil
	case "a", "A":
		return OrderA, nil
	case "k", "K":
		return OrderK, nil
	default:
		return 0, fmt.Errorf("order must be one of 'C', 'F', 'A', or 'K' (got '%s')", s)
	}
}

// Empty allocates an uninitialized (zero-filled) array with the given layout.
// Orders other than 'F' produce a C-contiguous array.
func Empty(shape Shape, dt dtype.DType, q *device.Queue, usm device.USMType, order Order) (*Array, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if err := checkAllocation(dt, q); err != nil {
		return nil, err
	}
	strides := shape.ComputeStrides()
	if order == OrderF {
		strides = shape.ComputeStridesF()
	}
	return &Array{
		buf:     newBuffer(shape.NumElements() * dt.Size()),
		shape:   shape.Clone(),
		strides: strides,
		dtype:   dt,
		queue:   q,
		usm:     usm,
	}, nil
}

func checkAllocation(dt dtype.DType, q *device.Queue) error {
	if q == nil {
		return fmt.Errorf("an allocation queue is required")
	}
	if !dtype.SupportedOn(dt, q.Device()) {
		return fmt.Errorf("device %s does not support data type %s", q.Device(), dt)
	}
	return nil
}

// EmptyStrided allocates an array with explicit element strides. The
// allocation spans every element the strides can address.
func EmptyStrided(shape Shape, strides []int, dt dtype.DType, q *device.Queue, usm device.USMType) (*Array, error) {
	if len(strides) != len(shape) {
		return nil, fmt.Errorf("strides %v do not match shape %v", strides, shape)
	}
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if err := checkAllocation(dt, q); err != nil {
		return nil, err
	}
	lo, hi := extent(shape, strides, 0)
	n := 0
	if shape.NumElements() > 0 {
		n = hi - lo + 1
	}
	return &Array{
		buf:     newBuffer(n * dt.Size()),
		shape:   shape.Clone(),
		strides: append([]int(nil), strides...),
		offset:  -lo,
		dtype:   dt,
		queue:   q,
		usm:     usm,
	}, nil
}

// EmptyLike allocates an array with the shape, queue and USM type of a.
// With order 'K' the layout of a is kept when a is F-contiguous.
func EmptyLike(a *Array, dt dtype.DType, order Order) (*Array, error) {
	if order == OrderK || order == OrderA {
		order = OrderC
		if a.IsFContiguous() && !a.IsCContiguous() {
			order = OrderF
		}
	}
	return Empty(a.shape, dt, a.queue, a.usm, order)
}

// Zeros allocates an array filled with zeros.
func Zeros(shape Shape, dt dtype.DType, q *device.Queue, usm device.USMType, order Order) (*Array, error) {
	return Empty(shape, dt, q, usm, order)
}

// Full allocates an array filled with value. The fill happens on the host
// before the array is visible to any submission.
func Full(shape Shape, value Scalar, dt dtype.DType, q *device.Queue, usm device.USMType) (*Array, error) {
	a, err := Empty(shape, dt, q, usm, OrderC)
	if err != nil {
		return nil, err
	}
	for i := 0; i < a.Size(); i++ {
		a.store(i, value)
	}
	return a, nil
}

// FromScalars allocates a C-contiguous array holding values in row-major order.
func FromScalars(values []Scalar, shape Shape, dt dtype.DType, q *device.Queue, usm device.USMType) (*Array, error) {
	if shape.NumElements() != len(values) {
		return nil, fmt.Errorf("cannot fill shape %v with %d values", shape, len(values))
	}
	a, err := Empty(shape, dt, q, usm, OrderC)
	if err != nil {
		return nil, err
	}
	for i, v := range values {
		a.store(i, v)
	}
	return a, nil
}

// FromSlice allocates a C-contiguous array from Go values. The dtype is
// inferred from the element type of data.
func FromSlice[T Native](data []T, shape Shape, q *device.Queue, usm device.USMType) (*Array, error) {
	var zero T
	dt, ok := NativeDType(zero)
	if !ok {
		return nil, fmt.Errorf("unsupported element type %T", zero)
	}
	values := make([]Scalar, len(data))
	for i, v := range data {
		values[i], _ = ScalarOf(v)
	}
	return FromScalars(values, shape, dt, q, usm)
}

// Native is the set of Go element types arrays can be built from.
type Native interface {
	bool | int8 | uint8 | int16 | uint16 | int32 | uint32 | int64 | uint64 |
		float32 | float64 | complex64 | complex128 | int | uint
}

// NativeDType returns the data type matching a Go element value.
func NativeDType(v any) (dtype.DType, bool) {
	switch v.(type) {
	case bool:
		return dtype.Bool, true
	case int8:
		return dtype.Int8, true
	case uint8:
		return dtype.Uint8, true
	case int16:
		return dtype.Int16, true
	case uint16:
		return dtype.Uint16, true
	case int32:
		return dtype.Int32, true
	case uint32:
		return dtype.Uint32, true
	case int64, int:
		return dtype.Int64, true
	case uint64, uint:
		return dtype.Uint64, true
	case float32:
		return dtype.Float32, true
	case float64:
		return dtype.Float64, true
	case complex64:
		return dtype.Complex64, true
	case complex128:
		return dtype.Complex128, true
	default:
		return 0, false
	}
}

// Shape returns the array's shape.
func (a *Array) Shape() Shape { return a.shape }

// Strides returns the array's strides in elements.
func (a *Array) Strides() []int { return a.strides }

// Offset returns the element offset of the first element in the allocation.
func (a *Array) Offset() int { return a.offset }

// DType returns the array's data type.
func (a *Array) DType() dtype.DType { return a.dtype }

// Queue returns the queue the array is allocated on.
func (a *Array) Queue() *device.Queue { return a.queue }

// Device returns the device the array is allocated on.
func (a *Array) Device() *device.Device { return a.queue.Device() }

// USMType returns the array's allocation kind.
func (a *Array) USMType() device.USMType { return a.usm }

// NDim returns the number of dimensions.
func (a *Array) NDim() int { return len(a.shape) }

// Size returns the total number of elements.
func (a *Array) Size() int { return a.shape.NumElements() }

// String implements fmt.Stringer.
func (a *Array) String() string {
	return fmt.Sprintf("Array(shape=%v, dtype=%s, strides=%v, queue=%s)", []int(a.shape), a.dtype, a.strides, a.queue)
}

// IsCContiguous reports whether the array is laid out in row-major order
// without gaps. Dimensions of length one are ignored.
func (a *Array) IsCContiguous() bool {
	if a.Size() == 0 {
		return true
	}
	want := 1
	for i := len(a.shape) - 1; i >= 0; i-- {
		if a.shape[i] == 1 {
			continue
		}
		if a.strides[i] != want {
			return false
		}
		want *= a.shape[i]
	}
	return true
}

// IsFContiguous reports whether the array is laid out in column-major order
// without gaps. Dimensions of length one are ignored.
func (a *Array) IsFContiguous() bool {
	if a.Size() == 0 {
		return true
	}
	want := 1
	for i := range a.shape {
		if a.shape[i] == 1 {
			continue
		}
		if a.strides[i] != want {
			return false
		}
		want *= a.shape[i]
	}
	return true
}

// IsContiguous reports whether the array is C- or F-contiguous.
func (a *Array) IsContiguous() bool {
	return a.IsCContiguous() || a.IsFContiguous()
}

// HasNegativeStrides reports whether any stride of a non-trivial dimension is negative.
func (a *Array) HasNegativeStrides() bool {
	for i, s := range a.strides {
		if s < 0 && a.shape[i] > 1 {
			return true
		}
	}
	return false
}

// extent returns the lowest and highest element offsets addressed by a view.
func extent(shape Shape, strides []int, offset int) (lo, hi int) {
	lo, hi = offset, offset
	for i, dim := range shape {
		if dim == 0 {
			return offset, offset - 1
		}
		span := (dim - 1) * strides[i]
		if span < 0 {
			lo += span
		} else {
			hi += span
		}
	}
	return lo, hi
}

// Overlap reports whether two arrays may address the same memory.
func Overlap(a, b *Array) bool {
	if a.buf != b.buf || a.Size() == 0 || b.Size() == 0 {
		return false
	}
	alo, ahi := extent(a.shape, a.strides, a.offset)
	blo, bhi := extent(b.shape, b.strides, b.offset)
	abyteLo, abyteHi := alo*a.dtype.Size(), (ahi+1)*a.dtype.Size()
	bbyteLo, bbyteHi := blo*b.dtype.Size(), (bhi+1)*b.dtype.Size()
	return abyteLo < bbyteHi && bbyteLo < abyteHi
}

// SameLogicalTensors reports whether two arrays view exactly the same elements.
func SameLogicalTensors(a, b *Array) bool {
	if a.buf != b.buf || a.dtype != b.dtype || a.offset != b.offset || !a.shape.Equal(b.shape) {
		return false
	}
	for i := range a.strides {
		if a.shape[i] > 1 && a.strides[i] != b.strides[i] {
			return false
		}
	}
	return true
}

// SameBuffer reports whether two arrays share an allocation.
func SameBuffer(a, b *Array) bool {
	return a.buf == b.buf
}
