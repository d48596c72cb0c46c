// Package fft implements one-dimensional discrete Fourier transform
// descriptors over strided arrays: complex-to-complex transforms and the
// real forward (real-to-complex) and backward (complex-to-real) pair, in
// single and double precision.
//
// A descriptor is configured, committed against a queue and then computed
// in or out of place. Transforms are unnormalized; scaling is left to the
// caller.
package fft

import (
	"errors"
	"fmt"
	"sync"

	"github.com/born-ml/npx/internal/device"
	"github.com/born-ml/npx/internal/dtype"
)

// Sentinel errors returned by descriptors.
var (
	ErrInvalidLength      = errors.New("fft: invalid transform length")
	ErrNotCommitted       = errors.New("fft: descriptor is not committed")
	ErrInvalidLayout      = errors.New("fft: invalid data layout")
	ErrDTypeMismatch      = errors.New("fft: data type does not match the descriptor")
	ErrInPlaceUnsupported = errors.New("fft: in-place transforms need a complex domain")
)

// Domain is the forward domain of a transform.
type Domain int

// Supported domains.
const (
	Complex Domain = iota
	Real
)

// Precision is the floating precision of a transform.
type Precision int

// Supported precisions.
const (
	Single Precision = iota
	Double
)

// Descriptor configures a batch of one-dimensional transforms.
//
// Element i of transform t lives at offset + t*Distance + i*Strides[1] of
// both the input and the output array.
type Descriptor struct {
	domain    Domain
	precision Precision
	n         int

	Strides  [2]int
	Distance int
	Count    int
	InPlace  bool

	mu    sync.Mutex // one computation at a time owns the plan scratch
	batch batchFunc
	queue *device.Queue
}

// NewComplex64 creates a single precision complex descriptor of length n.
func NewComplex64(n int) *Descriptor { return newDescriptor(Complex, Single, n) }

// NewComplex128 creates a double precision complex descriptor of length n.
func NewComplex128(n int) *Descriptor { return newDescriptor(Complex, Double, n) }

// NewReal32 creates a single precision real descriptor of length n.
func NewReal32(n int) *Descriptor { return newDescriptor(Real, Single, n) }

// NewReal64 creates a double precision real descriptor of length n.
func NewReal64(n int) *Descriptor { return newDescriptor(Real, Double, n) }

func newDescriptor(domain Domain, precision Precision, n int) *Descriptor {
	return &Descriptor{
		domain:    domain,
		precision: precision,
		n:         n,
		Strides:   [2]int{0, 1},
		Distance:  n,
		Count:     1,
	}
}

// Length returns the transform length.
func (d *Descriptor) Length() int { return d.n }

// Domain returns the forward domain.
func (d *Descriptor) Domain() Domain { return d.domain }

// Precision returns the floating precision.
func (d *Descriptor) Precision() Precision { return d.precision }

// String implements fmt.Stringer.
func (d *Descriptor) String() string {
	kind := "c2c"
	if d.domain == Real {
		kind = "real"
	}
	prec := "double"
	if d.precision == Single {
		prec = "single"
	}
	return fmt.Sprintf("fft.Descriptor(%s, %s, n=%d, strides=%v, distance=%d, count=%d, in_place=%t)",
		kind, prec, d.n, d.Strides, d.Distance, d.Count, d.InPlace)
}

// Commit validates the configuration and builds the algo-fft plans for
// use on q.
func (d *Descriptor) Commit(q *device.Queue) error {
	if d.n < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidLength, d.n)
	}
	if d.Count < 1 || d.Strides[1] == 0 {
		return fmt.Errorf("%w: count %d, strides %v", ErrInvalidLayout, d.Count, d.Strides)
	}
	if d.InPlace && d.domain != Complex {
		return ErrInPlaceUnsupported
	}
	batch, err := newBatch(d)
	if err != nil {
		return fmt.Errorf("%w: %d: %w", ErrInvalidLength, d.n, err)
	}
	d.batch = batch
	d.queue = q
	return nil
}

// spectrum is the number of complex values stored on the complex side.
func (d *Descriptor) spectrum() int {
	if d.domain == Real {
		return d.n/2 + 1
	}
	return d.n
}

func (d *Descriptor) complexType() dtype.DType {
	if d.precision == Single {
		return dtype.Complex64
	}
	return dtype.Complex128
}

func (d *Descriptor) realType() dtype.DType {
	if d.precision == Single {
		return dtype.Float32
	}
	return dtype.Float64
}

// ioTypes returns the element types of the input and the output of a
// transform in the given direction.
func (d *Descriptor) ioTypes(forward bool) (in, out dtype.DType) {
	switch {
	case d.domain == Complex:
		return d.complexType(), d.complexType()
	case forward:
		return d.realType(), d.complexType()
	default:
		return d.complexType(), d.realType()
	}
}
