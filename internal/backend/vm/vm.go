// Package vm implements the vendor vector-math fast path over contiguous,
// same-dtype floating and complex arrays. Floating kernels with a Highway
// variant run on hwy vectors with a scalar tail; the rest are typed loops.
//
// A kernel is only usable when its eligibility predicate holds for the
// concrete source and destination arrays of a call. The predicates are pure
// functions of dtypes, layouts and the device, so callers evaluate them fresh
// on every call and fall back to the generic kernels otherwise.
package vm

import (
	"fmt"

	"github.com/ajroetker/go-highway/hwy"

	"github.com/born-ml/npx/internal/device"
	"github.com/born-ml/npx/internal/dtype"
	"github.com/born-ml/npx/internal/ndarray"
	"github.com/born-ml/npx/internal/parallel"
)

// Backend runs the vendor kernels on host goroutines.
type Backend struct {
	par parallel.Config
}

// New creates a vendor backend splitting loops according to par.
func New(par parallel.Config) *Backend {
	return &Backend{par: par}
}

// Name returns the backend name.
func (b *Backend) Name() string {
	return "VM"
}

// Available reports whether the device provides the vendor library.
func Available(q *device.Queue) bool {
	return q != nil && q.Device().HasVendorMath()
}

// supported lists the element types the vendor kernels are built for.
var supported = []dtype.DType{dtype.Float32, dtype.Float64, dtype.Complex64, dtype.Complex128}

// eligible is the layout part of every predicate: one supported dtype
// shared by all arrays, equal shapes, C-contiguous memory, a common queue
// and no overlap between dst and any source.
func eligible(q *device.Queue, dst *ndarray.Array, srcs ...*ndarray.Array) bool {
	if !Available(q) || dst.Queue() != q || !dst.IsCContiguous() {
		return false
	}
	dt := dst.DType()
	ok := false
	for _, s := range supported {
		ok = ok || s == dt
	}
	if !ok {
		return false
	}
	for _, src := range srcs {
		if src.DType() != dt || src.Queue() != q || !src.IsCContiguous() || !src.Shape().Equal(dst.Shape()) {
			return false
		}
		if ndarray.Overlap(src, dst) {
			return false
		}
	}
	return true
}

func checkKind(name string, dt dtype.DType, f, c bool) error {
	switch {
	case dt.IsFloating() && f, dt.IsComplex() && c:
		return nil
	}
	return fmt.Errorf("vm %s: unsupported data type %s", name, dt)
}

// mapSlice writes f(src[i]) into dst.
func mapSlice[T any](dst, src []T, f func(T) T, par parallel.Config) {
	parallel.ForRange(len(dst), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			dst[i] = f(src[i])
		}
	}, par)
}

// mapVec writes v(src) into dst a vector at a time and finishes each chunk
// with the scalar s.
func mapVec[T hwy.Floats](dst, src []T, v func(hwy.Vec[T]) hwy.Vec[T], s func(T) T, par parallel.Config) {
	parallel.ForRange(len(dst), func(lo, hi int) {
		n := hwy.MaxLanes[T]()
		i := lo
		for ; i+n <= hi; i += n {
			hwy.Store(v(hwy.Load(src[i:i+n])), dst[i:i+n])
		}
		for ; i < hi; i++ {
			dst[i] = s(src[i])
		}
	}, par)
}

// zipVec writes v(a, b) into dst a vector at a time and finishes each chunk
// with the scalar s.
func zipVec[T hwy.Floats](dst, a, b []T, v func(x, y hwy.Vec[T]) hwy.Vec[T], s func(x, y T) T, par parallel.Config) {
	parallel.ForRange(len(dst), func(lo, hi int) {
		n := hwy.MaxLanes[T]()
		i := lo
		for ; i+n <= hi; i += n {
			hwy.Store(v(hwy.Load(a[i:i+n]), hwy.Load(b[i:i+n])), dst[i:i+n])
		}
		for ; i < hi; i++ {
			dst[i] = s(a[i], b[i])
		}
	}, par)
}

// zipSlice writes f(a[i], b[i]) into dst.
func zipSlice[T any](dst, a, b []T, f func(T, T) T, par parallel.Config) {
	parallel.ForRange(len(dst), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			dst[i] = f(a[i], b[i])
		}
	}, par)
}

func f32(f func(float64) float64) func(float32) float32 {
	return func(x float32) float32 { return float32(f(float64(x))) }
}

func c64(f func(complex128) complex128) func(complex64) complex64 {
	return func(x complex64) complex64 { return complex64(f(complex128(x))) }
}

func f32x2(f func(x, y float64) float64) func(x, y float32) float32 {
	return func(x, y float32) float32 { return float32(f(float64(x), float64(y))) }
}

func c64x2(f func(x, y complex128) complex128) func(x, y complex64) complex64 {
	return func(x, y complex64) complex64 { return complex64(f(complex128(x), complex128(y))) }
}
