package vm

import (
	"math"
	"math/cmplx"

	"github.com/ajroetker/go-highway/hwy"

	"github.com/born-ml/npx/internal/device"
	"github.com/born-ml/npx/internal/ndarray"
)

// Binary is a vendor kernel of two arguments.
type Binary struct {
	name string
	f    func(x, y float64) float64
	c    func(x, y complex128) complex128

	// Highway variants, nil when the function has none
	v32 func(x, y hwy.Vec[float32]) hwy.Vec[float32]
	v64 func(x, y hwy.Vec[float64]) hwy.Vec[float64]
}

// Name returns the function name.
func (k *Binary) Name() string { return k.name }

// CanRun is the eligibility predicate of k for dst = k(src1, src2) on q.
// Broadcasting is never eligible.
func (k *Binary) CanRun(q *device.Queue, src1, src2, dst *ndarray.Array) bool {
	if !eligible(q, dst, src1, src2) {
		return false
	}
	return checkKind(k.name, dst.DType(), k.f != nil, k.c != nil) == nil
}

// Run2 submits dst = k(src1, src2). Callers check CanRun first.
func (b *Backend) Run2(k *Binary, src1, src2, dst *ndarray.Array, q *device.Queue, deps []*device.Event) (device.EventPair, error) {
	dt := dst.DType()
	if err := checkKind(k.name, dt, k.f != nil, k.c != nil); err != nil {
		return device.EventPair{}, err
	}
	return q.Submit(deps, func() error {
		switch {
		case dt.IsFloating() && dt.Size() == 4 && k.v32 != nil:
			zipVec(ndarray.Contiguous[float32](dst), ndarray.Contiguous[float32](src1),
				ndarray.Contiguous[float32](src2), k.v32, f32x2(k.f), b.par)
		case dt.IsFloating() && dt.Size() == 4:
			zipSlice(ndarray.Contiguous[float32](dst), ndarray.Contiguous[float32](src1),
				ndarray.Contiguous[float32](src2), f32x2(k.f), b.par)
		case dt.IsFloating() && k.v64 != nil:
			zipVec(ndarray.Contiguous[float64](dst), ndarray.Contiguous[float64](src1),
				ndarray.Contiguous[float64](src2), k.v64, k.f, b.par)
		case dt.IsFloating():
			zipSlice(ndarray.Contiguous[float64](dst), ndarray.Contiguous[float64](src1),
				ndarray.Contiguous[float64](src2), k.f, b.par)
		case dt.Size() == 8:
			zipSlice(ndarray.Contiguous[complex64](dst), ndarray.Contiguous[complex64](src1),
				ndarray.Contiguous[complex64](src2), c64x2(k.c), b.par)
		default:
			zipSlice(ndarray.Contiguous[complex128](dst), ndarray.Contiguous[complex128](src1),
				ndarray.Contiguous[complex128](src2), k.c, b.par)
		}
		return nil
	}), nil
}

// Vendor binary kernels.
var (
	Add = &Binary{
		name: "add",
		f:    func(x, y float64) float64 { return x + y },
		c:    func(x, y complex128) complex128 { return x + y },
		v32:  hwy.Add[float32],
		v64:  hwy.Add[float64],
	}
	Sub = &Binary{
		name: "subtract",
		f:    func(x, y float64) float64 { return x - y },
		c:    func(x, y complex128) complex128 { return x - y },
		v32:  hwy.Sub[float32],
		v64:  hwy.Sub[float64],
	}
	Mul = &Binary{
		name: "multiply",
		f:    func(x, y float64) float64 { return x * y },
		c:    func(x, y complex128) complex128 { return x * y },
		v32:  hwy.Mul[float32],
		v64:  hwy.Mul[float64],
	}
	Div = &Binary{
		name: "divide",
		f:    func(x, y float64) float64 { return x / y },
		c:    func(x, y complex128) complex128 { return x / y },
		v32:  hwy.Div[float32],
		v64:  hwy.Div[float64],
	}
	Pow = &Binary{
		name: "power",
		f:    math.Pow,
		c:    cmplx.Pow,
	}
	Atan2    = &Binary{name: "arctan2", f: math.Atan2}
	Hypot    = &Binary{name: "hypot", f: math.Hypot}
	Copysign = &Binary{name: "copysign", f: math.Copysign}
	Fmax     = &Binary{name: "fmax", f: fmax}
	Fmin     = &Binary{name: "fmin", f: fmin}
	Fmod     = &Binary{name: "fmod", f: math.Mod}
)

func fmax(x, y float64) float64 {
	switch {
	case math.IsNaN(x):
		return y
	case math.IsNaN(y):
		return x
	}
	return math.Max(x, y)
}

func fmin(x, y float64) float64 {
	switch {
	case math.IsNaN(x):
		return y
	case math.IsNaN(y):
		return x
	}
	return math.Min(x, y)
}
