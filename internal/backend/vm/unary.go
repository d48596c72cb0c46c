package vm

import (
	"math"
	"math/cmplx"

	"github.com/ajroetker/go-highway/hwy"
	hmath "github.com/ajroetker/go-highway/hwy/contrib/math"

	"github.com/born-ml/npx/internal/device"
	"github.com/born-ml/npx/internal/ndarray"
)

// Unary is a vendor kernel of one argument.
type Unary struct {
	name string
	f    func(float64) float64
	c    func(complex128) complex128

	// Highway variants, nil when the function has none
	v32 func(hwy.Vec[float32]) hwy.Vec[float32]
	v64 func(hwy.Vec[float64]) hwy.Vec[float64]
}

// vectorized attaches the Highway variants of one generic vector function.
func (u *Unary) vectorized(v32 func(hwy.Vec[float32]) hwy.Vec[float32], v64 func(hwy.Vec[float64]) hwy.Vec[float64]) *Unary {
	u.v32, u.v64 = v32, v64
	return u
}

// Name returns the function name.
func (u *Unary) Name() string { return u.name }

// CanRun is the eligibility predicate of u for dst = u(src) on q.
func (u *Unary) CanRun(q *device.Queue, src, dst *ndarray.Array) bool {
	if !eligible(q, dst, src) {
		return false
	}
	return checkKind(u.name, dst.DType(), u.f != nil, u.c != nil) == nil
}

// Run submits dst = u(src). Callers check CanRun first.
func (b *Backend) Run(u *Unary, src, dst *ndarray.Array, q *device.Queue, deps []*device.Event) (device.EventPair, error) {
	dt := dst.DType()
	if err := checkKind(u.name, dt, u.f != nil, u.c != nil); err != nil {
		return device.EventPair{}, err
	}
	return q.Submit(deps, func() error {
		switch {
		case dt.IsFloating() && dt.Size() == 4 && u.v32 != nil:
			mapVec(ndarray.Contiguous[float32](dst), ndarray.Contiguous[float32](src), u.v32, f32(u.f), b.par)
		case dt.IsFloating() && dt.Size() == 4:
			mapSlice(ndarray.Contiguous[float32](dst), ndarray.Contiguous[float32](src), f32(u.f), b.par)
		case dt.IsFloating() && u.v64 != nil:
			mapVec(ndarray.Contiguous[float64](dst), ndarray.Contiguous[float64](src), u.v64, u.f, b.par)
		case dt.IsFloating():
			mapSlice(ndarray.Contiguous[float64](dst), ndarray.Contiguous[float64](src), u.f, b.par)
		case dt.Size() == 8:
			mapSlice(ndarray.Contiguous[complex64](dst), ndarray.Contiguous[complex64](src), c64(u.c), b.par)
		default:
			mapSlice(ndarray.Contiguous[complex128](dst), ndarray.Contiguous[complex128](src), u.c, b.par)
		}
		return nil
	}), nil
}

// Vendor unary kernels.
var (
	Abs    = (&Unary{name: "abs", f: math.Abs}).vectorized(hwy.Abs[float32], hwy.Abs[float64])
	Sqrt   = (&Unary{name: "sqrt", f: math.Sqrt, c: cmplx.Sqrt}).vectorized(hwy.Sqrt[float32], hwy.Sqrt[float64])
	Cbrt   = &Unary{name: "cbrt", f: math.Cbrt}
	Exp    = (&Unary{name: "exp", f: math.Exp, c: cmplx.Exp}).vectorized(hmath.BaseExpVec[float32], hmath.BaseExpVec[float64])
	Exp2   = &Unary{name: "exp2", f: math.Exp2}
	Expm1  = &Unary{name: "expm1", f: math.Expm1}
	Log    = (&Unary{name: "log", f: math.Log, c: cmplx.Log}).vectorized(hmath.BaseLogVec[float32], hmath.BaseLogVec[float64])
	Log2   = &Unary{name: "log2", f: math.Log2}
	Log10  = &Unary{name: "log10", f: math.Log10, c: cmplx.Log10}
	Log1p  = &Unary{name: "log1p", f: math.Log1p}
	Sin    = (&Unary{name: "sin", f: math.Sin, c: cmplx.Sin}).vectorized(hmath.BaseSinVec[float32], hmath.BaseSinVec[float64])
	Cos    = (&Unary{name: "cos", f: math.Cos, c: cmplx.Cos}).vectorized(hmath.BaseCosVec[float32], hmath.BaseCosVec[float64])
	Tan    = &Unary{name: "tan", f: math.Tan, c: cmplx.Tan}
	Asin   = &Unary{name: "arcsin", f: math.Asin, c: cmplx.Asin}
	Acos   = &Unary{name: "arccos", f: math.Acos, c: cmplx.Acos}
	Atan   = &Unary{name: "arctan", f: math.Atan, c: cmplx.Atan}
	Sinh   = &Unary{name: "sinh", f: math.Sinh, c: cmplx.Sinh}
	Cosh   = &Unary{name: "cosh", f: math.Cosh, c: cmplx.Cosh}
	Tanh   = (&Unary{name: "tanh", f: math.Tanh, c: cmplx.Tanh}).vectorized(hmath.BaseTanhVec[float32], hmath.BaseTanhVec[float64])
	Asinh  = &Unary{name: "arcsinh", f: math.Asinh, c: cmplx.Asinh}
	Acosh  = &Unary{name: "arccosh", f: math.Acosh, c: cmplx.Acosh}
	Atanh  = &Unary{name: "arctanh", f: math.Atanh, c: cmplx.Atanh}
	Ceil   = &Unary{name: "ceil", f: math.Ceil}
	Floor  = &Unary{name: "floor", f: math.Floor}
	Trunc  = &Unary{name: "trunc", f: math.Trunc}
	Rint   = &Unary{name: "rint", f: math.RoundToEven}
	Sqr    = &Unary{name: "square", f: func(x float64) float64 { return x * x }, c: func(x complex128) complex128 { return x * x }}
	Conj   = &Unary{name: "conj", c: cmplx.Conj}
	Inv    = &Unary{name: "reciprocal", f: func(x float64) float64 { return 1 / x }}
	InvSqr = &Unary{name: "rsqrt", f: func(x float64) float64 { return 1 / math.Sqrt(x) }}
)
