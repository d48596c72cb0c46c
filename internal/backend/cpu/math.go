package cpu

import (
	"math"
	"math/cmplx"

	"github.com/x448/float16"

	"github.com/born-ml/npx/internal/dtype"
	"github.com/born-ml/npx/internal/ndarray"
)

func inexact(name string, f func(float64) float64, c func(complex128) complex128) *UnaryKernel {
	if c == nil {
		return unary(name, sameUnary(floatTypes), unaryFuncs{f: f})
	}
	return unary(name, sameUnary(floatTypes, complexTypes), unaryFuncs{f: f, c: c})
}

// Transcendental and rounding kernels.
var (
	Sqrt  = inexact("sqrt", math.Sqrt, cmplx.Sqrt)
	Rsqrt = inexact("rsqrt", func(x float64) float64 { return 1 / math.Sqrt(x) }, nil)
	Cbrt  = inexact("cbrt", math.Cbrt, nil)
	Exp   = inexact("exp", math.Exp, cmplx.Exp)
	Exp2  = inexact("exp2", math.Exp2, func(x complex128) complex128 { return cmplx.Exp(x * math.Ln2) })
	Expm1 = inexact("expm1", math.Expm1, func(x complex128) complex128 { return cmplx.Exp(x) - 1 })
	Log   = inexact("log", math.Log, cmplx.Log)
	Log2  = inexact("log2", math.Log2, func(x complex128) complex128 { return cmplx.Log(x) / math.Ln2 })
	Log10 = inexact("log10", math.Log10, cmplx.Log10)
	Log1p = inexact("log1p", math.Log1p, func(x complex128) complex128 { return cmplx.Log(1 + x) })

	Sin     = inexact("sin", math.Sin, cmplx.Sin)
	Cos     = inexact("cos", math.Cos, cmplx.Cos)
	Tan     = inexact("tan", math.Tan, cmplx.Tan)
	Arcsin  = inexact("arcsin", math.Asin, cmplx.Asin)
	Arccos  = inexact("arccos", math.Acos, cmplx.Acos)
	Arctan  = inexact("arctan", math.Atan, cmplx.Atan)
	Sinh    = inexact("sinh", math.Sinh, cmplx.Sinh)
	Cosh    = inexact("cosh", math.Cosh, cmplx.Cosh)
	Tanh    = inexact("tanh", math.Tanh, cmplx.Tanh)
	Arcsinh = inexact("arcsinh", math.Asinh, cmplx.Asinh)
	Arccosh = inexact("arccosh", math.Acosh, cmplx.Acosh)
	Arctanh = inexact("arctanh", math.Atanh, cmplx.Atanh)

	Ceil  = inexact("ceil", math.Ceil, nil)
	Floor = inexact("floor", math.Floor, nil)
	Trunc = inexact("trunc", math.Trunc, nil)
	Rint  = inexact("rint", math.RoundToEven, roundComplex)
	Fix   = inexact("fix", math.Trunc, nil)

	// Round leaves integers unchanged so that scaled rounding of integer
	// arrays stays exact.
	Round = unary("round", sameUnary(intTypes, floatTypes, complexTypes), unaryFuncs{
		i: func(x int64) int64 { return x },
		u: func(x uint64) uint64 { return x },
		f: math.RoundToEven,
		c: roundComplex,
	})

	I0   = inexact("i0", besselI0, nil)
	Sinc = inexact("sinc", sinc, sincComplex)
)

// Binary floating kernels.
var (
	Arctan2 = binary("arctan2", sameBinary(floatTypes), binaryFuncs{f: math.Atan2})
	Hypot   = binary("hypot", sameBinary(floatTypes), binaryFuncs{f: math.Hypot})

	Copysign = binary("copysign", sameBinary(floatTypes), binaryFuncs{f: math.Copysign})

	Logaddexp = binary("logaddexp", sameBinary(floatTypes), binaryFuncs{
		f: func(x, y float64) float64 { return logAddExp(x, y, math.Log1p, math.Exp) },
	})

	Logaddexp2 = binary("logaddexp2", sameBinary(floatTypes), binaryFuncs{
		f: func(x, y float64) float64 {
			return logAddExp(x, y, func(v float64) float64 { return math.Log1p(v) / math.Ln2 }, math.Exp2)
		},
	})

	Heaviside = binary("heaviside", sameBinary(floatTypes), binaryFuncs{
		f: func(x, h float64) float64 {
			switch {
			case math.IsNaN(x):
				return x
			case x < 0:
				return 0
			case x > 0:
				return 1
			}
			return h
		},
	})

	Nextafter = newBinary("nextafter", sameBinary(floatTypes), func(x, y ndarray.Scalar, dt dtype.DType) ndarray.Scalar {
		switch dt {
		case dtype.Float16:
			return ndarray.FloatScalar(float64(nextafter16(float32(x.Float()), float32(y.Float()))))
		case dtype.Float32:
			return ndarray.FloatScalar(float64(math.Nextafter32(float32(x.Float()), float32(y.Float()))))
		default:
			return ndarray.FloatScalar(math.Nextafter(x.Float(), y.Float()))
		}
	})

	Ldexp = newBinary("ldexp", ldexpTypes(), func(x, e ndarray.Scalar, _ dtype.DType) ndarray.Scalar {
		exp := e.Int()
		exp = min(max(exp, math.MinInt32), math.MaxInt32)
		return ndarray.FloatScalar(math.Ldexp(x.Float(), int(exp)))
	})
)

func ldexpTypes() []BinarySignature {
	var res []BinarySignature
	for _, f := range floatTypes {
		for _, i := range []dtype.DType{dtype.Int8, dtype.Int16, dtype.Int32, dtype.Int64} {
			res = append(res, BinarySignature{In1: f, In2: i, Out: f})
		}
	}
	return res
}

func roundComplex(x complex128) complex128 {
	return complex(math.RoundToEven(real(x)), math.RoundToEven(imag(x)))
}

func logAddExp(x, y float64, log1p, exp func(float64) float64) float64 {
	if math.IsNaN(x) || math.IsNaN(y) {
		return math.NaN()
	}
	if x == y {
		// equal infinities
		return x + log1p(1)
	}
	hi, lo := math.Max(x, y), math.Min(x, y)
	return hi + log1p(exp(lo-hi))
}

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	y := math.Pi * x
	return math.Sin(y) / y
}

func sincComplex(x complex128) complex128 {
	if x == 0 {
		return 1
	}
	y := complex(math.Pi, 0) * x
	return cmplx.Sin(y) / y
}

// besselI0 evaluates the modified Bessel function of the first kind of
// order zero by its power series.
func besselI0(x float64) float64 {
	if math.IsNaN(x) {
		return x
	}
	if math.IsInf(x, 0) {
		return math.Inf(1)
	}
	q := x * x / 4
	sum, term := 1.0, 1.0
	for k := 1; k < 1000; k++ {
		term *= q / float64(k*k)
		sum += term
		if term < sum*1e-17 {
			break
		}
	}
	return sum
}

func nextafter16(x, y float32) float32 {
	switch {
	case math.IsNaN(float64(x)) || math.IsNaN(float64(y)):
		return float32(math.NaN())
	case x == y:
		return y
	case x == 0:
		bits := uint16(1)
		if y < 0 {
			bits |= 0x8000
		}
		return float16.Frombits(bits).Float32()
	}
	bits := float16.Fromfloat32(x).Bits()
	if (x < y) == (x > 0) {
		bits++
	} else {
		bits--
	}
	return float16.Frombits(bits).Float32()
}
