package cpu

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/born-ml/npx/internal/dtype"
	"github.com/born-ml/npx/internal/ndarray"
)

// binaryFuncs holds the per-kind implementations of a binary operation.
// Inputs of a kernel always share one kind, so only the arms present in the
// kernel's type table are ever called.
type binaryFuncs struct {
	b func(x, y bool) bool
	i func(x, y int64) int64
	u func(x, y uint64) uint64
	f func(x, y float64) float64
	c func(x, y complex128) complex128
}

func (fs binaryFuncs) op(name string) BinaryOp {
	return func(x, y ndarray.Scalar, _ dtype.DType) ndarray.Scalar {
		switch {
		case x.Kind() == dtype.KindBool && fs.b != nil:
			return ndarray.BoolScalar(fs.b(x.Bool(), y.Bool()))
		case x.Kind() == dtype.KindInt && fs.i != nil:
			return ndarray.IntScalar(fs.i(x.Int(), y.Int()))
		case x.Kind() == dtype.KindUint && fs.u != nil:
			return ndarray.UintScalar(fs.u(x.Uint(), y.Uint()))
		case x.Kind() == dtype.KindFloat && fs.f != nil:
			return ndarray.FloatScalar(fs.f(x.Float(), y.Float()))
		case x.Kind() == dtype.KindComplex && fs.c != nil:
			return ndarray.ComplexScalar(fs.c(x.Complex(), y.Complex()))
		default:
			panic(fmt.Sprintf("%s: unsupported kind %s", name, x.Kind()))
		}
	}
}

// unaryFuncs holds the per-kind implementations of a unary operation.
type unaryFuncs struct {
	b func(x bool) bool
	i func(x int64) int64
	u func(x uint64) uint64
	f func(x float64) float64
	c func(x complex128) complex128
}

func (fs unaryFuncs) op(name string) UnaryOp {
	return func(x ndarray.Scalar, _ dtype.DType) ndarray.Scalar {
		switch {
		case x.Kind() == dtype.KindBool && fs.b != nil:
			return ndarray.BoolScalar(fs.b(x.Bool()))
		case x.Kind() == dtype.KindInt && fs.i != nil:
			return ndarray.IntScalar(fs.i(x.Int()))
		case x.Kind() == dtype.KindUint && fs.u != nil:
			return ndarray.UintScalar(fs.u(x.Uint()))
		case x.Kind() == dtype.KindFloat && fs.f != nil:
			return ndarray.FloatScalar(fs.f(x.Float()))
		case x.Kind() == dtype.KindComplex && fs.c != nil:
			return ndarray.ComplexScalar(fs.c(x.Complex()))
		default:
			panic(fmt.Sprintf("%s: unsupported kind %s", name, x.Kind()))
		}
	}
}

func unary(name string, types []UnarySignature, fs unaryFuncs) *UnaryKernel {
	return newUnary(name, types, fs.op(name))
}

func binary(name string, types []BinarySignature, fs binaryFuncs) *BinaryKernel {
	return newBinary(name, types, fs.op(name))
}

// Arithmetic kernels.
var (
	Add = binary("add", sameBinary(boolTypes, intTypes, floatTypes, complexTypes), binaryFuncs{
		b: func(x, y bool) bool { return x || y },
		i: func(x, y int64) int64 { return x + y },
		u: func(x, y uint64) uint64 { return x + y },
		f: func(x, y float64) float64 { return x + y },
		c: func(x, y complex128) complex128 { return x + y },
	}).withInplace()

	Subtract = binary("subtract", sameBinary(intTypes, floatTypes, complexTypes), binaryFuncs{
		i: func(x, y int64) int64 { return x - y },
		u: func(x, y uint64) uint64 { return x - y },
		f: func(x, y float64) float64 { return x - y },
		c: func(x, y complex128) complex128 { return x - y },
	}).withInplace()

	Multiply = binary("multiply", sameBinary(boolTypes, intTypes, floatTypes, complexTypes), binaryFuncs{
		b: func(x, y bool) bool { return x && y },
		i: func(x, y int64) int64 { return x * y },
		u: func(x, y uint64) uint64 { return x * y },
		f: func(x, y float64) float64 { return x * y },
		c: func(x, y complex128) complex128 { return x * y },
	}).withInplace()

	Divide = binary("divide", sameBinary(floatTypes, complexTypes), binaryFuncs{
		f: func(x, y float64) float64 { return x / y },
		c: complexDivide,
	}).withInplace()

	FloorDivide = binary("floor_divide", sameBinary(intTypes, floatTypes), binaryFuncs{
		i: floorDivInt,
		u: func(x, y uint64) uint64 {
			if y == 0 {
				return 0
			}
			return x / y
		},
		f: floorDivFloat,
	}).withInplace()

	Remainder = binary("remainder", sameBinary(intTypes, floatTypes), binaryFuncs{
		i: remInt,
		u: func(x, y uint64) uint64 {
			if y == 0 {
				return 0
			}
			return x % y
		},
		f: remFloat,
	}).withInplace()

	Fmod = binary("fmod", sameBinary(intTypes, floatTypes), binaryFuncs{
		i: func(x, y int64) int64 {
			if y == 0 {
				return 0
			}
			return x % y
		},
		u: func(x, y uint64) uint64 {
			if y == 0 {
				return 0
			}
			return x % y
		},
		f: math.Mod,
	})

	Power = binary("power", sameBinary(intTypes, floatTypes, complexTypes), binaryFuncs{
		i: powInt,
		u: powUint,
		f: math.Pow,
		c: complexPow,
	}).withInplace()

	Maximum = binary("maximum", sameBinary(boolTypes, intTypes, floatTypes, complexTypes), binaryFuncs{
		b: func(x, y bool) bool { return x || y },
		i: func(x, y int64) int64 { return max(x, y) },
		u: func(x, y uint64) uint64 { return max(x, y) },
		f: func(x, y float64) float64 {
			if math.IsNaN(x) || math.IsNaN(y) {
				return math.NaN()
			}
			return math.Max(x, y)
		},
		c: func(x, y complex128) complex128 {
			if cmplx.IsNaN(x) {
				return x
			}
			if cmplx.IsNaN(y) || complexLess(x, y) {
				return y
			}
			return x
		},
	})

	Minimum = binary("minimum", sameBinary(boolTypes, intTypes, floatTypes, complexTypes), binaryFuncs{
		b: func(x, y bool) bool { return x && y },
		i: func(x, y int64) int64 { return min(x, y) },
		u: func(x, y uint64) uint64 { return min(x, y) },
		f: func(x, y float64) float64 {
			if math.IsNaN(x) || math.IsNaN(y) {
				return math.NaN()
			}
			return math.Min(x, y)
		},
		c: func(x, y complex128) complex128 {
			if cmplx.IsNaN(x) {
				return x
			}
			if cmplx.IsNaN(y) || complexLess(y, x) {
				return y
			}
			return x
		},
	})

	Fmax = binary("fmax", sameBinary(floatTypes), binaryFuncs{
		f: func(x, y float64) float64 {
			switch {
			case math.IsNaN(x):
				return y
			case math.IsNaN(y):
				return x
			}
			return math.Max(x, y)
		},
	})

	Fmin = binary("fmin", sameBinary(floatTypes), binaryFuncs{
		f: func(x, y float64) float64 {
			switch {
			case math.IsNaN(x):
				return y
			case math.IsNaN(y):
				return x
			}
			return math.Min(x, y)
		},
	})
)

// Unary arithmetic kernels.
var (
	Negative = unary("negative", sameUnary(intTypes, floatTypes, complexTypes), unaryFuncs{
		i: func(x int64) int64 { return -x },
		u: func(x uint64) uint64 { return -x },
		f: func(x float64) float64 { return -x },
		c: func(x complex128) complex128 { return -x },
	})

	Positive = unary("positive", sameUnary(intTypes, floatTypes, complexTypes), unaryFuncs{
		i: func(x int64) int64 { return x },
		u: func(x uint64) uint64 { return x },
		f: func(x float64) float64 { return x },
		c: func(x complex128) complex128 { return x },
	})

	Abs = unary("abs", append(sameUnary(boolTypes, intTypes, floatTypes), realOfComplex()...), unaryFuncs{
		b: func(x bool) bool { return x },
		i: func(x int64) int64 {
			if x < 0 {
				return -x
			}
			return x
		},
		u: func(x uint64) uint64 { return x },
		f: math.Abs,
		c: func(x complex128) complex128 { return complex(cmplx.Abs(x), 0) },
	})

	Fabs = unary("fabs", sameUnary(floatTypes), unaryFuncs{f: math.Abs})

	Sign = unary("sign", sameUnary(intTypes, floatTypes, complexTypes), unaryFuncs{
		i: func(x int64) int64 {
			switch {
			case x > 0:
				return 1
			case x < 0:
				return -1
			}
			return 0
		},
		u: func(x uint64) uint64 {
			if x > 0 {
				return 1
			}
			return 0
		},
		f: func(x float64) float64 {
			switch {
			case math.IsNaN(x):
				return x
			case x > 0:
				return 1
			case x < 0:
				return -1
			}
			return 0
		},
		c: func(x complex128) complex128 {
			if x == 0 {
				return 0
			}
			return x / complex(cmplx.Abs(x), 0)
		},
	})

	Square = unary("square", sameUnary(boolTypes, intTypes, floatTypes, complexTypes), unaryFuncs{
		b: func(x bool) bool { return x },
		i: func(x int64) int64 { return x * x },
		u: func(x uint64) uint64 { return x * x },
		f: func(x float64) float64 { return x * x },
		c: func(x complex128) complex128 { return x * x },
	})

	Reciprocal = unary("reciprocal", sameUnary(floatTypes, complexTypes), unaryFuncs{
		f: func(x float64) float64 { return 1 / x },
		c: func(x complex128) complex128 { return complexDivide(1, x) },
	})

	Conj = unary("conj", sameUnary(boolTypes, intTypes, floatTypes, complexTypes), unaryFuncs{
		b: func(x bool) bool { return x },
		i: func(x int64) int64 { return x },
		u: func(x uint64) uint64 { return x },
		f: func(x float64) float64 { return x },
		c: cmplx.Conj,
	})

	Real = unary("real", append(sameUnary(floatTypes), realOfComplex()...), unaryFuncs{
		f: func(x float64) float64 { return x },
		c: func(x complex128) complex128 { return complex(real(x), 0) },
	})

	Imag = unary("imag", append(sameUnary(floatTypes), realOfComplex()...), unaryFuncs{
		f: func(float64) float64 { return 0 },
		c: func(x complex128) complex128 { return complex(imag(x), 0) },
	})

	Angle = unary("angle", append(sameUnary(floatTypes), realOfComplex()...), unaryFuncs{
		f: func(x float64) float64 { return math.Atan2(0, x) },
		c: func(x complex128) complex128 { return complex(cmplx.Phase(x), 0) },
	})

	Proj = unary("proj", sameUnary(complexTypes), unaryFuncs{
		c: func(x complex128) complex128 {
			if cmplx.IsInf(x) {
				return complex(math.Inf(1), math.Copysign(0, imag(x)))
			}
			return x
		},
	})
)

func complexDivide(x, y complex128) complex128 {
	return x / y
}

func complexPow(x, y complex128) complex128 {
	if y == 0 {
		return 1
	}
	if x == 0 {
		if real(y) > 0 {
			return 0
		}
		return cmplx.NaN()
	}
	return cmplx.Pow(x, y)
}

// complexLess orders complex values lexicographically.
func complexLess(x, y complex128) bool {
	if real(x) != real(y) {
		return real(x) < real(y)
	}
	return imag(x) < imag(y)
}

func floorDivInt(x, y int64) int64 {
	if y == 0 {
		return 0
	}
	q := x / y
	if (x%y != 0) && ((x < 0) != (y < 0)) {
		q--
	}
	return q
}

func floorDivFloat(x, y float64) float64 {
	if y == 0 {
		return x / y
	}
	mod := math.Mod(x, y)
	div := (x - mod) / y
	if mod != 0 && (y < 0) != (mod < 0) {
		div--
	}
	if div == 0 {
		return math.Copysign(0, x/y)
	}
	floor := math.Floor(div)
	if div-floor > 0.5 {
		floor++
	}
	return floor
}

func remInt(x, y int64) int64 {
	if y == 0 {
		return 0
	}
	r := x % y
	if r != 0 && (r < 0) != (y < 0) {
		r += y
	}
	return r
}

func remFloat(x, y float64) float64 {
	if y == 0 {
		return math.NaN()
	}
	r := math.Mod(x, y)
	if r != 0 && (r < 0) != (y < 0) {
		r += y
	} else if r == 0 {
		r = math.Copysign(0, y)
	}
	return r
}

func powInt(x, y int64) int64 {
	if y < 0 {
		switch x {
		case 1:
			return 1
		case -1:
			if y%2 == 0 {
				return 1
			}
			return -1
		}
		return 0
	}
	res := int64(1)
	for y > 0 {
		if y&1 == 1 {
			res *= x
		}
		x *= x
		y >>= 1
	}
	return res
}

func powUint(x, y uint64) uint64 {
	res := uint64(1)
	for y > 0 {
		if y&1 == 1 {
			res *= x
		}
		x *= x
		y >>= 1
	}
	return res
}
