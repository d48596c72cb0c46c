package cpu

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/born-ml/npx/internal/dtype"
	"github.com/born-ml/npx/internal/ndarray"
)

// Comparison operations - return bool arrays.

var allTypes = [][]dtype.DType{boolTypes, intTypes, floatTypes, complexTypes}

// cmpFuncs holds the per-kind implementations of a comparison.
type cmpFuncs struct {
	b func(x, y bool) bool
	i func(x, y int64) bool
	u func(x, y uint64) bool
	f func(x, y float64) bool
	c func(x, y complex128) bool
}

func compare(name string, fs cmpFuncs) *BinaryKernel {
	return newBinary(name, toBinary(dtype.Bool, allTypes...), func(x, y ndarray.Scalar, _ dtype.DType) ndarray.Scalar {
		var res bool
		switch x.Kind() {
		case dtype.KindBool:
			res = fs.b(x.Bool(), y.Bool())
		case dtype.KindInt:
			res = fs.i(x.Int(), y.Int())
		case dtype.KindUint:
			res = fs.u(x.Uint(), y.Uint())
		case dtype.KindFloat:
			res = fs.f(x.Float(), y.Float())
		case dtype.KindComplex:
			res = fs.c(x.Complex(), y.Complex())
		default:
			panic(fmt.Sprintf("%s: unsupported kind %s", name, x.Kind()))
		}
		return ndarray.BoolScalar(res)
	})
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var (
	Equal = compare("equal", cmpFuncs{
		b: func(x, y bool) bool { return x == y },
		i: func(x, y int64) bool { return x == y },
		u: func(x, y uint64) bool { return x == y },
		f: func(x, y float64) bool { return x == y },
		c: func(x, y complex128) bool { return x == y },
	})

	NotEqual = compare("not_equal", cmpFuncs{
		b: func(x, y bool) bool { return x != y },
		i: func(x, y int64) bool { return x != y },
		u: func(x, y uint64) bool { return x != y },
		f: func(x, y float64) bool { return x != y },
		c: func(x, y complex128) bool { return x != y },
	})

	Less = compare("less", cmpFuncs{
		b: func(x, y bool) bool { return boolToInt(x) < boolToInt(y) },
		i: func(x, y int64) bool { return x < y },
		u: func(x, y uint64) bool { return x < y },
		f: func(x, y float64) bool { return x < y },
		c: func(x, y complex128) bool { return !cmplx.IsNaN(x) && !cmplx.IsNaN(y) && complexLess(x, y) },
	})

	LessEqual = compare("less_equal", cmpFuncs{
		b: func(x, y bool) bool { return boolToInt(x) <= boolToInt(y) },
		i: func(x, y int64) bool { return x <= y },
		u: func(x, y uint64) bool { return x <= y },
		f: func(x, y float64) bool { return x <= y },
		c: func(x, y complex128) bool { return !cmplx.IsNaN(x) && !cmplx.IsNaN(y) && !complexLess(y, x) },
	})

	Greater = compare("greater", cmpFuncs{
		b: func(x, y bool) bool { return boolToInt(x) > boolToInt(y) },
		i: func(x, y int64) bool { return x > y },
		u: func(x, y uint64) bool { return x > y },
		f: func(x, y float64) bool { return x > y },
		c: func(x, y complex128) bool { return !cmplx.IsNaN(x) && !cmplx.IsNaN(y) && complexLess(y, x) },
	})

	GreaterEqual = compare("greater_equal", cmpFuncs{
		b: func(x, y bool) bool { return boolToInt(x) >= boolToInt(y) },
		i: func(x, y int64) bool { return x >= y },
		u: func(x, y uint64) bool { return x >= y },
		f: func(x, y float64) bool { return x >= y },
		c: func(x, y complex128) bool { return !cmplx.IsNaN(x) && !cmplx.IsNaN(y) && !complexLess(x, y) },
	})
)

// Logical operations - any input type, bool result.

func logical(name string, f func(x, y bool) bool) *BinaryKernel {
	return newBinary(name, toBinary(dtype.Bool, allTypes...), func(x, y ndarray.Scalar, _ dtype.DType) ndarray.Scalar {
		return ndarray.BoolScalar(f(x.Bool(), y.Bool()))
	})
}

var (
	LogicalAnd = logical("logical_and", func(x, y bool) bool { return x && y })
	LogicalOr  = logical("logical_or", func(x, y bool) bool { return x || y })
	LogicalXor = logical("logical_xor", func(x, y bool) bool { return x != y })
)

// predicate builds a unary kernel returning bool for every input type.
func predicate(name string, types []UnarySignature, f func(x ndarray.Scalar) bool) *UnaryKernel {
	return newUnary(name, types, func(x ndarray.Scalar, _ dtype.DType) ndarray.Scalar {
		return ndarray.BoolScalar(f(x))
	})
}

var (
	LogicalNot = predicate("logical_not", toUnary(dtype.Bool, allTypes...), func(x ndarray.Scalar) bool {
		return !x.Bool()
	})

	IsNaN = predicate("isnan", toUnary(dtype.Bool, allTypes...), func(x ndarray.Scalar) bool {
		return x.IsNaN()
	})

	IsInf = predicate("isinf", toUnary(dtype.Bool, allTypes...), func(x ndarray.Scalar) bool {
		switch x.Kind() {
		case dtype.KindFloat:
			return math.IsInf(x.Float(), 0)
		case dtype.KindComplex:
			return cmplx.IsInf(x.Complex())
		}
		return false
	})

	IsFinite = predicate("isfinite", toUnary(dtype.Bool, allTypes...), func(x ndarray.Scalar) bool {
		switch x.Kind() {
		case dtype.KindFloat:
			f := x.Float()
			return !math.IsInf(f, 0) && !math.IsNaN(f)
		case dtype.KindComplex:
			c := x.Complex()
			return !cmplx.IsInf(c) && !cmplx.IsNaN(c)
		}
		return true
	})

	Signbit = predicate("signbit", toUnary(dtype.Bool, floatTypes), func(x ndarray.Scalar) bool {
		return math.Signbit(x.Float())
	})
)

// NewIsClose builds the kernel of isclose for the given tolerances:
// |x - y| <= atol + rtol*|y|, where equal infinities are close and NaNs are
// close to each other only with equalNaN.
func NewIsClose(rtol, atol float64, equalNaN bool) *BinaryKernel {
	return newBinary("isclose", toBinary(dtype.Bool, floatTypes, complexTypes), func(x, y ndarray.Scalar, _ dtype.DType) ndarray.Scalar {
		a, b := x.Complex(), y.Complex()
		switch {
		case cmplx.IsNaN(a) || cmplx.IsNaN(b):
			return ndarray.BoolScalar(equalNaN && cmplx.IsNaN(a) && cmplx.IsNaN(b))
		case a == b:
			return ndarray.BoolScalar(true)
		case cmplx.IsInf(a) || cmplx.IsInf(b):
			return ndarray.BoolScalar(false)
		}
		return ndarray.BoolScalar(cmplx.Abs(a-b) <= atol+rtol*cmplx.Abs(b))
	})
}
