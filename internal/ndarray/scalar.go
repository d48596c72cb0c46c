package ndarray

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/born-ml/npx/internal/dtype"
)

// Scalar is a single element value tagged with the kind it was produced in.
// Kernels compute in the widest type of each kind (bool, int64, uint64,
// float64, complex128) and Store narrows the value to the array's dtype.
type Scalar struct {
	kind dtype.Kind
	b    bool
	i    int64
	u    uint64
	f    float64
	c    complex128
}

// BoolScalar returns a boolean scalar.
func BoolScalar(v bool) Scalar { return Scalar{kind: dtype.KindBool, b: v} }

// IntScalar returns a signed integer scalar.
func IntScalar(v int64) Scalar { return Scalar{kind: dtype.KindInt, i: v} }

// UintScalar returns an unsigned integer scalar.
func UintScalar(v uint64) Scalar { return Scalar{kind: dtype.KindUint, u: v} }

// FloatScalar returns a real floating-point scalar.
func FloatScalar(v float64) Scalar { return Scalar{kind: dtype.KindFloat, f: v} }

// ComplexScalar returns a complex scalar.
func ComplexScalar(v complex128) Scalar { return Scalar{kind: dtype.KindComplex, c: v} }

// ScalarOf converts a Go scalar value into a Scalar.
func ScalarOf(v any) (Scalar, bool) {
	switch x := v.(type) {
	case Scalar:
		return x, true
	case bool:
		return BoolScalar(x), true
	case int:
		return IntScalar(int64(x)), true
	case int8:
		return IntScalar(int64(x)), true
	case int16:
		return IntScalar(int64(x)), true
	case int32:
		return IntScalar(int64(x)), true
	case int64:
		return IntScalar(x), true
	case uint:
		return UintScalar(uint64(x)), true
	case uint8:
		return UintScalar(uint64(x)), true
	case uint16:
		return UintScalar(uint64(x)), true
	case uint32:
		return UintScalar(uint64(x)), true
	case uint64:
		return UintScalar(x), true
	case float32:
		return FloatScalar(float64(x)), true
	case float64:
		return FloatScalar(x), true
	case complex64:
		return ComplexScalar(complex128(x)), true
	case complex128:
		return ComplexScalar(x), true
	default:
		return Scalar{}, false
	}
}

// Kind returns the kind the value was produced in.
func (s Scalar) Kind() dtype.Kind { return s.kind }

// Bool returns the value as a boolean (non-zero is true).
func (s Scalar) Bool() bool {
	switch s.kind {
	case dtype.KindBool:
		return s.b
	case dtype.KindInt:
		return s.i != 0
	case dtype.KindUint:
		return s.u != 0
	case dtype.KindFloat:
		return s.f != 0
	default:
		return s.c != 0
	}
}

// Int returns the value as int64, truncating toward zero.
func (s Scalar) Int() int64 {
	switch s.kind {
	case dtype.KindBool:
		if s.b {
			return 1
		}
		return 0
	case dtype.KindInt:
		return s.i
	case dtype.KindUint:
		return int64(s.u)
	case dtype.KindFloat:
		return floatToInt(s.f)
	default:
		return floatToInt(real(s.c))
	}
}

// Uint returns the value as uint64 with two's complement wrapping.
func (s Scalar) Uint() uint64 {
	switch s.kind {
	case dtype.KindUint:
		return s.u
	case dtype.KindFloat:
		if s.f >= 0 && s.f < math.MaxUint64 {
			return uint64(s.f)
		}
		return uint64(floatToInt(s.f))
	case dtype.KindComplex:
		return FloatScalar(real(s.c)).Uint()
	default:
		return uint64(s.Int())
	}
}

// Float returns the value as float64. Complex values yield their real part.
func (s Scalar) Float() float64 {
	switch s.kind {
	case dtype.KindBool:
		if s.b {
			return 1
		}
		return 0
	case dtype.KindInt:
		return float64(s.i)
	case dtype.KindUint:
		return float64(s.u)
	case dtype.KindFloat:
		return s.f
	default:
		return real(s.c)
	}
}

// Complex returns the value as complex128.
func (s Scalar) Complex() complex128 {
	if s.kind == dtype.KindComplex {
		return s.c
	}
	return complex(s.Float(), 0)
}

// IsNaN reports whether the value is a floating NaN.
func (s Scalar) IsNaN() bool {
	switch s.kind {
	case dtype.KindFloat:
		return math.IsNaN(s.f)
	case dtype.KindComplex:
		return cmplx.IsNaN(s.c)
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (s Scalar) String() string {
	switch s.kind {
	case dtype.KindBool:
		return fmt.Sprint(s.b)
	case dtype.KindInt:
		return fmt.Sprint(s.i)
	case dtype.KindUint:
		return fmt.Sprint(s.u)
	case dtype.KindFloat:
		return fmt.Sprint(s.f)
	default:
		return fmt.Sprint(s.c)
	}
}

func floatToInt(f float64) int64 {
	switch {
	case math.IsNaN(f):
		return math.MinInt64
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	default:
		return int64(f)
	}
}
