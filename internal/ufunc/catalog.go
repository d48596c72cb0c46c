package ufunc

import (
	"github.com/born-ml/npx/internal/backend/cpu"
	"github.com/born-ml/npx/internal/backend/vm"
)

// Catalog holds the elementwise function objects of one namespace.
type Catalog struct {
	Abs        *UnaryFunc
	Fabs       *UnaryFunc
	Negative   *UnaryFunc
	Positive   *UnaryFunc
	Sign       *UnaryFunc
	Square     *UnaryFunc
	Reciprocal *UnaryFunc
	Sqrt       *UnaryFunc
	Rsqrt      *UnaryFunc
	Cbrt       *UnaryFunc
	Exp        *UnaryFunc
	Exp2       *UnaryFunc
	Expm1      *UnaryFunc
	Log        *UnaryFunc
	Log2       *UnaryFunc
	Log10      *UnaryFunc
	Log1p      *UnaryFunc
	Sin        *UnaryFunc
	Cos        *UnaryFunc
	Tan        *UnaryFunc
	Arcsin     *UnaryFunc
	Arccos     *UnaryFunc
	Arctan     *UnaryFunc
	Sinh       *UnaryFunc
	Cosh       *UnaryFunc
	Tanh       *UnaryFunc
	Arcsinh    *UnaryFunc
	Arccosh    *UnaryFunc
	Arctanh    *UnaryFunc
	Ceil       *UnaryFunc
	Floor      *UnaryFunc
	Trunc      *UnaryFunc
	Rint       *UnaryFunc
	Conj       *UnaryFunc
	Proj       *UnaryFunc
	IsNaN      *UnaryFunc
	IsInf      *UnaryFunc
	IsFinite   *UnaryFunc
	Signbit    *UnaryFunc
	LogicalNot *UnaryFunc
	Invert     *UnaryFunc

	Angle    *Angle
	Fix      *Fix
	Round    *Round
	Real     *Real
	Imag     *Restricted
	I0       *Restricted
	Sinc     *Restricted
	IsNegInf *InfSign
	IsPosInf *InfSign

	Add          *BinaryFunc
	Subtract     *BinaryFunc
	Multiply     *BinaryFunc
	Divide       *BinaryFunc
	FloorDivide  *BinaryFunc
	Remainder    *BinaryFunc
	Fmod         *BinaryFunc
	Power        *BinaryFunc
	Maximum      *BinaryFunc
	Minimum      *BinaryFunc
	Fmax         *BinaryFunc
	Fmin         *BinaryFunc
	Arctan2      *BinaryFunc
	Hypot        *BinaryFunc
	Copysign     *BinaryFunc
	Logaddexp    *BinaryFunc
	Logaddexp2   *BinaryFunc
	Heaviside    *BinaryFunc
	Nextafter    *BinaryFunc
	Ldexp        *BinaryFunc
	Equal        *BinaryFunc
	NotEqual     *BinaryFunc
	Less         *BinaryFunc
	LessEqual    *BinaryFunc
	Greater      *BinaryFunc
	GreaterEqual *BinaryFunc
	LogicalAnd   *BinaryFunc
	LogicalOr    *BinaryFunc
	LogicalXor   *BinaryFunc
	BitwiseAnd   *BinaryFunc
	BitwiseOr    *BinaryFunc
	BitwiseXor   *BinaryFunc
	LeftShift    *BinaryFunc
	RightShift   *BinaryFunc
	Gcd          *BinaryFunc
	Lcm          *BinaryFunc
}

// NewCatalog builds every function object over env.
func NewCatalog(env *Env) *Catalog {
	u := func(k *cpu.UnaryKernel, v *vm.Unary) *UnaryFunc { return NewUnary(env, k, v, nil) }
	b := func(k *cpu.BinaryKernel, v *vm.Binary, opts ...BinaryOption) *BinaryFunc {
		return NewBinary(env, k, v, opts...)
	}
	weakInt := WithWeakResolver(ResolveWeakTypes2ndArgInt)

	c := &Catalog{
		Abs:        u(cpu.Abs, vm.Abs),
		Fabs:       u(cpu.Fabs, nil),
		Negative:   NewUnary(env, cpu.Negative, nil, AcceptNegative),
		Positive:   NewUnary(env, cpu.Positive, nil, AcceptPositive),
		Sign:       NewUnary(env, cpu.Sign, nil, AcceptSign),
		Square:     u(cpu.Square, vm.Sqr),
		Reciprocal: NewUnary(env, cpu.Reciprocal, vm.Inv, AcceptReciprocal),
		Sqrt:       u(cpu.Sqrt, vm.Sqrt),
		Rsqrt:      u(cpu.Rsqrt, vm.InvSqr),
		Cbrt:       u(cpu.Cbrt, vm.Cbrt),
		Exp:        u(cpu.Exp, vm.Exp),
		Exp2:       u(cpu.Exp2, vm.Exp2),
		Expm1:      u(cpu.Expm1, vm.Expm1),
		Log:        u(cpu.Log, vm.Log),
		Log2:       u(cpu.Log2, vm.Log2),
		Log10:      u(cpu.Log10, vm.Log10),
		Log1p:      u(cpu.Log1p, vm.Log1p),
		Sin:        u(cpu.Sin, vm.Sin),
		Cos:        u(cpu.Cos, vm.Cos),
		Tan:        u(cpu.Tan, vm.Tan),
		Arcsin:     u(cpu.Arcsin, vm.Asin),
		Arccos:     u(cpu.Arccos, vm.Acos),
		Arctan:     u(cpu.Arctan, vm.Atan),
		Sinh:       u(cpu.Sinh, vm.Sinh),
		Cosh:       u(cpu.Cosh, vm.Cosh),
		Tanh:       u(cpu.Tanh, vm.Tanh),
		Arcsinh:    u(cpu.Arcsinh, vm.Asinh),
		Arccosh:    u(cpu.Arccosh, vm.Acosh),
		Arctanh:    u(cpu.Arctanh, vm.Atanh),
		Ceil:       u(cpu.Ceil, vm.Ceil),
		Floor:      u(cpu.Floor, vm.Floor),
		Trunc:      u(cpu.Trunc, vm.Trunc),
		Rint:       u(cpu.Rint, vm.Rint),
		Conj:       u(cpu.Conj, vm.Conj),
		Proj:       u(cpu.Proj, nil),
		IsNaN:      u(cpu.IsNaN, nil),
		IsInf:      u(cpu.IsInf, nil),
		IsFinite:   u(cpu.IsFinite, nil),
		Signbit:    u(cpu.Signbit, nil),
		LogicalNot: u(cpu.LogicalNot, nil),
		Invert:     u(cpu.Invert, nil),

		Add:          b(cpu.Add, vm.Add),
		Subtract:     b(cpu.Subtract, vm.Sub, WithAcceptance(AcceptSubtract)),
		Multiply:     b(cpu.Multiply, vm.Mul),
		Divide:       b(cpu.Divide, vm.Div, WithAcceptance(AcceptDivide)),
		FloorDivide:  b(cpu.FloorDivide, nil),
		Remainder:    b(cpu.Remainder, nil),
		Fmod:         b(cpu.Fmod, vm.Fmod),
		Power:        b(cpu.Power, vm.Pow),
		Maximum:      b(cpu.Maximum, nil),
		Minimum:      b(cpu.Minimum, nil),
		Fmax:         b(cpu.Fmax, vm.Fmax),
		Fmin:         b(cpu.Fmin, vm.Fmin),
		Arctan2:      b(cpu.Arctan2, vm.Atan2),
		Hypot:        b(cpu.Hypot, vm.Hypot),
		Copysign:     b(cpu.Copysign, vm.Copysign),
		Logaddexp:    b(cpu.Logaddexp, nil),
		Logaddexp2:   b(cpu.Logaddexp2, nil),
		Heaviside:    b(cpu.Heaviside, nil),
		Nextafter:    b(cpu.Nextafter, nil),
		Ldexp:        b(cpu.Ldexp, nil, weakInt),
		Equal:        b(cpu.Equal, nil),
		NotEqual:     b(cpu.NotEqual, nil),
		Less:         b(cpu.Less, nil),
		LessEqual:    b(cpu.LessEqual, nil),
		Greater:      b(cpu.Greater, nil),
		GreaterEqual: b(cpu.GreaterEqual, nil),
		LogicalAnd:   b(cpu.LogicalAnd, nil),
		LogicalOr:    b(cpu.LogicalOr, nil),
		LogicalXor:   b(cpu.LogicalXor, nil),
		BitwiseAnd:   b(cpu.BitwiseAnd, nil),
		BitwiseOr:    b(cpu.BitwiseOr, nil),
		BitwiseXor:   b(cpu.BitwiseXor, nil),
		LeftShift:    b(cpu.LeftShift, nil, weakInt),
		RightShift:   b(cpu.RightShift, nil, weakInt),
		Gcd:          b(cpu.Gcd, nil, WithAcceptance(AcceptGCDLCM)),
		Lcm:          b(cpu.Lcm, nil, WithAcceptance(AcceptGCDLCM)),
	}

	c.Angle = &Angle{UnaryFunc: u(cpu.Angle, nil), multiply: c.Multiply}
	c.Fix = &Fix{UnaryFunc: u(cpu.Fix, vm.Trunc)}
	c.Round = &Round{UnaryFunc: u(cpu.Round, vm.Rint), multiply: c.Multiply, divide: c.Divide}
	c.Real = &Real{UnaryFunc: u(cpu.Real, nil)}
	c.Imag = &Restricted{UnaryFunc: u(cpu.Imag, nil)}
	c.I0 = &Restricted{UnaryFunc: u(cpu.I0, nil)}
	c.Sinc = &Restricted{UnaryFunc: u(cpu.Sinc, nil)}
	c.IsNegInf = &InfSign{name: "isneginf", negative: true,
		isinf: c.IsInf, signbit: c.Signbit, logicalNot: c.LogicalNot, logicalAnd: c.LogicalAnd}
	c.IsPosInf = &InfSign{name: "isposinf",
		isinf: c.IsInf, signbit: c.Signbit, logicalNot: c.LogicalNot, logicalAnd: c.LogicalAnd}
	return c
}
