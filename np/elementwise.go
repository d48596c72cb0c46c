// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package np

import "github.com/born-ml/npx/internal/ufunc"

// Abs computes the absolute value elementwise.
func (ns *Namespace) Abs(x any, opts ...Option) (*Array, error) {
	return ns.unary(ns.cat.Abs, x, opts)
}

// Fabs computes the absolute value of real input elementwise.
func (ns *Namespace) Fabs(x any, opts ...Option) (*Array, error) {
	return ns.unary(ns.cat.Fabs, x, opts)
}

// Negative computes -x elementwise.
func (ns *Namespace) Negative(x any, opts ...Option) (*Array, error) {
	return ns.unary(ns.cat.Negative, x, opts)
}

// Positive computes +x elementwise.
func (ns *Namespace) Positive(x any, opts ...Option) (*Array, error) {
	return ns.unary(ns.cat.Positive, x, opts)
}

// Sign computes the sign of x elementwise.
func (ns *Namespace) Sign(x any, opts ...Option) (*Array, error) {
	return ns.unary(ns.cat.Sign, x, opts)
}

// Square computes x*x elementwise.
func (ns *Namespace) Square(x any, opts ...Option) (*Array, error) {
	return ns.unary(ns.cat.Square, x, opts)
}

// Reciprocal computes 1/x elementwise.
func (ns *Namespace) Reciprocal(x any, opts ...Option) (*Array, error) {
	return ns.unary(ns.cat.Reciprocal, x, opts)
}

// Sqrt computes the non-negative square root elementwise.
func (ns *Namespace) Sqrt(x any, opts ...Option) (*Array, error) {
	return ns.unary(ns.cat.Sqrt, x, opts)
}

// Rsqrt computes 1/sqrt(x) elementwise.
func (ns *Namespace) Rsqrt(x any, opts ...Option) (*Array, error) {
	return ns.unary(ns.cat.Rsqrt, x, opts)
}

// Cbrt computes the cube root elementwise.
func (ns *Namespace) Cbrt(x any, opts ...Option) (*Array, error) {
	return ns.unary(ns.cat.Cbrt, x, opts)
}

// Exp computes e**x elementwise.
func (ns *Namespace) Exp(x any, opts ...Option) (*Array, error) {
	return ns.unary(ns.cat.Exp, x, opts)
}

// Exp2 computes 2**x elementwise.
func (ns *Namespace) Exp2(x any, opts ...Option) (*Array, error) {
	return ns.unary(ns.cat.Exp2, x, opts)
}

// Expm1 computes exp(x) - 1 elementwise.
func (ns *Namespace) Expm1(x any, opts ...Option) (*Array, error) {
	return ns.unary(ns.cat.Expm1, x, opts)
}

// Log computes the natural logarithm elementwise.
func (ns *Namespace) Log(x any, opts ...Option) (*Array, error) {
	return ns.unary(ns.cat.Log, x, opts)
}

// Log2 computes the base 2 logarithm elementwise.
func (ns *Namespace) Log2(x any, opts ...Option) (*Array, error) {
	return ns.unary(ns.cat.Log2, x, opts)
}

// Log10 computes the base 10 logarithm elementwise.
func (ns *Namespace) Log10(x any, opts ...Option) (*Array, error) {
	return ns.unary(ns.cat.Log10, x, opts)
}

// Log1p computes log(1 + x) elementwise.
func (ns *Namespace) Log1p(x any, opts ...Option) (*Array, error) {
	return ns.unary(ns.cat.Log1p, x, opts)
}

// Sin computes the sine elementwise.
func (ns *Namespace) Sin(x any, opts ...Option) (*Array, error) {
	return ns.unary(ns.cat.Sin, x, opts)
}

// Cos computes the cosine elementwise.
func (ns *Namespace) Cos(x any, opts ...Option) (*Array, error) {
	return ns.unary(ns.cat.Cos, x, opts)
}

// Tan computes the tangent elementwise.
func (ns *Namespace) Tan(x any, opts ...Option) (*Array, error) {
	return ns.unary(ns.cat.Tan, x, opts)
}

// Arcsin computes the inverse sine elementwise.
func (ns *Namespace) Arcsin(x any, opts ...Option) (*Array, error) {
	return ns.unary(ns.cat.Arcsin, x, opts)
}

// Arccos computes the inverse cosine elementwise.
func (ns *Namespace) Arccos(x any, opts ...Option) (*Array, error) {
	return ns.unary(ns.cat.Arccos, x, opts)
}

// Arctan computes the inverse tangent elementwise.
func (ns *Namespace) Arctan(x any, opts ...Option) (*Array, error) {
	return ns.unary(ns.cat.Arctan, x, opts)
}

// Sinh computes the hyperbolic sine elementwise.
func (ns *Namespace) Sinh(x any, opts ...Option) (*Array, error) {
	return ns.unary(ns.cat.Sinh, x, opts)
}

// Cosh computes the hyperbolic cosine elementwise.
func (ns *Namespace) Cosh(x any, opts ...Option) (*Array, error) {
	return ns.unary(ns.cat.Cosh, x, opts)
}

// Tanh computes the hyperbolic tangent elementwise.
func (ns *Namespace) Tanh(x any, opts ...Option) (*Array, error) {
	return ns.unary(ns.cat.Tanh, x, opts)
}

// Arcsinh computes the inverse hyperbolic sine elementwise.
func (ns *Namespace) Arcsinh(x any, opts ...Option) (*Array, error) {
	return ns.unary(ns.cat.Arcsinh, x, opts)
}

// Arccosh computes the inverse hyperbolic cosine elementwise.
func (ns *Namespace) Arccosh(x any, opts ...Option) (*Array, error) {
	return ns.unary(ns.cat.Arccosh, x, opts)
}

// Arctanh computes the inverse hyperbolic tangent elementwise.
func (ns *Namespace) Arctanh(x any, opts ...Option) (*Array, error) {
	return ns.unary(ns.cat.Arctanh, x, opts)
}

// Ceil computes the ceiling elementwise.
func (ns *Namespace) Ceil(x any, opts ...Option) (*Array, error) {
	return ns.unary(ns.cat.Ceil, x, opts)
}

// Floor computes the floor elementwise.
func (ns *Namespace) Floor(x any, opts ...Option) (*Array, error) {
	return ns.unary(ns.cat.Floor, x, opts)
}

// Trunc computes the truncated value elementwise.
func (ns *Namespace) Trunc(x any, opts ...Option) (*Array, error) {
	return ns.unary(ns.cat.Trunc, x, opts)
}

// Rint computes x rounded to the nearest integer elementwise.
func (ns *Namespace) Rint(x any, opts ...Option) (*Array, error) {
	return ns.unary(ns.cat.Rint, x, opts)
}

// Conj computes the complex conjugate elementwise.
func (ns *Namespace) Conj(x any, opts ...Option) (*Array, error) {
	return ns.unary(ns.cat.Conj, x, opts)
}

// Proj computes the projection onto the Riemann sphere elementwise.
func (ns *Namespace) Proj(x any, opts ...Option) (*Array, error) {
	return ns.unary(ns.cat.Proj, x, opts)
}

// IsNaN computes whether x is NaN elementwise.
func (ns *Namespace) IsNaN(x any, opts ...Option) (*Array, error) {
	return ns.unary(ns.cat.IsNaN, x, opts)
}

// IsInf computes whether x is infinite elementwise.
func (ns *Namespace) IsInf(x any, opts ...Option) (*Array, error) {
	return ns.unary(ns.cat.IsInf, x, opts)
}

// IsFinite computes whether x is finite elementwise.
func (ns *Namespace) IsFinite(x any, opts ...Option) (*Array, error) {
	return ns.unary(ns.cat.IsFinite, x, opts)
}

// Signbit computes whether the sign bit of x is set elementwise.
func (ns *Namespace) Signbit(x any, opts ...Option) (*Array, error) {
	return ns.unary(ns.cat.Signbit, x, opts)
}

// LogicalNot computes NOT x elementwise.
func (ns *Namespace) LogicalNot(x any, opts ...Option) (*Array, error) {
	return ns.unary(ns.cat.LogicalNot, x, opts)
}

// Invert computes the bitwise NOT elementwise.
func (ns *Namespace) Invert(x any, opts ...Option) (*Array, error) {
	return ns.unary(ns.cat.Invert, x, opts)
}

// Add computes x1 + x2 elementwise.
func (ns *Namespace) Add(x1, x2 any, opts ...Option) (*Array, error) {
	return ns.binary(ns.cat.Add, x1, x2, opts)
}

// Subtract computes x1 - x2 elementwise.
func (ns *Namespace) Subtract(x1, x2 any, opts ...Option) (*Array, error) {
	return ns.binary(ns.cat.Subtract, x1, x2, opts)
}

// Multiply computes x1 * x2 elementwise.
func (ns *Namespace) Multiply(x1, x2 any, opts ...Option) (*Array, error) {
	return ns.binary(ns.cat.Multiply, x1, x2, opts)
}

// Divide computes x1 / x2 elementwise.
func (ns *Namespace) Divide(x1, x2 any, opts ...Option) (*Array, error) {
	return ns.binary(ns.cat.Divide, x1, x2, opts)
}

// FloorDivide computes floor(x1 / x2) elementwise.
func (ns *Namespace) FloorDivide(x1, x2 any, opts ...Option) (*Array, error) {
	return ns.binary(ns.cat.FloorDivide, x1, x2, opts)
}

// Remainder computes the remainder of x1 / x2 with the sign of x2 elementwise.
func (ns *Namespace) Remainder(x1, x2 any, opts ...Option) (*Array, error) {
	return ns.binary(ns.cat.Remainder, x1, x2, opts)
}

// Fmod computes the remainder of x1 / x2 with the sign of x1 elementwise.
func (ns *Namespace) Fmod(x1, x2 any, opts ...Option) (*Array, error) {
	return ns.binary(ns.cat.Fmod, x1, x2, opts)
}

// Power computes x1 ** x2 elementwise.
func (ns *Namespace) Power(x1, x2 any, opts ...Option) (*Array, error) {
	return ns.binary(ns.cat.Power, x1, x2, opts)
}

// Maximum computes the larger of x1 and x2, propagating NaNs elementwise.
func (ns *Namespace) Maximum(x1, x2 any, opts ...Option) (*Array, error) {
	return ns.binary(ns.cat.Maximum, x1, x2, opts)
}

// Minimum computes the smaller of x1 and x2, propagating NaNs elementwise.
func (ns *Namespace) Minimum(x1, x2 any, opts ...Option) (*Array, error) {
	return ns.binary(ns.cat.Minimum, x1, x2, opts)
}

// Fmax computes the larger of x1 and x2, ignoring NaNs elementwise.
func (ns *Namespace) Fmax(x1, x2 any, opts ...Option) (*Array, error) {
	return ns.binary(ns.cat.Fmax, x1, x2, opts)
}

// Fmin computes the smaller of x1 and x2, ignoring NaNs elementwise.
func (ns *Namespace) Fmin(x1, x2 any, opts ...Option) (*Array, error) {
	return ns.binary(ns.cat.Fmin, x1, x2, opts)
}

// Arctan2 computes the angle of the point (x2, x1) elementwise.
func (ns *Namespace) Arctan2(x1, x2 any, opts ...Option) (*Array, error) {
	return ns.binary(ns.cat.Arctan2, x1, x2, opts)
}

// Hypot computes sqrt(x1**2 + x2**2) elementwise.
func (ns *Namespace) Hypot(x1, x2 any, opts ...Option) (*Array, error) {
	return ns.binary(ns.cat.Hypot, x1, x2, opts)
}

// Copysign computes x1 with the sign of x2 elementwise.
func (ns *Namespace) Copysign(x1, x2 any, opts ...Option) (*Array, error) {
	return ns.binary(ns.cat.Copysign, x1, x2, opts)
}

// Logaddexp computes log(exp(x1) + exp(x2)) elementwise.
func (ns *Namespace) Logaddexp(x1, x2 any, opts ...Option) (*Array, error) {
	return ns.binary(ns.cat.Logaddexp, x1, x2, opts)
}

// Logaddexp2 computes log2(2**x1 + 2**x2) elementwise.
func (ns *Namespace) Logaddexp2(x1, x2 any, opts ...Option) (*Array, error) {
	return ns.binary(ns.cat.Logaddexp2, x1, x2, opts)
}

// Heaviside computes the Heaviside step of x1 with value x2 at zero elementwise.
func (ns *Namespace) Heaviside(x1, x2 any, opts ...Option) (*Array, error) {
	return ns.binary(ns.cat.Heaviside, x1, x2, opts)
}

// Nextafter computes the next representable value after x1 towards x2 elementwise.
func (ns *Namespace) Nextafter(x1, x2 any, opts ...Option) (*Array, error) {
	return ns.binary(ns.cat.Nextafter, x1, x2, opts)
}

// Ldexp computes x1 * 2**x2 elementwise.
func (ns *Namespace) Ldexp(x1, x2 any, opts ...Option) (*Array, error) {
	return ns.binary(ns.cat.Ldexp, x1, x2, opts)
}

// Equal computes x1 == x2 elementwise.
func (ns *Namespace) Equal(x1, x2 any, opts ...Option) (*Array, error) {
	return ns.binary(ns.cat.Equal, x1, x2, opts)
}

// NotEqual computes x1 != x2 elementwise.
func (ns *Namespace) NotEqual(x1, x2 any, opts ...Option) (*Array, error) {
	return ns.binary(ns.cat.NotEqual, x1, x2, opts)
}

// Less computes x1 < x2 elementwise.
func (ns *Namespace) Less(x1, x2 any, opts ...Option) (*Array, error) {
	return ns.binary(ns.cat.Less, x1, x2, opts)
}

// LessEqual computes x1 <= x2 elementwise.
func (ns *Namespace) LessEqual(x1, x2 any, opts ...Option) (*Array, error) {
	return ns.binary(ns.cat.LessEqual, x1, x2, opts)
}

// Greater computes x1 > x2 elementwise.
func (ns *Namespace) Greater(x1, x2 any, opts ...Option) (*Array, error) {
	return ns.binary(ns.cat.Greater, x1, x2, opts)
}

// GreaterEqual computes x1 >= x2 elementwise.
func (ns *Namespace) GreaterEqual(x1, x2 any, opts ...Option) (*Array, error) {
	return ns.binary(ns.cat.GreaterEqual, x1, x2, opts)
}

// LogicalAnd computes x1 AND x2 elementwise.
func (ns *Namespace) LogicalAnd(x1, x2 any, opts ...Option) (*Array, error) {
	return ns.binary(ns.cat.LogicalAnd, x1, x2, opts)
}

// LogicalOr computes x1 OR x2 elementwise.
func (ns *Namespace) LogicalOr(x1, x2 any, opts ...Option) (*Array, error) {
	return ns.binary(ns.cat.LogicalOr, x1, x2, opts)
}

// LogicalXor computes x1 XOR x2 elementwise.
func (ns *Namespace) LogicalXor(x1, x2 any, opts ...Option) (*Array, error) {
	return ns.binary(ns.cat.LogicalXor, x1, x2, opts)
}

// BitwiseAnd computes x1 & x2 elementwise.
func (ns *Namespace) BitwiseAnd(x1, x2 any, opts ...Option) (*Array, error) {
	return ns.binary(ns.cat.BitwiseAnd, x1, x2, opts)
}

// BitwiseOr computes x1 | x2 elementwise.
func (ns *Namespace) BitwiseOr(x1, x2 any, opts ...Option) (*Array, error) {
	return ns.binary(ns.cat.BitwiseOr, x1, x2, opts)
}

// BitwiseXor computes x1 ^ x2 elementwise.
func (ns *Namespace) BitwiseXor(x1, x2 any, opts ...Option) (*Array, error) {
	return ns.binary(ns.cat.BitwiseXor, x1, x2, opts)
}

// LeftShift computes x1 << x2 elementwise.
func (ns *Namespace) LeftShift(x1, x2 any, opts ...Option) (*Array, error) {
	return ns.binary(ns.cat.LeftShift, x1, x2, opts)
}

// RightShift computes x1 >> x2 elementwise.
func (ns *Namespace) RightShift(x1, x2 any, opts ...Option) (*Array, error) {
	return ns.binary(ns.cat.RightShift, x1, x2, opts)
}

// Gcd computes the greatest common divisor of |x1| and |x2| elementwise.
func (ns *Namespace) Gcd(x1, x2 any, opts ...Option) (*Array, error) {
	return ns.binary(ns.cat.Gcd, x1, x2, opts)
}

// Lcm computes the least common multiple of |x1| and |x2| elementwise.
func (ns *Namespace) Lcm(x1, x2 any, opts ...Option) (*Array, error) {
	return ns.binary(ns.cat.Lcm, x1, x2, opts)
}

func (ns *Namespace) binaryFuncs() map[string]*ufunc.BinaryFunc {
	return map[string]*ufunc.BinaryFunc{
		"add":           ns.cat.Add,
		"subtract":      ns.cat.Subtract,
		"multiply":      ns.cat.Multiply,
		"divide":        ns.cat.Divide,
		"floor_divide":  ns.cat.FloorDivide,
		"remainder":     ns.cat.Remainder,
		"fmod":          ns.cat.Fmod,
		"power":         ns.cat.Power,
		"maximum":       ns.cat.Maximum,
		"minimum":       ns.cat.Minimum,
		"fmax":          ns.cat.Fmax,
		"fmin":          ns.cat.Fmin,
		"arctan2":       ns.cat.Arctan2,
		"hypot":         ns.cat.Hypot,
		"copysign":      ns.cat.Copysign,
		"logaddexp":     ns.cat.Logaddexp,
		"logaddexp2":    ns.cat.Logaddexp2,
		"heaviside":     ns.cat.Heaviside,
		"nextafter":     ns.cat.Nextafter,
		"ldexp":         ns.cat.Ldexp,
		"equal":         ns.cat.Equal,
		"not_equal":     ns.cat.NotEqual,
		"less":          ns.cat.Less,
		"less_equal":    ns.cat.LessEqual,
		"greater":       ns.cat.Greater,
		"greater_equal": ns.cat.GreaterEqual,
		"logical_and":   ns.cat.LogicalAnd,
		"logical_or":    ns.cat.LogicalOr,
		"logical_xor":   ns.cat.LogicalXor,
		"bitwise_and":   ns.cat.BitwiseAnd,
		"bitwise_or":    ns.cat.BitwiseOr,
		"bitwise_xor":   ns.cat.BitwiseXor,
		"left_shift":    ns.cat.LeftShift,
		"right_shift":   ns.cat.RightShift,
		"gcd":           ns.cat.Gcd,
		"lcm":           ns.cat.Lcm,
	}
}
