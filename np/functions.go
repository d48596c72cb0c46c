// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package np

import (
	"github.com/born-ml/npx/internal/errs"
	"github.com/born-ml/npx/internal/ufunc"
)

func (ns *Namespace) unary(f *ufunc.UnaryFunc, x any, opts []Option) (*Array, error) {
	return f.Call(x, newOptions(opts).elementwise())
}

func (ns *Namespace) binary(f *ufunc.BinaryFunc, x1, x2 any, opts []Option) (*Array, error) {
	return f.Call(x1, x2, newOptions(opts).elementwise())
}

// Outer applies the binary function named op to every pair of elements of
// x1 and x2. The result has shape x1.shape + x2.shape.
func (ns *Namespace) Outer(op string, x1, x2 any, opts ...Option) (*Array, error) {
	f, ok := ns.binaryFuncs()[op]
	if !ok {
		return nil, errs.Value("unknown binary function %q", op)
	}
	return f.Outer(x1, x2, newOptions(opts).elementwise())
}

// Angle computes the argument of complex x elementwise, in radians or,
// with Deg(true), in degrees.
func (ns *Namespace) Angle(x any, opts ...Option) (*Array, error) {
	o := newOptions(opts)
	return ns.cat.Angle.Call(x, o.deg, o.elementwise("deg"))
}

// Fix rounds x towards zero elementwise. Integer and boolean input is
// copied without running a kernel.
func (ns *Namespace) Fix(x any, opts ...Option) (*Array, error) {
	return ns.cat.Fix.Call(x, newOptions(opts).elementwise())
}

// Round rounds x to the number of decimals set with Decimals, half to
// even. Negative decimals round to the left of the decimal point.
func (ns *Namespace) Round(x any, opts ...Option) (*Array, error) {
	o := newOptions(opts)
	return ns.cat.Round.Call(x, o.decimals, o.elementwise("decimals"))
}

// Around is an alias of Round.
func (ns *Namespace) Around(x any, opts ...Option) (*Array, error) {
	return ns.Round(x, opts...)
}

// Real returns the real part of complex x and x itself otherwise.
func (ns *Namespace) Real(x any, opts ...Option) (*Array, error) {
	return ns.cat.Real.Call(x, newOptions(opts).elementwise())
}

// Imag returns the imaginary part of x.
//
// Accepted options: Out, Order.
func (ns *Namespace) Imag(x any, opts ...Option) (*Array, error) {
	return ns.restricted(ns.cat.Imag, x, opts)
}

// I0 computes the modified Bessel function of the first kind, order zero.
//
// Accepted options: Out, Order.
func (ns *Namespace) I0(x any, opts ...Option) (*Array, error) {
	return ns.restricted(ns.cat.I0, x, opts)
}

// Sinc computes sin(pi*x)/(pi*x) elementwise, with sinc(0) = 1.
//
// Accepted options: Out, Order.
func (ns *Namespace) Sinc(x any, opts ...Option) (*Array, error) {
	return ns.restricted(ns.cat.Sinc, x, opts)
}

func (ns *Namespace) restricted(f *ufunc.Restricted, x any, opts []Option) (*Array, error) {
	o := newOptions(opts)
	if err := o.check(f.Name(), "out", "order"); err != nil {
		return nil, err
	}
	return f.Call(x, o.out, o.order)
}

// IsNegInf tests x for negative infinity elementwise. Complex input is
// rejected.
//
// Accepted options: Out.
func (ns *Namespace) IsNegInf(x any, opts ...Option) (*Array, error) {
	o := newOptions(opts)
	if err := o.check("isneginf", "out"); err != nil {
		return nil, err
	}
	return ns.cat.IsNegInf.Call(x, o.out)
}

// IsPosInf tests x for positive infinity elementwise. Complex input is
// rejected.
//
// Accepted options: Out.
func (ns *Namespace) IsPosInf(x any, opts ...Option) (*Array, error) {
	o := newOptions(opts)
	if err := o.check("isposinf", "out"); err != nil {
		return nil, err
	}
	return ns.cat.IsPosInf.Call(x, o.out)
}
