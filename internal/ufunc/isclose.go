package ufunc

import (
	"github.com/born-ml/npx/internal/backend/cpu"
	"github.com/born-ml/npx/internal/dtype"
	"github.com/born-ml/npx/internal/errs"
	"github.com/born-ml/npx/internal/ndarray"
)

// CloseOptions are the tolerances of IsClose and AllClose. Rtol and Atol
// must be real scalars.
type CloseOptions struct {
	Rtol     any
	Atol     any
	EqualNaN bool
}

// DefaultCloseOptions returns rtol 1e-5, atol 1e-8 and NaNs never close.
func DefaultCloseOptions() CloseOptions {
	return CloseOptions{Rtol: 1e-5, Atol: 1e-8}
}

func tolerance(name string, v any) (float64, error) {
	w, ok := dtype.WeakTypeOf(v)
	if !ok || w == dtype.WeakComplex {
		return 0, errs.Type("An argument `%s` must be a scalar, but got %T", name, v)
	}
	s, _ := ndarray.ScalarOf(v)
	return s.Float(), nil
}

// IsClose tests elementwise whether a and b are equal within tolerances:
// |a - b| <= atol + rtol*|b|. One of a and b may be a scalar.
func IsClose(env *Env, a, b any, opts CloseOptions) (*ndarray.Array, error) {
	rtol, err := tolerance("rtol", opts.Rtol)
	if err != nil {
		return nil, err
	}
	atol, err := tolerance("atol", opts.Atol)
	if err != nil {
		return nil, err
	}

	o1, err := newOperand(a)
	if err != nil {
		return nil, err
	}
	o2, err := newOperand(b)
	if err != nil {
		return nil, err
	}
	switch {
	case o1.isScalar() && o2.isScalar():
		return nil, errs.Type("At least one of the input arrays must be any of supported type, but got two scalars")
	case o1.isScalar():
		if o1.arr, err = ndarray.Full(o2.arr.Shape(), o1.scalar, o2.arr.DType(), o2.arr.Queue(), o2.arr.USMType()); err != nil {
			return nil, errs.Wrap(err, "isclose")
		}
	case o2.isScalar():
		if o2.arr, err = ndarray.Full(o1.arr.Shape(), o2.scalar, o1.arr.DType(), o1.arr.Queue(), o1.arr.USMType()); err != nil {
			return nil, errs.Wrap(err, "isclose")
		}
	}

	f := NewBinary(env, cpu.NewIsClose(rtol, atol, opts.EqualNaN), nil)
	return f.call(operand{arr: o1.arr}, operand{arr: o2.arr}, nil, ndarray.OrderK)
}

// AllClose reports whether every pair of elements of a and b is close.
func AllClose(env *Env, a, b any, opts CloseOptions) (bool, error) {
	res, err := IsClose(env, a, b, opts)
	if err != nil {
		return false, err
	}
	all, err := NewReducer(env).All(res, ReduceOptions{})
	if err != nil {
		return false, err
	}
	v, err := all.Item()
	if err != nil {
		return false, err
	}
	return v.Bool(), nil
}
