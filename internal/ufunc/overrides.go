package ufunc

import (
	"math"

	"github.com/born-ml/npx/internal/errs"
	"github.com/born-ml/npx/internal/ndarray"
)

// Angle computes the argument of complex values, in degrees when deg is set.
type Angle struct {
	*UnaryFunc
	multiply *BinaryFunc
}

// Call evaluates angle(x). With deg the result is scaled by 180/pi in place.
func (f *Angle) Call(x any, deg bool, opts Options) (*ndarray.Array, error) {
	res, err := f.UnaryFunc.Call(x, opts)
	if err != nil || !deg {
		return res, err
	}
	return f.multiply.Call(res, 180/math.Pi, Options{Out: res})
}

// Fix rounds to the nearest integer towards zero. Arrays of exact types are
// copied without running a kernel.
type Fix struct {
	*UnaryFunc
}

// Call evaluates fix(x).
func (f *Fix) Call(x any, opts Options) (*ndarray.Array, error) {
	arr, ok := x.(*ndarray.Array)
	if !ok || arr == nil || arr.DType().IsInexact() {
		return f.UnaryFunc.Call(x, opts)
	}
	if err := opts.check(f.Name()); err != nil {
		return nil, err
	}
	order, err := parseOrder(opts.Order)
	if err != nil {
		return nil, err
	}
	if opts.Out == nil {
		if opts.DType != nil {
			return ndarray.AsType(arr, *opts.DType, order, true)
		}
		return ndarray.Copy(arr, order)
	}
	if opts.Out.DType() != arr.DType() {
		return nil, errs.Value("Output array of type %s is needed, got %s", arr.DType(), opts.Out.DType())
	}
	if !opts.Out.Shape().Equal(arr.Shape()) {
		return nil, errs.Value("The shape of input and output arrays are inconsistent. "+
			"Expected output shape is %v, got %v", []int(arr.Shape()), []int(opts.Out.Shape()))
	}
	if err := copyInto(opts.Out, arr); err != nil {
		return nil, err
	}
	return opts.Out, nil
}

// Round rounds to the given number of decimals, half to even.
type Round struct {
	*UnaryFunc
	multiply *BinaryFunc
	divide   *BinaryFunc
}

// Call evaluates round(x, decimals). A nonzero decimals scales by 10^decimals,
// rounds and scales back. Integers are only affected by negative decimals.
func (f *Round) Call(x any, decimals int, opts Options) (*ndarray.Array, error) {
	if decimals == 0 {
		return f.UnaryFunc.Call(x, opts)
	}
	if err := opts.check(f.Name()); err != nil {
		return nil, err
	}
	arr, ok := x.(*ndarray.Array)
	if !ok || arr == nil {
		return nil, errs.Type("Input array must be any of supported type, but got %T", x)
	}
	if opts.DType != nil && opts.Out != nil {
		return nil, errs.Type("Requested function=%s only takes `out` or `dtype` as an argument, "+
			"but both were provided.", f.Name())
	}

	out := Options{Out: opts.Out, Order: opts.Order}
	dt := arr.DType()
	if dt.IsExact() && decimals > 0 {
		res, err := f.UnaryFunc.Call(arr, out)
		if err != nil || opts.DType == nil {
			return res, err
		}
		return ndarray.AsType(res, *opts.DType, ndarray.OrderK, false)
	}

	factor := math.Pow10(decimals)
	if dt.IsExact() {
		// The scaled values are floating; the result is cast back to the
		// integer type of x.
		res, err := f.scaled(arr, factor, Options{Order: opts.Order})
		if err != nil {
			return nil, err
		}
		if res, err = ndarray.AsType(res, dt, ndarray.OrderK, false); err != nil {
			return nil, errs.Wrap(err, f.Name())
		}
		if opts.Out == nil {
			return res, nil
		}
		if !opts.Out.Shape().Equal(res.Shape()) {
			return nil, errs.Value("The shape of input and output arrays are inconsistent. "+
				"Expected output shape is %v, got %v", []int(res.Shape()), []int(opts.Out.Shape()))
		}
		if err := copyInto(opts.Out, res); err != nil {
			return nil, err
		}
		return opts.Out, nil
	}

	res, err := f.scaled(arr, factor, out)
	if err != nil || opts.DType == nil {
		return res, err
	}
	return ndarray.AsType(res, *opts.DType, ndarray.OrderK, false)
}

// scaled computes round(x * factor) / factor, writing both steps into
// opts.Out when it is set.
func (f *Round) scaled(x *ndarray.Array, factor float64, opts Options) (*ndarray.Array, error) {
	y, err := f.multiply.Call(x, factor, Options{Order: opts.Order})
	if err != nil {
		return nil, err
	}
	if y, err = f.UnaryFunc.Call(y, opts); err != nil {
		return nil, err
	}
	return f.divide.Call(y, factor, Options{Out: opts.Out, Order: opts.Order})
}

// Real returns the real part of x. Arrays that are not complex are returned
// unchanged.
type Real struct {
	*UnaryFunc
}

// Call evaluates real(x).
func (f *Real) Call(x any, opts Options) (*ndarray.Array, error) {
	if arr, ok := x.(*ndarray.Array); ok && arr != nil && !arr.DType().IsComplex() {
		return arr, nil
	}
	return f.UnaryFunc.Call(x, opts)
}

// Restricted is a unary function that only supports the out and order
// options.
type Restricted struct {
	*UnaryFunc
}

// Call evaluates the function on x.
func (f *Restricted) Call(x any, out *ndarray.Array, order string) (*ndarray.Array, error) {
	return f.UnaryFunc.Call(x, Options{Out: out, Order: order})
}

// InfSign tests for infinities of one sign: isinf(x) AND signbit(x) for
// negative infinities, isinf(x) AND NOT signbit(x) for positive ones.
type InfSign struct {
	name       string
	negative   bool
	isinf      *UnaryFunc
	signbit    *UnaryFunc
	logicalNot *UnaryFunc
	logicalAnd *BinaryFunc
}

// Name returns the function name.
func (f *InfSign) Name() string { return f.name }

// Call evaluates the test on x.
func (f *InfSign) Call(x any, out *ndarray.Array) (*ndarray.Array, error) {
	arr, ok := x.(*ndarray.Array)
	if !ok || arr == nil {
		return nil, errs.Type("Input array must be any of supported type, but got %T", x)
	}
	if arr.DType().IsComplex() {
		return nil, errs.Type("This operation is not supported for %s values because it would be ambiguous.", arr.DType())
	}
	inf, err := f.isinf.Call(arr, Options{})
	if err != nil {
		return nil, errs.Wrap(err, f.name)
	}
	sign, err := f.signbit.Call(arr, Options{})
	if err != nil {
		return nil, errs.Wrap(err, f.name)
	}
	if !f.negative {
		if sign, err = f.logicalNot.Call(sign, Options{}); err != nil {
			return nil, errs.Wrap(err, f.name)
		}
	}
	return f.logicalAnd.Call(inf, sign, Options{Out: out})
}
