// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package np

import (
	"github.com/born-ml/npx/internal/backend/cpu"
	"github.com/born-ml/npx/internal/dtype"
	"github.com/born-ml/npx/internal/errs"
	"github.com/born-ml/npx/internal/fft"
	"github.com/born-ml/npx/internal/linalg"
	"github.com/born-ml/npx/internal/ndarray"
	"github.com/born-ml/npx/internal/ufunc"
)

// Matmul computes the matrix product of x1 and x2 with NumPy's matmul
// rules: 1-D operands are promoted to matrices and back, batch axes
// broadcast.
//
// Accepted options: Out, Casting, Order, WithDType.
func (ns *Namespace) Matmul(x1, x2 *Array, opts ...Option) (*Array, error) {
	o := newOptions(opts)
	if err := o.check("matmul", "out", "casting", "order", "dtype"); err != nil {
		return nil, err
	}
	return ns.linalg.Matmul(x1, x2, linalg.MatmulOptions{
		Out:     o.out,
		Casting: o.casting,
		Order:   o.order,
		DType:   o.dtype,
	})
}

func (o *options) fft(name string) (fft.Options, error) {
	if err := o.check(name, "n", "axis", "norm", "out"); err != nil {
		return fft.Options{}, err
	}
	res := fft.DefaultOptions()
	res.N = o.n
	if o.axis != nil {
		res.Axis = *o.axis
	}
	res.Norm = o.norm
	res.Out = o.out
	return res, nil
}

// FFT computes the one-dimensional discrete Fourier transform of a.
//
// Accepted options: N, Axis, Norm, Out.
func (ns *Namespace) FFT(a *Array, opts ...Option) (*Array, error) {
	fo, err := newOptions(opts).fft("fft")
	if err != nil {
		return nil, err
	}
	return ns.fft.FFT(a, fo)
}

// IFFT computes the one-dimensional inverse discrete Fourier transform.
//
// Accepted options: N, Axis, Norm, Out.
func (ns *Namespace) IFFT(a *Array, opts ...Option) (*Array, error) {
	fo, err := newOptions(opts).fft("ifft")
	if err != nil {
		return nil, err
	}
	return ns.fft.IFFT(a, fo)
}

// RFFT computes the one-dimensional transform of real input.
//
// Accepted options: N, Axis, Norm, Out.
func (ns *Namespace) RFFT(a *Array, opts ...Option) (*Array, error) {
	fo, err := newOptions(opts).fft("rfft")
	if err != nil {
		return nil, err
	}
	return ns.fft.RFFT(a, fo)
}

// IRFFT computes the inverse of RFFT.
//
// Accepted options: N, Axis, Norm, Out.
func (ns *Namespace) IRFFT(a *Array, opts ...Option) (*Array, error) {
	fo, err := newOptions(opts).fft("irfft")
	if err != nil {
		return nil, err
	}
	return ns.fft.IRFFT(a, fo)
}

// FFTFreq returns the sample frequencies of a length n FFT.
//
// Accepted options: Spacing, Device, OnQueue, USM.
func (ns *Namespace) FFTFreq(n int, opts ...Option) (*Array, error) {
	o := newOptions(opts)
	if err := o.check("fftfreq", "d", "device", "queue", "usm_type"); err != nil {
		return nil, err
	}
	q, usm, err := ns.placement(o)
	if err != nil {
		return nil, err
	}
	return fft.FFTFreq(n, o.spacing, q, usm)
}

// RFFTFreq returns the sample frequencies of a length n RFFT.
//
// Accepted options: Spacing, Device, OnQueue, USM.
func (ns *Namespace) RFFTFreq(n int, opts ...Option) (*Array, error) {
	o := newOptions(opts)
	if err := o.check("rfftfreq", "d", "device", "queue", "usm_type"); err != nil {
		return nil, err
	}
	q, usm, err := ns.placement(o)
	if err != nil {
		return nil, err
	}
	return fft.RFFTFreq(n, o.spacing, q, usm)
}

// FFTShift moves the zero-frequency term to the center of the spectrum.
//
// Accepted options: Axes, Axis.
func (ns *Namespace) FFTShift(x *Array, opts ...Option) (*Array, error) {
	o := newOptions(opts)
	if err := o.check("fftshift", "axes", "axis"); err != nil {
		return nil, err
	}
	return fft.FFTShift(x, o.shiftAxes())
}

// IFFTShift undoes FFTShift.
//
// Accepted options: Axes, Axis.
func (ns *Namespace) IFFTShift(x *Array, opts ...Option) (*Array, error) {
	o := newOptions(opts)
	if err := o.check("ifftshift", "axes", "axis"); err != nil {
		return nil, err
	}
	return fft.IFFTShift(x, o.shiftAxes())
}

func (o *options) shiftAxes() []int {
	if o.axis != nil {
		return []int{*o.axis}
	}
	return o.axes
}

// Hamming returns the Hamming window of m points.
//
// Accepted options: Device, OnQueue, USM.
func (ns *Namespace) Hamming(m int, opts ...Option) (*Array, error) {
	return ns.window(cpu.Hamming, m, opts)
}

// Hanning returns the Hann window of m points.
//
// Accepted options: Device, OnQueue, USM.
func (ns *Namespace) Hanning(m int, opts ...Option) (*Array, error) {
	return ns.window(cpu.Hanning, m, opts)
}

// Blackman returns the Blackman window of m points.
//
// Accepted options: Device, OnQueue, USM.
func (ns *Namespace) Blackman(m int, opts ...Option) (*Array, error) {
	return ns.window(cpu.Blackman, m, opts)
}

func (ns *Namespace) window(w cpu.Window, m int, opts []Option) (*Array, error) {
	o := newOptions(opts)
	if err := o.check(w.String(), "device", "queue", "usm_type"); err != nil {
		return nil, err
	}
	q, usm, err := ns.placement(o)
	if err != nil {
		return nil, err
	}
	dt := dtype.DefaultFloat(q.Device())
	var res *Array
	switch {
	case m < 1:
		res, err = ndarray.Empty(Shape{0}, dt, q, usm, ndarray.OrderC)
	case m == 1:
		res, err = ndarray.Full(Shape{1}, ndarray.FloatScalar(1), dt, q, usm)
	default:
		res, err = ndarray.Empty(Shape{m}, dt, q, usm, ndarray.OrderC)
	}
	if err != nil {
		return nil, errs.Value("%s", err.Error())
	}
	if m <= 1 {
		return res, nil
	}
	pair, err := ns.env.CPU.WindowInto(w, res, q, q.Order().SubmittedEvents())
	if err != nil {
		return nil, errs.Value("%s", err.Error())
	}
	q.Order().AddEventPair(pair)
	return res, nil
}

func (o *options) reduce(name string) (ufunc.ReduceOptions, error) {
	if err := o.check(name, "axis", "axes", "keepdims", "dtype", "out"); err != nil {
		return ufunc.ReduceOptions{}, err
	}
	res := ufunc.ReduceOptions{Axis: o.axes, KeepDims: o.keepDims, DType: o.dtype, Out: o.out}
	if o.axis != nil {
		res.Axis = []int{*o.axis}
	}
	return res, nil
}

// Sum adds the elements of x over Axis or Axes, or over all axes.
//
// Accepted options: Axis, Axes, KeepDims, WithDType, Out.
func (ns *Namespace) Sum(x *Array, opts ...Option) (*Array, error) {
	ro, err := newOptions(opts).reduce("sum")
	if err != nil {
		return nil, err
	}
	return ns.reducer.Sum(x, ro)
}

// All tests whether every element of x over the reduced axes is true.
//
// Accepted options: Axis, Axes, KeepDims, Out.
func (ns *Namespace) All(x *Array, opts ...Option) (*Array, error) {
	ro, err := newOptions(opts).reduce("all")
	if err != nil {
		return nil, err
	}
	return ns.reducer.All(x, ro)
}

// Any tests whether some element of x over the reduced axes is true.
//
// Accepted options: Axis, Axes, KeepDims, Out.
func (ns *Namespace) Any(x *Array, opts ...Option) (*Array, error) {
	ro, err := newOptions(opts).reduce("any")
	if err != nil {
		return nil, err
	}
	return ns.reducer.Any(x, ro)
}

func (o *options) close(name string) (ufunc.CloseOptions, error) {
	if err := o.check(name, "rtol", "atol", "equal_nan"); err != nil {
		return ufunc.CloseOptions{}, err
	}
	res := ufunc.DefaultCloseOptions()
	if o.rtol != nil {
		res.Rtol = o.rtol
	}
	if o.atol != nil {
		res.Atol = o.atol
	}
	res.EqualNaN = o.equalNaN
	return res, nil
}

// IsClose tests elementwise whether a and b are equal within
// |a - b| <= atol + rtol*|b|.
//
// Accepted options: Rtol, Atol, EqualNaN.
func (ns *Namespace) IsClose(a, b any, opts ...Option) (*Array, error) {
	co, err := newOptions(opts).close("isclose")
	if err != nil {
		return nil, err
	}
	return ufunc.IsClose(ns.env, a, b, co)
}

// AllClose reports whether IsClose holds for every element.
//
// Accepted options: Rtol, Atol, EqualNaN.
func (ns *Namespace) AllClose(a, b any, opts ...Option) (bool, error) {
	co, err := newOptions(opts).close("allclose")
	if err != nil {
		return false, err
	}
	return ufunc.AllClose(ns.env, a, b, co)
}
