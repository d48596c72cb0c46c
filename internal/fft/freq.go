package fft

import (
	"github.com/born-ml/npx/internal/device"
	"github.com/born-ml/npx/internal/dtype"
	"github.com/born-ml/npx/internal/errs"
	"github.com/born-ml/npx/internal/ndarray"
)

// FFTFreq returns the sample frequencies of a length n transform with
// sample spacing d, in the order FFT produces them:
// [0, 1, ..., (n-1)/2, -(n/2), ..., -1] / (d*n).
func FFTFreq(n int, d float64, q *device.Queue, usm device.USMType) (*ndarray.Array, error) {
	if n < 1 {
		return nil, errs.Value("`n` should be a positive integer, got %d", n)
	}
	vals := make([]float64, n)
	scale := 1 / (d * float64(n))
	pos := (n-1)/2 + 1
	for i := range pos {
		vals[i] = float64(i) * scale
	}
	for i := pos; i < n; i++ {
		vals[i] = float64(i-n) * scale
	}
	return frequencies(vals, q, usm)
}

// RFFTFreq returns the n/2+1 non-negative sample frequencies of RFFT.
func RFFTFreq(n int, d float64, q *device.Queue, usm device.USMType) (*ndarray.Array, error) {
	if n < 1 {
		return nil, errs.Value("`n` should be a positive integer, got %d", n)
	}
	vals := make([]float64, n/2+1)
	scale := 1 / (d * float64(n))
	for i := range vals {
		vals[i] = float64(i) * scale
	}
	return frequencies(vals, q, usm)
}

func frequencies(vals []float64, q *device.Queue, usm device.USMType) (*ndarray.Array, error) {
	scalars := make([]ndarray.Scalar, len(vals))
	for i, v := range vals {
		scalars[i] = ndarray.FloatScalar(v)
	}
	res, err := ndarray.FromScalars(scalars, ndarray.Shape{len(vals)}, dtype.DefaultFloat(q.Device()), q, usm)
	if err != nil {
		return nil, errs.Wrap(err, "fftfreq")
	}
	return res, nil
}

// FFTShift moves the zero-frequency term to the center of each of axes.
// Nil axes shifts every axis.
func FFTShift(x *ndarray.Array, axes []int) (*ndarray.Array, error) {
	return shift(x, axes, false)
}

// IFFTShift undoes FFTShift.
func IFFTShift(x *ndarray.Array, axes []int) (*ndarray.Array, error) {
	return shift(x, axes, true)
}

func shift(x *ndarray.Array, axes []int, inverse bool) (*ndarray.Array, error) {
	if x == nil {
		return nil, errs.Type("An array must be any of supported type, but got nil")
	}
	if axes == nil {
		for i := range x.NDim() {
			axes = append(axes, i)
		}
	}
	res := x
	for _, ax := range axes {
		axis, err := ndarray.NormalizeAxis(ax, x.NDim())
		if err != nil {
			return nil, errs.Value("%s", err.Error())
		}
		n := x.Shape()[axis]
		k := n / 2
		if inverse {
			k = n - k
		}
		if res, err = roll(res, axis, k); err != nil {
			return nil, err
		}
	}
	if res == x {
		return ndarray.Copy(x, ndarray.OrderC)
	}
	return res, nil
}

// roll returns a copy of x with the elements along axis rotated by k
// positions towards the end.
func roll(x *ndarray.Array, axis, k int) (*ndarray.Array, error) {
	n := x.Shape()[axis]
	if n == 0 || k%n == 0 {
		return x, nil
	}
	k %= n
	res, err := ndarray.EmptyLike(x, x.DType(), ndarray.OrderC)
	if err != nil {
		return nil, errs.Wrap(err, "roll")
	}
	parts := [2][4]int{
		{k, n, 0, n - k}, // res[k:] = x[:n-k]
		{0, k, n - k, n}, // res[:k] = x[n-k:]
	}
	for _, p := range parts {
		dst, err := ndarray.Slice(res, axis, p[0], p[1], 1)
		if err != nil {
			return nil, errs.Wrap(err, "roll")
		}
		src, err := ndarray.Slice(x, axis, p[2], p[3], 1)
		if err != nil {
			return nil, errs.Wrap(err, "roll")
		}
		if _, err := ndarray.CopyInto(dst, src); err != nil {
			return nil, errs.Wrap(err, "roll")
		}
	}
	return res, nil
}
