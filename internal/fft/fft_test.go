package fft

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/npx/internal/device"
	"github.com/born-ml/npx/internal/dtype"
	"github.com/born-ml/npx/internal/errs"
	"github.com/born-ml/npx/internal/ndarray"
	"github.com/born-ml/npx/internal/parallel"
	"github.com/born-ml/npx/internal/ufunc"
)

func testQueue() *device.Queue {
	return device.NewQueue(device.New("test cpu", device.CPU, 0, true, true, false))
}

func testFFT() *FFT {
	cat := ufunc.NewCatalog(ufunc.NewEnv(parallel.Sequential(), false, nil))
	return New(cat.Divide, nil)
}

func fromSlice[T ndarray.Native](t *testing.T, q *device.Queue, data []T, shape ...int) *ndarray.Array {
	t.Helper()
	if shape == nil {
		shape = []int{len(data)}
	}
	a, err := ndarray.FromSlice(data, shape, q, device.USMDevice)
	require.NoError(t, err)
	return a
}

func opts(mod func(*Options)) Options {
	o := DefaultOptions()
	if mod != nil {
		mod(&o)
	}
	return o
}

func withN(n int) func(*Options) { return func(o *Options) { o.N = &n } }

func assertComplex(t *testing.T, want []complex128, a *ndarray.Array) {
	t.Helper()
	got, err := a.Complex128s()
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, real(want[i]), real(got[i]), 1e-9, "real part of element %d", i)
		assert.InDelta(t, imag(want[i]), imag(got[i]), 1e-9, "imaginary part of element %d", i)
	}
}

func assertFloats(t *testing.T, want []float64, a *ndarray.Array, delta float64) {
	t.Helper()
	got, err := a.Float64s()
	require.NoError(t, err)
	assert.InDeltaSlice(t, want, got, delta)
}

func TestFFT_Basic(t *testing.T) {
	f := testFFT()
	q := testQueue()
	x := fromSlice(t, q, []float64{1, 2, 3, 4})

	res, err := f.FFT(x, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, dtype.Complex128, res.DType())
	assertComplex(t, []complex128{10, -2 + 2i, -2, -2 - 2i}, res)

	back, err := f.IFFT(res, DefaultOptions())
	require.NoError(t, err)
	assertComplex(t, []complex128{1, 2, 3, 4}, back)
}

func TestFFT_Float32StaysSingle(t *testing.T) {
	f := testFFT()
	x := fromSlice(t, testQueue(), []float32{1, 0, 0, 0})

	res, err := f.FFT(x, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, dtype.Complex64, res.DType())

	r, err := f.RFFT(x, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, dtype.Complex64, r.DType())
	got, err := r.Complex128s()
	require.NoError(t, err)
	for i, v := range got {
		assert.InDelta(t, 1, real(v), 1e-6, "real part of element %d", i)
		assert.InDelta(t, 0, imag(v), 1e-6, "imaginary part of element %d", i)
	}
}

func TestFFT_TruncateAndPad(t *testing.T) {
	f := testFFT()
	q := testQueue()

	res, err := f.FFT(fromSlice(t, q, []float64{1, 2}), opts(withN(4)))
	require.NoError(t, err)
	assert.Equal(t, ndarray.Shape{4}, res.Shape())
	assertComplex(t, []complex128{3, 1 - 2i, -1, 1 + 2i}, res)

	res, err = f.FFT(fromSlice(t, q, []float64{1, 2, 3, 4}), opts(withN(2)))
	require.NoError(t, err)
	assertComplex(t, []complex128{3, -1}, res)
}

func TestFFT_Norm(t *testing.T) {
	f := testFFT()
	x := fromSlice(t, testQueue(), []float64{1, 1, 1, 1})

	tests := []struct {
		norm string
		want complex128
	}{
		{"", 4},
		{"backward", 4},
		{"ortho", 2},
		{"forward", 1},
	}
	for _, tt := range tests {
		t.Run("norm "+tt.norm, func(t *testing.T) {
			res, err := f.FFT(x, opts(func(o *Options) { o.Norm = tt.norm }))
			require.NoError(t, err)
			assertComplex(t, []complex128{tt.want, 0, 0, 0}, res)
		})
	}

	t.Run("inverse ortho round trip", func(t *testing.T) {
		ortho := opts(func(o *Options) { o.Norm = "ortho" })
		res, err := f.FFT(x, ortho)
		require.NoError(t, err)
		back, err := f.IFFT(res, ortho)
		require.NoError(t, err)
		assertComplex(t, []complex128{1, 1, 1, 1}, back)
	})
}

func TestRFFT_RoundTrip(t *testing.T) {
	f := testFFT()
	q := testQueue()
	x := fromSlice(t, q, []float64{1, 2, 3, 4})

	freq, err := f.RFFT(x, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, ndarray.Shape{3}, freq.Shape())
	assertComplex(t, []complex128{10, -2 + 2i, -2}, freq)

	back, err := f.IRFFT(freq, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, dtype.Float64, back.DType())
	assert.Equal(t, ndarray.Shape{4}, back.Shape())
	assertFloats(t, []float64{1, 2, 3, 4}, back, 1e-9)

	t.Run("odd length", func(t *testing.T) {
		y := fromSlice(t, q, []float64{1, 2, 3, 4, 5})
		freq, err := f.RFFT(y, DefaultOptions())
		require.NoError(t, err)
		back, err := f.IRFFT(freq, opts(withN(5)))
		require.NoError(t, err)
		assertFloats(t, []float64{1, 2, 3, 4, 5}, back, 1e-9)
	})

	t.Run("integer input", func(t *testing.T) {
		y := fromSlice(t, q, []int32{1, 2, 3, 4})
		freq, err := f.RFFT(y, DefaultOptions())
		require.NoError(t, err)
		assert.Equal(t, dtype.Complex128, freq.DType())
	})
}

func TestFFT_Batch(t *testing.T) {
	f := testFFT()
	q := testQueue()
	// Columns [1 2 3 4] and [1 1 1 1].
	x := fromSlice(t, q, []float64{1, 1, 2, 1, 3, 1, 4, 1}, 4, 2)

	res, err := f.FFT(x, opts(func(o *Options) { o.Axis = 0 }))
	require.NoError(t, err)
	assert.Equal(t, ndarray.Shape{4, 2}, res.Shape())
	assertComplex(t, []complex128{
		10, 4,
		-2 + 2i, 0,
		-2, 0,
		-2 - 2i, 0,
	}, res)

	rows, err := f.FFT(x, DefaultOptions())
	require.NoError(t, err)
	assertComplex(t, []complex128{2, 0, 3, 1, 4, 2, 5, 3}, rows)

	freq, err := f.RFFT(x, opts(func(o *Options) { o.Axis = 0 }))
	require.NoError(t, err)
	assert.Equal(t, ndarray.Shape{3, 2}, freq.Shape())
	back, err := f.IRFFT(freq, opts(func(o *Options) { o.Axis = 0 }))
	require.NoError(t, err)
	assert.Equal(t, ndarray.Shape{4, 2}, back.Shape())
	assertFloats(t, []float64{1, 1, 2, 1, 3, 1, 4, 1}, back, 1e-9)
}

func TestFFT_StridedInput(t *testing.T) {
	f := testFFT()
	x := fromSlice(t, testQueue(), []float64{4, 3, 2, 1})
	rev, err := ndarray.Flip(x, 0)
	require.NoError(t, err)

	res, err := f.FFT(rev, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, dtype.Complex128, res.DType())
	assertComplex(t, []complex128{10, -2 + 2i, -2, -2 - 2i}, res)

	single := fromSlice(t, testQueue(), []float32{4, 3, 2, 1})
	rev, err = ndarray.Flip(single, 0)
	require.NoError(t, err)
	res, err = f.FFT(rev, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, dtype.Complex64, res.DType())
}

func TestFFT_BroadcastInput(t *testing.T) {
	f := testFFT()
	x := fromSlice(t, testQueue(), []float64{1, 2, 3, 4})
	rows, err := ndarray.BroadcastTo(x, ndarray.Shape{3, 4})
	require.NoError(t, err)

	res, err := f.FFT(rows, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, ndarray.Shape{3, 4}, res.Shape())
	row := []complex128{10, -2 + 2i, -2, -2 - 2i}
	assertComplex(t, append(append(append([]complex128(nil), row...), row...), row...), res)

	spectrum, err := f.RFFT(rows, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, ndarray.Shape{3, 3}, spectrum.Shape())
}

func TestFFT_Out(t *testing.T) {
	f := testFFT()
	q := testQueue()
	x := fromSlice(t, q, []complex128{1, 2, 3, 4})

	out, err := ndarray.Empty(ndarray.Shape{4}, dtype.Complex128, q, device.USMDevice, ndarray.OrderC)
	require.NoError(t, err)
	res, err := f.FFT(x, opts(func(o *Options) { o.Out = out }))
	require.NoError(t, err)
	assert.Same(t, out, res)
	assertComplex(t, []complex128{10, -2 + 2i, -2, -2 - 2i}, out)

	t.Run("in place", func(t *testing.T) {
		y := fromSlice(t, q, []complex128{1, 1, 1, 1})
		res, err := f.IFFT(y, opts(func(o *Options) { o.Out = y }))
		require.NoError(t, err)
		assert.Same(t, y, res)
		assertComplex(t, []complex128{1, 0, 0, 0}, y)
	})

	t.Run("wrong shape", func(t *testing.T) {
		bad, err := ndarray.Empty(ndarray.Shape{3}, dtype.Complex128, q, device.USMDevice, ndarray.OrderC)
		require.NoError(t, err)
		_, err = f.FFT(x, opts(func(o *Options) { o.Out = bad }))
		require.ErrorIs(t, err, errs.ErrValue)
		assert.Contains(t, err.Error(), "output array has incorrect shape, expected [4], got [3].")
	})

	t.Run("real out for complex result", func(t *testing.T) {
		bad, err := ndarray.Empty(ndarray.Shape{4}, dtype.Float64, q, device.USMDevice, ndarray.OrderC)
		require.NoError(t, err)
		_, err = f.FFT(x, opts(func(o *Options) { o.Out = bad }))
		require.ErrorIs(t, err, errs.ErrType)
		assert.Contains(t, err.Error(), "output array should have complex data type.")
	})

	t.Run("complex out for real result", func(t *testing.T) {
		bad, err := ndarray.Empty(ndarray.Shape{6}, dtype.Complex128, q, device.USMDevice, ndarray.OrderC)
		require.NoError(t, err)
		_, err = f.IRFFT(x, opts(func(o *Options) { o.Out = bad; o.N = &[]int{6}[0] }))
		require.ErrorIs(t, err, errs.ErrType)
		assert.Contains(t, err.Error(), "output array should have real floating data type.")
	})

	t.Run("other queue", func(t *testing.T) {
		other, err := ndarray.Empty(ndarray.Shape{4}, dtype.Complex128, testQueue(), device.USMDevice, ndarray.OrderC)
		require.NoError(t, err)
		_, err = f.FFT(x, opts(func(o *Options) { o.Out = other }))
		require.ErrorIs(t, err, errs.ErrPlacement)
	})
}

func TestFFT_Errors(t *testing.T) {
	f := testFFT()
	q := testQueue()
	x := fromSlice(t, q, []float64{1, 2, 3, 4})

	s, err := ndarray.Full(ndarray.Shape{}, ndarray.FloatScalar(1), dtype.Float64, q, device.USMDevice)
	require.NoError(t, err)
	_, err = f.FFT(s, DefaultOptions())
	require.ErrorIs(t, err, errs.ErrValue)
	assert.Contains(t, err.Error(), "Input array must be at least 1D")

	c := fromSlice(t, q, []complex128{1, 2})
	_, err = f.RFFT(c, DefaultOptions())
	require.ErrorIs(t, err, errs.ErrType)
	assert.Contains(t, err.Error(), "Input array must be real")

	_, err = f.FFT(x, opts(withN(0)))
	require.ErrorIs(t, err, errs.ErrValue)
	assert.Contains(t, err.Error(), "Invalid number of FFT data points (0) specified")

	one := fromSlice(t, q, []complex128{1})
	_, err = f.IRFFT(one, DefaultOptions())
	require.ErrorIs(t, err, errs.ErrValue)

	_, err = f.FFT(x, opts(func(o *Options) { o.Norm = "sideways" }))
	require.ErrorIs(t, err, errs.ErrValue)
	assert.Contains(t, err.Error(), `Invalid norm value sideways; should be None, "ortho", "forward", or "backward".`)

	_, err = f.FFT(x, opts(func(o *Options) { o.Axis = 1 }))
	require.ErrorIs(t, err, errs.ErrValue)
}

func TestFFT_Empty(t *testing.T) {
	f := testFFT()
	q := testQueue()
	x, err := ndarray.Empty(ndarray.Shape{0, 4}, dtype.Float64, q, device.USMDevice, ndarray.OrderC)
	require.NoError(t, err)

	res, err := f.FFT(x, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, ndarray.Shape{0, 4}, res.Shape())
	assert.Equal(t, dtype.Complex128, res.DType())
}

func TestFFTFreq(t *testing.T) {
	q := testQueue()

	res, err := FFTFreq(8, 0.1, q, device.USMDevice)
	require.NoError(t, err)
	assert.Equal(t, dtype.Float64, res.DType())
	assertFloats(t, []float64{0, 1.25, 2.5, 3.75, -5, -3.75, -2.5, -1.25}, res, 1e-12)

	res, err = FFTFreq(5, 1, q, device.USMDevice)
	require.NoError(t, err)
	assertFloats(t, []float64{0, 0.2, 0.4, -0.4, -0.2}, res, 1e-12)

	res, err = RFFTFreq(8, 0.1, q, device.USMDevice)
	require.NoError(t, err)
	assertFloats(t, []float64{0, 1.25, 2.5, 3.75, 5}, res, 1e-12)

	_, err = FFTFreq(0, 1, q, device.USMDevice)
	require.ErrorIs(t, err, errs.ErrValue)

	noFP64 := device.NewQueue(device.New("fp32 cpu", device.CPU, 0, false, false, false))
	res, err = RFFTFreq(4, 1, noFP64, device.USMDevice)
	require.NoError(t, err)
	assert.Equal(t, dtype.Float32, res.DType())
}

func TestFFTShift(t *testing.T) {
	q := testQueue()

	freqs := fromSlice(t, q, []float64{0, 1, 2, 3, 4, -5, -4, -3, -2, -1})
	res, err := FFTShift(freqs, nil)
	require.NoError(t, err)
	assertFloats(t, []float64{-5, -4, -3, -2, -1, 0, 1, 2, 3, 4}, res, 0)

	odd := fromSlice(t, q, []float64{0, 1, 2, -2, -1})
	shifted, err := FFTShift(odd, nil)
	require.NoError(t, err)
	assertFloats(t, []float64{-2, -1, 0, 1, 2}, shifted, 0)
	back, err := IFFTShift(shifted, nil)
	require.NoError(t, err)
	assertFloats(t, []float64{0, 1, 2, -2, -1}, back, 0)

	m := fromSlice(t, q, []float64{0, 1, 2, 3, 4, 5}, 2, 3)
	rows, err := FFTShift(m, []int{-1})
	require.NoError(t, err)
	assertFloats(t, []float64{2, 0, 1, 5, 3, 4}, rows, 0)

	_, err = FFTShift(m, []int{2})
	require.ErrorIs(t, err, errs.ErrValue)
}

func TestFFT_ParsevalProperty(t *testing.T) {
	f := testFFT()
	vals := []float64{0.5, -1.25, 3, 2, -0.75, 1.5, 0, 4}
	x := fromSlice(t, testQueue(), vals)

	res, err := f.FFT(x, opts(func(o *Options) { o.Norm = "ortho" }))
	require.NoError(t, err)
	freq, err := res.Complex128s()
	require.NoError(t, err)

	var e1, e2 float64
	for i := range vals {
		e1 += vals[i] * vals[i]
		e2 += real(freq[i])*real(freq[i]) + imag(freq[i])*imag(freq[i])
	}
	assert.InDelta(t, e1, e2, 1e-9*math.Max(1, e1))
}
