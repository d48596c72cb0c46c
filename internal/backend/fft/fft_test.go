package fft

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/npx/internal/device"
	"github.com/born-ml/npx/internal/dtype"
	"github.com/born-ml/npx/internal/ndarray"
)

func testQueue() *device.Queue {
	return device.NewQueue(device.Devices()[0])
}

func naiveDFT(x []complex128, inverse bool) []complex128 {
	n := len(x)
	sign := -1.0
	if inverse {
		sign = 1
	}
	res := make([]complex128, n)
	for k := range n {
		for j := range n {
			angle := sign * 2 * math.Pi * float64(j*k) / float64(n)
			res[k] += x[j] * cmplx.Exp(complex(0, angle))
		}
	}
	return res
}

func assertComplexNear(t *testing.T, want, got []complex128, tol float64) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, real(want[i]), real(got[i]), tol, "real part at %d", i)
		assert.InDelta(t, imag(want[i]), imag(got[i]), tol, "imag part at %d", i)
	}
}

func TestDescriptor_MatchesNaiveDFT(t *testing.T) {
	q := testQueue()
	for _, n := range []int{1, 2, 3, 5, 8, 12, 16, 17} {
		x := make([]complex128, n)
		for i := range x {
			x[i] = complex(math.Sin(float64(i)+0.5), math.Cos(float64(3*i)))
		}
		in, err := ndarray.FromSlice(x, ndarray.Shape{n}, q, device.USMDevice)
		require.NoError(t, err)

		d := NewComplex128(n)
		require.NoError(t, d.Commit(q))
		for _, forward := range []bool{true, false} {
			out, err := ndarray.Empty(ndarray.Shape{n}, dtype.Complex128, q, device.USMDevice, ndarray.OrderC)
			require.NoError(t, err)
			require.NoError(t, q.Wait())

			pair, err := d.ComputeOutOfPlace(in, out, forward, nil)
			require.NoError(t, err)
			require.NoError(t, pair.Wait())
			got, err := out.Complex128s()
			require.NoError(t, err)
			assertComplexNear(t, naiveDFT(x, !forward), got, 1e-9)
		}
	}
}

func TestDescriptor_RealLengths(t *testing.T) {
	q := testQueue()
	for _, n := range []int{1, 2, 5, 7, 8, 10} {
		x := make([]float64, n)
		full := make([]complex128, n)
		for i := range x {
			x[i] = math.Cos(float64(2*i)) + float64(i)
			full[i] = complex(x[i], 0)
		}
		half := n/2 + 1
		in, err := ndarray.FromSlice(x, ndarray.Shape{n}, q, device.USMDevice)
		require.NoError(t, err)
		freq, err := ndarray.Zeros(ndarray.Shape{n}, dtype.Complex128, q, device.USMDevice, ndarray.OrderC)
		require.NoError(t, err)
		back, err := ndarray.Empty(ndarray.Shape{n}, dtype.Float64, q, device.USMDevice, ndarray.OrderC)
		require.NoError(t, err)
		require.NoError(t, q.Wait())

		d := NewReal64(n)
		require.NoError(t, d.Commit(q))
		pair, err := d.ComputeOutOfPlace(in, freq, true, nil)
		require.NoError(t, err)
		require.NoError(t, pair.Wait())
		got, err := freq.Complex128s()
		require.NoError(t, err)
		assertComplexNear(t, naiveDFT(full, false)[:half], got[:half], 1e-9)

		pair, err = d.ComputeOutOfPlace(freq, back, false, nil)
		require.NoError(t, err)
		require.NoError(t, pair.Wait())
		res, err := back.Float64s()
		require.NoError(t, err)
		for i := range x {
			assert.InDelta(t, x[i], res[i]/float64(n), 1e-9, "n=%d element %d", n, i)
		}
	}
}

func TestDescriptor_SinglePrecisionStrided(t *testing.T) {
	q := testQueue()
	// column 1 of a 4x2 array holds the transform
	a, err := ndarray.FromSlice([]complex64{9, 1, 9, 2, 9, 3, 9, 4}, ndarray.Shape{4, 2}, q, device.USMDevice)
	require.NoError(t, err)
	col, err := ndarray.Slice(a, 1, 1, 2, 1)
	require.NoError(t, err)
	require.NoError(t, q.Wait())

	d := NewComplex64(4)
	d.Strides = [2]int{0, 2}
	d.InPlace = true
	require.NoError(t, d.Commit(q))
	pair, err := d.ComputeInPlace(col, true, nil)
	require.NoError(t, err)
	require.NoError(t, pair.Wait())

	got, err := a.Complex128s()
	require.NoError(t, err)
	assertComplexNear(t, []complex128{9, 10, 9, -2 + 2i, 9, -2, 9, -2 - 2i}, got, 1e-5)
}

func TestDescriptor_Commit(t *testing.T) {
	q := testQueue()

	d := NewComplex64(0)
	assert.ErrorIs(t, d.Commit(q), ErrInvalidLength)

	d = NewReal64(8)
	d.InPlace = true
	assert.ErrorIs(t, d.Commit(q), ErrInPlaceUnsupported)

	d = NewComplex128(8)
	d.Strides = [2]int{0, 0}
	assert.ErrorIs(t, d.Commit(q), ErrInvalidLayout)

	d = NewComplex128(4)
	assert.Equal(t, 4, d.Length())
	assert.Equal(t, Complex, d.Domain())
	assert.Equal(t, Double, d.Precision())
	assert.Contains(t, d.String(), "c2c")

	x, err := ndarray.FromSlice([]complex128{1, 0, 0, 0}, ndarray.Shape{4}, q, device.USMDevice)
	require.NoError(t, err)
	_, err = d.ComputeOutOfPlace(x, x, true, nil)
	assert.ErrorIs(t, err, ErrNotCommitted)
}

func TestDescriptor_ComplexOutOfPlace(t *testing.T) {
	q := testQueue()
	in, err := ndarray.FromSlice([]complex128{1, 2, 3, 4, 5}, ndarray.Shape{5}, q, device.USMDevice)
	require.NoError(t, err)
	out, err := ndarray.Empty(ndarray.Shape{5}, dtype.Complex128, q, device.USMDevice, ndarray.OrderC)
	require.NoError(t, err)
	require.NoError(t, q.Wait())

	d := NewComplex128(5)
	require.NoError(t, d.Commit(q))
	pair, err := d.ComputeOutOfPlace(in, out, true, nil)
	require.NoError(t, err)
	require.NoError(t, pair.Wait())

	got, err := out.Complex128s()
	require.NoError(t, err)
	assertComplexNear(t, naiveDFT([]complex128{1, 2, 3, 4, 5}, false), got, 1e-9)

	_, err = d.ComputeOutOfPlace(out, in, true, nil)
	require.NoError(t, err)
	_, err = d.ComputeInPlace(in, true, nil)
	assert.ErrorIs(t, err, ErrInvalidLayout)
}

func TestDescriptor_InPlaceBatch(t *testing.T) {
	q := testQueue()
	// two transforms of length 4 stored as rows of a 2x4 array
	a, err := ndarray.FromSlice([]complex64{1, 0, 0, 0, 1, 1, 1, 1}, ndarray.Shape{2, 4}, q, device.USMDevice)
	require.NoError(t, err)
	require.NoError(t, q.Wait())

	d := NewComplex64(4)
	d.Strides = [2]int{0, 1}
	d.Distance = 4
	d.Count = 2
	d.InPlace = true
	require.NoError(t, d.Commit(q))

	pair, err := d.ComputeInPlace(a, true, nil)
	require.NoError(t, err)
	require.NoError(t, pair.Wait())
	got, err := a.Complex128s()
	require.NoError(t, err)
	assertComplexNear(t, []complex128{1, 1, 1, 1, 4, 0, 0, 0}, got, 1e-6)
}

func TestDescriptor_RealRoundTrip(t *testing.T) {
	q := testQueue()
	x := []float64{1, -2, 3.5, 0, 7, 2}
	in, err := ndarray.FromSlice(x, ndarray.Shape{6}, q, device.USMDevice)
	require.NoError(t, err)
	freq, err := ndarray.Empty(ndarray.Shape{4}, dtype.Complex128, q, device.USMDevice, ndarray.OrderC)
	require.NoError(t, err)
	require.NoError(t, q.Wait())

	fwd := NewReal64(6)
	require.NoError(t, fwd.Commit(q))
	pair, err := fwd.ComputeOutOfPlace(in, freq, true, nil)
	require.NoError(t, err)
	require.NoError(t, pair.Wait())

	full := make([]complex128, len(x))
	for i, v := range x {
		full[i] = complex(v, 0)
	}
	want := naiveDFT(full, false)[:4]
	got, err := freq.Complex128s()
	require.NoError(t, err)
	assertComplexNear(t, want, got, 1e-9)

	// backward transform reads the first n/2+1 values of an n-long line
	padded, err := ndarray.Zeros(ndarray.Shape{6}, dtype.Complex128, q, device.USMDevice, ndarray.OrderC)
	require.NoError(t, err)
	head, err := ndarray.Slice(padded, 0, 0, 4, 1)
	require.NoError(t, err)
	_, err = ndarray.CopyInto(head, freq)
	require.NoError(t, err)
	back, err := ndarray.Empty(ndarray.Shape{6}, dtype.Float64, q, device.USMDevice, ndarray.OrderC)
	require.NoError(t, err)
	require.NoError(t, q.Wait())

	bwd := NewReal64(6)
	require.NoError(t, bwd.Commit(q))
	pair, err = bwd.ComputeOutOfPlace(padded, back, false, nil)
	require.NoError(t, err)
	require.NoError(t, pair.Wait())

	res, err := back.Float64s()
	require.NoError(t, err)
	for i := range x {
		assert.InDelta(t, x[i], res[i]/6, 1e-9)
	}

	_, err = bwd.ComputeOutOfPlace(in, back, false, nil)
	assert.ErrorIs(t, err, ErrDTypeMismatch)
}
