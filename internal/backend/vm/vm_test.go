package vm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/npx/internal/device"
	"github.com/born-ml/npx/internal/dtype"
	"github.com/born-ml/npx/internal/ndarray"
	"github.com/born-ml/npx/internal/parallel"
)

func vendorQueue() *device.Queue {
	return device.NewQueue(device.New("test cpu", device.CPU, 0, true, true, true))
}

func plainQueue() *device.Queue {
	return device.NewQueue(device.New("test cpu", device.CPU, 0, true, true, false))
}

func fromSlice[T ndarray.Native](t *testing.T, q *device.Queue, data []T, shape ...int) *ndarray.Array {
	t.Helper()
	a, err := ndarray.FromSlice(data, ndarray.Shape(shape), q, device.USMDevice)
	require.NoError(t, err)
	return a
}

func TestUnary_CanRun(t *testing.T) {
	q := vendorQueue()
	src := fromSlice(t, q, []float32{1, 4, 9, 16}, 2, 2)
	dst, err := ndarray.EmptyLike(src, dtype.Float32, ndarray.OrderC)
	require.NoError(t, err)

	assert.True(t, Sqrt.CanRun(q, src, dst))

	t.Run("NoVendorLibrary", func(t *testing.T) {
		pq := plainQueue()
		s := fromSlice(t, pq, []float32{1}, 1)
		d, err := ndarray.EmptyLike(s, dtype.Float32, ndarray.OrderC)
		require.NoError(t, err)
		assert.False(t, Sqrt.CanRun(pq, s, d))
	})

	t.Run("DTypeMismatch", func(t *testing.T) {
		d64, err := ndarray.EmptyLike(src, dtype.Float64, ndarray.OrderC)
		require.NoError(t, err)
		assert.False(t, Sqrt.CanRun(q, src, d64))
	})

	t.Run("Integer", func(t *testing.T) {
		i := fromSlice(t, q, []int32{1, 2}, 2)
		d, err := ndarray.EmptyLike(i, dtype.Int32, ndarray.OrderC)
		require.NoError(t, err)
		assert.False(t, Sqrt.CanRun(q, i, d))
	})

	t.Run("NotContiguous", func(t *testing.T) {
		tr, err := ndarray.Transpose(src)
		require.NoError(t, err)
		assert.False(t, Sqrt.CanRun(q, tr, dst))
	})

	t.Run("Overlap", func(t *testing.T) {
		assert.False(t, Sqrt.CanRun(q, src, src))
	})

	t.Run("NoComplexVariant", func(t *testing.T) {
		c := fromSlice(t, q, []complex64{1}, 1)
		d, err := ndarray.EmptyLike(c, dtype.Complex64, ndarray.OrderC)
		require.NoError(t, err)
		assert.False(t, Cbrt.CanRun(q, c, d))
		assert.True(t, Exp.CanRun(q, c, d))
	})
}

func TestBackend_Run(t *testing.T) {
	b := New(parallel.Sequential())
	assert.Equal(t, "VM", b.Name())
	q := vendorQueue()

	src := fromSlice(t, q, []float64{1, 4, 9, 16}, 4)
	dst, err := ndarray.EmptyLike(src, dtype.Float64, ndarray.OrderC)
	require.NoError(t, err)
	pair, err := b.Run(Sqrt, src, dst, q, nil)
	require.NoError(t, err)
	require.NoError(t, pair.Wait())
	got, err := dst.Float64s()
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 4}, got)

	c := fromSlice(t, q, []complex64{1 + 2i, 3 - 1i}, 2)
	cd, err := ndarray.EmptyLike(c, dtype.Complex64, ndarray.OrderC)
	require.NoError(t, err)
	pair, err = b.Run(Conj, c, cd, q, nil)
	require.NoError(t, err)
	require.NoError(t, pair.Wait())
	cg, err := cd.Complex128s()
	require.NoError(t, err)
	assert.Equal(t, []complex128{1 - 2i, 3 + 1i}, cg)

	_, err = b.Run(Conj, src, dst, q, nil)
	assert.Error(t, err, "conj has no real vendor variant")
}

func TestBackend_Run2(t *testing.T) {
	b := New(parallel.DefaultConfig())
	q := vendorQueue()

	x := fromSlice(t, q, []float32{1, 2, 3}, 3)
	y := fromSlice(t, q, []float32{4, 5, 6}, 3)
	dst, err := ndarray.EmptyLike(x, dtype.Float32, ndarray.OrderC)
	require.NoError(t, err)
	require.True(t, Mul.CanRun(q, x, y, dst))

	pair, err := b.Run2(Mul, x, y, dst, q, nil)
	require.NoError(t, err)
	require.NoError(t, pair.Wait())
	got, err := dst.Float64s()
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 10, 18}, got)

	t.Run("Broadcast", func(t *testing.T) {
		s := fromSlice(t, q, []float32{2}, 1)
		assert.False(t, Mul.CanRun(q, x, s, dst))
	})

	assert.Equal(t, 1.0, fmax(math.NaN(), 1))
	assert.Equal(t, 1.0, fmin(1, math.NaN()))
}

func TestBackend_VectorKernelsWithTail(t *testing.T) {
	b := New(parallel.DefaultConfig())
	q := vendorQueue()

	// 19 elements leave a scalar tail for every vector width
	x32 := make([]float32, 19)
	x64 := make([]float64, 19)
	for i := range x32 {
		x32[i] = float32(i)/4 - 2
		x64[i] = float64(i)/4 - 2
	}

	for _, u := range []*Unary{Exp, Sin, Cos, Tanh, Abs} {
		t.Run(u.Name(), func(t *testing.T) {
			src := fromSlice(t, q, x64, 19)
			dst, err := ndarray.EmptyLike(src, dtype.Float64, ndarray.OrderC)
			require.NoError(t, err)
			require.True(t, u.CanRun(q, src, dst))
			pair, err := b.Run(u, src, dst, q, nil)
			require.NoError(t, err)
			require.NoError(t, pair.Wait())
			got, err := dst.Float64s()
			require.NoError(t, err)
			for i, v := range x64 {
				want := u.f(v)
				assert.InDelta(t, want, got[i], 1e-9*math.Max(1, math.Abs(want)), "element %d", i)
			}

			src32 := fromSlice(t, q, x32, 19)
			dst32, err := ndarray.EmptyLike(src32, dtype.Float32, ndarray.OrderC)
			require.NoError(t, err)
			pair, err = b.Run(u, src32, dst32, q, nil)
			require.NoError(t, err)
			require.NoError(t, pair.Wait())
			got, err = dst32.Float64s()
			require.NoError(t, err)
			for i, v := range x32 {
				want := u.f(float64(v))
				assert.InDelta(t, want, got[i], 1e-5*math.Max(1, math.Abs(want)), "element %d", i)
			}
		})
	}

	t.Run("log and sqrt", func(t *testing.T) {
		pos := make([]float64, 19)
		for i := range pos {
			pos[i] = float64(i) + 0.5
		}
		src := fromSlice(t, q, pos, 19)
		for _, u := range []*Unary{Log, Sqrt} {
			dst, err := ndarray.EmptyLike(src, dtype.Float64, ndarray.OrderC)
			require.NoError(t, err)
			pair, err := b.Run(u, src, dst, q, nil)
			require.NoError(t, err)
			require.NoError(t, pair.Wait())
			got, err := dst.Float64s()
			require.NoError(t, err)
			for i, v := range pos {
				want := u.f(v)
				assert.InDelta(t, want, got[i], 1e-9*math.Max(1, math.Abs(want)), "%s element %d", u.Name(), i)
			}
		}
	})

	t.Run("arithmetic", func(t *testing.T) {
		x := fromSlice(t, q, x64, 19)
		y := fromSlice(t, q, x64, 19)
		for _, k := range []*Binary{Add, Sub, Mul} {
			dst, err := ndarray.EmptyLike(x, dtype.Float64, ndarray.OrderC)
			require.NoError(t, err)
			pair, err := b.Run2(k, x, y, dst, q, nil)
			require.NoError(t, err)
			require.NoError(t, pair.Wait())
			got, err := dst.Float64s()
			require.NoError(t, err)
			for i, v := range x64 {
				assert.Equal(t, k.f(v, v), got[i], "%s element %d", k.Name(), i)
			}
		}
	})
}
