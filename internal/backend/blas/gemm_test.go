package blas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/blas"

	"github.com/born-ml/npx/internal/device"
	"github.com/born-ml/npx/internal/dtype"
	"github.com/born-ml/npx/internal/ndarray"
	"github.com/born-ml/npx/internal/parallel"
)

func testQueue() *device.Queue {
	return device.NewQueue(device.Devices()[0])
}

func fromSlice[T ndarray.Native](t *testing.T, q *device.Queue, data []T, shape ...int) *ndarray.Array {
	t.Helper()
	a, err := ndarray.FromSlice(data, ndarray.Shape(shape), q, device.USMDevice)
	require.NoError(t, err)
	return a
}

func zeros(t *testing.T, q *device.Queue, dt dtype.DType, shape ...int) *ndarray.Array {
	t.Helper()
	a, err := ndarray.Zeros(ndarray.Shape(shape), dt, q, device.USMDevice, ndarray.OrderC)
	require.NoError(t, err)
	return a
}

func TestGemm(t *testing.T) {
	b := New(parallel.DefaultConfig())
	assert.Equal(t, "BLAS", b.Name())
	q := testQueue()

	t.Run("2x3@3x2", func(t *testing.T) {
		x := fromSlice(t, q, []float32{1, 2, 3, 4, 5, 6}, 2, 3)
		y := fromSlice(t, q, []float32{7, 8, 9, 10, 11, 12}, 3, 2)
		res := zeros(t, q, dtype.Float32, 2, 2)
		require.NoError(t, q.Wait())

		pair, err := b.Gemm(q, x, y, res, nil)
		require.NoError(t, err)
		require.NoError(t, pair.Wait())
		got, err := res.Float64s()
		require.NoError(t, err)
		assert.Equal(t, []float64{58, 64, 139, 154}, got)
	})

	t.Run("Transposed", func(t *testing.T) {
		x := fromSlice(t, q, []float64{1, 4, 2, 5, 3, 6}, 3, 2)
		xt, err := ndarray.Transpose(x)
		require.NoError(t, err)
		y := fromSlice(t, q, []float64{7, 8, 9, 10, 11, 12}, 3, 2)
		res := zeros(t, q, dtype.Float64, 2, 2)
		require.NoError(t, q.Wait())

		pair, err := b.Gemm(q, xt, y, res, nil)
		require.NoError(t, err)
		require.NoError(t, pair.Wait())
		got, err := res.Float64s()
		require.NoError(t, err)
		assert.Equal(t, []float64{58, 64, 139, 154}, got)
	})

	t.Run("Complex", func(t *testing.T) {
		x := fromSlice(t, q, []complex128{1i}, 1, 1)
		y := fromSlice(t, q, []complex128{1i}, 1, 1)
		res := zeros(t, q, dtype.Complex128, 1, 1)
		require.NoError(t, q.Wait())
		pair, err := b.Gemm(q, x, y, res, nil)
		require.NoError(t, err)
		require.NoError(t, pair.Wait())
		got, err := res.Complex128s()
		require.NoError(t, err)
		assert.Equal(t, []complex128{-1}, got)
	})

	t.Run("Errors", func(t *testing.T) {
		x := fromSlice(t, q, []float32{1, 2}, 1, 2)
		y := fromSlice(t, q, []float32{1, 2}, 1, 2)
		res := zeros(t, q, dtype.Float32, 1, 2)
		_, err := b.Gemm(q, x, y, res, nil)
		assert.Error(t, err)

		i := fromSlice(t, q, []int32{1}, 1, 1)
		_, err = b.Gemm(q, i, i, i, nil)
		assert.Error(t, err)

		v := fromSlice(t, q, []float32{1}, 1)
		_, err = b.Gemm(q, v, v, v, nil)
		assert.Error(t, err)
	})
}

func TestGemmBatch(t *testing.T) {
	b := New(parallel.Sequential())
	q := testQueue()

	// two 2x2 matrices times one shared 2x2 matrix
	x := fromSlice(t, q, []float64{1, 0, 0, 1, 2, 0, 0, 2}, 2, 2, 2)
	y := fromSlice(t, q, []float64{1, 2, 3, 4}, 1, 2, 2)
	res := zeros(t, q, dtype.Float64, 2, 2, 2)
	require.NoError(t, q.Wait())

	pair, err := b.GemmBatch(q, x, y, res, 2, 4, 0, 4, nil)
	require.NoError(t, err)
	require.NoError(t, pair.Wait())
	got, err := res.Float64s()
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 4, 2, 4, 6, 8}, got)
}

func TestMatrixLayout(t *testing.T) {
	tr, ld, ok := matrix(2, 3, layout{row: 3, col: 1})
	assert.True(t, ok)
	assert.Equal(t, blas.NoTrans, tr)
	assert.Equal(t, 3, ld)

	tr, ld, ok = matrix(2, 3, layout{row: 1, col: 2})
	assert.True(t, ok)
	assert.Equal(t, blas.Trans, tr)
	assert.Equal(t, 2, ld)

	// a single row ignores its row stride
	tr, ld, ok = matrix(1, 4, layout{row: 0, col: 1})
	assert.True(t, ok)
	assert.Equal(t, blas.NoTrans, tr)
	assert.Equal(t, 4, ld)

	_, _, ok = matrix(2, 2, layout{row: 4, col: 2})
	assert.False(t, ok)
	_, _, ok = matrix(2, 2, layout{row: -2, col: 1})
	assert.False(t, ok)
}

func TestGemm_StridedFallback(t *testing.T) {
	b := New(parallel.Sequential())
	q := testQueue()

	// every other row and column of a 4x4 array
	base := fromSlice(t, q, []float64{
		1, 0, 2, 0,
		0, 0, 0, 0,
		3, 0, 4, 0,
		0, 0, 0, 0,
	}, 4, 4)
	rows, err := ndarray.Slice(base, 0, 0, 4, 2)
	require.NoError(t, err)
	x, err := ndarray.Slice(rows, 1, 0, 4, 2)
	require.NoError(t, err)
	y := fromSlice(t, q, []float64{1, 1, 0, 1}, 2, 2)
	res := zeros(t, q, dtype.Float64, 2, 2)
	require.NoError(t, q.Wait())

	pair, err := b.Gemm(q, x, y, res, nil)
	require.NoError(t, err)
	require.NoError(t, pair.Wait())
	got, err := res.Float64s()
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 3, 3, 7}, got)
}

func TestGemmBatch_Complex64(t *testing.T) {
	b := New(parallel.DefaultConfig())
	q := testQueue()

	x := fromSlice(t, q, []complex64{1i, 0, 0, 1i, 2, 0, 0, 2}, 2, 2, 2)
	y := fromSlice(t, q, []complex64{1, 2, 3, 4, 1i, 0, 0, 1i}, 2, 2, 2)
	res := zeros(t, q, dtype.Complex64, 2, 2, 2)
	require.NoError(t, q.Wait())

	pair, err := b.GemmBatch(q, x, y, res, 2, 4, 4, 4, nil)
	require.NoError(t, err)
	require.NoError(t, pair.Wait())
	got, err := res.Complex128s()
	require.NoError(t, err)
	assert.Equal(t, []complex128{1i, 2i, 3i, 4i, 2i, 0, 0, 2i}, got)
}
