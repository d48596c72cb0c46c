// Package blas implements general matrix products over strided arrays of
// floating and complex element types. Operands whose matrices are row- or
// column-major with a leading dimension run on gonum's GEMM; other layouts
// use a strided loop.
package blas

import (
	"fmt"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/gonum"

	"github.com/born-ml/npx/internal/device"
	"github.com/born-ml/npx/internal/dtype"
	"github.com/born-ml/npx/internal/ndarray"
	"github.com/born-ml/npx/internal/parallel"
)

// Backend runs the matrix kernels on host goroutines.
type Backend struct {
	par parallel.Config
}

// New creates a backend splitting rows of the result according to par.
func New(par parallel.Config) *Backend {
	return &Backend{par: par}
}

// Name returns the backend name.
func (b *Backend) Name() string {
	return "BLAS"
}

type element interface {
	float32 | float64 | complex64 | complex128
}

// layout describes one operand of a batched product in elements.
type layout struct {
	offset int
	batch  int // stride between consecutive matrices
	row    int
	col    int
}

func layoutOf(a *ndarray.Array, batchStride int) layout {
	s := a.Strides()
	n := len(s)
	return layout{offset: a.Offset(), batch: batchStride, row: s[n-2], col: s[n-1]}
}

// Gemm submits c = a @ b for 2-D arrays of shapes (m, k), (k, n) and (m, n).
func (b *Backend) Gemm(q *device.Queue, x, y, res *ndarray.Array, deps []*device.Event) (device.EventPair, error) {
	if x.NDim() != 2 || y.NDim() != 2 || res.NDim() != 2 {
		return device.EventPair{}, fmt.Errorf("gemm: expected 2-D arrays, got %dD, %dD and %dD", x.NDim(), y.NDim(), res.NDim())
	}
	return b.gemm(q, x, y, res, 1, layoutOf(x, 0), layoutOf(y, 0), layoutOf(res, 0), deps)
}

// GemmBatch submits batch products of 3-D arrays. The matrices of batch i
// start strideA*i, strideB*i and strideC*i elements after the first ones;
// a zero stride reuses the same matrix for every batch.
func (b *Backend) GemmBatch(q *device.Queue, x, y, res *ndarray.Array, batch, strideA, strideB, strideC int,
	deps []*device.Event,
) (device.EventPair, error) {
	if x.NDim() != 3 || y.NDim() != 3 || res.NDim() != 3 {
		return device.EventPair{}, fmt.Errorf("gemm_batch: expected 3-D arrays, got %dD, %dD and %dD", x.NDim(), y.NDim(), res.NDim())
	}
	return b.gemm(q, x, y, res, batch, layoutOf(x, strideA), layoutOf(y, strideB), layoutOf(res, strideC), deps)
}

func (b *Backend) gemm(q *device.Queue, x, y, res *ndarray.Array, batch int, la, lb, lc layout,
	deps []*device.Event,
) (device.EventPair, error) {
	dt := res.DType()
	if x.DType() != dt || y.DType() != dt {
		return device.EventPair{}, fmt.Errorf("gemm: data types %s, %s and %s differ", x.DType(), y.DType(), dt)
	}
	xs, ys, rs := x.Shape(), y.Shape(), res.Shape()
	nd := len(rs)
	m, k, n := xs[nd-2], xs[nd-1], ys[nd-1]
	if ys[nd-2] != k || rs[nd-2] != m || rs[nd-1] != n {
		return device.EventPair{}, fmt.Errorf("gemm: shapes %v @ %v do not fit result %v", xs, ys, rs)
	}

	var impl gonum.Implementation
	var task func()
	switch dt {
	case dtype.Float32:
		task = func() { gemmTyped[float32](impl.Sgemm, x, y, res, batch, m, k, n, la, lb, lc, b.par) }
	case dtype.Float64:
		task = func() { gemmTyped[float64](impl.Dgemm, x, y, res, batch, m, k, n, la, lb, lc, b.par) }
	case dtype.Complex64:
		task = func() { gemmTyped[complex64](impl.Cgemm, x, y, res, batch, m, k, n, la, lb, lc, b.par) }
	case dtype.Complex128:
		task = func() { gemmTyped[complex128](impl.Zgemm, x, y, res, batch, m, k, n, la, lb, lc, b.par) }
	default:
		return device.EventPair{}, fmt.Errorf("gemm: unsupported data type %s", dt)
	}
	return q.Submit(deps, func() error {
		task()
		return nil
	}), nil
}

// gemmFunc is the signature shared by gonum's Sgemm, Dgemm, Cgemm and Zgemm.
type gemmFunc[T element] func(tA, tB blas.Transpose, m, n, k int, alpha T, a []T, lda int,
	b []T, ldb int, beta T, c []T, ldc int)

// gemmTyped runs every product of the batch through f when the layouts
// allow it and through gemmKernel otherwise.
func gemmTyped[T element](f gemmFunc[T], x, y, res *ndarray.Array, batch, m, k, n int, la, lb, lc layout,
	par parallel.Config,
) {
	tA, lda, okA := matrix(m, k, la)
	tB, ldb, okB := matrix(k, n, lb)
	tC, ldc, okC := matrix(m, n, lc)
	if !okA || !okB || !okC || tC != blas.NoTrans || m == 0 || n == 0 || k == 0 {
		gemmKernel[T](x, y, res, batch, m, k, n, la, lb, lc, par)
		return
	}
	a, bm, c := ndarray.View[T](x), ndarray.View[T](y), ndarray.View[T](res)
	parallel.For(batch, func(bi int) {
		f(tA, tB, m, n, k, 1,
			a[la.offset+bi*la.batch:], lda,
			bm[lb.offset+bi*lb.batch:], ldb,
			0, c[lc.offset+bi*lc.batch:], ldc)
	}, par)
}

// matrix maps a rows x cols operand to a BLAS transpose flag and leading
// dimension. ok is false when neither axis has unit stride.
func matrix(rows, cols int, l layout) (t blas.Transpose, ld int, ok bool) {
	switch {
	case (cols == 1 || l.col == 1) && (rows == 1 || l.row >= max(1, cols)):
		if rows == 1 {
			return blas.NoTrans, max(1, cols), true
		}
		return blas.NoTrans, l.row, true
	case (rows == 1 || l.row == 1) && (cols == 1 || l.col >= max(1, rows)):
		if cols == 1 {
			return blas.Trans, max(1, rows), true
		}
		return blas.Trans, l.col, true
	}
	return blas.NoTrans, 0, false
}

// gemmKernel computes C[b,i,j] = sum_k A[b,i,k] * B[b,k,j].
func gemmKernel[T element](x, y, res *ndarray.Array, batch, m, k, n int, la, lb, lc layout, par parallel.Config) {
	a, bm, c := ndarray.View[T](x), ndarray.View[T](y), ndarray.View[T](res)
	parallel.ForBatch(batch, m, func(bi, i int) {
		aRow := la.offset + bi*la.batch + i*la.row
		bBase := lb.offset + bi*lb.batch
		cRow := lc.offset + bi*lc.batch + i*lc.row
		for j := 0; j < n; j++ {
			var sum T
			bCol := bBase + j*lb.col
			for kIdx := 0; kIdx < k; kIdx++ {
				sum += a[aRow+kIdx*la.col] * bm[bCol+kIdx*lb.row]
			}
			c[cRow+j*lc.col] = sum
		}
	}, par)
}
