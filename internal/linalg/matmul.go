// Package linalg implements the matrix product of npx arrays on top of the
// GEMM kernels of the blas backend.
package linalg

import (
	"log/slog"

	"github.com/born-ml/npx/internal/backend/blas"
	"github.com/born-ml/npx/internal/device"
	"github.com/born-ml/npx/internal/dtype"
	"github.com/born-ml/npx/internal/errs"
	"github.com/born-ml/npx/internal/ndarray"
	"github.com/born-ml/npx/internal/parallel"
	"github.com/born-ml/npx/internal/ufunc"
)

// LinAlg stages matrix products on the execution queue of their operands.
type LinAlg struct {
	blas   *blas.Backend
	logger *slog.Logger
}

// New creates a LinAlg whose kernels split work according to par. A nil
// logger discards all records.
func New(par parallel.Config, logger *slog.Logger) *LinAlg {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &LinAlg{blas: blas.New(par), logger: logger}
}

// MatmulOptions are the keyword arguments of Matmul.
type MatmulOptions struct {
	Out     *ndarray.Array
	Casting string // default same_kind
	Order   string // default K
	DType   *dtype.DType
}

// Matmul returns the matrix product of x1 and x2 with NumPy semantics:
// 1-D operands are promoted to matrices and the inserted axis removed from
// the result, leading axes broadcast as a stack of matrices.
func (l *LinAlg) Matmul(x1, x2 *ndarray.Array, opts MatmulOptions) (*ndarray.Array, error) {
	if x1 == nil || x2 == nil {
		return nil, errs.Type("An array must be any of supported type, but got nil")
	}
	for i, x := range []*ndarray.Array{x1, x2} {
		if x.NDim() == 0 {
			return nil, errs.Value("input array %d does not have enough dimensions (has 0, but requires at least 1)", i)
		}
	}
	casting, err := dtype.ParseCasting(opts.Casting)
	if err != nil {
		return nil, errs.Value("%s", err.Error())
	}
	order, err := ndarray.ParseOrder(opts.Order)
	if err != nil {
		return nil, errs.Value("%s", err.Error())
	}
	q := device.ExecutionQueue(x1.Queue(), x2.Queue())
	if q == nil {
		return nil, errs.Placement("Execution placement can not be unambiguously inferred from input arguments.")
	}
	usm := device.CoerceUSMType(x1.USMType(), x2.USMType())

	// Drop axes inserted for 1-D operands at the end.
	var squeeze []int
	if x1.NDim() == 1 {
		if x1, err = ndarray.ExpandDims(x1, 0); err != nil {
			return nil, errs.Wrap(err, "matmul")
		}
		squeeze = append(squeeze, -2)
	}
	if x2.NDim() == 1 {
		if x2, err = ndarray.ExpandDims(x2, 1); err != nil {
			return nil, errs.Wrap(err, "matmul")
		}
		squeeze = append(squeeze, -1)
	}

	s1, s2 := x1.Shape(), x2.Shape()
	if s1[len(s1)-1] != s2[len(s2)-2] {
		return nil, errs.Value("Input arrays have a mismatch in their core dimensions. "+
			"The core dimensions should follow this signature: (n?,k),(k,m?)->(n?,m?) "+
			"(size %d is different from %d)", s1[len(s1)-1], s2[len(s2)-2])
	}

	gemmDT, resDT, err := gemmResultType(x1.DType(), x2.DType(), opts.DType, casting, q.Device())
	if err != nil {
		return nil, err
	}

	is2D1, is2D2 := inherently2D(s1), inherently2D(s2)
	ndim := max(x1.NDim(), x2.NDim())
	var resShape ndarray.Shape
	if is2D1 && is2D2 {
		if x1, err = matrix(x1); err != nil {
			return nil, err
		}
		if x2, err = matrix(x2); err != nil {
			return nil, err
		}
		resShape = ndarray.Shape{x1.Shape()[0], x2.Shape()[1]}
	} else {
		if x1, x2, resShape, err = alignBatch(x1, x2, is2D1, is2D2); err != nil {
			return nil, err
		}
	}

	res, err := ndarray.Empty(resShape, gemmDT, q, usm, ndarray.OrderC)
	if err != nil {
		return nil, errs.Wrap(err, "matmul")
	}
	switch {
	case res.Size() == 0:
	case x1.Size() == 0 || x2.Size() == 0:
		l.logger.Debug("matmul of an empty operand, filling with zeros", "shape", []int(resShape))
		ndarray.Fill(res, ndarray.IntScalar(0))
	default:
		if err := l.gemm(q, x1, x2, res, gemmDT, is2D1, is2D2); err != nil {
			return nil, err
		}
	}

	if is2D1 && is2D2 {
		for res.NDim() < ndim {
			if res, err = ndarray.ExpandDims(res, 0); err != nil {
				return nil, errs.Wrap(err, "matmul")
			}
		}
	}
	if len(squeeze) > 0 {
		axes := make([]int, len(squeeze))
		for i, a := range squeeze {
			axes[i] = res.NDim() + a
		}
		if res, err = ndarray.Squeeze(res, axes...); err != nil {
			return nil, errs.Wrap(err, "matmul")
		}
	}

	if gemmDT != resDT {
		if res, err = ndarray.AsType(res, resDT, ndarray.OrderK, false); err != nil {
			return nil, errs.Wrap(err, "matmul")
		}
	}
	if opts.Out != nil {
		return ufunc.ResultArray(res, opts.Out, casting)
	}
	if order != ndarray.OrderK {
		if res, err = ndarray.AsType(res, res.DType(), order, false); err != nil {
			return nil, errs.Wrap(err, "matmul")
		}
	}
	return res, nil
}

// gemmResultType returns the type the product is computed in and the type
// of the result. Exact results are computed in the default floating type of
// the device.
func gemmResultType(dt1, dt2 dtype.DType, requested *dtype.DType, casting dtype.Casting,
	dev *device.Device,
) (gemm, res dtype.DType, err error) {
	res = dtype.MapToDevice(dtype.ResultType(dt1, dt2), dev)
	if requested != nil {
		if !dtype.CanCast(res, *requested, casting) {
			return 0, 0, errs.Type("Cannot cast ufunc 'matmul' output from dtype(%s) to dtype(%s) with casting rule %s",
				res, *requested, casting)
		}
		res = *requested
	}
	switch {
	case res == dtype.Float16:
		gemm = dtype.Float32
	case res.IsInexact():
		gemm = res
	default:
		gemm = dtype.DefaultFloat(dev)
	}
	return gemm, res, nil
}

// matrix drops the leading axes of a stack holding a single matrix.
func matrix(x *ndarray.Array) (*ndarray.Array, error) {
	if x.NDim() == 2 {
		return x, nil
	}
	axes := make([]int, x.NDim()-2)
	for i := range axes {
		axes[i] = i
	}
	res, err := ndarray.Squeeze(x, axes...)
	if err != nil {
		return nil, errs.Wrap(err, "matmul")
	}
	return res, nil
}

// inherently2D reports whether a stack of matrices holds a single matrix.
func inherently2D(shape ndarray.Shape) bool {
	return len(shape) == 2 || shape[:len(shape)-2].NumElements() == 1
}

// alignBatch brings both operands to the same rank and batch shape. A
// batch axis of size 1 is repeated to the other operand's size unless the
// operand holds a single matrix, which GEMM reuses for every batch.
func alignBatch(x1, x2 *ndarray.Array, is2D1, is2D2 bool) (*ndarray.Array, *ndarray.Array, ndarray.Shape, error) {
	var err error
	for x1.NDim() < x2.NDim() {
		if x1, err = ndarray.ExpandDims(x1, 0); err != nil {
			return nil, nil, nil, errs.Wrap(err, "matmul")
		}
	}
	for x2.NDim() < x1.NDim() {
		if x2, err = ndarray.ExpandDims(x2, 0); err != nil {
			return nil, nil, nil, errs.Wrap(err, "matmul")
		}
	}

	s1, s2 := x1.Shape(), x2.Shape()
	nd := len(s1)
	batch := s1[:nd-2].Clone()
	t1, t2 := s1.Clone(), s2.Clone()
	for i := range nd - 2 {
		if s1[i] == s2[i] {
			continue
		}
		switch {
		case s1[i] == 1:
			batch[i] = s2[i]
			if !is2D1 {
				t1[i] = s2[i]
			}
		case s2[i] == 1:
			batch[i] = s1[i]
			if !is2D2 {
				t2[i] = s1[i]
			}
		default:
			return nil, nil, nil, errs.Value("arrays could not be broadcast together with remapped shapes.")
		}
	}
	if x1, err = repeat(x1, t1); err != nil {
		return nil, nil, nil, err
	}
	if x2, err = repeat(x2, t2); err != nil {
		return nil, nil, nil, err
	}
	shape := append(batch, s1[nd-2], s2[nd-1])
	return x1, x2, shape, nil
}

// repeat materializes x broadcast to shape.
func repeat(x *ndarray.Array, shape ndarray.Shape) (*ndarray.Array, error) {
	if x.Shape().Equal(shape) {
		return x, nil
	}
	view, err := ndarray.BroadcastTo(x, shape)
	if err != nil {
		return nil, errs.Value("%s", err.Error())
	}
	res, err := ndarray.Copy(view, ndarray.OrderC)
	if err != nil {
		return nil, errs.Wrap(err, "matmul")
	}
	return res, nil
}

// gemm submits res = x1 @ x2. Operands are first made contiguous in the
// compute type; stacks of matrices are viewed as 3-D batches.
func (l *LinAlg) gemm(q *device.Queue, x1, x2, res *ndarray.Array, dt dtype.DType, is2D1, is2D2 bool) error {
	var err error
	single := is2D1 && is2D2
	if x1, err = contiguous(x1, dt, single); err != nil {
		return err
	}
	if x2, err = contiguous(x2, dt, single); err != nil {
		return err
	}
	deps := append(q.Order().SubmittedEvents(), ndarray.Dependencies(q, x1, x2, res)...)

	if single {
		l.logger.Debug("gemm", "kernel", l.blas.Name(), "dtype", dt,
			"x1", []int(x1.Shape()), "x2", []int(x2.Shape()))
		pair, err := l.blas.Gemm(q, x1, x2, res, deps)
		if err != nil {
			return errs.Value("%s", err.Error())
		}
		q.Order().AddEventPair(pair)
		return nil
	}

	batch := res.Shape()[:res.NDim()-2].NumElements()
	a, strideA, err := asBatch(x1, is2D1)
	if err != nil {
		return err
	}
	b, strideB, err := asBatch(x2, is2D2)
	if err != nil {
		return err
	}
	c, strideC, err := asBatch(res, false)
	if err != nil {
		return err
	}
	l.logger.Debug("gemm_batch", "kernel", l.blas.Name(), "dtype", dt, "batch", batch,
		"strides", []int{strideA, strideB, strideC})
	pair, err := l.blas.GemmBatch(q, a, b, c, batch, strideA, strideB, strideC, deps)
	if err != nil {
		return errs.Value("%s", err.Error())
	}
	q.Order().AddEventPair(pair)
	return nil
}

// contiguous returns x in type dt with C-contiguous memory. A single matrix
// may also be F-contiguous.
func contiguous(x *ndarray.Array, dt dtype.DType, allowF bool) (*ndarray.Array, error) {
	ok := x.IsCContiguous() || (allowF && x.IsFContiguous())
	if ok && x.DType() == dt {
		return x, nil
	}
	res, err := ndarray.Empty(x.Shape(), dt, x.Queue(), x.USMType(), ndarray.OrderC)
	if err != nil {
		return nil, errs.Wrap(err, "matmul")
	}
	if _, err := ndarray.CopyInto(res, x); err != nil {
		return nil, errs.Value("%s", err.Error())
	}
	return res, nil
}

// asBatch views a C-contiguous stack of matrices as a 3-D array and returns
// the distance between consecutive matrices, 0 for a single matrix.
func asBatch(x *ndarray.Array, single bool) (*ndarray.Array, int, error) {
	s := x.Shape()
	nd := len(s)
	m, n := s[nd-2], s[nd-1]
	res, err := ndarray.Reshape(x, ndarray.Shape{s[:nd-2].NumElements(), m, n})
	if err != nil {
		return nil, 0, errs.Wrap(err, "matmul")
	}
	if single {
		return res, 0, nil
	}
	return res, m * n, nil
}
