package ufunc

import (
	"slices"

	"github.com/born-ml/npx/internal/backend/cpu"
	"github.com/born-ml/npx/internal/device"
	"github.com/born-ml/npx/internal/dtype"
	"github.com/born-ml/npx/internal/errs"
	"github.com/born-ml/npx/internal/ndarray"
)

// ResultArray delivers res into out. With no out, or when out is res, res
// is returned. Otherwise out must have the shape of res and res must be
// castable to its type under casting.
func ResultArray(res, out *ndarray.Array, casting dtype.Casting) (*ndarray.Array, error) {
	if out == nil || out == res {
		return res, nil
	}
	if !out.Shape().Equal(res.Shape()) {
		return nil, errs.Value("Output array of shape %v is needed, got %v.", []int(res.Shape()), []int(out.Shape()))
	}
	if !dtype.CanCast(res.DType(), out.DType(), casting) {
		return nil, errs.Type("Cannot cast from %s to %s according to the rule %s.", res.DType(), out.DType(), casting)
	}
	if ndarray.SameLogicalTensors(res, out) {
		return out, nil
	}
	if err := copyInto(out, res); err != nil {
		return nil, err
	}
	return out, nil
}

// ReduceOptions are the arguments of a reduction.
type ReduceOptions struct {
	Axis     []int // nil reduces over all axes
	KeepDims bool
	DType    *dtype.DType
	Out      *ndarray.Array
}

// Reducer evaluates sum, all and any.
type Reducer struct {
	env *Env
}

// NewReducer creates a reducer over env.
func NewReducer(env *Env) *Reducer { return &Reducer{env: env} }

// Sum adds the elements of x over the requested axes.
func (r *Reducer) Sum(x *ndarray.Array, opts ReduceOptions) (*ndarray.Array, error) {
	dt := cpu.SumType(x.DType(), x.Device())
	if opts.DType != nil {
		dt = *opts.DType
	}
	return r.reduce(cpu.ReduceSum, x, dt, opts)
}

// All tests whether all elements over the requested axes are true.
func (r *Reducer) All(x *ndarray.Array, opts ReduceOptions) (*ndarray.Array, error) {
	return r.reduce(cpu.ReduceAll, x, dtype.Bool, opts)
}

// Any tests whether any element over the requested axes is true.
func (r *Reducer) Any(x *ndarray.Array, opts ReduceOptions) (*ndarray.Array, error) {
	return r.reduce(cpu.ReduceAny, x, dtype.Bool, opts)
}

func (r *Reducer) reduce(kind cpu.Reduction, x *ndarray.Array, resDT dtype.DType, opts ReduceOptions) (*ndarray.Array, error) {
	if x == nil {
		return nil, errs.Type("An array must be any of supported type, but got nil")
	}
	axes, err := normalizeAxes(opts.Axis, x.NDim())
	if err != nil {
		return nil, err
	}
	q := x.Queue()
	if opts.Out != nil && device.ExecutionQueue(q, opts.Out.Queue()) == nil {
		return nil, errs.Placement("Input and output allocation queues are not compatible")
	}

	shape := cpu.ReducedShape(x.Shape(), axes, false)
	res, err := ndarray.Empty(shape, resDT, q, x.USMType(), ndarray.OrderC)
	if err != nil {
		return nil, errs.Wrap(err, kind.String())
	}
	r.env.Logger.Debug("reduce", "func", kind.String(), "axes", axes, "dtype", resDT)
	pair, err := r.env.CPU.Reduce(kind, x, res, axes, q, dependencies(q, x, res))
	if err != nil {
		return nil, errs.Value("%s", err.Error())
	}
	submit(q, pair)

	if opts.KeepDims {
		if res, err = ndarray.Reshape(res, cpu.ReducedShape(x.Shape(), axes, true)); err != nil {
			return nil, errs.Wrap(err, kind.String())
		}
	}
	return ResultArray(res, opts.Out, dtype.CastUnsafe)
}

func normalizeAxes(axis []int, ndim int) ([]int, error) {
	if axis == nil {
		res := make([]int, ndim)
		for i := range res {
			res[i] = i
		}
		return res, nil
	}
	res := make([]int, 0, len(axis))
	for _, a := range axis {
		n, err := ndarray.NormalizeAxis(a, ndim)
		if err != nil {
			return nil, errs.Value("%s", err.Error())
		}
		if slices.Contains(res, n) {
			return nil, errs.Value("repeated axis")
		}
		res = append(res, n)
	}
	slices.Sort(res)
	return res, nil
}
