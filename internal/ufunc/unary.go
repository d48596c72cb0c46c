package ufunc

import (
	"github.com/born-ml/npx/internal/backend/cpu"
	"github.com/born-ml/npx/internal/backend/vm"
	"github.com/born-ml/npx/internal/device"
	"github.com/born-ml/npx/internal/dtype"
	"github.com/born-ml/npx/internal/errs"
	"github.com/born-ml/npx/internal/ndarray"
)

// UnaryFunc is an elementwise function of one argument.
type UnaryFunc struct {
	env    *Env
	kernel *cpu.UnaryKernel
	vendor *vm.Unary
	accept UnaryAcceptance
}

// NewUnary creates a unary function object. vendor and accept may be nil.
func NewUnary(env *Env, kernel *cpu.UnaryKernel, vendor *vm.Unary, accept UnaryAcceptance) *UnaryFunc {
	return &UnaryFunc{env: env, kernel: kernel, vendor: vendor, accept: accept}
}

// Name returns the function name.
func (f *UnaryFunc) Name() string { return f.kernel.Name() }

// Types returns the signatures the generic kernel implements.
func (f *UnaryFunc) Types() []cpu.UnarySignature { return f.kernel.Signatures() }

// ResultType returns the type of the result for an argument of type dt on
// a device, following the buffer type resolution of a call.
func (f *UnaryFunc) ResultType(dt dtype.DType, caps dtype.Capabilities) (dtype.DType, error) {
	r, err := findBufDType(f.Name(), dt, f.kernel.ResultType, caps, f.accept)
	if err != nil {
		return 0, err
	}
	return r.Result, nil
}

// Call evaluates the function on x.
func (f *UnaryFunc) Call(x any, opts Options) (*ndarray.Array, error) {
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
	order, err := parseOrder(opts.Order)
	if err != nil {
		return nil, err
	}
	if opts.DType != nil {
		arr, err = ndarray.AsType(arr, *opts.DType, ndarray.OrderK, false)
		if err != nil {
			return nil, errs.Wrap(err, f.Name())
		}
	}
	return f.call(arr, opts.Out, order)
}

func (f *UnaryFunc) call(x, out *ndarray.Array, order ndarray.Order) (*ndarray.Array, error) {
	q := x.Queue()
	dev := q.Device()

	res, err := findBufDType(f.Name(), x.DType(), f.kernel.ResultType, dev, f.accept)
	if err != nil {
		return nil, err
	}

	if order == ndarray.OrderA {
		order = ndarray.OrderC
		if x.IsFContiguous() {
			order = ndarray.OrderF
		}
	}

	orig := out
	if out != nil {
		if !out.Shape().Equal(x.Shape()) {
			return nil, errs.Value("The shape of input and output arrays are inconsistent. "+
				"Expected output shape is %v, got %v", []int(x.Shape()), []int(out.Shape()))
		}
		if out.DType() != res.Result {
			return nil, errs.Value("Output array of type %s is needed, got %s", res.Result, out.DType())
		}
		if device.ExecutionQueue(q, out.Queue()) == nil {
			return nil, errs.Placement("Input and output allocation queues are not compatible")
		}
		if res.Buf == nil && ndarray.Overlap(x, out) && !ndarray.SameLogicalTensors(x, out) {
			f.env.Logger.Debug("output overlaps input, computing into a temporary", "func", f.Name())
			if out, err = ndarray.EmptyLike(out, res.Result, ndarray.OrderK); err != nil {
				return nil, errs.Wrap(err, f.Name())
			}
		}
	}

	src := x
	if res.Buf != nil {
		f.env.Logger.Debug("casting input into a buffer", "func", f.Name(), "from", x.DType(), "to", *res.Buf)
		if src, err = ndarray.EmptyLike(x, *res.Buf, order); err != nil {
			return nil, errs.Wrap(err, f.Name())
		}
		if err := copyInto(src, x); err != nil {
			return nil, err
		}
	}
	if out == nil {
		if out, err = ndarray.EmptyLike(src, res.Result, order); err != nil {
			return nil, errs.Wrap(err, f.Name())
		}
	}

	pair, err := f.dispatch(src, out, q, dependencies(q, x, out))
	if err != nil {
		return nil, err
	}
	submit(q, pair)

	if orig != nil && orig != out {
		if err := copyInto(orig, out); err != nil {
			return nil, err
		}
		out = orig
	}
	return out, nil
}

// dispatch submits the vendor kernel when it is eligible for this call and
// the generic kernel otherwise.
func (f *UnaryFunc) dispatch(src, dst *ndarray.Array, q *device.Queue, deps []*device.Event) (device.EventPair, error) {
	if f.env.Vendor && f.vendor != nil && f.vendor.CanRun(q, src, dst) {
		f.env.Logger.Debug("dispatch", "func", f.Name(), "kernel", f.env.VM.Name(), "dtype", dst.DType())
		return f.env.VM.Run(f.vendor, src, dst, q, deps)
	}
	f.env.Logger.Debug("dispatch", "func", f.Name(), "kernel", f.env.CPU.Name(), "dtype", dst.DType())
	return f.env.CPU.Unary(f.kernel, src, dst, q, deps), nil
}
