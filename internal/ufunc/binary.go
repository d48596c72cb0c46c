package ufunc

import (
	"github.com/born-ml/npx/internal/backend/cpu"
	"github.com/born-ml/npx/internal/backend/vm"
	"github.com/born-ml/npx/internal/device"
	"github.com/born-ml/npx/internal/dtype"
	"github.com/born-ml/npx/internal/errs"
	"github.com/born-ml/npx/internal/ndarray"
)

// BinaryFunc is an elementwise function of two arguments.
type BinaryFunc struct {
	env    *Env
	kernel *cpu.BinaryKernel
	vendor *vm.Binary
	accept BinaryAcceptance
	weak   WeakResolver
}

// BinaryOption customizes a binary function object.
type BinaryOption func(*BinaryFunc)

// WithAcceptance sets the acceptance hook of the function.
func WithAcceptance(fn BinaryAcceptance) BinaryOption {
	return func(f *BinaryFunc) { f.accept = fn }
}

// WithWeakResolver replaces the generic weak type resolution.
func WithWeakResolver(fn WeakResolver) BinaryOption {
	return func(f *BinaryFunc) { f.weak = fn }
}

// NewBinary creates a binary function object. vendor may be nil.
func NewBinary(env *Env, kernel *cpu.BinaryKernel, vendor *vm.Binary, opts ...BinaryOption) *BinaryFunc {
	f := &BinaryFunc{env: env, kernel: kernel, vendor: vendor, weak: dtype.ResolveWeakTypes}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Name returns the function name.
func (f *BinaryFunc) Name() string { return f.kernel.Name() }

// Types returns the signatures the generic kernel implements.
func (f *BinaryFunc) Types() []cpu.BinarySignature { return f.kernel.Signatures() }

// HasInplace reports whether the function updates its first argument with
// a dedicated in-place kernel.
func (f *BinaryFunc) HasInplace() bool { return f.kernel.HasInplace() }

// ResultType returns the type of the result for operands of the given
// argument types on a device.
func (f *BinaryFunc) ResultType(o1, o2 dtype.ArgType, caps dtype.Capabilities) (dtype.DType, error) {
	dt1, dt2, err := f.weak(o1, o2, caps)
	if err != nil {
		return 0, errs.Type("%s", err.Error())
	}
	r, err := findBufDType2(f.Name(), dt1, dt2, f.kernel.ResultType, caps, f.accept)
	if err != nil {
		return 0, err
	}
	return r.Result, nil
}

// Call evaluates the function on x1 and x2. Each argument is an array or a
// host scalar. When x1 is the output array, order is K and no dtype is
// requested, x1 is updated in place and returned.
func (f *BinaryFunc) Call(x1, x2 any, opts Options) (*ndarray.Array, error) {
	o1, err := newOperand(x1)
	if err != nil {
		return nil, err
	}
	o2, err := newOperand(x2)
	if err != nil {
		return nil, err
	}
	if o1.isScalar() && o2.isScalar() {
		return nil, errs.Type("At least one of the input arrays must be any of supported type, but got two scalars")
	}
	if err := opts.check(f.Name()); err != nil {
		return nil, err
	}
	if opts.DType != nil && opts.Out != nil {
		return nil, errs.Type("Requested function=%s only takes `out` or `dtype` as an argument, "+
			"but both were provided.", f.Name())
	}

	if !o1.isScalar() && o1.arr == opts.Out && (opts.Order == "" || opts.Order == "K" || opts.Order == "k") && opts.DType == nil {
		if err := f.inplace(o1.arr, o2); err != nil {
			return nil, err
		}
		return o1.arr, nil
	}

	order, err := parseOrder(opts.Order)
	if err != nil {
		return nil, err
	}

	if opts.DType != nil {
		dt := *opts.DType
		if o1, err = castOperand(o1, o2, dt); err != nil {
			return nil, errs.Wrap(err, f.Name())
		}
		if o2, err = castOperand(o2, o1, dt); err != nil {
			return nil, errs.Wrap(err, f.Name())
		}
	}
	return f.call(o1, o2, opts.Out, order)
}

// castOperand casts o to dt. Scalars become arrays on the queue of other.
func castOperand(o, other operand, dt dtype.DType) (operand, error) {
	if o.isScalar() {
		arr, err := ndarray.Full(ndarray.Shape{}, o.scalar, dt, other.arr.Queue(), other.arr.USMType())
		if err != nil {
			return operand{}, err
		}
		return operand{arr: arr}, nil
	}
	arr, err := ndarray.AsType(o.arr, dt, ndarray.OrderK, false)
	if err != nil {
		return operand{}, err
	}
	return operand{arr: arr}, nil
}

// Outer applies the function to all pairs of elements of x1 and x2. The
// result has shape x1.shape + x2.shape. Scalars are passed through.
func (f *BinaryFunc) Outer(x1, x2 any, opts Options) (*ndarray.Array, error) {
	o1, err := newOperand(x1)
	if err != nil {
		return nil, err
	}
	o2, err := newOperand(x2)
	if err != nil {
		return nil, err
	}
	if o1.isScalar() && o2.isScalar() {
		return nil, errs.Type("At least one of the input arrays must be any of supported type, but got two scalars")
	}
	if o1.isScalar() || o2.isScalar() {
		return f.Call(x1, x2, opts)
	}

	n1, n2 := o1.arr.NDim(), o2.arr.NDim()
	tail := make([]int, n2)
	for i := range tail {
		tail[i] = n1 + i
	}
	head := make([]int, n1)
	for i := range head {
		head[i] = i
	}
	a1, err := ndarray.ExpandDims(o1.arr, tail...)
	if err != nil {
		return nil, errs.Wrap(err, f.Name())
	}
	a2, err := ndarray.ExpandDims(o2.arr, head...)
	if err != nil {
		return nil, errs.Wrap(err, f.Name())
	}
	return f.Call(a1, a2, opts)
}

func (f *BinaryFunc) call(o1, o2 operand, out *ndarray.Array, order ndarray.Order) (*ndarray.Array, error) {
	q := device.ExecutionQueue(o1.queue(), o2.queue())
	if q == nil {
		return nil, errs.Placement("Execution placement can not be unambiguously inferred from input arguments.")
	}
	dev := q.Device()
	usm := coerceUSM(o1, o2)

	dt1, dt2, err := f.weak(o1.argType(), o2.argType(), dev)
	if err != nil {
		return nil, errs.Type("%s", err.Error())
	}

	shape, err := ndarray.BroadcastShapes(o1.shape(), o2.shape())
	if err != nil {
		return nil, errs.Value("operands could not be broadcast together with shapes %v %v",
			[]int(o1.shape()), []int(o2.shape()))
	}

	res, err := findBufDType2(f.Name(), dt1, dt2, f.kernel.ResultType, dev, f.accept)
	if err != nil {
		return nil, err
	}

	orig := out
	if out != nil {
		if !out.Shape().Equal(shape) {
			return nil, errs.Value("The shape of input and output arrays are inconsistent. "+
				"Expected output shape is %v, got %v", []int(shape), []int(out.Shape()))
		}
		if out.DType() != res.Result {
			return nil, errs.Value("Output array of type %s is needed, got %s", res.Result, out.DType())
		}
		if device.ExecutionQueue(q, out.Queue()) == nil {
			return nil, errs.Placement("Input and output allocation queues are not compatible")
		}
		if (overlapsOut(o1, out) && res.Buf1 == nil) || (overlapsOut(o2, out) && res.Buf2 == nil) {
			f.env.Logger.Debug("output overlaps input, computing into a temporary", "func", f.Name())
			if out, err = ndarray.EmptyLike(out, res.Result, ndarray.OrderK); err != nil {
				return nil, errs.Wrap(err, f.Name())
			}
		}
	}

	a1, err := o1.materialize(dt1, q, usm)
	if err != nil {
		return nil, errs.Wrap(err, f.Name())
	}
	a2, err := o2.materialize(dt2, q, usm)
	if err != nil {
		return nil, errs.Wrap(err, f.Name())
	}

	if order == ndarray.OrderA {
		order = ndarray.OrderC
		if a1.IsFContiguous() && a2.IsFContiguous() {
			order = ndarray.OrderF
		}
	}

	if a1, err = f.stage(a1, res.Buf1, order); err != nil {
		return nil, err
	}
	if a2, err = f.stage(a2, res.Buf2, order); err != nil {
		return nil, err
	}

	if out == nil {
		if out, err = emptyLikePair(a1, a2, shape, res.Result, q, usm, order); err != nil {
			return nil, errs.Wrap(err, f.Name())
		}
	}
	if a1, err = broadcast(a1, shape); err != nil {
		return nil, err
	}
	if a2, err = broadcast(a2, shape); err != nil {
		return nil, err
	}

	pair, err := f.dispatch(a1, a2, out, q, dependencies(q, a1, a2, out))
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

// stage casts a into a fresh buffer of type buf when buf is set.
func (f *BinaryFunc) stage(a *ndarray.Array, buf *dtype.DType, order ndarray.Order) (*ndarray.Array, error) {
	if buf == nil {
		return a, nil
	}
	f.env.Logger.Debug("casting input into a buffer", "func", f.Name(), "from", a.DType(), "to", *buf)
	res, err := ndarray.EmptyLike(a, *buf, order)
	if err != nil {
		return nil, errs.Wrap(err, f.Name())
	}
	if err := copyInto(res, a); err != nil {
		return nil, err
	}
	return res, nil
}

// inplace computes x1 = f(x1, x2).
func (f *BinaryFunc) inplace(x1 *ndarray.Array, o2 operand) error {
	if !f.kernel.HasInplace() {
		f.env.Logger.Debug("no in-place kernel, computing into the first argument", "func", f.Name())
		_, err := f.call(operand{arr: x1}, o2, x1, ndarray.OrderK)
		return err
	}

	q := device.ExecutionQueue(x1.Queue(), o2.queue())
	if q == nil {
		return errs.Placement("Execution placement can not be unambiguously inferred from input arguments.")
	}
	dev := q.Device()

	dt1, dt2, err := f.weak(dtype.Strong(x1.DType()), o2.argType(), dev)
	if err != nil {
		return errs.Type("%s", err.Error())
	}
	res, err := findBufDTypeInplace(f.Name(), dt1, dt2, f.kernel.ResultType, dev)
	if err != nil {
		return err
	}
	if res.Result != dt1 {
		return errs.Value("Output array of type %s is needed, got %s", res.Result, dt1)
	}

	shape, err := ndarray.BroadcastShapes(x1.Shape(), o2.shape())
	if err != nil || !shape.Equal(x1.Shape()) {
		return errs.Value("The shape of input and output arrays are inconsistent. "+
			"Expected output shape is %v, got %v", []int(x1.Shape()), []int(shape))
	}

	rhs := o2.arr
	if rhs != nil && ndarray.Overlap(x1, rhs) && !ndarray.SameLogicalTensors(x1, rhs) {
		if rhs, err = ndarray.Copy(rhs, ndarray.OrderK); err != nil {
			return errs.Wrap(err, f.Name())
		}
	}
	if rhs == nil {
		if rhs, err = o2.materialize(dt2, q, x1.USMType()); err != nil {
			return errs.Wrap(err, f.Name())
		}
	}
	if rhs, err = f.stage(rhs, res.Buf, ndarray.OrderK); err != nil {
		return err
	}
	if rhs, err = broadcast(rhs, x1.Shape()); err != nil {
		return err
	}

	f.env.Logger.Debug("dispatch in place", "func", f.Name(), "kernel", f.env.CPU.Name(), "dtype", dt1)
	submit(q, f.env.CPU.Inplace(f.kernel, rhs, x1, q, dependencies(q, rhs, x1)))
	return nil
}

// dispatch submits the vendor kernel when it is eligible for this call and
// the generic kernel otherwise.
func (f *BinaryFunc) dispatch(src1, src2, dst *ndarray.Array, q *device.Queue, deps []*device.Event) (device.EventPair, error) {
	if f.env.Vendor && f.vendor != nil && f.vendor.CanRun(q, src1, src2, dst) {
		f.env.Logger.Debug("dispatch", "func", f.Name(), "kernel", f.env.VM.Name(), "dtype", dst.DType())
		return f.env.VM.Run2(f.vendor, src1, src2, dst, q, deps)
	}
	f.env.Logger.Debug("dispatch", "func", f.Name(), "kernel", f.env.CPU.Name(), "dtype", dst.DType())
	return f.env.CPU.Binary(f.kernel, src1, src2, dst, q, deps), nil
}

func overlapsOut(o operand, out *ndarray.Array) bool {
	return !o.isScalar() && ndarray.Overlap(o.arr, out) && !ndarray.SameLogicalTensors(o.arr, out)
}

func coerceUSM(ops ...operand) device.USMType {
	var types []device.USMType
	for _, o := range ops {
		if !o.isScalar() {
			types = append(types, o.arr.USMType())
		}
	}
	return device.CoerceUSMType(types...)
}

func broadcast(a *ndarray.Array, shape ndarray.Shape) (*ndarray.Array, error) {
	if a.Shape().Equal(shape) {
		return a, nil
	}
	res, err := ndarray.BroadcastTo(a, shape)
	if err != nil {
		return nil, errs.Value("%s", err.Error())
	}
	return res, nil
}

// emptyLikePair allocates the result of a binary call. Order K follows
// the operands: F when both are F-contiguous and not C-contiguous.
func emptyLikePair(a1, a2 *ndarray.Array, shape ndarray.Shape, dt dtype.DType, q *device.Queue,
	usm device.USMType, order ndarray.Order,
) (*ndarray.Array, error) {
	if order == ndarray.OrderK {
		order = ndarray.OrderC
		if a1.Shape().Equal(shape) && a2.Shape().Equal(shape) &&
			a1.IsFContiguous() && !a1.IsCContiguous() && a2.IsFContiguous() && !a2.IsCContiguous() {
			order = ndarray.OrderF
		}
	}
	return ndarray.Empty(shape, dt, q, usm, order)
}
