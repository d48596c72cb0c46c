// Package cpu implements the generic elementwise kernels of every npx
// function over strided arrays of any supported data type, plus the window,
// scaling and reduction kernels used by the orchestration layer.
//
// Every entry point submits its work to a queue after the given dependency
// events and returns the completion pair of the submission. Registering the
// pair with the queue's order manager is the caller's job.
package cpu

import (
	"fmt"

	"github.com/born-ml/npx/internal/device"
	"github.com/born-ml/npx/internal/dtype"
	"github.com/born-ml/npx/internal/ndarray"
	"github.com/born-ml/npx/internal/parallel"
)

// CPUBackend runs the generic kernels on host goroutines.
type CPUBackend struct {
	par parallel.Config
}

// New creates a backend splitting element loops according to par.
func New(par parallel.Config) *CPUBackend {
	return &CPUBackend{par: par}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// UnaryOp evaluates one element. dt is the data type of the input buffer.
type UnaryOp func(x ndarray.Scalar, dt dtype.DType) ndarray.Scalar

// BinaryOp evaluates one pair of elements. dt is the data type of the first
// input buffer.
type BinaryOp func(x, y ndarray.Scalar, dt dtype.DType) ndarray.Scalar

// UnarySignature is one row of a unary function's type table.
type UnarySignature struct {
	In, Out dtype.DType
}

// BinarySignature is one row of a binary function's type table.
type BinarySignature struct {
	In1, In2, Out dtype.DType
}

// UnaryKernel is the generic implementation of a unary function.
type UnaryKernel struct {
	name  string
	types []UnarySignature
	op    UnaryOp
}

func newUnary(name string, types []UnarySignature, op UnaryOp) *UnaryKernel {
	return &UnaryKernel{name: name, types: types, op: op}
}

// Name returns the function name.
func (k *UnaryKernel) Name() string { return k.name }

// ResultType returns the output type for an input of type in, or false if
// the kernel has no implementation for it.
func (k *UnaryKernel) ResultType(in dtype.DType) (dtype.DType, bool) {
	for _, sig := range k.types {
		if sig.In == in {
			return sig.Out, true
		}
	}
	return 0, false
}

// Signatures returns the kernel's type table.
func (k *UnaryKernel) Signatures() []UnarySignature { return k.types }

// Eval applies the kernel to a single value of type dt.
func (k *UnaryKernel) Eval(x ndarray.Scalar, dt dtype.DType) ndarray.Scalar { return k.op(x, dt) }

// BinaryKernel is the generic implementation of a binary function.
type BinaryKernel struct {
	name    string
	types   []BinarySignature
	op      BinaryOp
	inplace bool
}

func newBinary(name string, types []BinarySignature, op BinaryOp) *BinaryKernel {
	return &BinaryKernel{name: name, types: types, op: op}
}

// withInplace marks the kernel as usable for dst = op(dst, src) updates.
func (k *BinaryKernel) withInplace() *BinaryKernel {
	k.inplace = true
	return k
}

// Name returns the function name.
func (k *BinaryKernel) Name() string { return k.name }

// ResultType returns the output type for inputs of types in1 and in2, or
// false if the kernel has no implementation for them.
func (k *BinaryKernel) ResultType(in1, in2 dtype.DType) (dtype.DType, bool) {
	for _, sig := range k.types {
		if sig.In1 == in1 && sig.In2 == in2 {
			return sig.Out, true
		}
	}
	return 0, false
}

// Signatures returns the kernel's type table.
func (k *BinaryKernel) Signatures() []BinarySignature { return k.types }

// HasInplace reports whether the kernel has an in-place variant.
func (k *BinaryKernel) HasInplace() bool { return k.inplace }

// Eval applies the kernel to a single pair of values of type dt.
func (k *BinaryKernel) Eval(x, y ndarray.Scalar, dt dtype.DType) ndarray.Scalar { return k.op(x, y, dt) }

// Unary submits dst = k(src). src and dst must have the same shape.
func (cpu *CPUBackend) Unary(k *UnaryKernel, src, dst *ndarray.Array, q *device.Queue, deps []*device.Event) device.EventPair {
	return q.Submit(deps, func() error {
		if !src.Shape().Equal(dst.Shape()) {
			return fmt.Errorf("%s: shape mismatch %v -> %v", k.name, src.Shape(), dst.Shape())
		}
		in := src.DType()
		si, di := ndarray.NewIndexer(src), ndarray.NewIndexer(dst)
		parallel.ForRange(dst.Size(), func(lo, hi int) {
			for i := lo; i < hi; i++ {
				dst.StoreOffset(di.Offset(i), k.op(src.LoadOffset(si.Offset(i)), in))
			}
		}, cpu.par)
		return nil
	})
}

// Binary submits dst = k(src1, src2). The sources are broadcast to the
// shape of dst.
func (cpu *CPUBackend) Binary(k *BinaryKernel, src1, src2, dst *ndarray.Array, q *device.Queue, deps []*device.Event) device.EventPair {
	return q.Submit(deps, func() error {
		shape := dst.Shape()
		bs, err := ndarray.BroadcastShapes(src1.Shape(), src2.Shape(), shape)
		if err != nil {
			return fmt.Errorf("%s: %w", k.name, err)
		}
		if !bs.Equal(shape) {
			return fmt.Errorf("%s: inputs of shapes %v and %v do not fit output shape %v",
				k.name, src1.Shape(), src2.Shape(), shape)
		}
		in := src1.DType()
		i1, i2 := ndarray.BroadcastIndexer(src1, shape), ndarray.BroadcastIndexer(src2, shape)
		di := ndarray.NewIndexer(dst)
		parallel.ForRange(dst.Size(), func(lo, hi int) {
			for i := lo; i < hi; i++ {
				x := src1.LoadOffset(i1.Offset(i))
				y := src2.LoadOffset(i2.Offset(i))
				dst.StoreOffset(di.Offset(i), k.op(x, y, in))
			}
		}, cpu.par)
		return nil
	})
}

// Inplace submits dst = k(dst, src) with src broadcast to the shape of dst.
func (cpu *CPUBackend) Inplace(k *BinaryKernel, src, dst *ndarray.Array, q *device.Queue, deps []*device.Event) device.EventPair {
	if !k.inplace {
		panic(fmt.Sprintf("%s: no in-place implementation", k.name))
	}
	return cpu.Binary(k, dst, src, dst, q, deps)
}

// signature table builders

var (
	boolTypes    = []dtype.DType{dtype.Bool}
	intTypes     = []dtype.DType{dtype.Int8, dtype.Uint8, dtype.Int16, dtype.Uint16, dtype.Int32, dtype.Uint32, dtype.Int64, dtype.Uint64}
	floatTypes   = []dtype.DType{dtype.Float16, dtype.Float32, dtype.Float64}
	complexTypes = []dtype.DType{dtype.Complex64, dtype.Complex128}
)

func join(groups ...[]dtype.DType) []dtype.DType {
	var res []dtype.DType
	for _, g := range groups {
		res = append(res, g...)
	}
	return res
}

// sameUnary maps every listed type to itself.
func sameUnary(types ...[]dtype.DType) []UnarySignature {
	var res []UnarySignature
	for _, dt := range join(types...) {
		res = append(res, UnarySignature{In: dt, Out: dt})
	}
	return res
}

// toUnary maps every listed type to out.
func toUnary(out dtype.DType, types ...[]dtype.DType) []UnarySignature {
	var res []UnarySignature
	for _, dt := range join(types...) {
		res = append(res, UnarySignature{In: dt, Out: out})
	}
	return res
}

// realOfComplex maps the complex types to their real counterpart.
func realOfComplex() []UnarySignature {
	return []UnarySignature{
		{In: dtype.Complex64, Out: dtype.Float32},
		{In: dtype.Complex128, Out: dtype.Float64},
	}
}

// sameBinary maps every listed type pair (T, T) to T.
func sameBinary(types ...[]dtype.DType) []BinarySignature {
	var res []BinarySignature
	for _, dt := range join(types...) {
		res = append(res, BinarySignature{In1: dt, In2: dt, Out: dt})
	}
	return res
}

// toBinary maps every listed type pair (T, T) to out.
func toBinary(out dtype.DType, types ...[]dtype.DType) []BinarySignature {
	var res []BinarySignature
	for _, dt := range join(types...) {
		res = append(res, BinarySignature{In1: dt, In2: dt, Out: out})
	}
	return res
}
