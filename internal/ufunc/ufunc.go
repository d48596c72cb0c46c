// Package ufunc implements the elementwise function objects of npx.
//
// A function object wraps a generic kernel from the cpu backend and an
// optional vendor kernel from the vm backend. Each call normalizes its
// arguments, resolves weak scalar types and buffer data types, validates
// the output array, stages casting copies and finally submits either the
// vendor or the generic kernel, whichever the vendor eligibility predicate
// selects for the concrete arrays of that call. All submissions are ordered
// through the order manager of the execution queue.
package ufunc

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/born-ml/npx/internal/backend/cpu"
	"github.com/born-ml/npx/internal/backend/vm"
	"github.com/born-ml/npx/internal/device"
	"github.com/born-ml/npx/internal/dtype"
	"github.com/born-ml/npx/internal/errs"
	"github.com/born-ml/npx/internal/ndarray"
	"github.com/born-ml/npx/internal/parallel"
)

// Env holds the backends and settings shared by the function objects of
// one namespace.
type Env struct {
	CPU    *cpu.CPUBackend
	VM     *vm.Backend
	Vendor bool // vendor kernels may be selected
	Logger *slog.Logger
}

// NewEnv creates an environment whose kernels split work according to par.
// A nil logger discards all records.
func NewEnv(par parallel.Config, vendor bool, logger *slog.Logger) *Env {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Env{
		CPU:    cpu.New(par),
		VM:     vm.New(par),
		Vendor: vendor,
		Logger: logger,
	}
}

// Options are the keyword arguments shared by every elementwise function.
type Options struct {
	Out    *ndarray.Array
	Where  any // nil or true
	Order  string
	DType  *dtype.DType
	Subok  any // nil or true
	Kwargs map[string]any
}

// check rejects the keyword arguments no function supports.
func (o Options) check(name string) error {
	switch {
	case len(o.Kwargs) > 0:
		return errs.NotImplemented("Requested function=%s with kwargs=%s isn't currently supported.", name, formatKwargs(o.Kwargs))
	case !isTrue(o.Where):
		return errs.NotImplemented("Requested function=%s with where=%v isn't currently supported.", name, o.Where)
	case !isTrue(o.Subok):
		return errs.NotImplemented("Requested function=%s with subok=%v isn't currently supported.", name, o.Subok)
	}
	return nil
}

func isTrue(v any) bool {
	if v == nil {
		return true
	}
	b, ok := v.(bool)
	return ok && b
}

func formatKwargs(kw map[string]any) string {
	keys := make([]string, 0, len(kw))
	for k := range kw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("'%s': %v", k, kw[k])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func parseOrder(s string) (ndarray.Order, error) {
	order, err := ndarray.ParseOrder(s)
	if err != nil {
		return 0, errs.Value("%s", err.Error())
	}
	return order, nil
}

// operand is one argument of a binary function: an array or a host scalar.
type operand struct {
	arr    *ndarray.Array
	scalar ndarray.Scalar
	weak   dtype.WeakType
}

func newOperand(v any) (operand, error) {
	switch x := v.(type) {
	case *ndarray.Array:
		if x == nil {
			return operand{}, errs.Type("An array must be any of supported type, but got nil")
		}
		return operand{arr: x}, nil
	case ndarray.Scalar:
		return operand{scalar: x, weak: weakOfKind(x.Kind())}, nil
	}
	w, ok := dtype.WeakTypeOf(v)
	if !ok {
		return operand{}, errs.Type("An array must be any of supported type, but got %T", v)
	}
	s, _ := ndarray.ScalarOf(v)
	return operand{scalar: s, weak: w}, nil
}

func weakOfKind(k dtype.Kind) dtype.WeakType {
	switch k {
	case dtype.KindBool:
		return dtype.WeakBool
	case dtype.KindInt, dtype.KindUint:
		return dtype.WeakInt
	case dtype.KindFloat:
		return dtype.WeakFloat
	default:
		return dtype.WeakComplex
	}
}

func (o operand) isScalar() bool { return o.arr == nil }

func (o operand) argType() dtype.ArgType {
	if o.isScalar() {
		return dtype.Weak(o.weak)
	}
	return dtype.Strong(o.arr.DType())
}

func (o operand) shape() ndarray.Shape {
	if o.isScalar() {
		return ndarray.Shape{}
	}
	return o.arr.Shape()
}

func (o operand) queue() *device.Queue {
	if o.isScalar() {
		return nil
	}
	return o.arr.Queue()
}

// materialize returns the operand as an array of type dt on q.
func (o operand) materialize(dt dtype.DType, q *device.Queue, usm device.USMType) (*ndarray.Array, error) {
	if !o.isScalar() {
		return o.arr, nil
	}
	return ndarray.Full(ndarray.Shape{}, o.scalar, dt, q, usm)
}

// submit registers the completion pair of a kernel submission with the
// order manager of q.
func submit(q *device.Queue, pair device.EventPair) {
	q.Order().AddEventPair(pair)
}

// dependencies returns the events a submission on q touching arrays must
// wait for.
func dependencies(q *device.Queue, arrays ...*ndarray.Array) []*device.Event {
	return append(q.Order().SubmittedEvents(), ndarray.Dependencies(q, arrays...)...)
}

// copyInto stages a copy and reports staging failures as value errors.
func copyInto(dst, src *ndarray.Array) error {
	if _, err := ndarray.CopyInto(dst, src); err != nil {
		return errs.Value("%s", err.Error())
	}
	return nil
}
