// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package np

import (
	"math"
	"reflect"

	"github.com/x448/float16"

	"github.com/born-ml/npx/internal/dtype"
	"github.com/born-ml/npx/internal/errs"
	"github.com/born-ml/npx/internal/ndarray"
)

var creationKeywords = []string{"dtype", "order", "device", "queue", "usm_type"}

// Asarray converts v into an array. v may be an *Array, a Go scalar, a
// slice of Go numbers or a nested slice of them. An array already on the
// requested queue with the requested type and layout is returned as is.
//
// Accepted options: WithDType, Order, Device, OnQueue, USM.
func (ns *Namespace) Asarray(v any, opts ...Option) (*Array, error) {
	o := newOptions(opts)
	if err := o.check("asarray", creationKeywords...); err != nil {
		return nil, err
	}
	order, err := ndarray.ParseOrder(o.order)
	if err != nil {
		return nil, errs.Value("%s", err.Error())
	}

	if a, ok := v.(*Array); ok {
		if a == nil {
			return nil, errs.Type("An array must be any of supported type, but got nil")
		}
		return ns.asarrayFromArray(a, o, order)
	}

	q, usm, err := ns.placement(o)
	if err != nil {
		return nil, err
	}
	values, shape, dt, err := flatten(v)
	if err != nil {
		return nil, err
	}
	dt = dtype.MapToDevice(dt, q.Device())
	if o.dtype != nil {
		dt = *o.dtype
	}
	res, err := ndarray.FromScalars(values, shape, dt, q, usm)
	if err != nil {
		return nil, errs.Value("%s", err.Error())
	}
	if order == ndarray.OrderF && !res.IsFContiguous() {
		return ndarray.Copy(res, ndarray.OrderF)
	}
	return res, nil
}

func (ns *Namespace) asarrayFromArray(a *Array, o *options, order ndarray.Order) (*Array, error) {
	q, usm := a.Queue(), a.USMType()
	if o.queue != nil || o.device != "" {
		var err error
		if q, _, err = ns.placement(o); err != nil {
			return nil, err
		}
	}
	if o.usm != nil {
		usm = *o.usm
	}
	dt := a.DType()
	if o.dtype != nil {
		dt = *o.dtype
	}
	if q == a.Queue() && usm == a.USMType() {
		return ndarray.AsType(a, dt, order, false)
	}

	layout := ndarray.OrderC
	if order == ndarray.OrderF || (order != ndarray.OrderC && a.IsFContiguous() && !a.IsCContiguous()) {
		layout = ndarray.OrderF
	}
	res, err := ndarray.Empty(a.Shape(), dt, q, usm, layout)
	if err != nil {
		return nil, errs.Value("%s", err.Error())
	}
	if _, err := ndarray.CopyInto(res, a); err != nil {
		return nil, errs.Value("%s", err.Error())
	}
	return res, nil
}

// flatten walks a Go scalar or (nested) slice into row-major values.
func flatten(v any) ([]ndarray.Scalar, Shape, DType, error) {
	if h, ok := v.(float16.Float16); ok {
		return []ndarray.Scalar{ndarray.FloatScalar(float64(h.Float32()))}, Shape{}, dtype.Float16, nil
	}
	if s, ok := ndarray.ScalarOf(v); ok {
		dt, ok := ndarray.NativeDType(v)
		if !ok {
			dt = kindDefault(s.Kind())
		}
		return []ndarray.Scalar{s}, Shape{}, dt, nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, nil, 0, errs.Type("Unsupported type %T", v)
	}
	var shape Shape
	elem := rv.Type()
	for elem.Kind() == reflect.Slice || elem.Kind() == reflect.Array {
		elem = elem.Elem()
	}
	dt, ok := leafDType(elem)
	if !ok {
		return nil, nil, 0, errs.Type("Unsupported element type %s", elem)
	}
	for t, cur := rv.Type(), rv; t.Kind() == reflect.Slice || t.Kind() == reflect.Array; t = t.Elem() {
		shape = append(shape, cur.Len())
		if cur.Len() == 0 {
			for t = t.Elem(); t.Kind() == reflect.Slice || t.Kind() == reflect.Array; t = t.Elem() {
				shape = append(shape, 0)
			}
			break
		}
		cur = cur.Index(0)
	}

	values := make([]ndarray.Scalar, 0, shape.NumElements())
	var walk func(cur reflect.Value, depth int) error
	walk = func(cur reflect.Value, depth int) error {
		if depth == len(shape) {
			values = append(values, leafScalar(cur.Interface()))
			return nil
		}
		if cur.Len() != shape[depth] {
			return errs.Value("setting an array element with a sequence. The requested array has an inhomogeneous shape after %d dimensions.", depth)
		}
		for i := range cur.Len() {
			if err := walk(cur.Index(i), depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(rv, 0); err != nil {
		return nil, nil, 0, err
	}
	return values, shape, dt, nil
}

func kindDefault(k dtype.Kind) DType {
	switch k {
	case dtype.KindBool:
		return dtype.Bool
	case dtype.KindInt:
		return dtype.Int64
	case dtype.KindUint:
		return dtype.Uint64
	case dtype.KindComplex:
		return dtype.Complex128
	default:
		return dtype.Float64
	}
}

var float16Type = reflect.TypeOf(float16.Float16(0))

func leafDType(t reflect.Type) (DType, bool) {
	if t == float16Type {
		return dtype.Float16, true
	}
	return ndarray.NativeDType(reflect.Zero(t).Interface())
}

func leafScalar(v any) ndarray.Scalar {
	if h, ok := v.(float16.Float16); ok {
		return ndarray.FloatScalar(float64(h.Float32()))
	}
	s, _ := ndarray.ScalarOf(v)
	return s
}

func (ns *Namespace) allocate(name string, shape Shape, o *options, fallback DType) (*Array, error) {
	if err := o.check(name, creationKeywords...); err != nil {
		return nil, err
	}
	q, usm, err := ns.placement(o)
	if err != nil {
		return nil, err
	}
	order, err := ndarray.ParseOrder(o.order)
	if err != nil {
		return nil, errs.Value("%s", err.Error())
	}
	if order != ndarray.OrderF {
		order = ndarray.OrderC
	}
	dt := fallback
	if o.dtype != nil {
		dt = *o.dtype
	}
	res, err := ndarray.Empty(shape, dt, q, usm, order)
	if err != nil {
		return nil, errs.Value("%s", err.Error())
	}
	return res, nil
}

// Empty allocates an array of the default floating type.
//
// Accepted options: WithDType, Order, Device, OnQueue, USM.
func (ns *Namespace) Empty(shape Shape, opts ...Option) (*Array, error) {
	o := newOptions(opts)
	return ns.allocate("empty", shape, o, ns.defaultFloat(o))
}

// Zeros allocates an array filled with zeros.
//
// Accepted options: WithDType, Order, Device, OnQueue, USM.
func (ns *Namespace) Zeros(shape Shape, opts ...Option) (*Array, error) {
	o := newOptions(opts)
	return ns.allocate("zeros", shape, o, ns.defaultFloat(o))
}

// Ones allocates an array filled with ones.
//
// Accepted options: WithDType, Order, Device, OnQueue, USM.
func (ns *Namespace) Ones(shape Shape, opts ...Option) (*Array, error) {
	return ns.Full(shape, 1.0, opts...)
}

// Full allocates an array filled with value. Without WithDType the type
// follows value: Go bools, integers, floats and complex numbers map to the
// device defaults of their kind.
//
// Accepted options: WithDType, Order, Device, OnQueue, USM.
func (ns *Namespace) Full(shape Shape, value any, opts ...Option) (*Array, error) {
	o := newOptions(opts)
	s, ok := ndarray.ScalarOf(value)
	if !ok {
		return nil, errs.Type("fill value must be a scalar, but got %T", value)
	}
	w, _ := dtype.WeakTypeOf(value)
	res, err := ns.allocate("full", shape, o, ns.weakDefault(w, o))
	if err != nil {
		return nil, err
	}
	ndarray.Fill(res, s)
	return res, nil
}

// Arange returns evenly spaced values in [start, stop) with the given step.
// Integer arguments produce the default integer type, anything else the
// default floating type.
//
// Accepted options: WithDType, Device, OnQueue, USM.
func (ns *Namespace) Arange(start, stop, step any, opts ...Option) (*Array, error) {
	o := newOptions(opts)
	if err := o.check("arange", "dtype", "device", "queue", "usm_type"); err != nil {
		return nil, err
	}
	integral := true
	var args [3]ndarray.Scalar
	var bounds [3]float64
	for i, v := range []any{start, stop, step} {
		w, ok := dtype.WeakTypeOf(v)
		if !ok || w == dtype.WeakComplex {
			return nil, errs.Type("arange arguments must be real scalars, but got %T", v)
		}
		if w == dtype.WeakFloat {
			integral = false
		}
		args[i], _ = ndarray.ScalarOf(v)
		bounds[i] = args[i].Float()
	}
	if bounds[2] == 0 {
		return nil, errs.Value("step must not be zero")
	}
	n := max(int(math.Ceil((bounds[1]-bounds[0])/bounds[2])), 0)

	q, usm, err := ns.placement(o)
	if err != nil {
		return nil, err
	}
	dt := dtype.DefaultInt(q.Device())
	if !integral {
		dt = dtype.DefaultFloat(q.Device())
	}
	if o.dtype != nil {
		dt = *o.dtype
	}
	values := make([]ndarray.Scalar, n)
	for i := range values {
		if integral {
			values[i] = ndarray.IntScalar(args[0].Int() + int64(i)*args[2].Int())
		} else {
			values[i] = ndarray.FloatScalar(bounds[0] + float64(i)*bounds[2])
		}
	}
	res, err := ndarray.FromScalars(values, Shape{n}, dt, q, usm)
	if err != nil {
		return nil, errs.Value("%s", err.Error())
	}
	return res, nil
}

func (ns *Namespace) defaultFloat(o *options) DType {
	q, _, err := ns.placement(o)
	if err != nil {
		return ns.DefaultFloat()
	}
	return dtype.DefaultFloat(q.Device())
}

func (ns *Namespace) weakDefault(w dtype.WeakType, o *options) DType {
	q, _, err := ns.placement(o)
	if err != nil {
		q = ns.queue
	}
	dev := q.Device()
	switch w {
	case dtype.WeakBool:
		return dtype.Bool
	case dtype.WeakInt:
		return dtype.DefaultInt(dev)
	case dtype.WeakComplex:
		return dtype.DefaultComplex(dev)
	default:
		return dtype.DefaultFloat(dev)
	}
}
