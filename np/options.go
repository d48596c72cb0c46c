// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package np

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/born-ml/npx/internal/device"
	"github.com/born-ml/npx/internal/errs"
	"github.com/born-ml/npx/internal/ufunc"
)

// Option is a keyword argument of a Namespace function.
type Option func(*options)

type options struct {
	given  map[string]any
	kwargs map[string]any

	out      *Array
	where    any
	order    string
	dtype    *DType
	subok    any
	decimals int
	deg      bool
	casting  string
	norm     string
	n        *int
	axis     *int
	axes     []int
	keepDims bool
	device   string
	queue    *Queue
	usm      *USMType
	rtol     any
	atol     any
	equalNaN bool
	spacing  float64
}

func (o *options) set(name string, v any) {
	if o.given == nil {
		o.given = map[string]any{}
	}
	o.given[name] = v
}

// Out writes the result into out.
func Out(out *Array) Option {
	return func(o *options) { o.out = out; o.set("out", out) }
}

// Where masks the computation. Only true is supported.
func Where(where any) Option {
	return func(o *options) { o.where = where; o.set("where", where) }
}

// Order sets the memory layout of the result: "C", "F", "A" or "K".
func Order(order string) Option {
	return func(o *options) { o.order = order; o.set("order", order) }
}

// WithDType requests the data type of the computation.
func WithDType(dt DType) Option {
	return func(o *options) { o.dtype = &dt; o.set("dtype", dt) }
}

// Subok controls subclass propagation. Only true is supported.
func Subok(subok any) Option {
	return func(o *options) { o.subok = subok; o.set("subok", subok) }
}

// Kwarg passes an arbitrary keyword argument. Functions reject the
// keywords they do not know.
func Kwarg(name string, value any) Option {
	return func(o *options) {
		if o.kwargs == nil {
			o.kwargs = map[string]any{}
		}
		o.kwargs[name] = value
	}
}

// Decimals sets the number of decimals of Round.
func Decimals(d int) Option {
	return func(o *options) { o.decimals = d; o.set("decimals", d) }
}

// Deg makes Angle return degrees.
func Deg(deg bool) Option {
	return func(o *options) { o.deg = deg; o.set("deg", deg) }
}

// Casting sets the casting rule of the output: "no", "equiv", "safe",
// "same_kind" or "unsafe".
func Casting(casting string) Option {
	return func(o *options) { o.casting = casting; o.set("casting", casting) }
}

// Norm sets the FFT normalization: "backward", "ortho" or "forward".
func Norm(norm string) Option {
	return func(o *options) { o.norm = norm; o.set("norm", norm) }
}

// N sets the FFT length.
func N(n int) Option {
	return func(o *options) { o.n = &n; o.set("n", n) }
}

// Axis selects the axis of an FFT, or the single axis of a reduction.
func Axis(axis int) Option {
	return func(o *options) { o.axis = &axis; o.set("axis", axis) }
}

// Axes selects the axes of a reduction or shift.
func Axes(axes ...int) Option {
	return func(o *options) { o.axes = axes; o.set("axes", axes) }
}

// KeepDims keeps reduced axes with length one.
func KeepDims(keep bool) Option {
	return func(o *options) { o.keepDims = keep; o.set("keepdims", keep) }
}

// Device places a new array on the device matching filter.
func Device(filter string) Option {
	return func(o *options) { o.device = filter; o.set("device", filter) }
}

// OnQueue places a new array on q.
func OnQueue(q *Queue) Option {
	return func(o *options) { o.queue = q; o.set("queue", q) }
}

// USM sets the allocation kind of a new array.
func USM(usm USMType) Option {
	return func(o *options) { o.usm = &usm; o.set("usm_type", usm) }
}

// Rtol sets the relative tolerance of IsClose and AllClose.
func Rtol(rtol any) Option {
	return func(o *options) { o.rtol = rtol; o.set("rtol", rtol) }
}

// Atol sets the absolute tolerance of IsClose and AllClose.
func Atol(atol any) Option {
	return func(o *options) { o.atol = atol; o.set("atol", atol) }
}

// EqualNaN makes IsClose treat NaNs in the same position as equal.
func EqualNaN(equal bool) Option {
	return func(o *options) { o.equalNaN = equal; o.set("equal_nan", equal) }
}

// Spacing sets the sample spacing of FFTFreq and RFFTFreq.
func Spacing(d float64) Option {
	return func(o *options) { o.spacing = d; o.set("d", d) }
}

func newOptions(opts []Option) *options {
	o := &options{spacing: 1}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// extra returns the keywords outside allowed along with every Kwarg.
func (o *options) extra(allowed ...string) map[string]any {
	var res map[string]any
	add := func(k string, v any) {
		if res == nil {
			res = map[string]any{}
		}
		res[k] = v
	}
	for k, v := range o.given {
		if !slices.Contains(allowed, k) {
			add(k, v)
		}
	}
	for k, v := range o.kwargs {
		add(k, v)
	}
	return res
}

// check rejects every keyword outside allowed.
func (o *options) check(name string, allowed ...string) error {
	if extra := o.extra(allowed...); len(extra) > 0 {
		return errs.NotImplemented("Requested function=%s with kwargs=%s isn't currently supported.", name, formatKwargs(extra))
	}
	return nil
}

var ufuncKeywords = []string{"out", "where", "order", "dtype", "subok"}

// elementwise converts the elementwise keywords. Keywords outside allowed and the
// elementwise set are passed on as extra keyword arguments.
func (o *options) elementwise(allowed ...string) ufunc.Options {
	return ufunc.Options{
		Out:    o.out,
		Where:  o.where,
		Order:  o.order,
		DType:  o.dtype,
		Subok:  o.subok,
		Kwargs: o.extra(append(allowed, ufuncKeywords...)...),
	}
}

// placement returns the queue and allocation kind of a new array.
func (ns *Namespace) placement(o *options) (*Queue, USMType, error) {
	q := ns.queue
	if o.queue != nil || o.device != "" {
		var err error
		if q, err = device.NormalizeQueue(o.queue, o.device); err != nil {
			return nil, 0, errs.Placement("%s", err.Error())
		}
	}
	usm := ns.cfg.USMType
	if o.usm != nil {
		usm = *o.usm
	}
	return q, usm, nil
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
