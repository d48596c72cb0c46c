// Package fft implements the one-dimensional discrete Fourier transforms of
// npx arrays on top of the descriptors of the fft backend.
package fft

import (
	"log/slog"
	"math"

	kernels "github.com/born-ml/npx/internal/backend/fft"
	"github.com/born-ml/npx/internal/device"
	"github.com/born-ml/npx/internal/dtype"
	"github.com/born-ml/npx/internal/errs"
	"github.com/born-ml/npx/internal/ndarray"
	"github.com/born-ml/npx/internal/ufunc"
)

// Options are the arguments shared by the transforms.
type Options struct {
	N    *int   // transform length; nil uses the length of the axis
	Axis int    // axis to transform
	Norm string // "", "backward", "ortho" or "forward"
	Out  *ndarray.Array
}

// DefaultOptions transforms the last axis with backward normalization.
func DefaultOptions() Options {
	return Options{Axis: -1}
}

// FFT stages transforms on the queue of their input.
type FFT struct {
	divide *ufunc.BinaryFunc
	logger *slog.Logger
}

// New creates an FFT that scales results with divide. A nil logger
// discards all records.
func New(divide *ufunc.BinaryFunc, logger *slog.Logger) *FFT {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &FFT{divide: divide, logger: logger}
}

// FFT computes the forward complex transform of a along opts.Axis.
func (f *FFT) FFT(a *ndarray.Array, opts Options) (*ndarray.Array, error) {
	return f.transform(a, true, false, opts)
}

// IFFT computes the inverse complex transform of a along opts.Axis.
func (f *FFT) IFFT(a *ndarray.Array, opts Options) (*ndarray.Array, error) {
	return f.transform(a, false, false, opts)
}

// RFFT computes the forward transform of real input, keeping the n/2+1
// non-negative frequency terms.
func (f *FFT) RFFT(a *ndarray.Array, opts Options) (*ndarray.Array, error) {
	return f.transform(a, true, true, opts)
}

// IRFFT computes the real inverse of RFFT. The default length is
// 2*(m-1) for an axis of length m.
func (f *FFT) IRFFT(a *ndarray.Array, opts Options) (*ndarray.Array, error) {
	return f.transform(a, false, true, opts)
}

func checkNorm(norm string) error {
	switch norm {
	case "", "backward", "ortho", "forward":
		return nil
	}
	return errs.Value("Invalid norm value %s; should be None, \"ortho\", \"forward\", or \"backward\".", norm)
}

func (f *FFT) transform(a *ndarray.Array, forward, realInput bool, opts Options) (*ndarray.Array, error) {
	if a == nil {
		return nil, errs.Type("An array must be any of supported type, but got nil")
	}
	if a.NDim() == 0 {
		return nil, errs.Value("Input array must be at least 1D")
	}
	c2c := !realInput
	r2c := realInput && forward
	c2r := realInput && !forward
	if r2c && a.DType().IsComplex() {
		return nil, errs.Type("Input array must be real")
	}

	axis, err := ndarray.NormalizeAxis(opts.Axis, a.NDim())
	if err != nil {
		return nil, errs.Value("%s", err.Error())
	}
	var n int
	switch {
	case opts.N != nil:
		n = *opts.N
	case c2r:
		n = (a.Shape()[axis] - 1) * 2
	default:
		n = a.Shape()[axis]
	}
	if n < 1 {
		return nil, errs.Value("Invalid number of FFT data points (%d) specified", n)
	}
	if err := checkNorm(opts.Norm); err != nil {
		return nil, err
	}

	if a, err = truncateOrPad(a, n, axis); err != nil {
		return nil, err
	}
	if err := validateOut(a, opts.Out, axis, c2r, r2c); err != nil {
		return nil, err
	}
	a, inPlace, err := f.prepare(a, c2c || c2r)
	if err != nil {
		return nil, err
	}
	if !inPlace && opts.Out != nil {
		inPlace = ndarray.SameLogicalTensors(a, opts.Out)
	}
	if a.Size() == 0 {
		return ufunc.ResultArray(a, opts.Out, dtype.CastSameKind)
	}

	p := plan{forward: forward, c2c: c2c, inPlace: inPlace && c2c, batch: a.NDim() > 1, axis: axis}
	return f.run(a, opts, p)
}

// plan is the shape of one transform call.
type plan struct {
	forward bool
	c2c     bool
	inPlace bool
	batch   bool
	axis    int
}

// truncateOrPad returns a with length n along axis: a view for truncation,
// a zero-filled copy for padding.
func truncateOrPad(a *ndarray.Array, n, axis int) (*ndarray.Array, error) {
	m := a.Shape()[axis]
	switch {
	case n == m:
		return a, nil
	case n < m:
		res, err := ndarray.Slice(a, axis, 0, n, 1)
		if err != nil {
			return nil, errs.Value("%s", err.Error())
		}
		return res, nil
	}
	shape := a.Shape().Clone()
	shape[axis] = n
	order := ndarray.OrderC
	if a.IsFContiguous() && !a.IsCContiguous() {
		order = ndarray.OrderF
	}
	z, err := ndarray.Zeros(shape, a.DType(), a.Queue(), a.USMType(), order)
	if err != nil {
		return nil, errs.Wrap(err, "fft")
	}
	head, err := ndarray.Slice(z, axis, 0, m, 1)
	if err != nil {
		return nil, errs.Value("%s", err.Error())
	}
	if _, err := ndarray.CopyInto(head, a); err != nil {
		return nil, errs.Value("%s", err.Error())
	}
	return z, nil
}

func validateOut(a, out *ndarray.Array, axis int, c2r, r2c bool) error {
	if out == nil {
		return nil
	}
	if device.ExecutionQueue(a.Queue(), out.Queue()) == nil {
		return errs.Placement("Input and output allocation queues are not compatible")
	}
	want := a.Shape().Clone()
	if r2c {
		want[axis] = a.Shape()[axis]/2 + 1
	}
	if !out.Shape().Equal(want) {
		return errs.Value("output array has incorrect shape, expected %v, got %v.", []int(want), []int(out.Shape()))
	}
	if c2r {
		if !out.DType().IsFloating() {
			return errs.Type("output array should have real floating data type.")
		}
	} else if !out.DType().IsComplex() {
		return errs.Type("output array should have complex data type.")
	}
	return nil
}

// prepare copies a into a C-contiguous buffer of the transform's input
// type when a has negative strides, a broadcast axis or another type. A
// fresh copy may be transformed in place.
func (f *FFT) prepare(a *ndarray.Array, complexInput bool) (*ndarray.Array, bool, error) {
	dt := inputType(a.DType(), complexInput, a.Device())
	if dt == a.DType() && !a.HasNegativeStrides() && !broadcasted(a) {
		return a, false, nil
	}
	f.logger.Debug("copying fft input", "from", a.DType(), "to", dt)
	res, err := ndarray.Empty(a.Shape(), dt, a.Queue(), a.USMType(), ndarray.OrderC)
	if err != nil {
		return nil, false, errs.Wrap(err, "fft")
	}
	if _, err := ndarray.CopyInto(res, a); err != nil {
		return nil, false, errs.Value("%s", err.Error())
	}
	return res, true, nil
}

// inputType is the element type a transform consumes: complex for c2c and
// c2r, real floating for r2c. Single precision is kept.
func inputType(dt dtype.DType, complexInput bool, dev *device.Device) dtype.DType {
	switch {
	case complexInput && dt.IsComplex():
		return dt
	case complexInput && dt == dtype.Float32:
		return dtype.Complex64
	case complexInput:
		return dtype.MapToDevice(dtype.Complex128, dev)
	case dt == dtype.Float32 || dt == dtype.Float64:
		return dt
	default:
		return dtype.MapToDevice(dtype.Float64, dev)
	}
}

// run lays the transform axis out last, commits a descriptor, computes,
// scales and restores the original axis order.
func (f *FFT) run(a *ndarray.Array, opts Options, p plan) (*ndarray.Array, error) {
	var err error
	var origShape ndarray.Shape
	if p.batch {
		if a, err = ndarray.MoveAxis(a, p.axis, -1); err != nil {
			return nil, errs.Wrap(err, "fft")
		}
		origShape = a.Shape()
		if a, err = ndarray.Reshape(a, ndarray.Shape{-1, origShape[len(origShape)-1]}); err != nil {
			return nil, errs.Wrap(err, "fft")
		}
	}
	strides := nonzeroStrides(a)

	dsc, err := commit(a, p, strides)
	if err != nil {
		return nil, err
	}
	f.logger.Debug("fft commit", "descriptor", dsc.String(), "forward", p.forward)

	res, err := f.compute(dsc, a, opts.Out, p, strides)
	if err != nil {
		return nil, err
	}

	n := a.Shape()[a.NDim()-1]
	if res, err = f.scale(res, n, opts.Norm, p.forward); err != nil {
		return nil, err
	}

	if p.batch {
		shape := origShape.Clone()
		shape[len(shape)-1] = res.Shape()[res.NDim()-1]
		if res, err = ndarray.Reshape(res, shape); err != nil {
			return nil, errs.Wrap(err, "fft")
		}
		if res, err = ndarray.MoveAxis(res, -1, p.axis); err != nil {
			return nil, errs.Wrap(err, "fft")
		}
	}

	result, err := ufunc.ResultArray(res, opts.Out, dtype.CastSameKind)
	if err != nil {
		return nil, err
	}
	if opts.Out == nil && !result.IsContiguous() {
		return ndarray.Copy(result, ndarray.OrderC)
	}
	return result, nil
}

// nonzeroStrides replaces the undefined strides of length-one axes.
func nonzeroStrides(a *ndarray.Array) []int {
	res := append([]int(nil), a.Strides()...)
	for i, s := range res {
		if s == 0 && a.Shape()[i] == 1 {
			res[i] = 1
		}
	}
	return res
}

func broadcasted(a *ndarray.Array) bool {
	for i, s := range a.Strides() {
		if s == 0 && a.Shape()[i] > 1 {
			return true
		}
	}
	return false
}

func commit(a *ndarray.Array, p plan, strides []int) (*kernels.Descriptor, error) {
	n := a.Shape()[a.NDim()-1]
	var dsc *kernels.Descriptor
	switch {
	case p.c2c && a.DType() == dtype.Complex64:
		dsc = kernels.NewComplex64(n)
	case p.c2c:
		dsc = kernels.NewComplex128(n)
	case a.DType() == dtype.Float32 || a.DType() == dtype.Complex64:
		dsc = kernels.NewReal32(n)
	default:
		dsc = kernels.NewReal64(n)
	}
	dsc.Strides = [2]int{0, strides[len(strides)-1]}
	dsc.InPlace = p.inPlace
	if p.batch {
		dsc.Distance = strides[0]
		dsc.Count = a.Shape()[0]
	}
	if err := dsc.Commit(a.Queue()); err != nil {
		return nil, errs.Value("%s", err.Error())
	}
	return dsc, nil
}

// compute runs the committed transform. Out-of-place results share the
// strides of the input.
func (f *FFT) compute(dsc *kernels.Descriptor, a, out *ndarray.Array, p plan, strides []int) (*ndarray.Array, error) {
	q := a.Queue()
	deps := append(q.Order().SubmittedEvents(), ndarray.Dependencies(q, a, out)...)

	if dsc.InPlace {
		pair, err := dsc.ComputeInPlace(a, p.forward, deps)
		if err != nil {
			return nil, errs.Value("%s", err.Error())
		}
		q.Order().AddEventPair(pair)
		return a, nil
	}

	shape := a.Shape().Clone()
	var dt dtype.DType
	switch {
	case p.c2c:
		dt = a.DType()
	case p.forward:
		shape[len(shape)-1] = shape[len(shape)-1]/2 + 1
		dt = dtype.Complex128
		if a.DType() == dtype.Float32 {
			dt = dtype.Complex64
		}
	default:
		dt = dtype.Float64
		if a.DType() == dtype.Complex64 {
			dt = dtype.Float32
		}
	}

	var res *ndarray.Array
	if out != nil && !p.batch && out.DType() == dt && out.Shape().Equal(shape) &&
		equalInts(out.Strides(), strides) && !ndarray.Overlap(a, out) {
		res = out
	} else {
		var err error
		if res, err = ndarray.EmptyStrided(shape, strides, dt, q, a.USMType()); err != nil {
			return nil, errs.Wrap(err, "fft")
		}
	}
	pair, err := dsc.ComputeOutOfPlace(a, res, p.forward, deps)
	if err != nil {
		return nil, errs.Value("%s", err.Error())
	}
	q.Order().AddEventPair(pair)
	return res, nil
}

// scale divides res in place by the normalization factor of the transform.
func (f *FFT) scale(res *ndarray.Array, n int, norm string, forward bool) (*ndarray.Array, error) {
	factor := 1.0
	switch {
	case norm == "ortho":
		factor = math.Sqrt(float64(n))
	case norm == "forward" && forward:
		factor = float64(n)
	case (norm == "" || norm == "backward") && !forward:
		factor = float64(n)
	}
	if factor == 1 {
		return res, nil
	}
	return f.divide.Call(res, factor, ufunc.Options{Out: res})
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
