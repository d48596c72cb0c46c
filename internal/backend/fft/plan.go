package fft

import (
	"math/cmplx"

	algofft "github.com/cwbudde/algo-fft"

	"github.com/born-ml/npx/internal/ndarray"
)

// batchFunc runs every transform of a committed descriptor from in to out.
type batchFunc func(in, out *ndarray.Array, forward bool) error

// newBatch binds the algo-fft plans of d's domain and precision.
func newBatch(d *Descriptor) (batchFunc, error) {
	switch {
	case d.precision == Single && d.domain == Complex:
		return newComplexBatch[complex64](d)
	case d.precision == Single:
		return newRealBatch[float32, complex64](d)
	case d.domain == Complex:
		return newComplexBatch[complex128](d)
	default:
		return newRealBatch[float64, complex128](d)
	}
}

// newComplexBatch transforms each line with the strided complex plan.
// The plan's inverse is normalized, so backward results are scaled by n.
func newComplexBatch[C algofft.Complex](d *Descriptor) (batchFunc, error) {
	if d.n == 1 {
		return newLineBatch[float64, C](d, nil), nil
	}
	p, err := algofft.NewPlanT[C](d.n)
	if err != nil {
		return nil, err
	}
	scale := C(complex(float64(d.n), 0))
	return func(in, out *ndarray.Array, forward bool) error {
		src, dst := ndarray.View[C](in), ndarray.View[C](out)
		stride := d.Strides[1]
		for t := range d.Count {
			i0 := in.Offset() + t*d.Distance
			o0 := out.Offset() + t*d.Distance
			if err := p.TransformStrided(dst[o0:], src[i0:], stride, !forward); err != nil {
				return err
			}
			if forward {
				continue
			}
			for i := range d.n {
				dst[o0+i*stride] *= scale
			}
		}
		return nil
	}, nil
}

// newRealBatch uses the real plan, which needs an even length. Odd lengths
// go through a complex plan over a widened line.
func newRealBatch[F algofft.Float, C algofft.Complex](d *Descriptor) (batchFunc, error) {
	if d.n == 1 {
		return newLineBatch[F, C](d, nil), nil
	}
	if d.n%2 != 0 {
		p, err := algofft.NewPlanT[C](d.n)
		if err != nil {
			return nil, err
		}
		return newLineBatch[F, C](d, p), nil
	}
	p, err := algofft.NewPlanRealT[F, C](d.n)
	if err != nil {
		return nil, err
	}
	scale := F(d.n)

	return func(in, out *ndarray.Array, forward bool) error {
		line := make([]F, d.n)
		spectrum := make([]C, p.SpectrumLen())
		stride := d.Strides[1]
		for t := range d.Count {
			i0 := in.Offset() + t*d.Distance
			o0 := out.Offset() + t*d.Distance
			if forward {
				src, dst := ndarray.View[F](in), ndarray.View[C](out)
				for i := range line {
					line[i] = src[i0+i*stride]
				}
				if err := p.Forward(spectrum, line); err != nil {
					return err
				}
				for i, v := range spectrum {
					dst[o0+i*stride] = v
				}
				continue
			}
			src, dst := ndarray.View[C](in), ndarray.View[F](out)
			for i := range spectrum {
				spectrum[i] = src[i0+i*stride]
			}
			if err := p.Inverse(line, spectrum); err != nil {
				return err
			}
			for i, v := range line {
				dst[o0+i*stride] = v * scale
			}
		}
		return nil
	}, nil
}

// newLineBatch copies each transform into a complex scratch line, runs p
// over it and writes the requested part back. A nil plan is the identity,
// which is the transform of length one.
func newLineBatch[F algofft.Float, C algofft.Complex](d *Descriptor, p *algofft.Plan[C]) batchFunc {
	n := d.n
	half := d.spectrum()

	load := func(line []C, a *ndarray.Array, off, count int) {
		if d.domain == Real && a.DType().IsFloating() {
			src := ndarray.View[F](a)
			for i := range count {
				line[i] = C(complex(float64(src[off+i*d.Strides[1]]), 0))
			}
			return
		}
		src := ndarray.View[C](a)
		for i := range count {
			line[i] = src[off+i*d.Strides[1]]
		}
	}

	return func(in, out *ndarray.Array, forward bool) error {
		line := make([]C, n)
		stride := d.Strides[1]
		for t := range d.Count {
			i0 := in.Offset() + t*d.Distance
			o0 := out.Offset() + t*d.Distance

			if d.domain == Real && !forward {
				load(line, in, i0, half)
				for i := half; i < n; i++ {
					line[i] = C(cmplx.Conj(complex128(line[n-i])))
				}
			} else {
				load(line, in, i0, n)
			}

			if p != nil {
				var err error
				if forward {
					err = p.Forward(line, line)
				} else {
					err = p.Inverse(line, line)
				}
				if err != nil {
					return err
				}
			}

			switch {
			case d.domain == Real && !forward:
				dst := ndarray.View[F](out)
				for i := range n {
					dst[o0+i*stride] = F(real(complex128(line[i])) * float64(n))
				}
			case d.domain == Real:
				dst := ndarray.View[C](out)
				for i := range half {
					dst[o0+i*stride] = line[i]
				}
			default:
				dst := ndarray.View[C](out)
				scale := C(complex(1, 0))
				if !forward {
					scale = C(complex(float64(n), 0))
				}
				for i := range n {
					dst[o0+i*stride] = line[i] * scale
				}
			}
		}
		return nil
	}
}
