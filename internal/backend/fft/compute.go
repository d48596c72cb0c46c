package fft

import (
	"fmt"

	"github.com/born-ml/npx/internal/device"
	"github.com/born-ml/npx/internal/ndarray"
)

// ComputeInPlace submits the transforms of a, overwriting it. Only complex
// descriptors committed with InPlace support it.
func (d *Descriptor) ComputeInPlace(a *ndarray.Array, forward bool, deps []*device.Event) (device.EventPair, error) {
	if err := d.validate(a, a, forward); err != nil {
		return device.EventPair{}, err
	}
	if !d.InPlace {
		return device.EventPair{}, fmt.Errorf("%w: descriptor is configured out of place", ErrInvalidLayout)
	}
	return d.queue.Submit(deps, func() error {
		return d.run(a, a, forward)
	}), nil
}

// ComputeOutOfPlace submits the transforms of in into out. Both arrays are
// addressed with the descriptor's strides and distance.
func (d *Descriptor) ComputeOutOfPlace(in, out *ndarray.Array, forward bool, deps []*device.Event) (device.EventPair, error) {
	if err := d.validate(in, out, forward); err != nil {
		return device.EventPair{}, err
	}
	return d.queue.Submit(deps, func() error {
		return d.run(in, out, forward)
	}), nil
}

func (d *Descriptor) validate(in, out *ndarray.Array, forward bool) error {
	if d.batch == nil {
		return ErrNotCommitted
	}
	inType, outType := d.ioTypes(forward)
	if in.DType() != inType || out.DType() != outType {
		return fmt.Errorf("%w: %s -> %s, expected %s -> %s", ErrDTypeMismatch, in.DType(), out.DType(), inType, outType)
	}
	if in.Queue() != d.queue || out.Queue() != d.queue {
		return fmt.Errorf("%w: arrays are not allocated on the committed queue", ErrInvalidLayout)
	}
	return nil
}

func (d *Descriptor) run(in, out *ndarray.Array, forward bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.batch(in, out, forward)
}
