package ndarray

import (
	"fmt"

	"github.com/born-ml/npx/internal/device"
	"github.com/born-ml/npx/internal/dtype"
	"github.com/born-ml/npx/internal/parallel"
)

// Dependencies returns the events a submission reading or writing the given
// arrays must wait for, other than the submission queue's own order.
func Dependencies(q *device.Queue, arrays ...*Array) []*device.Event {
	var deps []*device.Event
	seen := map[*device.Queue]bool{q: true}
	for _, a := range arrays {
		if a == nil || seen[a.queue] {
			continue
		}
		seen[a.queue] = true
		deps = append(deps, a.queue.Order().SubmittedEvents()...)
	}
	return deps
}

// CopyInto submits a casting copy of src into dst. src is broadcast to the
// shape of dst. The copy runs on dst's queue after all work already
// submitted to the queues of both arrays.
func CopyInto(dst, src *Array) (device.EventPair, error) {
	if _, err := BroadcastTo(src, dst.shape); err != nil {
		return device.EventPair{}, fmt.Errorf("could not broadcast input array from shape %v into shape %v",
			[]int(src.shape), []int(dst.shape))
	}
	q := dst.queue
	pair := q.SubmitOrdered(Dependencies(q, src), func() error {
		copyKernel(dst, src)
		return nil
	})
	return pair, nil
}

func copyKernel(dst, src *Array) {
	n := dst.Size()
	if n == 0 {
		return
	}
	if SameLogicalTensors(dst, src) {
		return
	}
	if Overlap(dst, src) {
		src = snapshot(src)
	}
	if dst.dtype == src.dtype && dst.IsCContiguous() && src.IsCContiguous() && src.shape.Equal(dst.shape) {
		size := dst.dtype.Size()
		db, sb := dst.buf.bytes(), src.buf.bytes()
		copy(db[dst.offset*size:(dst.offset+n)*size], sb[src.offset*size:(src.offset+n)*size])
		return
	}
	di, si := NewIndexer(dst), BroadcastIndexer(src, dst.shape)
	parallel.ForRange(n, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			dst.StoreOffset(di.Offset(i), src.LoadOffset(si.Offset(i)))
		}
	}, parallel.DefaultConfig())
}

// snapshot returns a private C-contiguous copy of a, made synchronously.
func snapshot(a *Array) *Array {
	c := &Array{
		buf:     newBuffer(a.Size() * a.dtype.Size()),
		shape:   a.shape.Clone(),
		strides: a.shape.ComputeStrides(),
		dtype:   a.dtype,
		queue:   a.queue,
		usm:     a.usm,
	}
	ix := NewIndexer(a)
	for i := 0; i < a.Size(); i++ {
		c.store(i, a.LoadOffset(ix.Offset(i)))
	}
	return c
}

// Copy returns a new array holding the elements of a in the requested layout.
func Copy(a *Array, order Order) (*Array, error) {
	return AsType(a, a.dtype, order, true)
}

// AsType returns a cast to dt. Without forceCopy, a itself is returned when
// no cast and no layout change is needed.
func AsType(a *Array, dt dtype.DType, order Order, forceCopy bool) (*Array, error) {
	if !forceCopy && dt == a.dtype && layoutMatches(a, order) {
		return a, nil
	}
	res, err := EmptyLike(a, dt, order)
	if err != nil {
		return nil, err
	}
	if _, err := CopyInto(res, a); err != nil {
		return nil, err
	}
	return res, nil
}

func layoutMatches(a *Array, order Order) bool {
	switch order {
	case OrderC:
		return a.IsCContiguous()
	case OrderF:
		return a.IsFContiguous()
	default:
		return true
	}
}

// Fill submits a write of value to every element of a.
func Fill(a *Array, value Scalar) device.EventPair {
	return a.queue.SubmitOrdered(nil, func() error {
		ix := NewIndexer(a)
		parallel.ForRange(a.Size(), func(lo, hi int) {
			for i := lo; i < hi; i++ {
				a.StoreOffset(ix.Offset(i), value)
			}
		}, parallel.DefaultConfig())
		return nil
	})
}
