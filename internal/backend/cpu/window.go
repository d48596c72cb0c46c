package cpu

import (
	"fmt"
	"math"

	"github.com/born-ml/npx/internal/device"
	"github.com/born-ml/npx/internal/dtype"
	"github.com/born-ml/npx/internal/ndarray"
	"github.com/born-ml/npx/internal/parallel"
)

// Window selects a cosine-sum window.
type Window int

// Supported windows.
const (
	Hamming Window = iota
	Hanning
	Blackman
)

// String returns the window name.
func (w Window) String() string {
	switch w {
	case Hamming:
		return "hamming"
	case Hanning:
		return "hanning"
	case Blackman:
		return "blackman"
	default:
		return fmt.Sprintf("Window(%d)", int(w))
	}
}

func (w Window) at(i, m int) float64 {
	x := 2 * math.Pi * float64(i) / float64(m-1)
	switch w {
	case Hamming:
		return 0.54 - 0.46*math.Cos(x)
	case Hanning:
		return 0.5 - 0.5*math.Cos(x)
	default:
		return 0.42 - 0.5*math.Cos(x) + 0.08*math.Cos(2*x)
	}
}

// WindowInto submits the evaluation of window w into the 1-D array dst.
// dst must hold at least two real floating elements.
func (cpu *CPUBackend) WindowInto(w Window, dst *ndarray.Array, q *device.Queue, deps []*device.Event) (device.EventPair, error) {
	if dst.NDim() != 1 {
		return device.EventPair{}, fmt.Errorf("%s: expected a 1-D array, got %d dimensions", w, dst.NDim())
	}
	if dt := dst.DType(); dt != dtype.Float32 && dt != dtype.Float64 {
		return device.EventPair{}, fmt.Errorf("%s: unsupported data type %s", w, dt)
	}
	m := dst.Size()
	if m < 2 {
		return device.EventPair{}, fmt.Errorf("%s: window length must be at least 2, got %d", w, m)
	}
	return q.Submit(deps, func() error {
		ix := ndarray.NewIndexer(dst)
		parallel.For(m, func(i int) {
			dst.StoreOffset(ix.Offset(i), ndarray.FloatScalar(w.at(i, m)))
		}, cpu.par)
		return nil
	}), nil
}
