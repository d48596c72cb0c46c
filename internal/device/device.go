// Package device describes compute devices, their queues and the event
// ordering used to sequence work submitted to them.
package device

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Kind is the category of a compute device.
type Kind int

// Supported device kinds.
const (
	CPU Kind = iota
	GPU
)

// String returns a human-readable device kind.
func (k Kind) String() string {
	switch k {
	case CPU:
		return "cpu"
	case GPU:
		return "gpu"
	default:
		return "unknown"
	}
}

// Device is a compute device and its capabilities.
type Device struct {
	name       string
	kind       Kind
	index      int
	fp16       bool
	fp64       bool
	vendorMath bool
}

// New creates a device descriptor. It is mostly useful in tests to model
// devices with restricted capabilities.
func New(name string, kind Kind, index int, fp16, fp64, vendorMath bool) *Device {
	return &Device{
		name:       name,
		kind:       kind,
		index:      index,
		fp16:       fp16,
		fp64:       fp64,
		vendorMath: vendorMath,
	}
}

// Name returns the device name.
func (d *Device) Name() string { return d.name }

// Kind returns the device kind.
func (d *Device) Kind() Kind { return d.kind }

// HasFP16 reports whether the device supports half precision arrays.
func (d *Device) HasFP16() bool { return d.fp16 }

// HasFP64 reports whether the device supports double precision arrays.
func (d *Device) HasFP64() bool { return d.fp64 }

// HasVendorMath reports whether the vendor math-kernel library can run on the device.
func (d *Device) HasVendorMath() bool { return d.vendorMath }

// FilterString returns the "kind:index" selector of the device.
func (d *Device) FilterString() string {
	return fmt.Sprintf("%s:%d", d.kind, d.index)
}

// String implements fmt.Stringer.
func (d *Device) String() string {
	return fmt.Sprintf("%s (%s)", d.FilterString(), d.name)
}

var (
	devicesOnce sync.Once
	devices     []*Device
)

// Devices returns every device visible to the process. The host CPU is
// always present and listed first.
func Devices() []*Device {
	devicesOnce.Do(func() {
		devices = append([]*Device{hostDevice()}, discoverGPUs()...)
	})
	return devices
}

func hostDevice() *Device {
	return New("host cpu", CPU, 0, true, true, VendorMathAvailable())
}

// Select returns the device matching a filter selector of the form
// "kind", "kind:index" or "" (default device, the first one listed).
func Select(filter string) (*Device, error) {
	return selectFrom(Devices(), filter)
}

func selectFrom(devs []*Device, filter string) (*Device, error) {
	filter = strings.ToLower(strings.TrimSpace(filter))
	if filter == "" {
		return devs[0], nil
	}

	kindStr, indexStr, hasIndex := strings.Cut(filter, ":")
	index := 0
	if hasIndex {
		var err error
		index, err = strconv.Atoi(indexStr)
		if err != nil || index < 0 {
			return nil, fmt.Errorf("invalid device index in filter %q", filter)
		}
	}

	var kind Kind
	switch kindStr {
	case "cpu":
		kind = CPU
	case "gpu":
		kind = GPU
	default:
		return nil, fmt.Errorf("unknown device kind in filter %q", filter)
	}

	for _, d := range devs {
		if d.kind == kind && d.index == index {
			return d, nil
		}
	}
	return nil, fmt.Errorf("no device matches filter %q", filter)
}

var (
	defaultQueuesMu sync.Mutex
	defaultQueues   = map[*Device]*Queue{}
)

// DefaultQueue returns the process-wide default queue of a device. Arrays
// created without an explicit queue on the same device share it.
func DefaultQueue(dev *Device) *Queue {
	defaultQueuesMu.Lock()
	defer defaultQueuesMu.Unlock()
	q, ok := defaultQueues[dev]
	if !ok {
		q = NewQueue(dev)
		defaultQueues[dev] = q
	}
	return q
}

// NormalizeQueue returns q when it is set, otherwise the default queue of
// the device selected by filter.
func NormalizeQueue(q *Queue, filter string) (*Queue, error) {
	if q != nil {
		if filter != "" {
			return nil, fmt.Errorf("device and queue can not be specified together")
		}
		return q, nil
	}
	dev, err := Select(filter)
	if err != nil {
		return nil, err
	}
	return DefaultQueue(dev), nil
}
