//go:build windows

package device

import (
	"fmt"

	"github.com/go-webgpu/webgpu/wgpu"
)

// discoverGPUs returns the default WebGPU adapter as a GPU device.
// WebGPU shaders have no double precision; the shader-f16 feature is not requested.
func discoverGPUs() (devs []*Device) {
	// wgpu_native may be missing at runtime.
	defer func() {
		if r := recover(); r != nil {
			devs = nil
		}
	}()

	instance := wgpu.CreateInstance(nil)
	defer instance.Release()

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return nil
	}
	defer adapter.Release()

	info := adapter.GetInfo()
	name := fmt.Sprintf("%s %s", info.Vendor, info.Device)
	return []*Device{New(name, GPU, 0, false, false, false)}
}
