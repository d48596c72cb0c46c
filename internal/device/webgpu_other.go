//go:build !windows

package device

// discoverGPUs reports no GPU devices; WebGPU discovery is only wired on windows.
func discoverGPUs() []*Device {
	return nil
}
