package device

import (
	"runtime"

	"golang.org/x/sys/cpu"
)

// VendorMathAvailable reports whether the host CPU provides the vector
// extensions the vendor math kernels are tuned for.
func VendorMathAvailable() bool {
	switch runtime.GOARCH {
	case "amd64":
		return cpu.X86.HasAVX2 && cpu.X86.HasFMA
	case "arm64":
		return cpu.ARM64.HasASIMD
	default:
		return false
	}
}
