// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package np

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/pkg/errors"

	"github.com/born-ml/npx/internal/device"
	"github.com/born-ml/npx/internal/parallel"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvDeviceFilter  = "NPX_DEVICE_FILTER"
	EnvDisableVendor = "NPX_DISABLE_VENDOR"
	EnvUSMType       = "NPX_USM_TYPE"
)

// ParallelConfig controls how kernels split work across goroutines.
type ParallelConfig = parallel.Config

// USMType is the allocation kind of an array.
type USMType = device.USMType

// Allocation kinds.
const (
	USMHost   = device.USMHost
	USMShared = device.USMShared
	USMDevice = device.USMDevice
)

// Config holds the settings of a Namespace.
type Config struct {
	// Device selects the default device: "", "cpu", "gpu" or "kind:index".
	Device string

	// USMType is the allocation kind of arrays created without one.
	USMType USMType

	// VendorKernels allows the vendor math fast path where the device
	// provides it.
	VendorKernels bool

	// Parallel splits kernel work.
	Parallel ParallelConfig

	// Logger receives dispatch and staging records at debug level.
	// Nil discards them.
	Logger *slog.Logger
}

// DefaultConfig returns the default device, device allocations, vendor
// kernels enabled and parallel kernels.
func DefaultConfig() Config {
	return Config{
		USMType:       USMDevice,
		VendorKernels: true,
		Parallel:      parallel.DefaultConfig(),
	}
}

// ConfigFromEnv returns DefaultConfig overridden by NPX_DEVICE_FILTER,
// NPX_DISABLE_VENDOR and NPX_USM_TYPE.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	if v, ok := os.LookupEnv(EnvDeviceFilter); ok {
		cfg.Device = v
	}
	if v, ok := os.LookupEnv(EnvDisableVendor); ok && v != "" {
		disable, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, errors.Wrapf(ErrValue, "%s: invalid boolean %q", EnvDisableVendor, v)
		}
		cfg.VendorKernels = !disable
	}
	if v, ok := os.LookupEnv(EnvUSMType); ok {
		usm, err := device.ParseUSMType(v)
		if err != nil {
			return Config{}, errors.Wrapf(ErrValue, "%s: %v", EnvUSMType, err)
		}
		cfg.USMType = usm
	}
	return cfg, nil
}
