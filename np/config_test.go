// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package np_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/npx/np"
)

func TestDefaultConfig(t *testing.T) {
	cfg := np.DefaultConfig()
	assert.Empty(t, cfg.Device)
	assert.Equal(t, np.USMDevice, cfg.USMType)
	assert.True(t, cfg.VendorKernels)
	assert.Nil(t, cfg.Logger)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv(np.EnvDeviceFilter, "cpu:0")
	t.Setenv(np.EnvDisableVendor, "1")
	t.Setenv(np.EnvUSMType, "shared")

	cfg, err := np.ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "cpu:0", cfg.Device)
	assert.False(t, cfg.VendorKernels)
	assert.Equal(t, np.USMShared, cfg.USMType)

	ns, err := np.New(cfg)
	require.NoError(t, err)
	x, err := ns.Zeros(np.Shape{2})
	require.NoError(t, err)
	assert.Equal(t, np.USMShared, x.USMType())
	assert.Same(t, ns.Queue(), x.Queue())
}

func TestConfigFromEnv_Invalid(t *testing.T) {
	t.Run("vendor flag", func(t *testing.T) {
		t.Setenv(np.EnvDisableVendor, "maybe")
		_, err := np.ConfigFromEnv()
		require.ErrorIs(t, err, np.ErrValue)
	})

	t.Run("usm type", func(t *testing.T) {
		t.Setenv(np.EnvUSMType, "pinned")
		_, err := np.ConfigFromEnv()
		require.ErrorIs(t, err, np.ErrValue)
	})
}

func TestNew_UnknownDevice(t *testing.T) {
	cfg := np.DefaultConfig()
	cfg.Device = "cpu:7"
	_, err := np.New(cfg)
	require.ErrorIs(t, err, np.ErrPlacement)
}
