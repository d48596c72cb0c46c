// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package np

import (
	"log/slog"

	"github.com/born-ml/npx/internal/device"
	"github.com/born-ml/npx/internal/dtype"
	"github.com/born-ml/npx/internal/errs"
	"github.com/born-ml/npx/internal/fft"
	"github.com/born-ml/npx/internal/linalg"
	"github.com/born-ml/npx/internal/ndarray"
	"github.com/born-ml/npx/internal/ufunc"
)

// Array is a strided array resident on a device queue.
type Array = ndarray.Array

// Shape is the shape of an array.
type Shape = ndarray.Shape

// DType is an array element type.
type DType = dtype.DType

// Queue orders the kernels submitted to one device.
type Queue = device.Queue

// Data types.
const (
	Bool       = dtype.Bool
	Int8       = dtype.Int8
	Uint8      = dtype.Uint8
	Int16      = dtype.Int16
	Uint16     = dtype.Uint16
	Int32      = dtype.Int32
	Uint32     = dtype.Uint32
	Int64      = dtype.Int64
	Uint64     = dtype.Uint64
	Float16    = dtype.Float16
	Float32    = dtype.Float32
	Float64    = dtype.Float64
	Complex64  = dtype.Complex64
	Complex128 = dtype.Complex128
)

// Error categories. Every error returned by a Namespace wraps one of them.
var (
	ErrNotImplemented = errs.ErrNotImplemented
	ErrType           = errs.ErrType
	ErrValue          = errs.ErrValue
	ErrPlacement      = errs.ErrPlacement
)

// Namespace is a NumPy-like module bound to one Config.
type Namespace struct {
	cfg     Config
	queue   *Queue
	logger  *slog.Logger
	env     *ufunc.Env
	cat     *ufunc.Catalog
	reducer *ufunc.Reducer
	linalg  *linalg.LinAlg
	fft     *fft.FFT
}

// New creates a Namespace from cfg. The device filter must match a visible
// device.
func New(cfg Config) (*Namespace, error) {
	dev, err := device.Select(cfg.Device)
	if err != nil {
		return nil, errs.Placement("%s", err.Error())
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	env := ufunc.NewEnv(cfg.Parallel, cfg.VendorKernels, logger)
	cat := ufunc.NewCatalog(env)
	logger.Debug("namespace created", "device", dev.String(), "usm_type", cfg.USMType, "vendor", cfg.VendorKernels && dev.HasVendorMath())
	return &Namespace{
		cfg:     cfg,
		queue:   device.DefaultQueue(dev),
		logger:  logger,
		env:     env,
		cat:     cat,
		reducer: ufunc.NewReducer(env),
		linalg:  linalg.New(cfg.Parallel, logger),
		fft:     fft.New(cat.Divide, logger),
	}, nil
}

// Config returns the settings of the namespace.
func (ns *Namespace) Config() Config { return ns.cfg }

// Queue returns the default queue of the namespace.
func (ns *Namespace) Queue() *Queue { return ns.queue }

// DefaultFloat returns the default floating type of the namespace device.
func (ns *Namespace) DefaultFloat() DType { return dtype.DefaultFloat(ns.queue.Device()) }

// DefaultInt returns the default integer type of the namespace device.
func (ns *Namespace) DefaultInt() DType { return dtype.DefaultInt(ns.queue.Device()) }
