// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package np provides a NumPy-shaped function surface over device arrays.
//
// # Overview
//
// A Namespace owns the settings a NumPy module would keep as process-wide
// state: the default device, the allocation kind of new arrays, whether
// vendor math kernels may be selected and the logger. Every function:
//   - normalizes its arguments (Go scalars are weakly typed)
//   - resolves the buffer and result data types NumPy would pick
//   - validates the output array and its placement
//   - submits kernels in order on the queue shared by its operands
//
// # Basic Usage
//
//	import "github.com/born-ml/npx/np"
//
//	func main() {
//	    ns, err := np.New(np.DefaultConfig())
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    x, _ := ns.Asarray([]float64{1, 2, 3, 4})
//	    y, _ := ns.Multiply(x, 2)                 // weak scalar keeps float64
//	    z, _ := ns.Sin(y, np.Out(y))              // in place
//	    s, _ := ns.FFT(z, np.Norm("ortho"))       // complex128 spectrum
//	    m, _ := ns.Matmul(x, x)                   // inner product, shape ()
//	}
//
// # Options
//
// Keyword arguments are functional options. A function rejects the options
// it does not understand with ErrNotImplemented, like NumPy functions
// reject unexpected keywords.
//
// # Errors
//
// Every error wraps exactly one of ErrNotImplemented, ErrType, ErrValue and
// ErrPlacement; test with errors.Is. Kernel failures surface from
// Array.Wait and from the host reads that wait on the array's queue.
package np
