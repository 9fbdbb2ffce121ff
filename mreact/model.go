// Copyright 2017 The CADET Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mreact implements dynamic reaction models that add net production
// rates to the transport residuals. Bulk cells see the liquid phase only;
// particle shells see the combined liquid and solid phases of one cell,
// ordered mobile components first, then bound states.
package mreact

import (
	"github.com/blockspacer/CADET/ad"
	"github.com/cpmech/gosl/chk"
)

// Model defines net production rates. Callers pass a factor that carries the
// sign and any phase scaling of the enclosing residual; rates are accumulated,
// never assigned. A unit without reactions holds no Model at all.
type Model interface {

	// Init initialises the model with nComp components, the number of bound
	// states per component, and the raw parameter arrays
	Init(nComp int, nBound []int, prms map[string][]float64) error

	// NumLiquid returns the number of reactions active in liquid-only cells
	NumLiquid() int

	// NumCombined returns the number of reactions active in combined cells
	NumCombined() int

	// WorkspaceSize returns the scratch length required by the rate kernels
	WorkspaceSize() int

	// ResidualLiquidAdd accumulates factor times the liquid production rates
	// into res[0:nComp]
	ResidualLiquidAdd(c, res []float64, factor float64, ws []float64)

	// ResidualLiquidAddDual is ResidualLiquidAdd in dual arithmetic
	ResidualLiquidAddDual(c, res []ad.Scalar, factor float64, ws []ad.Scalar)

	// JacobianLiquidAdd accumulates factor times the rate derivatives into the
	// dense block jac with shape nComp by nComp
	JacobianLiquidAdd(c []float64, factor float64, jac [][]float64, ws []float64)

	// ResidualCombinedAdd accumulates factor times the production rates of one
	// particle cell into res; y and res hold nComp mobile entries followed by
	// the bound states
	ResidualCombinedAdd(y, res []float64, factor float64, ws []float64)

	// ResidualCombinedAddDual is ResidualCombinedAdd in dual arithmetic
	ResidualCombinedAddDual(y, res []ad.Scalar, factor float64, ws []ad.Scalar)

	// JacobianCombinedAdd accumulates factor times the rate derivatives into
	// the dense block jac with shape (nComp+nBound) by (nComp+nBound)
	JacobianCombinedAdd(y []float64, factor float64, jac [][]float64, ws []float64)

	// Params exposes the parameter scalars for sensitivity registration
	Params() map[string][]*ad.Scalar
}

// allocators holds the available reaction models
var allocators = map[string]func() Model{}

// New returns a new reaction model. Callers map an absent or "NONE" model
// name to a nil Model before reaching this factory.
func New(name string) (Model, error) {
	alloc, ok := allocators[name]
	if !ok {
		return nil, chk.Err("reaction model %q is not available in 'mreact' database", name)
	}
	return alloc(), nil
}

// getArray fetches a parameter array and checks its length
func getArray(prms map[string][]float64, key string, n int, model string) ([]float64, error) {
	v, ok := prms[key]
	if !ok {
		return nil, chk.Err("%s: parameter array %q is missing", model, key)
	}
	if len(v) != n {
		return nil, chk.Err("%s: parameter array %q must have %d entries, not %d", model, key, n, len(v))
	}
	return v, nil
}

// toDual converts a plain array into constant-free dual scalars
func toDual(v []float64) []ad.Scalar {
	d := make([]ad.Scalar, len(v))
	for i, x := range v {
		d[i].V = x
	}
	return d
}

// refs collects addressable references to the scalars
func refs(v []ad.Scalar) []*ad.Scalar {
	r := make([]*ad.Scalar, len(v))
	for i := range v {
		r[i] = &v[i]
	}
	return r
}
