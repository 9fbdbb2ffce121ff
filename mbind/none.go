// Copyright 2017 The CADET Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mbind

import (
	"github.com/blockspacer/CADET/ad"
	"github.com/cpmech/gosl/fun"
)

// None is the trivial binding model without bound states
type None struct{}

// add model to database
func init() {
	allocators["NONE"] = func() Model { return new(None) }
}

// Init initialises the model
func (o *None) Init(nComp int, nBound []int, kinetic bool, prms map[string][]float64) error {
	return nil
}

// NumBound returns the total number of bound states
func (o *None) NumBound() int { return 0 }

// QuasiStationary flags algebraic bound states
func (o *None) QuasiStationary() []bool { return nil }

// HasDynamic reports whether any bound state is kinetic
func (o *None) HasDynamic() bool { return false }

// WorkspaceSize returns the scratch requirement of Flux
func (o *None) WorkspaceSize() int { return 0 }

// Flux computes the net desorption rate
func (o *None) Flux(cp, q, res []float64, ws []float64) {}

// FluxDual is Flux in dual arithmetic
func (o *None) FluxDual(cp, q, res []ad.Scalar, ws []ad.Scalar) {}

// Jacobian fills the dense flux derivatives
func (o *None) Jacobian(cp, q []float64, jacC, jacQ [][]float64, ws []float64) {}

// Params exposes the parameter scalars for sensitivity registration
func (o *None) Params() map[string][]*ad.Scalar { return nil }

// SetExternalFunctions is a no-op
func (o *None) SetExternalFunctions(fs []fun.Func) {}
