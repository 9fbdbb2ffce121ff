// Copyright 2017 The CADET Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mbind implements adsorption (binding) models: the nonlinear
// relation between mobile-phase and bound-state concentrations inside the
// particles. Models are registered in a database and selected by name.
//
// Sign convention: Flux computes the net desorption rate, so dynamic bound
// states obey dq/dt + flux = 0 and quasi-stationary ones obey flux = 0.
package mbind

import (
	"github.com/blockspacer/CADET/ad"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
)

// Model defines the binding-model interface. A model instance is configured
// once for a particle type and may be shared (by reference) among types when
// multiplexed.
type Model interface {

	// Init configures the model for nComp components with nBound[c] bound
	// states per component. kinetic selects rate form (true) or
	// quasi-stationary equilibria (false). prms maps uppercase parameter
	// keys to per-component (or per-bound-state) arrays.
	Init(nComp int, nBound []int, kinetic bool, prms map[string][]float64) error

	// NumBound returns the total number of bound states
	NumBound() int

	// QuasiStationary flags each bound state whose equation is algebraic
	QuasiStationary() []bool

	// HasDynamic reports whether any bound state is kinetic
	HasDynamic() bool

	// WorkspaceSize returns the number of scratch scalars Flux needs
	WorkspaceSize() int

	// Flux computes the net desorption rate for each bound state.
	// cp has nComp entries, q and res have NumBound entries.
	Flux(cp, q, res []float64, ws []float64)

	// FluxDual is Flux in dual-number arithmetic; model parameters
	// propagate their own derivative directions
	FluxDual(cp, q, res []ad.Scalar, ws []ad.Scalar)

	// Jacobian fills jacC = ∂flux/∂cp (NumBound×nComp) and
	// jacQ = ∂flux/∂q (NumBound×NumBound)
	Jacobian(cp, q []float64, jacC, jacQ [][]float64, ws []float64)

	// Params exposes the live parameter scalars by uppercase key for
	// sensitivity registration; slot order is component-major
	Params() map[string][]*ad.Scalar

	// SetExternalFunctions passes externally defined profiles to models
	// that modulate their parameters; plain models ignore them
	SetExternalFunctions(fs []fun.Func)
}

// allocators holds the database of available models
var allocators = map[string]func() Model{}

// New returns a new binding model by name
func New(name string) (Model, error) {
	if alloc, ok := allocators[name]; ok {
		return alloc(), nil
	}
	return nil, chk.Err("binding model %q is not available in 'mbind' database", name)
}

// boundIndex builds the map from component to bound-state slot: out[c] is
// the first slot of component c, or -1 for non-binding components
func boundIndex(nComp int, nBound []int) (out []int, total int) {
	out = make([]int, nComp)
	for c := 0; c < nComp; c++ {
		if nBound[c] > 0 {
			out[c] = total
			total += nBound[c]
		} else {
			out[c] = -1
		}
	}
	return
}

// getArray fetches a required key of exactly n entries from prms
func getArray(prms map[string][]float64, key string, n int, model string) ([]float64, error) {
	v, ok := prms[key]
	if !ok {
		return nil, chk.Err("%s: field %s is missing (%d entries required)", model, key, n)
	}
	if len(v) != n {
		return nil, chk.Err("%s: field %s has %d entries but %d are required", model, key, len(v), n)
	}
	return v, nil
}

// toDual copies a float64 array into freshly allocated parameter scalars
func toDual(v []float64) []ad.Scalar {
	out := make([]ad.Scalar, len(v))
	for i := range v {
		out[i].V = v[i]
	}
	return out
}

// refs builds the slice of pointers exposed by Params
func refs(v []ad.Scalar) []*ad.Scalar {
	out := make([]*ad.Scalar, len(v))
	for i := range v {
		out[i] = &v[i]
	}
	return out
}
