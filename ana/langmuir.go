// Copyright 2017 The CADET Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import "github.com/cpmech/gosl/chk"

// CompetitiveLangmuir computes the multi-component Langmuir isotherm
//
//	qᵢ = qmaxᵢ・bᵢ・cᵢ / (1 + Σⱼ bⱼ・cⱼ)     bᵢ = kaᵢ/kdᵢ
//
// which is the quasi-stationary limit of the MULTI_COMPONENT_LANGMUIR
// binding kinetics
type CompetitiveLangmuir struct {
	Ka   []float64 // adsorption rates
	Kd   []float64 // desorption rates
	Qmax []float64 // saturation capacities
}

// Init initialises this structure
func (o *CompetitiveLangmuir) Init(ka, kd, qmax []float64) {
	if len(kd) != len(ka) || len(qmax) != len(ka) {
		chk.Panic("CompetitiveLangmuir needs equally sized ka, kd and qmax; got %d, %d, %d", len(ka), len(kd), len(qmax))
	}
	o.Ka, o.Kd, o.Qmax = ka, kd, qmax
}

// Equilibrium returns the bound concentrations in equilibrium with the given
// liquid concentrations
func (o CompetitiveLangmuir) Equilibrium(c []float64) (q []float64) {
	den := 1.0
	for j, cj := range c {
		den += o.Ka[j] / o.Kd[j] * cj
	}
	q = make([]float64, len(c))
	for i, ci := range c {
		q[i] = o.Qmax[i] * o.Ka[i] / o.Kd[i] * ci / den
	}
	return
}

// Residual evaluates the kinetic fluxes ka・c・(qmax - Σq) - kd・q at the
// given state; the fluxes vanish at the equilibrium point
func (o CompetitiveLangmuir) Residual(c, q []float64) (f []float64) {
	f = make([]float64, len(c))
	for i := range c {
		free := 1.0
		for j := range q {
			free -= q[j] / o.Qmax[j]
		}
		f[i] = o.Ka[i]*c[i]*o.Qmax[i]*free - o.Kd[i]*q[i]
	}
	return
}
