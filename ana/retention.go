// Copyright 2017 The CADET Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ana implements analytical solutions of simple chromatographic
// systems, used as references in tests
package ana

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// RetainedPulse computes the temporal moments of a small concentration pulse
// eluting from a packed column, assuming local equilibrium between the phases
// (equilibrium-dispersive limit). The first moment of the outlet signal is
//
//	μ₁ = tinj + (L/u)・(1 + F・εp・(1 + ((1-εp)/εp)・K))
//
// with the phase ratio F = (1-εc)/εc and the linear equilibrium constant
// K = ka/kd of the component. A tracer that cannot enter the particle pores
// (zero film transfer) has μ₁ = tinj + L/u regardless of porosities.
type RetainedPulse struct {
	L  float64 // column length
	U  float64 // interstitial velocity (positive)
	Ec float64 // column porosity
	Ep float64 // particle porosity
	K  float64 // linear equilibrium constant ka/kd; 0 for an inert tracer

	// options
	Excluded bool // tracer cannot enter the particle pores
}

// Init initialises this structure
func (o *RetainedPulse) Init(L, u, εc, εp, K float64) {
	o.L, o.U, o.Ec, o.Ep, o.K = L, u, εc, εp, K
	if L <= 0 || u <= 0 {
		chk.Panic("RetainedPulse needs positive L and u; got L=%g u=%g", L, u)
	}
}

// RetentionFactor returns the capacity factor k' = (μ₁ - t0)/t0 with
// t0 = L/u the interstitial residence time
func (o RetainedPulse) RetentionFactor() float64 {
	if o.Excluded {
		return 0
	}
	F := (1.0 - o.Ec) / o.Ec
	return F * (o.Ep + (1.0-o.Ep)*o.K)
}

// MeanElutionTime returns the first temporal moment of the outlet signal for
// an injection whose own first moment is tinj
func (o RetainedPulse) MeanElutionTime(tinj float64) float64 {
	t0 := o.L / o.U
	return tinj + t0*(1.0+o.RetentionFactor())
}

// OutletConc evaluates the Gaussian band profile of a Dirac injection of mass
// per bulk volume m at the column outlet, valid for weak apparent dispersion
// Dapp (the equilibrium-dispersive model collapses axial dispersion and all
// mass-transfer resistances into Dapp)
func (o RetainedPulse) OutletConc(m, Dapp, t float64) float64 {
	if t <= 0 {
		return 0
	}
	k := o.RetentionFactor()
	ue := o.U / (1.0 + k)
	De := Dapp / (1.0 + k)
	arg := o.L - ue*t
	return m / (1.0 + k) / math.Sqrt(4.0*math.Pi*De*t) * math.Exp(-arg*arg/(4.0*De*t))
}

// FirstMoment integrates the first temporal moment μ₁ = ∫t·c dt / ∫c dt of a
// sampled outlet signal with the trapezoidal rule
func FirstMoment(t, c []float64) float64 {
	if len(t) != len(c) {
		chk.Panic("FirstMoment needs len(t)=len(c); got %d and %d", len(t), len(c))
	}
	var m0, m1 float64
	for i := 1; i < len(t); i++ {
		dt := t[i] - t[i-1]
		m0 += 0.5 * (c[i] + c[i-1]) * dt
		m1 += 0.5 * (t[i]*c[i] + t[i-1]*c[i-1]) * dt
	}
	if m0 == 0 {
		chk.Panic("FirstMoment: signal has zero area")
	}
	return m1 / m0
}
