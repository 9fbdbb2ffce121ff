// Copyright 2017 The CADET Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mbind

import (
	"github.com/blockspacer/CADET/ad"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
)

// Linear implements the linear binding model
//
//	dq_c/dt = ka_c·cp_c - kd_c·q_c
//
// Parameters: LIN_KA, LIN_KD (one entry per component; entries of
// non-binding components are ignored).
type Linear struct {
	nComp   int
	nBound  []int
	bnd0    []int // first bound slot per component; -1 if non-binding
	total   int
	kinetic bool
	qs      []bool
	ka, kd  []ad.Scalar
}

// add model to database
func init() {
	allocators["LINEAR"] = func() Model { return new(Linear) }
}

// Init initialises the model
func (o *Linear) Init(nComp int, nBound []int, kinetic bool, prms map[string][]float64) (err error) {
	for c, nb := range nBound {
		if nb > 1 {
			return chk.Err("LINEAR: component %d declares %d bound states; at most one is supported", c, nb)
		}
	}
	o.nComp, o.kinetic = nComp, kinetic
	o.nBound = nBound
	o.bnd0, o.total = boundIndex(nComp, nBound)
	o.qs = make([]bool, o.total)
	for i := range o.qs {
		o.qs[i] = !kinetic
	}
	ka, err := getArray(prms, "LIN_KA", nComp, "LINEAR")
	if err != nil {
		return
	}
	kd, err := getArray(prms, "LIN_KD", nComp, "LINEAR")
	if err != nil {
		return
	}
	o.ka, o.kd = toDual(ka), toDual(kd)
	return
}

// NumBound returns the total number of bound states
func (o *Linear) NumBound() int { return o.total }

// QuasiStationary flags algebraic bound states
func (o *Linear) QuasiStationary() []bool { return o.qs }

// HasDynamic reports whether any bound state is kinetic
func (o *Linear) HasDynamic() bool { return o.kinetic && o.total > 0 }

// WorkspaceSize returns the scratch requirement of Flux
func (o *Linear) WorkspaceSize() int { return 1 }

// Flux computes the net desorption rate: kd·q - ka·cp
func (o *Linear) Flux(cp, q, res []float64, ws []float64) {
	for c := 0; c < o.nComp; c++ {
		b := o.bnd0[c]
		if b < 0 {
			continue
		}
		res[b] = o.kd[c].V*q[b] - o.ka[c].V*cp[c]
	}
}

// FluxDual is Flux in dual arithmetic
func (o *Linear) FluxDual(cp, q, res []ad.Scalar, ws []ad.Scalar) {
	tmp := &ws[0]
	for c := 0; c < o.nComp; c++ {
		b := o.bnd0[c]
		if b < 0 {
			continue
		}
		res[b].SetV(0)
		res[b].AccMul(o.kd[c], q[b])
		tmp.Mul(o.ka[c], cp[c])
		res[b].Sub(res[b], *tmp)
	}
}

// Jacobian fills the dense flux derivatives
func (o *Linear) Jacobian(cp, q []float64, jacC, jacQ [][]float64, ws []float64) {
	for b := 0; b < o.total; b++ {
		for c := 0; c < o.nComp; c++ {
			jacC[b][c] = 0
		}
		for b2 := 0; b2 < o.total; b2++ {
			jacQ[b][b2] = 0
		}
	}
	for c := 0; c < o.nComp; c++ {
		b := o.bnd0[c]
		if b < 0 {
			continue
		}
		jacC[b][c] = -o.ka[c].V
		jacQ[b][b] = o.kd[c].V
	}
}

// Params exposes the parameter scalars for sensitivity registration
func (o *Linear) Params() map[string][]*ad.Scalar {
	return map[string][]*ad.Scalar{
		"LIN_KA": refs(o.ka),
		"LIN_KD": refs(o.kd),
	}
}

// SetExternalFunctions is a no-op for the plain linear model
func (o *Linear) SetExternalFunctions(fs []fun.Func) {}
