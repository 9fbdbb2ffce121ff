// Copyright 2017 The CADET Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mbind

import (
	"github.com/blockspacer/CADET/ad"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
)

// Langmuir implements the multi-component Langmuir model
//
//	dq_c/dt = ka_c·cp_c·qmax_c·(1 - Σ_j q_j/qmax_j) - kd_c·q_c
//
// Parameters: MCL_KA, MCL_KD, MCL_QMAX (one entry per component; entries of
// non-binding components are ignored). The saturation sum runs over binding
// components only.
type Langmuir struct {
	nComp        int
	nBound       []int
	bnd0         []int
	total        int
	kinetic      bool
	qs           []bool
	ka, kd, qmax []ad.Scalar
}

// add model to database
func init() {
	allocators["MULTI_COMPONENT_LANGMUIR"] = func() Model { return new(Langmuir) }
}

// Init initialises the model
func (o *Langmuir) Init(nComp int, nBound []int, kinetic bool, prms map[string][]float64) (err error) {
	for c, nb := range nBound {
		if nb > 1 {
			return chk.Err("MULTI_COMPONENT_LANGMUIR: component %d declares %d bound states; at most one is supported", c, nb)
		}
	}
	o.nComp, o.kinetic = nComp, kinetic
	o.nBound = nBound
	o.bnd0, o.total = boundIndex(nComp, nBound)
	o.qs = make([]bool, o.total)
	for i := range o.qs {
		o.qs[i] = !kinetic
	}
	ka, err := getArray(prms, "MCL_KA", nComp, "MULTI_COMPONENT_LANGMUIR")
	if err != nil {
		return
	}
	kd, err := getArray(prms, "MCL_KD", nComp, "MULTI_COMPONENT_LANGMUIR")
	if err != nil {
		return
	}
	qm, err := getArray(prms, "MCL_QMAX", nComp, "MULTI_COMPONENT_LANGMUIR")
	if err != nil {
		return
	}
	o.ka, o.kd, o.qmax = toDual(ka), toDual(kd), toDual(qm)
	return
}

// NumBound returns the total number of bound states
func (o *Langmuir) NumBound() int { return o.total }

// QuasiStationary flags algebraic bound states
func (o *Langmuir) QuasiStationary() []bool { return o.qs }

// HasDynamic reports whether any bound state is kinetic
func (o *Langmuir) HasDynamic() bool { return o.kinetic && o.total > 0 }

// WorkspaceSize returns the scratch requirement of Flux
func (o *Langmuir) WorkspaceSize() int { return 2 }

// Flux computes the net desorption rate
func (o *Langmuir) Flux(cp, q, res []float64, ws []float64) {
	free := 1.0
	for c := 0; c < o.nComp; c++ {
		if b := o.bnd0[c]; b >= 0 {
			free -= q[b] / o.qmax[c].V
		}
	}
	for c := 0; c < o.nComp; c++ {
		b := o.bnd0[c]
		if b < 0 {
			continue
		}
		res[b] = o.kd[c].V*q[b] - o.ka[c].V*cp[c]*o.qmax[c].V*free
	}
}

// FluxDual is Flux in dual arithmetic
func (o *Langmuir) FluxDual(cp, q, res []ad.Scalar, ws []ad.Scalar) {
	free, tmp := &ws[0], &ws[1]
	free.SetV(1)
	for c := 0; c < o.nComp; c++ {
		if b := o.bnd0[c]; b >= 0 {
			tmp.Div(q[b], o.qmax[c])
			free.Sub(*free, *tmp)
		}
	}
	for c := 0; c < o.nComp; c++ {
		b := o.bnd0[c]
		if b < 0 {
			continue
		}
		res[b].SetV(0)
		res[b].AccMul(o.kd[c], q[b])
		tmp.Mul(o.ka[c], cp[c])
		tmp.Mul(*tmp, o.qmax[c])
		tmp.Mul(*tmp, *free)
		res[b].Sub(res[b], *tmp)
	}
}

// Jacobian fills the dense flux derivatives
func (o *Langmuir) Jacobian(cp, q []float64, jacC, jacQ [][]float64, ws []float64) {
	free := 1.0
	for c := 0; c < o.nComp; c++ {
		if b := o.bnd0[c]; b >= 0 {
			free -= q[b] / o.qmax[c].V
		}
	}
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
		ka, kd, qm := o.ka[c].V, o.kd[c].V, o.qmax[c].V
		jacC[b][c] = -ka * qm * free
		for j := 0; j < o.nComp; j++ {
			if bj := o.bnd0[j]; bj >= 0 {
				jacQ[b][bj] = ka * cp[c] * qm / o.qmax[j].V
			}
		}
		jacQ[b][b] += kd
	}
}

// Params exposes the parameter scalars for sensitivity registration
func (o *Langmuir) Params() map[string][]*ad.Scalar {
	return map[string][]*ad.Scalar{
		"MCL_KA":   refs(o.ka),
		"MCL_KD":   refs(o.kd),
		"MCL_QMAX": refs(o.qmax),
	}
}

// SetExternalFunctions is a no-op for the plain Langmuir model
func (o *Langmuir) SetExternalFunctions(fs []fun.Func) {}
