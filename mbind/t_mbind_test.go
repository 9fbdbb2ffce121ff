// Copyright 2017 The CADET Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mbind

import (
	"testing"

	"github.com/blockspacer/CADET/ad"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/num"
)

func init() {
	io.Verbose = false
}

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

func Test_mbind01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("mbind01. database and linear model")

	if _, err := New("invalid"); err == nil {
		tst.Errorf("New should have failed with unknown model name\n")
		return
	}

	mdl, err := New("LINEAR")
	if err != nil {
		tst.Errorf("New failed: %v\n", err)
		return
	}
	nComp := 3
	nBound := []int{1, 0, 1}
	prms := map[string][]float64{
		"LIN_KA": {1.5, 0, 2.5},
		"LIN_KD": {0.1, 0, 0.2},
	}
	if err = mdl.Init(nComp, nBound, true, prms); err != nil {
		tst.Errorf("cannot initialise model: %v\n", err)
		return
	}
	chk.IntAssert(mdl.NumBound(), 2)
	if !mdl.HasDynamic() {
		tst.Errorf("kinetic model must report dynamic bound states\n")
		return
	}

	cp := []float64{1.0, 0.5, 2.0}
	q := []float64{3.0, 4.0}
	res := make([]float64, 2)
	ws := make([]float64, mdl.WorkspaceSize())
	mdl.Flux(cp, q, res, ws)
	chk.Scalar(tst, "flux0", 1e-15, res[0], 0.1*3.0-1.5*1.0)
	chk.Scalar(tst, "flux1", 1e-15, res[1], 0.2*4.0-2.5*2.0)

	// missing parameter array
	mdl2, _ := New("LINEAR")
	if err = mdl2.Init(nComp, nBound, true, map[string][]float64{"LIN_KA": {1, 1, 1}}); err == nil {
		tst.Errorf("Init should have failed with missing LIN_KD\n")
		return
	}
	io.Pforan("expected failure: %v\n", err)
}

func Test_mbind02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("mbind02. Langmuir flux and Jacobian")

	mdl, err := New("MULTI_COMPONENT_LANGMUIR")
	if err != nil {
		tst.Errorf("New failed: %v\n", err)
		return
	}
	nComp := 3
	nBound := []int{1, 1, 1}
	prms := map[string][]float64{
		"MCL_KA":   {1.14, 2.0, 0.5},
		"MCL_KD":   {0.2, 0.8, 1.1},
		"MCL_QMAX": {4.88, 3.5, 2.2},
	}
	if err = mdl.Init(nComp, nBound, true, prms); err != nil {
		tst.Errorf("cannot initialise model: %v\n", err)
		return
	}
	nb := mdl.NumBound()
	chk.IntAssert(nb, 3)

	cp := []float64{1.2, 0.3, 0.9}
	q := []float64{0.5, 1.1, 0.2}
	res := make([]float64, nb)
	ws := make([]float64, mdl.WorkspaceSize())
	mdl.Flux(cp, q, res, ws)

	free := 1.0 - 0.5/4.88 - 1.1/3.5 - 0.2/2.2
	chk.Scalar(tst, "flux0", 1e-14, res[0], 0.2*0.5-1.14*1.2*4.88*free)
	chk.Scalar(tst, "flux1", 1e-14, res[1], 0.8*1.1-2.0*0.3*3.5*free)
	chk.Scalar(tst, "flux2", 1e-14, res[2], 1.1*0.2-0.5*0.9*2.2*free)

	// analytic versus numerical Jacobian
	jacC := make([][]float64, nb)
	jacQ := make([][]float64, nb)
	for b := 0; b < nb; b++ {
		jacC[b] = make([]float64, nComp)
		jacQ[b] = make([]float64, nb)
	}
	mdl.Jacobian(cp, q, jacC, jacQ, ws)
	tmp := make([]float64, nb)
	for b := 0; b < nb; b++ {
		for c := 0; c < nComp; c++ {
			dnum, _ := num.DerivCentral(func(x float64, args ...interface{}) float64 {
				hold := cp[c]
				cp[c] = x
				mdl.Flux(cp, q, tmp, ws)
				cp[c] = hold
				return tmp[b]
			}, cp[c], 1e-6)
			chk.AnaNum(tst, io.Sf("jacC[%d][%d]", b, c), 1e-8, jacC[b][c], dnum, chk.Verbose)
		}
		for b2 := 0; b2 < nb; b2++ {
			dnum, _ := num.DerivCentral(func(x float64, args ...interface{}) float64 {
				hold := q[b2]
				q[b2] = x
				mdl.Flux(cp, q, tmp, ws)
				q[b2] = hold
				return tmp[b]
			}, q[b2], 1e-6)
			chk.AnaNum(tst, io.Sf("jacQ[%d][%d]", b, b2), 1e-8, jacQ[b][b2], dnum, chk.Verbose)
		}
	}

	// dual flux must reproduce value and analytic Jacobian
	ndir := nComp + nb
	cpD := ad.NewVector(nComp, ndir)
	qD := ad.NewVector(nb, ndir)
	resD := ad.NewVector(nb, ndir)
	wsD := ad.NewVector(mdl.WorkspaceSize(), ndir)
	for c := 0; c < nComp; c++ {
		cpD[c].V = cp[c]
		cpD[c].D[c] = 1
	}
	for b := 0; b < nb; b++ {
		qD[b].V = q[b]
		qD[b].D[nComp+b] = 1
	}
	mdl.FluxDual(cpD, qD, resD, wsD)
	for b := 0; b < nb; b++ {
		chk.Scalar(tst, io.Sf("dual res[%d]", b), 1e-14, resD[b].V, res[b])
		for c := 0; c < nComp; c++ {
			chk.Scalar(tst, io.Sf("dual jacC[%d][%d]", b, c), 1e-14, resD[b].D[c], jacC[b][c])
		}
		for b2 := 0; b2 < nb; b2++ {
			chk.Scalar(tst, io.Sf("dual jacQ[%d][%d]", b, b2), 1e-14, resD[b].D[nComp+b2], jacQ[b][b2])
		}
	}
}

func Test_mbind03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("mbind03. Langmuir equilibrium")

	mdl, err := New("MULTI_COMPONENT_LANGMUIR")
	if err != nil {
		tst.Errorf("New failed: %v\n", err)
		return
	}
	nComp := 2
	ka := []float64{2.0, 1.0}
	kd := []float64{1.0, 0.5}
	qm := []float64{10.0, 8.0}
	prms := map[string][]float64{"MCL_KA": ka, "MCL_KD": kd, "MCL_QMAX": qm}
	if err = mdl.Init(nComp, []int{1, 1}, false, prms); err != nil {
		tst.Errorf("cannot initialise model: %v\n", err)
		return
	}
	if mdl.HasDynamic() {
		tst.Errorf("rapid-equilibrium model must not report dynamic bound states\n")
		return
	}
	for _, qs := range mdl.QuasiStationary() {
		if !qs {
			tst.Errorf("all bound states must be quasi-stationary\n")
			return
		}
	}

	// closed-form isotherm zeroes the flux
	for _, cp := range [][]float64{{0.1, 0.2}, {1.0, 0.5}, {3.0, 4.0}} {
		den := 1.0
		for c := 0; c < nComp; c++ {
			den += ka[c] / kd[c] * cp[c]
		}
		q := make([]float64, 2)
		for c := 0; c < nComp; c++ {
			q[c] = qm[c] * ka[c] / kd[c] * cp[c] / den
		}
		res := make([]float64, 2)
		ws := make([]float64, mdl.WorkspaceSize())
		mdl.Flux(cp, q, res, ws)
		chk.Vector(tst, io.Sf("flux(cp=%v)", cp), 1e-13, res, []float64{0, 0})
	}
}

func Test_mbind04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("mbind04. none model")

	mdl, err := New("NONE")
	if err != nil {
		tst.Errorf("New failed: %v\n", err)
		return
	}
	if err = mdl.Init(2, []int{0, 0}, true, nil); err != nil {
		tst.Errorf("cannot initialise model: %v\n", err)
		return
	}
	chk.IntAssert(mdl.NumBound(), 0)
	if mdl.HasDynamic() {
		tst.Errorf("model without bound states cannot be dynamic\n")
	}
}

func Test_mbind05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("mbind05. multiple bound states per component are rejected")

	// a second bound slot would never receive a flux, leaving its
	// equilibrium row identically zero
	prms := map[string][]float64{
		"LIN_KA": {1.5, 2.5},
		"LIN_KD": {0.1, 0.2},
	}
	mdl, _ := New("LINEAR")
	if err := mdl.Init(2, []int{2, 1}, false, prms); err == nil {
		tst.Errorf("LINEAR should have rejected nBound=2\n")
		return
	} else {
		io.Pforan("expected failure: %v\n", err)
	}

	prms = map[string][]float64{
		"MCL_KA":   {1.5, 2.5},
		"MCL_KD":   {0.1, 0.2},
		"MCL_QMAX": {5.0, 4.0},
	}
	mdl, _ = New("MULTI_COMPONENT_LANGMUIR")
	if err := mdl.Init(2, []int{1, 2}, false, prms); err == nil {
		tst.Errorf("MULTI_COMPONENT_LANGMUIR should have rejected nBound=2\n")
		return
	} else {
		io.Pforan("expected failure: %v\n", err)
	}
}
