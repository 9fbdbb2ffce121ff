// Copyright 2017 The CADET Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grm

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func Test_conds01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("conds01. consistent initialisation of a kinetic column")

	col := linColumn(true, 0)
	ndof := col.NumDofs()
	nc := col.NumComp()
	y := make([]float64, ndof)
	yDot := make([]float64, ndof)

	if err := col.ApplyInitialConditions(y, yDot); err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	if err := col.ConsistentInitState(0, y, 1e-10); err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	col.ConsistentInitTimeDeriv(0, y, yDot)

	// algebraic rows must keep a zero time derivative
	for c := 0; c < nc; c++ {
		chk.Scalar(tst, io.Sf("yDot inlet %d", c), 1e-15, yDot[c], 0)
	}
	for i := col.disc.OffsetJf(); i < ndof; i++ {
		chk.Scalar(tst, io.Sf("yDot flux %d", i), 1e-15, yDot[i], 0)
	}

	// the residual vanishes on every dynamic and algebraic row; the inlet
	// identities report the state itself
	res := make([]float64, ndof)
	if status := col.Residual(0, y, yDot, res, false); status != 0 {
		tst.Errorf("test failed: residual returned status %d\n", status)
		return
	}
	for c := 0; c < nc; c++ {
		chk.Scalar(tst, io.Sf("res inlet %d", c), 1e-15, res[c], y[c])
	}
	zeros := make([]float64, ndof-nc)
	chk.Vector(tst, "res after init", 1e-12, res[nc:], zeros)
}

func Test_conds02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("conds02. rapid-equilibrium initialisation")

	col := qsColumn()
	ndof := col.NumDofs()
	nc := col.NumComp()
	y := make([]float64, ndof)
	yDot := make([]float64, ndof)

	if err := col.ApplyInitialConditions(y, yDot); err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	if err := col.ConsistentInitState(0, y, 1e-10); err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}

	// the equilibrium of the multi-component Langmuir isotherm has a closed
	// form at fixed mobile concentrations: q_i = qmax_i a_i cp_i / (1 + sum_j a_j cp_j)
	ka := []float64{1.2, 0.9}
	kd := []float64{1.0, 1.5}
	qmax := []float64{4.0, 5.0}
	cp := []float64{1.0, 0.7}
	S := 0.0
	for j := 0; j < nc; j++ {
		S += ka[j] / kd[j] * cp[j]
	}
	qex := make([]float64, nc)
	for i := 0; i < nc; i++ {
		qex[i] = ka[i] / kd[i] * cp[i] * qmax[i] / (1 + S)
	}

	sb := col.disc.StrideBound[0]
	sh := col.disc.StrideParShell(0)
	bnd := col.par[0].binding
	flux := make([]float64, sb)
	ws := make([]float64, bnd.WorkspaceSize())
	for k := 0; k < col.disc.NCol; k++ {
		for s := 0; s < col.disc.NParCell[0]; s++ {
			lo := col.disc.OffsetCpShell(0, k, s)
			for c := 0; c < nc; c++ {
				chk.Scalar(tst, io.Sf("cp pinned %d %d %d", k, s, c), 1e-12, y[lo+c], cp[c])
				chk.Scalar(tst, io.Sf("q eq %d %d %d", k, s, c), 1e-8, y[lo+nc+c], qex[c])
			}
			bnd.Flux(y[lo:lo+nc], y[lo+nc:lo+sh], flux, ws)
			for b := 0; b < sb; b++ {
				chk.Scalar(tst, io.Sf("binding flux %d %d %d", k, s, b), 1e-8, flux[b], 0)
			}
		}
	}

	// second half of the initialisation: the state derivative
	col.ConsistentInitTimeDeriv(0, y, yDot)
	res := make([]float64, ndof)
	if status := col.Residual(0, y, yDot, res, false); status != 0 {
		tst.Errorf("test failed: residual returned status %d\n", status)
		return
	}
	zeros := make([]float64, ndof-nc)
	chk.Vector(tst, "res after init", 1e-8, res[nc:], zeros)

	// quasi-stationary rows carry no time derivative
	for k := 0; k < col.disc.NCol; k++ {
		for s := 0; s < col.disc.NParCell[0]; s++ {
			lo := col.disc.OffsetCpShell(0, k, s)
			for b := 0; b < sb; b++ {
				chk.Scalar(tst, io.Sf("yDot qs %d %d %d", k, s, b), 1e-15, yDot[lo+nc+b], 0)
			}
		}
	}
}

func Test_conds03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("conds03. lean initialisation only refreshes the fluxes")

	col := twoTypeColumn()
	ndof := col.NumDofs()
	nc := col.NumComp()
	y := make([]float64, ndof)
	fillState(y)
	ybak := make([]float64, ndof)
	copy(ybak, y)

	col.ConsistentInitStateLean(0, y)

	// everything below the flux block is untouched
	offJf := col.disc.OffsetJf()
	chk.Vector(tst, "state before fluxes", 1e-17, y[:offJf], ybak[:offJf])

	// flux DOFs equal the film driving force
	offC := col.disc.OffsetC()
	for t := 0; t < col.disc.NParType; t++ {
		for c := 0; c < nc; c++ {
			kf := col.filmCoeff(0, t, c)
			for k := 0; k < col.disc.NCol; k++ {
				eqF := col.disc.OffsetJfTyped(t, k) + c
				want := kf * (y[offC+k*nc+c] - y[col.disc.OffsetCp(t, k)+c])
				chk.Scalar(tst, io.Sf("flux %d %d %d", t, k, c), 1e-14, y[eqF], want)
			}
		}
	}
}
