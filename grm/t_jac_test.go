// Copyright 2017 The CADET Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grm

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
)

func Test_jac01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("jac01. analytic Jacobian vs numerical derivatives: linear binding")

	col := linColumn(true, 0)
	y := make([]float64, col.NumDofs())
	yDot := make([]float64, col.NumDofs())
	fillState(y)

	o := JacCheck{Tst: tst, Tol: 1e-6}
	o.Check("J", col, 0, y, yDot)
}

func Test_jac02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("jac02. analytic Jacobian vs numerical derivatives: Langmuir and surface diffusion")

	col := lgmColumn(true, 0)
	y := make([]float64, col.NumDofs())
	yDot := make([]float64, col.NumDofs())
	fillState(y)

	o := JacCheck{Tst: tst, Tol: 1e-6}
	o.Check("J", col, 0, y, yDot)
}

func Test_jac03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("jac03. dual-number Jacobian equals the analytic one")

	ana := lgmColumn(true, 0)
	dua := lgmColumn(false, 0)

	y := make([]float64, ana.NumDofs())
	yDot := make([]float64, ana.NumDofs())
	fillState(y)
	fillState(yDot)
	resA := make([]float64, ana.NumDofs())
	resD := make([]float64, ana.NumDofs())

	if status := ana.Residual(0, y, yDot, resA, true); status != 0 {
		tst.Errorf("analytic residual failed with status %d\n", status)
		return
	}
	if status := dua.Residual(0, y, yDot, resD, true); status != 0 {
		tst.Errorf("dual residual failed with status %d\n", status)
		return
	}
	chk.Vector(tst, "residual", 1e-13, resD, resA)

	chk.Matrix(tst, "bulk block", 1e-10, dua.convDisp.Jac().Dense(), ana.convDisp.Jac().Dense())
	for t := 0; t < ana.disc.NParType; t++ {
		for k := 0; k < ana.disc.NCol; k++ {
			i := t*ana.disc.NCol + k
			chk.Matrix(tst, io.Sf("particle block %d,%d", t, k), 1e-10,
				dua.jacP[i].Dense(), ana.jacP[i].Dense())
		}
	}
}

func Test_jac04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("jac04. matrix-free product vs assembled Jacobian")

	col := twoTypeColumn()
	ndof := col.NumDofs()
	y := make([]float64, ndof)
	yDot := make([]float64, ndof)
	fillState(y)
	res := make([]float64, ndof)
	if status := col.Residual(0, y, yDot, res, true); status != 0 {
		tst.Errorf("residual failed with status %d\n", status)
		return
	}

	var T la.Triplet
	T.Init(ndof, ndof, col.JacTripletLen())
	col.AddJacTo(&T, 0)
	K := T.ToMatrix(nil).ToDense()

	v := make([]float64, ndof)
	fillState(v)
	want := make([]float64, ndof)
	la.MatVecMul(want, 1, K, v)

	ret := make([]float64, ndof)
	col.MultiplyJac(v, 1, 0, ret)
	chk.Vector(tst, "J*v", 1e-12, ret, want)

	// accumulate with scaling
	prev := make([]float64, ndof)
	copy(prev, ret)
	col.MultiplyJac(v, 2.5, 0.5, ret)
	for i := range want {
		want[i] = 0.5*prev[i] + 2.5*want[i]
	}
	chk.Vector(tst, "0.5*ret + 2.5*J*v", 1e-12, ret, want)
}

func Test_jac05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("jac05. mass matrix action")

	// kinetic column: numerical derivative with respect to yDot
	col := linColumn(true, 0)
	y := make([]float64, col.NumDofs())
	yDot := make([]float64, col.NumDofs())
	fillState(y)
	fillState(yDot)
	o := JacCheck{Tst: tst, Tol: 1e-8}
	o.CheckDot("M", col, 0, y, yDot)

	// rapid-equilibrium column: inlet, flux and algebraic rows carry no mass
	qs := qsColumn()
	nc := qs.disc.NComp
	v := make([]float64, qs.NumDofs())
	fillState(v)
	ret := make([]float64, qs.NumDofs())
	qs.MultiplyMass(v, ret)
	for i := 0; i < nc; i++ {
		chk.Scalar(tst, io.Sf("inlet row %d", i), 1e-17, ret[i], 0)
	}
	for i := qs.disc.OffsetJf(); i < qs.NumDofs(); i++ {
		chk.Scalar(tst, io.Sf("flux row %d", i), 1e-17, ret[i], 0)
	}
	offC := qs.disc.OffsetC()
	for i := 0; i < qs.disc.NCol*nc; i++ {
		chk.Scalar(tst, io.Sf("bulk row %d", i), 1e-15, ret[offC+i], v[offC+i])
	}
	epsP := qs.par[0].porosity.V
	ib := (1 - epsP) / epsP
	for k := 0; k < qs.disc.NCol; k++ {
		for s := 0; s < qs.disc.NParCell[0]; s++ {
			lo := qs.disc.OffsetCpShell(0, k, s)
			for c := 0; c < nc; c++ {
				chk.Scalar(tst, io.Sf("mobile row %d", lo+c), 1e-14,
					ret[lo+c], v[lo+c]+ib*v[lo+nc+c])
			}
			for b := 0; b < qs.disc.StrideParBound(0); b++ {
				chk.Scalar(tst, io.Sf("algebraic row %d", lo+nc+b), 1e-17, ret[lo+nc+b], 0)
			}
		}
	}
}
