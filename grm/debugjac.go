// Copyright 2017 The CADET Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grm

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
	"github.com/cpmech/gosl/num"
)

// JacCheck helps on checking column Jacobians against numerical derivatives
type JacCheck struct {
	Tst  *testing.T // testing structure
	Tol  float64    // tolerance to compare entries
	Step float64    // finite difference step size
	Verb bool       // verbose: show results
	Ni   int        // number of rows to check. -1 => all
	Nj   int        // number of columns to check. -1 => all
}

// Check assembles the analytic Jacobian of col at (y, yDot), densifies it and
// compares the selected entries against central differences of the residual
func (o *JacCheck) Check(label string, col *Column, sec int, y, yDot []float64) {

	ndof := col.NumDofs()
	res := make([]float64, ndof)
	if status := col.Residual(sec, y, yDot, res, true); status != 0 {
		chk.Panic("testing: check: residual evaluation failed with status %d", status)
	}
	var T la.Triplet
	T.Init(ndof, ndof, col.JacTripletLen())
	col.AddJacTo(&T, 0)
	Kana := T.ToMatrix(nil).ToDense()

	ni, nj := ndof, ndof
	if o.Ni > 0 && o.Ni < ni {
		ni = o.Ni
	}
	if o.Nj > 0 && o.Nj < nj {
		nj = o.Nj
	}
	if o.Step < 1e-14 {
		o.Step = 1e-6
	}
	derivfcn := num.DerivCentral
	var tmp float64
	for i := 0; i < ni; i++ {
		for j := 0; j < nj; j++ {
			dnum, _ := derivfcn(func(x float64, args ...interface{}) (fij float64) {
				tmp, y[j] = y[j], x
				col.Residual(sec, y, yDot, res, false)
				fij = res[i]
				y[j] = tmp
				return fij
			}, y[j], o.Step)
			chk.AnaNum(o.Tst, io.Sf(label+"%4d%4d", i, j), o.Tol, Kana[i][j], dnum, o.Verb)
		}
	}
}

// CheckDot compares the assembled time-derivative coupling, i.e. the mass
// matrix action, against central differences with respect to yDot
func (o *JacCheck) CheckDot(label string, col *Column, sec int, y, yDot []float64) {

	ndof := col.NumDofs()
	res := make([]float64, ndof)
	ei := make([]float64, ndof)
	mcol := make([]float64, ndof)
	if o.Step < 1e-14 {
		o.Step = 1e-6
	}
	nj := ndof
	if o.Nj > 0 && o.Nj < nj {
		nj = o.Nj
	}
	derivfcn := num.DerivCentral
	var tmp float64
	for j := 0; j < nj; j++ {
		la.VecFill(ei, 0)
		ei[j] = 1
		col.MultiplyMass(ei, mcol) // column j of the mass matrix
		for i := 0; i < ndof; i++ {
			dnum, _ := derivfcn(func(x float64, args ...interface{}) (fij float64) {
				tmp, yDot[j] = yDot[j], x
				col.Residual(sec, y, yDot, res, false)
				fij = res[i]
				yDot[j] = tmp
				return fij
			}, yDot[j], o.Step)
			chk.AnaNum(o.Tst, io.Sf(label+"%4d%4d", i, j), o.Tol, mcol[i], dnum, o.Verb)
		}
	}
}
