// Copyright 2017 The CADET Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grm

import (
	"testing"

	"github.com/blockspacer/CADET/mbind"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
)

// denseDiscretized builds J + alpha*M as a dense matrix through the sparse
// assembly path, for reference solves
func denseDiscretized(col *Column, α float64) [][]float64 {
	var T la.Triplet
	T.Init(col.NumDofs(), col.NumDofs(), col.JacTripletLen())
	col.AddJacTo(&T, α)
	return T.ToMatrix(nil).ToDense()
}

func Test_schur01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("schur01. Schur-complement solve against dense reference")

	col := twoTypeColumn()
	ndof := col.NumDofs()
	y := make([]float64, ndof)
	yDot := make([]float64, ndof)
	res := make([]float64, ndof)
	fillState(y)
	for i := range yDot {
		yDot[i] = 0.1 - 0.3*float64((i*5)%7)/7.0
	}
	if status := col.Residual(0, y, yDot, res, true); status != 0 {
		tst.Errorf("test failed: residual returned status %d\n", status)
		return
	}

	rhs := make([]float64, ndof)
	for i := range rhs {
		rhs[i] = 0.3 + 0.6*float64((i*11)%17)/17.0
	}
	want := make([]float64, ndof)
	x := make([]float64, ndof)
	Ki := la.MatAlloc(ndof, ndof)

	for _, α := range []float64{3.7, 120.0} {

		if err := col.AssembleDiscretized(α); err != nil {
			tst.Errorf("test failed: %v\n", err)
			return
		}

		K := denseDiscretized(col, α)
		if err := la.MatInvG(Ki, K, 1e-13); err != nil {
			tst.Errorf("test failed: %v\n", err)
			return
		}
		la.MatVecMul(want, 1, Ki, rhs)

		copy(x, rhs)
		if err := col.SolveDiscretized(x, 1e-10); err != nil {
			tst.Errorf("test failed: %v\n", err)
			return
		}
		chk.Vector(tst, io.Sf("x (alpha=%g)", α), 1e-8, x, want)
	}
}

func Test_schur02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("schur02. assembled triplet vs matrix-free products")

	col := qsColumn()
	ndof := col.NumDofs()
	y := make([]float64, ndof)
	yDot := make([]float64, ndof)
	res := make([]float64, ndof)
	fillState(y)
	if status := col.Residual(0, y, yDot, res, true); status != 0 {
		tst.Errorf("test failed: residual returned status %d\n", status)
		return
	}

	α := 2.3
	K := denseDiscretized(col, α)

	v := make([]float64, ndof)
	for i := range v {
		v[i] = 1.0 - 1.9*float64((i*3)%11)/11.0
	}
	want := make([]float64, ndof)
	la.MatVecMul(want, 1, K, v)

	// J v + alpha M v through the matrix-free operators
	got := make([]float64, ndof)
	mv := make([]float64, ndof)
	col.MultiplyJac(v, 1, 0, got)
	col.MultiplyMass(v, mv)
	la.VecAdd(got, α, mv)

	chk.Vector(tst, "(J+aM) v", 1e-12, got, want)
}

func Test_schur03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("schur03. discretized solve under reversed flow")

	bnd, err := mbind.New("LINEAR")
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	err = bnd.Init(2, []int{1, 1}, true, map[string][]float64{
		"LIN_KA": {2, 1.5}, "LIN_KD": {1, 2},
	})
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	col, err := NewColumn(&Config{
		NComp: 2, NCol: 4, NParCell: []int{3}, NBound: []int{1, 1},
		WenoOrder: 2, NSec: 2, ColLength: 1,
		Velocity:      []float64{0.5, -0.5},
		ColDispersion: []float64{2e-3, 3e-3}, ColPorosity: 0.4,
		ParPorosity: []float64{0.5}, ParRadius: []float64{0.05},
		ParTypeVolFrac: []float64{1},
		FilmDiffusion:  [][]float64{{0.9, 1.1}},
		ParDiffusion:   [][]float64{{5e-3, 4e-3}},
		SurfDiffusion:  [][]float64{{1e-3, 2e-3}},
		Binding:        []mbind.Model{bnd},
		UseAnalyticJac: true,
		InitC:          []float64{1, 0.5},
	})
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}

	if !col.NotifySectionTransition(1) {
		tst.Errorf("test failed: backward section must report flow reversal\n")
		return
	}

	ndof := col.NumDofs()
	y := make([]float64, ndof)
	yDot := make([]float64, ndof)
	res := make([]float64, ndof)
	fillState(y)
	if status := col.Residual(1, y, yDot, res, true); status != 0 {
		tst.Errorf("test failed: residual returned status %d\n", status)
		return
	}

	α := 15.0
	if err := col.AssembleDiscretized(α); err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}

	K := denseDiscretized(col, α)
	Ki := la.MatAlloc(ndof, ndof)
	if err := la.MatInvG(Ki, K, 1e-13); err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	rhs := make([]float64, ndof)
	for i := range rhs {
		rhs[i] = 0.2 + 0.5*float64((i*13)%19)/19.0
	}
	want := make([]float64, ndof)
	la.MatVecMul(want, 1, Ki, rhs)

	x := make([]float64, ndof)
	copy(x, rhs)
	if err := col.SolveDiscretized(x, 1e-10); err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	chk.Vector(tst, "x reversed", 1e-8, x, want)
}
