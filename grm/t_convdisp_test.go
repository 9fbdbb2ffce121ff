// Copyright 2017 The CADET Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grm

import (
	"testing"

	"github.com/blockspacer/CADET/ad"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/num"
)

func Test_convdisp01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("convdisp01. uniform state has zero residual")

	for _, order := range []int{1, 2} {
		var op ConvDisp
		err := op.Init(2, 8, 1, order, 2*order*2+1, 1.0,
			[]float64{0.5}, []float64{1e-3, 2e-3})
		if err != nil {
			tst.Errorf("test failed: %v\n", err)
			return
		}
		op.NotifySectionTransition(0)

		yIn := []float64{1.2, 0.8}
		y := make([]float64, 8*2)
		for k := 0; k < 8; k++ {
			y[k*2], y[k*2+1] = 1.2, 0.8
		}
		res := make([]float64, 8*2)
		op.Residual(0, yIn, y, nil, res, false)
		for i := range res {
			chk.Scalar(tst, io.Sf("order %d res %d", order, i), 1e-13, res[i], 0)
		}

		// the time derivative passes straight through on a uniform state
		yDot := make([]float64, 8*2)
		fillState(yDot)
		op.Residual(0, yIn, y, yDot, res, false)
		chk.Vector(tst, io.Sf("order %d yDot", order), 1e-13, res, yDot)
	}
}

func Test_convdisp02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("convdisp02. banded Jacobian vs numerical derivatives")

	nc, ncol := 2, 6
	var op ConvDisp
	err := op.Init(nc, ncol, 1, 2, 2*2*nc+1, 1.0,
		[]float64{0.5}, []float64{1e-3, 2e-3})
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	op.NotifySectionTransition(0)

	n := ncol * nc
	yIn := []float64{1.0, 0.6}
	y := make([]float64, n)
	fillState(y)
	res := make([]float64, n)
	op.Residual(0, yIn, y, nil, res, true)

	derivfcn := num.DerivCentral
	var tmp float64
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			dnum, _ := derivfcn(func(x float64, args ...interface{}) (fij float64) {
				tmp, y[j] = y[j], x
				op.Residual(0, yIn, y, nil, res, false)
				fij = res[i]
				y[j] = tmp
				return fij
			}, y[j], 1e-6)
			chk.AnaNum(tst, io.Sf("J%3d%3d", i, j), 1e-6, op.Jac().Get(i, j), dnum, chk.Verbose)
		}
	}

	// inlet column
	for c := 0; c < nc; c++ {
		i := op.InletCell()*nc + c
		dnum, _ := derivfcn(func(x float64, args ...interface{}) (fic float64) {
			tmp, yIn[c] = yIn[c], x
			op.Residual(0, yIn, y, nil, res, false)
			fic = res[i]
			yIn[c] = tmp
			return fic
		}, yIn[c], 1e-6)
		chk.AnaNum(tst, io.Sf("Jin%3d", c), 1e-8, op.InletJacCoeff(), dnum, chk.Verbose)
	}
}

func Test_convdisp03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("convdisp03. flow reversal feeds the last cell")

	nc, ncol := 2, 6
	var op ConvDisp
	err := op.Init(nc, ncol, 2, 2, 2*2*nc+1, 1.0,
		[]float64{0.5, -0.4}, []float64{1e-3, 2e-3})
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}

	op.NotifySectionTransition(0)
	chk.IntAssert(op.InletCell(), 0)
	chk.Scalar(tst, "inlet coefficient forward", 1e-15, op.InletJacCoeff(), -0.5*float64(ncol))

	if !op.NotifySectionTransition(1) {
		tst.Errorf("reversal must be reported\n")
		return
	}
	chk.IntAssert(op.InletCell(), ncol-1)
	chk.Scalar(tst, "inlet coefficient backward", 1e-15, op.InletJacCoeff(), -0.4*float64(ncol))

	// numerical inlet coupling lands in the last cell
	yIn := []float64{1.0, 0.6}
	y := make([]float64, ncol*nc)
	fillState(y)
	res := make([]float64, ncol*nc)
	var tmp float64
	for c := 0; c < nc; c++ {
		i := (ncol-1)*nc + c
		dnum, _ := num.DerivCentral(func(x float64, args ...interface{}) (fic float64) {
			tmp, yIn[c] = yIn[c], x
			op.Residual(1, yIn, y, nil, res, false)
			fic = res[i]
			yIn[c] = tmp
			return fic
		}, yIn[c], 1e-6)
		chk.AnaNum(tst, io.Sf("Jin%3d", c), 1e-8, op.InletJacCoeff(), dnum, chk.Verbose)
	}
}

func Test_convdisp04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("convdisp04. dual pass matches the double pass")

	nc, ncol := 2, 6
	ndir := 2*2*nc + 1
	var op ConvDisp
	err := op.Init(nc, ncol, 1, 2, ndir, 1.0, []float64{0.5}, []float64{1e-3, 2e-3})
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	op.NotifySectionTransition(0)

	n := ncol * nc
	yIn := []float64{1.0, 0.6}
	y := make([]float64, n)
	yDot := make([]float64, n)
	fillState(y)
	fillState(yDot)
	res := make([]float64, n)
	op.Residual(0, yIn, y, yDot, res, true)

	yInD := ad.NewVector(nc, ndir)
	yD := ad.NewVector(n, ndir)
	yDotD := ad.NewVector(n, ndir)
	resD := ad.NewVector(n, ndir)
	ad.SetValues(yInD, yIn)
	ad.SetValues(yD, y)
	ad.SetValues(yDotD, yDot)
	ad.SeedBand(yD, 0, n, op.Jac().Lower(), op.Jac().Upper(), 0)
	op.ResidualDual(0, yInD, yD, yDotD, resD)

	values := make([]float64, n)
	ad.Values(values, resD)
	chk.Vector(tst, "residual values", 1e-14, values, res)

	maxdiff := ad.CompareBand(op.Jac(), resD, 0, 0)
	chk.Scalar(tst, "banded Jacobian deviation", 1e-12, maxdiff, 0)
}
