// Copyright 2017 The CADET Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grm

import (
	"testing"

	"github.com/blockspacer/CADET/mbind"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func init() {
	io.Verbose = false
}

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

// linColumn builds a small two-component column with kinetic linear binding
// and surface diffusion on all bound states
func linColumn(useAnaJac bool, nSensDir int) *Column {
	bnd, err := mbind.New("LINEAR")
	if err != nil {
		chk.Panic("cannot allocate binding model: %v", err)
	}
	err = bnd.Init(2, []int{1, 1}, true, map[string][]float64{
		"LIN_KA": {2.0, 1.5},
		"LIN_KD": {1.0, 2.0},
	})
	if err != nil {
		chk.Panic("cannot initialise binding model: %v", err)
	}
	col, err := NewColumn(&Config{
		NComp:          2,
		NCol:           5,
		NParCell:       []int{3},
		NBound:         []int{1, 1},
		WenoOrder:      2,
		NSec:           1,
		ColLength:      1.0,
		Velocity:       []float64{0.57},
		ColDispersion:  []float64{2e-3, 3e-3},
		ColPorosity:    0.4,
		ParPorosity:    []float64{1.0 / 3.0},
		ParRadius:      []float64{0.05},
		ParTypeVolFrac: []float64{1},
		FilmDiffusion:  [][]float64{{0.9, 1.1}},
		ParDiffusion:   [][]float64{{5e-3, 4e-3}},
		SurfDiffusion:  [][]float64{{1e-3, 2e-3}},
		Binding:        []mbind.Model{bnd},
		UseAnalyticJac: useAnaJac,
		InitC:          []float64{1.0, 0.5},
		NSensDir:       nSensDir,
	})
	if err != nil {
		chk.Panic("cannot create column: %v", err)
	}
	return col
}

// lgmColumn builds a three-component column with kinetic multi-component
// Langmuir binding, one bound state per component and surface diffusion
func lgmColumn(useAnaJac bool, nSensDir int) *Column {
	bnd, err := mbind.New("MULTI_COMPONENT_LANGMUIR")
	if err != nil {
		chk.Panic("cannot allocate binding model: %v", err)
	}
	err = bnd.Init(3, []int{1, 1, 1}, true, map[string][]float64{
		"MCL_KA":   {1.0, 1.6, 0.8},
		"MCL_KD":   {2.0, 1.1, 1.4},
		"MCL_QMAX": {5.0, 4.0, 6.0},
	})
	if err != nil {
		chk.Panic("cannot initialise binding model: %v", err)
	}
	col, err := NewColumn(&Config{
		NComp:          3,
		NCol:           4,
		NParCell:       []int{3},
		NBound:         []int{1, 1, 1},
		WenoOrder:      2,
		NSec:           1,
		ColLength:      1.0,
		Velocity:       []float64{0.42},
		ColDispersion:  []float64{1e-3, 2e-3, 1.5e-3},
		ColPorosity:    0.37,
		ParPorosity:    []float64{0.75},
		ParRadius:      []float64{0.045},
		ParTypeVolFrac: []float64{1},
		FilmDiffusion:  [][]float64{{0.8, 1.2, 1.0}},
		ParDiffusion:   [][]float64{{4e-3, 5e-3, 3e-3}},
		SurfDiffusion:  [][]float64{{1e-3, 1.5e-3, 2e-3}},
		PoreAccess:     [][]float64{{1.0, 0.8, 0.9}},
		Binding:        []mbind.Model{bnd},
		UseAnalyticJac: useAnaJac,
		InitC:          []float64{1.0, 0.8, 0.6},
		NSensDir:       nSensDir,
	})
	if err != nil {
		chk.Panic("cannot create column: %v", err)
	}
	return col
}

// qsColumn builds a column with rapid-equilibrium Langmuir binding; all
// bound-state rows are algebraic
func qsColumn() *Column {
	bnd, err := mbind.New("MULTI_COMPONENT_LANGMUIR")
	if err != nil {
		chk.Panic("cannot allocate binding model: %v", err)
	}
	err = bnd.Init(2, []int{1, 1}, false, map[string][]float64{
		"MCL_KA":   {1.2, 0.9},
		"MCL_KD":   {1.0, 1.5},
		"MCL_QMAX": {4.0, 5.0},
	})
	if err != nil {
		chk.Panic("cannot initialise binding model: %v", err)
	}
	col, err := NewColumn(&Config{
		NComp:          2,
		NCol:           4,
		NParCell:       []int{3},
		NBound:         []int{1, 1},
		WenoOrder:      2,
		NSec:           1,
		ColLength:      1.0,
		Velocity:       []float64{0.5},
		ColDispersion:  []float64{2e-3, 2e-3},
		ColPorosity:    0.4,
		ParPorosity:    []float64{0.5},
		ParRadius:      []float64{0.05},
		ParTypeVolFrac: []float64{1},
		FilmDiffusion:  [][]float64{{1.0, 1.1}},
		ParDiffusion:   [][]float64{{5e-3, 4e-3}},
		SurfDiffusion:  [][]float64{{0, 0}},
		Binding:        []mbind.Model{bnd},
		UseAnalyticJac: true,
		InitC:          []float64{1.0, 0.7},
		InitQ:          []float64{0, 0},
	})
	if err != nil {
		chk.Panic("cannot create column: %v", err)
	}
	return col
}

// twoTypeColumn builds a column with two particle types of different shell
// counts and bound-state patterns
func twoTypeColumn() *Column {
	b0, err := mbind.New("LINEAR")
	if err != nil {
		chk.Panic("cannot allocate binding model: %v", err)
	}
	err = b0.Init(2, []int{1, 1}, true, map[string][]float64{
		"LIN_KA": {2.0, 1.5},
		"LIN_KD": {1.0, 2.0},
	})
	if err != nil {
		chk.Panic("cannot initialise binding model: %v", err)
	}
	b1, err := mbind.New("LINEAR")
	if err != nil {
		chk.Panic("cannot allocate binding model: %v", err)
	}
	err = b1.Init(2, []int{0, 1}, true, map[string][]float64{
		"LIN_KA": {0, 1.8},
		"LIN_KD": {0, 1.3},
	})
	if err != nil {
		chk.Panic("cannot initialise binding model: %v", err)
	}
	col, err := NewColumn(&Config{
		NComp:          2,
		NCol:           3,
		NParCell:       []int{3, 2},
		NBound:         []int{1, 1, 0, 1},
		WenoOrder:      2,
		NSec:           1,
		ColLength:      1.0,
		Velocity:       []float64{0.5},
		ColDispersion:  []float64{2e-3, 3e-3},
		ColPorosity:    0.4,
		ParPorosity:    []float64{1.0 / 3.0, 0.5},
		ParRadius:      []float64{0.05, 0.04},
		ParTypeVolFrac: []float64{0.6, 0.4},
		FilmDiffusion:  [][]float64{{0.9, 1.1}, {1.0, 1.2}},
		ParDiffusion:   [][]float64{{5e-3, 4e-3}, {6e-3, 5e-3}},
		SurfDiffusion:  [][]float64{{1e-3, 2e-3}, {1.5e-3}},
		Binding:        []mbind.Model{b0, b1},
		UseAnalyticJac: true,
		InitC:          []float64{1.0, 0.5},
		InitQ:          []float64{0.2, 0.3, 0.4},
	})
	if err != nil {
		chk.Panic("cannot create column: %v", err)
	}
	return col
}

// fillState writes a smooth strictly positive pattern into y so that
// derivative checks evaluate away from trivial points
func fillState(y []float64) {
	for i := range y {
		y[i] = 0.2 + 0.7*float64((i*7)%13)/13.0
	}
}

func Test_column01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("column01. construction and DOF layout")

	col := linColumn(true, 0)
	chk.IntAssert(col.NumDofs(), 2+5*2+5*3*(2+2)+5*2)
	chk.IntAssert(col.NumComp(), 2)
	chk.IntAssert(col.disc.OffsetC(), 2)
	chk.IntAssert(col.disc.OffsetCp(0, 0), 12)
	chk.IntAssert(col.disc.OffsetCpShell(0, 1, 2), 12+12+2*4)
	chk.IntAssert(col.disc.OffsetJf(), 72)
	chk.IntAssert(col.disc.StrideParShell(0), 4)
	chk.IntAssert(col.LocalInletComponentIndex(), 0)
	chk.IntAssert(col.LocalOutletComponentIndex(), 2+4*2)

	two := twoTypeColumn()
	chk.IntAssert(two.NumDofs(), 2+3*2+3*3*4+3*2*3+2*3*2)
	chk.IntAssert(two.disc.OffsetCp(1, 0), 2+6+36)
	chk.IntAssert(two.disc.OffsetJfTyped(1, 2), 2+6+36+18+6+4)
	chk.IntAssert(two.disc.StrideBound[0], 2)
	chk.IntAssert(two.disc.StrideBound[1], 1)
	chk.IntAssert(two.disc.OffsetBoundComp(1, 1), 0)

	tol := []float64{1, 2, 3}
	out := make([]float64, 3)
	col.ExpandErrorTol(tol, out)
	chk.Vector(tst, "expanded tolerances", 1e-17, out, tol)
}

func Test_column02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("column02. configuration errors")

	bnd, _ := mbind.New("LINEAR")
	bnd.Init(2, []int{1, 1}, true, map[string][]float64{
		"LIN_KA": {2, 1.5}, "LIN_KD": {1, 2},
	})
	base := func() *Config {
		return &Config{
			NComp: 2, NCol: 4, NParCell: []int{3}, NBound: []int{1, 1},
			NSec: 1, ColLength: 1, Velocity: []float64{0.5},
			ColDispersion: []float64{1e-3, 1e-3}, ColPorosity: 0.4,
			ParPorosity: []float64{0.5}, ParRadius: []float64{0.05},
			ParTypeVolFrac: []float64{1},
			FilmDiffusion:  [][]float64{{1, 1}},
			ParDiffusion:   [][]float64{{1e-3, 1e-3}},
			SurfDiffusion:  [][]float64{{0, 0}},
			Binding:        []mbind.Model{bnd},
			InitC:          []float64{0, 0},
		}
	}

	cfg := base()
	cfg.ParTypeVolFrac = []float64{0.5}
	if _, err := NewColumn(cfg); err == nil {
		tst.Errorf("volume fractions not summing to one must be rejected\n")
	}

	cfg = base()
	cfg.ColPorosity = 0
	if _, err := NewColumn(cfg); err == nil {
		tst.Errorf("zero column porosity must be rejected\n")
	}

	cfg = base()
	cfg.ParRadius = []float64{-1}
	if _, err := NewColumn(cfg); err == nil {
		tst.Errorf("negative particle radius must be rejected\n")
	}

	cfg = base()
	cfg.Binding = nil
	if _, err := NewColumn(cfg); err == nil {
		tst.Errorf("missing binding models must be rejected\n")
	}

	cfg = base()
	cfg.FilmDiffusion = [][]float64{{1}}
	if _, err := NewColumn(cfg); err == nil {
		tst.Errorf("short film diffusion vector must be rejected\n")
	}

	cfg = base()
	cfg.NSec = 0
	if _, err := NewColumn(cfg); err == nil {
		tst.Errorf("zero sections must be rejected\n")
	}
}

func Test_column03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("column03. initial conditions")

	col := twoTypeColumn()
	y := make([]float64, col.NumDofs())
	yDot := make([]float64, col.NumDofs())
	err := col.ApplyInitialConditions(y, yDot)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}

	chk.Vector(tst, "inlet", 1e-17, y[:2], []float64{1.0, 0.5})
	for k := 0; k < 3; k++ {
		off := col.disc.OffsetC() + k*2
		chk.Vector(tst, io.Sf("bulk cell %d", k), 1e-17, y[off:off+2], []float64{1.0, 0.5})
	}
	for k := 0; k < 3; k++ {
		for s := 0; s < 3; s++ {
			lo := col.disc.OffsetCpShell(0, k, s)
			chk.Vector(tst, io.Sf("type 0 cell %d shell %d", k, s), 1e-17,
				y[lo:lo+4], []float64{1.0, 0.5, 0.2, 0.3})
		}
		for s := 0; s < 2; s++ {
			lo := col.disc.OffsetCpShell(1, k, s)
			chk.Vector(tst, io.Sf("type 1 cell %d shell %d", k, s), 1e-17,
				y[lo:lo+3], []float64{1.0, 0.5, 0.4})
		}
	}
	for i := col.disc.OffsetJf(); i < col.NumDofs(); i++ {
		if y[i] != 0 {
			tst.Errorf("flux DOF %d must start at zero, not %g\n", i, y[i])
			return
		}
	}

	// a full state vector takes precedence
	full := make([]float64, col.NumDofs())
	fillState(full)
	col.initY = full
	err = col.ApplyInitialConditions(y, yDot)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	chk.Vector(tst, "full state", 1e-17, y, full)
}

func Test_column04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("column04. section transitions and flow reversal")

	bnd, _ := mbind.New("LINEAR")
	bnd.Init(2, []int{1, 1}, true, map[string][]float64{
		"LIN_KA": {2, 1.5}, "LIN_KD": {1, 2},
	})
	col, err := NewColumn(&Config{
		NComp: 2, NCol: 4, NParCell: []int{3}, NBound: []int{1, 1},
		NSec: 2, ColLength: 1,
		Velocity:      []float64{0.5, -0.5},
		ColDispersion: []float64{1e-3, 1e-3}, ColPorosity: 0.4,
		ParPorosity: []float64{0.5}, ParRadius: []float64{0.05},
		ParTypeVolFrac: []float64{1},
		FilmDiffusion:  [][]float64{{1, 1}},
		ParDiffusion:   [][]float64{{1e-3, 1e-3}},
		SurfDiffusion:  [][]float64{{0, 0}},
		Binding:        []mbind.Model{bnd},
		UseAnalyticJac: true,
		InitC:          []float64{0, 0},
	})
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}

	chk.Scalar(tst, "velocity section 0", 1e-15, col.CurrentVelocity(), 0.5)
	chk.IntAssert(col.LocalOutletComponentIndex(), 2+3*2)

	reversed := col.NotifySectionTransition(1)
	if !reversed {
		tst.Errorf("transition to a negative-velocity section must report reversal\n")
		return
	}
	chk.Scalar(tst, "velocity section 1", 1e-15, col.CurrentVelocity(), -0.5)
	chk.IntAssert(col.LocalOutletComponentIndex(), 2)

	reversed = col.NotifySectionTransition(0)
	if !reversed {
		tst.Errorf("transition back must report reversal again\n")
	}
}
