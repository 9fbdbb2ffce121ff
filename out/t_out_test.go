// Copyright 2017 The CADET Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"math"
	"testing"

	"github.com/blockspacer/CADET/sim"
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

func Test_out01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("out01. recorder samples, saved file round trip")

	m, err := sim.NewMain("data/rec1.sim", true, chk.Verbose)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	rec := NewRecorder(m.Dom)
	if err = m.Run(); err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}

	// samples: one per accepted step plus the initial state, aligned and
	// strictly increasing in time
	cgm := rec.Cgm
	if len(cgm.T) < 2 {
		tst.Errorf("recorder collected too few samples: %d\n", len(cgm.T))
		return
	}
	if len(cgm.C) != 1 || len(cgm.C[0]) != len(cgm.T) {
		tst.Errorf("concentration rows are not aligned with the time samples\n")
		return
	}
	chk.Scalar(tst, "t first", 1e-15, cgm.T[0], 0.0)
	chk.Scalar(tst, "t last", 1e-10, cgm.T[len(cgm.T)-1], 6.0)
	for i := 1; i < len(cgm.T); i++ {
		if cgm.T[i] <= cgm.T[i-1] {
			tst.Errorf("sample times are not increasing at %d: %g %g\n", i, cgm.T[i-1], cgm.T[i])
			return
		}
	}

	// the eluted mass equals the injected mass
	area := 0.0
	for i := 1; i < len(cgm.T); i++ {
		area += 0.5 * (cgm.C[0][i] + cgm.C[0][i-1]) * (cgm.T[i] - cgm.T[i-1])
	}
	chk.Scalar(tst, "eluted mass", 1e-2, area, 1.0)

	// the velocity sensitivity leaves a visible trace at the outlet
	if len(cgm.S) != 1 {
		tst.Errorf("expected one sensitivity row, got %d\n", len(cgm.S))
		return
	}
	maxS := 0.0
	for _, v := range cgm.S[0] {
		if math.IsNaN(v) {
			tst.Errorf("sensitivity sample is NaN\n")
			return
		}
		if a := math.Abs(v); a > maxS {
			maxS = a
		}
	}
	if maxS < 1e-3 {
		tst.Errorf("velocity sensitivity is unexpectedly flat: %g\n", maxS)
		return
	}

	// a saved chromatogram reads back identically
	fn, err := rec.Save()
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	cgm2, err := ReadChromatogram(m.Sim.DirOut + "/" + fn)
	if err != nil {
		tst.Errorf("test failed: %v\n", err)
		return
	}
	chk.String(tst, cgm2.Desc, cgm.Desc)
	chk.Vector(tst, "t round trip", 1e-17, cgm2.T, cgm.T)
	chk.Vector(tst, "c round trip", 1e-17, cgm2.C[0], cgm.C[0])
	chk.Vector(tst, "s round trip", 1e-17, cgm2.S[0], cgm.S[0])
}

func Test_out02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("out02. chromatogram drawing")

	// drawing is only exercised interactively
	if !chk.Verbose {
		return
	}
	cgm := &Chromatogram{
		Desc: "synthetic two-component chromatogram",
		T:    []float64{0, 1, 2, 3, 4},
		C:    [][]float64{{0, 0.2, 0.9, 0.4, 0.1}, {0, 0.1, 0.5, 0.8, 0.2}},
		S:    [][]float64{{0, 0.01, 0.04, 0.02, 0}, {0, 0.02, 0.03, 0.05, 0.01}},
	}
	DrawChromatogram(cgm, "/tmp/cadet", "out02-chromatogram.png")
	DrawSensitivities(cgm, 2, "/tmp/cadet", "out02-sens.png")
}
