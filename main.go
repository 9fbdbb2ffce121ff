// Copyright 2017 The CADET Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/blockspacer/CADET/out"
	"github.com/blockspacer/CADET/sim"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			io.PfRed("\nERROR: %v\n", err)
			if chk.Verbose {
				io.Pf("See location of error below:\n")
				for i := 5; i > 3; i-- {
					chk.CallerInfo(i)
				}
			}
		}
	}()

	// read input parameters
	fnamepath, _ := io.ArgToFilename(0, "", ".sim", true)
	verbose := io.ArgToBool(1, true)
	erasePrev := io.ArgToBool(2, true)
	saveCgm := io.ArgToBool(3, true)

	// message
	if verbose {
		io.PfWhite("\nCADET -- General Rate Model Column Simulator\n")
		io.Pf("Copyright 2017 The CADET Authors. All rights reserved.\n")
		io.Pf("Use of this source code is governed by a BSD-style\n")
		io.Pf("license that can be found in the LICENSE file.\n")

		io.Pf("\n%v\n", io.ArgsTable("INPUT ARGUMENTS",
			"filename path", "fnamepath", fnamepath,
			"show messages", "verbose", verbose,
			"erase previous results", "erasePrev", erasePrev,
			"save chromatogram", "saveCgm", saveCgm,
		))
	}

	// simulation data
	m, err := sim.NewMain(fnamepath, erasePrev, verbose)
	if err != nil {
		chk.Panic("cannot allocate simulation:\n%v", err)
	}

	// chromatogram recorder
	var rec *out.Recorder
	if saveCgm {
		rec = out.NewRecorder(m.Dom)
	}

	// run simulation
	if err = m.Run(); err != nil {
		chk.Panic("run failed:\n%v", err)
	}

	// save results
	if rec != nil {
		fn, err := rec.Save()
		if err != nil {
			chk.Panic("cannot save chromatogram:\n%v", err)
		}
		if verbose {
			io.Pf("> Chromatogram saved: %s\n", fn)
		}
	}
}
