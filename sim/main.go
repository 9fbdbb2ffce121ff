// Copyright 2017 The CADET Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"time"

	"github.com/blockspacer/CADET/inp"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Main holds all data for the simulation of one chromatographic column
type Main struct {
	Sim     *inp.Simulation // simulation data
	Dom     *Domain         // domain with the column unit and the solution
	Solver  Solver          // time integrator; e.g. bdf1, bdf2
	DebugKb DebugKb         // debug Kb callback function
	ShowMsg bool            // show messages
}

// NewMain returns a new Main structure
//  Input:
//   simfilepath -- simulation (.sim) filename including full path
//   erasePrev   -- erase previous results files
//   verbose     -- show messages
func NewMain(simfilepath string, erasePrev, verbose bool) (o *Main, err error) {

	// new Main object and input data
	o = new(Main)
	o.ShowMsg = verbose
	if o.Sim, err = inp.ReadSim(simfilepath, erasePrev); err != nil {
		return nil, err
	}
	if o.ShowMsg {
		io.Pf("> Simulation (.sim) file read\n")
	}

	// allocate domain
	if o.Dom, err = NewDomain(o.Sim); err != nil {
		return nil, err
	}

	// allocate solver
	alloc, ok := allocators[o.Sim.Solver.Method]
	if !ok {
		return nil, chk.Err("cannot find solver named %q", o.Sim.Solver.Method)
	}
	o.Solver = alloc(o.Dom, &o.Sim.Solver)
	return
}

// Run solves the model across all time sections
func (o *Main) Run() (err error) {

	// exit commands
	cputime := time.Now()
	defer func() { err = o.onexit(cputime, err) }()

	// consistent initial conditions
	if err = o.Dom.InitState(); err != nil {
		return
	}
	if o.ShowMsg {
		io.Pf("> Initialisation step completed\n")
	}
	if o.Dom.Out != nil {
		if err = o.Dom.Out(o.Dom.Sol); err != nil {
			return
		}
	}

	// loop over sections
	for sec := 0; sec < o.Sim.NSec; sec++ {

		// move into section
		if sec > 0 {
			if err = o.Dom.Transition(sec); err != nil {
				return
			}
		}
		if o.ShowMsg {
			io.Pf("> Solving section %d\n", sec)
		}

		// time loop
		if err = o.Solver.Run(o.Sim.Sections.Times[sec+1], o.ShowMsg, o.DebugKb); err != nil {
			return
		}
	}
	return
}

// onexit cleans up and prints the final message
func (o *Main) onexit(cputime time.Time, prevErr error) (err error) {
	if o.ShowMsg {
		if prevErr == nil {
			io.PfGreen("> Success\n")
			io.Pf("> CPU time = %v\n", time.Now().Sub(cputime))
		} else {
			io.PfRed("> Failed\n")
		}
	}
	return prevErr
}
