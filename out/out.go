// Copyright 2017 The CADET Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package out implements the chromatogram recorder and the plotting
// routines. A recorder subscribes to the domain output callback and collects
// the outlet trajectories of all components, together with the outlet
// sensitivities of all seeded directions; the result can be saved as a JSON
// file next to the other simulation results and drawn with plt.
package out

import (
	"encoding/json"

	"github.com/blockspacer/CADET/sim"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Chromatogram holds the sampled outlet trajectories. Concentrations have
// one row per component; sensitivities have one row per direction and
// component, direction-major.
type Chromatogram struct {
	Desc string      `json:"desc"` // description from the simulation data
	T    []float64   `json:"t"`    // sample times
	C    [][]float64 `json:"c"`    // outlet concentrations
	S    [][]float64 `json:"s"`    // outlet sensitivities
}

// Recorder collects one outlet sample per accepted time step
type Recorder struct {
	Dom *sim.Domain   // domain being observed
	Cgm *Chromatogram // samples collected so far
}

// NewRecorder attaches a new recorder to the domain output callback
func NewRecorder(dom *sim.Domain) (o *Recorder) {
	o = new(Recorder)
	o.Dom = dom
	nc := dom.Col.NumComp()
	o.Cgm = &Chromatogram{
		Desc: dom.Sim.Data.Desc,
		C:    make([][]float64, nc),
		S:    make([][]float64, dom.Col.NumSensDirs()*nc),
	}
	dom.Out = o.Record
	return
}

// Record appends one sample. The outlet port is looked up on every call, so
// the recorder follows flow reversals.
func (o *Recorder) Record(sol *sim.Solution) error {
	cgm := o.Cgm
	col := o.Dom.Col
	nc := col.NumComp()
	out := col.LocalOutletComponentIndex()
	cgm.T = append(cgm.T, sol.T)
	for c := 0; c < nc; c++ {
		cgm.C[c] = append(cgm.C[c], sol.Y[out+c])
	}
	for p := 0; p < len(sol.S); p++ {
		for c := 0; c < nc; c++ {
			cgm.S[p*nc+c] = append(cgm.S[p*nc+c], sol.S[p][out+c])
		}
	}
	return nil
}

// Save writes the chromatogram into the output directory of the simulation
// and returns the file name
func (o *Recorder) Save() (fn string, err error) {
	b, err := json.MarshalIndent(o.Cgm, "", "  ")
	if err != nil {
		return "", chk.Err("cannot encode chromatogram: %v", err)
	}
	fn = o.Dom.Sim.FnKey + "-chromatogram.json"
	io.WriteFileSD(o.Dom.Sim.DirOut, fn, string(b))
	return
}

// ReadChromatogram reads a chromatogram file written by Save
func ReadChromatogram(path string) (cgm *Chromatogram, err error) {
	b, err := io.ReadFile(path)
	if err != nil {
		return nil, chk.Err("cannot read chromatogram file: %v", err)
	}
	cgm = new(Chromatogram)
	if err = json.Unmarshal(b, cgm); err != nil {
		return nil, chk.Err("cannot decode chromatogram file %q: %v", path, err)
	}
	return
}
