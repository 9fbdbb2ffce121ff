// Copyright 2017 The CADET Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package inp implements the input data structures read from a (.sim) JSON
// file: discretisation, unit operation parameters, kinetic model selections,
// time sections with inlet profiles, solver control, and the parameter
// sensitivity requests. ReadSim decodes and validates a file; MakeColumn
// builds the configured column unit from it.
package inp

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/io"
)

// InvalidParameterError reports an input field that is missing, has the
// wrong shape, or holds an out-of-range value
type InvalidParameterError struct {
	Field string // uppercase input key
	Msg   string // what is wrong and what was expected
}

// Error returns the error message
func (o *InvalidParameterError) Error() string {
	return io.Sf("invalid parameter %s: %s", o.Field, o.Msg)
}

// invalidPrm builds an InvalidParameterError with a formatted message
func invalidPrm(field, msgfmt string, prm ...interface{}) *InvalidParameterError {
	return &InvalidParameterError{field, io.Sf(msgfmt, prm...)}
}

// IntOrVec is an integer array that also accepts a single scalar in the
// JSON input
type IntOrVec []int

// UnmarshalJSON decodes either a scalar or an array
func (o *IntOrVec) UnmarshalJSON(b []byte) (err error) {
	var v []int
	if err = json.Unmarshal(b, &v); err == nil {
		*o = v
		return
	}
	var s int
	if err = json.Unmarshal(b, &s); err != nil {
		return
	}
	*o = IntOrVec{s}
	return
}

// FltOrVec is a float array that also accepts a single scalar in the
// JSON input
type FltOrVec []float64

// UnmarshalJSON decodes either a scalar or an array
func (o *FltOrVec) UnmarshalJSON(b []byte) (err error) {
	var v []float64
	if err = json.Unmarshal(b, &v); err == nil {
		*o = v
		return
	}
	var s float64
	if err = json.Unmarshal(b, &s); err != nil {
		return
	}
	*o = FltOrVec{s}
	return
}

// StrOrVec is a string array that also accepts a single string in the
// JSON input
type StrOrVec []string

// UnmarshalJSON decodes either a single string or an array
func (o *StrOrVec) UnmarshalJSON(b []byte) (err error) {
	var v []string
	if err = json.Unmarshal(b, &v); err == nil {
		*o = v
		return
	}
	var s string
	if err = json.Unmarshal(b, &s); err != nil {
		return
	}
	*o = StrOrVec{s}
	return
}

// Data holds global information
type Data struct {
	Desc   string `json:"desc"`   // description of simulation
	DirOut string `json:"dirout"` // directory for output results
}

// SolverData holds time stepping and iterative solver control
type SolverData struct {

	// time integration
	Method     string  `json:"METHOD"`      // time integrator: bdf2 (default) or bdf1
	Dt         float64 `json:"DT"`          // fixed time step size
	Atol       float64 `json:"ATOL"`        // absolute Newton tolerance
	Rtol       float64 `json:"RTOL"`        // relative Newton tolerance
	NmaxIt     int     `json:"NITMAX"`      // maximum Newton iterations per step
	InitSafety float64 `json:"INIT_SAFETY"` // tolerance safety factor for consistent initialisation

	// Schur-complement linear solver
	MaxKrylov   int     `json:"MAX_KRYLOV"`   // Krylov space size; 0 selects the flux block size
	GsType      int     `json:"GS_TYPE"`      // Gram-Schmidt variant: 0 classical, 1 modified
	MaxRestarts int     `json:"MAX_RESTARTS"` // number of GMRES restart cycles
	SchurSafety float64 `json:"SCHUR_SAFETY"` // tolerance safety factor for the Schur solve
}

// SetDefault sets defaults
func (o *SolverData) SetDefault() {
	o.Method = "bdf2"
	o.Dt = 1e-2
	o.Atol = 1e-8
	o.Rtol = 1e-6
	o.NmaxIt = 10
	o.InitSafety = 1e-2
	o.GsType = 1
	o.MaxRestarts = 10
	o.SchurSafety = 1e-8
}

// Validate checks the solver control values
func (o *SolverData) Validate() error {
	if o.Method != "bdf1" && o.Method != "bdf2" {
		return invalidPrm("METHOD", "must be %q or %q, not %q", "bdf1", "bdf2", o.Method)
	}
	if o.Dt <= 0 {
		return invalidPrm("DT", "must be positive, not %g", o.Dt)
	}
	if o.Atol <= 0 || o.Rtol <= 0 {
		return invalidPrm("ATOL", "tolerances must be positive, not atol=%g rtol=%g", o.Atol, o.Rtol)
	}
	if o.NmaxIt < 1 {
		return invalidPrm("NITMAX", "must be at least 1, not %d", o.NmaxIt)
	}
	if o.GsType != 0 && o.GsType != 1 {
		return invalidPrm("GS_TYPE", "must be 0 (classical) or 1 (modified), not %d", o.GsType)
	}
	return nil
}

// DiscData holds the spatial discretisation input
type DiscData struct {
	NCol            int         `json:"NCOL"`                       // number of axial cells
	NPar            IntOrVec    `json:"NPAR"`                       // radial shells, one entry or one per type
	NBound          IntOrVec    `json:"NBOUND"`                     // bound states per component, types consecutive
	NParType        int         `json:"NPARTYPE"`                   // number of particle types; 0 means inferred
	ParDiscType     StrOrVec    `json:"PAR_DISC_TYPE"`              // radial grid mode, one entry or one per type
	ParDiscVector   [][]float64 `json:"PAR_DISC_VECTOR"`            // interface positions for user-defined grids
	WenoOrder       int         `json:"WENO_ORDER"`                 // reconstruction order 1..2
	UseAnalyticJac  bool        `json:"USE_ANALYTIC_JACOBIAN"`      // banded analytic Jacobian (default) or dual-number fallback
	FixZeroSurfDiff bool        `json:"FIX_ZERO_SURFACE_DIFFUSION"` // drop solid conduction when all rates vanish
}

// SetDefault sets defaults
func (o *DiscData) SetDefault() {
	o.WenoOrder = 2
	o.UseAnalyticJac = true
}

// UnitData holds the column unit operation input
type UnitData struct {

	// system
	NComp int `json:"NCOMP"` // number of components

	// bulk transport
	ColLength     float64  `json:"COL_LENGTH"`     // column length
	ColPorosity   float64  `json:"COL_POROSITY"`   // interstitial porosity
	Velocity      FltOrVec `json:"VELOCITY"`       // interstitial velocity, one entry or one per section
	ColDispersion FltOrVec `json:"COL_DISPERSION"` // axial dispersion, NComp or NSec*NComp entries

	// particles
	ParPorosity      FltOrVec `json:"PAR_POROSITY"`       // one entry or one per type
	ParRadius        FltOrVec `json:"PAR_RADIUS"`         // one entry or one per type
	ParCoreRadius    FltOrVec `json:"PAR_CORERADIUS"`     // optional, defaults to zero
	ParTypeVolFrac   FltOrVec `json:"PAR_TYPE_VOLFRAC"`   // NParType or NCol*NParType entries
	FilmDiffusion    FltOrVec `json:"FILM_DIFFUSION"`     // NParType*NComp entries, optionally per section
	ParDiffusion     FltOrVec `json:"PAR_DIFFUSION"`      // same layout as FILM_DIFFUSION
	ParSurfDiffusion FltOrVec `json:"PAR_SURFDIFFUSION"`  // bound states, bound-major within each type
	PoreAccess       FltOrVec `json:"PORE_ACCESSIBILITY"` // NParType*NComp entries, defaults to one

	// kinetic models
	AdsorptionModel     StrOrVec               `json:"ADSORPTION_MODEL"`           // one name or one per type
	AdsorptionMultiplex int                    `json:"ADSORPTION_MODEL_MULTIPLEX"` // force sharing one parameter group
	Adsorption          []map[string][]float64 `json:"adsorption"`                 // parameter groups, one or one per type
	ExtFun              StrOrVec               `json:"EXT_FUN"`                    // external time profiles handed to the binding models
	ReactionModel       string                 `json:"REACTION_MODEL"`             // bulk reaction model name
	Reaction            map[string][]float64   `json:"reaction"`                   // bulk reaction parameters
	ReactionModelPar    StrOrVec               `json:"REACTION_MODEL_PARTICLES"`   // one name or one per type
	ReactionPar         []map[string][]float64 `json:"reaction_particles"`         // parameter groups, one or one per type

	// initial conditions
	InitC    []float64 `json:"INIT_C"`          // NComp entries
	InitCp   []float64 `json:"INIT_CP"`         // optional, NComp or NParType*NComp entries
	InitQ    []float64 `json:"INIT_Q"`          // optional, all bound states, types consecutive
	InitY    []float64 `json:"INIT_STATE_Y"`    // optional full state
	InitYDot []float64 `json:"INIT_STATE_YDOT"` // optional full state derivative
}

// SectionsData holds the time sections and the inlet profile
type SectionsData struct {
	Times      []float64  `json:"SECTION_TIMES"`      // NSec+1 ascending instants
	Continuity []bool     `json:"SECTION_CONTINUITY"` // optional, NSec-1 smooth-transition flags
	Inlet      [][]string `json:"INLET"`              // function names, one row per section, NComp entries each
}

// SensData selects the parameter sensitivities to integrate. All arrays have
// one entry per requested sensitivity; the index arrays may be omitted and
// then default to the independent marker -1.
type SensData struct {
	Name    []string  `json:"SENS_NAME"`       // parameter names
	Comp    []int     `json:"SENS_COMP"`       // component index or -1
	ParType []int     `json:"SENS_PARTYPE"`    // particle type index or -1
	Bound   []int     `json:"SENS_BOUNDPHASE"` // bound state index or -1
	React   []int     `json:"SENS_REACTION"`   // reaction index or -1
	Section []int     `json:"SENS_SECTION"`    // section index or -1
	Factor  []float64 `json:"SENS_FACTOR"`     // derivative seed, defaults to one
}

// Simulation holds all simulation input data
type Simulation struct {

	// input data
	Data      Data         `json:"data"`           // global information
	Functions FuncsData    `json:"functions"`      // time function database
	Solver    SolverData   `json:"solver"`         // time stepping and linear solver control
	Disc      DiscData     `json:"discretization"` // spatial discretisation
	Unit      UnitData     `json:"unit"`           // column unit operation
	Sections  SectionsData `json:"sections"`       // time sections and inlet profile
	Sens      SensData     `json:"sensitivity"`    // parameter sensitivity requests

	// derived
	FnKey       string       // simulation file name key
	DirOut      string       // output directory
	NSec        int          // number of time sections
	NParType    int          // number of particle types after inference
	StrideBound []int        // total bound states per particle type
	InletFcns   [][]fun.Func // resolved inlet functions, one row per section

	// normalised parameter layouts, one slice per particle type
	film     [][]float64
	parDiff  [][]float64
	surfDiff [][]float64
	poreAcc  [][]float64
}

// ReadSim reads a simulation input file, sets defaults, validates the data
// and resolves the derived quantities
func ReadSim(simfilepath string, erasePrev bool) (o *Simulation, err error) {

	// new sim with defaults
	o = new(Simulation)
	o.Solver.SetDefault()
	o.Disc.SetDefault()

	// read file
	b, err := io.ReadFile(simfilepath)
	if err != nil {
		return nil, chk.Err("ReadSim: cannot read simulation file %q", simfilepath)
	}

	// decode
	if err = json.Unmarshal(b, o); err != nil {
		return nil, chk.Err("ReadSim: cannot unmarshal simulation file %q:\n%v", simfilepath, err)
	}

	// filename key and output directory
	fn := filepath.Base(simfilepath)
	o.FnKey = io.FnKey(fn)
	o.DirOut = o.Data.DirOut
	if o.DirOut == "" {
		o.DirOut = "/tmp/cadet/" + o.FnKey
	}
	if err = os.MkdirAll(o.DirOut, 0777); err != nil {
		return nil, chk.Err("cannot create directory for output results (%s): %v", o.DirOut, err)
	}

	// erase previous simulation results
	if erasePrev {
		io.RemoveAll(io.Sf("%s/%s*", o.DirOut, o.FnKey))
	}

	// validate and normalise
	if err = o.normalise(); err != nil {
		return nil, err
	}
	return
}

// normalise validates the input data, expands scalar shorthands and computes
// the derived quantities
func (o *Simulation) normalise() (err error) {

	// system size
	nc := o.Unit.NComp
	if nc < 1 {
		return invalidPrm("NCOMP", "at least one component is required, not %d", nc)
	}
	if o.Disc.NCol < 1 {
		return invalidPrm("NCOL", "at least one axial cell is required, not %d", o.Disc.NCol)
	}
	if o.Disc.WenoOrder < 1 || o.Disc.WenoOrder > 2 {
		return invalidPrm("WENO_ORDER", "must lie in 1..2, not %d", o.Disc.WenoOrder)
	}
	if err = o.Solver.Validate(); err != nil {
		return
	}

	// sections
	if len(o.Sections.Times) < 2 {
		return invalidPrm("SECTION_TIMES", "at least two instants are required, not %d", len(o.Sections.Times))
	}
	o.NSec = len(o.Sections.Times) - 1
	for i := 0; i < o.NSec; i++ {
		if o.Sections.Times[i+1] <= o.Sections.Times[i] {
			return invalidPrm("SECTION_TIMES", "instants must be strictly increasing, but t[%d]=%g >= t[%d]=%g",
				i, o.Sections.Times[i], i+1, o.Sections.Times[i+1])
		}
	}
	if n := len(o.Sections.Continuity); n != 0 && n != o.NSec-1 {
		return invalidPrm("SECTION_CONTINUITY", "%d transition flags are required, not %d", o.NSec-1, n)
	}
	if len(o.Sections.Inlet) != o.NSec {
		return invalidPrm("INLET", "one row of function names per section is required: %d rows, not %d", o.NSec, len(o.Sections.Inlet))
	}
	o.InletFcns = make([][]fun.Func, o.NSec)
	for s := 0; s < o.NSec; s++ {
		if len(o.Sections.Inlet[s]) != nc {
			return invalidPrm("INLET", "row %d must name %d functions, not %d", s, nc, len(o.Sections.Inlet[s]))
		}
		o.InletFcns[s] = make([]fun.Func, nc)
		for c := 0; c < nc; c++ {
			if o.InletFcns[s][c], err = o.Functions.Get(o.Sections.Inlet[s][c]); err != nil {
				return
			}
		}
	}

	// number of particle types
	if len(o.Disc.NBound) == 0 || len(o.Disc.NBound)%nc != 0 {
		return invalidPrm("NBOUND", "length must be a non-zero multiple of NCOMP=%d, not %d", nc, len(o.Disc.NBound))
	}
	nt := o.Disc.NParType
	if nt == 0 {
		nt = 1
		if n := len(o.Disc.NBound) / nc; n > nt {
			nt = n
		}
		if len(o.Disc.NPar) > nt {
			nt = len(o.Disc.NPar)
		}
	}
	o.NParType = nt

	// shells and bound states per type
	switch len(o.Disc.NPar) {
	case 1:
		npar := make(IntOrVec, nt)
		for t := 0; t < nt; t++ {
			npar[t] = o.Disc.NPar[0]
		}
		o.Disc.NPar = npar
	case nt:
	default:
		return invalidPrm("NPAR", "one entry or one per particle type (%d) is required, not %d", nt, len(o.Disc.NPar))
	}
	for t := 0; t < nt; t++ {
		if o.Disc.NPar[t] < 1 {
			return invalidPrm("NPAR", "type %d needs at least one shell, not %d", t, o.Disc.NPar[t])
		}
	}
	switch len(o.Disc.NBound) {
	case nc:
		if nt > 1 {
			nb := make(IntOrVec, nt*nc)
			for t := 0; t < nt; t++ {
				copy(nb[t*nc:], o.Disc.NBound)
			}
			o.Disc.NBound = nb
		}
	case nt * nc:
	default:
		return invalidPrm("NBOUND", "%d or %d entries are required, not %d", nc, nt*nc, len(o.Disc.NBound))
	}
	o.StrideBound = make([]int, nt)
	for t := 0; t < nt; t++ {
		for c := 0; c < nc; c++ {
			if o.Disc.NBound[t*nc+c] < 0 {
				return invalidPrm("NBOUND", "entries must be non-negative, but type %d component %d has %d", t, c, o.Disc.NBound[t*nc+c])
			}
			o.StrideBound[t] += o.Disc.NBound[t*nc+c]
		}
	}

	// radial grid modes
	switch len(o.Disc.ParDiscType) {
	case 0:
		o.Disc.ParDiscType = StrOrVec{"EQUIDISTANT_PAR"}
	case 1, nt:
	default:
		return invalidPrm("PAR_DISC_TYPE", "one entry or one per particle type (%d) is required, not %d", nt, len(o.Disc.ParDiscType))
	}
	for _, mode := range o.Disc.ParDiscType {
		switch mode {
		case "EQUIDISTANT_PAR", "EQUIVOLUME_PAR", "USER_DEFINED_PAR":
		default:
			return invalidPrm("PAR_DISC_TYPE", "unknown radial grid mode %q", mode)
		}
	}

	// bulk transport
	if o.Unit.ColLength <= 0 {
		return invalidPrm("COL_LENGTH", "must be positive, not %g", o.Unit.ColLength)
	}
	if n := len(o.Unit.Velocity); n != 1 && n != o.NSec {
		return invalidPrm("VELOCITY", "one entry or one per section (%d) is required, not %d", o.NSec, n)
	}
	if n := len(o.Unit.ColDispersion); n != nc && n != o.NSec*nc {
		return invalidPrm("COL_DISPERSION", "%d or %d entries are required, not %d", nc, o.NSec*nc, n)
	}

	// volume fractions
	if len(o.Unit.ParTypeVolFrac) == 0 {
		if nt > 1 {
			return invalidPrm("PAR_TYPE_VOLFRAC", "%d particle types require %d or %d entries", nt, nt, o.Disc.NCol*nt)
		}
		o.Unit.ParTypeVolFrac = FltOrVec{1}
	}

	// per-type transport parameters
	if o.film, err = o.splitPerType(o.Unit.FilmDiffusion, nc, "FILM_DIFFUSION", true); err != nil {
		return
	}
	if o.parDiff, err = o.splitPerType(o.Unit.ParDiffusion, nc, "PAR_DIFFUSION", true); err != nil {
		return
	}
	if o.surfDiff, err = o.splitSurfDiffusion(); err != nil {
		return
	}
	if len(o.Unit.PoreAccess) > 0 {
		if o.poreAcc, err = o.splitPerType(o.Unit.PoreAccess, nc, "PORE_ACCESSIBILITY", false); err != nil {
			return
		}
	}

	// adsorption model selection
	switch len(o.Unit.AdsorptionModel) {
	case 1:
		if nt > 1 {
			names := make(StrOrVec, nt)
			for t := 0; t < nt; t++ {
				names[t] = o.Unit.AdsorptionModel[0]
			}
			o.Unit.AdsorptionModel = names
		}
	case nt:
	default:
		return invalidPrm("ADSORPTION_MODEL", "one name or one per particle type (%d) is required, not %d", nt, len(o.Unit.AdsorptionModel))
	}
	if n := len(o.Unit.Adsorption); n != 1 && n != nt {
		if n == 0 && o.allBindingTrivial() {
			o.Unit.Adsorption = make([]map[string][]float64, 1)
		} else {
			return invalidPrm("adsorption", "one parameter group or one per particle type (%d) is required, not %d", nt, n)
		}
	}
	if o.Unit.AdsorptionMultiplex > 0 {
		if len(o.Unit.Adsorption) != 1 {
			return invalidPrm("ADSORPTION_MODEL_MULTIPLEX", "sharing requires a single adsorption parameter group, not %d", len(o.Unit.Adsorption))
		}
		for t := 1; t < nt; t++ {
			if o.Unit.AdsorptionModel[t] != o.Unit.AdsorptionModel[0] {
				return invalidPrm("ADSORPTION_MODEL_MULTIPLEX", "sharing requires one model for all particle types")
			}
			for c := 0; c < nc; c++ {
				if o.Disc.NBound[t*nc+c] != o.Disc.NBound[c] {
					return invalidPrm("ADSORPTION_MODEL_MULTIPLEX", "sharing requires identical NBOUND rows, but type %d differs", t)
				}
			}
		}
	}

	// reaction model selection
	if n := len(o.Unit.ReactionModelPar); n > 1 && n != nt {
		return invalidPrm("REACTION_MODEL_PARTICLES", "one name or one per particle type (%d) is required, not %d", nt, n)
	}
	if n := len(o.Unit.ReactionPar); n > 1 && n != nt {
		return invalidPrm("reaction_particles", "one parameter group or one per particle type (%d) is required, not %d", nt, n)
	}

	// initial conditions
	if len(o.Unit.InitY) == 0 {
		if len(o.Unit.InitC) != nc {
			return invalidPrm("INIT_C", "%d entries are required, not %d", nc, len(o.Unit.InitC))
		}
	}
	if n := len(o.Unit.InitCp); n != 0 && n != nc && n != nt*nc {
		return invalidPrm("INIT_CP", "%d or %d entries are required, not %d", nc, nt*nc, n)
	}
	totB := 0
	for t := 0; t < nt; t++ {
		totB += o.StrideBound[t]
	}
	if n := len(o.Unit.InitQ); n != 0 && n != totB {
		return invalidPrm("INIT_Q", "%d entries are required, not %d", totB, n)
	}

	// sensitivity requests
	ns := len(o.Sens.Name)
	if o.Sens.Comp, err = padIndex(o.Sens.Comp, ns, "SENS_COMP"); err != nil {
		return
	}
	if o.Sens.ParType, err = padIndex(o.Sens.ParType, ns, "SENS_PARTYPE"); err != nil {
		return
	}
	if o.Sens.Bound, err = padIndex(o.Sens.Bound, ns, "SENS_BOUNDPHASE"); err != nil {
		return
	}
	if o.Sens.React, err = padIndex(o.Sens.React, ns, "SENS_REACTION"); err != nil {
		return
	}
	if o.Sens.Section, err = padIndex(o.Sens.Section, ns, "SENS_SECTION"); err != nil {
		return
	}
	switch len(o.Sens.Factor) {
	case 0:
		o.Sens.Factor = make([]float64, ns)
		for i := 0; i < ns; i++ {
			o.Sens.Factor[i] = 1
		}
	case ns:
	default:
		return invalidPrm("SENS_FACTOR", "%d entries are required, not %d", ns, len(o.Sens.Factor))
	}
	return
}

// allBindingTrivial reports whether every particle type uses the NONE model
func (o *Simulation) allBindingTrivial() bool {
	for _, name := range o.Unit.AdsorptionModel {
		if name != "NONE" {
			return false
		}
	}
	return len(o.Unit.AdsorptionModel) > 0
}

// NBoundOf returns the bound states per component of one particle type
func (o *Simulation) NBoundOf(t int) []int {
	nc := o.Unit.NComp
	return o.Disc.NBound[t*nc : (t+1)*nc]
}

// SectionIndex returns the section containing time t; times outside the
// configured range clip to the first and last sections
func (o *Simulation) SectionIndex(t float64) int {
	for s := o.NSec - 1; s > 0; s-- {
		if t >= o.Sections.Times[s] {
			return s
		}
	}
	return 0
}

// Continuous reports whether the transition into section sec is smooth
func (o *Simulation) Continuous(sec int) bool {
	if sec < 1 || sec > len(o.Sections.Continuity) {
		return false
	}
	return o.Sections.Continuity[sec-1]
}

// splitPerType splits a section-major, type-major flat parameter array into
// one slice per particle type, keeping the section order within each type.
// Optional arrays yield nil when absent.
func (o *Simulation) splitPerType(v FltOrVec, n int, name string, required bool) ([][]float64, error) {
	nt, nSec := o.NParType, o.NSec
	if len(v) == 0 {
		if required {
			return nil, invalidPrm(name, "%d or %d entries are required", nt*n, nSec*nt*n)
		}
		return nil, nil
	}
	ns := 1
	switch len(v) {
	case nt * n:
	case nSec * nt * n:
		ns = nSec
	default:
		return nil, invalidPrm(name, "%d or %d entries are required, not %d", nt*n, nSec*nt*n, len(v))
	}
	out := make([][]float64, nt)
	for t := 0; t < nt; t++ {
		out[t] = make([]float64, ns*n)
		for sec := 0; sec < ns; sec++ {
			copy(out[t][sec*n:(sec+1)*n], v[sec*nt*n+t*n:])
		}
	}
	return out, nil
}

// splitSurfDiffusion splits the flat surface diffusion array per particle
// type and reorders each type from the bound-major input order to the
// component-major state order
func (o *Simulation) splitSurfDiffusion() ([][]float64, error) {
	nt, nc, nSec := o.NParType, o.Unit.NComp, o.NSec
	sbTot := 0
	typeOff := make([]int, nt)
	for t := 0; t < nt; t++ {
		typeOff[t] = sbTot
		sbTot += o.StrideBound[t]
	}
	v := []float64(o.Unit.ParSurfDiffusion)
	if sbTot == 0 {
		if len(v) > 0 {
			return nil, invalidPrm("PAR_SURFDIFFUSION", "no bound states are configured")
		}
		return make([][]float64, nt), nil
	}
	ns := 1
	switch len(v) {
	case sbTot:
	case nSec * sbTot:
		ns = nSec
	default:
		return nil, invalidPrm("PAR_SURFDIFFUSION", "%d or %d entries are required, not %d", sbTot, nSec*sbTot, len(v))
	}
	out := make([][]float64, nt)
	for t := 0; t < nt; t++ {
		sb := o.StrideBound[t]
		if sb == 0 {
			continue
		}
		idx := boundMajorOrder(nc, o.NBoundOf(t))
		out[t] = make([]float64, ns*sb)
		for sec := 0; sec < ns; sec++ {
			src := v[sec*sbTot+typeOff[t]:]
			for j := 0; j < sb; j++ {
				out[t][sec*sb+idx[j]] = src[j]
			}
		}
	}
	return out, nil
}

// boundMajorOrder maps each position of the bound-major input order to the
// component-major state slot of one particle type
func boundMajorOrder(nc int, nb []int) (idx []int) {
	off := make([]int, nc)
	sb, maxB := 0, 0
	for c := 0; c < nc; c++ {
		off[c] = sb
		sb += nb[c]
		if nb[c] > maxB {
			maxB = nb[c]
		}
	}
	idx = make([]int, 0, sb)
	for b := 0; b < maxB; b++ {
		for c := 0; c < nc; c++ {
			if b < nb[c] {
				idx = append(idx, off[c]+b)
			}
		}
	}
	return
}

// padIndex expands an optional index array to n independent markers
func padIndex(v []int, n int, name string) ([]int, error) {
	switch len(v) {
	case 0:
		out := make([]int, n)
		for i := 0; i < n; i++ {
			out[i] = -1
		}
		return out, nil
	case n:
		return v, nil
	}
	return nil, invalidPrm(name, "%d entries are required, not %d", n, len(v))
}
