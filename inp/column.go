// Copyright 2017 The CADET Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"github.com/blockspacer/CADET/grm"
	"github.com/blockspacer/CADET/mbind"
	"github.com/blockspacer/CADET/mreact"
	"github.com/cpmech/gosl/fun"
)

// MakeColumn builds and configures the column unit from the input data.
// The parameter sensitivities requested in the sensitivity group are
// registered on the returned column in input order.
func (o *Simulation) MakeColumn() (col *grm.Column, err error) {

	nc, nt := o.Unit.NComp, o.NParType

	// external profiles modulating binding parameters, resolved by name
	// from the functions database
	var extFcns []fun.Func
	for _, name := range o.Unit.ExtFun {
		var f fun.Func
		if f, err = o.Functions.Get(name); err != nil {
			return
		}
		extFcns = append(extFcns, f)
	}

	// binding models. A single parameter group with one model name for all
	// particle types yields one shared instance.
	binding := make([]mbind.Model, nt)
	shared := len(o.Unit.Adsorption) == 1 && nt > 1 && sameNames(o.Unit.AdsorptionModel)
	for t := 0; t < nt; t++ {
		if shared && t > 0 {
			binding[t] = binding[0]
			continue
		}
		grp := o.Unit.Adsorption[0]
		if len(o.Unit.Adsorption) == nt {
			grp = o.Unit.Adsorption[t]
		}
		if binding[t], err = o.makeBinding(o.Unit.AdsorptionModel[t], t, grp); err != nil {
			return
		}
		if len(extFcns) > 0 {
			binding[t].SetExternalFunctions(extFcns)
		}
	}

	// particle reaction models; nil entries mean none
	var reactPar []mreact.Model
	if len(o.Unit.ReactionModelPar) > 0 {
		reactPar = make([]mreact.Model, nt)
		for t := 0; t < nt; t++ {
			name := o.Unit.ReactionModelPar[0]
			if len(o.Unit.ReactionModelPar) == nt {
				name = o.Unit.ReactionModelPar[t]
			}
			if name == "" || name == "NONE" {
				continue
			}
			var grp map[string][]float64
			switch len(o.Unit.ReactionPar) {
			case 1:
				grp = o.Unit.ReactionPar[0]
			case nt:
				grp = o.Unit.ReactionPar[t]
			}
			if reactPar[t], err = makeReaction(name, nc, o.NBoundOf(t), grp); err != nil {
				return
			}
		}
	}

	// bulk reaction model
	var reactBulk mreact.Model
	if o.Unit.ReactionModel != "" && o.Unit.ReactionModel != "NONE" {
		if reactBulk, err = makeReaction(o.Unit.ReactionModel, nc, nil, o.Unit.Reaction); err != nil {
			return
		}
	}

	// column configuration
	cfg := &grm.Config{
		NComp:     nc,
		NCol:      o.Disc.NCol,
		NParCell:  []int(o.Disc.NPar),
		NBound:    []int(o.Disc.NBound),
		WenoOrder: o.Disc.WenoOrder,

		ParDiscType:   []string(o.Disc.ParDiscType),
		ParDiscVector: o.Disc.ParDiscVector,

		NSec: o.NSec,

		ColLength:     o.Unit.ColLength,
		Velocity:      []float64(o.Unit.Velocity),
		ColDispersion: []float64(o.Unit.ColDispersion),
		ColPorosity:   o.Unit.ColPorosity,

		ParPorosity:    []float64(o.Unit.ParPorosity),
		ParRadius:      []float64(o.Unit.ParRadius),
		ParCoreRadius:  []float64(o.Unit.ParCoreRadius),
		ParTypeVolFrac: []float64(o.Unit.ParTypeVolFrac),
		FilmDiffusion:  o.film,
		ParDiffusion:   o.parDiff,
		SurfDiffusion:  o.surfDiff,
		PoreAccess:     o.poreAcc,

		Binding:   binding,
		ReactPar:  reactPar,
		ReactBulk: reactBulk,

		UseAnalyticJac:  o.Disc.UseAnalyticJac,
		FixZeroSurfDiff: o.Disc.FixZeroSurfDiff,
		MaxKrylov:       o.Solver.MaxKrylov,
		GsType:          o.Solver.GsType,
		MaxRestarts:     o.Solver.MaxRestarts,
		SchurSafety:     o.Solver.SchurSafety,

		InitC:    o.Unit.InitC,
		InitCp:   o.Unit.InitCp,
		InitQ:    o.Unit.InitQ,
		InitY:    o.Unit.InitY,
		InitYDot: o.Unit.InitYDot,

		NSensDir: len(o.Sens.Name),
	}
	if col, err = grm.NewColumn(cfg); err != nil {
		return
	}

	// register the requested parameter sensitivities
	for i := range o.Sens.Name {
		if err = col.SetSensParam(o.SensParamID(i), i, o.Sens.Factor[i]); err != nil {
			return nil, err
		}
	}
	return
}

// SensParamID builds the parameter identifier of one sensitivity request
func (o *Simulation) SensParamID(i int) grm.ParamID {
	id := grm.PID(o.Sens.Name[i])
	id.Comp = o.Sens.Comp[i]
	id.ParType = o.Sens.ParType[i]
	id.BoundState = o.Sens.Bound[i]
	id.Reaction = o.Sens.React[i]
	id.Section = o.Sens.Section[i]
	return id
}

// makeBinding allocates and initialises the binding model of particle type t
func (o *Simulation) makeBinding(name string, t int, grp map[string][]float64) (mbind.Model, error) {
	m, err := mbind.New(name)
	if err != nil {
		return nil, err
	}
	kinetic := true
	if v, ok := grp["IS_KINETIC"]; ok && len(v) > 0 {
		kinetic = v[0] != 0
	} else if name != "NONE" {
		return nil, invalidPrm("IS_KINETIC", "adsorption group of particle type %d must select the rate form", t)
	}
	if err = m.Init(o.Unit.NComp, o.NBoundOf(t), kinetic, grp); err != nil {
		return nil, err
	}
	return m, nil
}

// makeReaction allocates and initialises a reaction model; bulk models pass
// a nil bound-state array
func makeReaction(name string, nComp int, nBound []int, grp map[string][]float64) (mreact.Model, error) {
	m, err := mreact.New(name)
	if err != nil {
		return nil, err
	}
	if err = m.Init(nComp, nBound, grp); err != nil {
		return nil, err
	}
	return m, nil
}

// sameNames reports whether all entries are equal
func sameNames(names StrOrVec) bool {
	for i := 1; i < len(names); i++ {
		if names[i] != names[0] {
			return false
		}
	}
	return true
}
