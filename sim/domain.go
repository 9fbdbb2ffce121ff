// Copyright 2017 The CADET Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sim implements the time-domain simulator. It couples the column
// unit with the inlet feed profile, integrates the resulting
// differential-algebraic system over the time sections with fixed-step BDF
// schemes, and advances the parameter sensitivities alongside the state.
package sim

import (
	"github.com/blockspacer/CADET/grm"
	"github.com/blockspacer/CADET/inp"
	"github.com/cpmech/gosl/la"
)

// Solution holds the time, the state vector and its rate, and the
// sensitivity systems of all seeded directions
type Solution struct {

	// time
	T  float64 // current time
	Dt float64 // size of the last accepted step

	// state
	Y    []float64 // state variables
	Dydt []float64 // first time derivatives

	// sensitivities
	S    [][]float64 // sensitivity states; one row per direction
	Sdot [][]float64 // sensitivity rates; one row per direction

	// statistics
	Steps int // accepted time steps
	It    int // Newton iterations spent on the last step
}

// OutFcn is called after the initial conditions are set and after every
// accepted time step. Returning an error stops the simulation.
type OutFcn func(sol *Solution) error

// Domain holds the column unit together with the solution vectors and the
// inlet coupling. The column treats its inlet rows as plain algebraic
// identities; the domain closes them against the feed functions of the
// current section.
type Domain struct {

	// input
	Sim *inp.Simulation // simulation data
	Col *grm.Column     // column unit

	// solution
	Sol *Solution // current solution

	// callbacks
	Out OutFcn // output function. may be nil

	// auxiliary
	sec    int         // current section
	fb     []float64   // negative of residual => linear solver input
	resS   [][]float64 // sensitivity residuals
	bkpSol *Solution   // backup solution
}

// NewDomain allocates the column described by sim and the solution vectors
func NewDomain(sim *inp.Simulation) (o *Domain, err error) {
	o = new(Domain)
	o.Sim = sim
	if o.Col, err = sim.MakeColumn(); err != nil {
		return nil, err
	}
	nd := o.Col.NumDofs()
	ns := o.Col.NumSensDirs()
	o.Sol = &Solution{
		Y:    make([]float64, nd),
		Dydt: make([]float64, nd),
		S:    la.MatAlloc(ns, nd),
		Sdot: la.MatAlloc(ns, nd),
	}
	o.fb = make([]float64, nd)
	o.resS = la.MatAlloc(ns, nd)
	return
}

// InletValue returns the feed concentration of component c at time t,
// according to the inlet functions of the current section
func (o *Domain) InletValue(c int, t float64) float64 {
	return o.Sim.InletFcns[o.sec][c].F(t, nil)
}

// Residual evaluates the coupled residual: the column equations with the
// inlet rows tied to the feed. The feed depends on time only, so the
// Jacobian assembled by the column needs no correction.
func (o *Domain) Residual(t float64, y, yDot, res []float64, wantJac bool) (status int) {
	status = o.Col.Residual(o.sec, y, yDot, res, wantJac)
	for c := 0; c < o.Col.NumComp(); c++ {
		res[c] -= o.InletValue(c, t)
	}
	return
}

// ResidualSens evaluates the sensitivity residuals of all directions at the
// current state. The feed does not depend on any seeded parameter, hence the
// inlet rows need no correction here either.
func (o *Domain) ResidualSens() (status int) {
	sol := o.Sol
	return o.Col.ResidualSens(o.sec, sol.Y, sol.Dydt, sol.S, sol.Sdot, o.resS)
}

// applyInlet overwrites the inlet degrees of freedom with the feed values
func (o *Domain) applyInlet(t float64, y []float64) {
	for c := 0; c < o.Col.NumComp(); c++ {
		y[c] = o.InletValue(c, t)
	}
}

// InitState initialises the solution at the beginning of the first section:
// user-given initial values, the feed on the inlet rows, consistent values
// for the algebraic variables and the time derivatives, and consistent
// sensitivity systems for all seeded directions
func (o *Domain) InitState() (err error) {
	o.sec = 0
	o.Col.NotifySectionTransition(0)
	sol := o.Sol
	sol.T = o.Sim.Sections.Times[0]
	sol.Steps = 0
	if err = o.Col.ApplyInitialConditions(sol.Y, sol.Dydt); err != nil {
		return
	}
	o.applyInlet(sol.T, sol.Y)
	tol := o.Sim.Solver.Atol * o.Sim.Solver.InitSafety
	if err = o.Col.ConsistentInitState(o.sec, sol.Y, tol); err != nil {
		return
	}
	o.Col.ConsistentInitTimeDeriv(o.sec, sol.Y, sol.Dydt)
	if o.Col.NumSensDirs() > 0 {
		err = o.Col.ConsistentInitSens(o.sec, sol.Y, sol.Dydt, sol.S, sol.Sdot)
	}
	return
}

// Transition moves the domain into section sec, whose start time must equal
// the current solution time. Smooth transitions keep the state as is; a
// discontinuous feed or a flow reversal demands a lean re-initialisation:
// the inlet and flux variables are reconciled with the new section and the
// time derivatives and sensitivities are recovered from them.
func (o *Domain) Transition(sec int) (err error) {
	o.sec = sec
	reversed := o.Col.NotifySectionTransition(sec)
	sol := o.Sol
	sol.T = o.Sim.Sections.Times[sec]
	if o.Sim.Continuous(sec) && !reversed {
		return
	}
	o.applyInlet(sol.T, sol.Y)
	o.Col.ConsistentInitStateLean(o.sec, sol.Y)
	o.Col.ConsistentInitTimeDeriv(o.sec, sol.Y, sol.Dydt)
	if o.Col.NumSensDirs() > 0 {
		err = o.Col.ConsistentInitSens(o.sec, sol.Y, sol.Dydt, sol.S, sol.Sdot)
	}
	return
}

// backup saves a copy of the current solution
func (o *Domain) backup() {
	if o.bkpSol == nil {
		nd := len(o.Sol.Y)
		ns := len(o.Sol.S)
		o.bkpSol = &Solution{
			Y:    make([]float64, nd),
			Dydt: make([]float64, nd),
			S:    la.MatAlloc(ns, nd),
			Sdot: la.MatAlloc(ns, nd),
		}
	}
	o.bkpSol.T = o.Sol.T
	copy(o.bkpSol.Y, o.Sol.Y)
	copy(o.bkpSol.Dydt, o.Sol.Dydt)
	for p := 0; p < len(o.Sol.S); p++ {
		copy(o.bkpSol.S[p], o.Sol.S[p])
		copy(o.bkpSol.Sdot[p], o.Sol.Sdot[p])
	}
}

// restore brings back the last backup
func (o *Domain) restore() {
	o.Sol.T = o.bkpSol.T
	copy(o.Sol.Y, o.bkpSol.Y)
	copy(o.Sol.Dydt, o.bkpSol.Dydt)
	for p := 0; p < len(o.Sol.S); p++ {
		copy(o.Sol.S[p], o.bkpSol.S[p])
		copy(o.Sol.Sdot[p], o.bkpSol.Sdot[p])
	}
}
