// Copyright 2017 The CADET Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"math"

	"github.com/blockspacer/CADET/inp"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
)

// DebugKb defines a callback to be run after each Jacobian assembly; e.g.
// to inspect the discretised system matrix
type DebugKb func(d *Domain, it int)

// Solver implements the time-stepping scheme advancing the solution of one
// time section up to tf
type Solver interface {
	Run(tf float64, verbose bool, dbgKb DebugKb) (err error)
}

// allocators holds the available solvers
var allocators = map[string]func(dom *Domain, dat *inp.SolverData) Solver{}

// divergence control limits
const (
	ndvgMax = 20    // maximum number of consecutive step halvings
	dtMin   = 1e-12 // smallest allowed step size
)

// Implicit advances the coupled system with a fixed-step backward
// differentiation scheme of order 1 or 2. Each step solves the discretised
// nonlinear system with Newton iterations; after the state converges, the
// sensitivities are advanced in a staggered fashion reusing the factorised
// system matrix. Diverging iterations restore the previous state and retry
// with a halved step.
type Implicit struct {

	// input
	dom   *Domain         // domain
	dat   *inp.SolverData // solver data
	order int             // BDF order: 1 or 2

	// multistep history
	yn, ynn []float64   // states at t(n) and t(n-1)
	sn, snn [][]float64 // sensitivities at t(n) and t(n-1)
	hprev   float64     // size of the previous accepted step
	nsteps  int         // accepted steps since the last re-initialisation

	// dynamic coefficients and starred vectors
	α  float64     // factor multiplying y in the rate recovery
	ψ  []float64   // history part of the rate recovery
	ψS [][]float64 // history parts of the sensitivity rates

	// debugging
	dbgKb DebugKb // debug callback. may be nil
}

// add solvers to database
func init() {
	allocators["bdf1"] = func(dom *Domain, dat *inp.SolverData) Solver { return newImplicit(dom, dat, 1) }
	allocators["bdf2"] = func(dom *Domain, dat *inp.SolverData) Solver { return newImplicit(dom, dat, 2) }
}

// newImplicit allocates the history and starred vectors
func newImplicit(dom *Domain, dat *inp.SolverData, order int) *Implicit {
	o := new(Implicit)
	o.dom = dom
	o.dat = dat
	o.order = order
	nd := dom.Col.NumDofs()
	ns := dom.Col.NumSensDirs()
	o.yn = make([]float64, nd)
	o.ynn = make([]float64, nd)
	o.sn = la.MatAlloc(ns, nd)
	o.snn = la.MatAlloc(ns, nd)
	o.ψ = make([]float64, nd)
	o.ψS = la.MatAlloc(ns, nd)
	return o
}

// Run advances the solution up to tf
func (o *Implicit) Run(tf float64, verbose bool, dbgKb DebugKb) (err error) {

	// auxiliary
	dom := o.dom
	sol := dom.Sol
	dat := o.dat
	o.dbgKb = dbgKb

	// a section starts fresh: the multistep history is rebuilt from the
	// current (possibly re-initialised) solution
	o.nsteps = 0
	copy(o.yn, sol.Y)
	for p := 0; p < len(sol.S); p++ {
		copy(o.sn[p], sol.S[p])
	}

	// time loop
	t := sol.T
	md := 1.0 // time step multiplier
	ndiverg := 0
	for t < tf-1e-14 {

		// check time step
		Δt := md * dat.Dt
		if t+Δt > tf-dtMin {
			Δt = tf - t
		}
		if Δt < dtMin {
			return chk.Err("time step Δt=%g is smaller than %g (t=%g)", Δt, dtMin, t)
		}
		if ndiverg > ndvgMax {
			return chk.Err("Newton iterations diverged %d times in a row (t=%g)", ndiverg, t)
		}

		// dynamic coefficients and starred vectors
		o.starVars(Δt)

		// time update
		dom.backup()
		t += Δt
		sol.T = t
		sol.Dt = Δt

		// run iterations
		diverging, e := o.runIterations(t)
		if e != nil {
			return e
		}
		if diverging {
			if verbose {
				io.Pfred(". . . iterations diverging (t=%g) . . .\n", t)
			}
			dom.restore()
			t = sol.T
			md *= 0.5
			ndiverg++
			continue
		}
		md = 1.0
		ndiverg = 0

		// sensitivities
		if len(sol.S) > 0 {
			if err = o.advanceSens(t); err != nil {
				return
			}
		}

		// accept step: rotate the multistep history
		copy(o.ynn, o.yn)
		copy(o.yn, sol.Y)
		for p := 0; p < len(sol.S); p++ {
			copy(o.snn[p], o.sn[p])
			copy(o.sn[p], sol.S[p])
		}
		o.hprev = Δt
		o.nsteps++
		sol.Steps++

		// message
		if verbose {
			io.PfWhite("%30.15f\r", t)
		}

		// output
		if dom.Out != nil {
			if err = dom.Out(sol); err != nil {
				return
			}
		}
	}
	return
}

// starVars computes the dynamic coefficients and the starred history vectors
// for a step of size Δt, such that the rates follow from
//
//	dy/dt = α*y - ψ
//
// The first step after a re-initialisation, and every step under order 1,
// uses backward Euler; afterwards the variable-step BDF2 formula accounts
// for the size of the previous step.
func (o *Implicit) starVars(Δt float64) {
	sol := o.dom.Sol
	nd := len(sol.Y)
	if o.order == 1 || o.nsteps == 0 {
		o.α = 1.0 / Δt
		for i := 0; i < nd; i++ {
			o.ψ[i] = o.yn[i] / Δt
		}
		for p := 0; p < len(sol.S); p++ {
			for i := 0; i < nd; i++ {
				o.ψS[p][i] = o.sn[p][i] / Δt
			}
		}
		return
	}
	ρ := Δt / o.hprev
	c1 := (1.0 + ρ) / Δt
	c2 := ρ * ρ / (1.0 + ρ) / Δt
	o.α = (1.0 + 2.0*ρ) / (1.0 + ρ) / Δt
	for i := 0; i < nd; i++ {
		o.ψ[i] = c1*o.yn[i] - c2*o.ynn[i]
	}
	for p := 0; p < len(sol.S); p++ {
		for i := 0; i < nd; i++ {
			o.ψS[p][i] = c1*o.sn[p][i] - c2*o.snn[p][i]
		}
	}
}

// runIterations solves the discretised nonlinear system at the new time with
// Newton's method. The iterations are deemed diverging when the residual
// cannot be evaluated, the linear solver fails, or the weighted correction
// norm grows; the caller then restores the previous state and retries with a
// smaller step.
func (o *Implicit) runIterations(t float64) (diverging bool, err error) {

	// auxiliary
	dom := o.dom
	sol := dom.Sol
	dat := o.dat
	nd := len(sol.Y)

	// predictor: keep y and recover the rates from the starred vectors
	for i := 0; i < nd; i++ {
		sol.Dydt[i] = o.α*sol.Y[i] - o.ψ[i]
	}

	// iterations
	var Lδu, prevLδu float64
	for it := 0; it < dat.NmaxIt; it++ {
		sol.It = it + 1

		// assemble negative of residual
		if status := dom.Residual(t, sol.Y, sol.Dydt, dom.fb, true); status != 0 {
			diverging = true
			return
		}
		for i := 0; i < nd; i++ {
			dom.fb[i] = -dom.fb[i]
		}

		// check largest component
		largFb := la.VecLargest(dom.fb, 1)
		if math.IsNaN(largFb) || math.IsInf(largFb, 0) {
			diverging = true
			return
		}
		if it > 0 && largFb < dat.Atol {
			return // converged on the residual
		}

		// solve linear problem
		if err = dom.Col.AssembleDiscretized(o.α); err != nil {
			return
		}
		if o.dbgKb != nil {
			o.dbgKb(dom, it)
		}
		if dom.Col.SolveDiscretized(dom.fb, dat.Atol) != nil {
			diverging = true // let the caller retry with a smaller step
			return
		}

		// update state and rates
		for i := 0; i < nd; i++ {
			sol.Y[i] += dom.fb[i]
			sol.Dydt[i] = o.α*sol.Y[i] - o.ψ[i]
		}

		// check convergence on the weighted correction norm
		Lδu = la.VecRmsErr(dom.fb, dat.Atol, dat.Rtol, sol.Y)
		if Lδu < 1 {
			return
		}
		if it > 1 && Lδu > prevLδu {
			diverging = true
			return
		}
		prevLδu = Lδu
	}

	// no convergence within NmaxIt iterations
	diverging = true
	return
}

// advanceSens advances the sensitivity systems across the step just
// accepted. The sensitivity equations are linear in s, hence one corrective
// solve per direction suffices; the system matrix is reused as factorised by
// the last Newton iteration of the state, which carries the same α.
func (o *Implicit) advanceSens(t float64) (err error) {

	// rates from the starred vectors
	dom := o.dom
	sol := dom.Sol
	nd := len(sol.Y)
	for p := 0; p < len(sol.S); p++ {
		for i := 0; i < nd; i++ {
			sol.Sdot[p][i] = o.α*sol.S[p][i] - o.ψS[p][i]
		}
	}

	// residuals of all directions at the converged state
	if status := dom.ResidualSens(); status != 0 {
		return chk.Err("sensitivity residual evaluation failed (t=%g)", t)
	}

	// one correction per direction
	for p := 0; p < len(sol.S); p++ {
		rs := dom.resS[p]
		for i := 0; i < nd; i++ {
			rs[i] = -rs[i]
		}
		if err = dom.Col.SolveDiscretized(rs, o.dat.Atol); err != nil {
			return
		}
		for i := 0; i < nd; i++ {
			sol.S[p][i] += rs[i]
			sol.Sdot[p][i] = o.α*sol.S[p][i] - o.ψS[p][i]
		}
	}
	return
}
