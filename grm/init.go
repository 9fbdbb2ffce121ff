// Copyright 2017 The CADET Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grm

import (
	"github.com/blockspacer/CADET/ad"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
	"github.com/cpmech/gosl/num"
)

// ApplyInitialConditions writes the configured initial values into y and
// yDot. A full-state vector takes precedence; otherwise the inlet and bulk
// blocks start at INIT_C, particle mobile phases at INIT_CP (falling back to
// INIT_C), bound states at INIT_Q (zero when absent) and fluxes at zero.
func (o *Column) ApplyInitialConditions(y, yDot []float64) (err error) {

	if o.initY != nil {
		if len(o.initY) != o.disc.NDof {
			return chk.Err("INIT_STATE_Y must have %d entries, not %d", o.disc.NDof, len(o.initY))
		}
		copy(y, o.initY)
		la.VecFill(yDot, 0)
		if o.initYDot != nil {
			if len(o.initYDot) != o.disc.NDof {
				return chk.Err("INIT_STATE_YDOT must have %d entries, not %d", o.disc.NDof, len(o.initYDot))
			}
			copy(yDot, o.initYDot)
		}
		return
	}

	nc := o.disc.NComp
	if len(o.initC) != nc {
		return chk.Err("INIT_C must have %d entries, not %d", nc, len(o.initC))
	}
	la.VecFill(y, 0)
	la.VecFill(yDot, 0)

	for c := 0; c < nc; c++ {
		y[c] = o.initC[c]
	}
	offC := o.disc.OffsetC()
	for k := 0; k < o.disc.NCol; k++ {
		copy(y[offC+k*nc:offC+(k+1)*nc], o.initC)
	}

	for t := 0; t < o.disc.NParType; t++ {
		cp := o.initC
		switch len(o.initCp) {
		case 0:
		case nc:
			cp = o.initCp
		case o.disc.NParType * nc:
			cp = o.initCp[t*nc : (t+1)*nc]
		default:
			return chk.Err("INIT_CP must have %d or %d entries, not %d", nc, o.disc.NParType*nc, len(o.initCp))
		}
		sb := o.disc.StrideBound[t]
		var q []float64
		if sb > 0 && len(o.initQ) > 0 {
			if len(o.initQ) != o.disc.StrideBound[o.disc.NParType] {
				return chk.Err("INIT_Q must have %d entries, not %d", o.disc.StrideBound[o.disc.NParType], len(o.initQ))
			}
			q = o.initQ[o.disc.NBoundBeforeType[t] : o.disc.NBoundBeforeType[t]+sb]
		}
		sh := o.disc.StrideParShell(t)
		for k := 0; k < o.disc.NCol; k++ {
			off := o.disc.OffsetCp(t, k)
			for s := 0; s < o.disc.NParCell[t]; s++ {
				copy(y[off+s*sh:off+s*sh+nc], cp)
				copy(y[off+s*sh+nc:off+(s+1)*sh], q)
			}
		}
	}
	return
}

// ConsistentInitState solves the algebraic part of the state in place: per
// particle cell the quasi-stationary binding equilibria through a damped
// Newton iteration, then the film flux identities. tol is the integrator
// tolerance already scaled by the initialisation safety factor. A failed cell
// solve is recoverable by the caller.
func (o *Column) ConsistentInitState(sec int, y []float64, tol float64) (err error) {

	nc := o.disc.NComp
	w := o.ws[0]
	for t := 0; t < o.disc.NParType; t++ {
		pt := o.par[t]
		sb := o.disc.StrideBound[t]
		hasQS := false
		for _, f := range pt.qs {
			if f {
				hasQS = true
			}
		}
		if !hasQS {
			continue
		}

		// cell system: mobile and kinetic rows pin the current values, the
		// quasi-stationary rows demand zero net desorption
		neq := nc + sb
		cur := make([]float64, neq)
		ffcn := func(fx, x []float64) error {
			pt.binding.Flux(x[:nc], x[nc:], w.flux[:sb], w.bind)
			for c := 0; c < nc; c++ {
				fx[c] = x[c] - cur[c]
			}
			for b := 0; b < sb; b++ {
				if pt.qs[b] {
					fx[nc+b] = w.flux[b]
				} else {
					fx[nc+b] = x[nc+b] - cur[nc+b]
				}
			}
			return nil
		}
		jfcn := func(dfdx [][]float64, x []float64) error {
			pt.binding.Jacobian(x[:nc], x[nc:], w.jacC[:sb], w.jacQ[:sb], w.bind)
			for i := 0; i < neq; i++ {
				for j := 0; j < neq; j++ {
					dfdx[i][j] = 0
				}
			}
			for c := 0; c < nc; c++ {
				dfdx[c][c] = 1
			}
			for b := 0; b < sb; b++ {
				if pt.qs[b] {
					for j := 0; j < nc; j++ {
						dfdx[nc+b][j] = w.jacC[b][j]
					}
					for j := 0; j < sb; j++ {
						dfdx[nc+b][nc+j] = w.jacQ[b][j]
					}
				} else {
					dfdx[nc+b][nc+b] = 1
				}
			}
			return nil
		}

		var nls num.NlSolver
		nls.Init(neq, ffcn, nil, jfcn, true, false, map[string]float64{
			"atol": tol, "rtol": tol, "ftol": tol, "lSearch": 1,
		})
		nls.ChkConv = false
		x := make([]float64, neq)
		sh := o.disc.StrideParShell(t)
		for k := 0; k < o.disc.NCol; k++ {
			off := o.disc.OffsetCp(t, k)
			for s := 0; s < pt.nShells; s++ {
				lo := off + s*sh
				copy(cur, y[lo:lo+neq])
				copy(x, cur)
				if err = nls.Solve(x, true); err != nil {
					nls.Clean()
					return chk.Err("consistent initialisation: equilibrium solve failed at type %d cell %d shell %d: %v", t, k, s, err)
				}
				copy(y[lo:lo+neq], x)
			}
		}
		nls.Clean()
	}

	o.initFlux(sec, y)
	return
}

// ConsistentInitStateLean enforces only the film flux identities; binding
// equilibria are left untouched. Used after section transitions where the
// flow field jumps but the concentrations are already consistent.
func (o *Column) ConsistentInitStateLean(sec int, y []float64) {
	o.initFlux(sec, y)
}

// initFlux sets the flux DOFs to the film mass transfer driven by the bulk
// and outer-shell concentrations
func (o *Column) initFlux(sec int, y []float64) {
	nc := o.disc.NComp
	offC := o.disc.OffsetC()
	for t := 0; t < o.disc.NParType; t++ {
		for c := 0; c < nc; c++ {
			kf := o.filmCoeff(sec, t, c)
			for k := 0; k < o.disc.NCol; k++ {
				eqF := o.disc.OffsetJfTyped(t, k) + c
				y[eqF] = kf * (y[offC+k*nc+c] - y[o.disc.OffsetCp(t, k)+c])
			}
		}
	}
}

// ConsistentInitTimeDeriv computes yDot so that F(t0,y,yDot) vanishes: the
// residual with frozen state supplies the dynamic rows through the mass
// matrix, algebraic rows receive zero. y must already be consistent.
func (o *Column) ConsistentInitTimeDeriv(sec int, y, yDot []float64) {

	nc := o.disc.NComp
	res := make([]float64, o.disc.NDof)
	o.residualDouble(sec, y, nil, res, false)

	la.VecFill(yDot, 0)
	offC := o.disc.OffsetC()
	for i := 0; i < o.disc.NCol*nc; i++ {
		yDot[offC+i] = -res[offC+i]
	}
	o.parForPar(func(t, k int) {
		pt := o.par[t]
		sb := o.disc.StrideBound[t]
		sh := o.disc.StrideParShell(t)
		off := o.disc.OffsetCp(t, k)
		epsP := pt.porosity.V
		for s := 0; s < pt.nShells; s++ {
			lo := off + s*sh
			for b := 0; b < sb; b++ {
				if !pt.qs[b] {
					yDot[lo+nc+b] = -res[lo+nc+b]
				}
			}
			for c := 0; c < nc; c++ {
				v := -res[lo+c]
				ib := (1 - epsP) / (epsP * pt.poreAccess[c].V)
				b0 := o.disc.OffsetBoundComp(t, c)
				for i := 0; i < o.disc.NBound[t*nc+c]; i++ {
					v -= ib * yDot[lo+nc+b0+i]
				}
				yDot[lo+c] = v
			}
		}
	})
}

// ConsistentInitSens makes the sensitivity states consistent: the algebraic
// rows of s are corrected so the seeded sensitivity residual vanishes there,
// then sDot follows from the mass matrix like the state derivative. y and
// yDot must already be consistent.
func (o *Column) ConsistentInitSens(sec int, y, yDot []float64, s, sDot [][]float64) (err error) {

	nc := o.disc.NComp
	np := len(s)
	if np == 0 {
		return
	}
	if np > o.nSensDir {
		return chk.Err("cannot initialise %d sensitivity systems with %d reserved directions", np, o.nSensDir)
	}

	// first pass: residual directions carry J*s + dF/dp at frozen state
	ad.SetValues(o.adY, y)
	for p := 0; p < np; p++ {
		for i := 0; i < o.disc.NDof; i++ {
			o.adY[i].D[p] = s[p][i]
		}
	}
	o.residualDual(sec, o.adY, nil, o.adRes)

	// correct the quasi-stationary rows cell by cell: the constraint is
	// linear in s, so one solve against the bound-state block is exact
	w := o.ws[0]
	for t := 0; t < o.disc.NParType; t++ {
		pt := o.par[t]
		sb := o.disc.StrideBound[t]
		nqs := 0
		for _, f := range pt.qs {
			if f {
				nqs++
			}
		}
		if nqs == 0 {
			continue
		}
		idx := make([]int, 0, nqs)
		for b := 0; b < sb; b++ {
			if pt.qs[b] {
				idx = append(idx, b)
			}
		}
		J := la.MatAlloc(nqs, nqs)
		Ji := la.MatAlloc(nqs, nqs)
		g := make([]float64, nqs)
		d := make([]float64, nqs)
		sh := o.disc.StrideParShell(t)
		for k := 0; k < o.disc.NCol; k++ {
			off := o.disc.OffsetCp(t, k)
			for sc := 0; sc < pt.nShells; sc++ {
				lo := off + sc*sh
				pt.binding.Jacobian(y[lo:lo+nc], y[lo+nc:lo+nc+sb], w.jacC[:sb], w.jacQ[:sb], w.bind)
				for i, bi := range idx {
					for j, bj := range idx {
						J[i][j] = w.jacQ[bi][bj]
					}
				}
				if err = la.MatInvG(Ji, J, 1e-13); err != nil {
					return chk.Err("sensitivity initialisation: singular equilibrium block at type %d cell %d shell %d: %v", t, k, sc, err)
				}
				for p := 0; p < np; p++ {
					for i, bi := range idx {
						g[i] = o.adRes[lo+nc+bi].D[p]
					}
					la.MatVecMul(d, 1, Ji, g)
					for i, bi := range idx {
						s[p][lo+nc+bi] -= d[i]
					}
				}
			}
		}
	}

	// flux rows are linear identities in s
	offJf := o.disc.OffsetJf()
	nFluxDof := o.disc.NParType * o.disc.NCol * nc
	for p := 0; p < np; p++ {
		for i := 0; i < nFluxDof; i++ {
			s[p][offJf+i] -= o.adRes[offJf+i].D[p]
		}
		for c := 0; c < nc; c++ {
			s[p][c] -= o.adRes[c].D[p]
		}
	}

	// second pass with the corrected s and the true yDot: the directions now
	// carry the full sensitivity residual minus the mass term, which yields
	// sDot on the dynamic rows
	ad.SetValues(o.adY, y)
	ad.SetValues(o.adYDot, yDot)
	for p := 0; p < np; p++ {
		for i := 0; i < o.disc.NDof; i++ {
			o.adY[i].D[p] = s[p][i]
		}
	}
	o.residualDual(sec, o.adY, o.adYDot, o.adRes)

	offC := o.disc.OffsetC()
	for p := 0; p < np; p++ {
		la.VecFill(sDot[p], 0)
		for i := 0; i < o.disc.NCol*nc; i++ {
			sDot[p][offC+i] = -o.adRes[offC+i].D[p]
		}
	}
	o.parForPar(func(t, k int) {
		pt := o.par[t]
		sb := o.disc.StrideBound[t]
		sh := o.disc.StrideParShell(t)
		off := o.disc.OffsetCp(t, k)
		epsP := pt.porosity.V
		for sc := 0; sc < pt.nShells; sc++ {
			lo := off + sc*sh
			for p := 0; p < np; p++ {
				for b := 0; b < sb; b++ {
					if !pt.qs[b] {
						sDot[p][lo+nc+b] = -o.adRes[lo+nc+b].D[p]
					}
				}
				for c := 0; c < nc; c++ {
					v := -o.adRes[lo+c].D[p]
					ib := (1 - epsP) / (epsP * pt.poreAccess[c].V)
					b0 := o.disc.OffsetBoundComp(t, c)
					for i := 0; i < o.disc.NBound[t*nc+c]; i++ {
						v -= ib * sDot[p][lo+nc+b0+i]
					}
					sDot[p][lo+c] = v
				}
			}
		}
	})
	return
}
