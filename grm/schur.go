// Copyright 2017 The CADET Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grm

import (
	"math"

	"github.com/cpmech/gosl/la"
)

// AssembleDiscretized folds the time-integration factor alpha into the
// diagonal Jacobian blocks and factorises them in place:
//
//	Jc_disc = Jc + alpha I        Jp_disc = Jp + alpha Mp
//
// where Mp carries ones on mobile and kinetic solid rows plus the bound-state
// hold-up entries of the mobile rows. The Jacobian blocks must be current.
func (o *Column) AssembleDiscretized(α float64) (err error) {

	nc := o.disc.NComp

	// bulk block
	o.jacCDisc.SetFrom(o.convDisp.Jac())
	for i := 0; i < o.disc.NCol*nc; i++ {
		o.jacCDisc.Row(i).Add(0, α)
	}
	if err = o.jacCDisc.Fact(); err != nil {
		return
	}

	// particle blocks
	errs := make([]error, len(o.jacPDisc))
	o.parForPar(func(t, k int) {
		pt := o.par[t]
		sb := o.disc.StrideBound[t]
		sh := o.disc.StrideParShell(t)
		epsP := pt.porosity.V
		f := o.jacPDisc[t*o.disc.NCol+k]
		f.SetFrom(o.jacP[t*o.disc.NCol+k])
		for s := 0; s < pt.nShells; s++ {
			lr := s * sh
			for c := 0; c < nc; c++ {
				row := f.Row(lr + c)
				row.Add(0, α)
				ib := (1 - epsP) / (epsP * pt.poreAccess[c].V)
				b0 := o.disc.OffsetBoundComp(t, c)
				for i := 0; i < o.disc.NBound[t*nc+c]; i++ {
					row.Add(nc-c+b0+i, α*ib)
				}
			}
			for b := 0; b < sb; b++ {
				if !pt.qs[b] {
					f.Row(lr + nc + b).Add(0, α)
				}
			}
		}
		errs[t*o.disc.NCol+k] = f.Fact()
	})
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return
}

// SolveDiscretized solves (J + alpha M) x = rhs in place using the Schur
// complement of the flux block: the bulk and particle factorisations resolve
// their own blocks, GMRES iterates on the flux system matrix-free. tol is the
// outer (Newton) tolerance; the inner solve is tightened by the Schur safety
// factor. AssembleDiscretized must have run for the current alpha.
func (o *Column) SolveDiscretized(rhs []float64, tol float64) (err error) {

	nc := o.disc.NComp
	offC := o.disc.OffsetC()
	offJf := o.disc.OffsetJf()
	parBase := o.disc.OffsetCp(0, 0)
	nColDof := o.disc.NCol * nc
	nParDof := o.disc.ParTypeOffset[o.disc.NParType]
	nFluxDof := o.disc.NParType * nColDof

	// inlet rows are identities: x_in = rhs_in. The inlet column feeds the
	// inlet-facing bulk cell and moves to the right-hand side.
	cell := o.convDisp.InletCell()
	coeff := o.convDisp.InletJacCoeff()
	for c := 0; c < nc; c++ {
		rhs[offC+cell*nc+c] -= coeff * rhs[c]
	}

	// forward solves and the Schur right-hand side
	// r_f - Jfc Jc^{-1} r_c - Jfp Jp^{-1} r_p
	o.jacCDisc.Solve(o.tc, rhs[offC:offC+nColDof])
	o.solvePar(o.tp, rhs[parBase:parBase+nParDof])
	copy(o.rf, rhs[offJf:offJf+nFluxDof])
	la.SpMatVecMulAdd(o.rf, -1, o.jacFC, o.tc)
	la.SpMatVecMulAdd(o.rf, -1, o.jacFP, o.tp)

	// GMRES on the Schur complement
	matvec := func(av, v []float64) {
		copy(av, v)
		la.VecFill(o.tc, 0)
		la.SpMatVecMulAdd(o.tc, 1, o.jacCF, v)
		o.jacCDisc.Solve(o.tc, o.tc)
		la.SpMatVecMulAdd(av, -1, o.jacFC, o.tc)
		la.VecFill(o.tp, 0)
		la.SpMatVecMulAdd(o.tp, 1, o.jacPF, v)
		o.solvePar(o.tp, o.tp)
		la.SpMatVecMulAdd(av, -1, o.jacFP, o.tp)
	}
	la.VecFill(o.xf, 0)
	tolS := math.Sqrt(float64(o.disc.NDof)) * tol * o.schurSafety
	if tolS < 1e-12 {
		// below this the iteration only stalls in roundoff
		tolS = 1e-12
	}
	if err = o.gmres.Solve(matvec, o.xf, o.rf, tolS); err != nil {
		return
	}

	// back-substitution
	la.SpMatVecMulAdd(rhs[offC:offC+nColDof], -1, o.jacCF, o.xf)
	o.jacCDisc.Solve(rhs[offC:offC+nColDof], rhs[offC:offC+nColDof])
	la.SpMatVecMulAdd(rhs[parBase:parBase+nParDof], -1, o.jacPF, o.xf)
	o.solvePar(rhs[parBase:parBase+nParDof], rhs[parBase:parBase+nParDof])
	copy(rhs[offJf:offJf+nFluxDof], o.xf)
	return
}

// solvePar back-solves every particle block factorisation; x and b address
// the particle range relative to the first particle DOF and may be the same
// slice
func (o *Column) solvePar(x, b []float64) {
	parBase := o.disc.OffsetCp(0, 0)
	o.parForPar(func(t, k int) {
		off := o.disc.OffsetCp(t, k) - parBase
		n := o.disc.StrideParBlock(t)
		o.jacPDisc[t*o.disc.NCol+k].Solve(x[off:off+n], b[off:off+n])
	})
}

// JacTripletLen bounds the number of entries AddJacTo emits, for sizing the
// global sparse matrix
func (o *Column) JacTripletLen() int {
	nc := o.disc.NComp
	n := 2 * nc // inlet identities and the inlet column
	n += o.disc.NCol * nc * o.convDisp.Jac().Stride()
	for t := 0; t < o.disc.NParType; t++ {
		p, q := o.parBandwidths(t)
		n += o.disc.NCol * o.disc.StrideParBlock(t) * (p + q + 1)
	}
	n += 5 * o.disc.NParType * o.disc.NCol * nc // couplings and flux identities
	return n
}

// AddJacTo assembles the complete discretized Jacobian J + alpha M into the
// global triplet, for direct sparse factorisation instead of the Schur
// iteration. Row and column indices are unit-local.
func (o *Column) AddJacTo(T *la.Triplet, α float64) {

	nc := o.disc.NComp
	offC := o.disc.OffsetC()
	offJf := o.disc.OffsetJf()
	invBetaC := 1/o.colPorosity.V - 1

	// inlet identities and the inlet column
	cell := o.convDisp.InletCell()
	coeff := o.convDisp.InletJacCoeff()
	for c := 0; c < nc; c++ {
		T.Put(c, c, 1)
		T.Put(offC+cell*nc+c, c, coeff)
	}

	// bulk band plus alpha I
	bc := o.convDisp.Jac()
	for i := 0; i < bc.N(); i++ {
		for j := maxInt(0, i-bc.Lower()); j <= minInt(bc.N()-1, i+bc.Upper()); j++ {
			v := bc.Get(i, j)
			if i == j {
				v += α
			}
			if v != 0 {
				T.Put(offC+i, offC+j, v)
			}
		}
	}

	// particle bands plus alpha Mp
	for t := 0; t < o.disc.NParType; t++ {
		pt := o.par[t]
		sb := o.disc.StrideBound[t]
		sh := o.disc.StrideParShell(t)
		epsP := pt.porosity.V
		for k := 0; k < o.disc.NCol; k++ {
			off := o.disc.OffsetCp(t, k)
			b := o.jacP[t*o.disc.NCol+k]
			n := b.N()
			for i := 0; i < n; i++ {
				lc := i % sh
				for j := maxInt(0, i-b.Lower()); j <= minInt(n-1, i+b.Upper()); j++ {
					v := b.Get(i, j)
					if i == j {
						if lc < nc || !pt.qs[lc-nc] {
							v += α
						}
					}
					if lc < nc && j > i {
						// hold-up entries of the mobile row
						c := lc
						b0 := o.disc.OffsetBoundComp(t, c)
						d := j - i
						if d >= nc-c+b0 && d < nc-c+b0+o.disc.NBound[t*nc+c] {
							v += α * (1 - epsP) / (epsP * pt.poreAccess[c].V)
						}
					}
					if v != 0 {
						T.Put(off+i, off+j, v)
					}
				}
			}
		}
	}

	// coupling blocks and flux identities
	for t := 0; t < o.disc.NParType; t++ {
		pt := o.par[t]
		jacCF := invBetaC * 3 / pt.radius.V
		jacPF := -pt.geom.outerPerVol[0].V / pt.porosity.V
		for c := 0; c < nc; c++ {
			kf := o.filmCoeff(o.curSec, t, c)
			for k := 0; k < o.disc.NCol; k++ {
				eqC := offC + k*nc + c
				eqF := o.disc.OffsetJfTyped(t, k) + c
				eqP := o.disc.OffsetCp(t, k) + c
				vf := o.parTypeVolFrac[k*o.disc.NParType+t].V
				T.Put(eqC, eqF, jacCF*vf)
				T.Put(eqF, eqC, -kf)
				T.Put(eqP, eqF, jacPF/pt.poreAccess[c].V)
				T.Put(eqF, eqP, kf)
			}
		}
	}
	for i := 0; i < o.disc.NParType*o.disc.NCol*nc; i++ {
		T.Put(offJf+i, offJf+i, 1)
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
