// Copyright 2017 The CADET Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grm

import (
	"sync"

	"github.com/blockspacer/CADET/ad"
	"github.com/cpmech/gosl/la"
)

// parForPar runs f over all particle blocks (t,k), fanned out over the
// workers. The residual, the Jacobian products and the Schur mat-vec all
// iterate this same task set.
func (o *Column) parForPar(f func(t, k int)) {
	ntask := o.disc.NCol * o.disc.NParType
	nw := len(o.ws)
	if nw > ntask {
		nw = ntask
	}
	var wg sync.WaitGroup
	wg.Add(nw)
	for iw := 0; iw < nw; iw++ {
		go func(iw int) {
			defer wg.Done()
			for task := iw; task < ntask; task += nw {
				f(task/o.disc.NCol, task%o.disc.NCol)
			}
		}(iw)
	}
	wg.Wait()
}

// residualADJac computes the residual and repopulates all banded Jacobian
// blocks in a single dual pass. Every block is seeded band-compressed in the
// shared state directions; blocks never mix because no residual row spans two
// blocks directly (the flux rows do, but they are not extracted).
func (o *Column) residualADJac(sec int, y, yDot, res []float64) int {

	dir0 := o.nSensDir
	ad.SetValues(o.adY, y)
	var dot []ad.Scalar
	if yDot != nil {
		ad.SetValues(o.adYDot, yDot)
		dot = o.adYDot
	}

	offC := o.disc.OffsetC()
	bw := o.convDisp.Jac().Lower()
	ad.SeedBand(o.adY, offC, o.disc.NCol*o.disc.NComp, bw, bw, dir0)
	for t := 0; t < o.disc.NParType; t++ {
		p, q := o.parBandwidths(t)
		for k := 0; k < o.disc.NCol; k++ {
			ad.SeedBand(o.adY, o.disc.OffsetCp(t, k), o.disc.StrideParBlock(t), p, q, dir0)
		}
	}

	o.residualDual(sec, o.adY, dot, o.adRes)
	ad.Values(res, o.adRes)

	ad.ExtractBand(o.convDisp.Jac(), o.adRes, offC, dir0)
	o.parForPar(func(t, k int) {
		ad.ExtractBand(o.jacP[t*o.disc.NCol+k], o.adRes, o.disc.OffsetCp(t, k), dir0)
	})
	return 0
}

// MultiplyJac accumulates ret = alpha*(dF/dy)*v + beta*ret using the
// populated Jacobian blocks. Blocks must be current, i.e. Residual with
// wantJac ran on the same state since the last section transition.
func (o *Column) MultiplyJac(v []float64, α, β float64, ret []float64) {

	nc := o.disc.NComp
	offC := o.disc.OffsetC()
	offJf := o.disc.OffsetJf()
	parBase := o.disc.OffsetCp(0, 0)
	nColDof := o.disc.NCol * nc
	nParDof := o.disc.ParTypeOffset[o.disc.NParType]
	nFluxDof := o.disc.NParType * nColDof

	if β == 0 {
		la.VecFill(ret, 0)
	} else if β != 1 {
		for i := range ret {
			ret[i] *= β
		}
	}

	// inlet rows are identities
	for i := 0; i < nc; i++ {
		ret[i] += α * v[i]
	}

	// bulk rows: band, inlet column, flux coupling
	o.convDisp.Jac().MatVecMulAdd(ret[offC:offC+nColDof], α, v[offC:offC+nColDof])
	cell := o.convDisp.InletCell()
	coeff := o.convDisp.InletJacCoeff()
	for c := 0; c < nc; c++ {
		ret[offC+cell*nc+c] += α * coeff * v[c]
	}
	la.SpMatVecMulAdd(ret[offC:offC+nColDof], α, o.jacCF, v[offJf:offJf+nFluxDof])

	// particle rows: block bands and flux coupling
	o.parForPar(func(t, k int) {
		off := o.disc.OffsetCp(t, k)
		n := o.disc.StrideParBlock(t)
		o.jacP[t*o.disc.NCol+k].MatVecMulAdd(ret[off:off+n], α, v[off:off+n])
	})
	la.SpMatVecMulAdd(ret[parBase:parBase+nParDof], α, o.jacPF, v[offJf:offJf+nFluxDof])

	// flux rows: identity plus the bulk and particle couplings
	for i := 0; i < nFluxDof; i++ {
		ret[offJf+i] += α * v[offJf+i]
	}
	la.SpMatVecMulAdd(ret[offJf:offJf+nFluxDof], α, o.jacFC, v[offC:offC+nColDof])
	la.SpMatVecMulAdd(ret[offJf:offJf+nFluxDof], α, o.jacFP, v[parBase:parBase+nParDof])
}

// MultiplyMass computes ret = (dF/dyDot)*v. The mass matrix is diagonal up to
// the bound-state hold-up entries in the mobile rows; inlet, flux and
// quasi-stationary rows are algebraic and map to zero.
func (o *Column) MultiplyMass(v, ret []float64) {

	nc := o.disc.NComp
	offC := o.disc.OffsetC()
	offJf := o.disc.OffsetJf()
	nColDof := o.disc.NCol * nc
	nFluxDof := o.disc.NParType * nColDof

	for i := 0; i < nc; i++ {
		ret[i] = 0
	}
	for i := 0; i < nColDof; i++ {
		ret[offC+i] = v[offC+i]
	}
	o.parForPar(func(t, k int) {
		pt := o.par[t]
		sb := o.disc.StrideBound[t]
		sh := o.disc.StrideParShell(t)
		off := o.disc.OffsetCp(t, k)
		epsP := pt.porosity.V
		for s := 0; s < pt.nShells; s++ {
			lo := off + s*sh
			for c := 0; c < nc; c++ {
				sum := v[lo+c]
				ib := (1 - epsP) / (epsP * pt.poreAccess[c].V)
				b0 := o.disc.OffsetBoundComp(t, c)
				for i := 0; i < o.disc.NBound[t*nc+c]; i++ {
					sum += ib * v[lo+nc+b0+i]
				}
				ret[lo+c] = sum
			}
			for b := 0; b < sb; b++ {
				if pt.qs[b] {
					ret[lo+nc+b] = 0
				} else {
					ret[lo+nc+b] = v[lo+nc+b]
				}
			}
		}
	})
	for i := 0; i < nFluxDof; i++ {
		ret[offJf+i] = 0
	}
}
