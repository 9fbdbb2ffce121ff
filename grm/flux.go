// Copyright 2017 The CADET Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grm

import (
	"github.com/blockspacer/CADET/ad"
	"github.com/cpmech/gosl/la"
)

// filmCoeff computes the discretised film coefficient of one component: the
// series resistance of pore diffusion across the outer half-shell and the
// film layer,
//
//	kf = 1 / ( (dr0/2)/(epsP*Facc*Dp) + 1/kFilm )
func (o *Column) filmCoeff(sec, t, c int) float64 {
	pt := o.par[t]
	pd := secSlice(pt.parDiff, o.disc.NComp, sec)
	fd := secSlice(pt.filmDiff, o.disc.NComp, sec)
	dr0h := 0.5 * pt.geom.cellSize[0].V
	return 1 / (dr0h/(pt.porosity.V*pt.poreAccess[c].V*pd[c].V) + 1/fd[c].V)
}

// filmCoeffDual is filmCoeff in dual arithmetic
func (o *Column) filmCoeffDual(sec, t, c int, out *ad.Scalar, tmp []ad.Scalar) {
	pt := o.par[t]
	pd := secSlice(pt.parDiff, o.disc.NComp, sec)
	fd := secSlice(pt.filmDiff, o.disc.NComp, sec)
	r1, r2 := &tmp[0], &tmp[1]
	r1.Scale(0.5, pt.geom.cellSize[0])
	r2.Mul(pt.porosity, pt.poreAccess[c])
	r2.Mul(*r2, pd[c])
	r1.Div(*r1, *r2)
	r2.Div(ad.Scalar{V: 1}, fd[c])
	r1.Add(*r1, *r2)
	out.Div(ad.Scalar{V: 1}, *r1)
}

// residualFlux adds the film mass transfer coupling: the algebraic flux
// equations and their feedback into bulk and outer-shell particle rows. Runs
// serially after the bulk and particle tasks.
func (o *Column) residualFlux(sec int, y, res []float64) {

	nc := o.disc.NComp
	offC := o.disc.OffsetC()
	offJf := o.disc.OffsetJf()
	invBetaC := 1/o.colPorosity.V - 1

	// identity block of the flux equations
	for i := 0; i < o.disc.NParType*o.disc.NCol*nc; i++ {
		res[offJf+i] = y[offJf+i]
	}

	for t := 0; t < o.disc.NParType; t++ {
		pt := o.par[t]
		jacCF := invBetaC * 3 / pt.radius.V
		jacPF := -pt.geom.outerPerVol[0].V / pt.porosity.V

		for c := 0; c < nc; c++ {
			kf := o.filmCoeff(sec, t, c)
			for k := 0; k < o.disc.NCol; k++ {
				eqC := offC + k*nc + c
				eqF := o.disc.OffsetJfTyped(t, k) + c
				eqP := o.disc.OffsetCp(t, k) + c
				vf := o.parTypeVolFrac[k*o.disc.NParType+t].V
				res[eqC] += jacCF * vf * y[eqF]
				res[eqF] -= kf * y[eqC]
				res[eqP] += jacPF / pt.poreAccess[c].V * y[eqF]
				res[eqF] += kf * y[eqP]
			}
		}
	}
}

// residualFluxDual is residualFlux in dual arithmetic
func (o *Column) residualFluxDual(sec int, y, res []ad.Scalar) {

	nc := o.disc.NComp
	offC := o.disc.OffsetC()
	offJf := o.disc.OffsetJf()

	for i := 0; i < o.disc.NParType*o.disc.NCol*nc; i++ {
		res[offJf+i].Copy(y[offJf+i])
	}

	kf, cf, pf, g := &o.fws[0], &o.fws[1], &o.fws[2], &o.fws[3]
	invBetaC := &o.fws[4]
	invBetaC.Div(ad.Scalar{V: 1}, o.colPorosity)
	invBetaC.V -= 1

	for t := 0; t < o.disc.NParType; t++ {
		pt := o.par[t]

		// jacCF = (1/epsC - 1) * 3/R
		cf.Div(ad.Scalar{V: 3}, pt.radius)
		cf.Mul(*cf, *invBetaC)

		// jacPF = -aOut(0)/epsP
		pf.Div(pt.geom.outerPerVol[0], pt.porosity)
		pf.Scale(-1, *pf)

		for c := 0; c < nc; c++ {
			o.filmCoeffDual(sec, t, c, kf, o.fws[5:])
			for k := 0; k < o.disc.NCol; k++ {
				eqC := offC + k*nc + c
				eqF := o.disc.OffsetJfTyped(t, k) + c
				eqP := o.disc.OffsetCp(t, k) + c

				g.Mul(*cf, o.parTypeVolFrac[k*o.disc.NParType+t])
				res[eqC].AccMul(*g, y[eqF])

				g.Mul(*kf, y[eqC])
				res[eqF].Sub(res[eqF], *g)

				g.Div(*pf, pt.poreAccess[c])
				res[eqP].AccMul(*g, y[eqF])

				res[eqF].AccMul(*kf, y[eqP])
			}
		}
	}
}

// assembleFluxBlocks rebuilds the four sparse coupling blocks for the running
// section. Each block holds one entry per flux DOF; the flux-flux block is
// the identity and never materialised.
func (o *Column) assembleFluxBlocks(sec int) {

	nc := o.disc.NComp
	nColDof := o.disc.NCol * nc
	nFluxDof := o.disc.NParType * nColDof
	nParDof := o.disc.ParTypeOffset[o.disc.NParType]
	parBase := o.disc.OffsetCp(0, 0)
	invBetaC := 1/o.colPorosity.V - 1

	if o.tCF.Max() == 0 {
		o.tCF.Init(nColDof, nFluxDof, nFluxDof)
		o.tFC.Init(nFluxDof, nColDof, nFluxDof)
		o.tPF.Init(nParDof, nFluxDof, nFluxDof)
		o.tFP.Init(nFluxDof, nParDof, nFluxDof)
	}
	o.tCF.Start()
	o.tFC.Start()
	o.tPF.Start()
	o.tFP.Start()

	for t := 0; t < o.disc.NParType; t++ {
		pt := o.par[t]
		jacCF := invBetaC * 3 / pt.radius.V
		jacPF := -pt.geom.outerPerVol[0].V / pt.porosity.V
		for c := 0; c < nc; c++ {
			kf := o.filmCoeff(sec, t, c)
			for k := 0; k < o.disc.NCol; k++ {
				eqC := k*nc + c
				eqF := t*nColDof + k*nc + c
				eqP := o.disc.OffsetCp(t, k) + c - parBase
				vf := o.parTypeVolFrac[k*o.disc.NParType+t].V
				o.tCF.Put(eqC, eqF, jacCF*vf)
				o.tFC.Put(eqF, eqC, -kf)
				o.tPF.Put(eqP, eqF, jacPF/pt.poreAccess[c].V)
				o.tFP.Put(eqF, eqP, kf)
			}
		}
	}

	o.jacCF = o.tCF.ToMatrix(nil)
	o.jacFC = o.tFC.ToMatrix(nil)
	o.jacPF = o.tPF.ToMatrix(nil)
	o.jacFP = o.tFP.ToMatrix(nil)
}
