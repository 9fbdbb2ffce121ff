// Copyright 2017 The CADET Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grm

import (
	"github.com/blockspacer/CADET/ad"
	"github.com/blockspacer/CADET/linalg"
	"github.com/cpmech/gosl/la"
)

// taskWS is the scratch space of one residual worker. Workers never share a
// workspace, so the kernels are free to reuse these buffers per shell.
type taskWS struct {

	// plain buffers
	bind []float64   // binding model scratch
	flux []float64   // binding flux values
	jacC [][]float64 // binding Jacobian, bound states by components
	jacQ [][]float64 // binding Jacobian, bound states by bound states
	rres []float64   // reaction residual scratch
	rjac [][]float64 // reaction Jacobian scratch
	rws  []float64   // reaction model scratch

	// dual buffers
	bindD []ad.Scalar
	fluxD []ad.Scalar
	rresD []ad.Scalar
	rwsD  []ad.Scalar
	g     []ad.Scalar // transport temporaries
}

// newTaskWS allocates one worker workspace sized for the largest particle
// type of the column
func (o *Column) newTaskWS() *taskWS {
	maxSh, maxSb := o.disc.NComp, 0
	maxBindWS, maxReactWS := 0, 0
	for t := 0; t < o.disc.NParType; t++ {
		if sh := o.disc.StrideParShell(t); sh > maxSh {
			maxSh = sh
		}
		if sb := o.disc.StrideBound[t]; sb > maxSb {
			maxSb = sb
		}
		if n := o.par[t].binding.WorkspaceSize(); n > maxBindWS {
			maxBindWS = n
		}
		if o.par[t].react != nil {
			if n := o.par[t].react.WorkspaceSize(); n > maxReactWS {
				maxReactWS = n
			}
		}
	}
	if o.reactBulk != nil {
		if n := o.reactBulk.WorkspaceSize(); n > maxReactWS {
			maxReactWS = n
		}
	}
	w := &taskWS{
		bind:  make([]float64, maxBindWS),
		flux:  make([]float64, maxSb),
		jacC:  la.MatAlloc(maxSb, o.disc.NComp),
		jacQ:  la.MatAlloc(maxSb, maxSb),
		rres:  make([]float64, maxSh),
		rjac:  la.MatAlloc(maxSh, maxSh),
		rws:   make([]float64, maxReactWS),
		bindD: ad.NewVector(maxBindWS, o.ndir),
		fluxD: ad.NewVector(maxSb, o.ndir),
		rresD: ad.NewVector(maxSh, o.ndir),
		rwsD:  ad.NewVector(maxReactWS, o.ndir),
		g:     ad.NewVector(8, o.ndir),
	}
	return w
}

// residualParticle computes the residual of the particle block of type t at
// axial cell k. y, yDot and res address the full state vector; yDot may be
// nil. When wantJac is true the banded block Jacobian is repopulated. The
// film flux coupling term of the outermost shell is added later by the serial
// flux pass.
func (o *Column) residualParticle(sec, t, k int, y, yDot, res []float64, wantJac bool, w *taskWS) {

	pt := o.par[t]
	nc := o.disc.NComp
	sb := o.disc.StrideBound[t]
	sh := o.disc.StrideParShell(t)
	off := o.disc.OffsetCp(t, k)
	pd := secSlice(pt.parDiff, nc, sec)
	sd := secSlice(pt.surfDiff, sb, sec)
	epsP := pt.porosity.V
	withReact := pt.react != nil && pt.react.NumCombined() > 0

	var jac *linalg.Band
	if wantJac {
		jac = o.jacP[t*o.disc.NCol+k]
		jac.SetAll(0)
	}

	for s := 0; s < pt.nShells; s++ {
		lo := off + s*sh // global index of the first mobile entry
		lr := s * sh     // local Jacobian row
		cp := y[lo : lo+nc]
		q := y[lo+nc : lo+nc+sb]

		// net desorption of the binding model
		pt.binding.Flux(cp, q, w.flux[:sb], w.bind)

		// mobile phase: time derivative with the bound-state hold-up
		for c := 0; c < nc; c++ {
			v := 0.0
			if yDot != nil {
				v = yDot[lo+c]
				ib := (1 - epsP) / (epsP * pt.poreAccess[c].V)
				b0 := o.disc.OffsetBoundComp(t, c)
				for i := 0; i < o.disc.NBound[t*nc+c]; i++ {
					v += ib * yDot[lo+nc+b0+i]
				}
			}
			res[lo+c] = v
		}

		// solid phase: kinetic rows carry the time derivative, rapid
		// equilibrium rows are purely algebraic
		for b := 0; b < sb; b++ {
			v := w.flux[b]
			if !pt.qs[b] && yDot != nil {
				v += yDot[lo+nc+b]
			}
			res[lo+nc+b] = v
		}

		// dynamic reactions; rapid-equilibrium rows keep the pure binding
		// constraint
		if withReact {
			for i := 0; i < sh; i++ {
				w.rres[i] = 0
			}
			pt.react.ResidualCombinedAdd(y[lo:lo+sh], w.rres[:sh], -1.0, w.rws)
			for i := 0; i < sh; i++ {
				if i >= nc && pt.qs[i-nc] {
					continue
				}
				res[lo+i] += w.rres[i]
			}
		}

		if wantJac {
			pt.binding.Jacobian(cp, q, w.jacC[:sb], w.jacQ[:sb], w.bind)
			for b := 0; b < sb; b++ {
				row := jac.Row(lr + nc + b)
				for j := 0; j < nc; j++ {
					if w.jacC[b][j] != 0 {
						row.Add(j-nc-b, w.jacC[b][j])
					}
				}
				for j := 0; j < sb; j++ {
					if w.jacQ[b][j] != 0 {
						row.Add(j-b, w.jacQ[b][j])
					}
				}
			}
			if withReact {
				for i := 0; i < sh; i++ {
					for j := 0; j < sh; j++ {
						w.rjac[i][j] = 0
					}
				}
				pt.react.JacobianCombinedAdd(y[lo:lo+sh], -1.0, w.rjac, w.rws)
				for i := 0; i < sh; i++ {
					if i >= nc && pt.qs[i-nc] {
						continue
					}
					row := jac.Row(lr + i)
					for j := 0; j < sh; j++ {
						if w.rjac[i][j] != 0 {
							row.Add(j-i, w.rjac[i][j])
						}
					}
				}
			}
		}

		// radial diffusion of the mobile phase, with surface diffusion
		// cross-terms pulling bound states into the mobile balance
		for c := 0; c < nc; c++ {
			r := lo + c
			dp := pd[c].V
			ib := (1 - epsP) / (epsP * pt.poreAccess[c].V)
			b0 := o.disc.OffsetBoundComp(t, c)
			nb := o.disc.NBound[t*nc+c]

			if s != 0 {
				dr := pt.geom.centerRadius[s-1].V - pt.geom.centerRadius[s].V
				ap := pt.geom.outerPerVol[s].V
				res[r] -= ap * dp * (y[r-sh] - y[r]) / dr
				if wantJac {
					row := jac.Row(lr + c)
					row.Add(0, ap*dp/dr)
					row.Add(-sh, -ap*dp/dr)
					if pt.hasSurfDiff {
						for i := 0; i < nb; i++ {
							cur := nc - c + b0 + i
							row.Add(cur, ap*sd[b0+i].V*ib/dr)
							row.Add(-sh+cur, -ap*sd[b0+i].V*ib/dr)
						}
					}
				}
				if pt.hasSurfDiff {
					for i := 0; i < nb; i++ {
						cur := nc - c + b0 + i
						res[r] -= ap * sd[b0+i].V * ib * (y[r-sh+cur] - y[r+cur]) / dr
					}
				}
			}

			if s != pt.nShells-1 {
				dr := pt.geom.centerRadius[s].V - pt.geom.centerRadius[s+1].V
				ai := pt.geom.innerPerVol[s].V
				res[r] += ai * dp * (y[r] - y[r+sh]) / dr
				if wantJac {
					row := jac.Row(lr + c)
					row.Add(0, ai*dp/dr)
					row.Add(sh, -ai*dp/dr)
					if pt.hasSurfDiff {
						for i := 0; i < nb; i++ {
							cur := nc - c + b0 + i
							row.Add(cur, ai*sd[b0+i].V*ib/dr)
							row.Add(sh+cur, -ai*sd[b0+i].V*ib/dr)
						}
					}
				}
				if pt.hasSurfDiff {
					for i := 0; i < nb; i++ {
						cur := nc - c + b0 + i
						res[r] += ai * sd[b0+i].V * ib * (y[r+cur] - y[r+sh+cur]) / dr
					}
				}
			}
		}

		// surface diffusion of kinetic bound states
		if pt.hasSurfDiff && pt.binding.HasDynamic() {
			for b := 0; b < sb; b++ {
				if pt.qs[b] {
					continue
				}
				r := lo + nc + b
				ds := sd[b].V
				if s != 0 {
					dr := pt.geom.centerRadius[s-1].V - pt.geom.centerRadius[s].V
					ap := pt.geom.outerPerVol[s].V
					res[r] -= ap * ds * (y[r-sh] - y[r]) / dr
					if wantJac {
						row := jac.Row(lr + nc + b)
						row.Add(0, ap*ds/dr)
						row.Add(-sh, -ap*ds/dr)
					}
				}
				if s != pt.nShells-1 {
					dr := pt.geom.centerRadius[s].V - pt.geom.centerRadius[s+1].V
					ai := pt.geom.innerPerVol[s].V
					res[r] += ai * ds * (y[r] - y[r+sh]) / dr
					if wantJac {
						row := jac.Row(lr + nc + b)
						row.Add(0, ai*ds/dr)
						row.Add(sh, -ai*ds/dr)
					}
				}
			}
		}
	}
}

// residualParticleDual is residualParticle in dual arithmetic; parameters
// enter as dual scalars so that both Jacobian seeding and parameter
// sensitivities propagate through one kernel
func (o *Column) residualParticleDual(sec, t, k int, y, yDot, res []ad.Scalar, w *taskWS) {

	pt := o.par[t]
	nc := o.disc.NComp
	sb := o.disc.StrideBound[t]
	sh := o.disc.StrideParShell(t)
	off := o.disc.OffsetCp(t, k)
	pd := secSlice(pt.parDiff, nc, sec)
	sd := secSlice(pt.surfDiff, sb, sec)
	withReact := pt.react != nil && pt.react.NumCombined() > 0

	ib, dr, g, h := &w.g[0], &w.g[1], &w.g[2], &w.g[3]

	for s := 0; s < pt.nShells; s++ {
		lo := off + s*sh
		cp := y[lo : lo+nc]
		q := y[lo+nc : lo+nc+sb]

		pt.binding.FluxDual(cp, q, w.fluxD[:sb], w.bindD)

		for c := 0; c < nc; c++ {
			r := lo + c
			if yDot != nil {
				res[r].Copy(yDot[r])
				o.invBetaP(t, c, ib, h)
				b0 := o.disc.OffsetBoundComp(t, c)
				for i := 0; i < o.disc.NBound[t*nc+c]; i++ {
					res[r].AccMul(*ib, yDot[lo+nc+b0+i])
				}
			} else {
				res[r].SetV(0)
			}
		}

		for b := 0; b < sb; b++ {
			r := lo + nc + b
			res[r].Copy(w.fluxD[b])
			if !pt.qs[b] && yDot != nil {
				res[r].Acc(yDot[r])
			}
		}

		if withReact {
			for i := 0; i < sh; i++ {
				w.rresD[i].SetV(0)
			}
			pt.react.ResidualCombinedAddDual(y[lo:lo+sh], w.rresD[:sh], -1.0, w.rwsD)
			for i := 0; i < sh; i++ {
				if i >= nc && pt.qs[i-nc] {
					continue
				}
				res[lo+i].Acc(w.rresD[i])
			}
		}

		for c := 0; c < nc; c++ {
			r := lo + c
			o.invBetaP(t, c, ib, h)
			b0 := o.disc.OffsetBoundComp(t, c)
			nb := o.disc.NBound[t*nc+c]

			if s != 0 {
				dr.Sub(pt.geom.centerRadius[s-1], pt.geom.centerRadius[s])
				ap := &pt.geom.outerPerVol[s]
				g.Sub(y[r-sh], y[r])
				g.Div(*g, *dr)
				g.Mul(*g, pd[c])
				g.Mul(*g, *ap)
				res[r].Sub(res[r], *g)
				if pt.hasSurfDiff {
					for i := 0; i < nb; i++ {
						cur := nc - c + b0 + i
						g.Sub(y[r-sh+cur], y[r+cur])
						g.Div(*g, *dr)
						g.Mul(*g, sd[b0+i])
						g.Mul(*g, *ib)
						g.Mul(*g, *ap)
						res[r].Sub(res[r], *g)
					}
				}
			}

			if s != pt.nShells-1 {
				dr.Sub(pt.geom.centerRadius[s], pt.geom.centerRadius[s+1])
				ai := &pt.geom.innerPerVol[s]
				g.Sub(y[r], y[r+sh])
				g.Div(*g, *dr)
				g.Mul(*g, pd[c])
				g.Mul(*g, *ai)
				res[r].Add(res[r], *g)
				if pt.hasSurfDiff {
					for i := 0; i < nb; i++ {
						cur := nc - c + b0 + i
						g.Sub(y[r+cur], y[r+sh+cur])
						g.Div(*g, *dr)
						g.Mul(*g, sd[b0+i])
						g.Mul(*g, *ib)
						g.Mul(*g, *ai)
						res[r].Add(res[r], *g)
					}
				}
			}
		}

		if pt.hasSurfDiff && pt.binding.HasDynamic() {
			for b := 0; b < sb; b++ {
				if pt.qs[b] {
					continue
				}
				r := lo + nc + b
				if s != 0 {
					dr.Sub(pt.geom.centerRadius[s-1], pt.geom.centerRadius[s])
					g.Sub(y[r-sh], y[r])
					g.Div(*g, *dr)
					g.Mul(*g, sd[b])
					g.Mul(*g, pt.geom.outerPerVol[s])
					res[r].Sub(res[r], *g)
				}
				if s != pt.nShells-1 {
					dr.Sub(pt.geom.centerRadius[s], pt.geom.centerRadius[s+1])
					g.Sub(y[r], y[r+sh])
					g.Div(*g, *dr)
					g.Mul(*g, sd[b])
					g.Mul(*g, pt.geom.innerPerVol[s])
					res[r].Add(res[r], *g)
				}
			}
		}
	}
}

// invBetaP computes the solid hold-up factor (1-epsP)/(epsP*Facc) of one
// component in dual arithmetic
func (o *Column) invBetaP(t, c int, out, tmp *ad.Scalar) {
	pt := o.par[t]
	out.SetV(1)
	out.Sub(*out, pt.porosity)
	tmp.Mul(pt.porosity, pt.poreAccess[c])
	out.Div(*out, *tmp)
}
