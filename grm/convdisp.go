// Copyright 2017 The CADET Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grm

import (
	"math"

	"github.com/blockspacer/CADET/ad"
	"github.com/blockspacer/CADET/linalg"
	"github.com/cpmech/gosl/chk"
)

// wenoEpsilon regularises the smoothness indicators
const wenoEpsilon = 1e-10

// ConvDisp is the axial convection-dispersion operator of the bulk liquid.
// Convection uses upwind fluxes with WENO reconstruction (order 1 is plain
// upwind, order 2 a three-point weighted ENO); dispersion uses central
// differences. The operator owns the banded Jacobian of the bulk block and
// reduces the reconstruction order at faces where the stencil does not fit.
//
// The velocity may differ per section and its sign selects the flow
// direction: nonnegative velocity feeds the inlet into the first cell,
// negative velocity into the last one.
type ConvDisp struct {

	// dimensions and scheme
	nComp, nCol int
	nSec        int
	wenoOrder   int

	// parameters
	colLength  ad.Scalar   // column length
	velocity   []ad.Scalar // interstitial velocity, per section or constant
	dispersion []ad.Scalar // axial dispersion, per component, optionally per section

	// current section state
	curVel float64 // signed velocity of the running section

	// Jacobian of the bulk block
	jac *linalg.Band

	// dual workspace
	ws []ad.Scalar
}

// Init initialises the operator and allocates its Jacobian band. ndir is the
// total number of derivative directions carried by dual evaluations.
func (o *ConvDisp) Init(nComp, nCol, nSec, wenoOrder, ndir int, colLength float64, velocity, dispersion []float64) (err error) {
	if wenoOrder < 1 || wenoOrder > 2 {
		return chk.Err("WENO order must be 1 or 2, not %d", wenoOrder)
	}
	if colLength <= 0 {
		return chk.Err("column length must be positive, not %g", colLength)
	}
	if len(velocity) != 1 && len(velocity) != nSec {
		return chk.Err("velocity must have 1 or %d entries, not %d", nSec, len(velocity))
	}
	if len(dispersion) != nComp && len(dispersion) != nSec*nComp {
		return chk.Err("column dispersion must have %d or %d entries, not %d", nComp, nSec*nComp, len(dispersion))
	}
	o.nComp, o.nCol, o.nSec, o.wenoOrder = nComp, nCol, nSec, wenoOrder
	o.colLength.V = colLength
	o.velocity = toDual(velocity)
	o.dispersion = toDual(dispersion)
	o.curVel = o.velocity[0].V
	bw := wenoOrder * nComp
	o.jac = new(linalg.Band)
	o.jac.Init(nCol*nComp, bw, bw)
	o.ws = ad.NewVector(14, ndir)
	return
}

// RequiredADdirs returns the directions consumed by band-compressed seeding
// of the bulk block
func (o *ConvDisp) RequiredADdirs() int { return o.jac.Stride() }

// Jac returns the banded bulk Jacobian
func (o *ConvDisp) Jac() *linalg.Band { return o.jac }

// ColumnLength returns the column length
func (o *ConvDisp) ColumnLength() float64 { return o.colLength.V }

// CurrentVelocity returns the signed interstitial velocity of the running
// section
func (o *ConvDisp) CurrentVelocity() float64 { return o.curVel }

// InletCell returns the bulk cell fed by the inlet under the current flow
// direction
func (o *ConvDisp) InletCell() int {
	if o.curVel < 0 {
		return o.nCol - 1
	}
	return 0
}

// InletJacCoeff returns the derivative of the inlet-fed cell residual with
// respect to the inlet DOF
func (o *ConvDisp) InletJacCoeff() float64 {
	h := o.colLength.V / float64(o.nCol)
	return -math.Abs(o.curVel) / h
}

// NotifySectionTransition activates a section and reports whether the flow
// direction changed
func (o *ConvDisp) NotifySectionTransition(sec int) (flowReversed bool) {
	v := o.velAt(sec).V
	flowReversed = v*o.curVel < 0
	o.curVel = v
	return
}

// Params exposes the parameter scalars for sensitivity registration
func (o *ConvDisp) Params() map[string][]*ad.Scalar {
	return map[string][]*ad.Scalar{
		"COL_LENGTH":     {&o.colLength},
		"VELOCITY":       refs(o.velocity),
		"COL_DISPERSION": refs(o.dispersion),
	}
}

// velAt returns the velocity scalar of a section
func (o *ConvDisp) velAt(sec int) *ad.Scalar {
	if len(o.velocity) == 1 {
		return &o.velocity[0]
	}
	return &o.velocity[sec]
}

// dispAt returns the dispersion scalar of a section and component
func (o *ConvDisp) dispAt(sec, comp int) *ad.Scalar {
	if len(o.dispersion) == o.nComp {
		return &o.dispersion[comp]
	}
	return &o.dispersion[sec*o.nComp+comp]
}

// wenoFace reconstructs the flux face value from the upwind side and its
// derivatives with respect to (cm1, c0, cp1); cm1 is the second upwind cell
// and only read when have2 is true. c0 is the upwind neighbour of the face.
func (o *ConvDisp) wenoFace(cm1, c0, cp1 float64, have2 bool, d *[3]float64) float64 {
	if o.wenoOrder == 1 || !have2 {
		d[0], d[1], d[2] = 0, 1, 0
		return c0
	}
	b0 := (cp1 - c0) * (cp1 - c0)
	b1 := (c0 - cm1) * (c0 - cm1)
	a0 := (2.0 / 3.0) / ((wenoEpsilon + b0) * (wenoEpsilon + b0))
	a1 := (1.0 / 3.0) / ((wenoEpsilon + b1) * (wenoEpsilon + b1))
	s := a0 + a1
	w0 := a0 / s
	w1 := 1 - w0
	p0 := 0.5 * (c0 + cp1)
	p1 := 0.5 * (3*c0 - cm1)
	da0 := -2 * a0 / (wenoEpsilon + b0)
	da1 := -2 * a1 / (wenoEpsilon + b1)
	dw0db0 := da0 * a1 / (s * s)
	dw0db1 := -a0 * da1 / (s * s)
	pd := p0 - p1
	d[0] = -0.5*w1 - 2*(c0-cm1)*dw0db1*pd
	d[1] = 0.5*w0 + 1.5*w1 + (2*(c0-cm1)*dw0db1-2*(cp1-c0)*dw0db0)*pd
	d[2] = 0.5*w0 + 2*(cp1-c0)*dw0db0*pd
	return w0*p0 + w1*p1
}

// Residual adds the convection-dispersion terms and the bulk time derivative
// to res. yIn holds the nComp inlet DOFs; y, yDot and res are the bulk slices
// of length nCol*nComp. yDot may be nil. When wantJac is true the banded
// Jacobian is zeroed and repopulated.
func (o *ConvDisp) Residual(sec int, yIn, y, yDot, res []float64, wantJac bool) {

	nc := o.nComp
	u := o.velAt(sec).V
	h := o.colLength.V / float64(o.nCol)
	uAbs := math.Abs(u)

	// march order follows the flow direction
	start, step := 0, 1
	if u < 0 {
		start, step = o.nCol-1, -1
	}

	if wantJac {
		o.jac.SetAll(0)
	}

	// time derivative
	for i := range res {
		if yDot != nil {
			res[i] = yDot[i]
		} else {
			res[i] = 0
		}
	}

	// dispersion over interior faces
	for f := 1; f < o.nCol; f++ {
		for c := 0; c < nc; c++ {
			dax := o.dispAt(sec, c).V
			lo, hi := (f-1)*nc+c, f*nc+c
			g := dax / (h * h) * (y[hi] - y[lo])
			res[lo] -= g
			res[hi] += g
			if wantJac {
				rlo := o.jac.Row(lo)
				rlo.Add(0, dax/(h*h))
				rlo.Add(nc, -dax/(h*h))
				rhi := o.jac.Row(hi)
				rhi.Add(-nc, -dax/(h*h))
				rhi.Add(0, dax/(h*h))
			}
		}
	}

	// convection: march downstream carrying the upwind face flux
	var d [3]float64
	for c := 0; c < nc; c++ {
		fPrev := uAbs * yIn[c]
		for k := 0; k < o.nCol; k++ {
			pos := (start+k*step)*nc + c
			var fCur float64
			if k == o.nCol-1 {
				fCur = uAbs * y[pos]
				d[0], d[1], d[2] = 0, 1, 0
			} else {
				var cm1 float64
				have2 := k >= 1
				if have2 {
					cm1 = y[pos-step*nc]
				}
				fCur = uAbs * o.wenoFace(cm1, y[pos], y[pos+step*nc], have2, &d)
			}
			res[pos] += (fCur - fPrev) / h
			if wantJac {
				row := o.jac.Row(pos)
				for j := -1; j <= 1; j++ {
					if d[j+1] == 0 {
						continue
					}
					row.Add(j*step*nc, uAbs*d[j+1]/h)
					if k < o.nCol-1 {
						next := o.jac.Row(pos + step*nc)
						next.Add((j-1)*step*nc, -uAbs*d[j+1]/h)
					}
				}
			}
			fPrev = fCur
		}
	}
}

// ResidualDual is Residual in dual arithmetic; velocity, dispersion and
// column length enter as dual scalars so that parameter directions propagate
func (o *ConvDisp) ResidualDual(sec int, yIn, y, yDot, res []ad.Scalar) {

	nc := o.nComp
	vel := o.velAt(sec)
	uAbs, hInv := &o.ws[0], &o.ws[1]
	uAbs.Copy(*vel)
	if vel.V < 0 {
		uAbs.Scale(-1, *uAbs)
	}
	hInv.Scale(1/float64(o.nCol), o.colLength)
	hInv.Div(ad.Scalar{V: 1}, *hInv)

	start, step := 0, 1
	if vel.V < 0 {
		start, step = o.nCol-1, -1
	}

	// time derivative
	for i := range res {
		if yDot != nil {
			res[i].Copy(yDot[i])
		} else {
			res[i].SetV(0)
		}
	}

	// dispersion over interior faces
	g, coef := &o.ws[2], &o.ws[3]
	for f := 1; f < o.nCol; f++ {
		for c := 0; c < nc; c++ {
			lo, hi := (f-1)*nc+c, f*nc+c
			coef.Mul(*hInv, *hInv)
			coef.Mul(*coef, *o.dispAt(sec, c))
			g.Sub(y[hi], y[lo])
			g.Mul(*g, *coef)
			res[lo].Sub(res[lo], *g)
			res[hi].Add(res[hi], *g)
		}
	}

	// convection
	fPrev, fCur, chat := &o.ws[2], &o.ws[3], &o.ws[4]
	for c := 0; c < nc; c++ {
		fPrev.Mul(*uAbs, yIn[c])
		for k := 0; k < o.nCol; k++ {
			pos := (start+k*step)*nc + c
			if k == o.nCol-1 {
				chat.Copy(y[pos])
			} else {
				have2 := k >= 1
				var cm1 *ad.Scalar
				if have2 {
					cm1 = &y[pos-step*nc]
				}
				o.wenoFaceDual(cm1, &y[pos], &y[pos+step*nc], chat)
			}
			fCur.Mul(*uAbs, *chat)
			g := &o.ws[5]
			g.Sub(*fCur, *fPrev)
			g.Mul(*g, *hInv)
			res[pos].Add(res[pos], *g)
			fPrev.Copy(*fCur)
		}
	}
}

// wenoFaceDual reconstructs the face value in dual arithmetic; cm1 may be nil
// when the second upwind cell is outside the domain
func (o *ConvDisp) wenoFaceDual(cm1, c0, cp1, out *ad.Scalar) {
	if o.wenoOrder == 1 || cm1 == nil {
		out.Copy(*c0)
		return
	}
	b0, b1, a0, a1 := &o.ws[6], &o.ws[7], &o.ws[8], &o.ws[9]
	s, w0, p, t := &o.ws[10], &o.ws[11], &o.ws[12], &o.ws[13]

	b0.Sub(*cp1, *c0)
	b0.Mul(*b0, *b0)
	b1.Sub(*c0, *cm1)
	b1.Mul(*b1, *b1)

	// alpha_k = d_k / (eps + beta_k)^2
	t.SetV(wenoEpsilon)
	t.Add(*t, *b0)
	t.Mul(*t, *t)
	a0.SetV(2.0 / 3.0)
	a0.Div(*a0, *t)
	t.SetV(wenoEpsilon)
	t.Add(*t, *b1)
	t.Mul(*t, *t)
	a1.SetV(1.0 / 3.0)
	a1.Div(*a1, *t)

	s.Add(*a0, *a1)
	w0.Div(*a0, *s)

	// w0*p0 + (1-w0)*p1
	p.Add(*c0, *cp1)
	p.Scale(0.5, *p)
	out.Mul(*w0, *p)
	p.Scale(3, *c0)
	p.Sub(*p, *cm1)
	p.Scale(0.5, *p)
	t.SetV(1)
	t.Sub(*t, *w0)
	out.AccMul(*t, *p)
}
