// Copyright 2017 The CADET Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grm

import "github.com/blockspacer/CADET/ad"

// ResidualSens evaluates the forward sensitivity residuals
//
//	resS = dF/dy*s + dF/dydot*sdot + dF/dp
//
// for all seeded parameter directions in one dual pass. s, sDot and resS hold
// one state-sized vector per direction; parameters seeded via SetSensParam
// contribute their partial derivatives automatically. Returns 0 on success.
func (o *Column) ResidualSens(sec int, y, yDot []float64, s, sDot, resS [][]float64) (status int) {

	np := len(s)
	if np > o.nSensDir {
		return -1
	}
	ad.SetValues(o.adY, y)
	ad.SetValues(o.adYDot, yDot)
	for p := 0; p < np; p++ {
		for i := 0; i < o.disc.NDof; i++ {
			o.adY[i].D[p] = s[p][i]
			o.adYDot[i].D[p] = sDot[p][i]
		}
	}
	o.residualDual(sec, o.adY, o.adYDot, o.adRes)
	for p := 0; p < np; p++ {
		ad.Deriv(resS[p], o.adRes, p)
	}
	return
}

// ResidualWithSens evaluates the plain residual and the sensitivity residuals
// from the same dual pass; res receives the values, resS the directions
func (o *Column) ResidualWithSens(sec int, y, yDot, res []float64, s, sDot, resS [][]float64) (status int) {
	if status = o.ResidualSens(sec, y, yDot, s, sDot, resS); status != 0 {
		return
	}
	ad.Values(res, o.adRes)
	return
}
