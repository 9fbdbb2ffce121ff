// Copyright 2017 The CADET Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mreact

import (
	"math"

	"github.com/blockspacer/CADET/ad"
	"github.com/cpmech/gosl/chk"
)

// MassActionLaw implements reversible mass action kinetics
//
//	rate_r = kfwd_r · Π_i y_i^max(0,-s_ir)  -  kbwd_r · Π_i y_i^max(0,s_ir)
//	res_i += factor · s_ir · rate_r
//
// Reactants carry negative stoichiometric coefficients, products positive
// ones; the exponents follow from the coefficients. Parameters: MAL_KFWD and
// MAL_KBWD with one entry per reaction, MAL_STOICHIOMETRY_BULK (nComp rows)
// for liquid-only cells, MAL_STOICHIOMETRY_LIQUID (nComp rows) and optionally
// MAL_STOICHIOMETRY_SOLID (one row per bound state) for particle cells. All
// matrices are stored row-major with one column per reaction.
type MassActionLaw struct {
	nComp, nTot int
	nR          int
	kfwd, kbwd  []ad.Scalar
	sb          []float64 // bulk stoichiometry, nComp x nR
	sc          []float64 // combined stoichiometry, (nComp+nBound) x nR
}

// add model to database
func init() {
	allocators["MASS_ACTION_LAW"] = func() Model { return new(MassActionLaw) }
}

// Init initialises the model
func (o *MassActionLaw) Init(nComp int, nBound []int, prms map[string][]float64) (err error) {
	o.nComp = nComp
	nb := 0
	for _, n := range nBound {
		nb += n
	}
	o.nTot = nComp + nb
	kf, ok := prms["MAL_KFWD"]
	if !ok {
		return chk.Err("MASS_ACTION_LAW: parameter array %q is missing", "MAL_KFWD")
	}
	o.nR = len(kf)
	kb, err := getArray(prms, "MAL_KBWD", o.nR, "MASS_ACTION_LAW")
	if err != nil {
		return
	}
	o.kfwd, o.kbwd = toDual(kf), toDual(kb)
	o.sb, o.sc = nil, nil
	if sb, ok := prms["MAL_STOICHIOMETRY_BULK"]; ok {
		if len(sb) != nComp*o.nR {
			return chk.Err("MASS_ACTION_LAW: MAL_STOICHIOMETRY_BULK must have %d entries, not %d", nComp*o.nR, len(sb))
		}
		o.sb = sb
	}
	if sl, ok := prms["MAL_STOICHIOMETRY_LIQUID"]; ok {
		if len(sl) != nComp*o.nR {
			return chk.Err("MASS_ACTION_LAW: MAL_STOICHIOMETRY_LIQUID must have %d entries, not %d", nComp*o.nR, len(sl))
		}
		o.sc = make([]float64, o.nTot*o.nR)
		copy(o.sc, sl)
		if ss, ok := prms["MAL_STOICHIOMETRY_SOLID"]; ok {
			if len(ss) != nb*o.nR {
				return chk.Err("MASS_ACTION_LAW: MAL_STOICHIOMETRY_SOLID must have %d entries, not %d", nb*o.nR, len(ss))
			}
			copy(o.sc[nComp*o.nR:], ss)
		}
	}
	if o.sb == nil && o.sc == nil {
		return chk.Err("MASS_ACTION_LAW: a stoichiometry matrix (MAL_STOICHIOMETRY_BULK or MAL_STOICHIOMETRY_LIQUID) is required")
	}
	return
}

// NumLiquid returns the number of reactions active in liquid-only cells
func (o *MassActionLaw) NumLiquid() int {
	if o.sb == nil {
		return 0
	}
	return o.nR
}

// NumCombined returns the number of reactions active in combined cells
func (o *MassActionLaw) NumCombined() int {
	if o.sc == nil {
		return 0
	}
	return o.nR
}

// WorkspaceSize returns the scratch length required by the rate kernels
func (o *MassActionLaw) WorkspaceSize() int { return 3 }

// rate evaluates one reaction over n states with the given stoichiometry
func (o *MassActionLaw) rate(y, stoich []float64, n, r int) float64 {
	fwd, bwd := o.kfwd[r].V, o.kbwd[r].V
	for i := 0; i < n; i++ {
		if s := stoich[i*o.nR+r]; s < 0 {
			fwd *= math.Pow(y[i], -s)
		} else if s > 0 {
			bwd *= math.Pow(y[i], s)
		}
	}
	return fwd - bwd
}

// dRate evaluates the derivative of one reaction rate with respect to y[j]
func (o *MassActionLaw) dRate(y, stoich []float64, n, r, j int) float64 {
	sj := stoich[j*o.nR+r]
	if sj == 0 {
		return 0
	}
	var dfwd, dbwd float64
	if sj < 0 {
		e := -sj
		dfwd = o.kfwd[r].V * e * math.Pow(y[j], e-1)
		for i := 0; i < n; i++ {
			if i == j {
				continue
			}
			if s := stoich[i*o.nR+r]; s < 0 {
				dfwd *= math.Pow(y[i], -s)
			}
		}
	} else {
		dbwd = o.kbwd[r].V * sj * math.Pow(y[j], sj-1)
		for i := 0; i < n; i++ {
			if i == j {
				continue
			}
			if s := stoich[i*o.nR+r]; s > 0 {
				dbwd *= math.Pow(y[i], s)
			}
		}
	}
	return dfwd - dbwd
}

// rateDual evaluates one reaction in dual arithmetic, leaving it in ws[2]
func (o *MassActionLaw) rateDual(y []ad.Scalar, stoich []float64, n, r int, ws []ad.Scalar) {
	acc, tmp, rate := &ws[0], &ws[1], &ws[2]
	acc.Copy(o.kfwd[r])
	for i := 0; i < n; i++ {
		if s := stoich[i*o.nR+r]; s < 0 {
			tmp.Pow(y[i], -s)
			acc.Mul(*acc, *tmp)
		}
	}
	rate.Copy(*acc)
	acc.Copy(o.kbwd[r])
	for i := 0; i < n; i++ {
		if s := stoich[i*o.nR+r]; s > 0 {
			tmp.Pow(y[i], s)
			acc.Mul(*acc, *tmp)
		}
	}
	rate.Sub(*rate, *acc)
}

// addResidual accumulates factor times the production rates
func (o *MassActionLaw) addResidual(y, res, stoich []float64, n int, factor float64) {
	for r := 0; r < o.nR; r++ {
		rate := o.rate(y, stoich, n, r)
		for i := 0; i < n; i++ {
			if s := stoich[i*o.nR+r]; s != 0 {
				res[i] += factor * s * rate
			}
		}
	}
}

// addResidualDual is addResidual in dual arithmetic
func (o *MassActionLaw) addResidualDual(y, res []ad.Scalar, stoich []float64, n int, factor float64, ws []ad.Scalar) {
	rate := &ws[2]
	for r := 0; r < o.nR; r++ {
		o.rateDual(y, stoich, n, r, ws)
		for i := 0; i < n; i++ {
			if s := stoich[i*o.nR+r]; s != 0 {
				res[i].AccScaled(factor*s, *rate)
			}
		}
	}
}

// addJacobian accumulates factor times the rate derivatives
func (o *MassActionLaw) addJacobian(y, stoich []float64, n int, factor float64, jac [][]float64) {
	for r := 0; r < o.nR; r++ {
		for j := 0; j < n; j++ {
			dr := o.dRate(y, stoich, n, r, j)
			if dr == 0 {
				continue
			}
			for i := 0; i < n; i++ {
				if s := stoich[i*o.nR+r]; s != 0 {
					jac[i][j] += factor * s * dr
				}
			}
		}
	}
}

// ResidualLiquidAdd accumulates the liquid production rates
func (o *MassActionLaw) ResidualLiquidAdd(c, res []float64, factor float64, ws []float64) {
	if o.sb == nil {
		return
	}
	o.addResidual(c, res, o.sb, o.nComp, factor)
}

// ResidualLiquidAddDual is ResidualLiquidAdd in dual arithmetic
func (o *MassActionLaw) ResidualLiquidAddDual(c, res []ad.Scalar, factor float64, ws []ad.Scalar) {
	if o.sb == nil {
		return
	}
	o.addResidualDual(c, res, o.sb, o.nComp, factor, ws)
}

// JacobianLiquidAdd accumulates the liquid rate derivatives
func (o *MassActionLaw) JacobianLiquidAdd(c []float64, factor float64, jac [][]float64, ws []float64) {
	if o.sb == nil {
		return
	}
	o.addJacobian(c, o.sb, o.nComp, factor, jac)
}

// ResidualCombinedAdd accumulates the particle production rates
func (o *MassActionLaw) ResidualCombinedAdd(y, res []float64, factor float64, ws []float64) {
	if o.sc == nil {
		return
	}
	o.addResidual(y, res, o.sc, o.nTot, factor)
}

// ResidualCombinedAddDual is ResidualCombinedAdd in dual arithmetic
func (o *MassActionLaw) ResidualCombinedAddDual(y, res []ad.Scalar, factor float64, ws []ad.Scalar) {
	if o.sc == nil {
		return
	}
	o.addResidualDual(y, res, o.sc, o.nTot, factor, ws)
}

// JacobianCombinedAdd accumulates the particle rate derivatives
func (o *MassActionLaw) JacobianCombinedAdd(y []float64, factor float64, jac [][]float64, ws []float64) {
	if o.sc == nil {
		return
	}
	o.addJacobian(y, o.sc, o.nTot, factor, jac)
}

// Params exposes the parameter scalars for sensitivity registration
func (o *MassActionLaw) Params() map[string][]*ad.Scalar {
	return map[string][]*ad.Scalar{
		"MAL_KFWD": refs(o.kfwd),
		"MAL_KBWD": refs(o.kbwd),
	}
}
