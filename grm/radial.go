// Copyright 2017 The CADET Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grm

import (
	"sort"

	"github.com/blockspacer/CADET/ad"
	"github.com/cpmech/gosl/chk"
)

// parGeom holds the radial finite-volume geometry of one particle type.
// Shells are ordered from the outer surface inward; entries are dual scalars
// so that the geometry carries derivatives with respect to the particle and
// core radii when those are flagged sensitive.
type parGeom struct {
	cellSize     []ad.Scalar // shell thickness
	centerRadius []ad.Scalar // shell midpoint radius
	outerPerVol  []ad.Scalar // outer shell surface area per shell volume
	innerPerVol  []ad.Scalar // inner shell surface area per shell volume
}

// newParGeom allocates geometry arrays for nShells shells with ndir
// derivative directions
func newParGeom(nShells, ndir int) *parGeom {
	return &parGeom{
		cellSize:     ad.NewVector(nShells, ndir),
		centerRadius: ad.NewVector(nShells, ndir),
		outerPerVol:  ad.NewVector(nShells, ndir),
		innerPerVol:  ad.NewVector(nShells, ndir),
	}
}

// setShellGeom fills the geometry entries of shell s from its outer and inner
// radii. Surface areas per volume follow from spherical shells,
//
//	aOut = 3 rOut² / (rOut³ - rIn³)    aIn = 3 rIn² / (rOut³ - rIn³)
func setShellGeom(g *parGeom, s int, rOut, rIn ad.Scalar, tmp []ad.Scalar) {
	vol, a := &tmp[0], &tmp[1]
	g.cellSize[s].Sub(rOut, rIn)
	g.centerRadius[s].Add(rOut, rIn)
	g.centerRadius[s].Scale(0.5, g.centerRadius[s])
	vol.Mul(rOut, rOut)
	vol.Mul(*vol, rOut)
	a.Mul(rIn, rIn)
	a.Mul(*a, rIn)
	vol.Sub(*vol, *a)
	a.Mul(rOut, rOut)
	a.Scale(3, *a)
	g.outerPerVol[s].Div(*a, *vol)
	a.Mul(rIn, rIn)
	a.Scale(3, *a)
	g.innerPerVol[s].Div(*a, *vol)
}

// updateRadialDisc recomputes the shell geometry of one particle type. mode
// selects equidistant or equivolume shells or user-defined interfaces given
// as fractions of the shell span in discVec (any order; the extremes are
// clamped so the outermost interface sits on the particle surface and the
// innermost on the core).
func updateRadialDisc(mode string, discVec []float64, radius, coreRadius ad.Scalar, g *parGeom) (err error) {
	n := len(g.cellSize)
	ndir := len(g.cellSize[0].D)
	tmp := ad.NewVector(5, ndir)
	switch mode {
	case "EQUIDISTANT_PAR":
		dr, rOut, rIn := &tmp[0], &tmp[1], &tmp[2]
		dr.Sub(radius, coreRadius)
		dr.Scale(1.0/float64(n), *dr)
		rOut.Copy(radius)
		for s := 0; s < n; s++ {
			if s == n-1 {
				rIn.Copy(coreRadius)
			} else {
				rIn.Copy(radius)
				rIn.AccScaled(-float64(s+1), *dr)
			}
			setShellGeom(g, s, *rOut, *rIn, tmp[3:])
			rOut.Copy(*rIn)
		}

	case "EQUIVOLUME_PAR":
		vcell, rOut, rIn := &tmp[0], &tmp[1], &tmp[2]
		vcell.Mul(radius, radius)
		vcell.Mul(*vcell, radius)
		rIn.Mul(coreRadius, coreRadius)
		rIn.Mul(*rIn, coreRadius)
		vcell.Sub(*vcell, *rIn)
		vcell.Scale(1.0/float64(n), *vcell)
		rOut.Copy(radius)
		for s := 0; s < n; s++ {
			if s == n-1 {
				rIn.Copy(coreRadius)
			} else {
				rIn.Mul(*rOut, *rOut)
				rIn.Mul(*rIn, *rOut)
				rIn.Sub(*rIn, *vcell)
				rIn.Pow(*rIn, 1.0/3.0)
			}
			setShellGeom(g, s, *rOut, *rIn, tmp[3:])
			rOut.Copy(*rIn)
		}

	case "USER_DEFINED_PAR":
		if len(discVec) != n+1 {
			return chk.Err("user-defined radial discretisation needs %d interface positions, not %d", n+1, len(discVec))
		}
		x := make([]float64, n+1)
		copy(x, discVec)
		sort.Sort(sort.Reverse(sort.Float64Slice(x)))
		x[0], x[n] = 1, 0 // outermost interface is the surface, innermost the core
		for s := 0; s < n; s++ {
			if x[s+1] >= x[s] {
				return chk.Err("user-defined radial interfaces contain a zero-width shell at position %d", s)
			}
		}
		span, rOut, rIn := &tmp[0], &tmp[1], &tmp[2]
		span.Sub(radius, coreRadius)
		for s := 0; s < n; s++ {
			rOut.Copy(coreRadius)
			rOut.AccScaled(x[s], *span)
			rIn.Copy(coreRadius)
			rIn.AccScaled(x[s+1], *span)
			setShellGeom(g, s, *rOut, *rIn, tmp[3:])
		}

	default:
		return chk.Err("particle discretisation mode %q is unknown", mode)
	}
	return
}
