// Copyright 2017 The CADET Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grm

import "github.com/cpmech/gosl/chk"

// Disc holds the discretisation of a column unit and the derived index maps
// into its state vector. The state vector is laid out as
//
//	inlet DOFs   nComp entries
//	bulk DOFs    nCol cells times nComp components, cell-major
//	particles    per type, per axial cell: nParCell shells of
//	             nComp mobile entries followed by strideBound bound states
//	flux DOFs    per type, per axial cell: nComp film flux entries
//
// NBound is stored type-major with nComp entries per particle type.
type Disc struct {

	// basic dimensions
	NComp    int   // number of chemical components
	NCol     int   // number of axial column cells
	NParType int   // number of particle types
	NParCell []int // number of radial shells per particle type
	NBound   []int // bound states per type and component, nParType*nComp

	// derived index maps
	BoundOffset      []int // first bound-state slot of a component within its type block
	StrideBound      []int // total bound states per type; entry nParType holds the sum
	NBoundBeforeType []int // bound states of all preceding types
	ParTypeOffset    []int // particle block offsets relative to the first particle DOF
	NDof             int   // total number of degrees of freedom
}

// Init computes the derived index maps and validates the dimensions
func (o *Disc) Init(nComp, nCol int, nParCell, nBound []int) (err error) {
	if nComp < 1 {
		return chk.Err("number of components must be at least 1, not %d", nComp)
	}
	if nCol < 1 {
		return chk.Err("number of column cells must be at least 1, not %d", nCol)
	}
	if len(nParCell) < 1 {
		return chk.Err("at least one particle type is required")
	}
	o.NComp, o.NCol = nComp, nCol
	o.NParType = len(nParCell)
	o.NParCell = nParCell
	for t, n := range nParCell {
		if n < 1 {
			return chk.Err("particle type %d must have at least 1 shell, not %d", t, n)
		}
	}
	if len(nBound) != o.NParType*nComp {
		return chk.Err("bound state table must have %d entries, not %d", o.NParType*nComp, len(nBound))
	}
	o.NBound = nBound
	o.BoundOffset = make([]int, o.NParType*nComp)
	o.StrideBound = make([]int, o.NParType+1)
	o.NBoundBeforeType = make([]int, o.NParType)
	for t := 0; t < o.NParType; t++ {
		sum := 0
		for c := 0; c < nComp; c++ {
			if nBound[t*nComp+c] < 0 {
				return chk.Err("bound state count of type %d component %d is negative", t, c)
			}
			o.BoundOffset[t*nComp+c] = sum
			sum += nBound[t*nComp+c]
		}
		o.StrideBound[t] = sum
		o.StrideBound[o.NParType] += sum
		if t > 0 {
			o.NBoundBeforeType[t] = o.NBoundBeforeType[t-1] + o.StrideBound[t-1]
		}
	}
	o.ParTypeOffset = make([]int, o.NParType+1)
	for t := 0; t < o.NParType; t++ {
		o.ParTypeOffset[t+1] = o.ParTypeOffset[t] + nCol*o.NParCell[t]*(nComp+o.StrideBound[t])
	}
	o.NDof = nComp + nCol*nComp + o.ParTypeOffset[o.NParType] + o.NParType*nCol*nComp
	return
}

// OffsetC returns the first bulk DOF
func (o *Disc) OffsetC() int { return o.NComp }

// OffsetCp returns the first DOF of the particle block of the given type and
// axial cell
func (o *Disc) OffsetCp(parType, cell int) int {
	return o.NComp + o.NCol*o.NComp + o.ParTypeOffset[parType] + cell*o.StrideParBlock(parType)
}

// OffsetCpShell returns the first DOF of one radial shell
func (o *Disc) OffsetCpShell(parType, cell, shell int) int {
	return o.OffsetCp(parType, cell) + shell*o.StrideParShell(parType)
}

// OffsetJf returns the first flux DOF
func (o *Disc) OffsetJf() int {
	return o.NComp + o.NCol*o.NComp + o.ParTypeOffset[o.NParType]
}

// OffsetJfTyped returns the first flux DOF of the given type and axial cell
func (o *Disc) OffsetJfTyped(parType, cell int) int {
	return o.OffsetJf() + parType*o.NCol*o.NComp + cell*o.NComp
}

// StrideColCell returns the bulk DOFs per axial cell
func (o *Disc) StrideColCell() int { return o.NComp }

// StrideColComp returns the distance between bulk components within a cell
func (o *Disc) StrideColComp() int { return 1 }

// StrideParShell returns the DOFs per particle shell of the given type
func (o *Disc) StrideParShell(parType int) int { return o.NComp + o.StrideBound[parType] }

// StrideParLiquid returns the mobile-phase DOFs per particle shell
func (o *Disc) StrideParLiquid() int { return o.NComp }

// StrideParBound returns the bound-state DOFs per particle shell of the
// given type
func (o *Disc) StrideParBound(parType int) int { return o.StrideBound[parType] }

// StrideParBlock returns the DOFs per particle block of the given type
func (o *Disc) StrideParBlock(parType int) int {
	return o.NParCell[parType] * o.StrideParShell(parType)
}

// OffsetBoundComp returns the first bound-state slot of a component within a
// shell of the given type
func (o *Disc) OffsetBoundComp(parType, comp int) int {
	return o.BoundOffset[parType*o.NComp+comp]
}
