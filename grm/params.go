// Copyright 2017 The CADET Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grm

import "github.com/blockspacer/CADET/ad"

// ParamID identifies one scalar model parameter. Index fields not applicable
// to a parameter are set to -1. A single ParamID may fan out to several
// stored scalars, for instance a particle type volume fraction given per
// axial cell.
type ParamID struct {
	Name       string
	Comp       int
	ParType    int
	BoundState int
	Reaction   int
	Section    int
}

// PID builds a ParamID with all index fields unset
func PID(name string) ParamID {
	return ParamID{Name: name, Comp: -1, ParType: -1, BoundState: -1, Reaction: -1, Section: -1}
}

// WithComp returns a copy with the component index set
func (id ParamID) WithComp(c int) ParamID { id.Comp = c; return id }

// WithParType returns a copy with the particle type index set
func (id ParamID) WithParType(t int) ParamID { id.ParType = t; return id }

// WithBound returns a copy with the bound state index set
func (id ParamID) WithBound(b int) ParamID { id.BoundState = b; return id }

// WithReaction returns a copy with the reaction index set
func (id ParamID) WithReaction(r int) ParamID { id.Reaction = r; return id }

// WithSection returns a copy with the section index set
func (id ParamID) WithSection(s int) ParamID { id.Section = s; return id }

// toDual converts a plain array into dual scalars without directions
func toDual(v []float64) []ad.Scalar {
	d := make([]ad.Scalar, len(v))
	for i, x := range v {
		d[i].V = x
	}
	return d
}

// refs collects addressable references to the scalars
func refs(v []ad.Scalar) []*ad.Scalar {
	r := make([]*ad.Scalar, len(v))
	for i := range v {
		r[i] = &v[i]
	}
	return r
}

// secSlice selects the n entries of a section-dependent parameter array; an
// array of exactly n entries is section-independent
func secSlice(v []ad.Scalar, n, sec int) []ad.Scalar {
	if len(v) == n {
		return v
	}
	return v[sec*n : (sec+1)*n]
}
