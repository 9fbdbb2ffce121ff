// Copyright 2017 The CADET Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package grm implements the general rate model of liquid chromatography: a
// packed column whose state couples axial convection-dispersion in the bulk
// liquid, radial diffusion inside porous particles, film mass transfer
// between the two, and adsorption/reaction kinetics. The column delivers the
// DAE residual F(t,y,yDot), banded analytic and dual-number Jacobians,
// matrix-free products with dF/dy and dF/dyDot, a Schur-complement linear
// solver and consistent initial conditions, which together are everything an
// implicit integrator needs.
package grm

import (
	"math"
	"runtime"
	"sync"

	"github.com/blockspacer/CADET/ad"
	"github.com/blockspacer/CADET/linalg"
	"github.com/blockspacer/CADET/mbind"
	"github.com/blockspacer/CADET/mreact"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
)

// parType bundles the geometry, transport parameters and kinetic models of
// one particle type
type parType struct {

	// models
	binding mbind.Model
	react   mreact.Model // nil without particle reactions

	// radial discretisation
	nShells  int
	discMode string
	discVec  []float64
	geom     *parGeom

	// parameters
	porosity   ad.Scalar
	radius     ad.Scalar
	coreRadius ad.Scalar
	poreAccess []ad.Scalar // per component
	filmDiff   []ad.Scalar // per component, optionally per section
	parDiff    []ad.Scalar // per component, optionally per section
	surfDiff   []ad.Scalar // per bound state, optionally per section

	// derived
	qs          []bool // quasi-stationary flag per bound state
	hasSurfDiff bool
}

// Config collects the complete parameterisation of a column unit. Vector
// lengths follow the discretisation: per-component arrays hold NComp entries
// or NSec*NComp for section dependence; bound-state arrays are ordered like
// the bound states of the state vector (component-major within a type).
type Config struct {

	// discretisation
	NComp     int
	NCol      int
	NParCell  []int // shells per particle type
	NBound    []int // bound states per type and component
	WenoOrder int

	// radial discretisation per type
	ParDiscType   []string
	ParDiscVector [][]float64 // interface fractions for user-defined modes

	// sections
	NSec int

	// bulk transport
	ColLength     float64
	Velocity      []float64 // one entry or one per section
	ColDispersion []float64 // NComp or NSec*NComp
	ColPorosity   float64

	// particles, per type
	ParPorosity    []float64
	ParRadius      []float64
	ParCoreRadius  []float64
	ParTypeVolFrac []float64   // NParType or NCol*NParType, cell-major
	FilmDiffusion  [][]float64 // NComp or NSec*NComp each
	ParDiffusion   [][]float64 // NComp or NSec*NComp each
	SurfDiffusion  [][]float64 // strideBound or NSec*strideBound each
	PoreAccess     [][]float64 // NComp each; nil defaults to 1

	// kinetic models, configured by the caller; nil entries mean none
	Binding   []mbind.Model
	ReactPar  []mreact.Model
	ReactBulk mreact.Model

	// Jacobian and linear solver
	UseAnalyticJac  bool
	FixZeroSurfDiff bool
	MaxKrylov       int
	GsType          int
	MaxRestarts     int
	SchurSafety     float64

	// initial conditions
	InitC    []float64 // NComp
	InitCp   []float64 // NComp or NParType*NComp
	InitQ    []float64 // all bound states, types consecutive
	InitY    []float64 // full state; overrides the above when set
	InitYDot []float64

	// number of parameter sensitivity directions
	NSensDir int
}

// Column is one general rate model unit. Its state vector is laid out as
// described by Disc; the inlet block is coupled to the feed by the enclosing
// system, the column itself treats inlet rows as identities.
type Column struct {

	// discretisation and operators
	disc     Disc
	nSec     int
	convDisp ConvDisp

	// parameters
	colPorosity    ad.Scalar
	parTypeVolFrac []ad.Scalar // per cell and type, cell-major
	par            []*parType
	reactBulk      mreact.Model

	// banded Jacobian blocks and their factorisations
	useAnalyticJac bool
	jacP           []*linalg.Band // particle blocks, type-major
	jacPDisc       []*linalg.BandFact
	jacCDisc       *linalg.BandFact

	// sparse coupling blocks
	tCF, tFC, tPF, tFP         la.Triplet
	jacCF, jacFC, jacPF, jacFP *la.CCMatrix

	// Schur-complement solver
	gmres       linalg.Gmres
	schurSafety float64
	xf, rf, tc  []float64 // flux solve scratch
	tp          []float64

	// derivative directions: nSensDir parameter slots followed by the
	// band-compressed state slots
	nSensDir int
	ndir     int
	adY      []ad.Scalar
	adYDot   []ad.Scalar
	adRes    []ad.Scalar

	// workspaces
	ws  []*taskWS   // one per worker
	fws []ad.Scalar // serial flux pass

	// parameter registry
	params map[ParamID][]*ad.Scalar

	// section state
	curSec int

	// initial conditions
	initC, initCp, initQ []float64
	initY, initYDot      []float64
}

// NewColumn creates and configures a column unit. Configuration errors name
// the offending field and the expected shape.
func NewColumn(cfg *Config) (o *Column, err error) {

	o = new(Column)
	if err = o.disc.Init(cfg.NComp, cfg.NCol, cfg.NParCell, cfg.NBound); err != nil {
		return nil, err
	}
	if cfg.NSec < 1 {
		return nil, chk.Err("at least one section is required, not %d", cfg.NSec)
	}
	o.nSec = cfg.NSec
	nc := o.disc.NComp
	nt := o.disc.NParType

	if cfg.ColPorosity <= 0 || cfg.ColPorosity > 1 {
		return nil, chk.Err("COL_POROSITY must lie in (0,1], not %g", cfg.ColPorosity)
	}
	o.colPorosity.V = cfg.ColPorosity

	// volume fractions, expanded to one entry per cell and type
	switch len(cfg.ParTypeVolFrac) {
	case nt:
		o.parTypeVolFrac = make([]ad.Scalar, o.disc.NCol*nt)
		for k := 0; k < o.disc.NCol; k++ {
			for t := 0; t < nt; t++ {
				o.parTypeVolFrac[k*nt+t].V = cfg.ParTypeVolFrac[t]
			}
		}
	case o.disc.NCol * nt:
		o.parTypeVolFrac = toDual(cfg.ParTypeVolFrac)
	default:
		return nil, chk.Err("PAR_TYPE_VOLFRAC must have %d or %d entries, not %d", nt, o.disc.NCol*nt, len(cfg.ParTypeVolFrac))
	}
	for k := 0; k < o.disc.NCol; k++ {
		sum := 0.0
		for t := 0; t < nt; t++ {
			sum += o.parTypeVolFrac[k*nt+t].V
		}
		if math.Abs(sum-1) > 1e-10 {
			return nil, chk.Err("PAR_TYPE_VOLFRAC of cell %d sums to %g instead of 1", k, sum)
		}
	}

	// particle types
	if len(cfg.Binding) != nt {
		return nil, chk.Err("ADSORPTION_MODEL must configure %d particle types, not %d", nt, len(cfg.Binding))
	}
	o.par = make([]*parType, nt)
	for t := 0; t < nt; t++ {
		pt := &parType{
			binding: cfg.Binding[t],
			nShells: o.disc.NParCell[t],
		}
		if len(cfg.ReactPar) > 0 {
			pt.react = cfg.ReactPar[t]
		}
		if pt.binding == nil {
			return nil, chk.Err("particle type %d has no binding model", t)
		}
		sb := o.disc.StrideBound[t]
		if pt.binding.NumBound() != sb {
			return nil, chk.Err("binding model of type %d has %d bound states but NBOUND requires %d", t, pt.binding.NumBound(), sb)
		}
		pt.qs = pt.binding.QuasiStationary()

		if pt.porosity, err = scalarAt(cfg.ParPorosity, t, "PAR_POROSITY"); err != nil {
			return nil, err
		}
		if pt.porosity.V <= 0 || pt.porosity.V > 1 {
			return nil, chk.Err("PAR_POROSITY of type %d must lie in (0,1], not %g", t, pt.porosity.V)
		}
		if pt.radius, err = scalarAt(cfg.ParRadius, t, "PAR_RADIUS"); err != nil {
			return nil, err
		}
		if pt.radius.V <= 0 {
			return nil, chk.Err("PAR_RADIUS of type %d must be positive, not %g", t, pt.radius.V)
		}
		if len(cfg.ParCoreRadius) > 0 {
			if pt.coreRadius, err = scalarAt(cfg.ParCoreRadius, t, "PAR_CORERADIUS"); err != nil {
				return nil, err
			}
		}
		if pt.coreRadius.V < 0 || pt.coreRadius.V >= pt.radius.V {
			return nil, chk.Err("PAR_CORERADIUS of type %d must lie in [0,%g), not %g", t, pt.radius.V, pt.coreRadius.V)
		}

		if pt.filmDiff, err = vectorAt(cfg.FilmDiffusion, t, nc, o.nSec, "FILM_DIFFUSION"); err != nil {
			return nil, err
		}
		if pt.parDiff, err = vectorAt(cfg.ParDiffusion, t, nc, o.nSec, "PAR_DIFFUSION"); err != nil {
			return nil, err
		}
		if sb > 0 {
			if pt.surfDiff, err = vectorAt(cfg.SurfDiffusion, t, sb, o.nSec, "PAR_SURFDIFFUSION"); err != nil {
				return nil, err
			}
		}
		if len(cfg.PoreAccess) > 0 && cfg.PoreAccess[t] != nil {
			if pt.poreAccess, err = vectorAt(cfg.PoreAccess, t, nc, 1, "PORE_ACCESSIBILITY"); err != nil {
				return nil, err
			}
		} else {
			pt.poreAccess = make([]ad.Scalar, nc)
			for c := 0; c < nc; c++ {
				pt.poreAccess[c].V = 1
			}
		}

		pt.hasSurfDiff = sb > 0
		if cfg.FixZeroSurfDiff {
			pt.hasSurfDiff = false
			for _, d := range pt.surfDiff {
				if d.V != 0 {
					pt.hasSurfDiff = true
					break
				}
			}
		}

		pt.discMode = "EQUIDISTANT_PAR"
		if len(cfg.ParDiscType) == 1 {
			pt.discMode = cfg.ParDiscType[0]
		} else if len(cfg.ParDiscType) > t {
			pt.discMode = cfg.ParDiscType[t]
		}
		if len(cfg.ParDiscVector) > t {
			pt.discVec = cfg.ParDiscVector[t]
		}
		o.par[t] = pt
	}
	o.reactBulk = cfg.ReactBulk

	// derivative directions: the widest banded block dictates the number of
	// state-seeding slots
	o.nSensDir = cfg.NSensDir
	wenoOrder := cfg.WenoOrder
	if wenoOrder == 0 {
		wenoOrder = 2
	}
	maxStride := 2*wenoOrder*nc + 1
	for t := 0; t < nt; t++ {
		p, q := o.parBandwidths(t)
		if s := p + q + 1; s > maxStride {
			maxStride = s
		}
	}
	o.ndir = o.nSensDir + maxStride

	// geometry (needs ndir for the dual arrays)
	for t := 0; t < nt; t++ {
		pt := o.par[t]
		pt.geom = newParGeom(pt.nShells, o.ndir)
		if err = updateRadialDisc(pt.discMode, pt.discVec, pt.radius, pt.coreRadius, pt.geom); err != nil {
			return nil, err
		}
	}

	// bulk operator
	err = o.convDisp.Init(nc, o.disc.NCol, o.nSec, wenoOrder, o.ndir, cfg.ColLength, cfg.Velocity, cfg.ColDispersion)
	if err != nil {
		return nil, err
	}

	// Jacobian blocks
	o.useAnalyticJac = cfg.UseAnalyticJac
	o.jacP = make([]*linalg.Band, nt*o.disc.NCol)
	o.jacPDisc = make([]*linalg.BandFact, nt*o.disc.NCol)
	for t := 0; t < nt; t++ {
		p, q := o.parBandwidths(t)
		n := o.disc.StrideParBlock(t)
		for k := 0; k < o.disc.NCol; k++ {
			o.jacP[t*o.disc.NCol+k] = new(linalg.Band)
			o.jacP[t*o.disc.NCol+k].Init(n, p, q)
			o.jacPDisc[t*o.disc.NCol+k] = new(linalg.BandFact)
			o.jacPDisc[t*o.disc.NCol+k].Init(n, p, q)
		}
	}
	o.jacCDisc = new(linalg.BandFact)
	o.jacCDisc.Init(o.disc.NCol*nc, wenoOrder*nc, wenoOrder*nc)

	// Schur solver
	nFluxDof := nt * o.disc.NCol * nc
	mk := cfg.MaxKrylov
	if mk <= 0 {
		mk = nFluxDof
	}
	o.gmres.Init(nFluxDof, mk)
	o.gmres.GsType = cfg.GsType
	if cfg.MaxRestarts > 0 {
		o.gmres.MaxRest = cfg.MaxRestarts
	}
	o.schurSafety = cfg.SchurSafety
	if o.schurSafety <= 0 {
		o.schurSafety = 1e-8
	}
	o.xf = make([]float64, nFluxDof)
	o.rf = make([]float64, nFluxDof)
	o.tc = make([]float64, o.disc.NCol*nc)
	o.tp = make([]float64, o.disc.ParTypeOffset[nt])

	// dual state and workspaces
	o.adY = ad.NewVector(o.disc.NDof, o.ndir)
	o.adYDot = ad.NewVector(o.disc.NDof, o.ndir)
	o.adRes = ad.NewVector(o.disc.NDof, o.ndir)
	o.fws = ad.NewVector(8, o.ndir)
	nw := runtime.GOMAXPROCS(0)
	ntask := o.disc.NCol*nt + 1
	if nw > ntask {
		nw = ntask
	}
	o.ws = make([]*taskWS, nw)
	for i := range o.ws {
		o.ws[i] = o.newTaskWS()
	}

	// initial conditions
	o.initC = cfg.InitC
	o.initCp = cfg.InitCp
	o.initQ = cfg.InitQ
	o.initY = cfg.InitY
	o.initYDot = cfg.InitYDot

	o.registerParams()
	o.NotifySectionTransition(0)
	return
}

// parBandwidths returns the lower and upper bandwidths of the particle blocks
// of one type. Surface diffusion widens the upper band by the bound states
// whose fluxes reach into neighbouring shells.
func (o *Column) parBandwidths(t int) (p, q int) {
	p = o.disc.NComp + o.disc.StrideBound[t]
	q = p
	if o.par[t].hasSurfDiff {
		q += o.disc.StrideBound[t]
	}
	return
}

// scalarAt reads entry t of a per-type parameter that may be multiplexed from
// a single value
func scalarAt(v []float64, t int, name string) (s ad.Scalar, err error) {
	switch {
	case len(v) == 1:
		s.V = v[0]
	case len(v) > t:
		s.V = v[t]
	default:
		err = chk.Err("%s needs a value for particle type %d but has only %d entries", name, t, len(v))
	}
	return
}

// vectorAt validates and converts the per-type parameter vector v[t], which
// must hold n entries or nSec*n for section dependence
func vectorAt(v [][]float64, t, n, nSec int, name string) ([]ad.Scalar, error) {
	if len(v) <= t {
		return nil, chk.Err("%s is missing particle type %d", name, t)
	}
	if len(v[t]) != n && len(v[t]) != nSec*n {
		return nil, chk.Err("%s of type %d must have %d or %d entries, not %d", name, t, n, nSec*n, len(v[t]))
	}
	return toDual(v[t]), nil
}

// NumDofs returns the total number of degrees of freedom of the unit
func (o *Column) NumDofs() int { return o.disc.NDof }

// NumComp returns the number of chemical components
func (o *Column) NumComp() int { return o.disc.NComp }

// NumSensDirs returns the number of parameter sensitivity directions
func (o *Column) NumSensDirs() int { return o.nSensDir }

// CurrentVelocity returns the signed interstitial velocity of the running
// section
func (o *Column) CurrentVelocity() float64 { return o.convDisp.CurrentVelocity() }

// LocalInletComponentIndex returns the offset of the first inlet DOF
func (o *Column) LocalInletComponentIndex() int { return 0 }

// LocalOutletComponentIndex returns the offset of the first bulk DOF of the
// outlet cell under the current flow direction
func (o *Column) LocalOutletComponentIndex() int {
	if o.convDisp.CurrentVelocity() < 0 {
		return o.disc.NComp
	}
	return o.disc.NComp + (o.disc.NCol-1)*o.disc.NComp
}

// NumColumnCells returns the number of axial bulk cells
func (o *Column) NumColumnCells() int { return o.disc.NCol }

// NumParTypes returns the number of particle types
func (o *Column) NumParTypes() int { return o.disc.NParType }

// NumShells returns the number of radial shells of particle type t
func (o *Column) NumShells(t int) int { return o.disc.NParCell[t] }

// BulkIndex returns the position of component c in axial cell k
func (o *Column) BulkIndex(k, c int) int { return o.disc.OffsetC() + k*o.disc.NComp + c }

// ParticleIndex returns the position of mobile component c in shell s of the
// type t particle at axial cell k. Shells count from the outer surface.
func (o *Column) ParticleIndex(t, k, s, c int) int {
	return o.disc.OffsetCp(t, k) + s*o.disc.StrideParShell(t) + c
}

// BoundIndex returns the position of bound state b of component c in shell s
// of the type t particle at axial cell k
func (o *Column) BoundIndex(t, k, s, c, b int) int {
	return o.disc.OffsetCp(t, k) + s*o.disc.StrideParShell(t) + o.disc.NComp + o.disc.OffsetBoundComp(t, c) + b
}

// FluxIndex returns the position of the film flux of component c between the
// bulk at axial cell k and the type t particles
func (o *Column) FluxIndex(t, k, c int) int { return o.disc.OffsetJfTyped(t, k) + c }

// ExpandErrorTol maps integrator error weights onto the local state. The
// state is flat, so the mapping is the identity.
func (o *Column) ExpandErrorTol(tol, out []float64) { copy(out, tol) }

// NotifySectionTransition activates a section: the flow direction is
// re-evaluated and the flux coupling blocks are reassembled with the section's
// film and pore diffusion coefficients. Reports whether the flow reversed.
func (o *Column) NotifySectionTransition(sec int) (flowReversed bool) {
	o.curSec = sec
	flowReversed = o.convDisp.NotifySectionTransition(sec)
	o.assembleFluxBlocks(sec)
	return
}

// Residual evaluates F(t,y,yDot) into res. yDot may be nil at consistent-
// initialisation time. When wantJac is true the banded Jacobian blocks are
// repopulated, analytically or through one dual-number pass depending on the
// configuration. Returns 0 on success, negative on unrecoverable errors.
func (o *Column) Residual(sec int, y, yDot, res []float64, wantJac bool) (status int) {
	if wantJac && !o.useAnalyticJac {
		return o.residualADJac(sec, y, yDot, res)
	}
	o.residualDouble(sec, y, yDot, res, wantJac)
	return 0
}

// residualDouble runs the plain residual: bulk and particle tasks fan out
// over the workers, the flux pass runs serially afterwards
func (o *Column) residualDouble(sec int, y, yDot, res []float64, wantJac bool) {

	// inlet rows are identities; the enclosing system subtracts the feed
	for i := 0; i < o.disc.NComp; i++ {
		res[i] = y[i]
	}

	ntask := o.disc.NCol*o.disc.NParType + 1
	nw := len(o.ws)
	var wg sync.WaitGroup
	wg.Add(nw)
	for iw := 0; iw < nw; iw++ {
		go func(iw int) {
			defer wg.Done()
			w := o.ws[iw]
			for task := iw; task < ntask; task += nw {
				if task == 0 {
					o.residualBulk(sec, y, yDot, res, wantJac, w)
					continue
				}
				t := (task - 1) / o.disc.NCol
				k := (task - 1) % o.disc.NCol
				o.residualParticle(sec, t, k, y, yDot, res, wantJac, w)
			}
		}(iw)
	}
	wg.Wait()

	o.residualFlux(sec, y, res)
}

// residualBulk evaluates the bulk block: convection-dispersion plus the bulk
// liquid reactions
func (o *Column) residualBulk(sec int, y, yDot, res []float64, wantJac bool, w *taskWS) {
	nc := o.disc.NComp
	offC := o.disc.OffsetC()
	n := o.disc.NCol * nc
	var dot []float64
	if yDot != nil {
		dot = yDot[offC : offC+n]
	}
	o.convDisp.Residual(sec, y[:nc], y[offC:offC+n], dot, res[offC:offC+n], wantJac)

	if o.reactBulk == nil || o.reactBulk.NumLiquid() == 0 {
		return
	}
	for k := 0; k < o.disc.NCol; k++ {
		cell := y[offC+k*nc : offC+(k+1)*nc]
		o.reactBulk.ResidualLiquidAdd(cell, res[offC+k*nc:offC+(k+1)*nc], -1.0, w.rws)
		if wantJac {
			for i := 0; i < nc; i++ {
				for j := 0; j < nc; j++ {
					w.rjac[i][j] = 0
				}
			}
			o.reactBulk.JacobianLiquidAdd(cell, -1.0, w.rjac, w.rws)
			for i := 0; i < nc; i++ {
				row := o.convDisp.Jac().Row(k*nc + i)
				for j := 0; j < nc; j++ {
					if w.rjac[i][j] != 0 {
						row.Add(j-i, w.rjac[i][j])
					}
				}
			}
		}
	}
}

// residualDual evaluates the residual in dual arithmetic. Seeding decides
// what the direction slots mean: band-compressed state seeds yield Jacobians,
// parameter seeds yield sensitivities.
func (o *Column) residualDual(sec int, y, yDot, res []ad.Scalar) {

	for i := 0; i < o.disc.NComp; i++ {
		res[i].Copy(y[i])
	}

	ntask := o.disc.NCol*o.disc.NParType + 1
	nw := len(o.ws)
	var wg sync.WaitGroup
	wg.Add(nw)
	for iw := 0; iw < nw; iw++ {
		go func(iw int) {
			defer wg.Done()
			w := o.ws[iw]
			for task := iw; task < ntask; task += nw {
				if task == 0 {
					o.residualBulkDual(sec, y, yDot, res, w)
					continue
				}
				t := (task - 1) / o.disc.NCol
				k := (task - 1) % o.disc.NCol
				o.residualParticleDual(sec, t, k, y, yDot, res, w)
			}
		}(iw)
	}
	wg.Wait()

	o.residualFluxDual(sec, y, res)
}

// residualBulkDual is residualBulk in dual arithmetic
func (o *Column) residualBulkDual(sec int, y, yDot, res []ad.Scalar, w *taskWS) {
	nc := o.disc.NComp
	offC := o.disc.OffsetC()
	n := o.disc.NCol * nc
	var dot []ad.Scalar
	if yDot != nil {
		dot = yDot[offC : offC+n]
	}
	o.convDisp.ResidualDual(sec, y[:nc], y[offC:offC+n], dot, res[offC:offC+n])

	if o.reactBulk == nil || o.reactBulk.NumLiquid() == 0 {
		return
	}
	for k := 0; k < o.disc.NCol; k++ {
		cell := y[offC+k*nc : offC+(k+1)*nc]
		o.reactBulk.ResidualLiquidAddDual(cell, res[offC+k*nc:offC+(k+1)*nc], -1.0, w.rwsD)
	}
}

// registerParams builds the registry mapping parameter identifiers to the
// live scalars. Multiplexed parameters fan out: one identifier may address
// several stored scalars (volume fractions given per type address all axial
// cells of that type).
func (o *Column) registerParams() {
	nc := o.disc.NComp
	nt := o.disc.NParType
	o.params = make(map[ParamID][]*ad.Scalar)

	o.params[PID("COL_POROSITY")] = []*ad.Scalar{&o.colPorosity}
	o.params[PID("COL_LENGTH")] = []*ad.Scalar{&o.convDisp.colLength}
	if len(o.convDisp.velocity) == 1 {
		o.params[PID("VELOCITY")] = refs(o.convDisp.velocity)
	} else {
		for s := range o.convDisp.velocity {
			o.params[PID("VELOCITY").WithSection(s)] = []*ad.Scalar{&o.convDisp.velocity[s]}
		}
	}
	o.registerComp(PID("COL_DISPERSION"), o.convDisp.dispersion, nc)

	for t := 0; t < nt; t++ {
		pt := o.par[t]
		id := PID("").WithParType(t)
		o.params[named(id, "PAR_POROSITY")] = []*ad.Scalar{&pt.porosity}
		o.params[named(id, "PAR_RADIUS")] = []*ad.Scalar{&pt.radius}
		o.params[named(id, "PAR_CORERADIUS")] = []*ad.Scalar{&pt.coreRadius}

		vf := make([]*ad.Scalar, o.disc.NCol)
		for k := 0; k < o.disc.NCol; k++ {
			vf[k] = &o.parTypeVolFrac[k*nt+t]
		}
		o.params[named(id, "PAR_TYPE_VOLFRAC")] = vf

		for c := 0; c < nc; c++ {
			o.params[named(id, "PORE_ACCESSIBILITY").WithComp(c)] = []*ad.Scalar{&pt.poreAccess[c]}
		}
		o.registerComp(named(id, "FILM_DIFFUSION"), pt.filmDiff, nc)
		o.registerComp(named(id, "PAR_DIFFUSION"), pt.parDiff, nc)
		sb := o.disc.StrideBound[t]
		if sb > 0 {
			o.registerBound(named(id, "PAR_SURFDIFFUSION"), pt.surfDiff, sb)
		}

		for key, slots := range pt.binding.Params() {
			for c, s := range slots {
				o.params[named(id, key).WithComp(c)] = []*ad.Scalar{s}
			}
		}
		if pt.react != nil {
			for key, slots := range pt.react.Params() {
				for r, s := range slots {
					o.params[named(id, key).WithReaction(r)] = []*ad.Scalar{s}
				}
			}
		}
	}
	if o.reactBulk != nil {
		for key, slots := range o.reactBulk.Params() {
			for r, s := range slots {
				o.params[PID(key).WithReaction(r)] = []*ad.Scalar{s}
			}
		}
	}
}

// registerComp registers a per-component parameter vector, adding the section
// index when the vector is section-dependent
func (o *Column) registerComp(base ParamID, v []ad.Scalar, n int) {
	if len(v) == n {
		for c := 0; c < n; c++ {
			o.params[base.WithComp(c)] = []*ad.Scalar{&v[c]}
		}
		return
	}
	for s := 0; s < len(v)/n; s++ {
		for c := 0; c < n; c++ {
			o.params[base.WithComp(c).WithSection(s)] = []*ad.Scalar{&v[s*n+c]}
		}
	}
}

// registerBound registers a per-bound-state parameter vector
func (o *Column) registerBound(base ParamID, v []ad.Scalar, n int) {
	if len(v) == n {
		for b := 0; b < n; b++ {
			o.params[base.WithBound(b)] = []*ad.Scalar{&v[b]}
		}
		return
	}
	for s := 0; s < len(v)/n; s++ {
		for b := 0; b < n; b++ {
			o.params[base.WithBound(b).WithSection(s)] = []*ad.Scalar{&v[s*n+b]}
		}
	}
}

// named returns base with the name replaced
func named(base ParamID, name string) ParamID {
	base.Name = name
	return base
}

// SetParamValue writes a parameter value; multiplexed identifiers write all
// scalars they address. Radius mutations re-derive the shell geometry.
func (o *Column) SetParamValue(id ParamID, v float64) (err error) {
	ss, ok := o.params[id]
	if !ok {
		return chk.Err("parameter %q (comp=%d type=%d bnd=%d reac=%d sec=%d) is not registered",
			id.Name, id.Comp, id.ParType, id.BoundState, id.Reaction, id.Section)
	}
	for _, s := range ss {
		s.V = v
	}
	return o.afterParamMutation(id)
}

// GetParamValue reads a parameter value; multiplexed identifiers collapse to
// their first scalar
func (o *Column) GetParamValue(id ParamID) (v float64, err error) {
	ss, ok := o.params[id]
	if !ok {
		return 0, chk.Err("parameter %q is not registered", id.Name)
	}
	return ss[0].V, nil
}

// SetSensParam marks a parameter as sensitive: direction dir of its dual
// scalars receives the seed. Several parameters may share a direction to form
// joint sensitivities.
func (o *Column) SetSensParam(id ParamID, dir int, seed float64) (err error) {
	ss, ok := o.params[id]
	if !ok {
		return chk.Err("parameter %q is not registered", id.Name)
	}
	if dir < 0 || dir >= o.nSensDir {
		return chk.Err("sensitivity direction %d outside [0,%d)", dir, o.nSensDir)
	}
	for _, s := range ss {
		if s.D == nil {
			s.D = make([]float64, o.ndir)
		}
		s.D[dir] = seed
	}
	return o.afterParamMutation(id)
}

// ClearSensParams removes all parameter seeds
func (o *Column) ClearSensParams() {
	for _, ss := range o.params {
		for _, s := range ss {
			s.D = nil
		}
	}
	for t := range o.par {
		pt := o.par[t]
		updateRadialDisc(pt.discMode, pt.discVec, pt.radius, pt.coreRadius, pt.geom)
	}
}

// afterParamMutation re-derives state that depends on the mutated parameter
func (o *Column) afterParamMutation(id ParamID) (err error) {
	if id.Name != "PAR_RADIUS" && id.Name != "PAR_CORERADIUS" {
		return
	}
	for t := range o.par {
		if id.ParType >= 0 && id.ParType != t {
			continue
		}
		pt := o.par[t]
		if err = updateRadialDisc(pt.discMode, pt.discVec, pt.radius, pt.coreRadius, pt.geom); err != nil {
			return
		}
	}
	return
}
