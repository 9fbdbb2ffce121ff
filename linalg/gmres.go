// Copyright 2017 The CADET Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linalg

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
)

// Gram-Schmidt variants for the Arnoldi process
const (
	GsClassical = 0
	GsModified  = 1
)

// Gmres is a restarted GMRES iteration for A x = b where A is available only
// through a mat-vec callback. The workspace is allocated once and reused
// across solves; this matters because the Schur-complement solve calls it on
// every Newton iteration.
type Gmres struct {
	n       int           // system size
	m       int           // max Krylov subspace dimension
	GsType  int           // GsClassical or GsModified
	MaxRest int           // max number of restarts
	V       [][]float64   // Krylov basis (m+1 × n)
	H       [][]float64   // Hessenberg (m+1 × m)
	cs, sn  []float64     // Givens rotations
	s, y    []float64     // rhs of the least-squares problem / solution
	w       []float64     // mat-vec scratch
	Niter   int           // iterations of the last solve
	ResNorm float64       // residual norm of the last solve
}

// Init allocates the workspace for systems of size n with Krylov dimension m
func (o *Gmres) Init(n, m int) {
	if m > n {
		m = n
	}
	if m < 1 {
		chk.Panic("gmres: Krylov dimension must be positive (n=%d, m=%d)", n, m)
	}
	o.n, o.m = n, m
	o.GsType = GsModified
	o.MaxRest = 10
	o.V = la.MatAlloc(m+1, n)
	o.H = la.MatAlloc(m+1, m)
	o.cs = make([]float64, m)
	o.sn = make([]float64, m)
	o.s = make([]float64, m+1)
	o.y = make([]float64, m)
	o.w = make([]float64, n)
}

// Solve runs restarted GMRES on A x = b with the given relative tolerance.
// x must hold the initial guess on entry (usually zero) and receives the
// solution. Returns an error when the residual has not dropped below
// tol*|b| after all restarts.
func (o *Gmres) Solve(matvec func(av, v []float64), x, b []float64, tol float64) (err error) {
	normb := la.VecNorm(b)
	if normb == 0 {
		la.VecFill(x, 0)
		o.Niter, o.ResNorm = 0, 0
		return
	}
	target := tol * normb
	o.Niter = 0
	for rest := 0; rest <= o.MaxRest; rest++ {
		// residual r = b - A x
		matvec(o.w, x)
		for i := 0; i < o.n; i++ {
			o.V[0][i] = b[i] - o.w[i]
		}
		β := la.VecNorm(o.V[0])
		o.ResNorm = β
		if β <= target {
			return
		}
		for i := 0; i < o.n; i++ {
			o.V[0][i] /= β
		}
		for i := range o.s {
			o.s[i] = 0
		}
		o.s[0] = β
		// Arnoldi
		k := 0
		for ; k < o.m; k++ {
			o.Niter++
			matvec(o.w, o.V[k])
			switch o.GsType {
			case GsClassical:
				for i := 0; i <= k; i++ {
					o.H[i][k] = dot(o.V[i], o.w)
				}
				for i := 0; i <= k; i++ {
					h := o.H[i][k]
					for j := 0; j < o.n; j++ {
						o.w[j] -= h * o.V[i][j]
					}
				}
			case GsModified:
				for i := 0; i <= k; i++ {
					h := dot(o.V[i], o.w)
					o.H[i][k] = h
					for j := 0; j < o.n; j++ {
						o.w[j] -= h * o.V[i][j]
					}
				}
			default:
				chk.Panic("gmres: unknown Gram-Schmidt type %d", o.GsType)
			}
			hk1 := la.VecNorm(o.w)
			o.H[k+1][k] = hk1
			if hk1 > 0 {
				for j := 0; j < o.n; j++ {
					o.V[k+1][j] = o.w[j] / hk1
				}
			}
			// apply previous Givens rotations to the new column
			for i := 0; i < k; i++ {
				t := o.cs[i]*o.H[i][k] + o.sn[i]*o.H[i+1][k]
				o.H[i+1][k] = -o.sn[i]*o.H[i][k] + o.cs[i]*o.H[i+1][k]
				o.H[i][k] = t
			}
			// new rotation annihilating H[k+1][k]
			o.cs[k], o.sn[k] = givens(o.H[k][k], o.H[k+1][k])
			o.H[k][k] = o.cs[k]*o.H[k][k] + o.sn[k]*o.H[k+1][k]
			o.H[k+1][k] = 0
			o.s[k+1] = -o.sn[k] * o.s[k]
			o.s[k] = o.cs[k] * o.s[k]
			o.ResNorm = math.Abs(o.s[k+1])
			if o.ResNorm <= target || hk1 == 0 {
				k++
				break
			}
		}
		o.update(x, k)
		if o.ResNorm <= target {
			return
		}
	}
	return chk.Err("gmres: no convergence after %d restarts: |r|=%g > %g", o.MaxRest, o.ResNorm, target)
}

// update solves the k×k triangular system and adds the correction to x
func (o *Gmres) update(x []float64, k int) {
	for i := k - 1; i >= 0; i-- {
		sum := o.s[i]
		for j := i + 1; j < k; j++ {
			sum -= o.H[i][j] * o.y[j]
		}
		o.y[i] = sum / o.H[i][i]
	}
	for j := 0; j < k; j++ {
		yj := o.y[j]
		for i := 0; i < o.n; i++ {
			x[i] += yj * o.V[j][i]
		}
	}
}

func dot(u, v []float64) (res float64) {
	for i := 0; i < len(u); i++ {
		res += u[i] * v[i]
	}
	return
}

// givens returns the rotation (c,s) such that [c s; -s c]ᵀ [a; b] = [r; 0]
func givens(a, b float64) (c, s float64) {
	if b == 0 {
		return 1, 0
	}
	if math.Abs(b) > math.Abs(a) {
		t := a / b
		s = 1 / math.Sqrt(1+t*t)
		c = t * s
		return
	}
	t := b / a
	c = 1 / math.Sqrt(1+t*t)
	s = t * c
	return
}
