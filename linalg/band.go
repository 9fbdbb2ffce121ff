// Copyright 2017 The CADET Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package linalg implements the banded-matrix storage, the banded LU
// factorisation and the restarted GMRES iteration used by the column and
// particle Jacobian blocks. Bands are stored row-major and centred on the
// main diagonal so that Jacobian assembly can address entries by their
// offset from the diagonal.
package linalg

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
)

// Band is a square banded matrix of order n with lower bandwidth p and upper
// bandwidth q. Only the n*(p+q+1) in-band entries are stored. Entry (i,j) is
// kept at d[i*(p+q+1) + j-i+p]; i.e. each stored row is centred on the main
// diagonal.
type Band struct {
	n, p, q int
	d       []float64
}

// Init allocates an n×n band with lower bandwidth p and upper bandwidth q
func (o *Band) Init(n, p, q int) {
	if n < 1 || p < 0 || q < 0 {
		chk.Panic("band: cannot initialise with n=%d, p=%d, q=%d", n, p, q)
	}
	o.n, o.p, o.q = n, p, q
	o.d = make([]float64, n*(p+q+1))
}

// N returns the order of the matrix
func (o *Band) N() int { return o.n }

// Lower returns the lower bandwidth
func (o *Band) Lower() int { return o.p }

// Upper returns the upper bandwidth
func (o *Band) Upper() int { return o.q }

// Stride returns the number of stored entries per row: p+q+1
func (o *Band) Stride() int { return o.p + o.q + 1 }

// SetAll sets all in-band entries to v
func (o *Band) SetAll(v float64) {
	for i := range o.d {
		o.d[i] = v
	}
}

// Row returns a cursor over row i, centred on the diagonal. Offset 0 is the
// diagonal entry; valid offsets are -p..q (clipped to the matrix edges by the
// caller).
func (o *Band) Row(i int) Row {
	s := o.p + o.q + 1
	return Row{d: o.d[i*s : i*s+s], p: o.p, q: o.q}
}

// Get returns entry (i,j), or zero when (i,j) lies outside the band
func (o *Band) Get(i, j int) float64 {
	k := j - i
	if k < -o.p || k > o.q {
		return 0
	}
	return o.d[i*(o.p+o.q+1)+k+o.p]
}

// MatVecMulAdd computes res += α * A * v
func (o *Band) MatVecMulAdd(res []float64, α float64, v []float64) {
	s := o.p + o.q + 1
	for i := 0; i < o.n; i++ {
		jlo := i - o.p
		if jlo < 0 {
			jlo = 0
		}
		jhi := i + o.q
		if jhi > o.n-1 {
			jhi = o.n - 1
		}
		sum := 0.0
		for j := jlo; j <= jhi; j++ {
			sum += o.d[i*s+j-i+o.p] * v[j]
		}
		res[i] += α * sum
	}
}

// Dense returns the matrix as a dense [][]float64; for tests and for the
// assembly of the global sparse Jacobian
func (o *Band) Dense() (a [][]float64) {
	a = la.MatAlloc(o.n, o.n)
	for i := 0; i < o.n; i++ {
		for j := 0; j < o.n; j++ {
			a[i][j] = o.Get(i, j)
		}
	}
	return
}

// Row is a lightweight cursor over one banded row. Writes use offsets
// relative to the diagonal; out-of-band writes are an invariant violation
// and panic.
type Row struct {
	d    []float64
	p, q int
}

// Add adds v to the entry at diagonal offset k
func (o Row) Add(k int, v float64) {
	if k < -o.p || k > o.q {
		chk.Panic("band row: offset %d outside band [-%d,%d]", k, o.p, o.q)
	}
	o.d[o.p+k] += v
}

// Set sets the entry at diagonal offset k to v
func (o Row) Set(k int, v float64) {
	if k < -o.p || k > o.q {
		chk.Panic("band row: offset %d outside band [-%d,%d]", k, o.p, o.q)
	}
	o.d[o.p+k] = v
}

// Get returns the entry at diagonal offset k
func (o Row) Get(k int) float64 {
	if k < -o.p || k > o.q {
		chk.Panic("band row: offset %d outside band [-%d,%d]", k, o.p, o.q)
	}
	return o.d[o.p+k]
}

// BandFact holds the LU factorisation (with partial pivoting) of a banded
// matrix. The storage carries p extra super-diagonals for pivoting fill-in,
// hence each stored row has 2p+q+1 entries, still centred such that offset 0
// is the diagonal.
type BandFact struct {
	n, p, q int
	d       []float64 // row-major, width 2p+q+1, diagonal at index p
	ipiv    []int
	done    bool
}

// Init allocates storage for the factorisation of an n×n band (p lower, q
// upper)
func (o *BandFact) Init(n, p, q int) {
	o.n, o.p, o.q = n, p, q
	o.d = make([]float64, n*(2*p+q+1))
	o.ipiv = make([]int, n)
	o.done = false
}

// SetFrom copies the in-band entries of a into the factorisation storage and
// zeroes the fill-in region. The bandwidths of a must match.
func (o *BandFact) SetFrom(a *Band) {
	if a.n != o.n || a.p != o.p || a.q != o.q {
		chk.Panic("band fact: shape mismatch: (%d,%d,%d) != (%d,%d,%d)", a.n, a.p, a.q, o.n, o.p, o.q)
	}
	sa := a.p + a.q + 1
	so := 2*o.p + o.q + 1
	for i := 0; i < o.n; i++ {
		copy(o.d[i*so:i*so+sa], a.d[i*sa:i*sa+sa])
		for k := sa; k < so; k++ {
			o.d[i*so+k] = 0
		}
	}
	o.done = false
}

// Row returns a cursor over the logical band of row i (offsets -p..q); the
// fill-in region is not reachable through the cursor. Valid before Fact only.
func (o *BandFact) Row(i int) Row {
	s := 2*o.p + o.q + 1
	return Row{d: o.d[i*s : i*s+o.p+o.q+1], p: o.p, q: o.q}
}

// at returns a pointer-free accessor into the widened storage
func (o *BandFact) at(i, j int) int {
	return i*(2*o.p+o.q+1) + j - i + o.p
}

// Fact computes the LU factorisation in place using partial pivoting.
// Returns an error on a zero pivot (singular matrix).
func (o *BandFact) Fact() (err error) {
	n, p, q := o.n, o.p, o.q
	for k := 0; k < n; k++ {
		// pivot search in column k, rows k..k+p
		ilast := k + p
		if ilast > n-1 {
			ilast = n - 1
		}
		piv, amax := k, math.Abs(o.d[o.at(k, k)])
		for i := k + 1; i <= ilast; i++ {
			if a := math.Abs(o.d[o.at(i, k)]); a > amax {
				piv, amax = i, a
			}
		}
		o.ipiv[k] = piv
		if amax == 0 {
			return chk.Err("band fact: zero pivot at k=%d (n=%d, p=%d, q=%d)", k, n, p, q)
		}
		jlast := k + p + q
		if jlast > n-1 {
			jlast = n - 1
		}
		if piv != k {
			for j := k; j <= jlast; j++ {
				a, b := o.at(k, j), o.at(piv, j)
				o.d[a], o.d[b] = o.d[b], o.d[a]
			}
		}
		dkk := o.d[o.at(k, k)]
		for i := k + 1; i <= ilast; i++ {
			m := o.d[o.at(i, k)] / dkk
			o.d[o.at(i, k)] = m
			if m != 0 {
				for j := k + 1; j <= jlast; j++ {
					o.d[o.at(i, j)] -= m * o.d[o.at(k, j)]
				}
			}
		}
	}
	o.done = true
	return
}

// Solve solves A x = b using the factorisation. x and b may be the same
// slice.
func (o *BandFact) Solve(x, b []float64) {
	if !o.done {
		chk.Panic("band fact: Solve called before Fact")
	}
	n, p, q := o.n, o.p, o.q
	if &x[0] != &b[0] {
		copy(x, b)
	}
	// forward substitution with row interchanges
	for k := 0; k < n; k++ {
		if o.ipiv[k] != k {
			x[k], x[o.ipiv[k]] = x[o.ipiv[k]], x[k]
		}
		ilast := k + p
		if ilast > n-1 {
			ilast = n - 1
		}
		for i := k + 1; i <= ilast; i++ {
			x[i] -= o.d[o.at(i, k)] * x[k]
		}
	}
	// back substitution
	for i := n - 1; i >= 0; i-- {
		jlast := i + p + q
		if jlast > n-1 {
			jlast = n - 1
		}
		sum := x[i]
		for j := i + 1; j <= jlast; j++ {
			sum -= o.d[o.at(i, j)] * x[j]
		}
		x[i] = sum / o.d[o.at(i, i)]
	}
}
