// Copyright 2017 The CADET Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ad

import (
	"math"

	"github.com/blockspacer/CADET/linalg"
	"github.com/cpmech/gosl/chk"
)

// Band-compressed seeding: a banded Jacobian with lower bandwidth p and
// upper bandwidth q is recovered from p+q+1 directions. Variable j is seeded
// in direction j mod (p+q+1); entry (i,j) is then read from direction
// (j-i+p) mod (p+q+1) of residual i. Two variables sharing a direction are
// at least p+q+1 apart and therefore never meet in one row.

// SeedBand seeds the n variables y[off..off+n) for the extraction of a
// banded Jacobian, using directions dir0..dir0+p+q.
func SeedBand(y []Scalar, off, n, p, q, dir0 int) {
	s := p + q + 1
	for j := 0; j < n; j++ {
		d := y[off+j].D
		if len(d) < dir0+s {
			chk.Panic("ad: seed %d+%d exceeds %d directions", dir0, s, len(d))
		}
		d[dir0+j%s] = 1
	}
}

// ClearDirs zeroes all directions of y[off..off+n)
func ClearDirs(y []Scalar, off, n int) {
	for j := 0; j < n; j++ {
		for k := range y[off+j].D {
			y[off+j].D[k] = 0
		}
	}
}

// ExtractBand reads the banded Jacobian of res[off..off+N) with respect to
// the variables seeded by SeedBand into A (same bandwidths as the seeding)
func ExtractBand(A *linalg.Band, res []Scalar, off, dir0 int) {
	n, p, q := A.N(), A.Lower(), A.Upper()
	s := p + q + 1
	for i := 0; i < n; i++ {
		r := A.Row(i)
		klo, khi := -p, q
		if i+klo < 0 {
			klo = -i
		}
		if i+khi > n-1 {
			khi = n - 1 - i
		}
		for k := klo; k <= khi; k++ {
			j := i + k
			r.Set(k, res[off+i].D[dir0+(j-i+p)%s])
		}
	}
}

// CompareBand returns the largest absolute difference between the in-band
// entries of A and the Jacobian encoded in the seeded residual res. Used to
// cross-check the analytic Jacobian against the AD one.
func CompareBand(A *linalg.Band, res []Scalar, off, dir0 int) (maxdiff float64) {
	n, p, q := A.N(), A.Lower(), A.Upper()
	s := p + q + 1
	for i := 0; i < n; i++ {
		klo, khi := -p, q
		if i+klo < 0 {
			klo = -i
		}
		if i+khi > n-1 {
			khi = n - 1 - i
		}
		for k := klo; k <= khi; k++ {
			j := i + k
			d := math.Abs(A.Get(i, j) - res[off+i].D[dir0+(j-i+p)%s])
			if d > maxdiff {
				maxdiff = d
			}
		}
	}
	return
}
