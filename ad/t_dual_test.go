// Copyright 2017 The CADET Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ad

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/num"
)

func init() {
	io.Verbose = false
}

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

func Test_dual01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("dual01. arithmetic and chain rule")

	// x seeded in direction 0, y in direction 1
	v := NewVector(2, 2)
	x, y := &v[0], &v[1]
	x.SetV(1.7)
	x.D[0] = 1
	y.SetV(0.8)
	y.D[1] = 1

	// z = x*y + x/y
	z := NewVector(3, 2)
	z[0].Mul(*x, *y)
	z[1].Div(*x, *y)
	z[2].Add(z[0], z[1])

	chk.Scalar(tst, "z", 1e-15, z[2].V, 1.7*0.8+1.7/0.8)
	chk.Scalar(tst, "dz/dx", 1e-15, z[2].D[0], 0.8+1.0/0.8)
	chk.Scalar(tst, "dz/dy", 1e-15, z[2].D[1], 1.7-1.7/(0.8*0.8))

	// cross-check against a central finite difference
	f := func(xx float64, args ...interface{}) float64 {
		return xx*0.8 + xx/0.8
	}
	dnum, _ := num.DerivCentral(f, 1.7, 1e-3)
	chk.AnaNum(tst, "dz/dx (FD)", 1e-8, z[2].D[0], dnum, chk.Verbose)
}

func Test_dual02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("dual02. aliasing, constants, accumulation")

	v := NewVector(2, 1)
	x := &v[0]
	x.SetV(2.0)
	x.D[0] = 1

	// z = x; z = z*z must be safe under aliasing
	z := &v[1]
	z.Copy(*x)
	z.Mul(*z, *z)
	chk.Scalar(tst, "x^2", 1e-15, z.V, 4.0)
	chk.Scalar(tst, "d(x^2)/dx", 1e-15, z.D[0], 4.0)

	// z = z/z -> 1 with zero derivative
	z.Div(*z, *z)
	chk.Scalar(tst, "x^2/x^2", 1e-15, z.V, 1.0)
	chk.Scalar(tst, "d(1)/dx", 1e-15, z.D[0], 0.0)

	// nil-direction constant behaves as a plain value
	c := Scalar{V: 3.0}
	z.Copy(*x)
	z.AccMul(c, *x) // z = x + 3x
	chk.Scalar(tst, "x+3x", 1e-15, z.V, 8.0)
	chk.Scalar(tst, "d(4x)/dx", 1e-15, z.D[0], 4.0)

	z.AccScaled(0.5, *x) // += x/2
	chk.Scalar(tst, "4.5x", 1e-15, z.V, 9.0)
	chk.Scalar(tst, "d(4.5x)/dx", 1e-15, z.D[0], 4.5)

	// extraction helpers
	vals := make([]float64, 2)
	Values(vals, v)
	chk.Vector(tst, "values", 1e-15, vals, []float64{2.0, 9.0})
	der := make([]float64, 2)
	Deriv(der, v, 0)
	chk.Vector(tst, "derivs", 1e-15, der, []float64{1.0, 4.5})
}
