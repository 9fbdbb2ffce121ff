// Copyright 2017 The CADET Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ad implements forward-mode dual numbers: scalars carrying a value
// and a fixed number of directional derivatives. One set of directions serves
// both the band-compressed Jacobian extraction and the parameter
// sensitivities; seeding decides the meaning of each slot.
package ad

import "math"

// Scalar is a dual number: a value V and directional derivatives D. A nil D
// means the scalar carries no directions (a plain constant); reading a
// direction of such a scalar yields zero. Operations write as many
// directions as the result holds.
type Scalar struct {
	V float64
	D []float64
}

// NewVector allocates n scalars with ndir directions each, backed by one
// contiguous array
func NewVector(n, ndir int) (v []Scalar) {
	v = make([]Scalar, n)
	if ndir > 0 {
		back := make([]float64, n*ndir)
		for i := 0; i < n; i++ {
			v[i].D = back[i*ndir : (i+1)*ndir]
		}
	}
	return
}

// dk reads direction k of x, treating nil directions as zero
func dk(x Scalar, k int) float64 {
	if x.D == nil {
		return 0
	}
	return x.D[k]
}

// SetV sets the value and zeroes all directions
func (z *Scalar) SetV(v float64) {
	z.V = v
	for k := range z.D {
		z.D[k] = 0
	}
}

// Copy sets z to x
func (z *Scalar) Copy(x Scalar) {
	z.V = x.V
	for k := range z.D {
		z.D[k] = dk(x, k)
	}
}

// Add computes z = x + y
func (z *Scalar) Add(x, y Scalar) {
	z.V = x.V + y.V
	for k := range z.D {
		z.D[k] = dk(x, k) + dk(y, k)
	}
}

// Sub computes z = x - y
func (z *Scalar) Sub(x, y Scalar) {
	z.V = x.V - y.V
	for k := range z.D {
		z.D[k] = dk(x, k) - dk(y, k)
	}
}

// Mul computes z = x * y; z may alias x or y
func (z *Scalar) Mul(x, y Scalar) {
	xv, yv := x.V, y.V
	for k := range z.D {
		z.D[k] = dk(x, k)*yv + xv*dk(y, k)
	}
	z.V = xv * yv
}

// Div computes z = x / y; z may alias x or y
func (z *Scalar) Div(x, y Scalar) {
	yv := y.V
	zv := x.V / yv
	for k := range z.D {
		z.D[k] = (dk(x, k) - zv*dk(y, k)) / yv
	}
	z.V = zv
}

// Scale computes z = a * x with constant a
func (z *Scalar) Scale(a float64, x Scalar) {
	z.V = a * x.V
	for k := range z.D {
		z.D[k] = a * dk(x, k)
	}
}

// Acc accumulates z += x
func (z *Scalar) Acc(x Scalar) {
	z.V += x.V
	for k := range z.D {
		z.D[k] += dk(x, k)
	}
}

// AccScaled accumulates z += a * x with constant a
func (z *Scalar) AccScaled(a float64, x Scalar) {
	z.V += a * x.V
	for k := range z.D {
		z.D[k] += a * dk(x, k)
	}
}

// AccMul accumulates z += a * x with dual a
func (z *Scalar) AccMul(a, x Scalar) {
	av, xv := a.V, x.V
	z.V += av * xv
	for k := range z.D {
		z.D[k] += dk(a, k)*xv + av*dk(x, k)
	}
}

// Pow computes z = x**p with constant exponent p; z may alias x
func (z *Scalar) Pow(x Scalar, p float64) {
	if p == 0 {
		z.SetV(1)
		return
	}
	xv := x.V
	g := p * math.Pow(xv, p-1)
	for k := range z.D {
		z.D[k] = g * dk(x, k)
	}
	z.V = math.Pow(xv, p)
}

// Deriv extracts direction dir of src into out
func Deriv(out []float64, src []Scalar, dir int) {
	for i := range out {
		out[i] = dk(src[i], dir)
	}
}

// SetValues copies plain values into the scalars, zeroing all directions
func SetValues(dst []Scalar, src []float64) {
	for i := range dst {
		dst[i].SetV(src[i])
	}
}

// Values extracts the plain values
func Values(dst []float64, src []Scalar) {
	for i := range dst {
		dst[i] = src[i].V
	}
}
