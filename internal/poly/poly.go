// Copyright 2020 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package poly implements dense univariate polynomial arithmetic over the
// BN254 scalar field. Coefficients are stored from lowest to highest degree.
package poly

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Polynomial is a dense univariate polynomial over fr; p[i] is the
// coefficient of Xⁱ.
type Polynomial []fr.Element

// Degree returns the degree of p, ignoring trailing zero coefficients.
// The zero polynomial has degree 0.
func (p Polynomial) Degree() int {
	for i := len(p) - 1; i > 0; i-- {
		if !p[i].IsZero() {
			return i
		}
	}
	return 0
}

// IsZero returns true if all coefficients of p are zero.
func (p Polynomial) IsZero() bool {
	for i := range p {
		if !p[i].IsZero() {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of p.
func (p Polynomial) Clone() Polynomial {
	r := make(Polynomial, len(p))
	copy(r, p)
	return r
}

// Eval evaluates p at x using Horner's method.
func (p Polynomial) Eval(x *fr.Element) fr.Element {
	var res fr.Element
	if len(p) == 0 {
		return res
	}
	res.Set(&p[len(p)-1])
	for i := len(p) - 2; i >= 0; i-- {
		res.Mul(&res, x)
		res.Add(&res, &p[i])
	}
	return res
}

// Add returns p + q.
func Add(p, q Polynomial) Polynomial {
	n := len(p)
	if len(q) > n {
		n = len(q)
	}
	r := make(Polynomial, n)
	for i := range r {
		if i < len(p) {
			r[i].Add(&r[i], &p[i])
		}
		if i < len(q) {
			r[i].Add(&r[i], &q[i])
		}
	}
	return r
}

// Sub returns p - q.
func Sub(p, q Polynomial) Polynomial {
	n := len(p)
	if len(q) > n {
		n = len(q)
	}
	r := make(Polynomial, n)
	for i := range r {
		if i < len(p) {
			r[i].Add(&r[i], &p[i])
		}
		if i < len(q) {
			r[i].Sub(&r[i], &q[i])
		}
	}
	return r
}

// Mul returns p · q (schoolbook; degrees stay small for a fixed 3-wire
// relation, an FFT would be overkill).
func Mul(p, q Polynomial) Polynomial {
	if len(p) == 0 || len(q) == 0 {
		return Polynomial{}
	}
	r := make(Polynomial, len(p)+len(q)-1)
	var t fr.Element
	for i := range p {
		if p[i].IsZero() {
			continue
		}
		for j := range q {
			t.Mul(&p[i], &q[j])
			r[i+j].Add(&r[i+j], &t)
		}
	}
	return r
}

// Scale returns c · p.
func Scale(p Polynomial, c *fr.Element) Polynomial {
	r := make(Polynomial, len(p))
	for i := range p {
		r[i].Mul(&p[i], c)
	}
	return r
}

// DivByLinear divides p by (X - d) using synthetic division and returns the
// quotient and the remainder p(d).
func DivByLinear(p Polynomial, d *fr.Element) (Polynomial, fr.Element) {
	var rem fr.Element
	if len(p) == 0 {
		return Polynomial{}, rem
	}
	if len(p) == 1 {
		rem.Set(&p[0])
		return Polynomial{}, rem
	}
	q := make(Polynomial, len(p)-1)
	rem.Set(&p[len(p)-1])
	var t fr.Element
	for i := len(p) - 2; i >= 0; i-- {
		q[i].Set(&rem)
		t.Mul(&rem, d)
		rem.Add(&t, &p[i])
	}
	return q, rem
}

// Div performs polynomial long division of p by divisor and returns quotient
// and remainder with deg(remainder) < deg(divisor). The divisor must not be
// the zero polynomial.
func Div(p, divisor Polynomial) (Polynomial, Polynomial) {
	d := divisor.Degree()
	if divisor.IsZero() {
		panic("poly: division by zero polynomial")
	}
	rem := p.Clone()
	if p.Degree() < d {
		return Polynomial{}, rem
	}
	var leadInv fr.Element
	leadInv.Inverse(&divisor[d])

	q := make(Polynomial, p.Degree()-d+1)
	var c, t fr.Element
	for i := rem.Degree(); i >= d; i-- {
		if rem[i].IsZero() {
			continue
		}
		c.Mul(&rem[i], &leadInv)
		q[i-d].Set(&c)
		for j := 0; j <= d; j++ {
			t.Mul(&c, &divisor[j])
			rem[i-d+j].Sub(&rem[i-d+j], &t)
		}
	}
	return q, rem[:d]
}

// Interpolate returns the unique polynomial of degree < len(points) passing
// through (points[i], values[i]). The points must be pairwise distinct.
func Interpolate(points, values []fr.Element) Polynomial {
	if len(points) != len(values) {
		panic("poly: points and values length mismatch")
	}
	r := make(Polynomial, len(points))
	for i := range points {
		li := LagrangeBasis(points, i)
		for j := range li {
			li[j].Mul(&li[j], &values[i])
			r[j].Add(&r[j], &li[j])
		}
	}
	return r
}

// LagrangeBasis returns Lᵢ(X) = Π_{j≠i} (X - points[j]) / (points[i] - points[j]),
// the i-th Lagrange basis polynomial over the given points.
func LagrangeBasis(points []fr.Element, i int) Polynomial {
	num := Polynomial{fr.One()}
	var denom, t fr.Element
	denom.SetOne()
	for j := range points {
		if j == i {
			continue
		}
		var negDj fr.Element
		negDj.Neg(&points[j])
		num = Mul(num, Polynomial{negDj, fr.One()})
		t.Sub(&points[i], &points[j])
		denom.Mul(&denom, &t)
	}
	denom.Inverse(&denom)
	return Scale(num, &denom)
}

// Vanishing returns Z(X) = Π (X - points[i]).
func Vanishing(points []fr.Element) Polynomial {
	z := Polynomial{fr.One()}
	for i := range points {
		var negD fr.Element
		negD.Neg(&points[i])
		z = Mul(z, Polynomial{negD, fr.One()})
	}
	return z
}
