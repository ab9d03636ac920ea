// Copyright 2020 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package qap encodes the fixed relation x·y = z as a Quadratic Arithmetic
// Program over the BN254 scalar field.
//
// The program has a single multiplication gate. The evaluation domain ties
// one point to each witness wire (x, y, z) plus one point for the constant-one
// wire; the gate lives at the x-wire point. For a witness (x, y, z) the
// instantiated polynomials satisfy
//
//	A(X)·B(X) − C(X) = H(X)·Z(X)
//
// with a zero division remainder if and only if x·y = z.
package qap

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/consensys/lvwe/internal/poly"
)

// NbWires is the number of witness wires, including the constant-one wire.
const NbWires = 4

// QAP is the compiled program for x·y = z. It is created once by Compile and
// never mutated.
type QAP struct {
	// Domain holds the wire evaluation points: x, y, z, one.
	Domain [NbWires]fr.Element

	// L0 is the Lagrange basis polynomial of the gate point over the three
	// witness-wire points; A, B, C are multiples of it.
	L0 poly.Polynomial

	// Z is the vanishing polynomial over the three witness-wire points.
	Z poly.Polynomial
}

// Compile builds the QAP for the fixed relation. Deterministic, executed once.
func Compile() *QAP {
	var q QAP
	for i := range q.Domain {
		q.Domain[i].SetUint64(uint64(i + 1))
	}
	gatePoints := q.gatePoints()
	q.L0 = poly.LagrangeBasis(gatePoints, 0)
	q.Z = poly.Vanishing(gatePoints)
	return &q
}

func (q *QAP) gatePoints() []fr.Element {
	return []fr.Element{q.Domain[0], q.Domain[1], q.Domain[2]}
}

// Instantiate evaluates the wire polynomials for an assignment (x, y, z):
// A = x·L0, B = y·L0, C = z·L0. At the gate point these interpolate the wire
// values; at the other gate-domain points they vanish.
func (q *QAP) Instantiate(x, y, z *fr.Element) (a, b, c poly.Polynomial) {
	a = poly.Scale(q.L0, x)
	b = poly.Scale(q.L0, y)
	c = poly.Scale(q.L0, z)
	return
}

// Quotient divides A·B − C by the vanishing polynomial and returns the
// quotient H together with the remainder. The remainder is zero exactly when
// the assignment used to instantiate (a, b, c) satisfies x·y = z; a caller
// proving an unsatisfying assignment still gets a well-defined H, it just
// fails the downstream linear check.
func (q *QAP) Quotient(a, b, c poly.Polynomial) (h, rem poly.Polynomial) {
	p := poly.Sub(poly.Mul(a, b), c)
	return poly.Div(p, q.Z)
}

// Satisfied reports whether x·y = z, phrased through the QAP divisibility
// contract rather than a direct field multiplication.
func (q *QAP) Satisfied(x, y, z *fr.Element) bool {
	a, b, c := q.Instantiate(x, y, z)
	_, rem := q.Quotient(a, b, c)
	return rem.IsZero()
}
