// Copyright 2020 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package qap

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"

	"github.com/consensys/lvwe/internal/poly"
)

func TestDivisibilityContract(t *testing.T) {
	q := Compile()

	var x, y, z fr.Element
	x.SetUint64(3)
	y.SetUint64(4)
	z.SetUint64(12)

	a, b, c := q.Instantiate(&x, &y, &z)
	h, rem := q.Quotient(a, b, c)
	require.True(t, rem.IsZero(), "satisfying assignment must divide cleanly")

	// A·B − C == H·Z as polynomials, checked at a random point.
	var r fr.Element
	_, err := r.SetRandom()
	require.NoError(t, err)
	lhs := poly.Sub(poly.Mul(a, b), c).Eval(&r)
	rhs := poly.Mul(h, q.Z).Eval(&r)
	require.True(t, lhs.Equal(&rhs))

	// Breaking the relation leaves a nonzero remainder.
	z.SetUint64(13)
	a, b, c = q.Instantiate(&x, &y, &z)
	_, rem = q.Quotient(a, b, c)
	require.False(t, rem.IsZero())
}

func TestWirePolynomials(t *testing.T) {
	q := Compile()

	var x, y, z fr.Element
	x.SetUint64(7)
	y.SetUint64(5)
	z.SetUint64(35)
	a, b, c := q.Instantiate(&x, &y, &z)

	// At the gate point the wire polynomials take the wire values; at the
	// other gate-domain points they vanish.
	got := a.Eval(&q.Domain[0])
	require.True(t, got.Equal(&x))
	got = b.Eval(&q.Domain[0])
	require.True(t, got.Equal(&y))
	got = c.Eval(&q.Domain[0])
	require.True(t, got.Equal(&z))
	for i := 1; i < 3; i++ {
		for _, p := range []poly.Polynomial{a, b, c} {
			v := p.Eval(&q.Domain[i])
			require.True(t, v.IsZero())
		}
	}
}

func TestSatisfied(t *testing.T) {
	q := Compile()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("x·y = z satisfies, x·y ≠ z does not", prop.ForAll(
		func(xv, yv, delta uint64) bool {
			var x, y, z, bad fr.Element
			x.SetUint64(xv)
			y.SetUint64(yv)
			z.Mul(&x, &y)
			bad.SetUint64(delta + 1)
			bad.Add(&z, &bad)
			return q.Satisfied(&x, &y, &z) && !q.Satisfied(&x, &y, &bad)
		},
		gen.UInt64(), gen.UInt64(), gen.UInt64Range(0, 1<<40),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
