// Copyright 2020 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package poly

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
)

func randomPoly(t *testing.T, n int) Polynomial {
	t.Helper()
	p := make(Polynomial, n)
	for i := range p {
		_, err := p[i].SetRandom()
		require.NoError(t, err)
	}
	return p
}

func TestInterpolate(t *testing.T) {
	points := make([]fr.Element, 4)
	values := make([]fr.Element, 4)
	for i := range points {
		points[i].SetUint64(uint64(i + 1))
		_, err := values[i].SetRandom()
		require.NoError(t, err)
	}

	p := Interpolate(points, values)
	require.LessOrEqual(t, p.Degree(), 3)
	for i := range points {
		got := p.Eval(&points[i])
		require.True(t, got.Equal(&values[i]), "interpolant misses point %d", i)
	}
}

func TestDivByLinear(t *testing.T) {
	p := randomPoly(t, 5)
	var d fr.Element
	_, err := d.SetRandom()
	require.NoError(t, err)

	q, rem := DivByLinear(p, &d)

	// p(d) == rem
	pd := p.Eval(&d)
	require.True(t, pd.Equal(&rem))

	// p == q·(X-d) + rem at a random point
	var x fr.Element
	_, err = x.SetRandom()
	require.NoError(t, err)
	var negD fr.Element
	negD.Neg(&d)
	lin := Polynomial{negD, fr.One()}
	recomposed := Add(Mul(q, lin), Polynomial{rem})
	lhs := p.Eval(&x)
	rhs := recomposed.Eval(&x)
	require.True(t, lhs.Equal(&rhs))
}

func TestDiv(t *testing.T) {
	p := randomPoly(t, 7)
	divisor := randomPoly(t, 3)
	if divisor.IsZero() {
		divisor[2].SetOne()
	}

	q, rem := Div(p, divisor)
	require.Less(t, rem.Degree(), divisor.Degree())

	var x fr.Element
	_, err := x.SetRandom()
	require.NoError(t, err)
	recomposed := Add(Mul(q, divisor), rem)
	lhs := p.Eval(&x)
	rhs := recomposed.Eval(&x)
	require.True(t, lhs.Equal(&rhs))
}

func TestVanishing(t *testing.T) {
	points := make([]fr.Element, 3)
	for i := range points {
		points[i].SetUint64(uint64(i + 1))
	}
	z := Vanishing(points)
	require.Equal(t, 3, z.Degree())
	for i := range points {
		v := z.Eval(&points[i])
		require.True(t, v.IsZero())
	}
}

func TestArithmeticProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	genSize := gen.IntRange(1, 8)

	properties.Property("(p+q)(x) == p(x)+q(x)", prop.ForAll(
		func(n, m int) bool {
			p := fuzzPoly(n)
			q := fuzzPoly(m)
			var x fr.Element
			x.SetRandom()
			sum := Add(p, q)
			px := p.Eval(&x)
			qx := q.Eval(&x)
			var want fr.Element
			want.Add(&px, &qx)
			got := sum.Eval(&x)
			return got.Equal(&want)
		},
		genSize, genSize,
	))

	properties.Property("(p·q)(x) == p(x)·q(x)", prop.ForAll(
		func(n, m int) bool {
			p := fuzzPoly(n)
			q := fuzzPoly(m)
			var x fr.Element
			x.SetRandom()
			prod := Mul(p, q)
			px := p.Eval(&x)
			qx := q.Eval(&x)
			var want fr.Element
			want.Mul(&px, &qx)
			got := prod.Eval(&x)
			return got.Equal(&want)
		},
		genSize, genSize,
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func fuzzPoly(n int) Polynomial {
	p := make(Polynomial, n)
	for i := range p {
		p[i].SetRandom()
	}
	return p
}
