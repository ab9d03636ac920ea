// Copyright 2020 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package lv implements the linearly-verifiable proof gadget stack backing the
// witness encryption scheme for the relation x·y = z.
//
// A proof is a vector of 16 target-group coordinates; each coordinate is a
// single pairing of a proof-side group element against a fixed public base.
// Verification reduces to checking A_LV·π = b_LV, one linear system over GT
// whose rows are contributed by four gadgets:
//
//   - IIP: three KZG-style openings of the witness polynomial exposing x, y
//     and z directly in GT;
//   - NonZero: one opening pinning the constant-one wire to 1;
//   - Mul: the QAP divisibility check A·B − C = H·Z for the single gate;
//   - bindings: rows tying the QAP wire commitments (C in particular) to the
//     values exposed by the IIP gadget.
//
// Setup samples the trapdoor τ, publishes powers of τ and the column bases,
// and discards τ. The resulting Digest is immutable and safe for concurrent
// use by any number of encryptors and decryptors.
package lv

import (
	"errors"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/consensys/lvwe/internal/poly"
	"github.com/consensys/lvwe/qap"
)

const (
	// NbCoords is the number of GT coordinates of a proof.
	NbCoords = 16

	// NbRows is the number of rows of the linear map A_LV.
	NbRows = 8

	// MaxDegG1 bounds the degree committed in G1 (the product polynomial
	// A·B − C of the Mul gadget).
	MaxDegG1 = 4

	// MaxDegG2 bounds the degree committed in G2 (the witness polynomial).
	MaxDegG2 = 3
)

// rows contributed by each gadget; their sum must equal NbRows.
const (
	rowsIIP     = 3
	rowsNonZero = 1
	rowsMul     = 1
	rowsBinding = 3
)

// ErrSetup reports an inconsistency between the declared gadget row counts
// and the dimensions of the linear map. It is a configuration error, never a
// runtime condition.
var ErrSetup = errors.New("lvwe: gadget rows inconsistent with linear map dimensions")

// ColumnSide says which side of a coordinate's pairing carries the
// proof element.
type ColumnSide uint8

const (
	// ProofG1 columns pair a proof element in G1 against a public base in G2.
	ProofG1 ColumnSide = iota
	// ProofG2 columns pair a public base in G1 against a proof element in G2.
	ProofG2
)

// Sides fixes the pairing orientation of each coordinate for the version-1
// layout: only the witness-commitment coordinate carries its proof element in
// G2.
var Sides = [NbCoords]ColumnSide{
	ProofG2,
	ProofG1, ProofG1, ProofG1,
	ProofG1, ProofG1, ProofG1, ProofG1,
	ProofG1, ProofG1, ProofG1, ProofG1, ProofG1,
	ProofG1, ProofG1, ProofG1,
}

// Column holds the public base of one coordinate. Exactly one of the two
// fields is meaningful, per Sides.
type Column struct {
	G1 bn254.G1Affine
	G2 bn254.G2Affine
}

// CRS holds the powers-of-τ bases a prover needs to commit its polynomials.
type CRS struct {
	G1 [MaxDegG1 + 1]bn254.G1Affine // {[τ⁰]₁, …, [τ⁴]₁}
	G2 [MaxDegG2 + 1]bn254.G2Affine // {[τ⁰]₂, …, [τ³]₂}
}

// Digest is the public output of Setup: the flattened linear map, its GT
// targets, the per-coordinate public bases and the CRS. Generate once, read
// many; never mutated afterwards.
type Digest struct {
	Curve   ecc.ID
	QAP     *qap.QAP
	Columns [NbCoords]Column
	A       [NbRows][NbCoords]int8
	B       [NbRows]bn254.GT
	CRS     CRS

	// GtGen is e(g1, g2), the pairing of the two group generators. Derived,
	// not serialized.
	GtGen bn254.GT
}

// Setup compiles the relation into a fresh digest. The trapdoor exists only
// for the duration of this call and is zeroed on every return path.
func Setup() (*Digest, error) {
	var tau fr.Element
	if _, err := tau.SetRandom(); err != nil {
		return nil, err
	}
	defer tau.SetZero()
	return newDigest(&tau)
}

func newDigest(tau *fr.Element) (*Digest, error) {
	if rowsIIP+rowsNonZero+rowsMul+rowsBinding != NbRows {
		return nil, ErrSetup
	}

	d := &Digest{
		Curve: ecc.BN254,
		QAP:   qap.Compile(),
	}

	_, _, g1, g2 := bn254.Generators()

	// powers of τ
	var tauPow fr.Element
	var bi big.Int
	tauPow.SetOne()
	for i := 0; i <= MaxDegG1; i++ {
		tauPow.BigInt(&bi)
		d.CRS.G1[i].ScalarMultiplication(&g1, &bi)
		if i <= MaxDegG2 {
			d.CRS.G2[i].ScalarMultiplication(&g2, &bi)
		}
		tauPow.Mul(&tauPow, tau)
	}

	gt, err := bn254.Pair([]bn254.G1Affine{g1}, []bn254.G2Affine{g2})
	if err != nil {
		return nil, err
	}
	d.GtGen = gt

	// column bases
	d.Columns[0].G1 = g1
	for _, j := range []int{1, 2, 3, 8, 9, 10, 11} {
		d.Columns[j].G2 = g2
	}
	for i := 0; i < qap.NbWires; i++ {
		// [τ - Dᵢ]₂ for the opening at the wire point Dᵢ
		var dG2 bn254.G2Affine
		d.QAP.Domain[i].BigInt(&bi)
		dG2.ScalarMultiplication(&g2, &bi)
		d.Columns[4+i].G2.Sub(&d.CRS.G2[1], &dG2)
	}
	d.Columns[12].G2 = d.commitG2(d.QAP.Z)
	l0G2 := d.commitG2(d.QAP.L0)
	d.Columns[13].G2 = l0G2
	d.Columns[14].G2 = l0G2
	d.Columns[15].G2 = l0G2

	d.A = linearMap()
	for i := range d.B {
		d.B[i].SetOne()
	}
	// the NonZero row opens the witness polynomial to the constant 1
	d.B[rowsIIP] = d.GtGen

	return d, nil
}

// linearMap returns the {-1,0,1} matrix A_LV; rows are gadget constraints,
// columns the 16 proof coordinates.
func linearMap() [NbRows][NbCoords]int8 {
	var a [NbRows][NbCoords]int8

	// IIP: e(g1,[W]₂) = e(wᵢ·g1, g2) · e([Qᵢ]₁, [τ-Dᵢ]₂) for i = x,y,z
	a[0] = [NbCoords]int8{1, -1, 0, 0, -1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	a[1] = [NbCoords]int8{1, 0, -1, 0, 0, -1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	a[2] = [NbCoords]int8{1, 0, 0, -1, 0, 0, -1, 0, 0, 0, 0, 0, 0, 0, 0, 0}

	// NonZero: e(g1,[W]₂) = e(g1,g2) · e([Q₁]₁, [τ-D₃]₂)
	a[3] = [NbCoords]int8{1, 0, 0, 0, 0, 0, 0, -1, 0, 0, 0, 0, 0, 0, 0, 0}

	// Mul: e([P]₁, g2) = e([H]₁, [Z]₂)
	a[4] = [NbCoords]int8{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, -1, 0, 0, 0}

	// bindings: [A]₁, [B]₁, [C]₁ against the IIP-exposed wire values
	a[5] = [NbCoords]int8{0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0, -1, 0, 0}
	a[6] = [NbCoords]int8{0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0, -1, 0}
	a[7] = [NbCoords]int8{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0, -1}

	return a
}

func (d *Digest) commitG1(p poly.Polynomial) bn254.G1Affine {
	var res bn254.G1Affine
	if len(p) == 0 {
		return res
	}
	if _, err := res.MultiExp(d.CRS.G1[:len(p)], p, ecc.MultiExpConfig{}); err != nil {
		// only reachable on a degree overflow, which the fixed relation
		// cannot produce
		panic(err)
	}
	return res
}

func (d *Digest) commitG2(p poly.Polynomial) bn254.G2Affine {
	var res, term bn254.G2Affine
	var bi big.Int
	for i := range p {
		if p[i].IsZero() {
			continue
		}
		p[i].BigInt(&bi)
		term.ScalarMultiplication(&d.CRS.G2[i], &bi)
		res.Add(&res, &term)
	}
	return res
}
