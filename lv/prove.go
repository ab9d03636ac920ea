// Copyright 2020 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package lv

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"golang.org/x/sync/errgroup"

	"github.com/consensys/lvwe/internal/poly"
	"github.com/consensys/lvwe/qap"
)

// Witness is a claimed assignment for the relation x·y = z. The constant-one
// wire is appended internally; callers never supply it.
type Witness struct {
	X, Y, Z fr.Element
}

func (w *Witness) vector() [qap.NbWires]fr.Element {
	var vec [qap.NbWires]fr.Element
	vec[0].Set(&w.X)
	vec[1].Set(&w.Y)
	vec[2].Set(&w.Z)
	vec[3].SetOne()
	return vec
}

// Proof holds the proof-side group element of each coordinate. It is derived
// deterministically from a witness and the CRS; there is no randomness on the
// proving side.
type Proof struct {
	W bn254.G2Affine // [W(τ)]₂, witness polynomial commitment

	Vx, Vy, Vz bn254.G1Affine // x·g1, y·g1, z·g1 (IIP exposures)

	Qx, Qy, Qz bn254.G1Affine // [Qᵢ(τ)]₁, Qᵢ = (W - wᵢ)/(X - Dᵢ)
	Qone       bn254.G1Affine // [Q₁(τ)]₁, Q₁ = (W - 1)/(X - D₃)

	A, B, C bn254.G1Affine // QAP wire commitments
	P       bn254.G1Affine // [A·B - C (τ)]₁
	H       bn254.G1Affine // [H(τ)]₁, quotient by the vanishing polynomial
}

// BuildProof evaluates the gadget stack on a witness. The evaluation is pure
// arithmetic: it never inspects ciphertext contents, so proof validity is
// checkable independently of any encryption.
//
// An unsatisfying witness still yields a proof — its QAP division leaves a
// remainder that the Mul row of the linear check rejects. The caller learns
// that only through Verify (or a failed decryption), never here.
func (d *Digest) BuildProof(w *Witness) *Proof {
	vec := w.vector()
	var pi Proof

	wPoly := poly.Interpolate(d.QAP.Domain[:], vec[:])
	pi.W = d.commitG2(wPoly)

	var bi big.Int
	exposures := [...]*bn254.G1Affine{&pi.Vx, &pi.Vy, &pi.Vz}
	for i, e := range exposures {
		vec[i].BigInt(&bi)
		e.ScalarMultiplication(&d.CRS.G1[0], &bi)
	}

	quotients := [...]*bn254.G1Affine{&pi.Qx, &pi.Qy, &pi.Qz, &pi.Qone}
	for i, qc := range quotients {
		shifted := wPoly.Clone()
		shifted[0].Sub(&shifted[0], &vec[i])
		q, _ := poly.DivByLinear(shifted, &d.QAP.Domain[i])
		*qc = d.commitG1(q)
	}

	a, b, c := d.QAP.Instantiate(&w.X, &w.Y, &w.Z)
	p := poly.Sub(poly.Mul(a, b), c)
	h, _ := d.QAP.Quotient(a, b, c)
	pi.A = d.commitG1(a)
	pi.B = d.commitG1(b)
	pi.C = d.commitG1(c)
	pi.P = d.commitG1(p)
	pi.H = d.commitG1(h)

	return &pi
}

// PairArgs returns the two pairing arguments of coordinate j: for ProofG1
// columns the proof element and the public base, for ProofG2 columns the
// public base and the proof element.
func (d *Digest) PairArgs(pi *Proof, j int) (bn254.G1Affine, bn254.G2Affine) {
	if Sides[j] == ProofG2 {
		return d.Columns[j].G1, pi.W
	}
	return *pi.g1Element(j), d.Columns[j].G2
}

// g1Element maps a ProofG1 column index to its proof element.
func (pi *Proof) g1Element(j int) *bn254.G1Affine {
	switch j {
	case 1, 13:
		return &pi.Vx
	case 2, 14:
		return &pi.Vy
	case 3, 15:
		return &pi.Vz
	case 4:
		return &pi.Qx
	case 5:
		return &pi.Qy
	case 6:
		return &pi.Qz
	case 7:
		return &pi.Qone
	case 8:
		return &pi.A
	case 9:
		return &pi.B
	case 10:
		return &pi.C
	case 11:
		return &pi.P
	case 12:
		return &pi.H
	default:
		panic("lvwe: not a ProofG1 column")
	}
}

// Coordinates computes the 16 GT coordinates of π. The pairings are
// independent, so they run concurrently and are collected by index.
func (d *Digest) Coordinates(pi *Proof) ([NbCoords]bn254.GT, error) {
	var coords [NbCoords]bn254.GT
	var g errgroup.Group
	for j := 0; j < NbCoords; j++ {
		g.Go(func() error {
			p1, p2 := d.PairArgs(pi, j)
			res, err := bn254.Pair([]bn254.G1Affine{p1}, []bn254.G2Affine{p2})
			if err != nil {
				return err
			}
			coords[j] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return coords, err
	}
	return coords, nil
}

// Verify checks A_LV·π = b_LV for the proof.
func (d *Digest) Verify(pi *Proof) (bool, error) {
	coords, err := d.Coordinates(pi)
	if err != nil {
		return false, err
	}
	return d.VerifyCoordinates(&coords), nil
}

// VerifyCoordinates folds each row of A_LV over the given coordinates and
// compares against b_LV.
func (d *Digest) VerifyCoordinates(coords *[NbCoords]bn254.GT) bool {
	var acc, inv bn254.GT
	for i := 0; i < NbRows; i++ {
		acc.SetOne()
		for j := 0; j < NbCoords; j++ {
			switch d.A[i][j] {
			case 1:
				acc.Mul(&acc, &coords[j])
			case -1:
				inv.Inverse(&coords[j])
				acc.Mul(&acc, &inv)
			}
		}
		if !acc.Equal(&d.B[i]) {
			return false
		}
	}
	return true
}
