// Copyright 2020 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package we

import (
	"crypto/rand"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/consensys/lvwe/logger"
	"github.com/consensys/lvwe/lv"
)

// Encrypt produces a ciphertext for msg bound to the language captured by the
// digest. No witness and no instance value is involved: decryptability is a
// property of the digest alone.
//
// Per call it samples a fresh blinding vector s and fresh key material; reuse
// of either across ciphertexts would void all security, so both live and die
// inside this function.
func Encrypt(d *lv.Digest, msg []byte) (*Ciphertext, error) {
	log := logger.Logger().With().Str("component", "we.encrypt").Logger()

	var s [lv.NbRows]fr.Element
	for i := range s {
		if _, err := s[i].SetRandom(); err != nil {
			return nil, err
		}
	}

	var ct Ciphertext

	// blind each column base: C1[j] = (Σᵢ A[i][j]·sᵢ) · U_j
	var t fr.Element
	var bi big.Int
	for j := 0; j < lv.NbCoords; j++ {
		t.SetZero()
		for i := 0; i < lv.NbRows; i++ {
			switch d.A[i][j] {
			case 1:
				t.Add(&t, &s[i])
			case -1:
				t.Sub(&t, &s[i])
			}
		}
		t.BigInt(&bi)
		if lv.Sides[j] == lv.ProofG2 {
			ct.C1G1[j].ScalarMultiplication(&d.Columns[j].G1, &bi)
		} else {
			ct.C1G2[j].ScalarMultiplication(&d.Columns[j].G2, &bi)
		}
	}

	// key material K = e(g1,g2)^κ, hidden as C2 = K · Πᵢ b_LV[i]^{sᵢ}
	var kappa fr.Element
	if _, err := kappa.SetRandom(); err != nil {
		return nil, err
	}
	var k, term bn254.GT
	kappa.BigInt(&bi)
	k.Exp(d.GtGen, &bi)

	ct.C2.Set(&k)
	for i := 0; i < lv.NbRows; i++ {
		s[i].BigInt(&bi)
		term.Exp(d.B[i], &bi)
		ct.C2.Mul(&ct.C2, &term)
	}

	digestID, err := d.Fingerprint()
	if err != nil {
		return nil, err
	}
	ct.Header = Header{
		Version:  lv.Version,
		Curve:    ecc.BN254.String(),
		Rows:     lv.NbRows,
		Cols:     lv.NbCoords,
		DigestID: digestID,
	}

	aead, err := newAEAD(&k)
	if err != nil {
		return nil, err
	}
	if _, err := rand.Read(ct.Nonce[:]); err != nil {
		return nil, err
	}
	sealed := aead.Seal(nil, ct.Nonce[:], msg, ct.Header.DigestID[:])
	split := len(sealed) - aead.Overhead()
	ct.Bytes = sealed[:split]
	copy(ct.Tag[:], sealed[split:])

	log.Debug().Int("plaintext_len", len(msg)).Msg("message sealed under digest")
	return &ct, nil
}
