// Copyright 2020 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package we

import (
	"crypto/subtle"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254"

	"github.com/consensys/lvwe/logger"
	"github.com/consensys/lvwe/lv"
)

// Decrypt attempts to recover the plaintext using a claimed witness. The
// witness is compiled into a proof vector, the blinded linear system is
// collapsed into candidate key material and the AEAD is opened with it.
//
// A witness violating x·y = z leaves a residual in the collapse — raised to
// an unknown uniformly random blinding scalar — so the derived key is
// unrelated to the encryptor's and the AEAD tag check fails. That failure and
// a corrupted ciphertext are reported identically as ErrDecryption; only
// structural header mismatches get their own error, since they are detectable
// from public data anyway.
func Decrypt(d *lv.Digest, ct *Ciphertext, w *lv.Witness) ([]byte, error) {
	log := logger.Logger().With().Str("component", "we.decrypt").Logger()

	if err := checkHeader(d, &ct.Header); err != nil {
		return nil, err
	}

	pi := d.BuildProof(w)

	// S = Π_j e(proof_j, C1[j]) = Πᵢ b_LV[i]^{sᵢ} for a valid witness
	g1Args := make([]bn254.G1Affine, lv.NbCoords)
	g2Args := make([]bn254.G2Affine, lv.NbCoords)
	for j := 0; j < lv.NbCoords; j++ {
		p1, p2 := d.PairArgs(pi, j)
		// the public base is replaced by its blinded form
		if lv.Sides[j] == lv.ProofG2 {
			p1 = ct.C1G1[j]
		} else {
			p2 = ct.C1G2[j]
		}
		g1Args[j] = p1
		g2Args[j] = p2
	}
	s, err := bn254.Pair(g1Args, g2Args)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCiphertext, err)
	}

	// K' = C2 · S⁻¹
	var k bn254.GT
	k.Inverse(&s)
	k.Mul(&ct.C2, &k)

	aead, err := newAEAD(&k)
	if err != nil {
		return nil, err
	}
	sealed := make([]byte, 0, len(ct.Bytes)+len(ct.Tag))
	sealed = append(sealed, ct.Bytes...)
	sealed = append(sealed, ct.Tag[:]...)
	pt, err := aead.Open(nil, ct.Nonce[:], sealed, ct.Header.DigestID[:])
	if err != nil {
		// no partial plaintext, no cause: invalid witness and damaged body
		// are deliberately indistinguishable
		return nil, ErrDecryption
	}

	log.Debug().Int("plaintext_len", len(pt)).Msg("ciphertext opened")
	return pt, nil
}

func checkHeader(d *lv.Digest, h *Header) error {
	if h.Version != lv.Version {
		return fmt.Errorf("%w: version %d", ErrMalformedCiphertext, h.Version)
	}
	if h.Curve != ecc.BN254.String() {
		return fmt.Errorf("%w: curve %q", ErrMalformedCiphertext, h.Curve)
	}
	if h.Rows != lv.NbRows || h.Cols != lv.NbCoords {
		return fmt.Errorf("%w: dimensions %dx%d", ErrMalformedCiphertext, h.Rows, h.Cols)
	}
	digestID, err := d.Fingerprint()
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare(digestID[:], h.DigestID[:]) != 1 {
		return fmt.Errorf("%w: digest mismatch", ErrMalformedCiphertext)
	}
	return nil
}
