// Copyright 2020 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package we implements witness encryption for the relation x·y = z on top of
// the lv gadget stack.
//
// The encryptor sees only the public digest: it blinds each column of the
// linear map with fresh randomness and hides a symmetric key behind the
// blinded targets. Anyone holding a witness can rebuild the proof vector,
// collapse the blinded system back to the key and open the AEAD; anyone else
// faces discrete logs in the source groups.
package we

import (
	"crypto/cipher"
	"errors"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/consensys/gnark-crypto/ecc/bn254"
)

var (
	// ErrDecryption is the single opaque failure for decryption. An invalid
	// witness and a damaged ciphertext body return the same error, so callers
	// cannot use decryption as a witness-validity oracle.
	ErrDecryption = errors.New("lvwe: decryption failed")

	// ErrMalformedCiphertext reports a ciphertext that cannot belong to the
	// decryptor's digest (wrong version, dimensions or digest fingerprint).
	// It is returned before any pairing or AEAD work.
	ErrMalformedCiphertext = errors.New("lvwe: malformed ciphertext")
)

// kdfTag domain-separates the GT→AEAD-key derivation.
const kdfTag = "lvwe-v1 kdf"

// deriveKey maps the GT key material to a 32-byte ChaCha20-Poly1305 key using
// blake2b-256 keyed with the domain tag.
func deriveKey(k *bn254.GT) ([]byte, error) {
	h, err := blake2b.New256([]byte(kdfTag))
	if err != nil {
		return nil, err
	}
	buf := k.Bytes()
	h.Write(buf[:])
	return h.Sum(nil), nil
}

func newAEAD(k *bn254.GT) (cipher.AEAD, error) {
	key, err := deriveKey(k)
	if err != nil {
		return nil, err
	}
	return chacha20poly1305.New(key)
}
