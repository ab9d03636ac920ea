// Package lvwe implements witness encryption for the fixed NP relation
// x·y = z over the BN254 scalar field, via a linearly-verifiable proof
// gadget stack in the pairing target group.
//
// A one-time Setup compiles the relation into a public digest: a linear map
// over 16 GT proof coordinates, its targets, and the CRS bases a witness
// holder needs. Encryption binds a message to the digest alone — no witness,
// no instance value. Decryption rebuilds the proof vector from a witness
// (x, y, z) with x·y = z and collapses the blinded system back to the
// symmetric key.
//
// Packages:
//   - qap: the Quadratic Arithmetic Program for the relation
//   - lv: digest generation, gadget stack, linear verification
//   - we: encryptor / decryptor and the ciphertext wire format
package lvwe

import (
	"github.com/consensys/gnark-crypto/ecc"
)

// Curves returns the curves supported by lvwe.
func Curves() []ecc.ID {
	return []ecc.ID{
		ecc.BN254,
	}
}
