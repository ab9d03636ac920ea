// Copyright 2020 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package we

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/consensys/lvwe/lv"
)

// Bounds on the wire-supplied lengths of a ciphertext; anything larger is
// rejected before allocation. The header is a handful of small cbor fields,
// the body an AEAD-sealed message.
const (
	maxHeaderBytes = 1 << 12
	maxBodyBytes   = 1 << 30
)

// Header identifies the digest and parameter set a ciphertext was produced
// under, so a decryptor can reject incompatible ciphertexts before any key
// recovery work.
type Header struct {
	Version  uint32   `cbor:"v"`
	Curve    string   `cbor:"curve"`
	Rows     uint32   `cbor:"rows"`
	Cols     uint32   `cbor:"cols"`
	DigestID [32]byte `cbor:"digest"`
}

// Ciphertext is the output of Encrypt. C1 holds one blinded public base per
// proof coordinate, in the group opposite the coordinate's proof element;
// C2 hides the symmetric key material behind the blinded targets.
type Ciphertext struct {
	Header Header

	C1G1 [lv.NbCoords]bn254.G1Affine // meaningful when the column side is ProofG2
	C1G2 [lv.NbCoords]bn254.G2Affine // meaningful when the column side is ProofG1
	C2   bn254.GT

	Nonce [chacha20poly1305.NonceSize]byte
	Tag   [16]byte
	Bytes []byte // AEAD body, tag stripped
}

// WriteTo serializes the ciphertext:
// header ‖ c1 ‖ c2 ‖ nonce ‖ tag ‖ length-prefixed body.
func (ct *Ciphertext) WriteTo(w io.Writer) (int64, error) {
	blob, err := cbor.Marshal(&ct.Header)
	if err != nil {
		return 0, err
	}
	var written int64
	if err := binary.Write(w, binary.BigEndian, uint32(len(blob))); err != nil {
		return written, err
	}
	written += 4
	n, err := w.Write(blob)
	written += int64(n)
	if err != nil {
		return written, err
	}

	enc := bn254.NewEncoder(w)
	for j := 0; j < lv.NbCoords; j++ {
		var e error
		if lv.Sides[j] == lv.ProofG2 {
			e = enc.Encode(&ct.C1G1[j])
		} else {
			e = enc.Encode(&ct.C1G2[j])
		}
		if e != nil {
			return written + enc.BytesWritten(), e
		}
	}
	written += enc.BytesWritten()

	c2 := ct.C2.Bytes()
	n, err = w.Write(c2[:])
	written += int64(n)
	if err != nil {
		return written, err
	}
	n, err = w.Write(ct.Nonce[:])
	written += int64(n)
	if err != nil {
		return written, err
	}
	n, err = w.Write(ct.Tag[:])
	written += int64(n)
	if err != nil {
		return written, err
	}
	if err := binary.Write(w, binary.BigEndian, uint64(len(ct.Bytes))); err != nil {
		return written, err
	}
	written += 8
	n, err = w.Write(ct.Bytes)
	written += int64(n)
	return written, err
}

// ReadFrom deserializes a ciphertext written with WriteTo. Structural
// problems surface here; digest compatibility is checked by Decrypt.
func (ct *Ciphertext) ReadFrom(r io.Reader) (int64, error) {
	var blobLen uint32
	if err := binary.Read(r, binary.BigEndian, &blobLen); err != nil {
		return 0, err
	}
	var read int64 = 4
	if blobLen > maxHeaderBytes {
		return read, fmt.Errorf("%w: header length %d", ErrMalformedCiphertext, blobLen)
	}
	blob := make([]byte, blobLen)
	n, err := io.ReadFull(r, blob)
	read += int64(n)
	if err != nil {
		return read, err
	}
	if err := cbor.Unmarshal(blob, &ct.Header); err != nil {
		return read, fmt.Errorf("%w: %v", ErrMalformedCiphertext, err)
	}

	dec := bn254.NewDecoder(r)
	for j := 0; j < lv.NbCoords; j++ {
		var e error
		if lv.Sides[j] == lv.ProofG2 {
			e = dec.Decode(&ct.C1G1[j])
		} else {
			e = dec.Decode(&ct.C1G2[j])
		}
		if e != nil {
			return read + dec.BytesRead(), e
		}
	}
	read += dec.BytesRead()

	buf := make([]byte, bn254.SizeOfGT)
	n, err = io.ReadFull(r, buf)
	read += int64(n)
	if err != nil {
		return read, err
	}
	if err := ct.C2.SetBytes(buf); err != nil {
		return read, fmt.Errorf("%w: %v", ErrMalformedCiphertext, err)
	}

	n, err = io.ReadFull(r, ct.Nonce[:])
	read += int64(n)
	if err != nil {
		return read, err
	}
	n, err = io.ReadFull(r, ct.Tag[:])
	read += int64(n)
	if err != nil {
		return read, err
	}

	var bodyLen uint64
	if err := binary.Read(r, binary.BigEndian, &bodyLen); err != nil {
		return read, err
	}
	read += 8
	if bodyLen > maxBodyBytes {
		return read, fmt.Errorf("%w: body length %d", ErrMalformedCiphertext, bodyLen)
	}
	ct.Bytes = make([]byte, bodyLen)
	n, err = io.ReadFull(r, ct.Bytes)
	read += int64(n)
	return read, err
}
