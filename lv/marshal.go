// Copyright 2020 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package lv

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"

	"github.com/consensys/lvwe/qap"
)

// Version identifies the digest/ciphertext layout. Bump on any change to the
// coordinate layout, the linear map or the wire format.
const Version = 1

var errInvalidDigest = errors.New("lvwe: invalid digest encoding")

// maxHeaderBytes bounds the wire-supplied length of the cbor header; a well
// formed header is a few hundred bytes, anything larger is rejected before
// allocation.
const maxHeaderBytes = 1 << 12

// digestHeader is the schema'd part of the digest wire format.
type digestHeader struct {
	Version uint32   `cbor:"v"`
	Curve   string   `cbor:"curve"`
	Rows    uint32   `cbor:"rows"`
	Cols    uint32   `cbor:"cols"`
	A       [][]int8 `cbor:"a"`
}

// WriteTo serializes the digest: a length-prefixed cbor header (version,
// curve, dimensions, linear map) followed by the column bases and CRS through
// the bn254 encoder, then the GT targets in raw form.
func (d *Digest) WriteTo(w io.Writer) (int64, error) {
	h := digestHeader{
		Version: Version,
		Curve:   d.Curve.String(),
		Rows:    NbRows,
		Cols:    NbCoords,
		A:       make([][]int8, NbRows),
	}
	for i := range d.A {
		h.A[i] = d.A[i][:]
	}
	blob, err := cbor.Marshal(&h)
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
	for j := 0; j < NbCoords; j++ {
		var e error
		if Sides[j] == ProofG2 {
			e = enc.Encode(&d.Columns[j].G1)
		} else {
			e = enc.Encode(&d.Columns[j].G2)
		}
		if e != nil {
			return written + enc.BytesWritten(), e
		}
	}
	toEncode := []interface{}{
		d.CRS.G1[:],
		d.CRS.G2[:],
	}
	for _, v := range toEncode {
		if err := enc.Encode(v); err != nil {
			return written + enc.BytesWritten(), err
		}
	}
	written += enc.BytesWritten()

	for i := range d.B {
		buf := d.B[i].Bytes()
		n, err := w.Write(buf[:])
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

// ReadFrom deserializes a digest previously written with WriteTo. Malformed
// bytes or incompatible dimensions fail fast.
func (d *Digest) ReadFrom(r io.Reader) (int64, error) {
	var blobLen uint32
	if err := binary.Read(r, binary.BigEndian, &blobLen); err != nil {
		return 0, err
	}
	var read int64 = 4
	if blobLen > maxHeaderBytes {
		return read, fmt.Errorf("%w: header length %d", errInvalidDigest, blobLen)
	}
	blob := make([]byte, blobLen)
	n, err := io.ReadFull(r, blob)
	read += int64(n)
	if err != nil {
		return read, err
	}

	var h digestHeader
	if err := cbor.Unmarshal(blob, &h); err != nil {
		return read, fmt.Errorf("%w: %v", errInvalidDigest, err)
	}
	if h.Version != Version {
		return read, fmt.Errorf("%w: unsupported version %d", errInvalidDigest, h.Version)
	}
	if h.Curve != ecc.BN254.String() {
		return read, fmt.Errorf("%w: curve %q", errInvalidDigest, h.Curve)
	}
	if h.Rows != NbRows || h.Cols != NbCoords || len(h.A) != NbRows {
		return read, fmt.Errorf("%w: dimensions %dx%d", errInvalidDigest, h.Rows, h.Cols)
	}
	d.Curve = ecc.BN254
	for i := range d.A {
		if len(h.A[i]) != NbCoords {
			return read, fmt.Errorf("%w: row %d has %d columns", errInvalidDigest, i, len(h.A[i]))
		}
		for j, v := range h.A[i] {
			if v < -1 || v > 1 {
				return read, fmt.Errorf("%w: coefficient out of range", errInvalidDigest)
			}
			d.A[i][j] = v
		}
	}

	dec := bn254.NewDecoder(r)
	for j := 0; j < NbCoords; j++ {
		var e error
		if Sides[j] == ProofG2 {
			e = dec.Decode(&d.Columns[j].G1)
		} else {
			e = dec.Decode(&d.Columns[j].G2)
		}
		if e != nil {
			return read + dec.BytesRead(), e
		}
	}
	g1 := d.CRS.G1[:]
	g2 := d.CRS.G2[:]
	toDecode := []interface{}{
		&g1,
		&g2,
	}
	for _, v := range toDecode {
		if err := dec.Decode(v); err != nil {
			return read + dec.BytesRead(), err
		}
	}
	read += dec.BytesRead()
	if len(g1) != MaxDegG1+1 || len(g2) != MaxDegG2+1 {
		return read, fmt.Errorf("%w: CRS length mismatch", errInvalidDigest)
	}
	copy(d.CRS.G1[:], g1)
	copy(d.CRS.G2[:], g2)

	buf := make([]byte, bn254.SizeOfGT)
	for i := range d.B {
		n, err := io.ReadFull(r, buf)
		read += int64(n)
		if err != nil {
			return read, err
		}
		if err := d.B[i].SetBytes(buf); err != nil {
			return read, fmt.Errorf("%w: %v", errInvalidDigest, err)
		}
	}

	// derived state
	d.QAP = qap.Compile()
	gt, err := bn254.Pair([]bn254.G1Affine{d.CRS.G1[0]}, []bn254.G2Affine{d.CRS.G2[0]})
	if err != nil {
		return read, err
	}
	d.GtGen = gt

	return read, nil
}

// Fingerprint returns a blake2b-256 identifier of the digest's wire form,
// used by ciphertext headers to detect digest mismatch before any key
// recovery work.
func (d *Digest) Fingerprint() ([32]byte, error) {
	var id [32]byte
	h, err := blake2b.New256(nil)
	if err != nil {
		return id, err
	}
	if _, err := d.WriteTo(h); err != nil {
		return id, err
	}
	copy(id[:], h.Sum(nil))
	return id, nil
}
