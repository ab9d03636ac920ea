// Copyright 2020 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package we

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"

	"github.com/consensys/lvwe/lv"
)

func testDigest(t *testing.T) *lv.Digest {
	t.Helper()
	d, err := lv.Setup()
	require.NoError(t, err)
	return d
}

func witness(x, y, z uint64) *lv.Witness {
	var w lv.Witness
	w.X.SetUint64(x)
	w.Y.SetUint64(y)
	w.Z.SetUint64(z)
	return &w
}

func TestRoundTrip(t *testing.T) {
	d := testDigest(t)

	ct, err := Encrypt(d, []byte("hello"))
	require.NoError(t, err)

	pt, err := Decrypt(d, ct, witness(3, 4, 12))
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), pt)
}

func TestInvalidWitness(t *testing.T) {
	d := testDigest(t)

	ct, err := Encrypt(d, []byte("hello"))
	require.NoError(t, err)

	_, err = Decrypt(d, ct, witness(3, 5, 12))
	require.ErrorIs(t, err, ErrDecryption)
}

func TestEmptyMessage(t *testing.T) {
	d := testDigest(t)

	ct, err := Encrypt(d, nil)
	require.NoError(t, err)

	pt, err := Decrypt(d, ct, witness(2, 2, 4))
	require.NoError(t, err)
	require.Empty(t, pt)
}

func TestAnySatisfyingWitnessDecrypts(t *testing.T) {
	d := testDigest(t)
	msg := []byte("bound to the language, not an instance")

	ct, err := Encrypt(d, msg)
	require.NoError(t, err)

	// distinct witnesses of the same language open the same ciphertext
	for _, w := range []*lv.Witness{
		witness(3, 4, 12),
		witness(1, 1, 1),
		witness(0, 7, 0),
		witness(123456789, 987654321, 123456789*987654321),
	} {
		pt, err := Decrypt(d, ct, w)
		require.NoError(t, err)
		require.Equal(t, msg, pt)
	}
}

func TestSoundnessSampling(t *testing.T) {
	d := testDigest(t)

	ct, err := Encrypt(d, []byte("secret"))
	require.NoError(t, err)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20
	properties := gopter.NewProperties(parameters)

	properties.Property("x·y ≠ z never decrypts", prop.ForAll(
		func(xv, yv, delta uint64) bool {
			w := witness(xv, yv, 0)
			w.Z.Mul(&w.X, &w.Y)
			var shift fr.Element
			shift.SetUint64(delta + 1)
			w.Z.Add(&w.Z, &shift)
			_, err := Decrypt(d, ct, w)
			return errors.Is(err, ErrDecryption)
		},
		gen.UInt64(), gen.UInt64(), gen.UInt64Range(0, 1<<40),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestFreshness(t *testing.T) {
	d := testDigest(t)

	ct1, err := Encrypt(d, []byte("same message"))
	require.NoError(t, err)
	ct2, err := Encrypt(d, []byte("same message"))
	require.NoError(t, err)

	require.False(t, ct1.C2.Equal(&ct2.C2), "key material must be fresh per call")
	require.NotEqual(t, ct1.Nonce, ct2.Nonce)
	require.NotEqual(t, ct1.C1G2, ct2.C1G2, "blinding must be fresh per call")
	require.NotEqual(t, ct1.Bytes, ct2.Bytes)
}

func TestDigestIdentity(t *testing.T) {
	d1 := testDigest(t)
	d2 := testDigest(t)

	ct, err := Encrypt(d1, []byte("hello"))
	require.NoError(t, err)

	// the witness satisfies both languages; the digests still must not be
	// interchangeable
	_, err = Decrypt(d2, ct, witness(3, 4, 12))
	require.ErrorIs(t, err, ErrMalformedCiphertext)
}

func TestCiphertextRoundTrip(t *testing.T) {
	d := testDigest(t)

	ct, err := Encrypt(d, []byte("wire format"))
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = ct.WriteTo(&buf)
	require.NoError(t, err)

	var reloaded Ciphertext
	_, err = reloaded.ReadFrom(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	require.Equal(t, ct.Header, reloaded.Header)
	require.Equal(t, ct.C1G1, reloaded.C1G1)
	require.Equal(t, ct.C1G2, reloaded.C1G2)
	require.True(t, ct.C2.Equal(&reloaded.C2))
	require.Equal(t, ct.Nonce, reloaded.Nonce)
	require.Equal(t, ct.Tag, reloaded.Tag)
	require.Equal(t, ct.Bytes, reloaded.Bytes)

	pt, err := Decrypt(d, &reloaded, witness(3, 4, 12))
	require.NoError(t, err)
	require.Equal(t, []byte("wire format"), pt)
}

func TestTamperedBody(t *testing.T) {
	d := testDigest(t)

	ct, err := Encrypt(d, []byte("tamper me"))
	require.NoError(t, err)

	ct.Bytes[0] ^= 0x01
	_, err = Decrypt(d, ct, witness(3, 4, 12))
	require.ErrorIs(t, err, ErrDecryption)
}

func TestHostileLengthPrefixes(t *testing.T) {
	d := testDigest(t)

	ct, err := Encrypt(d, []byte("hello"))
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = ct.WriteTo(&buf)
	require.NoError(t, err)

	// body length rewritten to 2^50: must be rejected, not allocated
	raw := bytes.Clone(buf.Bytes())
	off := len(raw) - len(ct.Bytes) - 8
	binary.BigEndian.PutUint64(raw[off:], 1<<50)
	var reloaded Ciphertext
	_, err = reloaded.ReadFrom(bytes.NewReader(raw))
	require.ErrorIs(t, err, ErrMalformedCiphertext)

	// header blob length rewritten to 2^31
	raw = bytes.Clone(buf.Bytes())
	binary.BigEndian.PutUint32(raw, 1<<31)
	_, err = reloaded.ReadFrom(bytes.NewReader(raw))
	require.ErrorIs(t, err, ErrMalformedCiphertext)
}

func TestWrongHeaderDims(t *testing.T) {
	d := testDigest(t)

	ct, err := Encrypt(d, []byte("hello"))
	require.NoError(t, err)

	ct.Header.Rows++
	_, err = Decrypt(d, ct, witness(3, 4, 12))
	require.ErrorIs(t, err, ErrMalformedCiphertext)
}

func TestWrongHeaderCurve(t *testing.T) {
	d := testDigest(t)

	ct, err := Encrypt(d, []byte("hello"))
	require.NoError(t, err)

	ct.Header.Curve = "bls12-381"
	_, err = Decrypt(d, ct, witness(3, 4, 12))
	require.ErrorIs(t, err, ErrMalformedCiphertext)
}

func TestWrongHeaderVersion(t *testing.T) {
	d := testDigest(t)

	ct, err := Encrypt(d, []byte("hello"))
	require.NoError(t, err)

	ct.Header.Version = 99
	_, err = Decrypt(d, ct, witness(3, 4, 12))
	require.ErrorIs(t, err, ErrMalformedCiphertext)
}

func TestSerializedDigestInterop(t *testing.T) {
	// encryptor and decryptor operating from independently deserialized
	// digests, as two processes would
	d := testDigest(t)

	var buf bytes.Buffer
	_, err := d.WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.Bytes()

	var encSide, decSide lv.Digest
	_, err = encSide.ReadFrom(bytes.NewReader(raw))
	require.NoError(t, err)
	_, err = decSide.ReadFrom(bytes.NewReader(raw))
	require.NoError(t, err)

	ct, err := Encrypt(&encSide, []byte("two processes"))
	require.NoError(t, err)
	pt, err := Decrypt(&decSide, ct, witness(6, 6, 36))
	require.NoError(t, err)
	require.Equal(t, []byte("two processes"), pt)
}
