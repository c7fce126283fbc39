package credential

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

// =============================================================================
// Blind Signature Test Suite
// =============================================================================
// Covers the protocol math: blind, sign, unblind and verify must agree with a
// direct signature, and any tampering must fail verification.

type BlindSuite struct {
	suite.Suite
	priv *rsa.PrivateKey
}

func TestBlindSuite(t *testing.T) {
	suite.Run(t, new(BlindSuite))
}

func (s *BlindSuite) SetupSuite() {
	priv, err := rsa.GenerateKey(rand.Reader, 1024)
	s.Require().NoError(err)
	s.priv = priv
}

func (s *BlindSuite) TestTextbookKey() {
	pub := &rsa.PublicKey{N: big.NewInt(3233), E: 17}

	s.Run("verifies known signature", func() {
		s.True(Verify(big.NewInt(2790), big.NewInt(65), pub))
	})

	s.Run("rejects wrong message", func() {
		s.False(Verify(big.NewInt(2791), big.NewInt(65), pub))
	})

	s.Run("rejects signature outside modulus", func() {
		s.False(Verify(big.NewInt(2790), big.NewInt(3233+65), pub))
	})
}

func (s *BlindSuite) TestRoundTrip() {
	pub := &s.priv.PublicKey
	token := []byte("voter-secret-token-1")
	m := Digest(token, pub)

	blinded, r, err := Blind(rand.Reader, m, pub)
	s.Require().NoError(err)
	s.NotEqual(0, blinded.Cmp(m), "blinded value must hide the digest")

	signedBlinded, err := SignBlinded(blinded, s.priv)
	s.Require().NoError(err)
	sig, err := Unblind(signedBlinded, r, pub)
	s.Require().NoError(err)

	direct, err := Sign(m, s.priv)
	s.Require().NoError(err)

	s.Equal(0, sig.Cmp(direct))
	s.True(Verify(m, sig, pub))
	s.True(VerifyToken(token, sig, pub))
	s.False(VerifyToken([]byte("voter-secret-token-2"), sig, pub))
}

func (s *BlindSuite) TestTamperedSignatureFails() {
	pub := &s.priv.PublicKey
	token := []byte("tamper-check")
	sig, err := Sign(Digest(token, pub), s.priv)
	s.Require().NoError(err)

	for _, bit := range []int{0, 7, 100, 511} {
		tampered := new(big.Int).Set(sig)
		tampered.SetBit(tampered, bit, tampered.Bit(bit)^1)
		s.False(VerifyToken([]byte("tamper-check"), tampered, pub), "bit %d", bit)
	}
}

func (s *BlindSuite) TestNonInvertibleFactor() {
	pub := &s.priv.PublicKey
	m := Digest([]byte("gcd"), pub)

	s.Run("factor sharing a prime with n is retryable", func() {
		_, err := BlindWithFactor(m, s.priv.Primes[0], pub)
		s.ErrorIs(err, ErrRetryableRandomness)
	})

	s.Run("unblind with the same factor is retryable", func() {
		_, err := Unblind(big.NewInt(2), s.priv.Primes[1], pub)
		s.ErrorIs(err, ErrRetryableRandomness)
	})

	s.Run("zero factor is malformed", func() {
		_, err := BlindWithFactor(m, big.NewInt(0), pub)
		s.ErrorIs(err, ErrMalformedInput)
	})

	s.Run("exhausted randomness surfaces an error", func() {
		_, _, err := Blind(bytes.NewReader(nil), m, pub)
		s.Error(err)
	})
}

func (s *BlindSuite) TestMalformedInput() {
	s.Run("values at or above n are rejected by the signer", func() {
		_, err := SignBlinded(new(big.Int).Set(s.priv.N), s.priv)
		s.ErrorIs(err, ErrMalformedInput)
	})

	s.Run("negative values are rejected by the signer", func() {
		_, err := SignBlinded(big.NewInt(-1), s.priv)
		s.ErrorIs(err, ErrMalformedInput)
	})

	s.Run("hex parsing", func() {
		cases := map[string]bool{
			"":                               false,
			"zz":                             false,
			"0x":                             false,
			strings.Repeat("f", MaxHexLen+1): false,
			"0xABC":                          true,
			"abc":                            true,
			" 1f ":                           true,
		}
		for in, ok := range cases {
			_, err := ParseHex(in)
			if ok {
				s.NoError(err, "input %q", in)
			} else {
				s.ErrorIs(err, ErrMalformedInput, "input %q", in)
			}
		}
	})

	s.Run("hex round trip", func() {
		v, err := ParseHex(FormatHex(s.priv.N))
		s.Require().NoError(err)
		s.Equal(0, v.Cmp(s.priv.N))
	})
}
