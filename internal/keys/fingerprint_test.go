package keys

import (
	"crypto/sha256"
	"encoding/hex"
	"math/big"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprintFormat(t *testing.T) {
	n := big.NewInt(3233)
	sum := sha256.Sum256([]byte("rsa|3233"))

	fp := Fingerprint(AlgorithmRSA, n)

	assert.Equal(t, "rsa-"+hex.EncodeToString(sum[:])[:12], fp)
	assert.Regexp(t, regexp.MustCompile(`^rsa-[0-9a-f]{12}$`), fp)
}

func TestFingerprintDependsOnAlgorithmAndModulus(t *testing.T) {
	n := big.NewInt(3233)
	assert.NotEqual(t, Fingerprint(AlgorithmRSA, n), Fingerprint(AlgorithmPaillier, n))
	assert.NotEqual(t, Fingerprint(AlgorithmRSA, n), Fingerprint(AlgorithmRSA, big.NewInt(3237)))
	assert.Equal(t, Fingerprint(AlgorithmRSA, n), Fingerprint(AlgorithmRSA, big.NewInt(3233)))
}

func TestGeneratedKeysUseFingerprintAsID(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	r, err := Generate(AlgorithmRSA, 1024, now)
	require.NoError(t, err)
	assert.Equal(t, Fingerprint(AlgorithmRSA, r.Modulus), r.ID)
	assert.Equal(t, 65537, r.PublicExponent)
	assert.NotNil(t, r.RSAPublic())
	assert.Nil(t, r.PaillierPublic())

	p, err := Generate(AlgorithmPaillier, 512, now)
	require.NoError(t, err)
	assert.Equal(t, Fingerprint(AlgorithmPaillier, p.Modulus), p.ID)
	assert.NotNil(t, p.PaillierPublic())
	assert.Nil(t, p.RSAPublic())
}

func TestGenerateRejectsUnknownAlgorithm(t *testing.T) {
	_, err := Generate(Algorithm("dsa"), 1024, time.Now())
	assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)
}

func TestPrivateMaterialRoundTrip(t *testing.T) {
	now := time.Now()
	for _, alg := range []Algorithm{AlgorithmRSA, AlgorithmPaillier} {
		m, err := Generate(alg, 1024, now)
		require.NoError(t, err)

		raw, err := EncodePrivate(m)
		require.NoError(t, err)

		restored, err := DecodePrivate(m.Record, raw)
		require.NoError(t, err, string(alg))
		switch alg {
		case AlgorithmRSA:
			assert.Equal(t, 0, restored.RSA.D.Cmp(m.RSA.D))
		case AlgorithmPaillier:
			assert.Equal(t, 0, restored.Paillier.Lambda.Cmp(m.Paillier.Lambda))
		}
	}
}
