package keys

import (
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"fmt"
	"io"
	"math/big"
	"time"

	"evote/internal/tally/phe"
)

// MinKeyBits is the smallest modulus accepted for generated keys. RSA keys are further
// held to MinRSAKeyBits, the floor crypto/rsa enforces.
const (
	MinKeyBits    = 512
	MinRSAKeyBits = 1024
)

var ErrUnsupportedAlgorithm = errors.New("unsupported key algorithm")

// GenerateRSA creates a fresh RSA signing key. Public exponent is the Go default (65537).
func GenerateRSA(random io.Reader, bits int, now time.Time) (*Material, error) {
	if bits < MinRSAKeyBits {
		return nil, fmt.Errorf("rsa key size %d below minimum %d", bits, MinRSAKeyBits)
	}
	priv, err := rsa.GenerateKey(random, bits)
	if err != nil {
		return nil, fmt.Errorf("generate rsa key: %w", err)
	}
	return &Material{
		Record: Record{
			ID:             Fingerprint(AlgorithmRSA, priv.N),
			Algorithm:      AlgorithmRSA,
			Modulus:        new(big.Int).Set(priv.N),
			PublicExponent: priv.E,
			CreatedAt:      now.UTC(),
		},
		RSA: priv,
	}, nil
}

// GeneratePaillier creates a fresh Paillier key pair for ballot encryption.
func GeneratePaillier(random io.Reader, bits int, now time.Time) (*Material, error) {
	if bits < MinKeyBits {
		return nil, fmt.Errorf("paillier key size %d below minimum %d", bits, MinKeyBits)
	}
	priv, err := phe.GenerateKey(random, bits)
	if err != nil {
		return nil, fmt.Errorf("generate paillier key: %w", err)
	}
	return &Material{
		Record: Record{
			ID:        Fingerprint(AlgorithmPaillier, priv.N),
			Algorithm: AlgorithmPaillier,
			Modulus:   new(big.Int).Set(priv.N),
			CreatedAt: now.UTC(),
		},
		Paillier: priv,
	}, nil
}

// Generate dispatches on alg using crypto/rand.
func Generate(alg Algorithm, bits int, now time.Time) (*Material, error) {
	switch alg {
	case AlgorithmRSA:
		return GenerateRSA(rand.Reader, bits, now)
	case AlgorithmPaillier:
		return GeneratePaillier(rand.Reader, bits, now)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, alg)
	}
}

// MinBits returns the smallest modulus size Generate accepts for alg.
func MinBits(alg Algorithm) int {
	if alg == AlgorithmRSA {
		return MinRSAKeyBits
	}
	return MinKeyBits
}
