// Package phe wraps the Paillier cryptosystem used for one-hot ballots.
//
// Public operations (encryption and homomorphic addition) delegate to
// go-go-gadget-paillier. The private key is held as its primes so that it can be
// persisted and reloaded; decryption uses lambda = (p-1)(q-1), mu = lambda^-1 mod n
// with the generator fixed at g = n+1.
package phe

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"

	paillier "github.com/roasbeef/go-go-gadget-paillier"
)

var (
	one = big.NewInt(1)

	ErrCiphertextRange = errors.New("ciphertext outside [1, n^2)")
	ErrPlaintextRange  = errors.New("plaintext outside [0, n)")
	ErrInvalidPrimes   = errors.New("invalid paillier primes")
)

// PrivateKey is a Paillier decryption key.
type PrivateKey struct {
	paillier.PublicKey
	P      *big.Int
	Q      *big.Int
	Lambda *big.Int
	Mu     *big.Int
}

// PublicKeyFromModulus rebuilds a public key with g = n+1.
func PublicKeyFromModulus(n *big.Int) *paillier.PublicKey {
	n = new(big.Int).Set(n)
	return &paillier.PublicKey{
		N:        n,
		G:        new(big.Int).Add(n, one),
		NSquared: new(big.Int).Mul(n, n),
	}
}

// NewPrivateKey derives the key from its primes.
func NewPrivateKey(p, q *big.Int) (*PrivateKey, error) {
	if p == nil || q == nil || p.Sign() <= 0 || q.Sign() <= 0 || p.Cmp(q) == 0 {
		return nil, ErrInvalidPrimes
	}
	n := new(big.Int).Mul(p, q)
	lambda := new(big.Int).Mul(new(big.Int).Sub(p, one), new(big.Int).Sub(q, one))
	if new(big.Int).GCD(nil, nil, n, lambda).Cmp(one) != 0 {
		return nil, ErrInvalidPrimes
	}
	mu := new(big.Int).ModInverse(lambda, n)
	if mu == nil {
		return nil, ErrInvalidPrimes
	}
	return &PrivateKey{
		PublicKey: *PublicKeyFromModulus(n),
		P:         new(big.Int).Set(p),
		Q:         new(big.Int).Set(q),
		Lambda:    lambda,
		Mu:        mu,
	}, nil
}

// GenerateKey creates a key whose modulus has the requested bit length.
func GenerateKey(random io.Reader, bits int) (*PrivateKey, error) {
	if random == nil {
		random = rand.Reader
	}
	for {
		p, err := rand.Prime(random, bits/2)
		if err != nil {
			return nil, fmt.Errorf("generate prime: %w", err)
		}
		q, err := rand.Prime(random, bits-bits/2)
		if err != nil {
			return nil, fmt.Errorf("generate prime: %w", err)
		}
		key, err := NewPrivateKey(p, q)
		if errors.Is(err, ErrInvalidPrimes) {
			continue
		}
		return key, err
	}
}

// Encrypt encrypts m under pub with fresh randomness.
func Encrypt(pub *paillier.PublicKey, m *big.Int) (*big.Int, error) {
	if m.Sign() < 0 || m.Cmp(pub.N) >= 0 {
		return nil, ErrPlaintextRange
	}
	c, err := paillier.Encrypt(pub, m.Bytes())
	if err != nil {
		return nil, fmt.Errorf("paillier encrypt: %w", err)
	}
	return new(big.Int).SetBytes(c), nil
}

// Add returns a ciphertext of the sum of the plaintexts of a and b.
func Add(pub *paillier.PublicKey, a, b *big.Int) *big.Int {
	return new(big.Int).SetBytes(paillier.AddCipher(pub, a.Bytes(), b.Bytes()))
}

// InRange reports whether c is a syntactically valid ciphertext for pub: an integer in
// [1, n²) that is a unit mod n². A non-unit shares a prime with n.
func InRange(pub *paillier.PublicKey, c *big.Int) bool {
	if c.Sign() <= 0 || c.Cmp(pub.NSquared) >= 0 {
		return false
	}
	return new(big.Int).GCD(nil, nil, c, pub.N).Cmp(one) == 0
}

// Decrypt recovers the plaintext of c.
func (k *PrivateKey) Decrypt(c *big.Int) (*big.Int, error) {
	if !InRange(&k.PublicKey, c) {
		return nil, ErrCiphertextRange
	}
	x := new(big.Int).Exp(c, k.Lambda, k.NSquared)
	// L(x) = (x-1)/n
	x.Sub(x, one)
	x.Div(x, k.N)
	x.Mul(x, k.Mu)
	return x.Mod(x, k.N), nil
}
