package credential

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"errors"
	"io"
	"math/big"
	"strings"
)

var (
	// ErrRetryableRandomness means the blinding factor shared a factor with n.
	// The caller draws a new factor; the protocol itself has not failed.
	ErrRetryableRandomness = errors.New("blinding factor not invertible modulo n")
	ErrMalformedInput      = errors.New("malformed credential input")
	ErrInvalidSignature    = errors.New("credential signature does not verify")
	ErrAlreadyIssued       = errors.New("credential already issued for this election")
	ErrKeyMismatch         = errors.New("credential key does not match election")
)

// MaxHexLen bounds hex encoded big integers accepted from clients.
const MaxHexLen = 2048

// Digest is the full-domain-hash representative int(SHA-256(token)) mod n.
func Digest(token []byte, pub *rsa.PublicKey) *big.Int {
	sum := sha256.Sum256(token)
	m := new(big.Int).SetBytes(sum[:])
	return m.Mod(m, pub.N)
}

// Blind draws a fresh factor r from random and blinds m. On ErrRetryableRandomness the
// caller retries with a new draw.
func Blind(random io.Reader, m *big.Int, pub *rsa.PublicKey) (blinded, r *big.Int, err error) {
	if random == nil {
		random = rand.Reader
	}
	r, err = rand.Int(random, pub.N)
	if err != nil {
		return nil, nil, err
	}
	blinded, err = BlindWithFactor(m, r, pub)
	if err != nil {
		return nil, nil, err
	}
	return blinded, r, nil
}

// BlindWithFactor computes m * r^e mod n.
func BlindWithFactor(m, r *big.Int, pub *rsa.PublicKey) (*big.Int, error) {
	if !inModulus(m, pub.N) || r.Sign() <= 0 || r.Cmp(pub.N) >= 0 {
		return nil, ErrMalformedInput
	}
	if new(big.Int).GCD(nil, nil, r, pub.N).Cmp(big.NewInt(1)) != 0 {
		return nil, ErrRetryableRandomness
	}
	re := new(big.Int).Exp(r, big.NewInt(int64(pub.E)), pub.N)
	out := new(big.Int).Mul(m, re)
	return out.Mod(out, pub.N), nil
}

// SignBlinded computes blinded^d mod n. The signer never sees the unblinded digest.
func SignBlinded(blinded *big.Int, priv *rsa.PrivateKey) (*big.Int, error) {
	if !inModulus(blinded, priv.N) {
		return nil, ErrMalformedInput
	}
	return new(big.Int).Exp(blinded, priv.D, priv.N), nil
}

// Unblind computes signedBlinded * r^-1 mod n, yielding a signature on the original digest.
func Unblind(signedBlinded, r *big.Int, pub *rsa.PublicKey) (*big.Int, error) {
	if !inModulus(signedBlinded, pub.N) {
		return nil, ErrMalformedInput
	}
	rInv := new(big.Int).ModInverse(r, pub.N)
	if rInv == nil {
		return nil, ErrRetryableRandomness
	}
	s := new(big.Int).Mul(signedBlinded, rInv)
	return s.Mod(s, pub.N), nil
}

// Sign signs a digest directly. Blind, sign and unblind yields the same value.
func Sign(m *big.Int, priv *rsa.PrivateKey) (*big.Int, error) {
	return SignBlinded(m, priv)
}

// Verify reports whether signature^e mod n equals m.
func Verify(m, signature *big.Int, pub *rsa.PublicKey) bool {
	if m == nil || signature == nil || !inModulus(signature, pub.N) {
		return false
	}
	v := new(big.Int).Exp(signature, big.NewInt(int64(pub.E)), pub.N)
	return v.Cmp(new(big.Int).Mod(m, pub.N)) == 0
}

// VerifyToken verifies a credential against the digest of the raw token.
func VerifyToken(token []byte, signature *big.Int, pub *rsa.PublicKey) bool {
	return Verify(Digest(token, pub), signature, pub)
}

// ParseHex parses a client supplied hex integer, with or without a 0x prefix.
func ParseHex(s string) (*big.Int, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "0x"), "0X")
	if s == "" || len(s) > MaxHexLen {
		return nil, ErrMalformedInput
	}
	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		return nil, ErrMalformedInput
	}
	return v, nil
}

// FormatHex is the wire encoding of integers: lowercase hex without prefix.
func FormatHex(v *big.Int) string {
	return v.Text(16)
}

func inModulus(v, n *big.Int) bool {
	return v != nil && v.Sign() >= 0 && v.Cmp(n) < 0
}
