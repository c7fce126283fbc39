package keys

import (
	"crypto/rsa"
	"math/big"
	"time"

	paillier "github.com/roasbeef/go-go-gadget-paillier"

	"evote/internal/tally/phe"
)

// Algorithm names the key family. The value is part of the fingerprint input.
type Algorithm string

const (
	AlgorithmRSA      Algorithm = "rsa"
	AlgorithmPaillier Algorithm = "paillier"
)

func (a Algorithm) IsValid() bool {
	return a == AlgorithmRSA || a == AlgorithmPaillier
}

// Record is the public, immutable description of a published key.
// Elections pin a Record.ID so signature and ciphertext validity belong to one key generation.
type Record struct {
	ID             string    `json:"key_id"`
	Algorithm      Algorithm `json:"algorithm"`
	Modulus        *big.Int  `json:"-"`
	PublicExponent int       `json:"public_exponent,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// ModulusDecimal is the wire form of the modulus.
func (r Record) ModulusDecimal() string {
	if r.Modulus == nil {
		return ""
	}
	return r.Modulus.String()
}

// Material is a Record plus its private half. Exactly one of RSA or Paillier is set,
// matching Algorithm.
type Material struct {
	Record
	RSA      *rsa.PrivateKey
	Paillier *phe.PrivateKey
}

// RSAPublic returns the RSA public key, or nil for non-RSA material.
func (m *Material) RSAPublic() *rsa.PublicKey {
	if m == nil || m.RSA == nil {
		return nil
	}
	return &m.RSA.PublicKey
}

// PaillierPublic returns the Paillier public key, or nil for non-Paillier material.
func (m *Material) PaillierPublic() *paillier.PublicKey {
	if m == nil || m.Paillier == nil {
		return nil
	}
	return &m.Paillier.PublicKey
}
