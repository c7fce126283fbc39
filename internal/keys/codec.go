package keys

import (
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"math/big"

	"evote/internal/tally/phe"
)

// privateDoc is the persisted form of private key material. Integers are decimal strings.
// Both families are stored as their primes; RSA additionally keeps d.
type privateDoc struct {
	D string `json:"d,omitempty"`
	P string `json:"p"`
	Q string `json:"q"`
}

// EncodePrivate serializes the private half of m.
func EncodePrivate(m *Material) ([]byte, error) {
	var doc privateDoc
	switch m.Algorithm {
	case AlgorithmRSA:
		if m.RSA == nil || len(m.RSA.Primes) != 2 {
			return nil, fmt.Errorf("rsa material incomplete for %s", m.ID)
		}
		doc = privateDoc{D: m.RSA.D.String(), P: m.RSA.Primes[0].String(), Q: m.RSA.Primes[1].String()}
	case AlgorithmPaillier:
		if m.Paillier == nil {
			return nil, fmt.Errorf("paillier material incomplete for %s", m.ID)
		}
		doc = privateDoc{P: m.Paillier.P.String(), Q: m.Paillier.Q.String()}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, m.Algorithm)
	}
	return json.Marshal(doc)
}

// DecodePrivate rebuilds Material from a public record and its encoded private half.
func DecodePrivate(rec Record, raw []byte) (*Material, error) {
	var doc privateDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode private material: %w", err)
	}
	p, err := decimal(doc.P)
	if err != nil {
		return nil, err
	}
	q, err := decimal(doc.Q)
	if err != nil {
		return nil, err
	}

	m := &Material{Record: rec}
	switch rec.Algorithm {
	case AlgorithmRSA:
		d, err := decimal(doc.D)
		if err != nil {
			return nil, err
		}
		priv := &rsa.PrivateKey{
			PublicKey: rsa.PublicKey{N: new(big.Int).Set(rec.Modulus), E: rec.PublicExponent},
			D:         d,
			Primes:    []*big.Int{p, q},
		}
		if err := priv.Validate(); err != nil {
			return nil, fmt.Errorf("validate rsa key %s: %w", rec.ID, err)
		}
		priv.Precompute()
		m.RSA = priv
	case AlgorithmPaillier:
		priv, err := phe.NewPrivateKey(p, q)
		if err != nil {
			return nil, fmt.Errorf("rebuild paillier key %s: %w", rec.ID, err)
		}
		if priv.N.Cmp(rec.Modulus) != 0 {
			return nil, fmt.Errorf("paillier key %s: modulus mismatch", rec.ID)
		}
		m.Paillier = priv
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, rec.Algorithm)
	}
	return m, nil
}

func decimal(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid decimal in key material")
	}
	return v, nil
}
