package tally

import (
	"errors"
	"fmt"
	"math/big"

	paillier "github.com/roasbeef/go-go-gadget-paillier"

	"evote/internal/tally/phe"
)

// Scheme identifies one-hot Paillier ballots on the wire.
const Scheme = "paillier-1hot"

var (
	ErrUnknownCandidate   = errors.New("unknown candidate")
	ErrLengthMismatch     = errors.New("ballot length does not match candidate count")
	ErrDuplicateCandidate = errors.New("duplicate candidate in ballot")
	ErrOutOfRange         = errors.New("ciphertext out of range")
	ErrNotAnInteger       = errors.New("ciphertext is not an integer")
	ErrKeyMismatch        = errors.New("ballot key does not match election")
	ErrExponent           = errors.New("ciphertext exponent must be 0")
)

// Entry is one submitted ciphertext, as a decimal string.
type Entry struct {
	CandidateID string `json:"candidate_id"`
	Ciphertext  string `json:"ciphertext"`
	Exponent    int    `json:"exponent,omitempty"`
}

// CiphertextEntry is a parsed, range checked ciphertext for one candidate slot.
// Exponent is the fixed-point exponent the client encoded the plaintext with.
// One-hot votes are plain integers, so only 0 is accepted and stored.
type CiphertextEntry struct {
	CandidateID string
	Ciphertext  *big.Int
	Exponent    int
}

// Decrypter is the private half of the tally key.
type Decrypter interface {
	Decrypt(c *big.Int) (*big.Int, error)
}

// EncryptChoice encodes chosen as a one-hot vector over candidateIDs, one fresh
// ciphertext per candidate in the given order.
func EncryptChoice(candidateIDs []string, chosen string, pub *paillier.PublicKey) ([]CiphertextEntry, error) {
	found := false
	for _, id := range candidateIDs {
		if id == chosen {
			found = true
			break
		}
	}
	if !found {
		return nil, ErrUnknownCandidate
	}

	out := make([]CiphertextEntry, 0, len(candidateIDs))
	for _, id := range candidateIDs {
		bit := big.NewInt(0)
		if id == chosen {
			bit = big.NewInt(1)
		}
		c, err := phe.Encrypt(pub, bit)
		if err != nil {
			return nil, err
		}
		out = append(out, CiphertextEntry{CandidateID: id, Ciphertext: c})
	}
	return out, nil
}

// ValidateBallotShape checks a submitted ballot without decrypting it and returns
// its entries parsed and reordered to match candidateIDs.
func ValidateBallotShape(entries []Entry, candidateIDs []string, keyID, expectedKeyID string, pub *paillier.PublicKey) ([]CiphertextEntry, error) {
	if keyID != expectedKeyID {
		return nil, ErrKeyMismatch
	}
	if len(entries) != len(candidateIDs) {
		return nil, ErrLengthMismatch
	}

	byCandidate := make(map[string]CiphertextEntry, len(entries))
	valid := make(map[string]struct{}, len(candidateIDs))
	for _, id := range candidateIDs {
		valid[id] = struct{}{}
	}
	for _, e := range entries {
		if _, ok := valid[e.CandidateID]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCandidate, e.CandidateID)
		}
		if _, dup := byCandidate[e.CandidateID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateCandidate, e.CandidateID)
		}
		c, ok := new(big.Int).SetString(e.Ciphertext, 10)
		if !ok {
			return nil, ErrNotAnInteger
		}
		if !phe.InRange(pub, c) {
			return nil, ErrOutOfRange
		}
		if e.Exponent != 0 {
			return nil, fmt.Errorf("%w: got %d", ErrExponent, e.Exponent)
		}
		byCandidate[e.CandidateID] = CiphertextEntry{CandidateID: e.CandidateID, Ciphertext: c, Exponent: e.Exponent}
	}

	out := make([]CiphertextEntry, len(candidateIDs))
	for i, id := range candidateIDs {
		out[i] = byCandidate[id]
	}
	return out, nil
}

// Aggregate folds every ballot into one ciphertext per candidate. Each accumulator
// starts at an encryption of zero, so candidates without ballots still get a value.
// Entries for candidates outside candidateIDs are ignored.
func Aggregate(pub *paillier.PublicKey, candidateIDs []string, ballots [][]CiphertextEntry) (map[string]*big.Int, error) {
	acc := make(map[string]*big.Int, len(candidateIDs))
	for _, id := range candidateIDs {
		zero, err := phe.Encrypt(pub, big.NewInt(0))
		if err != nil {
			return nil, err
		}
		acc[id] = zero
	}
	for _, ballot := range ballots {
		for _, e := range ballot {
			sum, ok := acc[e.CandidateID]
			if !ok {
				continue
			}
			acc[e.CandidateID] = phe.Add(pub, sum, e.Ciphertext)
		}
	}
	return acc, nil
}

// DecryptAggregate decrypts one combined ciphertext. It is only ever called on
// aggregates, never on an individual ballot entry.
func DecryptAggregate(combined *big.Int, priv Decrypter) (*big.Int, error) {
	if combined == nil {
		return nil, phe.ErrCiphertextRange
	}
	return priv.Decrypt(combined)
}
