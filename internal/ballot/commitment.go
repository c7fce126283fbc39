package ballot

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"

	"evote/internal/tally"
)

// canonicalEntry and canonicalBallot declare fields in key order, so encoding/json
// emits sorted keys.
type canonicalEntry struct {
	CandidateID string `json:"candidate_id"`
	Ciphertext  string `json:"ciphertext"`
}

type canonicalBallot struct {
	Entries []canonicalEntry `json:"entries"`
	KeyID   string           `json:"key_id"`
	Scheme  string           `json:"scheme"`
}

// CommitmentHash is the SHA-256 of the ballot's canonical serialization: entries
// sorted by candidate id, keys sorted, no whitespace. Independently serialized
// copies of the same ballot commit to the same hash.
func CommitmentHash(scheme, keyID string, entries []tally.CiphertextEntry) (string, error) {
	cb := canonicalBallot{
		Entries: make([]canonicalEntry, len(entries)),
		KeyID:   keyID,
		Scheme:  scheme,
	}
	for i, e := range entries {
		if e.Ciphertext == nil {
			return "", fmt.Errorf("entry %q has no ciphertext", e.CandidateID)
		}
		cb.Entries[i] = canonicalEntry{CandidateID: e.CandidateID, Ciphertext: e.Ciphertext.String()}
	}
	sort.Slice(cb.Entries, func(i, j int) bool { return cb.Entries[i].CandidateID < cb.Entries[j].CandidateID })

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(cb); err != nil {
		return "", fmt.Errorf("encode ballot: %w", err)
	}
	sum := sha256.Sum256(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
	return hex.EncodeToString(sum[:]), nil
}
