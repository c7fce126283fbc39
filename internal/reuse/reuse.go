// Package reuse scopes credentials to an election. The scoped hash is the only form
// in which a spent credential is ever stored, and its uniqueness per election is
// what rejects a replayed ballot.
package reuse

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"regexp"
)

// Tracker bounds: voters pick at least 8 random bytes, hex encoded.
const (
	MinTrackerLen = 16
	MaxTrackerLen = 64
)

var (
	ErrInvalidTracker = errors.New("tracker must be 16-64 lowercase hex characters")

	trackerPattern = regexp.MustCompile(`^[0-9a-f]+$`)
)

// ScopedCredentialHash is sha256("election_id|token") in hex.
func ScopedCredentialHash(electionID, token string) string {
	return sum(electionID, token)
}

// LeafHash is the bulletin board leaf for a ballot: sha256("election_id|scoped|tracker").
func LeafHash(electionID, scopedHash, tracker string) string {
	return sum(electionID, scopedHash, tracker)
}

// ValidateTracker checks the voter chosen tracker format.
func ValidateTracker(tracker string) error {
	if len(tracker) < MinTrackerLen || len(tracker) > MaxTrackerLen || !trackerPattern.MatchString(tracker) {
		return ErrInvalidTracker
	}
	return nil
}

func sum(parts ...string) string {
	h := sha256.New()
	for i, p := range parts {
		if i > 0 {
			h.Write([]byte{'|'})
		}
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}
