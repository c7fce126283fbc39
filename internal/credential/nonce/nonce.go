// Package nonce is the expiring key/value capability used for one-time issuance
// challenges. State lives outside the process so that any replica can redeem a
// challenge issued by another.
package nonce

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// KV is an expiring key/value store. Get and Take return ok=false when the key is
// absent or expired; absence is not an error.
type KV interface {
	Put(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Delete(ctx context.Context, key string) error
	// Take atomically reads and deletes key.
	Take(ctx context.Context, key string) (value string, ok bool, err error)
}

// New returns a random 32 byte challenge, hex encoded.
func New() (string, error) {
	var b [32]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	return hex.EncodeToString(b[:]), nil
}

// IssuanceKey scopes a challenge to one voter and election.
func IssuanceKey(voterID, electionID string) string {
	return "issuance:" + electionID + ":" + voterID
}
