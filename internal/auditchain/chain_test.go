package auditchain

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildChain(actions ...string) []Entry {
	ts := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	var out []Entry
	var tail *Entry
	for i, a := range actions {
		e := Next(tail, "admin@example.org", "admin", a, ts.Add(time.Duration(i)*time.Minute), "10.0.0.1")
		out = append(out, e)
		tail = &out[len(out)-1]
	}
	return out
}

func TestEntryHashPayload(t *testing.T) {
	ts := time.Date(2026, 2, 1, 8, 0, 0, 900_000_000, time.FixedZone("CET", 3600))
	sum := sha256.Sum256([]byte(Genesis + "|alice|admin|START_ELECTION|2026-02-01T07:00:00Z|10.0.0.1"))
	assert.Equal(t, hex.EncodeToString(sum[:]), EntryHash(Genesis, "alice", "admin", "START_ELECTION", ts, "10.0.0.1"))
}

func TestNext(t *testing.T) {
	chain := buildChain("CREATE_ELECTION", "START_ELECTION")

	assert.Equal(t, int64(1), chain[0].ID)
	assert.Equal(t, Genesis, chain[0].PrevHash)
	assert.Equal(t, int64(2), chain[1].ID)
	assert.Equal(t, chain[0].EntryHash, chain[1].PrevHash)
	assert.Len(t, chain[1].EntryHash, 64)
}

func TestVerify(t *testing.T) {
	t.Run("empty chain is intact", func(t *testing.T) {
		assert.Empty(t, Verify(nil))
	})

	t.Run("untouched chain is intact", func(t *testing.T) {
		assert.Empty(t, Verify(buildChain("A", "B", "C")))
	})

	t.Run("editing B breaks the link at C only", func(t *testing.T) {
		chain := buildChain("A", "B", "C")
		chain[1].Action = "TALLY_ELECTION"

		breaks := Verify(chain)
		require.Len(t, breaks, 1)
		assert.Equal(t, int64(3), breaks[0].ID)
		assert.Equal(t, chain[2].PrevHash, breaks[0].StoredPrev)
		assert.Equal(t, chain[1].Recompute(), breaks[0].ExpectedPrev)

		assert.Empty(t, Verify(chain[:1]), "A stays verifiable on its own")
	})

	t.Run("first entry must start from genesis", func(t *testing.T) {
		chain := buildChain("A")
		chain[0].PrevHash = "ab"

		breaks := Verify(chain)
		require.Len(t, breaks, 1)
		assert.Equal(t, Genesis, breaks[0].ExpectedPrev)
	})

	t.Run("deleted entry breaks the link after it", func(t *testing.T) {
		chain := buildChain("A", "B", "C", "D")
		chain = append(chain[:1], chain[2:]...)

		breaks := Verify(chain)
		require.Len(t, breaks, 1)
		assert.Equal(t, int64(3), breaks[0].ID)
	})
}

func TestCheck(t *testing.T) {
	t.Run("edit to the tail shows as tampered", func(t *testing.T) {
		chain := buildChain("A", "B")
		chain[1].Actor = "mallory"

		r := Check(chain, time.Now())
		assert.False(t, r.Intact)
		assert.Empty(t, r.Breaks)
		assert.Equal(t, []int64{2}, r.Tampered)
	})

	t.Run("intact chain reports its head", func(t *testing.T) {
		chain := buildChain("A", "B")
		r := Check(chain, time.Now())
		assert.True(t, r.Intact)
		assert.Equal(t, 2, r.Count)
		assert.Equal(t, chain[1].EntryHash, r.HeadHash)
	})
}
