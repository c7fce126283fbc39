// Package auditchain keeps the tamper-evident log of privileged actions. Each entry
// commits to its predecessor's hash, so editing or removing any stored entry breaks
// the link that follows it.
package auditchain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Genesis is the prev_hash of the first entry.
var Genesis = strings.Repeat("0", 64)

// TimestampLayout is the canonical timestamp inside the hashed payload: UTC,
// whole seconds.
const TimestampLayout = "2006-01-02T15:04:05Z"

// Entry is one privileged action. Entries are append-only; ids start at 1 and
// increase without gaps.
type Entry struct {
	ID            int64     `json:"id"`
	Actor         string    `json:"actor"`
	Role          string    `json:"role"`
	Action        string    `json:"action"`
	Timestamp     time.Time `json:"timestamp"`
	SourceAddress string    `json:"source_address"`
	PrevHash      string    `json:"prev_hash"`
	EntryHash     string    `json:"entry_hash"`
}

// Break is a link whose stored prev_hash does not match the hash recomputed from
// the entry before it.
type Break struct {
	ID           int64  `json:"id"`
	StoredPrev   string `json:"stored_prev"`
	ExpectedPrev string `json:"expected_prev"`
}

// EntryHash computes sha256("prev|actor|role|action|timestamp|source").
func EntryHash(prevHash, actor, role, action string, ts time.Time, source string) string {
	payload := strings.Join([]string{
		prevHash, actor, role, action, ts.UTC().Format(TimestampLayout), source,
	}, "|")
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// Recompute returns the hash the entry's stored fields commit to.
func (e Entry) Recompute() string {
	return EntryHash(e.PrevHash, e.Actor, e.Role, e.Action, e.Timestamp, e.SourceAddress)
}

// Next builds the entry that follows tail. A nil tail starts the chain.
func Next(tail *Entry, actor, role, action string, ts time.Time, source string) Entry {
	e := Entry{
		ID:            1,
		Actor:         actor,
		Role:          role,
		Action:        action,
		Timestamp:     ts.UTC().Truncate(time.Second),
		SourceAddress: source,
		PrevHash:      Genesis,
	}
	if tail != nil {
		e.ID = tail.ID + 1
		e.PrevHash = tail.EntryHash
	}
	e.EntryHash = e.Recompute()
	return e
}

// Verify walks entries in id order and returns every link break. The expected
// prev_hash of an entry is recomputed from the previous entry's stored fields, so an
// edited entry shows up as a break at its successor while everything before it stays
// verifiable. An empty result means the chain is intact.
func Verify(entries []Entry) []Break {
	var breaks []Break
	expected := Genesis
	for _, e := range entries {
		if e.PrevHash != expected {
			breaks = append(breaks, Break{ID: e.ID, StoredPrev: e.PrevHash, ExpectedPrev: expected})
		}
		expected = e.Recompute()
	}
	return breaks
}

// Tampered returns the ids of entries whose stored entry_hash no longer matches their
// fields. This catches an edit to the last entry, which has no successor to break.
func Tampered(entries []Entry) []int64 {
	var ids []int64
	for _, e := range entries {
		if e.Recompute() != e.EntryHash {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// Report is the result of checking a stored chain.
type Report struct {
	Intact    bool      `json:"intact"`
	Count     int       `json:"count"`
	Breaks    []Break   `json:"breaks"`
	Tampered  []int64   `json:"tampered"`
	CheckedAt time.Time `json:"checked_at"`
	HeadHash  string    `json:"head_hash"`
}

// Check runs both Verify and Tampered over entries.
func Check(entries []Entry, now time.Time) Report {
	r := Report{
		Count:     len(entries),
		Breaks:    Verify(entries),
		Tampered:  Tampered(entries),
		CheckedAt: now.UTC(),
		HeadHash:  Genesis,
	}
	if len(entries) > 0 {
		r.HeadHash = entries[len(entries)-1].EntryHash
	}
	if r.Breaks == nil {
		r.Breaks = []Break{}
	}
	if r.Tampered == nil {
		r.Tampered = []int64{}
	}
	r.Intact = len(r.Breaks) == 0 && len(r.Tampered) == 0
	return r
}
