package tally

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"sort"
	"strconv"
	"time"
)

// CountStatus distinguishes a plausible count from the two anomaly sentinels.
type CountStatus string

const (
	CountOK               CountStatus = "ok"
	CountOverflow         CountStatus = "overflow"
	CountDecryptionFailed CountStatus = "decryption_failed"
)

// Count is a decrypted per-candidate total as it may be displayed. Sentinel
// counts never report a plausible number.
type Count struct {
	Value  int64       `json:"-"`
	Raw    string      `json:"-"`
	Status CountStatus `json:"-"`
}

// Classify applies the display policy to a decryption outcome.
func Classify(v *big.Int, err error, maxReasonable int64) Count {
	if err != nil || v == nil || v.Sign() < 0 {
		return Count{Status: CountDecryptionFailed}
	}
	if !v.IsInt64() || (maxReasonable > 0 && v.Int64() > maxReasonable) {
		return Count{Status: CountOverflow, Raw: v.String()}
	}
	return Count{Value: v.Int64(), Raw: v.String(), Status: CountOK}
}

func (c Count) OK() bool { return c.Status == CountOK }

func (c Count) String() string {
	switch c.Status {
	case CountOverflow:
		return "Overflow(" + c.Raw + ")"
	case CountDecryptionFailed:
		return "Decryption Failed"
	default:
		return strconv.FormatInt(c.Value, 10)
	}
}

// MarshalJSON emits a number for plausible counts and the sentinel string otherwise.
func (c Count) MarshalJSON() ([]byte, error) {
	if c.OK() {
		return []byte(strconv.FormatInt(c.Value, 10)), nil
	}
	return json.Marshal(c.String())
}

// Row is one candidate line of a tally.
type Row struct {
	CandidateID   string `json:"candidate_id"`
	CandidateName string `json:"candidate_name"`
	Total         Count  `json:"total"`
}

// Commitment binds a published count to the election with a random salt, so the
// count can be disclosed and checked later.
type Commitment struct {
	CandidateID string `json:"candidate_id"`
	Count       string `json:"vote_count"`
	ElectionID  string `json:"election_id"`
	Salt        string `json:"salt"`
	Hash        string `json:"commitment"`
}

// NewCommitment draws an 8 byte salt and commits to count.
func NewCommitment(electionID, candidateID string, count Count) (Commitment, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return Commitment{}, fmt.Errorf("draw commitment salt: %w", err)
	}
	c := Commitment{
		CandidateID: candidateID,
		Count:       count.String(),
		ElectionID:  electionID,
		Salt:        hex.EncodeToString(b[:]),
	}
	c.Hash = CommitmentHash(c.CandidateID, c.Count, c.ElectionID, c.Salt)
	return c, nil
}

// CommitmentHash is sha256("candidate|count|election|salt") in hex.
func CommitmentHash(candidateID, count, electionID, salt string) string {
	sum := sha256.Sum256([]byte(candidateID + "|" + count + "|" + electionID + "|" + salt))
	return hex.EncodeToString(sum[:])
}

// Verify reports whether the commitment hash matches its disclosed fields.
func (c Commitment) Verify() bool {
	return CommitmentHash(c.CandidateID, c.Count, c.ElectionID, c.Salt) == c.Hash
}

// Result is a complete tally of one election.
type Result struct {
	ElectionID  string       `json:"election_id"`
	Rows        []Row        `json:"tally"`
	WinnerIDs   []string     `json:"winner_ids"`
	Commitments []Commitment `json:"commitments"`
	BallotCount int          `json:"ballot_count"`
	ComputedAt  time.Time    `json:"computed_at"`
	Final       bool         `json:"final"`
}

// Winners returns every candidate tied at the highest plausible total, in row order.
// Sentinel rows never win. No rows, or only sentinel rows, yields no winner.
func Winners(rows []Row) []string {
	var best int64 = -1
	for _, r := range rows {
		if r.Total.OK() && r.Total.Value > best {
			best = r.Total.Value
		}
	}
	winners := []string{}
	if best < 0 {
		return winners
	}
	for _, r := range rows {
		if r.Total.OK() && r.Total.Value == best {
			winners = append(winners, r.CandidateID)
		}
	}
	return winners
}

// StoredTally is the persisted per-candidate outcome.
type StoredTally struct {
	ElectionID  string
	CandidateID string
	Total       Count
	Commitment  Commitment
	ComputedAt  time.Time
}

// ResultStatus of the public results view.
type ResultStatus string

const (
	ResultPending ResultStatus = "pending"
	ResultFinal   ResultStatus = "final"
)

// ResultRow is one candidate on the public results view. Total is nil while pending.
type ResultRow struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Total      *Count     `json:"total"`
	ComputedAt *time.Time `json:"computed_at,omitempty"`
}

// Results is the public results read model.
type Results struct {
	Status      ResultStatus `json:"status"`
	ElectionID  string       `json:"election_id"`
	Candidates  []ResultRow  `json:"candidates"`
	WinnerIDs   []string     `json:"winner_ids"`
	LastUpdated *time.Time   `json:"last_updated,omitempty"`
}

// SortResultRows orders final rows by descending total then name. Sentinel totals sort last.
func SortResultRows(rows []ResultRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rank(rows[i].Total), rank(rows[j].Total)
		if a != b {
			return a > b
		}
		return rows[i].Name < rows[j].Name
	})
}

func rank(c *Count) int64 {
	if c == nil || !c.OK() {
		return -1
	}
	return c.Value
}
