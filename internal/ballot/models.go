package ballot

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"evote/internal/credential"
	"evote/internal/tally"
)

// Submission is what the voter chose: either a plaintext candidate the server
// encrypts, or a ballot already encrypted by the client. It is resolved to
// ciphertexts once, before anything is stored.
type Submission interface {
	isSubmission()
}

// LegacyChoice is a plaintext choice from clients that cannot encrypt locally.
type LegacyChoice struct {
	CandidateID string
}

// EncryptedBallot is a client encrypted one-hot ballot.
type EncryptedBallot struct {
	Scheme  string        `json:"scheme"`
	KeyID   string        `json:"key_id"`
	Entries []tally.Entry `json:"entries"`
}

func (LegacyChoice) isSubmission()    {}
func (EncryptedBallot) isSubmission() {}

var ErrUnsupportedScheme = errors.New("unsupported ballot scheme")

// CastRequest is a ballot submission with the credential that authorizes it.
type CastRequest struct {
	ElectionID string
	Credential credential.Credential
	Tracker    string
	Submission Submission
}

// Ballot is a stored ballot. It carries the scoped credential hash and never the token.
type Ballot struct {
	ID         uuid.UUID
	ElectionID string
	ScopedHash string
	KeyID      string
	Entries    []tally.CiphertextEntry
	CastAt     time.Time
}

// Receipt confirms acceptance and where the ballot sits on the board.
type Receipt struct {
	ElectionID     string    `json:"election_id"`
	Tracker        string    `json:"tracker"`
	Position       int64     `json:"position"`
	LeafHash       string    `json:"leaf_hash"`
	CommitmentHash string    `json:"commitment_hash"`
	CastAt         time.Time `json:"cast_at"`
}

// wireEntry accepts "c" as an alias of "ciphertext" for older clients.
type wireEntry struct {
	CandidateID string `json:"candidate_id"`
	Ciphertext  string `json:"ciphertext"`
	C           string `json:"c"`
	Exponent    *int   `json:"exponent"`
}

// UnmarshalJSON decodes an encrypted ballot, tolerating the short entry key.
// A ballot level "exponent" applies to entries that do not carry their own.
func (b *EncryptedBallot) UnmarshalJSON(data []byte) error {
	var raw struct {
		Scheme   string      `json:"scheme"`
		KeyID    string      `json:"key_id"`
		Exponent int         `json:"exponent"`
		Entries  []wireEntry `json:"entries"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	b.Scheme, b.KeyID = raw.Scheme, raw.KeyID
	b.Entries = make([]tally.Entry, len(raw.Entries))
	for i, e := range raw.Entries {
		c := e.Ciphertext
		if c == "" {
			c = e.C
		}
		exp := raw.Exponent
		if e.Exponent != nil {
			exp = *e.Exponent
		}
		b.Entries[i] = tally.Entry{CandidateID: e.CandidateID, Ciphertext: c, Exponent: exp}
	}
	return nil
}
