package bulletin

import "time"

// Entry is one bulletin board leaf. Position is 0-based and gap-free per election.
type Entry struct {
	ElectionID     string
	Position       int64
	Tracker        string
	ScopedHash     string
	LeafHash       string
	CommitmentHash string
	CreatedAt      time.Time
}

// Item is the public projection of an entry. The scoped credential hash is not listed.
type Item struct {
	Index          int64  `json:"index"`
	Tracker        string `json:"tracker"`
	CommitmentHash string `json:"commitment_hash"`
	LeafHash       string `json:"leaf_hash"`
	PublishedAt    int64  `json:"published_at"`
}

// View is the full board of one election. Root always covers every entry even when
// Items is filtered.
type View struct {
	ElectionID string `json:"election_id"`
	Count      int    `json:"count"`
	Root       string `json:"root"`
	Items      []Item `json:"items"`
}

// Query selects a leaf by tracker or scoped credential hash. Tracker wins when both are set.
type Query struct {
	Tracker    string
	ScopedHash string
}

// ProofEntry is the inclusion proof for one leaf.
type ProofEntry struct {
	ElectionID     string   `json:"election_id"`
	Tracker        string   `json:"tracker"`
	CommitmentHash string   `json:"commitment_hash"`
	Index          int64    `json:"index"`
	LeafHash       string   `json:"leaf_hash"`
	MerklePath     []string `json:"merkle_path"`
	Root           string   `json:"root"`
	PublishedAt    int64    `json:"published_at"`
}

// Proof is the lookup result. Found=false is a normal answer, not an error.
type Proof struct {
	Found bool        `json:"found"`
	Count int         `json:"count"`
	Root  string      `json:"root,omitempty"`
	Entry *ProofEntry `json:"entry,omitempty"`
}

// Receipt is what a voter keeps after casting, and what receipt lookup returns.
type Receipt struct {
	Found          bool     `json:"found"`
	ElectionID     string   `json:"election_id,omitempty"`
	Tracker        string   `json:"tracker,omitempty"`
	Position       int64    `json:"position"`
	LeafHash       string   `json:"leaf_hash,omitempty"`
	CommitmentHash string   `json:"commitment_hash,omitempty"`
	MerklePath     []string `json:"merkle_path,omitempty"`
	Root           string   `json:"root,omitempty"`
	Verified       bool     `json:"verified"`
	PublishedAt    int64    `json:"published_at,omitempty"`
}

func (e Entry) item() Item {
	return Item{
		Index:          e.Position,
		Tracker:        e.Tracker,
		CommitmentHash: e.CommitmentHash,
		LeafHash:       e.LeafHash,
		PublishedAt:    e.CreatedAt.Unix(),
	}
}
