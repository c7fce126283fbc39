package credential

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// IssuanceRecord marks that a credential was signed. It carries no voter id and no
// token material, so it cannot be joined to the ballot later cast with the credential.
type IssuanceRecord struct {
	ID          uuid.UUID
	Fingerprint string
	IssuedAt    time.Time
}

// NewIssuanceRecord derives the record for voter and election at issuedAt.
func NewIssuanceRecord(voterID, electionID string, issuedAt time.Time) IssuanceRecord {
	issuedAt = issuedAt.UTC()
	sum := sha256.Sum256([]byte(voterID + "|" + electionID + "|" + issuedAt.Format(time.RFC3339Nano)))
	return IssuanceRecord{
		ID:          uuid.New(),
		Fingerprint: hex.EncodeToString(sum[:]),
		IssuedAt:    issuedAt,
	}
}

// SignRequest is a voter's request for a blind signature.
type SignRequest struct {
	VoterID    string
	ElectionID string
	RSAKeyID   string
	BlindedHex string
	Nonce      string
}

// SignResult is returned to the voter, who unblinds it locally.
type SignResult struct {
	SignedBlindedHex string `json:"signed_blinded_token_hex"`
	RSAKeyID         string `json:"rsa_key_id"`
}

// Credential is what a voter presents when casting: the raw token and its unblinded
// signature. It is verified and then discarded; only its scoped hash is stored.
type Credential struct {
	Token        string
	SignatureHex string
	RSAKeyID     string
}
