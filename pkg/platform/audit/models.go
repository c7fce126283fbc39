// Package audit carries security events: cryptographic verification failures,
// replay attempts and integrity breaks that an operator or SIEM should see.
//
// It is separate from the audit chain. The chain is the tamper-evident record of
// privileged actions; these events are best-effort telemetry about attacks and
// anomalies and may be dropped under load.
package audit

import (
	"time"

	"github.com/google/uuid"
)

// Severity levels for security events.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Action names the kind of anomaly.
type Action string

const (
	ActionInvalidSignature   Action = "invalid_signature"
	ActionKeyMismatch        Action = "key_mismatch"
	ActionReplayRejected     Action = "replay_rejected"
	ActionDoubleIssuance     Action = "double_issuance_attempt"
	ActionMalformedBallot    Action = "malformed_ballot"
	ActionSuspiciousActivity Action = "suspicious_activity"
	ActionSequenceRace       Action = "sequence_race"
)

// Reasons attached to suspicious activity flags.
const (
	ReasonAdminLogChainMismatch = "ADMIN_LOG_CHAIN_MISMATCH"
	ReasonBoardPositionRace     = "WBB_POSITION_RACE"
)

// SecurityEvent captures one security-relevant occurrence.
// Subject never holds a raw credential token; use a scoped hash or the election id.
type SecurityEvent struct {
	ID         uuid.UUID `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	ElectionID string    `json:"election_id,omitempty"`
	Subject    string    `json:"subject,omitempty"`
	Action     Action    `json:"action"`
	Reason     string    `json:"reason,omitempty"`
	IP         string    `json:"ip,omitempty"`
	Client     string    `json:"client,omitempty"`
	RequestID  string    `json:"request_id,omitempty"`
	ActorID    string    `json:"actor_id,omitempty"`
	Severity   Severity  `json:"severity"`
}

// SeverityFor returns the default severity of an action.
func SeverityFor(a Action) Severity {
	switch a {
	case ActionSuspiciousActivity, ActionSequenceRace:
		return SeverityCritical
	case ActionInvalidSignature, ActionKeyMismatch, ActionReplayRejected, ActionDoubleIssuance:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}
