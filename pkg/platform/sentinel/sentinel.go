package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally wrapped)
// so services can translate them into domain errors.
//
// They describe the state of persisted records, not the validity of input:
// - ErrNotFound: record does not exist
// - ErrConflict: a sequence slot or key was taken by a concurrent writer
// - ErrExpired: a nonce or challenge outlived its TTL
// - ErrAlreadyUsed: a one-shot record (issuance guard, scoped credential) already exists
// - ErrInvalidState: record is in the wrong lifecycle state for the operation
// - ErrUnavailable: backing service temporarily unavailable
//
// Expected absence on reads is returned as (nil, nil), not ErrNotFound.
// For validation errors use pkg/domain-errors directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrExpired      = errors.New("expired")
	ErrAlreadyUsed  = errors.New("already used")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
