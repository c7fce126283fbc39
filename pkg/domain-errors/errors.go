// Package domainerrors carries coded errors across service boundaries.
//
// Domain packages return their own typed sentinels; services translate them into
// a coded Error so transports can map them to a status without knowing the domain.
package domainerrors

import (
	"errors"
	"net/http"
)

// Code classifies an error for callers. Codes are stable wire values.
type Code string

const (
	CodeBadRequest         Code = "bad_request"
	CodeValidation         Code = "validation_error"
	CodeInvalidInput       Code = "invalid_input"
	CodeUnauthorized       Code = "unauthorized"
	CodeForbidden          Code = "forbidden"
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodeInvariantViolation Code = "invariant_violation"
	CodeTimeout            Code = "timeout"
	CodeInternal           Code = "internal_error"

	// Voting policy codes. Surfaced as rejections distinct from malformed input.
	CodeAlreadyIssued         Code = "token_already_issued_for_this_election"
	CodeAlreadyVoted          Code = "token_already_used"
	CodeElectionNotOpen       Code = "election_not_open"
	CodeElectionNotEnded      Code = "election_not_ended"
	CodeTallyAlreadyGenerated Code = "tally_already_generated"
	CodeNonceRequired         Code = "nonce_invalid_or_expired"

	// Cryptographic verification failures.
	CodeKeyMismatch      Code = "key_mismatch_for_election"
	CodeInvalidSignature Code = "invalid_signature"

	// Integrity failures (chain breaks, sequence races).
	CodeIntegrity Code = "integrity_failure"
)

// Error is a coded error with a caller-safe message.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a coded error.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Wrap attaches a code and message to an underlying error.
// Returns nil if err is nil.
func Wrap(err error, code Code, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// CodeOf returns the outermost code in the chain, or CodeInternal for uncoded errors.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// HasCode reports whether the outermost coded error in the chain carries code.
func HasCode(err error, code Code) bool {
	var de *Error
	if !errors.As(err, &de) {
		return false
	}
	return de.Code == code
}

// Is reports whether err is a coded error with the given code.
func Is(err error, code Code) bool {
	return err != nil && HasCode(err, code)
}

// ToHTTPStatus maps a code to a response status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest, CodeValidation, CodeInvalidInput, CodeKeyMismatch, CodeInvalidSignature:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden, CodeAlreadyIssued, CodeAlreadyVoted, CodeNonceRequired:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeElectionNotOpen, CodeElectionNotEnded, CodeTallyAlreadyGenerated,
		CodeInvariantViolation:
		return http.StatusConflict
	case CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
