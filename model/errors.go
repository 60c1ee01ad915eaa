package model

import "errors"

// Kind is a stable failure category for programmatic error handling.
//
// The set is closed: every structural failure in the verification core is
// one of these. Callers should branch on Kind/RuleID rather than matching
// error strings.
//
// NOTE: Error() strings are intentionally human-readable and may evolve.
// Use errors.As to extract *Error for structured handling.
type Kind string

const (
	// KindInvalidLength reports an input buffer that is not the required
	// fixed size (e.g. a public key that is not PublicKeySize bytes).
	KindInvalidLength Kind = "InvalidLength"

	// KindMalformedProof reports a structurally invalid Merkle proof:
	// wrong length, out-of-range index, or a side that contradicts the
	// claimed position.
	KindMalformedProof Kind = "MalformedProof"

	// KindHashingFailed reports an internal digest-library failure.
	KindHashingFailed Kind = "HashingFailed"
)

// Error is the core's structured error type.
//
// RuleID is a stable identifier (e.g. SL-LEN-001, SL-PRF-002) naming the
// violated invariant. Message is intended for humans; do not match on it.
//
// A verification mismatch (wrong nonce, tampered content, wrong root) is
// never an Error: those are ordinary false results.
type Error struct {
	Kind    Kind
	RuleID  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// NewError constructs a structured core error.
func NewError(kind Kind, ruleID, msg string) error {
	return &Error{Kind: kind, RuleID: ruleID, Message: msg}
}

// WrapError constructs a structured core error wrapping a cause.
func WrapError(kind Kind, ruleID, msg string, cause error) error {
	if cause == nil {
		return NewError(kind, ruleID, msg)
	}
	return &Error{Kind: kind, RuleID: ruleID, Message: msg, Cause: cause}
}

// IsKind reports whether err is (or wraps) a *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// RuleID returns the stable RuleID for a structured error, or "" if unknown.
func RuleID(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.RuleID
}
