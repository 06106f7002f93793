package services

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindStateConflict
	KindResource
	KindTransaction
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindStateConflict:
		return "state_conflict"
	case KindResource:
		return "resource"
	case KindTransaction:
		return "transaction"
	default:
		return "unknown"
	}
}

// Error is the failure type surfaced by the engine. Code is a stable dotted key in the
// finex style, Message is what a member or admin gets to read.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind ErrorKind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

var (
	ErrInvalidAmount   = newError(KindValidation, "engine.invalid_amount", "Amount must be greater than zero")
	ErrInvalidCount    = newError(KindValidation, "engine.invalid_count", "Count is out of the allowed range")
	ErrInvalidCode     = newError(KindValidation, "epin.invalid_code", "Pin code is required")
	ErrInvalidPeriod   = newError(KindValidation, "engine.invalid_period", "Period is invalid")
	ErrInvalidCategory = newError(KindValidation, "ledger.invalid_category", "Ledger category is required")
	ErrInvalidExpiry   = newError(KindValidation, "epin.invalid_expiry", "Expiry days must not be negative")

	ErrInsufficientBalance = newError(KindStateConflict, "wallet.insufficient_balance", "Insufficient balance")
	ErrTokenNotAvailable   = newError(KindStateConflict, "epin.not_available", "E-Pin is not available")
	ErrTokenExpired        = newError(KindStateConflict, "epin.expired", "E-Pin has expired")
	ErrRewardAlreadyPaid   = newError(KindStateConflict, "reward.already_paid", "Reward has already been paid")
	ErrRankAlreadyAchieved = newError(KindStateConflict, "rank.already_achieved", "Rank has already been achieved")
	ErrRankDowngrade       = newError(KindStateConflict, "rank.downgrade", "Rank can only move upwards")
	ErrMemberSuspended     = newError(KindStateConflict, "member.suspended", "Member is suspended")

	ErrMemberNotFound = newError(KindResource, "member.not_found", "Member not found")
	ErrWalletNotFound = newError(KindResource, "wallet.not_found", "Wallet not found")
	ErrRankNotFound   = newError(KindResource, "rank.not_found", "Rank not found")
	ErrRewardNotFound = newError(KindResource, "reward.not_found", "Reward not found")
	ErrTokenNotFound  = newError(KindResource, "epin.not_found", "E-Pin not found")

	ErrTreeTooLarge = newError(KindTransaction, "graph.tree_too_large", "Sponsor tree exceeds the traversal bound")
)

// detailed keeps the kind and code of base but replaces the message.
func detailed(base *Error, format string, args ...interface{}) error {
	return &detailedError{base: base, message: fmt.Sprintf(format, args...)}
}

type detailedError struct {
	base    *Error
	message string
}

func (e *detailedError) Error() string { return e.message }
func (e *detailedError) Unwrap() error { return e.base }

// AsError classifies err and returns the message safe to show to a caller. Anything that is
// not an engine error is reported as a transactional failure with a generic message.
func AsError(err error) (*Error, string) {
	if err == nil {
		return nil, ""
	}

	var e *Error
	if errors.As(err, &e) {
		var d *detailedError
		if errors.As(err, &d) {
			return e, d.message
		}
		return e, e.Message
	}

	internal := &Error{Kind: KindTransaction, Code: "server.internal_error", Message: "Internal error"}
	return internal, internal.Message
}

func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
