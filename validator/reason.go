package validator

import "errors"

// Reason is a machine-readable classification of why a validation reached the status it did.
// It's a thin projection over the existing sentinel errors below, not a new source of truth:
// ReasonFor derives one from whatever error a validation step returned.
type Reason uint8

const (
	ReasonNone Reason = iota
	ReasonUnclassifiable
	ReasonKeysNotFound
	ReasonInvalidSignature
	ReasonInvalidTime
	ReasonDoeNotFound
	ReasonMaxDepthExceeded
	ReasonUnreachable
	ReasonUnexpectedResponse
	ReasonMalformedChain
	ReasonOther
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonUnclassifiable:
		return "unclassifiable"
	case ReasonKeysNotFound:
		return "keys-not-found"
	case ReasonInvalidSignature:
		return "invalid-signature"
	case ReasonInvalidTime:
		return "invalid-time"
	case ReasonDoeNotFound:
		return "doe-not-found"
	case ReasonMaxDepthExceeded:
		return "max-chain-depth"
	case ReasonUnreachable:
		return "unreachable"
	case ReasonUnexpectedResponse:
		return "unexpected-response"
	case ReasonMalformedChain:
		return "malformed-chain"
	default:
		return "other"
	}
}

// ReasonFor maps an error returned from the validation pipeline to a Reason. Errors that don't
// match a known sentinel fall back to ReasonOther rather than ReasonNone, so a non-nil error
// never silently reports as "no reason".
func ReasonFor(err error) Reason {
	switch {
	case err == nil:
		return ReasonNone
	case errors.Is(err, ErrKeysNotFound), errors.Is(err, ErrKeySigningKeysNotFound):
		return ReasonKeysNotFound
	case errors.Is(err, ErrInvalidSignature), errors.Is(err, ErrVerifyFailed):
		return ReasonInvalidSignature
	case errors.Is(err, ErrInvalidTime):
		return ReasonInvalidTime
	case errors.Is(err, ErrBogusDoeRecordsNotFound), errors.Is(err, ErrBogusWildcardDoeNotFound):
		return ReasonDoeNotFound
	case errors.Is(err, ErrFailsafeResponse):
		return ReasonUnclassifiable
	case errors.Is(err, ErrNSRecordsHaveMismatchingOwners), errors.Is(err, ErrNotSubdomain), errors.Is(err, ErrSameName):
		return ReasonMalformedChain
	default:
		return ReasonOther
	}
}
