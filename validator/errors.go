package validator

import (
	"errors"
)

// Key and signature errors: reasons a zone's own DNSKEY RRset, or the signatures covering a
// response, failed to authenticate.
var (
	ErrKeysNotFound               = errors.New("no dnskey records found for zone")
	ErrKeySigningKeysNotFound     = errors.New("no dnskey records found that match the parent ds records")
	ErrAuthSignerNameMismatch     = errors.New("auth signer name does not match the zone's origin")
	ErrSignatureSetEmpty          = errors.New("cannot verify an empty signature set")
	ErrUnableToVerify             = errors.New("unable to verify signature")
	ErrVerifyFailed               = errors.New("signature verification failed")
	ErrInvalidTime                = errors.New("current time is outside of the msg validity period")
	ErrInvalidSignature           = errors.New("msg signature is invalid")
	ErrInvalidLabelCount          = errors.New("number of labels in the rrset owner name is less the value in the rrsig rr's labels field")
	ErrUnexpectedSignatureCount   = errors.New("an unexpected number of rrsig records were found given the rrsets seen")
	ErrMultipleWildcardSignatures = errors.New("multiple wildcard signatures seen")
	ErrSignerNameNotParentOfQName = errors.New("the signer name is not a parent of the qname")
)

// Response-shape errors: the message doesn't carry what its classification needs in order to be
// checked at all.
var (
	ErrNSRecordsHaveMismatchingOwners = errors.New("the ns records in the authority section do not have matching owners")
	ErrFailsafeResponse               = errors.New("unable to determine if response is delegating, positive or negative. we fail-safe to bogus")
	ErrNotSubdomain                    = errors.New("domain is not a subdomain of another")
	ErrSameName                        = errors.New("domain names are the same")
)

// Denial-of-existence and overall-verdict errors.
var (
	ErrBogusResultFound        = errors.New("we've deemed the result bogus")
	ErrBogusDoeRecordsNotFound = errors.New("denial of existence records missing")
	ErrBogusWildcardDoeNotFound = errors.New("missing doe for qname when answer synthesised from a wildcard")
)
