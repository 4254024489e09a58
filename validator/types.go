package validator

import (
	"github.com/miekg/dns"
)

// Zone is a source of a zone's own DNSKEY RRset. KeyCache.Walk builds one internally (see
// cacheZone in keycache.go) for every hop it authenticates.
type Zone interface {
	Name() string
	GetDNSKEYRecords() ([]dns.RR, error)
}

// result accumulates everything known about validating a single message against a single zone:
// the DNSKEY set it was checked against, which RRsets it signed successfully, and whatever
// denial-of-existence or delegation state fell out of classifying it.
type result struct {
	zone Zone
	msg  *dns.Msg

	keys      signatures
	answer    signatures
	authority signatures

	dsRecords []*dns.DS

	denialOfExistence DenialOfExistenceState
}

type signatures []*signature

// Represents a single signature (rrsig), along with its key, and the records is signs.
type signature struct {
	zone string

	name  string
	rtype uint16

	key   *dns.DNSKEY
	rrsig *dns.RRSIG
	rrset []dns.RR

	wildcard bool

	verified bool
	err      error

	dsSha256 string // For debugging
}
