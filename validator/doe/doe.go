// Package doe implements the denial-of-existence proofs (RFC 4035, RFC 5155) the stub resolver
// needs in two places: proving a negative answer from upstream is authentic, and proving a
// delegation legitimately carries no DS record before the key-cache walker treats it as insecure.
package doe

import (
	"context"
	"github.com/miekg/dns"
)

// DenialOfExistenceNSEC holds the NSEC records returned alongside a response from a single zone,
// scoped to that zone so covering checks never cross a zone cut.
type DenialOfExistenceNSEC struct {
	ctx     context.Context
	zone    string
	records []*dns.NSEC
}

// DenialOfExistenceNSEC3 holds the NSEC3 records usable for proofs in zone: records with an
// unrecognised hash algorithm or a flags value other than 0 or 1 (opt-out) are dropped at
// construction, per RFC 5155 section 8.1.
type DenialOfExistenceNSEC3 struct {
	ctx     context.Context
	zone    string
	records []*dns.NSEC3
}

func NewDenialOfExistenceNSEC(ctx context.Context, zone string, records []*dns.NSEC) *DenialOfExistenceNSEC {
	return &DenialOfExistenceNSEC{
		ctx:     ctx,
		zone:    zone,
		records: records,
	}
}

func NewDenialOfExistenceNSEC3(ctx context.Context, zone string, records []*dns.NSEC3) *DenialOfExistenceNSEC3 {
	return &DenialOfExistenceNSEC3{
		ctx:     ctx,
		zone:    zone,
		records: filterUsableNSEC3Records(records),
	}
}

// filterUsableNSEC3Records drops NSEC3 records the resolver cannot evaluate: an unknown hash
// algorithm, or a flags value outside the 0/1 (opt-out) range defined by RFC 5155 section 3.1.2.
func filterUsableNSEC3Records(records []*dns.NSEC3) []*dns.NSEC3 {
	usable := make([]*dns.NSEC3, 0, len(records))
	for _, r := range records {
		if r.Hash != dns.SHA1 {
			continue
		}
		if r.Flags > 1 {
			continue
		}
		usable = append(usable, r)
	}
	return usable
}

func (doe *DenialOfExistenceNSEC) Empty() bool {
	return len(doe.records) == 0
}

func (doe *DenialOfExistenceNSEC3) Empty() bool {
	return len(doe.records) == 0
}
