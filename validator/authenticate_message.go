package validator

import (
	"context"
	"github.com/miekg/dns"
)

// AuthenticateResponse authenticates a single response message against a zone whose DNSKEY set
// has already been established as trusted (typically via KeyCache.Walk), splitting it into a
// delegating, positive or negative response by its SOA/NS/answer records and running the matching
// validator. It does not re-fetch or re-verify the zone's own DNSKEY RRset: that trust was
// already established when the zone's KeyEntry was built.
func AuthenticateResponse(ctx context.Context, zoneName string, keys []*dns.DNSKEY, dsRecords []*dns.DS, msg *dns.Msg) (AuthenticationResult, DenialOfExistenceState, error) {
	r := &result{
		zone:      &cacheZone{dns.CanonicalName(zoneName)},
		msg:       msg,
		dsRecords: dsRecords,
	}

	// Recorded so downstream NSEC3 iteration-policy checks know which signing keys are in play,
	// mirroring what verifyDNSKEYs would have populated had it run as part of this call.
	r.keys = make(signatures, len(keys))
	for i, k := range keys {
		r.keys[i] = &signature{key: k}
	}

	status, err := verifyRRSETs(ctx, r, keys)
	if status != Unknown || err != nil {
		return status, r.denialOfExistence, err
	}

	soaFoundInAuthority := recordsOfTypeExist(r.msg.Ns, dns.TypeSOA)

	switch {
	case !soaFoundInAuthority && len(r.msg.Answer) == 0 && recordsOfTypeExist(r.msg.Ns, dns.TypeNS):
		status, err = validateDelegatingResponse(ctx, r)
	case !soaFoundInAuthority && len(r.msg.Answer) > 0:
		status, err = validatePositiveResponse(ctx, r)
	case soaFoundInAuthority:
		status, err = validateNegativeResponse(ctx, r)
	default:
		status, err = Bogus, ErrFailsafeResponse
	}

	return status, r.denialOfExistence, err
}
