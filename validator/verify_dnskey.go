package validator

import (
	"context"
	"fmt"
	"github.com/miekg/dns"
	"strings"
)

// preferredDigests filters records down to those using the most preferred digest type present,
// per DigestPreference. If none of the records use a listed digest type, all are returned
// unfiltered so an unrecognised-but-possibly-valid digest type is never silently dropped.
func preferredDigests(records []*dns.DS) []*dns.DS {
	for _, digestType := range DigestPreference {
		var matching []*dns.DS
		for _, d := range records {
			if d.DigestType == digestType {
				matching = append(matching, d)
			}
		}
		if len(matching) > 0 {
			return matching
		}
	}
	return records
}

func verifyDNSKEYs(ctx context.Context, r *result, keys []dns.RR, dsRecordsFromParent []*dns.DS) (AuthenticationResult, error) {

	zoneKeys := extractRecords[*dns.DNSKEY](keys)
	if len(zoneKeys) == 0 {
		return Insecure, ErrKeysNotFound
	}

	//---

	// keySigningKeys are the zone's keys have a matching DS record from the parent zone.
	// These are the keys that are allowed to sign the DNSKEY rrset.
	dsByAlgorithm := make(map[uint8][]*dns.DS, len(dsRecordsFromParent))
	for _, d := range dsRecordsFromParent {
		dsByAlgorithm[d.Algorithm] = append(dsByAlgorithm[d.Algorithm], d)
	}

	matchedAlgorithms := make(map[uint8]bool, len(dsByAlgorithm))
	keySigningKeys := make([]*dns.DNSKEY, 0, len(dsRecordsFromParent))
	for algorithm, dsRecords := range dsByAlgorithm {
		// val-digest-preference: when a name publishes more than one digest type for the same
		// key, only the most preferred one present needs to match.
		dsRecords = preferredDigests(dsRecords)

		for _, d := range dsRecords {
			for _, k := range zoneKeys {
				if d.Algorithm == k.Algorithm && d.KeyTag == k.KeyTag() && strings.EqualFold(d.Digest, k.ToDS(d.DigestType).Digest) {
					keySigningKeys = append(keySigningKeys, k)
					matchedAlgorithms[algorithm] = true
					break
				}
			}
		}
	}

	if len(keySigningKeys) == 0 {
		return Insecure, ErrKeysNotFound
	}

	// harden-algo-downgrade: every algorithm published in the DS set must be backed by a
	// matching DNSKEY, not just one of them - otherwise an attacker able to strip the stronger
	// algorithm's DS record could downgrade validation to a weaker one they control.
	if HardenAlgoDowngrade && len(matchedAlgorithms) < len(dsByAlgorithm) {
		return Bogus, fmt.Errorf("%w: not every ds algorithm has a matching dnskey", ErrKeysNotFound)
	}

	//---

	keySignatures, err := authenticate(r.zone.Name(), keys, keySigningKeys, answerSection)

	if err != nil {
		return Bogus, fmt.Errorf("%w: %w", ErrBogusResultFound, err)
	}

	r.keys = keySignatures

	if err = keySignatures.Verify(); err != nil {
		return Bogus, fmt.Errorf("%w: %w", ErrBogusResultFound, err)
	}

	return Unknown, nil
}
