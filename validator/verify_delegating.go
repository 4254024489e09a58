package validator

import (
	"context"
	"fmt"
	"github.com/miekg/dns"
	"github.com/nsmithuk/dnssec-stub/validator/doe"
)

func validateDelegatingResponse(ctx context.Context, r *result) (AuthenticationResult, error) {

	// We extract any delegation DS records in the authority.
	// Note that we'll look for DS records in the answer if, and only if, the response it a positive answer.
	r.dsRecords = r.authority.extractDSRecords()

	// If signed DS records were found, then we're done here.
	if len(r.dsRecords) > 0 {
		return Secure, nil
	}

	//---

	nsRecords := extractRecordsOfType(r.msg.Ns, dns.TypeNS)
	if !recordsHaveTheSameOwner(nsRecords) {
		// This seems an odd case. But if true, we cannot confidently know which is the delegation name.
		return Bogus, fmt.Errorf("%w: this prevents us from checking nsec(3) records", ErrNSRecordsHaveMismatchingOwners)
	}

	delegationName := nsRecords[0].Header().Name

	//---

	nsec3Records := r.authority.extractNSEC3Records()
	nsec3OverPolicy := len(nsec3Records) > 0 && !nsec3ParamsWithinPolicy(nsec3Records, r.keys.extractKeys())
	if nsec3OverPolicy {
		// The NSEC3 iteration count exceeds the policy cap for the key size in use: we decline
		// to spend the CPU verifying it, rather than treat it as an absent proof.
		nsec3Records = nil
	}

	nsec := doe.NewDenialOfExistenceNSEC(ctx, r.zone.Name(), r.authority.extractNSECRecords())
	nsec3 := doe.NewDenialOfExistenceNSEC3(ctx, r.zone.Name(), nsec3Records)

	// ProveNoDS (RFC 5155 section 8.9) is the same no-DS proof the key-cache walker runs when it
	// steps across this same delegation on its own path to the child zone's keys.
	if !nsec.Empty() && nsec.ProveNoDS(delegationName) {
		r.denialOfExistence = NsecMissingDS
		return Secure, nil
	}

	if !nsec3.Empty() {
		proven, optedOut := nsec3.ProveNoDS(delegationName)
		if proven {
			r.denialOfExistence = Nsec3MissingDS
			return Secure, nil
		}
		if optedOut {
			// An opt-out range covers the delegation: we can't prove there's no DS, so we
			// conclude Insecure rather than Bogus for anything beneath it.
			r.denialOfExistence = Nsec3OptOut
			return Secure, nil
		}
	}

	if nsec3OverPolicy && nsec.Empty() {
		return Insecure, nil
	}

	// No DOE exists when expected.
	return Bogus, ErrBogusDoeRecordsNotFound
}
