package validator

import (
	"context"
	"github.com/miekg/dns"
	"github.com/nsmithuk/dnssec-stub/validator/doe"
)

// validateNegativeResponse covers NODATA and NXDOMAIN responses: a SOA record in the authority
// section with no matching answer. It requires an NSEC or NSEC3 proof covering either the qname
// itself (NODATA) or the qname and the wildcard that would otherwise have answered it (NXDOMAIN).
func validateNegativeResponse(ctx context.Context, r *result) (AuthenticationResult, error) {
	qname := r.msg.Question[0].Name
	qtype := r.msg.Question[0].Qtype

	nsec3Records := r.authority.extractNSEC3Records()
	nsec3OverPolicy := len(nsec3Records) > 0 && !nsec3ParamsWithinPolicy(nsec3Records, r.keys.extractKeys())
	if nsec3OverPolicy {
		// The NSEC3 iteration count exceeds the policy cap for the key size in use: we decline
		// to spend the CPU verifying it, rather than treat it as an absent proof.
		nsec3Records = nil
	}

	nsec := doe.NewDenialOfExistenceNSEC(ctx, r.zone.Name(), r.authority.extractNSECRecords())
	nsec3 := doe.NewDenialOfExistenceNSEC3(ctx, r.zone.Name(), nsec3Records)

	if nsec.Empty() && nsec3.Empty() {
		if nsec3OverPolicy {
			return Insecure, nil
		}
		return Bogus, ErrBogusDoeRecordsNotFound
	}

	if !nsec.Empty() {
		if nameSeen, typeSeen := nsec.TypeBitMapContainsAnyOf(qname, []uint16{dns.TypeCNAME, qtype}); nameSeen && !typeSeen {
			r.denialOfExistence = NsecNoData
			return Secure, nil
		}

		if nsec.PerformQNameDoesNotExistProof(qname) {
			r.denialOfExistence = NsecNxDomain
			return Secure, nil
		}
	}

	if !nsec3.Empty() {
		// Check for a NODATA response on the QName.
		if nameSeen, typeSeen := nsec3.TypeBitMapContainsAnyOf(qname, []uint16{dns.TypeCNAME, qtype}); nameSeen && !typeSeen {
			r.denialOfExistence = Nsec3NoData
			return Secure, nil
		}

		/*
			https://datatracker.ietf.org/doc/html/rfc5155#section-8.7

			The validator MUST verify a closest encloser proof for QNAME and MUST
			find an NSEC3 RR present in the response that matches the wildcard
			name generated by prepending the asterisk label to the closest
			encloser. Furthermore, the bits corresponding to both QTYPE and
			CNAME MUST NOT be set in the wildcard matching NSEC3 RR.
		*/
		// Check for a NODATA response on a wildcard.
		if closestEncloser, _, ok := nsec3.FindClosestEncloser(qname); ok {
			_, _, nextCloserNameProof, _ := nsec3.PerformClosestEncloserProof(qname)
			if nameSeen, typeSeen := nsec3.TypeBitMapContainsAnyOf("*."+closestEncloser, []uint16{dns.TypeCNAME, qtype}); nextCloserNameProof && nameSeen && !typeSeen {
				r.denialOfExistence = Nsec3NoData
				return Secure, nil
			}
		}

		if optedOut, closestEncloserProof, nextCloserNameProof, wildcardProof := nsec3.PerformClosestEncloserProof(qname); optedOut {
			r.denialOfExistence = Nsec3OptOut
			return Secure, nil
		} else if closestEncloserProof && nextCloserNameProof && wildcardProof {
			r.denialOfExistence = Nsec3NxDomain
			return Secure, nil
		}
	}

	if nsec3OverPolicy && nsec.Empty() {
		return Insecure, nil
	}

	return Bogus, ErrBogusDoeRecordsNotFound
}
