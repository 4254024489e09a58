package validator

import (
	"fmt"
	"github.com/hashicorp/go-multierror"
	"github.com/miekg/dns"
)

func (ss signatures) filterOnType(rtype uint16) signatures {
	set := make(signatures, 0, len(ss))
	for _, sig := range ss {
		if sig.rtype == rtype {
			set = append(set, sig)
		}
	}
	return set
}

func (ss signatures) countNameTypeCombinations() int {
	type combination struct {
		name   string
		rrtype uint16
	}
	combinations := make(map[combination]bool, len(ss))
	for _, sig := range ss {
		combinations[combination{
			name:   sig.name,
			rrtype: sig.rtype,
		}] = true
	}
	return len(combinations)
}

// Verify calls one of two local policy strategies for determining if the response is verified.
func (ss signatures) Verify() error {
	if RequireAllSignaturesValid {
		return ss.verifyAllRRSigsPerRRSet()
	}
	return ss.verifyOneOrMoreRRSigPerRRSet()
}

// verifyOneOrMoreRRSigPerRRSet a signature set. For a set to be valid, at least one signature per RRSet must be valid.
// All errors will be returns, wrapped into a single error.
func (ss signatures) verifyOneOrMoreRRSigPerRRSet() error {
	if len(ss) == 0 {
		return ErrSignatureSetEmpty
	}

	// It's most common to only have one rrsig, so we'll keep that instance simple.
	if len(ss) == 1 {
		if ss[0].verified {
			return nil
		}

		err := ss[0].err
		if err != nil {
			return fmt.Errorf("%w / %w", ErrVerifyFailed, err)
		}
		return fmt.Errorf("%w / %w", ErrVerifyFailed, ErrUnableToVerify)
	}

	//---

	type rrsetState struct {
		verifiedSigSeen bool
		err             *multierror.Error
	}

	states := make(map[uint16]rrsetState, len(ss))
	for _, s := range ss {
		state, found := states[s.rtype]

		if !found {
			state = rrsetState{}
		}

		// Once True, it's always true.
		state.verifiedSigSeen = state.verifiedSigSeen || s.verified

		if !s.verified {
			if s.err != nil {
				state.err = multierror.Append(state.err, s.err)
			} else {
				state.err = multierror.Append(state.err, ErrUnableToVerify)
			}
		}

		states[s.rtype] = state
	}

	//---

	var result *multierror.Error
	for rtype, state := range states {
		if !state.verifiedSigSeen {
			var cause error = ErrUnableToVerify
			if state.err != nil {
				cause = state.err.ErrorOrNil()
			}
			result = multierror.Append(result, fmt.Errorf("%w: type %d: %w", ErrVerifyFailed, rtype, cause))
		}
	}

	return result.ErrorOrNil()
}

// verifyAllRRSigsPerRRSet a signature set. For a set to be valid, all signatures within it must be valid. A nil error will be returned in this case.
// If one or more errors are found, we make the local policy decision to conclude the whole response is invalid.
// All errors will be returns, wrapped into a single error.
func (ss signatures) verifyAllRRSigsPerRRSet() error {
	if len(ss) == 0 {
		return ErrSignatureSetEmpty
	}

	var result *multierror.Error
	for _, s := range ss {
		if !s.verified {
			if s.err != nil {
				result = multierror.Append(result, fmt.Errorf("%w: %w", ErrVerifyFailed, s.err))
			} else {
				result = multierror.Append(result, fmt.Errorf("%w: %w", ErrVerifyFailed, ErrUnableToVerify))
			}
		}
	}

	return result.ErrorOrNil()
}

// Valid returns if all signatures in the have been successfully verified.
func (ss signatures) Valid() bool {
	return ss.Verify() == nil
}

// extractDSRecords returns all DS records from signatures with a rrtype of DS.
func (ss signatures) extractDSRecords() []*dns.DS {
	parentDSRecords := make([]*dns.DS, 0)
	for _, s := range ss.filterOnType(dns.TypeDS) {
		parentDSRecords = append(parentDSRecords, extractRecords[*dns.DS](s.rrset)...)
	}
	return parentDSRecords
}

func (ss signatures) extractNSECRecords() []*dns.NSEC {
	parentDSRecords := make([]*dns.NSEC, 0)
	for _, s := range ss.filterOnType(dns.TypeNSEC) {
		parentDSRecords = append(parentDSRecords, extractRecords[*dns.NSEC](s.rrset)...)
	}
	return parentDSRecords
}

func (ss signatures) extractNSEC3Records() []*dns.NSEC3 {
	parentDSRecords := make([]*dns.NSEC3, 0)
	for _, s := range ss.filterOnType(dns.TypeNSEC3) {
		parentDSRecords = append(parentDSRecords, extractRecords[*dns.NSEC3](s.rrset)...)
	}
	return parentDSRecords
}

// extractKeys returns the distinct DNSKEYs that were used to verify these signatures.
func (ss signatures) extractKeys() []*dns.DNSKEY {
	keys := make([]*dns.DNSKEY, 0, len(ss))
	seen := make(map[uint16]bool, len(ss))
	for _, s := range ss {
		if s.key == nil || seen[s.key.KeyTag()] {
			continue
		}
		seen[s.key.KeyTag()] = true
		keys = append(keys, s.key)
	}
	return keys
}
