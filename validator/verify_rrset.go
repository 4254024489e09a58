package validator

import (
	"context"
	"fmt"
	"github.com/miekg/dns"
	"slices"
)

// verifyRRSETs is the RRset verifier: it authenticates every signed RRset in a response's answer
// and authority sections against keys, the zone's already-trusted DNSKEY set, and records the
// per-RRset signature results on r for the delegating/positive/negative checks that follow.
// It returns Unknown (rather than Secure) on success, since a verified RRset alone doesn't yet
// say whether the response itself is a legitimate answer, delegation, or denial.
func verifyRRSETs(ctx context.Context, r *result, keys []*dns.DNSKEY) (AuthenticationResult, error) {
	select {
	case <-ctx.Done():
		return Bogus, ctx.Err()
	default:
	}

	answer, err := authenticate(r.zone.Name(), r.msg.Answer, keys, answerSection)
	if err != nil {
		return Bogus, fmt.Errorf("%w: answer section: %w", ErrBogusResultFound, err)
	}

	authority, err := authenticate(r.zone.Name(), r.msg.Ns, keys, authoritySection)
	if err != nil {
		return Bogus, fmt.Errorf("%w: authority section: %w", ErrBogusResultFound, err)
	}

	if err := slices.Concat(answer, authority).Verify(); err != nil {
		return Bogus, fmt.Errorf("%w: %w", ErrBogusResultFound, err)
	}

	r.answer = answer
	r.authority = authority

	return Unknown, nil
}
