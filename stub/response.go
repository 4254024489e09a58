package stub

import (
	"github.com/miekg/dns"
	"github.com/nsmithuk/dnssec-stub/validator"
	"time"
)

// Response is the outcome of a single Validate call: the (possibly CNAME-chain-assembled)
// answer message, its overall security status, the denial-of-existence proof backing a
// negative or wildcard result if any, and the reason for that status.
type Response struct {
	Msg      *dns.Msg
	Status   validator.AuthenticationResult
	Denial   validator.DenialOfExistenceState
	Reason   validator.Reason
	Err      error
	Duration time.Duration
}

func (r *Response) Error() bool {
	return r != nil && r.Err != nil
}

func (r *Response) Empty() bool {
	return r == nil || r.Msg == nil
}

func responseError(err error) *Response {
	return &Response{Err: err}
}

// finalise applies the header/section policy for the resulting status: AuthenticatedData set
// iff Secure, Rcode forced to SERVFAIL and sections suppressed on Bogus.
func (r *Response) finalise() {
	if r.Msg == nil {
		return
	}

	r.Msg.AuthenticatedData = r.Status == validator.Secure

	if r.Status == validator.Bogus {
		r.Msg.Rcode = dns.RcodeServerFailure
		if SuppressBogusResponseSections {
			r.Msg.Answer = []dns.RR{}
			r.Msg.Ns = []dns.RR{}
			r.Msg.Extra = []dns.RR{}
		}
		return
	}

	if r.Status == validator.Secure {
		if RemoveAuthoritySectionForPositiveAnswers && len(r.Msg.Answer) > 0 && !recordsOfTypeExistInAuthority(r.Msg.Ns) {
			r.Msg.Ns = []dns.RR{}
		}
		if RemoveAdditionalSectionForPositiveAnswers && len(r.Msg.Answer) > 0 {
			r.Msg.Extra = extractOPTOnly(r.Msg.Extra)
		}
	}
}

func recordsOfTypeExistInAuthority(rr []dns.RR) bool {
	for _, r := range rr {
		if r.Header().Rrtype != dns.TypeNS {
			return true
		}
	}
	return false
}

func extractOPTOnly(rr []dns.RR) []dns.RR {
	kept := make([]dns.RR, 0, len(rr))
	for _, r := range rr {
		if r.Header().Rrtype == dns.TypeOPT {
			kept = append(kept, r)
		}
	}
	return kept
}
