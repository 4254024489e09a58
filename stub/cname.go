package stub

import (
	"context"
	"fmt"

	"github.com/miekg/dns"
	"github.com/nsmithuk/dnssec-stub/validator"
)

// followCNAMEs issues one follow-up query per CNAME in resp's answer whose target isn't already
// answered, merging each hop's status into resp via Combine. Grounded on the teacher's
// cname.go, generalised to re-enter the trust-chain walk per hop (via a fresh Event, through
// run) rather than assuming a single shared authenticator spans the whole chain.
func (o *Orchestrator) followCNAMEs(ctx context.Context, e *Event, resp *Response, trace *Trace) error {
	cnames := extractRecords[*dns.CNAME](resp.Msg.Answer)
	question := e.question()

	for _, c := range cnames {
		target := dns.CanonicalName(c.Target)

		if recordsOfNameAndTypeExist(resp.Msg.Answer, target, question.Qtype) ||
			recordsOfNameAndTypeExist(resp.Msg.Answer, target, dns.TypeCNAME) {
			// Answer already contains a record for the target; nothing to follow.
			continue
		}

		hop := new(dns.Msg)
		hop.SetQuestion(target, question.Qtype)
		hop.RecursionDesired = true
		if isSetDO(e.query) {
			hop.SetEdns0(4096, true)
		}

		if o.Metrics != nil {
			o.Metrics.recordCNAMEHop()
		}

		hopResp := o.run(ctx, newEvent(e.original, hop, e.depth+1, "cname:"+question.Name), trace)
		if hopResp.Error() {
			return fmt.Errorf("%w [%s]: %w", ErrCNAMEFollowFailed, c.Target, hopResp.Err)
		}
		if hopResp.Empty() {
			return fmt.Errorf("%w [%s]: empty response", ErrCNAMEFollowFailed, c.Target)
		}

		resp.Msg.Answer = append(resp.Msg.Answer, hopResp.Msg.Answer...)
		resp.Msg.Ns = append(resp.Msg.Ns, hopResp.Msg.Ns...)
		resp.Msg.Extra = append(resp.Msg.Extra, hopResp.Msg.Extra...)

		// Ensure we handle differing DNSSEC results correctly.
		resp.Status = resp.Status.Combine(hopResp.Status)
		if hopResp.Status == validator.Bogus {
			resp.Reason = hopResp.Reason
		}

		// The overall message is only authoritative if all answers are.
		resp.Msg.Authoritative = resp.Msg.Authoritative && hopResp.Msg.Authoritative
		resp.Msg.Rcode = max(resp.Msg.Rcode, hopResp.Msg.Rcode)
	}

	return nil
}
