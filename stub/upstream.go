package stub

import (
	"context"
	"github.com/miekg/dns"
)

// Upstream is the external collaborator boundary: something that can send a single DNS query
// and return its response. The orchestrator never performs its own iterative root-to-leaf
// resolution; that's entirely this interface's job.
type Upstream interface {
	Send(ctx context.Context, q *dns.Msg) (*dns.Msg, error)
}

// upstreamZoneLookup adapts an Upstream into validator.ZoneLookup, so the same collaborator
// used to fetch answers is used to fetch DS/DNSKEY records for the trust-chain walk.
type upstreamZoneLookup struct {
	upstream Upstream
}

func (u *upstreamZoneLookup) LookupDS(ctx context.Context, qname string) (*dns.Msg, error) {
	return u.exchange(ctx, qname, dns.TypeDS)
}

func (u *upstreamZoneLookup) LookupDNSKEY(ctx context.Context, qname string) (*dns.Msg, error) {
	return u.exchange(ctx, qname, dns.TypeDNSKEY)
}

func (u *upstreamZoneLookup) exchange(ctx context.Context, qname string, qtype uint16) (*dns.Msg, error) {
	q := new(dns.Msg)
	q.SetQuestion(dns.Fqdn(qname), qtype)
	q.SetEdns0(4096, true)
	q.RecursionDesired = true

	resp, err := u.upstream.Send(ctx, q)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, ErrEmptyUpstreamReply
	}
	return resp, nil
}
