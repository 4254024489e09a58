package upstream

import (
	"context"
	"fmt"
	"github.com/avast/retry-go/v4"
	"github.com/miekg/dns"
	"net"
	"time"
)

// dnsClientFactory builds the client used for a given protocol ("udp" or "tcp"). Overridable in
// tests so no real socket is opened.
type dnsClientFactory func(protocol string) dnsClient

type dnsClient interface {
	ExchangeContext(context.Context, *dns.Msg, string) (*dns.Msg, time.Duration, error)
}

// SimpleUpstream exchanges directly with a single configured recursive resolver. It tries UDP
// first, retrying transport errors a bounded number of times, then falls back to TCP on error
// or truncation.
type SimpleUpstream struct {
	Addr string

	dnsClientFactory dnsClientFactory
}

func NewSimpleUpstream(addr string) *SimpleUpstream {
	return &SimpleUpstream{Addr: addr}
}

func (u *SimpleUpstream) factory() dnsClientFactory {
	if u.dnsClientFactory != nil {
		return u.dnsClientFactory
	}
	return defaultDNSClientFactory
}

func defaultDNSClientFactory(protocol string) dnsClient {
	timeout := TimeoutUDP
	if protocol == "tcp" {
		timeout = TimeoutTCP
	}
	return &dns.Client{Net: protocol, Timeout: timeout}
}

// Send implements stub.Upstream.
func (u *SimpleUpstream) Send(ctx context.Context, m *dns.Msg) (*dns.Msg, error) {
	if m == nil {
		return nil, ErrNilMessage
	}
	if u.Addr == "" {
		return nil, ErrNoAddress
	}

	addr := net.JoinHostPort(u.Addr, "53")
	factory := u.factory()

	var resp *dns.Msg
	var lastErr error

	for _, protocol := range []string{"udp", "tcp"} {
		client := factory(protocol)

		lastErr = retry.Do(
			func() error {
				r, _, err := client.ExchangeContext(ctx, m, addr)
				resp = r
				return err
			},
			retry.Context(ctx),
			retry.Attempts(uint(Retries+1)),
			retry.LastErrorOnly(true),
		)

		if lastErr != nil {
			resp = nil
			continue
		}

		if resp == nil {
			lastErr = fmt.Errorf("%w: querying %s over %s", ErrEmptyResult, addr, protocol)
			continue
		}

		if !resp.Truncated {
			return resp, nil
		}
		// Truncated over UDP: fall through and retry over TCP.
	}

	// resp may still be a truncated-but-usable message if TCP itself came back truncated; this
	// is the best result available.
	if resp != nil {
		return resp, nil
	}

	return nil, lastErr
}
