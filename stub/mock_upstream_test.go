package stub

import (
	"context"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/mock"
)

// tableUpstream is the stub package's own test-support Upstream: it matches queries by
// qname+qtype against a small in-memory table, grounded on the teacher's types_mock.go
// testify/mock pattern.
type tableUpstream struct {
	mock.Mock
	table map[string]*dns.Msg
}

func newTableUpstream() *tableUpstream {
	return &tableUpstream{table: make(map[string]*dns.Msg)}
}

func tableKey(qname string, qtype uint16) string {
	return dns.CanonicalName(qname) + "/" + dns.TypeToString[qtype]
}

func (u *tableUpstream) set(qname string, qtype uint16, msg *dns.Msg) {
	u.table[tableKey(qname, qtype)] = msg
}

func (u *tableUpstream) Send(ctx context.Context, q *dns.Msg) (*dns.Msg, error) {
	if len(u.Mock.ExpectedCalls) > 0 {
		args := u.Called(ctx, q)
		if err := args.Error(1); err != nil {
			return nil, err
		}
		if m, ok := args.Get(0).(*dns.Msg); ok && m != nil {
			return m, nil
		}
	}

	question := q.Question[0]
	msg, ok := u.table[tableKey(question.Name, question.Qtype)]
	if !ok {
		return nil, ErrEmptyUpstreamReply
	}

	resp := msg.Copy()
	resp.Id = q.Id
	resp.Question = q.Question
	return resp, nil
}
