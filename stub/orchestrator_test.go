package stub

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/miekg/dns"
	"github.com/nsmithuk/dnssec-stub/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedRRSIG(key *testKey, owner string, typeCovered uint16, rrset []dns.RR) *dns.RRSIG {
	rrsig := key.sign(rrset)
	rrsig.Hdr = dns.RR_Header{Name: owner, Rrtype: dns.TypeRRSIG, Class: dns.ClassINET, Ttl: 300}
	rrsig.TypeCovered = typeCovered
	rrsig.OrigTtl = 300
	rrsig.Labels = uint8(dns.CountLabel(owner))
	return rrsig
}

// twoLevelChain builds a synthetic root -> com. trust chain and an upstream table answering
// the DNSKEY/DS queries the key cache walk issues, plus a final A answer signed at com.
func twoLevelChain(t *testing.T, qname string, qtype uint16, answer []dns.RR) (*tableUpstream, []*dns.DS) {
	t.Helper()

	root := testEcKeyNamed(".")
	com := testEcKeyNamed("com.")

	up := newTableUpstream()

	rootDNSKEYSet := []dns.RR{root.key}
	up.set(".", dns.TypeDNSKEY, msgWithAnswer(rootDNSKEYSet, signedRRSIG(root, ".", dns.TypeDNSKEY, rootDNSKEYSet)))

	comDNSKEYSet := []dns.RR{com.key}
	up.set("com.", dns.TypeDNSKEY, msgWithAnswer(comDNSKEYSet, signedRRSIG(com, "com.", dns.TypeDNSKEY, comDNSKEYSet)))

	comDS := com.ds
	comDS.Hdr = dns.RR_Header{Name: "com.", Rrtype: dns.TypeDS, Class: dns.ClassINET, Ttl: 300}
	dsSet := []dns.RR{comDS}
	up.set("com.", dns.TypeDS, msgWithAnswer(dsSet, signedRRSIG(root, "com.", dns.TypeDS, dsSet)))

	rrsig := signedRRSIG(com, qname, qtype, answer)
	up.set(qname, qtype, msgWithAnswer(answer, rrsig))

	return up, []*dns.DS{root.ds}
}

func msgWithAnswer(rrset []dns.RR, rrsig *dns.RRSIG) *dns.Msg {
	m := new(dns.Msg)
	m.Answer = append(append([]dns.RR{}, rrset...), rrsig)
	return m
}

func newQuery(qname string, qtype uint16) *dns.Msg {
	q := new(dns.Msg)
	q.SetQuestion(dns.Fqdn(qname), qtype)
	q.RecursionDesired = true
	q.SetEdns0(4096, true)
	return q
}

func TestOrchestrator_Validate_Secure(t *testing.T) {
	a := newRR("com. 300 IN A 192.0.2.1").(*dns.A)
	up, anchors := twoLevelChain(t, "com.", dns.TypeA, []dns.RR{a})

	orch, err := NewOrchestrator(up)
	require.NoError(t, err)
	orch.TrustAnchors = anchors

	resp, err := orch.Validate(context.Background(), newQuery("com.", dns.TypeA))
	require.NoError(t, err)
	require.False(t, resp.Error())
	assert.Equal(t, validator.Secure, resp.Status)
	assert.True(t, resp.Msg.AuthenticatedData)
}

func TestOrchestrator_Validate_BogusOnTamperedAnswer(t *testing.T) {
	a := newRR("com. 300 IN A 192.0.2.1").(*dns.A)
	up, anchors := twoLevelChain(t, "com.", dns.TypeA, []dns.RR{a})

	// Tamper with the cached answer after signing.
	key := tableKey("com.", dns.TypeA)
	up.table[key].Answer[0].(*dns.A).A = net.IPv4(192, 0, 2, 2)

	orch, err := NewOrchestrator(up)
	require.NoError(t, err)
	orch.TrustAnchors = anchors

	resp, err := orch.Validate(context.Background(), newQuery("com.", dns.TypeA))
	require.NoError(t, err)
	assert.Equal(t, validator.Bogus, resp.Status, "unexpected result: %s", spew.Sdump(resp))
	assert.Equal(t, dns.RcodeServerFailure, resp.Msg.Rcode)
}

func TestOrchestrator_Validate_NilQuery(t *testing.T) {
	orch, err := NewOrchestrator(newTableUpstream())
	require.NoError(t, err)

	_, err = orch.Validate(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNilQuery)
}

func TestOrchestrator_Validate_RequiresRecursionDesired(t *testing.T) {
	orch, err := NewOrchestrator(newTableUpstream())
	require.NoError(t, err)

	q := newQuery("com.", dns.TypeA)
	q.RecursionDesired = false

	resp, err := orch.Validate(context.Background(), q)
	require.NoError(t, err)
	assert.ErrorIs(t, resp.Err, ErrNotRecursionDesired)
}

func TestOrchestrator_Validate_MaxChainDepthExceeded(t *testing.T) {
	orch, err := NewOrchestrator(newTableUpstream())
	require.NoError(t, err)

	saved := MaxChainDepth
	MaxChainDepth = -1
	defer func() { MaxChainDepth = saved }()

	resp, err := orch.Validate(context.Background(), newQuery("com.", dns.TypeA))
	require.NoError(t, err)
	assert.ErrorIs(t, resp.Err, ErrMaxChainDepth)
}

func TestOrchestrator_Validate_CancelledContext(t *testing.T) {
	orch, err := NewOrchestrator(newTableUpstream())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)

	resp, err := orch.Validate(ctx, newQuery("com.", dns.TypeA))
	require.NoError(t, err)
	assert.True(t, resp.Error())
}
