package validator

import (
	"github.com/miekg/dns"
	"github.com/nsmithuk/dnssec-root-anchors-go/anchors"
	"time"
)

var (
	RootTrustAnchors = anchors.GetValid()
)

type Logger func(string)

// Default logging functions just black-hole the input.

var Debug Logger = func(s string) {}
var Info Logger = func(s string) {}
var Warn Logger = func(s string) {}

// DefaultRequireAllSignaturesValid matches the teacher's local policy default: a single valid
// RRSIG per RRset is enough, rather than demanding every RRSIG present verify.
const DefaultRequireAllSignaturesValid = false

// RequireAllSignaturesValid selects between signatures.verifyAllRRSigsPerRRSet and
// signatures.verifyOneOrMoreRRSigPerRRSet as the local policy for a multi-signed RRset.
var RequireAllSignaturesValid = DefaultRequireAllSignaturesValid

// Clock is used everywhere the validator needs the current time, so tests and val-override-date
// deployments can substitute a fixed instant instead of the wall clock.
var Clock = time.Now

// DefaultDigestPreference lists DS digest types in the order they should be preferred when a
// name publishes more than one digest type for the same key, strongest first.
var DefaultDigestPreference = []uint8{dns.SHA384, dns.SHA256, dns.GOST94, dns.SHA1}

// DigestPreference is the active val-digest-preference table.
var DigestPreference = DefaultDigestPreference

// HardenAlgoDowngrade, when true, requires every DS-published algorithm to have a matching,
// validly-signed DNSKEY (RFC 4035 section 5.2's stricter reading); when false (default), one
// matching, validly-signed DNSKEY is enough, matching the teacher's original behaviour.
var HardenAlgoDowngrade = false
