package validator

import (
	"context"
	"fmt"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/miekg/dns"
	"github.com/nsmithuk/dnssec-stub/validator/doe"
	"golang.org/x/sync/singleflight"
	"time"
)

const (
	defaultNullTTL = time.Hour
	defaultKeyCacheSize = 4096
)

// KeyEntry is the cached verdict for a single zone's key material: a trusted keyset, a proven
// null (insecure) delegation, or a bad entry recording that validation failed beneath it.
type KeyEntry struct {
	Zone  string
	State KeyEntryState
	Keys  []*dns.DNSKEY
	DS    []*dns.DS

	expiry time.Time
}

func (e KeyEntry) Expired(now time.Time) bool {
	return now.After(e.expiry)
}

// ZoneLookup issues the DS and DNSKEY queries the trust-chain walker needs in order to step
// from one zone cut to the next. Implementations query the relevant authoritative nameservers
// directly; the walker only interprets what comes back.
type ZoneLookup interface {
	LookupDS(ctx context.Context, qname string) (*dns.Msg, error)
	LookupDNSKEY(ctx context.Context, qname string) (*dns.Msg, error)
}

// cacheZone adapts a bare zone name to the Zone interface, so the walker can reuse verifyDNSKEYs
// without needing a full response to hang a Zone implementation off of.
type cacheZone struct{ name string }

func (z *cacheZone) Name() string                         { return z.name }
func (z *cacheZone) GetDNSKEYRecords() ([]dns.RR, error) { return nil, nil }

// KeyCache holds KeyEntry values keyed by canonical zone name. A per-zone singleflight group
// ensures concurrent validations needing the same zone's keys only trigger one DS/DNSKEY round
// trip between them.
type KeyCache struct {
	lru    *lru.Cache[string, KeyEntry]
	flight singleflight.Group
}

func NewKeyCache(size int) (*KeyCache, error) {
	if size <= 0 {
		size = defaultKeyCacheSize
	}
	c, err := lru.New[string, KeyEntry](size)
	if err != nil {
		return nil, fmt.Errorf("creating key cache: %w", err)
	}
	return &KeyCache{lru: c}, nil
}

func (c *KeyCache) put(entry KeyEntry) {
	c.lru.Add(dns.CanonicalName(entry.Zone), entry)
}

// longestCachedAncestor returns the deepest non-expired KeyEntry that is an ancestor of (or
// equal to) zone.
func (c *KeyCache) longestCachedAncestor(zone string) (KeyEntry, bool) {
	zone = dns.CanonicalName(zone)
	now := time.Now()

	for _, i := range dns.Split(zone) {
		candidate := zone[i:]
		if entry, ok := c.lru.Get(candidate); ok && !entry.Expired(now) {
			return entry, true
		}
	}

	if entry, ok := c.lru.Get("."); ok && !entry.Expired(now) {
		return entry, true
	}

	return KeyEntry{}, false
}

// childLabelOf returns the name, one label below ancestor, on the path down to target.
func childLabelOf(ancestor, target string) string {
	ancestor = dns.CanonicalName(ancestor)
	target = dns.CanonicalName(target)

	if namesEqual(ancestor, target) {
		return target
	}

	prev := target
	for _, i := range dns.Split(target) {
		suffix := target[i:]
		if namesEqual(suffix, ancestor) {
			return prev
		}
		prev = suffix
	}

	return prev
}

func minTTL(rr []dns.RR) uint32 {
	var ttl uint32
	seen := false
	for _, r := range rr {
		if !seen || r.Header().Ttl < ttl {
			ttl = r.Header().Ttl
			seen = true
		}
	}
	return ttl
}

// Walk implements the trust-chain walk: starting from the deepest cached entry that is an
// ancestor of target, it steps one zone cut at a time towards target, issuing DS then DNSKEY
// queries and verifying each hop, until target itself is reached or a non-trusted entry is hit.
func (c *KeyCache) Walk(ctx context.Context, target string, trustAnchors []*dns.DS, lookup ZoneLookup) (KeyEntry, error) {
	target = dns.CanonicalName(target)

	current, ok := c.longestCachedAncestor(target)
	if !ok {
		// Nothing cached at all: establish the root's own DNSKEY RRset, verified against the
		// configured trust anchors, before walking down towards target.
		root, err := c.verifyChildDNSKEYs(ctx, ".", trustAnchors, uint32(defaultNullTTL.Seconds()), lookup)
		if err != nil {
			if root.State == KeyEntryBad {
				c.put(root)
			}
			return root, err
		}
		c.put(root)
		current = root
	}

	for !namesEqual(current.Zone, target) {
		child := childLabelOf(current.Zone, target)

		next, err := c.stepToChild(ctx, current, child, lookup)
		if err != nil {
			// A failed link is cached as bad; a failed lookup (zero-value entry) is not cached.
			if next.State == KeyEntryBad {
				c.put(next)
			}
			return next, err
		}

		c.put(next)
		current = next

		if current.State != KeyEntryTrusted {
			return current, nil
		}
	}

	return current, nil
}

// stepToChild authenticates the DS records for child under the parent's trusted keyset, then
// fetches and verifies child's own DNSKEY RRset against them.
func (c *KeyCache) stepToChild(ctx context.Context, parent KeyEntry, child string, lookup ZoneLookup) (KeyEntry, error) {
	if parent.State != KeyEntryTrusted {
		// A null or bad parent cannot authenticate anything beneath it; the verdict propagates.
		return KeyEntry{Zone: child, State: parent.State, expiry: parent.expiry}, nil
	}

	dsMsg, err := c.singleflightDS(ctx, child, lookup)
	if err != nil {
		return KeyEntry{}, fmt.Errorf("looking up DS for %s: %w", child, err)
	}

	dsRecords := extractRecords[*dns.DS](dsMsg.Answer)

	if len(dsRecords) > 0 {
		dsSignatures, err := authenticate(parent.Zone, dsMsg.Answer, parent.Keys, answerSection)
		if err != nil || dsSignatures.Verify() != nil {
			return KeyEntry{Zone: child, State: KeyEntryBad, expiry: time.Now().Add(defaultNullTTL)},
				fmt.Errorf("%w: ds rrset for %s", ErrBogusResultFound, child)
		}

		return c.verifyChildDNSKEYs(ctx, child, dsRecords, minTTL(dsMsg.Answer), lookup)
	}

	// No DS records offered; this must be an authenticated denial of their existence, proven the
	// same way validateDelegatingResponse proves it for a response encountered mid-chain.
	nsec := doe.NewDenialOfExistenceNSEC(ctx, parent.Zone, extractRecords[*dns.NSEC](dsMsg.Ns))
	nsec3 := doe.NewDenialOfExistenceNSEC3(ctx, parent.Zone, extractRecords[*dns.NSEC3](dsMsg.Ns))

	authoritySignatures, err := authenticate(parent.Zone, dsMsg.Ns, parent.Keys, authoritySection)
	if err != nil || authoritySignatures.Verify() != nil {
		return KeyEntry{Zone: child, State: KeyEntryBad, expiry: time.Now().Add(defaultNullTTL)},
			fmt.Errorf("%w: ds denial for %s", ErrBogusResultFound, child)
	}

	if !nsec.Empty() && nsec.ProveNoDS(child) {
		return KeyEntry{Zone: child, State: KeyEntryNull, expiry: time.Now().Add(defaultNullTTL)}, nil
	}

	if !nsec3.Empty() {
		if proven, optedOut := nsec3.ProveNoDS(child); proven || optedOut {
			return KeyEntry{Zone: child, State: KeyEntryNull, expiry: time.Now().Add(defaultNullTTL)}, nil
		}
	}

	return KeyEntry{Zone: child, State: KeyEntryBad, expiry: time.Now().Add(defaultNullTTL)}, ErrBogusDoeRecordsNotFound
}

func (c *KeyCache) verifyChildDNSKEYs(ctx context.Context, child string, dsRecords []*dns.DS, dsTTL uint32, lookup ZoneLookup) (KeyEntry, error) {
	keyMsg, err := c.singleflightDNSKEY(ctx, child, lookup)
	if err != nil {
		return KeyEntry{}, fmt.Errorf("looking up DNSKEY for %s: %w", child, err)
	}

	r := &result{zone: &cacheZone{child}}
	state, err := verifyDNSKEYs(ctx, r, keyMsg.Answer, dsRecords)

	ttl := dsTTL
	if keyTTL := minTTL(keyMsg.Answer); keyTTL < ttl {
		ttl = keyTTL
	}
	expiry := time.Now().Add(time.Duration(ttl) * time.Second)
	for _, s := range r.keys {
		// The entry never outlives a signature that vouched for the DNSKEY RRset.
		if s.rrsig != nil {
			if exp := time.Unix(int64(s.rrsig.Expiration), 0); exp.Before(expiry) {
				expiry = exp
			}
		}
	}

	switch state {
	case Unknown:
		// verifyDNSKEYs signals success by returning Unknown; at this hop that means trusted.
		return KeyEntry{
			Zone:   child,
			State:  KeyEntryTrusted,
			Keys:   extractRecords[*dns.DNSKEY](keyMsg.Answer),
			DS:     dsRecords,
			expiry: expiry,
		}, nil
	case Insecure:
		return KeyEntry{Zone: child, State: KeyEntryNull, DS: dsRecords, expiry: expiry}, nil
	default:
		return KeyEntry{Zone: child, State: KeyEntryBad, DS: dsRecords, expiry: expiry}, err
	}
}

func (c *KeyCache) singleflightDS(ctx context.Context, zone string, lookup ZoneLookup) (*dns.Msg, error) {
	v, err, _ := c.flight.Do("ds:"+zone, func() (any, error) {
		return lookup.LookupDS(ctx, zone)
	})
	if err != nil {
		return nil, err
	}
	return v.(*dns.Msg), nil
}

func (c *KeyCache) singleflightDNSKEY(ctx context.Context, zone string, lookup ZoneLookup) (*dns.Msg, error) {
	v, err, _ := c.flight.Do("dnskey:"+zone, func() (any, error) {
		return lookup.LookupDNSKEY(ctx, zone)
	})
	if err != nil {
		return nil, err
	}
	return v.(*dns.Msg), nil
}
