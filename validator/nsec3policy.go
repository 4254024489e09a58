package validator

import (
	"encoding/base64"
	"github.com/miekg/dns"
	"math/big"
)

// NSEC3IterationLimit is one entry of the val-nsec3-keysize-iterations table: the maximum number
// of NSEC3 hash iterations permitted when validating under an RSA key of at least MinKeyBits.
type NSEC3IterationLimit struct {
	MinKeyBits    int
	MaxIterations uint16
}

// DefaultNSEC3IterationLimits mirrors Unbound's built-in val-nsec3-keysize-iterations table.
var DefaultNSEC3IterationLimits = []NSEC3IterationLimit{
	{MinKeyBits: 1024, MaxIterations: 150},
	{MinKeyBits: 2048, MaxIterations: 500},
	{MinKeyBits: 4096, MaxIterations: 2500},
}

// NSEC3IterationLimits is the active policy table; replace it to override the defaults.
var NSEC3IterationLimits = DefaultNSEC3IterationLimits

// nsec3IterationsAllowed reports whether iterations is within the cap implied by the largest
// RSA key among keys. Limits are scanned in order; the highest entry whose MinKeyBits is at
// most the key size in use applies. Non-RSA signing keys, and key sets with no RSA key at all,
// are not capped: the iteration limit in Unbound's table is defined relative to RSA keysize, and
// has no equivalent basis for ECDSA/EdDSA.
func nsec3IterationsAllowed(keys []*dns.DNSKEY, iterations uint16, limits []NSEC3IterationLimit) bool {
	bits, ok := maxRSAKeyBits(keys)
	if !ok {
		return true
	}

	var limit uint16
	found := false
	for _, l := range limits {
		if bits >= l.MinKeyBits {
			limit = l.MaxIterations
			found = true
		}
	}
	if !found {
		return true
	}

	return iterations <= limit
}

func maxRSAKeyBits(keys []*dns.DNSKEY) (int, bool) {
	maxBits := 0
	found := false
	for _, k := range keys {
		if k.Algorithm != dns.RSASHA1 && k.Algorithm != dns.RSASHA1NSEC3SHA1 && k.Algorithm != dns.RSASHA256 && k.Algorithm != dns.RSASHA512 {
			continue
		}
		// RFC 3110 layout: exponent length (one octet, or zero then two octets), exponent, modulus.
		buf, err := base64.StdEncoding.DecodeString(k.PublicKey)
		if err != nil || len(buf) < 3 {
			continue
		}
		expLen, off := int(buf[0]), 1
		if expLen == 0 {
			expLen, off = int(buf[1])<<8|int(buf[2]), 3
		}
		if len(buf) <= off+expLen {
			continue
		}
		bits := new(big.Int).SetBytes(buf[off+expLen:]).BitLen()
		if bits > maxBits {
			maxBits = bits
		}
		found = true
	}
	return maxBits, found
}

// nsec3ParamsWithinPolicy reports whether every NSEC3 record's iteration count is within the
// cap for the signing keys in use. A single out-of-policy record fails the whole set: per
// spec, exceeding the cap degrades the answer to INSECURE rather than attempting verification.
func nsec3ParamsWithinPolicy(records []*dns.NSEC3, keys []*dns.DNSKEY) bool {
	for _, r := range records {
		if !nsec3IterationsAllowed(keys, r.Iterations, NSEC3IterationLimits) {
			return false
		}
	}
	return true
}
