package validator

import (
	"github.com/miekg/dns"
)

// ResolveSigner finds the name of the zone whose keys are expected to have signed a response,
// by inspecting the RRSIG records accompanying it. Which section it looks in depends on class:
// POSITIVE/CNAME/ANY responses are signed by the RRSIG over the first answer RRset matching
// qname; NXDOMAIN/NODATA responses carry no matching answer, so the signer is read off the
// first NSEC or NSEC3 RRSIG in the authority section instead. A false ok return means the
// response is unsigned.
func ResolveSigner(msg *dns.Msg, question dns.Question, class MessageClass) (signer string, ok bool) {
	switch class {
	case ClassPositive, ClassCNAME, ClassAny:
		for _, rr := range msg.Answer {
			if rr.Header().Rrtype != dns.TypeRRSIG {
				continue
			}
			if !namesEqual(rr.Header().Name, question.Name) {
				continue
			}
			return dns.CanonicalName(rr.(*dns.RRSIG).SignerName), true
		}
	case ClassNXDomain, ClassNoData:
		for _, rr := range msg.Ns {
			sig, isRRSIG := rr.(*dns.RRSIG)
			if !isRRSIG {
				continue
			}
			if sig.TypeCovered != dns.TypeNSEC && sig.TypeCovered != dns.TypeNSEC3 {
				continue
			}
			return dns.CanonicalName(sig.SignerName), true
		}
	}

	return "", false
}
