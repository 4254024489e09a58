package stub

import (
	"github.com/miekg/dns"
)

func isSetDO(msg *dns.Msg) bool {
	for _, extra := range msg.Extra {
		if opt, ok := extra.(*dns.OPT); ok {
			return opt.Do()
		}
	}
	return false
}

func extractRecords[T dns.RR](rr []dns.RR) []T {
	result := make([]T, 0, len(rr))
	for _, record := range rr {
		if typedRecord, ok := record.(T); ok {
			result = append(result, typedRecord)
		}
	}
	return result
}

func recordsOfNameAndTypeExist(rr []dns.RR, name string, t uint16) bool {
	for _, record := range rr {
		if record.Header().Rrtype == t && namesEqual(record.Header().Name, name) {
			return true
		}
	}
	return false
}

func namesEqual(s1, s2 string) bool {
	return dns.CanonicalName(s1) == dns.CanonicalName(s2)
}
