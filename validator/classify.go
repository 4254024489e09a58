package validator

import (
	"github.com/miekg/dns"
)

// Classify labels an incoming message with the response type that determines how the rest of
// the chain is validated. Rules are applied in order; the first match wins.
func Classify(msg *dns.Msg, question dns.Question) MessageClass {
	if msg.Rcode == dns.RcodeNameError && len(msg.Answer) == 0 {
		return ClassNXDomain
	}

	if len(msg.Answer) == 0 {
		return ClassNoData
	}

	if question.Qtype == dns.TypeANY {
		return ClassAny
	}

	if len(extractRecordsOfNameAndType(msg.Answer, question.Name, question.Qtype)) > 0 {
		return ClassPositive
	}

	if recordsOfTypeExist(msg.Answer, dns.TypeCNAME) {
		return ClassCNAME
	}

	return ClassUnknown
}
