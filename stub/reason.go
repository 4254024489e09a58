package stub

import "github.com/nsmithuk/dnssec-stub/validator"

// ReasonText renders a validator.Reason as a short human-readable phrase. Kept deliberately
// thin: anything wanting localized or templated messages should build on top of the Reason enum
// value itself, not parse this string.
func ReasonText(r validator.Reason) string {
	switch r {
	case validator.ReasonNone:
		return "no error"
	case validator.ReasonUnclassifiable:
		return "response could not be classified as positive, delegating or negative"
	case validator.ReasonKeysNotFound:
		return "no matching DNSKEY found for the zone's DS records"
	case validator.ReasonInvalidSignature:
		return "one or more RRSIG records failed to verify"
	case validator.ReasonInvalidTime:
		return "response received outside its signature validity window"
	case validator.ReasonDoeNotFound:
		return "denial of existence proof missing or incomplete"
	case validator.ReasonMaxDepthExceeded:
		return "maximum cname/delegation chain depth exceeded"
	case validator.ReasonUnreachable:
		return "upstream resolver did not respond"
	case validator.ReasonUnexpectedResponse:
		return "upstream returned an unexpected or malformed response"
	case validator.ReasonMalformedChain:
		return "trust chain records did not line up with the expected zone cuts"
	default:
		return "validation failed"
	}
}
