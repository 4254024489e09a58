package doe

import (
	"github.com/miekg/dns"
)

const zoneName = "example.com."

// newRR parses a zone-file record into an RR, panicking on malformed fixtures rather than
// threading an error return through every test case that builds one.
func newRR(s string) dns.RR {
	rr, err := dns.NewRR(s)
	if err != nil {
		panic(err)
	}
	return rr
}
