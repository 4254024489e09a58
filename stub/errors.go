package stub

import "errors"

var (
	ErrNotRecursionDesired = errors.New("only recursive queries are supported via this server")
	ErrNilQuery            = errors.New("nil message sent to Validate")
	ErrEmptyUpstreamReply  = errors.New("upstream returned no message and no error")
	ErrMaxChainDepth       = errors.New("maximum cname/delegation chain depth exceeded")
	ErrCNAMEFollowFailed   = errors.New("unable to follow cname")
	ErrDNSKEYWalkFailed    = errors.New("trust chain walk failed")
)
