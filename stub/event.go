package stub

import (
	"github.com/miekg/dns"
	"github.com/nsmithuk/dnssec-stub/validator"
)

type eventState uint8

const (
	stateInit eventState = iota
	stateNeedKeys
	stateVerifying
	stateDone
)

func (s eventState) String() string {
	switch s {
	case stateInit:
		return "INIT"
	case stateNeedKeys:
		return "NEED_KEYS"
	case stateVerifying:
		return "VERIFYING"
	case stateDone:
		return "DONE"
	default:
		return "UNKNOWN"
	}
}

// moduleState is the closed set of fields an Event accumulates moving through the state
// machine: classifier verdict, resolved signer zone, and the trusted keyset once fetched. A
// struct rather than a map, so every field an Event can hold is visible at a glance.
type moduleState struct {
	class    validator.MessageClass
	signer   string
	signerOk bool
	keys     validator.KeyEntry
}

// Event tracks one query, either the original or a CNAME-chain hop, as it moves through
// INIT -> NEED_KEYS -> VERIFYING -> DONE. There's no parent pointer: a hop is identified purely
// by depth and an owner label, and cross-event coordination goes through the key cache's own
// singleflight group and the package event bus rather than a back-reference to the parent.
type Event struct {
	original *dns.Msg
	query    *dns.Msg
	depth    int
	owner    string

	state  eventState
	module moduleState
}

func newEvent(original, query *dns.Msg, depth int, owner string) *Event {
	return &Event{
		original: original,
		query:    query,
		depth:    depth,
		owner:    owner,
		state:    stateInit,
	}
}

func (e *Event) question() dns.Question {
	return e.query.Question[0]
}
