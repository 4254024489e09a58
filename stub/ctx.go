package stub

import (
	"github.com/google/uuid"
	"sync/atomic"
	"time"
)

type ctxKey uint8

const (
	ctxTrace ctxKey = iota
)

// Trace identifies one top level Validate call across all the CNAME hops and key-cache lookups
// it spawns, purely for correlating log lines.
type Trace struct {
	ID    uuid.UUID
	Start time.Time

	iterations atomic.Uint32
}

func NewTrace() *Trace {
	id, _ := uuid.NewV7()
	return &Trace{ID: id, Start: time.Now()}
}

// ShortID returns only the last 7 characters, unique enough for one log stream.
func (t *Trace) ShortID() string {
	s := t.ID.String()
	return s[len(s)-7:]
}

func (t *Trace) nextIteration() uint32 {
	return t.iterations.Add(1)
}
