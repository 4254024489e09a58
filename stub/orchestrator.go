package stub

import (
	"context"
	"fmt"
	"time"

	"github.com/miekg/dns"
	"github.com/nsmithuk/dnssec-stub/validator"
)

// Orchestrator drives Event values through INIT -> NEED_KEYS -> VERIFYING -> DONE against a
// single Upstream, authenticating the result and following any CNAME chain it returns.
type Orchestrator struct {
	Upstream Upstream
	Keys     *validator.KeyCache
	Metrics  *Metrics

	// TrustAnchors seeds the root of the walk. Defaults to validator.RootTrustAnchors; tests
	// override it to anchor a synthetic chain instead of the real root.
	TrustAnchors []*dns.DS

	lookup validator.ZoneLookup
}

// NewOrchestrator wires up an Orchestrator around upstream, seeded with the default root
// trust anchors (github.com/nsmithuk/dnssec-root-anchors-go).
func NewOrchestrator(upstream Upstream) (*Orchestrator, error) {
	keys, err := validator.NewKeyCache(KeyCacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating orchestrator: %w", err)
	}

	return &Orchestrator{
		Upstream:     upstream,
		Keys:         keys,
		TrustAnchors: validator.RootTrustAnchors,
		lookup:       &upstreamZoneLookup{upstream: upstream},
	}, nil
}

// Validate resolves query through the configured upstream and authenticates the result,
// following any CNAME chain the answer contains, up to MaxChainDepth hops.
func (o *Orchestrator) Validate(ctx context.Context, query *dns.Msg) (*Response, error) {
	if query == nil || len(query.Question) == 0 {
		return nil, ErrNilQuery
	}
	if !query.RecursionDesired {
		return responseError(ErrNotRecursionDesired), nil
	}

	start := time.Now()
	trace := NewTrace()
	ctx = context.WithValue(ctx, ctxTrace, trace)

	q := query.Copy()
	q.RecursionDesired = true

	resp := o.run(ctx, newEvent(query, q, 0, "root"), trace)
	resp.finalise()
	resp.Duration = time.Since(start)

	if o.Metrics != nil {
		o.Metrics.recordStatus(resp.Status)
	}

	entry := log(trace).WithField("qname", query.Question[0].Name).
		WithField("qtype", dns.TypeToString[query.Question[0].Qtype]).
		WithField("status", resp.Status.String()).
		WithField("denial_state", resp.Denial.String()).
		WithField("reason", resp.Reason.String())

	if resp.Error() {
		entry.WithError(resp.Err).Warn("validation failed")
		bus.Publish(EventCancelled, "root")
	} else {
		entry.Debug("validated response")
		bus.Publish(EventCompleted, "root", resp.Status)
	}

	return resp, nil
}

// run drives a single Event to completion, recursing into itself for each CNAME hop found in
// the answer and merging statuses with Combine.
func (o *Orchestrator) run(ctx context.Context, e *Event, trace *Trace) *Response {
	if e.depth > MaxChainDepth {
		if o.Metrics != nil {
			o.Metrics.recordChainDepthExceeded()
		}
		return responseError(fmt.Errorf("%w: depth %d via %s", ErrMaxChainDepth, e.depth, e.owner))
	}

	select {
	case <-ctx.Done():
		return responseError(ctx.Err())
	default:
	}

	trace.nextIteration()

	msg, err := o.Upstream.Send(ctx, e.query)
	if err != nil {
		return responseError(fmt.Errorf("querying upstream: %w", err))
	}
	if msg == nil {
		return responseError(ErrEmptyUpstreamReply)
	}

	e.state = stateNeedKeys

	status, denial, reason, err := o.authenticate(ctx, e, msg)
	if err != nil && status != validator.Bogus {
		return responseError(err)
	}

	e.state = stateVerifying

	resp := &Response{
		Msg:    msg,
		Status: status,
		Denial: denial,
		Reason: reason,
		Err:    nil,
	}

	if status == validator.Bogus {
		e.state = stateDone
		return resp
	}

	if err := o.followCNAMEs(ctx, e, resp, trace); err != nil {
		return responseError(err)
	}

	e.state = stateDone
	return resp
}

// authenticate establishes the trusted keyset for msg's signer zone (via the key cache's
// trust-chain walk) and authenticates msg against it. An unsigned response is Insecure rather
// than an error: absence of DNSSEC is a valid, if unprotected, outcome.
func (o *Orchestrator) authenticate(ctx context.Context, e *Event, msg *dns.Msg) (validator.AuthenticationResult, validator.DenialOfExistenceState, validator.Reason, error) {
	question := e.question()

	e.module.class = validator.Classify(msg, question)
	if e.module.class == validator.ClassUnknown {
		return validator.Bogus, validator.NotFound, validator.ReasonUnclassifiable, validator.ErrFailsafeResponse
	}

	signer, ok := validator.ResolveSigner(msg, question, e.module.class)
	e.module.signer, e.module.signerOk = signer, ok

	if !ok {
		return validator.Insecure, validator.NotFound, validator.ReasonNone, nil
	}

	entry, err := o.Keys.Walk(ctx, signer, o.TrustAnchors, o.lookup)
	if err != nil {
		reason := validator.ReasonFor(err)
		return validator.Bogus, validator.NotFound, reason, fmt.Errorf("%w: %w", ErrDNSKEYWalkFailed, err)
	}
	e.module.keys = entry

	switch entry.State {
	case validator.KeyEntryNull:
		return validator.Insecure, validator.NotFound, validator.ReasonNone, nil
	case validator.KeyEntryBad:
		return validator.Bogus, validator.NotFound, validator.ReasonKeysNotFound, nil
	}

	status, denial, err := validator.AuthenticateResponse(ctx, signer, entry.Keys, entry.DS, msg)
	return status, denial, validator.ReasonFor(err), err
}
