// Package service contains the verification cache workflows
package service

import (
	"context"
	"sync"
	"time"

	"github.com/samtvlabs/bonsai-experiment/internal/core/receipt"
	perr "github.com/samtvlabs/bonsai-experiment/internal/platform/errors"
	"github.com/samtvlabs/bonsai-experiment/internal/platform/logger"
	"github.com/samtvlabs/bonsai-experiment/internal/services/verify/domain"
)

// stripes must be a power of two; the stripe index masks the digest's first byte
const stripes = 64

// Service defines the verify service contract
type Service interface {
	domain.IngestPort
	domain.QueryPort
	domain.SubmitPort
}

// Svc implements the verify service
type Svc struct {
	log      logger.Logger
	guard    *Guard
	store    domain.StorePort
	notifier domain.NotifierPort
	dispatch domain.DispatchPort

	// per-digest stripe locks serialize same-key ingests so the
	// store's insert-then-compare is observed atomically
	locks [stripes]sync.Mutex
}

// New constructs a verify service
func New(log logger.Logger, guard *Guard, store domain.StorePort, notifier domain.NotifierPort, dispatch domain.DispatchPort) *Svc {
	log = log.With().Str("component", "verify").Logger()
	if guard == nil {
		panic("verify.Service requires a non nil Guard")
	}
	if store == nil {
		panic("verify.Service requires a non nil StorePort")
	}
	return &Svc{log: log, guard: guard, store: store, notifier: notifier, dispatch: dispatch}
}

// Submit implements domain.SubmitPort.
// No cache pre-check: every submission goes to the relay, and the
// cache absorbs whatever duplicate callbacks come back.
func (s *Svc) Submit(ctx context.Context, req receipt.Request) (receipt.Digest, error) {
	d := receipt.Derive(req)
	if s.dispatch == nil {
		return d, perr.Unavailablef("relay dispatch is not configured")
	}
	if err := s.dispatch.Dispatch(ctx, req, d); err != nil {
		return d, err
	}
	s.log.Debug().Str("digest", d.String()).Msg("request dispatched")
	return d, nil
}

// Ingest implements domain.IngestPort: authorize, derive, store, notify
func (s *Svc) Ingest(
	ctx context.Context,
	caller domain.Principal,
	image domain.ImageID,
	req receipt.Request,
	result bool,
) (receipt.Digest, domain.PutOutcome, error) {
	log := s.log
	if err := s.guard.Authorize(caller, image); err != nil {
		log.Warn().
			Str("security", "callback_rejected").
			Str("caller", string(caller)).
			Str("image_id", string(image)).
			Err(err).
			Msg("unauthorized callback")
		return receipt.Digest{}, 0, err
	}

	d := receipt.Derive(req)

	mu := &s.locks[d[0]&(stripes-1)]
	mu.Lock()
	defer mu.Unlock()

	out, err := s.store.Put(ctx, d, result)
	if err != nil {
		return d, out, err
	}

	switch out {
	case domain.PutConflict:
		// first write wins; a contradiction is security relevant, not recoverable
		log.Warn().
			Str("security", "result_conflict").
			Str("digest", d.String()).
			Bool("delivered", result).
			Msg("callback contradicts stored result")
		return d, out, perr.WithOp(domain.ErrResultConflict, "verify.Ingest")
	default:
		// re-delivery notifies again; downstream consumers dedupe by digest
		if s.notifier != nil {
			s.notifier.Notify(ctx, domain.Notification{
				Digest:    d,
				Message:   req.Message,
				Signature: req.Signature,
				Result:    result,
				Outcome:   out,
				EmittedAt: time.Now().UTC(),
			})
		}
		log.Info().
			Str("digest", d.String()).
			Bool("result", result).
			Str("outcome", out.String()).
			Msg("result ingested")
		return d, out, nil
	}
}

// Query implements domain.QueryPort.
// Absence is an error, never a false verdict.
func (s *Svc) Query(ctx context.Context, req receipt.Request) (domain.QueryResult, error) {
	d := receipt.Derive(req)
	v, found, err := s.store.Get(ctx, d)
	if err != nil {
		return domain.QueryResult{}, err
	}
	if !found {
		return domain.QueryResult{}, perr.WithOp(domain.ErrNotAvailable, "verify.Query")
	}
	return domain.QueryResult{Digest: d.String(), Result: v}, nil
}

// CacheStats implements domain.QueryPort
func (s *Svc) CacheStats(ctx context.Context) (domain.Stats, error) {
	return s.store.Stats(ctx)
}
