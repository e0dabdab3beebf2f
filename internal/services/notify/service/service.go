// Package service implements the notification fan-out
package service

import (
	"context"

	"github.com/samtvlabs/bonsai-experiment/internal/platform/logger"
	"github.com/samtvlabs/bonsai-experiment/internal/services/notify/domain"
	"github.com/samtvlabs/bonsai-experiment/internal/services/notify/repo"
	verifydom "github.com/samtvlabs/bonsai-experiment/internal/services/verify/domain"
)

// Service defines the notify service contract
type Service interface {
	verifydom.NotifierPort
	domain.ReaderPort
}

// Svc appends ingested results to the columnar log.
// Log writes never fail the ingest path; failures are logged and dropped.
type Svc struct {
	log       logger.Logger
	storage   *repo.CH
	hardLimit int
}

// New constructs a notify service; storage may be nil when CH is disabled
func New(log logger.Logger, storage *repo.CH, hardLimit int) *Svc {
	if hardLimit <= 0 {
		hardLimit = 100
	}
	return &Svc{
		log:       log.With().Str("component", "notify").Logger(),
		storage:   storage,
		hardLimit: hardLimit,
	}
}

// Notify implements verify's NotifierPort
func (s *Svc) Notify(ctx context.Context, n verifydom.Notification) {
	if s.storage == nil {
		return
	}
	err := s.storage.Append(ctx, n.Digest.String(), n.Message, n.Signature, n.Result, n.Outcome.String(), n.EmittedAt)
	if err != nil {
		// best effort: the result is already durable in the cache
		s.log.Error().
			Err(err).
			Str("digest", n.Digest.String()).
			Msg("notification append failed")
		return
	}
	s.log.Debug().
		Str("digest", n.Digest.String()).
		Str("outcome", n.Outcome.String()).
		Msg("notification appended")
}

// Recent implements domain.ReaderPort
func (s *Svc) Recent(ctx context.Context, limit int) ([]domain.Row, error) {
	if s.storage == nil {
		return nil, nil
	}
	if limit <= 0 || limit > s.hardLimit {
		limit = s.hardLimit
	}
	return s.storage.Recent(ctx, limit)
}

// EnsureSchema prepares the log table; no-op when CH is disabled
func (s *Svc) EnsureSchema(ctx context.Context) error {
	if s.storage == nil {
		return nil
	}
	return s.storage.EnsureSchema(ctx)
}
