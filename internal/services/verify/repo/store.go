package repo

import (
	"context"

	"github.com/samtvlabs/bonsai-experiment/internal/core/receipt"
	"github.com/samtvlabs/bonsai-experiment/internal/modkit/repokit"
	perr "github.com/samtvlabs/bonsai-experiment/internal/platform/errors"
	"github.com/samtvlabs/bonsai-experiment/internal/services/verify/domain"
)

// PGStore is the durable domain.StorePort over Postgres.
// Put runs insert-then-compare inside one transaction, so a concurrent
// writer of the same digest can never be half observed.
type PGStore struct {
	db     repokit.TxRunner
	binder repokit.Binder[Storage]
}

// NewPGStore constructs a durable store over the given runner
func NewPGStore(db repokit.TxRunner) *PGStore {
	if db == nil {
		panic("verify.PGStore requires a non nil TxRunner")
	}
	return &PGStore{db: db, binder: NewPG()}
}

var _ domain.StorePort = (*PGStore)(nil)

// Get implements domain.StorePort
func (s *PGStore) Get(ctx context.Context, d receipt.Digest) (bool, bool, error) {
	return s.binder.Bind(s.db).Get(ctx, d)
}

// Put implements domain.StorePort
func (s *PGStore) Put(ctx context.Context, d receipt.Digest, value bool) (domain.PutOutcome, error) {
	out := domain.PutInserted
	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		r := s.binder.Bind(q)
		inserted, err := r.Insert(ctx, d, value)
		if err != nil {
			return perr.FromPostgres(err, "insert verification result")
		}
		if inserted {
			out = domain.PutInserted
			return nil
		}
		cur, found, err := r.Get(ctx, d)
		if err != nil {
			return perr.FromPostgres(err, "read existing verification result")
		}
		if !found {
			// insert skipped but row absent; only a concurrent delete could do this
			return perr.DBf("verification result %s vanished mid transaction", d)
		}
		if cur == value {
			out = domain.PutAlreadySame
			return nil
		}
		out = domain.PutConflict
		return nil
	})
	if err != nil {
		return out, err
	}
	return out, nil
}

// Stats implements domain.StorePort
func (s *PGStore) Stats(ctx context.Context) (domain.Stats, error) {
	return s.binder.Bind(s.db).Stats(ctx)
}

// EnsureSchema creates the backing table; called once at boot
func (s *PGStore) EnsureSchema(ctx context.Context) error {
	return s.binder.Bind(s.db).EnsureSchema(ctx)
}
