// Package repo provides the verification result repositories.
package repo

import (
	"context"
	"errors"

	"github.com/samtvlabs/bonsai-experiment/internal/core/receipt"
	"github.com/samtvlabs/bonsai-experiment/internal/modkit/repokit"
	perr "github.com/samtvlabs/bonsai-experiment/internal/platform/errors"
	"github.com/samtvlabs/bonsai-experiment/internal/platform/store"
	"github.com/samtvlabs/bonsai-experiment/internal/services/verify/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the verification results repository
type Storage interface {
	// Insert writes the row unless the digest already exists.
	// Reports whether a row was actually written.
	Insert(ctx context.Context, d receipt.Digest, result bool) (bool, error)
	Get(ctx context.Context, d receipt.Digest) (value, found bool, err error)
	Stats(ctx context.Context) (domain.Stats, error)
	EnsureSchema(ctx context.Context) error
}

// Insert implements Storage
func (s *pg) Insert(ctx context.Context, d receipt.Digest, result bool) (bool, error) {
	tag, err := store.Exec(ctx, s.q, `
		INSERT INTO verification_results (digest, result)
		VALUES ($1, $2)
		ON CONFLICT (digest) DO NOTHING`,
		d[:], result,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// Get implements Storage
func (s *pg) Get(ctx context.Context, d receipt.Digest) (bool, bool, error) {
	v, err := store.One(ctx, s.q, scanBool,
		`SELECT result FROM verification_results WHERE digest = $1`, d[:])
	if err != nil {
		if errors.Is(err, perr.ErrNotFound) {
			return false, false, nil
		}
		return false, false, err
	}
	return v, true, nil
}

// Stats implements Storage
func (s *pg) Stats(ctx context.Context) (domain.Stats, error) {
	return store.One(ctx, s.q, scanStats, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE result),
			COUNT(*) FILTER (WHERE NOT result)
		FROM verification_results`)
}

// EnsureSchema creates the results table when it does not exist yet
func (s *pg) EnsureSchema(ctx context.Context) error {
	_, err := store.Exec(ctx, s.q, `
		CREATE TABLE IF NOT EXISTS verification_results (
			digest     BYTEA PRIMARY KEY,
			result     BOOLEAN NOT NULL,
			created_at timestamptz NOT NULL DEFAULT now()
		)`)
	return err
}

func scanBool(r store.Row) (bool, error) {
	var v bool
	err := r.Scan(&v)
	return v, err
}

func scanStats(r store.Row) (domain.Stats, error) {
	var out domain.Stats
	err := r.Scan(&out.Total, &out.True, &out.False)
	return out, err
}
