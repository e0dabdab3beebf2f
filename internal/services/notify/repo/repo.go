// Package repo persists notifications in the columnar log.
package repo

import (
	"context"
	"time"

	"github.com/samtvlabs/bonsai-experiment/internal/platform/store"
	"github.com/samtvlabs/bonsai-experiment/internal/services/notify/domain"
)

const table = "verification_notifications"

// CH is the ClickHouse-backed notification log
type CH struct {
	db store.Clickhouse
}

// NewCH constructs the log over the clickhouse seam
func NewCH(db store.Clickhouse) *CH {
	if db == nil {
		panic("notify.CH requires a non nil clickhouse seam")
	}
	return &CH{db: db}
}

// Append writes one notification row
func (r *CH) Append(ctx context.Context, digest string, message, signature []byte, result bool, outcome string, at time.Time) error {
	return r.db.Insert(ctx, table, [][]any{
		{digest, string(message), string(signature), result, outcome, at},
	})
}

// Recent returns the newest rows, newest first
func (r *CH) Recent(ctx context.Context, limit int) ([]domain.Row, error) {
	rows, err := r.db.Query(ctx, `
		SELECT digest, result, outcome, emitted_at
		FROM `+table+`
		ORDER BY emitted_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Row
	for rows.Next() {
		var row domain.Row
		if err := rows.Scan(&row.Digest, &row.Result, &row.Outcome, &row.EmittedAt); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// EnsureSchema creates the log table when it does not exist yet
func (r *CH) EnsureSchema(ctx context.Context) error {
	return r.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS `+table+` (
			digest     FixedString(64),
			message    String,
			signature  String,
			result     Bool,
			outcome    LowCardinality(String),
			emitted_at DateTime64(3, 'UTC')
		)
		ENGINE = MergeTree
		ORDER BY (emitted_at, digest)`)
}
