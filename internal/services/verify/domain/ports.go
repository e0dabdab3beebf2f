package domain

import (
	"context"

	"github.com/samtvlabs/bonsai-experiment/internal/core/receipt"
)

// StorePort is the tri-state result cache.
// Get reports (value, found); found=false means never computed,
// which is distinct from a stored false verdict.
type StorePort interface {
	Get(ctx context.Context, d receipt.Digest) (value, found bool, err error)
	Put(ctx context.Context, d receipt.Digest, value bool) (PutOutcome, error)
	Stats(ctx context.Context) (Stats, error)
}

// DispatchPort forwards a request to the external computation relay.
// Implemented by the dispatch service and injected into this module.
type DispatchPort interface {
	Dispatch(ctx context.Context, req receipt.Request, d receipt.Digest) error
}

// NotifierPort receives a notification after a result lands.
// Implementations must not fail the ingest path; delivery is best effort.
type NotifierPort interface {
	Notify(ctx context.Context, n Notification)
}

// IngestPort absorbs relay callbacks: authorize, derive, store, notify
type IngestPort interface {
	Ingest(ctx context.Context, caller Principal, image ImageID, req receipt.Request, result bool) (receipt.Digest, PutOutcome, error)
}

// QueryPort answers whether a request has a computed result
type QueryPort interface {
	Query(ctx context.Context, req receipt.Request) (QueryResult, error)
	CacheStats(ctx context.Context) (Stats, error)
}

// SubmitPort accepts a request and hands it to the relay
type SubmitPort interface {
	Submit(ctx context.Context, req receipt.Request) (receipt.Digest, error)
}
