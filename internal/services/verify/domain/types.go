// Package domain holds verification cache types, DTOs, and ports
package domain

import (
	"time"

	"github.com/samtvlabs/bonsai-experiment/internal/core/receipt"
)

// Principal is the transport-derived identity of a caller.
// The callback route only trusts the configured relay principal.
type Principal string

// ImageID identifies the trusted guest program whose results we accept.
// Hex-encoded 32 bytes, same shape as a receipt digest.
type ImageID string

// PutOutcome reports what a store write did
type PutOutcome int

const (
	// PutInserted means the key was absent and the value was stored
	PutInserted PutOutcome = iota
	// PutAlreadySame means the key held an equal value; nothing changed
	PutAlreadySame
	// PutConflict means the key held a different value; the stored value is untouched
	PutConflict
)

// String returns the wire name of the outcome
func (o PutOutcome) String() string {
	switch o {
	case PutInserted:
		return "inserted"
	case PutAlreadySame:
		return "already_present"
	case PutConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Notification is one entry in the append-only notification log,
// emitted whenever a callback lands a usable result.
type Notification struct {
	Digest    receipt.Digest
	Message   []byte
	Signature []byte
	Result    bool
	Outcome   PutOutcome
	EmittedAt time.Time
}

// Stats are aggregate cache counts
type Stats struct {
	Total int64 `json:"total" example:"12"`
	True  int64 `json:"true" example:"10"`
	False int64 `json:"false" example:"2"`
}
