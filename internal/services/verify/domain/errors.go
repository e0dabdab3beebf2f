package domain

import (
	perr "github.com/samtvlabs/bonsai-experiment/internal/platform/errors"
)

// Guard and store rejections. Callers branch on the error code via
// perr.As; the code carries the HTTP mapping (403, 403, 404, 409).
var (
	// ErrUntrustedSource rejects a callback from anyone but the relay principal
	ErrUntrustedSource = perr.New(perr.ErrorCodeForbidden, "callback from untrusted source")

	// ErrUntrustedProgram rejects a result claimed for an unexpected guest image
	ErrUntrustedProgram = perr.New(perr.ErrorCodeForbidden, "result from untrusted program")

	// ErrNotAvailable means the result was never computed; not a false verdict
	ErrNotAvailable = perr.New(perr.ErrorCodeNotAvailable, "verification result not available")

	// ErrResultConflict means a callback contradicted an already stored verdict
	ErrResultConflict = perr.New(perr.ErrorCodeResultConflict, "conflicting result for existing digest")
)
