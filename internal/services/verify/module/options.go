package module

import (
	"github.com/samtvlabs/bonsai-experiment/internal/platform/config"
)

// Options holds configuration for the verify module.
// All trust anchors are read once here and immutable afterwards.
type Options struct {
	// RelayPrincipal is the only caller allowed to deliver results
	RelayPrincipal string
	// RelayToken is the bearer token the relay presents on callbacks
	RelayToken string
	// TrustedImageID is the only guest program whose results we accept
	TrustedImageID string
	// CallbackMaxBody caps callback body size in bytes
	CallbackMaxBody int64
}

// FromConfig reads RELAY_* values from process config/env
func FromConfig(cfg config.Conf) Options {
	rc := cfg.Prefix("RELAY_")
	return Options{
		RelayPrincipal:  rc.MustString("PRINCIPAL"),
		RelayToken:      rc.MustString("TOKEN"),
		TrustedImageID:  rc.MustString("TRUSTED_IMAGE_ID"),
		CallbackMaxBody: int64(rc.MayInt("CALLBACK_MAX_BODY", 1<<20)),
	}
}
