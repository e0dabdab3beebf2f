package dispatch

import (
	"time"

	"github.com/samtvlabs/bonsai-experiment/internal/platform/config"
)

// Options configures the relay client
type Options struct {
	// URL is the relay dispatch endpoint
	URL string
	// ImageID names the guest program the relay should run
	ImageID string
	// ReplyTo is the callback URL the relay posts results to
	ReplyTo string
	// ReplyEntry is the route name on the callback server
	ReplyEntry string
	// Budget is the cost ceiling carried in each envelope
	Budget uint64
	// Timeout bounds one dispatch round trip
	Timeout time.Duration
}

// FromConfig reads RELAY_* values from process config/env
func FromConfig(cfg config.Conf) Options {
	rc := cfg.Prefix("RELAY_")
	return Options{
		URL:        rc.MustString("URL"),
		ImageID:    rc.MustString("TRUSTED_IMAGE_ID"),
		ReplyTo:    rc.MustString("REPLY_TO"),
		ReplyEntry: rc.MayString("REPLY_ENTRY", "verifications/callback"),
		Budget:     uint64(rc.MayInt("BUDGET", 1<<20)),
		Timeout:    rc.MayDuration("TIMEOUT", 10*time.Second),
	}
}
