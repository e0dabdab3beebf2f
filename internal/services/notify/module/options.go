package module

import "github.com/samtvlabs/bonsai-experiment/internal/platform/config"

// Options holds configuration settings for the notify module
type Options struct {
	HardLimit int
}

// FromConfig reads configuration settings from the config.Conf
func FromConfig(cfg config.Conf) Options {
	nc := cfg.Prefix("CORE_NOTIFY_")
	return Options{
		HardLimit: nc.MayInt("HARD_LIMIT", 100),
	}
}
