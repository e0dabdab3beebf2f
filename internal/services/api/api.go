// Package api provides the HTTP API for the verification cache service
package api

import (
	"context"

	"github.com/samtvlabs/bonsai-experiment/internal/platform/config"
	"github.com/samtvlabs/bonsai-experiment/internal/platform/logger"
	phttp "github.com/samtvlabs/bonsai-experiment/internal/platform/net/http"
	"github.com/samtvlabs/bonsai-experiment/internal/platform/store"

	"github.com/samtvlabs/bonsai-experiment/internal/modkit"
	"github.com/samtvlabs/bonsai-experiment/internal/modkit/httpkit"
	"github.com/samtvlabs/bonsai-experiment/internal/modkit/module"
	"github.com/samtvlabs/bonsai-experiment/internal/modkit/swaggerkit"

	metamod "github.com/samtvlabs/bonsai-experiment/internal/services/api/meta/module"
	"github.com/samtvlabs/bonsai-experiment/internal/services/dispatch"
	notifymod "github.com/samtvlabs/bonsai-experiment/internal/services/notify/module"
	verifydom "github.com/samtvlabs/bonsai-experiment/internal/services/verify/domain"
	verifymod "github.com/samtvlabs/bonsai-experiment/internal/services/verify/module"
	verifyrepo "github.com/samtvlabs/bonsai-experiment/internal/services/verify/repo"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Log: *opt.Logger,
		Cfg: opt.Config,
		PG:  opt.Store.PG,
		CH:  opt.Store.CH,
	}

	// Relay client implements verify's DispatchPort
	relay := dispatch.New(deps.Log, dispatch.FromConfig(deps.Cfg))

	// Notify module owns the Notifier port; construct it first
	notify := notifymod.New(deps)
	notifier := module.MustPortsOf[verifydom.NotifierPort](notify)

	verify := verifymod.New(
		deps,
		modkit.WithPorts(verifymod.InPorts{
			Dispatch: relay,
			Notifier: notifier,
		}),
	)

	mods := []module.Module{
		metamod.New(deps),
		notify,
		verify,
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		// Swagger + profiler
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})
}

// EnsureSchemas prepares the backing tables for every configured store
func EnsureSchemas(ctx context.Context, st *store.Store) error {
	if st.PG != nil {
		if err := verifyrepo.NewPGStore(st.PG).EnsureSchema(ctx); err != nil {
			return err
		}
	}
	if st.CH != nil {
		if err := notifymod.EnsureSchema(ctx, st.CH); err != nil {
			return err
		}
	}
	return nil
}
