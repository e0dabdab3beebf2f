// @title         Verifier API
// @version       0.1.0
// @description   Content-addressed cache for externally computed signature verifications

package main

import (
	"context"

	"github.com/samtvlabs/bonsai-experiment/internal/platform/config"
	"github.com/samtvlabs/bonsai-experiment/internal/platform/logger"
	phttp "github.com/samtvlabs/bonsai-experiment/internal/platform/net/http"
	"github.com/samtvlabs/bonsai-experiment/internal/platform/store"

	"github.com/samtvlabs/bonsai-experiment/internal/services/api"
)

func main() {
	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	pgCfg := root.Prefix("SERVICE_PGSQL_")      // pgCfg lives under SERVICE_PGSQL_*
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_") // chCfg lives under SERVICE_CLICKHOUSE_*
	// bring up logging early
	l := logger.Get()

	// empty DBURL disables a backend; verify falls back to the in-memory
	// store and notify becomes a no-op
	pgURL := pgCfg.MayString("DBURL", "")
	chURL := chCfg.MayString("DBURL", "")

	// open the platform store (postgres + CH adapter)
	st, err := store.Open(
		context.Background(),
		store.Config{
			PG: store.PGConfig{
				Enabled:     pgURL != "" && pgCfg.MayBool("ENABLED", true),
				URL:         pgURL,
				MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
				SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
				LogSQL:      pgCfg.MayBool("LOG_SQL", true),
			},
			CH: store.CHConfig{
				Enabled:    chURL != "" && chCfg.MayBool("ENABLED", true),
				URL:        chURL,
				ClientName: "bonsai-experiment",
				ClientTag:  "api",
			},
		},
		store.WithLogger(*logger.Get()),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// results table + notification log live behind the seams
	if err := api.EnsureSchemas(context.Background(), st); err != nil {
		l.Panic().Err(err).Msg("schema setup failed")
	}

	// http server (reads CORE_API_API_PORT)
	srv := phttp.NewServer(apiCfg)

	// mount our API
	api.Mount(
		srv.Router(),
		api.Options{
			Config:         root,
			Store:          st,
			Logger:         l,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", true),
		},
	)

	// run
	if err := srv.Run(context.Background()); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
