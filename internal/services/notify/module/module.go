// Package module wires the notification log into the API using modkit
package module

import (
	"context"
	"net/http"

	modkit "github.com/samtvlabs/bonsai-experiment/internal/modkit"
	"github.com/samtvlabs/bonsai-experiment/internal/modkit/httpkit"
	"github.com/samtvlabs/bonsai-experiment/internal/platform/store"
	str "github.com/samtvlabs/bonsai-experiment/internal/platform/strings"
	notifyhttp "github.com/samtvlabs/bonsai-experiment/internal/services/notify/http"
	"github.com/samtvlabs/bonsai-experiment/internal/services/notify/repo"
	notifysvc "github.com/samtvlabs/bonsai-experiment/internal/services/notify/service"
	verifydom "github.com/samtvlabs/bonsai-experiment/internal/services/verify/domain"
)

// Ports exposed by the notify module
type Ports struct {
	Notifier verifydom.NotifierPort
}

// Module implements the notify service module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc *notifysvc.Svc
}

// New constructs the notify module
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append(
		[]modkit.Option{modkit.WithName("notify"), modkit.WithPrefix("/notifications")},
		opts...,
	)...)
	o := FromConfig(deps.Cfg)

	var storage *repo.CH
	if deps.CH != nil {
		storage = repo.NewCH(deps.CH)
	}
	svc := notifysvc.New(deps.Log, storage, o.HardLimit)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = Ports{Notifier: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		notifyhttp.Register(r, m.svc)
		if external != nil {
			external(r)
		}
	}
	return m
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Middlewares returns the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }

// Service exposes the notify service for schema setup and cross wiring
func (m *Module) Service() *notifysvc.Svc { return m.svc }

// EnsureSchema creates the notification log table on the given seam
func EnsureSchema(ctx context.Context, db store.Clickhouse) error {
	return repo.NewCH(db).EnsureSchema(ctx)
}
