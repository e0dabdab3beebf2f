// Package module wires the verification cache into the API using modkit
package module

import (
	"crypto/subtle"
	"net/http"

	modkit "github.com/samtvlabs/bonsai-experiment/internal/modkit"
	"github.com/samtvlabs/bonsai-experiment/internal/modkit/httpkit"
	perr "github.com/samtvlabs/bonsai-experiment/internal/platform/errors"
	str "github.com/samtvlabs/bonsai-experiment/internal/platform/strings"
	"github.com/samtvlabs/bonsai-experiment/internal/services/verify/domain"
	verifyhttp "github.com/samtvlabs/bonsai-experiment/internal/services/verify/http"
	"github.com/samtvlabs/bonsai-experiment/internal/services/verify/repo"
	"github.com/samtvlabs/bonsai-experiment/internal/services/verify/service"
)

// InPorts are dependencies other modules inject via modkit.WithPorts
type InPorts struct {
	Dispatch domain.DispatchPort
	Notifier domain.NotifierPort
}

// Module implements the verify service module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc service.Service
}

// New constructs the verify module
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append(
		[]modkit.Option{modkit.WithName("verify"), modkit.WithPrefix("/verifications")},
		opts...,
	)...)
	o := FromConfig(deps.Cfg)

	var store domain.StorePort
	if deps.PG != nil {
		store = repo.NewPGStore(deps.PG)
	} else {
		store = repo.NewMemory()
	}

	in, _ := b.Ports.(InPorts)

	guard := service.NewGuard(domain.Principal(o.RelayPrincipal), domain.ImageID(o.TrustedImageID))
	svc := service.New(deps.Log, guard, store, in.Notifier, in.Dispatch)

	// bearer token -> relay principal; anything else is unauthorized
	authPort := httpkit.NewPortFunc(func(token string) (string, error) {
		if subtle.ConstantTimeCompare([]byte(token), []byte(o.RelayToken)) != 1 {
			return "", perr.Unauthorizedf("unknown relay token")
		}
		return o.RelayPrincipal, nil
	})

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = Ports{Ingest: svc, Query: svc, Submit: svc, Store: store}

	external := b.Register
	m.register = func(r httpkit.Router) {
		verifyhttp.Register(r, m.svc)
		httpkit.Protected(r, authPort, func(pr httpkit.Router) {
			verifyhttp.RegisterCallback(pr, m.svc, o.CallbackMaxBody)
		})
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

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Middlewares returns the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }

// Service exposes the verify service for schema setup and tests
func (m *Module) Service() service.Service { return m.svc }
