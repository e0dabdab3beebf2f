package module

import (
	"github.com/samtvlabs/bonsai-experiment/internal/services/verify/domain"
)

// Ports exposed by the verify module for cross-module wiring
type Ports struct {
	Ingest domain.IngestPort
	Query  domain.QueryPort
	Submit domain.SubmitPort
	Store  domain.StorePort
}

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }
