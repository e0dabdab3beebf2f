// Package http provides http transport for the verification cache
package http

import (
	stdhttp "net/http"

	"github.com/samtvlabs/bonsai-experiment/internal/core/receipt"
	"github.com/samtvlabs/bonsai-experiment/internal/modkit/httpkit"
	"github.com/samtvlabs/bonsai-experiment/internal/services/verify/domain"
	svc "github.com/samtvlabs/bonsai-experiment/internal/services/verify/service"
)

// Register mounts the public verification endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	// submit a request for external verification
	httpkit.PostJSONMax[domain.SubmitInput](r, "/", 0, h.submit)

	// look up a computed result; absence is 404, never false
	httpkit.PostJSONMax[domain.QueryInput](r, "/query", 0, h.query)

	// cache counts
	httpkit.Get(r, "/stats", h.stats)
}

// RegisterCallback mounts the relay callback under an authenticated router.
// budget caps the callback body size in bytes.
func RegisterCallback(r httpkit.Router, s svc.Service, budget int64) {
	h := &handlers{svc: s}
	httpkit.PostJSONMax[domain.CallbackInput](r, "/callback", budget, h.callback)
}

type handlers struct{ svc svc.Service }

// swagger:route POST /verifications Verifications verificationsSubmit
// @Summary Submit a verification request to the relay
// @Tags Verifications
// @Accept json
// @Produce json
// @Param payload body domain.SubmitInput true "Request"
// @Success 202 {object} domain.SubmitAccepted "accepted"
// @Router /verifications [post]
func (h *handlers) submit(r *stdhttp.Request, in domain.SubmitInput) (any, error) {
	d, err := h.svc.Submit(r.Context(), receipt.Request{Message: in.Message, Signature: in.Signature})
	if err != nil {
		return nil, err
	}
	return httpkit.Response{
		Status: stdhttp.StatusAccepted,
		Body:   domain.SubmitAccepted{Digest: d.String()},
	}, nil
}

// swagger:route POST /verifications/callback Verifications verificationsCallback
// @Summary Relay callback delivering a computed result
// @Tags Verifications
// @Accept json
// @Produce json
// @Param payload body domain.CallbackInput true "Result"
// @Success 200 {object} domain.CallbackAck "ok"
// @Failure 403 {object} httpkit.Envelope "untrusted source or program"
// @Failure 409 {object} httpkit.Envelope "conflicting result"
// @Security BearerAuth
// @Router /verifications/callback [post]
func (h *handlers) callback(r *stdhttp.Request, in domain.CallbackInput) (any, error) {
	caller, err := httpkit.Principal(r)
	if err != nil {
		return nil, err
	}
	d, out, err := h.svc.Ingest(
		r.Context(),
		domain.Principal(caller),
		domain.ImageID(in.ImageID),
		receipt.Request{Message: in.Message, Signature: in.Signature},
		in.Result,
	)
	if err != nil {
		return nil, err
	}
	return domain.CallbackAck{Digest: d.String(), Outcome: out.String()}, nil
}

// swagger:route POST /verifications/query Verifications verificationsQuery
// @Summary Query a computed verification result
// @Tags Verifications
// @Accept json
// @Produce json
// @Param payload body domain.QueryInput true "Request"
// @Success 200 {object} domain.QueryResult "ok"
// @Failure 404 {object} httpkit.Envelope "not computed yet"
// @Router /verifications/query [post]
func (h *handlers) query(r *stdhttp.Request, in domain.QueryInput) (any, error) {
	return h.svc.Query(r.Context(), receipt.Request{Message: in.Message, Signature: in.Signature})
}

// swagger:route GET /verifications/stats Verifications verificationsStats
// @Summary Cache counts
// @Tags Verifications
// @Produce json
// @Success 200 {object} domain.Stats "ok"
// @Router /verifications/stats [get]
func (h *handlers) stats(r *stdhttp.Request) (any, error) {
	return h.svc.CacheStats(r.Context())
}
