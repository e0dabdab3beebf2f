// Package http provides http transport for the notification log
package http

import (
	stdhttp "net/http"

	"github.com/samtvlabs/bonsai-experiment/internal/modkit/httpkit"
	"github.com/samtvlabs/bonsai-experiment/internal/services/notify/domain"
	svc "github.com/samtvlabs/bonsai-experiment/internal/services/notify/service"
)

// Register mounts notification endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.PostJSONMax[domain.RecentInput](r, "/recent", 0, h.recent)
}

type handlers struct{ svc svc.Service }

// swagger:route POST /notifications/recent Notifications notificationsRecent
// @Summary Recent result notifications
// @Tags Notifications
// @Accept json
// @Produce json
// @Param payload body domain.RecentInput true "Page"
// @Success 200 {array} domain.Row "ok"
// @Router /notifications/recent [post]
func (h *handlers) recent(r *stdhttp.Request, in domain.RecentInput) (any, error) {
	return h.svc.Recent(r.Context(), in.Limit)
}
