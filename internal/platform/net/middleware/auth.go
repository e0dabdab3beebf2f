package middleware

import (
	"net/http"

	pnet "github.com/samtvlabs/bonsai-experiment/internal/platform/net"
)

// AuthPort authenticates a request and yields the caller principal.
// The principal comes from the transport (bearer token), never the payload.
type AuthPort interface {
	// Parse returns the caller principal from the request or an error
	Parse(r *http.Request) (principal string, err error)
}

// Auth is a no-op until wired. It uses the port when provided
func Auth(p AuthPort, write func(w http.ResponseWriter, status int, body any)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p == nil {
				next.ServeHTTP(w, r)
				return
			}
			principal, err := p.Parse(r)
			if err != nil {
				status, body := pnet.Error(err, pnet.RequestID(r.Context()))
				write(w, status, body)
				return
			}
			ctx := pnet.WithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
