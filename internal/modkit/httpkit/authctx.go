package httpkit

import (
	"net/http"
	"strings"

	perrs "github.com/samtvlabs/bonsai-experiment/internal/platform/errors"
	pnet "github.com/samtvlabs/bonsai-experiment/internal/platform/net"
)

// Principal returns the authenticated caller principal from the request context
func Principal(r *http.Request) (string, error) {
	p := pnet.Principal(r.Context())
	if p == "" {
		return "", perrs.Unauthorizedf("missing bearer token")
	}
	return p, nil
}

// MustPrincipal returns the authenticated caller principal or panics
// only use on routes protected by the auth middleware
func MustPrincipal(r *http.Request) string {
	p, err := Principal(r)
	if err != nil {
		panic(err)
	}
	return p
}

// BearerToken returns the raw bearer token from the Authorization header
func BearerToken(r *http.Request) (string, error) {
	authz := r.Header.Get("Authorization")
	if strings.TrimSpace(authz) == "" {
		return "", perrs.Unauthorizedf("missing bearer token")
	}
	// case-insensitive Bearer prefix (don't trim the whole header first)
	const prefix = "bearer "
	if len(authz) < len(prefix) || strings.ToLower(authz[:len(prefix)]) != prefix {
		return "", perrs.Unauthorizedf("missing bearer token")
	}
	raw := strings.TrimSpace(authz[len(prefix):])
	if raw == "" {
		return "", perrs.Unauthorizedf("missing bearer token")
	}
	return raw, nil
}
