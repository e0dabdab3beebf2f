package service

import (
	"crypto/subtle"

	"github.com/samtvlabs/bonsai-experiment/internal/services/verify/domain"
)

// Guard authorizes relay callbacks. Which principal and which guest
// image we trust is fixed at construction and never changes.
type Guard struct {
	relay domain.Principal
	image domain.ImageID
}

// NewGuard constructs a guard trusting exactly one caller and one program
func NewGuard(relay domain.Principal, image domain.ImageID) *Guard {
	if relay == "" {
		panic("verify.Guard requires a relay principal")
	}
	if image == "" {
		panic("verify.Guard requires a trusted image id")
	}
	return &Guard{relay: relay, image: image}
}

// Authorize checks caller identity first, then program identity.
// Both checks must pass before any state is touched.
func (g *Guard) Authorize(caller domain.Principal, image domain.ImageID) error {
	if subtle.ConstantTimeCompare([]byte(caller), []byte(g.relay)) != 1 {
		return domain.ErrUntrustedSource
	}
	if subtle.ConstantTimeCompare([]byte(image), []byte(g.image)) != 1 {
		return domain.ErrUntrustedProgram
	}
	return nil
}
