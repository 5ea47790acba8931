// Package anonymous mints device tokens for shoppers without an identity.
// Anonymous carts live on the device itself; the server only issues the
// opaque owner token the device keys its local cart by.
package anonymous

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

type Service struct {
	tokens *tokenManager
	ttl    time.Duration
}

func New() *Service {
	return &Service{
		tokens: newTokenManager(),
		ttl:    30 * 24 * time.Hour,
	}
}

// Issue mints a fresh device token. The anonymous id doubles as the owner
// key a device uses for its local cart.
func (s *Service) Issue(ctx context.Context) (token, anonymousID string, err error) {
	anonymousID = uuid.NewString()
	token, err = s.tokens.Issue(anonymousID, s.ttl)
	if err != nil {
		return "", "", err
	}
	return token, anonymousID, nil
}

// Lookup resolves a previously issued token back to its anonymous id. The
// gateway in front of this service calls it when translating a device token
// into the owner header; no in-process route consumes it.
func (s *Service) Lookup(ctx context.Context, token string) (string, error) {
	anonymousID, ok := s.tokens.Validate(token)
	if !ok {
		return "", ErrInvalidToken
	}
	return anonymousID, nil
}

func (s *Service) TTLSeconds() int {
	return int(s.ttl.Seconds())
}
