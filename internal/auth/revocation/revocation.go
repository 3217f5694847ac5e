// Package revocation tracks revoked token IDs until the token would have
// expired anyway.
package revocation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"droneregistry/pkg/platform/sentinel"
)

func validateTTL(ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("ttl must be positive: %w", sentinel.ErrInvalidState)
	}
	return nil
}

// InMemoryList keeps revoked jtis in process. Single-instance deployments only.
type InMemoryList struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewInMemory() *InMemoryList {
	return &InMemoryList{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Revoke marks jti revoked for ttl.
func (l *InMemoryList) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if jti == "" {
		return nil
	}
	if err := validateTTL(ttl); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.revoked[jti] = l.now().Add(ttl)
	return nil
}

// IsRevoked reports whether jti is revoked and not yet expired.
func (l *InMemoryList) IsRevoked(_ context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	expiresAt, ok := l.revoked[jti]
	if !ok {
		return false, nil
	}
	if !l.now().Before(expiresAt) {
		delete(l.revoked, jti)
		return false, nil
	}
	return true, nil
}
