package jwt

import (
	"context"
	"time"

	"realestate-backend/pkg/cache"
)

const revokedKeyPrefix = "auth:revoked:"

// RevocationStore remembers revoked token ids until the tokens expire.
type RevocationStore struct {
	cache cache.Cache
	now   func() time.Time
}

func NewRevocationStore(c cache.Cache) *RevocationStore {
	return &RevocationStore{cache: c, now: time.Now}
}

// Revoke blacklists jti until expiresAt. Already expired tokens are ignored.
func (s *RevocationStore) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	if jti == "" {
		return nil
	}
	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	return s.cache.Set(ctx, revokedKeyPrefix+jti, true, ttl)
}

func (s *RevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	return s.cache.Exists(ctx, revokedKeyPrefix+jti)
}
