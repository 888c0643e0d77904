package auth

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

const revokedKeyPrefix = "estudio-revoked-session||"

// RevocationStore keeps the ids of tokens invalidated by a logout before
// their natural expiry. Entries expire together with the token itself,
// so the set never needs a separate cleanup pass.
type RevocationStore struct {
	redisClient *redis.Client
}

func NewRevocationStore(redisClient *redis.Client) *RevocationStore {
	return &RevocationStore{
		redisClient: redisClient,
	}
}

func (rs *RevocationStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	return rs.redisClient.Set(ctx, revokedKeyPrefix+tokenID, 1, ttl).Err()
}

func (rs *RevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	err := rs.redisClient.Get(ctx, revokedKeyPrefix+tokenID).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
