package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/cinemood/auth-server/internal/model"
)

const (
	allowKeyPrefix     = "session:allow:"
	blacklistKeyPrefix = "session:blacklist:"
	revokeAllKeyPrefix = "session:revoke_all:"
)

// rotateScript blacklists the presented token only if no other request did
// it first, then allow-lists the successor.
// KEYS[1] = blacklist key of the old token
// KEYS[2] = allow key of the new token
// ARGV[1] = ttl in milliseconds
var rotateScript = redis.NewScript(`
local ok = redis.call('SET', KEYS[1], '1', 'NX', 'PX', ARGV[1])
if not ok then
  return 0
end
redis.call('SET', KEYS[2], '1', 'PX', ARGV[1])
return 1
`)

var _ model.SessionStore = (*SessionStore)(nil)

// SessionStore keeps refresh token allow-list, blacklist and revoke-all
// markers in redis. Every entry lives for the refresh token lifetime.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore creates a SessionStore whose entries expire after ttl.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func allowKey(userID uuid.UUID, tokenID string) string {
	return allowKeyPrefix + userID.String() + ":" + tokenID
}

func blacklistKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return blacklistKeyPrefix + hex.EncodeToString(sum[:])
}

func revokeAllKey(userID uuid.UUID) string {
	return revokeAllKeyPrefix + userID.String()
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %v", model.ErrStoreUnavailable, err)
}

func (s *SessionStore) Allow(ctx context.Context, userID uuid.UUID, tokenID string) error {
	if err := s.client.Set(ctx, allowKey(userID, tokenID), "1", s.ttl).Err(); err != nil {
		return unavailable(err)
	}
	return nil
}

// IsAllowed reports whether the refresh token identified by tokenID may be
// exchanged. While a revoke-all marker exists for the user every token is
// rejected without looking at the allow-list.
func (s *SessionStore) IsAllowed(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error) {
	revoked, err := s.client.Exists(ctx, revokeAllKey(userID)).Result()
	if err != nil {
		return false, unavailable(err)
	}
	if revoked == 1 {
		return false, nil
	}

	n, err := s.client.Exists(ctx, allowKey(userID, tokenID)).Result()
	if err != nil {
		return false, unavailable(err)
	}
	return n == 1, nil
}

func (s *SessionStore) Blacklist(ctx context.Context, token string) error {
	if err := s.client.Set(ctx, blacklistKey(token), "1", s.ttl).Err(); err != nil {
		return unavailable(err)
	}
	return nil
}

func (s *SessionStore) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	n, err := s.client.Exists(ctx, blacklistKey(token)).Result()
	if err != nil {
		return false, unavailable(err)
	}
	return n == 1, nil
}

func (s *SessionStore) Rotate(ctx context.Context, userID uuid.UUID, oldToken, newTokenID string) error {
	keys := []string{blacklistKey(oldToken), allowKey(userID, newTokenID)}
	rotated, err := rotateScript.Run(ctx, s.client, keys, s.ttl.Milliseconds()).Int64()
	if err != nil {
		return unavailable(err)
	}
	if rotated == 0 {
		return model.ErrTokenBlacklisted
	}
	return nil
}

// RevokeAll writes the user's revoke-all marker for the refresh token
// lifetime. Allow-list entries are left to expire on their own.
func (s *SessionStore) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	if err := s.client.Set(ctx, revokeAllKey(userID), "1", s.ttl).Err(); err != nil {
		return unavailable(err)
	}
	return nil
}
