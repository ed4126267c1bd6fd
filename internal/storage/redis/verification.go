package redis

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cinemood/auth-server/internal/model"
)

const (
	codeKeyPrefix     = "verify:code:"
	pendingKeyPrefix  = "verify:pending:"
	attemptsKeyPrefix = "verify:attempts:"

	codeDigits = 6
)

var codeUpperBound = big.NewInt(1_000_000)

var _ model.CodeStore = (*CodeStore)(nil)

// CodeStore keeps one-time verification codes and pending registrations.
// Keys are derived from the normalized email; one code per email, last write wins.
type CodeStore struct {
	client      *redis.Client
	ttl         time.Duration
	maxAttempts int64
}

// NewCodeStore creates a CodeStore. maxAttempts <= 0 disables attempt counting.
func NewCodeStore(client *redis.Client, ttl time.Duration, maxAttempts int) *CodeStore {
	if ttl <= 0 {
		ttl = model.VerificationCodeTTL
	}
	return &CodeStore{client: client, ttl: ttl, maxAttempts: int64(maxAttempts)}
}

func (s *CodeStore) TTL() time.Duration {
	return s.ttl
}

func codeKey(email string) string {
	return codeKeyPrefix + model.NormalizeEmail(email)
}

func pendingKey(email string) string {
	return pendingKeyPrefix + model.NormalizeEmail(email)
}

func attemptsKey(email string) string {
	return attemptsKeyPrefix + model.NormalizeEmail(email)
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeUpperBound)
	if err != nil {
		return "", fmt.Errorf("failed to generate verification code: %w", err)
	}
	return fmt.Sprintf("%0*d", codeDigits, n.Int64()), nil
}

// IssueCode stores a fresh code for email, replacing any previous one.
func (s *CodeStore) IssueCode(ctx context.Context, email string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, codeKey(email), code, s.ttl)
		pipe.Del(ctx, attemptsKey(email))
		return nil
	})
	if err != nil {
		return "", unavailable(err)
	}
	return code, nil
}

// MatchCode compares candidate with the stored code. It does not consume the code.
func (s *CodeStore) MatchCode(ctx context.Context, email, candidate string) (bool, error) {
	stored, err := s.client.Get(ctx, codeKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, unavailable(err)
	}

	if len(candidate) == len(stored) && subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1 {
		return true, nil
	}

	if s.maxAttempts > 0 {
		if err := s.recordFailure(ctx, email); err != nil {
			return false, err
		}
	}
	return false, nil
}

func (s *CodeStore) recordFailure(ctx context.Context, email string) error {
	var incr *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, attemptsKey(email))
		pipe.Expire(ctx, attemptsKey(email), s.ttl)
		return nil
	})
	if err != nil {
		return unavailable(err)
	}

	if incr.Val() < s.maxAttempts {
		return nil
	}
	if err := s.client.Del(ctx, codeKey(email), attemptsKey(email)).Err(); err != nil {
		return unavailable(err)
	}
	return nil
}

func (s *CodeStore) DeleteCode(ctx context.Context, email string) error {
	if err := s.client.Del(ctx, codeKey(email), attemptsKey(email)).Err(); err != nil {
		return unavailable(err)
	}
	return nil
}

func (s *CodeStore) StorePending(ctx context.Context, email string, pending model.PendingRegistration) error {
	payload, err := json.Marshal(pending)
	if err != nil {
		return fmt.Errorf("failed to marshal pending registration: %w", err)
	}
	if err := s.client.Set(ctx, pendingKey(email), payload, s.ttl).Err(); err != nil {
		return unavailable(err)
	}
	return nil
}

func (s *CodeStore) TakePending(ctx context.Context, email string) (*model.PendingRegistration, error) {
	payload, err := s.client.Get(ctx, pendingKey(email)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, unavailable(err)
	}

	var pending model.PendingRegistration
	if err := json.Unmarshal(payload, &pending); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pending registration: %w", err)
	}
	return &pending, nil
}

func (s *CodeStore) DeletePending(ctx context.Context, email string) error {
	if err := s.client.Del(ctx, pendingKey(email)).Err(); err != nil {
		return unavailable(err)
	}
	return nil
}
