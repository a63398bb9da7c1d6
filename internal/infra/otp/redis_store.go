// Package otp keeps one-time passwords and password recovery tokens in Redis.
package otp

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"math/big"
	"time"

	"starmobiles/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const (
	otpKeyPrefix      = "otp:"
	recoveryKeyPrefix = "recovery:"

	defaultCodeLength = 6
	// maxVerifyAttempts burns the code after this many wrong guesses.
	maxVerifyAttempts = 5
)

type redisOTPStore struct {
	rdb        redis.Cmdable
	codeLength int
}

// NewOTPStore creates an OTPStore. Codes are stored hashed, never in clear.
func NewOTPStore(rdb redis.Cmdable, codeLength int) service.OTPStore {
	if codeLength <= 0 {
		codeLength = defaultCodeLength
	}

	return &redisOTPStore{rdb: rdb, codeLength: codeLength}
}

func (s *redisOTPStore) Issue(ctx context.Context, phone string, ttl time.Duration) (string, error) {
	code, err := randomDigits(s.codeLength)
	if err != nil {
		return "", err
	}

	key := otpKeyPrefix + phone
	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, "hash", hashCode(code), "attempts", 0)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", errors.Wrap(err, "failed to store otp")
	}

	return code, nil
}

func (s *redisOTPStore) Verify(ctx context.Context, phone, code string) (bool, error) {
	key := otpKeyPrefix + phone

	stored, err := s.rdb.HGet(ctx, key, "hash").Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "failed to read otp")
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(hashCode(code))) == 1 {
		if err := s.rdb.Del(ctx, key).Err(); err != nil {
			return false, errors.Wrap(err, "failed to consume otp")
		}

		return true, nil
	}

	attempts, err := s.rdb.HIncrBy(ctx, key, "attempts", 1).Result()
	if err != nil {
		return false, errors.Wrap(err, "failed to count otp attempt")
	}
	if attempts >= maxVerifyAttempts {
		if err := s.rdb.Del(ctx, key).Err(); err != nil {
			return false, errors.Wrap(err, "failed to burn otp")
		}
	}

	return false, nil
}

type redisRecoveryStore struct {
	rdb redis.Cmdable
}

// NewRecoveryStore creates a RecoveryStore backed by Redis.
func NewRecoveryStore(rdb redis.Cmdable) service.RecoveryStore {
	return &redisRecoveryStore{rdb: rdb}
}

func (s *redisRecoveryStore) Issue(ctx context.Context, userID uuid.UUID, ttl time.Duration) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "failed to generate recovery token")
	}
	token := base64.RawURLEncoding.EncodeToString(buf)

	if err := s.rdb.Set(ctx, recoveryKeyPrefix+hashCode(token), userID.String(), ttl).Err(); err != nil {
		return "", errors.Wrap(err, "failed to store recovery token")
	}

	return token, nil
}

func (s *redisRecoveryStore) Consume(ctx context.Context, token string) (uuid.UUID, bool, error) {
	raw, err := s.rdb.GetDel(ctx, recoveryKeyPrefix+hashCode(token)).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, errors.Wrap(err, "failed to consume recovery token")
	}

	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false, errors.Wrap(err, "corrupt recovery token entry")
	}

	return userID, true, nil
}

func randomDigits(n int) (string, error) {
	digits := make([]byte, n)
	for i := range digits {
		d, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", errors.Wrap(err, "failed to generate otp")
		}
		digits[i] = byte('0' + d.Int64())
	}

	return string(digits), nil
}

func hashCode(code string) string {
	sum := sha256.Sum256([]byte(code))

	return hex.EncodeToString(sum[:])
}
