// internals/features/attendance/qr/repository/redis_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"edumark_backend/internals/features/attendance/qr/model"
)

const (
	issuedKeyPrefix = "attendance:issued:"
	claimKeyPrefix  = "attendance:claims:"

	// claim hashes outlive their session by this much
	DefaultClaimRetention = 7 * 24 * time.Hour
	// issuance records linger past expiry so late scans still resolve to EXPIRED_TOKEN
	DefaultIssuanceGrace = 5 * time.Minute
)

// IssuanceGrace is how long an issuance record must outlive its nominal expiry.
// The validator accepts tokens up to skew past expiry, so the grace grows with it.
func IssuanceGrace(skew time.Duration) time.Duration {
	if skew < 0 {
		skew = 0
	}
	return DefaultIssuanceGrace + skew
}

func issuanceTTL(expires, now time.Time, grace time.Duration) time.Duration {
	ttl := expires.Sub(now) + grace
	if ttl <= 0 {
		return grace
	}
	return ttl
}

/* ====================== ISSUANCE ====================== */

type RedisIssuanceStore struct {
	client *redis.Client
	grace  time.Duration
}

// NewRedisIssuanceStore keeps each key until expiry plus grace (DefaultIssuanceGrace when <= 0).
func NewRedisIssuanceStore(client *redis.Client, grace time.Duration) *RedisIssuanceStore {
	if grace <= 0 {
		grace = DefaultIssuanceGrace
	}
	return &RedisIssuanceStore{client: client, grace: grace}
}

func (s *RedisIssuanceStore) key(nonce string) string { return issuedKeyPrefix + nonce }

func (s *RedisIssuanceStore) Save(ctx context.Context, rec *model.IssuedQRModel) error {
	if rec.IssuedQRNonce == "" {
		return fmt.Errorf("issuance: missing nonce")
	}
	if rec.IssuedQRCreatedAt.IsZero() {
		rec.IssuedQRCreatedAt = time.Now().UTC()
	}
	ttl := issuanceTTL(rec.IssuedQRExpiresAt, time.Now(), s.grace)
	data, err := sonic.Marshal(rec)
	if err != nil {
		return fmt.Errorf("issuance: failed to marshal: %w", err)
	}
	return s.client.Set(ctx, s.key(rec.IssuedQRNonce), data, ttl).Err()
}

func (s *RedisIssuanceStore) FindByNonce(ctx context.Context, nonce string) (*model.IssuedQRModel, error) {
	val, err := s.client.Get(ctx, s.key(nonce)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var rec model.IssuedQRModel
	if err := sonic.Unmarshal(val, &rec); err != nil {
		return nil, fmt.Errorf("issuance: failed to unmarshal: %w", err)
	}
	return &rec, nil
}

// DeleteExpiredBefore is a no-op: keys carry their own TTL.
func (s *RedisIssuanceStore) DeleteExpiredBefore(context.Context, time.Time) (int64, error) {
	return 0, nil
}

/* ====================== CLAIMS ====================== */

// RedisClaimLedger keeps one hash per session, field = student id.
type RedisClaimLedger struct {
	client    *redis.Client
	retention time.Duration
}

func NewRedisClaimLedger(client *redis.Client, retention time.Duration) *RedisClaimLedger {
	if retention <= 0 {
		retention = DefaultClaimRetention
	}
	return &RedisClaimLedger{client: client, retention: retention}
}

func (l *RedisClaimLedger) key(sessionID string) string { return claimKeyPrefix + sessionID }

func (l *RedisClaimLedger) InsertIfAbsent(ctx context.Context, claim *model.AttendanceClaimModel) (bool, error) {
	if claim.AttendanceClaimCreatedAt.IsZero() {
		claim.AttendanceClaimCreatedAt = time.Now().UTC()
	}
	data, err := sonic.Marshal(claim)
	if err != nil {
		return false, fmt.Errorf("claim: failed to marshal: %w", err)
	}

	key := l.key(claim.AttendanceClaimSessionID)
	inserted, err := l.client.HSetNX(ctx, key, claim.AttendanceClaimStudentID, data).Result()
	if err != nil {
		return false, err
	}
	if inserted {
		if err := l.client.Expire(ctx, key, l.retention).Err(); err != nil {
			return true, err
		}
	}
	return inserted, nil
}

func (l *RedisClaimLedger) CountBySession(ctx context.Context, sessionID string) (int64, error) {
	return l.client.HLen(ctx, l.key(sessionID)).Result()
}

func (l *RedisClaimLedger) ListBySession(ctx context.Context, sessionID string, offset, limit int) ([]model.AttendanceClaimModel, int64, error) {
	all, err := l.client.HGetAll(ctx, l.key(sessionID)).Result()
	if err != nil {
		return nil, 0, err
	}
	rows := make([]model.AttendanceClaimModel, 0, len(all))
	for _, raw := range all {
		var c model.AttendanceClaimModel
		if err := sonic.UnmarshalString(raw, &c); err != nil {
			return nil, 0, fmt.Errorf("claim: failed to unmarshal: %w", err)
		}
		rows = append(rows, c)
	}
	sortClaims(rows)
	return pageClaims(rows, offset, limit), int64(len(rows)), nil
}
