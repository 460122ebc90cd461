package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	authModel "edumark_backend/internals/features/users/auth/model"
)

type SessionStore interface {
	Create(ctx context.Context, s *authModel.SessionModel) error
	Get(ctx context.Context, id string) (*authModel.SessionModel, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

func validateSession(s *authModel.SessionModel) error {
	if s.ID == "" || s.UserID == "" {
		return fmt.Errorf("session: missing id or user_id")
	}
	return nil
}

/* ====================== MEMORY ====================== */

type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]authModel.SessionModel
	now      func() time.Time
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]authModel.SessionModel), now: time.Now}
}

func (m *MemorySessionStore) Create(_ context.Context, s *authModel.SessionModel) error {
	if err := validateSession(s); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = *s
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (*authModel.SessionModel, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok || s.Expired(m.now()) {
		return nil, ErrSessionNotFound
	}
	return &s, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *MemorySessionStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, s := range m.sessions {
		if s.Expired(now) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

/* ====================== REDIS ====================== */

type RedisSessionStore struct {
	client *redis.Client
	prefix string
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client, prefix: "session:"}
}

func (r *RedisSessionStore) key(id string) string { return r.prefix + id }

func (r *RedisSessionStore) Create(ctx context.Context, s *authModel.SessionModel) error {
	if err := validateSession(s); err != nil {
		return err
	}
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session: expires_at must be in the future")
	}
	data, err := sonic.Marshal(s)
	if err != nil {
		return fmt.Errorf("session: failed to marshal: %w", err)
	}
	return r.client.Set(ctx, r.key(s.ID), data, ttl).Err()
}

func (r *RedisSessionStore) Get(ctx context.Context, id string) (*authModel.SessionModel, error) {
	val, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	var s authModel.SessionModel
	if err := sonic.Unmarshal(val, &s); err != nil {
		return nil, fmt.Errorf("session: failed to unmarshal: %w", err)
	}
	return &s, nil
}

func (r *RedisSessionStore) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, r.key(id)).Err()
}

// DeleteExpired is a no-op: Redis expires keys itself.
func (r *RedisSessionStore) DeleteExpired(context.Context, time.Time) (int64, error) {
	return 0, nil
}

/* ====================== DATABASE ====================== */

type GormSessionStore struct {
	DB *gorm.DB
}

func NewGormSessionStore(db *gorm.DB) *GormSessionStore {
	return &GormSessionStore{DB: db}
}

func (g *GormSessionStore) Create(ctx context.Context, s *authModel.SessionModel) error {
	if err := validateSession(s); err != nil {
		return err
	}
	return g.DB.WithContext(ctx).Create(s).Error
}

func (g *GormSessionStore) Get(ctx context.Context, id string) (*authModel.SessionModel, error) {
	var s authModel.SessionModel
	if err := g.DB.WithContext(ctx).
		Where("id = ? AND expires_at > ?", id, time.Now().UTC()).
		First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (g *GormSessionStore) Delete(ctx context.Context, id string) error {
	return g.DB.WithContext(ctx).Where("id = ?", id).Delete(&authModel.SessionModel{}).Error
}

func (g *GormSessionStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := g.DB.WithContext(ctx).
		Where("expires_at <= ?", now.UTC()).
		Delete(&authModel.SessionModel{})
	return res.RowsAffected, res.Error
}
