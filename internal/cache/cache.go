// Package cache keeps a disposable copy of the catalog so that shop requests
// do not each cost a round trip to the hosted backend.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rogerio-castellano/frame-storefront/internal/models"
)

const SnapshotKey = "catalog:snapshot"

// Store holds one catalog snapshot. Get reports a miss with ok == false.
type Store interface {
	Get(ctx context.Context) (products []models.Product, ok bool, err error)
	Set(ctx context.Context, products []models.Product) error
	Delete(ctx context.Context) error
}

// RedisStore shares the snapshot between instances.
type RedisStore struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, key: SnapshotKey, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context) ([]models.Product, bool, error) {
	data, err := s.rdb.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", s.key, err)
	}

	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, false, fmt.Errorf("failed to decode %s: %w", s.key, err)
	}
	return products, true, nil
}

func (s *RedisStore) Set(ctx context.Context, products []models.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, s.key, data, s.ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context) error {
	return s.rdb.Del(ctx, s.key).Err()
}

// MemoryStore is the single-instance fallback when Redis is disabled.
type MemoryStore struct {
	mu       sync.RWMutex
	products []models.Product
	expires  time.Time
	ttl      time.Duration
	now      func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, now: time.Now}
}

func (s *MemoryStore) Get(ctx context.Context) ([]models.Product, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.products == nil || !s.now().Before(s.expires) {
		return nil, false, nil
	}
	return append([]models.Product{}, s.products...), true, nil
}

func (s *MemoryStore) Set(ctx context.Context, products []models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = append([]models.Product{}, products...)
	s.expires = s.now().Add(s.ttl)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = nil
	return nil
}
