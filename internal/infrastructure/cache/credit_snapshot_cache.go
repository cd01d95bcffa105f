package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	partnerapp "github.com/flourmill/backend/internal/application/partner"
	"github.com/flourmill/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisCreditSnapshotCache caches the credit availability view in Redis.
// Entries expire on a short TTL; the customers table stays authoritative
// and every write path invalidates or refreshes the entry.
type RedisCreditSnapshotCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisCreditSnapshotCache creates a cache backed by a new Redis connection
func NewRedisCreditSnapshotCache(cfg *config.RedisConfig) (*RedisCreditSnapshotCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisCreditSnapshotCacheWithClient(client, cfg.SnapshotTTL), nil
}

// NewRedisCreditSnapshotCacheWithClient creates a cache with an existing Redis
// client. Useful for testing or when sharing a client across components.
func NewRedisCreditSnapshotCacheWithClient(client *redis.Client, ttl time.Duration) *RedisCreditSnapshotCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisCreditSnapshotCache{
		client:    client,
		keyPrefix: "credit:snapshot:",
		ttl:       ttl,
	}
}

// Get returns the cached snapshot, or nil on a miss
func (c *RedisCreditSnapshotCache) Get(ctx context.Context, customerID uuid.UUID) (*partnerapp.CreditSummaryResponse, error) {
	data, err := c.client.Get(ctx, c.key(customerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read credit snapshot: %w", err)
	}

	var snapshot partnerapp.CreditSummaryResponse
	if err := json.Unmarshal(data, &snapshot); err != nil {
		// A corrupt entry behaves like a miss; the next write replaces it
		return nil, nil
	}
	return &snapshot, nil
}

// Set stores the snapshot with the configured TTL
func (c *RedisCreditSnapshotCache) Set(ctx context.Context, snapshot partnerapp.CreditSummaryResponse) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode credit snapshot: %w", err)
	}
	if err := c.client.Set(ctx, c.key(snapshot.CustomerID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store credit snapshot: %w", err)
	}
	return nil
}

// Invalidate removes the snapshot for a customer
func (c *RedisCreditSnapshotCache) Invalidate(ctx context.Context, customerID uuid.UUID) error {
	if err := c.client.Del(ctx, c.key(customerID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate credit snapshot: %w", err)
	}
	return nil
}

// Close releases the underlying Redis connection
func (c *RedisCreditSnapshotCache) Close() error {
	return c.client.Close()
}

func (c *RedisCreditSnapshotCache) key(customerID uuid.UUID) string {
	return c.keyPrefix + customerID.String()
}

// Ensure RedisCreditSnapshotCache implements CreditSnapshotCache
var _ partnerapp.CreditSnapshotCache = (*RedisCreditSnapshotCache)(nil)
