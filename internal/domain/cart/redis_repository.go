// internal/domain/cart/redis_repository.go
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RedisRepository stores each cart as one JSON blob with a sliding TTL.
// This is the primary persistence substrate; an idle cart expires after
// the configured TTL.
type RedisRepository struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
	log       *logrus.Logger
}

// NewRedisRepository creates a Redis-backed cart repository.
func NewRedisRepository(client *redis.Client, keyPrefix string, ttl time.Duration, log *logrus.Logger) *RedisRepository {
	return &RedisRepository{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
		log:       log,
	}
}

func (r *RedisRepository) key(cartID string) string {
	return fmt.Sprintf("%s%s", r.keyPrefix, cartID)
}

// Load retrieves the cart for cartID. A missing key or an unreadable blob
// yields a fresh empty cart.
func (r *RedisRepository) Load(ctx context.Context, cartID string) (*Cart, error) {
	data, err := r.client.Get(ctx, r.key(cartID)).Result()
	if errors.Is(err, redis.Nil) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	var c Cart
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		// Treat a corrupted blob like a missing cart
		r.log.WithFields(logrus.Fields{
			"cart_id": cartID,
			"error":   err,
		}).Warn("Discarding unreadable cart blob")
		return New(), nil
	}

	return &c, nil
}

// Save serializes the cart and writes it with the repository TTL.
func (r *RedisRepository) Save(ctx context.Context, cartID string, c *Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to serialize cart: %w", err)
	}

	if err := r.client.Set(ctx, r.key(cartID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// Delete removes the cart key.
func (r *RedisRepository) Delete(ctx context.Context, cartID string) error {
	if err := r.client.Del(ctx, r.key(cartID)).Err(); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}
