package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"wholesale-backend/models"

	"github.com/redis/go-redis/v9"
)

// CartRepository persists per-user cart snapshots, checkout sessions and
// checkout idempotency records.
type CartRepository interface {
	GetCart(ctx context.Context, userID string) (*models.Cart, error)
	SaveCart(ctx context.Context, cart *models.Cart) error
	DeleteCart(ctx context.Context, userID string) error
	GetSession(ctx context.Context, userID string) (*models.CheckoutSession, error)
	SaveSession(ctx context.Context, session *models.CheckoutSession) error
	DeleteSession(ctx context.Context, userID string) error
	GetIdempotency(ctx context.Context, key string) (string, error)
	SetIdempotency(ctx context.Context, key, orderID string, ttl time.Duration) error
}

// RedisCartRepository implements CartRepository on Redis. Carts are
// single-writer per user, so no locking is needed.
type RedisCartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCartRepository(client *redis.Client, ttl time.Duration) CartRepository {
	return &RedisCartRepository{
		client: client,
		ttl:    ttl,
	}
}

func (r *RedisCartRepository) cartKey(userID string) string {
	return fmt.Sprintf("cart:user:%s", userID)
}

func (r *RedisCartRepository) sessionKey(userID string) string {
	return fmt.Sprintf("checkout:user:%s", userID)
}

func (r *RedisCartRepository) GetCart(ctx context.Context, userID string) (*models.Cart, error) {
	data, err := r.client.Get(ctx, r.cartKey(userID)).Result()
	if err == redis.Nil {
		// No cart found
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var cart models.Cart
	if err := json.Unmarshal([]byte(data), &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *RedisCartRepository) SaveCart(ctx context.Context, cart *models.Cart) error {
	cart.UpdatedAt = time.Now()

	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, r.cartKey(cart.UserID), data, r.ttl).Err()
}

func (r *RedisCartRepository) DeleteCart(ctx context.Context, userID string) error {
	return r.client.Del(ctx, r.cartKey(userID)).Err()
}

func (r *RedisCartRepository) GetSession(ctx context.Context, userID string) (*models.CheckoutSession, error) {
	data, err := r.client.Get(ctx, r.sessionKey(userID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var session models.CheckoutSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *RedisCartRepository) SaveSession(ctx context.Context, session *models.CheckoutSession) error {
	session.UpdatedAt = time.Now()

	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, r.sessionKey(session.UserID), data, r.ttl).Err()
}

func (r *RedisCartRepository) DeleteSession(ctx context.Context, userID string) error {
	return r.client.Del(ctx, r.sessionKey(userID)).Err()
}

// Idempotency helpers: completed checkouts record their order ID under the
// client-supplied key so a retry after a partial failure cannot create a
// duplicate order.
func (r *RedisCartRepository) idemKey(key string) string {
	return "idem:checkout:" + key
}

func (r *RedisCartRepository) GetIdempotency(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, r.idemKey(key)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (r *RedisCartRepository) SetIdempotency(ctx context.Context, key, orderID string, ttl time.Duration) error {
	return r.client.Set(ctx, r.idemKey(key), orderID, ttl).Err()
}
