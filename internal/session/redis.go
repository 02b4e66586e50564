package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// changeChannel is the pub/sub channel carrying session change events so
// every process sharing the store observes logins and logouts.
const changeChannel = "rioporto:session-events"

// RedisStore is the shared session backend. Records expire server-side via
// TTL as a backstop; the Manager still checks ExpiresAt on read because the
// two clocks are not the same.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to redis and verifies the connection.
func NewRedisStore(ctx context.Context, addr, password string, db int, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

// Close releases the redis connection.
func (r *RedisStore) Close() error {
	return r.client.Close()
}

// Get returns the stored value or ErrNotFound.
func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return data, nil
}

// Put stores the value with the backstop TTL and publishes a change event.
func (r *RedisStore) Put(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, key, value, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	r.publish(ctx, key)
	return nil
}

// Delete removes the value and publishes a change event.
func (r *RedisStore) Delete(ctx context.Context, key string) error {
	deleted, err := r.client.Del(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	if deleted > 0 {
		r.publish(ctx, key)
	}
	return nil
}

// Watch subscribes to the change channel. Events carry only the key;
// consumers re-read the store for the authoritative state.
func (r *RedisStore) Watch(ctx context.Context) (<-chan Event, error) {
	sub := r.client.Subscribe(ctx, changeChannel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", changeChannel, err)
	}

	out := make(chan Event, 16)
	go func() {
		defer close(out)
		defer sub.Close()
		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				select {
				case out <- Event{Key: msg.Payload}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func (r *RedisStore) publish(ctx context.Context, key string) {
	// Notification is best effort: a missed event only delays observers
	// until their next periodic re-validation.
	_ = r.client.Publish(ctx, changeChannel, key).Err()
}
