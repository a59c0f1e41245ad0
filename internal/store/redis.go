package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a Store implementation backed by Redis. It is used when a
// Redis DSN is configured, which also enables cross-instance pub/sub.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a RedisStore from an existing client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Close closes the underlying Redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Set stores a key-value pair.
func (s *RedisStore) Set(key string, value []byte, ttl time.Duration) error {
	return s.client.Set(context.Background(), key, value, ttl).Err()
}

// Get retrieves a value by its key.
func (s *RedisStore) Get(key string) ([]byte, error) {
	val, err := s.client.Get(context.Background(), key).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	return val, err
}

// Delete removes a value by its key.
func (s *RedisStore) Delete(key string) error {
	return s.client.Del(context.Background(), key).Err()
}

// Del removes multiple values by their keys.
func (s *RedisStore) Del(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(context.Background(), keys...).Err()
}

// Exists checks if a key exists.
func (s *RedisStore) Exists(key string) (bool, error) {
	n, err := s.client.Exists(context.Background(), key).Result()
	return n > 0, err
}

// SetNX sets a key-value pair if the key does not already exist.
func (s *RedisStore) SetNX(key string, value []byte, ttl time.Duration) (bool, error) {
	return s.client.SetNX(context.Background(), key, value, ttl).Result()
}

// HSet sets fields of a hash.
func (s *RedisStore) HSet(key string, values map[string]any) error {
	return s.client.HSet(context.Background(), key, values).Err()
}

// HGetAll returns all fields of a hash.
func (s *RedisStore) HGetAll(key string) (map[string]string, error) {
	return s.client.HGetAll(context.Background(), key).Result()
}

// HDel removes fields from a hash.
func (s *RedisStore) HDel(key string, fields ...string) error {
	if len(fields) == 0 {
		return nil
	}
	return s.client.HDel(context.Background(), key, fields...).Err()
}

// HIncrBy atomically increments a hash field.
func (s *RedisStore) HIncrBy(key, field string, incr int64) (int64, error) {
	return s.client.HIncrBy(context.Background(), key, field, incr).Result()
}

// Publish sends a message to all subscribers of a channel.
func (s *RedisStore) Publish(channel string, message []byte) error {
	return s.client.Publish(context.Background(), channel, message).Err()
}

// redisSubscription implements Subscription for Redis.
type redisSubscription struct {
	pubsub  *redis.PubSub
	msgChan chan *Message
	done    chan struct{}
}

// Channel returns the message channel for the subscription.
func (rs *redisSubscription) Channel() <-chan *Message {
	return rs.msgChan
}

// Close unsubscribes and stops the forwarding goroutine.
func (rs *redisSubscription) Close() error {
	close(rs.done)
	return rs.pubsub.Close()
}

// Subscribe listens for messages on a given channel.
func (s *RedisStore) Subscribe(channel string) (Subscription, error) {
	pubsub := s.client.Subscribe(context.Background(), channel)

	if _, err := pubsub.Receive(context.Background()); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to channel %s: %w", channel, err)
	}

	sub := &redisSubscription{
		pubsub:  pubsub,
		msgChan: make(chan *Message, 10),
		done:    make(chan struct{}),
	}

	go func() {
		defer close(sub.msgChan)
		src := pubsub.Channel()
		for {
			select {
			case msg, ok := <-src:
				if !ok {
					return
				}
				select {
				case sub.msgChan <- &Message{Channel: msg.Channel, Payload: []byte(msg.Payload)}:
				case <-sub.done:
					return
				}
			case <-sub.done:
				return
			}
		}
	}()

	return sub, nil
}

// Clear removes all data from the current database.
func (s *RedisStore) Clear() error {
	return s.client.FlushDB(context.Background()).Err()
}
