// Package store provides a key-value store abstraction with in-memory and
// Redis implementations. It backs alert registration state, the daily credit
// lock, and cross-instance settings notification.
package store

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a key is not found in the store.
var ErrNotFound = errors.New("store: key not found")

// Message represents a message received from a subscription.
type Message struct {
	Channel string
	Payload []byte
}

// Subscription represents an active subscription to a channel.
type Subscription interface {
	// Channel returns the channel for receiving messages.
	Channel() <-chan *Message
	// Close unsubscribes and releases resources.
	Close() error
}

// Store defines the interface for key-value storage operations.
type Store interface {
	// Set stores a key-value pair with an optional TTL. ttl of 0 means no expiry.
	Set(key string, value []byte, ttl time.Duration) error

	// Get retrieves a value by key. Returns ErrNotFound if missing or expired.
	Get(key string) ([]byte, error)

	// Delete removes a single key.
	Delete(key string) error

	// Del removes multiple keys.
	Del(keys ...string) error

	// Exists checks if a key exists.
	Exists(key string) (bool, error)

	// SetNX sets a key only if it does not already exist. Returns true if set.
	SetNX(key string, value []byte, ttl time.Duration) (bool, error)

	// HSet sets fields of a hash.
	HSet(key string, values map[string]any) error

	// HGetAll returns all fields of a hash.
	HGetAll(key string) (map[string]string, error)

	// HDel removes fields from a hash.
	HDel(key string, fields ...string) error

	// HIncrBy atomically increments a hash field by incr.
	HIncrBy(key, field string, incr int64) (int64, error)

	// Publish sends a message to all subscribers of a channel.
	Publish(channel string, message []byte) error

	// Subscribe listens for messages on a channel.
	Subscribe(channel string) (Subscription, error)

	// Clear removes all data.
	Clear() error

	// Close releases resources held by the store.
	Close() error
}
