package store

import (
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// memoryItem holds a value and its expiration timestamp.
type memoryItem struct {
	value     []byte
	expiresAt int64 // Unix-nano timestamp. 0 for no expiry.
}

// MemoryStore is an in-memory Store implementation safe for concurrent use.
// It is the default backend when no Redis DSN is configured.
type MemoryStore struct {
	mu              sync.RWMutex
	data            map[string]any
	muSubscribers   sync.RWMutex
	subscribers     map[string]map[chan *Message]struct{}
	droppedMessages atomic.Int64
	stopCleanup     chan struct{}
}

// NewMemoryStore creates a MemoryStore and starts its expiry sweeper.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		data:        make(map[string]any),
		subscribers: make(map[string]map[chan *Message]struct{}),
		stopCleanup: make(chan struct{}),
	}
	go s.cleanupExpiredItems()
	return s
}

// Close stops the sweeper and drops all subscriber tracking. Subscriber
// channels are closed by their own Subscription.Close to avoid double-close.
func (s *MemoryStore) Close() error {
	close(s.stopCleanup)

	s.muSubscribers.Lock()
	for channel := range s.subscribers {
		delete(s.subscribers, channel)
	}
	s.muSubscribers.Unlock()

	return nil
}

// Set stores a key-value pair.
func (s *MemoryStore) Set(key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var expiresAt int64
	if ttl > 0 {
		expiresAt = time.Now().UnixNano() + ttl.Nanoseconds()
	}

	s.data[key] = memoryItem{value: value, expiresAt: expiresAt}
	return nil
}

// Get retrieves a value by its key.
func (s *MemoryStore) Get(key string) ([]byte, error) {
	s.mu.RLock()
	raw, exists := s.data[key]
	s.mu.RUnlock()

	if !exists {
		return nil, ErrNotFound
	}

	item, ok := raw.(memoryItem)
	if !ok {
		return nil, fmt.Errorf("type mismatch: key '%s' holds a different data type", key)
	}

	if item.expiresAt > 0 && time.Now().UnixNano() > item.expiresAt {
		s.mu.Lock()
		delete(s.data, key)
		s.mu.Unlock()
		return nil, ErrNotFound
	}

	return item.value, nil
}

// Delete removes a value by its key.
func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Del removes multiple values by their keys.
func (s *MemoryStore) Del(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.data, key)
	}
	return nil
}

// Exists checks if a key exists.
func (s *MemoryStore) Exists(key string) (bool, error) {
	s.mu.RLock()
	raw, exists := s.data[key]
	s.mu.RUnlock()

	if !exists {
		return false, nil
	}

	if item, ok := raw.(memoryItem); ok {
		if item.expiresAt > 0 && time.Now().UnixNano() > item.expiresAt {
			s.mu.Lock()
			delete(s.data, key)
			s.mu.Unlock()
			return false, nil
		}
	}

	return true, nil
}

// SetNX sets a key-value pair if the key does not already exist.
func (s *MemoryStore) SetNX(key string, value []byte, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, exists := s.data[key]
	if exists {
		if item, ok := raw.(memoryItem); ok {
			if item.expiresAt == 0 || time.Now().UnixNano() < item.expiresAt {
				return false, nil
			}
		} else {
			// Key exists but holds a hash, treat as existing.
			return false, nil
		}
	}

	var expiresAt int64
	if ttl > 0 {
		expiresAt = time.Now().UnixNano() + ttl.Nanoseconds()
	}
	s.data[key] = memoryItem{value: value, expiresAt: expiresAt}
	return true, nil
}

// --- HASH operations ---

func (s *MemoryStore) HSet(key string, values map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	hash, err := s.hashForWrite(key)
	if err != nil {
		return err
	}

	for field, value := range values {
		hash[field] = fmt.Sprint(value)
	}
	return nil
}

func (s *MemoryStore) HGetAll(key string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, exists := s.data[key]
	if !exists {
		return make(map[string]string), nil
	}

	hash, ok := raw.(map[string]string)
	if !ok {
		return nil, fmt.Errorf("type mismatch: key '%s' holds a different data type", key)
	}

	result := make(map[string]string, len(hash))
	for k, v := range hash {
		result[k] = v
	}

	return result, nil
}

func (s *MemoryStore) HDel(key string, fields ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, exists := s.data[key]
	if !exists {
		return nil
	}

	hash, ok := raw.(map[string]string)
	if !ok {
		return fmt.Errorf("type mismatch: key '%s' holds a different data type", key)
	}

	for _, field := range fields {
		delete(hash, field)
	}
	if len(hash) == 0 {
		delete(s.data, key)
	}
	return nil
}

func (s *MemoryStore) HIncrBy(key, field string, incr int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hash, err := s.hashForWrite(key)
	if err != nil {
		return 0, err
	}

	currentVal, _ := strconv.ParseInt(hash[field], 10, 64)
	newVal := currentVal + incr
	hash[field] = strconv.FormatInt(newVal, 10)

	return newVal, nil
}

// hashForWrite returns the hash stored at key, creating it if absent.
// Callers must hold the write lock.
func (s *MemoryStore) hashForWrite(key string) (map[string]string, error) {
	raw, exists := s.data[key]
	if !exists {
		hash := make(map[string]string)
		s.data[key] = hash
		return hash, nil
	}
	hash, ok := raw.(map[string]string)
	if !ok {
		return nil, fmt.Errorf("type mismatch: key '%s' holds a different data type", key)
	}
	return hash, nil
}

// --- Pub/Sub operations ---

// memorySubscription implements Subscription for the in-memory store.
type memorySubscription struct {
	store     *MemoryStore
	channel   string
	msgChan   chan *Message
	closeOnce sync.Once
}

// Channel returns the message channel for the subscription.
func (ms *memorySubscription) Channel() <-chan *Message {
	return ms.msgChan
}

// Close removes the subscription from the store. Idempotent.
func (ms *memorySubscription) Close() error {
	ms.closeOnce.Do(func() {
		ms.store.muSubscribers.Lock()
		defer ms.store.muSubscribers.Unlock()

		if subs, ok := ms.store.subscribers[ms.channel]; ok {
			delete(subs, ms.msgChan)
			if len(subs) == 0 {
				delete(ms.store.subscribers, ms.channel)
			}
		}
		close(ms.msgChan)
	})
	return nil
}

// Publish sends a message to all subscribers of a channel. Delivery is
// at-most-once: messages are dropped rather than blocking the publisher when
// a subscriber's buffer is full.
func (s *MemoryStore) Publish(channel string, message []byte) error {
	s.muSubscribers.RLock()
	defer s.muSubscribers.RUnlock()

	msg := &Message{Channel: channel, Payload: message}

	if subs, ok := s.subscribers[channel]; ok {
		droppedCount := 0

		for subCh := range subs {
			select {
			case subCh <- msg:
			default:
				droppedCount++
			}
		}

		if droppedCount > 0 {
			s.droppedMessages.Add(int64(droppedCount))

			if logrus.IsLevelEnabled(logrus.DebugLevel) {
				logrus.WithFields(logrus.Fields{
					"channel":           channel,
					"subscribers":       len(subs),
					"dropped_this_call": droppedCount,
					"dropped_total":     s.droppedMessages.Load(),
				}).Debug("Dropped messages due to full subscriber buffers")
			}
		}
	}
	return nil
}

// Subscribe listens for messages on a given channel.
func (s *MemoryStore) Subscribe(channel string) (Subscription, error) {
	s.muSubscribers.Lock()
	defer s.muSubscribers.Unlock()

	msgChan := make(chan *Message, 10)

	if _, ok := s.subscribers[channel]; !ok {
		s.subscribers[channel] = make(map[chan *Message]struct{})
	}
	s.subscribers[channel][msgChan] = struct{}{}

	return &memorySubscription{store: s, channel: channel, msgChan: msgChan}, nil
}

// Clear clears all data.
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string]any)
	return nil
}

// DroppedMessages returns the total messages dropped under backpressure.
func (s *MemoryStore) DroppedMessages() int64 {
	return s.droppedMessages.Load()
}

// cleanupExpiredItems periodically removes expired items so keys that are
// never read again do not accumulate.
func (s *MemoryStore) cleanupExpiredItems() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.performCleanup()
		case <-s.stopCleanup:
			logrus.Debug("MemoryStore cleanup goroutine stopped")
			return
		}
	}
}

func (s *MemoryStore) performCleanup() {
	now := time.Now().UnixNano()
	expiredKeys := make([]string, 0, 64)

	s.mu.RLock()
	for key, raw := range s.data {
		if item, ok := raw.(memoryItem); ok {
			if item.expiresAt > 0 && now > item.expiresAt {
				expiredKeys = append(expiredKeys, key)
			}
		}
	}
	s.mu.RUnlock()

	if len(expiredKeys) == 0 {
		return
	}

	s.mu.Lock()
	for _, key := range expiredKeys {
		// Re-check under the write lock in case the key was overwritten.
		if raw, exists := s.data[key]; exists {
			if item, ok := raw.(memoryItem); ok {
				if item.expiresAt > 0 && now > item.expiresAt {
					delete(s.data, key)
				}
			}
		}
	}
	s.mu.Unlock()
}
