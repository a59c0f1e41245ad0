package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMemoryStore_SetGet tests basic set and get operations
func TestMemoryStore_SetGet(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	key := "test_key"
	value := []byte("test_value")

	// Set value
	err := store.Set(key, value, 0)
	require.NoError(t, err)

	// Get value
	retrieved, err := store.Get(key)
	require.NoError(t, err)
	assert.Equal(t, value, retrieved)
}

// TestMemoryStore_GetNonExistent tests getting a non-existent key
func TestMemoryStore_GetNonExistent(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	_, err := store.Get("non_existent")
	assert.Equal(t, ErrNotFound, err)
}

// TestMemoryStore_SetWithTTL tests set with TTL
func TestMemoryStore_SetWithTTL(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	key := "ttl_key"
	value := []byte("ttl_value")
	ttl := 100 * time.Millisecond

	// Set with TTL
	err := store.Set(key, value, ttl)
	require.NoError(t, err)

	// Get immediately
	retrieved, err := store.Get(key)
	require.NoError(t, err)
	assert.Equal(t, value, retrieved)

	// Wait for expiration using Eventually to avoid flakiness
	require.Eventually(t, func() bool {
		_, err = store.Get(key)
		return err == ErrNotFound
	}, time.Second, 10*time.Millisecond, "Key should expire after TTL")
}

// TestMemoryStore_Delete tests delete operation
func TestMemoryStore_Delete(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	key := "delete_key"
	value := []byte("delete_value")

	err := store.Set(key, value, 0)
	require.NoError(t, err)

	err = store.Delete(key)
	require.NoError(t, err)

	_, err = store.Get(key)
	assert.Equal(t, ErrNotFound, err)
}

// TestMemoryStore_Del tests batch delete operation
func TestMemoryStore_Del(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	keys := []string{"key1", "key2", "key3"}
	for _, key := range keys {
		err := store.Set(key, []byte(key+"_value"), 0)
		require.NoError(t, err)
	}

	err := store.Del(keys...)
	require.NoError(t, err)

	for _, key := range keys {
		_, err := store.Get(key)
		assert.Equal(t, ErrNotFound, err)
	}
}

// TestMemoryStore_Exists tests exists operation
func TestMemoryStore_Exists(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	key := "exists_key"
	value := []byte("exists_value")

	exists, err := store.Exists(key)
	require.NoError(t, err)
	assert.False(t, exists)

	err = store.Set(key, value, 0)
	require.NoError(t, err)

	exists, err = store.Exists(key)
	require.NoError(t, err)
	assert.True(t, exists)
}

// TestMemoryStore_SetNX tests set if not exists operation
func TestMemoryStore_SetNX(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	key := "setnx_key"
	value1 := []byte("value1")
	value2 := []byte("value2")

	// First SetNX should succeed
	ok, err := store.SetNX(key, value1, 0)
	require.NoError(t, err)
	assert.True(t, ok)

	// Second SetNX should fail
	ok, err = store.SetNX(key, value2, 0)
	require.NoError(t, err)
	assert.False(t, ok)

	// Verify original value
	retrieved, err := store.Get(key)
	require.NoError(t, err)
	assert.Equal(t, value1, retrieved)
}

// TestMemoryStore_SetNXWithExpiredKey tests SetNX with expired key
func TestMemoryStore_SetNXWithExpiredKey(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	key := "setnx_expired_key"
	value1 := []byte("value1")
	value2 := []byte("value2")

	ok, err := store.SetNX(key, value1, 50*time.Millisecond)
	require.NoError(t, err)
	assert.True(t, ok)

	// Wait for expiration using Eventually to avoid flakiness
	require.Eventually(t, func() bool {
		_, err = store.Get(key)
		return err == ErrNotFound
	}, time.Second, 10*time.Millisecond, "Key should expire after TTL")

	// SetNX should succeed after expiration
	ok, err = store.SetNX(key, value2, 0)
	require.NoError(t, err)
	assert.True(t, ok)

	retrieved, err := store.Get(key)
	require.NoError(t, err)
	assert.Equal(t, value2, retrieved)
}

// TestMemoryStore_HSet tests hash set operation
func TestMemoryStore_HSet(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	key := "hash_key"
	values := map[string]any{
		"field1": "value1",
		"field2": 123,
		"field3": true,
	}

	err := store.HSet(key, values)
	require.NoError(t, err)

	result, err := store.HGetAll(key)
	require.NoError(t, err)
	assert.Equal(t, "value1", result["field1"])
	assert.Equal(t, "123", result["field2"])
	assert.Equal(t, "true", result["field3"])
}

// TestMemoryStore_HDel tests hash field deletion
func TestMemoryStore_HDel(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	key := "hash_del_key"
	err := store.HSet(key, map[string]any{"a": "1", "b": "2", "c": "3"})
	require.NoError(t, err)

	err = store.HDel(key, "a", "b")
	require.NoError(t, err)

	result, err := store.HGetAll(key)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"c": "3"}, result)

	// Removing the last field drops the key entirely
	err = store.HDel(key, "c")
	require.NoError(t, err)

	exists, err := store.Exists(key)
	require.NoError(t, err)
	assert.False(t, exists)

	// HDel on a missing key is a no-op
	assert.NoError(t, store.HDel("missing", "x"))
}

// TestMemoryStore_HIncrBy tests hash increment operation
func TestMemoryStore_HIncrBy(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	key := "hash_incr_key"
	field := "counter"

	// Increment non-existent field
	newVal, err := store.HIncrBy(key, field, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), newVal)

	// Increment again
	newVal, err = store.HIncrBy(key, field, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(8), newVal)

	// Decrement
	newVal, err = store.HIncrBy(key, field, -2)
	require.NoError(t, err)
	assert.Equal(t, int64(6), newVal)
}

// TestMemoryStore_PubSub tests publish/subscribe
func TestMemoryStore_PubSub(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	channel := "test_channel"
	message := []byte("test_message")

	sub, err := store.Subscribe(channel)
	require.NoError(t, err)
	defer sub.Close()

	err = store.Publish(channel, message)
	require.NoError(t, err)

	select {
	case msg := <-sub.Channel():
		assert.Equal(t, channel, msg.Channel)
		assert.Equal(t, message, msg.Payload)
	case <-time.After(1 * time.Second):
		t.Fatal("Timeout waiting for message")
	}
}

// TestMemoryStore_PubSubMultipleSubscribers tests multiple subscribers
func TestMemoryStore_PubSubMultipleSubscribers(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	channel := "multi_channel"
	message := []byte("multi_message")

	sub1, err := store.Subscribe(channel)
	require.NoError(t, err)
	defer sub1.Close()

	sub2, err := store.Subscribe(channel)
	require.NoError(t, err)
	defer sub2.Close()

	err = store.Publish(channel, message)
	require.NoError(t, err)

	received := 0
	timeout := time.After(1 * time.Second)

	for received < 2 {
		select {
		case msg := <-sub1.Channel():
			assert.Equal(t, message, msg.Payload)
			received++
		case msg := <-sub2.Channel():
			assert.Equal(t, message, msg.Payload)
			received++
		case <-timeout:
			t.Fatalf("Timeout, only received %d messages", received)
		}
	}
}

// TestMemoryStore_SubscriptionCloseIdempotent verifies double Close is safe
func TestMemoryStore_SubscriptionCloseIdempotent(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	sub, err := store.Subscribe("close_channel")
	require.NoError(t, err)

	assert.NoError(t, sub.Close())
	assert.NotPanics(t, func() { sub.Close() })
}

// TestMemoryStore_Clear tests clear operation
func TestMemoryStore_Clear(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	for i := 0; i < 10; i++ {
		key := "key_" + string(rune('0'+i))
		err := store.Set(key, []byte("value"), 0)
		require.NoError(t, err)
	}

	err := store.Clear()
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		key := "key_" + string(rune('0'+i))
		_, err := store.Get(key)
		assert.Equal(t, ErrNotFound, err)
	}
}

// TestMemoryStore_ConcurrentAccess tests concurrent access
func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	const goroutines = 100
	const operations = 100

	done := make(chan bool, goroutines)
	errCh := make(chan error, goroutines*operations)

	for i := 0; i < goroutines; i++ {
		go func(id int) {
			for j := 0; j < operations; j++ {
				if err := store.Set("concurrent_key", []byte("value"), 0); err != nil {
					errCh <- err
					break
				}
			}
			done <- true
		}(i)
	}

	for i := 0; i < goroutines; i++ {
		<-done
	}
	close(errCh)

	for err := range errCh {
		assert.NoError(t, err)
	}

	_, err := store.Get("concurrent_key")
	assert.NoError(t, err)
}
