package httpclient

import (
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClientManager(t *testing.T) {
	manager := NewHTTPClientManager()
	assert.NotNil(t, manager)
	assert.NotNil(t, manager.clients)
	assert.Empty(t, manager.clients)
}

func TestGetClient(t *testing.T) {
	manager := NewHTTPClientManager()

	config := &Config{
		ConnectTimeout:      10 * time.Second,
		RequestTimeout:      30 * time.Second,
		IdleConnTimeout:     90 * time.Second,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
	}

	client1 := manager.GetClient(config)
	require.NotNil(t, client1)
	assert.Equal(t, 30*time.Second, client1.Timeout)

	// Same config must return the cached client
	client2 := manager.GetClient(config)
	assert.Same(t, client1, client2)
	assert.Len(t, manager.clients, 1)
}

func TestGetClient_DifferentConfigs(t *testing.T) {
	manager := NewHTTPClientManager()

	clientA := manager.GetClient(&Config{RequestTimeout: 10 * time.Second})
	clientB := manager.GetClient(&Config{RequestTimeout: 20 * time.Second})

	assert.NotSame(t, clientA, clientB)
	assert.Len(t, manager.clients, 2)
}

func TestGetClient_Concurrent(t *testing.T) {
	manager := NewHTTPClientManager()
	config := &Config{RequestTimeout: 15 * time.Second}

	var wg sync.WaitGroup
	clients := make([]*http.Client, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			clients[idx] = manager.GetClient(config)
		}(i)
	}
	wg.Wait()

	for _, c := range clients {
		assert.Same(t, clients[0], c)
	}
	assert.Len(t, manager.clients, 1)
}

func TestGetClient_MaxConnsPerHostFloor(t *testing.T) {
	manager := NewHTTPClientManager()

	client := manager.GetClient(&Config{MaxIdleConnsPerHost: 2})
	transport, ok := client.Transport.(*http.Transport)
	require.True(t, ok)
	assert.Equal(t, 10, transport.MaxConnsPerHost)

	client = manager.GetClient(&Config{MaxIdleConnsPerHost: 20})
	transport, ok = client.Transport.(*http.Transport)
	require.True(t, ok)
	assert.Equal(t, 40, transport.MaxConnsPerHost)
}

func TestGetClient_DisableCompression(t *testing.T) {
	manager := NewHTTPClientManager()

	client := manager.GetClient(&Config{DisableCompression: true})
	transport, ok := client.Transport.(*http.Transport)
	require.True(t, ok)
	assert.True(t, transport.DisableCompression)
}

func TestCloseIdleConnections(t *testing.T) {
	manager := NewHTTPClientManager()
	manager.GetClient(&Config{RequestTimeout: 5 * time.Second})

	assert.NotPanics(t, func() {
		manager.CloseIdleConnections()
	})
}

func BenchmarkGetClient(b *testing.B) {
	manager := NewHTTPClientManager()
	config := &Config{RequestTimeout: 30 * time.Second}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		manager.GetClient(config)
	}
}
