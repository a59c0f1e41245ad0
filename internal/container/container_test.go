package container

import (
	"testing"

	"routine-guard/internal/config"
	"routine-guard/internal/handler"
	"routine-guard/internal/services"
	"routine-guard/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestEnv sets up test environment variables
func setupTestEnv(t testing.TB) {
	t.Helper()
	t.Setenv("AUTH_KEY", "test-auth-key-minimum-16-chars")
	t.Setenv("DATABASE_DSN", ":memory:")
	t.Setenv("PORT", "3001")
}

// TestBuildContainer tests container creation
func TestBuildContainer(t *testing.T) {
	setupTestEnv(t)

	container, err := BuildContainer()
	require.NoError(t, err)
	require.NotNil(t, container)
}

// TestBuildContainer_ConfigManagerResolution tests config manager resolution
func TestBuildContainer_ConfigManagerResolution(t *testing.T) {
	setupTestEnv(t)

	container, err := BuildContainer()
	require.NoError(t, err)

	var configManager types.ConfigManager
	err = container.Invoke(func(cm types.ConfigManager) {
		configManager = cm
	})
	require.NoError(t, err)
	assert.NotNil(t, configManager)
}

// TestBuildContainer_SystemSettingsManager tests system settings manager resolution
func TestBuildContainer_SystemSettingsManager(t *testing.T) {
	setupTestEnv(t)

	container, err := BuildContainer()
	require.NoError(t, err)

	var settingsManager *config.SystemSettingsManager
	err = container.Invoke(func(sm *config.SystemSettingsManager) {
		settingsManager = sm
	})
	require.NoError(t, err)
	assert.NotNil(t, settingsManager)
}

// TestBuildContainer_ServerResolution tests that the full handler graph resolves
func TestBuildContainer_ServerResolution(t *testing.T) {
	setupTestEnv(t)

	container, err := BuildContainer()
	require.NoError(t, err)

	err = container.Invoke(func(server *handler.Server, verification *services.VerificationService) {
		assert.NotNil(t, server)
		assert.NotNil(t, verification)
	})
	require.NoError(t, err)
}

// TestBuildContainer_ServiceSingleton tests that services are singletons
func TestBuildContainer_ServiceSingleton(t *testing.T) {
	setupTestEnv(t)

	container, err := BuildContainer()
	require.NoError(t, err)

	var cm1, cm2 types.ConfigManager
	err = container.Invoke(func(cm types.ConfigManager) {
		cm1 = cm
	})
	require.NoError(t, err)
	err = container.Invoke(func(cm types.ConfigManager) {
		cm2 = cm
	})
	require.NoError(t, err)
	assert.Same(t, cm1, cm2)
}

// TestBuildContainer_WithCustomPort tests container with custom port
func TestBuildContainer_WithCustomPort(t *testing.T) {
	setupTestEnv(t)
	t.Setenv("PORT", "8080")

	container, err := BuildContainer()
	require.NoError(t, err)

	var configManager types.ConfigManager
	err = container.Invoke(func(cm types.ConfigManager) {
		configManager = cm
	})
	require.NoError(t, err)
	assert.Equal(t, 8080, configManager.GetEffectiveServerConfig().Port)
}

// TestBuildContainer_WithDebugMode tests container with debug mode enabled
func TestBuildContainer_WithDebugMode(t *testing.T) {
	setupTestEnv(t)
	t.Setenv("DEBUG_MODE", "true")

	container, err := BuildContainer()
	require.NoError(t, err)

	var configManager types.ConfigManager
	err = container.Invoke(func(cm types.ConfigManager) {
		configManager = cm
	})
	require.NoError(t, err)
	assert.True(t, configManager.IsDebugMode())
}

// TestBuildContainer_WithSlaveMode tests container with slave mode
func TestBuildContainer_WithSlaveMode(t *testing.T) {
	setupTestEnv(t)
	t.Setenv("IS_SLAVE", "true")

	container, err := BuildContainer()
	require.NoError(t, err)

	var configManager types.ConfigManager
	err = container.Invoke(func(cm types.ConfigManager) {
		configManager = cm
	})
	require.NoError(t, err)
	assert.False(t, configManager.IsMaster())
}

// BenchmarkBuildContainer benchmarks container creation
func BenchmarkBuildContainer(b *testing.B) {
	setupTestEnv(b)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		container, err := BuildContainer()
		if err != nil {
			b.Fatal(err)
		}
		_ = container
	}
}
