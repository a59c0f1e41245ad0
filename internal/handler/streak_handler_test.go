package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStreak_CreatesSingleton(t *testing.T) {
	server, _, _ := setupTestServer(t)

	w := performJSON(t, server, server.GetStreak, http.MethodGet, "/api/streak", "")

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(0), data["current_streak"])
	assert.Equal(t, float64(0), data["longest_streak"])
}

func TestResetStreak_KeepsLongest(t *testing.T) {
	server, _, _ := setupTestServer(t)

	require.NoError(t, server.DB.Exec(
		`INSERT INTO streak_data (id, current_streak, longest_streak, total_verifications, created_at, updated_at)
		 VALUES (1, 5, 8, 12, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`).Error)

	w := performJSON(t, server, server.ResetStreak, http.MethodPost, "/api/streak/reset", "")

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(0), data["current_streak"])
	assert.Equal(t, float64(8), data["longest_streak"])
	assert.NotNil(t, data["last_streak_reset_date"])
}
