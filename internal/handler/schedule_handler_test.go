package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListSchedules_SeededWeek(t *testing.T) {
	server, _, _ := setupTestServer(t)

	w := performJSON(t, server, server.ListSchedules, http.MethodGet, "/api/schedules", "")

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	data, ok := body["data"].([]any)
	require.True(t, ok)
	assert.Len(t, data, 7)
}

func TestUpdateSchedule_EnablesAndRegistersAlarms(t *testing.T) {
	server, _, registrar := setupTestServer(t)

	w := performJSON(t, server, server.UpdateSchedule, http.MethodPut, "/api/schedules/3",
		`{"enabled":true,"target_time":"07:30"}`, gin.Param{Key: "weekday", Value: "3"})

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, data["enabled"])
	assert.Equal(t, "07:30", data["target_time"])

	regs, err := registrar.List(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, regs)
	for _, reg := range regs {
		assert.Equal(t, 3, reg.Weekday)
	}
}

func TestUpdateSchedule_ClampsPastCutoff(t *testing.T) {
	server, _, _ := setupTestServer(t)

	w := performJSON(t, server, server.UpdateSchedule, http.MethodPut, "/api/schedules/2",
		`{"enabled":true,"target_time":"14:30"}`, gin.Param{Key: "weekday", Value: "2"})

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "10:00", data["target_time"])
	assert.Contains(t, body["message"], "10:00")
}

func TestUpdateSchedule_InvalidWeekday(t *testing.T) {
	server, _, _ := setupTestServer(t)

	for _, value := range []string{"0", "8", "abc"} {
		w := performJSON(t, server, server.UpdateSchedule, http.MethodPut, "/api/schedules/"+value,
			`{"enabled":true}`, gin.Param{Key: "weekday", Value: value})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
}

func TestUpdateSchedule_InvalidTimeFormat(t *testing.T) {
	server, _, _ := setupTestServer(t)

	w := performJSON(t, server, server.UpdateSchedule, http.MethodPut, "/api/schedules/1",
		`{"target_time":"25:99"}`, gin.Param{Key: "weekday", Value: "1"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateSchedule_DisableCancelsAlarms(t *testing.T) {
	server, _, registrar := setupTestServer(t)

	w := performJSON(t, server, server.UpdateSchedule, http.MethodPut, "/api/schedules/4",
		`{"enabled":true,"target_time":"08:00"}`, gin.Param{Key: "weekday", Value: "4"})
	require.Equal(t, http.StatusOK, w.Code)

	w = performJSON(t, server, server.UpdateSchedule, http.MethodPut, "/api/schedules/4",
		`{"enabled":false}`, gin.Param{Key: "weekday", Value: "4"})
	require.Equal(t, http.StatusOK, w.Code)

	regs, err := registrar.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, regs)
}

func TestGetUserSettings_Defaults(t *testing.T) {
	server, _, _ := setupTestServer(t)

	w := performJSON(t, server, server.GetUserSettings, http.MethodGet, "/api/settings/user", "")

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(4), data["weekly_minimum"])
	assert.Equal(t, "system", data["theme"])
}

func TestUpdateUserSettings_InvalidTheme(t *testing.T) {
	server, _, _ := setupTestServer(t)

	w := performJSON(t, server, server.UpdateUserSettings, http.MethodPut, "/api/settings/user",
		`{"theme":"neon"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateUserSettings_ShortfallWarns(t *testing.T) {
	server, _, _ := setupTestServer(t)

	// No days enabled yet, so any minimum leaves a shortfall
	w := performJSON(t, server, server.UpdateUserSettings, http.MethodPut, "/api/settings/user",
		`{"weekly_minimum":5}`)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, data, "warning")
}
