package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestAPIErrorImplementsError(t *testing.T) {
	assert.Equal(t, "Invalid request parameters", ErrBadRequest.Error())

	custom := &APIError{HTTPStatus: 500, Code: "TEST", Message: "boom"}
	assert.Equal(t, "boom", custom.Error())
}

func TestPredefinedErrors(t *testing.T) {
	tests := []struct {
		err        *APIError
		statusCode int
		code       string
	}{
		{ErrBadRequest, http.StatusBadRequest, "BAD_REQUEST"},
		{ErrInvalidJSON, http.StatusBadRequest, "INVALID_JSON"},
		{ErrValidation, http.StatusBadRequest, "VALIDATION_FAILED"},
		{ErrDuplicateResource, http.StatusConflict, "DUPLICATE_RESOURCE"},
		{ErrResourceNotFound, http.StatusNotFound, "NOT_FOUND"},
		{ErrInternalServer, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
		{ErrDatabase, http.StatusInternalServerError, "DATABASE_ERROR"},
		{ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{ErrTaskInProgress, http.StatusConflict, "TASK_IN_PROGRESS"},
		{ErrBadGateway, http.StatusBadGateway, "BAD_GATEWAY"},
		{ErrDetectorUnavailable, http.StatusServiceUnavailable, "DETECTOR_UNAVAILABLE"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.statusCode, tt.err.HTTPStatus)
			assert.Equal(t, tt.code, tt.err.Code)
			assert.NotEmpty(t, tt.err.Message)
		})
	}
}

// Constructors keep the base error's status and code but swap the message.
func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name string
		got  *APIError
		base *APIError
	}{
		{"NewAPIError", NewAPIError(ErrBadRequest, "weekday out of range"), ErrBadRequest},
		{"NewValidationError", NewValidationError("target_time must be HH:MM"), ErrValidation},
		{"NewAuthenticationError", NewAuthenticationError("bad key"), ErrUnauthorized},
		{"NewNotFoundError", NewNotFoundError("schedule not found"), ErrResourceNotFound},
		{"NewForbiddenError", NewForbiddenError("denied"), ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.base.HTTPStatus, tt.got.HTTPStatus)
			assert.Equal(t, tt.base.Code, tt.got.Code)
			assert.NotEqual(t, tt.base.Message, tt.got.Message)
		})
	}
}

func TestNewAPIErrorWithUpstream(t *testing.T) {
	err := NewAPIErrorWithUpstream(http.StatusBadGateway, "UPSTREAM_ERROR", "detector returned 502")

	assert.Equal(t, http.StatusBadGateway, err.HTTPStatus)
	assert.Equal(t, "UPSTREAM_ERROR", err.Code)
	assert.Equal(t, "detector returned 502", err.Message)
}

func TestParseDBError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want *APIError
	}{
		{"nil error", nil, nil},
		{"record not found", gorm.ErrRecordNotFound, ErrResourceNotFound},
		{"postgres unique violation", &pgconn.PgError{Code: "23505"}, ErrDuplicateResource},
		{"mysql duplicate entry", &mysql.MySQLError{Number: 1062}, ErrDuplicateResource},
		{"sqlite unique constraint", errors.New("UNIQUE constraint failed: day_schedules.weekday"), ErrDuplicateResource},
		{"anything else", errors.New("database connection failed"), ErrDatabase},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDBError(tt.err)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			assert.Equal(t, tt.want.HTTPStatus, got.HTTPStatus)
			assert.Equal(t, tt.want.Code, got.Code)
		})
	}
}

func BenchmarkParseDBError(b *testing.B) {
	err := gorm.ErrRecordNotFound
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ParseDBError(err)
	}
}
