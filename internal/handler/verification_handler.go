package handler

import (
	"errors"

	"routine-guard/internal/capability"
	app_errors "routine-guard/internal/errors"
	"routine-guard/internal/models"
	"routine-guard/internal/response"

	"github.com/gin-gonic/gin"
)

// VerifyRequest is the body of POST /api/verifications.
type VerifyRequest struct {
	Capture      *capability.Capture `json:"capture"`
	AttemptCount int                 `json:"attempt_count"`
}

// CreateVerification handles POST /api/verifications. It runs the full
// detection pipeline over the capture; both outcomes are persisted, but a
// cancelled capture or detector transport failure produces no record.
func (s *Server) CreateVerification(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrInvalidJSON, err.Error()))
		return
	}
	if req.Capture == nil {
		response.ErrorI18n(c, 400, "VALIDATION_ERROR", "validation.capture_required")
		return
	}

	result, err := s.VerificationService.Verify(c.Request.Context(), req.Capture, req.AttemptCount)
	if err != nil {
		var apiErr *app_errors.APIError
		if errors.As(err, &apiErr) {
			response.Error(c, apiErr)
			return
		}
		if app_errors.IsIgnorableError(err) {
			// Client gave up mid-capture; nothing was recorded.
			c.Abort()
			return
		}
		response.Error(c, app_errors.ParseDBError(err))
		return
	}

	response.SuccessI18n(c, verifyMessageID(result.Record), result)
}

// ListVerifications handles GET /api/verifications with pagination.
func (s *Server) ListVerifications(c *gin.Context) {
	var records []models.Verification
	page, err := response.Paginate(c, s.VerificationService.HistoryQuery(), &records)
	if err != nil {
		response.Error(c, app_errors.ParseDBError(err))
		return
	}
	response.Success(c, page)
}

func verifyMessageID(record *models.Verification) string {
	if record.Result == models.ResultPass {
		if record.Degraded {
			return "verify.degraded"
		}
		return "verify.pass"
	}
	return "verify.fail." + *record.FailureReason
}
