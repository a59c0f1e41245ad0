// Package response provides the JSON envelope every API handler replies with,
// localizing messages through the request's negotiated language.
package response

import (
	"net/http"

	app_errors "routine-guard/internal/errors"
	"routine-guard/internal/i18n"

	"github.com/gin-gonic/gin"
)

// SuccessResponse is the envelope for successful replies. Code is always 0.
type SuccessResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ErrorResponse is the envelope for failed replies. Code is the machine
// readable error identifier, Message the localized human one.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Success replies 200 with data and the generic localized success message.
func Success(c *gin.Context, data any) {
	SuccessI18n(c, "common.success", data)
}

// SuccessI18n replies 200 with data and the localized message for msgID.
func SuccessI18n(c *gin.Context, msgID string, data any, templateData ...map[string]any) {
	c.JSON(http.StatusOK, SuccessResponse{
		Code:    0,
		Message: i18n.Message(c, msgID, templateData...),
		Data:    data,
	})
}

// Error replies with the APIError's status, code and message as-is.
func Error(c *gin.Context, apiErr *app_errors.APIError) {
	c.JSON(apiErr.HTTPStatus, ErrorResponse{
		Code:    apiErr.Code,
		Message: apiErr.Message,
	})
}

// ErrorI18n replies with an explicit status and code and a localized message.
func ErrorI18n(c *gin.Context, httpStatus int, code string, msgID string, templateData ...map[string]any) {
	c.JSON(httpStatus, ErrorResponse{
		Code:    code,
		Message: i18n.Message(c, msgID, templateData...),
	})
}

// ErrorI18nFromAPIError replies with the APIError's status and code but a
// localized message, for taxonomy errors whose text should follow the client
// language.
func ErrorI18nFromAPIError(c *gin.Context, apiErr *app_errors.APIError, msgID string, templateData ...map[string]any) {
	c.JSON(apiErr.HTTPStatus, ErrorResponse{
		Code:    apiErr.Code,
		Message: i18n.Message(c, msgID, templateData...),
	})
}
