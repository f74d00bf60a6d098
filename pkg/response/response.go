// Package response defines the JSON envelopes shared by every handler.
// Success bodies carry named payload keys plus an optional "mensaje";
// failures carry {"error": {"code", "message", "details?"}}.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the machine-readable error payload.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type errorEnvelope struct {
	Error ErrorBody `json:"error"`
}

// OK sends a 200 JSON response with the given payload.
func OK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

// Created sends a 201 JSON response with the given payload.
func Created(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusCreated, payload)
}

// Error sends an error envelope with the given status and code.
func Error(c *gin.Context, status int, code, message string) {
	c.JSON(status, errorEnvelope{Error: ErrorBody{Code: code, Message: message}})
}

// ValidationError sends a 400 with field-level details.
func ValidationError(c *gin.Context, details interface{}) {
	c.JSON(http.StatusBadRequest, errorEnvelope{Error: ErrorBody{
		Code:    "VALIDATION_ERROR",
		Message: "Validation failed",
		Details: details,
	}})
}

// BadRequest sends a 400.
func BadRequest(c *gin.Context, code, message string) {
	Error(c, http.StatusBadRequest, code, message)
}

// Unauthorized sends a 401.
func Unauthorized(c *gin.Context, code, message string) {
	Error(c, http.StatusUnauthorized, code, message)
}

// Forbidden sends a 403 with code FORBIDDEN.
func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, "FORBIDDEN", message)
}

// NotFound sends a 404.
func NotFound(c *gin.Context, code, message string) {
	Error(c, http.StatusNotFound, code, message)
}

// Conflict sends a 409.
func Conflict(c *gin.Context, code, message string) {
	Error(c, http.StatusConflict, code, message)
}

// Internal sends a 500 with code INTERNAL_ERROR. Detail belongs in the log,
// not the body.
func Internal(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", message)
}
