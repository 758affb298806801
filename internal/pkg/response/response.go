package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lendly/service-booking/internal/domain"
)

// ErrorBody is the JSON shape of every error response. Reason is a
// machine-readable code; Message is for humans.
type ErrorBody struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

// PageBody wraps list responses.
type PageBody struct {
	Items  interface{} `json:"items"`
	Total  int64       `json:"total"`
	Offset int         `json:"offset"`
	Limit  int         `json:"limit"`
}

// Success writes a 200 response with the given payload.
func Success(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

// Created writes a 201 response with the given payload.
func Created(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusCreated, payload)
}

// NoContent writes a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Paginated writes a 200 response with a page envelope.
func Paginated(c *gin.Context, items interface{}, total int64, offset, limit int) {
	c.JSON(http.StatusOK, PageBody{Items: items, Total: total, Offset: offset, Limit: limit})
}

// BadRequest writes a 400 response with the given message.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorBody{Error: message, Reason: domain.ReasonInvalidInput})
}

// Error maps a service error to an HTTP response. Domain errors carry their
// kind and reason; anything else is an internal fault and stays opaque.
func Error(c *gin.Context, err error) {
	var domErr *domain.Error
	if errors.As(err, &domErr) {
		c.JSON(statusFor(domErr.Kind), ErrorBody{Error: domErr.Message, Reason: domErr.Reason})
		return
	}
	c.JSON(http.StatusInternalServerError, ErrorBody{Error: "internal server error"})
}

func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindValidation, domain.KindInvalidState:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
