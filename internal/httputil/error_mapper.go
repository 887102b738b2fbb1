package httputil

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// HTTPErrorInfo contains the HTTP status code and message for an error.
type HTTPErrorInfo struct {
	Status  int
	Message string
}

// ErrorMapping represents a single error to HTTP status/message mapping.
type ErrorMapping struct {
	Error   error
	Status  int
	Message string
}

// ErrorMapper maps domain errors to HTTP status codes and messages.
// An empty Message in a mapping means "use err.Error()".
type ErrorMapper struct {
	mappings       []ErrorMapping
	defaultStatus  int
	defaultMessage string
}

func NewErrorMapper() *ErrorMapper {
	return &ErrorMapper{
		defaultStatus:  http.StatusInternalServerError,
		defaultMessage: "internal server error",
	}
}

func (m *ErrorMapper) WithMapping(err error, status int, message string) *ErrorMapper {
	m.mappings = append(m.mappings, ErrorMapping{
		Error:   err,
		Status:  status,
		Message: message,
	})
	return m
}

func (m *ErrorMapper) WithDefault(status int, message string) *ErrorMapper {
	m.defaultStatus = status
	m.defaultMessage = message
	return m
}

// Map converts an error to HTTP status and message.
func (m *ErrorMapper) Map(err error) HTTPErrorInfo {
	if err == nil {
		return HTTPErrorInfo{Status: http.StatusOK}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return HTTPErrorInfo{Status: http.StatusGatewayTimeout, Message: "request timeout"}
	}
	if errors.Is(err, context.Canceled) {
		return HTTPErrorInfo{Status: http.StatusServiceUnavailable, Message: "request cancelled"}
	}

	for _, mapping := range m.mappings {
		if errors.Is(err, mapping.Error) {
			msg := mapping.Message
			if msg == "" {
				msg = err.Error()
			}
			return HTTPErrorInfo{Status: mapping.Status, Message: msg}
		}
	}

	return HTTPErrorInfo{Status: m.defaultStatus, Message: m.defaultMessage}
}

// Respond writes {"error": ...} for err and aborts the chain. Unmapped
// errors are logged since their detail is hidden from the client.
func (m *ErrorMapper) Respond(c *gin.Context, err error) {
	info := m.Map(err)
	if info.Status >= http.StatusInternalServerError {
		log.WithError(err).WithField("path", c.FullPath()).Error("request error")
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(info.Status, gin.H{"error": info.Message})
}
