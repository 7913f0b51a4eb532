package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainagg "github.com/yungbote/questlearn-backend/internal/domain/aggregates"
	"github.com/yungbote/questlearn-backend/internal/platform/logger"
)

const (
	CodeInvalidID      = "invalid_id"
	CodeInvalidRequest = "invalid_request"
	CodeUnauthorized   = "unauthorized"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

// StatusFor maps an aggregate error code to its HTTP status.
func StatusFor(code domainagg.ErrorCode) int {
	switch code {
	case domainagg.CodeValidation:
		return http.StatusBadRequest
	case domainagg.CodeUnauthenticated:
		return http.StatusUnauthorized
	case domainagg.CodeNotFound:
		return http.StatusNotFound
	case domainagg.CodeConflict:
		return http.StatusConflict
	case domainagg.CodePreconditionFailed:
		return http.StatusPreconditionFailed
	case domainagg.CodeRetryable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// RespondServiceError writes err with the status of its aggregate code. Internal
// errors are logged and answered with a generic message.
func RespondServiceError(c *gin.Context, log *logger.Logger, err error) {
	code := domainagg.CodeOf(err)
	status := StatusFor(code)
	if status == http.StatusInternalServerError {
		if log != nil {
			log.Error("request failed", "path", c.FullPath(), "error", err)
		}
		RespondError(c, status, string(domainagg.CodeInternal), errors.New("internal server error"))
		return
	}
	RespondError(c, status, string(code), errors.New(domainagg.MessageOf(err)))
}
