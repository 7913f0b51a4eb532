package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	domainagg "github.com/yungbote/questlearn-backend/internal/domain/aggregates"
)

func TestStatusFor(t *testing.T) {
	cases := map[domainagg.ErrorCode]int{
		domainagg.CodeValidation:         http.StatusBadRequest,
		domainagg.CodeUnauthenticated:    http.StatusUnauthorized,
		domainagg.CodeNotFound:           http.StatusNotFound,
		domainagg.CodeConflict:           http.StatusConflict,
		domainagg.CodePreconditionFailed: http.StatusPreconditionFailed,
		domainagg.CodeRetryable:          http.StatusServiceUnavailable,
		domainagg.CodeInternal:           http.StatusInternalServerError,
		"":                               http.StatusInternalServerError,
	}
	for code, want := range cases {
		if got := StatusFor(code); got != want {
			t.Fatalf("StatusFor(%q): got=%d want=%d", code, got, want)
		}
	}
}

func TestRespondServiceErrorHidesInternalMessages(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	RespondServiceError(c, nil, errors.New("pq: connection refused to 10.0.0.3"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status: got=%d", rec.Code)
	}
	var env ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Error.Message != "internal server error" || env.Error.Code != "internal" {
		t.Fatalf("unexpected envelope: %+v", env)
	}

	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	RespondServiceError(c, nil, domainagg.NotFound("Course.Get", "course not found"))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status: got=%d", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Error.Message != "course not found" || env.Error.Code != "not_found" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}
