package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainagg "github.com/yungbote/questlearn-backend/internal/domain/aggregates"
	"github.com/yungbote/questlearn-backend/internal/platform/ctxutil"
	"github.com/yungbote/questlearn-backend/internal/platform/logger"
	"github.com/yungbote/questlearn-backend/internal/realtime"
	"github.com/yungbote/questlearn-backend/internal/services"
)

type stubAuth struct {
	valid  string
	userID uuid.UUID
}

func (s stubAuth) Register(context.Context, services.RegisterInput) (*services.AuthResult, error) {
	return nil, nil
}

func (s stubAuth) Login(context.Context, services.LoginInput) (*services.AuthResult, error) {
	return nil, nil
}

func (s stubAuth) SetContextFromToken(ctx context.Context, token string) (context.Context, error) {
	if token != s.valid {
		return nil, domainagg.NewError(domainagg.CodeUnauthenticated, "auth", "invalid or expired token", nil)
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{TokenString: token, UserID: s.userID}), nil
}

func (s stubAuth) GetAccessTTL() time.Duration { return time.Hour }

type captureEmitter struct {
	mu   sync.Mutex
	msgs []realtime.SSEMessage
}

func (e *captureEmitter) Emit(_ context.Context, msg realtime.SSEMessage) {
	e.mu.Lock()
	e.msgs = append(e.msgs, msg)
	e.mu.Unlock()
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

func TestRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New()
	am := NewAuthMiddleware(testLogger(t), stubAuth{valid: "good", userID: userID})

	r := gin.New()
	r.GET("/me", am.RequireAuth(), func(c *gin.Context) {
		c.String(http.StatusOK, ctxutil.UserID(c.Request.Context()).String())
	})

	cases := []struct {
		name   string
		header string
		query  string
		status int
	}{
		{name: "missing", status: http.StatusUnauthorized},
		{name: "bad bearer", header: "Bearer nope", status: http.StatusUnauthorized},
		{name: "bearer", header: "Bearer good", status: http.StatusOK},
		{name: "lowercase scheme", header: "bearer good", status: http.StatusOK},
		{name: "query", query: "?token=good", status: http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me"+tc.query, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != tc.status {
				t.Fatalf("status: got=%d want=%d body=%s", rec.Code, tc.status, rec.Body.String())
			}
			if tc.status == http.StatusOK && rec.Body.String() != userID.String() {
				t.Fatalf("user id not attached: %s", rec.Body.String())
			}
			if tc.status == http.StatusUnauthorized {
				var env struct {
					Error struct {
						Code string `json:"code"`
					} `json:"error"`
				}
				if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil || env.Error.Code != "unauthorized" {
					t.Fatalf("unexpected error body: %s", rec.Body.String())
				}
			}
		})
	}
}

func TestFlushSSEOnlyAfterSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	em := &captureEmitter{}
	userID := uuid.New()

	r := gin.New()
	r.Use(AttachRequestContext(), FlushSSE(em))
	queue := func(status int) gin.HandlerFunc {
		return func(c *gin.Context) {
			ctxutil.GetSSEData(c.Request.Context()).AppendMessage(realtime.ToUser(userID, realtime.SSEEventXPAwarded, nil))
			c.Status(status)
		}
	}
	r.POST("/ok", queue(http.StatusOK))
	r.POST("/fail", queue(http.StatusConflict))

	for _, path := range []string{"/fail", "/ok"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, nil))
	}

	em.mu.Lock()
	defer em.mu.Unlock()
	if len(em.msgs) != 1 {
		t.Fatalf("expected exactly one emitted message, got %d", len(em.msgs))
	}
	if em.msgs[0].Channel != realtime.UserChannel(userID) {
		t.Fatalf("unexpected channel %q", em.msgs[0].Channel)
	}
}

func TestTraceContextEchoesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())
	r.GET("/", func(c *gin.Context) {
		td := ctxutil.GetTraceData(c.Request.Context())
		c.String(http.StatusOK, td.RequestID)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "req-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Body.String() != "req-123" || rec.Header().Get("X-Request-Id") != "req-123" {
		t.Fatalf("request id not propagated: body=%q header=%q", rec.Body.String(), rec.Header().Get("X-Request-Id"))
	}
	if rec.Header().Get("X-Trace-Id") == "" {
		t.Fatalf("expected a generated trace id")
	}
}

func TestTraceContextReplacesUnsafeIDs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	cases := map[string]string{
		"spaces":   "req id with spaces",
		"newline":  "req\nforged=1",
		"too long": strings.Repeat("a", maxInboundIDLen+1),
	}
	for name, raw := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header[headerRequestID] = []string{raw}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		got := rec.Header().Get(headerRequestID)
		if got == "" || got == raw {
			t.Fatalf("%s: expected a generated request id, got %q", name, got)
		}
		// Without a span or header the request id doubles as trace id.
		if rec.Header().Get(headerTraceID) != got {
			t.Fatalf("%s: trace id %q should equal request id %q", name, rec.Header().Get(headerTraceID), got)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(headerTraceID, "trace-1.a:b_c")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Header().Get(headerTraceID) != "trace-1.a:b_c" {
		t.Fatalf("safe trace id not kept: %q", rec.Header().Get(headerTraceID))
	}
}
