package realtime

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/questlearn-backend/internal/platform/logger"
)

func mustTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}

func recvMessage(t *testing.T, ch <-chan SSEMessage, timeout time.Duration) SSEMessage {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for SSE message")
	}
	return SSEMessage{}
}

func TestSSEHubReconnectAndOrdering(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	userID := uuid.New()
	channel := UserChannel(userID)

	clientA := hub.NewSSEClient(userID)
	hub.AddChannel(clientA, channel)

	hub.Broadcast(ToUser(userID, SSEEventXPAwarded, map[string]any{"seq": 1}))
	hub.Broadcast(ToUser(userID, SSEEventLevelUp, map[string]any{"seq": 2}))

	gotFirst := recvMessage(t, clientA.Outbound, time.Second)
	gotSecond := recvMessage(t, clientA.Outbound, time.Second)
	if gotFirst.Event != SSEEventXPAwarded {
		t.Fatalf("first event: want=%s got=%s", SSEEventXPAwarded, gotFirst.Event)
	}
	if gotSecond.Event != SSEEventLevelUp {
		t.Fatalf("second event: want=%s got=%s", SSEEventLevelUp, gotSecond.Event)
	}

	hub.CloseClient(clientA)
	select {
	case _, ok := <-clientA.Outbound:
		if ok {
			t.Fatalf("clientA outbound should be closed after disconnect")
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("timed out waiting for clientA channel close")
	}
	if hub.Subscribers(channel) != 0 {
		t.Fatalf("closed client must be unsubscribed")
	}

	clientB := hub.NewSSEClient(userID)
	hub.AddChannel(clientB, channel)
	hub.Broadcast(ToUser(userID, SSEEventAchievementUnlocked, nil))
	got := recvMessage(t, clientB.Outbound, time.Second)
	if got.Event != SSEEventAchievementUnlocked {
		t.Fatalf("reconnect event: want=%s got=%s", SSEEventAchievementUnlocked, got.Event)
	}
}

func TestSSEHubIsolatesUsers(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	alice, bob := uuid.New(), uuid.New()

	ca := hub.NewSSEClient(alice)
	hub.AddChannel(ca, UserChannel(alice))
	cb := hub.NewSSEClient(bob)
	hub.AddChannel(cb, UserChannel(bob))

	hub.Broadcast(ToUser(alice, SSEEventProgressUpdated, nil))
	recvMessage(t, ca.Outbound, time.Second)
	select {
	case msg := <-cb.Outbound:
		t.Fatalf("bob must not receive alice's event, got %+v", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSSEHubDropsWhenBufferFull(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	userID := uuid.New()
	client := hub.NewSSEClient(userID)
	hub.AddChannel(client, UserChannel(userID))

	for i := 0; i < outboundBuffer+5; i++ {
		hub.Broadcast(ToUser(userID, SSEEventXPAwarded, i))
	}
	if len(client.Outbound) != outboundBuffer {
		t.Fatalf("expected buffer to hold %d messages, got %d", outboundBuffer, len(client.Outbound))
	}
}

func TestSSEHubServeHTTPWritesEvents(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	userID := uuid.New()
	client := hub.NewSSEClient(userID)
	hub.AddChannel(client, UserChannel(userID))
	hub.Broadcast(ToUser(userID, SSEEventLevelUp, map[string]any{"level": 2}))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest("GET", "/api/events/stream", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	hub.ServeHTTP(rec, req, client)

	body := rec.Body.String()
	if rec.Header().Get("Content-Type") != "text/event-stream" {
		t.Fatalf("unexpected content type %q", rec.Header().Get("Content-Type"))
	}
	if !strings.Contains(body, "event: level_up") || !strings.Contains(body, `"level":2`) {
		t.Fatalf("event not written to stream: %q", body)
	}
}

func TestSSEHubCloseClientIsIdempotent(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	userID := uuid.New()
	client := hub.NewSSEClient(userID)
	hub.AddChannel(client, UserChannel(userID))

	hub.CloseClient(client)
	hub.CloseClient(client)
	hub.Broadcast(ToUser(userID, SSEEventXPAwarded, 1))

	if n := hub.Subscribers(UserChannel(userID)); n != 0 {
		t.Fatalf("expected no subscribers after close, got %d", n)
	}
	if _, ok := <-client.Outbound; ok {
		t.Fatalf("expected outbound to be closed and empty")
	}
	if client.offer(ToUser(userID, SSEEventXPAwarded, 2)) {
		t.Fatalf("closed client must not accept messages")
	}
}
