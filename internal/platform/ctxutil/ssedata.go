package ctxutil

import (
	"context"
	"sync"

	"github.com/yungbote/questlearn-backend/internal/realtime"
)

type sseDataKey struct{}

// SSEData queues realtime messages produced while serving a request. They are
// flushed by middleware once the handler has written a successful response.
type SSEData struct {
	mu       sync.Mutex
	Messages []realtime.SSEMessage
}

func WithSSEData(ctx context.Context) context.Context {
	return context.WithValue(ctx, sseDataKey{}, &SSEData{Messages: make([]realtime.SSEMessage, 0)})
}

func GetSSEData(ctx context.Context) *SSEData {
	if ctx == nil {
		return nil
	}
	ssd, ok := ctx.Value(sseDataKey{}).(*SSEData)
	if !ok {
		return nil
	}
	return ssd
}

func (d *SSEData) AppendMessage(msg realtime.SSEMessage) {
	d.mu.Lock()
	d.Messages = append(d.Messages, msg)
	d.mu.Unlock()
}

// Drain returns the queued messages and empties the queue.
func (d *SSEData) Drain() []realtime.SSEMessage {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := d.Messages
	d.Messages = make([]realtime.SSEMessage, 0)
	return out
}
