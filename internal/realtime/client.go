package realtime

import (
	"sync"

	"github.com/google/uuid"

	"github.com/yungbote/questlearn-backend/internal/platform/logger"
)

// SSEClient is one open event stream for a learner. Outbound is buffered and the
// hub drops messages rather than block on a slow reader.
type SSEClient struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	Channels map[string]bool
	Outbound chan SSEMessage
	Logger   *logger.Logger

	done      chan struct{}
	closeOnce sync.Once
}

func newSSEClient(userID uuid.UUID, log *logger.Logger) *SSEClient {
	id := uuid.New()
	return &SSEClient{
		ID:       id,
		UserID:   userID,
		Channels: make(map[string]bool),
		Outbound: make(chan SSEMessage, outboundBuffer),
		Logger:   log.With("client_id", id.String(), "user_id", userID.String()),
		done:     make(chan struct{}),
	}
}

// offer queues msg without blocking and reports whether it fit. Callers hold the
// hub read lock, so Outbound cannot be closed underneath.
func (c *SSEClient) offer(msg SSEMessage) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.Outbound <- msg:
		return true
	default:
		return false
	}
}

// shutdown stops the writer, detaches the client and closes Outbound, once.
func (c *SSEClient) shutdown(detach func(*SSEClient)) {
	c.closeOnce.Do(func() {
		close(c.done)
		detach(c)
		close(c.Outbound)
	})
}
