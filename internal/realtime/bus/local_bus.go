package bus

import (
	"context"
	"fmt"
	"sync"

	"github.com/yungbote/questlearn-backend/internal/realtime"
)

// localBus delivers messages in-process. Used when REDIS_ADDR is unset.
type localBus struct {
	mu    sync.RWMutex
	onMsg func(m realtime.SSEMessage)
}

func NewLocalBus() Bus { return &localBus{} }

func (b *localBus) Publish(ctx context.Context, msg realtime.SSEMessage) error {
	b.mu.RLock()
	fn := b.onMsg
	b.mu.RUnlock()
	if fn != nil {
		fn(msg)
	}
	return nil
}

func (b *localBus) StartForwarder(ctx context.Context, onMsg func(m realtime.SSEMessage)) error {
	if onMsg == nil {
		return fmt.Errorf("onMsg callback required")
	}
	b.mu.Lock()
	b.onMsg = onMsg
	b.mu.Unlock()
	return nil
}

func (b *localBus) Close() error {
	b.mu.Lock()
	b.onMsg = nil
	b.mu.Unlock()
	return nil
}
