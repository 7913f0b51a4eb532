package services

import (
	"context"

	"github.com/yungbote/questlearn-backend/internal/platform/ctxutil"
	"github.com/yungbote/questlearn-backend/internal/platform/logger"
	"github.com/yungbote/questlearn-backend/internal/realtime"
	"github.com/yungbote/questlearn-backend/internal/realtime/bus"
)

type SSEEmitter interface {
	Emit(ctx context.Context, msg realtime.SSEMessage)
}

type HubEmitter struct{ Hub *realtime.SSEHub }

func (e *HubEmitter) Emit(ctx context.Context, msg realtime.SSEMessage) {
	e.Hub.Broadcast(msg)
}

type BusEmitter struct {
	Bus bus.Bus
	Log *logger.Logger
}

func (e *BusEmitter) Emit(ctx context.Context, msg realtime.SSEMessage) {
	if err := e.Bus.Publish(ctx, msg); err != nil && e.Log != nil {
		e.Log.Warn("publish SSE message failed", "event", msg.Event, "error", err)
	}
}

// queueEvents defers messages to the request's SSEData when serving HTTP so they are
// only sent once the response succeeded. Outside a request they go out immediately.
func queueEvents(ctx context.Context, emitter SSEEmitter, msgs ...realtime.SSEMessage) {
	if len(msgs) == 0 {
		return
	}
	if sd := ctxutil.GetSSEData(ctx); sd != nil {
		for _, m := range msgs {
			sd.AppendMessage(m)
		}
		return
	}
	if emitter == nil {
		return
	}
	for _, m := range msgs {
		emitter.Emit(ctx, m)
	}
}
