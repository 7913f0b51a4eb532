package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/questlearn-backend/internal/observability"
	"github.com/yungbote/questlearn-backend/internal/platform/ctxutil"
	"github.com/yungbote/questlearn-backend/internal/platform/logger"
	"github.com/yungbote/questlearn-backend/internal/realtime"
)

type RealtimeHandler struct {
	log *logger.Logger
	hub *realtime.SSEHub
}

func NewRealtimeHandler(log *logger.Logger, hub *realtime.SSEHub) *RealtimeHandler {
	return &RealtimeHandler{log: log.With("handler", "RealtimeHandler"), hub: hub}
}

// GET /events/stream
// Every connection joins the caller's private channel; a user may hold several.
func (h *RealtimeHandler) Stream(c *gin.Context) {
	userID := ctxutil.UserID(c.Request.Context())
	client := h.hub.NewSSEClient(userID)
	h.hub.AddChannel(client, realtime.UserChannel(userID))
	h.log.Debug("SSE stream open", "user_id", userID, "client_id", client.ID)

	m := observability.Current()
	m.SSEClientConnected()
	defer m.SSEClientDisconnected()

	h.hub.ServeHTTP(c.Writer, c.Request, client)
	h.hub.CloseClient(client)
}
