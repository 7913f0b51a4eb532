package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/questlearn-backend/internal/platform/ctxutil"
	"github.com/yungbote/questlearn-backend/internal/services"
)

func AttachRequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := ctxutil.WithSSEData(c.Request.Context())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// FlushSSE emits the realtime messages a handler queued, but only once the
// response was successful.
func FlushSSE(emitter services.SSEEmitter) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		sd := ctxutil.GetSSEData(c.Request.Context())
		if sd == nil || emitter == nil {
			return
		}
		msgs := sd.Drain()
		if status := c.Writer.Status(); status < 200 || status >= 300 {
			return
		}
		for _, m := range msgs {
			emitter.Emit(c.Request.Context(), m)
		}
	}
}
