package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/questlearn-backend/internal/http/response"
	"github.com/yungbote/questlearn-backend/internal/platform/logger"
	"github.com/yungbote/questlearn-backend/internal/services"
)

type ProgressHandler struct {
	log             *logger.Logger
	progressService services.ProgressService
}

func NewProgressHandler(log *logger.Logger, progressService services.ProgressService) *ProgressHandler {
	return &ProgressHandler{log: log.With("handler", "ProgressHandler"), progressService: progressService}
}

// GET /progress
func (h *ProgressHandler) ListProgress(c *gin.Context) {
	rows, err := h.progressService.ListUserProgress(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"progress": rows})
}

// POST /progress
// body: { "course_id", "lesson_id"?, "status", "completion_percentage", "xp_earned"? }
func (h *ProgressHandler) UpdateProgress(c *gin.Context) {
	var req services.UpdateProgressInput
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.progressService.UpdateProgress(c.Request.Context(), req)
	if err != nil {
		response.RespondServiceError(c, h.log, err)
		return
	}
	response.RespondOK(c, res)
}
