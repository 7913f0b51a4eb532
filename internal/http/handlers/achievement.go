package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/questlearn-backend/internal/http/response"
	"github.com/yungbote/questlearn-backend/internal/platform/logger"
	"github.com/yungbote/questlearn-backend/internal/services"
)

type AchievementHandler struct {
	log                *logger.Logger
	achievementService services.AchievementService
}

func NewAchievementHandler(log *logger.Logger, achievementService services.AchievementService) *AchievementHandler {
	return &AchievementHandler{log: log.With("handler", "AchievementHandler"), achievementService: achievementService}
}

// GET /achievements
func (h *AchievementHandler) ListAchievements(c *gin.Context) {
	list, err := h.achievementService.ListAchievements(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"achievements": list})
}

// GET /me/achievements
func (h *AchievementHandler) ListMine(c *gin.Context) {
	list, err := h.achievementService.ListUserAchievements(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"achievements": list})
}
