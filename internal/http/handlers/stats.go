package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/questlearn-backend/internal/http/response"
	"github.com/yungbote/questlearn-backend/internal/platform/logger"
	"github.com/yungbote/questlearn-backend/internal/services"
)

// StatsHandler serves the read-only learner views.
type StatsHandler struct {
	log         *logger.Logger
	dashboard   services.DashboardService
	profile     services.ProfileService
	roadmap     services.RoadmapService
	leaderboard services.LeaderboardService
}

func NewStatsHandler(
	log *logger.Logger,
	dashboard services.DashboardService,
	profile services.ProfileService,
	roadmap services.RoadmapService,
	leaderboard services.LeaderboardService,
) *StatsHandler {
	return &StatsHandler{
		log:         log.With("handler", "StatsHandler"),
		dashboard:   dashboard,
		profile:     profile,
		roadmap:     roadmap,
		leaderboard: leaderboard,
	}
}

// GET /dashboard
func (h *StatsHandler) Dashboard(c *gin.Context) {
	data, err := h.dashboard.GetDashboardData(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, h.log, err)
		return
	}
	response.RespondOK(c, data)
}

// GET /profile/stats
func (h *StatsHandler) ProfileStats(c *gin.Context) {
	stats, err := h.profile.GetUserProfileStats(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, h.log, err)
		return
	}
	response.RespondOK(c, stats)
}

// GET /roadmap
func (h *StatsHandler) Roadmap(c *gin.Context) {
	entries, err := h.roadmap.GetCourseRoadmap(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"roadmap": entries})
}

// GET /leaderboard?limit=
func (h *StatsHandler) Leaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	entries, err := h.leaderboard.Top(c.Request.Context(), services.NormalizeLeaderboardLimit(limit))
	if err != nil {
		response.RespondServiceError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"leaderboard": entries})
}
