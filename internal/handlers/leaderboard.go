package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/quizforge-backend/internal/requestdata"
	"github.com/yungbote/quizforge-backend/internal/services"
)

type LeaderboardHandler struct {
	leaderboardService services.LeaderboardService
}

func NewLeaderboardHandler(leaderboardService services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardService: leaderboardService}
}

func (lh *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	if lh.leaderboardService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "leaderboard not configured"})
		return
	}

	limit := 10
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	ctx := c.Request.Context()
	var err error
	var entries []services.LeaderboardEntry
	if c.Query("by") == "streak" {
		entries, err = lh.leaderboardService.TopByStreak(ctx, limit)
	} else {
		entries, err = lh.leaderboardService.TopByXP(ctx, limit)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := gin.H{"entries": entries}
	if userID := requestdata.UserID(ctx); userID != uuid.Nil {
		if rank, rErr := lh.leaderboardService.RankByXP(ctx, userID); rErr == nil && rank > 0 {
			resp["my_rank"] = rank
		}
	}
	c.JSON(http.StatusOK, resp)
}
