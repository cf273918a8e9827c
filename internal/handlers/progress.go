package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/quizforge-backend/internal/logger"
	"github.com/yungbote/quizforge-backend/internal/services"
)

type ProgressHandler struct {
	log             *logger.Logger
	progressService services.ProgressService
}

func NewProgressHandler(log *logger.Logger, progressService services.ProgressService) *ProgressHandler {
	handlerLog := log.With("handler", "ProgressHandler")
	return &ProgressHandler{log: handlerLog, progressService: progressService}
}

// GetProgress degrades instead of failing: a broken progress read returns
// 200 with an error field so quiz-taking keeps working without gamification.
func (ph *ProgressHandler) GetProgress(c *gin.Context) {
	view, err := ph.progressService.LoadProgress(c.Request.Context())
	if err != nil {
		ph.log.Warn("progress load failed", "error", err)
		c.JSON(http.StatusOK, gin.H{"progress": nil, "error": "progress unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"progress":       view.Progress,
		"achievements":   view.Catalog,
		"earned":         view.Earned,
		"daily_login_xp": view.DailyLoginXP,
	})
}
