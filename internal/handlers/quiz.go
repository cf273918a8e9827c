package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/quizforge-backend/internal/services"
)

type QuizHandler struct {
	quizService   services.QuizService
	dedupeService services.DedupeService
}

func NewQuizHandler(quizService services.QuizService, dedupeService services.DedupeService) *QuizHandler {
	return &QuizHandler{quizService: quizService, dedupeService: dedupeService}
}

func (qh *QuizHandler) SaveSession(c *gin.Context) {
	var req services.QuizData
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	sessionID, err := qh.quizService.SaveSession(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"session_id": sessionID})
}

func (qh *QuizHandler) LoadSession(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return
	}
	loaded, err := qh.quizService.LoadSession(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, loaded)
}

func (qh *QuizHandler) ListSessions(c *gin.Context) {
	sessions, err := qh.quizService.ListSessions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

func (qh *QuizHandler) SaveProgress(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return
	}
	var req struct {
		CurrentIndex int                    `json:"current_index"`
		Answers      []services.AnswerInput `json:"answers"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := qh.quizService.SaveProgress(c.Request.Context(), sessionID, req.CurrentIndex, req.Answers); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": "true"})
}

func (qh *QuizHandler) CompleteSession(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return
	}
	var req struct {
		Score   int                    `json:"score"`
		Answers []services.AnswerInput `json:"answers"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	result, err := qh.quizService.CompleteSession(c.Request.Context(), sessionID, req.Answers, req.Score)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (qh *QuizHandler) GetAllQuestions(c *gin.Context) {
	questions, err := qh.quizService.AllQuestions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions, "count": len(questions)})
}

func (qh *QuizHandler) GetQuestionCount(c *gin.Context) {
	count, err := qh.quizService.TotalQuestionCount(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (qh *QuizHandler) DeleteGeneratedSessions(c *gin.Context) {
	deleted, err := qh.quizService.DeleteGeneratedSessions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

func (qh *QuizHandler) RunDedupe(c *gin.Context) {
	removed, err := qh.dedupeService.Run(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}
