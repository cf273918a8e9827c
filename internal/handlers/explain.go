package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/quizforge-backend/internal/services"
)

type ExplainHandler struct {
	explainService services.ExplainService
}

func NewExplainHandler(explainService services.ExplainService) *ExplainHandler {
	return &ExplainHandler{explainService: explainService}
}

func (eh *ExplainHandler) Explain(c *gin.Context) {
	var req services.ExplainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	explanation, err := eh.explainService.Explain(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"explanation": explanation})
}
