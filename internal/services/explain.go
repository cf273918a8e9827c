package services

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/yungbote/quizforge-backend/internal/logger"
	"github.com/yungbote/quizforge-backend/internal/utils"
)

// ExplainRequest carries one answered question for explanation. The API key
// is supplied by the caller per request; the server stores none.
type ExplainRequest struct {
	APIKey        string   `json:"api_key"`
	QuestionText  string   `json:"question"`
	Variants      []string `json:"variants"`
	CorrectIndex  int      `json:"correct_index"`
	SelectedIndex int      `json:"selected_index"`
}

type ExplainService interface {
	Explain(ctx context.Context, req ExplainRequest) (string, error)
}

type explainService struct {
	log     *logger.Logger
	baseURL string
	model   string
}

func NewExplainService(log *logger.Logger) ExplainService {
	serviceLog := log.With("service", "ExplainService")
	return &explainService{
		log:     serviceLog,
		baseURL: utils.GetEnv("SPELL_API_URL", "", serviceLog),
		model:   utils.GetEnv("SPELL_MODEL", openai.GPT4oMini, serviceLog),
	}
}

// Explain asks the model why the correct answer is correct (and, when the
// caller picked a different one, why that pick is wrong). A fresh client is
// built per call because every request brings its own key.
func (es *explainService) Explain(ctx context.Context, req ExplainRequest) (string, error) {
	if strings.TrimSpace(req.APIKey) == "" {
		return "", fmt.Errorf("api key required")
	}
	if req.CorrectIndex < 0 || req.CorrectIndex >= len(req.Variants) {
		return "", fmt.Errorf("correct index out of range")
	}

	cfg := openai.DefaultConfig(req.APIKey)
	if es.baseURL != "" {
		cfg.BaseURL = es.baseURL
	}
	client := openai.NewClientWithConfig(cfg)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Question: %s\n\n", req.QuestionText)
	for i, v := range req.Variants {
		fmt.Fprintf(&sb, "%c) %s\n", 'A'+i, v)
	}
	fmt.Fprintf(&sb, "\nCorrect answer: %c) %s\n", 'A'+req.CorrectIndex, req.Variants[req.CorrectIndex])
	if req.SelectedIndex >= 0 && req.SelectedIndex < len(req.Variants) && req.SelectedIndex != req.CorrectIndex {
		fmt.Fprintf(&sb, "The student chose: %c) %s\n", 'A'+req.SelectedIndex, req.Variants[req.SelectedIndex])
	}
	sb.WriteString("\nExplain briefly why the correct answer is right")
	if req.SelectedIndex != req.CorrectIndex && req.SelectedIndex >= 0 {
		sb.WriteString(" and why the student's choice is wrong")
	}
	sb.WriteString(".")

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: es.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a concise tutor. Explain quiz answers in at most three short paragraphs.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: sb.String(),
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("explanation request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty explanation response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
