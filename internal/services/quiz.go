package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/quizforge-backend/internal/logger"
	"github.com/yungbote/quizforge-backend/internal/repos"
	"github.com/yungbote/quizforge-backend/internal/requestdata"
	"github.com/yungbote/quizforge-backend/internal/types"
)

// GeneratedTitlePrefix marks auto-generated subject quizzes; the bulk delete
// matches sessions on it.
const GeneratedTitlePrefix = "Subject Quiz:"

const (
	xpPerCorrectAnswer = 10
	perfectScoreBonus  = 50
	perfectScore       = 100
)

// Question is the transport shape of one question, as imported and as
// returned by session loads and the pool read.
type Question struct {
	Key          string   `json:"id"`
	Text         string   `json:"question"`
	Variants     []string `json:"variants"`
	CorrectIndex int      `json:"correct_index"`
	Explanation  string   `json:"explanation,omitempty"`
	Passage      []string `json:"passage,omitempty"`
}

// QuizData is an already-normalized question list with a title; format
// parsing happens upstream.
type QuizData struct {
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// AnswerInput is one saved answer; SelectedIndex of types.SkippedIndex means
// the question was skipped.
type AnswerInput struct {
	QuestionKey   string `json:"question_id"`
	SelectedIndex int    `json:"selected_index"`
	Correct       bool   `json:"correct"`
}

// LoadedSession reassembles a stored session into its question-list shape.
type LoadedSession struct {
	Session   *types.QuizSession `json:"session"`
	Questions []Question         `json:"questions"`
}

// CompletionResult reports the outcome of finalizing a session.
type CompletionResult struct {
	XPEarned        int                 `json:"xp_earned"`
	NewAchievements []EarnedAchievement `json:"new_achievements"`
}

type QuizService interface {
	SaveSession(ctx context.Context, data QuizData) (uuid.UUID, error)
	LoadSession(ctx context.Context, sessionID uuid.UUID) (*LoadedSession, error)
	ListSessions(ctx context.Context) ([]*types.QuizSession, error)
	SaveProgress(ctx context.Context, sessionID uuid.UUID, currentIndex int, answers []AnswerInput) error
	CompleteSession(ctx context.Context, sessionID uuid.UUID, answers []AnswerInput, score int) (*CompletionResult, error)
	AllQuestions(ctx context.Context) ([]Question, error)
	TotalQuestionCount(ctx context.Context) (int64, error)
	DeleteGeneratedSessions(ctx context.Context) (int, error)
}

type quizService struct {
	db           *gorm.DB
	log          *logger.Logger
	sessionRepo  repos.QuizSessionRepo
	questionRepo repos.QuizQuestionRepo
	answerRepo   repos.QuizAnswerRepo
	progressSvc  ProgressService
	now          func() time.Time
}

func NewQuizService(
	db *gorm.DB,
	log *logger.Logger,
	sessionRepo repos.QuizSessionRepo,
	questionRepo repos.QuizQuestionRepo,
	answerRepo repos.QuizAnswerRepo,
	progressSvc ProgressService,
) QuizService {
	serviceLog := log.With("service", "QuizService")
	return &quizService{
		db:           db,
		log:          serviceLog,
		sessionRepo:  sessionRepo,
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
		progressSvc:  progressSvc,
		now:          time.Now,
	}
}

// SaveSession creates the session row and its ordered question snapshots in
// one transaction. Anonymous callers get an unowned session.
func (qs *quizService) SaveSession(ctx context.Context, data QuizData) (uuid.UUID, error) {
	if len(data.Questions) == 0 {
		return uuid.Nil, fmt.Errorf("quiz has no questions")
	}

	var owner *uuid.UUID
	if userID := requestdata.UserID(ctx); userID != uuid.Nil {
		owner = &userID
	}

	session := &types.QuizSession{
		ID:             uuid.New(),
		UserID:         owner,
		Title:          data.Title,
		TotalQuestions: len(data.Questions),
		CurrentIndex:   0,
	}

	snapshots := make([]*types.QuizQuestion, 0, len(data.Questions))
	for i, q := range data.Questions {
		snapshot, err := encodeQuestion(session.ID, q, i)
		if err != nil {
			return uuid.Nil, err
		}
		snapshots = append(snapshots, snapshot)
	}

	err := qs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := qs.sessionRepo.Create(ctx, tx, []*types.QuizSession{session}); err != nil {
			return fmt.Errorf("failed to create quiz session: %w", err)
		}
		if _, err := qs.questionRepo.Create(ctx, tx, snapshots); err != nil {
			return fmt.Errorf("failed to save question snapshots: %w", err)
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return session.ID, nil
}

func (qs *quizService) LoadSession(ctx context.Context, sessionID uuid.UUID) (*LoadedSession, error) {
	sessions, err := qs.sessionRepo.GetByIDs(ctx, nil, []uuid.UUID{sessionID})
	if err != nil {
		return nil, fmt.Errorf("failed to load quiz session: %w", err)
	}
	if len(sessions) == 0 {
		return nil, fmt.Errorf("quiz session %s: %w", sessionID, gorm.ErrRecordNotFound)
	}

	snapshots, err := qs.questionRepo.GetBySessionIDs(ctx, nil, []uuid.UUID{sessionID})
	if err != nil {
		return nil, fmt.Errorf("failed to load question snapshots: %w", err)
	}

	questions := make([]Question, 0, len(snapshots))
	for _, snapshot := range snapshots {
		q, err := decodeQuestion(snapshot)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return &LoadedSession{Session: sessions[0], Questions: questions}, nil
}

// ListSessions returns the caller's sessions, most recent first. Anonymous
// callers get an empty list, not an error.
func (qs *quizService) ListSessions(ctx context.Context) ([]*types.QuizSession, error) {
	userID := requestdata.UserID(ctx)
	if userID == uuid.Nil {
		return []*types.QuizSession{}, nil
	}
	sessions, err := qs.sessionRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list quiz sessions: %w", err)
	}
	return sessions, nil
}

// SaveProgress moves the session cursor and upserts the supplied answers;
// the last write per (session, question) pair wins.
func (qs *quizService) SaveProgress(ctx context.Context, sessionID uuid.UUID, currentIndex int, answers []AnswerInput) error {
	return qs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sessions, err := qs.sessionRepo.GetByIDs(ctx, tx, []uuid.UUID{sessionID})
		if err != nil {
			return fmt.Errorf("failed to load quiz session: %w", err)
		}
		if len(sessions) == 0 {
			return fmt.Errorf("quiz session %s: %w", sessionID, gorm.ErrRecordNotFound)
		}
		session := sessions[0]
		session.CurrentIndex = currentIndex
		if err := qs.sessionRepo.Update(ctx, tx, session); err != nil {
			return fmt.Errorf("failed to update quiz session: %w", err)
		}

		rows := make([]*types.QuizAnswer, 0, len(answers))
		now := qs.now()
		for _, a := range answers {
			rows = append(rows, &types.QuizAnswer{
				ID:            uuid.New(),
				SessionID:     sessionID,
				QuestionKey:   a.QuestionKey,
				SelectedIndex: a.SelectedIndex,
				Correct:       a.Correct,
				AnsweredAt:    now,
			})
		}
		if err := qs.answerRepo.Upsert(ctx, tx, rows); err != nil {
			return fmt.Errorf("failed to save answers: %w", err)
		}
		return nil
	})
}

// CompleteSession finalizes a session: XP is 10 per correct answer plus a
// 50-point perfect bonus; final answers persist with the cursor at the
// finalized sentinel; owned sessions then feed the XP into the progress
// record. Anonymous sessions complete without a progress update.
func (qs *quizService) CompleteSession(ctx context.Context, sessionID uuid.UUID, answers []AnswerInput, score int) (*CompletionResult, error) {
	if score < 0 || score > 100 {
		return nil, fmt.Errorf("score out of range: %d", score)
	}

	correct := 0
	for _, a := range answers {
		if a.Correct {
			correct++
		}
	}
	xp := xpPerCorrectAnswer * correct
	if score == perfectScore {
		xp += perfectScoreBonus
	}

	var owned bool
	err := qs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sessions, err := qs.sessionRepo.GetByIDs(ctx, tx, []uuid.UUID{sessionID})
		if err != nil {
			return fmt.Errorf("failed to load quiz session: %w", err)
		}
		if len(sessions) == 0 {
			return fmt.Errorf("quiz session %s: %w", sessionID, gorm.ErrRecordNotFound)
		}
		session := sessions[0]
		session.Completed = true
		session.Score = &score
		session.XPEarned = &xp
		session.CurrentIndex = types.FinalizedIndex
		owned = session.UserID != nil
		if err := qs.sessionRepo.Update(ctx, tx, session); err != nil {
			return fmt.Errorf("failed to finalize quiz session: %w", err)
		}

		rows := make([]*types.QuizAnswer, 0, len(answers))
		now := qs.now()
		for _, a := range answers {
			rows = append(rows, &types.QuizAnswer{
				ID:            uuid.New(),
				SessionID:     sessionID,
				QuestionKey:   a.QuestionKey,
				SelectedIndex: a.SelectedIndex,
				Correct:       a.Correct,
				AnsweredAt:    now,
			})
		}
		if err := qs.answerRepo.Upsert(ctx, tx, rows); err != nil {
			return fmt.Errorf("failed to save final answers: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &CompletionResult{XPEarned: xp}
	if owned {
		newAchievements, err := qs.progressSvc.AddXP(ctx, xp, &score)
		if err != nil {
			return nil, fmt.Errorf("failed to award xp: %w", err)
		}
		result.NewAchievements = newAchievements
	}
	return result, nil
}

// AllQuestions reads every snapshot across all sessions and collapses
// duplicates in memory, keeping the first occurrence in read order. Identity
// is normalized text plus the exact variant list, not the per-session
// question key.
func (qs *quizService) AllQuestions(ctx context.Context) ([]Question, error) {
	snapshots, err := qs.questionRepo.GetAllOrdered(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read question corpus: %w", err)
	}

	seen := map[string]bool{}
	questions := make([]Question, 0, len(snapshots))
	for _, snapshot := range snapshots {
		q, err := decodeQuestion(snapshot)
		if err != nil {
			return nil, err
		}
		key := questionDedupeKey(q.Text, q.Variants)
		if seen[key] {
			continue
		}
		seen[key] = true
		questions = append(questions, q)
	}
	return questions, nil
}

// TotalQuestionCount is the raw, non-deduplicated snapshot count.
func (qs *quizService) TotalQuestionCount(ctx context.Context) (int64, error) {
	return qs.questionRepo.Count(ctx, nil)
}

// DeleteGeneratedSessions removes all auto-generated subject quizzes,
// deleting answers and snapshots before their parent sessions.
func (qs *quizService) DeleteGeneratedSessions(ctx context.Context) (int, error) {
	sessions, err := qs.sessionRepo.GetByTitlePrefix(ctx, nil, GeneratedTitlePrefix)
	if err != nil {
		return 0, fmt.Errorf("failed to find generated sessions: %w", err)
	}
	if len(sessions) == 0 {
		return 0, nil
	}

	ids := make([]uuid.UUID, 0, len(sessions))
	for _, s := range sessions {
		ids = append(ids, s.ID)
	}

	err = qs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := qs.answerRepo.FullDeleteBySessionIDs(ctx, tx, ids); err != nil {
			return fmt.Errorf("failed to delete answers: %w", err)
		}
		if err := qs.questionRepo.FullDeleteBySessionIDs(ctx, tx, ids); err != nil {
			return fmt.Errorf("failed to delete question snapshots: %w", err)
		}
		if err := qs.sessionRepo.FullDeleteByIDs(ctx, tx, ids); err != nil {
			return fmt.Errorf("failed to delete sessions: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

func encodeQuestion(sessionID uuid.UUID, q Question, position int) (*types.QuizQuestion, error) {
	variants, err := json.Marshal(q.Variants)
	if err != nil {
		return nil, fmt.Errorf("failed to encode variants: %w", err)
	}
	var passage datatypes.JSON
	if len(q.Passage) > 0 {
		raw, err := json.Marshal(q.Passage)
		if err != nil {
			return nil, fmt.Errorf("failed to encode passage: %w", err)
		}
		passage = raw
	}
	return &types.QuizQuestion{
		ID:           uuid.New(),
		SessionID:    sessionID,
		QuestionKey:  q.Key,
		Text:         q.Text,
		Variants:     variants,
		CorrectIndex: q.CorrectIndex,
		Explanation:  q.Explanation,
		Passage:      passage,
		Position:     position,
	}, nil
}

func decodeQuestion(snapshot *types.QuizQuestion) (Question, error) {
	var variants []string
	if err := json.Unmarshal(snapshot.Variants, &variants); err != nil {
		return Question{}, fmt.Errorf("failed to decode variants for question %s: %w", snapshot.ID, err)
	}
	var passage []string
	if len(snapshot.Passage) > 0 {
		if err := json.Unmarshal(snapshot.Passage, &passage); err != nil {
			return Question{}, fmt.Errorf("failed to decode passage for question %s: %w", snapshot.ID, err)
		}
	}
	return Question{
		Key:          snapshot.QuestionKey,
		Text:         snapshot.Text,
		Variants:     variants,
		CorrectIndex: snapshot.CorrectIndex,
		Explanation:  snapshot.Explanation,
		Passage:      passage,
	}, nil
}
