package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/quizforge-backend/internal/logger"
	"github.com/yungbote/quizforge-backend/internal/types"
)

type QuizQuestionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, questions []*types.QuizQuestion) ([]*types.QuizQuestion, error)
	GetBySessionIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) ([]*types.QuizQuestion, error)
	GetAllOrdered(ctx context.Context, tx *gorm.DB) ([]*types.QuizQuestion, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
	FullDeleteByIDs(ctx context.Context, tx *gorm.DB, questionIDs []uuid.UUID) error
	FullDeleteBySessionIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) error
}

type quizQuestionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuizQuestionRepo {
	repoLog := baseLog.With("repo", "QuizQuestionRepo")
	return &quizQuestionRepo{db: db, log: repoLog}
}

func (r *quizQuestionRepo) Create(ctx context.Context, tx *gorm.DB, questions []*types.QuizQuestion) ([]*types.QuizQuestion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(questions) == 0 {
		return []*types.QuizQuestion{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&questions).Error; err != nil {
		return nil, err
	}

	return questions, nil
}

func (r *quizQuestionRepo) GetBySessionIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) ([]*types.QuizQuestion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.QuizQuestion

	if len(sessionIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("session_id IN ?", sessionIDs).
		Order("session_id, position ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

// GetAllOrdered returns every snapshot across all sessions, oldest first, so
// deduplication keeps the earliest copy of each question.
func (r *quizQuestionRepo) GetAllOrdered(ctx context.Context, tx *gorm.DB) ([]*types.QuizQuestion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.QuizQuestion

	if err := transaction.WithContext(ctx).
		Order("created_at ASC, position ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (r *quizQuestionRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64

	if err := transaction.WithContext(ctx).
		Model(&types.QuizQuestion{}).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (r *quizQuestionRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, questionIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(questionIDs) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", questionIDs).
		Delete(&types.QuizQuestion{}).Error; err != nil {
		return err
	}

	return nil
}

func (r *quizQuestionRepo) FullDeleteBySessionIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(sessionIDs) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("session_id IN ?", sessionIDs).
		Delete(&types.QuizQuestion{}).Error; err != nil {
		return err
	}

	return nil
}
