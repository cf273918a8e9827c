package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/quizforge-backend/internal/logger"
	"github.com/yungbote/quizforge-backend/internal/types"
)

type QuizAnswerRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, answers []*types.QuizAnswer) error
	GetBySessionIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) ([]*types.QuizAnswer, error)
	FullDeleteBySessionIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) error
}

type quizAnswerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizAnswerRepo(db *gorm.DB, baseLog *logger.Logger) QuizAnswerRepo {
	repoLog := baseLog.With("repo", "QuizAnswerRepo")
	return &quizAnswerRepo{db: db, log: repoLog}
}

// Upsert writes answers keyed on (session_id, question_key); a later save
// for the same pair overwrites the earlier one.
func (r *quizAnswerRepo) Upsert(ctx context.Context, tx *gorm.DB, answers []*types.QuizAnswer) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(answers) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "session_id"}, {Name: "question_key"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"selected_index", "correct", "answered_at",
			}),
		}).
		Create(&answers).Error; err != nil {
		return err
	}

	return nil
}

func (r *quizAnswerRepo) GetBySessionIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) ([]*types.QuizAnswer, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.QuizAnswer

	if len(sessionIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("session_id IN ?", sessionIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (r *quizAnswerRepo) FullDeleteBySessionIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(sessionIDs) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("session_id IN ?", sessionIDs).
		Delete(&types.QuizAnswer{}).Error; err != nil {
		return err
	}

	return nil
}
