package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/quizforge-backend/internal/logger"
	"github.com/yungbote/quizforge-backend/internal/types"
)

type QuizSessionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, sessions []*types.QuizSession) ([]*types.QuizSession, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) ([]*types.QuizSession, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.QuizSession, error)
	GetByTitlePrefix(ctx context.Context, tx *gorm.DB, prefix string) ([]*types.QuizSession, error)
	Update(ctx context.Context, tx *gorm.DB, session *types.QuizSession) error
	CountCompletedByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
	FullDeleteByIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) error
}

type quizSessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizSessionRepo(db *gorm.DB, baseLog *logger.Logger) QuizSessionRepo {
	repoLog := baseLog.With("repo", "QuizSessionRepo")
	return &quizSessionRepo{db: db, log: repoLog}
}

func (r *quizSessionRepo) Create(ctx context.Context, tx *gorm.DB, sessions []*types.QuizSession) ([]*types.QuizSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(sessions) == 0 {
		return []*types.QuizSession{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&sessions).Error; err != nil {
		return nil, err
	}

	return sessions, nil
}

func (r *quizSessionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) ([]*types.QuizSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.QuizSession

	if len(sessionIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", sessionIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (r *quizSessionRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.QuizSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.QuizSession

	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (r *quizSessionRepo) GetByTitlePrefix(ctx context.Context, tx *gorm.DB, prefix string) ([]*types.QuizSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.QuizSession

	if err := transaction.WithContext(ctx).
		Where("title LIKE ?", prefix+"%").
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (r *quizSessionRepo) Update(ctx context.Context, tx *gorm.DB, session *types.QuizSession) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if session == nil {
		return nil
	}

	if err := transaction.WithContext(ctx).Save(session).Error; err != nil {
		return err
	}

	return nil
}

func (r *quizSessionRepo) CountCompletedByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64

	if err := transaction.WithContext(ctx).
		Model(&types.QuizSession{}).
		Where("user_id = ? AND completed = ?", userID, true).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (r *quizSessionRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, sessionIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(sessionIDs) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", sessionIDs).
		Delete(&types.QuizSession{}).Error; err != nil {
		return err
	}

	return nil
}
