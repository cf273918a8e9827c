package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/quizforge-backend/internal/logger"
	"github.com/yungbote/quizforge-backend/internal/types"
)

type UserProgressRepo interface {
	Create(ctx context.Context, tx *gorm.DB, records []*types.UserProgress) ([]*types.UserProgress, error)
	GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.UserProgress, error)
	GetByUserIDForUpdate(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserProgress, error)
	Update(ctx context.Context, tx *gorm.DB, record *types.UserProgress) error
}

type userProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserProgressRepo(db *gorm.DB, baseLog *logger.Logger) UserProgressRepo {
	repoLog := baseLog.With("repo", "UserProgressRepo")
	return &userProgressRepo{db: db, log: repoLog}
}

func (upr *userProgressRepo) Create(ctx context.Context, tx *gorm.DB, records []*types.UserProgress) ([]*types.UserProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = upr.db
	}

	if len(records) == 0 {
		return []*types.UserProgress{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (upr *userProgressRepo) GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.UserProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = upr.db
	}

	var results []*types.UserProgress

	if len(userIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

// GetByUserIDForUpdate locks the progress row for the span of the enclosing
// transaction so concurrent XP awards cannot lose an increment. The lock
// clause is only emitted on postgres; sqlite serializes writers anyway.
func (upr *userProgressRepo) GetByUserIDForUpdate(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = upr.db
	}

	query := transaction.WithContext(ctx)
	if transaction.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var result types.UserProgress
	if err := query.
		Where("user_id = ?", userID).
		First(&result).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (upr *userProgressRepo) Update(ctx context.Context, tx *gorm.DB, record *types.UserProgress) error {
	transaction := tx
	if transaction == nil {
		transaction = upr.db
	}

	if record == nil {
		return nil
	}

	if err := transaction.WithContext(ctx).Save(record).Error; err != nil {
		return err
	}

	return nil
}
