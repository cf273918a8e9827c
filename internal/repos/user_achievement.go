package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/quizforge-backend/internal/logger"
	"github.com/yungbote/quizforge-backend/internal/types"
)

type UserAchievementRepo interface {
	Create(ctx context.Context, tx *gorm.DB, earned []*types.UserAchievement) ([]*types.UserAchievement, error)
	GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.UserAchievement, error)
}

type userAchievementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserAchievementRepo(db *gorm.DB, baseLog *logger.Logger) UserAchievementRepo {
	repoLog := baseLog.With("repo", "UserAchievementRepo")
	return &userAchievementRepo{db: db, log: repoLog}
}

// Create inserts earned rows; a concurrent duplicate award is swallowed by
// the (user_id, achievement_id) conflict clause rather than failing the
// surrounding transaction.
func (uar *userAchievementRepo) Create(ctx context.Context, tx *gorm.DB, earned []*types.UserAchievement) ([]*types.UserAchievement, error) {
	transaction := tx
	if transaction == nil {
		transaction = uar.db
	}

	if len(earned) == 0 {
		return []*types.UserAchievement{}, nil
	}

	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "achievement_id"}},
			DoNothing: true,
		}).
		Create(&earned).Error; err != nil {
		return nil, err
	}

	return earned, nil
}

func (uar *userAchievementRepo) GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.UserAchievement, error) {
	transaction := tx
	if transaction == nil {
		transaction = uar.db
	}

	var results []*types.UserAchievement

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
