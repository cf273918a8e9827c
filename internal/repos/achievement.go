package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/quizforge-backend/internal/logger"
	"github.com/yungbote/quizforge-backend/internal/types"
)

type AchievementRepo interface {
	UpsertByKey(ctx context.Context, tx *gorm.DB, achievements []*types.Achievement) error
	GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Achievement, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, achievementIDs []uuid.UUID) ([]*types.Achievement, error)
}

type achievementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAchievementRepo(db *gorm.DB, baseLog *logger.Logger) AchievementRepo {
	repoLog := baseLog.With("repo", "AchievementRepo")
	return &achievementRepo{db: db, log: repoLog}
}

// UpsertByKey seeds or refreshes catalog rows; identity is the catalog key,
// so redeploys update display fields without duplicating entries.
func (ar *achievementRepo) UpsertByKey(ctx context.Context, tx *gorm.DB, achievements []*types.Achievement) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	if len(achievements) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "description", "icon", "xp_reward", "condition", "threshold", "updated_at",
			}),
		}).
		Create(&achievements).Error; err != nil {
		return err
	}

	return nil
}

func (ar *achievementRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Achievement, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var results []*types.Achievement
	if err := transaction.WithContext(ctx).
		Order("key ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (ar *achievementRepo) GetByIDs(ctx context.Context, tx *gorm.DB, achievementIDs []uuid.UUID) ([]*types.Achievement, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var results []*types.Achievement

	if len(achievementIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", achievementIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}
