package types

import (
	"time"

	"github.com/google/uuid"
)

// UserAchievement joins a user to an earned achievement. The composite
// unique index keeps awards one-time-per-user at the storage level.
type UserAchievement struct {
	ID            uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID    `gorm:"type:uuid;not null;index:idx_user_achievement,unique" json:"user_id"`
	User          *User        `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	AchievementID uuid.UUID    `gorm:"type:uuid;not null;index:idx_user_achievement,unique" json:"achievement_id"`
	Achievement   *Achievement `gorm:"constraint:OnDelete:CASCADE;foreignKey:AchievementID;references:ID" json:"achievement,omitempty"`
	EarnedAt      time.Time    `gorm:"column:earned_at;not null" json:"earned_at"`
}

func (UserAchievement) TableName() string {
	return "user_achievement"
}
