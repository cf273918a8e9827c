package types

import (
	"time"

	"github.com/google/uuid"
)

// Achievement is a catalog entry seeded from configs/achievements.yaml.
// Condition holds a gamification.ConditionKind value.
type Achievement struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Key         string    `gorm:"uniqueIndex;not null;column:key" json:"key"`
	Name        string    `gorm:"not null;column:name" json:"name"`
	Description string    `gorm:"column:description" json:"description"`
	Icon        string    `gorm:"column:icon" json:"icon"`
	XPReward    int       `gorm:"column:xp_reward;not null;default:0" json:"xp_reward"`
	Condition   string    `gorm:"column:condition;not null" json:"condition"`
	Threshold   int       `gorm:"column:threshold;not null" json:"threshold"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (Achievement) TableName() string {
	return "achievement"
}
