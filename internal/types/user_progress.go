package types

import (
	"time"

	"github.com/google/uuid"
)

// UserProgress holds the per-user gamification counters. One row per user,
// created zeroed on first progress load. LongestStreak >= CurrentStreak at
// all times; LastActivityDate is an ISO calendar date ("2006-01-02"), empty
// when the user has never recorded activity.
type UserProgress struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	User             *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	TotalXP          int       `gorm:"column:total_xp;not null;default:0" json:"total_xp"`
	Level            int       `gorm:"column:level;not null;default:1" json:"level"`
	CurrentStreak    int       `gorm:"column:current_streak;not null;default:0" json:"current_streak"`
	LongestStreak    int       `gorm:"column:longest_streak;not null;default:0" json:"longest_streak"`
	LastActivityDate string    `gorm:"column:last_activity_date" json:"last_activity_date,omitempty"`
	CreatedAt        time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time `gorm:"not null" json:"updated_at"`
}

func (UserProgress) TableName() string {
	return "user_progress"
}
