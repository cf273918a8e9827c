package types

import (
	"time"

	"github.com/google/uuid"
)

// FinalizedIndex is the CurrentIndex sentinel for a completed session.
const FinalizedIndex = -1

type QuizSession struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	User           *User      `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Title          string     `gorm:"not null;column:title" json:"title"`
	TotalQuestions int        `gorm:"column:total_questions;not null" json:"total_questions"`
	CurrentIndex   int        `gorm:"column:current_index;not null;default:0" json:"current_index"`
	Completed      bool       `gorm:"column:completed;not null;default:false" json:"completed"`
	Score          *int       `gorm:"column:score" json:"score,omitempty"`
	XPEarned       *int       `gorm:"column:xp_earned" json:"xp_earned,omitempty"`
	CreatedAt      time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"not null" json:"updated_at"`
}

func (QuizSession) TableName() string {
	return "quiz_session"
}
