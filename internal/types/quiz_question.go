package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// QuizQuestion is the immutable-at-rest snapshot of one question as it was
// presented inside a session. Variants is a JSON array of answer strings;
// Passage is an optional JSON array of reference chunks.
type QuizQuestion struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID    uuid.UUID      `gorm:"type:uuid;index;not null" json:"session_id"`
	Session      *QuizSession   `gorm:"constraint:OnDelete:CASCADE;foreignKey:SessionID;references:ID" json:"session,omitempty"`
	QuestionKey  string         `gorm:"column:question_key;not null" json:"question_key"`
	Text         string         `gorm:"column:text;not null" json:"text"`
	Variants     datatypes.JSON `gorm:"column:variants;not null" json:"variants"`
	CorrectIndex int            `gorm:"column:correct_index;not null" json:"correct_index"`
	Explanation  string         `gorm:"column:explanation" json:"explanation,omitempty"`
	Passage      datatypes.JSON `gorm:"column:passage" json:"passage,omitempty"`
	Position     int            `gorm:"column:position;not null" json:"position"`
	CreatedAt    time.Time      `gorm:"not null" json:"created_at"`
}

func (QuizQuestion) TableName() string {
	return "quiz_question"
}
