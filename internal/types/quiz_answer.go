package types

import (
	"time"

	"github.com/google/uuid"
)

// SkippedIndex marks a question the user passed on.
const SkippedIndex = -1

// QuizAnswer records the latest answer for one (session, question) pair.
// Saves upsert on the composite unique index; last write wins.
type QuizAnswer struct {
	ID            uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID     uuid.UUID    `gorm:"type:uuid;not null;index:idx_session_question,unique" json:"session_id"`
	Session       *QuizSession `gorm:"constraint:OnDelete:CASCADE;foreignKey:SessionID;references:ID" json:"session,omitempty"`
	QuestionKey   string       `gorm:"column:question_key;not null;index:idx_session_question,unique" json:"question_key"`
	SelectedIndex int          `gorm:"column:selected_index;not null" json:"selected_index"`
	Correct       bool         `gorm:"column:correct;not null" json:"correct"`
	AnsweredAt    time.Time    `gorm:"column:answered_at;not null" json:"answered_at"`
}

func (QuizAnswer) TableName() string {
	return "quiz_answer"
}
