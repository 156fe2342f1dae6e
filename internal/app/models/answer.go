package models

import (
	"time"

	"github.com/google/uuid"
)

// Answer is a reply to a question
type Answer struct {
	ID            uuid.UUID    `json:"id" db:"id"`
	Writer        string       `json:"writer" db:"writer"`
	Content       string       `json:"content" db:"content"`
	QuestionID    *uuid.UUID   `json:"questionId,omitempty" db:"question"`
	RecommendedBy Recommenders `json:"recommendedBy" db:"recommended_by"`
	CreatedAt     time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time    `json:"updatedAt" db:"updated_at"`
}

// AnswerView is an answer with its question chain resolved. Question is nil when the reference dangles.
type AnswerView struct {
	Answer
	Question *QuestionView `json:"question"`
}

// AnswerDetail is an answer as shown under a question, annotated for the viewing user.
type AnswerDetail struct {
	Answer
	RecommendCount  int  `json:"recommendCount"`
	RecommendedByMe bool `json:"recommendedByMe"`
}
