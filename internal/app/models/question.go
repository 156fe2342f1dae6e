package models

import (
	"time"

	"github.com/google/uuid"
)

// Question is a question posted by a writer, optionally scoped to a course
type Question struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	Writer    string     `json:"writer" db:"writer"` // Author email, compared as a plain string
	Title     string     `json:"title" db:"title"`
	Content   string     `json:"content" db:"content"`
	CourseID  *uuid.UUID `json:"courseId,omitempty" db:"course"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
}

// QuestionView is a question with course and department resolved.
type QuestionView struct {
	Question
	Course *CourseView `json:"course"`
}

// QuestionWithAnswers is one entry of a scope listing: the joined question plus every answer to it.
type QuestionWithAnswers struct {
	QuestionView
	Answers []*Answer `json:"answers"`
}

// QuestionWithCount is one entry of a writer's own question list.
type QuestionWithCount struct {
	QuestionView
	CountAnswer int `json:"countAnswer"`
}
