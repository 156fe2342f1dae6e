package models

import "github.com/google/uuid"

// Course represents a course offered by a department.
type Course struct {
	ID       uuid.UUID  `json:"id" db:"id"`
	Name     string     `json:"name" db:"name"`
	ParentID *uuid.UUID `json:"parentId,omitempty" db:"parent"` // Nullable, may point at a removed department
}

// CourseView is a course with its department embedded. Parent is nil when the reference is absent or dangling.
type CourseView struct {
	Course
	Parent *Department `json:"parent"`
}
