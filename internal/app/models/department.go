package models

import "github.com/google/uuid"

// Department is the top level of the course hierarchy, identified by its unique name
type Department struct {
	ID   uuid.UUID `json:"id" db:"id"`
	Name string    `json:"name" db:"name"`
}
