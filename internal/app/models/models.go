package models

import (
	"encoding/json"

	"github.com/google/uuid"
)

// ScopeType selects which level of the department/course hierarchy a question list is filtered by
type ScopeType string

const (
	ScopeDepartment ScopeType = "department"
	ScopeCourse     ScopeType = "course"
)

// Valid reports whether t is a known scope type.
func (t ScopeType) Valid() bool {
	return t == ScopeDepartment || t == ScopeCourse
}

// Recommenders is the set of user ids that recommended an answer.
// The stored form may contain repeats written by the append policy.
type Recommenders []uuid.UUID

// Contains reports whether userID is a member.
func (r Recommenders) Contains(userID uuid.UUID) bool {
	for _, id := range r {
		if id == userID {
			return true
		}
	}
	return false
}

// Len is the number of stored entries.
func (r Recommenders) Len() int {
	return len(r)
}

// MarshalJSON encodes an empty set as [] rather than null.
func (r Recommenders) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]uuid.UUID(r))
}
