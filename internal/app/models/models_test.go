package models

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeTypeValid(t *testing.T) {
	assert.True(t, ScopeDepartment.Valid())
	assert.True(t, ScopeCourse.Valid())
	assert.False(t, ScopeType("faculty").Valid())
	assert.False(t, ScopeType("").Valid())
}

func TestRecommenders(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	r := Recommenders{a, b, a}

	assert.True(t, r.Contains(a))
	assert.True(t, r.Contains(b))
	assert.False(t, r.Contains(uuid.New()))
	assert.Equal(t, 3, r.Len())
}

func TestRecommendersMarshalJSON(t *testing.T) {
	var empty Recommenders
	out, err := json.Marshal(empty)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(out))

	id := uuid.MustParse("0190a3b2-7c1d-7e4f-8a9b-0c1d2e3f4a5b")
	out, err = json.Marshal(Answer{RecommendedBy: Recommenders{id}})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"recommendedBy":["0190a3b2-7c1d-7e4f-8a9b-0c1d2e3f4a5b"]`)
}

func TestQuestionViewNullCourse(t *testing.T) {
	out, err := json.Marshal(QuestionView{Question: Question{Title: "t"}})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"course":null`)
}
