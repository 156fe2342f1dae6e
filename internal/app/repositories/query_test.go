package repositories

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/qnaboard/internal/app/models"
	"github.com/yigit/qnaboard/internal/pkg/apperrors"
)

func TestBrowseQueries_Course(t *testing.T) {
	page, count, err := browseQueries(models.ScopeCourse, "Data/Structures", 20, 10)
	require.NoError(t, err)

	sql, args, err := page.ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "FROM questions q LEFT JOIN courses c ON c.id = q.course LEFT JOIN departments d ON d.id = c.parent")
	assert.Contains(t, sql, "WHERE c.name = $1")
	assert.Contains(t, sql, "ORDER BY q.created_at DESC, q.id DESC")
	assert.Contains(t, sql, "LIMIT 10")
	assert.Contains(t, sql, "OFFSET 20")
	assert.Equal(t, []interface{}{"Data/Structures"}, args)

	sql, args, err = count.ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "SELECT count(*) FROM questions q")
	assert.Contains(t, sql, "WHERE c.name = $1")
	assert.NotContains(t, sql, "ORDER BY")
	assert.NotContains(t, sql, "LIMIT")
	assert.Equal(t, []interface{}{"Data/Structures"}, args)
}

func TestBrowseQueries_Department(t *testing.T) {
	page, _, err := browseQueries(models.ScopeDepartment, "Computer Science", 0, 10)
	require.NoError(t, err)

	sql, _, err := page.ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "WHERE d.name = $1")
}

func TestBrowseQueries_InvalidScope(t *testing.T) {
	_, _, err := browseQueries(models.ScopeType("faculty"), "x", 0, 10)
	assert.ErrorIs(t, err, apperrors.ErrInvalidScope)
}

func TestCountByQuestionQuery(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New()}

	sql, args, err := countByQuestionQuery(ids).ToSql()
	require.NoError(t, err)
	// Inner join: answers pointing at a missing question are not counted
	assert.Contains(t, sql, "FROM answers a JOIN questions q ON q.id = a.question")
	assert.Contains(t, sql, "WHERE a.question = ANY($1)")
	assert.Contains(t, sql, "GROUP BY a.question")
	require.Len(t, args, 1)
	assert.Equal(t, ids, args[0])
}

func TestCourseViewsQuery(t *testing.T) {
	sql, args, err := courseViewsQuery(nil).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "FROM courses c LEFT JOIN departments d ON d.id = c.parent")
	assert.NotContains(t, sql, "WHERE")
	assert.Empty(t, args)

	name := "Mathematics"
	sql, args, err = courseViewsQuery(&name).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "WHERE d.name = $1")
	assert.Equal(t, []interface{}{"Mathematics"}, args)
}

func TestJoinedDepartment(t *testing.T) {
	assert.Nil(t, joinedDepartment(nil, nil))

	id := uuid.New()
	name := "Physics"
	dept := joinedDepartment(&id, &name)
	require.NotNil(t, dept)
	assert.Equal(t, id, dept.ID)
	assert.Equal(t, "Physics", dept.Name)
}

func TestAppendRecommenderQuery(t *testing.T) {
	answerID, userID := uuid.New(), uuid.New()

	sql, args, err := appendRecommenderQuery(answerID, userID, false).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "UPDATE answers SET recommended_by = array_append(recommended_by, $1), updated_at = now() WHERE id = $2", sql)
	assert.Equal(t, []interface{}{userID, answerID}, args)
}

func TestAppendRecommenderQuery_OnlyIfAbsent(t *testing.T) {
	answerID, userID := uuid.New(), uuid.New()

	sql, args, err := appendRecommenderQuery(answerID, userID, true).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "UPDATE answers SET recommended_by = array_append(recommended_by, $1), updated_at = now() WHERE id = $2 AND NOT ($3 = ANY(recommended_by))", sql)
	assert.Equal(t, []interface{}{userID, answerID, userID}, args)
}
