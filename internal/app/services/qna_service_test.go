package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/qnaboard/internal/app/models"
	"github.com/yigit/qnaboard/internal/app/models/dto"
	"github.com/yigit/qnaboard/internal/config"
	"github.com/yigit/qnaboard/internal/pkg/apperrors"
)

func TestListQuestions_CourseScopeDecodesName(t *testing.T) {
	f := newFixture(t, "")
	cs := f.department("Computer Science")
	ds := f.course("Data/Structures", ptr(cs.ID))
	other := f.course("Algorithms", ptr(cs.ID))

	q := f.question("alice@x.io", ptr(ds.ID), 0)
	f.question("alice@x.io", ptr(other.ID), time.Minute)

	resp, err := f.svc.ListQuestions(f.ctx, "course", "Data!Structures", 1)
	require.NoError(t, err)
	require.Len(t, resp.QuestionList, 1)
	assert.Equal(t, 1, resp.CntQuestions)
	assert.Equal(t, q.ID, resp.QuestionList[0].ID)
	require.NotNil(t, resp.QuestionList[0].Course)
	assert.Equal(t, "Data/Structures", resp.QuestionList[0].Course.Name)
	require.NotNil(t, resp.QuestionList[0].Course.Parent)
	assert.Equal(t, "Computer Science", resp.QuestionList[0].Course.Parent.Name)
}

func TestListQuestions_DepartmentScopeAndTotalInvariance(t *testing.T) {
	f := newFixture(t, "")
	cs := f.department("Computer Science")
	math := f.department("Mathematics")
	algo := f.course("Algorithms", ptr(cs.ID))
	os := f.course("Operating Systems", ptr(cs.ID))
	calc := f.course("Calculus", ptr(math.ID))

	for i := 0; i < 25; i++ {
		course := algo
		if i%2 == 0 {
			course = os
		}
		f.question("alice@x.io", ptr(course.ID), time.Duration(i)*time.Minute)
	}
	f.question("alice@x.io", ptr(calc.ID), time.Hour)
	f.question("alice@x.io", nil, time.Hour)

	wantSizes := map[int]int{1: 10, 2: 10, 3: 5, 4: 0}
	var previous time.Time
	for page := 1; page <= 4; page++ {
		resp, err := f.svc.ListQuestions(f.ctx, "department", "Computer Science", page)
		require.NoError(t, err)
		assert.Equal(t, 25, resp.CntQuestions, "page %d", page)
		assert.Equal(t, 3, resp.Pagination.TotalPages)
		require.Len(t, resp.QuestionList, wantSizes[page], "page %d", page)

		for _, item := range resp.QuestionList {
			if !previous.IsZero() {
				assert.True(t, item.CreatedAt.Before(previous), "questions must be latest first")
			}
			previous = item.CreatedAt
		}
	}
}

func TestListQuestions_UnknownNameIsEmpty(t *testing.T) {
	f := newFixture(t, "")
	resp, err := f.svc.ListQuestions(f.ctx, "department", "Nowhere", 1)
	require.NoError(t, err)
	assert.Empty(t, resp.QuestionList)
	assert.NotNil(t, resp.QuestionList)
	assert.Zero(t, resp.CntQuestions)
}

func TestListQuestions_OrphanCourseNeverMatchesDepartment(t *testing.T) {
	f := newFixture(t, "")
	orphan := f.course("Loose", ptr(uuid.New()))
	f.question("alice@x.io", ptr(orphan.ID), 0)

	resp, err := f.svc.ListQuestions(f.ctx, "course", "Loose", 1)
	require.NoError(t, err)
	require.Len(t, resp.QuestionList, 1)
	assert.Nil(t, resp.QuestionList[0].Course.Parent)

	resp, err = f.svc.ListQuestions(f.ctx, "department", "", 1)
	require.NoError(t, err)
	assert.Empty(t, resp.QuestionList)
}

func TestListQuestions_EmbedsAnswersOldestFirst(t *testing.T) {
	f := newFixture(t, "")
	cs := f.department("Computer Science")
	algo := f.course("Algorithms", ptr(cs.ID))
	q := f.question("alice@x.io", ptr(algo.ID), 0)
	empty := f.question("alice@x.io", ptr(algo.ID), time.Hour)

	late := f.answer("bob@x.io", ptr(q.ID), 2*time.Minute)
	early := f.answer("carol@x.io", ptr(q.ID), time.Minute)

	resp, err := f.svc.ListQuestions(f.ctx, "course", "Algorithms", 1)
	require.NoError(t, err)
	require.Len(t, resp.QuestionList, 2)

	assert.Equal(t, empty.ID, resp.QuestionList[0].ID)
	assert.NotNil(t, resp.QuestionList[0].Answers)
	assert.Empty(t, resp.QuestionList[0].Answers)

	require.Len(t, resp.QuestionList[1].Answers, 2)
	assert.Equal(t, early.ID, resp.QuestionList[1].Answers[0].ID)
	assert.Equal(t, late.ID, resp.QuestionList[1].Answers[1].ID)
}

func TestListQuestions_RejectsBadInput(t *testing.T) {
	f := newFixture(t, "")

	_, err := f.svc.ListQuestions(f.ctx, "faculty", "x", 1)
	assert.ErrorIs(t, err, apperrors.ErrInvalidScope)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = f.svc.ListQuestions(f.ctx, "course", "x", 0)
	assert.ErrorIs(t, err, apperrors.ErrInvalidPagination)
}

func TestListQuestions_HugePageIsPastTheEnd(t *testing.T) {
	f := newFixture(t, "")
	cs := f.department("Computer Science")
	algo := f.course("Algorithms", ptr(cs.ID))
	for i := 0; i < 5; i++ {
		f.question("alice@x.io", ptr(algo.ID), time.Duration(i)*time.Minute)
	}

	// (page-1)*10 wraps to 4 in uint64 arithmetic
	for _, page := range []int{1844674407370955163, 1<<62 + 1} {
		resp, err := f.svc.ListQuestions(f.ctx, "course", "Algorithms", page)
		require.NoError(t, err, page)
		assert.Empty(t, resp.QuestionList, page)
		assert.Equal(t, 5, resp.CntQuestions, page)
	}
}

func TestListMine_HugePageIsPastTheEnd(t *testing.T) {
	f := newFixture(t, "")
	q := f.question("alice@x.io", nil, 0)
	f.answer("alice@x.io", ptr(q.ID), 0)

	questions, err := f.svc.ListMyQuestions(f.ctx, "alice@x.io", 1<<61+1, 100)
	require.NoError(t, err)
	assert.Empty(t, questions.QuestionList)
	assert.Equal(t, 1, questions.CntQuestions)

	answers, err := f.svc.ListMyAnswers(f.ctx, "alice@x.io", 1<<61+1, 100)
	require.NoError(t, err)
	assert.Empty(t, answers.AnswerList)
	assert.Equal(t, 1, answers.CntAnswers)
}

func TestGetQuestionDetail(t *testing.T) {
	f := newFixture(t, "")
	alice := f.user("alice@x.io")
	f.user("bob@x.io")
	cs := f.department("Computer Science")
	algo := f.course("Algorithms", ptr(cs.ID))
	q := f.question("carol@x.io", ptr(algo.ID), 0)

	a1 := f.answer("bob@x.io", ptr(q.ID), time.Minute)
	a2 := f.answer("dave@x.io", ptr(q.ID), 2*time.Minute)
	_, err := f.svc.Recommend(f.ctx, a1.ID, "alice@x.io")
	require.NoError(t, err)

	resp, err := f.svc.GetQuestionDetail(f.ctx, q.ID, "alice@x.io")
	require.NoError(t, err)
	require.NotNil(t, resp.Question.Course)
	assert.Equal(t, "Algorithms", resp.Question.Course.Name)
	require.Len(t, resp.Answers, 2)

	assert.Equal(t, a1.ID, resp.Answers[0].ID)
	assert.Equal(t, 1, resp.Answers[0].RecommendCount)
	assert.True(t, resp.Answers[0].RecommendedByMe)
	assert.Equal(t, models.Recommenders{alice.ID}, resp.Answers[0].RecommendedBy)

	assert.Equal(t, a2.ID, resp.Answers[1].ID)
	assert.Zero(t, resp.Answers[1].RecommendCount)
	assert.False(t, resp.Answers[1].RecommendedByMe)

	// Another viewer sees the same count but not the flag
	resp, err = f.svc.GetQuestionDetail(f.ctx, q.ID, "bob@x.io")
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Answers[0].RecommendCount)
	assert.False(t, resp.Answers[0].RecommendedByMe)

	// Unknown viewers are not an error
	resp, err = f.svc.GetQuestionDetail(f.ctx, q.ID, "ghost@x.io")
	require.NoError(t, err)
	assert.False(t, resp.Answers[0].RecommendedByMe)
}

func TestGetQuestionDetail_NullPropagation(t *testing.T) {
	f := newFixture(t, "")

	noCourse := f.question("alice@x.io", nil, 0)
	resp, err := f.svc.GetQuestionDetail(f.ctx, noCourse.ID, "")
	require.NoError(t, err)
	assert.Nil(t, resp.Question.Course)
	assert.NotNil(t, resp.Answers)

	dangling := f.question("alice@x.io", ptr(uuid.New()), 0)
	resp, err = f.svc.GetQuestionDetail(f.ctx, dangling.ID, "")
	require.NoError(t, err)
	assert.Nil(t, resp.Question.Course)

	orphan := f.course("Orphan", nil)
	q := f.question("alice@x.io", ptr(orphan.ID), 0)
	resp, err = f.svc.GetQuestionDetail(f.ctx, q.ID, "")
	require.NoError(t, err)
	require.NotNil(t, resp.Question.Course)
	assert.Nil(t, resp.Question.Course.Parent)
}

func TestGetQuestionDetail_NotFound(t *testing.T) {
	f := newFixture(t, "")
	_, err := f.svc.GetQuestionDetail(f.ctx, uuid.New(), "")
	assert.ErrorIs(t, err, apperrors.ErrQuestionNotFound)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestRecommend_SelfRecommendationRejected(t *testing.T) {
	f := newFixture(t, "")
	f.user("alice@x.io")
	q := f.question("bob@x.io", nil, 0)
	a := f.answer("alice@x.io", ptr(q.ID), 0)

	_, err := f.svc.Recommend(f.ctx, a.ID, "alice@x.io")
	assert.ErrorIs(t, err, apperrors.ErrSelfRecommendation)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Empty(t, f.storedAnswer(a.ID).RecommendedBy)
}

func TestRecommend_AppendsExactlyOneEntry(t *testing.T) {
	f := newFixture(t, "")
	bob := f.user("bob@x.io")
	q := f.question("carol@x.io", nil, 0)
	a := f.answer("alice@x.io", ptr(q.ID), 0)

	res, err := f.svc.Recommend(f.ctx, a.ID, "bob@x.io")
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, models.Recommenders{bob.ID}, f.storedAnswer(a.ID).RecommendedBy)
}

func TestRecommend_AppendPolicyKeepsRepeats(t *testing.T) {
	f := newFixture(t, config.RecommendPolicyAppend)
	bob := f.user("bob@x.io")
	q := f.question("carol@x.io", nil, 0)
	a := f.answer("alice@x.io", ptr(q.ID), 0)

	for i := 0; i < 2; i++ {
		res, err := f.svc.Recommend(f.ctx, a.ID, "bob@x.io")
		require.NoError(t, err)
		assert.True(t, res.Applied)
	}
	assert.Equal(t, models.Recommenders{bob.ID, bob.ID}, f.storedAnswer(a.ID).RecommendedBy)
}

func TestRecommend_UniquePolicyIsIdempotent(t *testing.T) {
	f := newFixture(t, config.RecommendPolicyUnique)
	bob := f.user("bob@x.io")
	q := f.question("carol@x.io", nil, 0)
	a := f.answer("alice@x.io", ptr(q.ID), 0)

	res, err := f.svc.Recommend(f.ctx, a.ID, "bob@x.io")
	require.NoError(t, err)
	assert.True(t, res.Applied)

	res, err = f.svc.Recommend(f.ctx, a.ID, "bob@x.io")
	require.NoError(t, err)
	assert.False(t, res.Applied)

	assert.Equal(t, models.Recommenders{bob.ID}, f.storedAnswer(a.ID).RecommendedBy)
}

func TestRecommend_NotFound(t *testing.T) {
	f := newFixture(t, "")
	f.user("bob@x.io")
	q := f.question("carol@x.io", nil, 0)
	a := f.answer("alice@x.io", ptr(q.ID), 0)

	_, err := f.svc.Recommend(f.ctx, a.ID, "ghost@x.io")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	_, err = f.svc.Recommend(f.ctx, uuid.New(), "bob@x.io")
	assert.ErrorIs(t, err, apperrors.ErrAnswerNotFound)

	assert.Empty(t, f.storedAnswer(a.ID).RecommendedBy)
}

func TestRecommend_AnswerWithoutWriterIsNoop(t *testing.T) {
	f := newFixture(t, "")
	f.user("bob@x.io")
	q := f.question("carol@x.io", nil, 0)
	a := f.answer("", ptr(q.ID), 0)

	res, err := f.svc.Recommend(f.ctx, a.ID, "bob@x.io")
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.Empty(t, f.storedAnswer(a.ID).RecommendedBy)
}

func TestRecommend_BlankWriterStillCounts(t *testing.T) {
	f := newFixture(t, "")
	bob := f.user("bob@x.io")
	q := f.question("carol@x.io", nil, 0)
	a := f.answer("   ", ptr(q.ID), 0)

	res, err := f.svc.Recommend(f.ctx, a.ID, "bob@x.io")
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, models.Recommenders{bob.ID}, f.storedAnswer(a.ID).RecommendedBy)
}

func TestListMyQuestions_FilterOrderAndCounts(t *testing.T) {
	f := newFixture(t, "")
	cs := f.department("Computer Science")
	algo := f.course("Algorithms", ptr(cs.ID))

	old := f.question("alice@x.io", ptr(algo.ID), 0)
	mid := f.question("alice@x.io", nil, time.Minute)
	newest := f.question("alice@x.io", ptr(uuid.New()), 2*time.Minute)
	f.question("bob@x.io", ptr(algo.ID), 3*time.Minute)

	f.answer("bob@x.io", ptr(old.ID), time.Hour)
	f.answer("carol@x.io", ptr(old.ID), time.Hour)
	f.answer("carol@x.io", ptr(uuid.New()), time.Hour)

	resp, err := f.svc.ListMyQuestions(f.ctx, "alice@x.io", 1, 5)
	require.NoError(t, err)
	assert.Equal(t, 3, resp.CntQuestions)
	require.Len(t, resp.QuestionList, 3)

	assert.Equal(t, newest.ID, resp.QuestionList[0].ID)
	assert.Nil(t, resp.QuestionList[0].Course)
	assert.Equal(t, mid.ID, resp.QuestionList[1].ID)
	assert.Nil(t, resp.QuestionList[1].Course)
	assert.Equal(t, old.ID, resp.QuestionList[2].ID)
	require.NotNil(t, resp.QuestionList[2].Course)
	assert.Equal(t, "Computer Science", resp.QuestionList[2].Course.Parent.Name)

	assert.Equal(t, 0, resp.QuestionList[0].CountAnswer)
	assert.Equal(t, 2, resp.QuestionList[2].CountAnswer)
}

func TestListMyQuestions_Pagination(t *testing.T) {
	f := newFixture(t, "")
	for i := 0; i < 7; i++ {
		f.question("alice@x.io", nil, time.Duration(i)*time.Minute)
	}

	resp, err := f.svc.ListMyQuestions(f.ctx, "alice@x.io", 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 7, resp.CntQuestions)
	assert.Len(t, resp.QuestionList, 3)
	assert.Equal(t, dto.PaginationInfo{CurrentPage: 2, TotalPages: 3, PageSize: 3, TotalItems: 7}, resp.Pagination)

	resp, err = f.svc.ListMyQuestions(f.ctx, "alice@x.io", 9, 3)
	require.NoError(t, err)
	assert.Equal(t, 7, resp.CntQuestions)
	assert.Empty(t, resp.QuestionList)

	resp, err = f.svc.ListMyQuestions(f.ctx, "alice@x.io", 1, 1000)
	require.NoError(t, err)
	assert.Equal(t, 100, resp.Pagination.PageSize)
	assert.Len(t, resp.QuestionList, 7)
}

func TestListMyQuestions_TieBreaksOnID(t *testing.T) {
	f := newFixture(t, "")
	low := f.question("alice@x.io", nil, 0)
	high := f.question("alice@x.io", nil, 0)
	if !idLessForTest(low.ID, high.ID) {
		low, high = high, low
	}

	resp, err := f.svc.ListMyQuestions(f.ctx, "alice@x.io", 1, 10)
	require.NoError(t, err)
	require.Len(t, resp.QuestionList, 2)
	assert.Equal(t, high.ID, resp.QuestionList[0].ID)
	assert.Equal(t, low.ID, resp.QuestionList[1].ID)
}

func TestListMyAnswers_ResolvesChain(t *testing.T) {
	f := newFixture(t, "")
	cs := f.department("Computer Science")
	algo := f.course("Algorithms", ptr(cs.ID))
	q := f.question("carol@x.io", ptr(algo.ID), 0)

	first := f.answer("alice@x.io", ptr(q.ID), time.Minute)
	dangling := f.answer("alice@x.io", ptr(uuid.New()), 2*time.Minute)
	f.answer("bob@x.io", ptr(q.ID), 3*time.Minute)

	resp, err := f.svc.ListMyAnswers(f.ctx, "alice@x.io", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.CntAnswers)
	require.Len(t, resp.AnswerList, 2)

	assert.Equal(t, dangling.ID, resp.AnswerList[0].ID)
	assert.Nil(t, resp.AnswerList[0].Question)

	assert.Equal(t, first.ID, resp.AnswerList[1].ID)
	require.NotNil(t, resp.AnswerList[1].Question)
	assert.Equal(t, q.ID, resp.AnswerList[1].Question.ID)
	require.NotNil(t, resp.AnswerList[1].Question.Course)
	assert.Equal(t, "Computer Science", resp.AnswerList[1].Question.Course.Parent.Name)
}

func TestCreateQuestion(t *testing.T) {
	f := newFixture(t, "")
	cs := f.department("Computer Science")
	f.course("Data/Structures", ptr(cs.ID))

	view, err := f.svc.CreateQuestion(f.ctx, "alice@x.io", &dto.CreateQuestionRequest{
		Title:      "  Heaps  ",
		Content:    "why",
		CourseName: "Data/Structures",
	})
	require.NoError(t, err)
	assert.Equal(t, "Heaps", view.Title)
	assert.Equal(t, "alice@x.io", view.Writer)
	require.NotNil(t, view.Course)
	assert.Equal(t, "Computer Science", view.Course.Parent.Name)

	view, err = f.svc.CreateQuestion(f.ctx, "alice@x.io", &dto.CreateQuestionRequest{Title: "t", Content: "c"})
	require.NoError(t, err)
	assert.Nil(t, view.CourseID)
	assert.Nil(t, view.Course)

	_, err = f.svc.CreateQuestion(f.ctx, "alice@x.io", &dto.CreateQuestionRequest{Title: "t", Content: "c", CourseName: "Nope"})
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}

func TestCreateAnswer(t *testing.T) {
	f := newFixture(t, "")
	q := f.question("carol@x.io", nil, 0)

	a, err := f.svc.CreateAnswer(f.ctx, q.ID, "alice@x.io", &dto.CreateAnswerRequest{Content: "42"})
	require.NoError(t, err)
	assert.Equal(t, "alice@x.io", a.Writer)
	require.NotNil(t, a.QuestionID)
	assert.Equal(t, q.ID, *a.QuestionID)
	assert.Empty(t, a.RecommendedBy)

	_, err = f.svc.CreateAnswer(f.ctx, uuid.New(), "alice@x.io", &dto.CreateAnswerRequest{Content: "42"})
	assert.ErrorIs(t, err, apperrors.ErrQuestionNotFound)
}

func idLessForTest(a, b uuid.UUID) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
