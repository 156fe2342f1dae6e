package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/yigit/qnaboard/internal/app/models"
	"github.com/yigit/qnaboard/internal/app/repositories"
	"github.com/yigit/qnaboard/internal/pkg/apperrors"
)

// JoinResolver expands stored questions and answers into views with their course,
// department and question embedded. A reference that does not resolve becomes nil in
// the view; only store failures are returned as errors.
type JoinResolver struct {
	questionRepo   repositories.IQuestionRepository
	courseRepo     repositories.ICourseRepository
	departmentRepo repositories.IDepartmentRepository
}

// NewJoinResolver creates a new join resolver
func NewJoinResolver(
	questionRepo repositories.IQuestionRepository,
	courseRepo repositories.ICourseRepository,
	departmentRepo repositories.IDepartmentRepository,
) *JoinResolver {
	return &JoinResolver{
		questionRepo:   questionRepo,
		courseRepo:     courseRepo,
		departmentRepo: departmentRepo,
	}
}

// joinSession memoizes lookups for the duration of one resolve call.
// Misses are memoized as nil so a dangling id is looked up once.
type joinSession struct {
	r           *JoinResolver
	courses     map[uuid.UUID]*models.CourseView
	departments map[uuid.UUID]*models.Department
	questions   map[uuid.UUID]*models.QuestionView
}

func (r *JoinResolver) session() *joinSession {
	return &joinSession{
		r:           r,
		courses:     make(map[uuid.UUID]*models.CourseView),
		departments: make(map[uuid.UUID]*models.Department),
		questions:   make(map[uuid.UUID]*models.QuestionView),
	}
}

// ResolveQuestion embeds the course and its department into q
func (r *JoinResolver) ResolveQuestion(ctx context.Context, q *models.Question) (*models.QuestionView, error) {
	return r.session().question(ctx, q)
}

// ResolveQuestions resolves a batch of questions, sharing lookups across the batch. Order is kept.
func (r *JoinResolver) ResolveQuestions(ctx context.Context, questions []*models.Question) ([]*models.QuestionView, error) {
	s := r.session()
	views := make([]*models.QuestionView, 0, len(questions))
	for _, q := range questions {
		view, err := s.question(ctx, q)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// ResolveAnswer embeds the question chain into a
func (r *JoinResolver) ResolveAnswer(ctx context.Context, a *models.Answer) (*models.AnswerView, error) {
	return r.session().answer(ctx, a)
}

// ResolveAnswers resolves a batch of answers, sharing lookups across the batch. Order is kept.
func (r *JoinResolver) ResolveAnswers(ctx context.Context, answers []*models.Answer) ([]*models.AnswerView, error) {
	s := r.session()
	views := make([]*models.AnswerView, 0, len(answers))
	for _, a := range answers {
		view, err := s.answer(ctx, a)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *joinSession) question(ctx context.Context, q *models.Question) (*models.QuestionView, error) {
	view := &models.QuestionView{Question: *q}
	if q.CourseID == nil {
		return view, nil
	}

	course, err := s.course(ctx, *q.CourseID)
	if err != nil {
		return nil, err
	}
	view.Course = course
	return view, nil
}

func (s *joinSession) answer(ctx context.Context, a *models.Answer) (*models.AnswerView, error) {
	view := &models.AnswerView{Answer: *a}
	if a.QuestionID == nil {
		return view, nil
	}

	id := *a.QuestionID
	if cached, ok := s.questions[id]; ok {
		view.Question = cached
		return view, nil
	}

	q, err := s.r.questionRepo.GetByID(ctx, id)
	if err != nil && !errors.Is(err, apperrors.ErrResourceNotFound) {
		return nil, fmt.Errorf("resolving question %s: %w", id, err)
	}

	var qv *models.QuestionView
	if q != nil {
		if qv, err = s.question(ctx, q); err != nil {
			return nil, err
		}
	}
	s.questions[id] = qv
	view.Question = qv
	return view, nil
}

func (s *joinSession) course(ctx context.Context, id uuid.UUID) (*models.CourseView, error) {
	if cached, ok := s.courses[id]; ok {
		return cached, nil
	}

	course, err := s.r.courseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			s.courses[id] = nil
			return nil, nil
		}
		return nil, fmt.Errorf("resolving course %s: %w", id, err)
	}

	view := &models.CourseView{Course: *course}
	if course.ParentID != nil {
		if view.Parent, err = s.department(ctx, *course.ParentID); err != nil {
			return nil, err
		}
	}
	s.courses[id] = view
	return view, nil
}

func (s *joinSession) department(ctx context.Context, id uuid.UUID) (*models.Department, error) {
	if cached, ok := s.departments[id]; ok {
		return cached, nil
	}

	department, err := s.r.departmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			s.departments[id] = nil
			return nil, nil
		}
		return nil, fmt.Errorf("resolving department %s: %w", id, err)
	}
	s.departments[id] = department
	return department, nil
}
