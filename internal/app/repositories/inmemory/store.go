// Package inmemory keeps every entity in process memory. It mirrors the Postgres
// repositories' observable behavior, references included: nothing is checked on write
// and dangling ids resolve to nil on read.
package inmemory

import (
	"bytes"
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yigit/qnaboard/internal/app/models"
	"github.com/yigit/qnaboard/internal/app/repositories"
	"github.com/yigit/qnaboard/internal/pkg/apperrors"
)

// Store is an in-memory implementation of all repositories
type Store struct {
	mu          sync.RWMutex
	now         func() time.Time
	users       map[uuid.UUID]*models.User
	departments map[uuid.UUID]*models.Department
	courses     map[uuid.UUID]*models.Course
	questions   map[uuid.UUID]*models.Question
	answers     map[uuid.UUID]*models.Answer
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		now:         func() time.Time { return time.Now().UTC() },
		users:       make(map[uuid.UUID]*models.User),
		departments: make(map[uuid.UUID]*models.Department),
		courses:     make(map[uuid.UUID]*models.Course),
		questions:   make(map[uuid.UUID]*models.Question),
		answers:     make(map[uuid.UUID]*models.Answer),
	}
}

// Repositories exposes the store through the repository interfaces
func (s *Store) Repositories() *repositories.Repositories {
	return &repositories.Repositories{
		UserRepository:       (*UserRepository)(s),
		DepartmentRepository: (*DepartmentRepository)(s),
		CourseRepository:     (*CourseRepository)(s),
		QuestionRepository:   (*QuestionRepository)(s),
		AnswerRepository:     (*AnswerRepository)(s),
	}
}

func newID(id uuid.UUID) (uuid.UUID, error) {
	if id != uuid.Nil {
		return id, nil
	}
	return uuid.NewV7()
}

// stamp fills zero timestamps. Preset ones are kept so callers can load historical rows.
func (s *Store) stamp(created, updated *time.Time) {
	now := s.now()
	if created.IsZero() {
		*created = now
	}
	if updated.IsZero() {
		*updated = *created
	}
}

// UserRepository is the user view of a Store
type UserRepository Store

var _ repositories.IUserRepository = (*UserRepository)(nil)

// Create stores a user, rejecting a taken email
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email {
			return apperrors.ErrEmailAlreadyExists
		}
	}

	id, err := newID(user.ID)
	if err != nil {
		return err
	}
	user.ID = id
	s.stamp(&user.CreatedAt, &user.UpdatedAt)

	stored := *user
	s.users[id] = &stored
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	s := (*Store)(r)
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	s := (*Store)(r)
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

// EmailExists checks if an email already exists
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if err != nil {
		return false, nil
	}
	return true, nil
}

// DepartmentRepository is the department view of a Store
type DepartmentRepository Store

var _ repositories.IDepartmentRepository = (*DepartmentRepository)(nil)

// Create stores a department, rejecting a taken name
func (r *DepartmentRepository) Create(ctx context.Context, department *models.Department) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range s.departments {
		if d.Name == department.Name {
			return apperrors.NewConflictError("department with this name already exists")
		}
	}

	id, err := newID(department.ID)
	if err != nil {
		return err
	}
	department.ID = id

	stored := *department
	s.departments[id] = &stored
	return nil
}

// GetByID retrieves a department by ID
func (r *DepartmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Department, error) {
	s := (*Store)(r)
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.departments[id]
	if !ok {
		return nil, apperrors.ErrDepartmentNotFound
	}
	out := *d
	return &out, nil
}

// GetByName retrieves a department by its unique name
func (r *DepartmentRepository) GetByName(ctx context.Context, name string) (*models.Department, error) {
	s := (*Store)(r)
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, d := range s.departments {
		if d.Name == name {
			out := *d
			return &out, nil
		}
	}
	return nil, apperrors.ErrDepartmentNotFound
}

// GetAll retrieves all departments ordered by name
func (r *DepartmentRepository) GetAll(ctx context.Context) ([]*models.Department, error) {
	s := (*Store)(r)
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Department, 0, len(s.departments))
	for _, d := range s.departments {
		c := *d
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return idLess(out[i].ID, out[j].ID)
	})
	return out, nil
}

// CourseRepository is the course view of a Store
type CourseRepository Store

var _ repositories.ICourseRepository = (*CourseRepository)(nil)

// Create stores a course
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := newID(course.ID)
	if err != nil {
		return err
	}
	course.ID = id

	stored := *course
	s.courses[id] = &stored
	return nil
}

// GetByID retrieves a course by ID
func (r *CourseRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	s := (*Store)(r)
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	out := *c
	return &out, nil
}

// GetByName retrieves the oldest course with exactly this name
func (r *CourseRepository) GetByName(ctx context.Context, name string) (*models.Course, error) {
	s := (*Store)(r)
	s.mu.RLock()
	defer s.mu.RUnlock()

	var found *models.Course
	for _, c := range s.courses {
		if c.Name == name && (found == nil || idLess(c.ID, found.ID)) {
			found = c
		}
	}
	if found == nil {
		return nil, apperrors.ErrCourseNotFound
	}
	out := *found
	return &out, nil
}

// ListViews lists courses with the parent department embedded
func (r *CourseRepository) ListViews(ctx context.Context, departmentName *string) ([]*models.CourseView, error) {
	s := (*Store)(r)
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.CourseView, 0, len(s.courses))
	for _, c := range s.courses {
		view := s.courseView(c)
		if departmentName != nil && (view.Parent == nil || view.Parent.Name != *departmentName) {
			continue
		}
		out = append(out, view)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return idLess(out[i].ID, out[j].ID)
	})
	return out, nil
}

// courseView joins a course with its department. Caller holds the lock.
func (s *Store) courseView(c *models.Course) *models.CourseView {
	view := &models.CourseView{Course: *c}
	if c.ParentID != nil {
		if d, ok := s.departments[*c.ParentID]; ok {
			dept := *d
			view.Parent = &dept
		}
	}
	return view
}

// QuestionRepository is the question view of a Store
type QuestionRepository Store

var _ repositories.IQuestionRepository = (*QuestionRepository)(nil)

// Create stores a question
func (r *QuestionRepository) Create(ctx context.Context, question *models.Question) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := newID(question.ID)
	if err != nil {
		return err
	}
	question.ID = id
	s.stamp(&question.CreatedAt, &question.UpdatedAt)

	stored := *question
	s.questions[id] = &stored
	return nil
}

// GetByID retrieves a question by ID
func (r *QuestionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Question, error) {
	s := (*Store)(r)
	s.mu.RLock()
	defer s.mu.RUnlock()

	q, ok := s.questions[id]
	if !ok {
		return nil, apperrors.ErrQuestionNotFound
	}
	out := *q
	return &out, nil
}

// ListByWriter returns every question of writer in no particular order
func (r *QuestionRepository) ListByWriter(ctx context.Context, writer string) ([]*models.Question, error) {
	s := (*Store)(r)
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Question, 0)
	for _, q := range s.questions {
		if q.Writer == writer {
			c := *q
			out = append(out, &c)
		}
	}
	return out, nil
}

// BrowseByScope joins, filters and orders every question, then slices one page
func (r *QuestionRepository) BrowseByScope(ctx context.Context, scope models.ScopeType, name string, offset, limit uint64) ([]*models.QuestionView, int, error) {
	if !scope.Valid() {
		return nil, 0, apperrors.ErrInvalidScope
	}

	s := (*Store)(r)
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*models.QuestionView, 0)
	for _, q := range s.questions {
		view := &models.QuestionView{Question: *q}
		if q.CourseID != nil {
			if c, ok := s.courses[*q.CourseID]; ok {
				view.Course = s.courseView(c)
			}
		}

		switch scope {
		case models.ScopeDepartment:
			if view.Course == nil || view.Course.Parent == nil || view.Course.Parent.Name != name {
				continue
			}
		case models.ScopeCourse:
			if view.Course == nil || view.Course.Name != name {
				continue
			}
		}
		matched = append(matched, view)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return idLess(matched[j].ID, matched[i].ID)
	})

	total := len(matched)
	start := min(offset, uint64(total))
	end := min(start+limit, uint64(total))
	return matched[start:end], total, nil
}

// AnswerRepository is the answer view of a Store
type AnswerRepository Store

var _ repositories.IAnswerRepository = (*AnswerRepository)(nil)

func cloneAnswer(a *models.Answer) *models.Answer {
	out := *a
	out.RecommendedBy = append(models.Recommenders{}, a.RecommendedBy...)
	return &out
}

// Create stores an answer with an empty recommender list
func (r *AnswerRepository) Create(ctx context.Context, answer *models.Answer) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := newID(answer.ID)
	if err != nil {
		return err
	}
	answer.ID = id
	if answer.RecommendedBy == nil {
		answer.RecommendedBy = models.Recommenders{}
	}
	s.stamp(&answer.CreatedAt, &answer.UpdatedAt)

	s.answers[id] = cloneAnswer(answer)
	return nil
}

// GetByID retrieves an answer by ID
func (r *AnswerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Answer, error) {
	s := (*Store)(r)
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.answers[id]
	if !ok {
		return nil, apperrors.ErrAnswerNotFound
	}
	return cloneAnswer(a), nil
}

// ListByQuestionID returns the answers of one question, oldest first
func (r *AnswerRepository) ListByQuestionID(ctx context.Context, questionID uuid.UUID) ([]*models.Answer, error) {
	grouped, err := r.ListByQuestionIDs(ctx, []uuid.UUID{questionID})
	if err != nil {
		return nil, err
	}
	if grouped[questionID] == nil {
		return []*models.Answer{}, nil
	}
	return grouped[questionID], nil
}

// ListByQuestionIDs returns answers grouped by question, each group oldest first
func (r *AnswerRepository) ListByQuestionIDs(ctx context.Context, questionIDs []uuid.UUID) (map[uuid.UUID][]*models.Answer, error) {
	s := (*Store)(r)
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[uuid.UUID]struct{}, len(questionIDs))
	for _, id := range questionIDs {
		wanted[id] = struct{}{}
	}

	grouped := make(map[uuid.UUID][]*models.Answer, len(questionIDs))
	for _, a := range s.answers {
		if a.QuestionID == nil {
			continue
		}
		if _, ok := wanted[*a.QuestionID]; ok {
			grouped[*a.QuestionID] = append(grouped[*a.QuestionID], cloneAnswer(a))
		}
	}
	for _, list := range grouped {
		sort.Slice(list, func(i, j int) bool {
			if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
				return list[i].CreatedAt.Before(list[j].CreatedAt)
			}
			return idLess(list[i].ID, list[j].ID)
		})
	}
	return grouped, nil
}

// ListByWriter returns every answer of writer in no particular order
func (r *AnswerRepository) ListByWriter(ctx context.Context, writer string) ([]*models.Answer, error) {
	s := (*Store)(r)
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Answer, 0)
	for _, a := range s.answers {
		if a.Writer == writer {
			out = append(out, cloneAnswer(a))
		}
	}
	return out, nil
}

// CountByQuestionIDs counts answers per question, skipping answers whose question is gone
func (r *AnswerRepository) CountByQuestionIDs(ctx context.Context, questionIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	s := (*Store)(r)
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[uuid.UUID]int, len(questionIDs))
	for _, id := range questionIDs {
		counts[id] = 0
	}
	for _, a := range s.answers {
		if a.QuestionID == nil {
			continue
		}
		if _, exists := s.questions[*a.QuestionID]; !exists {
			continue
		}
		if _, wanted := counts[*a.QuestionID]; wanted {
			counts[*a.QuestionID]++
		}
	}
	return counts, nil
}

// AppendRecommender appends userID unconditionally
func (r *AnswerRepository) AppendRecommender(ctx context.Context, answerID, userID uuid.UUID) (bool, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.answers[answerID]
	if !ok {
		return false, nil
	}
	a.RecommendedBy = append(a.RecommendedBy, userID)
	a.UpdatedAt = s.now()
	return true, nil
}

// AddRecommenderIfAbsent appends userID only when it is not already present
func (r *AnswerRepository) AddRecommenderIfAbsent(ctx context.Context, answerID, userID uuid.UUID) (bool, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.answers[answerID]
	if !ok || a.RecommendedBy.Contains(userID) {
		return false, nil
	}
	a.RecommendedBy = append(a.RecommendedBy, userID)
	a.UpdatedAt = s.now()
	return true, nil
}

func idLess(a, b uuid.UUID) bool {
	return bytes.Compare(a[:], b[:]) < 0
}
