package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/yigit/qnaboard/internal/app/models"
	"github.com/yigit/qnaboard/internal/app/repositories"
	"github.com/yigit/qnaboard/internal/app/repositories/inmemory"
	"github.com/yigit/qnaboard/internal/config"
)

var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	t     *testing.T
	ctx   context.Context
	repos *repositories.Repositories
	svc   *QnAService
}

func newFixture(t *testing.T, policy string) *fixture {
	t.Helper()
	if policy == "" {
		policy = config.RecommendPolicyAppend
	}

	repos := inmemory.NewStore().Repositories()
	resolver := NewJoinResolver(repos.QuestionRepository, repos.CourseRepository, repos.DepartmentRepository)
	svc := NewQnAService(
		repos.QuestionRepository,
		repos.AnswerRepository,
		repos.CourseRepository,
		repos.UserRepository,
		resolver,
		QnAOptions{PageSize: 10, MaxPerPage: 100, RecommendPolicy: policy},
		zerolog.Nop(),
	)

	return &fixture{t: t, ctx: context.Background(), repos: repos, svc: svc}
}

func (f *fixture) user(email string) *models.User {
	f.t.Helper()
	u := &models.User{Email: email, Password: "x"}
	require.NoError(f.t, f.repos.UserRepository.Create(f.ctx, u))
	return u
}

func (f *fixture) department(name string) *models.Department {
	f.t.Helper()
	d := &models.Department{Name: name}
	require.NoError(f.t, f.repos.DepartmentRepository.Create(f.ctx, d))
	return d
}

func (f *fixture) course(name string, parent *uuid.UUID) *models.Course {
	f.t.Helper()
	c := &models.Course{Name: name, ParentID: parent}
	require.NoError(f.t, f.repos.CourseRepository.Create(f.ctx, c))
	return c
}

// question stores a question created at baseTime plus offset
func (f *fixture) question(writer string, course *uuid.UUID, offset time.Duration) *models.Question {
	f.t.Helper()
	q := &models.Question{
		Writer:    writer,
		Title:     "title",
		Content:   "content",
		CourseID:  course,
		CreatedAt: baseTime.Add(offset),
	}
	require.NoError(f.t, f.repos.QuestionRepository.Create(f.ctx, q))
	return q
}

func (f *fixture) answer(writer string, question *uuid.UUID, offset time.Duration) *models.Answer {
	f.t.Helper()
	a := &models.Answer{
		Writer:     writer,
		Content:    "answer",
		QuestionID: question,
		CreatedAt:  baseTime.Add(offset),
	}
	require.NoError(f.t, f.repos.AnswerRepository.Create(f.ctx, a))
	return a
}

func (f *fixture) storedAnswer(id uuid.UUID) *models.Answer {
	f.t.Helper()
	a, err := f.repos.AnswerRepository.GetByID(f.ctx, id)
	require.NoError(f.t, err)
	return a
}

func ptr(id uuid.UUID) *uuid.UUID {
	return &id
}
