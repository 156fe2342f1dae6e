// Package services holds the business logic between controllers and repositories.
//
// Services defined in this package:
//   - QnAService: question boards, question detail, recommendations, the caller's own lists
//   - JoinResolver: expands questions and answers into views with their parents embedded
//   - CatalogService: departments and courses
//   - AuthService: registration and login
package services

import (
	"github.com/rs/zerolog"
	"github.com/yigit/qnaboard/internal/app/repositories"
	"github.com/yigit/qnaboard/internal/pkg/auth"
)

// Services holds all the service instances
type Services struct {
	QnAService     *QnAService
	CatalogService *CatalogService
	AuthService    *AuthService
}

// NewServices wires every service to the given repositories
func NewServices(repos *repositories.Repositories, jwtService *auth.JWTService, opts QnAOptions, logger zerolog.Logger) *Services {
	resolver := NewJoinResolver(repos.QuestionRepository, repos.CourseRepository, repos.DepartmentRepository)

	return &Services{
		QnAService: NewQnAService(
			repos.QuestionRepository,
			repos.AnswerRepository,
			repos.CourseRepository,
			repos.UserRepository,
			resolver,
			opts,
			logger.With().Str("service", "qna").Logger(),
		),
		CatalogService: NewCatalogService(repos.DepartmentRepository, repos.CourseRepository),
		AuthService:    NewAuthService(repos.UserRepository, jwtService, logger.With().Str("service", "auth").Logger()),
	}
}
