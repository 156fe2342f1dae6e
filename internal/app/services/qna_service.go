package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/qnaboard/internal/app/models"
	"github.com/yigit/qnaboard/internal/app/models/dto"
	"github.com/yigit/qnaboard/internal/app/repositories"
	"github.com/yigit/qnaboard/internal/config"
	"github.com/yigit/qnaboard/internal/pkg/apperrors"
	"github.com/yigit/qnaboard/internal/pkg/helpers"
	"github.com/yigit/qnaboard/internal/pkg/metrics"
)

// QnAOptions tunes listing sizes and how recommendations are persisted
type QnAOptions struct {
	PageSize        int
	MaxPerPage      int
	RecommendPolicy string
}

// RecommendResult reports whether a recommend call changed the stored recommender list
type RecommendResult struct {
	Applied bool
}

// QnAService implements the question and answer read paths and the recommend transition
type QnAService struct {
	questionRepo repositories.IQuestionRepository
	answerRepo   repositories.IAnswerRepository
	courseRepo   repositories.ICourseRepository
	userRepo     repositories.IUserRepository
	resolver     *JoinResolver
	opts         QnAOptions
	logger       zerolog.Logger
}

// NewQnAService creates a new QnAService
func NewQnAService(
	questionRepo repositories.IQuestionRepository,
	answerRepo repositories.IAnswerRepository,
	courseRepo repositories.ICourseRepository,
	userRepo repositories.IUserRepository,
	resolver *JoinResolver,
	opts QnAOptions,
	logger zerolog.Logger,
) *QnAService {
	if opts.PageSize < 1 {
		opts.PageSize = helpers.DefaultPageSize
	}
	if opts.MaxPerPage < 1 {
		opts.MaxPerPage = helpers.MaxPageSize
	}
	if opts.RecommendPolicy == "" {
		opts.RecommendPolicy = config.RecommendPolicyAppend
	}

	return &QnAService{
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
		courseRepo:   courseRepo,
		userRepo:     userRepo,
		resolver:     resolver,
		opts:         opts,
		logger:       logger,
	}
}

// MaxPerPage is the largest page size a caller may ask for
func (s *QnAService) MaxPerPage() int {
	return s.opts.MaxPerPage
}

// ListQuestions returns one page of a department or course board, latest first.
// encodedName carries "/" as "!". Every item embeds all of its answers, oldest first.
func (s *QnAService) ListQuestions(ctx context.Context, scopeType, encodedName string, page int) (*dto.QuestionListResponse, error) {
	scope := models.ScopeType(scopeType)
	if !scope.Valid() {
		return nil, apperrors.ErrInvalidScope
	}
	if page < 1 {
		return nil, fmt.Errorf("%w: page must be at least 1", apperrors.ErrInvalidPagination)
	}

	name := helpers.DecodeScopeName(encodedName)
	offset, limit := helpers.CalculateOffsetLimit(page, s.opts.PageSize)

	views, total, err := s.questionRepo.BrowseByScope(ctx, scope, name, offset, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(views))
	for _, v := range views {
		ids = append(ids, v.ID)
	}
	answers, err := s.answerRepo.ListByQuestionIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	list := make([]*models.QuestionWithAnswers, 0, len(views))
	for _, v := range views {
		embedded := answers[v.ID]
		if embedded == nil {
			embedded = []*models.Answer{}
		}
		list = append(list, &models.QuestionWithAnswers{QuestionView: *v, Answers: embedded})
	}

	s.logger.Debug().
		Str("scope", scopeType).
		Str("name", name).
		Int("page", page).
		Int("total", total).
		Msg("Listed questions")

	return &dto.QuestionListResponse{
		QuestionList: list,
		CntQuestions: total,
		Pagination:   paginationInfo(page, s.opts.PageSize, total),
	}, nil
}

// GetQuestionDetail returns a question with its chain resolved and its answers oldest first.
// Each answer is annotated for the user behind actingEmail.
func (s *QnAService) GetQuestionDetail(ctx context.Context, questionID uuid.UUID, actingEmail string) (*dto.QuestionDetailResponse, error) {
	question, err := s.questionRepo.GetByID(ctx, questionID)
	if err != nil {
		return nil, err
	}

	view, err := s.resolver.ResolveQuestion(ctx, question)
	if err != nil {
		return nil, err
	}

	answers, err := s.answerRepo.ListByQuestionID(ctx, questionID)
	if err != nil {
		return nil, err
	}

	// An unknown viewer sees the counts but never "recommended by me"
	viewer := uuid.Nil
	if actingEmail != "" {
		user, err := s.userRepo.GetByEmail(ctx, actingEmail)
		switch {
		case err == nil:
			viewer = user.ID
		case !errors.Is(err, apperrors.ErrResourceNotFound):
			return nil, err
		}
	}

	details := make([]*models.AnswerDetail, 0, len(answers))
	for _, a := range answers {
		details = append(details, &models.AnswerDetail{
			Answer:          *a,
			RecommendCount:  a.RecommendedBy.Len(),
			RecommendedByMe: viewer != uuid.Nil && a.RecommendedBy.Contains(viewer),
		})
	}

	return &dto.QuestionDetailResponse{Question: view, Answers: details}, nil
}

// Recommend records that the user behind actingEmail recommends the answer.
// Writers cannot recommend their own answers. An answer without a writer is left untouched
// and the call still succeeds.
func (s *QnAService) Recommend(ctx context.Context, answerID uuid.UUID, actingEmail string) (*RecommendResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, actingEmail)
	if err != nil {
		return nil, err
	}

	answer, err := s.answerRepo.GetByID(ctx, answerID)
	if err != nil {
		return nil, err
	}

	if answer.Writer == actingEmail {
		metrics.RecordRecommendation(metrics.OutcomeRejected)
		s.logger.Info().
			Str("answerId", answerID.String()).
			Str("email", actingEmail).
			Msg("Rejected self-recommendation")
		return nil, apperrors.ErrSelfRecommendation
	}

	if answer.Writer == "" {
		metrics.RecordRecommendation(metrics.OutcomeNoop)
		s.logger.Warn().Str("answerId", answerID.String()).Msg("Answer has no writer, recommendation skipped")
		return &RecommendResult{Applied: false}, nil
	}

	var applied bool
	switch s.opts.RecommendPolicy {
	case config.RecommendPolicyUnique:
		applied, err = s.answerRepo.AddRecommenderIfAbsent(ctx, answerID, user.ID)
		if err != nil {
			return nil, err
		}
	default:
		applied, err = s.answerRepo.AppendRecommender(ctx, answerID, user.ID)
		if err != nil {
			return nil, err
		}
		if !applied {
			return nil, apperrors.ErrAnswerNotFound
		}
	}

	if applied {
		metrics.RecordRecommendation(metrics.OutcomeApplied)
	} else {
		metrics.RecordRecommendation(metrics.OutcomeNoop)
	}

	s.logger.Info().
		Str("answerId", answerID.String()).
		Str("userId", user.ID.String()).
		Bool("applied", applied).
		Msg("Answer recommended")

	return &RecommendResult{Applied: applied}, nil
}

// ListMyQuestions returns one page of the caller's questions, latest first, each with its answer count
func (s *QnAService) ListMyQuestions(ctx context.Context, actingEmail string, page, perPage int) (*dto.MyQuestionsResponse, error) {
	page, perPage = s.clampPage(page, perPage)

	questions, err := s.questionRepo.ListByWriter(ctx, actingEmail)
	if err != nil {
		return nil, err
	}

	latestFirst(questions, func(q *models.Question) (time.Time, uuid.UUID) { return q.CreatedAt, q.ID })
	pageItems, total := helpers.Paginate(questions, page, perPage)

	views, err := s.resolver.ResolveQuestions(ctx, pageItems)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(views))
	for _, v := range views {
		ids = append(ids, v.ID)
	}
	counts, err := s.answerRepo.CountByQuestionIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	list := make([]*models.QuestionWithCount, 0, len(views))
	for _, v := range views {
		list = append(list, &models.QuestionWithCount{QuestionView: *v, CountAnswer: counts[v.ID]})
	}

	return &dto.MyQuestionsResponse{
		QuestionList: list,
		CntQuestions: total,
		Pagination:   paginationInfo(page, perPage, total),
	}, nil
}

// ListMyAnswers returns one page of the caller's answers, latest first, with their question chain resolved
func (s *QnAService) ListMyAnswers(ctx context.Context, actingEmail string, page, perPage int) (*dto.MyAnswersResponse, error) {
	page, perPage = s.clampPage(page, perPage)

	answers, err := s.answerRepo.ListByWriter(ctx, actingEmail)
	if err != nil {
		return nil, err
	}

	latestFirst(answers, func(a *models.Answer) (time.Time, uuid.UUID) { return a.CreatedAt, a.ID })
	pageItems, total := helpers.Paginate(answers, page, perPage)

	views, err := s.resolver.ResolveAnswers(ctx, pageItems)
	if err != nil {
		return nil, err
	}

	return &dto.MyAnswersResponse{
		AnswerList: views,
		CntAnswers: total,
		Pagination: paginationInfo(page, perPage, total),
	}, nil
}

// CreateQuestion stores a new question written by actingEmail. A course name, when given,
// must match an existing course.
func (s *QnAService) CreateQuestion(ctx context.Context, actingEmail string, req *dto.CreateQuestionRequest) (*models.QuestionView, error) {
	question := &models.Question{
		Writer:  actingEmail,
		Title:   strings.TrimSpace(req.Title),
		Content: req.Content,
	}

	if name := strings.TrimSpace(req.CourseName); name != "" {
		course, err := s.courseRepo.GetByName(ctx, name)
		if err != nil {
			return nil, err
		}
		question.CourseID = &course.ID
	}

	if err := s.questionRepo.Create(ctx, question); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("questionId", question.ID.String()).
		Str("writer", actingEmail).
		Msg("Question created")

	return s.resolver.ResolveQuestion(ctx, question)
}

// CreateAnswer stores a new answer to an existing question
func (s *QnAService) CreateAnswer(ctx context.Context, questionID uuid.UUID, actingEmail string, req *dto.CreateAnswerRequest) (*models.Answer, error) {
	if _, err := s.questionRepo.GetByID(ctx, questionID); err != nil {
		return nil, err
	}

	answer := &models.Answer{
		Writer:     actingEmail,
		Content:    req.Content,
		QuestionID: &questionID,
	}
	if err := s.answerRepo.Create(ctx, answer); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("answerId", answer.ID.String()).
		Str("questionId", questionID.String()).
		Str("writer", actingEmail).
		Msg("Answer created")

	return answer, nil
}

func (s *QnAService) clampPage(page, perPage int) (int, int) {
	if page < 1 {
		page = helpers.DefaultPage
	}
	if perPage < 1 {
		perPage = helpers.DefaultPageSize
	}
	if perPage > s.opts.MaxPerPage {
		perPage = s.opts.MaxPerPage
	}
	return page, perPage
}

// latestFirst orders items by creation time descending. Equal timestamps fall back to id descending.
func latestFirst[T any](items []T, key func(T) (time.Time, uuid.UUID)) {
	sort.SliceStable(items, func(i, j int) bool {
		ti, idi := key(items[i])
		tj, idj := key(items[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return bytes.Compare(idi[:], idj[:]) > 0
	})
}

func paginationInfo(page, size, total int) dto.PaginationInfo {
	return dto.PaginationInfo{
		CurrentPage: page,
		TotalPages:  helpers.TotalPages(total, size),
		PageSize:    size,
		TotalItems:  total,
	}
}
