package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/qnaboard/internal/app/models"
	"github.com/yigit/qnaboard/internal/pkg/apperrors"
	"github.com/yigit/qnaboard/internal/pkg/dberrors"
	"github.com/yigit/qnaboard/internal/pkg/logger"
	"golang.org/x/sync/errgroup"
)

var questionColumns = []string{"q.id", "q.writer", "q.title", "q.content", "q.course", "q.created_at", "q.updated_at"}

// IQuestionRepository defines the question operations the services depend on
type IQuestionRepository interface {
	Create(ctx context.Context, question *models.Question) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Question, error)
	ListByWriter(ctx context.Context, writer string) ([]*models.Question, error)
	BrowseByScope(ctx context.Context, scope models.ScopeType, name string, offset, limit uint64) ([]*models.QuestionView, int, error)
}

// QuestionRepository handles database operations for questions.
// BrowseByScope issues two statements at once, so db must be safe for concurrent use (a pool, not a Tx).
type QuestionRepository struct {
	db DBTX
}

// NewQuestionRepository creates a new question repository
func NewQuestionRepository(db DBTX) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// Create inserts a question and fills in its generated ID and timestamps
func (r *QuestionRepository) Create(ctx context.Context, question *models.Question) error {
	if question.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("error generating question id: %w", err)
		}
		question.ID = id
	}

	err := r.db.QueryRow(ctx, `
		INSERT INTO questions (id, writer, title, content, course)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`, question.ID, question.Writer, question.Title, question.Content, question.CourseID).
		Scan(&question.CreatedAt, &question.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating question: %w", err)
	}
	return nil
}

// GetByID retrieves a question by ID
func (r *QuestionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Question, error) {
	sqlStr, args, err := psql.Select(questionColumns...).From("questions q").Where(squirrel.Eq{"q.id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get question SQL")
		return nil, err
	}

	question, err := scanQuestion(r.db.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrQuestionNotFound
		}
		return nil, fmt.Errorf("error retrieving question: %w", err)
	}
	return question, nil
}

// ListByWriter returns every question whose writer identity equals writer, in no particular order
func (r *QuestionRepository) ListByWriter(ctx context.Context, writer string) ([]*models.Question, error) {
	sqlStr, args, err := psql.Select(questionColumns...).From("questions q").Where(squirrel.Eq{"q.writer": writer}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list questions by writer SQL")
		return nil, err
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing questions by writer: %w", err)
	}
	defer rows.Close()

	questions := make([]*models.Question, 0)
	for rows.Next() {
		question, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning question: %w", err)
		}
		questions = append(questions, question)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return questions, nil
}

// browseQueries builds the page and count statements of a scope listing.
// Both share the joins and the filter; only the page is ordered and sliced.
func browseQueries(scope models.ScopeType, name string, offset, limit uint64) (page, count squirrel.SelectBuilder, err error) {
	var filter squirrel.Eq
	switch scope {
	case models.ScopeDepartment:
		filter = squirrel.Eq{"d.name": name}
	case models.ScopeCourse:
		filter = squirrel.Eq{"c.name": name}
	default:
		return page, count, apperrors.ErrInvalidScope
	}

	joined := func(b squirrel.SelectBuilder) squirrel.SelectBuilder {
		return b.From("questions q").
			LeftJoin("courses c ON c.id = q.course").
			LeftJoin("departments d ON d.id = c.parent").
			Where(filter)
	}

	columns := append(append([]string{}, questionColumns...), "c.id", "c.name", "c.parent", "d.id", "d.name")
	page = joined(psql.Select(columns...)).
		OrderBy("q.created_at DESC", "q.id DESC").
		Offset(offset).
		Limit(limit)
	count = joined(psql.Select("count(*)"))

	return page, count, nil
}

// BrowseByScope returns one page of joined questions for a department or course name, latest first,
// together with the number of questions matching the scope. Page and count run concurrently.
func (r *QuestionRepository) BrowseByScope(ctx context.Context, scope models.ScopeType, name string, offset, limit uint64) ([]*models.QuestionView, int, error) {
	pageBuilder, countBuilder, err := browseQueries(scope, name, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	pageSQL, pageArgs, err := pageBuilder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building browse page SQL")
		return nil, 0, err
	}
	countSQL, countArgs, err := countBuilder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building browse count SQL")
		return nil, 0, err
	}

	var (
		items []*models.QuestionView
		total int64
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := r.db.Query(gctx, pageSQL, pageArgs...)
		if err != nil {
			return fmt.Errorf("error browsing questions: %w", err)
		}
		defer rows.Close()

		page := make([]*models.QuestionView, 0, limit)
		for rows.Next() {
			view, err := scanQuestionView(rows)
			if err != nil {
				return fmt.Errorf("error scanning question view: %w", err)
			}
			page = append(page, view)
		}
		if err := rows.Err(); err != nil {
			return err
		}
		items = page
		return nil
	})

	g.Go(func() error {
		if err := r.db.QueryRow(gctx, countSQL, countArgs...).Scan(&total); err != nil {
			return fmt.Errorf("error counting questions: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	return items, int(total), nil
}

func scanQuestion(row pgx.Row) (*models.Question, error) {
	var q models.Question
	if err := row.Scan(&q.ID, &q.Writer, &q.Title, &q.Content, &q.CourseID, &q.CreatedAt, &q.UpdatedAt); err != nil {
		return nil, err
	}
	return &q, nil
}

// scanQuestionView scans a question row followed by its LEFT JOINed course and department columns
func scanQuestionView(row pgx.Row) (*models.QuestionView, error) {
	var (
		view         models.QuestionView
		courseID     *uuid.UUID
		courseName   *string
		courseParent *uuid.UUID
		deptID       *uuid.UUID
		deptName     *string
	)
	err := row.Scan(
		&view.ID, &view.Writer, &view.Title, &view.Content, &view.CourseID, &view.CreatedAt, &view.UpdatedAt,
		&courseID, &courseName, &courseParent, &deptID, &deptName,
	)
	if err != nil {
		return nil, err
	}

	if courseID != nil {
		course := &models.CourseView{
			Course: models.Course{ID: *courseID, ParentID: courseParent},
			Parent: joinedDepartment(deptID, deptName),
		}
		if courseName != nil {
			course.Name = *courseName
		}
		view.Course = course
	}

	return &view, nil
}
