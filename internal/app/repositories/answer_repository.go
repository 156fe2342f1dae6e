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
)

var answerColumns = []string{"a.id", "a.writer", "a.content", "a.question", "a.recommended_by", "a.created_at", "a.updated_at"}

// IAnswerRepository defines the answer operations the services depend on
type IAnswerRepository interface {
	Create(ctx context.Context, answer *models.Answer) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Answer, error)
	ListByQuestionID(ctx context.Context, questionID uuid.UUID) ([]*models.Answer, error)
	ListByQuestionIDs(ctx context.Context, questionIDs []uuid.UUID) (map[uuid.UUID][]*models.Answer, error)
	ListByWriter(ctx context.Context, writer string) ([]*models.Answer, error)
	CountByQuestionIDs(ctx context.Context, questionIDs []uuid.UUID) (map[uuid.UUID]int, error)
	AppendRecommender(ctx context.Context, answerID, userID uuid.UUID) (bool, error)
	AddRecommenderIfAbsent(ctx context.Context, answerID, userID uuid.UUID) (bool, error)
}

// AnswerRepository handles database operations for answers
type AnswerRepository struct {
	db DBTX
}

// NewAnswerRepository creates a new answer repository
func NewAnswerRepository(db DBTX) *AnswerRepository {
	return &AnswerRepository{db: db}
}

// Create inserts an answer with an empty recommender set
func (r *AnswerRepository) Create(ctx context.Context, answer *models.Answer) error {
	if answer.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("error generating answer id: %w", err)
		}
		answer.ID = id
	}
	answer.RecommendedBy = models.Recommenders{}

	err := r.db.QueryRow(ctx, `
		INSERT INTO answers (id, writer, content, question)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`, answer.ID, answer.Writer, answer.Content, answer.QuestionID).
		Scan(&answer.CreatedAt, &answer.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating answer: %w", err)
	}
	return nil
}

// GetByID retrieves an answer by ID
func (r *AnswerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Answer, error) {
	sqlStr, args, err := psql.Select(answerColumns...).From("answers a").Where(squirrel.Eq{"a.id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get answer SQL")
		return nil, err
	}

	answer, err := scanAnswer(r.db.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrAnswerNotFound
		}
		return nil, fmt.Errorf("error retrieving answer: %w", err)
	}
	return answer, nil
}

// ListByQuestionID returns the answers of one question, oldest first
func (r *AnswerRepository) ListByQuestionID(ctx context.Context, questionID uuid.UUID) ([]*models.Answer, error) {
	query := psql.Select(answerColumns...).From("answers a").
		Where(squirrel.Eq{"a.question": questionID}).
		OrderBy("a.created_at ASC", "a.id ASC")
	return r.list(ctx, query)
}

// ListByQuestionIDs returns the answers of several questions grouped by question, each group oldest first.
// Questions without answers are absent from the map.
func (r *AnswerRepository) ListByQuestionIDs(ctx context.Context, questionIDs []uuid.UUID) (map[uuid.UUID][]*models.Answer, error) {
	grouped := make(map[uuid.UUID][]*models.Answer, len(questionIDs))
	if len(questionIDs) == 0 {
		return grouped, nil
	}

	query := psql.Select(answerColumns...).From("answers a").
		Where("a.question = ANY(?)", questionIDs).
		OrderBy("a.created_at ASC", "a.id ASC")
	answers, err := r.list(ctx, query)
	if err != nil {
		return nil, err
	}

	for _, answer := range answers {
		if answer.QuestionID == nil {
			continue
		}
		grouped[*answer.QuestionID] = append(grouped[*answer.QuestionID], answer)
	}
	return grouped, nil
}

// ListByWriter returns every answer whose writer identity equals writer, in no particular order
func (r *AnswerRepository) ListByWriter(ctx context.Context, writer string) ([]*models.Answer, error) {
	return r.list(ctx, psql.Select(answerColumns...).From("answers a").Where(squirrel.Eq{"a.writer": writer}))
}

// countByQuestionQuery counts answers per question. The inner join drops answers whose
// question reference does not resolve, so they never contribute to a count.
func countByQuestionQuery(questionIDs []uuid.UUID) squirrel.SelectBuilder {
	return psql.Select("a.question", "count(*)").
		From("answers a").
		Join("questions q ON q.id = a.question").
		Where("a.question = ANY(?)", questionIDs).
		GroupBy("a.question")
}

// CountByQuestionIDs returns the number of answers per question id. Every requested id is present, zero included.
func (r *AnswerRepository) CountByQuestionIDs(ctx context.Context, questionIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	counts := make(map[uuid.UUID]int, len(questionIDs))
	if len(questionIDs) == 0 {
		return counts, nil
	}
	for _, id := range questionIDs {
		counts[id] = 0
	}

	sqlStr, args, err := countByQuestionQuery(questionIDs).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building answer count SQL")
		return nil, err
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("error counting answers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			questionID uuid.UUID
			count      int64
		)
		if err := rows.Scan(&questionID, &count); err != nil {
			return nil, fmt.Errorf("error scanning answer count: %w", err)
		}
		counts[questionID] = int(count)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

// appendRecommenderQuery appends userID to an answer's recommender list. With onlyIfAbsent the
// membership check is part of the same statement, so concurrent calls by one user add it once.
func appendRecommenderQuery(answerID, userID uuid.UUID, onlyIfAbsent bool) squirrel.UpdateBuilder {
	query := psql.Update("answers").
		Set("recommended_by", squirrel.Expr("array_append(recommended_by, ?)", userID)).
		Set("updated_at", squirrel.Expr("now()")).
		Where("id = ?", answerID)
	if onlyIfAbsent {
		query = query.Where("NOT (? = ANY(recommended_by))", userID)
	}
	return query
}

// AppendRecommender appends userID to the recommender list unconditionally.
// Returns false when the answer does not exist.
func (r *AnswerRepository) AppendRecommender(ctx context.Context, answerID, userID uuid.UUID) (bool, error) {
	return r.updateRecommenders(ctx, appendRecommenderQuery(answerID, userID, false))
}

// AddRecommenderIfAbsent adds userID in a single conditional update.
// Returns false when the user was already present or the answer is gone.
func (r *AnswerRepository) AddRecommenderIfAbsent(ctx context.Context, answerID, userID uuid.UUID) (bool, error) {
	return r.updateRecommenders(ctx, appendRecommenderQuery(answerID, userID, true))
}

func (r *AnswerRepository) updateRecommenders(ctx context.Context, query squirrel.UpdateBuilder) (bool, error) {
	sqlStr, args, err := query.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building recommender update SQL")
		return false, err
	}

	tag, err := r.db.Exec(ctx, sqlStr, args...)
	if err != nil {
		return false, fmt.Errorf("error updating recommenders: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *AnswerRepository) list(ctx context.Context, query squirrel.SelectBuilder) ([]*models.Answer, error) {
	sqlStr, args, err := query.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list answers SQL")
		return nil, err
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing answers: %w", err)
	}
	defer rows.Close()

	answers := make([]*models.Answer, 0)
	for rows.Next() {
		answer, err := scanAnswer(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning answer: %w", err)
		}
		answers = append(answers, answer)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return answers, nil
}

func scanAnswer(row pgx.Row) (*models.Answer, error) {
	var (
		a             models.Answer
		recommendedBy []uuid.UUID
	)
	if err := row.Scan(&a.ID, &a.Writer, &a.Content, &a.QuestionID, &recommendedBy, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.RecommendedBy = models.Recommenders(recommendedBy)
	return &a, nil
}
