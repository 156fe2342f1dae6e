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

// ICourseRepository defines the course operations the services depend on
type ICourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
	GetByName(ctx context.Context, name string) (*models.Course, error)
	ListViews(ctx context.Context, departmentName *string) ([]*models.CourseView, error)
}

// CourseRepository handles database operations for courses
type CourseRepository struct {
	db DBTX
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db DBTX) *CourseRepository {
	return &CourseRepository{db: db}
}

// Create inserts a course. A zero ID is replaced by a fresh time-ordered one.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("error generating course id: %w", err)
		}
		course.ID = id
	}

	_, err := r.db.Exec(ctx, `INSERT INTO courses (id, name, parent) VALUES ($1, $2, $3)`,
		course.ID, course.Name, course.ParentID)
	if err != nil {
		return fmt.Errorf("error creating course: %w", err)
	}
	return nil
}

// GetByID retrieves a course by ID
func (r *CourseRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	var course models.Course
	err := r.db.QueryRow(ctx, `SELECT id, name, parent FROM courses WHERE id = $1`, id).
		Scan(&course.ID, &course.Name, &course.ParentID)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}
	return &course, nil
}

// GetByName retrieves the oldest course with exactly this name
func (r *CourseRepository) GetByName(ctx context.Context, name string) (*models.Course, error) {
	var course models.Course
	err := r.db.QueryRow(ctx, `SELECT id, name, parent FROM courses WHERE name = $1 ORDER BY id LIMIT 1`, name).
		Scan(&course.ID, &course.Name, &course.ParentID)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error retrieving course by name: %w", err)
	}
	return &course, nil
}

// courseViewsQuery selects courses with their department joined, optionally for one department name
func courseViewsQuery(departmentName *string) squirrel.SelectBuilder {
	query := psql.Select("c.id", "c.name", "c.parent", "d.id", "d.name").
		From("courses c").
		LeftJoin("departments d ON d.id = c.parent").
		OrderBy("c.name", "c.id")
	if departmentName != nil {
		query = query.Where(squirrel.Eq{"d.name": *departmentName})
	}
	return query
}

// ListViews lists courses with the parent department embedded
func (r *CourseRepository) ListViews(ctx context.Context, departmentName *string) ([]*models.CourseView, error) {
	sqlStr, args, err := courseViewsQuery(departmentName).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list courses SQL")
		return nil, err
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}
	defer rows.Close()

	courses := make([]*models.CourseView, 0)
	for rows.Next() {
		view, err := scanCourseView(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, view)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return courses, nil
}

func scanCourseView(row pgx.Row) (*models.CourseView, error) {
	var (
		view     models.CourseView
		deptID   *uuid.UUID
		deptName *string
	)
	if err := row.Scan(&view.ID, &view.Name, &view.ParentID, &deptID, &deptName); err != nil {
		logger.Error().Err(err).Msg("Error scanning course view")
		return nil, err
	}
	view.Parent = joinedDepartment(deptID, deptName)
	return &view, nil
}

// joinedDepartment builds the embedded department of a LEFT JOIN row, nil when nothing matched
func joinedDepartment(id *uuid.UUID, name *string) *models.Department {
	if id == nil {
		return nil
	}
	department := &models.Department{ID: *id}
	if name != nil {
		department.Name = *name
	}
	return department
}
