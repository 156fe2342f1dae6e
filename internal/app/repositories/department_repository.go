package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/yigit/qnaboard/internal/app/models"
	"github.com/yigit/qnaboard/internal/pkg/apperrors"
	"github.com/yigit/qnaboard/internal/pkg/dberrors"
)

const departmentNameConstraint = "departments_name_key"

// IDepartmentRepository defines the department operations the services depend on
type IDepartmentRepository interface {
	Create(ctx context.Context, department *models.Department) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Department, error)
	GetByName(ctx context.Context, name string) (*models.Department, error)
	GetAll(ctx context.Context) ([]*models.Department, error)
}

// DepartmentRepository handles database operations for departments
type DepartmentRepository struct {
	db DBTX
}

// NewDepartmentRepository creates a new department repository
func NewDepartmentRepository(db DBTX) *DepartmentRepository {
	return &DepartmentRepository{
		db: db,
	}
}

// Create inserts a department. A zero ID is replaced by a fresh time-ordered one.
func (r *DepartmentRepository) Create(ctx context.Context, department *models.Department) error {
	if department.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("error generating department id: %w", err)
		}
		department.ID = id
	}

	_, err := r.db.Exec(ctx, `INSERT INTO departments (id, name) VALUES ($1, $2)`, department.ID, department.Name)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, departmentNameConstraint) {
			return apperrors.NewConflictError("department with this name already exists")
		}
		return fmt.Errorf("error creating department: %w", err)
	}

	return nil
}

// GetByID retrieves a department by ID
func (r *DepartmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Department, error) {
	var department models.Department
	err := r.db.QueryRow(ctx, `SELECT id, name FROM departments WHERE id = $1`, id).
		Scan(&department.ID, &department.Name)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("error retrieving department: %w", err)
	}

	return &department, nil
}

// GetByName retrieves a department by its unique name
func (r *DepartmentRepository) GetByName(ctx context.Context, name string) (*models.Department, error) {
	var department models.Department
	err := r.db.QueryRow(ctx, `SELECT id, name FROM departments WHERE name = $1`, name).
		Scan(&department.ID, &department.Name)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("error retrieving department by name: %w", err)
	}

	return &department, nil
}

// GetAll retrieves all departments ordered by name
func (r *DepartmentRepository) GetAll(ctx context.Context) ([]*models.Department, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM departments ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("error listing departments: %w", err)
	}
	defer rows.Close()

	departments := make([]*models.Department, 0)
	for rows.Next() {
		var department models.Department
		if err := rows.Scan(&department.ID, &department.Name); err != nil {
			return nil, fmt.Errorf("error scanning department: %w", err)
		}
		departments = append(departments, &department)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return departments, nil
}
