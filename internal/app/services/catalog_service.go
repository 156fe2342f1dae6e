package services

import (
	"context"
	"strings"

	"github.com/yigit/qnaboard/internal/app/models"
	"github.com/yigit/qnaboard/internal/app/repositories"
	"github.com/yigit/qnaboard/internal/pkg/helpers"
)

// CatalogService lists departments and courses
type CatalogService struct {
	departmentRepo repositories.IDepartmentRepository
	courseRepo     repositories.ICourseRepository
}

// NewCatalogService creates a new catalog service instance
func NewCatalogService(departmentRepo repositories.IDepartmentRepository, courseRepo repositories.ICourseRepository) *CatalogService {
	return &CatalogService{
		departmentRepo: departmentRepo,
		courseRepo:     courseRepo,
	}
}

// ListDepartments returns every department ordered by name
func (s *CatalogService) ListDepartments(ctx context.Context) ([]*models.Department, error) {
	return s.departmentRepo.GetAll(ctx)
}

// ListCourses returns courses with their department embedded. A non-empty encodedDepartment
// ("!" standing for "/") limits the list to that department.
func (s *CatalogService) ListCourses(ctx context.Context, encodedDepartment string) ([]*models.CourseView, error) {
	var department *string
	if encodedDepartment = strings.TrimSpace(encodedDepartment); encodedDepartment != "" {
		name := helpers.DecodeScopeName(encodedDepartment)
		department = &name
	}
	return s.courseRepo.ListViews(ctx, department)
}
