package seed

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/qnaboard/internal/app/models"
	appRepos "github.com/yigit/qnaboard/internal/app/repositories"
	"github.com/yigit/qnaboard/internal/pkg/apperrors"
)

// Catalog maps department names to the names of their courses
type Catalog map[string][]string

// DefaultCatalog is created on start-up when seeding is enabled
var DefaultCatalog = Catalog{
	"Computer Science": {"Data/Structures", "Algorithms", "Operating Systems", "Databases"},
	"Mathematics":      {"Linear Algebra", "Calculus I", "Probability"},
	"Physics":          {"Classical Mechanics", "Electromagnetism"},
}

// CreateDefaultData creates the departments and courses of catalog that don't exist yet.
// Errors are collected so one failing entry does not stop the rest.
func CreateDefaultData(ctx context.Context, repos *appRepos.Repositories, catalog Catalog, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (Departments/Courses)...")
	var finalErr error

	for deptName, courses := range catalog {
		dept, err := ensureDepartment(ctx, repos.DepartmentRepository, deptName)
		if err != nil {
			lgr.Error().Err(err).Str("department", deptName).Msg("Error creating department")
			finalErr = errors.Join(finalErr, err)
			continue
		}

		existing, err := repos.CourseRepository.ListViews(ctx, &dept.Name)
		if err != nil {
			lgr.Error().Err(err).Str("department", deptName).Msg("Error listing courses")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		have := make(map[string]bool, len(existing))
		for _, c := range existing {
			have[c.Name] = true
		}

		for _, courseName := range courses {
			if have[courseName] {
				continue
			}
			parentID := dept.ID
			course := &appModels.Course{Name: courseName, ParentID: &parentID}
			if err := repos.CourseRepository.Create(ctx, course); err != nil {
				lgr.Error().Err(err).Str("course", courseName).Msg("Error creating course")
				finalErr = errors.Join(finalErr, err)
				continue
			}
			lgr.Debug().Str("course", courseName).Str("department", deptName).Msg("Course created")
		}
	}

	if finalErr == nil {
		lgr.Info().Msg("Default data check/creation completed.")
	}
	return finalErr
}

func ensureDepartment(ctx context.Context, repo appRepos.IDepartmentRepository, name string) (*appModels.Department, error) {
	dept, err := repo.GetByName(ctx, name)
	if err == nil {
		return dept, nil
	}
	if !errors.Is(err, apperrors.ErrResourceNotFound) {
		return nil, err
	}

	dept = &appModels.Department{Name: name}
	if err := repo.Create(ctx, dept); err != nil {
		// Another instance created it first
		if errors.Is(err, apperrors.ErrResourceAlreadyExists) {
			return repo.GetByName(ctx, name)
		}
		return nil, err
	}
	return dept, nil
}
