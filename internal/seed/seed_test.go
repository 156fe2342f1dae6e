package seed

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/qnaboard/internal/app/models"
	"github.com/yigit/qnaboard/internal/app/repositories/inmemory"
)

func TestCreateDefaultData_Idempotent(t *testing.T) {
	ctx := context.Background()
	repos := inmemory.NewStore().Repositories()

	require.NoError(t, CreateDefaultData(ctx, repos, DefaultCatalog, zerolog.Nop()))
	require.NoError(t, CreateDefaultData(ctx, repos, DefaultCatalog, zerolog.Nop()))

	departments, err := repos.DepartmentRepository.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, departments, len(DefaultCatalog))

	courses, err := repos.CourseRepository.ListViews(ctx, nil)
	require.NoError(t, err)
	want := 0
	for _, names := range DefaultCatalog {
		want += len(names)
	}
	assert.Len(t, courses, want)

	for _, c := range courses {
		require.NotNil(t, c.Parent, c.Name)
		assert.Contains(t, DefaultCatalog[c.Parent.Name], c.Name)
	}
}

func TestCreateDefaultData_ExtendsExisting(t *testing.T) {
	ctx := context.Background()
	repos := inmemory.NewStore().Repositories()

	dept := &models.Department{Name: "Mathematics"}
	require.NoError(t, repos.DepartmentRepository.Create(ctx, dept))
	require.NoError(t, repos.CourseRepository.Create(ctx, &models.Course{Name: "Topology", ParentID: &dept.ID}))

	require.NoError(t, CreateDefaultData(ctx, repos, Catalog{"Mathematics": {"Topology", "Calculus I"}}, zerolog.Nop()))

	name := "Mathematics"
	courses, err := repos.CourseRepository.ListViews(ctx, &name)
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, "Calculus I", courses[0].Name)
	assert.Equal(t, "Topology", courses[1].Name)
}
