package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/qnaboard/internal/app/models/dto"
	"github.com/yigit/qnaboard/internal/app/services"
	"github.com/yigit/qnaboard/internal/middleware"
)

// CatalogController handles department and course listings
type CatalogController struct {
	catalogService *services.CatalogService
}

// NewCatalogController creates a new CatalogController
func NewCatalogController(catalogService *services.CatalogService) *CatalogController {
	return &CatalogController{
		catalogService: catalogService,
	}
}

// GetAllDepartments retrieves all departments
// @Summary Get all departments
// @Description Retrieves a list of all departments ordered by name
// @Tags catalog
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.DepartmentListResponse} "Departments retrieved successfully"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /departments [get]
func (c *CatalogController) GetAllDepartments(ctx *gin.Context) {
	departments, err := c.catalogService.ListDepartments(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.DepartmentListResponse{Departments: departments}))
}

// GetCourses retrieves courses, optionally for one department
// @Summary List courses
// @Description Courses with their department embedded. The department filter uses "!" for "/".
// @Tags catalog
// @Produce json
// @Param department query string false "Department name"
// @Success 200 {object} dto.APIResponse{data=dto.CourseListResponse} "Courses retrieved successfully"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses [get]
func (c *CatalogController) GetCourses(ctx *gin.Context) {
	courses, err := c.catalogService.ListCourses(ctx.Request.Context(), ctx.Query("department"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.CourseListResponse{Courses: courses}))
}
