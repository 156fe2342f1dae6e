package dto

import "github.com/yigit/qnaboard/internal/app/models"

// DepartmentListResponse lists every department
type DepartmentListResponse struct {
	Departments []*models.Department `json:"departments"`
}

// CourseListResponse lists courses with their department embedded
type CourseListResponse struct {
	Courses []*models.CourseView `json:"courses"`
}
