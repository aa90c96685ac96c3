package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/yigit/courseplanner/internal/app/services"
	"github.com/yigit/courseplanner/internal/middleware"
)

// HistoryController serves enrollment history and grade distributions
type HistoryController struct {
	historyService services.HistoryService
	gradeService   services.GradeService
}

// NewHistoryController creates a new HistoryController
func NewHistoryController(historyService services.HistoryService, gradeService services.GradeService) *HistoryController {
	return &HistoryController{
		historyService: historyService,
		gradeService:   gradeService,
	}
}

// GetEnrollmentHistory walks back from the enrolling semester
// @Summary Enrollment history of a course
// @Tags history
// @Produce json
// @Param dept query string true "Department subject"
// @Param number query string true "Catalog number"
// @Param range query string false "1yr, 3yr or 5yr" default(5yr)
// @Success 200 {object} dto.APIResponse{data=[]dto.EnrollmentPoint} "History retrieved successfully"
// @Failure 400 {object} dto.APIResponse "Invalid query"
// @Router /history [get]
func (c *HistoryController) GetEnrollmentHistory(ctx *gin.Context) {
	dept, number, valid := courseQuery(ctx)
	if !valid {
		return
	}

	points, err := c.historyService.EnrollmentHistory(ctx, dept, number, ctx.DefaultQuery("range", "5yr"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, points)
}

// GetGrades returns a course's grade distribution
// @Summary Grade distribution of a course
// @Tags history
// @Produce json
// @Param dept query string true "Department subject"
// @Param number query string true "Catalog number"
// @Success 200 {object} dto.APIResponse{data=models.CourseGrades} "Grades retrieved successfully"
// @Failure 404 {object} dto.APIResponse "No grades recorded"
// @Router /grades [get]
func (c *HistoryController) GetGrades(ctx *gin.Context) {
	dept, number, valid := courseQuery(ctx)
	if !valid {
		return
	}

	grades, err := c.gradeService.Grades(ctx, dept, number)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, grades)
}
