package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yigit/courseplanner/internal/app/models/dto"
	"github.com/yigit/courseplanner/internal/app/services"
	"github.com/yigit/courseplanner/internal/middleware"
)

// CatalogController serves the aggregated course catalog
type CatalogController struct {
	catalogService services.CatalogService
}

// NewCatalogController creates a new CatalogController
func NewCatalogController(catalogService services.CatalogService) *CatalogController {
	return &CatalogController{
		catalogService: catalogService,
	}
}

// GetDepartments lists all departments
// @Summary List departments
// @Description Lists every department in the catalog ordered by name
// @Tags catalog
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.DepartmentResponse} "Departments retrieved successfully"
// @Router /departments [get]
func (c *CatalogController) GetDepartments(ctx *gin.Context) {
	ok(ctx, c.catalogService.Departments(ctx))
}

// GetCourses lists the courses of a department
// @Summary List courses of a department
// @Description Lists the courses of a department, one entry per catalog number
// @Tags catalog
// @Produce json
// @Param deptId path int true "Department ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.CourseResponse} "Courses retrieved successfully"
// @Failure 400 {object} dto.APIResponse "Invalid department ID"
// @Failure 404 {object} dto.APIResponse "Department not found"
// @Router /departments/{deptId}/courses [get]
func (c *CatalogController) GetCourses(ctx *gin.Context) {
	deptID, valid := idParam(ctx, "deptId", "department")
	if !valid {
		return
	}

	courses, err := c.catalogService.Courses(ctx, deptID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, courses)
}

// GetOfferings lists the grouped offerings of a course
// @Summary List offerings of a course
// @Description Lists offerings grouped by semester and location, oldest semester first
// @Tags catalog
// @Produce json
// @Param deptId path int true "Department ID"
// @Param courseId path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.OfferingResponse} "Offerings retrieved successfully"
// @Failure 404 {object} dto.APIResponse "Department or course not found"
// @Router /departments/{deptId}/courses/{courseId}/offerings [get]
func (c *CatalogController) GetOfferings(ctx *gin.Context) {
	deptID, valid := idParam(ctx, "deptId", "department")
	if !valid {
		return
	}
	courseID, valid := idParam(ctx, "courseId", "course")
	if !valid {
		return
	}

	offerings, err := c.catalogService.Offerings(ctx, deptID, courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, offerings)
}

// GetOfferingSections lists the sections of one offering
// @Summary List sections of an offering
// @Description Lists the summed sections of a grouped offering, one per component
// @Tags catalog
// @Produce json
// @Param deptId path int true "Department ID"
// @Param courseId path int true "Course ID"
// @Param offeringId path int true "Offering ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.SectionResponse} "Sections retrieved successfully"
// @Failure 404 {object} dto.APIResponse "Department, course or offering not found"
// @Router /departments/{deptId}/courses/{courseId}/offerings/{offeringId} [get]
func (c *CatalogController) GetOfferingSections(ctx *gin.Context) {
	deptID, valid := idParam(ctx, "deptId", "department")
	if !valid {
		return
	}
	courseID, valid := idParam(ctx, "courseId", "course")
	if !valid {
		return
	}
	offeringID, valid := idParam(ctx, "offeringId", "offering")
	if !valid {
		return
	}

	sections, err := c.catalogService.OfferingSections(ctx, deptID, courseID, offeringID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, sections)
}

// GetCourseLoad reports lecture load per semester
// @Summary Lecture load of a course
// @Description Lecture enrollment against capacity for each semester the course ran
// @Tags stats
// @Produce json
// @Param deptId path int true "Department ID"
// @Param courseId path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=[]catalog.LoadPoint} "Load retrieved successfully"
// @Failure 404 {object} dto.APIResponse "Department or course not found"
// @Router /departments/{deptId}/courses/{courseId}/load [get]
func (c *CatalogController) GetCourseLoad(ctx *gin.Context) {
	deptID, valid := idParam(ctx, "deptId", "department")
	if !valid {
		return
	}
	courseID, valid := idParam(ctx, "courseId", "course")
	if !valid {
		return
	}

	points, err := c.catalogService.CourseLoad(ctx, deptID, courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, points)
}

// GetStudentsPerSemester totals lecture enrollment per semester for a department
// @Summary Students per semester
// @Tags stats
// @Produce json
// @Param deptId path int true "Department ID"
// @Success 200 {object} dto.APIResponse{data=[]catalog.SemesterCount} "Counts retrieved successfully"
// @Failure 404 {object} dto.APIResponse "Department not found"
// @Router /departments/{deptId}/students-per-semester [get]
func (c *CatalogController) GetStudentsPerSemester(ctx *gin.Context) {
	deptID, valid := idParam(ctx, "deptId", "department")
	if !valid {
		return
	}

	counts, err := c.catalogService.StudentsPerSemester(ctx, deptID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, counts)
}

// AddOffering records one section observation
// @Summary Add a section to an offering
// @Description Adds enrollment for one section, creating the department, course and offering as needed
// @Tags catalog
// @Accept json
// @Produce json
// @Param request body dto.AddOfferingRequest true "Section observation"
// @Success 201 {object} dto.APIResponse{data=models.CatalogEvent} "Section added"
// @Failure 400 {object} dto.APIResponse "Invalid request data"
// @Failure 409 {object} dto.APIResponse "Key reused with different content"
// @Router /offerings [post]
func (c *CatalogController) AddOffering(ctx *gin.Context) {
	var req dto.AddOfferingRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	event, err := c.catalogService.AddOffering(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      event,
		Timestamp: time.Now(),
	})
}

// GetEvents lists recent changes to a course
// @Summary Recent catalog events of a course
// @Tags watch
// @Produce json
// @Param dept path string true "Department subject"
// @Param number path string true "Catalog number"
// @Success 200 {object} dto.APIResponse{data=[]models.CatalogEvent} "Events retrieved successfully"
// @Router /events/{dept}/{number} [get]
func (c *CatalogController) GetEvents(ctx *gin.Context) {
	ok(ctx, c.catalogService.Events(ctx, ctx.Param("dept"), ctx.Param("number")))
}

// Dump renders the whole catalog as text
// @Summary Text dump of the catalog
// @Tags catalog
// @Produce plain
// @Success 200 {string} string "Catalog dump"
// @Router /dump [get]
func (c *CatalogController) Dump(ctx *gin.Context) {
	ctx.String(http.StatusOK, c.catalogService.Dump(ctx))
}

// Reload rebuilds the catalog from persisted rows
// @Summary Reload the catalog
// @Tags catalog
// @Produce json
// @Success 200 {object} dto.APIResponse{data=catalog.LoadStats} "Catalog reloaded"
// @Failure 500 {object} dto.APIResponse "Load failed; the previous catalog is kept"
// @Router /catalog/reload [post]
func (c *CatalogController) Reload(ctx *gin.Context) {
	stats, err := c.catalogService.Load(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, stats)
}
