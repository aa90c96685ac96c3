package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yigit/courseplanner/internal/app/services"
	"github.com/yigit/courseplanner/internal/middleware"
)

// OfferingController serves live offerings from the course feed
type OfferingController struct {
	offeringService services.OfferingService
}

// NewOfferingController creates a new OfferingController
func NewOfferingController(offeringService services.OfferingService) *OfferingController {
	return &OfferingController{offeringService: offeringService}
}

// GetLiveOfferings fetches a course's sections for one semester
// @Summary Live offerings of a course
// @Description Fetches sections from the course feed; without a semester the enrolling semester is used
// @Tags offerings
// @Produce json
// @Param dept query string true "Department subject"
// @Param number query string true "Catalog number"
// @Param semester query int false "Semester code, e.g. 1257"
// @Success 200 {object} dto.APIResponse{data=models.BrowseResult} "Offerings retrieved successfully"
// @Failure 400 {object} dto.APIResponse "Invalid query"
// @Router /offerings/live [get]
func (c *OfferingController) GetLiveOfferings(ctx *gin.Context) {
	dept, number, valid := courseQuery(ctx)
	if !valid {
		return
	}

	code := 0
	if raw := ctx.Query("semester"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(ctx, "Invalid semester", "semester must be a number such as 1257")
			return
		}
		code = parsed
	}

	result, err := c.offeringService.LiveOfferings(ctx, dept, number, code)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, result)
}
