package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yigit/courseplanner/internal/app/models/dto"
)

// idParam parses a positive path id, writing a 400 response on failure
func idParam(ctx *gin.Context, name, label string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequest(ctx, "Invalid "+label+" ID", label+" ID must be a positive number")
		return 0, false
	}
	return id, true
}

// courseQuery reads the required dept and number query parameters
func courseQuery(ctx *gin.Context) (string, string, bool) {
	dept := strings.TrimSpace(ctx.Query("dept"))
	number := strings.TrimSpace(ctx.Query("number"))
	if dept == "" || number == "" {
		badRequest(ctx, "Missing course", "dept and number query parameters are required")
		return "", "", false
	}
	return dept, number, true
}

func badRequest(ctx *gin.Context, message, details string) {
	ctx.JSON(http.StatusBadRequest, dto.APIResponse{
		Error:     dto.NewErrorDetail(dto.ErrorCodeValidationFailed, message).WithDetails(details),
		Timestamp: time.Now(),
	})
}

func ok(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}
