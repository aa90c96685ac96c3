package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yigit/courseplanner/internal/app/models/dto"
)

// BindJSON decodes the request body into obj, writing a 400 response on failure.
// Field validation is left to the services.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, dto.APIResponse{
			Error:     dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format").WithDetails(err.Error()),
			Timestamp: time.Now(),
		})
		return false
	}
	return true
}
