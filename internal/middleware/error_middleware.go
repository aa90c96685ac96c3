package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/yigit/courseplanner/internal/app/models/dto"
	"github.com/yigit/courseplanner/internal/pkg/apperrors"
)

// HandleAPIError handles common API errors and returns appropriate responses
func HandleAPIError(c *gin.Context, err error) {
	status, detail := errorDetailFor(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, dto.APIResponse{
		Error:     detail,
		Timestamp: time.Now(),
	})
}

func errorDetailFor(err error) (int, *dto.ErrorDetail) {
	var (
		custom  *apperrors.CustomError
		invalid validator.ValidationErrors
	)

	switch {
	case errors.Is(err, apperrors.ErrResourceNotFound):
		message := "Resource not found"
		if errors.As(err, &custom) {
			message = custom.Message
		}
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, message)

	case errors.Is(err, apperrors.ErrResourceAlreadyExists):
		return http.StatusConflict,
			dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, "Resource already exists").WithDetails(err.Error())

	case errors.Is(err, apperrors.ErrInvalidSemesterCode), errors.Is(err, apperrors.ErrInvalidYear):
		return http.StatusBadRequest,
			dto.NewErrorDetail(dto.ErrorCodeInvalidSemester, "Invalid semester").WithDetails(err.Error())

	case errors.Is(err, apperrors.ErrInvalidTerm):
		return http.StatusBadRequest,
			dto.NewErrorDetail(dto.ErrorCodeInvalidTerm, "Invalid term").WithDetails(err.Error())

	case errors.As(err, &invalid):
		return http.StatusBadRequest, dto.HandleValidationError(invalid)

	case errors.Is(err, apperrors.ErrValidationFailed), errors.Is(err, apperrors.ErrBadRequest):
		message := "Validation failed"
		if errors.As(err, &custom) {
			message = custom.Message
		}
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, message)

	case errors.Is(err, apperrors.ErrFeedUnavailable):
		return http.StatusBadGateway,
			dto.NewErrorDetail(dto.ErrorCodeExternalServiceError, "Course feed unavailable").WithSeverity(dto.ErrorSeverityWarning)

	default:
		return http.StatusInternalServerError,
			dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
	}
}
