package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/yigit/courseplanner/internal/app/controllers"
	"github.com/yigit/courseplanner/internal/pkg/websocket"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	catalogController *controllers.CatalogController,
	offeringController *controllers.OfferingController,
	historyController *controllers.HistoryController,
	healthController *controllers.HealthController,
	wsHandler *websocket.Handler,
) {
	// API version group
	v1 := router.Group("/api/v1")

	v1.GET("/health", healthController.Health)

	// Aggregated catalog
	departments := v1.Group("/departments")
	{
		departments.GET("", catalogController.GetDepartments)
		departments.GET("/:deptId/courses", catalogController.GetCourses)
		departments.GET("/:deptId/courses/:courseId/offerings", catalogController.GetOfferings)
		departments.GET("/:deptId/courses/:courseId/offerings/:offeringId", catalogController.GetOfferingSections)
		departments.GET("/:deptId/courses/:courseId/load", catalogController.GetCourseLoad)
		departments.GET("/:deptId/students-per-semester", catalogController.GetStudentsPerSemester)
	}

	offerings := v1.Group("/offerings")
	{
		offerings.POST("", catalogController.AddOffering)
		offerings.GET("/live", offeringController.GetLiveOfferings)
	}

	v1.GET("/dump", catalogController.Dump)
	v1.POST("/catalog/reload", catalogController.Reload)

	// Feed-backed history
	v1.GET("/history", historyController.GetEnrollmentHistory)
	v1.GET("/grades", historyController.GetGrades)

	// Change notifications
	v1.GET("/events/:dept/:number", catalogController.GetEvents)
	if wsHandler != nil {
		v1.GET("/watch/:dept/:number", wsHandler.HandleConnection)
	}
}
