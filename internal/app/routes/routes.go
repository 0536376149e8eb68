// Package routes holds the HTTP route table.
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/mentorhub/internal/app/controllers"
	"github.com/yigit/mentorhub/internal/app/models"
	"github.com/yigit/mentorhub/internal/middleware"
)

// Handlers groups the controllers mounted under /api/v1
type Handlers struct {
	Auth          *controllers.AuthController
	Requests      *controllers.RequestController
	Mentorship    *controllers.MentorshipController
	Meetings      *controllers.MeetingController
	Reports       *controllers.ReportController
	Dashboard     *controllers.DashboardController
	Records       *controllers.RecordController
	Notifications gin.HandlerFunc
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	v1 := router.Group("/api/v1")

	// Role sets. Account role HOD is listed explicitly because RoleRequired
	// matches roles exactly apart from the active-tenure rule for HOD.
	student := authMiddleware.RoleRequired(models.RoleStudent)
	staff := authMiddleware.RoleRequired(models.RoleFaculty, models.RoleHOD, models.RoleAdmin)
	heads := authMiddleware.RoleRequired(models.RoleHOD, models.RoleAdmin)

	// --- Public routes ---
	v1.POST("/auth/login", h.Auth.Login)

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	authenticated.GET("/auth/me", h.Auth.Me)
	authenticated.POST("/auth/change-password", h.Auth.ChangePassword)
	authenticated.GET("/dashboard/stats", h.Dashboard.Stats)
	if h.Notifications != nil {
		authenticated.GET("/notifications/ws", h.Notifications)
	}

	requests := authenticated.Group("/requests")
	{
		requests.POST("", student, h.Requests.Submit)
		requests.GET("/mine", student, h.Requests.ListMine)
		requests.GET("/assigned", staff, h.Requests.ListAssigned)
		requests.GET("/:id", h.Requests.Get)
		requests.POST("/:id/approve", staff, h.Requests.Approve)
		requests.POST("/:id/reject", staff, h.Requests.Reject)
		requests.POST("/:id/cancel", student, h.Requests.Cancel)
	}

	mentor := authenticated.Group("/mentor")
	{
		mentor.POST("/assign", heads, h.Mentorship.Assign)
		mentor.POST("/reset", heads, h.Mentorship.Reset)
		mentor.GET("/unassigned", heads, h.Mentorship.Unassigned)
		mentor.GET("/group", staff, h.Mentorship.Group)
		mentor.GET("/mine", student, h.Mentorship.Mine)
	}

	meetings := authenticated.Group("/meetings")
	{
		meetings.POST("/schedule-group", staff, h.Meetings.ScheduleGroup)
		meetings.POST("/:id/update", staff, h.Meetings.Update)
		meetings.POST("/:id/complete", staff, h.Meetings.Complete)
		meetings.POST("/:id/cancel", staff, h.Meetings.Cancel)
		meetings.GET("/mine", student, h.Meetings.Mine)
	}

	authenticated.POST("/reports/mentorship", staff, h.Reports.GenerateMentorship)

	// RecordService scopes these to the caller
	authenticated.GET("/records/internships", h.Records.Internships)
	authenticated.GET("/records/projects", h.Records.Projects)
}
