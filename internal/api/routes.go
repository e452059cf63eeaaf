package api

import (
	"coachdesk/internal/domain"
	"coachdesk/internal/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	defaultZone *time.Location,
	authService service.AuthService,
	coachService service.CoachService,
	schedulingService service.SchedulingService,
	blockedTimeService service.BlockedTimeService,
	programService service.ProgramService,
) {
	authHandler := NewAuthHandler(authService)
	coachHandler := NewCoachHandler(coachService)
	schedulingHandler := NewSchedulingHandler(schedulingService, defaultZone)
	blockedTimeHandler := NewBlockedTimeHandler(blockedTimeService)
	programHandler := NewProgramHandler(programService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userID, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userID.Hex(), "role": role})
		})

		// --- Coach Routes ---
		// Roster, working hours, blocked times and programs all require the
		// coach role.
		coachGroup := protected.Group("/coach")
		coachGroup.Use(RoleMiddleware(domain.RoleCoach))
		{
			coachGroup.POST("/clients", coachHandler.AddClientByEmail)
			coachGroup.GET("/clients", coachHandler.GetManagedClients)

			coachGroup.GET("/working-hours", coachHandler.GetWorkingHours)
			coachGroup.PUT("/working-hours", coachHandler.UpdateWorkingHours)
			coachGroup.PUT("/working-hours/overrides", coachHandler.UpdateCustomWorkingHours)

			coachGroup.GET("/blocked-times", blockedTimeHandler.ListBlockedTimes)
			coachGroup.POST("/blocked-times", blockedTimeHandler.CreateBlockedTime)
			coachGroup.PUT("/blocked-times/:id", blockedTimeHandler.UpdateBlockedTime)
			coachGroup.DELETE("/blocked-times/:id", blockedTimeHandler.DeleteBlockedTime)

			coachGroup.GET("/programs", programHandler.GetPrograms)
			coachGroup.POST("/programs", programHandler.CreateProgram)
			coachGroup.PUT("/programs/:id", programHandler.UpdateProgram)
			coachGroup.DELETE("/programs/:id", programHandler.DeleteProgram)

			coachGroup.POST("/clients/:clientId/routines", programHandler.AssignProgram)
			coachGroup.GET("/clients/:clientId/routines", programHandler.GetClientRoutines)
			coachGroup.PUT("/routines/:routineId/deactivate", programHandler.DeactivateRoutine)
		}

		// --- Scheduling Routes ---
		// Slot listing and booking are open to both roles; the viewer's
		// timezone comes from the X-Timezone header.
		schedulingGroup := protected.Group("/scheduling")
		{
			schedulingGroup.GET("/coaches/:coachId/slots", schedulingHandler.GetCoachSlots)
			schedulingGroup.GET("/organizations/:orgId/slots", schedulingHandler.GetOrganizationSlots)
			schedulingGroup.POST("/recurrence/preview", schedulingHandler.PreviewRecurrence)
			schedulingGroup.POST("/lessons", schedulingHandler.BookLesson)
			schedulingGroup.GET("/lessons", schedulingHandler.ListLessons)
			schedulingGroup.DELETE("/lessons/:id", RoleMiddleware(domain.RoleCoach), schedulingHandler.CancelLesson)
		}
	}
}
