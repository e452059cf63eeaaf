package api

import (
	"coachdesk/internal/domain"
	"coachdesk/internal/schedule"
	"coachdesk/internal/service"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SchedulingHandler serves slot listings and lesson bookings.
type SchedulingHandler struct {
	schedulingService service.SchedulingService
	defaultZone       *time.Location
}

// NewSchedulingHandler creates a new SchedulingHandler. defaultZone applies
// when the request carries no X-Timezone header.
func NewSchedulingHandler(schedulingService service.SchedulingService, defaultZone *time.Location) *SchedulingHandler {
	if defaultZone == nil {
		defaultZone = time.UTC
	}
	return &SchedulingHandler{
		schedulingService: schedulingService,
		defaultZone:       defaultZone,
	}
}

// --- DTOs ---

type RecurrenceDTO struct {
	Pattern     string    `json:"pattern" binding:"required,oneof=weekly biweekly triweekly monthly"`
	Interval    int       `json:"interval"`
	EndDate     time.Time `json:"endDate" binding:"required"`
	WorkingDays []string  `json:"workingDays"`
}

// BookLessonRequest books a single lesson, or a whole series when
// Recurrence is present. Date is the RFC3339 start instant.
type BookLessonRequest struct {
	CoachID    string         `json:"coachId" binding:"required"`
	ClientID   string         `json:"clientId"`
	Date       time.Time      `json:"date" binding:"required"`
	Title      string         `json:"title"`
	Recurrence *RecurrenceDTO `json:"recurrence,omitempty"`
}

type PreviewRecurrenceRequest struct {
	Date       time.Time     `json:"date" binding:"required"`
	Recurrence RecurrenceDTO `json:"recurrence" binding:"required"`
}

type CoachSlotsResponse struct {
	Date    string               `json:"date"`
	Coaches []service.CoachSlots `json:"coaches"`
}

// --- Handler Methods ---

// GetCoachSlots returns the bookable slot grid for one coach and date.
// Booked slots are omitted.
func (h *SchedulingHandler) GetCoachSlots(c *gin.Context) {
	coachID, err := primitive.ObjectIDFromHex(c.Param("coachId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid coach ID format.")
		return
	}

	zone, ok := h.viewerZone(c)
	if !ok {
		return
	}
	date, ok := h.parseDate(c, zone)
	if !ok {
		return
	}

	slots, err := h.schedulingService.ListSlots(c.Request.Context(), coachID, date, zone, time.Now())
	if err != nil {
		if errors.Is(err, service.ErrCoachNotFound) || errors.Is(err, service.ErrNotCoach) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to list slots.")
		}
		return
	}
	if slots == nil {
		slots = []schedule.Slot{}
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  date.Format("2006-01-02"),
		"slots": slots,
	})
}

// GetOrganizationSlots returns one slot grid per coach in the organization.
// Booked slots stay visible, disabled.
func (h *SchedulingHandler) GetOrganizationSlots(c *gin.Context) {
	orgID, err := primitive.ObjectIDFromHex(c.Param("orgId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid organization ID format.")
		return
	}

	zone, ok := h.viewerZone(c)
	if !ok {
		return
	}
	date, ok := h.parseDate(c, zone)
	if !ok {
		return
	}

	grids, err := h.schedulingService.ListOrganizationSlots(c.Request.Context(), orgID, date, zone, time.Now())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list organization slots.")
		return
	}

	c.JSON(http.StatusOK, CoachSlotsResponse{
		Date:    date.Format("2006-01-02"),
		Coaches: grids,
	})
}

// PreviewRecurrence expands a recurring request without booking, for the
// confirmation dialog.
func (h *SchedulingHandler) PreviewRecurrence(c *gin.Context) {
	var req PreviewRecurrenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	zone, ok := h.viewerZone(c)
	if !ok {
		return
	}

	preview, err := h.schedulingService.PreviewRecurrence(service.RecurringBookingRequest{
		BookingRequest: service.BookingRequest{Date: req.Date},
		Pattern:        schedule.Pattern(req.Recurrence.Pattern),
		Interval:       req.Recurrence.Interval,
		EndDate:        req.Recurrence.EndDate,
		WorkingDays:    req.Recurrence.WorkingDays,
	}, zone)
	if err != nil {
		if errors.Is(err, schedule.ErrRecurrenceBoundsExceeded) || errors.Is(err, schedule.ErrMissingEndDate) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to expand recurrence.")
		}
		return
	}

	c.JSON(http.StatusOK, preview)
}

// BookLesson books a single lesson or, when the request carries a
// recurrence, a whole series. Clients always book for themselves; coaches
// name the client in the body.
func (h *SchedulingHandler) BookLesson(c *gin.Context) {
	var req BookLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	coachID, err := primitive.ObjectIDFromHex(req.CoachID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid coach ID format.")
		return
	}
	clientID, ok := h.resolveClientID(c, req.ClientID)
	if !ok {
		return
	}

	booking := service.BookingRequest{
		CoachID:  coachID,
		ClientID: clientID,
		Date:     req.Date,
		Title:    req.Title,
	}

	if req.Recurrence == nil {
		lesson, err := h.schedulingService.BookLesson(c.Request.Context(), booking)
		if err != nil {
			if errors.Is(err, service.ErrBookingConflict) {
				abortWithError(c, http.StatusConflict, err.Error())
			} else {
				abortWithError(c, http.StatusInternalServerError, "Failed to book lesson.")
			}
			return
		}
		c.JSON(http.StatusCreated, lesson)
		return
	}

	result, err := h.schedulingService.BookRecurring(c.Request.Context(), service.RecurringBookingRequest{
		BookingRequest: booking,
		Pattern:        schedule.Pattern(req.Recurrence.Pattern),
		Interval:       req.Recurrence.Interval,
		EndDate:        req.Recurrence.EndDate,
		WorkingDays:    req.Recurrence.WorkingDays,
	})
	if err != nil {
		if errors.Is(err, schedule.ErrRecurrenceBoundsExceeded) || errors.Is(err, schedule.ErrMissingEndDate) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to book recurring lessons.")
		}
		return
	}
	// 201 even with partial failures; the body carries both counts.
	c.JSON(http.StatusCreated, result)
}

// ListLessons returns the caller's lessons for one month. Coaches see
// lessons they teach, clients see lessons they attend.
func (h *SchedulingHandler) ListLessons(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	role, err := getUserRoleFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user role from token.")
		return
	}

	zone, ok := h.viewerZone(c)
	if !ok {
		return
	}

	monthStr := c.Query("month")
	if monthStr == "" {
		monthStr = time.Now().In(zone).Format("2006-01")
	}
	from, err := time.ParseInLocation("2006-01", monthStr, zone)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid month format, expected YYYY-MM.")
		return
	}
	to := from.AddDate(0, 1, 0)

	var lessons []domain.Lesson
	if role == domain.RoleCoach {
		lessons, err = h.schedulingService.ListLessonsForCoach(c.Request.Context(), userID, from, to)
	} else {
		lessons, err = h.schedulingService.ListLessonsForClient(c.Request.Context(), userID, from, to)
	}
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list lessons.")
		return
	}
	if lessons == nil {
		lessons = []domain.Lesson{}
	}

	c.JSON(http.StatusOK, lessons)
}

// CancelLesson removes a lesson owned by the authenticated coach.
func (h *SchedulingHandler) CancelLesson(c *gin.Context) {
	lessonID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid lesson ID format.")
		return
	}
	coachID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify coach from token.")
		return
	}

	if err := h.schedulingService.CancelLesson(c.Request.Context(), coachID, lessonID); err != nil {
		if errors.Is(err, service.ErrLessonNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to cancel lesson.")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "lesson cancelled"})
}

// --- Helpers ---

// viewerZone resolves the viewer's timezone from the X-Timezone header,
// falling back to the configured default. An unknown zone aborts with 400.
func (h *SchedulingHandler) viewerZone(c *gin.Context) (*time.Location, bool) {
	name := c.GetHeader("X-Timezone")
	if name == "" {
		return h.defaultZone, true
	}
	zone, err := time.LoadLocation(name)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Unknown timezone: "+name)
		return nil, false
	}
	return zone, true
}

// parseDate reads the "date" query parameter as a calendar date in the
// viewer's zone, defaulting to today.
func (h *SchedulingHandler) parseDate(c *gin.Context, zone *time.Location) (time.Time, bool) {
	dateStr := c.Query("date")
	if dateStr == "" {
		now := time.Now().In(zone)
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, zone), true
	}
	date, err := time.ParseInLocation("2006-01-02", dateStr, zone)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid date format, expected YYYY-MM-DD.")
		return time.Time{}, false
	}
	return date, true
}

// resolveClientID decides whose lesson is being booked: clients always book
// for themselves, coaches must name the client.
func (h *SchedulingHandler) resolveClientID(c *gin.Context, requested string) (primitive.ObjectID, bool) {
	role, err := getUserRoleFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user role from token.")
		return primitive.NilObjectID, false
	}

	if role == domain.RoleClient {
		id, err := getUserIDFromContext(c)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
			return primitive.NilObjectID, false
		}
		return id, true
	}

	if requested == "" {
		abortWithError(c, http.StatusBadRequest, "clientId is required.")
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(requested)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid client ID format.")
		return primitive.NilObjectID, false
	}
	return id, true
}
