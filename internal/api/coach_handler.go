package api

import (
	"coachdesk/internal/domain"
	"coachdesk/internal/service"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CoachHandler serves the coach's roster and working-hours configuration.
type CoachHandler struct {
	coachService service.CoachService
}

func NewCoachHandler(coachService service.CoachService) *CoachHandler {
	return &CoachHandler{coachService: coachService}
}

// --- DTOs ---

type AddClientRequest struct {
	ClientEmail string `json:"clientEmail" binding:"required,email"`
}

type WorkingHoursRequest struct {
	StartTime           string   `json:"startTime" binding:"required"`
	EndTime             string   `json:"endTime" binding:"required"`
	WorkingDays         []string `json:"workingDays" binding:"required"`
	SlotIntervalMinutes int      `json:"slotIntervalMinutes" binding:"required,min=5"`
}

type CustomDayOverrideRequest struct {
	Enabled   bool   `json:"enabled"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

type SchedulingProfileResponse struct {
	WorkingHours       *domain.WorkingHours                `json:"workingHours"`
	CustomWorkingHours map[string]domain.CustomDayOverride `json:"customWorkingHours,omitempty"`
}

// --- Client Management ---

// AddClientByEmail associates an existing client user with the
// authenticated coach.
func (h *CoachHandler) AddClientByEmail(c *gin.Context) {
	var req AddClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	coachID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify coach from token.")
		return
	}

	client, err := h.coachService.AddClientByEmail(c.Request.Context(), coachID, req.ClientEmail)
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else if errors.Is(err, service.ErrClientNotRole) || errors.Is(err, service.ErrClientAlreadyAssigned) {
			abortWithError(c, http.StatusForbidden, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to add client.")
		}
		return
	}

	c.JSON(http.StatusOK, MapUserToResponse(client))
}

// GetManagedClients lists the clients on the authenticated coach's roster.
func (h *CoachHandler) GetManagedClients(c *gin.Context) {
	coachID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify coach from token.")
		return
	}

	clients, err := h.coachService.GetManagedClients(c.Request.Context(), coachID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve managed clients.")
		return
	}

	resp := make([]UserResponse, 0, len(clients))
	for i := range clients {
		resp = append(resp, MapUserToResponse(&clients[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// --- Working Hours ---

// GetWorkingHours returns the coach's current scheduling configuration.
func (h *CoachHandler) GetWorkingHours(c *gin.Context) {
	coachID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify coach from token.")
		return
	}

	hours, overrides, err := h.coachService.GetSchedulingProfile(c.Request.Context(), coachID)
	if err != nil {
		if errors.Is(err, service.ErrCoachNotFound) || errors.Is(err, service.ErrNotCoach) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve working hours.")
		}
		return
	}

	c.JSON(http.StatusOK, SchedulingProfileResponse{
		WorkingHours:       hours,
		CustomWorkingHours: overrides,
	})
}

// UpdateWorkingHours saves the coach's global hours configuration.
func (h *CoachHandler) UpdateWorkingHours(c *gin.Context) {
	var req WorkingHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	coachID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify coach from token.")
		return
	}

	hours := domain.WorkingHours{
		StartTime:           req.StartTime,
		EndTime:             req.EndTime,
		WorkingDays:         req.WorkingDays,
		SlotIntervalMinutes: req.SlotIntervalMinutes,
	}
	if err := h.coachService.UpdateWorkingHours(c.Request.Context(), coachID, hours); err != nil {
		if errors.Is(err, service.ErrInvalidWorkingHours) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else if errors.Is(err, service.ErrCoachNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to update working hours.")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "working hours updated"})
}

// UpdateCustomWorkingHours saves per-weekday overrides. An empty map clears
// all overrides and returns the coach to their global hours.
func (h *CoachHandler) UpdateCustomWorkingHours(c *gin.Context) {
	var req map[string]CustomDayOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	coachID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify coach from token.")
		return
	}

	overrides := make(map[string]domain.CustomDayOverride, len(req))
	for day, o := range req {
		overrides[day] = domain.CustomDayOverride{
			Enabled:   o.Enabled,
			StartTime: o.StartTime,
			EndTime:   o.EndTime,
		}
	}
	if err := h.coachService.UpdateCustomWorkingHours(c.Request.Context(), coachID, overrides); err != nil {
		if errors.Is(err, service.ErrInvalidWorkingHours) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else if errors.Is(err, service.ErrCoachNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to update custom working hours.")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "custom working hours updated"})
}
