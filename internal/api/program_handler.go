package api

import (
	"coachdesk/internal/domain"
	"coachdesk/internal/service"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgramHandler serves a coach's program catalog and client routines.
type ProgramHandler struct {
	programService service.ProgramService
}

func NewProgramHandler(programService service.ProgramService) *ProgramHandler {
	return &ProgramHandler{programService: programService}
}

// --- DTOs ---

type ProgramRequest struct {
	Name          string `json:"name" binding:"required"`
	Description   string `json:"description"`
	DurationWeeks int    `json:"durationWeeks"`
}

type AssignProgramRequest struct {
	ProgramID string `json:"programId" binding:"required"`
	Notes     string `json:"notes"`
}

// --- Programs ---

// CreateProgram adds a catalog entry for the authenticated coach.
func (h *ProgramHandler) CreateProgram(c *gin.Context) {
	var req ProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	coachID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify coach from token.")
		return
	}

	program, err := h.programService.CreateProgram(c.Request.Context(), coachID, req.Name, req.Description, req.DurationWeeks)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to create program.")
		return
	}
	c.JSON(http.StatusCreated, program)
}

// GetPrograms lists the coach's catalog.
func (h *ProgramHandler) GetPrograms(c *gin.Context) {
	coachID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify coach from token.")
		return
	}

	programs, err := h.programService.GetCoachPrograms(c.Request.Context(), coachID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list programs.")
		return
	}
	if programs == nil {
		programs = []domain.Program{}
	}
	c.JSON(http.StatusOK, programs)
}

// UpdateProgram replaces a program's fields.
func (h *ProgramHandler) UpdateProgram(c *gin.Context) {
	programID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid program ID format.")
		return
	}

	var req ProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	coachID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify coach from token.")
		return
	}

	program, err := h.programService.UpdateProgram(c.Request.Context(), coachID, programID, req.Name, req.Description, req.DurationWeeks)
	if err != nil {
		if errors.Is(err, service.ErrProgramNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to update program.")
		}
		return
	}
	c.JSON(http.StatusOK, program)
}

// DeleteProgram removes a program from the coach's catalog.
func (h *ProgramHandler) DeleteProgram(c *gin.Context) {
	programID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid program ID format.")
		return
	}
	coachID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify coach from token.")
		return
	}

	if err := h.programService.DeleteProgram(c.Request.Context(), coachID, programID); err != nil {
		if errors.Is(err, service.ErrProgramNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete program.")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "program deleted"})
}

// --- Routines ---

// AssignProgram enrolls one of the coach's clients into a program.
func (h *ProgramHandler) AssignProgram(c *gin.Context) {
	clientID, err := primitive.ObjectIDFromHex(c.Param("clientId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid client ID format.")
		return
	}

	var req AssignProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	programID, err := primitive.ObjectIDFromHex(req.ProgramID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid program ID format.")
		return
	}

	coachID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify coach from token.")
		return
	}

	routine, err := h.programService.AssignProgram(c.Request.Context(), coachID, programID, clientID, req.Notes)
	if err != nil {
		if errors.Is(err, service.ErrProgramNotFound) || errors.Is(err, service.ErrClientNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to assign program.")
		}
		return
	}
	c.JSON(http.StatusCreated, routine)
}

// GetClientRoutines lists a client's routines, scoped to the coach.
func (h *ProgramHandler) GetClientRoutines(c *gin.Context) {
	clientID, err := primitive.ObjectIDFromHex(c.Param("clientId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid client ID format.")
		return
	}
	coachID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify coach from token.")
		return
	}

	routines, err := h.programService.GetClientRoutines(c.Request.Context(), coachID, clientID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list routines.")
		return
	}
	if routines == nil {
		routines = []domain.Routine{}
	}
	c.JSON(http.StatusOK, routines)
}

// DeactivateRoutine marks a routine inactive.
func (h *ProgramHandler) DeactivateRoutine(c *gin.Context) {
	routineID, err := primitive.ObjectIDFromHex(c.Param("routineId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid routine ID format.")
		return
	}
	coachID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify coach from token.")
		return
	}

	if err := h.programService.DeactivateRoutine(c.Request.Context(), coachID, routineID); err != nil {
		if errors.Is(err, service.ErrRoutineNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to deactivate routine.")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "routine deactivated"})
}
