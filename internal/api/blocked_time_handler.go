package api

import (
	"coachdesk/internal/domain"
	"coachdesk/internal/service"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BlockedTimeHandler serves a coach's blocked-time ranges.
type BlockedTimeHandler struct {
	blockedTimeService service.BlockedTimeService
}

func NewBlockedTimeHandler(blockedTimeService service.BlockedTimeService) *BlockedTimeHandler {
	return &BlockedTimeHandler{blockedTimeService: blockedTimeService}
}

// --- DTOs ---

type BlockedTimeRequest struct {
	Title     string    `json:"title" binding:"required"`
	StartTime time.Time `json:"startTime" binding:"required"`
	EndTime   time.Time `json:"endTime" binding:"required"`
	IsAllDay  bool      `json:"isAllDay"`
}

// --- Handler Methods ---

// CreateBlockedTime adds a blocked range to the coach's calendar.
func (h *BlockedTimeHandler) CreateBlockedTime(c *gin.Context) {
	var req BlockedTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	coachID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify coach from token.")
		return
	}

	block, err := h.blockedTimeService.CreateBlockedTime(c.Request.Context(), coachID, req.Title, req.StartTime, req.EndTime, req.IsAllDay)
	if err != nil {
		if errors.Is(err, service.ErrInvalidBlockedTime) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to create blocked time.")
		}
		return
	}

	c.JSON(http.StatusCreated, block)
}

// ListBlockedTimes returns the coach's blocks overlapping a month.
func (h *BlockedTimeHandler) ListBlockedTimes(c *gin.Context) {
	coachID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify coach from token.")
		return
	}

	monthStr := c.Query("month")
	if monthStr == "" {
		monthStr = time.Now().UTC().Format("2006-01")
	}
	from, err := time.Parse("2006-01", monthStr)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid month format, expected YYYY-MM.")
		return
	}
	to := from.AddDate(0, 1, 0)

	blocks, err := h.blockedTimeService.ListBlockedTimes(c.Request.Context(), coachID, from, to)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list blocked times.")
		return
	}
	if blocks == nil {
		blocks = []domain.BlockedTime{}
	}
	c.JSON(http.StatusOK, blocks)
}

// UpdateBlockedTime replaces a block's fields.
func (h *BlockedTimeHandler) UpdateBlockedTime(c *gin.Context) {
	blockID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid blocked time ID format.")
		return
	}

	var req BlockedTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	coachID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify coach from token.")
		return
	}

	block, err := h.blockedTimeService.UpdateBlockedTime(c.Request.Context(), coachID, blockID, req.Title, req.StartTime, req.EndTime, req.IsAllDay)
	if err != nil {
		if errors.Is(err, service.ErrBlockedTimeNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else if errors.Is(err, service.ErrInvalidBlockedTime) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to update blocked time.")
		}
		return
	}

	c.JSON(http.StatusOK, block)
}

// DeleteBlockedTime removes a block from the coach's calendar.
func (h *BlockedTimeHandler) DeleteBlockedTime(c *gin.Context) {
	blockID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid blocked time ID format.")
		return
	}
	coachID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify coach from token.")
		return
	}

	if err := h.blockedTimeService.DeleteBlockedTime(c.Request.Context(), coachID, blockID); err != nil {
		if errors.Is(err, service.ErrBlockedTimeNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete blocked time.")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "blocked time deleted"})
}
