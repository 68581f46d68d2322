package handlers

import (
	"errors"
	"net/http"
	"time"

	scheduleRepo "habitloop/database/repository/schedule"
	"habitloop/services/schedule"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ScheduleHandler exposes the reminder scheduling endpoints.
type ScheduleHandler struct {
	Service schedule.ScheduleService
}

func NewScheduleHandler(svc schedule.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{Service: svc}
}

type reminderOptions struct {
	Title       string            `json:"title"`
	Body        string            `json:"body"`
	Icon        string            `json:"icon"`
	Badge       string            `json:"badge"`
	Tag         string            `json:"tag"`
	ChallengeID string            `json:"challengeId"`
	Data        map[string]string `json:"data"`
}

func (o reminderOptions) toOptions() schedule.Options {
	return schedule.Options{
		Title:       o.Title,
		Body:        o.Body,
		Icon:        o.Icon,
		Badge:       o.Badge,
		Tag:         o.Tag,
		ChallengeID: o.ChallengeID,
		Data:        o.Data,
	}
}

type onceRequest struct {
	reminderOptions
	// When is the absolute fire instant in milliseconds since epoch. A past
	// instant is accepted and fires on the worker's next check.
	When int64 `json:"when" binding:"required"`
}

// ScheduleOnceHandler creates a one-shot reminder.
func (h *ScheduleHandler) ScheduleOnceHandler(c *gin.Context) {
	logger := getLogger(c)

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req onceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	id, err := h.Service.ScheduleOnce(c.Request.Context(), userID, time.UnixMilli(req.When), req.toOptions())
	if err != nil {
		logger.Error("Failed to schedule reminder", zap.Error(err))
		respondScheduleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

type dailyRequest struct {
	reminderOptions
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// ScheduleDailyHandler creates a reminder repeating every day at the given
// local wall-clock time.
func (h *ScheduleHandler) ScheduleDailyHandler(c *gin.Context) {
	logger := getLogger(c)

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dailyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	id, err := h.Service.ScheduleDaily(c.Request.Context(), userID, req.Hour, req.Minute, req.toOptions())
	if err != nil {
		logger.Error("Failed to schedule daily reminder", zap.Error(err))
		respondScheduleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

type weeklyRequest struct {
	reminderOptions
	// Weekday follows time.Weekday numbering: 0 is Sunday.
	Weekday int `json:"weekday"`
	Hour    int `json:"hour"`
	Minute  int `json:"minute"`
}

// ScheduleWeeklyHandler creates a reminder repeating every week.
func (h *ScheduleHandler) ScheduleWeeklyHandler(c *gin.Context) {
	logger := getLogger(c)

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req weeklyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	id, err := h.Service.ScheduleWeekly(c.Request.Context(), userID, time.Weekday(req.Weekday), req.Hour, req.Minute, req.toOptions())
	if err != nil {
		logger.Error("Failed to schedule weekly reminder", zap.Error(err))
		respondScheduleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// ListRemindersHandler returns all reminders owned by the authenticated user.
func (h *ScheduleHandler) ListRemindersHandler(c *gin.Context) {
	logger := getLogger(c)

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	recs, err := h.Service.List(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to list reminders", zap.Error(err))
		respondScheduleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reminders": recs})
}

// DeleteReminderHandler removes a reminder by ID. Deleting an unknown ID
// succeeds.
func (h *ScheduleHandler) DeleteReminderHandler(c *gin.Context) {
	logger := getLogger(c)

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.Service.Remove(c.Request.Context(), userID, c.Param("id")); err != nil {
		logger.Error("Failed to delete reminder", zap.Error(err))
		respondScheduleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

type enabledRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// SetReminderEnabledHandler toggles a reminder without deleting it.
func (h *ScheduleHandler) SetReminderEnabledHandler(c *gin.Context) {
	logger := getLogger(c)

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req enabledRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if err := h.Service.SetEnabled(c.Request.Context(), userID, c.Param("id"), *req.Enabled); err != nil {
		logger.Error("Failed to toggle reminder", zap.Error(err))
		respondScheduleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func respondScheduleError(c *gin.Context, err error) {
	var invalid schedule.InvalidScheduleParamsError
	var notFound schedule.NotFoundError
	var unavailable scheduleRepo.StorageUnavailableError

	switch {
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": invalid.Error()})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
	case errors.As(err, &unavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Reminder storage is unavailable. Please try again later."})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process reminder request"})
	}
}
