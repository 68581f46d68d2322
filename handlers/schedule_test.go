package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"habitloop/models"
	"habitloop/services/schedule"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memScheduleRepo struct {
	recs map[string]models.ScheduledNotification
}

func newMemScheduleRepo() *memScheduleRepo {
	return &memScheduleRepo{recs: make(map[string]models.ScheduledNotification)}
}

func (r *memScheduleRepo) Save(_ context.Context, rec models.ScheduledNotification) error {
	r.recs[rec.ID] = rec
	return nil
}

func (r *memScheduleRepo) GetAll(_ context.Context) ([]models.ScheduledNotification, error) {
	out := []models.ScheduledNotification{}
	for _, rec := range r.recs {
		out = append(out, rec)
	}
	return out, nil
}

func (r *memScheduleRepo) GetByUser(_ context.Context, userID string) ([]models.ScheduledNotification, error) {
	out := []models.ScheduledNotification{}
	for _, rec := range r.recs {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *memScheduleRepo) GetByID(_ context.Context, id string) (*models.ScheduledNotification, error) {
	rec, ok := r.recs[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (r *memScheduleRepo) Delete(_ context.Context, id string) error {
	delete(r.recs, id)
	return nil
}

// setUserID stands in for the JWT middleware during handler tests.
func setUserID(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID != "" {
			c.Set("userID", userID)
		}
		c.Next()
	}
}

func newScheduleRouter(repo *memScheduleRepo, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	svc := &schedule.DefaultScheduleService{
		Repo:   repo,
		Logger: zap.NewNop(),
		Now:    func() time.Time { return time.Date(2026, 3, 10, 8, 0, 0, 0, time.Local) },
	}
	h := NewScheduleHandler(svc)

	r := gin.New()
	api := r.Group("/api/reminders", setUserID(userID))
	api.POST("/once", h.ScheduleOnceHandler)
	api.POST("/daily", h.ScheduleDailyHandler)
	api.POST("/weekly", h.ScheduleWeeklyHandler)
	api.GET("", h.ListRemindersHandler)
	api.DELETE("/:id", h.DeleteReminderHandler)
	api.PATCH("/:id/enabled", h.SetReminderEnabledHandler)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestScheduleDailyHandler_Created(t *testing.T) {
	repo := newMemScheduleRepo()
	r := newScheduleRouter(repo, "user-1")

	w := doJSON(t, r, http.MethodPost, "/api/reminders/daily", gin.H{
		"hour": 7, "minute": 30, "title": "Log your run",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.ID)

	rec := repo.recs[resp.ID]
	assert.Equal(t, "user-1", rec.UserID)
	assert.Equal(t, models.RepeatDaily, rec.Repeat)
	assert.Equal(t, "Log your run", rec.Title)
}

func TestScheduleDailyHandler_InvalidHour(t *testing.T) {
	repo := newMemScheduleRepo()
	r := newScheduleRouter(repo, "user-1")

	w := doJSON(t, r, http.MethodPost, "/api/reminders/daily", gin.H{"hour": 24, "minute": 0})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, repo.recs)
}

func TestScheduleOnceHandler_RequiresWhen(t *testing.T) {
	repo := newMemScheduleRepo()
	r := newScheduleRouter(repo, "user-1")

	w := doJSON(t, r, http.MethodPost, "/api/reminders/once", gin.H{"title": "no time"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/reminders/once", gin.H{
		"when": time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local).UnixMilli(),
	})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestScheduleWeeklyHandler_InvalidWeekday(t *testing.T) {
	repo := newMemScheduleRepo()
	r := newScheduleRouter(repo, "user-1")

	w := doJSON(t, r, http.MethodPost, "/api/reminders/weekly", gin.H{
		"weekday": 7, "hour": 7, "minute": 30,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListRemindersHandler_ReturnsOwnOnly(t *testing.T) {
	repo := newMemScheduleRepo()
	repo.recs["a"] = models.ScheduledNotification{ID: "a", UserID: "user-1"}
	repo.recs["b"] = models.ScheduledNotification{ID: "b", UserID: "user-2"}
	r := newScheduleRouter(repo, "user-1")

	w := doJSON(t, r, http.MethodGet, "/api/reminders", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Reminders []models.ScheduledNotification `json:"reminders"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Reminders, 1)
	assert.Equal(t, "a", resp.Reminders[0].ID)
}

func TestDeleteReminderHandler_UnknownIDSucceeds(t *testing.T) {
	r := newScheduleRouter(newMemScheduleRepo(), "user-1")

	w := doJSON(t, r, http.MethodDelete, "/api/reminders/missing", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSetReminderEnabledHandler(t *testing.T) {
	repo := newMemScheduleRepo()
	repo.recs["a"] = models.ScheduledNotification{
		ID: "a", UserID: "user-1", Repeat: models.RepeatDaily, Enabled: true,
		ScheduledTime: time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local).UnixMilli(),
	}
	r := newScheduleRouter(repo, "user-1")

	w := doJSON(t, r, http.MethodPatch, "/api/reminders/a/enabled", gin.H{"enabled": false})
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, repo.recs["a"].Enabled)

	// Missing body field is a binding error.
	w = doJSON(t, r, http.MethodPatch, "/api/reminders/a/enabled", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPatch, "/api/reminders/missing/enabled", gin.H{"enabled": true})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestScheduleHandlers_Unauthorized(t *testing.T) {
	r := newScheduleRouter(newMemScheduleRepo(), "")

	w := doJSON(t, r, http.MethodGet, "/api/reminders", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/reminders/daily", gin.H{"hour": 7, "minute": 0})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
