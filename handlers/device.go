package handlers

import (
	"net/http"

	userRepo "habitloop/database/repository/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserDeviceHandler manages the user's registered push target.
type UserDeviceHandler struct {
	Users userRepo.UserRepository
}

func NewUserDeviceHandler(users userRepo.UserRepository) *UserDeviceHandler {
	return &UserDeviceHandler{Users: users}
}

type fcmTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// UpdateFCMTokenHandler stores the device's FCM registration token. Reminders
// scheduled before a token exists stay scheduled and start displaying once a
// token is registered.
func (h *UserDeviceHandler) UpdateFCMTokenHandler(c *gin.Context) {
	logger := getLogger(c)

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req fcmTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if err := h.Users.UpdateFCMToken(c.Request.Context(), userID, req.Token); err != nil {
		logger.Error("Failed to update FCM token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update FCM token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}
