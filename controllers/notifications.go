package controllers

import (
	"net/http"
	"strconv"

	"doorpro-backend/config"
	"doorpro-backend/models"
	"doorpro-backend/services"
	"doorpro-backend/utils"

	"github.com/gin-gonic/gin"
)

const defaultNotificationLimit = 50

// NotificationController serves the current user's notifications. Every query is
// scoped to that user.
type NotificationController struct {
	Hub *services.Hub
}

func NewNotificationController(hub *services.Hub) *NotificationController {
	return &NotificationController{Hub: hub}
}

func (nc *NotificationController) GetNotifications(c *gin.Context) {
	userID := utils.CurrentUserID(c)
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultNotificationLimit)))
	if err != nil || limit < 1 {
		limit = defaultNotificationLimit
	}

	query := config.DB.Where("user_id = ?", userID)
	if c.Query("unread") == "true" {
		query = query.Where("read = ?", false)
	}

	var notifications []models.Notification
	if err := query.Order("created_at DESC").Limit(limit).Find(&notifications).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve notifications")
		return
	}

	var unread int64
	if err := config.DB.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&unread).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to count notifications")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"unreadCount":   unread,
	})
}

func (nc *NotificationController) MarkRead(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result := config.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, utils.CurrentUserID(c)).
		Update("read", true)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update notification")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Notification not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

func (nc *NotificationController) MarkAllRead(c *gin.Context) {
	result := config.DB.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", utils.CurrentUserID(c), false).
		Update("read", true)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update notifications")
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": result.RowsAffected})
}

func (nc *NotificationController) DeleteNotification(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result := config.DB.Where("id = ? AND user_id = ?", id, utils.CurrentUserID(c)).Delete(&models.Notification{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete notification")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Notification not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted"})
}

// Stream upgrades to a websocket that receives new notifications as they are created.
func (nc *NotificationController) Stream(c *gin.Context) {
	if nc.Hub == nil {
		utils.RespondWithError(c, http.StatusServiceUnavailable, "Live notifications unavailable")
		return
	}
	nc.Hub.Serve(c, utils.CurrentUserID(c))
}
