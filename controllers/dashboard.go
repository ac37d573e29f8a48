package controllers

import (
	"net/http"
	"time"

	"doorpro-backend/config"
	"doorpro-backend/models"
	"doorpro-backend/services"
	"doorpro-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const upcomingDeliveryDays = 7

type DashboardOverview struct {
	services.OrderSummary
	OpenComplaints int64 `json:"openComplaints"`
	DoorAlarms     int64 `json:"doorAlarms"`
	UnreadCount    int64 `json:"unreadNotifications"`
}

func GetDashboardOverview(c *gin.Context) {
	var orders []models.Order
	if err := config.DB.Find(&orders).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve orders")
		return
	}

	overview := DashboardOverview{
		OrderSummary: services.SummarizeOrders(orders, time.Now(), upcomingDeliveryDays),
	}

	counts := []*gorm.DB{
		// Open complaints
		config.DB.Model(&models.Complaint{}).Where("status = ?", models.ComplaintPending).Count(&overview.OpenComplaints),
		// Doors currently in alarm
		config.DB.Model(&models.Door{}).Where("status = ?", models.DoorStatusAlarm).Count(&overview.DoorAlarms),
		config.DB.Model(&models.Notification{}).
			Where("user_id = ? AND read = ?", utils.CurrentUserID(c), false).
			Count(&overview.UnreadCount),
	}
	for _, q := range counts {
		if q.Error != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load dashboard")
			return
		}
	}

	c.JSON(http.StatusOK, overview)
}
