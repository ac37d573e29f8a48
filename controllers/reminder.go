// controllers/reminder.go
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"doorpro-backend/config"
	"doorpro-backend/models"
	"doorpro-backend/services"
	"doorpro-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateReminderTemplateInput defines the expected JSON structure
type CreateReminderTemplateInput struct {
	Type    string `json:"type" binding:"required,oneof=delivery debt"`
	Message string `json:"message" binding:"required"`
}

// UpdateReminderTemplateInput defines the expected JSON structure
type UpdateReminderTemplateInput struct {
	Type     *string `json:"type" binding:"omitempty,oneof=delivery debt"`
	Message  *string `json:"message"`
	IsActive *bool   `json:"isActive"`
}

type ReminderController struct {
	Service *services.ReminderService
}

func NewReminderController(service *services.ReminderService) *ReminderController {
	return &ReminderController{Service: service}
}

// CreateReminderTemplate creates a template; there is at most one per type.
func (rc *ReminderController) CreateReminderTemplate(c *gin.Context) {
	var input CreateReminderTemplateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var existing models.ReminderTemplate
	if err := config.DB.Where("type = ?", input.Type).First(&existing).Error; err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Template for this type already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	template := models.ReminderTemplate{
		Type:     input.Type,
		Message:  input.Message,
		IsActive: true,
	}
	if err := config.DB.Create(&template).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create template")
		return
	}

	c.JSON(http.StatusCreated, template)
}

func (rc *ReminderController) GetReminderTemplates(c *gin.Context) {
	var templates []models.ReminderTemplate
	if err := config.DB.Order("type").Find(&templates).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve templates")
		return
	}
	c.JSON(http.StatusOK, templates)
}

func (rc *ReminderController) GetReminderTemplate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var template models.ReminderTemplate
	if err := config.DB.First(&template, "id = ?", id).Error; err != nil {
		respondError(c, err, "Template not found")
		return
	}
	c.JSON(http.StatusOK, template)
}

func (rc *ReminderController) UpdateReminderTemplate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input UpdateReminderTemplateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var template models.ReminderTemplate
	if err := config.DB.First(&template, "id = ?", id).Error; err != nil {
		respondError(c, err, "Template not found")
		return
	}

	// Changing the type must not collide with another template
	if input.Type != nil && *input.Type != template.Type {
		var count int64
		if err := config.DB.Model(&models.ReminderTemplate{}).Where("type = ? AND id <> ?", *input.Type, id).Count(&count).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to check templates")
			return
		}
		if count > 0 {
			utils.RespondWithError(c, http.StatusConflict, "Template for this type already exists")
			return
		}
		template.Type = *input.Type
	}
	if input.Message != nil {
		template.Message = *input.Message
	}
	if input.IsActive != nil {
		template.IsActive = *input.IsActive
	}

	if err := config.DB.Model(&template).Select("type", "message", "is_active").Updates(&template).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update template")
		return
	}
	c.JSON(http.StatusOK, template)
}

func (rc *ReminderController) DeleteReminderTemplate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result := config.DB.Delete(&models.ReminderTemplate{}, "id = ?", id)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete template")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Template not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Template deleted successfully"})
}

// RunReminders triggers the daily reminder job immediately.
func (rc *ReminderController) RunReminders(c *gin.Context) {
	if rc.Service == nil {
		utils.RespondWithError(c, http.StatusServiceUnavailable, "Reminder service unavailable")
		return
	}
	c.JSON(http.StatusOK, rc.Service.SendDailyReminders())
}

func (rc *ReminderController) GetReminderLogs(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit < 1 {
		limit = 100
	}

	query := config.DB.Order("sent_at DESC").Limit(limit)
	if t := c.Query("type"); t != "" {
		query = query.Where("type = ?", t)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if order := c.Query("orderId"); order != "" {
		query = query.Where("order_id = ?", order)
	}

	var logs []models.ReminderLog
	if err := query.Find(&logs).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve reminder logs")
		return
	}
	c.JSON(http.StatusOK, logs)
}
