package controllers

import (
	"net/http"
	"strings"
	"time"

	"doorpro-backend/config"
	"doorpro-backend/models"
	"doorpro-backend/services"
	"doorpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ComplaintInput struct {
	Description string     `json:"description" binding:"required"`
	OrderID     *uuid.UUID `json:"orderId"`
}

type ComplaintController struct {
	Notifier *services.NotificationService
}

func NewComplaintController(notifier *services.NotificationService) *ComplaintController {
	return &ComplaintController{Notifier: notifier}
}

func (cc *ComplaintController) GetComplaints(c *gin.Context) {
	query := config.DB.Order("created_at DESC")
	if status := c.Query("status"); status != "" && status != "all" {
		query = query.Where("status = ?", status)
	}
	if order := c.Query("orderId"); order != "" {
		id, err := uuid.Parse(order)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid orderId format")
			return
		}
		query = query.Where("order_id = ?", id)
	}

	var complaints []models.Complaint
	if err := query.Find(&complaints).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve complaints")
		return
	}
	c.JSON(http.StatusOK, complaints)
}

func (cc *ComplaintController) GetComplaint(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var complaint models.Complaint
	if err := config.DB.First(&complaint, "id = ?", id).Error; err != nil {
		respondError(c, err, "Complaint not found")
		return
	}
	c.JSON(http.StatusOK, complaint)
}

func (cc *ComplaintController) CreateComplaint(c *gin.Context) {
	var input ComplaintInput
	if err := c.ShouldBindJSON(&input); err != nil || strings.TrimSpace(input.Description) == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Description is required")
		return
	}
	if input.OrderID != nil {
		var count int64
		if err := config.DB.Model(&models.Order{}).Where("id = ?", *input.OrderID).Count(&count).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to look up order")
			return
		}
		if count == 0 {
			utils.RespondWithError(c, http.StatusBadRequest, "Order not found")
			return
		}
	}

	complaint := models.Complaint{
		Description:     strings.TrimSpace(input.Description),
		OrderID:         input.OrderID,
		CreatedByUserID: utils.CurrentUserID(c),
	}
	if err := config.DB.Create(&complaint).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create complaint")
		return
	}

	cc.Notifier.NotifyAdmins("Ankesë e re", complaint.Description, "/complaints/"+complaint.ID.String())

	c.JSON(http.StatusCreated, complaint)
}

func (cc *ComplaintController) UpdateComplaint(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input struct {
		Description *string `json:"description"`
		Status      *string `json:"status" binding:"omitempty,oneof=pending resolved"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var complaint models.Complaint
	if err := config.DB.First(&complaint, "id = ?", id).Error; err != nil {
		respondError(c, err, "Complaint not found")
		return
	}

	if input.Description != nil && strings.TrimSpace(*input.Description) != "" {
		complaint.Description = strings.TrimSpace(*input.Description)
	}
	if input.Status != nil && *input.Status != complaint.Status {
		complaint.Status = *input.Status
		if complaint.Status == models.ComplaintResolved {
			now := time.Now()
			complaint.ResolvedAt = &now
		} else {
			complaint.ResolvedAt = nil
		}
	}

	if err := config.DB.Model(&complaint).Select("description", "status", "resolved_at").Updates(&complaint).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update complaint")
		return
	}
	c.JSON(http.StatusOK, complaint)
}

func (cc *ComplaintController) ResolveComplaint(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var complaint models.Complaint
	if err := config.DB.First(&complaint, "id = ?", id).Error; err != nil {
		respondError(c, err, "Complaint not found")
		return
	}
	if complaint.Status == models.ComplaintResolved {
		c.JSON(http.StatusOK, complaint)
		return
	}

	now := time.Now()
	complaint.Status = models.ComplaintResolved
	complaint.ResolvedAt = &now
	if err := config.DB.Model(&complaint).Select("status", "resolved_at").Updates(&complaint).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to resolve complaint")
		return
	}
	c.JSON(http.StatusOK, complaint)
}

func (cc *ComplaintController) DeleteComplaint(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result := config.DB.Delete(&models.Complaint{}, "id = ?", id)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete complaint")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Complaint not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Complaint deleted successfully"})
}
