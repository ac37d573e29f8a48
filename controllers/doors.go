package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"doorpro-backend/config"
	"doorpro-backend/models"
	"doorpro-backend/services"
	"doorpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DoorInput struct {
	Name        string `json:"name" binding:"required"`
	Location    string `json:"location"`
	Type        string `json:"type" binding:"required,oneof=main garage interior emergency"`
	AccessLevel string `json:"accessLevel" binding:"omitempty,oneof=public restricted private"`
	Status      string `json:"status" binding:"omitempty,oneof=open closed locked alarm"`
}

type DoorController struct {
	Notifier *services.NotificationService
}

func NewDoorController(notifier *services.NotificationService) *DoorController {
	return &DoorController{Notifier: notifier}
}

func (dc *DoorController) GetDoors(c *gin.Context) {
	query := config.DB.Preload("AccessUsers").Order("name")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if doorType := c.Query("type"); doorType != "" {
		query = query.Where("type = ?", doorType)
	}

	var doors []models.Door
	if err := query.Find(&doors).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve doors")
		return
	}
	c.JSON(http.StatusOK, doors)
}

func (dc *DoorController) GetDoor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var door models.Door
	if err := config.DB.Preload("AccessUsers").First(&door, "id = ?", id).Error; err != nil {
		respondError(c, err, "Door not found")
		return
	}
	c.JSON(http.StatusOK, door)
}

func (dc *DoorController) CreateDoor(c *gin.Context) {
	var input DoorInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	door := models.Door{
		Name:        strings.TrimSpace(input.Name),
		Location:    strings.TrimSpace(input.Location),
		Type:        input.Type,
		AccessLevel: input.AccessLevel,
		Status:      input.Status,
	}
	if err := config.DB.Create(&door).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create door")
		return
	}

	c.JSON(http.StatusCreated, door)
}

// UpdateDoor edits the door's description. Status changes go through UpdateDoorStatus.
func (dc *DoorController) UpdateDoor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input DoorInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var door models.Door
	if err := config.DB.First(&door, "id = ?", id).Error; err != nil {
		respondError(c, err, "Door not found")
		return
	}

	door.Name = strings.TrimSpace(input.Name)
	door.Location = strings.TrimSpace(input.Location)
	door.Type = input.Type
	if input.AccessLevel != "" {
		door.AccessLevel = input.AccessLevel
	}

	if err := config.DB.Model(&door).Select("name", "location", "type", "access_level").Updates(&door).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update door")
		return
	}
	c.JSON(http.StatusOK, door)
}

func (dc *DoorController) DeleteDoor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var deleted int64
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.Door{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected
		return tx.Exec("DELETE FROM door_access_users WHERE door_id = ?", id).Error
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete door")
		return
	}
	if deleted == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Door not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Door deleted successfully"})
}

func (dc *DoorController) UpdateDoorStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	user, err := currentUser(c)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "User not found")
		return
	}

	door, raised, err := services.ChangeDoorStatus(config.DB, id, user, input.Status)
	if err != nil {
		respondError(c, err, "Door not found")
		return
	}

	if raised {
		dc.Notifier.NotifyAdmins("Alarm në derë",
			fmt.Sprintf("%s (%s) u vendos në alarm nga %s", door.Name, utils.OrDefault(door.Location), user.FullName()),
			"/doors/"+door.ID.String())
	}

	c.JSON(http.StatusOK, door)
}

func (dc *DoorController) SetAccessUsers(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input struct {
		UserIDs []uuid.UUID `json:"userIds"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	door, err := services.SetDoorAccessUsers(config.DB, id, input.UserIDs)
	if err != nil {
		respondError(c, err, "Door not found")
		return
	}
	c.JSON(http.StatusOK, door)
}
