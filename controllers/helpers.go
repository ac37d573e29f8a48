package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"doorpro-backend/config"
	"doorpro-backend/models"
	"doorpro-backend/services"
	"doorpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}

// respondError maps service and gorm errors onto HTTP responses.
func respondError(c *gin.Context, err error, notFound string) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		utils.RespondWithError(c, http.StatusNotFound, notFound)
	case errors.Is(err, services.ErrDepositExceedsTotal),
		errors.Is(err, services.ErrInvalidTotal),
		errors.Is(err, services.ErrNegativeDeposit),
		errors.Is(err, services.ErrInvalidPaymentAmount),
		errors.Is(err, services.ErrPaymentExceedsBalance),
		errors.Is(err, services.ErrInvalidDoorState),
		errors.Is(err, services.ErrUnknownUsers):
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrDoorAccessDenied),
		errors.Is(err, services.ErrAlarmAdminOnly):
		utils.RespondWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrAlreadyPaid):
		utils.RespondWithError(c, http.StatusConflict, err.Error())
	default:
		slog.Error("request failed",
			slog.String("path", c.FullPath()),
			slog.String("error", err.Error()))
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
	}
}

func currentUser(c *gin.Context) (*models.User, error) {
	var user models.User
	if err := config.DB.First(&user, "id = ?", utils.CurrentUserID(c)).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// parseOptionalDate accepts YYYY-MM-DD or RFC 3339. Blank means no date.
func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	v := strings.TrimSpace(*s)
	if t, err := utils.ParseDate(v); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, errors.New("invalid date " + v + ", expected YYYY-MM-DD")
	}
	return &t, nil
}
