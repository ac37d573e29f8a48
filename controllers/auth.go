// controllers/auth.go
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
	"gorm.io/gorm"
)

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthController struct {
	Tokens services.TokenStore
}

func NewAuthController(tokens services.TokenStore) *AuthController {
	return &AuthController{Tokens: tokens}
}

func (ac *AuthController) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	var user models.User
	if err := config.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if !utils.CheckPasswordHash(input.Password, user.Password) {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if !user.IsActive {
		utils.RespondWithError(c, http.StatusForbidden, "Account is disabled")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	now := time.Now()
	if err := config.DB.Model(&user).Update("last_login", &now).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to record login")
		return
	}
	user.LastLogin = &now

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

// Logout revokes the presented token until it would have expired.
func (ac *AuthController) Logout(c *gin.Context) {
	claims := utils.CurrentClaims(c)
	if claims == nil || claims.ExpiresAt == nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid token")
		return
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if err := ac.Tokens.Revoke(c.Request.Context(), claims.ID, ttl); err != nil {
		slog.Error("failed to revoke token", slog.String("error", err.Error()))
		utils.RespondWithError(c, http.StatusServiceUnavailable, "Session store unavailable")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
