package utils

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ctxUserID = "userId"
	ctxRole   = "role"
	ctxClaims = "claims"
)

func CurrentUserID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(ctxUserID); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

func CurrentRole(c *gin.Context) string {
	if v, ok := c.Get(ctxRole); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func CurrentClaims(c *gin.Context) *Claims {
	if v, ok := c.Get(ctxClaims); ok {
		if claims, ok := v.(*Claims); ok {
			return claims
		}
	}
	return nil
}

func IsAdmin(c *gin.Context) bool {
	return CurrentRole(c) == "admin"
}
