// utils/auth.go
package utils

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"doorpro-backend/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is lowered by tests.
var BcryptCost = bcrypt.DefaultCost

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenChecker reports whether a token id has been revoked by logout.
type TokenChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// AccountChecker reports the stored role of a user and whether the account may
// still sign in. Missing accounts report active == false with a nil error.
type AccountChecker interface {
	AccountStatus(ctx context.Context, userID uuid.UUID) (role string, active bool, err error)
}

// Hash password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	return string(bytes), err
}

// Check password
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateToken signs an access token for the user.
func GenerateToken(userID uuid.UUID, role string) (string, error) {
	cfg := config.App
	if cfg == nil || cfg.JWTSecret == "" {
		return "", errors.New("JWT_SECRET not set")
	}

	now := time.Now()
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.JWTTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

func ParseToken(tokenString string) (*Claims, error) {
	cfg := config.App
	if cfg == nil || cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET not set")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func bearerToken(c *gin.Context) string {
	tokenString := c.GetHeader("Authorization")
	if len(tokenString) > 7 && strings.ToUpper(tokenString[0:6]) == "BEARER" {
		return strings.TrimSpace(tokenString[7:])
	}
	return tokenString
}

// AuthMiddleware validates the bearer token and the account behind it.
// Websocket upgrades may pass the token as ?token= since browsers cannot set headers there.
func AuthMiddleware(revoked TokenChecker, accounts AccountChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" && websocket.IsWebSocketUpgrade(c.Request) {
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			RespondWithError(c, 401, "Authorization header required")
			return
		}

		claims, err := ParseToken(tokenString)
		if err != nil {
			RespondWithError(c, 401, "Invalid token")
			return
		}

		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			RespondWithError(c, 401, "Invalid token claims")
			return
		}

		if revoked != nil {
			isRevoked, err := revoked.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				slog.Error("token revocation lookup failed", slog.String("error", err.Error()))
				RespondWithError(c, 503, "Session store unavailable")
				return
			}
			if isRevoked {
				RespondWithError(c, 401, "Token has been revoked")
				return
			}
		}

		if accounts != nil {
			role, active, err := accounts.AccountStatus(c.Request.Context(), userID)
			if err != nil {
				slog.Error("account lookup failed", slog.String("userId", userID.String()), slog.String("error", err.Error()))
				RespondWithError(c, 503, "Account lookup failed")
				return
			}
			if !active {
				RespondWithError(c, 401, "Account is disabled or no longer exists")
				return
			}
			// Role changes apply to tokens issued before them.
			claims.Role = role
		}

		c.Set(ctxUserID, userID)
		c.Set(ctxRole, claims.Role)
		c.Set(ctxClaims, claims)

		c.Next()
	}
}

// RequireRole must run after AuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := CurrentRole(c)
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		RespondWithError(c, 403, "Insufficient permissions")
	}
}
