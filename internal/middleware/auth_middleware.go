package middleware

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/alexzhelyapov1/LifeControl/config"
	"github.com/alexzhelyapov1/LifeControl/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CachedIdentity is what the auth cache stores per login. It carries exactly
// the fields permission checks need so a cache hit skips the users table.
type CachedIdentity struct {
	UserID  uint   `json:"user_id"`
	Login   string `json:"login"`
	IsAdmin bool   `json:"is_admin"`
}

const identityCacheTTL = 10 * time.Minute

// AuthMiddleware verifies the bearer token and resolves its subject (login)
// to a known user. Requests without a valid, unexpired token get 401.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			handleAuthError(c, "Authorization token not provided")
			return
		}
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			handleAuthError(c, "Invalid Authorization header format")
			return
		}
		tokenStr := parts[1]

		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return config.JwtKey, nil
		})
		if err != nil || !token.Valid {
			handleAuthError(c, "Invalid or expired token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			handleAuthError(c, "Invalid token claims")
			return
		}
		login, ok := claims["sub"].(string)
		if !ok || login == "" {
			handleAuthError(c, "Token subject missing")
			return
		}

		cacheKey := fmt.Sprintf("auth:login:%s", login)
		if config.RDB != nil {
			cached, err := config.RDB.Get(config.Ctx, cacheKey).Result()
			if err == nil {
				var identity CachedIdentity
				if json.Unmarshal([]byte(cached), &identity) == nil {
					setIdentityAndProceed(c, &identity)
					return
				}
				slog.Warn("Failed to unmarshal cached identity", "login", login)
			} else if err != redis.Nil {
				slog.Error("Redis GET failed", "error", err, "login", login)
			}
		}

		var user models.User
		if err := config.DB.Where("login = ?", login).First(&user).Error; err != nil {
			handleAuthError(c, "User from token not found")
			return
		}

		identity := CachedIdentity{UserID: user.ID, Login: user.Login, IsAdmin: user.IsAdmin}

		if config.RDB != nil {
			if data, err := json.Marshal(identity); err == nil {
				if err := config.RDB.Set(config.Ctx, cacheKey, data, identityCacheTTL).Err(); err != nil {
					slog.Error("Failed to cache identity", "error", err, "login", login)
				}
			}
		}

		setIdentityAndProceed(c, &identity)
	}
}

func setIdentityAndProceed(c *gin.Context, identity *CachedIdentity) {
	user := models.User{
		Model:   gorm.Model{ID: identity.UserID},
		Login:   identity.Login,
		IsAdmin: identity.IsAdmin,
	}
	c.Set("current_user", user)
	c.Set("user_id", identity.UserID)
	c.Set("login", identity.Login)
	c.Next()
}

// InvalidateIdentityCache drops the cached identity for a login. Call after
// anything that changes the fields CachedIdentity carries.
func InvalidateIdentityCache(login string) {
	if config.RDB == nil {
		return
	}
	cacheKey := fmt.Sprintf("auth:login:%s", login)
	if err := config.RDB.Del(config.Ctx, cacheKey).Err(); err != nil {
		slog.Error("Failed to invalidate identity cache", "error", err, "login", login)
	}
}

func handleAuthError(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": message})
	c.Abort()
}
