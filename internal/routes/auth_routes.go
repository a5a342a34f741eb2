package routes

import (
	"github.com/alexzhelyapov1/LifeControl/internal/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers the routes that do not require a token.
func RegisterAuthRoutes(api *gin.RouterGroup) {
	api.POST("/auth/token", handlers.LoginHandler)
	api.POST("/users/register", handlers.RegisterHandler)
}
