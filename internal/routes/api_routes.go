package routes

import (
	"github.com/alexzhelyapov1/LifeControl/internal/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterAPIRoutes registers every authenticated route.
func RegisterAPIRoutes(api *gin.RouterGroup) {
	users := api.Group("/users")
	{
		users.GET("/me", handlers.MeHandler)
		users.PUT("/me", handlers.UpdateMeHandler)
	}

	admin := api.Group("/admin")
	{
		admin.GET("/users", handlers.ListUsersHandler)
	}

	spheres := api.Group("/spheres")
	{
		spheres.GET("", handlers.ListSpheresHandler)
		spheres.POST("", handlers.CreateSphereHandler)
		spheres.GET("/:id", handlers.GetSphereHandler)
		spheres.PUT("/:id", handlers.UpdateSphereHandler)
		spheres.DELETE("/:id", handlers.DeleteSphereHandler)
	}

	locations := api.Group("/locations")
	{
		locations.GET("", handlers.ListLocationsHandler)
		locations.POST("", handlers.CreateLocationHandler)
		locations.GET("/:id", handlers.GetLocationHandler)
		locations.PUT("/:id", handlers.UpdateLocationHandler)
		locations.DELETE("/:id", handlers.DeleteLocationHandler)
	}

	records := api.Group("/records")
	{
		records.GET("", handlers.ListRecordsHandler)
		records.POST("", handlers.CreateRecordHandler)
		records.GET("/export", handlers.ExportRecordsHandler)
		records.PUT("/:id", handlers.UpdateRecordHandler)
		records.DELETE("/:id", handlers.DeleteRecordHandler)
	}

	api.GET("/dashboard", handlers.DashboardHandler)
}
