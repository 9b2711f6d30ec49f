package routes

import (
	"Tombola/config"
	"Tombola/controllers"
	"Tombola/middleware"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRoutes configures all API routes. archive and mirror may be nil.
func SetupRoutes(router *gin.Engine, rooms controllers.RoomDirectory, archive controllers.GameArchive, mirror controllers.RoomMirror, admin config.AdminConfig) {
	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/")

	api.GET("/ping", controllers.Ping)

	api.GET("/health", controllers.Health(rooms))

	room := api.Group("/api/room")
	{
		room.GET("/:code", controllers.GetRoom(rooms))

		room.GET("/:code/drawn/:number", controllers.GetDrawn(rooms))
	}

	api.POST("/api/admin/login", controllers.AdminLogin(admin))

	authentication := api.Group("/api/admin")
	authentication.Use(middleware.AdminRequired(admin))
	{
		authentication.DELETE("/logout", controllers.AdminLogout)

		authentication.GET("/me", controllers.AdminMe(admin))

		authentication.GET("/rooms", controllers.ListRooms(rooms))

		authentication.GET("/games", controllers.ListGames(archive))

		authentication.GET("/mirror/rooms", controllers.ListMirroredRooms(mirror))

		authentication.GET("/mirror/rooms/:code", controllers.GetMirroredRoom(mirror))
	}
}
