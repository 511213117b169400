package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"usermgmt/internal/controllers"
	"usermgmt/internal/middleware"
	"usermgmt/internal/views"
)

// NewRouter wires the user pages onto a Gin engine
func NewRouter(userController *controllers.UserController, logger zerolog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(logger))
	router.SetHTMLTemplate(views.Templates())

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	router.GET("/", userController.List)
	router.POST("/", userController.Create)
	router.GET("/edit/:id", userController.Edit)
	router.POST("/update/:id", userController.Update)
	router.GET("/delete/:id", userController.Delete)

	return router
}
