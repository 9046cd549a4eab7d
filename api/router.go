package api

import (
	"net/http"

	"github.com/Domenick1991/cruisebooking/internal/logging"
	"github.com/gin-gonic/gin"
)

// Registrar is implemented by every handler in this package.
type Registrar interface {
	Register(router *gin.RouterGroup)
}

// NewRouter mounts the handlers under /api, with health and docs endpoints
// at the root.
func NewRouter(log logging.Logger, identify Authenticator, handlers ...Registrar) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), RequestLogger(log), Identify(identify))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/swagger/*any", swaggerHandler())

	group := router.Group("/api")
	for _, h := range handlers {
		h.Register(group)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorResponse{Message: "Not found"})
	})
	return router
}
