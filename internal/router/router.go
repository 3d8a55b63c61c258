package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/forkful/forkful-backend/internal/api"
	"github.com/forkful/forkful-backend/internal/middleware"
)

// Handlers bundles everything the router mounts under /api.
type Handlers struct {
	Auth    *api.AuthHandler
	Catalog *api.CatalogHandler
	Recipes *api.RecipeHandler
}

// New assembles the gin engine. mediaDir, when non-empty, is served under
// /media for locally stored images. Extra middleware applies to mutating
// recipe routes.
func New(logger *zap.Logger, h Handlers, mediaDir string, mutating ...gin.HandlerFunc) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
	}))

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if mediaDir != "" {
		engine.Static("/media", mediaDir)
	}

	group := engine.Group("/api")
	h.Auth.RegisterRoutes(group)
	h.Catalog.RegisterRoutes(group)
	h.Recipes.RegisterRoutes(group, mutating...)

	return engine
}
