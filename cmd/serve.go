package cmd

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/forkful/forkful-backend/config"
	"github.com/forkful/forkful-backend/internal/api"
	"github.com/forkful/forkful-backend/internal/database"
	"github.com/forkful/forkful-backend/internal/middleware"
	"github.com/forkful/forkful-backend/internal/repository"
	"github.com/forkful/forkful-backend/internal/router"
	"github.com/forkful/forkful-backend/internal/server"
	"github.com/forkful/forkful-backend/internal/service"
	"github.com/forkful/forkful-backend/internal/validation"
)

type ServeCmd struct {
	ConfigFile string `default:"forkful.yaml" help:"Path to config file" short:"c"`
}

func (s *ServeCmd) Run(cmdCtx *Context) error {
	logConfig := zap.NewProductionConfig()
	if cmdCtx.Debug {
		logConfig = zap.NewDevelopmentConfig()
	}
	logger, _ := logConfig.Build()
	defer logger.Sync() //nolint:errcheck // sync errors on exit are irrelevant

	conf, err := config.Load(s.ConfigFile, logger)
	if err != nil {
		logger.Error("error loading config", zap.Error(err))
		return err
	}

	repo, err := repository.Open(conf, logger)
	if err != nil {
		logger.Error("error connecting to database", zap.Error(err))
		return err
	}
	defer repo.Close()

	media, err := service.NewMediaService(context.Background(), conf.Media, logger)
	if err != nil {
		logger.Error("error setting up media storage", zap.Error(err))
		return err
	}

	authService := service.NewAuthService(repo.DB, conf.Auth.JWTSecret, conf.Auth.TokenTTL)
	validator := validation.NewRecipeValidator(repo)
	recipeService := service.NewRecipeService(repo, validator, media, logger)
	relationService := service.NewRelationService(repo, logger)
	shoppingService := service.NewShoppingListService(repo)

	var mutating []gin.HandlerFunc
	redisClient, err := database.NewRedisClient(conf.Redis)
	if err != nil {
		logger.Warn("redis unavailable, rate limiting disabled", zap.Error(err))
	} else {
		limiter := middleware.NewRateLimiter(redisClient, middleware.RateLimitConfig{
			Window:    conf.RateLimit.Window,
			Limit:     conf.RateLimit.Limit,
			KeyPrefix: "ratelimit",
		})
		mutating = append(mutating, limiter.Middleware())
	}

	handlers := router.Handlers{
		Auth:    api.NewAuthHandler(authService),
		Catalog: api.NewCatalogHandler(repo),
		Recipes: api.NewRecipeHandler(recipeService, relationService, shoppingService, authService, conf.Server.FrontendURL),
	}

	mediaDir := ""
	if conf.Media.Bucket == "" {
		mediaDir = conf.Media.Dir
	}

	engine := router.New(logger, handlers, mediaDir, mutating...)
	return server.New(engine, conf.Server.Port, logger).Run()
}
