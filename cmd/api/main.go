package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	"ir-gateway/cache"
	"ir-gateway/cmd/api/auth"
	"ir-gateway/cmd/api/clients/authzclient"
	"ir-gateway/cmd/api/clients/repoclient"
	"ir-gateway/cmd/api/httpclient"
	"ir-gateway/cmd/api/router"
	"ir-gateway/cmd/api/services"
	"ir-gateway/cmd/internal/logger"
	"ir-gateway/config"
	"ir-gateway/db"
	_ "ir-gateway/docs" // swag will generate this package
	"ir-gateway/eventbus"
	"ir-gateway/registrywatch"
	"ir-gateway/repositories"
)

// @title           IR Gateway API
// @version         1.0
// @description     Backend-for-frontend gateway for the institutional repository
// @BasePath        /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	logger.InitFromEnv("LOG_LEVEL")

	cfg, err := config.Load()
	if err != nil {
		logger.Log.Errorf("config load failed: %v", err)
		os.Exit(1)
	}

	ctx := context.Background()

	httpClient := httpclient.New(httpclient.Config{
		Timeout: time.Duration(cfg.Upstream.TimeoutSeconds) * time.Second,
	})
	repoClient := repoclient.New(cfg.Upstream.BaseURL, httpClient)
	authzClient := authzclient.New(cfg.Upstream.BaseURL, httpClient)

	// 목록 캐시는 redis가 설정된 경우에만 붙는다.
	var groupCache, objectCache *cache.ListCache
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		ttl := time.Duration(cfg.Redis.ListTTLSeconds) * time.Second
		groupCache = cache.New(rdb, "ir-gateway:groups", ttl)
		objectCache = cache.New(rdb, "ir-gateway:objects", ttl)
	}

	// 감사 기록은 mongo가 설정된 경우에만 남긴다.
	var auditRepo *repositories.AuditLogRepository
	if cfg.MongoURI != "" {
		if err := db.Init(ctx, cfg.MongoURI, cfg.MongoDB); err != nil {
			logger.Log.Errorf("mongo init failed: %v", err)
			os.Exit(1)
		}
		auditRepo = repositories.NewAuditLogRepository(db.Database())
	}

	var bus eventbus.EventBus
	if cfg.Kafka.Enabled {
		kafkaBus, err := eventbus.NewKafkaEventBus(cfg.Kafka.Brokers)
		if err != nil {
			logger.Log.Errorf("kafka init failed: %v", err)
			os.Exit(1)
		}
		defer kafkaBus.Close()
		bus = kafkaBus
	}

	jwtManager, err := auth.NewJWTManagerFromEnv()
	if err != nil {
		logger.Log.Errorf("jwt init failed: %v", err)
		os.Exit(1)
	}

	feedParser := gofeed.NewParser()
	feedParser.Client = httpClient

	deps := router.Dependencies{
		RepoClient:    repoClient,
		JWTManager:    jwtManager,
		ObjectService: services.NewObjectService(repoClient, objectCache),
		GroupService:  services.NewGroupService(repoClient, authzClient, groupCache, auditRepo, bus),
		FeedService: services.NewFeedService(
			repoClient,
			feedParser,
			cfg.Upstream.BaseURL,
			cfg.Feeds.FallbackServiceContext,
			time.Duration(cfg.Feeds.FlagCacheTTLSeconds)*time.Second,
			cfg.Feeds.PreviewLimit,
		),
	}

	if cfg.Watch.Enabled {
		watcher, err := registrywatch.New(
			repoClient,
			bus,
			time.Duration(cfg.Watch.IntervalSeconds)*time.Second,
			cfg.Watch.PageSize,
		)
		if err != nil {
			logger.Log.Errorf("registry watcher init failed: %v", err)
			os.Exit(1)
		}
		watcher.Start()
		defer watcher.Close()
	}

	corsOptions := cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}
	if len(cfg.Server.AllowedOrigins) > 0 {
		corsOptions.AllowedOrigins = cfg.Server.AllowedOrigins
		corsOptions.AllowCredentials = true
	}

	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: cors.New(corsOptions).Handler(router.New(deps)),
	}

	go func() {
		logger.Log.Infof("ir-gateway listening on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Errorf("server failed: %v", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorf("server shutdown failed: %v", err)
	}
}
