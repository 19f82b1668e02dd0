package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"ir-gateway/cmd/api/auth"
	"ir-gateway/cmd/api/clients/repoclient"
	"ir-gateway/cmd/api/handlers"
	"ir-gateway/cmd/api/middleware"
	"ir-gateway/cmd/api/services"
	_ "ir-gateway/docs"
)

// Dependencies는 라우터가 엮는 구성 요소들이다. main에서 명시적으로 주입한다.
type Dependencies struct {
	RepoClient    *repoclient.Client
	JWTManager    *auth.JWTManager
	ObjectService *services.ObjectService
	GroupService  *services.GroupService
	FeedService   *services.FeedService
}

func New(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestTrace())
	r.Use(middleware.RequestLoggingMiddleware())

	// Health check: 백엔드 상태까지 함께 확인한다.
	r.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		if err := deps.RepoClient.Health(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "repo_service": "down", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Swagger
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// v1 routes
	api := r.Group("/api/v1")
	{
		objectHandlers := handlers.NewObjectHandlers(deps.ObjectService)
		api.GET("/objects/search", objectHandlers.Search)

		feedHandlers := handlers.NewFeedHandlers(deps.FeedService)
		api.GET("/feeds/links", feedHandlers.Links)
		api.GET("/feeds/preview", feedHandlers.Preview)

		groupHandlers := handlers.NewGroupHandlers(deps.GroupService)
		groups := api.Group("/groups")
		groups.GET("", groupHandlers.List)

		// 변경 계열과 감사 이력은 어드민 JWT가 필요하다.
		admin := groups.Group("")
		admin.Use(middleware.AdminAuthMiddleware(deps.JWTManager))
		{
			admin.POST("", groupHandlers.Create)
			admin.PATCH("/:id", groupHandlers.Rename)
			admin.DELETE("/:id", groupHandlers.Delete)
			admin.GET("/:id/audit", groupHandlers.AuditTrail)
			admin.GET("/audit/recent", groupHandlers.RecentAudit)
		}
	}

	return r
}
