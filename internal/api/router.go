package api

import (
	"github.com/gin-gonic/gin"

	"github.com/canvascore/qr_go_server/config"
	"github.com/canvascore/qr_go_server/internal/api/handler"
	"github.com/canvascore/qr_go_server/internal/api/middleware"
	"github.com/canvascore/qr_go_server/internal/model"
	"github.com/canvascore/qr_go_server/internal/service"
)

type Router struct {
	authHandler         *handler.AuthHandler
	qrHandler           *handler.QRHandler
	subscriptionHandler *handler.SubscriptionHandler
	adminHandler        *handler.AdminHandler
	authService         *service.AuthService
	cfg                 *config.Config
}

func NewRouter(
	authHandler *handler.AuthHandler,
	qrHandler *handler.QRHandler,
	subscriptionHandler *handler.SubscriptionHandler,
	adminHandler *handler.AdminHandler,
	authService *service.AuthService,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:         authHandler,
		qrHandler:           qrHandler,
		subscriptionHandler: subscriptionHandler,
		adminHandler:        adminHandler,
		authService:         authService,
		cfg:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(r.cfg.CORS))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := engine.Group("/api/v1")
	{
		// 公开接口 - 认证
		auth := api.Group("/auth")
		{
			auth.POST("/signup", r.authHandler.Register)
			auth.POST("/login", r.authHandler.Login)
		}

		// 公开接口 - 套餐目录
		api.GET("/subscriptions/plans", r.subscriptionHandler.ListPlans)

		// 需要认证的接口
		authenticated := api.Group("")
		authenticated.Use(middleware.Auth(r.authService, r.cfg.JWT.Secret))
		{
			authenticated.GET("/auth/me", r.authHandler.Me)

			qr := authenticated.Group("/qr")
			{
				qr.POST("/generate", r.qrHandler.Generate)
				qr.GET("/download/:id", r.qrHandler.Download)
				qr.GET("/remaining", r.qrHandler.Remaining)
			}

			subs := authenticated.Group("/subscriptions")
			{
				subs.POST("/subscribe", r.subscriptionHandler.Subscribe)
				subs.GET("/my-subscription", r.subscriptionHandler.MySubscription)
			}

			// 管理端（仅 admin 角色）
			admin := authenticated.Group("/admin")
			admin.Use(middleware.RequireRole(model.RoleAdmin))
			{
				admin.GET("/qr-codes", r.adminHandler.ListQRCodes)
				admin.GET("/stats", r.adminHandler.Stats)
				admin.DELETE("/qr-codes/:id", r.adminHandler.DeleteQRCode)
				admin.GET("/users", r.adminHandler.ListUsers)
			}
		}
	}

	return engine
}
