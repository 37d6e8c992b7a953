package main

import (
	"fmt"
	"log"

	"github.com/canvascore/qr_go_server/config"
	"github.com/canvascore/qr_go_server/internal/api"
	"github.com/canvascore/qr_go_server/internal/api/handler"
	"github.com/canvascore/qr_go_server/internal/database"
	"github.com/canvascore/qr_go_server/internal/pkg/email"
	"github.com/canvascore/qr_go_server/internal/pkg/oss"
	"github.com/canvascore/qr_go_server/internal/pkg/qrcode"
	"github.com/canvascore/qr_go_server/internal/repository"
	"github.com/canvascore/qr_go_server/internal/service"
	"github.com/canvascore/qr_go_server/internal/store"
)

func main() {
	// 加载配置
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	// 初始化文档存储
	docStore := store.New(rdb)

	// 初始化 Repository
	userRepo := repository.NewUserRepository(docStore)
	qrRepo := repository.NewQRRepository(docStore)
	planRepo := repository.NewPlanRepository(docStore)

	// 可选的 OSS 镜像，未配置 endpoint 时关闭
	var uploader service.ImageUploader
	if cfg.OSS.Endpoint != "" {
		ossClient, err := oss.NewClient(&cfg.OSS)
		if err != nil {
			log.Fatalf("Failed to init oss client: %v", err)
		}
		uploader = ossClient
		log.Println("OSS mirror enabled")
	}

	// 初始化 Service
	authService := service.NewAuthService(userRepo, cfg)
	quotaService := service.NewQuotaService(userRepo, planRepo)
	qrService := service.NewQRService(
		qrRepo,
		quotaService,
		qrcode.NewEncoder(cfg.QR.ImageSize),
		email.NewService(&cfg.Email),
		uploader,
	)
	adminService := service.NewAdminService(userRepo, qrRepo)

	// 初始化 Handler
	authHandler := handler.NewAuthHandler(authService)
	qrHandler := handler.NewQRHandler(qrService)
	subscriptionHandler := handler.NewSubscriptionHandler(quotaService)
	adminHandler := handler.NewAdminHandler(adminService)

	// 初始化 Router
	router := api.NewRouter(
		authHandler,
		qrHandler,
		subscriptionHandler,
		adminHandler,
		authService,
		cfg,
	)
	engine := router.Setup()

	// 启动服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := engine.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
