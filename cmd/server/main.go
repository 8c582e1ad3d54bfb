// Package main 是应用程序的入口点。
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"gongu-report-go/internal/config"
	"gongu-report-go/internal/handler"
	"gongu-report-go/internal/middleware"
	"gongu-report-go/internal/pipeline"
	"gongu-report-go/internal/repository"
	"gongu-report-go/internal/service"
	"gongu-report-go/pkg/ai"
	"gongu-report-go/pkg/database"
	"gongu-report-go/pkg/es"
	"gongu-report-go/pkg/kafka"
	"gongu-report-go/pkg/log"
	"gongu-report-go/pkg/ocr"
	"gongu-report-go/pkg/storage"
	"gongu-report-go/pkg/token"
)

func main() {
	// 1. 初始化配置
	config.Init("./configs/config.yaml")
	cfg := config.Conf

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format)
	defer log.Sync()
	log.Info("日志记录器初始化成功")

	// 3. 初始化数据库、Redis 与对象存储
	database.InitMySQL(cfg.Database.MySQL.DSN)
	database.InitRedis(cfg.Database.Redis.Addr, cfg.Database.Redis.Password, cfg.Database.Redis.DB)

	store, err := storage.NewMinioStore(cfg.MinIO)
	if err != nil {
		log.Fatalf("MinIO 初始化失败: %v", err)
	}
	indexer, err := es.NewIndexer(cfg.Elasticsearch)
	if err != nil {
		log.Fatalf("Elasticsearch 初始化失败: %v", err)
	}
	producer := kafka.NewProducer(cfg.Kafka)

	// 4. 初始化 Repository
	userRepo := repository.NewUserRepository(database.DB)
	reportRepo := repository.NewReportRepository(database.DB)
	fileRepo := repository.NewFileRepository(database.DB)
	aiLogRepo := repository.NewAILogRepository(database.DB)
	templateRepo := repository.NewTemplateRepository(database.DB)

	// 5. 初始化 Service (依赖注入)
	jwtManager := token.NewJWTManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpireHours, cfg.JWT.RefreshTokenExpireDays)
	recognizer := ocr.NewRecognizer(cfg.OCR)
	aiClient := ai.NewClient(cfg.AI)

	userService := service.NewUserService(userRepo, jwtManager)
	reportService := service.NewReportService(reportRepo)
	fileService := service.NewFileService(fileRepo, store, producer, indexer, cfg.Upload.Prefix, cfg.Upload.MaxFileSize)
	aiService := service.NewAIService(reportRepo, aiLogRepo, aiClient)
	templateService := service.NewTemplateService(templateRepo)

	// 6. 写入内置的默认报告模板（幂等）
	if err := templateService.SeedDefaults(); err != nil {
		log.Errorf("默认模板初始化失败: %v", err)
	}

	// 7. 启动后台 OCR 消费者
	processor := pipeline.NewProcessor(fileRepo, store, recognizer, indexer)
	go kafka.StartConsumer(cfg.Kafka, processor)

	// 8. 设置 Gin 模式并创建路由引擎
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().Format(time.RFC3339)})
	})

	// 9. 注册路由
	reportHandler := handler.NewReportHandler(reportService)
	fileHandler := handler.NewFileHandler(fileService)
	aiHandler := handler.NewAIHandler(aiService)
	templateHandler := handler.NewTemplateHandler(templateService)
	userHandler := handler.NewUserHandler(userService)
	authRequired := middleware.AuthMiddleware(jwtManager, userService)

	apiV1 := r.Group("/api/v1")
	{
		users := apiV1.Group("/users")
		{
			// 无需认证的路由 (公开访问)
			users.POST("/register", userHandler.Register)
			users.POST("/login", userHandler.Login)
			users.POST("/refresh", userHandler.RefreshToken)

			// 需要认证的路由 (仅限登录用户访问)
			authed := users.Group("/")
			authed.Use(authRequired)
			{
				authed.GET("/me", userHandler.GetProfile)
			}
		}

		// Report 路由组，需要认证
		reports := apiV1.Group("/reports")
		reports.Use(authRequired)
		{
			reports.POST("", reportHandler.CreateReport)
			reports.GET("", reportHandler.ListReports)
			reports.GET("/:id", reportHandler.GetReport)
			reports.PUT("/:id", reportHandler.UpdateReport)
			reports.PUT("/:id/chapters/:chapterType", reportHandler.UpdateChapter)
			reports.DELETE("/:id", reportHandler.DeleteReport)
			reports.GET("/:id/export", reportHandler.ExportReport)
		}

		// File 路由组，需要认证
		files := apiV1.Group("/files")
		files.Use(authRequired)
		{
			files.POST("/upload", fileHandler.UploadFile)
			files.GET("", fileHandler.ListFiles)
			files.GET("/search", fileHandler.SearchFiles)
			files.GET("/:id/ocr", fileHandler.GetOCRResult)
			files.DELETE("/:id", fileHandler.DeleteFile)
		}

		// AI 路由组，需要认证
		aiGroup := apiV1.Group("/ai")
		aiGroup.Use(authRequired)
		{
			aiGroup.POST("/generate/:reportId", aiHandler.GenerateChapter)
			aiGroup.GET("/history/:reportId", aiHandler.ListHistory)
			aiGroup.GET("/templates/:chapterType", aiHandler.GetPromptTemplate)
			aiGroup.POST("/chat", aiHandler.Chat)
		}

		// Template 路由组，需要认证
		templates := apiV1.Group("/templates")
		templates.Use(authRequired)
		{
			templates.GET("/types/available", templateHandler.ListAvailableTypes)
			templates.GET("", templateHandler.ListTemplates)
			templates.GET("/:id", templateHandler.GetTemplate)
			templates.POST("", templateHandler.CreateTemplate)
			templates.PUT("/:id", templateHandler.UpdateTemplate)
			templates.DELETE("/:id", templateHandler.DeleteTemplate)
		}
	}

	// 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP 服务监听失败: %s\n", err)
		}
	}()

	// 等待中断信号以实现优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("HTTP 服务器关闭失败: %v", err)
	}
	log.Info("服务已优雅关闭")
}
