package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/bullet2theh3ad/bdi-business-portal/internal/config"
	cpfrentity "github.com/bullet2theh3ad/bdi-business-portal/internal/cpfr/entity"
	cpfrhandler "github.com/bullet2theh3ad/bdi-business-portal/internal/cpfr/handler"
	cpfrrepo "github.com/bullet2theh3ad/bdi-business-portal/internal/cpfr/repository"
	cpfrsvc "github.com/bullet2theh3ad/bdi-business-portal/internal/cpfr/service"
	financeentity "github.com/bullet2theh3ad/bdi-business-portal/internal/finance/entity"
	financehandler "github.com/bullet2theh3ad/bdi-business-portal/internal/finance/handler"
	financerepo "github.com/bullet2theh3ad/bdi-business-portal/internal/finance/repository"
	financesvc "github.com/bullet2theh3ad/bdi-business-portal/internal/finance/service"
	"github.com/bullet2theh3ad/bdi-business-portal/internal/middleware"
	orgentity "github.com/bullet2theh3ad/bdi-business-portal/internal/org/entity"
	orghandler "github.com/bullet2theh3ad/bdi-business-portal/internal/org/handler"
	orgrepo "github.com/bullet2theh3ad/bdi-business-portal/internal/org/repository"
	orgsvc "github.com/bullet2theh3ad/bdi-business-portal/internal/org/service"
	"github.com/bullet2theh3ad/bdi-business-portal/internal/shared/mailer"
	"github.com/bullet2theh3ad/bdi-business-portal/internal/shared/storage"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// 加载 .env 文件
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化日志
	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting bdi-portal service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	// 初始化数据库
	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// AutoMigrate 组织域
	if err := db.AutoMigrate(
		&orgentity.Organization{},
		&orgentity.User{},
		&orgentity.Invitation{},
	); err != nil {
		zapLogger.Warn("AutoMigrate org tables warning", zap.Error(err))
	}

	// AutoMigrate CPFR域
	if err := db.AutoMigrate(
		&cpfrentity.ProductSKU{},
		&cpfrentity.SalesForecast{},
		&cpfrentity.PurchaseOrder{},
		&cpfrentity.POLineItem{},
		&cpfrentity.Shipment{},
	); err != nil {
		zapLogger.Warn("AutoMigrate CPFR tables warning", zap.Error(err))
	}

	// AutoMigrate 财务域
	if err := db.AutoMigrate(
		&financeentity.Invoice{},
		&financeentity.InvoiceLineItem{},
		&financeentity.InvoiceDocument{},
	); err != nil {
		zapLogger.Warn("AutoMigrate finance tables warning", zap.Error(err))
	}

	// 增量迁移（AutoMigrate覆盖不到的索引和约束，保持幂等）
	migrationSQL := []string{
		"CREATE INDEX IF NOT EXISTS idx_sales_forecasts_org_week ON sales_forecasts(org_id, delivery_week)",
		"CREATE INDEX IF NOT EXISTS idx_sales_forecasts_sku ON sales_forecasts(sku_id)",
		"CREATE INDEX IF NOT EXISTS idx_shipments_forecast ON shipments(forecast_id)",
		"CREATE INDEX IF NOT EXISTS idx_po_line_items_po ON purchase_order_line_items(po_id)",
		"CREATE INDEX IF NOT EXISTS idx_invoice_line_items_invoice ON invoice_line_items(invoice_id)",
		"CREATE INDEX IF NOT EXISTS idx_invitations_email ON organization_invitations(invited_email)",
		"ALTER TABLE sales_forecasts DROP CONSTRAINT IF EXISTS sales_forecasts_status_check",
		"ALTER TABLE sales_forecasts ADD CONSTRAINT sales_forecasts_status_check CHECK (status IN ('draft', 'submitted', 'approved', 'committed', 'cancelled'))",
	}
	for _, sql := range migrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			zapLogger.Warn("Migration warning", zap.String("sql", sql), zap.Error(err))
		}
	}
	zapLogger.Info("Database migration completed")

	// 初始化Redis
	rdb := initRedis(cfg.Redis)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		zapLogger.Warn("Redis not reachable, caching disabled", zap.Error(err))
	}

	// 初始化对象存储（发票文档用）
	var store *storage.ObjectStore
	if cfg.MinIO.Endpoint != "" {
		store, err = storage.New(context.Background(), storage.Config{
			Endpoint:  cfg.MinIO.Endpoint,
			AccessKey: cfg.MinIO.AccessKey,
			SecretKey: cfg.MinIO.SecretKey,
			Bucket:    cfg.MinIO.Bucket,
			UseSSL:    cfg.MinIO.UseSSL,
		})
		if err != nil {
			zapLogger.Fatal("Failed to init object storage", zap.Error(err))
		}
		zapLogger.Info("Object storage initialized", zap.String("bucket", cfg.MinIO.Bucket))
	}

	// 初始化邮件客户端
	var mail *mailer.Client
	if cfg.Mail.APIKey != "" {
		mail = mailer.New(mailer.Config{
			APIKey:  cfg.Mail.APIKey,
			From:    cfg.Mail.From,
			BaseURL: cfg.Mail.BaseURL,
		})
		if cfg.Mail.PortalURL != "" {
			mailer.PortalURL = cfg.Mail.PortalURL
		}
		zapLogger.Info("Mailer initialized")
	}

	// === CPFR模块 ===
	cpfrRepos := cpfrrepo.NewRepositories(db)
	cpfrServices := cpfrsvc.NewServices(cpfrRepos, rdb, zapLogger)
	if mail != nil {
		cpfrServices.Forecast.SetMailer(mail)
	}
	cpfrHandlers := cpfrhandler.NewHandlers(cpfrServices)

	// === 财务模块 ===
	invoiceRepo := financerepo.NewInvoiceRepository(db)
	invoiceSvc := financesvc.NewInvoiceService(invoiceRepo, store, zapLogger)
	invoiceHandler := financehandler.NewInvoiceHandler(invoiceSvc)

	// === 组织模块 ===
	orgRepos := orgrepo.NewRepositories(db)
	orgServices := orgsvc.NewServices(orgRepos, rdb, cfg, zapLogger)
	if mail != nil {
		orgServices.Invitation.SetMailer(mail)
	}
	orgHandlers := orghandler.NewHandlers(orgServices)

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建路由
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// 注册路由
	registerRoutes(router, cfg, cpfrHandlers, invoiceHandler, orgHandlers)

	// 创建HTTP服务器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 启动服务器
	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func registerRoutes(
	r *gin.Engine,
	cfg *config.Config,
	cpfrH *cpfrhandler.Handlers,
	invoiceH *financehandler.InvoiceHandler,
	orgH *orghandler.Handlers,
) {
	// 健康检查
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 版本信息
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	// API v1
	v1 := r.Group("/api/v1")
	{
		// 认证 (无需登录)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", orgH.Auth.Login)
			auth.POST("/refresh", orgH.Auth.Refresh)
		}

		// 邀请接受（凭令牌，无需登录）
		v1.POST("/org/invitations/accept", orgH.Invitation.AcceptInvitation)

		// 需要认证的接口
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(cfg.JWT.Secret))
		{
			// 当前用户
			authorized.GET("/auth/me", orgH.Auth.Me)
			authorized.POST("/auth/logout", orgH.Auth.Logout)

			// 组织管理
			org := authorized.Group("/org")
			{
				org.GET("/organizations", orgH.Org.ListOrgs)
				org.GET("/organizations/:id", orgH.Org.GetOrg)
				org.POST("/organizations", middleware.RequireRole("admin"), orgH.Org.CreateOrg)
				org.PUT("/organizations/:id", middleware.RequireRole("admin"), orgH.Org.UpdateOrg)
				org.GET("/organizations/:id/members", orgH.Org.ListMembers)
				org.GET("/organizations/:id/invitations", orgH.Invitation.ListInvitations)
				org.POST("/invitations", middleware.RequireRole("admin"), orgH.Invitation.CreateInvitation)
				org.POST("/invitations/:id/revoke", middleware.RequireRole("admin"), orgH.Invitation.RevokeInvitation)
			}

			// CPFR
			cpfr := authorized.Group("/cpfr")
			{
				// SKU主数据
				skus := cpfr.Group("/skus")
				{
					skus.GET("", cpfrH.SKU.ListSKUs)
					skus.GET("/export", cpfrH.SKU.ExportSKUs)
					skus.GET("/:id", cpfrH.SKU.GetSKU)
					skus.POST("", cpfrH.SKU.CreateSKU)
					skus.PUT("/:id", cpfrH.SKU.UpdateSKU)
					skus.DELETE("/:id", cpfrH.SKU.DeleteSKU)
				}

				// 销售预测
				forecasts := cpfr.Group("/forecasts")
				{
					forecasts.GET("", cpfrH.Forecast.ListForecasts)
					forecasts.GET("/at-risk", cpfrH.Forecast.ListAtRisk)
					forecasts.GET("/export", cpfrH.Forecast.ExportForecasts)
					forecasts.POST("/send-action-items", cpfrH.Forecast.SendActionItems)
					forecasts.GET("/:id", cpfrH.Forecast.GetForecast)
					forecasts.POST("", cpfrH.Forecast.CreateForecast)
					forecasts.PUT("/:id", cpfrH.Forecast.UpdateForecast)
					forecasts.POST("/:id/submit", cpfrH.Forecast.SubmitForecast)
					forecasts.POST("/:id/cancel", cpfrH.Forecast.CancelForecast)
					forecasts.PATCH("/:id/signals", cpfrH.Forecast.UpdateSignals)
					forecasts.DELETE("/:id", cpfrH.Forecast.DeleteForecast)
				}

				// 交付时间线
				timeline := cpfr.Group("/timeline")
				{
					timeline.POST("/preview", cpfrH.Timeline.PreviewTimeline)
					timeline.POST("/planning-weeks", cpfrH.Timeline.PlanningWeeks)
					timeline.POST("/scenario", cpfrH.Timeline.CompareScenario)
				}
				cpfr.GET("/shipping-methods", cpfrH.Timeline.ListShippingMethods)

				// 采购订单
				pos := cpfr.Group("/purchase-orders")
				{
					pos.GET("", cpfrH.PO.ListPOs)
					pos.GET("/:id", cpfrH.PO.GetPO)
					pos.POST("", cpfrH.PO.CreatePO)
					pos.PUT("/:id", cpfrH.PO.UpdatePO)
					pos.POST("/:id/submit", cpfrH.PO.SubmitPO)
					pos.POST("/:id/approve", middleware.RequireRole("admin"), cpfrH.PO.ApprovePO)
					pos.POST("/:id/send", cpfrH.PO.SendPO)
					pos.POST("/:id/cancel", cpfrH.PO.CancelPO)
					pos.DELETE("/:id", cpfrH.PO.DeletePO)
				}

				// 货运
				shipments := cpfr.Group("/shipments")
				{
					shipments.GET("", cpfrH.Shipment.ListShipments)
					shipments.GET("/:id", cpfrH.Shipment.GetShipment)
					shipments.POST("", cpfrH.Shipment.CreateShipment)
					shipments.PUT("/:id", cpfrH.Shipment.UpdateShipment)
					shipments.POST("/:id/ship", cpfrH.Shipment.MarkShipped)
					shipments.POST("/:id/arrive", cpfrH.Shipment.MarkArrived)
					shipments.POST("/:id/deliver", cpfrH.Shipment.MarkDelivered)
					shipments.POST("/:id/cancel", cpfrH.Shipment.CancelShipment)
				}
			}

			// 财务
			finance := authorized.Group("/finance")
			{
				invoices := finance.Group("/invoices")
				{
					invoices.GET("", invoiceH.ListInvoices)
					invoices.GET("/export", invoiceH.ExportInvoices)
					invoices.GET("/:id", invoiceH.GetInvoice)
					invoices.POST("", invoiceH.CreateInvoice)
					invoices.POST("/:id/submit", invoiceH.SubmitInvoice)
					invoices.POST("/:id/approve", middleware.RequireRole("admin"), invoiceH.ApproveInvoice)
					invoices.POST("/:id/reject", middleware.RequireRole("admin"), invoiceH.RejectInvoice)
					invoices.POST("/:id/paid", invoiceH.MarkInvoicePaid)
					invoices.DELETE("/:id", invoiceH.DeleteInvoice)
					invoices.POST("/:id/documents", invoiceH.UploadDocument)
					invoices.GET("/documents/url", invoiceH.GetDocumentURL)
				}
			}
		}
	}
}
