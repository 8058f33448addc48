package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"baketrack/internal/config"
	cronrunner "baketrack/internal/cron"
	"baketrack/internal/db"
	"baketrack/internal/handler"
	"baketrack/internal/logger"
	gormrepository "baketrack/internal/repository/gorm"
	"baketrack/internal/service"

	_ "baketrack/docs"
)

func main() {
	cfgPath := os.Getenv("BT_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("BT_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		logger.Warn("failed to set timezone", zap.Error(err))
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	store := gormrepository.New(dbConn.Gorm)
	auditSvc := &service.AuditService{Repo: store, Logger: logger}
	balanceSvc := &service.BalanceService{Repo: store, Logger: logger}
	registrySvc := &service.RegistryService{Repo: store, Logger: logger, Audit: auditSvc}
	productionSvc := &service.ProductionService{
		Repo:    store,
		Balance: balanceSvc,
		Logger:  logger,
		Audit:   auditSvc,
	}
	eventSvc := &service.EventService{
		Repo:           store,
		Balance:        balanceSvc,
		Logger:         logger,
		Audit:          auditSvc,
		IdempotencyTTL: cfg.Idempotency.TTL,
	}
	sideProductSvc := &service.SideProductService{Repo: store, Logger: logger, Audit: auditSvc}
	snapshotSvc := &service.SnapshotService{Repo: store, Balance: balanceSvc, Logger: logger}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())

	healthHandler := &handler.HealthHandler{DB: dbConn.Gorm}
	healthHandler.Register(engine)
	handler.RegisterDocs(engine)
	registryHandler := &handler.RegistryHandler{Repo: store, Service: registrySvc}
	registryHandler.Register(engine)
	balanceHandler := &handler.BalanceHandler{Service: balanceSvc}
	balanceHandler.Register(engine)
	productionHandler := &handler.ProductionHandler{Repo: store, Service: productionSvc}
	productionHandler.Register(engine)
	eventHandler := &handler.EventHandler{Repo: store, Service: eventSvc}
	eventHandler.Register(engine)
	sideProductHandler := &handler.SideProductHandler{Repo: store, Service: sideProductSvc}
	sideProductHandler.Register(engine)
	dashboardHandler := &handler.DashboardHandler{Repo: store, Balance: balanceSvc}
	dashboardHandler.Register(engine)
	snapshotHandler := &handler.SnapshotHandler{Repo: store}
	snapshotHandler.Register(engine)
	auditHandler := &handler.AuditHandler{Repo: store}
	auditHandler.Register(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Cron.Enabled {
		cronRunner := cronrunner.New(logger, ctx)
		if cfg.Snapshot.Enabled {
			_, err = cronRunner.Add(cfg.Cron.Snapshot, func(ctx context.Context) {
				if err := snapshotSvc.Capture(ctx); err != nil {
					logger.Warn("stock snapshot failed", zap.Error(err))
				}
			})
			if err != nil {
				logger.Warn("cron register snapshot failed", zap.Error(err))
			}
		}
		_, err = cronRunner.Add(cfg.Cron.IdempotencyCleanup, func(ctx context.Context) {
			n, err := store.DeleteExpiredIdempotencyKeys(ctx, time.Now().UTC())
			if err != nil {
				logger.Warn("delete expired idempotency keys failed", zap.Error(err))
				return
			}
			if n > 0 {
				logger.Info("deleted expired idempotency keys", zap.Int64("count", n))
			}
		})
		if err != nil {
			logger.Warn("cron register idempotency cleanup failed", zap.Error(err))
		}
		cronRunner.Start()
		defer cronRunner.Stop()
	}

	errCh := make(chan error, 2)

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization,Idempotency-Key")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
