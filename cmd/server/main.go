package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"github.com/simaogato/stockwise-backend/internal/adapter/cache"
	"github.com/simaogato/stockwise-backend/internal/adapter/feed"
	grpcadapter "github.com/simaogato/stockwise-backend/internal/adapter/grpc"
	httpadapter "github.com/simaogato/stockwise-backend/internal/adapter/http"
	"github.com/simaogato/stockwise-backend/internal/adapter/repository/memory"
	"github.com/simaogato/stockwise-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/stockwise-backend/internal/config"
	"github.com/simaogato/stockwise-backend/internal/domain"
	"github.com/simaogato/stockwise-backend/internal/usecase/blog"
	"github.com/simaogato/stockwise-backend/internal/usecase/calculator"
	"github.com/simaogato/stockwise-backend/internal/usecase/news"
	"github.com/simaogato/stockwise-backend/internal/usecase/scheduler"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logger.SetLevel(cfg.LogLevel)

	ctx := context.Background()

	// 1. Setup storage
	var (
		simulationRepo domain.SimulationRepository
		postRepo       domain.PostRepository
	)
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db := connectPostgres(ctx, cfg.DBConnStr, logger)
		defer db.Close()

		simulationRepo = postgres.NewSimulationRepository(db)
		postRepo = postgres.NewPostRepository(db)
	default:
		simulationRepo = memory.NewSimulationRepository(cfg.HistoryLimit)
		postRepo = memory.NewPostRepository()
	}
	logger.WithField("driver", cfg.StorageDriver).Info("storage ready")

	// 2. Setup result cache
	var resultCache domain.ResultCache
	if cfg.RedisAddr != "" {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		redisCache, err := cache.NewRedisCache(pingCtx, cfg.RedisAddr, cfg.CacheTTL)
		cancel()
		if err != nil {
			logger.Fatalf("Failed to connect to redis: %v", err)
		}
		defer redisCache.Close()
		resultCache = redisCache
	} else {
		resultCache = cache.NewMemoryCache(cfg.CacheSize, cfg.CacheTTL)
	}

	// 3. Initialize Services (Use Cases)
	calculatorService := calculator.NewCalculatorService(simulationRepo, resultCache, logger, cfg.MaxYears)

	var postSource domain.PostSource
	if cfg.PostsURL != "" {
		postSource = feed.NewPostIndex(cfg.PostsURL)
	}
	blogService := blog.NewBlogService(postRepo, postSource, logger)
	newsService := news.NewNewsService(feed.NewRSSReader(), cfg.NewsFeeds, logger)

	// The page shows a result before any input, so calculate the defaults once
	if _, err := calculatorService.Calculate(ctx, calculator.DefaultForm(), cfg.DefaultLocale); err != nil {
		logger.Fatalf("Failed to calculate defaults: %v", err)
	}
	logger.Info("Default calculation completed")

	// 4. Schedule refresh of posts and headlines
	sched := scheduler.New(logger, 0)
	tasks := []scheduler.Task{
		{Name: "posts", Run: func(ctx context.Context) error {
			_, err := blogService.Refresh(ctx)
			return err
		}},
		{Name: "news", Run: func(ctx context.Context) error {
			_, err := newsService.Refresh(ctx)
			return err
		}},
	}
	for _, task := range tasks {
		if err := sched.Add(cfg.RefreshSchedule, task); err != nil {
			logger.Fatalf("Failed to schedule %s: %v", task.Name, err)
		}
	}
	sched.RunNow(ctx)
	sched.Start()

	// 5. Start gRPC Server
	grpcServer := grpclib.NewServer(
		grpclib.ChainUnaryInterceptor(
			grpcadapter.LoggingInterceptor(logger),
			grpcadapter.AuthInterceptor(cfg.APIToken, grpcadapter.MethodListPosts),
		),
	)
	grpcadapter.RegisterCalculatorServiceServer(grpcServer, grpcadapter.NewServer(calculatorService, blogService, cfg.DefaultLocale))
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		logger.Fatalf("Failed to listen on %s: %v", cfg.GRPCAddr, err)
	}

	go func() {
		logger.Infof("gRPC server listening on %s", cfg.GRPCAddr)
		if err := grpcServer.Serve(lis); err != nil {
			logger.Fatalf("Failed to serve gRPC server: %v", err)
		}
	}()

	// 6. Start HTTP Server
	handler := httpadapter.NewHandler(calculatorService, blogService, newsService, cfg.DefaultLocale)
	httpServer := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpadapter.NewRouter(handler, cfg.JWTSecret, logger),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("HTTP server listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Graceful shutdown
	waitForShutdown(logger, grpcServer, httpServer, sched)
}

// connectPostgres retries while the database starts up, then applies the schema
func connectPostgres(ctx context.Context, connStr string, logger logrus.FieldLogger) *postgres.DB {
	var (
		db  *postgres.DB
		err error
	)
	for attempt := 1; attempt <= 5; attempt++ {
		db, err = postgres.NewDB(ctx, connStr)
		if err == nil {
			break
		}
		logger.WithError(err).WithField("attempt", attempt).Warn("database not ready")
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.EnsureSchema(ctx); err != nil {
		logger.Fatalf("Failed to prepare database: %v", err)
	}
	return db
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the servers
func waitForShutdown(logger logrus.FieldLogger, grpcServer *grpclib.Server, httpServer *http.Server, sched *scheduler.Scheduler) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	logger.Infof("Received signal: %v. Shutting down gracefully...", sig)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.WithError(err).Warn("HTTP server shutdown incomplete")
	}
	logger.Info("HTTP server stopped")

	grpcServer.GracefulStop()
	logger.Info("gRPC server stopped")

	sched.Stop(ctx)
	logger.Info("Scheduler stopped")
}
