// File: main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/git-Adi/agenticAI-Travel/config"
	"github.com/git-Adi/agenticAI-Travel/cron"
	"github.com/git-Adi/agenticAI-Travel/handlers"
	"github.com/git-Adi/agenticAI-Travel/middleware"
	"github.com/git-Adi/agenticAI-Travel/routes"
	"github.com/git-Adi/agenticAI-Travel/services/flights"
	ai "github.com/git-Adi/agenticAI-Travel/services/intelligence"
	"github.com/git-Adi/agenticAI-Travel/services/planner"
	"github.com/git-Adi/agenticAI-Travel/utils"
	"github.com/git-Adi/agenticAI-Travel/web"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: failed to load config: %v", err)
	}
	logger := utils.InitializeLogger(cfg.IsProduction(), cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("main: invalid configuration", zap.Error(err))
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.SerpAPIKey == "" {
		logger.Warn("SERPAPI_API_KEY is not set; flight search is disabled and agents run without web search")
	}

	var cacheClient *redis.Client
	if cfg.RedisEnabled() {
		cacheClient, err = utils.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisCacheDB)
		if err != nil {
			logger.Fatal("main: failed to connect to redis", zap.Error(err))
		}
	} else {
		logger.Info("REDIS_ADDR is not set; using in-memory plan store, async generation disabled")
	}

	// flight search: provider client, throttled, then cached.
	var searcher flights.Searcher = flights.NewClient(flights.ClientConfig{
		APIKey:     cfg.SerpAPIKey,
		BaseURL:    cfg.SerpAPIBaseURL,
		Currency:   cfg.FlightCurrency,
		Locale:     cfg.FlightLocale,
		Timeout:    cfg.FlightTimeout(),
		MaxRetries: cfg.FlightMaxRetries,
		Logger:     logger,
	})
	if cfg.FlightRatePerSecond > 0 {
		searcher = flights.NewRateLimitedSearcher(searcher, rate.NewLimiter(rate.Limit(cfg.FlightRatePerSecond), 1))
	}
	if cacheClient != nil && cfg.FlightCacheTTLSeconds > 0 {
		searcher = flights.NewCachedSearcher(searcher, cacheClient, cfg.FlightCacheTTL(), cfg.FlightCurrency, cfg.FlightLocale, logger)
	}

	gemini, err := ai.NewGeminiClient(context.Background(), cfg.GeminiKey(), cfg.GeminiModel, cfg.GeminiTemperature, cfg.AgentMaxToolCalls, logger)
	if err != nil {
		logger.Fatal("main: failed to initialize gemini client", zap.Error(err))
	}
	tools := ai.DefaultTools(cfg.SerpAPIKey, cfg.SerpAPIBaseURL, &http.Client{Timeout: cfg.FlightTimeout()})
	agents := ai.NewTravelAgents(gemini,
		ai.WithTools(tools),
		ai.WithTimeout(cfg.AgentTimeout()),
		ai.WithLogger(logger),
	)

	dep := planner.Dependency{
		Flights:    searcher,
		Requesters: planner.FromAgents(agents),
		Store:      planner.NewMemoryPlanStore(cfg.PlanTTL()),
		Concurrent: cfg.PlannerConcurrent,
		Logger:     logger,
	}
	var queue *asynq.Client
	if cacheClient != nil {
		dep.Store = planner.NewRedisPlanStore(cacheClient, cfg.PlanTTL())
		queue = asynq.NewClient(cron.RedisOpt(cfg))
		dep.Queue = queue
	}
	planSvc := planner.NewService(dep)

	var worker *cron.PlanWorker
	if queue != nil {
		worker = cron.NewPlanWorker(cfg, planSvc, logger)
		worker.Start()
	}

	monitorCtx, stopMonitor := context.WithCancel(context.Background())
	health := utils.NewHealthMonitor(cacheClient, cfg.GeminiKey() != "", cfg.SerpAPIKey != "")
	health.Start(monitorCtx)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))
	router.SetHTMLTemplate(web.Templates())

	handlerBundle := handlers.NewHandlerBundle(
		handlers.NewPlannerHandler(planSvc, cfg.SupportEmail),
		handlers.NewHealthHandler(health),
	)
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}

	stopMonitor()
	if worker != nil {
		worker.Shutdown()
	}
	if queue != nil {
		if err := queue.Close(); err != nil {
			logger.Warn("main: failed to close task queue", zap.Error(err))
		}
	}
	if cacheClient != nil {
		if err := cacheClient.Close(); err != nil {
			logger.Warn("main: failed to close redis", zap.Error(err))
		}
	}
	if err := gemini.Close(); err != nil {
		logger.Warn("main: failed to close gemini client", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
