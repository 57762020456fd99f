package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/salescope/lead-insights/internal/auth"
	"github.com/salescope/lead-insights/internal/config"
	"github.com/salescope/lead-insights/internal/database"
	"github.com/salescope/lead-insights/internal/handler"
	"github.com/salescope/lead-insights/internal/llm"
	middlewarepkg "github.com/salescope/lead-insights/internal/middleware"
	"github.com/salescope/lead-insights/internal/repository"
	"github.com/salescope/lead-insights/internal/router"
	"github.com/salescope/lead-insights/internal/service"
	"github.com/salescope/lead-insights/internal/service/analysis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer pool.Close()

	var llmClient llm.Client = llm.Unconfigured{}
	if cfg.GeminiAPIKey != "" {
		gemini, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Fatalf("failed to create llm client: %v", err)
		}
		llmClient = gemini
	} else {
		log.Printf("GEMINI_API_KEY not set; analysis runs will fail until configured")
	}

	var jwtManager *auth.JWTManager
	if cfg.AuthSecret != "" {
		jwtManager = auth.NewJWTManager(cfg.AuthSecret, cfg.TokenTTL)
	}

	leadsRepo := repository.NewPGXLeadsRepository(pool)
	analyzer := analysis.NewAnalyzer(leadsRepo, llmClient)
	scheduler := analysis.NewScheduler(cfg.AnalysisTimeout)
	leadsService := service.NewLeadsService(leadsRepo, analyzer, scheduler)
	leadsHandler := handler.NewLeadsHandler(leadsService)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())

	router.Register(e, cfg, jwtManager, router.Handlers{Leads: leadsHandler})

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
	if err := scheduler.Shutdown(shutdownCtx); err != nil {
		log.Printf("analysis jobs still in flight at shutdown: %v", err)
	}
}
