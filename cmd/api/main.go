package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/propelhq/proposal-api/docs"
	"github.com/propelhq/proposal-api/internal/config"
	"github.com/propelhq/proposal-api/internal/database"
	"github.com/propelhq/proposal-api/internal/http/handler"
	"github.com/propelhq/proposal-api/internal/http/middleware"
	"github.com/propelhq/proposal-api/internal/http/router"
	"github.com/propelhq/proposal-api/internal/jobs"
	"github.com/propelhq/proposal-api/internal/logger"
	"github.com/propelhq/proposal-api/internal/pdf"
	"github.com/propelhq/proposal-api/internal/render"
	"github.com/propelhq/proposal-api/internal/repository"
	"github.com/propelhq/proposal-api/internal/service"
	"github.com/propelhq/proposal-api/internal/textgen"
)

// @title Proposal API
// @version 1.0
// @description API for assembling commercial proposals from reusable content blocks and rendering them as paginated documents

// @contact.name API Support
// @contact.email support@propel.example

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&cfg.Logging, &cfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Environment),
		zap.Int("port", cfg.App.Port),
	)

	docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", cfg.App.Port)

	// Connect to database
	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Initialize repositories
	blockRepo := repository.NewBlockRepository(db)
	proposalRepo := repository.NewProposalRepository(db)
	sectionRepo := repository.NewSectionRepository(db)
	proposalBlockRepo := repository.NewProposalBlockRepository(db)
	paymentTermRepo := repository.NewPaymentTermRepository(db)

	// Initialize rendering pipeline
	contact := render.ContactInfo{
		CompanyName: cfg.Contact.CompanyName,
		Email:       cfg.Contact.Email,
		Phone:       cfg.Contact.Phone,
		Address:     cfg.Contact.Address,
		Website:     cfg.Contact.Website,
	}
	previewRenderer := render.NewPreviewRenderer(contact)
	staticRenderer, err := render.NewStaticRenderer(contact)
	if err != nil {
		return fmt.Errorf("failed to initialize static renderer: %w", err)
	}
	pdfBackend := pdf.NewChromeBackend(pdf.Config{
		RenderTimeout: cfg.PDF.RenderTimeoutDuration(),
		ChromePath:    cfg.PDF.ChromePath,
	}, log)

	// Initialize text generation client
	generator := textgen.NewClient(textgen.Config{
		BaseURL: cfg.TextGen.BaseURL,
		APIKey:  cfg.TextGen.APIKey,
		Model:   cfg.TextGen.Model,
		Timeout: cfg.TextGen.TimeoutDuration(),
	})

	// Initialize services
	blockService := service.NewBlockService(blockRepo, proposalBlockRepo, log)
	proposalService := service.NewProposalService(proposalRepo, sectionRepo, proposalBlockRepo, paymentTermRepo, blockRepo, log)
	introductionService := service.NewIntroductionService(generator, proposalService, log)
	renderService := service.NewRenderService(proposalService, previewRenderer, staticRenderer, pdfBackend, log)

	// Initialize middleware and handlers
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)
	blockHandler := handler.NewBlockHandler(blockService, log)
	proposalHandler := handler.NewProposalHandler(proposalService, introductionService, log)
	renderHandler := handler.NewRenderHandler(renderService, log)

	rt := router.NewRouter(
		cfg,
		log,
		db,
		rateLimiter,
		blockHandler,
		proposalHandler,
		renderHandler,
	)

	// Start scheduler with the proposal expiry sweep
	scheduler := jobs.NewScheduler(log)
	if err := jobs.RegisterExpiryJob(
		scheduler,
		proposalService,
		log,
		cfg.Jobs.ExpirySchedule,
		5*time.Minute,
	); err != nil {
		log.Error("Failed to register expiry job", zap.Error(err))
	} else {
		scheduler.Start()
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		ctx := scheduler.Stop()
		<-ctx.Done()
		log.Info("Scheduler stopped")

		// Graceful shutdown with timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
