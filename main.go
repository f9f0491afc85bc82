package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fittrack/backend/internal/azure"
	"github.com/fittrack/backend/internal/cache"
	"github.com/fittrack/backend/internal/config"
	"github.com/fittrack/backend/internal/handler"
	"github.com/fittrack/backend/internal/pdf"
	"github.com/fittrack/backend/internal/repository"
	"github.com/fittrack/backend/internal/security"
	"github.com/fittrack/backend/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize Zap logger
	var logger *zap.Logger
	if cfg.Server.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("Configuration loaded successfully",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("language", cfg.Assistant.Language),
	)

	// Optional at-rest encryption for the profile document
	var encryptor *security.Encryptor
	if key, _ := cfg.EncryptionKey(); key != nil {
		encryptor, err = security.NewEncryptor(key)
		if err != nil {
			logger.Fatal("Failed to initialize document encryption", zap.Error(err))
		}
		logger.Info("Document encryption at rest enabled")
	}

	// Open the local document store
	repo, err := repository.NewProfileRepository(
		cfg.Storage.DatabasePath,
		cfg.Storage.DocumentKey,
		encryptor,
		logger,
	)
	if err != nil {
		logger.Fatal("Failed to open document store", zap.Error(err))
	}
	defer repo.Close()

	// Initialize Azure clients
	openAIClient, err := azure.NewOpenAIClient(
		cfg.Azure.OpenAI.Endpoint,
		cfg.Azure.OpenAI.APIKey,
		cfg.Azure.OpenAI.Deployment,
		logger,
	)
	if err != nil {
		logger.Fatal("Failed to initialize Azure OpenAI client", zap.Error(err))
	}

	// Speech and blob storage are optional capabilities
	var speechClient *azure.SpeechServiceClient
	if cfg.SpeechEnabled() {
		speechClient, err = azure.NewSpeechServiceClient(
			cfg.Azure.Speech.SubscriptionKey,
			cfg.Azure.Speech.Region,
			cfg.Assistant.Language,
			logger,
		)
		if err != nil {
			logger.Fatal("Failed to initialize Azure Speech Service client", zap.Error(err))
		}
	} else {
		logger.Info("Speech service not configured, dictation disabled")
	}

	var blobClient azure.BlobStorage
	if cfg.BlobEnabled() {
		client, err := azure.NewBlobStorageClient(
			cfg.Azure.Blob.AccountName,
			cfg.Azure.Blob.AccountKey,
			cfg.Azure.Blob.Container,
			logger,
		)
		if err != nil {
			logger.Fatal("Failed to initialize Azure Blob Storage client", zap.Error(err))
		}
		blobClient = client
	} else {
		logger.Info("Blob storage not configured, photos stay inline and reports are not archived")
	}

	// Initialize services
	tracker, err := service.NewTrackerService(context.Background(), repo, logger)
	if err != nil {
		logger.Fatal("Failed to initialize tracker", zap.Error(err))
	}

	planner := service.NewMealPlannerService(openAIClient, tracker, cfg.Assistant.Language, logger)

	coach := service.NewCoachService(
		openAIClient,
		tracker,
		cache.NewMessageCache(),
		cfg.Assistant.MotivationTTL,
		cfg.Assistant.Language,
		logger,
	)

	var transcriber service.Transcriber
	if speechClient != nil {
		transcriber = speechClient
	}
	dictation := service.NewDictationService(transcriber, logger)

	reports := service.NewReportService(tracker, pdf.NewPDFGenerator(logger), blobClient, logger)

	// Initialize handlers
	handlers := handler.Handlers{
		Profile:   handler.NewProfileHandler(tracker, logger),
		Tracker:   handler.NewTrackerHandler(tracker, logger),
		Library:   handler.NewLibraryHandler(tracker, blobClient, logger),
		Nutrition: handler.NewNutritionHandler(planner, logger),
		Coach:     handler.NewCoachHandler(coach, logger),
		Dictation: handler.NewDictationHandler(dictation, logger),
		Report:    handler.NewReportHandler(reports, logger),
	}

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := handler.SetupRouter(handlers, repo.DB(), logger)

	// Start server with graceful shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
