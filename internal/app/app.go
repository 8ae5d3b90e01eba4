package app

import (
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/sahamlabs/emiten/internal/common"
	"github.com/sahamlabs/emiten/internal/handlers"
	"github.com/sahamlabs/emiten/internal/interfaces"
	"github.com/sahamlabs/emiten/internal/services/articles"
	"github.com/sahamlabs/emiten/internal/services/filings"
	"github.com/sahamlabs/emiten/internal/services/llm"
	"github.com/sahamlabs/emiten/internal/services/metadata"
	"github.com/sahamlabs/emiten/internal/services/pdf"
	"github.com/sahamlabs/emiten/internal/services/reference"
	"github.com/sahamlabs/emiten/internal/services/subscriptions"
	badgerstorage "github.com/sahamlabs/emiten/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager interfaces.StorageManager

	// Reference data (sectors, company directory)
	ReferenceService *reference.Service

	// LLM chain and the structured model on top of it
	LLMCollection *llm.Collection
	Model         *llm.Model

	// Domain services
	MetadataExtractor   interfaces.MetadataExtractor
	FilingService       *filings.Service
	ArticleService      *articles.Service
	PDFService          *pdf.Service
	SubscriptionService *subscriptions.Service

	// HTTP handlers
	APIHandler           *handlers.APIHandler
	FilingsHandler       *handlers.FilingsHandler
	ArticlesHandler      *handlers.ArticlesHandler
	SubscriptionsHandler *handlers.SubscriptionsHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	// Initialize database
	storageManager, err := badgerstorage.NewManager(logger, &cfg.Storage.Badger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	app.StorageManager = storageManager

	// Reference data with scheduled refresh
	refService, err := reference.NewService(cfg.Reference, logger)
	if err != nil {
		storageManager.Close()
		return nil, fmt.Errorf("failed to load reference data: %w", err)
	}
	app.ReferenceService = refService

	// LLM provider chain. API keys stored in the KV store take priority
	// over config/env. An empty chain is not fatal; generation endpoints
	// return errors while ingest keeps working.
	kv := storageManager.KeyValueStorage()
	cfg.Claude.APIKey = common.ResolveAPIKey(kv, "anthropic_api_key", cfg.Claude.APIKey)
	cfg.Gemini.APIKey = common.ResolveAPIKey(kv, "gemini_api_key", cfg.Gemini.APIKey)
	app.LLMCollection = llm.NewCollectionFromConfig(cfg, logger)
	app.Model = llm.NewModel(app.LLMCollection, logger)

	app.MetadataExtractor = metadata.NewExtractor(cfg.Metadata, logger)

	// Filings pipeline
	normalizer := filings.NewNormalizer(refService)
	app.FilingService = filings.NewService(
		storageManager.FilingStorage(),
		storageManager.NewsStorage(),
		normalizer,
		app.Model,
		logger,
	)

	// Articles pipeline
	app.ArticleService = articles.NewService(
		storageManager.NewsStorage(),
		refService,
		app.MetadataExtractor,
		app.Model,
		app.Model,
		logger,
	)

	// PDF parse pipeline
	app.PDFService = pdf.NewService(pdf.NewExtractor(logger), app.Model, logger)

	// Topic subscriptions
	app.SubscriptionService = subscriptions.NewService(kv, logger)

	// HTTP handlers
	app.APIHandler = handlers.NewAPIHandler()
	app.FilingsHandler = handlers.NewFilingsHandler(app.FilingService, app.PDFService, logger)
	app.ArticlesHandler = handlers.NewArticlesHandler(app.ArticleService, logger)
	app.SubscriptionsHandler = handlers.NewSubscriptionsHandler(app.SubscriptionService, logger)

	logger.Info().
		Int("port", cfg.Server.Port).
		Str("storage", cfg.Storage.Badger.Path).
		Msg("Application initialized")

	return app, nil
}

// Close closes all application resources
func (a *App) Close() error {
	var firstErr error

	if a.ReferenceService != nil {
		a.ReferenceService.Stop()
	}

	if a.LLMCollection != nil {
		if err := a.LLMCollection.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close LLM providers")
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close storage")
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}
