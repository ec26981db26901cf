package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/edgeledger/loanintel/internal/config"
	"github.com/edgeledger/loanintel/internal/core/ports"
	"github.com/edgeledger/loanintel/internal/core/usecase"
	"github.com/edgeledger/loanintel/internal/infrastructure/export"
	"github.com/edgeledger/loanintel/internal/infrastructure/extractor/doctext"
	"github.com/edgeledger/loanintel/internal/infrastructure/llm/gemini"
	"github.com/edgeledger/loanintel/internal/infrastructure/queue/nats"
	"github.com/edgeledger/loanintel/internal/infrastructure/repository/failover"
	"github.com/edgeledger/loanintel/internal/infrastructure/repository/postgres"
	"github.com/edgeledger/loanintel/internal/infrastructure/resilience"
	"github.com/edgeledger/loanintel/internal/infrastructure/storage/localfs"
)

type App struct {
	Config config.Config
	Logger *slog.Logger

	Queue   ports.MessageQueue
	Files   ports.FileRepository
	Loans   ports.LoanStore
	Docs    ports.DocumentDataStore
	Storage ports.ObjectStorage

	IngestUC  *usecase.IngestDocumentUseCase
	ProcessUC *usecase.ProcessDocumentUseCase
	ChatUC    *usecase.DocumentChatUseCase
	SearchUC  *usecase.SearchLoansUseCase
	CompareUC *usecase.CompareLoansUseCase
	Exporter  *export.Service

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	loanRepo := postgres.NewLoanRepository(db)
	if err := loanRepo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure loans schema: %w", err)
	}
	fileRepo := postgres.NewFileRepository(db)
	if err := fileRepo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure uploaded_files schema: %w", err)
	}
	docRepo := postgres.NewDocumentDataRepository(db)
	if err := docRepo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure document_data schema: %w", err)
	}

	// Reads keep serving the built-in portfolio when postgres is down.
	loans := failover.NewLoanStore(loanRepo, logger)

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	queueExecCfg := resilience.DefaultConfig()
	queueExecCfg.Logger = logger
	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		Logger:             logger,
		ResilienceExecutor: resilience.NewExecutor(queueExecCfg),
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	analyzer := gemini.New(gemini.Config{
		BaseURL:             cfg.GeminiBaseURL,
		Model:               cfg.GeminiModel,
		APIKey:              cfg.GeminiAPIKey,
		RequestsPerMin:      cfg.GeminiRequestsPerMin,
		MaxAnalysisChars:    cfg.MaxAnalysisChars,
		MaxChatContextChars: cfg.ChatContextChars,
		MarketAvgRate:       cfg.MarketAvgRate,
		Logger:              logger,
	})

	extractor := doctext.NewExtractor(storage)

	ingestUC := usecase.NewIngestDocumentUseCase(fileRepo, storage, queue)
	processUC := usecase.NewProcessDocumentUseCase(fileRepo, loans, docRepo, extractor, analyzer, cfg.MinTextChars)
	chatUC := usecase.NewDocumentChatUseCase(docRepo, analyzer)
	searchUC := usecase.NewSearchLoansUseCase(loans)
	compareUC := usecase.NewCompareLoansUseCase(loans)
	exporter := export.NewService(loans, logger)

	return &App{
		Config: cfg,
		Logger: logger,

		Queue:   queue,
		Files:   fileRepo,
		Loans:   loans,
		Docs:    docRepo,
		Storage: storage,

		IngestUC:  ingestUC,
		ProcessUC: processUC,
		ChatUC:    chatUC,
		SearchUC:  searchUC,
		CompareUC: compareUC,
		Exporter:  exporter,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
