// The worker binary runs the generation job pool and the scheduled-post
// publisher without serving the API, for deployments that scale the two
// independently.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	appaudit "github.com/agencyhub/backend/internal/application/audit"
	billingapp "github.com/agencyhub/backend/internal/application/billing"
	campaignapp "github.com/agencyhub/backend/internal/application/campaign"
	generationapp "github.com/agencyhub/backend/internal/application/generation"
	socialapp "github.com/agencyhub/backend/internal/application/social"
	"github.com/agencyhub/backend/internal/infrastructure/ai"
	"github.com/agencyhub/backend/internal/infrastructure/auth"
	"github.com/agencyhub/backend/internal/infrastructure/config"
	"github.com/agencyhub/backend/internal/infrastructure/event"
	"github.com/agencyhub/backend/internal/infrastructure/logger"
	"github.com/agencyhub/backend/internal/infrastructure/persistence"
	infrasocial "github.com/agencyhub/backend/internal/infrastructure/social"
	"github.com/agencyhub/backend/internal/infrastructure/storage"
	"github.com/agencyhub/backend/internal/infrastructure/worker"
)

const (
	shutdownTimeout = 30 * time.Second
	publishInterval = time.Minute
	publishBatch    = 20
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting worker",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.Int("workers", cfg.Worker.Count),
	)

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database,
		logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level)))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	cipher, err := auth.NewTokenCipher(cfg.Social.TokenEncryptionKey)
	if err != nil {
		log.Fatal("Failed to initialize token cipher", zap.Error(err))
	}

	jobRepo := persistence.NewGormJobRepository(db.DB)
	clientRepo := persistence.NewGormClientRepository(db.DB)
	ledgerRepo := persistence.NewGormLedgerRepository(db.DB)
	postRepo := persistence.NewGormPostRepository(db.DB)
	campaignRepo := persistence.NewGormCampaignRepository(db.DB)
	accountRepo := persistence.NewGormSocialAccountRepository(db.DB, cipher)
	publicationRepo := persistence.NewGormPublicationRepository(db.DB)
	auditRepo := persistence.NewGormAuditLogRepository(db.DB)

	auditSvc := appaudit.NewService(auditRepo, log)
	tokenSvc := billingapp.NewTokenService(ledgerRepo, log)

	var generator generationapp.ContentGenerator
	if cfg.AI.APIKey != "" {
		aiClient, err := ai.NewClient(&cfg.AI, log)
		if err != nil {
			log.Fatal("Failed to initialize AI client", zap.Error(err))
		}
		generator = ai.NewOpenAIGenerator(aiClient)
	} else {
		log.Warn("No AI API key configured, using stub generator")
		generator = ai.NewStubGenerator()
	}

	mediaStorage, err := storage.NewS3MediaStorage(&cfg.Storage)
	if err != nil {
		log.Fatal("Failed to initialize media storage", zap.Error(err))
	}
	mediaSvc := campaignapp.NewMediaService(mediaStorage, campaignapp.DefaultMediaServiceConfig())

	publishSvc := socialapp.NewPublishService(socialapp.PublishServiceConfig{
		PostRepo:        postRepo,
		CampaignRepo:    campaignRepo,
		AccountRepo:     accountRepo,
		PublicationRepo: publicationRepo,
		Registry:        infrasocial.NewRegistry(cfg.Social.PublishTimeout),
		Media:           mediaSvc,
		Audit:           auditSvc,
		Logger:          log,
	})

	runner := generationapp.NewRunner(jobRepo, clientRepo, generator, tokenSvc, log, generationapp.RunnerConfig{
		RetryBackoff:    cfg.Worker.RetryBackoff,
		RetryClassifier: ai.IsRetryable,
	})
	pool := worker.NewPool(jobRepo, runner, worker.PoolConfigFromWorker(cfg.Worker), log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewActivityLogHandler(log))
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	runner.SetEventPublisher(eventBus)
	publishSvc.SetEventPublisher(eventBus)

	if err := pool.Start(ctx); err != nil {
		log.Fatal("Failed to start worker pool", zap.Error(err))
	}

	go publishLoop(ctx, publishSvc, log)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down worker")

	cancel()
	stopCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
	defer done()
	if err := pool.Stop(stopCtx); err != nil {
		log.Error("Worker pool did not stop cleanly", zap.Error(err))
	}
	_ = eventBus.Stop(stopCtx)
	log.Info("Worker stopped")
}

// publishLoop sweeps for scheduled posts that have come due
func publishLoop(ctx context.Context, publisher *socialapp.PublishService, log *zap.Logger) {
	ticker := time.NewTicker(publishInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			published, err := publisher.PublishDueScheduled(ctx, publishBatch)
			if err != nil {
				log.Error("scheduled publish sweep failed", zap.Error(err))
				continue
			}
			if published > 0 {
				log.Info("published scheduled posts", zap.Int("count", published))
			}
		}
	}
}
