package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appaudit "github.com/agencyhub/backend/internal/application/audit"
	billingapp "github.com/agencyhub/backend/internal/application/billing"
	campaignapp "github.com/agencyhub/backend/internal/application/campaign"
	clientapp "github.com/agencyhub/backend/internal/application/client"
	generationapp "github.com/agencyhub/backend/internal/application/generation"
	identityapp "github.com/agencyhub/backend/internal/application/identity"
	socialapp "github.com/agencyhub/backend/internal/application/social"
	tourapp "github.com/agencyhub/backend/internal/application/tour"
	"github.com/agencyhub/backend/internal/domain/client"
	"github.com/agencyhub/backend/internal/domain/generation"
	"github.com/agencyhub/backend/internal/domain/shared"
	"github.com/agencyhub/backend/internal/infrastructure/ai"
	"github.com/agencyhub/backend/internal/infrastructure/auth"
	infrabilling "github.com/agencyhub/backend/internal/infrastructure/billing"
	"github.com/agencyhub/backend/internal/infrastructure/cache"
	"github.com/agencyhub/backend/internal/infrastructure/config"
	"github.com/agencyhub/backend/internal/infrastructure/event"
	"github.com/agencyhub/backend/internal/infrastructure/logger"
	"github.com/agencyhub/backend/internal/infrastructure/persistence"
	infrasocial "github.com/agencyhub/backend/internal/infrastructure/social"
	"github.com/agencyhub/backend/internal/infrastructure/storage"
	"github.com/agencyhub/backend/internal/infrastructure/telemetry"
	"github.com/agencyhub/backend/internal/infrastructure/worker"
	"github.com/agencyhub/backend/internal/interfaces/http/handler"
	"github.com/agencyhub/backend/internal/interfaces/http/middleware"
	"github.com/agencyhub/backend/internal/interfaces/http/router"
)

const shutdownTimeout = 30 * time.Second

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

	log.Info("Starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Telemetry.Enabled {
		tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
		if err != nil {
			log.Fatal("Failed to initialize tracer provider", zap.Error(err))
		}
		defer func() {
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			_ = tracerProvider.Shutdown(shutdownCtx)
		}()

		meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
		if err != nil {
			log.Fatal("Failed to initialize meter provider", zap.Error(err))
		}
		defer func() {
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			_ = meterProvider.Shutdown(shutdownCtx)
		}()
	}

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database,
		logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level)))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		if err := db.EnableTracing(); err != nil {
			log.Warn("Failed to enable database tracing", zap.Error(err))
		}
	}

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		if cfg.App.Env == "production" {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		log.Warn("Redis unavailable, using in-memory fallbacks", zap.Error(err))
		redisClient = nil
	}

	cipher, err := auth.NewTokenCipher(cfg.Social.TokenEncryptionKey)
	if err != nil {
		log.Fatal("Failed to initialize token cipher", zap.Error(err))
	}

	// Repositories
	agencyRepo := persistence.NewGormAgencyRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	invitationRepo := persistence.NewGormInvitationRepository(db.DB)
	apiKeyRepo := persistence.NewGormAPIKeyRepository(db.DB)
	clientRepo := persistence.NewGormClientRepository(db.DB)
	campaignRepo := persistence.NewGormCampaignRepository(db.DB)
	postRepo := persistence.NewGormPostRepository(db.DB)
	accountRepo := persistence.NewGormSocialAccountRepository(db.DB, cipher)
	publicationRepo := persistence.NewGormPublicationRepository(db.DB)
	jobRepo := persistence.NewGormJobRepository(db.DB)
	subscriptionRepo := persistence.NewGormSubscriptionRepository(db.DB)
	ledgerRepo := persistence.NewGormLedgerRepository(db.DB)
	webhookEventRepo := persistence.NewGormWebhookEventRepository(db.DB)
	auditRepo := persistence.NewGormAuditLogRepository(db.DB)
	tourRepo := persistence.NewGormTourProgressRepository(db.DB)

	// Auth infrastructure
	jwtService := auth.NewJWTService(cfg.JWT)
	var blacklist auth.TokenBlacklist
	var rateLimiter cache.RateLimiter
	if redisClient != nil {
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
		rateLimiter = cache.NewRedisRateLimiter(redisClient)
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
		rateLimiter = cache.NewInMemoryRateLimiter()
	}

	// Domain event bus with its built-in consumers
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewActivityLogHandler(log))
	if cfg.Telemetry.Enabled {
		metricsHandler, err := event.NewMetricsHandler()
		if err != nil {
			log.Warn("Failed to initialize event metrics handler", zap.Error(err))
		} else {
			eventBus.Subscribe(metricsHandler)
		}
	}
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		stopCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		_ = eventBus.Stop(stopCtx)
	}()

	// Billing
	auditSvc := appaudit.NewService(auditRepo, log)
	tokenSvc := billingapp.NewTokenService(ledgerRepo, log)
	stripeConfig := infrabilling.NewStripeConfig(cfg.Billing)
	gateway, err := infrabilling.NewStripeAdapter(stripeConfig, log)
	if err != nil {
		log.Fatal("Failed to initialize billing gateway", zap.Error(err))
	}
	subscriptionSvc := billingapp.NewSubscriptionService(subscriptionRepo, tokenSvc, gateway, log, cfg.App.TrialDays)
	webhookSvc := billingapp.NewStripeWebhookService(billingapp.StripeWebhookServiceConfig{
		Config:           stripeConfig,
		SubscriptionRepo: subscriptionRepo,
		WebhookEvents:    webhookEventRepo,
		Tokens:           tokenSvc,
		Logger:           log,
	})

	// Identity
	authSvc := identityapp.NewAuthService(userRepo, jwtService, blacklist, auditSvc, log)
	agencySvc := identityapp.NewAgencyService(identityapp.AgencyServiceConfig{
		AgencyRepo:    agencyRepo,
		UserRepo:      userRepo,
		ClientRepo:    clientRepo,
		CampaignRepo:  campaignRepo,
		Subscriptions: subscriptionSvc,
		JWTService:    jwtService,
		Audit:         auditSvc,
		Logger:        log,
		TrialDays:     cfg.App.TrialDays,
	})
	userSvc := identityapp.NewUserService(userRepo, subscriptionRepo, auditSvc, log)
	invitationSvc := identityapp.NewInvitationService(identityapp.InvitationServiceConfig{
		InvitationRepo:   invitationRepo,
		UserRepo:         userRepo,
		SubscriptionRepo: subscriptionRepo,
		JWTService:       jwtService,
		Audit:            auditSvc,
		Logger:           log,
	})
	apiKeySvc := identityapp.NewAPIKeyService(apiKeyRepo, auditSvc, log)

	// Clients and campaigns
	clientSvc := clientapp.NewService(clientRepo, campaignRepo, subscriptionRepo, auditSvc, log)
	campaignSvc := campaignapp.NewCampaignService(campaignRepo, clientRepo, auditSvc, log)
	postSvc := campaignapp.NewPostService(postRepo, campaignRepo, auditSvc, log)

	mediaStorage, err := storage.NewS3MediaStorage(&cfg.Storage)
	if err != nil {
		log.Fatal("Failed to initialize media storage", zap.Error(err))
	}
	mediaConfig := campaignapp.DefaultMediaServiceConfig()
	if cfg.Storage.PresignExpiration > 0 {
		mediaConfig.UploadURLExpiry = cfg.Storage.PresignExpiration
		mediaConfig.DownloadURLExpiry = cfg.Storage.PresignExpiration
	}
	mediaSvc := campaignapp.NewMediaService(mediaStorage, mediaConfig)

	// Social publishing
	registry := infrasocial.NewRegistry(cfg.Social.PublishTimeout)
	refresher := infrasocial.NewOAuthTokenRefresher(cfg.Social, cfg.Social.PublishTimeout)
	accountSvc := socialapp.NewAccountService(accountRepo, clientRepo, refresher, auditSvc, log)
	publishSvc := socialapp.NewPublishService(socialapp.PublishServiceConfig{
		PostRepo:        postRepo,
		CampaignRepo:    campaignRepo,
		AccountRepo:     accountRepo,
		PublicationRepo: publicationRepo,
		Registry:        registry,
		Media:           mediaSvc,
		Audit:           auditSvc,
		Logger:          log,
	})

	// Generation
	jobSvc := generationapp.NewJobService(jobRepo, clientRepo, tokenSvc, log)

	// Services publish their aggregates' domain events onto the bus
	agencySvc.SetEventPublisher(eventBus)
	userSvc.SetEventPublisher(eventBus)
	invitationSvc.SetEventPublisher(eventBus)
	authSvc.SetEventPublisher(eventBus)
	clientSvc.SetEventPublisher(eventBus)
	campaignSvc.SetEventPublisher(eventBus)
	postSvc.SetEventPublisher(eventBus)
	publishSvc.SetEventPublisher(eventBus)
	jobSvc.SetEventPublisher(eventBus)

	tourSvc := tourapp.NewService(tourRepo, log)

	// Optional in-process worker pool for single-binary deployments
	if cfg.Worker.Enabled {
		pool := startWorker(ctx, cfg, log, jobRepo, clientRepo, tokenSvc, publishSvc, eventBus)
		defer func() {
			stopCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
			defer done()
			_ = pool.Stop(stopCtx)
		}()
	}

	// HTTP engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to configure validator", zap.Error(err))
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Failed to set trusted proxies", zap.Error(err))
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName))
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		engine.Use(middleware.RateLimit(middleware.RateLimitConfig{
			Limiter:   rateLimiter,
			Limit:     cfg.HTTP.RateLimitRequests,
			Window:    cfg.HTTP.RateLimitWindow,
			KeyPrefix: "rl:global",
			Logger:    log,
		}))
	}

	systemHandler := handler.NewSystemHandler(db, redisClient, cfg.App, log)
	engine.GET("/health", systemHandler.Health)

	authHandler := handler.NewAuthHandler(authSvc, agencySvc)
	if cfg.HTTP.AuthRateLimitEnabled {
		authHandler.UseRateLimit(middleware.RateLimit(middleware.RateLimitConfig{
			Limiter:   rateLimiter,
			Limit:     cfg.HTTP.AuthRateLimitRequests,
			Window:    cfg.HTTP.AuthRateLimitWindow,
			KeyPrefix: "rl:auth",
			Logger:    log,
		}))
	}

	api := router.NewRouter(engine, router.WithAPIVersion("v1")).
		Use(middleware.JWTAuthMiddleware(middleware.JWTMiddlewareConfig{
			JWTService: jwtService,
			Verifier:   authSvc,
			SkipPaths: []string{
				"/api/v1/auth/login",
				"/api/v1/auth/register",
				"/api/v1/auth/refresh",
				"/api/v1/invitations/accept",
			},
			SkipPathPrefixes: []string{
				"/api/v1/billing/webhooks",
				"/api/v1/bot",
			},
			Logger: log,
		})).
		Register(authHandler).
		Register(handler.NewAgencyHandler(agencySvc)).
		Register(handler.NewUserHandler(userSvc)).
		Register(handler.NewInvitationHandler(invitationSvc)).
		Register(handler.NewAPIKeyHandler(apiKeySvc)).
		Register(handler.NewClientHandler(clientSvc, campaignSvc, accountSvc)).
		Register(handler.NewCampaignHandler(campaignSvc, postSvc)).
		Register(handler.NewPostHandler(postSvc, publishSvc)).
		Register(handler.NewMediaHandler(mediaSvc)).
		Register(handler.NewSocialAccountHandler(accountSvc)).
		Register(handler.NewGenerationHandler(jobSvc)).
		Register(handler.NewBillingHandler(subscriptionSvc, tokenSvc)).
		Register(handler.NewStripeWebhookHandler(webhookSvc, log)).
		Register(handler.NewAuditHandler(auditSvc)).
		Register(handler.NewTourHandler(tourSvc)).
		Register(systemHandler).
		Setup()

	// External bot surface, authenticated by API key instead of JWT
	bot := api.Group("/bot",
		middleware.APIKeyAuth(apiKeySvc),
		middleware.RateLimit(middleware.RateLimitConfig{
			Limiter:   rateLimiter,
			Limit:     cfg.HTTP.BotRateLimitRequests,
			Window:    cfg.HTTP.BotRateLimitWindow,
			KeyPrefix: "rl:bot",
			KeyFunc:   middleware.APIKeyRateKey,
			Logger:    log,
		}),
	)
	handler.NewBotHandler(jobSvc).RegisterRoutes(bot)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server")

	cancel()
	shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
	defer done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}

// startWorker runs the generation pool and the scheduled-post publisher
// inside the API process.
func startWorker(
	ctx context.Context,
	cfg *config.Config,
	log *zap.Logger,
	jobRepo generation.JobRepository,
	clientRepo client.Repository,
	tokens *billingapp.TokenService,
	publisher *socialapp.PublishService,
	events shared.EventPublisher,
) *worker.Pool {
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

	runner := generationapp.NewRunner(jobRepo, clientRepo, generator, tokens, log, generationapp.RunnerConfig{
		RetryBackoff:    cfg.Worker.RetryBackoff,
		RetryClassifier: ai.IsRetryable,
	})
	runner.SetEventPublisher(events)
	pool := worker.NewPool(jobRepo, runner, worker.PoolConfigFromWorker(cfg.Worker), log)
	if err := pool.Start(ctx); err != nil {
		log.Fatal("Failed to start worker pool", zap.Error(err))
	}

	go runPublishScheduler(ctx, publisher, log)
	return pool
}

// runPublishScheduler publishes due scheduled posts once a minute
func runPublishScheduler(ctx context.Context, publisher *socialapp.PublishService, log *zap.Logger) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			published, err := publisher.PublishDueScheduled(ctx, 20)
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
