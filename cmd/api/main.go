package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"case-opening-platform/config"
	"case-opening-platform/internal/adapter/catalog"
	"case-opening-platform/internal/adapter/gateway/exnode"
	"case-opening-platform/internal/adapter/gateway/yookassa"
	httpHandler "case-opening-platform/internal/adapter/http/handler"
	"case-opening-platform/internal/adapter/market"
	"case-opening-platform/internal/adapter/messaging/livefeed"
	pgStorage "case-opening-platform/internal/adapter/storage/postgres"
	redisStorage "case-opening-platform/internal/adapter/storage/redis"
	"case-opening-platform/internal/core/domain"
	"case-opening-platform/internal/core/ports"
	"case-opening-platform/internal/scheduler"
	"case-opening-platform/internal/service"
	"case-opening-platform/pkg/logger"
	"case-opening-platform/pkg/shutdownqueue"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load(os.Getenv("COP_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting case opening platform")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("jwt.secret is not set (COP_JWT_SECRET)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	queue := shutdownqueue.New()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := queue.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Shutdown finished with errors")
			return
		}
		log.Info().Msg("Server exited")
	}()

	if cfg.Database.MigrateOnStart {
		if err := pgStorage.MigrateUp(cfg.Database.DSN(), log); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply migrations")
		}
	}

	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	queue.Add("postgres", func(context.Context) error {
		pool.Close()
		return nil
	})
	log.Info().Msg("PostgreSQL connected")

	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	queue.Add("redis", func(context.Context) error { return rdb.Close() })
	log.Info().Msg("Redis connected")

	itemCatalog := catalog.New(cfg.Catalog.Path, log)
	if err := itemCatalog.Load(ctx); err != nil {
		log.Fatal().Err(err).Str("path", cfg.Catalog.Path).Msg("Failed to load item catalog")
	}

	healthCheckers := []ports.HealthChecker{
		pgStorage.NewHealthCheck(pool),
		redisStorage.NewHealthCheck(rdb),
	}

	var feed ports.LiveFeedPublisher = livefeed.Discard{}
	if cfg.NATS.Enabled {
		publisher, err := livefeed.Connect(cfg.NATS, log)
		if err != nil {
			log.Warn().Err(err).Msg("Live feed unavailable, openings will not be broadcast")
		} else {
			feed = publisher
			healthCheckers = append(healthCheckers, publisher)
			queue.Add("nats", func(context.Context) error { return publisher.Close() })
		}
	}

	// Repositories
	accountRepo := pgStorage.NewAccountRepo(pool)
	itemRepo := pgStorage.NewItemRepo(pool)
	caseRepo := pgStorage.NewCaseRepo(pool)
	ledgerRepo := pgStorage.NewLedgerRepo(pool)
	openingRepo := pgStorage.NewOpeningRepo(pool)
	inventoryRepo := pgStorage.NewInventoryRepo()
	statsRepo := pgStorage.NewUserStatsRepo(pool)
	auditRepo := pgStorage.NewAuditRepository(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Outbound clients
	prices := market.NewClient(cfg.Market, &http.Client{Timeout: cfg.Market.Timeout}, log)
	gateways := []ports.PaymentGateway{
		yookassa.NewClient(cfg.YooKassa, &http.Client{Timeout: cfg.YooKassa.Timeout}, log),
		exnode.NewClient(cfg.Exnode, &http.Client{Timeout: cfg.Exnode.Timeout}, log),
	}

	// Services
	paymentSvc := service.NewPaymentService(
		ledgerRepo,
		accountRepo,
		transactor,
		gateways,
		redisStorage.NewIdempotencyCache(rdb),
		redisStorage.NewStateStore(rdb),
		paymentSettings(cfg),
		log,
	)
	openingSvc := service.NewCaseOpeningService(
		accountRepo,
		caseRepo,
		inventoryRepo,
		openingRepo,
		statsRepo,
		transactor,
		service.CryptoDrawer{},
		feed,
		log,
	)
	probabilitySvc := service.NewProbabilityService(itemRepo, itemCatalog, prices, log)
	caseAdminSvc := service.NewCaseAdminService(caseRepo, itemRepo, itemCatalog, prices, transactor, log)
	accountSvc := service.NewAccountService(accountRepo, statsRepo)
	priceRefreshSvc := service.NewPriceRefreshService(itemRepo, prices, log)
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	auditSvc := service.NewAuditService(auditRepo, log)

	queue.Add("opening side effects", func(context.Context) error {
		openingSvc.Wait()
		return nil
	})

	var apiDocs *httpHandler.APIDocs
	if specBytes, err := os.ReadFile("docs/api/openapi.yaml"); err == nil {
		apiDocs = httpHandler.NewAPIDocs(specBytes)
		log.Info().Msg("OpenAPI spec loaded for Swagger UI at /swagger")
	} else {
		log.Warn().Err(err).Msg("OpenAPI spec not found, Swagger UI will be unavailable")
	}

	gin.SetMode(cfg.Server.Mode)
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		OpeningSvc:     openingSvc,
		ProbabilitySvc: probabilitySvc,
		CaseAdminSvc:   caseAdminSvc,
		PaymentSvc:     paymentSvc,
		AccountSvc:     accountSvc,
		TokenSvc:       tokenSvc,
		Catalog:        itemCatalog,
		RateLimitStore: redisStorage.NewRateLimitStore(rdb),
		HealthCheckers: healthCheckers,
		AuditSvc:       auditSvc,
		APIDocs:        apiDocs,
		Logger:         log,
	})

	if cfg.Scheduler.Enabled {
		sched := scheduler.New(redisStorage.NewJobLock(rdb), cfg.Scheduler.LockTTL, log)
		sched.Register(scheduler.LedgerExpirySweep(paymentSvc, cfg.Scheduler.SweepInterval, log))
		sched.Register(scheduler.ItemPriceRefresh(priceRefreshSvc, cfg.Scheduler.PriceRefreshInterval))
		sched.Start(ctx)
		queue.Add("scheduler", sched.Stop)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	queue.Add("http server", srv.Shutdown)

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server...")
	case err := <-serveErr:
		if err != nil {
			log.Error().Err(err).Msg("HTTP server failed")
		}
	}
}

func paymentSettings(cfg *config.Config) service.PaymentSettings {
	return service.PaymentSettings{
		MaxAmount:      cfg.Payments.MaxAmount,
		PendingTTL:     cfg.Payments.PendingTTL,
		ReturnStateTTL: cfg.Payments.ReturnStateTTL,
		IdempotencyTTL: cfg.Payments.IdempotencyTTL,
		VerifyYooKassa: cfg.YooKassa.VerifyNotifications,
		Providers: map[domain.Provider]service.ProviderSettings{
			domain.ProviderYooKassa: {
				MinAmount: cfg.YooKassa.MinAmount,
				ReturnURL: cfg.YooKassa.ReturnURL,
			},
			domain.ProviderExnode: {
				MinAmount: cfg.Exnode.MinAmount,
				ReturnURL: cfg.Exnode.ReturnURL,
				OrderTTL:  cfg.Exnode.OrderTTL,
			},
		},
	}
}
