// Command server wires configuration, storage, messaging and the HTTP
// surface. Postgres, Redis, Kafka and SMTP are each optional: a missing
// setting degrades that concern to an in-process fallback so the service
// runs anywhere from a laptop to production.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"comercio/internal/audit"
	clienthandler "comercio/internal/client/handler"
	clientservice "comercio/internal/client/service"
	clientstore "comercio/internal/client/store"
	"comercio/internal/directory/cache"
	directorystore "comercio/internal/directory/store"
	comerciohttp "comercio/internal/http"
	"comercio/internal/jwttoken"
	"comercio/internal/mailer"
	notificationhandler "comercio/internal/notification/handler"
	notificationservice "comercio/internal/notification/service"
	notificationstore "comercio/internal/notification/store"
	"comercio/internal/platform/config"
	"comercio/internal/platform/httpserver"
	"comercio/internal/platform/logger"
	"comercio/internal/platform/postgres"
	platformredis "comercio/internal/platform/redis"
	verificationhandler "comercio/internal/verification/handler"
	"comercio/internal/verification/metrics"
	verificationports "comercio/internal/verification/ports"
	verificationservice "comercio/internal/verification/service"
	cooldownstore "comercio/internal/verification/store/cooldown"
	ledgerstore "comercio/internal/verification/store/ledger"
	"comercio/pkg/platform/tx"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	// Storage.
	db, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to open postgres", "error", err)
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Feature stores, backed by postgres/redis when configured.
	var (
		ledger    verificationports.LedgerStore
		directory verificationports.Directory
		cooldown  verificationports.CooldownStore
		notifs    notificationservice.Store
		clients   clientservice.Store
		txRunner  verificationports.TxRunner
	)
	if db != nil {
		ledger = ledgerstore.NewPostgres(db)
		directory = directorystore.NewPostgres(db)
		notifs = notificationstore.NewPostgres(db)
		clients = clientstore.NewPostgres(db)
		txRunner = tx.NewRunner(db)
	} else {
		log.Warn("postgres not configured, using in-memory stores")
		ledger = ledgerstore.NewMemory()
		directory = directorystore.NewMemory()
		notifs = notificationstore.NewMemory()
		clients = clientstore.NewMemory()
		txRunner = tx.NewPassthrough()
	}
	if redisClient != nil {
		cooldown = cooldownstore.NewRedis(redisClient.Client)
	} else {
		log.Warn("redis not configured, using in-memory cooldown store")
		cooldown = cooldownstore.NewMemory()
	}

	// Messaging.
	var auditPublisher verificationports.AuditPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher, err := audit.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			log.Error("failed to connect to kafka", "error", err)
			os.Exit(1)
		}
		defer kafkaPublisher.Close()
		auditPublisher = kafkaPublisher
	} else {
		log.Warn("kafka not configured, audit events stay in process")
		auditPublisher = audit.NewInMemoryPublisher()
	}

	// Services.
	notificationSvc, err := notificationservice.New(notifs, notificationservice.WithLogger(log))
	if err != nil {
		log.Error("failed to build notification service", "error", err)
		os.Exit(1)
	}

	smtpSender := mailer.NewSMTP(cfg.SMTP, log)

	verificationOpts := []verificationservice.Option{
		verificationservice.WithLogger(log),
		verificationservice.WithMetrics(metrics.New()),
		verificationservice.WithAuditPublisher(auditPublisher),
		verificationservice.WithTxRunner(txRunner),
		verificationservice.WithConfig(verificationservice.Config{
			TTL:                   cfg.Verification.TTL,
			CooldownTTL:           cfg.Verification.CooldownTTL,
			MaxAttempts:           cfg.Verification.MaxAttempts,
			RequireConfirmedEmail: cfg.Verification.RequireConfirmedEmail,
		}),
	}
	if redisClient != nil {
		readModel := cache.NewRedis(redisClient.Client)
		directory = cache.NewCachedDirectory(directory, readModel, log)
		verificationOpts = append(verificationOpts,
			verificationservice.WithReadModelCache(readModel))
	}
	verificationSvc, err := verificationservice.New(ledger, directory, cooldown, smtpSender, notificationSvc, verificationOpts...)
	if err != nil {
		log.Error("failed to build verification service", "error", err)
		os.Exit(1)
	}

	clientSvc, err := clientservice.New(clients, clientservice.WithLogger(log))
	if err != nil {
		log.Error("failed to build client service", "error", err)
		os.Exit(1)
	}

	tokens := jwttoken.NewValidator(jwttoken.New(cfg.JWTSigningKey, cfg.JWTIssuer))

	router := comerciohttp.NewRouter(comerciohttp.Deps{
		Verification:  verificationhandler.New(verificationSvc, log),
		Notifications: notificationhandler.New(notificationSvc, log),
		Clients:       clienthandler.New(clientSvc, log),
		Tokens:        tokens,
		Logger:        log,
		Health: func() error {
			if db != nil {
				if err := db.Ping(); err != nil {
					return err
				}
			}
			if redisClient != nil {
				return redisClient.Health(context.Background())
			}
			return nil
		},
	})

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("starting comercio", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	verificationSvc.Wait()
}
