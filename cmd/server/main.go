package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/sheikh-saqib/account-ledger-service/internal/auth"
	"github.com/sheikh-saqib/account-ledger-service/internal/config"
	"github.com/sheikh-saqib/account-ledger-service/internal/events"
	"github.com/sheikh-saqib/account-ledger-service/internal/events/kafka"
	"github.com/sheikh-saqib/account-ledger-service/internal/interfaces"
	"github.com/sheikh-saqib/account-ledger-service/internal/ledger"
	"github.com/sheikh-saqib/account-ledger-service/internal/rules"
	"github.com/sheikh-saqib/account-ledger-service/internal/server"
	"github.com/sheikh-saqib/account-ledger-service/internal/storage/memory"
	"github.com/sheikh-saqib/account-ledger-service/internal/storage/postgres"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("configuration error", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		accountStore interfaces.AccountStore
		userStore    interfaces.UserStore
	)
	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal("database connection failed", zap.Error(err))
		}
		defer db.Close()
		accountStore = postgres.NewAccountStore(db)
		userStore = postgres.NewUserStore(db)
		log.Info("using postgres store")
	} else {
		accountStore = memory.NewAccountStore()
		userStore = memory.NewUserStore()
		log.Info("using in-memory store")
	}

	var publisher interfaces.EventPublisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		p := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer p.Close()
		publisher = p
		log.Info("publishing events to kafka", zap.Strings("brokers", cfg.KafkaBrokers))
	}

	withdrawRules := []rules.Rule{
		rules.SufficientBalanceRule{},
		rules.TransactionLimitRule{Limit: cfg.WithdrawLimit},
	}

	ledgerService := ledger.NewLedger(accountStore, publisher, withdrawRules,
		ledger.WithMaxAttempts(cfg.MaxAttempts),
		ledger.WithLogger(log),
	)
	authService := auth.NewService(userStore, cfg.JWTSecret, cfg.TokenTTL)
	handler := server.NewHandler(ledgerService, authService, log)

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      handler.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("shutdown incomplete", zap.Error(err))
	}
}
