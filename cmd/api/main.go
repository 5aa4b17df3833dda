package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariefcatur/go-room-booking/internal/catalog"
	"github.com/ariefcatur/go-room-booking/internal/config"
	"github.com/ariefcatur/go-room-booking/internal/httpx"
	"github.com/ariefcatur/go-room-booking/internal/identity"
	"github.com/ariefcatur/go-room-booking/internal/logkey"
	"github.com/ariefcatur/go-room-booking/internal/orders"
	"github.com/ariefcatur/go-room-booking/internal/payment"
	"github.com/ariefcatur/go-room-booking/internal/postgres"
	"github.com/ariefcatur/go-room-booking/internal/redisx"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", slog.String(logkey.Error, err.Error()))
		os.Exit(1)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String("service", cfg.ServiceName))
	slog.SetDefault(log)

	// amounts go out as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	if err := run(cfg, log); err != nil {
		log.Error("exit", slog.String(logkey.Error, err.Error()))
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		return err
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	gateway, err := payment.NewStripe(payment.StripeConfig{
		Environment: cfg.Payment.Environment,
		SecretKey:   cfg.Payment.PrivateKey,
		AccountID:   cfg.Payment.ConnectedAccount,
	})
	if err != nil {
		return err
	}

	users := &identity.Service{
		Repo:   &identity.Repo{DB: db},
		Tokens: &identity.Tokens{Secret: []byte(cfg.JWTSecret), TTL: cfg.TokenTTL},
	}
	workflow := &orders.Workflow{
		Ledger:         &orders.Repo{DB: db},
		Gateway:        gateway,
		Idempotency:    &redisx.Idempotency{Redis: rdb},
		Currency:       cfg.Payment.Currency,
		PaymentTimeout: cfg.Payment.Timeout,
		Log:            log,
	}

	router := httpx.NewRouter(log, cfg.CORSOrigins)
	router.Route("/api/v1", func(r chi.Router) {
		(&httpx.AuthHandler{Users: users, Log: log}).Register(r)
		(&httpx.CatalogHandler{Catalog: &catalog.Store{DB: db}, Auth: users, Log: log}).Register(r)
		(&httpx.OrdersHandler{Orders: workflow, Auth: users, Log: log, PublishableKey: cfg.Payment.PublicKey}).Register(r)
	})

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router, ReadHeaderTimeout: 10 * time.Second}

	errc := make(chan error, 1)
	go func() {
		log.Info("http listening", slog.String("addr", cfg.HTTPAddr), slog.String(logkey.Gateway, gateway.Name()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	// wait signal
	select {
	case <-ctx.Done():
	case err := <-errc:
		return err
	}
	log.Info("shutting down")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx2)
}
