package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Skotchmaster/marketplace/internal/config"
	"github.com/Skotchmaster/marketplace/internal/gateway"
	"github.com/Skotchmaster/marketplace/internal/httpserver"
	domainmetrics "github.com/Skotchmaster/marketplace/internal/metrics"
	"github.com/Skotchmaster/marketplace/internal/repo"
	"github.com/Skotchmaster/marketplace/internal/service"
	pkgconfig "github.com/Skotchmaster/marketplace/pkg/config"
	pkgdb "github.com/Skotchmaster/marketplace/pkg/db"
	"github.com/Skotchmaster/marketplace/pkg/kafka"
	"github.com/Skotchmaster/marketplace/pkg/logging"
	"github.com/Skotchmaster/marketplace/pkg/metrics"
	loggingmw "github.com/Skotchmaster/marketplace/pkg/middleware/logging"
	metricsmw "github.com/Skotchmaster/marketplace/pkg/middleware/metrics"
	"github.com/Skotchmaster/marketplace/pkg/redislock"
	"github.com/Skotchmaster/marketplace/pkg/search"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}

	store := repo.New(db)
	if cfg.AutoMigrate {
		if err := store.Migrate(context.Background()); err != nil {
			log.Fatalf("db migrate: %v", err)
		}
	}

	var events service.Publisher = service.NopPublisher{}
	var producer *kafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = kafka.NewProducer(cfg.KafkaBrokers)
		events = producer
	} else {
		logger.Warn("kafka_disabled", "reason", "KAFKA_BROKERS is empty")
	}

	var locker service.Locker
	if cfg.RedisAddr != "" {
		rl := redislock.New(redislock.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB), cfg.CheckoutLockTTL)
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rl.Ping(pingCtx); err != nil {
			logger.Warn("redis_unavailable", "error", err)
		}
		cancel()
		locker = rl
	}

	var index service.ProductIndex
	if cfg.ElasticURL != "" {
		es, err := search.NewClient(cfg.ElasticURL, cfg.ElasticUser, cfg.ElasticPassword)
		if err != nil {
			logger.Warn("elasticsearch_unavailable", "error", err)
		} else {
			index = search.NewIndex(es, cfg.ElasticIndex)
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	serverMetrics := metrics.NewServerMetrics(reg, "api")
	domain := domainmetrics.NewDomain(reg)

	snap := gateway.NewSnapClient(cfg.GatewaySnapURL, cfg.GatewayServerKey, cfg.GatewayProduction)

	deps := &httpserver.Deps{
		DB:            db,
		JWTSecret:     cfg.JWTAccessSecret,
		SecureCookies: cfg.SecureCookies,
		Metrics:       metrics.Handler(reg),

		AuthHandler: &httpserver.AuthHTTP{
			Svc: &service.AuthService{
				Repo:      store,
				JWTSecret: cfg.JWTAccessSecret,
				AccessTTL: cfg.JWTAccessTTL,
			},
			SecureCookie: cfg.SecureCookies,
		},
		CatalogHandler:  &httpserver.CatalogHTTP{Svc: &service.CatalogService{Repo: store, Events: events, Index: index}},
		CartHandler:     &httpserver.CartHTTP{Svc: &service.CartService{Repo: store, Events: events}},
		WishlistHandler: &httpserver.WishlistHTTP{Svc: &service.WishlistService{Repo: store}},
		VendorHandler: &httpserver.VendorHTTP{
			Svc:    &service.VendorService{Repo: store, CommissionPercent: cfg.VendorCommissionPercent},
			Orders: &service.VendorOrderService{Repo: store, Events: events},
		},
		CheckoutHandler: &httpserver.CheckoutHTTP{Svc: &service.CheckoutService{
			Repo:           store,
			Gateway:        snap,
			Events:         events,
			Locker:         locker,
			Metrics:        domain,
			CommissionRate: cfg.CommissionRate,
			GatewayTimeout: cfg.GatewayTimeout,
		}},
		OrderHandler: &httpserver.OrderHTTP{Svc: &service.OrderService{Repo: store}},
		PaymentHandler: &httpserver.PaymentHTTP{Svc: &service.PaymentService{
			Repo:      store,
			ServerKey: cfg.GatewayServerKey,
			Events:    events,
			Metrics:   domain,
		}},
	}

	node, err := snowflake.NewNode(int64(pkgconfig.EnvIntDefault("NODE_ID", 1)))
	if err != nil {
		log.Fatalf("snowflake node: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpserver.NewRequestValidator()
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: func() string { return node.Generate().String() },
	}))
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(metricsmw.Middleware(serverMetrics))
	e.Use(echomw.CORS())

	httpserver.Register(e, deps)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server_listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown_error", "error", err)
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka_close_error", "error", err)
		}
	}
	if err := pkgdb.Close(db); err != nil {
		logger.Error("db_close_error", "error", err)
	}

	logger.Info("server_stopped")
}
