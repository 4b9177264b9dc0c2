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

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"go.uber.org/zap"

	"github.com/dshills/orderdesk/internal/config"
	"github.com/dshills/orderdesk/internal/events"
	"github.com/dshills/orderdesk/internal/logging"
	"github.com/dshills/orderdesk/internal/mcp"
	"github.com/dshills/orderdesk/internal/metrics"
	"github.com/dshills/orderdesk/internal/ordering"
	"github.com/dshills/orderdesk/internal/storage"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	// Handle version flag
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Printf("orderdesk MCP Server\n")
		fmt.Printf("Version: %s\n", version)
		fmt.Printf("Build Time: %s\n", buildTime)
		fmt.Printf("Build Mode: %s\n", storage.BuildMode)
		fmt.Printf("SQLite Driver: %s\n", storage.DriverName)
		os.Exit(0)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "orderdesk: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}

	// stdout is reserved for the MCP protocol; the logger writes to stderr
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("orderdesk MCP server starting",
		zap.String("version", version),
		zap.String("build_mode", storage.BuildMode),
		zap.String("driver", storage.DriverName))

	if err := cfg.EnsureDBDir(); err != nil {
		return err
	}
	store, err := storage.NewSQLiteStorage(cfg.DBPath, logger.Named("storage"))
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Events: in-process bus always, Kafka alongside when brokers are set
	wmLogger := logging.NewWatermillAdapter(logger)
	bus := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, wmLogger)

	var publisher message.Publisher = bus
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPub, err := events.NewKafkaPublisher(cfg.KafkaBrokers, wmLogger)
		if err != nil {
			_ = bus.Close()
			return err
		}
		publisher = events.FanOut{bus, kafkaPub}
		logger.Info("publishing order events to kafka", zap.Strings("brokers", cfg.KafkaBrokers))
	}

	projector := events.NewBalanceProjector(bus, store, logger.Named("projector"))
	if err := projector.Start(ctx); err != nil {
		_ = publisher.Close()
		return err
	}
	defer func() {
		_ = publisher.Close()
		projector.Wait()
	}()

	orderMetrics := metrics.NewOrderMetrics()
	if cfg.MetricsAddr != "" {
		metricsServer := orderMetrics.NewServer(cfg.MetricsAddr)
		go func() {
			logger.Info("metrics listening", zap.String("addr", cfg.MetricsAddr))
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
			defer stop()
			_ = metricsServer.Shutdown(shutdownCtx)
		}()
	}

	svc, err := ordering.NewService(ordering.Deps{
		Orders:            store,
		Lookups:           ordering.StorageLookups(store),
		Publisher:         events.NewOrderPublisher(publisher, logger.Named("events")),
		Recorder:          orderMetrics,
		Logger:            logger.Named("ordering"),
		OrderNumberPrefix: cfg.OrderNumberPrefix,
	})
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(mcp.Deps{
		Storage: store,
		Orders:  svc,
		Logger:  logger.Named("mcp"),
	})
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		logger.Info("MCP server ready, listening on stdio")
		errChan <- server.Serve(ctx)
	}()

	select {
	case sig := <-sigChan:
		logger.Info("shutting down", zap.Stringer("signal", sig))
		cancel()
	case err := <-errChan:
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("server error: %w", err)
		}
	}

	logger.Info("server stopped")
	return nil
}
