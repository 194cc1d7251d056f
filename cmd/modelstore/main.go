package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/ekisa-team/modelstore/internal/config"
	"github.com/ekisa-team/modelstore/internal/env"
	"github.com/ekisa-team/modelstore/internal/envvar"
	"github.com/ekisa-team/modelstore/internal/logger"
	"github.com/ekisa-team/modelstore/internal/manager"
	"github.com/ekisa-team/modelstore/internal/store"
	"github.com/ekisa-team/modelstore/internal/xfs"
)

func main() {
	var (
		flagGRPCPort   = flag.Int("grpc-port", defaultGRPCPort(), "gRPC health port to listen on")
		flagConfigPath = flag.String("config", defaultConfigPath(), "Path to config file")
		flagSchemaPath = flag.String("schema", "", "Path to schema file (embedded schema when empty)")
		flagLogFile    = flag.String("log-file", os.Getenv(envvar.ModelstoreLogFile), "Path to the rotating log file")
		flagLogToFile  = flag.Bool("log-to-file", false, "Write logs to the default rotating log file when no path is set")
	)
	flag.Parse()

	environment := env.FromEnv()
	if err := configureLogging(environment, *flagLogFile, config.LoggingConfig{}, *flagLogToFile); err != nil {
		slog.Error("Invalid logging configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, environment, options{
		configPath: xfs.ExpandTilde(*flagConfigPath),
		schemaPath: xfs.ExpandTilde(*flagSchemaPath),
		logFile:    *flagLogFile,
		logToFile:  *flagLogToFile,
		grpcPort:   *flagGRPCPort,
	})
	if err != nil {
		slog.Error("Modelstore stopped", "error", err)
		os.Exit(1)
	}
}

type options struct {
	configPath string
	schemaPath string
	logFile    string
	logToFile  bool
	grpcPort   int
}

func run(ctx context.Context, environment env.Environment, opts options) error {
	registry := store.Default()
	defer registry.RemoveAll()

	registry.On(store.EventAll, func(ev store.Event) {
		slog.Debug("Instance event",
			"event", ev.Type,
			"model", ev.Cache.Name(),
			"id", ev.Instance.ID(),
			"tracked", ev.Cache.Len())
	})

	mgr := manager.New(registry)
	healthServer := health.NewServer()
	reporter := newHealthReporter(healthServer)

	watcher, err := config.NewWatcher(opts.configPath, opts.schemaPath, onReload(ctx, environment, opts, mgr, reporter))
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}
	defer watcher.Close()

	cfg := watcher.Snapshot()
	if err := configureLogging(environment, opts.logFile, cfg.Logging, opts.logToFile); err != nil {
		return err
	}

	if err := mgr.LoadStoresFromConfig(ctx, cfg); err != nil {
		return fmt.Errorf("failed to load stores from config: %w", err)
	}
	reporter.Sync(registry.Names())

	slog.Info("Config loaded successfully", "config", opts.configPath, "stores", registry.Len())

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", opts.grpcPort))
	if err != nil {
		return fmt.Errorf("failed to listen on gRPC port %d: %w", opts.grpcPort, err)
	}

	server := grpc.NewServer()
	healthpb.RegisterHealthServer(server, healthServer)

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("gRPC health server listening", "addr", listener.Addr().String())
		serveErr <- server.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutting down")
	case err := <-serveErr:
		if err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("gRPC server failed: %w", err)
		}
	}

	healthServer.Shutdown()
	server.GracefulStop()

	return nil
}

// onReload applies a reloaded config: logging settings first, then the stores and
// their health statuses.
func onReload(ctx context.Context, environment env.Environment, opts options, mgr *manager.Manager, reporter *healthReporter) func(*config.Config, error) {
	return func(cfg *config.Config, err error) {
		if err != nil {
			slog.Error("Failed to reload config", "error", err)
			return
		}

		if err := configureLogging(environment, opts.logFile, cfg.Logging, opts.logToFile); err != nil {
			slog.Error("Failed to apply logging config", "error", err)
		}

		if err := mgr.LoadStoresFromConfig(ctx, cfg); err != nil {
			slog.Error("Failed to load stores from config", "error", err)
		}
		reporter.Sync(mgr.Registry().Names())
	}
}

// configureLogging installs the default logger. The log file flag wins over the
// file named in the config.
func configureLogging(environment env.Environment, logFile string, lc config.LoggingConfig, logToFile bool) error {
	if logFile == "" {
		logFile = lc.File
	}
	if logFile == "" && logToFile {
		logFile = config.DefaultLogPath()
	}

	opts := []logger.Option{
		logger.WithLogToFile(logFile != ""),
		logger.WithLogFile(xfs.ExpandTilde(logFile)),
	}

	if lc.Level != "" {
		level, err := logger.ParseLevel(lc.Level)
		if err != nil {
			return err
		}
		opts = append(opts, logger.WithLevel(level))
	}

	slog.SetDefault(logger.New(environment, opts...))
	return nil
}

func defaultConfigPath() string {
	if p := os.Getenv(envvar.ModelstoreConfigPath); p != "" {
		return p
	}
	return filepath.Join(config.DefaultConfigPath(), "config.yaml")
}

func defaultGRPCPort() int {
	if p := os.Getenv(envvar.ModelstoreGRPCPort); p != "" {
		if port, err := strconv.Atoi(p); err == nil {
			return port
		}
	}
	return config.DefaultGRPCPort()
}
