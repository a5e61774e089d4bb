// Command condensight runs the condenser fouling analytics server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/HerbHall/condensight/internal/condenser"
	"github.com/HerbHall/condensight/internal/config"
	"github.com/HerbHall/condensight/internal/event"
	"github.com/HerbHall/condensight/internal/feed"
	"github.com/HerbHall/condensight/internal/registry"
	"github.com/HerbHall/condensight/internal/server"
	"github.com/HerbHall/condensight/internal/store"
	"github.com/HerbHall/condensight/internal/version"
	"github.com/HerbHall/condensight/internal/ws"
	"github.com/HerbHall/condensight/pkg/plugin"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

func main() {
	configPath := flag.String("config", "", "path to config file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Info())
		return
	}

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "condensight: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	v, err := server.LoadConfig(configPath)
	if err != nil {
		return err
	}

	logger, err := config.NewLogger(v)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	logger.Info("starting condensight",
		zap.String("version", version.Short()),
		zap.String("commit", version.Commit),
	)

	// Database.
	dbPath := v.GetString("database.path")
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	db, err := store.New(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.CheckVersion(ctx, version.Version); err != nil {
		return fmt.Errorf("schema version check: %w", err)
	}

	// Event bus and module registry.
	bus := event.NewBus(logger.Named("event"))
	reg := registry.New(logger.Named("registry"))

	for _, p := range []plugin.Plugin{
		feed.New(),
		condenser.New(),
	} {
		if err := reg.Register(p); err != nil {
			return fmt.Errorf("registering module: %w", err)
		}
	}

	if err := reg.Validate(); err != nil {
		return fmt.Errorf("module validation: %w", err)
	}

	rootCfg := config.New(v)
	depsFn := func(name string) plugin.Dependencies {
		return plugin.Dependencies{
			Config: rootCfg.Sub("modules." + name),
			Logger: logger.Named(name),
			Store:  db,
			Bus:    bus,
		}
	}

	if err := reg.InitAll(ctx, depsFn); err != nil {
		return fmt.Errorf("module init: %w", err)
	}
	if err := reg.StartAll(ctx); err != nil {
		return fmt.Errorf("module start: %w", err)
	}

	// Live WebSocket push.
	wsHandler := ws.NewHandler(bus, logger.Named("ws"))
	defer wsHandler.Close()

	// HTTP server. Read keys directly: viper.Sub drops values that only
	// exist as defaults.
	srvCfg := server.Config{
		Host:    v.GetString("server.host"),
		Port:    v.GetInt("server.port"),
		DataDir: v.GetString("server.data_dir"),
	}

	ready := func(ctx context.Context) error {
		return db.DB().PingContext(ctx)
	}
	srv := server.New(srvCfg.Addr(), reg, logger.Named("http"), ready, wsHandler)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	// Wait for shutdown signal or server failure.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", zap.Error(err))
	}
	reg.StopAll(shutdownCtx)

	logger.Info("condensight stopped")
	return nil
}
