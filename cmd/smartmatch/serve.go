package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonathan/smartmatch/internal/catalog"
	"github.com/jonathan/smartmatch/internal/db"
	"github.com/jonathan/smartmatch/internal/matching"
	"github.com/jonathan/smartmatch/internal/scheduler"
	"github.com/jonathan/smartmatch/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	servePort        int
	serveDatabaseURL string
	serveMigrate     bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes internship recommendations, accounts, profiles and registrations, together with the expiry scheduler.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().StringVar(&serveDatabaseURL, "database-url", "", "PostgreSQL URL (default DATABASE_URL)")
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "Apply the database schema before serving")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup(cmd, map[string]string{
		"server.port":  "port",
		"database.url": "database-url",
	})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if cfg.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL not set (set DATABASE_URL environment variable or use --database-url flag)")
	}
	jwtConfig, err := cfg.Auth.JWT()
	if err != nil {
		return fmt.Errorf("failed to create JWT config: %w", err)
	}
	passwordConfig, err := cfg.Auth.Password()
	if err != nil {
		return fmt.Errorf("failed to create password config: %w", err)
	}
	engine, err := matching.New(cfg.Matching.EngineConfig())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer database.Close()

	if serveMigrate {
		applied, err := database.Migrate(ctx)
		if err != nil {
			return err
		}
		log.Info("migrations applied", zap.Strings("files", applied))
	}

	var provider catalog.Provider = database
	var invalidator scheduler.Invalidator
	if cfg.Redis.CacheEnabled() {
		client, err := catalog.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()

		cached := catalog.NewCached(database, catalog.NewRedisSnapshots(client), cfg.Redis.CatalogTTL, log)
		provider, invalidator = cached, cached
		log.Info("catalog cache enabled", zap.Duration("ttl", cfg.Redis.CatalogTTL))
	}

	srv, err := server.New(server.Deps{
		Server:    cfg.Server,
		RateLimit: cfg.RateLimit,
		JWT:       jwtConfig,
		Password:  passwordConfig,
		Engine:    engine,
		Catalog:   provider,
		Store:     database,
		Logger:    log,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Start(gctx) })

	if cfg.Scheduler.Enabled {
		sched := scheduler.New(database, invalidator, cfg.Scheduler.ExpireSpec, log)
		g.Go(func() error {
			if err := sched.Start(gctx); err != nil {
				return err
			}
			<-gctx.Done()
			sched.Stop()
			return nil
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
