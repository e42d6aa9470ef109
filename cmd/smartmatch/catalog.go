package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jonathan/smartmatch/internal/catalog"
	"github.com/jonathan/smartmatch/internal/db"
	"github.com/jonathan/smartmatch/internal/schemas"
	"github.com/jonathan/smartmatch/internal/scheduler"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var (
	catalogFile        string
	catalogSQLite      string
	catalogDatabaseURL string
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage internship catalogs",
}

var catalogImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a YAML or JSON catalog file",
	Long:  "Validates a catalog file and upserts its active internships into a SQLite catalog (--sqlite) or PostgreSQL (--database-url or DATABASE_URL).",
	RunE:  runCatalogImport,
}

var catalogExpireCmd = &cobra.Command{
	Use:   "expire",
	Short: "Deactivate internships whose application deadline has passed",
	RunE:  runCatalogExpire,
}

func init() {
	catalogImportCmd.Flags().StringVarP(&catalogFile, "file", "f", "", "Catalog file (required)")
	if err := catalogImportCmd.MarkFlagRequired("file"); err != nil {
		panic(fmt.Sprintf("failed to mark file flag as required: %v", err))
	}

	for _, c := range []*cobra.Command{catalogImportCmd, catalogExpireCmd} {
		c.Flags().StringVar(&catalogSQLite, "sqlite", "", "SQLite catalog file")
		c.Flags().StringVar(&catalogDatabaseURL, "database-url", "", "PostgreSQL URL (default DATABASE_URL)")
		c.MarkFlagsMutuallyExclusive("sqlite", "database-url")
		catalogCmd.AddCommand(c)
	}
	rootCmd.AddCommand(catalogCmd)
}

// catalogStore is a catalog destination that can also expire entries.
type catalogStore interface {
	catalog.Importer
	scheduler.Expirer
}

// openCatalogStore opens the SQLite file when given, PostgreSQL otherwise.
func openCatalogStore(ctx context.Context, databaseURL string) (catalogStore, func(), error) {
	if catalogSQLite != "" {
		store, err := catalog.OpenSQLite(ctx, catalogSQLite)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	}

	if databaseURL == "" {
		return nil, nil, errors.New("no destination: use --sqlite, --database-url or DATABASE_URL")
	}
	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return nil, nil, err
	}
	return database, database.Close, nil
}

// snapshotDeleter drops a cached catalog snapshot.
type snapshotDeleter interface {
	Delete(ctx context.Context) error
}

// openSnapshots connects to the snapshot cache at redisURL.
var openSnapshots = func(ctx context.Context, redisURL string) (snapshotDeleter, func(), error) {
	client, err := catalog.NewRedisClient(ctx, redisURL)
	if err != nil {
		return nil, nil, err
	}
	return catalog.NewRedisSnapshots(client), func() { _ = client.Close() }, nil
}

// invalidateCatalogCache drops the snapshot served by running servers so the
// next recommendation reads the updated table. SQLite catalogs are never
// cached. Failures are logged and the snapshot then expires after its TTL.
func invalidateCatalogCache(ctx context.Context, redisURL string, log *zap.Logger) {
	if catalogSQLite != "" || redisURL == "" {
		return
	}

	snapshots, closeSnapshots, err := openSnapshots(ctx, redisURL)
	if err != nil {
		log.Warn("catalog cache not invalidated", zap.Error(err))
		return
	}
	defer closeSnapshots()

	if err := snapshots.Delete(ctx); err != nil {
		log.Warn("catalog cache not invalidated", zap.Error(err))
		return
	}
	log.Info("catalog cache invalidated")
}

// validateCatalogSchema checks the raw document against the catalog schema.
// It is skipped when the schema cannot be found.
func validateCatalogSchema(path string, log *zap.Logger) error {
	schemaPath := schemas.ResolveSchemaPath(schemas.CatalogSchema)
	if schemaPath == "" {
		log.Debug("catalog schema not found, skipping schema validation")
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}
	if err := schemas.ValidateDocument(schemaPath, doc); err != nil {
		return fmt.Errorf("catalog %s does not match schema: %w", path, err)
	}
	return nil
}

func runCatalogImport(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup(cmd, map[string]string{"database.url": "database-url"})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if err := validateCatalogSchema(catalogFile, log); err != nil {
		return err
	}
	file, err := catalog.LoadFile(catalogFile)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	store, closeStore, err := openCatalogStore(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer closeStore()

	opportunities := file.Opportunities()
	n, err := catalog.Import(ctx, opportunities, store)
	if err != nil {
		return fmt.Errorf("imported %d of %d internships: %w", n, len(opportunities), err)
	}
	invalidateCatalogCache(ctx, cfg.Redis.URL, log)

	log.Info("catalog imported",
		zap.String("file", catalogFile),
		zap.Int("imported", n),
		zap.Int("skipped_inactive", len(file.Internships)-n),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d internships\n", n)
	return nil
}

func runCatalogExpire(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup(cmd, map[string]string{"database.url": "database-url"})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()
	store, closeStore, err := openCatalogStore(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer closeStore()

	n, err := store.DeactivateExpired(ctx, time.Now())
	if err != nil {
		return err
	}
	if n > 0 {
		invalidateCatalogCache(ctx, cfg.Redis.URL, log)
	}
	log.Info("expiry complete", zap.Int64("deactivated", n))
	fmt.Fprintf(cmd.OutOrStdout(), "Deactivated %d internships\n", n)
	return nil
}
