package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/smartmatch/internal/catalog"
	"github.com/jonathan/smartmatch/internal/matching"
	"github.com/jonathan/smartmatch/internal/observability"
	"github.com/jonathan/smartmatch/internal/schemas"
	"github.com/jonathan/smartmatch/internal/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	recommendProfile string
	recommendCatalog string
	recommendLimit   int
	recommendOut     string
	recommendFormat  string
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend internships for a profile without the server",
	Long:  "Reads a profile JSON file and a catalog (YAML, JSON or a SQLite .db file), and writes the ranked recommendations as JSON or boxed text.",
	RunE:  runRecommend,
}

func init() {
	recommendCmd.Flags().StringVarP(&recommendProfile, "profile", "p", "", "Profile JSON file (required)")
	recommendCmd.Flags().StringVarP(&recommendCatalog, "catalog", "c", "", "Catalog file: .yaml, .yml, .json or .db (required)")
	recommendCmd.Flags().IntVarP(&recommendLimit, "limit", "n", 0, "Maximum recommendations (default matching.limit)")
	recommendCmd.Flags().StringVarP(&recommendOut, "out", "o", "", "Output file (default stdout)")
	recommendCmd.Flags().StringVar(&recommendFormat, "format", "json", "Output format: json or text")

	if err := recommendCmd.MarkFlagRequired("profile"); err != nil {
		panic(fmt.Sprintf("failed to mark profile flag as required: %v", err))
	}
	if err := recommendCmd.MarkFlagRequired("catalog"); err != nil {
		panic(fmt.Sprintf("failed to mark catalog flag as required: %v", err))
	}

	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, _ []string) error {
	if recommendFormat != "json" && recommendFormat != "text" {
		return fmt.Errorf("unknown format %q: expected json or text", recommendFormat)
	}

	cfg, log, err := setup(cmd, map[string]string{"matching.limit": "limit"})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	profile, err := loadProfile(recommendProfile)
	if err != nil {
		return err
	}

	engine, err := matching.New(cfg.Matching.EngineConfig())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	opportunities, err := loadCatalog(ctx, recommendCatalog)
	if err != nil {
		return err
	}

	ranked, summary, err := engine.Evaluate(profile, opportunities)
	if err != nil {
		return err
	}
	log.Info("recommendation complete",
		zap.Int("catalog", summary.Catalog),
		zap.Int("eligible", summary.Eligible),
		zap.Int("returned", summary.Returned),
	)

	resp := types.NewRecommendationResponse(ranked, summary.Catalog)
	if schemaPath := schemas.ResolveSchemaPath(schemas.RecommendationsSchema); schemaPath != "" {
		if err := schemas.ValidateDocument(schemaPath, resp); err != nil {
			log.Warn("output does not match schema", zap.Error(err))
		}
	}

	if recommendFormat == "text" {
		return writeText(cmd.OutOrStdout(), recommendOut, profile, resp)
	}
	return writeJSON(cmd.OutOrStdout(), recommendOut, resp)
}

// loadProfile reads and validates a profile JSON file.
func loadProfile(path string) (matching.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return matching.Profile{}, fmt.Errorf("failed to read profile %s: %w", path, err)
	}

	var req types.RecommendRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return matching.Profile{}, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}
	if err := req.Validate(); err != nil {
		return matching.Profile{}, fmt.Errorf("invalid profile %s: %w", path, err)
	}
	return req.Profile(), nil
}

// loadCatalog reads the active internships of a catalog file or SQLite database.
func loadCatalog(ctx context.Context, path string) ([]matching.Opportunity, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("failed to open catalog %s: %w", path, err)
		}
		store, err := catalog.OpenSQLite(ctx, path)
		if err != nil {
			return nil, err
		}
		defer func() { _ = store.Close() }()
		return store.ActiveOpportunities(ctx)
	default:
		file, err := catalog.LoadFile(path)
		if err != nil {
			return nil, err
		}
		return catalog.NewFileProvider(file).ActiveOpportunities(ctx)
	}
}

// writeText prints the profile and ranked recommendations as boxed text to
// path, or to w when path is empty.
func writeText(w io.Writer, path string, profile matching.Profile, resp *types.RecommendationResponse) error {
	var buf bytes.Buffer
	printer := observability.NewPrinter(&buf)
	printer.PrintProfile(profile)
	printer.PrintRecommendations(resp)

	if path == "" {
		_, err := w.Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// writeJSON writes v indented to path, or to w when path is empty.
func writeJSON(w io.Writer, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err = w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
