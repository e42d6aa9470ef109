// Package main provides the smartmatch command: the internship recommendation
// API server and its offline tools.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/jonathan/smartmatch/internal/config"
	"github.com/jonathan/smartmatch/internal/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "smartmatch",
	Short:         "Internship recommendation engine",
	Long:          "smartmatch filters an internship catalog by a student's profile, scores the eligible internships and returns the best matches, over HTTP or from the command line.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Config file (default ./"+config.DefaultFile+" when present)")
	pf.BoolP("debug", "d", false, "Enable debug logging")
	pf.BoolP("json", "j", false, "Write logs as JSON")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads the configuration with cmd's flags applied and builds the logger.
// bindings maps config keys to flag names of cmd.
func setup(cmd *cobra.Command, bindings map[string]string) (*config.Config, *zap.Logger, error) {
	v := config.NewViper()

	all := map[string]string{"log.debug": "debug", "log.json": "json"}
	for key, flag := range bindings {
		all[key] = flag
	}
	if err := bindFlags(v, cmd, all); err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load(v, configPath)
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return cfg, log, nil
}

// bindFlags binds flags that were set explicitly, so unset flags do not mask
// file or environment values.
func bindFlags(v *viper.Viper, cmd *cobra.Command, bindings map[string]string) error {
	for key, name := range bindings {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			return fmt.Errorf("unknown flag %q", name)
		}
		if !f.Changed {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag %q: %w", name, err)
		}
	}
	return nil
}
