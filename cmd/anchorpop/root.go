// Package main provides the CLI entrypoint for anchorpop.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/anchorpop/internal/config"
	"github.com/jmylchreest/anchorpop/internal/theme"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// Global configuration and state
var (
	cfg        *config.Config
	globalOpts struct {
		verbose    bool
		configPath string
		themeName  string
	}
	logger *slog.Logger
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "anchorpop",
	Short: "Anchor-relative popup placement for Linux desktops",
	Long: `anchorpop positions floating popups next to an anchor rectangle.

It picks a side of the anchor (below, above or centered in the visible
frame), reserves room for a drop shadow and a pointer arrow, chooses a
matching entry animation and re-positions the popup when its content
changes size after it is shown.

Running anchorpop without a subcommand launches the interactive preview.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger()

		path := globalOpts.configPath
		if path == "" {
			path = config.ConfigPath()
		}

		var err error
		cfg, err = config.LoadConfig(path)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if globalOpts.themeName != "" {
			cfg.Theme.Name = globalOpts.themeName
			cfg.Theme.Path = ""
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPreview(cmd, args)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/anchorpop/config.toml)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.themeName, "theme", "",
		"Theme name, overriding the config file")
}

// setupLogger configures the global slog logger.
func setupLogger() {
	level := slog.LevelWarn
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	// Log to stderr so stdout is clean for output
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

// getConfig returns the global config instance.
func getConfig() *config.Config {
	if cfg == nil {
		return config.DefaultConfig()
	}
	return cfg
}

// loadThemes creates a theme loader with the configured theme applied.
// A theme that fails to load falls back to the bundled default.
func loadThemes(c *config.Config) *theme.Loader {
	loader := theme.NewLoader(logger)

	var err error
	if c.Theme.Path != "" {
		err = loader.LoadFile(c.Theme.Path)
	} else {
		err = loader.LoadTheme(c.Theme.Name)
	}
	if err != nil {
		logger.Warn("failed to load theme, using default", "theme", c.Theme.Name, "path", c.Theme.Path, "error", err)
		_ = loader.LoadTheme(theme.DefaultThemeName)
	}
	return loader
}
