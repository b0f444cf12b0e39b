package cmd

import (
	"fmt"
	"os"
	"strings"

	"asset-bundler/core/config"
	"asset-bundler/core/logger"
	"asset-bundler/core/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Persistent flags shared by all subcommands
	platformsFlag   []string
	catalogFileFlag string
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "asset-bundler",
	Short: "Asset pack assignment and sampling-log tool",
	Long: `Asset Bundler assigns game assets to numbered delivery packs,
reconciles pack assignments against built archive files, and writes
sampling logs for disk-access profiling of a packaged build.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Use the application's standard logger for error reporting
		// Console format with debug level keeps CLI output readable
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			// Absolute fallback if logger creation fails (rare)
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringSliceVar(&platformsFlag, "platform", nil, "Platform(s) to process (overrides configured default)")
	RootCmd.PersistentFlags().StringVar(&catalogFileFlag, "catalog", "", "Override the asset catalog file path")
}

// setup loads configuration and builds the logger for a command run.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, logg, nil
}

// resolvePlatforms returns the platforms from the --platform flag, falling
// back to the configured default list.
func resolvePlatforms(cfg *config.Config) []string {
	if len(platformsFlag) > 0 {
		return platformsFlag
	}
	var platforms []string
	for _, p := range strings.Split(cfg.Bundler.Platforms, ",") {
		if p = strings.TrimSpace(p); p != "" {
			platforms = append(platforms, p)
		}
	}
	return platforms
}

// catalogPathFor returns the platform-specific catalog file path.
func catalogPathFor(cfg *config.Config, platform string) string {
	file := cfg.Catalog.File
	if catalogFileFlag != "" {
		file = catalogFileFlag
	}
	return utils.AddPlatformSuffix(file, platform)
}
