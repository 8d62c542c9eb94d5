// Command backdrop runs an interactive particle backdrop in a window or a
// terminal.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/phanxgames/backdrop"
)

var (
	// Global flags
	verbose bool
	logFile string

	// Field flags shared by run and term
	presetName string
	configPath string
	seed       uint64

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "backdrop",
	Short: "Interactive particle backdrops",
	Long: `backdrop renders a field of drifting particles that react to the pointer,
optionally joined by proximity lines and lit by a glow that follows the cursor.

Built-in presets: micro (anchored, repelled, glowing), drift (free-floating,
attracted) and constellation (a denser drift). A YAML file can extend any of them.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		if logFile != "" {
			config.OutputPaths = []string{logFile}
			config.ErrorOutputPaths = []string{logFile}
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file instead of stderr")

	for _, c := range []*cobra.Command{runCmd, termCmd} {
		c.Flags().StringVarP(&presetName, "preset", "p", "micro", "built-in preset name")
		c.Flags().StringVarP(&configPath, "config", "c", "", "YAML preset file (overrides --preset)")
		c.Flags().Uint64Var(&seed, "seed", 0, "random seed (0 = time based)")
	}

	rootCmd.AddCommand(runCmd, termCmd, presetsCmd)
}

// loadConfig resolves --config or --preset.
func loadConfig() (backdrop.Config, error) {
	if configPath != "" {
		return backdrop.LoadPresetFile(configPath)
	}
	return backdrop.Preset(presetName)
}

// fieldName labels the field in logs.
func fieldName() string {
	if configPath != "" {
		return configPath
	}
	return presetName
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
