// Package cmd implements the wayscriber command line interface.
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/wayscriber/wayscriber/internal/config"
)

// cfg holds the merged, validated configuration, populated in
// PersistentPreRunE.
var cfg config.Config

var (
	configPath string
	displayId  string
	outputName string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "wayscriber",
	Short: "Screen annotation engine for Wayland compositors",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Quiet structured logging by default; -v turns it back on.
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))

		if configPath != "" {
			explicit, err := config.LoadPath(configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			cfg = config.Merge(explicit, nil).Validated(slog.Default())
			return nil
		}

		global, err := config.LoadGlobal()
		if err != nil {
			return fmt.Errorf("loading global config: %w", err)
		}
		project, err := config.LoadProject()
		if err != nil {
			return fmt.Errorf("loading project config: %w", err)
		}
		cfg = config.Merge(global, project).Validated(slog.Default())
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to an explicit config file")
	rootCmd.PersistentFlags().StringVar(&displayId, "display", "", "display identifier the session belongs to (default $WAYLAND_DISPLAY)")
	rootCmd.PersistentFlags().StringVar(&outputName, "output", "", "output name when per-output sessions are enabled")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command. Exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// GetConfig returns the merged configuration for use by subcommands.
func GetConfig() config.Config {
	return cfg
}

// effectiveDisplay resolves the display identifier from the flag or the
// Wayland environment.
func effectiveDisplay() string {
	if displayId != "" {
		return displayId
	}
	if env := os.Getenv("WAYLAND_DISPLAY"); env != "" {
		return env
	}
	return "wayland-0"
}

func writeOut(w io.Writer, data []byte) error {
	if _, err := w.Write(data); err != nil {
		return err
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		_, err := io.WriteString(w, "\n")
		return err
	}
	return nil
}
