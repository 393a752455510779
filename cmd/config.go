package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wayscriber/wayscriber/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage wayscriber configuration",
}

var initForce bool

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file to the global location",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GlobalPath()
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); err == nil && !initForce {
			return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
		}

		defaults := config.Defaults()
		data, err := json.MarshalIndent(&defaults, "", "  ")
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
			return err
		}
		cmd.Printf("wrote %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective merged configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := json.MarshalIndent(&cfg, "", "  ")
		if err != nil {
			return err
		}
		return writeOut(cmd.OutOrStdout(), data)
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
