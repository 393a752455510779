package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wayscriber/wayscriber/internal/report"
	"github.com/wayscriber/wayscriber/internal/session"
	"github.com/wayscriber/wayscriber/internal/tui"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect and manage saved annotation sessions",
}

var sessionInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Summarise the saved session for this display",
	RunE: func(cmd *cobra.Command, args []string) error {
		insp, snap, err := inspectAndLoad()
		if err != nil {
			return err
		}
		data, err := (&report.TextRenderer{}).Render(report.Build(insp, snap))
		if err != nil {
			return err
		}
		return writeOut(cmd.OutOrStdout(), data)
	},
}

var exportFormat string

var sessionExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export a session report as markdown or JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		insp, snap, err := inspectAndLoad()
		if err != nil {
			return err
		}
		if !insp.Exists {
			return fmt.Errorf("no session file at %s", insp.SessionPath)
		}

		renderer, err := report.ForFormat(exportFormat)
		if err != nil {
			return err
		}
		data, err := renderer.Render(report.Build(insp, snap))
		if err != nil {
			return err
		}

		if len(args) == 0 {
			return writeOut(cmd.OutOrStdout(), data)
		}
		if err := os.WriteFile(args[0], data, 0o644); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		cmd.Printf("wrote %s\n", args[0])
		return nil
	},
}

var sessionClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the saved session, its backup, and its lock file",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := sessionOptions()
		if err != nil {
			return err
		}
		outcome, err := session.Clear(opts)
		if err != nil {
			return err
		}
		if !outcome.RemovedSession && !outcome.RemovedBackup && !outcome.RemovedLock {
			cmd.Println("nothing to clear")
			return nil
		}
		if outcome.RemovedSession {
			cmd.Println("removed session file")
		}
		if outcome.RemovedBackup {
			cmd.Println("removed backup file")
		}
		if outcome.RemovedLock {
			cmd.Println("removed lock file")
		}
		return nil
	},
}

var sessionViewCmd = &cobra.Command{
	Use:   "view",
	Short: "Browse the saved session in a terminal UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		insp, snap, err := inspectAndLoad()
		if err != nil {
			return err
		}
		if !insp.Exists {
			return fmt.Errorf("no session file at %s", insp.SessionPath)
		}
		return tui.Run(snap, insp)
	},
}

// sessionOptions builds persistence options from the merged config plus the
// display and output flags.
func sessionOptions() (*session.Options, error) {
	opts, err := cfg.SessionOptions(effectiveDisplay())
	if err != nil {
		return nil, err
	}
	if outputName != "" {
		opts.SetOutputIdentity(outputName)
	}
	return opts, nil
}

// inspectAndLoad reads the on-disk session regardless of the configured
// persistence flags. With per-output naming and no output flag, the identity
// discovered during inspection is bound before loading.
func inspectAndLoad() (*session.Inspection, *session.Snapshot, error) {
	opts, err := sessionOptions()
	if err != nil {
		return nil, nil, err
	}
	opts.ApplyOverride(session.ForceOn)

	insp, err := session.Inspect(opts)
	if err != nil {
		return nil, nil, err
	}
	if !insp.Exists {
		return insp, nil, nil
	}
	if insp.ActiveIdentity != "" {
		opts.SetOutputIdentity(insp.ActiveIdentity)
	}
	snap, err := session.Load(opts)
	if err != nil {
		return nil, nil, err
	}
	return insp, snap, nil
}

func init() {
	sessionExportCmd.Flags().StringVar(&exportFormat, "format", "markdown", "report format: markdown or json")
	sessionCmd.AddCommand(sessionInfoCmd)
	sessionCmd.AddCommand(sessionExportCmd)
	sessionCmd.AddCommand(sessionClearCmd)
	sessionCmd.AddCommand(sessionViewCmd)
	rootCmd.AddCommand(sessionCmd)
}
