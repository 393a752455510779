package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/wayscriber/wayscriber/internal/config"
	"github.com/wayscriber/wayscriber/internal/draw"
	"github.com/wayscriber/wayscriber/internal/session"
)

// executeCommand runs a cobra command with the given args and captures
// combined output.
func executeCommand(root *cobra.Command, args ...string) (output string, err error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	_, err = root.ExecuteC()
	return buf.String(), err
}

// writeTestConfig writes a config file pointing session storage at dir and
// returns its path.
func writeTestConfig(t *testing.T, dir string) string {
	t.Helper()
	cfgFile := filepath.Join(dir, "config.json")
	body := map[string]any{
		"session": map[string]any{
			"directory":           dir,
			"persist_transparent": true,
			"per_output":          false,
		},
	}
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cfgFile, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return cfgFile
}

// saveTestSession persists a small snapshot into dir and returns the options
// used, so tests can assert against the same paths.
func saveTestSession(t *testing.T, dir string) *session.Options {
	t.Helper()

	page := draw.NewFrame()
	page.AddShape(draw.Line{X1: 0, Y1: 0, X2: 50, Y2: 50, Color: draw.Red, Thick: 3})
	page.AddShape(draw.Rect{X: 10, Y: 10, W: 30, H: 30, Color: draw.Blue, Thick: 2})
	snap := &session.Snapshot{
		ActiveMode:  draw.ModeTransparent,
		Transparent: &session.BoardPagesSnapshot{Pages: []*draw.Frame{page}},
	}

	opts := session.NewOptions(dir, "test")
	opts.PerOutput = false
	opts.PersistTransparent = true
	if err := session.Save(snap, opts); err != nil {
		t.Fatalf("Save: %v", err)
	}
	return opts
}

func TestSessionInfoAbsentFile(t *testing.T) {
	dir := t.TempDir()
	cfgFile := writeTestConfig(t, dir)

	out, err := executeCommand(rootCmd, "session", "info", "--config", cfgFile, "--display", "test")
	if err != nil {
		t.Fatalf("session info: %v", err)
	}
	if !strings.Contains(out, "absent") {
		t.Fatalf("output missing absent marker:\n%s", out)
	}
}

func TestSessionInfoCountsShapes(t *testing.T) {
	dir := t.TempDir()
	cfgFile := writeTestConfig(t, dir)
	saveTestSession(t, dir)

	out, err := executeCommand(rootCmd, "session", "info", "--config", cfgFile, "--display", "test")
	if err != nil {
		t.Fatalf("session info: %v", err)
	}
	if !strings.Contains(out, "1 pages, 2 shapes") {
		t.Fatalf("output missing shape counts:\n%s", out)
	}
	if !strings.Contains(out, "1 line, 1 rect") {
		t.Fatalf("output missing kind breakdown:\n%s", out)
	}
}

func TestSessionClearRemovesFiles(t *testing.T) {
	dir := t.TempDir()
	cfgFile := writeTestConfig(t, dir)
	opts := saveTestSession(t, dir)

	out, err := executeCommand(rootCmd, "session", "clear", "--config", cfgFile, "--display", "test")
	if err != nil {
		t.Fatalf("session clear: %v", err)
	}
	if !strings.Contains(out, "removed session file") {
		t.Fatalf("output missing removal notice:\n%s", out)
	}
	if _, err := os.Stat(opts.SessionFilePath()); !os.IsNotExist(err) {
		t.Fatalf("session file survived clear: %v", err)
	}

	out, err = executeCommand(rootCmd, "session", "clear", "--config", cfgFile, "--display", "test")
	if err != nil {
		t.Fatalf("second clear: %v", err)
	}
	if !strings.Contains(out, "nothing to clear") {
		t.Fatalf("second clear output:\n%s", out)
	}
}

func TestSessionExportMarkdown(t *testing.T) {
	dir := t.TempDir()
	cfgFile := writeTestConfig(t, dir)
	saveTestSession(t, dir)
	target := filepath.Join(dir, "report.md")

	out, err := executeCommand(rootCmd,
		"session", "export", target,
		"--config", cfgFile, "--display", "test", "--format", "markdown")
	if err != nil {
		t.Fatalf("session export: %v", err)
	}
	if !strings.Contains(out, "wrote "+target) {
		t.Fatalf("export output:\n%s", out)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}
	if !strings.Contains(string(data), "# Wayscriber session") {
		t.Fatalf("report missing title:\n%s", data)
	}
	if !strings.Contains(string(data), "| transparent *") {
		t.Fatalf("report missing board table:\n%s", data)
	}
}

func TestSessionExportAbsentFileFails(t *testing.T) {
	dir := t.TempDir()
	cfgFile := writeTestConfig(t, dir)

	_, err := executeCommand(rootCmd,
		"session", "export", "--config", cfgFile, "--display", "test", "--format", "json")
	if err == nil || !strings.Contains(err.Error(), "no session file") {
		t.Fatalf("error = %v, want no-session failure", err)
	}
}

func TestConfigShowReflectsExplicitConfig(t *testing.T) {
	dir := t.TempDir()
	cfgFile := writeTestConfig(t, dir)

	out, err := executeCommand(rootCmd, "config", "show", "--config", cfgFile)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}

	var shown config.Config
	if err := json.Unmarshal([]byte(out), &shown); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if shown.Session.Directory != dir {
		t.Fatalf("session directory = %q, want %q", shown.Session.Directory, dir)
	}
	if shown.Session.PersistTransparent == nil || !*shown.Session.PersistTransparent {
		t.Fatal("persist_transparent not carried through")
	}
	// Defaults filled in by the merge.
	if shown.Drawing.Thickness != 3 {
		t.Fatalf("thickness = %v, want default 3", shown.Drawing.Thickness)
	}
}
