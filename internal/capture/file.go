package capture

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileSaveConfig controls where and how screenshots land on disk.
type FileSaveConfig struct {
	// Directory receives the files; created on first save.
	Directory string
	// FilenameTemplate supports %Y %m %d %H %M %S and %% escapes.
	FilenameTemplate string
	// Format is the extension, without the dot.
	Format string
}

// DefaultFileSaveConfig saves PNG files under ~/Pictures/Wayscriber.
func DefaultFileSaveConfig() FileSaveConfig {
	base, err := os.UserHomeDir()
	if err != nil {
		base = "."
	}
	return FileSaveConfig{
		Directory:        filepath.Join(base, "Pictures", "Wayscriber"),
		FilenameTemplate: "screenshot_%Y-%m-%d_%H%M%S",
		Format:           "png",
	}
}

// Filename renders the template against now and appends the extension.
func (c FileSaveConfig) Filename(now time.Time) string {
	return expandTemplate(c.FilenameTemplate, now) + "." + c.Format
}

func expandTemplate(template string, now time.Time) string {
	var b strings.Builder
	b.Grow(len(template) + 8)
	for i := 0; i < len(template); i++ {
		if template[i] != '%' || i+1 >= len(template) {
			b.WriteByte(template[i])
			continue
		}
		i++
		switch template[i] {
		case 'Y':
			fmt.Fprintf(&b, "%04d", now.Year())
		case 'm':
			fmt.Fprintf(&b, "%02d", int(now.Month()))
		case 'd':
			fmt.Fprintf(&b, "%02d", now.Day())
		case 'H':
			fmt.Fprintf(&b, "%02d", now.Hour())
		case 'M':
			fmt.Fprintf(&b, "%02d", now.Minute())
		case 'S':
			fmt.Fprintf(&b, "%02d", now.Second())
		case '%':
			b.WriteByte('%')
		default:
			b.WriteByte('%')
			b.WriteByte(template[i])
		}
	}
	return b.String()
}

// SaveScreenshot writes image bytes under the configured directory and
// returns the full path. Files are user-readable only.
func SaveScreenshot(image []byte, config FileSaveConfig) (string, error) {
	if err := os.MkdirAll(config.Directory, 0o755); err != nil {
		return "", fmt.Errorf("create screenshot directory: %w", err)
	}
	path := filepath.Join(config.Directory, config.Filename(time.Now()))
	if err := os.WriteFile(path, image, 0o600); err != nil {
		return "", fmt.Errorf("write screenshot: %w", err)
	}
	slog.Info("screenshot saved", "path", path, "bytes", len(image))
	return path, nil
}
