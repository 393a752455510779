package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/wayscriber/wayscriber/internal/draw"
)

// Renderer serializes a Report to bytes.
type Renderer interface {
	Render(r *Report) ([]byte, error)
}

// ForFormat returns the renderer for a format name.
func ForFormat(format string) (Renderer, error) {
	switch format {
	case "json":
		return &JSONRenderer{}, nil
	case "markdown", "md":
		return &MarkdownRenderer{}, nil
	case "text", "":
		return &TextRenderer{}, nil
	}
	return nil, fmt.Errorf("unknown report format %q", format)
}

// JSONRenderer renders a Report as indented JSON.
type JSONRenderer struct{}

func (r *JSONRenderer) Render(rep *Report) ([]byte, error) {
	return json.MarshalIndent(rep, "", "  ")
}

// MarkdownRenderer renders a Report as human-readable Markdown.
type MarkdownRenderer struct{}

func (r *MarkdownRenderer) Render(rep *Report) ([]byte, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Wayscriber session — %s\n\n", rep.File.Path)

	sb.WriteString("## File\n\n")
	if !rep.File.Exists {
		sb.WriteString("_No session file on disk._\n")
		return []byte(sb.String()), nil
	}
	fmt.Fprintf(&sb, "- Size: %d bytes\n", rep.File.SizeBytes)
	fmt.Fprintf(&sb, "- Modified: %s\n", rep.File.Modified.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&sb, "- Version: %d\n", rep.File.Version)
	fmt.Fprintf(&sb, "- Compressed: %v\n", rep.File.Compressed)
	if rep.File.Output != "" {
		fmt.Fprintf(&sb, "- Output: %s\n", rep.File.Output)
	}
	if rep.Backup != nil {
		fmt.Fprintf(&sb, "- Backup: %s (%d bytes)\n", rep.Backup.Path, rep.Backup.SizeBytes)
	}
	sb.WriteString("\n")

	sb.WriteString("## Boards\n\n")
	if len(rep.Boards) == 0 {
		sb.WriteString("_No boards persisted._\n")
	} else {
		sb.WriteString("| Board | Page | Shapes | Undo | Redo |\n")
		sb.WriteString("|-------|------|--------|------|------|\n")
		for _, b := range rep.Boards {
			mode := b.Mode
			if b.Active {
				mode += " *"
			}
			for i, p := range b.Pages {
				name := p.Name
				if name == "" {
					name = fmt.Sprintf("%d", i+1)
				}
				if p.Active {
					name += " *"
				}
				fmt.Fprintf(&sb, "| %s | %s | %d | %d | %d |\n",
					mode, name, p.Shapes, p.UndoDepth, p.RedoDepth)
			}
		}
	}
	sb.WriteString("\n")

	if rep.Tool != nil {
		sb.WriteString("## Tool state\n\n")
		fmt.Fprintf(&sb, "- Color: %s\n", rep.Tool.Color)
		fmt.Fprintf(&sb, "- Thickness: %.1f\n", rep.Tool.Thickness)
		fmt.Fprintf(&sb, "- Eraser: %.1f %s (%s mode)\n",
			rep.Tool.EraserSize, rep.Tool.EraserKind, rep.Tool.EraserMode)
		fmt.Fprintf(&sb, "- Font size: %.1f\n", rep.Tool.FontSize)
		if rep.Tool.Tool != "" {
			fmt.Fprintf(&sb, "- Tool: %s\n", rep.Tool.Tool)
		}
		sb.WriteString("\n")
	}

	return []byte(sb.String()), nil
}

// TextRenderer renders the compact plain-text form used by `session info`.
type TextRenderer struct{}

func (r *TextRenderer) Render(rep *Report) ([]byte, error) {
	var sb strings.Builder

	row := func(label, value string) {
		fmt.Fprintf(&sb, "  %-14s %s\n", label, value)
	}

	row("Session:", rep.File.Path)
	if !rep.File.Exists {
		row("Status:", "absent")
		return []byte(sb.String()), nil
	}
	row("Size:", fmt.Sprintf("%d bytes", rep.File.SizeBytes))
	row("Modified:", rep.File.Modified.Format("2006-01-02 15:04:05 MST"))
	row("Version:", fmt.Sprintf("%d", rep.File.Version))
	row("Compressed:", fmt.Sprintf("%v", rep.File.Compressed))
	if rep.File.Output != "" {
		row("Output:", rep.File.Output)
	}
	if rep.Backup != nil {
		row("Backup:", fmt.Sprintf("%s (%d bytes)", rep.Backup.Path, rep.Backup.SizeBytes))
	}

	for _, b := range rep.Boards {
		shapes := 0
		for _, p := range b.Pages {
			shapes += p.Shapes
		}
		label := b.Mode + ":"
		value := fmt.Sprintf("%d pages, %d shapes", len(b.Pages), shapes)
		if kinds := kindBreakdown(b); kinds != "" {
			value += " (" + kinds + ")"
		}
		row(label, value)
	}

	if rep.History != nil {
		row("History:", fmt.Sprintf("%d undo, %d redo", rep.History.UndoTotal, rep.History.RedoTotal))
	}
	if rep.Tool != nil {
		row("Tool state:", fmt.Sprintf("color %s, thickness %.1f", rep.Tool.Color, rep.Tool.Thickness))
	}
	return []byte(sb.String()), nil
}

func kindBreakdown(b BoardMeta) string {
	totals := make(map[string]int)
	for _, p := range b.Pages {
		for kind, n := range p.ByKind {
			totals[kind] += n
		}
	}
	if len(totals) == 0 {
		return ""
	}
	kinds := make([]string, 0, len(totals))
	for kind := range totals {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	parts := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		parts = append(parts, fmt.Sprintf("%d %s", totals[kind], kind))
	}
	return strings.Join(parts, ", ")
}

func formatColor(c draw.Color) string {
	toByte := func(v float64) int {
		n := int(v*255 + 0.5)
		if n < 0 {
			return 0
		}
		if n > 255 {
			return 255
		}
		return n
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", toByte(c.R), toByte(c.G), toByte(c.B), toByte(c.A))
}
