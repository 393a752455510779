// Package tui provides a Bubble Tea browser for saved Wayscriber sessions.
package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wayscriber/wayscriber/internal/draw"
	"github.com/wayscriber/wayscriber/internal/session"
)

// ── Styles ────────────

var (
	// Title bar at the very top
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	// Active tab: bright, underlined
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	// Inactive tab: muted
	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Background(lipgloss.Color("235")).
				Padding(0, 1)

	// Separator between tabs
	tabSepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238")).
			Background(lipgloss.Color("235"))

	// Section heading inside a tab
	sectionHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	// Key=value label
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	bulletStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205"))

	kindStrokeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	kindTextStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	kindEraserStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	lockedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)

	// Selected row in the Shapes list
	selectedRowStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("237"))
)

// ── Tab definitions ─────────────────

type tabID int

const (
	tabOverview tabID = iota
	tabPages
	tabShapes
	tabHistory
	tabToolState
	tabCount
)

var tabNames = [tabCount]string{
	"Overview", "Pages", "Shapes", "History", "Tool State",
}

// boardOrder fixes the board traversal used by every tab.
var boardOrder = [3]draw.BoardMode{
	draw.ModeTransparent, draw.ModeWhiteboard, draw.ModeBlackboard,
}

// shapeRow is one line of the Shapes tab: a shape plus where it came from.
type shapeRow struct {
	board draw.BoardMode
	page  int
	index int // z-order within the page
	shape draw.DrawnShape
}

// ── Model ────────────────────

// Model is the root Bubble Tea model for the session browser.
type Model struct {
	snapshot   *session.Snapshot
	inspection *session.Inspection
	filename   string
	activeTab  tabID
	viewports  [tabCount]viewport.Model
	width      int
	height     int
	ready      bool
	topFirst   bool // Shapes tab: topmost z-order first
	rows       []shapeRow
	// Shapes tab: cursor position and expanded set
	shapeCursor    int
	expandedShapes map[int]bool
}

// New creates a browser for a loaded snapshot and its inspection report.
// Either argument may be nil; the corresponding tabs render a placeholder.
func New(snap *session.Snapshot, insp *session.Inspection) Model {
	m := Model{
		snapshot:       snap,
		inspection:     insp,
		expandedShapes: make(map[int]bool),
	}
	if insp != nil {
		m.filename = filepath.Base(insp.SessionPath)
	}
	m.rows = buildShapeRows(snap, m.topFirst)
	return m
}

// ── Bubble Tea interface ───────────────

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab", "l", "right":
			m.activeTab = (m.activeTab + 1) % tabCount
		case "shift+tab", "h", "left":
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
		case "1", "2", "3", "4", "5":
			m.activeTab = tabID(msg.String()[0] - '1')
		case "s":
			if m.activeTab == tabShapes {
				m.topFirst = !m.topFirst
				m.rows = buildShapeRows(m.snapshot, m.topFirst)
				m.shapeCursor = 0
				m.expandedShapes = make(map[int]bool)
				m.rebuildShapesViewport()
				m.viewports[tabShapes].GotoTop()
			}
		case "up", "k":
			if m.activeTab == tabShapes && m.shapeCursor > 0 {
				m.shapeCursor--
				m.rebuildShapesViewport()
				return m, nil
			}
		case "down", "j":
			if m.activeTab == tabShapes && m.shapeCursor < len(m.rows)-1 {
				m.shapeCursor++
				m.rebuildShapesViewport()
				return m, nil
			}
		case "enter", " ":
			if m.activeTab == tabShapes && len(m.rows) > 0 {
				if m.expandedShapes[m.shapeCursor] {
					delete(m.expandedShapes, m.shapeCursor)
				} else {
					m.expandedShapes[m.shapeCursor] = true
				}
				m.rebuildShapesViewport()
				return m, nil
			}
		}
		var cmd tea.Cmd
		m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.initViewports()
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	if !m.ready {
		return "Loading…"
	}

	title := titleStyle.Width(m.width).Render("  wayscriber  " + m.filename)

	var tabParts []string
	for i := tabID(0); i < tabCount; i++ {
		label := fmt.Sprintf(" %d %s ", i+1, tabNames[i])
		if i == m.activeTab {
			tabParts = append(tabParts, activeTabStyle.Render(label))
		} else {
			tabParts = append(tabParts, inactiveTabStyle.Render(label))
		}
		if i < tabCount-1 {
			tabParts = append(tabParts, tabSepStyle.Render("│"))
		}
	}
	tabRow := lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Width(m.width).
		Render(lipgloss.JoinHorizontal(lipgloss.Top, tabParts...))

	content := m.viewports[m.activeTab].View()

	hint := "  ←/→ tab  ↑/↓ scroll  1-5 jump  q quit"
	if m.activeTab == tabShapes {
		dir := "bottom z first"
		if m.topFirst {
			dir = "top z first"
		}
		hint = "  ←/→ tab  ↑/↓ select  enter expand  s sort (" + dir + ")  q quit"
	}
	pct := fmt.Sprintf("%3.0f%%", m.viewports[m.activeTab].ScrollPercent()*100)
	pad := m.width - lipgloss.Width(hint) - len(pct) - 2
	if pad < 1 {
		pad = 1
	}
	statusBar := statusBarStyle.Width(m.width).Render(
		hint + strings.Repeat(" ", pad) + pct,
	)

	return lipgloss.JoinVertical(lipgloss.Left, title, tabRow, content, statusBar)
}

// ── Viewport management ───────────────────────────────────────────────────────

func (m *Model) initViewports() {
	// title(1) + tabRow(1) + statusBar(1) = 3 fixed rows
	vpHeight := m.height - 3
	if vpHeight < 1 {
		vpHeight = 1
	}
	for i := tabID(0); i < tabCount; i++ {
		vp := viewport.New(m.width, vpHeight)
		vp.SetContent(m.renderTab(i))
		m.viewports[i] = vp
	}
}

func (m *Model) rebuildShapesViewport() {
	m.viewports[tabShapes].SetContent(m.renderTab(tabShapes))
}

// ── Tab renderers ─────────────────────────────────────────────────────────────

func (m *Model) renderTab(t tabID) string {
	switch t {
	case tabOverview:
		return m.renderOverview()
	case tabPages:
		return m.renderPages()
	case tabShapes:
		return m.renderShapes()
	case tabHistory:
		return m.renderHistory()
	case tabToolState:
		return m.renderToolState()
	}
	return ""
}

func heading(s string) string {
	return "\n" + sectionHeader.Render("  "+s) + "\n\n"
}

func bullet(text string) string {
	return bulletStyle.Render("  •") + "  " + text + "\n"
}

func (m *Model) renderOverview() string {
	var sb strings.Builder
	sb.WriteString(heading("Session File"))

	row := func(label, value string) {
		sb.WriteString(labelStyle.Render(fmt.Sprintf("  %-16s", label)) + "  " + value + "\n")
	}

	i := m.inspection
	if i == nil {
		sb.WriteString(dimStyle.Render("  (no inspection data)") + "\n")
		return sb.String()
	}

	row("Path:", i.SessionPath)
	if !i.Exists {
		row("Status:", "absent")
		return sb.String()
	}
	row("Size:", formatBytes(i.SizeBytes))
	row("Modified:", i.Modified.Format("2006-01-02 15:04:05 MST"))
	row("Version:", fmt.Sprintf("%d", i.FileVersion))
	row("Compressed:", yesNo(i.Compressed))
	if i.PerOutput {
		identity := i.ActiveIdentity
		if identity == "" {
			identity = "(unbound)"
		}
		row("Output:", identity)
	}
	if i.BackupExists {
		row("Backup:", fmt.Sprintf("%s (%s)", i.BackupPath, formatBytes(i.BackupSizeBytes)))
	}

	sb.WriteString("\n")
	sb.WriteString(heading("Persistence"))
	row("Transparent:", yesNo(i.PersistTransparent))
	row("Whiteboard:", yesNo(i.PersistWhiteboard))
	row("Blackboard:", yesNo(i.PersistBlackboard))
	row("History:", yesNo(i.PersistHistory))
	row("Tool state:", yesNo(i.RestoreToolState))

	if i.PageCounts != nil && i.ShapeCounts != nil {
		sb.WriteString("\n")
		sb.WriteString(heading("Counts"))
		row("Pages:", boardCountsLine(*i.PageCounts))
		row("Shapes:", boardCountsLine(*i.ShapeCounts))
	}
	return sb.String()
}

func (m *Model) renderPages() string {
	var sb strings.Builder
	if m.snapshot == nil {
		sb.WriteString(heading("Pages"))
		sb.WriteString(dimStyle.Render("  (no session loaded)") + "\n")
		return sb.String()
	}

	for _, mode := range boardOrder {
		board := m.snapshot.Board(mode)
		label := boardLabel(mode, m.snapshot.ActiveMode)
		if board == nil || len(board.Pages) == 0 {
			sb.WriteString(heading(label))
			sb.WriteString(dimStyle.Render("  (not persisted)") + "\n")
			continue
		}
		sb.WriteString(heading(fmt.Sprintf("%s (%d pages)", label, len(board.Pages))))
		for idx, page := range board.Pages {
			name := page.PageName()
			if name == "" {
				name = fmt.Sprintf("page %d", idx+1)
			}
			line := fmt.Sprintf("%s  %d shapes", name, page.Len())
			if idx == board.Active {
				line += dimStyle.Render("  (active)")
			}
			sb.WriteString(bullet(line))
		}
	}
	return sb.String()
}

func (m *Model) renderShapes() string {
	var sb strings.Builder
	sb.WriteString(heading(fmt.Sprintf("Shapes (%d)", len(m.rows))))
	if len(m.rows) == 0 {
		sb.WriteString(dimStyle.Render("  (none)") + "\n")
		return sb.String()
	}

	for i, r := range m.rows {
		expanded := m.expandedShapes[i]
		toggle := dimStyle.Render("  ▶ ")
		if expanded {
			toggle = dimStyle.Render("  ▼ ")
		}

		badge := shapeBadge(r.shape.Shape)
		origin := dimStyle.Render(fmt.Sprintf("%s/p%d/z%d", shortBoard(r.board), r.page+1, r.index))
		line := fmt.Sprintf("%s%s  %s  %s", toggle, badge, origin, shapeSummary(r.shape.Shape))
		if r.shape.Locked {
			line += "  " + lockedStyle.Render("[locked]")
		}
		if i == m.shapeCursor {
			line = selectedRowStyle.Width(m.width - 2).Render(line)
		}
		sb.WriteString(line + "\n")

		if expanded {
			sb.WriteString(renderShapeDetail(r.shape))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m *Model) renderHistory() string {
	var sb strings.Builder
	sb.WriteString(heading("Undo History"))
	if m.snapshot == nil {
		sb.WriteString(dimStyle.Render("  (no session loaded)") + "\n")
		return sb.String()
	}

	any := false
	for _, mode := range boardOrder {
		board := m.snapshot.Board(mode)
		if board == nil {
			continue
		}
		for idx, page := range board.Pages {
			undo, redo := page.UndoDepth(), page.RedoDepth()
			if undo == 0 && redo == 0 {
				continue
			}
			any = true
			sb.WriteString(bullet(fmt.Sprintf(
				"%s page %d: %d undo, %d redo", shortBoard(mode), idx+1, undo, redo)))
		}
	}
	if !any {
		sb.WriteString(dimStyle.Render("  (no history persisted)") + "\n")
	}
	return sb.String()
}

func (m *Model) renderToolState() string {
	var sb strings.Builder
	sb.WriteString(heading("Tool State"))
	if m.snapshot == nil || m.snapshot.ToolState == nil {
		sb.WriteString(dimStyle.Render("  (not persisted)") + "\n")
		return sb.String()
	}
	t := m.snapshot.ToolState

	row := func(label, value string) {
		sb.WriteString(labelStyle.Render(fmt.Sprintf("  %-16s", label)) + "  " + value + "\n")
	}
	row("Color:", formatColor(t.CurrentColor))
	row("Thickness:", fmt.Sprintf("%.1f", t.CurrentThickness))
	row("Eraser:", fmt.Sprintf("%.1f %s (%s mode)", t.EraserSize, t.EraserKind, t.EraserMode))
	if t.MarkerOpacity != nil {
		row("Marker opacity:", fmt.Sprintf("%.2f", *t.MarkerOpacity))
	}
	if t.FillEnabled != nil {
		row("Fill:", yesNo(*t.FillEnabled))
	}
	if t.ToolOverride != nil {
		row("Tool:", string(*t.ToolOverride))
	}
	row("Font size:", fmt.Sprintf("%.1f", t.CurrentFontSize))
	row("Text background:", yesNo(t.TextBackgroundEnabled))
	row("Arrow:", fmt.Sprintf("length %.0f, angle %.0f°", t.ArrowLength, t.ArrowAngle))
	if t.ArrowHeadAtEnd != nil {
		row("Head at end:", yesNo(*t.ArrowHeadAtEnd))
	}
	row("Status bar:", yesNo(t.ShowStatusBar))
	return sb.String()
}

// ── Shape listing helpers ─────────────────────────────────────────────────────

func buildShapeRows(snap *session.Snapshot, topFirst bool) []shapeRow {
	if snap == nil {
		return nil
	}
	var rows []shapeRow
	for _, mode := range boardOrder {
		board := snap.Board(mode)
		if board == nil {
			continue
		}
		for pageIdx, page := range board.Pages {
			shapes := page.Shapes()
			if topFirst {
				for i := len(shapes) - 1; i >= 0; i-- {
					rows = append(rows, shapeRow{board: mode, page: pageIdx, index: i, shape: shapes[i]})
				}
			} else {
				for i, s := range shapes {
					rows = append(rows, shapeRow{board: mode, page: pageIdx, index: i, shape: s})
				}
			}
		}
	}
	return rows
}

func shapeBadge(s draw.Shape) string {
	kind := strings.ToUpper(s.Kind())
	switch s.(type) {
	case draw.Text, draw.StickyNote, draw.StepMarker:
		return kindTextStyle.Render("[" + kind + "]")
	case draw.Eraser:
		return kindEraserStyle.Render("[" + kind + "]")
	default:
		return kindStrokeStyle.Render("[" + kind + "]")
	}
}

func shapeSummary(s draw.Shape) string {
	switch v := s.(type) {
	case draw.Freehand:
		return fmt.Sprintf("%d points, %.1fpx", len(v.Points), v.Thick)
	case draw.FreehandPressure:
		return fmt.Sprintf("%d pressure points", len(v.Points))
	case draw.Marker:
		return fmt.Sprintf("%d points, %.1fpx", len(v.Points), v.Thick)
	case draw.Eraser:
		return fmt.Sprintf("%d points, %.0fpx %s brush", len(v.Points), v.Brush.Size, v.Brush.Kind)
	case draw.Line:
		return fmt.Sprintf("(%d,%d) → (%d,%d)", v.X1, v.Y1, v.X2, v.Y2)
	case draw.Arrow:
		return fmt.Sprintf("(%d,%d) → (%d,%d)", v.X1, v.Y1, v.X2, v.Y2)
	case draw.Rect:
		return fmt.Sprintf("%dx%d at (%d,%d)", v.W, v.H, v.X, v.Y)
	case draw.Ellipse:
		return fmt.Sprintf("r %dx%d at (%d,%d)", v.RX, v.RY, v.CX, v.CY)
	case draw.Text:
		return fmt.Sprintf("%q at (%d,%d)", truncate(v.Text, 40), v.X, v.Y)
	case draw.StickyNote:
		return fmt.Sprintf("%q at (%d,%d)", truncate(v.Text, 40), v.X, v.Y)
	case draw.StepMarker:
		return fmt.Sprintf("step %d at (%d,%d)", v.Label.Value, v.X, v.Y)
	}
	return ""
}

func renderShapeDetail(d draw.DrawnShape) string {
	var sb strings.Builder
	detail := func(label, value string) {
		sb.WriteString(dimStyle.Render("        "+label) + " " + value + "\n")
	}
	detail("id:", fmt.Sprintf("%d", d.Id))
	if bounds, ok := draw.BoundingBox(d.Shape); ok {
		detail("bounds:", fmt.Sprintf("%dx%d at (%d,%d)", bounds.Width, bounds.Height, bounds.X, bounds.Y))
	}
	if c, ok := shapeColor(d.Shape); ok {
		detail("color:", formatColor(c))
	}
	return sb.String()
}

func shapeColor(s draw.Shape) (draw.Color, bool) {
	switch v := s.(type) {
	case draw.Freehand:
		return v.Color, true
	case draw.FreehandPressure:
		return v.Color, true
	case draw.Marker:
		return v.Color, true
	case draw.Line:
		return v.Color, true
	case draw.Rect:
		return v.Color, true
	case draw.Ellipse:
		return v.Color, true
	case draw.Arrow:
		return v.Color, true
	case draw.Text:
		return v.Color, true
	case draw.StickyNote:
		return v.Background, true
	case draw.StepMarker:
		return v.Color, true
	}
	return draw.Color{}, false
}

// ── Formatting helpers ────────────────────────────────────────────────────────

func boardLabel(mode, active draw.BoardMode) string {
	label := strings.ToUpper(string(mode[0])) + string(mode[1:])
	if mode == active {
		label += " *"
	}
	return label
}

func shortBoard(mode draw.BoardMode) string {
	switch mode {
	case draw.ModeWhiteboard:
		return "wb"
	case draw.ModeBlackboard:
		return "bb"
	}
	return "tr"
}

func boardCountsLine(c session.BoardCounts) string {
	return fmt.Sprintf("transparent %d, whiteboard %d, blackboard %d",
		c.Transparent, c.Whiteboard, c.Blackboard)
}

func formatColor(c draw.Color) string {
	return fmt.Sprintf("#%02x%02x%02x%02x",
		clampByte(c.R), clampByte(c.G), clampByte(c.B), clampByte(c.A))
}

func clampByte(v float64) int {
	n := int(v*255 + 0.5)
	if n < 0 {
		return 0
	}
	if n > 255 {
		return 255
	}
	return n
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}

// Run starts the browser in the alternate screen and blocks until quit.
func Run(snap *session.Snapshot, insp *session.Inspection) error {
	p := tea.NewProgram(New(snap, insp), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
