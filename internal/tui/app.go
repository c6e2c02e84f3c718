// Package tui provides the interactive Bubble Tea dashboard for salesboard.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/salesboard/internal/cli"
	"github.com/theirongolddev/salesboard/internal/config"
	"github.com/theirongolddev/salesboard/internal/dashboard"
	"github.com/theirongolddev/salesboard/internal/source"
	"github.com/theirongolddev/salesboard/internal/tui/components"
	"github.com/theirongolddev/salesboard/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

const (
	tabOverview = iota
	tabSellers
	tabYears
	tabSettings
)

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180

	minContentHeight = 5
	minRefreshEvery  = 10 * time.Second
	reloadTimeout    = 2 * time.Minute
)

// reloadDoneMsg is sent when a background reload finishes.
type reloadDoneMsg struct {
	err  error
	took time.Duration
}

type tickMsg struct{}

// Options wires the App to its data and persistence.
type Options struct {
	State  *dashboard.State
	Source source.Source
	Config config.Config
	// OpenSource rebuilds the source after the location changes in Settings.
	// Nil disables editing the source.
	OpenSource func(config.SourceConfig) (source.Source, error)
	// SaveConfig persists settings. Defaults to config.Save.
	SaveConfig func(config.Config) error
}

// App is the root Bubble Tea model.
type App struct {
	state      *dashboard.State
	src        source.Source
	cfg        config.Config
	openSource func(config.SourceConfig) (source.Source, error)
	saveConfig func(config.Config) error

	snap     dashboard.Snapshot
	loading  bool
	loadErr  string
	loadTime time.Duration

	autoRefresh     bool
	refreshInterval time.Duration
	lastRefresh     time.Time

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	alert     string

	sellers  sellersState
	settings settingsState

	// Modal huh form (add seller, remove confirmation)
	form     *huh.Form
	formKind formKind
	formVals *formValues

	spinner spinner.Model
}

// NewApp creates the TUI model. The first reload starts from Init.
func NewApp(opts Options) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	save := opts.SaveConfig
	if save == nil {
		save = config.Save
	}

	return App{
		state:           opts.State,
		src:             opts.Source,
		cfg:             opts.Config,
		openSource:      opts.OpenSource,
		saveConfig:      save,
		snap:            opts.State.Snapshot(),
		loading:         true,
		autoRefresh:     opts.Config.TUI.AutoRefresh,
		refreshInterval: refreshEvery(opts.Config.TUI.RefreshIntervalSec),
		spinner:         sp,
	}
}

func refreshEvery(sec int) time.Duration {
	d := time.Duration(sec) * time.Second
	if d < minRefreshEvery {
		return time.Duration(config.DefaultConfig().TUI.RefreshIntervalSec) * time.Second
	}
	return d
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		reloadCmd(a.state, a.src),
		a.spinner.Tick,
		tickCmd(),
	)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.form != nil {
			a.form = a.form.WithWidth(formWidth(msg.Width))
		}
		return a, nil

	case tea.MouseMsg:
		if a.form != nil || a.alert != "" || a.showHelp || !a.snap.Loaded() {
			return a, nil
		}
		return a.updateMouse(msg)

	case tea.KeyMsg:
		return a.updateKey(msg)

	case reloadDoneMsg:
		a.loading = false
		a.lastRefresh = time.Now()
		a.loadTime = msg.took
		a.loadErr = ""
		if msg.err != nil {
			var lerr *dashboard.LoadError
			if errors.As(msg.err, &lerr) {
				a.loadErr = lerr.Message()
			} else {
				a.loadErr = msg.err.Error()
			}
		}
		a.refresh()
		return a, nil

	case spinner.TickMsg:
		if a.loading {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd()}
		if a.autoRefresh && !a.loading && a.snap.Loaded() &&
			time.Since(a.lastRefresh) >= a.refreshInterval {
			cmds = append(cmds, a.startReload())
		}
		return a, tea.Batch(cmds...)
	}

	// Forward everything else (cursor blinks, etc.) to the active form.
	if a.form != nil {
		return a.updateForm(msg)
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}

	if a.form != nil {
		if key == "esc" {
			a.closeForm()
			return a, nil
		}
		return a.updateForm(msg)
	}

	// Alerts block until dismissed by any key.
	if a.alert != "" {
		a.alert = ""
		return a, nil
	}

	if !a.snap.Loaded() {
		switch key {
		case "q":
			return a, tea.Quit
		case "r":
			if !a.loading {
				return a, a.startReload()
			}
		}
		return a, nil
	}

	if a.sellers.editing {
		return a.updateGoalInput(msg)
	}
	if a.settings.editing {
		return a.updateSettingsInput(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch a.activeTab {
	case tabSellers:
		if m, cmd, ok := a.updateSellersKey(key); ok {
			return m, cmd
		}
	case tabSettings:
		if m, cmd, ok := a.updateSettingsKey(key); ok {
			return m, cmd
		}
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "r":
		if !a.loading {
			return a, a.startReload()
		}
		return a, nil
	case "R":
		a.autoRefresh = !a.autoRefresh
		a.cfg.TUI.AutoRefresh = a.autoRefresh
		a.settings.saveErr = a.saveConfig(a.cfg)
		return a, nil
	case "left", "shift+tab":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
	default:
		if r := []rune(key); len(r) == 1 {
			if idx := components.TabIdxByKey(r[0]); idx >= 0 {
				a.activeTab = idx
			}
		}
	}
	return a, nil
}

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if a.activeTab == tabSellers {
			a.moveSellerCursor(-1)
		}
	case tea.MouseButtonWheelDown:
		if a.activeTab == tabSellers {
			a.moveSellerCursor(1)
		}
	case tea.MouseButtonLeft:
		if msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
	}
	return a, nil
}

// startReload marks a reload in flight and returns the command running it.
func (a *App) startReload() tea.Cmd {
	a.loading = true
	return tea.Batch(reloadCmd(a.state, a.src), a.spinner.Tick)
}

// refresh re-reads the snapshot after any state change.
func (a *App) refresh() {
	a.snap = a.state.Snapshot()
	a.clampSellerCursor()
}

// showError turns a state error into the blocking alert.
func (a *App) showError(err error) {
	if err == nil {
		return
	}
	a.alert = err.Error()
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if a.form != nil {
		return a.viewForm()
	}
	if !a.snap.Loaded() {
		if a.loading || a.loadErr == "" {
			return a.viewLoading()
		}
		return a.viewLoadError()
	}
	if a.alert != "" {
		return a.viewAlert()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  salesboard needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) placeCard(body string, border lipgloss.Color) string {
	t := theme.Active
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Background(t.Surface).
		Padding(1, 3).
		Render(body)
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewLoading() string {
	t := theme.Active

	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spinnerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ salesboard"))
	b.WriteString(subtitleStyle.Render(" · Seller KPIs"))
	b.WriteString("\n\n")
	b.WriteString(spinnerStyle.Render(a.spinner.View()))
	b.WriteString(subtitleStyle.Render(" Loading " + truncStr(a.src.Key(), 48)))

	return a.placeCard(b.String(), t.BorderAccent)
}

func (a App) viewLoadError() string {
	t := theme.Active

	titleStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Bold(true)
	msgStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Width(min(70, a.width-10))
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("✗ Could not load sales data"))
	b.WriteString("\n\n")
	b.WriteString(msgStyle.Render(a.loadErr))
	b.WriteString("\n\n")
	b.WriteString(keyStyle.Render("[r]"))
	b.WriteString(dimStyle.Render(" retry   "))
	b.WriteString(keyStyle.Render("[q]"))
	b.WriteString(dimStyle.Render(" quit"))

	return a.placeCard(b.String(), t.Red)
}

func (a App) viewAlert() string {
	t := theme.Active

	titleStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface).Bold(true)
	msgStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Width(min(60, a.width-10))
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	body := titleStyle.Render("⚠ Not allowed") + "\n\n" +
		msgStyle.Render(a.alert) + "\n\n" +
		dimStyle.Render("Press any key to continue")

	return a.placeCard(body, t.Orange)
}

func (a App) viewForm() string {
	return a.placeCard(a.form.View(), theme.Active.BorderAccent)
}

func (a App) viewHelp() string {
	t := theme.Active

	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"o s y x", "Jump to tab"},
			{"← → tab", "Previous / Next tab"},
			{"j k", "Move in lists"},
		}},
		{"Sellers", []struct{ key, desc string }{
			{"space", "Toggle selection"},
			{"A", "Select all"},
			{"a", "Add seller"},
			{"d", "Remove seller"},
			{"Enter", "Edit goal"},
		}},
		{"Data", []struct{ key, desc string }{
			{"r", "Reload now"},
			{"R", "Toggle auto-refresh"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, sec := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return a.placeCard(b.String(), t.BorderAccent)
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	pill := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	filter := pill.Render(" ") +
		accent.Render(fmt.Sprintf("%d/%d", len(a.snap.Selection), len(a.snap.Sellers))) +
		pill.Render(" sellers │ ") +
		pill.Render(truncStr(a.snap.Source, max(20, w-40))) +
		pill.Render(" ")
	header := components.RenderTabBar(a.activeTab, w) + "\n" +
		lipgloss.NewStyle().Background(t.Surface).Width(w).Render(filter)

	statusBar := components.RenderStatusBar(w, a.statusInfo())

	contentH := h - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	var content string
	switch a.activeTab {
	case tabOverview:
		content = a.renderOverviewTab(cw)
	case tabSellers:
		content = a.renderSellersTab(cw, contentH)
	case tabYears:
		content = a.renderYearsTab(cw)
	case tabSettings:
		content = a.renderSettingsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) statusInfo() components.StatusInfo {
	info := components.StatusInfo{
		Filtered:    a.snap.Filtered,
		Records:     a.snap.Records,
		Refreshing:  a.loading,
		AutoRefresh: a.autoRefresh,
		Interval:    a.refreshInterval.String(),
		Warning:     a.loadErr,
	}
	if a.snap.Loaded() {
		info.LoadedAt = a.snap.LoadedAt.Local().Format("15:04:05")
	}
	info.GoalPct, info.HasGoals = teamGoalProgress(a.snap)
	return info
}

// teamGoalProgress sums units and goals over selected sellers with a goal.
func teamGoalProgress(s dashboard.Snapshot) (float64, bool) {
	var units int
	var goal float64
	for _, st := range s.SellerStats {
		if st.Goal > 0 {
			units += st.Units
			goal += st.Goal
		}
	}
	if goal == 0 {
		return 0, false
	}
	return float64(units) / goal, true
}

// ─── Commands ───────────────────────────────────────────────────

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// reloadCmd runs a reload off the UI goroutine.
func reloadCmd(state *dashboard.State, src source.Source) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), reloadTimeout)
		defer cancel()
		err := state.Reload(ctx, src)
		return reloadDoneMsg{err: err, took: time.Since(start)}
	}
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// Separator is one column between tabs.
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}

// ─── Helpers ────────────────────────────────────────────────────

func fmtMoney(v float64, compact bool) string {
	if compact {
		return cli.FormatBRLShort(v)
	}
	return cli.FormatBRL(v)
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}
