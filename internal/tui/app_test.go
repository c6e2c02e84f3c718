package tui

import (
	"context"
	"errors"
	"io"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/theirongolddev/salesboard/internal/config"
	"github.com/theirongolddev/salesboard/internal/dashboard"
	"github.com/theirongolddev/salesboard/internal/model"
	"github.com/theirongolddev/salesboard/internal/source"
	"github.com/theirongolddev/salesboard/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

type stubSource struct {
	mu  sync.Mutex
	res source.Result
	err error
}

func (s *stubSource) Key() string { return "stub.csv" }

func (s *stubSource) Fetch(context.Context) (source.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.res, s.err
}

func (s *stubSource) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func sampleResult() source.Result {
	return source.Result{
		Records: []model.SaleRecord{
			{Dias: 10, ValorVenda: 50000, LucroLiquido: 5000, Vendedor: "Ana", AnoMod: "2020/2021"},
			{Dias: 5, ValorVenda: 42000, LucroLiquido: 3000, Vendedor: "Ana", AnoMod: "2019/2020"},
			{Dias: 20, ValorVenda: 30000, LucroLiquido: 1000, Vendedor: "Bruno", AnoMod: "2018"},
			{Dias: 0, ValorVenda: 25000, LucroLiquido: 500, Vendedor: "Repasse", AnoMod: "2015"},
		},
		Sellers: []string{"Ana", "Bruno", "Repasse"},
		Rows:    4,
	}
}

// newTestApp returns an App that has not loaded yet and records config saves.
func newTestApp(t *testing.T, src source.Source) (App, *[]config.Config) {
	t.Helper()
	var saved []config.Config
	state := dashboard.NewState(dashboard.Options{Logger: log.New(io.Discard)})
	app := NewApp(Options{
		State:  state,
		Source: src,
		Config: config.DefaultConfig(),
		SaveConfig: func(cfg config.Config) error {
			saved = append(saved, cfg)
			return nil
		},
	})
	m, _ := app.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	return m.(App), &saved
}

func loadedApp(t *testing.T) App {
	t.Helper()
	app, _ := newTestApp(t, &stubSource{res: sampleResult()})
	return runReload(t, app)
}

// runReload executes the reload command synchronously and feeds its result back.
func runReload(t *testing.T, app App) App {
	t.Helper()
	msg := reloadCmd(app.state, app.src)()
	m, _ := app.Update(msg)
	return m.(App)
}

func press(t *testing.T, app App, keys ...string) App {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case " ":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m, _ := app.Update(msg)
		app = m.(App)
	}
	return app
}

func TestReloadPopulatesSnapshot(t *testing.T) {
	app := loadedApp(t)

	if app.loading {
		t.Fatal("still loading after reloadDoneMsg")
	}
	if app.snap.Records != 4 {
		t.Fatalf("Records = %d, want 4", app.snap.Records)
	}
	if app.snap.TopSeller.Name != "Ana" {
		t.Fatalf("TopSeller = %q, want Ana", app.snap.TopSeller.Name)
	}
	view := app.View()
	if !strings.Contains(view, "Top seller") {
		t.Fatalf("overview missing KPI cards:\n%s", view)
	}
}

func TestLoadErrorViewAndRetry(t *testing.T) {
	src := &stubSource{}
	src.fail(errors.New("connection refused"))
	app, _ := newTestApp(t, src)
	app = runReload(t, app)

	if app.loadErr != "connection refused" {
		t.Fatalf("loadErr = %q, want %q", app.loadErr, "connection refused")
	}
	if view := app.View(); !strings.Contains(view, "retry") {
		t.Fatalf("error view missing retry hint:\n%s", view)
	}

	// Tab keys are inert until something has loaded.
	app = press(t, app, "s")
	if app.activeTab != tabOverview {
		t.Fatalf("activeTab = %d before first load, want overview", app.activeTab)
	}

	src.mu.Lock()
	src.err, src.res = nil, sampleResult()
	src.mu.Unlock()

	m, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	app = m.(App)
	if cmd == nil || !app.loading {
		t.Fatal("retry did not start a reload")
	}
	app = runReload(t, app)
	if app.loadErr != "" || !app.snap.Loaded() {
		t.Fatalf("retry failed: loadErr=%q loaded=%v", app.loadErr, app.snap.Loaded())
	}
}

func TestFailedRefreshKeepsData(t *testing.T) {
	src := &stubSource{res: sampleResult()}
	app, _ := newTestApp(t, src)
	app = runReload(t, app)

	src.fail(errors.New("timeout"))
	app = runReload(t, app)

	if app.snap.Records != 4 {
		t.Fatalf("Records = %d after failed refresh, want 4", app.snap.Records)
	}
	if app.loadErr != "timeout" {
		t.Fatalf("loadErr = %q", app.loadErr)
	}
	if !strings.Contains(app.View(), "timeout") {
		t.Fatal("status bar does not show the refresh warning")
	}
}

func TestTabSwitching(t *testing.T) {
	app := loadedApp(t)

	app = press(t, app, "y")
	if app.activeTab != tabYears {
		t.Fatalf("activeTab = %d, want years", app.activeTab)
	}
	app = press(t, app, "x")
	if app.activeTab != tabSettings {
		t.Fatalf("activeTab = %d, want settings", app.activeTab)
	}

	m, _ := app.Update(tea.KeyMsg{Type: tea.KeyRight})
	if got := m.(App).activeTab; got != tabOverview {
		t.Fatalf("right from settings = %d, want wrap to overview", got)
	}
}

func TestToggleSellerUpdatesSelection(t *testing.T) {
	app := loadedApp(t)
	app = press(t, app, "s", " ")

	if app.snap.IsSelected("Ana") {
		t.Fatal("Ana still selected after toggle")
	}
	if app.snap.Summary.Units != 2 {
		t.Fatalf("Summary.Units = %d, want 2 (Bruno + Repasse)", app.snap.Summary.Units)
	}
	if app.snap.Repasse.Units != 1 {
		t.Fatalf("Repasse.Units = %d, want 1 regardless of selection", app.snap.Repasse.Units)
	}

	app = press(t, app, "A")
	if len(app.snap.Selection) != 3 {
		t.Fatalf("Selection = %v after select all", app.snap.Selection)
	}
}

func TestGoalEdit(t *testing.T) {
	app := loadedApp(t)
	app = press(t, app, "s", "enter")
	if !app.sellers.editing || app.sellers.target != "Ana" {
		t.Fatalf("editing=%v target=%q, want editing Ana", app.sellers.editing, app.sellers.target)
	}

	app.sellers.input.SetValue("4")
	app = press(t, app, "enter")

	if app.sellers.editing {
		t.Fatal("still editing after enter")
	}
	if got := app.snap.Goals["Ana"]; got != 4 {
		t.Fatalf("goal = %v, want 4", got)
	}
	for _, st := range app.snap.SellerStats {
		if st.Seller == "Ana" && st.GoalProgress != 0.5 {
			t.Fatalf("GoalProgress = %v, want 0.5", st.GoalProgress)
		}
	}
}

func TestGoalEditRejectsBadInput(t *testing.T) {
	app := loadedApp(t)
	app = press(t, app, "s", "enter")
	app.sellers.input.SetValue("abc")
	app = press(t, app, "enter")

	if app.alert == "" {
		t.Fatal("expected an alert for a non-numeric goal")
	}
	if app.snap.Goals["Ana"] != 0 {
		t.Fatalf("goal changed to %v", app.snap.Goals["Ana"])
	}

	// Any key dismisses the alert without acting on it.
	app = press(t, app, "j")
	if app.alert != "" {
		t.Fatal("alert not dismissed")
	}
	if app.sellers.cursor != 0 {
		t.Fatalf("dismissing key moved the cursor to %d", app.sellers.cursor)
	}
}

func TestRepasseGoalIsRejected(t *testing.T) {
	app := loadedApp(t)
	app = press(t, app, "s", "G", "enter")

	if app.sellers.editing {
		t.Fatal("goal editor opened for Repasse")
	}
	if !strings.Contains(app.alert, "reserved") {
		t.Fatalf("alert = %q, want a reserved-name error", app.alert)
	}
	if view := app.View(); !strings.Contains(view, "Not allowed") {
		t.Fatalf("alert view not rendered:\n%s", view)
	}
}

func TestRemoveRepasseIsRejected(t *testing.T) {
	app := loadedApp(t)
	app = press(t, app, "s", "G", "d")

	if app.form != nil {
		t.Fatal("remove confirmation opened for Repasse")
	}
	if !strings.Contains(app.alert, "reserved") {
		t.Fatalf("alert = %q, want a reserved-name error", app.alert)
	}
	if !slices.Contains(app.snap.Sellers, "Repasse") {
		t.Fatalf("Repasse dropped from sellers: %v", app.snap.Sellers)
	}
}

func TestRemoveSellerFormApplies(t *testing.T) {
	app := loadedApp(t)
	app = press(t, app, "s", "j", "d")
	if app.form == nil || app.formKind != formRemoveSeller || app.formVals.name != "Bruno" {
		t.Fatal("remove confirmation not opened for Bruno")
	}

	app.formVals.confirm = true
	app.applyForm(app.formKind, app.formVals)
	app.closeForm()

	for _, s := range app.snap.Sellers {
		if s == "Bruno" {
			t.Fatalf("Bruno still registered: %v", app.snap.Sellers)
		}
	}
}

func TestRemoveSellerDeclinedKeepsSeller(t *testing.T) {
	app := loadedApp(t)
	app.applyForm(formRemoveSeller, &formValues{name: "Bruno", confirm: false})

	if len(app.snap.Sellers) != 3 {
		t.Fatalf("Sellers = %v, want unchanged", app.snap.Sellers)
	}
}

func TestAddDuplicateSellerAlerts(t *testing.T) {
	app := loadedApp(t)
	app.applyForm(formAddSeller, &formValues{name: "Ana"})

	if app.alert == "" {
		t.Fatal("expected duplicate seller alert")
	}
	if len(app.snap.Sellers) != 3 {
		t.Fatalf("Sellers = %v, want unchanged", app.snap.Sellers)
	}
}

func TestSettingsSaveRefreshInterval(t *testing.T) {
	app, saved := newTestApp(t, &stubSource{res: sampleResult()})
	app = runReload(t, app)
	app = press(t, app, "x")
	for app.settings.cursor != settingsFieldRefreshInterval {
		app = press(t, app, "j")
	}

	app = press(t, app, "enter")
	if !app.settings.editing {
		t.Fatal("settings field not in edit mode")
	}
	app.settings.input.SetValue("30")
	app = press(t, app, "enter")

	if app.settings.saveErr != nil {
		t.Fatalf("saveErr = %v", app.settings.saveErr)
	}
	if len(*saved) != 1 || (*saved)[0].TUI.RefreshIntervalSec != 30 {
		t.Fatalf("saved = %+v, want one save with 30s", *saved)
	}
	if app.refreshInterval.Seconds() != 30 {
		t.Fatalf("refreshInterval = %v", app.refreshInterval)
	}
}

func TestSettingsRejectsShortInterval(t *testing.T) {
	app, saved := newTestApp(t, &stubSource{res: sampleResult()})
	app = runReload(t, app)
	app.activeTab = tabSettings
	app.settings.cursor = settingsFieldRefreshInterval

	app = press(t, app, "enter")
	app.settings.input.SetValue("3")
	app = press(t, app, "enter")

	if app.settings.saveErr == nil {
		t.Fatal("expected a validation error for a 3s interval")
	}
	if len(*saved) != 0 {
		t.Fatalf("config saved despite invalid input: %+v", *saved)
	}
}

func TestSettingsTheme(t *testing.T) {
	prev := theme.Active
	t.Cleanup(func() { theme.Active = prev })

	app := loadedApp(t)
	app.activeTab = tabSettings
	app.settings.cursor = settingsFieldTheme

	app = press(t, app, "enter")
	app.settings.input.SetValue("tokyo-night")
	app = press(t, app, "enter")

	if theme.Active.Name != "tokyo-night" {
		t.Fatalf("active theme = %q", theme.Active.Name)
	}
	if app.cfg.Appearance.Theme != "tokyo-night" {
		t.Fatalf("config theme = %q", app.cfg.Appearance.Theme)
	}
}

func TestSettingsSourceLockedWithoutOpener(t *testing.T) {
	app := loadedApp(t)
	app.activeTab = tabSettings
	app.settings.cursor = settingsFieldSource

	app = press(t, app, "enter")
	app.settings.input.SetValue("/tmp/other.csv")
	app = press(t, app, "enter")

	if !errors.Is(app.settings.saveErr, errSourceLocked) {
		t.Fatalf("saveErr = %v, want errSourceLocked", app.settings.saveErr)
	}
}

func TestToggleAutoRefreshPersists(t *testing.T) {
	app, saved := newTestApp(t, &stubSource{res: sampleResult()})
	app = runReload(t, app)
	app = press(t, app, "R")

	if app.autoRefresh {
		t.Fatal("auto refresh still on")
	}
	if len(*saved) != 1 || (*saved)[0].TUI.AutoRefresh {
		t.Fatalf("saved = %+v, want auto_refresh=false", *saved)
	}
}

func TestViewsRenderEveryTab(t *testing.T) {
	app := loadedApp(t)
	for _, tab := range []int{tabOverview, tabSellers, tabYears, tabSettings} {
		app.activeTab = tab
		if view := app.View(); view == "" {
			t.Fatalf("tab %d rendered empty", tab)
		}
	}
	app.width = 60
	if view := app.View(); !strings.Contains(view, "too narrow") {
		t.Fatalf("narrow terminal view:\n%s", view)
	}
}

func TestShortYear(t *testing.T) {
	tests := []struct{ in, want string }{
		{"2019/2020", "19/20"},
		{"2018", "18"},
		{"Sem ano", "Sem ano"},
	}
	for _, tt := range tests {
		if got := shortYear(tt.in); got != tt.want {
			t.Errorf("shortYear(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
