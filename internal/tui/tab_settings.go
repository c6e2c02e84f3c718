package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/salesboard/internal/cli"
	"github.com/theirongolddev/salesboard/internal/config"
	"github.com/theirongolddev/salesboard/internal/tui/components"
	"github.com/theirongolddev/salesboard/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	settingsFieldTheme = iota
	settingsFieldSource
	settingsFieldSheet
	settingsFieldAutoRefresh
	settingsFieldRefreshInterval
	settingsFieldOfflineFallback
	settingsFieldCount // sentinel
)

var errSourceLocked = errors.New("source can only be changed from the command line in this session")

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
	saved   bool  // flash "saved" message
	saveErr error // non-nil if last save failed
}

func newSettingsInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 512
	ti.Width = 50
	return ti
}

func (a App) updateSettingsKey(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "j", "down":
		if a.settings.cursor < settingsFieldCount-1 {
			a.settings.cursor++
		}
	case "k", "up":
		if a.settings.cursor > 0 {
			a.settings.cursor--
		}
	case "enter":
		m, cmd := a.settingsStartEdit()
		return m, cmd, true
	default:
		return a, nil, false
	}
	return a, nil, true
}

func (a App) settingsStartEdit() (tea.Model, tea.Cmd) {
	a.settings.editing = true
	a.settings.saved = false
	a.settings.saveErr = nil

	ti := newSettingsInput()
	switch a.settings.cursor {
	case settingsFieldTheme:
		ti.Placeholder = strings.Join(theme.Names(), ", ")
		ti.SetValue(theme.Active.Name)
	case settingsFieldSource:
		ti.Placeholder = "path, directory or https URL"
		ti.SetValue(a.cfg.Source.Location())
	case settingsFieldSheet:
		ti.Placeholder = "worksheet name (empty = first)"
		ti.SetValue(a.cfg.Source.Sheet)
	case settingsFieldAutoRefresh:
		ti.Placeholder = "true or false"
		ti.SetValue(strconv.FormatBool(a.autoRefresh))
	case settingsFieldRefreshInterval:
		ti.Placeholder = "60 (seconds, minimum 10)"
		ti.SetValue(strconv.Itoa(int(a.refreshInterval.Seconds())))
	case settingsFieldOfflineFallback:
		ti.Placeholder = "true or false"
		ti.SetValue(strconv.FormatBool(a.cfg.General.OfflineFallback))
	}

	ti.Focus()
	a.settings.input = ti
	return a, ti.Cursor.BlinkCmd()
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.settings.editing = false
		cmd, err := a.settingsSave()
		a.settings.saveErr = err
		a.settings.saved = err == nil
		return a, cmd
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

// settingsSave validates and applies the edited field, persisting the config.
// Source changes return a reload command.
func (a *App) settingsSave() (tea.Cmd, error) {
	val := strings.TrimSpace(a.settings.input.Value())
	cfg := a.cfg
	var cmd tea.Cmd

	switch a.settings.cursor {
	case settingsFieldTheme:
		th, ok := theme.Lookup(val)
		if !ok {
			return nil, fmt.Errorf("unknown theme %q", val)
		}
		cfg.Appearance.Theme = th.Name
		theme.SetActive(th.Name)
	case settingsFieldSource, settingsFieldSheet:
		if a.openSource == nil {
			return nil, errSourceLocked
		}
		if a.settings.cursor == settingsFieldSource {
			if val == "" {
				return nil, errors.New("source location is empty")
			}
			cfg.Source.SetLocation(val)
		} else {
			cfg.Source.Sheet = val
		}
		src, err := a.openSource(cfg.Source)
		if err != nil {
			return nil, err
		}
		a.src = src
		cmd = a.startReload()
	case settingsFieldAutoRefresh:
		on, err := strconv.ParseBool(val)
		if err != nil {
			return nil, fmt.Errorf("auto refresh: %q is not true or false", val)
		}
		cfg.TUI.AutoRefresh = on
		a.autoRefresh = on
	case settingsFieldRefreshInterval:
		sec, err := strconv.Atoi(val)
		if err != nil || time.Duration(sec)*time.Second < minRefreshEvery {
			return nil, fmt.Errorf("refresh interval must be a whole number of seconds >= %d", int(minRefreshEvery.Seconds()))
		}
		cfg.TUI.RefreshIntervalSec = sec
		a.refreshInterval = time.Duration(sec) * time.Second
	case settingsFieldOfflineFallback:
		on, err := strconv.ParseBool(val)
		if err != nil {
			return nil, fmt.Errorf("offline fallback: %q is not true or false", val)
		}
		cfg.General.OfflineFallback = on
	}

	a.cfg = cfg
	return cmd, a.saveConfig(cfg)
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	greenStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)

	sheet := a.cfg.Source.Sheet
	if sheet == "" {
		sheet = "(first sheet)"
	}
	location := a.cfg.Source.Location()
	if location == "" {
		location = "(not set)"
	}

	fields := []struct{ label, value string }{
		{"Theme", theme.Active.Name},
		{"Source", truncStr(location, 60)},
		{"Sheet", sheet},
		{"Auto Refresh", strconv.FormatBool(a.autoRefresh)},
		{"Refresh Interval", fmt.Sprintf("%ds", int(a.refreshInterval.Seconds()))},
		{"Offline Fallback", strconv.FormatBool(a.cfg.General.OfflineFallback)},
	}

	var formBody strings.Builder
	for i, f := range fields {
		if a.settings.editing && i == a.settings.cursor {
			formBody.WriteString(markerStyle.Render("▸ "))
			formBody.WriteString(accentStyle.Render(fmt.Sprintf("%-18s ", f.label)))
			formBody.WriteString(a.settings.input.View())
			formBody.WriteString("\n")
			continue
		}

		if i == a.settings.cursor {
			marker := markerStyle.Render("▸ ")
			label := selectedLabelStyle.Render(fmt.Sprintf("%-18s ", f.label+":"))
			value := selectedStyle.Render(f.value)
			formBody.WriteString(marker + label + value)
			usedWidth := lipgloss.Width(marker) + lipgloss.Width(label) + lipgloss.Width(value)
			if padLen := components.CardInnerWidth(cw) - usedWidth; padLen > 0 {
				formBody.WriteString(lipgloss.NewStyle().Background(t.SurfaceBright).Render(strings.Repeat(" ", padLen)))
			}
		} else {
			formBody.WriteString(lipgloss.NewStyle().Background(t.Surface).Render("  "))
			formBody.WriteString(labelStyle.Render(fmt.Sprintf("%-18s ", f.label+":")))
			formBody.WriteString(valueStyle.Render(f.value))
		}
		formBody.WriteString("\n")
	}

	if a.settings.saveErr != nil {
		warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
		formBody.WriteString("\n")
		formBody.WriteString(warnStyle.Render(fmt.Sprintf("Not saved: %s", a.settings.saveErr)))
	} else if a.settings.saved {
		formBody.WriteString("\n")
		formBody.WriteString(greenStyle.Render("Saved!"))
	}

	formBody.WriteString("\n")
	formBody.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit  [Esc] cancel"))

	var infoBody strings.Builder
	infoBody.WriteString(labelStyle.Render("Loaded from:     ") + valueStyle.Render(truncStr(a.snap.Source, 80)) + "\n")
	infoBody.WriteString(labelStyle.Render("Records loaded:  ") + valueStyle.Render(cli.FormatNumber(int64(a.snap.Records))) + "\n")
	infoBody.WriteString(labelStyle.Render("Load time:       ") + valueStyle.Render(fmt.Sprintf("%.1fs", a.loadTime.Seconds())) + "\n")
	infoBody.WriteString(labelStyle.Render("Config file:     ") + valueStyle.Render(config.ConfigPath()))

	var b strings.Builder
	b.WriteString(components.ContentCard("Settings", formBody.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("General", infoBody.String(), cw))
	return b.String()
}
