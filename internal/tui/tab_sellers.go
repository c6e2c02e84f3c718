package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/salesboard/internal/cli"
	"github.com/theirongolddev/salesboard/internal/dashboard"
	"github.com/theirongolddev/salesboard/internal/model"
	"github.com/theirongolddev/salesboard/internal/source"
	"github.com/theirongolddev/salesboard/internal/tui/components"
	"github.com/theirongolddev/salesboard/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// sellersOverhead is the card chrome plus hint lines around the seller list.
const sellersOverhead = 6

// sellersState tracks the sellers tab state.
type sellersState struct {
	cursor  int
	editing bool
	input   textinput.Model
	target  string // seller whose goal is being edited
}

func (a *App) moveSellerCursor(delta int) {
	a.sellers.cursor += delta
	a.clampSellerCursor()
}

func (a *App) clampSellerCursor() {
	n := len(a.snap.Sellers)
	if a.sellers.cursor >= n {
		a.sellers.cursor = n - 1
	}
	if a.sellers.cursor < 0 {
		a.sellers.cursor = 0
	}
}

func (a App) cursorSeller() (string, bool) {
	if a.sellers.cursor < 0 || a.sellers.cursor >= len(a.snap.Sellers) {
		return "", false
	}
	return a.snap.Sellers[a.sellers.cursor], true
}

// updateSellersKey handles keys specific to the sellers tab. ok is false when
// the key should fall through to the global bindings.
func (a App) updateSellersKey(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "j", "down":
		a.moveSellerCursor(1)
	case "k", "up":
		a.moveSellerCursor(-1)
	case "g", "home":
		a.sellers.cursor = 0
	case "G", "end":
		a.sellers.cursor = len(a.snap.Sellers) - 1
		a.clampSellerCursor()
	case " ":
		if name, ok := a.cursorSeller(); ok {
			a.state.ToggleSelected(name)
			a.refresh()
		}
	case "A":
		a.state.SelectAll()
		a.refresh()
	case "a":
		cmd := a.openForm(formAddSeller, &formValues{})
		return a, cmd, true
	case "d", "delete":
		name, ok := a.cursorSeller()
		if !ok {
			return a, nil, true
		}
		if model.IsReservedName(name) {
			a.showError(&dashboard.ValidationError{Field: "seller", Value: name, Reason: dashboard.ErrReservedName})
			return a, nil, true
		}
		cmd := a.openForm(formRemoveSeller, &formValues{name: name})
		return a, cmd, true
	case "enter", "e":
		name, ok := a.cursorSeller()
		if !ok {
			return a, nil, true
		}
		if model.IsReservedName(name) {
			a.showError(&dashboard.ValidationError{Field: "goal", Value: name, Reason: dashboard.ErrReservedName})
			return a, nil, true
		}
		return a.startGoalEdit(name)
	default:
		return a, nil, false
	}
	return a, nil, true
}

func (a App) startGoalEdit(name string) (tea.Model, tea.Cmd, bool) {
	ti := textinput.New()
	ti.Placeholder = "units (0 clears)"
	ti.CharLimit = 12
	ti.Width = 14
	if g := a.snap.Goals[name]; g > 0 {
		ti.SetValue(strconv.FormatFloat(g, 'f', -1, 64))
	}
	ti.Focus()

	a.sellers.editing = true
	a.sellers.target = name
	a.sellers.input = ti
	return a, ti.Cursor.BlinkCmd(), true
}

func (a App) updateGoalInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.sellers.editing = false
		raw := strings.TrimSpace(a.sellers.input.Value())
		goal, ok := source.ParseNumber(raw)
		if !ok {
			a.showError(&dashboard.ValidationError{Field: "goal", Value: raw, Reason: dashboard.ErrInvalidGoal})
			return a, nil
		}
		a.showError(a.state.SetGoal(a.sellers.target, goal))
		a.refresh()
		return a, nil
	case "esc":
		a.sellers.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.sellers.input, cmd = a.sellers.input.Update(msg)
	return a, cmd
}

func (a App) renderSellersTab(cw, contentH int) string {
	t := theme.Active
	compact := a.isCompactLayout()
	snap := a.snap

	stats := make(map[string]model.SellerStats, len(snap.SellerStats))
	for _, st := range snap.SellerStats {
		stats[st.Seller] = st
	}

	nameW := 12
	for _, s := range snap.Sellers {
		nameW = max(nameW, lipgloss.Width(s))
	}
	nameW = min(nameW, 24)

	space := lipgloss.NewStyle().Background(t.Surface)
	headStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	repasseStyle := lipgloss.NewStyle().Foreground(t.Repasse).Background(t.Surface)
	checkOn := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface).Bold(true)
	checkOff := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	marker := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)

	cols := fmt.Sprintf("%-*s %5s %13s", nameW, "Seller", "Units", "Revenue")
	if !compact {
		cols += fmt.Sprintf(" %13s %7s", "Profit", "Stock")
	}
	cols += fmt.Sprintf(" %7s  %s", "Goal", "Progress")

	var body strings.Builder
	body.WriteString(space.Render("      "))
	body.WriteString(headStyle.Render(cols))
	body.WriteString("\n")

	visible := max(1, contentH-sellersOverhead)
	offset := max(0, a.sellers.cursor-visible+1)
	end := min(len(snap.Sellers), offset+visible)

	for i := offset; i < end; i++ {
		name := snap.Sellers[i]
		st := stats[name]
		selected := snap.IsSelected(name)

		if i == a.sellers.cursor {
			body.WriteString(marker.Render("▸ "))
		} else {
			body.WriteString(space.Render("  "))
		}
		if selected {
			body.WriteString(checkOn.Render("[x] "))
		} else {
			body.WriteString(checkOff.Render("[ ] "))
		}

		style := rowStyle
		if model.IsReservedName(name) {
			style = repasseStyle
		} else if !selected {
			style = dimStyle
		}

		line := fmt.Sprintf("%-*s %5d %13s", nameW, truncStr(name, nameW), st.Units, fmtMoney(st.Revenue, compact))
		if !compact {
			line += fmt.Sprintf(" %13s %7s", fmtMoney(st.NetProfit, false), cli.FormatDays(st.AvgStockDays))
		}
		body.WriteString(style.Render(line))

		switch {
		case model.IsReservedName(name):
			body.WriteString(dimStyle.Render(fmt.Sprintf(" %7s", "-")))
		case a.sellers.editing && a.sellers.target == name:
			body.WriteString(space.Render(" "))
			body.WriteString(a.sellers.input.View())
		default:
			goal := snap.Goals[name]
			body.WriteString(style.Render(fmt.Sprintf(" %7s  ", cli.FormatGoal(goal))))
			if selected {
				body.WriteString(components.GoalBar(st.GoalProgress, goal > 0, 12))
			}
		}
		body.WriteString("\n")
	}

	if len(snap.Sellers) == 0 {
		body.WriteString(dimStyle.Render("  No sellers yet. Press [a] to add one."))
		body.WriteString("\n")
	}

	body.WriteString("\n")
	if a.sellers.editing {
		body.WriteString(dimStyle.Render(fmt.Sprintf("Goal for %s: [Enter] save  [Esc] cancel", a.sellers.target)))
	} else {
		body.WriteString(dimStyle.Render("[space] toggle  [A] all  [a] add  [d] remove  [Enter] goal"))
	}

	title := fmt.Sprintf("Sellers (%d of %d selected)", len(snap.Selection), len(snap.Sellers))
	return components.ContentCard(title, body.String(), cw)
}
