package tui

import (
	"fmt"

	"github.com/theirongolddev/salesboard/internal/dashboard"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

type formKind int

const (
	formNone formKind = iota
	formAddSeller
	formRemoveSeller
)

// formValues is heap-allocated so huh's field pointers survive App copies.
type formValues struct {
	name    string
	confirm bool
}

func formWidth(termWidth int) int {
	return min(60, max(30, termWidth-20))
}

func newAddSellerForm(v *formValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Add seller").
				Description("Name exactly as it appears in the vendedor column.").
				Placeholder("Seller name").
				Value(&v.name),
		),
	).WithShowHelp(true).WithTheme(huh.ThemeCharm())
}

func newRemoveSellerForm(v *formValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Remove seller %q?", v.name)).
				Description("Their goal is deleted. Loaded records are kept.").
				Affirmative("Remove").
				Negative("Cancel").
				Value(&v.confirm),
		),
	).WithShowHelp(true).WithTheme(huh.ThemeCharm())
}

func (a *App) openForm(kind formKind, vals *formValues) tea.Cmd {
	var f *huh.Form
	switch kind {
	case formAddSeller:
		f = newAddSellerForm(vals)
	case formRemoveSeller:
		f = newRemoveSellerForm(vals)
	default:
		return nil
	}
	if a.width > 0 {
		f = f.WithWidth(formWidth(a.width))
	}
	a.form = f
	a.formKind = kind
	a.formVals = vals
	return f.Init()
}

func (a *App) closeForm() {
	a.form = nil
	a.formKind = formNone
	a.formVals = nil
}

func (a App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := a.form.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		a.form = f
	}

	switch a.form.State {
	case huh.StateCompleted:
		kind, vals := a.formKind, a.formVals
		a.closeForm()
		a.applyForm(kind, vals)
		return a, nil
	case huh.StateAborted:
		a.closeForm()
		return a, nil
	}
	return a, cmd
}

// applyForm sends the completed form's intent to the state.
func (a *App) applyForm(kind formKind, vals *formValues) {
	switch kind {
	case formAddSeller:
		a.showError(a.state.AddSeller(vals.name))
	case formRemoveSeller:
		answer := vals.confirm
		_, err := a.state.RemoveSeller(vals.name, dashboard.ConfirmFunc(func(string) bool { return answer }))
		a.showError(err)
	}
	a.refresh()
}
