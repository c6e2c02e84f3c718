package tui

import (
	"errors"
	"strings"

	"github.com/theirongolddev/salesboard/internal/config"
	"github.com/theirongolddev/salesboard/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// SetupValues collects the first-run answers.
type SetupValues struct {
	Kind     string
	Location string
	Sheet    string
	Theme    string
}

// SetupValuesFrom seeds the setup form with the current configuration.
func SetupValuesFrom(cfg config.Config) *SetupValues {
	return &SetupValues{
		Kind:     cfg.Source.Kind,
		Location: cfg.Source.Location(),
		Sheet:    cfg.Source.Sheet,
		Theme:    cfg.Appearance.Theme,
	}
}

// NewSetupForm builds the first-run wizard. Answers are written into v.
func NewSetupForm(v *SetupValues) *huh.Form {
	kinds := make([]huh.Option[string], 0, len(config.Kinds))
	for _, k := range config.Kinds {
		kinds = append(kinds, huh.NewOption(kindLabel(k), k))
	}
	themes := make([]huh.Option[string], 0, len(theme.All))
	for _, name := range theme.Names() {
		themes = append(themes, huh.NewOption(name, name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to salesboard").
				Description("Point it at the sales spreadsheet and pick a theme.\nRun `salesboard setup` anytime to reconfigure."),
			huh.NewSelect[string]().
				Title("Source kind").
				Options(kinds...).
				Value(&v.Kind),
			huh.NewInput().
				Title("Location").
				Description("File path, directory, https URL or Google spreadsheet id.").
				Value(&v.Location).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("location is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Worksheet").
				Description("Leave empty to read the first sheet.").
				Value(&v.Sheet),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themes...).
				Value(&v.Theme),
		),
	).WithTheme(huh.ThemeCharm())
}

// ApplySetup copies completed answers onto cfg.
func ApplySetup(cfg *config.Config, v *SetupValues) {
	loc := strings.TrimSpace(v.Location)
	if v.Kind == config.KindSheets {
		cfg.Source.Kind = config.KindSheets
		cfg.Source.SpreadsheetID = loc
		cfg.Source.Path = ""
		cfg.Source.URL = ""
	} else {
		cfg.Source.Kind = v.Kind
		cfg.Source.SetLocation(loc)
	}
	cfg.Source.Sheet = strings.TrimSpace(v.Sheet)
	if _, ok := theme.Lookup(v.Theme); ok {
		cfg.Appearance.Theme = v.Theme
	}
}

func kindLabel(k string) string {
	switch k {
	case config.KindAuto:
		return "Detect from extension"
	case config.KindCSV:
		return "CSV file"
	case config.KindXLSX:
		return "Excel workbook (.xlsx)"
	case config.KindXLS:
		return "Legacy Excel (.xls)"
	case config.KindURL:
		return "Published CSV or XLSX URL"
	case config.KindSheets:
		return "Google Sheets API"
	}
	return k
}
