package source

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/salesboard/internal/config"
)

// ErrNoSource is returned by Open when the config names no location.
var ErrNoSource = errors.New("no data source configured (use --source or run 'salesboard setup')")

// Open builds the Source described by cfg.
func Open(cfg config.SourceConfig) (Source, error) {
	switch cfg.Kind {
	case config.KindSheets:
		return &SheetsSource{
			SpreadsheetID:   cfg.SpreadsheetID,
			Range:           cfg.Range,
			CredentialsFile: cfg.CredentialsFile,
			CredentialsJSON: cfg.CredentialsJSON,
		}, nil
	case config.KindURL:
		if cfg.URL == "" {
			return nil, ErrNoSource
		}
		return &HTTPSource{URL: cfg.URL, Sheet: cfg.Sheet}, nil
	case config.KindCSV, config.KindXLSX, config.KindXLS:
		if cfg.Path == "" {
			return nil, ErrNoSource
		}
		return &FileSource{Path: cfg.Path, Format: Format(cfg.Kind), Sheet: cfg.Sheet}, nil
	case config.KindAuto, "":
		switch {
		case cfg.URL != "":
			return &HTTPSource{URL: cfg.URL, Sheet: cfg.Sheet}, nil
		case cfg.Path != "":
			return &FileSource{Path: cfg.Path, Sheet: cfg.Sheet}, nil
		case cfg.SpreadsheetID != "":
			return Open(config.SourceConfig{
				Kind:            config.KindSheets,
				SpreadsheetID:   cfg.SpreadsheetID,
				Range:           cfg.Range,
				CredentialsFile: cfg.CredentialsFile,
				CredentialsJSON: cfg.CredentialsJSON,
			})
		}
		return nil, ErrNoSource
	default:
		return nil, fmt.Errorf("unknown source kind %q", cfg.Kind)
	}
}
