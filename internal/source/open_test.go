package source

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/salesboard/internal/config"
)

func TestOpen(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.SourceConfig
		want any
	}{
		{"auto path", config.SourceConfig{Kind: config.KindAuto, Path: "v.xlsx"}, &FileSource{}},
		{"auto url", config.SourceConfig{Path: "", URL: "https://x/v.csv"}, &HTTPSource{}},
		{"auto sheet id", config.SourceConfig{Kind: config.KindAuto, SpreadsheetID: "abc"}, &SheetsSource{}},
		{"explicit csv", config.SourceConfig{Kind: config.KindCSV, Path: "v.txt"}, &FileSource{}},
		{"url", config.SourceConfig{Kind: config.KindURL, URL: "https://x"}, &HTTPSource{}},
		{"sheets", config.SourceConfig{Kind: config.KindSheets, SpreadsheetID: "abc"}, &SheetsSource{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := Open(tt.cfg)
			require.NoError(t, err)
			assert.IsType(t, tt.want, src)
		})
	}
}

func TestOpen_ExplicitFormat(t *testing.T) {
	src, err := Open(config.SourceConfig{Kind: config.KindXLS, Path: "legacy.bin"})
	require.NoError(t, err)
	fs, ok := src.(*FileSource)
	require.True(t, ok)
	assert.Equal(t, FormatXLS, fs.Format)
}

func TestOpen_Errors(t *testing.T) {
	_, err := Open(config.SourceConfig{Kind: config.KindAuto})
	assert.True(t, errors.Is(err, ErrNoSource))

	_, err = Open(config.SourceConfig{Kind: "ftp", Path: "x"})
	assert.Error(t, err)
}
