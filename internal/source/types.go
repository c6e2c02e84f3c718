package source

import (
	"context"

	"github.com/theirongolddev/salesboard/internal/model"
)

// Result holds the output of fetching and parsing one data source.
type Result struct {
	Records []model.SaleRecord
	Sellers []string // distinct sellers in first-appearance order

	Rows     int // data rows seen (header excluded)
	Skipped  int // rows dropped for having no seller
	Warnings int // numeric cells that could not be parsed and were read as 0
}

// Source fetches and parses sale records from somewhere.
type Source interface {
	// Fetch reads the whole source and returns the parsed records.
	Fetch(ctx context.Context) (Result, error)
	// Key identifies the source for caching and logging.
	Key() string
}

// Fingerprint identifies one version of a file-backed source.
type Fingerprint struct {
	MtimeNs   int64
	SizeBytes int64
}

// Fingerprinter is implemented by sources that can cheaply tell whether their
// content changed since the last fetch.
type Fingerprinter interface {
	Fingerprint() (Fingerprint, error)
}

// Format names a tabular encoding understood by the parsers.
type Format string

// Supported formats.
const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
)
