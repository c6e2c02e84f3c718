package source

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

const (
	defaultHTTPTimeout = 30 * time.Second
	maxDownloadBytes   = 64 << 20
)

// HTTPSource downloads a spreadsheet export (CSV or XLSX) from a URL.
type HTTPSource struct {
	URL    string
	Format Format // empty means detect from Content-Type, then the URL path
	Sheet  string
	Client *http.Client
}

// Key returns the URL.
func (s *HTTPSource) Key() string { return s.URL }

// Fetch downloads and parses the document.
func (s *HTTPSource) Fetch(ctx context.Context) (Result, error) {
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return Result{}, fmt.Errorf("building request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("fetching %s: %w", s.URL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{}, fmt.Errorf("fetching %s: unexpected status %d", s.URL, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadBytes))
	if err != nil {
		return Result{}, fmt.Errorf("reading response: %w", err)
	}

	format := s.Format
	if format == "" {
		format = detectHTTPFormat(resp.Header.Get("Content-Type"), s.URL)
	}
	rows, err := ReadRows(data, format, s.Sheet)
	if err != nil {
		return Result{}, err
	}
	return ParseRows(rows)
}

func detectHTTPFormat(contentType, rawURL string) Format {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		switch {
		case mt == "text/csv" || mt == "application/csv":
			return FormatCSV
		case strings.Contains(mt, "spreadsheetml"):
			return FormatXLSX
		case mt == "application/vnd.ms-excel":
			return FormatXLS
		}
	}
	if u, err := url.Parse(rawURL); err == nil {
		if q := u.Query().Get("format"); q != "" {
			return FormatFromExt("x." + q)
		}
		return FormatFromExt(path.Base(u.Path))
	}
	return FormatCSV
}
