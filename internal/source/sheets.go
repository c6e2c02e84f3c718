package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

const defaultSheetsRange = "A:Z"

// SheetsSource reads a range of a Google spreadsheet through the Sheets API
// using service-account credentials.
type SheetsSource struct {
	SpreadsheetID   string
	Range           string // A1 notation, e.g. "Vendas!A:F"
	CredentialsFile string
	CredentialsJSON string

	// ClientOptions are appended after the credential options.
	ClientOptions []option.ClientOption
}

// Key returns "sheets:<id>!<range>".
func (s *SheetsSource) Key() string {
	return "sheets:" + s.SpreadsheetID + "!" + s.readRange()
}

func (s *SheetsSource) readRange() string {
	if s.Range == "" {
		return defaultSheetsRange
	}
	return s.Range
}

// Fetch reads the range and parses it as a table.
func (s *SheetsSource) Fetch(ctx context.Context) (Result, error) {
	if s.SpreadsheetID == "" {
		return Result{}, errors.New("sheets: missing spreadsheet id")
	}

	opts, err := s.credentialOptions()
	if err != nil {
		return Result{}, err
	}
	opts = append(opts, s.ClientOptions...)

	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return Result{}, fmt.Errorf("create sheets service: %w", err)
	}

	resp, err := svc.Spreadsheets.Values.Get(s.SpreadsheetID, s.readRange()).
		ValueRenderOption("UNFORMATTED_VALUE").
		Context(ctx).Do()
	if err != nil {
		return Result{}, fmt.Errorf("reading range %s: %w", s.readRange(), err)
	}

	rows := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = cellString(v)
		}
		rows[i] = cells
	}
	return ParseRows(rows)
}

func (s *SheetsSource) credentialOptions() ([]option.ClientOption, error) {
	switch {
	case s.CredentialsJSON != "":
		return []option.ClientOption{
			option.WithCredentialsJSON([]byte(s.CredentialsJSON)),
			option.WithScopes(gsheet.SpreadsheetsReadonlyScope),
		}, nil
	case s.CredentialsFile != "":
		b, err := os.ReadFile(s.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return []option.ClientOption{
			option.WithCredentialsJSON(b),
			option.WithScopes(gsheet.SpreadsheetsReadonlyScope),
		}, nil
	case len(s.ClientOptions) > 0:
		return nil, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE)")
	}
}

// cellString renders an unformatted Sheets value. Numbers arrive as float64.
func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		if x {
			return "TRUE"
		}
		return "FALSE"
	default:
		return fmt.Sprint(x)
	}
}
