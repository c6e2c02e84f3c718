package source

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// maxXLSRows bounds the rows read from a legacy workbook.
const maxXLSRows = 100000

// FileSource reads sale records from a local CSV, XLSX or XLS file.
type FileSource struct {
	Path   string
	Format Format // empty means detect from the extension
	Sheet  string // workbook sheet; empty means the first one
}

// Key returns the absolute path of the file.
func (s *FileSource) Key() string {
	if abs, err := filepath.Abs(s.Path); err == nil {
		return abs
	}
	return s.Path
}

// Fingerprint returns the file's mtime and size.
func (s *FileSource) Fingerprint() (Fingerprint, error) {
	info, err := os.Stat(s.Path)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("stat %s: %w", s.Path, err)
	}
	return Fingerprint{MtimeNs: info.ModTime().UnixNano(), SizeBytes: info.Size()}, nil
}

// Fetch reads and parses the whole file.
func (s *FileSource) Fetch(ctx context.Context) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return Result{}, fmt.Errorf("reading %s: %w", s.Path, err)
	}

	format := s.Format
	if format == "" {
		format = FormatFromExt(s.Path)
	}
	rows, err := ReadRows(data, format, s.Sheet)
	if err != nil {
		return Result{}, fmt.Errorf("reading %s: %w", filepath.Base(s.Path), err)
	}
	return ParseRows(rows)
}

// FormatFromExt guesses the format from a file name. Unknown extensions are CSV.
func FormatFromExt(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX
	case ".xls":
		return FormatXLS
	default:
		return FormatCSV
	}
}

// ReadRows decodes raw bytes of the given format into a table of cells.
func ReadRows(data []byte, format Format, sheet string) ([][]string, error) {
	switch format {
	case FormatXLSX:
		return readXLSX(data, sheet)
	case FormatXLS:
		return readXLS(data, sheet)
	case FormatCSV:
		return readCSV(data)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

func readXLSX(data []byte, sheet string) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if sheet == "" {
		return nil, errors.New("no worksheet found")
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	return rows, nil
}

func readXLS(data []byte, sheet string) ([][]string, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	if wb.NumSheets() == 0 {
		return nil, errors.New("no worksheet found")
	}

	var ws *xls.WorkSheet
	if sheet == "" {
		ws = wb.GetSheet(0)
	} else {
		for i := 0; i < wb.NumSheets(); i++ {
			if s := wb.GetSheet(i); s != nil && s.Name == sheet {
				ws = s
				break
			}
		}
	}
	if ws == nil {
		return nil, fmt.Errorf("sheet %q not found", sheet)
	}

	var rows [][]string
	for i := 0; i <= int(ws.MaxRow) && i < maxXLSRows; i++ {
		row := ws.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, 0, row.LastCol())
		for c := 0; c < row.LastCol(); c++ {
			cells = append(cells, row.Col(c))
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

func readCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = detectDelimiter(data)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	var rows [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing csv: %w", err)
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

// detectDelimiter picks ';' or ',' by counting them on the first non-empty line.
func detectDelimiter(data []byte) rune {
	for _, line := range bytes.Split(data, []byte("\n")) {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		if bytes.Count(line, []byte(";")) > bytes.Count(line, []byte(",")) {
			return ';'
		}
		return ','
	}
	return ','
}
