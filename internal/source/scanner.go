package source

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/theirongolddev/salesboard/internal/config"
)

// ScanDir walks dir and returns every spreadsheet or CSV file beneath it,
// sorted by path. Hidden files and Office lock files are skipped.
func ScanDir(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, nil
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // intentionally skip unreadable entries
		}
		name := d.Name()
		if d.IsDir() {
			if path != dir && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~$") {
			return nil
		}
		switch strings.ToLower(filepath.Ext(name)) {
		case ".csv", ".xlsx", ".xlsm", ".xls":
			files = append(files, path)
		}
		return nil
	})

	sort.Strings(files)
	return files, err
}

// OpenAll is like Open but expands a directory path into one FileSource per
// file found by ScanDir.
func OpenAll(cfg config.SourceConfig) ([]Source, error) {
	if cfg.Path != "" && cfg.URL == "" && cfg.Kind != config.KindSheets {
		if info, err := os.Stat(cfg.Path); err == nil && info.IsDir() {
			files, err := ScanDir(cfg.Path)
			if err != nil {
				return nil, err
			}
			if len(files) == 0 {
				return nil, &EmptyDirError{Dir: cfg.Path}
			}
			srcs := make([]Source, 0, len(files))
			for _, f := range files {
				fs := &FileSource{Path: f, Sheet: cfg.Sheet}
				switch cfg.Kind {
				case config.KindCSV, config.KindXLSX, config.KindXLS:
					fs.Format = Format(cfg.Kind)
				}
				srcs = append(srcs, fs)
			}
			return srcs, nil
		}
	}

	src, err := Open(cfg)
	if err != nil {
		return nil, err
	}
	return []Source{src}, nil
}

// EmptyDirError reports a source directory with no readable files.
type EmptyDirError struct {
	Dir string
}

func (e *EmptyDirError) Error() string {
	return "no .csv, .xlsx or .xls files found in " + e.Dir
}
