// Package tabular reads and writes spreadsheet files as domain tables. CSV
// and Excel workbooks are supported; the format follows the file extension.
package tabular

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cast"

	"github.com/eykd/adsheet-go/internal/domain"
)

// Format is a supported file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatOf maps a path's extension to a Format.
func FormatOf(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	default:
		return "", &domain.UnsupportedFormatError{Path: path, Ext: ext}
	}
}

// Read loads the table stored at path.
func Read(fs afero.Fs, path string) (domain.Table, error) {
	format, err := FormatOf(path)
	if err != nil {
		return domain.Table{}, err
	}
	f, err := fs.Open(path)
	if err != nil {
		return domain.Table{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var records [][]string
	switch format {
	case FormatCSV:
		records, err = readCSV(f)
	case FormatXLSX:
		records, err = readXLSX(f)
	}
	if err != nil {
		return domain.Table{}, fmt.Errorf("reading %s: %w", path, err)
	}
	t, err := build(records)
	if err != nil {
		return domain.Table{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return t, nil
}

// Write stores t at path in the format its extension names. The file is
// written to a temporary sibling first and renamed into place.
func Write(fs afero.Fs, path string, t domain.Table) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmp, err := afero.TempFile(fs, dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}
	tmpName := tmp.Name()
	switch format {
	case FormatCSV:
		err = writeCSV(tmp, t)
	case FormatXLSX:
		err = writeXLSX(tmp, t)
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = fs.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := fs.Rename(tmpName, path); err != nil {
		_ = fs.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// nullTokens are cell texts read as missing values.
var nullTokens = map[string]bool{
	"": true, "NA": true, "N/A": true, "n/a": true, "NaN": true, "nan": true,
	"NULL": true, "null": true, "None": true, "#N/A": true, "<NA>": true,
}

// build turns raw records into a table. The first record is the header.
// Short rows are padded with nulls; a row may only run past the header
// with empty cells. A column becomes numeric when every non-null cell
// parses as a finite number.
func build(records [][]string) (domain.Table, error) {
	if len(records) == 0 {
		return domain.Table{}, fmt.Errorf("missing header row")
	}
	columns := headerNames(records[0])
	width := len(columns)

	body := records[1:]
	for i, rec := range body {
		for j := width; j < len(rec); j++ {
			if strings.TrimSpace(rec[j]) != "" {
				return domain.Table{}, fmt.Errorf("row %d has %d fields, header has %d", i+2, len(rec), width)
			}
		}
	}

	numeric := make([]bool, width)
	for c := range columns {
		numeric[c] = numericColumn(body, c)
	}

	t := domain.NewTable(columns...)
	for _, rec := range body {
		cells := make([]domain.Value, width)
		for c := range columns {
			cells[c] = cellValue(rec, c, numeric[c])
		}
		t.AppendRow(cells...)
	}
	return t, nil
}

// headerNames fills blank names and disambiguates repeats as "X.1", "X.2".
func headerNames(header []string) []string {
	names := make([]string, len(header))
	used := make(map[string]bool)
	dups := make(map[string]int)
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		h = strings.TrimSpace(h)
		if h == "" {
			h = "Unnamed: " + strconv.Itoa(i)
		}
		name := h
		for used[name] {
			dups[h]++
			name = h + "." + strconv.Itoa(dups[h])
		}
		used[name] = true
		names[i] = name
	}
	return names
}

func raw(rec []string, c int) (string, bool) {
	if c >= len(rec) || nullTokens[strings.TrimSpace(rec[c])] {
		return "", false
	}
	return rec[c], true
}

func parseNumber(s string) (float64, bool) {
	f, err := cast.ToFloat64E(strings.TrimSpace(s))
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func numericColumn(body [][]string, c int) bool {
	var seen bool
	for _, rec := range body {
		s, ok := raw(rec, c)
		if !ok {
			continue
		}
		if _, ok := parseNumber(s); !ok {
			return false
		}
		seen = true
	}
	return seen
}

func cellValue(rec []string, c int, numeric bool) domain.Value {
	s, ok := raw(rec, c)
	if !ok {
		return domain.Null()
	}
	if numeric {
		f, _ := parseNumber(s)
		return domain.Num(f)
	}
	return domain.Str(s)
}
