// internal/accuracy/load.go
package accuracy

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/mwiater/langbench/internal/logging"
)

// DefaultLanguageColumn is the header expected in the first column.
const DefaultLanguageColumn = "language"

// whitespaceDelimiter selects splitting on runs of blanks instead of a single rune.
const whitespaceDelimiter rune = -1

// LoadOptions controls how an input table is read.
type LoadOptions struct {
	// LanguageColumn names the first header. Empty means DefaultLanguageColumn.
	LanguageColumn string
	// Delimiter for text input. 0 auto-detects among ',', ';', tab and whitespace.
	Delimiter rune
	// Sheet selects the worksheet for .xlsx input. Empty means the first sheet.
	Sheet string
}

func (o LoadOptions) languageColumn() string {
	if c := strings.TrimSpace(o.LanguageColumn); c != "" {
		return c
	}
	return DefaultLanguageColumn
}

var missingTokens = map[string]struct{}{
	"":    {},
	"nan": {},
	"na":  {},
	"n/a": {},
	"-":   {},
}

// Load reads the table at path, choosing the parser from the file extension.
func Load(path string, opts LoadOptions) (*Dataset, error) {
	var (
		ds  *Dataset
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		ds, err = LoadXLSX(path, opts)
	default:
		f, openErr := os.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("open dataset %s: %w", path, openErr)
		}
		defer f.Close()
		ds, err = LoadDelimited(f, path, opts)
	}
	if err != nil {
		return nil, err
	}
	logging.LogEvent("[LOAD] %s: %d languages, %d columns", path, len(ds.languages), len(ds.columns))
	return ds, nil
}

// LoadDelimited parses delimited text. name is only used in error messages.
func LoadDelimited(r io.Reader, name string, opts LoadOptions) (*Dataset, error) {
	decoded := transform.NewReader(r, xunicode.BOMOverride(xunicode.UTF8.NewDecoder()))
	data, err := io.ReadAll(decoded)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", name, err)
	}
	text := string(data)

	delim := opts.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(text)
	}

	var (
		records [][]string
		lines   []int
	)
	if delim == whitespaceDelimiter {
		records, lines, err = readWhitespace(text)
	} else {
		records, lines, err = readCSV(text, delim)
	}
	if err != nil {
		return nil, &MalformedDatasetError{Path: name, Reason: err.Error()}
	}
	return buildDataset(name, records, lines, opts)
}

// LoadXLSX reads the selected worksheet of an Excel workbook.
func LoadXLSX(path string, opts LoadOptions) (*Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	sheet := strings.TrimSpace(opts.Sheet)
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, &MalformedDatasetError{Path: path, Reason: "workbook has no sheets"}
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q of %s: %w", sheet, path, err)
	}

	var (
		records [][]string
		lines   []int
	)
	width := 0
	for i, row := range rows {
		if isBlankRecord(row) {
			continue
		}
		if len(records) == 0 {
			width = len(row)
		}
		// excelize trims trailing empty cells; those are missing values.
		for len(row) < width {
			row = append(row, "")
		}
		records = append(records, row)
		lines = append(lines, i+1)
	}
	return buildDataset(path, records, lines, opts)
}

func sniffDelimiter(text string) rune {
	first := text
	if idx := strings.IndexAny(text, "\r\n"); idx >= 0 {
		first = text[:idx]
	}
	switch {
	case strings.Contains(first, "\t"):
		return '\t'
	case strings.Contains(first, ","):
		return ','
	case strings.Contains(first, ";"):
		return ';'
	default:
		return whitespaceDelimiter
	}
}

func readCSV(text string, delim rune) ([][]string, []int, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var (
		records [][]string
		lines   []int
	)
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		if isBlankRecord(rec) {
			continue
		}
		line, _ := r.FieldPos(0)
		records = append(records, rec)
		lines = append(lines, line)
	}
	return records, lines, nil
}

func readWhitespace(text string) ([][]string, []int, error) {
	var (
		records [][]string
		lines   []int
	)
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		records = append(records, fields)
		lines = append(lines, lineNo)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}
	return records, lines, nil
}

func isBlankRecord(rec []string) bool {
	for _, field := range rec {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

func buildDataset(name string, records [][]string, lines []int, opts LoadOptions) (*Dataset, error) {
	langColumn := opts.languageColumn()
	if len(records) == 0 {
		return nil, &MalformedDatasetError{Path: name, Reason: "no header row"}
	}
	header := records[0]
	if strings.TrimSpace(header[0]) != langColumn {
		return nil, &MalformedDatasetError{Path: name, Line: lines[0], Column: langColumn, Reason: "language column missing from first header"}
	}

	columns := make([]ColumnKey, 0, len(header)-1)
	for _, raw := range header[1:] {
		key, err := ParseColumnKey(raw)
		if err != nil {
			return nil, &MalformedDatasetError{Path: name, Line: lines[0], Column: strings.TrimSpace(raw), Reason: err.Error()}
		}
		columns = append(columns, key)
	}

	languages := make([]string, 0, len(records)-1)
	rows := make(map[string]map[ColumnKey]Value, len(records)-1)
	// Names are kept byte for byte; canonically equivalent spellings of the
	// same name are still duplicates.
	canonical := make(map[string]string, len(records)-1)
	for i, rec := range records[1:] {
		line := lines[i+1]
		if len(rec) != len(header) {
			return nil, &MalformedDatasetError{Path: name, Line: line, Reason: fmt.Sprintf("expected %d fields, got %d", len(header), len(rec))}
		}
		lang := strings.TrimSpace(rec[0])
		if lang == "" {
			return nil, &MalformedDatasetError{Path: name, Line: line, Column: langColumn, Reason: "empty language name"}
		}
		if prev, dup := canonical[norm.NFC.String(lang)]; dup {
			reason := "duplicate language"
			if prev != lang {
				reason = fmt.Sprintf("duplicate language: %q and %q differ only in Unicode normalization", prev, lang)
			}
			return nil, &MalformedDatasetError{Path: name, Line: line, Language: lang, Reason: reason}
		}
		canonical[norm.NFC.String(lang)] = lang
		row := make(map[ColumnKey]Value, len(columns))
		for j, key := range columns {
			v, err := parseCell(rec[j+1])
			if err != nil {
				return nil, &MalformedDatasetError{Path: name, Line: line, Language: lang, Column: key.String(), Reason: err.Error()}
			}
			if _, dup := row[key]; dup {
				return nil, &MalformedDatasetError{Path: name, Line: lines[0], Column: key.String(), Reason: "duplicate column"}
			}
			row[key] = v
		}
		languages = append(languages, lang)
		rows[lang] = row
	}

	ds, err := NewDataset(languages, columns, rows)
	if err != nil {
		var malformed *MalformedDatasetError
		if errors.As(err, &malformed) && malformed.Path == "" {
			malformed.Path = name
		}
		return nil, err
	}
	return ds, nil
}

func parseCell(raw string) (Value, error) {
	s := strings.TrimSpace(raw)
	if _, ok := missingTokens[strings.ToLower(s)]; ok {
		return Missing(), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Value{}, fmt.Errorf("non-numeric value %q", s)
	}
	return Of(f), nil
}
