package examstats

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Import errors
var (
	ErrUnsupportedFormat = errors.New("unsupported exam file format")
	ErrNoHeader          = errors.New("exam file has no header row")
	ErrNoQuestionColumn  = errors.New("exam file has no question column")
	ErrNoSheets          = errors.New("workbook has no sheets")
)

// Format is the encoding of an exam file.
type Format string

// Supported formats.
const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Import reads the rows of a CSV file or of the first sheet of an Excel
// workbook. The rows are not cleaned.
func Import(path string) ([]Row, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open exam file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return Read(file, format)
}

// Read parses rows from r in the given format.
func Read(r io.Reader, format Format) ([]Row, error) {
	switch format {
	case FormatCSV:
		return ReadCSV(r)
	case FormatXLSX:
		return ReadXLSX(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(format))
	}
}

// ReadCSV parses comma separated rows. The first record is the header.
func ReadCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return fromRecords(records)
}

// ReadXLSX parses the first sheet of a workbook. The first row is the header.
func ReadXLSX(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return fromRecords(records)
}

// columns maps the known header names to their position, -1 when absent.
type columns struct {
	question, topic, marks, year, subject int
}

func headerColumns(header []string) (columns, error) {
	cols := columns{question: -1, topic: -1, marks: -1, year: -1, subject: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))) {
		case "question":
			cols.question = i
		case "topic":
			cols.topic = i
		case "marks":
			cols.marks = i
		case "year":
			cols.year = i
		case "subject":
			cols.subject = i
		}
	}
	if cols.question < 0 {
		return cols, ErrNoQuestionColumn
	}
	return cols, nil
}

func fromRecords(records [][]string) ([]Row, error) {
	if len(records) == 0 {
		return nil, ErrNoHeader
	}

	cols, err := headerColumns(records[0])
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		rows = append(rows, Row{
			Question: cell(rec, cols.question),
			Topic:    cell(rec, cols.topic),
			Marks:    number(cell(rec, cols.marks)),
			Year:     number(cell(rec, cols.year)),
			Subject:  cell(rec, cols.subject),
		})
	}
	return rows, nil
}

func cell(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

// number parses an integer cell. Spreadsheets often store whole numbers as
// "5.0"; anything unparseable counts as 0.
func number(s string) int {
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(f)
}
