package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var ErrUnsupportedFormat = errors.New("unsupported file format, use .xlsx or .csv")

// Row is one topic read from a spreadsheet.
type Row struct {
	Line        int // 1-based row number in the source file
	Title       string
	Description string
}

// Result holds the parsed rows and what was skipped on the way.
type Result struct {
	Rows    []Row
	Skipped int
	Errors  []string
}

// Parse reads topics from an .xlsx or .csv file. Column A holds the title,
// column B the description and the first row is a header.
func Parse(filename string, r io.Reader) (*Result, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return parseExcel(r)
	case ".csv":
		return parseCSV(r)
	default:
		return nil, ErrUnsupportedFormat
	}
}

func parseExcel(r io.Reader) (*Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return &Result{}, nil
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("get rows: %w", err)
	}

	result := &Result{}
	for i, row := range rows {
		if i == 0 {
			continue
		}
		result.add(i+1, row)
	}

	return result, nil
}

func parseCSV(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	result := &Result{}
	line := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", line, err))
			continue
		}
		if line == 1 {
			continue
		}
		result.add(line, row)
	}

	return result, nil
}

func (res *Result) add(line int, cells []string) {
	row := Row{Line: line}
	if len(cells) > 0 {
		row.Title = strings.TrimSpace(cells[0])
	}
	if len(cells) > 1 {
		row.Description = strings.TrimSpace(cells[1])
	}

	if row.Title == "" {
		res.Skipped++
		return
	}
	res.Rows = append(res.Rows, row)
}
