package parser

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"
)

// MaxExcelColumns caps the number of columns read from a worksheet. Files
// exceeding the cap are truncated with a warning instead of failing.
const MaxExcelColumns = 100

// ExcelParser parses xlsx/xls workbooks. Only the first worksheet is read.
type ExcelParser struct{}

func NewExcelParser() *ExcelParser {
	return &ExcelParser{}
}

func (p *ExcelParser) Run(data []byte) (*Result, error) {
	workbook, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &ParseError{Format: "excel", Reason: err.Error()}
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, &ParseError{Format: "excel", Reason: "workbook contains no worksheets"}
	}
	sheetName := sheets[0]

	rows, err := workbook.GetRows(sheetName)
	if err != nil {
		return nil, &ParseError{Format: "excel", Reason: err.Error()}
	}

	meta := map[string]string{"sheet": sheetName}

	if len(rows) == 0 {
		return &Result{
			Records:    []*Record{},
			Headers:    []string{},
			TotalCount: 0,
			SourceMeta: meta,
		}, nil
	}

	columnCount := len(rows[0])
	if columnCount > MaxExcelColumns {
		slog.Warn("Worksheet has too many columns, truncating",
			"sheet", sheetName, "columns", columnCount, "limit", MaxExcelColumns)
		columnCount = MaxExcelColumns
	}

	headers := make([]string, 0, columnCount)
	for col := 0; col < columnCount; col++ {
		header := ""
		if col < len(rows[0]) {
			header = strings.TrimSpace(rows[0][col])
		}
		if header == "" {
			header = fmt.Sprintf("Column_%d", col+1)
		}
		headers = append(headers, header)
	}

	records := make([]*Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := NewRecord()
		hasData := false
		for col, header := range headers {
			value := ""
			if col < len(row) {
				value = strings.TrimSpace(row[col])
			}
			if value != "" {
				hasData = true
			}
			record.SetString(header, value)
		}
		if hasData {
			records = append(records, record)
		}
	}

	meta["dimensions"] = fmt.Sprintf("%dx%d", len(rows), columnCount)

	return &Result{
		Records:    records,
		Headers:    headers,
		TotalCount: len(records),
		SourceMeta: meta,
	}, nil
}
