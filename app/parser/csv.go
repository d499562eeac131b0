package parser

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
)

// Candidate delimiters tried against the header line, in this order.
// Ties go to the earlier candidate.
var csvDelimiters = []rune{',', ';', '\t', '|'}

// CSVParser parses delimited text with delimiter auto-detection.
type CSVParser struct{}

func NewCSVParser() *CSVParser {
	return &CSVParser{}
}

func (p *CSVParser) Run(data []byte) (*Result, error) {
	delimiter := p.DetectDelimiter(data)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, &ParseError{Format: "csv", Reason: err.Error()}
	}

	if len(rows) == 0 {
		return &Result{
			Records:    []*Record{},
			Headers:    []string{},
			TotalCount: 0,
			SourceMeta: map[string]string{"delimiter": string(delimiter)},
		}, nil
	}

	headers := make([]string, 0, len(rows[0]))
	for i, h := range rows[0] {
		header := strings.TrimSpace(h)
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}
		headers = append(headers, header)
	}

	records := make([]*Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}

		record := NewRecord()
		for i, header := range headers {
			// Short rows pad the missing trailing fields with null
			if i >= len(row) {
				record.Set(header, nil)
				continue
			}
			record.SetString(header, strings.TrimSpace(row[i]))
		}
		records = append(records, record)
	}

	return &Result{
		Records:    records,
		Headers:    headers,
		TotalCount: len(records),
		SourceMeta: map[string]string{"delimiter": string(delimiter)},
	}, nil
}

// DetectDelimiter samples the first line and picks the candidate yielding
// the most fields.
func (p *CSVParser) DetectDelimiter(data []byte) rune {
	firstLine := string(data)
	if idx := strings.IndexByte(firstLine, '\n'); idx >= 0 {
		firstLine = firstLine[:idx]
	}

	best := csvDelimiters[0]
	bestCount := 0
	for _, candidate := range csvDelimiters {
		reader := csv.NewReader(strings.NewReader(firstLine))
		reader.Comma = candidate
		reader.LazyQuotes = true
		fields, err := reader.Read()
		if err != nil {
			continue
		}
		if len(fields) > bestCount {
			bestCount = len(fields)
			best = candidate
		}
	}

	return best
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
