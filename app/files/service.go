package files

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/wallboard/wallboard/app/nextcloud"
	"github.com/wallboard/wallboard/app/parser"
	"github.com/wallboard/wallboard/app/transport"
)

// Storage is the file store the service reads from.
type Storage interface {
	FileContent(ctx context.Context, filePath string) (*transport.Payload, error)
	Ping(ctx context.Context) error
}

var _ Storage = (*nextcloud.Client)(nil)

// ErrEmptyFile marks a fetched file whose byte stream is empty. This is an
// upstream data problem, not a parse failure.
var ErrEmptyFile = errors.New("file is empty or could not be read")

// UnsupportedFormatError reports a file extension no parser handles.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file format: %s", e.Format)
}

// SupportedFormats lists the formats the service can parse.
var SupportedFormats = []string{"csv", "xml", "xlsx", "xls"}

// Outcome is the assembled result of one fetch-and-parse run.
type Outcome struct {
	FilePath string
	Format   string
	FileSize int
	Result   *parser.Result
	ParsedAt time.Time
}

// Service selects the right parser for a WebDAV file by its detected format
// and assembles the response parts.
type Service struct {
	storage     Storage
	csvParser   *parser.CSVParser
	xmlParser   *parser.XMLParser
	excelParser *parser.ExcelParser
}

func NewService(storage Storage) *Service {
	return &Service{
		storage:     storage,
		csvParser:   parser.NewCSVParser(),
		xmlParser:   parser.NewXMLParser(),
		excelParser: parser.NewExcelParser(),
	}
}

// Run fetches filePath from Nextcloud and parses it. formatOverride, when
// non-empty, wins over the extension-based detection.
func (s *Service) Run(ctx context.Context, filePath, formatOverride string) (*Outcome, error) {
	payload, err := s.storage.FileContent(ctx, filePath)
	if err != nil {
		return nil, err
	}

	if len(payload.Body) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, filePath)
	}

	format := strings.ToLower(formatOverride)
	if format == "" {
		format = DetectFormat(filePath)
	}

	var result *parser.Result
	switch format {
	case "csv":
		result, err = s.csvParser.Run(payload.Body)
	case "xml":
		result, err = s.xmlParser.Run(payload.Body)
	case "xlsx", "xls":
		result, err = s.excelParser.Run(payload.Body)
	default:
		return nil, &UnsupportedFormatError{Format: format}
	}
	if err != nil {
		return nil, err
	}

	slog.Info("File parsed",
		"path", filePath,
		"format", format,
		"size", len(payload.Body),
		"records", result.TotalCount)

	return &Outcome{
		FilePath: filePath,
		Format:   format,
		FileSize: len(payload.Body),
		Result:   result,
		ParsedAt: time.Now().UTC(),
	}, nil
}

// Ping reports whether the Nextcloud server is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.storage.Ping(ctx)
}

// DetectFormat derives the format from the file extension, lowercased and
// without the leading dot.
func DetectFormat(filePath string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(filePath), "."))
}
