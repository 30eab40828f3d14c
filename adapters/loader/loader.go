// Package loader ingests tabular data from CSV, JSON, and Excel sources,
// local or remote, and coerces every cell through the shared type rules
// into a table.Dataset.
package loader

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"vizboard/adapters/coercer"
	"vizboard/domain/table"
	apperrors "vizboard/internal/errors"

	"vizboard/internal"
)

// Format identifies a supported source encoding
type Format string

const (
	FormatCSV     Format = "csv"
	FormatJSON    Format = "json"
	FormatExcel   Format = "xlsx"
	FormatUnknown Format = ""
)

// Loader reads raw sources into datasets. All readers share one
// TypeCoercer so every cell obeys the same null/number/date rules.
type Loader struct {
	coercer  *coercer.TypeCoercer
	logger   *internal.Logger
	client   *http.Client
	maxBytes int64
}

// Option tweaks loader construction
type Option func(*Loader)

// WithMaxBytes caps how much a single source may read. Zero means no cap.
func WithMaxBytes(n int64) Option {
	return func(l *Loader) { l.maxBytes = n }
}

// WithFetchTimeout bounds remote fetches end to end
func WithFetchTimeout(d time.Duration) Option {
	return func(l *Loader) { l.client.Timeout = d }
}

// WithLogger overrides the default logger
func WithLogger(logger *internal.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

// New creates a loader with the shared coercion rules
func New(opts ...Option) *Loader {
	l := &Loader{
		coercer: coercer.New(),
		logger:  internal.DefaultLogger,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadFile reads a local file, picking the format from its extension
func (l *Loader) LoadFile(path string) (*table.Dataset, error) {
	format := DetectFormat(path, "")
	if format == FormatUnknown {
		return nil, apperrors.LoadError(path, fmt.Errorf("unsupported file type %q", filepath.Ext(path)))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.LoadError(path, err)
	}
	defer f.Close()

	return l.LoadReader(f, format, filepath.Base(path))
}

// LoadReader parses a stream in the given format. The source name is
// only used for logging and error messages.
func (l *Loader) LoadReader(r io.Reader, format Format, source string) (*table.Dataset, error) {
	start := time.Now()
	r = l.limit(r)

	var (
		ds  *table.Dataset
		err error
	)
	switch format {
	case FormatCSV:
		ds, err = l.readCSV(r)
	case FormatJSON:
		ds, err = l.readJSON(r)
	case FormatExcel:
		ds, err = l.readExcel(r)
	default:
		err = fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return nil, apperrors.LoadError(source, err)
	}

	l.logger.Info("[Loader] Loaded %s (%s): %d records, %d columns in %v",
		source, format, ds.Len(), len(ds.Columns), time.Since(start).Round(time.Millisecond))
	return ds, nil
}

// limit wraps the reader so oversized sources fail instead of exhausting
// memory. The extra byte lets the readers detect the overrun.
func (l *Loader) limit(r io.Reader) io.Reader {
	if l.maxBytes <= 0 {
		return r
	}
	return &limitedReader{r: io.LimitReader(r, l.maxBytes+1), max: l.maxBytes}
}

type limitedReader struct {
	r    io.Reader
	max  int64
	read int64
}

func (lr *limitedReader) Read(p []byte) (int, error) {
	n, err := lr.r.Read(p)
	lr.read += int64(n)
	if lr.read > lr.max {
		return n, fmt.Errorf("source exceeds %d byte limit", lr.max)
	}
	return n, err
}

// DetectFormat resolves a format from a filename and an optional MIME
// content type. The filename extension wins when both disagree.
func DetectFormat(name, contentType string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".tsv", ".txt":
		return FormatCSV
	case ".json":
		return FormatJSON
	case ".xlsx", ".xlsm", ".xls":
		return FormatExcel
	}

	mediaType := strings.ToLower(contentType)
	if i := strings.Index(mediaType, ";"); i >= 0 {
		mediaType = strings.TrimSpace(mediaType[:i])
	}
	switch mediaType {
	case "text/csv", "application/csv":
		return FormatCSV
	case "application/json", "text/json":
		return FormatJSON
	case "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "application/vnd.ms-excel":
		return FormatExcel
	}
	return FormatUnknown
}

// rowsToDataset turns raw string rows into coerced records. The first
// row is inspected for headers; ragged rows read missing cells as null
// and drop cells beyond the header width.
func (l *Loader) rowsToDataset(rows [][]string) (*table.Dataset, error) {
	if len(rows) == 0 {
		return table.NewDataset(nil, nil), nil
	}

	stripBOM(rows[0])
	analysis := AnalyzeHeader(rows[0])
	dataRows := rows[1:]
	if analysis.FirstRowIsData {
		dataRows = rows
		l.logger.Debug("[Loader] First row looks like data, generated %d column names", len(analysis.Headers))
	}

	records := make([]table.Record, 0, len(dataRows))
	for _, row := range dataRows {
		record := make(table.Record, len(analysis.Headers))
		for i, name := range analysis.Headers {
			if i < len(row) {
				record[name] = l.coercer.Coerce(row[i])
			} else {
				record[name] = table.NullCell()
			}
		}
		records = append(records, record)
	}

	return table.NewDataset(analysis.Headers, records), nil
}

// stripBOM removes a UTF-8 byte order mark from the first cell in place
func stripBOM(row []string) {
	if len(row) > 0 {
		row[0] = strings.TrimPrefix(row[0], "\uFEFF")
	}
}
