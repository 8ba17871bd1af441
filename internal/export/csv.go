package export

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/danielokoye/submittal-scan/internal/entity"
)

// Header is the fixed CSV header of the product table.
var Header = []string{"Product Name", "Manufacturer", "Page Number"}

// CSVWriter appends product rows to a CSV file as pages complete, so a
// crash mid-document still leaves the rows written so far on disk.
type CSVWriter struct {
	path   string
	file   *os.File
	w      *csv.Writer
	logger *slog.Logger
}

// NewCSVWriter creates (or truncates) the output file, creating its parent
// directory if missing, and writes the header row.
func NewCSVWriter(path string, logger *slog.Logger) (*CSVWriter, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output csv: %w", err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("flush csv header: %w", err)
	}
	return &CSVWriter{path: path, file: f, w: w, logger: logger}, nil
}

// Path returns the output file path.
func (c *CSVWriter) Path() string { return c.path }

// Append writes the given rows and flushes immediately.
func (c *CSVWriter) Append(rows []entity.ProductRow) error {
	for _, row := range rows {
		record := []string{row.ProductName, row.Manufacturer, strconv.Itoa(row.PageNumber)}
		if err := c.w.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	c.w.Flush()
	return c.w.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		_ = c.file.Close()
		return err
	}
	return c.file.Close()
}
