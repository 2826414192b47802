package writer

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ekorchmar/HistoricalCoinData/internal/flatten"
	"github.com/ekorchmar/HistoricalCoinData/internal/model"
)

// CSVWriter writes each snapshot to {dir}/{YYYY-MM-DD}.csv.
//
// Quoting: every non-numeric field is quoted, including the header, missing
// cells and nulls (written as ""). Numbers and booleans are bare.
type CSVWriter struct {
	dir     string
	logger  *slog.Logger
	metrics metrics
}

// NewCSVWriter creates a CSVWriter rooted at dir.
func NewCSVWriter(dir string, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{dir: dir, logger: logger}
}

// Path returns the file a snapshot for date is written to.
func (w *CSVWriter) Path(date time.Time) string {
	return filepath.Join(w.dir, date.Format("2006-01-02")+".csv")
}

// WriteSnapshot writes s, creating the directory if needed and replacing any
// existing file for the date.
func (w *CSVWriter) WriteSnapshot(ctx context.Context, s Snapshot) error {
	err := w.write(s)
	w.metrics.record(len(s.Records), err)
	return err
}

func (w *CSVWriter) write(s Snapshot) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	path := w.Path(s.Date)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := EncodeCSV(f, s.Records); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}

	w.logger.Debug("wrote snapshot csv",
		"path", path,
		"rows", len(s.Records),
	)
	return nil
}

// Stats returns current metrics.
func (w *CSVWriter) Stats() WriterMetrics {
	return w.metrics.snapshot()
}

// EncodeCSV writes a header of the column union followed by one line per row.
func EncodeCSV(out io.Writer, rows []model.FlatRecord) error {
	bw := bufio.NewWriter(out)
	cols := flatten.Columns(rows)

	fields := make([]string, len(cols))
	for i, c := range cols {
		fields[i] = quote(c)
	}
	if err := writeLine(bw, fields); err != nil {
		return err
	}

	for _, row := range rows {
		for i, c := range cols {
			v, ok := row.Get(c)
			fields[i] = cell(v, ok)
		}
		if err := writeLine(bw, fields); err != nil {
			return err
		}
	}

	return bw.Flush()
}

func writeLine(w *bufio.Writer, fields []string) error {
	if _, err := w.WriteString(strings.Join(fields, ",")); err != nil {
		return err
	}
	return w.WriteByte('\n')
}

func cell(v model.Value, ok bool) string {
	if !ok || v.Kind == model.KindNull {
		return `""`
	}
	if v.IsNumeric() {
		return v.Text
	}
	return quote(v.Text)
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
