package output

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"dirscout/scanner"
)

// Writer renders a report to a single output file. One Writer per run.
type Writer struct {
	file   *os.File
	buf    *bufio.Writer
	mu     sync.Mutex
	format string
}

// New opens the output file for the given format ("json" or "csv").
func New(fileName, format string) (*Writer, error) {
	f, err := os.OpenFile(fileName, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, err
	}
	return &Writer{
		file:   f,
		buf:    bufio.NewWriterSize(f, 1024*1024),
		format: format,
	}, nil
}

// WriteJSON serializes the report document.
func (w *Writer) WriteJSON(rep *Report) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	bytes, err := jsonMarshalIndent(rep, "", "  ")
	if err != nil {
		return err
	}
	if _, err := w.buf.Write(bytes); err != nil {
		return err
	}
	if err := w.buf.WriteByte('\n'); err != nil {
		return err
	}
	return w.buf.Flush()
}

// WriteCSV emits one row per record after a header row.
func (w *Writer) WriteCSV(res *scanner.ScanResult) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	cw := csv.NewWriter(w.buf)
	header := []string{"path", "name", "extension", "size_bytes", "mod_time", "kind", "depth", "error"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for i := range res.Records {
		rec := &res.Records[i]
		modTime := ""
		if !rec.ModTime.IsZero() {
			modTime = rec.ModTime.Format(time.RFC3339)
		}
		row := []string{
			rec.Path,
			rec.Name,
			rec.Extension,
			strconv.FormatInt(rec.SizeBytes, 10),
			modTime,
			string(rec.Kind),
			strconv.Itoa(rec.Depth),
			rec.Error,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return w.buf.Flush()
}

// Write renders the report in the writer's configured format.
func (w *Writer) Write(rep *Report, res *scanner.ScanResult) error {
	switch w.format {
	case "csv":
		return w.WriteCSV(res)
	default:
		return w.WriteJSON(rep)
	}
}

func (w *Writer) Name() string {
	return w.file.Name()
}

func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.buf.Flush(); err != nil {
		w.file.Close()
		return err
	}
	if err := w.file.Sync(); err != nil {
		w.file.Close()
		return fmt.Errorf("sync %s: %w", w.file.Name(), err)
	}
	return w.file.Close()
}
