package export

import (
	"encoding/csv"
	"io"

	"loanlens/internal/domain"
)

// BOM lets Excel on Windows detect UTF-8.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter wraps csv.Writer for exporting applications.
type CSVWriter struct {
	csv *csv.Writer
}

// NewCSVWriter creates a CSVWriter that writes to w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{csv: csv.NewWriter(w)}
}

func (w *CSVWriter) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteApplications writes one row per application.
func (w *CSVWriter) WriteApplications(apps []domain.LoanApplication) error {
	for i := range apps {
		vals := applicationValues(&apps[i])
		row := make([]string, len(vals))
		for j, v := range vals {
			row[j] = formatCell(v)
		}
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes buffered rows and returns any write error.
func (w *CSVWriter) Flush() error {
	w.csv.Flush()
	return w.csv.Error()
}

// WriteCSV writes BOM, header and rows in one go.
func WriteCSV(out io.Writer, apps []domain.LoanApplication) error {
	if _, err := out.Write(BOM); err != nil {
		return err
	}
	w := NewCSVWriter(out)
	if err := w.WriteHeader(); err != nil {
		return err
	}
	if err := w.WriteApplications(apps); err != nil {
		return err
	}
	return w.Flush()
}
