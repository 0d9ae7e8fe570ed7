// Package export writes measurements as CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	"go-complexity-inspector/pkg/models"
)

// TimestampLayout is the history timestamp column format
const TimestampLayout = "2006-01-02 15:04:05"

// Header is the column set shared by single and history exports
var Header = []string{"filename", "FD", "FD_norm", "L", "L_norm", "C", "FD_label", "L_label", "C_label"}

// WriteMeasurementCSV writes a header and one row for a single measurement
func WriteMeasurementCSV(w io.Writer, source string, m models.Measurement) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	if err := cw.Write(row(source, m)); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// WriteHistoryCSV writes every entry in order with a trailing timestamp column
func WriteHistoryCSV(w io.Writer, entries []models.HistoryEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append(append([]string(nil), Header...), "timestamp")); err != nil {
		return err
	}
	for _, e := range entries {
		record := append(row(e.Source, e.Measurement), e.Timestamp.Format(TimestampLayout))
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func row(source string, m models.Measurement) []string {
	return []string{
		baseName(source),
		format(m.FDRaw),
		format(m.FDNorm),
		format(m.LRaw),
		format(m.LNorm),
		format(m.C),
		m.FDLabel,
		m.LLabel,
		m.CLabel,
	}
}

func format(v float64) string {
	return fmt.Sprintf("%.4f", v)
}

// baseName returns the last path element of a file name or URL. Query strings
// and fragments never reach the export, so signed blob URLs keep their tokens.
func baseName(source string) string {
	source = strings.TrimSpace(source)
	if u, err := url.Parse(source); err == nil && u.Scheme != "" && u.Host != "" {
		return path.Base(u.Path)
	}
	return filepath.Base(source)
}

// MeasurementFileName names the export for one image: complexity_<stem>.csv
func MeasurementFileName(source string) string {
	base := baseName(source)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" || stem == "." || stem == "/" {
		stem = "image"
	}
	return "complexity_" + stem + ".csv"
}

// HistoryFileName names the export for the whole history
func HistoryFileName(now time.Time) string {
	return "all_complexity_results_" + now.Format("20060102_150405") + ".csv"
}
