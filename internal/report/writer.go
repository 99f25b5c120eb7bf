// Package report writes fetched measures as a CSV artifact.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/scan-io-git/sonar-reporter/internal/sonar"
	"github.com/scan-io-git/sonar-reporter/pkg/shared/artifacts"
	"github.com/scan-io-git/sonar-reporter/pkg/shared/config"
)

// TimestampLayout is the per-row timestamp format.
const TimestampLayout = "2006-01-02T15:04:05.000000"

// Header is the first CSV record.
var Header = []string{"Username", "Project", "Timestamp", "Metric", "Value"}

type Writer struct {
	OutputDir string
	// MissingValue is written for catalog metrics the server did not return.
	MissingValue string
	Now          func() time.Time

	// sink wraps the report file; nil writes to the file directly.
	sink func(io.Writer) io.Writer
}

func NewWriter(outputDir, missingValue string) *Writer {
	return &Writer{
		OutputDir:    outputDir,
		MissingValue: config.SetThen(missingValue, config.DefaultMissingValue),
		Now:          time.Now,
	}
}

func (w *Writer) now() time.Time {
	if w.Now == nil {
		return time.Now()
	}
	return w.Now()
}

// Write creates a new report with one row per catalog metric, in catalog order, and returns its path.
// A report that fails part way is removed.
func (w *Writer) Write(username, projectKey string, catalog []string, measures sonar.Measures) (string, error) {
	f, err := artifacts.CreateReportFile(w.OutputDir, projectKey, w.now())
	if err != nil {
		return "", err
	}
	path := f.Name()

	var out io.Writer = f
	if w.sink != nil {
		out = w.sink(f)
	}

	if err := w.writeRecords(out, username, projectKey, catalog, measures); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("error closing report: %w", err)
	}
	return path, nil
}

func (w *Writer) writeRecords(out io.Writer, username, projectKey string, catalog []string, measures sonar.Measures) error {
	cw := csv.NewWriter(out)
	cw.UseCRLF = true
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("error writing report header: %w", err)
	}
	for _, metric := range catalog {
		value, ok := measures[metric]
		if !ok {
			value = w.MissingValue
		}
		row := []string{username, projectKey, w.now().Format(TimestampLayout), metric, value}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("error writing report row for %q: %w", metric, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("error flushing report: %w", err)
	}
	return nil
}
