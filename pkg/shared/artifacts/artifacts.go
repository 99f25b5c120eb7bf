package artifacts

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/scan-io-git/sonar-reporter/pkg/shared/files"
)

// ResultsDirName is the folder created under the output directory for reports.
const ResultsDirName = "sonar_analyzer_results"

// NameLayout is the timestamp layout used in report file names.
const NameLayout = "20060102_150405"

// maxCollisions bounds the suffixes tried for reports created within the same second.
const maxCollisions = 1000

// GetReportName returns the report file name.
// Example: demo_20240301_141502.csv.
func GetReportName(projectKey string, t time.Time) string {
	return fmt.Sprintf("%s_%s.csv", projectKey, t.Format(NameLayout))
}

// GetResultsDir returns <outputDir>/sonar_analyzer_results.
func GetResultsDir(outputDir string) string {
	return filepath.Join(outputDir, ResultsDirName)
}

// CreateReportFile creates a new report file for projectKey in the results folder.
// An existing file is never reused: a _N suffix is added until the name is free.
func CreateReportFile(outputDir, projectKey string, t time.Time) (*os.File, error) {
	dir := GetResultsDir(outputDir)
	if err := files.CreateFolderIfNotExists(dir); err != nil {
		return nil, fmt.Errorf("failed to create results folder: %w", err)
	}

	base := GetReportName(projectKey, t)
	ext := filepath.Ext(base)
	stem := base[:len(base)-len(ext)]

	name := base
	for i := 1; i <= maxCollisions; i++ {
		f, err := files.CreateExclusive(filepath.Join(dir, name))
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("failed to create report file: %w", err)
		}
		name = fmt.Sprintf("%s_%d%s", stem, i, ext)
	}
	return nil, fmt.Errorf("failed to create report file: too many reports named %q", base)
}
