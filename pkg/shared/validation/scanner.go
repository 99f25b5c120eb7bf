package validation

import (
	"errors"
	"io/fs"
	"os"

	errs "github.com/scan-io-git/sonar-reporter/pkg/shared/errors"
	"github.com/scan-io-git/sonar-reporter/pkg/shared/files"
)

// ValidateScannerPath checks that the scanner executable is configured and points to a regular file.
func ValidateScannerPath(path string) error {
	if path == "" {
		return &errs.ScannerNotFoundError{}
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &errs.ScannerNotFoundError{Path: path}
		}
		return &errs.ScannerNotFoundError{Path: path, Reason: err.Error()}
	}
	if info.IsDir() {
		return &errs.ScannerNotFoundError{Path: path, Reason: "path is a directory"}
	}
	if err := files.ValidatePath(path); err != nil {
		return &errs.ScannerNotFoundError{Path: path, Reason: err.Error()}
	}
	return nil
}

// ValidateScanTarget checks that the project directory to scan exists.
func ValidateScanTarget(projectDir string) error {
	if projectDir == "" {
		return &errs.ConfigurationError{Missing: []string{"project path"}}
	}
	if err := files.ValidateDir(projectDir); err != nil {
		return errs.NewConfigurationError("project path %q is not usable: %v", projectDir, err)
	}
	return nil
}
