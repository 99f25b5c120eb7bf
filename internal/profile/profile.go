// Package profile classifies a project to choose how the scanner is invoked.
package profile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	errs "github.com/scan-io-git/sonar-reporter/pkg/shared/errors"
)

// ManifestFile is the manifest looked up at the project root.
const ManifestFile = "pubspec.yaml"

// FlutterMarker marks a Flutter project when a trimmed manifest line starts with it.
const FlutterMarker = "flutter:"

// Profile is the scan profile of a project.
type Profile int

const (
	// ProfileGeneric scans the whole project path as the source root.
	ProfileGeneric Profile = iota
	// ProfileFlutter scans lib/ and test/ of a Flutter project.
	ProfileFlutter
)

// String returns the human-readable name of the profile.
func (p Profile) String() string {
	switch p {
	case ProfileFlutter:
		return "flutter"
	default:
		return "generic"
	}
}

// Parse converts a profile name into a Profile.
func Parse(raw string) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "generic":
		return ProfileGeneric, nil
	case "flutter":
		return ProfileFlutter, nil
	default:
		return ProfileGeneric, fmt.Errorf("unsupported profile %q", raw)
	}
}

// Classify inspects the project manifest and returns the matching profile.
// A missing manifest is not an error. Any other read or decode failure is a
// *errors.ManifestReadError and comes with ProfileGeneric.
func Classify(projectDir string) (Profile, error) {
	path := filepath.Join(projectDir, ManifestFile)

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ProfileGeneric, nil
		}
		return ProfileGeneric, &errs.ManifestReadError{Path: path, Err: err}
	}

	content, err := decodeManifest(raw)
	if err != nil {
		return ProfileGeneric, &errs.ManifestReadError{Path: path, Err: err}
	}

	if hasMarker(content, FlutterMarker) {
		return ProfileFlutter, nil
	}
	return ProfileGeneric, nil
}

// Detect classifies the project and logs manifest failures instead of returning them.
func Detect(logger hclog.Logger, projectDir string) Profile {
	p, err := Classify(projectDir)
	if err != nil {
		logger.Warn("manifest could not be read, using generic profile", "error", err)
		return ProfileGeneric
	}
	logger.Debug("project classified", "projectDir", projectDir, "profile", p.String())
	return p
}

// decodeManifest honours a UTF-8 or UTF-16 byte order mark and rejects invalid UTF-8.
func decodeManifest(raw []byte) (string, error) {
	decoder := transform.Chain(unicode.BOMOverride(transform.Nop), encoding.UTF8Validator)
	out, _, err := transform.Bytes(decoder, raw)
	if err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}
	return string(out), nil
}

func hasMarker(content, marker string) bool {
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), marker) {
			return true
		}
	}
	return false
}
