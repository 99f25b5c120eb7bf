package scanner

import (
	"fmt"
	"strings"

	"github.com/scan-io-git/sonar-reporter/internal/profile"
	"github.com/scan-io-git/sonar-reporter/pkg/shared/config"
)

// Fixed properties passed for Flutter projects.
const (
	FlutterProjectName    = "flutter_project"
	FlutterProjectVersion = "1.0"
	FlutterSourceEncoding = "UTF-8"
	FlutterSources        = "lib"
	FlutterTests          = "test"
)

const tokenProperty = "sonar.login"

func property(key, value string) string {
	return fmt.Sprintf("-D%s=%s", key, value)
}

// BuildArgs constructs the scanner command-line arguments for the given profile.
func BuildArgs(p profile.Profile, cfg config.RunConfig) []string {
	var commandArgs []string

	appendArg := func(arg ...string) {
		commandArgs = append(commandArgs, arg...)
	}

	appendArg(property("sonar.projectKey", cfg.ProjectKey))

	switch p {
	case profile.ProfileFlutter:
		appendArg(
			property("sonar.projectName", FlutterProjectName),
			property("sonar.projectVersion", FlutterProjectVersion),
			property("sonar.sourceEncoding", FlutterSourceEncoding),
			property("sonar.sources", FlutterSources),
			property("sonar.tests", FlutterTests),
			property("sonar.projectBaseDir", cfg.ProjectDir),
		)
	default:
		appendArg(property("sonar.sources", cfg.ProjectDir))
	}

	appendArg(
		property("sonar.host.url", cfg.ServerURL),
		property(tokenProperty, cfg.Token),
	)

	return commandArgs
}

// redactArgs masks the token so arguments can be logged.
func redactArgs(args []string) []string {
	prefix := "-D" + tokenProperty + "="
	out := make([]string, len(args))
	for i, arg := range args {
		if strings.HasPrefix(arg, prefix) {
			arg = prefix + "****"
		}
		out[i] = arg
	}
	return out
}
