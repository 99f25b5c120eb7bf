package config

// Environment variables and env-file keys understood by the resolver.
const (
	EnvHostURL     = "SONAR_HOST_URL"
	EnvToken       = "SONAR_TOKEN"
	EnvScannerPath = "SONAR_SCANNER_PATH"
	EnvProjectKey  = "SONAR_PROJECT_KEY"
	EnvProjectDir  = "SONAR_PROJECT_DIR"
	EnvOutputDir   = "SONAR_OUTPUT_DIR"
	EnvUsername    = "SONAR_USERNAME"
	EnvEnvFile     = "SONAR_ENV_FILE"
	EnvLogLevel    = "SONAR_REPORTER_LOG_LEVEL"
)

// DefaultEnvFile is the key=value fallback file read from the working directory.
const DefaultEnvFile = ".env"
