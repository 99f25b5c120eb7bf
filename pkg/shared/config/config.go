package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v2"
)

// DefaultConfigFile is the global YAML configuration looked up when --config is not given.
const DefaultConfigFile = "config.yml"

// ErrConfigNotFound is returned when the YAML configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// Config is the global YAML configuration. Every section is optional.
type Config struct {
	Logger     Logger     `yaml:"logger"`
	HTTPClient HTTPClient `yaml:"http_client"`
	Scanner    Scanner    `yaml:"scanner"`
	Report     Report     `yaml:"report"`
}

type Logger struct {
	Level       string `yaml:"level"`
	JSONFormat  *bool  `yaml:"json_format"`
	DisableTime *bool  `yaml:"disable_time"`
}

type HTTPClient struct {
	Debug           *bool           `yaml:"debug"`
	Timeout         time.Duration   `yaml:"timeout"`
	TLSClientConfig TLSClientConfig `yaml:"tls_client_config"`
	Proxy           Proxy           `yaml:"proxy"`
}

type TLSClientConfig struct {
	Verify *bool `yaml:"verify"`
}

type Proxy struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Scanner holds settings for the external scanner process.
type Scanner struct {
	// Timeout bounds the scanner run. Zero means wait until the scanner exits.
	Timeout time.Duration `yaml:"timeout"`
}

// Report holds settings for the CSV writer.
type Report struct {
	// MissingValue is written for catalog metrics absent from the server response.
	MissingValue string `yaml:"missing_value"`
}

func ValidateConfigPath(path string) error {
	s, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return err
	}
	if s.IsDir() {
		return fmt.Errorf("'%s' is a directory, not a file", path)
	}
	return nil
}

func LoadYAML(configPath string, data interface{}) error {
	if err := ValidateConfigPath(configPath); err != nil {
		return err
	}

	file, err := os.Open(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	d := yaml.NewDecoder(file)
	if err := d.Decode(data); err != nil {
		return fmt.Errorf("failed to decode %q: %w", configPath, err)
	}

	return nil
}

// LoadConfig reads the YAML configuration at configPath.
// A missing file yields ErrConfigNotFound so callers can fall back to defaults.
func LoadConfig(configPath string) (*Config, error) {
	cfg := &Config{}

	if err := LoadYAML(configPath, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
