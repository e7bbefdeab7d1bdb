// config.go — YAML project configuration.
//
// Tooling (the CLI and the language server) reads an optional `wscript.yaml`
// from the workspace root. Absence of the file is not an error; every field
// has a working default.
package wscript

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the conventional name looked up in a workspace root.
const ConfigFileName = "wscript.yaml"

// Config is the project-level configuration shared by all tools.
type Config struct {
	Parser     Options `yaml:"parser"`
	MaxErrors  int     `yaml:"maxErrors"`  // diagnostic cap per run
	KeepTrivia bool    `yaml:"keepTrivia"` // retain comment/whitespace tokens
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		Parser:    DefaultOptions(),
		MaxErrors: DefaultMaxErrors,
	}
}

// ParseConfig decodes YAML bytes over the defaults, so partial files only
// override what they mention.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parse config: %w", err)
	}
	if cfg.MaxErrors <= 0 {
		cfg.MaxErrors = DefaultMaxErrors
	}
	return cfg, nil
}

// LoadConfig reads path and decodes it. A missing file yields the defaults
// with a nil error; any other failure is returned.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return DefaultConfig(), fmt.Errorf("read config %s: %w", path, err)
	}
	return ParseConfig(data)
}
