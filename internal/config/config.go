// Package config loads the optional configuration file shared by the tools.
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"

	"gopkg.in/yaml.v2"
)

// DefaultNamespace prefixes every exported metric.
const DefaultNamespace = "gadi"

var namespacePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

type logConfig struct {
	JSON  bool   `yaml:"json" json:"json"`
	Level string `yaml:"level" json:"level"`
}

type metricsConfig struct {
	Textfile  string `yaml:"textfile" json:"textfile"`
	Namespace string `yaml:"namespace" json:"namespace"`
}

// Config -
type Config struct {
	Log        logConfig     `yaml:"log" json:"log"`
	Metrics    metricsConfig `yaml:"metrics" json:"metrics"`
	QueuesFile string        `yaml:"queues_file" json:"queues_file"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Log:     logConfig{Level: "warn"},
		Metrics: metricsConfig{Namespace: DefaultNamespace},
	}
}

func (c *logConfig) validate() error {
	switch c.Level {
	case "debug", "info", "warn", "error":
		return nil
	}
	return fmt.Errorf("unsupported key 'log.level' value '%s'", c.Level)
}

func (c *metricsConfig) validate() error {
	if !namespacePattern.MatchString(c.Namespace) {
		return fmt.Errorf("invalid key 'metrics.namespace' value '%s'", c.Namespace)
	}
	return nil
}

// Validate - Validate configuration object
func (c *Config) Validate() error {
	if err := c.Log.validate(); err != nil {
		return fmt.Errorf("invalid log configuration: %s", err)
	}
	if err := c.Metrics.validate(); err != nil {
		return fmt.Errorf("invalid metrics configuration: %s", err)
	}
	return nil
}

// Parse reads a yaml (or json) configuration on top of the defaults.
func Parse(file io.Reader) (*Config, error) {
	content, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("unable to read configuration file: %s", err)
	}
	config := Default()
	if err = yaml.Unmarshal(content, config); err != nil {
		config = Default()
		if jerr := json.Unmarshal(content, config); jerr != nil {
			return nil, fmt.Errorf("unable to read configuration yaml file: %s", err)
		}
	}
	if err = config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration, %s", err)
	}
	return config, nil
}

// Load parses the file at path, or returns the defaults when path is empty.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open configuration file: %s", err)
	}
	defer f.Close()
	return Parse(f)
}
