package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/reoring/lossy"
	"gopkg.in/yaml.v3"
)

// config is the optional YAML file passed with -config. Flags given on the
// command line override it.
type config struct {
	Format        string `yaml:"format"`         // json or yaml
	Driver        string `yaml:"driver"`         // goccy or std
	DuplicateKeys string `yaml:"duplicate_keys"` // ignore, warn or error
	MaxDepth      int    `yaml:"max_depth"`
	MaxBytes      int64  `yaml:"max_bytes"`
	Debug         bool   `yaml:"debug"`
	LogLevel      string `yaml:"log_level"`
}

func loadConfig(path string) (config, error) {
	var cfg config
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c config) decodeOpt() (lossy.DecodeOpt, error) {
	sev, err := parseSeverity(c.DuplicateKeys)
	if err != nil {
		return lossy.DecodeOpt{}, err
	}
	return lossy.DecodeOpt{
		Strictness: lossy.Strictness{OnDuplicateKey: sev},
		MaxDepth:   c.MaxDepth,
		MaxBytes:   c.MaxBytes,
		Debug:      c.Debug,
	}, nil
}

func parseSeverity(s string) (lossy.Severity, error) {
	switch strings.ToLower(s) {
	case "", "ignore":
		return lossy.Ignore, nil
	case "warn":
		return lossy.Warn, nil
	case "error":
		return lossy.Error, nil
	}
	return lossy.Ignore, fmt.Errorf("unknown duplicate key policy %q", s)
}

func driverFor(name string) (lossy.JSONDriver, error) {
	switch strings.ToLower(name) {
	case "", "goccy":
		return lossy.GoJSONDriver(), nil
	case "std":
		return lossy.StdJSONDriver(), nil
	}
	return nil, fmt.Errorf("unknown json driver %q", name)
}
