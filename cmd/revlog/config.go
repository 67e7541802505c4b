package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/jpl-au/revlog"
	"gopkg.in/yaml.v3"
)

// Config is the optional YAML configuration file.
type Config struct {
	Compression string `yaml:"compression"` // none, zstd
	Hash        string `yaml:"hash"`        // rolling, xxh3, fnv1a, blake2b
	LogLevel    string `yaml:"log_level"`   // debug, info, warn, error
}

// loadConfig reads path. An empty path yields the defaults.
func loadConfig(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

var hashes = map[string]int{
	"":        revlog.AlgRolling,
	"rolling": revlog.AlgRolling,
	"xxh3":    revlog.AlgXXHash3,
	"fnv1a":   revlog.AlgFNV1a,
	"blake2b": revlog.AlgBlake2b,
}

var levels = map[string]slog.Level{
	"":      slog.LevelWarn,
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// store converts the file configuration into a revlog.Config.
func (c Config) store(logger *slog.Logger) (revlog.Config, error) {
	out := revlog.Config{Logger: logger}

	switch c.Compression {
	case "", "none":
	case "zstd":
		out.Compression = revlog.Zstd{}
	default:
		return out, fmt.Errorf("unknown compression %q", c.Compression)
	}

	alg, ok := hashes[c.Hash]
	if !ok {
		return out, fmt.Errorf("unknown hash %q", c.Hash)
	}
	out.HashAlgorithm = alg
	return out, nil
}

// level returns the configured slog level.
func (c Config) level() (slog.Level, error) {
	l, ok := levels[c.LogLevel]
	if !ok {
		return 0, fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	return l, nil
}
