// Package config loads user settings for the lox command.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// RelPath is the location of the config file inside the XDG config directories.
var RelPath = filepath.Join("lox", "config.yaml")

type Config struct {
	// Prompt is shown before each REPL line.
	Prompt string `yaml:"prompt"`
	// HistoryFile keeps REPL history between sessions. Empty disables history.
	HistoryFile string `yaml:"history_file"`
	DumpTokens  bool   `yaml:"dump_tokens"`
	DumpAST     bool   `yaml:"dump_ast"`
	// DumpEnv prints the global bindings after a successful run.
	DumpEnv     bool   `yaml:"dump_env"`
}

func Default() Config {
	return Config{
		Prompt:      "> ",
		HistoryFile: filepath.Join(xdg.DataHome, "lox", ".lox_history"),
	}
}

// Load reads the config at path.
// With an empty path it searches the XDG config directories and falls back to Default.
func Load(path string) (Config, error) {
	if path == "" {
		found, err := xdg.SearchConfigFile(RelPath)
		if err != nil {
			return Default(), nil
		}
		path = found
	}

	file, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	cfg, err := Decode(file)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads YAML on top of Default. Unknown keys are errors.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}
