package util

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	DefaultPrompt      = ">> "
	DefaultHistoryFile = ".hexi_history"
	ConfigFileName     = "hexi.toml"
)

type Configuration struct {
	Version   string `toml:"-"`
	BuildDate string `toml:"-"`
	Commit    string `toml:"-"`

	HexiHome    string   `toml:"-"`
	LogLevel    string   `toml:"log_level"`
	LogFile     string   `toml:"log_file"`
	Prompt      string   `toml:"prompt"`
	HistoryFile string   `toml:"history_file"`
	Preload     []string `toml:"preload"` // optional modules included before the program runs
	DebugAST    bool     `toml:"debug_ast"`
}

func DefaultConfiguration() Configuration {
	return Configuration{
		LogLevel:    "error",
		Prompt:      DefaultPrompt,
		HistoryFile: DefaultHistoryFile,
	}
}

// LoadConfiguration decodes a TOML file over cfg. A missing file is not an
// error when the path was not given explicitly.
func LoadConfiguration(cfg Configuration, path string, explicit bool) (Configuration, error) {
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	return cfg, nil
}

// DefaultConfigPath is $HEXI_HOME/hexi.toml, or empty when HEXI_HOME is unset.
func DefaultConfigPath(home string) string {
	if home == "" {
		return ""
	}
	return filepath.Join(home, ConfigFileName)
}

// HistoryPath resolves a relative history file against the user's home directory.
func (c Configuration) HistoryPath() string {
	if c.HistoryFile == "" || filepath.IsAbs(c.HistoryFile) {
		return c.HistoryFile
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return c.HistoryFile
	}
	return filepath.Join(home, c.HistoryFile)
}
