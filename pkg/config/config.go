/*
Package config manages TOML config for BarServe services.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/barserve/internal/utils"
)

// Config holds the entire config structure
type Config struct {
	Selection SelectionConfig   `toml:"selection"`
	Keyword   KeywordConfig     `toml:"keyword"`
	Data      DataConfig        `toml:"data"`
	CLI       CliConfig         `toml:"cli"`
	Engines   map[string]string `toml:"engines"`
}

// SelectionConfig has selection controller options.
type SelectionConfig struct {
	MaxWaitMs int `toml:"max_wait_ms"`
}

// KeywordConfig holds shortcut cache options.
type KeywordConfig struct {
	Prewarm bool `toml:"prewarm"`
}

// DataConfig holds data file locations.
type DataConfig struct {
	Dir           string `toml:"dir"`
	HistoryFile   string `toml:"history_file"`
	ShortcutsFile string `toml:"shortcuts_file"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultLimit int `toml:"default_limit"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Selection: SelectionConfig{
			MaxWaitMs: 350,
		},
		Keyword: KeywordConfig{
			Prewarm: true,
		},
		Data: DataConfig{
			Dir:           "data/",
			HistoryFile:   "history.mpack",
			ShortcutsFile: "shortcuts.mpack",
		},
		CLI: CliConfig{
			DefaultLimit: 10,
		},
	}
}

// Validate clamps out-of-range values back to defaults.
func (c *Config) Validate() {
	def := DefaultConfig()
	if c.Selection.MaxWaitMs <= 0 {
		c.Selection.MaxWaitMs = def.Selection.MaxWaitMs
	}
	if c.CLI.DefaultLimit < 1 {
		c.CLI.DefaultLimit = def.CLI.DefaultLimit
	}
	if c.Data.HistoryFile == "" {
		c.Data.HistoryFile = def.Data.HistoryFile
	}
	if c.Data.ShortcutsFile == "" {
		c.Data.ShortcutsFile = def.Data.ShortcutsFile
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path under the resolved config dir
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath, defaultPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	config.Validate()
	return config, nil
}

// tryPartialParse salvages valid sections from a broken TOML file.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "selection"); ok {
		if val, ok := utils.ExtractInt64(section, "max_wait_ms"); ok {
			config.Selection.MaxWaitMs = val
		}
	}
	if section, ok := utils.ExtractSection(tempConfig, "keyword"); ok {
		if val, ok := utils.ExtractBool(section, "prewarm"); ok {
			config.Keyword.Prewarm = val
		}
	}
	if section, ok := utils.ExtractSection(tempConfig, "data"); ok {
		if val, ok := utils.ExtractString(section, "dir"); ok {
			config.Data.Dir = val
		}
		if val, ok := utils.ExtractString(section, "history_file"); ok {
			config.Data.HistoryFile = val
		}
		if val, ok := utils.ExtractString(section, "shortcuts_file"); ok {
			config.Data.ShortcutsFile = val
		}
	}
	if section, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		if val, ok := utils.ExtractInt64(section, "default_limit"); ok {
			config.CLI.DefaultLimit = val
		}
	}
	if section, ok := utils.ExtractSection(tempConfig, "engines"); ok {
		config.Engines = make(map[string]string, len(section))
		for alias, v := range section {
			if u, ok := v.(string); ok {
				config.Engines[alias] = u
			}
		}
	}
	config.Validate()
	return config, nil
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}
