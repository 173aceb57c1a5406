package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/charmbracelet/shelf/internal/log"
	"github.com/qjebbs/go-jsons"
)

// Load reads and merges every config layer for workingDir, applies defaults
// and environment overrides, and sets up logging.
func Load(workingDir string, debug bool) (*Config, error) {
	configPaths := lookupConfigs(workingDir)

	cfg, err := loadFromConfigPaths(configPaths)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from paths %v: %w", configPaths, err)
	}

	cfg.dataConfigDir = GlobalConfigData()
	cfg.setDefaults(workingDir)
	cfg.applyEnv()

	if debug {
		cfg.Options.Debug = true
	}

	log.Setup(cfg.LogFile(), cfg.Options.Debug)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	slog.Debug("Loaded configuration", "paths", configPaths, "catalog", cfg.Catalog)
	return cfg, nil
}

func (c *Config) setDefaults(workingDir string) {
	c.workingDir = workingDir
	if c.Options == nil {
		c.Options = &Options{}
	}
	if c.Options.DataDirectory == "" {
		c.Options.DataDirectory = filepath.Join(workingDir, defaultDataDirectory)
	} else if !filepath.IsAbs(c.Options.DataDirectory) {
		c.Options.DataDirectory = filepath.Join(workingDir, c.Options.DataDirectory)
	}
	if c.Options.ItemHeight == 0 {
		c.Options.ItemHeight = defaultItemHeight
	}
	if c.Options.Thumbnails == nil {
		c.Options.Thumbnails = &ThumbnailOptions{}
	}
	if c.Options.Thumbnails.Width == 0 {
		c.Options.Thumbnails.Width = defaultThumbWidth
	}
	if c.Options.Thumbnails.RootMargin == "" {
		c.Options.Thumbnails.RootMargin = defaultRootMargin
	}
	if c.Catalog != "" && !filepath.IsAbs(c.Catalog) {
		c.Catalog = filepath.Join(workingDir, c.Catalog)
	}
	if c.Images != "" && !filepath.IsAbs(c.Images) {
		c.Images = filepath.Join(workingDir, c.Images)
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SHELF_CATALOG"); v != "" {
		c.Catalog = v
	}
	if v := os.Getenv("SHELF_DEBUG"); v != "" {
		if debug, err := strconv.ParseBool(v); err == nil {
			c.Options.Debug = debug
		}
	}
}

func lookupConfigs(cwd string) []string {
	// prepend default config paths
	configPaths := []string{
		GlobalConfig(),
		GlobalConfigData(),
	}
	for _, name := range []string{
		fmt.Sprintf("%s.json", appName),
		fmt.Sprintf(".%s.json", appName),
	} {
		configPaths = append(configPaths, filepath.Join(cwd, name))
	}
	return configPaths
}

func loadFromConfigPaths(configPaths []string) (*Config, error) {
	var configs []io.Reader

	for _, path := range configPaths {
		fd, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to open config file %s: %w", path, err)
		}
		defer fd.Close()

		configs = append(configs, fd)
	}

	return loadFromReaders(configs)
}

func loadFromReaders(readers []io.Reader) (*Config, error) {
	if len(readers) == 0 {
		return &Config{}, nil
	}

	merged, err := jsons.Merge(readers)
	if err != nil {
		return nil, fmt.Errorf("failed to merge configuration readers: %w", err)
	}

	return LoadReader(bytes.NewReader(merged))
}

// LoadReader decodes a single JSON config.
func LoadReader(fd io.Reader) (*Config, error) {
	data, err := io.ReadAll(fd)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

// GlobalConfig returns the global configuration file path for the application.
func GlobalConfig() string {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, appName, fmt.Sprintf("%s.json", appName))
	}

	// return the path to the main config directory
	// for windows, it should be in `%LOCALAPPDATA%/shelf/`
	// for linux and macOS, it should be in `$HOME/.config/shelf/`
	if runtime.GOOS == "windows" {
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			localAppData = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Local")
		}
		return filepath.Join(localAppData, appName, fmt.Sprintf("%s.json", appName))
	}

	return filepath.Join(os.Getenv("HOME"), ".config", appName, fmt.Sprintf("%s.json", appName))
}

// GlobalConfigData returns the path to the main data directory for the application.
// this config is used when the app overrides configurations instead of updating the global config.
func GlobalConfigData() string {
	if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
		return filepath.Join(xdgDataHome, appName, fmt.Sprintf("%s.json", appName))
	}

	// return the path to the main data directory
	// for windows, it should be in `%LOCALAPPDATA%/shelf/`
	// for linux and macOS, it should be in `$HOME/.local/share/shelf/`
	if runtime.GOOS == "windows" {
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			localAppData = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Local")
		}
		return filepath.Join(localAppData, appName, fmt.Sprintf("%s.json", appName))
	}

	return filepath.Join(os.Getenv("HOME"), ".local", "share", appName, fmt.Sprintf("%s.json", appName))
}

// Default returns a config with every default applied, as if no config file
// existed.
func Default(workingDir string) *Config {
	cfg := &Config{dataConfigDir: GlobalConfigData()}
	cfg.setDefaults(workingDir)
	return cfg
}
